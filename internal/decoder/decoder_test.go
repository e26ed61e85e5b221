package decoder

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yawning/x11trace/internal/atomtable"
	"github.com/yawning/x11trace/internal/buffer"
	"github.com/yawning/x11trace/internal/conn"
	"github.com/yawning/x11trace/internal/proto"
	"github.com/yawning/x11trace/internal/wire"
)

// fill pushes data into buf via a real pipe, since buffer.Buffer only fills
// through ReadFrom(fd).
func fill(t *testing.T, buf *buffer.Buffer, data []byte) {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()

	go func() {
		w.Write(data)
		w.Close()
	}()

	for buf.Size() < len(data) {
		res := buf.ReadFrom(int(r.Fd()))
		require.Equal(t, buffer.OK, res.Kind)
	}
}

func newDecoder() *Decoder {
	return New(atomtable.New(), &proto.RenderOpts{})
}

func u16(o wire.Order, v uint16) []byte {
	b := make([]byte, 2)
	o.PutUint16(b, v)
	return b
}

func u32(o wire.Order, v uint32) []byte {
	b := make([]byte, 4)
	o.PutUint32(b, v)
	return b
}

func TestDecodeInitiationTransitionsToAwaitingResponse(t *testing.T) {
	o := wire.NewOrder(false)
	raw := []byte{0x6c, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0} // 'l', major (set below), minor=0, authname=0, authdata=0
	copy(raw[2:4], u16(o, 11))

	c := conn.New(1, 3, 4, "")
	fill(t, c.ClientBuffer, raw)

	d := newDecoder()
	recs := d.DecodeClientBytes(c)
	require.Len(t, recs, 1)
	require.Contains(t, recs[0].Line, "Initiation ClientHandshake")
	require.Equal(t, conn.AwaitingResponse, c.Status)
	require.True(t, c.ClientBuffer.Empty())
}

func TestDecodeInitiationWaitsForMoreBytes(t *testing.T) {
	c := conn.New(1, 3, 4, "")
	fill(t, c.ClientBuffer, []byte{0x6c, 0, 0, 0})

	d := newDecoder()
	recs := d.DecodeClientBytes(c)
	require.Nil(t, recs)
	require.Equal(t, conn.AwaitingInitiation, c.Status)
}

func TestDecodeResponseSuccessOpensConnection(t *testing.T) {
	o := wire.NewOrder(false)
	raw := make([]byte, 40)
	raw[0] = 1 // Success
	copy(raw[2:4], u16(o, 11))
	copy(raw[6:8], u16(o, 8)) // (40-8)/4 additional units

	c := conn.New(1, 3, 4, "")
	c.Status = conn.AwaitingResponse
	fill(t, c.ServerBuffer, raw)

	d := newDecoder()
	recs := d.DecodeServerBytes(c)
	require.Len(t, recs, 1)
	require.Contains(t, recs[0].Line, "Response ServerHandshake")
	require.Contains(t, recs[0].Line, "Success(1)")
	require.Equal(t, conn.Open, c.Status)
}

func TestDecodeResponseFailedMarksFailed(t *testing.T) {
	o := wire.NewOrder(false)
	raw := make([]byte, 8)
	raw[0] = 0
	copy(raw[2:4], u16(o, 11))
	copy(raw[6:8], u16(o, 0))

	c := conn.New(1, 3, 4, "")
	c.Status = conn.AwaitingResponse
	fill(t, c.ServerBuffer, raw)

	d := newDecoder()
	recs := d.DecodeServerBytes(c)
	require.Len(t, recs, 1)
	require.Equal(t, conn.Failed, c.Status)
}

// internAtomRequest builds a full InternAtom request message: opcode 16,
// only-if-exists=false, name padded to a 4-byte boundary.
func internAtomRequest(o wire.Order, name string) []byte {
	padded := wire.Pad(len(name))
	body := make([]byte, 4+padded)
	copy(body[0:2], u16(o, uint16(len(name))))
	copy(body[4:4+len(name)], name)

	total := 4 + len(body)
	raw := make([]byte, total)
	raw[0] = 16
	raw[1] = 0
	copy(raw[2:4], u16(o, uint16(total/4)))
	copy(raw[4:], body)
	return raw
}

func TestDecodeRequestInternAtomStashesName(t *testing.T) {
	o := wire.NewOrder(false)
	raw := internAtomRequest(o, "FOO")

	c := conn.New(7, 3, 4, "")
	c.Status = conn.Open
	fill(t, c.ClientBuffer, raw)

	d := newDecoder()
	recs := d.DecodeClientBytes(c)
	require.Len(t, recs, 1)
	require.Contains(t, recs[0].Line, "Request InternAtom")
	require.Equal(t, uint16(1), recs[0].Seq)
	require.Equal(t, byte(16), c.PendingOpcodes[1])

	name, ok := d.stash[stashKey{7, 1}]
	require.True(t, ok)
	require.Equal(t, "FOO", name)
}

// internAtomReply builds a full 32-byte InternAtom reply for the given
// sequence number and atom id.
func internAtomReply(o wire.Order, seq uint16, atomID uint32) []byte {
	raw := make([]byte, 32)
	raw[0] = 1
	copy(raw[2:4], u16(o, seq))
	// extra length units (bytes 4:8) stay zero: InternAtom's reply has no
	// trailing variable section.
	copy(raw[8:12], u32(o, atomID))
	return raw
}

func TestDecodeReplyInternsAtomBeforeRendering(t *testing.T) {
	o := wire.NewOrder(false)
	c := conn.New(7, 3, 4, "")
	c.Status = conn.Open
	d := newDecoder()

	fill(t, c.ClientBuffer, internAtomRequest(o, "FOO"))
	reqRecs := d.DecodeClientBytes(c)
	require.Len(t, reqRecs, 1)
	seq := reqRecs[0].Seq

	fill(t, c.ServerBuffer, internAtomReply(o, seq, 99))
	replyRecs := d.DecodeServerBytes(c)
	require.Len(t, replyRecs, 1)
	require.Contains(t, replyRecs[0].Line, `"FOO"(99)`)

	name, ok := d.Opts.Atoms.Lookup(99)
	require.True(t, ok)
	require.Equal(t, "FOO", name)

	_, stashed := d.stash[stashKey{7, seq}]
	require.False(t, stashed)
}

func TestDecodeReplyUnknownSequenceIsReported(t *testing.T) {
	o := wire.NewOrder(false)
	c := conn.New(1, 3, 4, "")
	c.Status = conn.Open
	d := newDecoder()

	fill(t, c.ServerBuffer, internAtomReply(o, 5, 42))
	recs := d.DecodeServerBytes(c)
	require.Len(t, recs, 1)
	require.Contains(t, recs[0].Line, "Reply unknown")
}

func TestDecodeEventRenders(t *testing.T) {
	o := wire.NewOrder(false)
	raw := make([]byte, 32)
	raw[0] = 12 // Expose
	copy(raw[2:4], u16(o, 3))
	copy(raw[4:8], u32(o, 0xaa)) // window

	c := conn.New(1, 3, 4, "")
	c.Status = conn.Open
	fill(t, c.ServerBuffer, raw)

	d := newDecoder()
	recs := d.DecodeServerBytes(c)
	require.Len(t, recs, 1)
	require.Contains(t, recs[0].Line, "Event Expose")
	require.Equal(t, uint16(3), recs[0].Seq)
}

func TestDecodeEventSyntheticBitSurfaced(t *testing.T) {
	o := wire.NewOrder(false)
	raw := make([]byte, 32)
	raw[0] = 12 | 0x80
	copy(raw[2:4], u16(o, 1))

	c := conn.New(1, 3, 4, "")
	c.Status = conn.Open
	fill(t, c.ServerBuffer, raw)

	d := newDecoder()
	recs := d.DecodeServerBytes(c)
	require.Len(t, recs, 1)
	require.Contains(t, recs[0].Line, "synthetic = True")
}

func TestDecodeErrorCarriesRequestName(t *testing.T) {
	o := wire.NewOrder(false)
	c := conn.New(1, 3, 4, "")
	c.Status = conn.Open
	d := newDecoder()

	fill(t, c.ClientBuffer, internAtomRequest(o, "FOO"))
	reqRecs := d.DecodeClientBytes(c)
	seq := reqRecs[0].Seq

	raw := make([]byte, 32)
	raw[0] = 0
	raw[1] = 5 // AtomError
	copy(raw[2:4], u16(o, seq))

	fill(t, c.ServerBuffer, raw)
	recs := d.DecodeServerBytes(c)
	require.Len(t, recs, 1)
	require.Contains(t, recs[0].Line, "request = InternAtom")
}

func TestDecodeRequestsHandlesMultipleInOneBuffer(t *testing.T) {
	o := wire.NewOrder(false)
	var raw []byte
	raw = append(raw, internAtomRequest(o, "FOO")...)
	raw = append(raw, internAtomRequest(o, "BAR")...)

	c := conn.New(1, 3, 4, "")
	c.Status = conn.Open
	fill(t, c.ClientBuffer, raw)

	d := newDecoder()
	recs := d.DecodeClientBytes(c)
	require.Len(t, recs, 2)
	require.Equal(t, uint16(1), recs[0].Seq)
	require.Equal(t, uint16(2), recs[1].Seq)
	require.True(t, c.ClientBuffer.Empty())
}

func TestDecodeRequestWaitsForFullBody(t *testing.T) {
	o := wire.NewOrder(false)
	full := internAtomRequest(o, "FOO")

	c := conn.New(1, 3, 4, "")
	c.Status = conn.Open
	fill(t, c.ClientBuffer, full[:len(full)-2])

	d := newDecoder()
	recs := d.DecodeClientBytes(c)
	require.Nil(t, recs)
}

func TestUnquoteString8RoundTrips(t *testing.T) {
	for _, s := range []string{"FOO", `with "quotes" and \backslash`, "tab\tnewline\n"} {
		quoted := proto.QuoteString8([]byte(s))
		require.Equal(t, s, unquoteString8(quoted))
	}
}

func TestRenderIncludesPrefixAndBody(t *testing.T) {
	c := conn.New(2, 3, 4, "")
	d := newDecoder()
	msg := proto.Message{Kind: "Request", Name: "MapWindow", Code: 8}
	rec := d.render(c, '<', 12, 5, msg)
	require.True(t, strings.HasPrefix(rec.Line, "C2:12B:<:S5: "))
	require.Contains(t, rec.Line, "MapWindow(8)")
}
