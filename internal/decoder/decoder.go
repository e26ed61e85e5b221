// Package decoder implements the Decoder's public contract (spec.md §4.E):
// decode_client_bytes / decode_server_bytes entrypoints that consume zero
// or more complete framed messages from the front of a Connection's
// buffers and render each as a Record ready for the logging layer.
package decoder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yawning/x11trace/internal/atomtable"
	"github.com/yawning/x11trace/internal/conn"
	"github.com/yawning/x11trace/internal/proto"
	"github.com/yawning/x11trace/internal/wire"
)

// internAtomOpcode is the core request opcode whose reply needs the
// request's own name argument (spec.md §3 "Request stash").
const internAtomOpcode = 16

// Record is one fully-rendered log line plus the structured fields a
// logging sink needs to reproduce spec.md §6's record prefix.
type Record struct {
	ConnID int
	Bytes  int
	Dir    byte // '<' client-to-server, '>' server-to-client
	Seq    uint16
	Line   string
}

// stashKey identifies one in-flight request's stashed argument, scoped by
// connection since sequence numbers are per-connection (spec.md §3
// "Request stash").
type stashKey struct {
	connID int
	seq    uint16
}

// Decoder holds the process-wide state the protocol catalogue in
// internal/proto can't itself own: the atom table and the InternAtom name
// stash (spec.md §3 "Atom table", "Request stash"; §9 "Shared
// request/reply context").
type Decoder struct {
	Opts  *proto.RenderOpts
	stash map[stashKey]string
}

// New builds a Decoder sharing atoms (typically seeded once at process
// start and optionally grown by internal/bootstrap's atom prefetch).
func New(atoms *atomtable.Table, opts *proto.RenderOpts) *Decoder {
	o := *opts
	o.Atoms = atoms
	return &Decoder{Opts: &o, stash: make(map[stashKey]string, 64)}
}

// DecodeClientBytes consumes complete framed messages from c.ClientBuffer,
// dispatching on c.Status per spec.md §4.D/§4.E.
func (d *Decoder) DecodeClientBytes(c *conn.Connection) []Record {
	switch c.Status {
	case conn.AwaitingInitiation:
		return d.decodeInitiation(c)
	case conn.Open:
		return d.decodeRequests(c)
	default:
		// AwaitingResponse: the client has nothing further to say until
		// the server's Response arrives; Failed/Authentication connections
		// are closed by the caller before more bytes would be parsed.
		return nil
	}
}

// DecodeServerBytes consumes complete framed messages from c.ServerBuffer.
func (d *Decoder) DecodeServerBytes(c *conn.Connection) []Record {
	switch c.Status {
	case conn.AwaitingResponse:
		return d.decodeResponse(c)
	case conn.Open:
		return d.decodeServerMessages(c)
	default:
		return nil
	}
}

func (d *Decoder) decodeInitiation(c *conn.Connection) []Record {
	buf := c.ClientBuffer
	if buf.Size() < 12 {
		return nil
	}
	header := buf.Peek(12)
	var swap bool
	switch header[0] {
	case 0x42: // 'B', MSBFirst
		swap = wire.HostIsLittleEndian()
	case 0x6c: // 'l', LSBFirst
		swap = !wire.HostIsLittleEndian()
	default:
		return []Record{d.malformed(c, '<', buf.Size(), "unrecognized byte-order octet")}
	}
	o := wire.NewOrder(swap)

	nameLen := int(o.Uint16(header[6:8]))
	dataLen := int(o.Uint16(header[8:10]))
	total := 12 + wire.Pad(nameLen) + wire.Pad(dataLen)
	if buf.Size() < total {
		return nil
	}

	raw := buf.Peek(total)
	msg := proto.DecodeInitiation(o, raw, d.Opts)
	c.Byteswap = swap
	c.Status = conn.AwaitingResponse
	rec := d.render(c, '<', total, 0, msg)
	buf.Consume(total)
	return []Record{rec}
}

func (d *Decoder) decodeResponse(c *conn.Connection) []Record {
	buf := c.ServerBuffer
	if buf.Size() < 8 {
		return nil
	}
	o := c.Order()
	header := buf.Peek(8)
	status := header[0]
	units := int(o.Uint16(header[6:8]))

	// Failed, Authenticate, and Success responses all carry their
	// trailing-data length in the same header[6:8] word, in 4-byte units.
	total := 8 + units*4
	if buf.Size() < total {
		return nil
	}

	raw := buf.Peek(total)
	msg := proto.DecodeResponse(o, raw, d.Opts)
	switch status {
	case 0:
		c.Status = conn.Failed
	case 2:
		c.Status = conn.Authentication
	default:
		c.Status = conn.Open
	}
	rec := d.render(c, '>', total, 0, msg)
	buf.Consume(total)
	return []Record{rec}
}

func (d *Decoder) decodeRequests(c *conn.Connection) []Record {
	var out []Record
	buf := c.ClientBuffer
	o := c.Order()

	for {
		if buf.Size() < 4 {
			return out
		}
		preamble := buf.Peek(4)
		opcode := preamble[0]
		minor := preamble[1]
		length := o.Uint16(preamble[2:4])

		headerSize := 4
		var total int
		if length == 0 {
			// BIG-REQUESTS: a following CARD32 carries the real length in
			// 4-byte units (spec.md §4.E "Request"); decoded opaquely.
			if buf.Size() < 8 {
				return out
			}
			ext := buf.Peek(8)
			total = int(o.Uint32(ext[4:8])) * 4
			headerSize = 8
		} else {
			total = int(length) * 4
		}
		if total < headerSize {
			out = append(out, d.malformed(c, '<', buf.Size(), "request length shorter than its own header"))
			return out
		}
		if buf.Size() < total {
			return out
		}

		raw := buf.Peek(total)
		body := raw[headerSize:]
		seq := c.NextSequence()
		c.PendingOpcodes[seq] = opcode

		var msg proto.Message
		if req, ok := proto.Requests[opcode]; ok {
			fields := req.ParseBody(o, minor, body, d.Opts)
			if opcode == internAtomOpcode {
				if name, ok := findField(fields, "name"); ok {
					d.stash[stashKey{c.ID, seq}] = unquoteString8(name)
				}
			}
			msg = proto.Message{Kind: "Request", Name: req.Name, Code: int(opcode), Fields: fields}
		} else {
			msg = proto.Message{Kind: "Request", Name: fmt.Sprintf("Unknown(%d)", opcode), Code: int(opcode)}
		}

		out = append(out, d.render(c, '<', total, seq, msg))
		buf.Consume(total)
	}
}

func (d *Decoder) decodeServerMessages(c *conn.Connection) []Record {
	var out []Record
	buf := c.ServerBuffer
	o := c.Order()

	for {
		if buf.Size() < 1 {
			return out
		}
		switch first := buf.Peek(1)[0]; {
		case first == 0:
			rec, ok := d.decodeOneError(c)
			if !ok {
				return out
			}
			out = append(out, rec)
		case first == 1:
			rec, ok := d.decodeOneReply(c)
			if !ok {
				return out
			}
			out = append(out, rec)
		default:
			rec, ok := d.decodeOneEvent(c)
			if !ok {
				return out
			}
			out = append(out, rec)
		}
	}
}

func (d *Decoder) decodeOneError(c *conn.Connection) (Record, bool) {
	buf := c.ServerBuffer
	if buf.Size() < 32 {
		return Record{}, false
	}
	o := c.Order()
	raw := buf.Peek(32)
	code := raw[1]
	seq := o.Uint16(raw[2:4])
	opcode, known := c.PendingOpcodes[seq]
	delete(c.PendingOpcodes, seq)

	msg := proto.DecodeError(o, code, raw[4:32], d.Opts)
	if known {
		msg.Fields = append(msg.Fields, proto.FieldValue{Name: "request", Value: requestName(opcode)})
	}
	rec := d.render(c, '>', 32, seq, msg)
	buf.Consume(32)
	return rec, true
}

func (d *Decoder) decodeOneEvent(c *conn.Connection) (Record, bool) {
	buf := c.ServerBuffer
	if buf.Size() < 32 {
		return Record{}, false
	}
	o := c.Order()
	raw := buf.Peek(32)
	seq := o.Uint16(raw[2:4])

	msg := proto.DecodeEvent(o, raw, d.Opts)
	rec := d.render(c, '>', 32, seq, msg)
	buf.Consume(32)
	return rec, true
}

func (d *Decoder) decodeOneReply(c *conn.Connection) (Record, bool) {
	buf := c.ServerBuffer
	if buf.Size() < 32 {
		return Record{}, false
	}
	o := c.Order()
	header := buf.Peek(32)
	extraUnits := o.Uint32(header[4:8])
	total := 32 + int(extraUnits)*4
	if buf.Size() < total {
		return Record{}, false
	}

	raw := buf.Peek(total)
	data1 := raw[1]
	seq := o.Uint16(raw[2:4])
	body := raw[8:total]

	opcode, known := c.PendingOpcodes[seq]
	delete(c.PendingOpcodes, seq)

	var msg proto.Message
	switch {
	case !known:
		msg = proto.Message{Kind: "Reply", Name: "unknown", Code: -1,
			Fields: []proto.FieldValue{{Name: "bytes", Value: strconv.Itoa(total)}}}
	default:
		reply, ok := proto.Replies[opcode]
		if !ok {
			msg = proto.Message{Kind: "Reply", Name: requestName(opcode), Code: int(opcode)}
			break
		}
		if opcode == internAtomOpcode && len(body) >= 4 {
			atomID := o.Uint32(body[0:4])
			if name, ok := d.stash[stashKey{c.ID, seq}]; ok {
				d.Opts.Atoms.Intern(atomID, name)
				delete(d.stash, stashKey{c.ID, seq})
			}
		}
		fields := reply.ParseBody(o, data1, body, d.Opts)
		msg = proto.Message{Kind: "Reply", Name: reply.Name, Code: int(opcode), Fields: fields}
	}

	rec := d.render(c, '>', total, seq, msg)
	buf.Consume(total)
	return rec, true
}

func (d *Decoder) render(c *conn.Connection, dir byte, nBytes int, seq uint16, msg proto.Message) Record {
	prefix := fmt.Sprintf("C%d:%dB:%c:S%d:", c.ID, nBytes, dir, seq)
	return Record{
		ConnID: c.ID,
		Bytes:  nBytes,
		Dir:    dir,
		Seq:    seq,
		Line:   prefix + " " + msg.Render(d.Opts),
	}
}

func (d *Decoder) malformed(c *conn.Connection, dir byte, nBytes int, reason string) Record {
	msg := proto.Message{Kind: "Malformed", Name: reason}
	return d.render(c, dir, nBytes, c.Sequence(), msg)
}

func requestName(opcode byte) string {
	if req, ok := proto.Requests[opcode]; ok {
		return req.Name
	}
	return fmt.Sprintf("Unknown(%d)", opcode)
}

func findField(fields []proto.FieldValue, name string) (string, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// unquoteString8 reverses proto.QuoteString8's rendering, for stashing a
// request's STRING8 argument by its already-rendered FieldValue instead of
// re-deriving the wire offset.
func unquoteString8(s string) string {
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case '"', '\\':
				b.WriteByte(s[i+1])
				i++
				continue
			case 'x':
				if i+3 < len(s) {
					if n, err := strconv.ParseUint(s[i+2:i+4], 16, 8); err == nil {
						b.WriteByte(byte(n))
						i += 3
						continue
					}
				}
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
