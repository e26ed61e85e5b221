package proto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// S5: PolyText8 item stream with a font-change item followed by a text run.
func TestParsePolyText8FontChangeThenRun(t *testing.T) {
	o := be()
	body := []byte{
		0xff, 0x00, 0x00, 0x10, 0x01, // font-change: FONT id 0x1001 (big-endian)
		2, 5, 'h', 'e', 'l', 'l', 'o', // delta=2, run "hello"
	}
	got := ParsePolyText(o, body, false)
	require.Contains(t, got, "font=4097")
	require.Contains(t, got, `delta=2 text="hello"`)
}

func TestParsePolyText8NegativeDelta(t *testing.T) {
	o := be()
	body := []byte{0xfe /* -2 as int8 */, 2, 'h', 'i'}
	got := ParsePolyText(o, body, false)
	require.Contains(t, got, "delta=-2")
}

func TestParsePolyText16(t *testing.T) {
	o := be()
	body := []byte{1, 2, 0x00, 0x41, 0x00, 0x42} // delta=1, n=2 CHAR2B items
	got := ParsePolyText(o, body, true)
	require.Contains(t, got, "delta=1")
	require.Contains(t, got, "0041 0042")
}

func TestParsePolyTextMalformedFontChange(t *testing.T) {
	o := be()
	body := []byte{0xff, 0x00, 0x01}
	got := ParsePolyText(o, body, false)
	require.Contains(t, got, "malformed font-change")
}

func TestParsePolyTextMalformedTextRun(t *testing.T) {
	o := be()
	body := []byte{1, 10, 'a', 'b'}
	got := ParsePolyText(o, body, false)
	require.Contains(t, got, "malformed text-run")
}

func TestParsePolyTextEmpty(t *testing.T) {
	got := ParsePolyText(be(), nil, false)
	require.Equal(t, "[]", got)
}

func TestPolyText8RequestRoundTrip(t *testing.T) {
	o := be()
	req := Requests[74]
	require.Equal(t, "PolyText8", req.Name)

	body := []byte{}
	var drawable, gc [4]byte
	o.PutUint32(drawable[:], 1)
	o.PutUint32(gc[:], 2)
	body = append(body, drawable[:]...)
	body = append(body, gc[:]...)
	var x, y [2]byte
	o.PutUint16(x[:], 5)
	o.PutUint16(y[:], 10)
	body = append(body, x[:]...)
	body = append(body, y[:]...)
	body = append(body, 0, 3, 'y', 'e', 's') // delta=0, text="yes"

	fields := req.ParseBody(o, 0, body, testOpts())
	var items string
	for _, f := range fields {
		if f.Name == "items" {
			items = f.Value
		}
	}
	require.Contains(t, items, `delta=0 text="yes"`)
}
