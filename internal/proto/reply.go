package proto

import (
	"fmt"

	"github.com/yawning/x11trace/internal/wire"
)

// Reply describes one core reply's wire layout (spec.md §4.E "Reply").
// Every reply begins with a 1-byte marker (handled by the caller), a
// "data1" byte whose meaning varies per request (Fixed[0], mirroring
// Request's minor-byte convention), a 2-byte sequence number and 4-byte
// reply-length word count (both handled by the caller, which also
// resolves the reply back to its originating request opcode), then
// Fixed[1:]'s fixed-shape fields, followed by whatever Variable parses.
type Reply struct {
	Opcode   byte
	Name     string
	Fixed    []Field
	Variable VariableFunc
}

// ParseBody mirrors Request.ParseBody; data1Byte is the reply's second
// header byte and body is everything from byte 8 of the reply onward
// (the 24-byte fixed region plus any reply-length*4 trailing bytes,
// handed over as one contiguous slice).
func (r Reply) ParseBody(o wire.Order, data1Byte byte, body []byte, opts *RenderOpts) []FieldValue {
	fixed := FixedValues{raw: map[string][]byte{}}
	var out []FieldValue

	if len(r.Fixed) == 0 {
		if r.Variable != nil {
			return r.Variable(o, body, fixed, opts)
		}
		if len(body) > 0 {
			out = append(out, FieldValue{Name: "extra", Value: fmt.Sprintf("%d bytes", len(body))})
		}
		return out
	}

	f := r.Fixed[0]
	db := []byte{data1Byte}
	fixed.raw[f.Name] = db
	if !f.hidden() {
		out = append(out, FieldValue{Name: f.Name, Value: f.Render(o, db, opts)})
	}

	off := 0
	for _, f := range r.Fixed[1:] {
		if off+f.Size > len(body) {
			out = append(out, FieldValue{Name: "malformed", Value: "truncated reply body"})
			return out
		}
		raw := body[off : off+f.Size]
		fixed.raw[f.Name] = raw
		if !f.hidden() {
			out = append(out, FieldValue{Name: f.Name, Value: f.Render(o, raw, opts)})
		}
		off += f.Size
	}

	if r.Variable != nil {
		out = append(out, r.Variable(o, body[off:], fixed, opts)...)
	} else if off < len(body) {
		out = append(out, FieldValue{Name: "extra", Value: fmt.Sprintf("%d bytes", len(body)-off)})
	}
	return out
}
