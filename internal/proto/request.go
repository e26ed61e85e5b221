package proto

import (
	"fmt"

	"github.com/yawning/x11trace/internal/wire"
)

// Request describes one core request opcode's wire layout (spec.md §4.E
// "Request"). Fixed[0] is always the 4-byte preamble's second byte (the
// "minor"/detail byte many requests overload, e.g. InternAtom's
// only-if-exists); Fixed[1:] describes the fixed-size body that follows
// the 4-byte preamble. ValueList, if set, follows Fixed as a CARD32 mask
// plus its present 4-byte slots. Variable, if set, renders whatever bytes
// remain after that (already bounded to the wire's own request_length).
type Request struct {
	Opcode   byte
	Name     string
	Fixed    []Field
	ValueList *ValueListSpec
	Variable VariableFunc
	HasReply bool
}

// FixedSize returns the byte count of Fixed[1:], i.e. the fixed-size body
// following the 4-byte preamble (not counting the minor byte, which is
// part of the preamble itself).
func (r Request) FixedSize() int {
	if len(r.Fixed) == 0 {
		return 0
	}
	n := 0
	for _, f := range r.Fixed[1:] {
		n += f.Size
	}
	return n
}

// ParseBody decodes a request's minor byte plus its body (everything after
// the 4-byte preamble, already sliced to the wire's declared length) into
// ordered field values.
func (r Request) ParseBody(o wire.Order, minorByte byte, body []byte, opts *RenderOpts) []FieldValue {
	fixed := FixedValues{raw: map[string][]byte{}}
	var out []FieldValue

	if len(r.Fixed) == 0 {
		if len(body) > 0 {
			out = append(out, FieldValue{Name: "extra", Value: fmt.Sprintf("%d bytes", len(body))})
		}
		return out
	}

	f := r.Fixed[0]
	mb := []byte{minorByte}
	fixed.raw[f.Name] = mb
	if !f.hidden() {
		out = append(out, FieldValue{Name: f.Name, Value: f.Render(o, mb, opts)})
	}

	off := 0
	for _, f := range r.Fixed[1:] {
		if off+f.Size > len(body) {
			out = append(out, FieldValue{Name: "malformed", Value: "truncated fixed body"})
			return out
		}
		raw := body[off : off+f.Size]
		fixed.raw[f.Name] = raw
		if !f.hidden() {
			out = append(out, FieldValue{Name: f.Name, Value: f.Render(o, raw, opts)})
		}
		off += f.Size
	}

	if r.ValueList != nil {
		if off+4 > len(body) {
			out = append(out, FieldValue{Name: "malformed", Value: "truncated value-mask"})
			return out
		}
		mask := o.Uint32(body[off : off+4])
		out = append(out, FieldValue{Name: "value-mask", Value: fmt.Sprintf("0x%08x", mask)})
		off += 4
		vals, consumed := r.ValueList.Parse(o, mask, body[off:], opts)
		out = append(out, vals...)
		off += consumed
	}

	if r.Variable != nil {
		out = append(out, r.Variable(o, body[off:], fixed, opts)...)
	} else if off < len(body) {
		out = append(out, FieldValue{Name: "extra", Value: fmt.Sprintf("%d bytes", len(body)-off)})
	}
	return out
}
