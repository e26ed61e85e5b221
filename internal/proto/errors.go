package proto

import (
	"fmt"

	"github.com/yawning/x11trace/internal/wire"
)

// DecodeError decodes a core error (spec.md §4.E "Error"). Every error
// shares one 32-byte layout: a 0 marker byte, the 1-byte error code, a
// 2-byte sequence number (handled by the caller), then bad-value,
// minor-opcode, and major-opcode. body is the 28 bytes following the
// sequence number.
func DecodeError(o wire.Order, code byte, body []byte, opts *RenderOpts) Message {
	name, ok := errorNames[code]
	if !ok {
		name = fmt.Sprintf("Unknown(%d)", code)
	}
	if len(body) < 7 {
		return Message{Kind: "Error", Name: name, Code: int(code),
			Fields: []FieldValue{{Name: "malformed", Value: "truncated error body"}}}
	}
	fields := []FieldValue{
		{Name: "bad-value", Value: fmt.Sprintf("0x%08x", o.Uint32(body[0:4]))},
		{Name: "minor-opcode", Value: Card16("minor-opcode").Render(o, body[4:6], opts)},
		{Name: "major-opcode", Value: Card8("major-opcode").Render(o, body[6:7], opts)},
	}
	return Message{Kind: "Error", Name: name, Code: int(code), Fields: fields}
}
