package proto

import (
	"fmt"
	"strings"

	"github.com/yawning/x11trace/internal/wire"
)

// ParsePolyText renders a PolyText8/PolyText16 item stream (spec.md §4.E
// "Polymorphic text items"): a sequence of TEXTITEM8/TEXTITEM16 elements,
// each either a font-change (a 0xff tag byte followed by a 4-byte FONT id
// in big-endian, per the core protocol's explicit wire-format exception)
// or a text run (a signed delta byte, a length byte, then that many
// CHAR8/CHAR2B glyphs), until the trailing bytes are exhausted.
func ParsePolyText(o wire.Order, body []byte, wide bool) string {
	var items []string
	off := 0
	elemSize := 1
	if wide {
		elemSize = 2
	}
	for off < len(body) {
		tag := body[off]
		if tag == 0xff {
			if off+5 > len(body) {
				items = append(items, "malformed font-change")
				break
			}
			// FONT id is always big-endian on the wire regardless of the
			// connection's byte order (core protocol §4.E exception).
			fontID := uint32(body[off+1])<<24 | uint32(body[off+2])<<16 | uint32(body[off+3])<<8 | uint32(body[off+4])
			items = append(items, fmt.Sprintf("font=%d", fontID))
			off += 5
			continue
		}
		delta := int8(tag)
		n := int(body[off+1])
		off += 2
		end := off + n*elemSize
		if end > len(body) {
			items = append(items, "malformed text-run")
			break
		}
		var text string
		if wide {
			text = QuoteString16(o, body[off:end])
		} else {
			text = QuoteString8(body[off:end])
		}
		items = append(items, fmt.Sprintf("delta=%d text=%s", delta, text))
		off = end
	}
	return "[" + strings.Join(items, ", ") + "]"
}
