package proto

import (
	"fmt"
	"strings"

	"github.com/yawning/x11trace/internal/wire"
)

// FixedValues gives a VariableFunc read access to the raw bytes of
// already-parsed fixed fields by name, so that length-prefixed trailing
// data (InternAtom's name, ChangeProperty's data, ...) can be sliced
// precisely instead of swallowing the message's own alignment padding.
type FixedValues struct {
	raw map[string][]byte
}

// U8 returns fixed field name's first byte, or 0 if absent.
func (f FixedValues) U8(name string) uint8 {
	if b := f.raw[name]; len(b) > 0 {
		return b[0]
	}
	return 0
}

// U16 returns fixed field name as a host-order 16-bit value, or 0 if absent.
func (f FixedValues) U16(o wire.Order, name string) uint16 {
	if b := f.raw[name]; len(b) >= 2 {
		return o.Uint16(b)
	}
	return 0
}

// U32 returns fixed field name as a host-order 32-bit value, or 0 if absent.
func (f FixedValues) U32(o wire.Order, name string) uint32 {
	if b := f.raw[name]; len(b) >= 4 {
		return o.Uint32(b)
	}
	return 0
}

// Uint returns fixed field name as an unsigned integer regardless of its
// wire width (1, 2, or 4 bytes) — used by length fields that are
// sometimes the request's minor byte (1 byte, e.g. ImageText8's n) and
// sometimes an ordinary CARD16/CARD32 fixed field (e.g. InternAtom's n).
func (f FixedValues) Uint(o wire.Order, name string) uint32 {
	b := f.raw[name]
	switch len(b) {
	case 1:
		return uint32(b[0])
	case 2:
		return uint32(o.Uint16(b))
	case 4:
		return o.Uint32(b)
	default:
		return 0
	}
}

// VariableFunc renders whatever trailing variable-length content follows a
// request's fixed part (and value-list, if any). It must not read past
// len(body); the caller has already sliced body to exactly the bytes the
// wire header says remain (including any alignment padding).
type VariableFunc func(o wire.Order, body []byte, fixed FixedValues, opts *RenderOpts) []FieldValue

// varString8 renders a length-prefixed STRING8 field: lenField names the
// already-parsed fixed field holding the string's unpadded byte length
// (spec.md §4.E "STRING8 is quoted UTF-8").
func varString8(name, lenField string) VariableFunc {
	return func(o wire.Order, body []byte, fixed FixedValues, opts *RenderOpts) []FieldValue {
		n := int(fixed.Uint(o, lenField))
		if n > len(body) {
			n = len(body)
		}
		return []FieldValue{{Name: name, Value: QuoteString8(body[:n])}}
	}
}

// varRestString8 renders the entirety of body (no separate length field;
// the request's own framed length is the string's length) as STRING8.
func varRestString8(name string) VariableFunc {
	return func(o wire.Order, body []byte, fixed FixedValues, opts *RenderOpts) []FieldValue {
		return []FieldValue{{Name: name, Value: QuoteString8(body)}}
	}
}

// QuoteString8 quotes raw bytes as STRING8, escaping non-printable bytes.
func QuoteString8(b []byte) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, c := range b {
		switch {
		case c == '"' || c == '\\':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case c >= 0x20 && c < 0x7f:
			sb.WriteByte(c)
		default:
			fmt.Fprintf(&sb, "\\x%02x", c)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// QuoteString16 renders STRING16/CHAR2B as space separated 16-bit hex
// (spec.md §4.E "STRING16 / CHAR2B"). CHAR2B is big-endian on the wire
// whatever the connection's byte order, so o is not consulted.
func QuoteString16(o wire.Order, b []byte) string {
	var sb strings.Builder
	for i := 0; i+1 < len(b); i += 2 {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%04x", uint16(b[i])<<8|uint16(b[i+1]))
	}
	return sb.String()
}

// varListCard32 renders body as a LISTofCARD32-shaped trailing section:
// every 4 bytes is one element, rendered via elem.
func varListCard32(name string, elem Field) VariableFunc {
	return func(o wire.Order, body []byte, fixed FixedValues, opts *RenderOpts) []FieldValue {
		n := len(body) / 4
		return []FieldValue{{Name: name, Value: formatList(o, body, 4, n, opts, elem.Render)}}
	}
}

// varListRGB renders body as a LISTofRGB-shaped trailing section
// (QueryColors's reply): every 8 bytes is one RGB entry (three CARD16
// color channels plus 2 unused bytes).
func varListRGB(name string) VariableFunc {
	return func(o wire.Order, body []byte, fixed FixedValues, opts *RenderOpts) []FieldValue {
		n := len(body) / 8
		return []FieldValue{{Name: name, Value: formatList(o, body, 8, n, opts, renderRGB)}}
	}
}

func renderRGB(o wire.Order, raw []byte, opts *RenderOpts) string {
	red := o.Uint16(raw[0:2])
	green := o.Uint16(raw[2:4])
	blue := o.Uint16(raw[4:6])
	return fmt.Sprintf("red=%d green=%d blue=%d", red, green, blue)
}

// varOpaque renders a trailing section whose semantic content this
// catalogue does not further decode, while still accounting for every
// byte (spec.md §4.E requires bit-exact framing, not bit-exact semantic
// decode of every obscure field).
func varOpaque(name string) VariableFunc {
	return func(o wire.Order, body []byte, fixed FixedValues, opts *RenderOpts) []FieldValue {
		return []FieldValue{{Name: name, Value: fmt.Sprintf("%d bytes", len(body))}}
	}
}

// formatList renders n elements of elemSize bytes each from raw via
// render, honoring --maxlistlength and --multiline (spec.md §4.E
// "LISTof<T>").
func formatList(o wire.Order, raw []byte, elemSize, n int, opts *RenderOpts, render func(wire.Order, []byte, *RenderOpts) string) string {
	max := n
	truncated := false
	if opts.MaxListLength > 0 && n > opts.MaxListLength {
		max = opts.MaxListLength
		truncated = true
	}
	parts := make([]string, 0, max)
	for i := 0; i < max; i++ {
		off := i * elemSize
		if off+elemSize > len(raw) {
			break
		}
		parts = append(parts, render(o, raw[off:off+elemSize], opts))
	}
	sep := ", "
	open, closeBr := "[", "]"
	if opts.Multiline && elemSize > 4 {
		sep = ",\n    "
		open, closeBr = "[\n    ", "\n]"
	}
	s := open + strings.Join(parts, sep)
	if truncated {
		s += fmt.Sprintf(", ... (%d more)", n-max)
	}
	s += closeBr
	return s
}
