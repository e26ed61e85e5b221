package proto

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yawning/x11trace/internal/wire"
)

// BitName pairs a bit index (0 = least significant) with the flag name
// spec.md §4.E's bitmask renderer prints when that bit is set.
type BitName struct {
	Bit  uint
	Name string
}

// NameTable maps a raw integer value to its protocol name, used by both
// EnumField (closed vocabularies) and the "sentinel" override mentioned in
// spec.md §4.E (e.g. 0 -> None, 1 -> CopyFromParent).
type NameTable map[uint32]string

// Card8 is a plain unsigned byte field, rendered in decimal.
func Card8(name string) Field {
	return Field{Name: name, Size: 1, Render: func(o wire.Order, raw []byte, _ *RenderOpts) string {
		return strconv.FormatUint(uint64(raw[0]), 10)
	}}
}

// Card16 is a plain unsigned 16-bit field.
func Card16(name string) Field {
	return Field{Name: name, Size: 2, Render: func(o wire.Order, raw []byte, _ *RenderOpts) string {
		return strconv.FormatUint(uint64(o.Uint16(raw)), 10)
	}}
}

// Card32 is a plain unsigned 32-bit field.
func Card32(name string) Field {
	return Field{Name: name, Size: 4, Render: func(o wire.Order, raw []byte, _ *RenderOpts) string {
		return strconv.FormatUint(uint64(o.Uint32(raw)), 10)
	}}
}

// Int8 is a plain signed byte field.
func Int8(name string) Field {
	return Field{Name: name, Size: 1, Render: func(o wire.Order, raw []byte, _ *RenderOpts) string {
		return strconv.FormatInt(int64(int8(raw[0])), 10)
	}}
}

// Int16 is a plain signed 16-bit field.
func Int16(name string) Field {
	return Field{Name: name, Size: 2, Render: func(o wire.Order, raw []byte, _ *RenderOpts) string {
		return strconv.FormatInt(int64(o.Int16(raw)), 10)
	}}
}

// Int32 is a plain signed 32-bit field.
func Int32(name string) Field {
	return Field{Name: name, Size: 4, Render: func(o wire.Order, raw []byte, _ *RenderOpts) string {
		return strconv.FormatInt(int64(o.Int32(raw)), 10)
	}}
}

// Bool renders a 1-byte boolean as True/False.
func Bool(name string) Field {
	return Field{Name: name, Size: 1, Render: func(o wire.Order, raw []byte, _ *RenderOpts) string {
		if raw[0] != 0 {
			return "True"
		}
		return "False"
	}}
}

// Unused is a fixed-size padding/reserved field that is parsed (to keep
// framing bit-exact) but never rendered.
func Unused(size int) Field {
	return Field{Name: "", Size: size, Render: func(wire.Order, []byte, *RenderOpts) string { return "" }}
}

// hidden reports whether a field should be omitted from output entirely
// (used for Unused()).
func (f Field) hidden() bool { return f.Name == "" }

// Enum renders a size-byte integer as Name(raw), consulting table and
// falling back to "Unknown(raw)" for an unrecognized value (spec.md §4.E
// "Enum-valued integers").
func Enum(name string, size int, table NameTable) Field {
	return Field{Name: name, Size: size, Render: func(o wire.Order, raw []byte, _ *RenderOpts) string {
		v := readSized(o, raw, size)
		if n, ok := table[v]; ok {
			return fmt.Sprintf("%s(%d)", n, v)
		}
		return fmt.Sprintf("Unknown(%d)", v)
	}}
}

// Sentinel is like Enum but used for fields that are ordinarily plain
// integers except for a handful of reserved "meaning" values (spec.md
// §4.E's 0 -> None, 1 -> CopyFromParent example). Unnamed values render
// in plain decimal, not "Unknown(..)".
func Sentinel(name string, size int, table NameTable) Field {
	return Field{Name: name, Size: size, Render: func(o wire.Order, raw []byte, _ *RenderOpts) string {
		v := readSized(o, raw, size)
		if n, ok := table[v]; ok {
			return fmt.Sprintf("%s(%d)", n, v)
		}
		return strconv.FormatUint(uint64(v), 10)
	}}
}

// Bitmask renders a size-byte integer as a `|`-separated list of set flag
// names, appending the raw integer if any unnamed bits remain set
// (spec.md §4.E "Bitmasks").
func Bitmask(name string, size int, flags []BitName) Field {
	return Field{Name: name, Size: size, Render: func(o wire.Order, raw []byte, _ *RenderOpts) string {
		v := uint64(readSized(o, raw, size))
		return renderBitmask(v, flags)
	}}
}

func renderBitmask(v uint64, flags []BitName) string {
	var names []string
	var known uint64
	for _, f := range flags {
		bit := uint64(1) << f.Bit
		if v&bit != 0 {
			names = append(names, f.Name)
			known |= bit
		}
	}
	rest := v &^ known
	if len(names) == 0 {
		return fmt.Sprintf("0x%08x", v)
	}
	s := strings.Join(names, "|")
	if rest != 0 {
		s += fmt.Sprintf("|0x%08x", rest)
	}
	return s
}

// Hex32 renders a raw 32-bit field in hex, used for event-mask style
// fields spec.md's worked example S3 expects as `0x000000ff`.
func Hex32(name string) Field {
	return Field{Name: name, Size: 4, Render: func(o wire.Order, raw []byte, _ *RenderOpts) string {
		return fmt.Sprintf("0x%08x", o.Uint32(raw))
	}}
}

// Hex16 is Hex32's 16-bit counterpart, used for the CARD16-sized
// SETofPOINTEREVENT/SETofKEYMASK event-mask fields in the grab requests.
func Hex16(name string) Field {
	return Field{Name: name, Size: 2, Render: func(o wire.Order, raw []byte, _ *RenderOpts) string {
		return fmt.Sprintf("0x%04x", o.Uint16(raw))
	}}
}

// Resource renders a 32-bit XID (WINDOW/PIXMAP/GCONTEXT/CURSOR/FONT/
// COLORMAP/DRAWABLE/...), optionally with a sentinel table for values like
// None(0).
func Resource(name string, sentinels NameTable) Field {
	if sentinels == nil {
		return Card32(name)
	}
	return Sentinel(name, 4, sentinels)
}

// Atom renders a 32-bit ATOM id via the shared interning table (spec.md
// §4.E "ATOMs").
func Atom(name string) Field {
	return Field{Name: name, Size: 4, Render: func(o wire.Order, raw []byte, opts *RenderOpts) string {
		id := o.Uint32(raw)
		if opts.Atoms == nil {
			return fmt.Sprintf("UnknownAtom(%d)", id)
		}
		return opts.Atoms.Format(id)
	}}
}

// Timestamp renders a 32-bit TIMESTAMP, either as its raw value or, if
// --systemtimeformat is set and a reference pair is available, as wall
// time (spec.md §4.E "TIMESTAMP").
func Timestamp(name string) Field {
	return Field{Name: name, Size: 4, Render: func(o wire.Order, raw []byte, opts *RenderOpts) string {
		t := o.Uint32(raw)
		if !opts.SystemTimeFormat || opts.RefUnixTimeSec == 0 {
			return strconv.FormatUint(uint64(t), 10)
		}
		deltaMillis := int64(t) - int64(opts.RefTimestamp)
		sec := opts.RefUnixTimeSec + deltaMillis/1000
		ms := deltaMillis % 1000
		if ms < 0 {
			ms += 1000
		}
		return fmt.Sprintf("%d.%03ds", sec, ms)
	}}
}

func readSized(o wire.Order, raw []byte, size int) uint32 {
	switch size {
	case 1:
		return uint32(raw[0])
	case 2:
		return uint32(o.Uint16(raw))
	default:
		return o.Uint32(raw)
	}
}
