// Package proto is the declarative X11 core protocol catalogue: for every
// request opcode, reply, event code, and error code, a table entry
// describing its wire layout and how to render it as a log record. This
// follows spec.md §9's "Polymorphism across request kinds" design note: a
// tagged-variant table keyed by opcode, rather than hand-written dispatch
// per opcode.
package proto

import (
	"fmt"
	"strings"

	"github.com/yawning/x11trace/internal/atomtable"
	"github.com/yawning/x11trace/internal/wire"
)

// RenderOpts carries the formatting knobs from spec.md §6 CLI (-v,
// --multiline, --maxlistlength) plus the shared atom table and optional
// TIMESTAMP reference pair.
type RenderOpts struct {
	Verbose          bool
	Multiline        bool
	MaxListLength    int
	SystemTimeFormat bool
	RefTimestamp     uint32
	RefUnixTimeSec   int64

	Atoms *atomtable.Table
}

// Field renders one scalar or compound element of a request/reply/event/
// error body. Size is the field's fixed wire size in bytes (0 for fields
// whose size is data-dependent, e.g. lists, which are handled outside the
// fixed Fields slice via a Variable parser).
type Field struct {
	Name string
	Size int
	// Render reads the field's raw bytes (already sliced to Size) and
	// returns its formatted value. o carries this connection's byte order.
	Render func(o wire.Order, raw []byte, opts *RenderOpts) string
}

// FieldValue is one rendered field in a decoded message, kept in order so
// both single-line and multi-line formatting reproduce the same sequence.
type FieldValue struct {
	Name  string
	Value string
}

// Message is a fully decoded protocol element ready for log formatting.
type Message struct {
	Kind   string // "Request", "Reply", "Event", "Error", "Initiation", "Response"
	Name   string
	Code   int
	Fields []FieldValue
}

// Render formats a Message per spec.md §4.E:
//
//	C<conn>:<bytes>B:<direction>:S<seq>: <Kind> <name>(<code>): { field = value, ... }
//
// The conn/bytes/direction/seq prefix is added by the caller (internal/decoder),
// since Message itself has no connection context.
func (m Message) Render(opts *RenderOpts) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s(%d): ", m.Kind, m.Name, m.Code)
	if opts.Multiline && len(m.Fields) > 0 {
		b.WriteString("{\n")
		width := 0
		for _, f := range m.Fields {
			if len(f.Name) > width {
				width = len(f.Name)
			}
		}
		for _, f := range m.Fields {
			fmt.Fprintf(&b, "    %-*s = %s\n", width, f.Name, f.Value)
		}
		b.WriteString("}")
	} else {
		b.WriteString("{ ")
		for i, f := range m.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s = %s", f.Name, f.Value)
		}
		b.WriteString(" }")
	}
	return b.String()
}
