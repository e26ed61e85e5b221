package proto

import (
	"fmt"

	"github.com/yawning/x11trace/internal/wire"
)

// Event describes one core event code's wire layout (spec.md §4.E
// "Event"). Every core event is exactly 32 bytes: 1 code byte (high bit is
// the send-event flag, masked off before lookup), 1 detail byte, 2 bytes
// sequence number, and 28 bytes of event-specific body. Fixed[0] always
// renders the detail byte, mirroring Request's minor-byte convention;
// Fixed[1:] describes the 28-byte body.
type Event struct {
	Code  byte
	Name  string
	Fixed []Field
}

// Events is the core event catalogue, indexed by code (2..34).
var Events = buildEvents()

func buildEvents() map[byte]Event {
	m := make(map[byte]Event, 40)
	add := func(e Event) { m[e.Code] = e }

	pointerKeyBody := []Field{
		Timestamp("time"), Resource("root", nil), Resource("event", nil), Resource("child", none0),
		Int16("root-x"), Int16("root-y"), Int16("event-x"), Int16("event-y"),
		Bitmask("state", 2, keyButMaskBits), Bool("same-screen"), Unused(1),
	}
	add(Event{Code: 2, Name: "KeyPress", Fixed: append([]Field{Card8("detail")}, pointerKeyBody...)})
	add(Event{Code: 3, Name: "KeyRelease", Fixed: append([]Field{Card8("detail")}, pointerKeyBody...)})
	add(Event{Code: 4, Name: "ButtonPress", Fixed: append([]Field{Card8("detail")}, pointerKeyBody...)})
	add(Event{Code: 5, Name: "ButtonRelease", Fixed: append([]Field{Card8("detail")}, pointerKeyBody...)})
	add(Event{Code: 6, Name: "MotionNotify", Fixed: append([]Field{Enum("detail", 1, NameTable{0: "Normal", 1: "Hint"})}, pointerKeyBody...)})

	crossingBody := []Field{
		Timestamp("time"), Resource("root", nil), Resource("event", nil), Resource("child", none0),
		Int16("root-x"), Int16("root-y"), Int16("event-x"), Int16("event-y"),
		Bitmask("state", 2, keyButMaskBits), Enum("mode", 1, notifyModeTable), Card8("same-screen-focus"),
	}
	add(Event{Code: 7, Name: "EnterNotify", Fixed: append([]Field{Enum("detail", 1, notifyDetailTable)}, crossingBody...)})
	add(Event{Code: 8, Name: "LeaveNotify", Fixed: append([]Field{Enum("detail", 1, notifyDetailTable)}, crossingBody...)})

	add(Event{Code: 9, Name: "FocusIn", Fixed: []Field{
		Enum("detail", 1, notifyDetailTable), Resource("event", nil), Enum("mode", 1, notifyModeTable), Unused(23),
	}})
	add(Event{Code: 10, Name: "FocusOut", Fixed: []Field{
		Enum("detail", 1, notifyDetailTable), Resource("event", nil), Enum("mode", 1, notifyModeTable), Unused(23),
	}})

	// KeymapNotify (11) is special-cased in DecodeEvent: it has no detail
	// byte or sequence number, just a 31-byte key bitmap.

	add(Event{Code: 12, Name: "Expose", Fixed: []Field{
		Unused(1), Resource("window", nil), Card16("x"), Card16("y"), Card16("width"), Card16("height"), Card16("count"), Unused(14),
	}})
	add(Event{Code: 13, Name: "GraphicsExposure", Fixed: []Field{
		Unused(1), Resource("drawable", nil), Card16("x"), Card16("y"), Card16("width"), Card16("height"),
		Card16("minor-opcode"), Card16("count"), Card8("major-opcode"), Unused(11),
	}})
	add(Event{Code: 14, Name: "NoExposure", Fixed: []Field{
		Unused(1), Resource("drawable", nil), Card16("minor-opcode"), Card8("major-opcode"), Unused(21),
	}})
	add(Event{Code: 15, Name: "VisibilityNotify", Fixed: []Field{
		Unused(1), Resource("window", nil), Enum("state", 1, visibilityStateTable), Unused(23),
	}})
	add(Event{Code: 16, Name: "CreateNotify", Fixed: []Field{
		Unused(1), Resource("parent", nil), Resource("window", nil), Int16("x"), Int16("y"),
		Card16("width"), Card16("height"), Card16("border-width"), Bool("override-redirect"), Unused(9),
	}})
	add(Event{Code: 17, Name: "DestroyNotify", Fixed: []Field{
		Unused(1), Resource("event", nil), Resource("window", nil), Unused(20),
	}})
	add(Event{Code: 18, Name: "UnmapNotify", Fixed: []Field{
		Unused(1), Resource("event", nil), Resource("window", nil), Bool("from-configure"), Unused(19),
	}})
	add(Event{Code: 19, Name: "MapNotify", Fixed: []Field{
		Unused(1), Resource("event", nil), Resource("window", nil), Bool("override-redirect"), Unused(19),
	}})
	add(Event{Code: 20, Name: "MapRequest", Fixed: []Field{
		Unused(1), Resource("parent", nil), Resource("window", nil), Unused(20),
	}})
	add(Event{Code: 21, Name: "ReparentNotify", Fixed: []Field{
		Unused(1), Resource("event", nil), Resource("window", nil), Resource("parent", nil),
		Int16("x"), Int16("y"), Bool("override-redirect"), Unused(11),
	}})
	add(Event{Code: 22, Name: "ConfigureNotify", Fixed: []Field{
		Unused(1), Resource("event", nil), Resource("window", nil), Resource("above-sibling", none0),
		Int16("x"), Int16("y"), Card16("width"), Card16("height"), Card16("border-width"), Bool("override-redirect"), Unused(5),
	}})
	add(Event{Code: 23, Name: "ConfigureRequest", Fixed: []Field{
		Enum("stack-mode", 1, configureRequestStackModeTable), Resource("parent", nil), Resource("window", nil), Resource("sibling", none0),
		Int16("x"), Int16("y"), Card16("width"), Card16("height"), Card16("border-width"), Hex16("value-mask"), Unused(4),
	}})
	add(Event{Code: 24, Name: "GravityNotify", Fixed: []Field{
		Unused(1), Resource("event", nil), Resource("window", nil), Int16("x"), Int16("y"), Unused(16),
	}})
	add(Event{Code: 25, Name: "ResizeRequest", Fixed: []Field{
		Unused(1), Resource("window", nil), Card16("width"), Card16("height"), Unused(20),
	}})
	add(Event{Code: 26, Name: "CirculateNotify", Fixed: []Field{
		Unused(1), Resource("event", nil), Resource("window", nil), Unused(4), Enum("place", 1, placeTable), Unused(15),
	}})
	add(Event{Code: 27, Name: "CirculateRequest", Fixed: []Field{
		Unused(1), Resource("parent", nil), Resource("window", nil), Unused(4), Enum("place", 1, placeTable), Unused(15),
	}})
	add(Event{Code: 28, Name: "PropertyNotify", Fixed: []Field{
		Unused(1), Resource("window", nil), Atom("atom"), Timestamp("time"), Enum("state", 1, propertyNotifyStateTable), Unused(15),
	}})
	add(Event{Code: 29, Name: "SelectionClear", Fixed: []Field{
		Unused(1), Timestamp("time"), Resource("owner", nil), Atom("selection"), Unused(16),
	}})
	add(Event{Code: 30, Name: "SelectionRequest", Fixed: []Field{
		Unused(1), Timestamp("time"), Resource("owner", nil), Resource("requestor", nil),
		Atom("selection"), Atom("target"), Atom("property"), Unused(4),
	}})
	add(Event{Code: 31, Name: "SelectionNotify", Fixed: []Field{
		Unused(1), Timestamp("time"), Resource("requestor", nil), Atom("selection"), Atom("target"), Atom("property"), Unused(8),
	}})
	add(Event{Code: 32, Name: "ColormapNotify", Fixed: []Field{
		Unused(1), Resource("window", nil), Resource("colormap", none0), Bool("new"), Enum("state", 1, colormapStateTable), Unused(18),
	}})
	// ClientMessage (33) is special-cased in DecodeEvent: its 20-byte data
	// section is interpreted per the format byte (stored in detail).
	add(Event{Code: 34, Name: "MappingNotify", Fixed: []Field{
		Unused(1), Enum("request", 1, mappingNotifyRequestTable), Card8("first-keycode"), Card8("count"), Unused(25),
	}})

	return m
}

// DecodeEvent decodes a full 32-byte core event (spec.md §4.E "Event").
// The send-event bit (0x80) in raw[0] is masked off here before opcode
// lookup, and surfaced as a
// separate synthetic field so replayed SendEvent bodies and genuine
// server events render identically save for that marker.
func DecodeEvent(o wire.Order, raw []byte, opts *RenderOpts) Message {
	if len(raw) < 32 {
		return Message{Kind: "Event", Name: "Truncated", Code: -1}
	}
	synthetic := raw[0]&0x80 != 0
	code := raw[0] &^ 0x80
	detail := raw[1]
	body := raw[4:32]

	if code == 11 {
		return Message{Kind: "Event", Name: "KeymapNotify", Code: int(code),
			Fields: []FieldValue{{Name: "keys", Value: fmt.Sprintf("%d bytes", len(raw)-1)}}}
	}
	if code == 33 {
		return decodeClientMessage(o, detail, body, synthetic, opts)
	}

	ev, ok := Events[code]
	if !ok {
		return Message{Kind: "Event", Name: fmt.Sprintf("Unknown(%d)", code), Code: int(code)}
	}

	fixed := FixedValues{raw: map[string][]byte{}}
	var out []FieldValue
	if synthetic {
		out = append(out, FieldValue{Name: "synthetic", Value: "True"})
	}
	if len(ev.Fixed) > 0 {
		f := ev.Fixed[0]
		db := []byte{detail}
		fixed.raw[f.Name] = db
		if !f.hidden() {
			out = append(out, FieldValue{Name: f.Name, Value: f.Render(o, db, opts)})
		}
	}
	off := 0
	for _, f := range ev.Fixed[1:] {
		if off+f.Size > len(body) {
			out = append(out, FieldValue{Name: "malformed", Value: "truncated event body"})
			break
		}
		raw2 := body[off : off+f.Size]
		fixed.raw[f.Name] = raw2
		if !f.hidden() {
			out = append(out, FieldValue{Name: f.Name, Value: f.Render(o, raw2, opts)})
		}
		off += f.Size
	}
	return Message{Kind: "Event", Name: ev.Name, Code: int(code), Fields: out}
}

// decodeClientMessage renders ClientMessage's format-dependent 20-byte
// data union (spec.md §4.E "ClientMessage"), where detail holds the
// format byte (8, 16, or 32).
func decodeClientMessage(o wire.Order, format byte, body []byte, synthetic bool, opts *RenderOpts) Message {
	var out []FieldValue
	if synthetic {
		out = append(out, FieldValue{Name: "synthetic", Value: "True"})
	}
	out = append(out, FieldValue{Name: "format", Value: fmt.Sprintf("%d", format)})
	if len(body) < 24 {
		out = append(out, FieldValue{Name: "malformed", Value: "truncated event body"})
		return Message{Kind: "Event", Name: "ClientMessage", Code: 33, Fields: out}
	}
	out = append(out, FieldValue{Name: "window", Value: Resource("window", nil).Render(o, body[0:4], opts)})
	out = append(out, FieldValue{Name: "message-type", Value: Atom("message-type").Render(o, body[4:8], opts)})
	data := body[8:28]
	switch format {
	case 8:
		out = append(out, FieldValue{Name: "data", Value: formatList(o, data, 1, 20, opts, Card8("b").Render)})
	case 16:
		out = append(out, FieldValue{Name: "data", Value: formatList(o, data, 2, 10, opts, Card16("h").Render)})
	default:
		out = append(out, FieldValue{Name: "data", Value: formatList(o, data, 4, 5, opts, Card32("w").Render)})
	}
	return Message{Kind: "Event", Name: "ClientMessage", Code: 33, Fields: out}
}
