package proto

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/yawning/x11trace/internal/wire"
)

// ValueSlot describes one possible 32-bit slot in a LISTofVALUE (spec.md
// §4.E "LISTofVALUE"): its bit position in the mask, its name, and how to
// render its 4-byte value once present.
type ValueSlot struct {
	Bit    uint
	Name   string
	Render func(o wire.Order, raw []byte, opts *RenderOpts) string
}

// ValueListSpec is the static, per-request table of possible value-list
// slots for CreateWindow, ChangeWindowAttributes, ConfigureWindow,
// CreateGC, ChangeGC, and ChangeKeyboardControl (spec.md §4.E).
type ValueListSpec struct {
	Slots []ValueSlot
}

// Parse walks mask from low bit to high (spec.md §4.E), consuming one
// 4-byte unit per set bit from raw in ascending bit order, and returns the
// rendered (name, value) pairs plus the total bytes consumed.
func (v ValueListSpec) Parse(o wire.Order, mask uint32, raw []byte, opts *RenderOpts) ([]FieldValue, int) {
	bs := bitset.From([]uint64{uint64(mask)})
	byName := make(map[uint]ValueSlot, len(v.Slots))
	for _, s := range v.Slots {
		byName[s.Bit] = s
	}

	var out []FieldValue
	off := 0
	for i, e := bs.NextSet(0); e; i, e = bs.NextSet(i + 1) {
		slot, ok := byName[i]
		if !ok {
			// Unknown/reserved bit: still consume a unit to keep framing
			// correct, but render it opaquely.
			out = append(out, FieldValue{Name: "unknown-value-bit", Value: "present"})
			off += 4
			continue
		}
		val := raw[off : off+4]
		out = append(out, FieldValue{Name: slot.Name, Value: slot.Render(o, val, opts)})
		off += 4
	}
	return out, off
}

// PopCount returns the number of set bits in mask, i.e. the value-list
// length in 4-byte units (spec.md §4.E "the sum of set bits gives the list
// length").
func PopCount(mask uint32) int {
	bs := bitset.From([]uint64{uint64(mask)})
	return int(bs.Count())
}
