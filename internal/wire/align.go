// Package wire holds the byte-order and alignment primitives shared by
// every other package that touches raw X11 protocol bytes.
package wire

// Unit is the X11 wire protocol's pad unit: every length field that the
// protocol calls "4 byte units" is expressed in this size.
const Unit = 4

// Pad rounds n up to the next multiple of Unit.
func Pad(n int) int {
	return (n + Unit - 1) &^ (Unit - 1)
}

// Units converts a byte count to a (rounded up) count of 4-byte units.
func Units(n int) int {
	return Pad(n) / Unit
}

// Size converts a count of 4-byte units back to a byte count.
func Size(units int) int {
	return units * Unit
}

// PadBytes is the number of padding bytes Pad(n) would add after n.
func PadBytes(n int) int {
	return Pad(n) - n
}
