package wire

import "encoding/binary"

// Order reads host-order integers out of a byte-order-tagged X11 byte
// stream. A given Connection's Order is fixed at handshake time: the
// client picks its byte order once, and the server forever after replies
// in that same order (spec.md §4.A "Connections are independent").
type Order struct {
	swap bool
}

// NewOrder builds an Order for a connection whose client byte order differs
// from the host's iff swap is true.
func NewOrder(swap bool) Order {
	return Order{swap: swap}
}

// Swap reports whether this Order byte-swaps multi-byte fields.
func (o Order) Swap() bool { return o.swap }

func (o Order) byteOrder() binary.ByteOrder {
	if o.swap {
		return swappedOrder{}
	}
	return binary.NativeEndian
}

// swappedOrder implements binary.ByteOrder as "opposite of host", by
// delegating to the host order that isn't the native one. Since this
// package only ever runs on little-endian or big-endian hosts, and
// binary.NativeEndian resolves to one of the two stdlib orders at
// runtime, swap means "the other one".
type swappedOrder struct{}

func (swappedOrder) Uint16(b []byte) uint16 {
	if isLittleEndianHost() {
		return binary.BigEndian.Uint16(b)
	}
	return binary.LittleEndian.Uint16(b)
}

func (swappedOrder) Uint32(b []byte) uint32 {
	if isLittleEndianHost() {
		return binary.BigEndian.Uint32(b)
	}
	return binary.LittleEndian.Uint32(b)
}

func (swappedOrder) Uint64(b []byte) uint64 {
	if isLittleEndianHost() {
		return binary.BigEndian.Uint64(b)
	}
	return binary.LittleEndian.Uint64(b)
}

func (swappedOrder) PutUint16(b []byte, v uint16) {
	if isLittleEndianHost() {
		binary.BigEndian.PutUint16(b, v)
		return
	}
	binary.LittleEndian.PutUint16(b, v)
}

func (swappedOrder) PutUint32(b []byte, v uint32) {
	if isLittleEndianHost() {
		binary.BigEndian.PutUint32(b, v)
		return
	}
	binary.LittleEndian.PutUint32(b, v)
}

func (swappedOrder) PutUint64(b []byte, v uint64) {
	if isLittleEndianHost() {
		binary.BigEndian.PutUint64(b, v)
		return
	}
	binary.LittleEndian.PutUint64(b, v)
}

func (swappedOrder) String() string { return "swapped" }

var nativeLittle = func() bool {
	var x uint16 = 1
	b := [2]byte{}
	binary.NativeEndian.PutUint16(b[:], x)
	return b[0] == 1
}()

func isLittleEndianHost() bool { return nativeLittle }

// HostIsLittleEndian reports whether this process's native byte order is
// little-endian, the same test NewOrder's caller needs to turn an
// Initiation's byte-order octet ('B'/'l') into a swap bool.
func HostIsLittleEndian() bool { return nativeLittle }

// Uint8 is provided for symmetry: 8-bit fields are never byte-swapped
// (spec.md §4.A).
func (o Order) Uint8(b []byte) uint8 { return b[0] }

// Uint16 reads a host-order 16-bit field honoring this connection's swap.
func (o Order) Uint16(b []byte) uint16 { return o.byteOrder().Uint16(b) }

// Uint32 reads a host-order 32-bit field honoring this connection's swap.
func (o Order) Uint32(b []byte) uint32 { return o.byteOrder().Uint32(b) }

// PutUint16 writes v into b using this connection's swap, for the rare
// cases the proxy synthesizes bytes (e.g. re-serialization round-trip
// tests, see spec.md §8 property 7).
func (o Order) PutUint16(b []byte, v uint16) { o.byteOrder().PutUint16(b, v) }

// PutUint32 writes v into b using this connection's swap.
func (o Order) PutUint32(b []byte, v uint32) { o.byteOrder().PutUint32(b, v) }

// Int16 reads a signed 16-bit field.
func (o Order) Int16(b []byte) int16 { return int16(o.Uint16(b)) }

// Int32 reads a signed 32-bit field.
func (o Order) Int32(b []byte) int32 { return int32(o.Uint32(b)) }
