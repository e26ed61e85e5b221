package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPad(t *testing.T) {
	cases := map[int]int{0: 0, 1: 4, 2: 4, 3: 4, 4: 4, 5: 8, 9: 12}
	for n, want := range cases {
		got := Pad(n)
		require.Equal(t, want, got, "Pad(%d)", n)
		require.Zero(t, got%4)
		require.True(t, got-n >= 0 && got-n < 4)
	}
}

func TestUnitsSize(t *testing.T) {
	require.Equal(t, 3, Units(9))
	require.Equal(t, 12, Size(3))
}

func TestOrderInvolution(t *testing.T) {
	o := NewOrder(true)
	var buf [4]byte
	o.PutUint32(buf[:], 0xdeadbeef)
	round := o.Uint32(buf[:])
	require.EqualValues(t, 0xdeadbeef, round)
}

func TestOrderIdentityNoSwap(t *testing.T) {
	o := NewOrder(false)
	var buf [4]byte
	o.PutUint32(buf[:], 0x01020304)
	require.EqualValues(t, 0x01020304, o.Uint32(buf[:]))
}

func TestOrder8BitNeverSwaps(t *testing.T) {
	o := NewOrder(true)
	require.EqualValues(t, 0x7f, o.Uint8([]byte{0x7f}))
}
