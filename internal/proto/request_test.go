package proto

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yawning/x11trace/internal/atomtable"
	"github.com/yawning/x11trace/internal/wire"
)

func testOpts() *RenderOpts {
	return &RenderOpts{Atoms: atomtable.New(), MaxListLength: 0}
}

func be() wire.Order { return wire.NewOrder(wire.HostIsLittleEndian()) }

// S1: CreateWindow with a LISTofVALUE carrying background-pixel and event-mask.
func TestCreateWindowValueList(t *testing.T) {
	o := be()
	req := Requests[1]
	require.Equal(t, "CreateWindow", req.Name)

	body := make([]byte, 0, 64)
	put32 := func(v uint32) {
		var b [4]byte
		o.PutUint32(b[:], v)
		body = append(body, b[:]...)
	}
	put16 := func(v uint16) {
		var b [2]byte
		o.PutUint16(b[:], v)
		body = append(body, b[:]...)
	}
	// wid, parent
	put32(0x00200001)
	put32(0x00000042)
	// x, y, width, height, border-width
	put16(10)
	put16(20)
	put16(100)
	put16(50)
	put16(1)
	// class, visual
	put16(1) // InputOutput
	put32(0)
	// value-mask: bit1 (background-pixel) | bit11 (event-mask)
	mask := uint32(1<<1 | 1<<11)
	put32(mask)
	put32(0x00ff00ff) // background-pixel
	put32(0x8000001)  // event-mask

	fields := req.ParseBody(o, 24 /* depth */, body, testOpts())
	require.NotEmpty(t, fields)

	byName := map[string]string{}
	for _, f := range fields {
		byName[f.Name] = f.Value
	}
	require.Equal(t, "24", byName["depth"])
	require.Equal(t, "InputOutput(1)", byName["class"])
	require.Contains(t, byName, "background-pixel")
	require.Contains(t, byName, "event-mask")
	require.NotContains(t, byName, "border-pixel")
}

func TestChangeWindowAttributesSharesValueList(t *testing.T) {
	req := Requests[2]
	require.Equal(t, "ChangeWindowAttributes", req.Name)
	require.Equal(t, len(createWindowValues.Slots), len(req.ValueList.Slots))
	for i, slot := range createWindowValues.Slots {
		require.Equal(t, slot.Bit, req.ValueList.Slots[i].Bit)
		require.Equal(t, slot.Name, req.ValueList.Slots[i].Name)
	}
}

func TestConfigureWindowValueList(t *testing.T) {
	o := be()
	req := Requests[12]
	require.Equal(t, "ConfigureWindow", req.Name)

	body := make([]byte, 0, 16)
	var win [4]byte
	o.PutUint32(win[:], 7)
	body = append(body, win[:]...)
	mask := uint32(1<<2 | 1<<3) // width, height
	var m [4]byte
	o.PutUint32(m[:], mask)
	body = append(body, m[:]...)
	var w, h [4]byte
	o.PutUint32(w[:], 640)
	o.PutUint32(h[:], 480)
	body = append(body, w[:]...)
	body = append(body, h[:]...)

	fields := req.ParseBody(o, 0, body, testOpts())
	byName := map[string]string{}
	for _, f := range fields {
		byName[f.Name] = f.Value
	}
	require.Equal(t, "640", byName["width"])
	require.Equal(t, "480", byName["height"])
}

func TestInternAtomRequest(t *testing.T) {
	o := be()
	req := Requests[16]
	require.Equal(t, "InternAtom", req.Name)

	name := "MY_CUSTOM_ATOM"
	body := []byte{}
	var nb [2]byte
	o.PutUint16(nb[:], uint16(len(name)))
	body = append(body, nb[:]...)
	body = append(body, 0, 0) // unused pad
	body = append(body, []byte(name)...)

	fields := req.ParseBody(o, 0 /* only-if-exists=False */, body, testOpts())
	var gotName string
	for _, f := range fields {
		if f.Name == "name" {
			gotName = f.Value
		}
	}
	require.Equal(t, `"MY_CUSTOM_ATOM"`, gotName)
}

func TestGetAtomNameRequestHasNoBody(t *testing.T) {
	o := be()
	req := Requests[17]
	require.Equal(t, "GetAtomName", req.Name)

	var atomBytes [4]byte
	o.PutUint32(atomBytes[:], 4) // predefined ATOM
	fields := req.ParseBody(o, 0, atomBytes[:], testOpts())
	require.Len(t, fields, 1)
	require.Equal(t, "atom", fields[0].Name)
	require.Equal(t, `"ATOM"(4)`, fields[0].Value)
}

func TestCreateGCValueList(t *testing.T) {
	o := be()
	req := Requests[55]
	require.Equal(t, "CreateGC", req.Name)

	body := []byte{}
	var cid, drawable [4]byte
	o.PutUint32(cid[:], 0x1000)
	o.PutUint32(drawable[:], 0x42)
	body = append(body, cid[:]...)
	body = append(body, drawable[:]...)
	mask := uint32(1<<2 | 1<<8) // foreground, fill-style
	var m [4]byte
	o.PutUint32(m[:], mask)
	body = append(body, m[:]...)
	var fg, fs [4]byte
	o.PutUint32(fg[:], 0xff0000)
	o.PutUint32(fs[:], 1) // Tiled
	body = append(body, fg[:]...)
	body = append(body, fs[:]...)

	fields := req.ParseBody(o, 0, body, testOpts())
	byName := map[string]string{}
	for _, f := range fields {
		byName[f.Name] = f.Value
	}
	require.Equal(t, "16711680", byName["foreground"])
	require.Equal(t, "Tiled(1)", byName["fill-style"])
}

func TestChangeGCSharesValueListWithCreateGC(t *testing.T) {
	req := Requests[56]
	require.Equal(t, len(createGCValues.Slots), len(req.ValueList.Slots))
	for i, slot := range createGCValues.Slots {
		require.Equal(t, slot.Bit, req.ValueList.Slots[i].Bit)
		require.Equal(t, slot.Name, req.ValueList.Slots[i].Name)
	}
}

func TestChangeKeyboardControlValueList(t *testing.T) {
	o := be()
	req := Requests[102]
	require.Equal(t, "ChangeKeyboardControl", req.Name)

	body := []byte{}
	mask := uint32(1 << 1) // bell-percent
	var m [4]byte
	o.PutUint32(m[:], mask)
	body = append(body, m[:]...)
	var bp [4]byte
	o.PutUint32(bp[:], 50)
	body = append(body, bp[:]...)

	fields := req.ParseBody(o, 0, body, testOpts())
	byName := map[string]string{}
	for _, f := range fields {
		byName[f.Name] = f.Value
	}
	require.Equal(t, "50", byName["bell-percent"])
}

func TestGetInputFocusRequestIsEmpty(t *testing.T) {
	req := Requests[43]
	require.Equal(t, "GetInputFocus", req.Name)
	require.Equal(t, 0, req.FixedSize())
	fields := req.ParseBody(be(), 0, nil, testOpts())
	require.Empty(t, fields)
}

func TestQueryExtensionRequest(t *testing.T) {
	o := be()
	req := Requests[98]
	require.Equal(t, "QueryExtension", req.Name)

	name := "BIG-REQUESTS"
	body := []byte{}
	var nb [2]byte
	o.PutUint16(nb[:], uint16(len(name)))
	body = append(body, nb[:]...)
	body = append(body, 0, 0)
	body = append(body, []byte(name)...)

	fields := req.ParseBody(o, 0, body, testOpts())
	var gotName string
	for _, f := range fields {
		if f.Name == "name" {
			gotName = f.Value
		}
	}
	require.Equal(t, `"BIG-REQUESTS"`, gotName)
}

func TestNoMinorOpcodesDoNotPanicOnEmptyFixed(t *testing.T) {
	for _, op := range []byte{36, 37, 43, 44, 52, 103, 106, 108, 110, 117, 119} {
		op := op
		req, ok := Requests[op]
		require.True(t, ok, "opcode %d", op)
		require.NotPanics(t, func() {
			req.ParseBody(be(), 0, nil, testOpts())
		}, "opcode %d (%s)", op, req.Name)
	}
}

func TestImageText8UsesMinorByteLength(t *testing.T) {
	o := be()
	req := Requests[76]
	require.Equal(t, "ImageText8", req.Name)

	s := "hi"
	body := []byte{}
	var drawable, gc [4]byte
	o.PutUint32(drawable[:], 1)
	o.PutUint32(gc[:], 2)
	body = append(body, drawable[:]...)
	body = append(body, gc[:]...)
	var x, y [2]byte
	o.PutUint16(x[:], 0)
	o.PutUint16(y[:], 0)
	body = append(body, x[:]...)
	body = append(body, y[:]...)
	body = append(body, []byte(s)...)

	fields := req.ParseBody(o, byte(len(s)), body, testOpts())
	var gotStr string
	for _, f := range fields {
		if f.Name == "string" {
			gotStr = f.Value
		}
	}
	require.Equal(t, `"hi"`, gotStr)
}
