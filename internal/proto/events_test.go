package proto

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yawning/x11trace/internal/wire"
)

func makeEvent(o wire.Order, code, detail byte, fill func([]byte)) []byte {
	raw := make([]byte, 32)
	raw[0] = code
	raw[1] = detail
	var seq [2]byte
	o.PutUint16(seq[:], 1)
	copy(raw[2:4], seq[:])
	fill(raw[4:32])
	return raw
}

func TestDecodeKeyPressEvent(t *testing.T) {
	o := be()
	raw := makeEvent(o, 2, 38 /* keycode */, func(body []byte) {
		var root, event, child [4]byte
		o.PutUint32(root[:], 0x100)
		o.PutUint32(event[:], 0x200)
		o.PutUint32(child[:], 0)
		copy(body[4:8], root[:])
		copy(body[8:12], event[:])
		copy(body[12:16], child[:])
	})

	msg := DecodeEvent(o, raw, testOpts())
	require.Equal(t, "KeyPress", msg.Name)
	require.Equal(t, 2, msg.Code)
	byName := map[string]string{}
	for _, f := range msg.Fields {
		byName[f.Name] = f.Value
	}
	require.Equal(t, "38", byName["detail"])
	require.Equal(t, "512", byName["event"])
}

func TestDecodeEventSendEventBitSetsSynthetic(t *testing.T) {
	o := be()
	raw := makeEvent(o, 2|0x80, 38, func(body []byte) {})
	msg := DecodeEvent(o, raw, testOpts())
	require.Equal(t, "KeyPress", msg.Name)
	var synthetic string
	for _, f := range msg.Fields {
		if f.Name == "synthetic" {
			synthetic = f.Value
		}
	}
	require.Equal(t, "True", synthetic)
}

func TestDecodeKeymapNotifySpecialCase(t *testing.T) {
	o := be()
	raw := make([]byte, 32)
	raw[0] = 11
	msg := DecodeEvent(o, raw, testOpts())
	require.Equal(t, "KeymapNotify", msg.Name)
	require.Equal(t, 11, msg.Code)
}

func TestDecodeClientMessageFormat32(t *testing.T) {
	o := be()
	raw := make([]byte, 32)
	raw[0] = 33
	raw[1] = 32 // format
	var window, msgType [4]byte
	o.PutUint32(window[:], 0x500)
	o.PutUint32(msgType[:], 4) // ATOM predefined
	copy(raw[4:8], window[:])
	copy(raw[8:12], msgType[:])
	var w0 [4]byte
	o.PutUint32(w0[:], 0xdeadbeef)
	copy(raw[12:16], w0[:])

	msg := DecodeEvent(o, raw, testOpts())
	require.Equal(t, "ClientMessage", msg.Name)
	byName := map[string]string{}
	for _, f := range msg.Fields {
		byName[f.Name] = f.Value
	}
	require.Equal(t, "32", byName["format"])
	require.Equal(t, "1280", byName["window"])
	require.Equal(t, `"ATOM"(4)`, byName["message-type"])
	require.Contains(t, byName["data"], "3735928559")
}

func TestDecodeConfigureNotifyBitExact(t *testing.T) {
	o := be()
	raw := makeEvent(o, 22, 0, func(body []byte) {
		var event, window, above [4]byte
		o.PutUint32(event[:], 1)
		o.PutUint32(window[:], 2)
		o.PutUint32(above[:], 0)
		copy(body[0:4], event[:])
		copy(body[4:8], window[:])
		copy(body[8:12], above[:])
		var x, y, w, h, bw [2]byte
		o.PutUint16(x[:], 10)
		o.PutUint16(y[:], 20)
		o.PutUint16(w[:], 640)
		o.PutUint16(h[:], 480)
		o.PutUint16(bw[:], 2)
		copy(body[12:14], x[:])
		copy(body[14:16], y[:])
		copy(body[16:18], w[:])
		copy(body[18:20], h[:])
		copy(body[20:22], bw[:])
	})
	msg := DecodeEvent(o, raw, testOpts())
	require.Equal(t, "ConfigureNotify", msg.Name)
	byName := map[string]string{}
	for _, f := range msg.Fields {
		byName[f.Name] = f.Value
	}
	require.Equal(t, "640", byName["width"])
	require.Equal(t, "480", byName["height"])
}

func TestDecodeEventUnknownCode(t *testing.T) {
	o := be()
	raw := make([]byte, 32)
	raw[0] = 200
	msg := DecodeEvent(o, raw, testOpts())
	require.Contains(t, msg.Name, "Unknown")
}

func TestDecodeEventTruncated(t *testing.T) {
	o := be()
	msg := DecodeEvent(o, []byte{1, 2, 3}, testOpts())
	require.Equal(t, -1, msg.Code)
}

func TestEveryEventFixedTailSumsTo28(t *testing.T) {
	for code, ev := range Events {
		n := 0
		for _, f := range ev.Fixed[1:] {
			n += f.Size
		}
		if len(ev.Fixed) > 0 {
			n += ev.Fixed[0].Size
		}
		require.Equal(t, 29, n, "event code %d (%s): detail+body should sum to 29 (1 detail + 28 body)", code, ev.Name)
	}
}
