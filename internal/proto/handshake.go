package proto

import (
	"fmt"

	"github.com/yawning/x11trace/internal/wire"
)

// DecodeInitiation decodes the client's connection-setup request
// (spec.md §4.E "Initiation"): the byte-order marker, protocol version,
// and authorization credentials. raw excludes nothing — it is the
// complete message starting at byte 0 (the byte-order byte itself
// determines which wire.Order the rest of the connection will use, so
// the caller must read it before calling here).
func DecodeInitiation(o wire.Order, raw []byte, opts *RenderOpts) Message {
	if len(raw) < 12 {
		return Message{Kind: "Initiation", Name: "ClientHandshake", Fields: []FieldValue{
			{Name: "malformed", Value: "truncated initiation"},
		}}
	}
	byteOrderByte := raw[0]
	byteOrderName := "unknown"
	switch byteOrderByte {
	case 0x42:
		byteOrderName = "MSBFirst"
	case 0x6c:
		byteOrderName = "LSBFirst"
	}
	majorVersion := o.Uint16(raw[2:4])
	minorVersion := o.Uint16(raw[4:6])
	authNameLen := int(o.Uint16(raw[6:8]))
	authDataLen := int(o.Uint16(raw[8:10]))

	fields := []FieldValue{
		{Name: "byte-order", Value: fmt.Sprintf("%s(0x%02x)", byteOrderName, byteOrderByte)},
		{Name: "protocol-major-version", Value: fmt.Sprintf("%d", majorVersion)},
		{Name: "protocol-minor-version", Value: fmt.Sprintf("%d", minorVersion)},
	}

	off := 12
	nameEnd := off + authNameLen
	if nameEnd <= len(raw) {
		fields = append(fields, FieldValue{Name: "authorization-protocol-name", Value: QuoteString8(raw[off:nameEnd])})
	} else {
		fields = append(fields, FieldValue{Name: "malformed", Value: "truncated authorization-protocol-name"})
		return Message{Kind: "Initiation", Name: "ClientHandshake", Fields: fields}
	}
	off = wire.Pad(nameEnd)

	dataEnd := off + authDataLen
	if dataEnd <= len(raw) {
		fields = append(fields, FieldValue{Name: "authorization-protocol-data", Value: fmt.Sprintf("%d bytes", authDataLen)})
	} else {
		fields = append(fields, FieldValue{Name: "malformed", Value: "truncated authorization-protocol-data"})
	}
	return Message{Kind: "Initiation", Name: "ClientHandshake", Fields: fields}
}

// DecodeResponse decodes the server's connection-setup reply (spec.md
// §4.E "Response"): either a Failed reason string or a Success record
// with the display's release number, resource id allocation, and the
// SCREEN/DEPTH/VISUALTYPE tree. The nested per-screen records are
// accounted for by length but not individually decoded field-by-field
// (their contents — visuals, depths, root window geometry — are static
// per display and do not aid protocol tracing the way request/reply/
// event fields do).
func DecodeResponse(o wire.Order, raw []byte, opts *RenderOpts) Message {
	if len(raw) < 8 {
		return Message{Kind: "Response", Name: "ServerHandshake", Fields: []FieldValue{
			{Name: "malformed", Value: "truncated response"},
		}}
	}
	status := raw[0]
	majorVersion := o.Uint16(raw[2:4])
	minorVersion := o.Uint16(raw[4:6])

	switch status {
	case 0:
		reasonLen := int(raw[1])
		fields := []FieldValue{
			{Name: "status", Value: "Failed(0)"},
			{Name: "protocol-major-version", Value: fmt.Sprintf("%d", majorVersion)},
			{Name: "protocol-minor-version", Value: fmt.Sprintf("%d", minorVersion)},
		}
		if 8+reasonLen <= len(raw) {
			fields = append(fields, FieldValue{Name: "reason", Value: QuoteString8(raw[8 : 8+reasonLen])})
		}
		return Message{Kind: "Response", Name: "ServerHandshake", Fields: fields}
	case 2:
		return Message{Kind: "Response", Name: "ServerHandshake", Fields: []FieldValue{
			{Name: "status", Value: "Authenticate(2)"},
		}}
	}

	if len(raw) < 40 {
		return Message{Kind: "Response", Name: "ServerHandshake", Fields: []FieldValue{
			{Name: "malformed", Value: "truncated success response"},
		}}
	}
	releaseNumber := o.Uint32(raw[8:12])
	resourceIDBase := o.Uint32(raw[12:16])
	resourceIDMask := o.Uint32(raw[16:20])
	vendorLen := int(o.Uint16(raw[24:26]))
	maxRequestLength := o.Uint16(raw[26:28])
	numScreens := raw[28]
	numFormats := raw[29]
	imageByteOrder := raw[30]
	minKeycode := raw[34]
	maxKeycode := raw[35]

	fields := []FieldValue{
		{Name: "status", Value: "Success(1)"},
		{Name: "protocol-major-version", Value: fmt.Sprintf("%d", majorVersion)},
		{Name: "protocol-minor-version", Value: fmt.Sprintf("%d", minorVersion)},
		{Name: "release-number", Value: fmt.Sprintf("%d", releaseNumber)},
		{Name: "resource-id-base", Value: fmt.Sprintf("0x%08x", resourceIDBase)},
		{Name: "resource-id-mask", Value: fmt.Sprintf("0x%08x", resourceIDMask)},
		{Name: "maximum-request-length", Value: fmt.Sprintf("%d", maxRequestLength)},
		{Name: "image-byte-order", Value: fmt.Sprintf("%d", imageByteOrder)},
		{Name: "min-keycode", Value: fmt.Sprintf("%d", minKeycode)},
		{Name: "max-keycode", Value: fmt.Sprintf("%d", maxKeycode)},
		{Name: "number-of-screens", Value: fmt.Sprintf("%d", numScreens)},
		{Name: "number-of-pixmap-formats", Value: fmt.Sprintf("%d", numFormats)},
	}

	vendorStart := 40
	vendorEnd := vendorStart + vendorLen
	if vendorEnd <= len(raw) {
		fields = append(fields, FieldValue{Name: "vendor", Value: QuoteString8(raw[vendorStart:vendorEnd])})
	}
	rest := wire.Pad(vendorEnd) + int(numFormats)*8
	if rest <= len(raw) {
		fields = append(fields, FieldValue{Name: "screens", Value: fmt.Sprintf("%d bytes", len(raw)-rest)})
	}
	return Message{Kind: "Response", Name: "ServerHandshake", Fields: fields}
}
