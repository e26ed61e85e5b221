package proto

import "github.com/yawning/x11trace/internal/wire"

// Requests is the core request catalogue, indexed by opcode (spec.md §6
// "no extension opcode beyond the 120 core opcodes (1..119 and 127) is
// decoded"). Populated from the public X11 protocol encoding (X11R7.7) and
// cross-checked against original_source/ where spec.md itself is silent on
// a field's exact shape.
var Requests = buildRequests()

func noMinor() Field { return Unused(1) }

func buildRequests() map[byte]Request {
	m := make(map[byte]Request, 128)
	add := func(r Request) { m[r.Opcode] = r }

	add(Request{
		Opcode: 1, Name: "CreateWindow", HasReply: false,
		Fixed: []Field{
			Card8("depth"),
			Resource("wid", nil), Resource("parent", nil),
			Int16("x"), Int16("y"), Card16("width"), Card16("height"), Card16("border-width"),
			Enum("class", 2, windowClassTable), Resource("visual", noneOrCopyFromParent),
		},
		ValueList: &createWindowValues,
	})
	add(Request{
		Opcode: 2, Name: "ChangeWindowAttributes", HasReply: false,
		Fixed:     []Field{noMinor(), Resource("window", nil)},
		ValueList: &changeWindowAttributesValues,
	})
	add(Request{Opcode: 3, Name: "GetWindowAttributes", HasReply: true,
		Fixed: []Field{noMinor(), Resource("window", nil)}})
	add(Request{Opcode: 4, Name: "DestroyWindow", HasReply: false,
		Fixed: []Field{noMinor(), Resource("window", nil)}})
	add(Request{Opcode: 5, Name: "DestroySubwindows", HasReply: false,
		Fixed: []Field{noMinor(), Resource("window", nil)}})
	add(Request{Opcode: 6, Name: "ChangeSaveSet", HasReply: false,
		Fixed: []Field{Enum("mode", 1, hostModeTable), Resource("window", nil)}})
	add(Request{Opcode: 7, Name: "ReparentWindow", HasReply: false,
		Fixed: []Field{noMinor(), Resource("window", nil), Resource("parent", nil), Int16("x"), Int16("y")}})
	add(Request{Opcode: 8, Name: "MapWindow", HasReply: false,
		Fixed: []Field{noMinor(), Resource("window", nil)}})
	add(Request{Opcode: 9, Name: "MapSubwindows", HasReply: false,
		Fixed: []Field{noMinor(), Resource("window", nil)}})
	add(Request{Opcode: 10, Name: "UnmapWindow", HasReply: false,
		Fixed: []Field{noMinor(), Resource("window", nil)}})
	add(Request{Opcode: 11, Name: "UnmapSubwindows", HasReply: false,
		Fixed: []Field{noMinor(), Resource("window", nil)}})
	add(Request{
		Opcode: 12, Name: "ConfigureWindow", HasReply: false,
		Fixed:     []Field{noMinor(), Resource("window", nil)},
		ValueList: &configureWindowValues,
	})
	add(Request{Opcode: 13, Name: "CirculateWindow", HasReply: false,
		Fixed: []Field{Enum("direction", 1, circulateDirectionTable), Resource("window", nil)}})
	add(Request{Opcode: 14, Name: "GetGeometry", HasReply: true,
		Fixed: []Field{noMinor(), Resource("drawable", nil)}})
	add(Request{Opcode: 15, Name: "QueryTree", HasReply: true,
		Fixed: []Field{noMinor(), Resource("window", nil)}})
	add(Request{
		Opcode: 16, Name: "InternAtom", HasReply: true,
		Fixed:    []Field{Bool("only-if-exists"), Card16("n"), Unused(2)},
		Variable: varString8("name", "n"),
	})
	add(Request{Opcode: 17, Name: "GetAtomName", HasReply: true,
		Fixed: []Field{noMinor(), Atom("atom")}})
	add(Request{
		Opcode: 18, Name: "ChangeProperty", HasReply: false,
		Fixed: []Field{
			Enum("mode", 1, propertyModeTable), Resource("window", nil), Atom("property"), Atom("type"),
			Card8("format"), Unused(3), Card32("data-len"),
		},
		Variable: varPropertyData(),
	})
	add(Request{Opcode: 19, Name: "DeleteProperty", HasReply: false,
		Fixed: []Field{noMinor(), Resource("window", nil), Atom("property")}})
	add(Request{Opcode: 20, Name: "GetProperty", HasReply: true,
		Fixed: []Field{Bool("delete"), Resource("window", nil), Atom("property"), Sentinel("type", 4, NameTable{0: "AnyPropertyType"}),
			Card32("long-offset"), Card32("long-length")}})
	add(Request{Opcode: 21, Name: "ListProperties", HasReply: true,
		Fixed: []Field{noMinor(), Resource("window", nil)}})
	add(Request{Opcode: 22, Name: "SetSelectionOwner", HasReply: false,
		Fixed: []Field{noMinor(), Resource("owner", none0), Atom("selection"), Timestamp("time")}})
	add(Request{Opcode: 23, Name: "GetSelectionOwner", HasReply: true,
		Fixed: []Field{noMinor(), Atom("selection")}})
	add(Request{Opcode: 24, Name: "ConvertSelection", HasReply: false,
		Fixed: []Field{noMinor(), Resource("requestor", nil), Atom("selection"), Atom("target"),
			Atom("property"), Timestamp("time")}})
	add(Request{
		Opcode: 25, Name: "SendEvent", HasReply: false,
		Fixed:    []Field{Bool("propagate"), Resource("destination", NameTable{0: "PointerWindow", 1: "InputFocus"}), Hex32("event-mask")},
		Variable: varSendEventBody(),
	})
	add(Request{Opcode: 26, Name: "GrabPointer", HasReply: true,
		Fixed: []Field{
			Bool("owner-events"), Resource("grab-window", nil), Hex16("event-mask"),
			Enum("pointer-mode", 1, grabModeTable), Enum("keyboard-mode", 1, grabModeTable),
			Resource("confine-to", none0), Resource("cursor", none0), Timestamp("time"),
		}})
	add(Request{Opcode: 27, Name: "UngrabPointer", HasReply: false,
		Fixed: []Field{noMinor(), Timestamp("time")}})
	add(Request{Opcode: 28, Name: "GrabButton", HasReply: false,
		Fixed: []Field{
			Bool("owner-events"), Resource("grab-window", nil), Hex16("event-mask"),
			Enum("pointer-mode", 1, grabModeTable), Enum("keyboard-mode", 1, grabModeTable),
			Resource("confine-to", none0), Resource("cursor", none0), Sentinel("button", 1, NameTable{0: "AnyButton"}), Unused(1),
			Bitmask("modifiers", 2, keyButMaskBits),
		}})
	add(Request{Opcode: 29, Name: "UngrabButton", HasReply: false,
		Fixed: []Field{Sentinel("button", 1, NameTable{0: "AnyButton"}), Resource("grab-window", nil), Bitmask("modifiers", 2, keyButMaskBits), Unused(2)}})
	add(Request{Opcode: 30, Name: "ChangeActivePointerGrab", HasReply: false,
		Fixed: []Field{noMinor(), Resource("cursor", none0), Timestamp("time"), Hex16("event-mask"), Unused(2)}})
	add(Request{Opcode: 31, Name: "GrabKeyboard", HasReply: true,
		Fixed: []Field{
			Bool("owner-events"), Resource("grab-window", nil), Timestamp("time"),
			Enum("pointer-mode", 1, grabModeTable), Enum("keyboard-mode", 1, grabModeTable), Unused(2),
		}})
	add(Request{Opcode: 32, Name: "UngrabKeyboard", HasReply: false,
		Fixed: []Field{noMinor(), Timestamp("time")}})
	add(Request{Opcode: 33, Name: "GrabKey", HasReply: false,
		Fixed: []Field{
			Bool("owner-events"), Resource("grab-window", nil), Bitmask("modifiers", 2, keyButMaskBits),
			Sentinel("key", 1, NameTable{0: "AnyKey"}), Enum("pointer-mode", 1, grabModeTable), Enum("keyboard-mode", 1, grabModeTable), Unused(3),
		}})
	add(Request{Opcode: 34, Name: "UngrabKey", HasReply: false,
		Fixed: []Field{Sentinel("key", 1, NameTable{0: "AnyKey"}), Resource("grab-window", nil), Bitmask("modifiers", 2, keyButMaskBits), Unused(2)}})
	add(Request{Opcode: 35, Name: "AllowEvents", HasReply: false,
		Fixed: []Field{Enum("mode", 1, allowEventsModeTable), Timestamp("time")}})
	add(Request{Opcode: 36, Name: "GrabServer", HasReply: false})
	add(Request{Opcode: 37, Name: "UngrabServer", HasReply: false})
	add(Request{Opcode: 38, Name: "QueryPointer", HasReply: true,
		Fixed: []Field{noMinor(), Resource("window", nil)}})
	add(Request{Opcode: 39, Name: "GetMotionEvents", HasReply: true,
		Fixed: []Field{noMinor(), Resource("window", nil), Timestamp("start"), Timestamp("stop")}})
	add(Request{Opcode: 40, Name: "TranslateCoordinates", HasReply: true,
		Fixed: []Field{noMinor(), Resource("src-window", nil), Resource("dst-window", nil), Int16("src-x"), Int16("src-y")}})
	add(Request{Opcode: 41, Name: "WarpPointer", HasReply: false,
		Fixed: []Field{noMinor(), Resource("src-window", none0), Resource("dst-window", none0),
			Int16("src-x"), Int16("src-y"), Card16("src-width"), Card16("src-height"), Int16("dst-x"), Int16("dst-y")}})
	add(Request{Opcode: 42, Name: "SetInputFocus", HasReply: false,
		Fixed: []Field{Enum("revert-to", 1, inputFocusRevertTable), Resource("focus", NameTable{0: "None", 1: "PointerRoot"}), Timestamp("time")}})
	add(Request{Opcode: 43, Name: "GetInputFocus", HasReply: true})
	add(Request{Opcode: 44, Name: "QueryKeymap", HasReply: true})
	add(Request{
		Opcode: 45, Name: "OpenFont", HasReply: false,
		Fixed:    []Field{noMinor(), Resource("fid", nil), Card16("name-len"), Unused(2)},
		Variable: varString8("name", "name-len"),
	})
	add(Request{Opcode: 46, Name: "CloseFont", HasReply: false,
		Fixed: []Field{noMinor(), Resource("font", nil)}})
	add(Request{Opcode: 47, Name: "QueryFont", HasReply: true,
		Fixed: []Field{noMinor(), Resource("font", nil)}})
	add(Request{Opcode: 48, Name: "QueryTextExtents", HasReply: true,
		Fixed:    []Field{Bool("odd-length"), Resource("font", nil)},
		Variable: varOpaque("string")})
	add(Request{
		Opcode: 49, Name: "ListFonts", HasReply: true,
		Fixed:    []Field{noMinor(), Card16("max-names"), Card16("pattern-len")},
		Variable: varString8("pattern", "pattern-len"),
	})
	add(Request{
		Opcode: 50, Name: "ListFontsWithInfo", HasReply: true,
		Fixed:    []Field{noMinor(), Card16("max-names"), Card16("pattern-len")},
		Variable: varString8("pattern", "pattern-len"),
	})
	add(Request{Opcode: 51, Name: "SetFontPath", HasReply: false,
		Fixed:    []Field{noMinor(), Card16("n"), Unused(2)},
		Variable: varOpaque("path")})
	add(Request{Opcode: 52, Name: "GetFontPath", HasReply: true})
	add(Request{Opcode: 53, Name: "CreatePixmap", HasReply: false,
		Fixed: []Field{Card8("depth"), Resource("pid", nil), Resource("drawable", nil), Card16("width"), Card16("height")}})
	add(Request{Opcode: 54, Name: "FreePixmap", HasReply: false,
		Fixed: []Field{noMinor(), Resource("pixmap", nil)}})
	add(Request{
		Opcode: 55, Name: "CreateGC", HasReply: false,
		Fixed:     []Field{noMinor(), Resource("cid", nil), Resource("drawable", nil)},
		ValueList: &createGCValues,
	})
	add(Request{
		Opcode: 56, Name: "ChangeGC", HasReply: false,
		Fixed:     []Field{noMinor(), Resource("gc", nil)},
		ValueList: &changeGCValues,
	})
	add(Request{Opcode: 57, Name: "CopyGC", HasReply: false,
		Fixed: []Field{noMinor(), Resource("src-gc", nil), Resource("dst-gc", nil), Hex32("value-mask")}})
	add(Request{Opcode: 58, Name: "SetDashes", HasReply: false,
		Fixed:    []Field{noMinor(), Resource("gc", nil), Card16("dash-offset"), Card16("n")},
		Variable: varOpaque("dashes")})
	add(Request{Opcode: 59, Name: "SetClipRectangles", HasReply: false,
		Fixed:    []Field{Enum("ordering", 1, clipRectOrderingTable), Resource("gc", nil), Int16("clip-x-origin"), Int16("clip-y-origin")},
		Variable: varOpaque("rectangles")})
	add(Request{Opcode: 60, Name: "FreeGC", HasReply: false,
		Fixed: []Field{noMinor(), Resource("gc", nil)}})
	add(Request{Opcode: 61, Name: "ClearArea", HasReply: false,
		Fixed: []Field{Bool("exposures"), Resource("window", nil), Int16("x"), Int16("y"), Card16("width"), Card16("height")}})
	add(Request{Opcode: 62, Name: "CopyArea", HasReply: false,
		Fixed: []Field{noMinor(), Resource("src-drawable", nil), Resource("dst-drawable", nil), Resource("gc", nil),
			Int16("src-x"), Int16("src-y"), Int16("dst-x"), Int16("dst-y"), Card16("width"), Card16("height")}})
	add(Request{Opcode: 63, Name: "CopyPlane", HasReply: false,
		Fixed: []Field{noMinor(), Resource("src-drawable", nil), Resource("dst-drawable", nil), Resource("gc", nil),
			Int16("src-x"), Int16("src-y"), Int16("dst-x"), Int16("dst-y"), Card16("width"), Card16("height"), Card32("bit-plane")}})
	add(Request{Opcode: 64, Name: "PolyPoint", HasReply: false,
		Fixed:    []Field{Enum("coordinate-mode", 1, coordinateModeTable), Resource("drawable", nil), Resource("gc", nil)},
		Variable: varOpaque("points")})
	add(Request{Opcode: 65, Name: "PolyLine", HasReply: false,
		Fixed:    []Field{Enum("coordinate-mode", 1, coordinateModeTable), Resource("drawable", nil), Resource("gc", nil)},
		Variable: varOpaque("points")})
	add(Request{Opcode: 66, Name: "PolySegment", HasReply: false,
		Fixed:    []Field{noMinor(), Resource("drawable", nil), Resource("gc", nil)},
		Variable: varOpaque("segments")})
	add(Request{Opcode: 67, Name: "PolyRectangle", HasReply: false,
		Fixed:    []Field{noMinor(), Resource("drawable", nil), Resource("gc", nil)},
		Variable: varOpaque("rectangles")})
	add(Request{Opcode: 68, Name: "PolyArc", HasReply: false,
		Fixed:    []Field{noMinor(), Resource("drawable", nil), Resource("gc", nil)},
		Variable: varOpaque("arcs")})
	add(Request{Opcode: 69, Name: "FillPoly", HasReply: false,
		Fixed:    []Field{noMinor(), Resource("drawable", nil), Resource("gc", nil), Sentinel("shape", 1, NameTable{0: "Complex", 1: "Nonconvex", 2: "Convex"}), Enum("coordinate-mode", 1, coordinateModeTable), Unused(2)},
		Variable: varOpaque("points")})
	add(Request{Opcode: 70, Name: "PolyFillRectangle", HasReply: false,
		Fixed:    []Field{noMinor(), Resource("drawable", nil), Resource("gc", nil)},
		Variable: varOpaque("rectangles")})
	add(Request{Opcode: 71, Name: "PolyFillArc", HasReply: false,
		Fixed:    []Field{noMinor(), Resource("drawable", nil), Resource("gc", nil)},
		Variable: varOpaque("arcs")})
	add(Request{Opcode: 72, Name: "PutImage", HasReply: false,
		Fixed: []Field{Enum("format", 1, imageFormatTable), Resource("drawable", nil), Resource("gc", nil),
			Card16("width"), Card16("height"), Int16("dst-x"), Int16("dst-y"), Card8("left-pad"), Card8("depth"), Unused(2)},
		Variable: varOpaque("data")})
	add(Request{Opcode: 73, Name: "GetImage", HasReply: true,
		Fixed: []Field{Enum("format", 1, NameTable{1: "XYPixmap", 2: "ZPixmap"}), Resource("drawable", nil),
			Int16("x"), Int16("y"), Card16("width"), Card16("height"), Hex32("plane-mask")}})
	add(Request{
		Opcode: 74, Name: "PolyText8", HasReply: false,
		Fixed:    []Field{noMinor(), Resource("drawable", nil), Resource("gc", nil), Int16("x"), Int16("y")},
		Variable: varPolyText(false),
	})
	add(Request{
		Opcode: 75, Name: "PolyText16", HasReply: false,
		Fixed:    []Field{noMinor(), Resource("drawable", nil), Resource("gc", nil), Int16("x"), Int16("y")},
		Variable: varPolyText(true),
	})
	add(Request{
		Opcode: 76, Name: "ImageText8", HasReply: false,
		Fixed:    []Field{Card8("n"), Resource("drawable", nil), Resource("gc", nil), Int16("x"), Int16("y")},
		Variable: varString8("string", "n"),
	})
	add(Request{
		Opcode: 77, Name: "ImageText16", HasReply: false,
		Fixed: []Field{Card8("n"), Resource("drawable", nil), Resource("gc", nil), Int16("x"), Int16("y")},
		Variable: func(o wire.Order, body []byte, fixed FixedValues, opts *RenderOpts) []FieldValue {
			n := int(fixed.U8("n"))
			if 2*n > len(body) {
				n = len(body) / 2
			}
			return []FieldValue{{Name: "string", Value: QuoteString16(o, body[:2*n])}}
		},
	})
	add(Request{Opcode: 78, Name: "CreateColormap", HasReply: false,
		Fixed: []Field{Sentinel("alloc", 1, NameTable{0: "None", 1: "All"}), Resource("mid", nil), Resource("window", nil), Resource("visual", nil)}})
	add(Request{Opcode: 79, Name: "FreeColormap", HasReply: false,
		Fixed: []Field{noMinor(), Resource("colormap", nil)}})
	add(Request{Opcode: 80, Name: "CopyColormapAndFree", HasReply: false,
		Fixed: []Field{noMinor(), Resource("mid", nil), Resource("src-colormap", nil)}})
	add(Request{Opcode: 81, Name: "InstallColormap", HasReply: false,
		Fixed: []Field{noMinor(), Resource("colormap", nil)}})
	add(Request{Opcode: 82, Name: "UninstallColormap", HasReply: false,
		Fixed: []Field{noMinor(), Resource("colormap", nil)}})
	add(Request{Opcode: 83, Name: "ListInstalledColormaps", HasReply: true,
		Fixed: []Field{noMinor(), Resource("window", nil)}})
	add(Request{Opcode: 84, Name: "AllocColor", HasReply: true,
		Fixed: []Field{noMinor(), Resource("colormap", nil), Card16("red"), Card16("green"), Card16("blue"), Unused(2)}})
	add(Request{
		Opcode: 85, Name: "AllocNamedColor", HasReply: true,
		Fixed:    []Field{noMinor(), Resource("colormap", nil), Card16("name-len"), Unused(2)},
		Variable: varString8("name", "name-len"),
	})
	add(Request{Opcode: 86, Name: "AllocColorCells", HasReply: true,
		Fixed: []Field{Bool("contiguous"), Resource("colormap", nil), Card16("colors"), Card16("planes")}})
	add(Request{Opcode: 87, Name: "AllocColorPlanes", HasReply: true,
		Fixed: []Field{Bool("contiguous"), Resource("colormap", nil), Card16("colors"), Card16("reds"), Card16("greens"), Card16("blues")}})
	add(Request{Opcode: 88, Name: "FreeColors", HasReply: false,
		Fixed:    []Field{noMinor(), Resource("colormap", nil), Hex32("plane-mask")},
		Variable: varListCard32("pixels", Card32("pixel"))})
	add(Request{Opcode: 89, Name: "StoreColors", HasReply: false,
		Fixed:    []Field{noMinor(), Resource("colormap", nil)},
		Variable: varOpaque("items")})
	add(Request{
		Opcode: 90, Name: "StoreNamedColor", HasReply: false,
		Fixed:    []Field{Bitmask("do-rgb-mask", 1, colorFlagsBits), Resource("colormap", nil), Card32("pixel"), Card16("name-len"), Unused(2)},
		Variable: varString8("name", "name-len"),
	})
	add(Request{
		Opcode: 91, Name: "QueryColors", HasReply: true,
		Fixed:    []Field{noMinor(), Resource("colormap", nil)},
		Variable: varListCard32("pixels", Card32("pixel")),
	})
	add(Request{
		Opcode: 92, Name: "LookupColor", HasReply: true,
		Fixed:    []Field{noMinor(), Resource("colormap", nil), Card16("name-len"), Unused(2)},
		Variable: varString8("name", "name-len"),
	})
	add(Request{Opcode: 93, Name: "CreateCursor", HasReply: false,
		Fixed: []Field{noMinor(), Resource("cid", nil), Resource("source", nil), Resource("mask", none0),
			Card16("fore-red"), Card16("fore-green"), Card16("fore-blue"),
			Card16("back-red"), Card16("back-green"), Card16("back-blue"), Card16("x"), Card16("y")}})
	add(Request{Opcode: 94, Name: "CreateGlyphCursor", HasReply: false,
		Fixed: []Field{noMinor(), Resource("cid", nil), Resource("source-font", nil), Resource("mask-font", none0),
			Card16("source-char"), Card16("mask-char"),
			Card16("fore-red"), Card16("fore-green"), Card16("fore-blue"),
			Card16("back-red"), Card16("back-green"), Card16("back-blue")}})
	add(Request{Opcode: 95, Name: "FreeCursor", HasReply: false,
		Fixed: []Field{noMinor(), Resource("cursor", nil)}})
	add(Request{Opcode: 96, Name: "RecolorCursor", HasReply: false,
		Fixed: []Field{noMinor(), Resource("cursor", nil), Card16("fore-red"), Card16("fore-green"), Card16("fore-blue"),
			Card16("back-red"), Card16("back-green"), Card16("back-blue")}})
	add(Request{Opcode: 97, Name: "QueryBestSize", HasReply: true,
		Fixed: []Field{Enum("class", 1, NameTable{0: "Cursor", 1: "Tile", 2: "Stipple"}), Resource("drawable", nil), Card16("width"), Card16("height")}})
	add(Request{
		Opcode: 98, Name: "QueryExtension", HasReply: true,
		Fixed:    []Field{noMinor(), Card16("name-len"), Unused(2)},
		Variable: varString8("name", "name-len"),
	})
	add(Request{Opcode: 99, Name: "ListExtensions", HasReply: true})
	add(Request{Opcode: 100, Name: "ChangeKeyboardMapping", HasReply: false,
		Fixed:    []Field{Card8("keycode-count"), Card8("first-keycode"), Card8("keysyms-per-keycode"), Unused(2)},
		Variable: varOpaque("keysyms")})
	add(Request{Opcode: 101, Name: "GetKeyboardMapping", HasReply: true,
		Fixed: []Field{noMinor(), Card8("first-keycode"), Card8("count"), Unused(2)}})
	add(Request{
		Opcode: 102, Name: "ChangeKeyboardControl", HasReply: false,
		Fixed:     []Field{noMinor()},
		ValueList: &changeKeyboardControlValues,
	})
	add(Request{Opcode: 103, Name: "GetKeyboardControl", HasReply: true})
	add(Request{Opcode: 104, Name: "Bell", HasReply: false,
		Fixed: []Field{Int8("percent")}})
	add(Request{Opcode: 105, Name: "ChangePointerControl", HasReply: false,
		Fixed: []Field{noMinor(), Int16("acceleration-numerator"), Int16("acceleration-denominator"), Int16("threshold"),
			Bool("do-acceleration"), Bool("do-threshold")}})
	add(Request{Opcode: 106, Name: "GetPointerControl", HasReply: true})
	add(Request{Opcode: 107, Name: "SetScreenSaver", HasReply: false,
		Fixed: []Field{noMinor(), Int16("timeout"), Int16("interval"), Sentinel("prefer-blanking", 1, NameTable{0: "No", 1: "Yes", 2: "Default"}),
			Sentinel("allow-exposures", 1, NameTable{0: "No", 1: "Yes", 2: "Default"}), Unused(2)}})
	add(Request{Opcode: 108, Name: "GetScreenSaver", HasReply: true})
	add(Request{Opcode: 109, Name: "ChangeHosts", HasReply: false,
		Fixed:    []Field{Enum("mode", 1, hostModeTable), Enum("family", 1, NameTable{0: "Internet", 1: "DECnet", 2: "Chaos", 6: "InternetV6", 5: "ServerInterpreted"}), Unused(1), Card16("address-len")},
		Variable: varOpaque("address")})
	add(Request{Opcode: 110, Name: "ListHosts", HasReply: true})
	add(Request{Opcode: 111, Name: "SetAccessControl", HasReply: false,
		Fixed: []Field{Enum("mode", 1, accessModeTable)}})
	add(Request{Opcode: 112, Name: "SetCloseDownMode", HasReply: false,
		Fixed: []Field{Enum("mode", 1, closeDownModeTable)}})
	add(Request{Opcode: 113, Name: "KillClient", HasReply: false,
		Fixed: []Field{noMinor(), Sentinel("resource", 4, NameTable{0: "AllTemporary"})}})
	add(Request{Opcode: 114, Name: "RotateProperties", HasReply: false,
		Fixed:    []Field{noMinor(), Resource("window", nil), Card16("n"), Int16("delta")},
		Variable: varListCard32("properties", Atom("atom"))})
	add(Request{Opcode: 115, Name: "ForceScreenSaver", HasReply: false,
		Fixed: []Field{Enum("mode", 1, NameTable{0: "Reset", 1: "Activate"})}})
	add(Request{Opcode: 116, Name: "SetPointerMapping", HasReply: true,
		Fixed:    []Field{Card8("map-len")},
		Variable: varOpaque("map")})
	add(Request{Opcode: 117, Name: "GetPointerMapping", HasReply: true})
	add(Request{Opcode: 118, Name: "SetModifierMapping", HasReply: true,
		Fixed:    []Field{Card8("keycodes-per-modifier")},
		Variable: varOpaque("keycodes")})
	add(Request{Opcode: 119, Name: "GetModifierMapping", HasReply: true})
	add(Request{Opcode: 127, Name: "NoOperation", HasReply: false,
		Variable: varOpaque("data")})

	return m
}

// varPropertyData renders ChangeProperty's format-dependent data list
// (spec.md's "compound types"): 8/16/32-bit elements, count given by the
// already-parsed data-len fixed field.
func varPropertyData() VariableFunc {
	return func(o wire.Order, body []byte, fixed FixedValues, opts *RenderOpts) []FieldValue {
		format := fixed.U8("format")
		n := int(fixed.U32(o, "data-len"))
		switch format {
		case 8:
			if n > len(body) {
				n = len(body)
			}
			return []FieldValue{{Name: "data", Value: QuoteString8(body[:n])}}
		case 16:
			nb := n * 2
			if nb > len(body) {
				nb = len(body)
			}
			return []FieldValue{{Name: "data", Value: formatList(o, body[:nb], 2, n, opts, Card16("item").Render)}}
		default: // 32, or malformed; treat as 32
			nb := n * 4
			if nb > len(body) {
				nb = len(body)
			}
			return []FieldValue{{Name: "data", Value: formatList(o, body[:nb], 4, n, opts, Card32("item").Render)}}
		}
	}
}

// varSendEventBody renders SendEvent's embedded 32-byte event (spec.md
// §4.E "SendEvent"): parsed with the same dispatcher used for server->
// client events, since every core event is exactly 32 bytes.
func varSendEventBody() VariableFunc {
	return func(o wire.Order, body []byte, fixed FixedValues, opts *RenderOpts) []FieldValue {
		if len(body) < 32 {
			return []FieldValue{{Name: "event", Value: "truncated"}}
		}
		msg := DecodeEvent(o, body[:32], opts)
		return []FieldValue{{Name: "event", Value: msg.Render(opts)}}
	}
}

// varPolyText returns a Variable parser for PolyText8/PolyText16's
// polymorphic text-item stream (spec.md §4.E "Polymorphic text items").
func varPolyText(wide bool) VariableFunc {
	return func(o wire.Order, body []byte, fixed FixedValues, opts *RenderOpts) []FieldValue {
		items := ParsePolyText(o, body, wide)
		return []FieldValue{{Name: "items", Value: items}}
	}
}
