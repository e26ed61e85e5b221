package proto

import "github.com/yawning/x11trace/internal/wire"

// Replies is the core reply catalogue, indexed by the opcode of the
// request it answers (only opcodes with Request.HasReply true appear).
var Replies = buildReplies()

func buildReplies() map[byte]Reply {
	m := make(map[byte]Reply, 40)
	add := func(r Reply) { m[r.Opcode] = r }

	add(Reply{Opcode: 3, Name: "GetWindowAttributes", Fixed: []Field{
		Enum("backing-store", 1, backingStoreTable),
		Resource("visual", noneOrCopyFromParent), Enum("class", 2, windowClassTable),
		Enum("bit-gravity", 1, bitGravityTable), Enum("win-gravity", 1, winGravityTable),
		Card32("backing-planes"), Card32("backing-pixel"),
		Bool("save-under"), Bool("map-is-installed"), Enum("map-state", 1, mapStateTable), Bool("override-redirect"),
		Resource("colormap", none0), Hex32("all-event-masks"), Hex32("your-event-mask"), Hex16("do-not-propagate-mask"), Unused(2),
	}})
	add(Reply{Opcode: 14, Name: "GetGeometry", Fixed: []Field{
		Card8("depth"), Resource("root", nil), Int16("x"), Int16("y"), Card16("width"), Card16("height"), Card16("border-width"), Unused(10),
	}})
	add(Reply{Opcode: 15, Name: "QueryTree", Fixed: []Field{
		Unused(1), Resource("root", nil), Resource("parent", none0), Card16("n"), Unused(14),
	}, Variable: varListCard32("children", Resource("window", nil))})
	add(Reply{Opcode: 16, Name: "InternAtom", Fixed: []Field{
		Unused(1), Atom("atom"), Unused(20),
	}})
	add(Reply{Opcode: 17, Name: "GetAtomName", Fixed: []Field{
		Unused(1), Card16("n"), Unused(22),
	}, Variable: varString8("name", "n")})
	add(Reply{Opcode: 20, Name: "GetProperty", Fixed: []Field{
		Card8("format"), Atom("type"), Card32("bytes-after"), Card32("value-len"), Unused(12),
	}, Variable: varGetPropertyValue()})
	add(Reply{Opcode: 21, Name: "ListProperties", Fixed: []Field{
		Unused(1), Card16("n"), Unused(22),
	}, Variable: varListCard32("atoms", Atom("atom"))})
	add(Reply{Opcode: 23, Name: "GetSelectionOwner", Fixed: []Field{
		Unused(1), Resource("owner", none0), Unused(20),
	}})
	add(Reply{Opcode: 26, Name: "GrabPointer", Fixed: []Field{
		Enum("status", 1, grabStatusTable), Unused(24),
	}})
	add(Reply{Opcode: 31, Name: "GrabKeyboard", Fixed: []Field{
		Enum("status", 1, grabStatusTable), Unused(24),
	}})
	add(Reply{Opcode: 38, Name: "QueryPointer", Fixed: []Field{
		Bool("same-screen"), Resource("root", nil), Resource("child", none0),
		Int16("root-x"), Int16("root-y"), Int16("win-x"), Int16("win-y"), Bitmask("mask", 2, keyButMaskBits), Unused(6),
	}})
	add(Reply{Opcode: 39, Name: "GetMotionEvents", Fixed: []Field{
		Unused(1), Card32("n"), Unused(20),
	}, Variable: varOpaque("events")})
	add(Reply{Opcode: 40, Name: "TranslateCoordinates", Fixed: []Field{
		Bool("same-screen"), Resource("child", none0), Int16("dst-x"), Int16("dst-y"), Unused(16),
	}})
	add(Reply{Opcode: 43, Name: "GetInputFocus", Fixed: []Field{
		Enum("revert-to", 1, inputFocusRevertTable), Resource("focus", NameTable{0: "None", 1: "PointerRoot"}), Unused(20),
	}})
	add(Reply{Opcode: 44, Name: "QueryKeymap", Fixed: []Field{
		Unused(1),
	}, Variable: varOpaque("keys")})
	add(Reply{Opcode: 47, Name: "QueryFont", Fixed: []Field{
		Unused(1),
	}, Variable: varOpaque("font-info")})
	add(Reply{Opcode: 48, Name: "QueryTextExtents", Fixed: []Field{
		Enum("draw-direction", 1, NameTable{0: "LeftToRight", 1: "RightToLeft"}),
		Int16("font-ascent"), Int16("font-descent"), Int16("overall-ascent"), Int16("overall-descent"),
		Int32("overall-width"), Int32("overall-left"), Int32("overall-right"), Unused(4),
	}})
	add(Reply{Opcode: 49, Name: "ListFonts", Fixed: []Field{
		Unused(1), Card16("n"), Unused(22),
	}, Variable: varOpaque("names")})
	add(Reply{Opcode: 50, Name: "ListFontsWithInfo", Fixed: []Field{
		Card8("name-len"),
	}, Variable: varOpaque("font-info")})
	add(Reply{Opcode: 52, Name: "GetFontPath", Fixed: []Field{
		Unused(1), Card16("n"), Unused(22),
	}, Variable: varOpaque("path")})
	add(Reply{Opcode: 73, Name: "GetImage", Fixed: []Field{
		Card8("depth"), Resource("visual", none0), Unused(20),
	}, Variable: varOpaque("data")})
	add(Reply{Opcode: 83, Name: "ListInstalledColormaps", Fixed: []Field{
		Unused(1), Card16("n"), Unused(22),
	}, Variable: varListCard32("colormaps", Resource("colormap", nil))})
	add(Reply{Opcode: 84, Name: "AllocColor", Fixed: []Field{
		Unused(1), Card16("red"), Card16("green"), Card16("blue"), Unused(2), Card32("pixel"), Unused(12),
	}})
	add(Reply{Opcode: 85, Name: "AllocNamedColor", Fixed: []Field{
		Unused(1), Card32("pixel"),
		Card16("exact-red"), Card16("exact-green"), Card16("exact-blue"),
		Card16("visual-red"), Card16("visual-green"), Card16("visual-blue"), Unused(8),
	}})
	add(Reply{Opcode: 86, Name: "AllocColorCells", Fixed: []Field{
		Unused(1), Card16("n-pixels"), Card16("n-masks"), Unused(20),
	}, Variable: varOpaque("pixels-and-masks")})
	add(Reply{Opcode: 87, Name: "AllocColorPlanes", Fixed: []Field{
		Unused(1), Card16("n-pixels"), Unused(2), Hex32("red-mask"), Hex32("green-mask"), Hex32("blue-mask"), Unused(8),
	}, Variable: varListCard32("pixels", Card32("pixel"))})
	add(Reply{Opcode: 91, Name: "QueryColors", Fixed: []Field{
		Unused(1), Card16("n"), Unused(22),
	}, Variable: varListRGB("colors")})
	add(Reply{Opcode: 92, Name: "LookupColor", Fixed: []Field{
		Unused(1),
		Card16("exact-red"), Card16("exact-green"), Card16("exact-blue"),
		Card16("visual-red"), Card16("visual-green"), Card16("visual-blue"), Unused(12),
	}})
	add(Reply{Opcode: 97, Name: "QueryBestSize", Fixed: []Field{
		Unused(1), Card16("width"), Card16("height"), Unused(20),
	}})
	add(Reply{Opcode: 98, Name: "QueryExtension", Fixed: []Field{
		Unused(1), Bool("present"), Card8("major-opcode"), Card8("first-event"), Card8("first-error"), Unused(20),
	}})
	add(Reply{Opcode: 99, Name: "ListExtensions", Fixed: []Field{
		Card8("n"),
	}, Variable: varOpaque("names")})
	add(Reply{Opcode: 101, Name: "GetKeyboardMapping", Fixed: []Field{
		Card8("keysyms-per-keycode"), Unused(24),
	}, Variable: varOpaque("keysyms")})
	add(Reply{Opcode: 103, Name: "GetKeyboardControl", Fixed: []Field{
		Enum("global-auto-repeat", 1, NameTable{0: "Off", 1: "On"}),
		Card32("led-mask"), Card8("key-click-percent"), Card8("bell-percent"),
		Card16("bell-pitch"), Card16("bell-duration"), Unused(2),
	}, Variable: varOpaque("auto-repeats")})
	add(Reply{Opcode: 106, Name: "GetPointerControl", Fixed: []Field{
		Unused(1), Card16("acceleration-numerator"), Card16("acceleration-denominator"), Card16("threshold"), Unused(18),
	}})
	add(Reply{Opcode: 108, Name: "GetScreenSaver", Fixed: []Field{
		Unused(1), Card16("timeout"), Card16("interval"),
		Enum("prefer-blanking", 1, NameTable{0: "No", 1: "Yes"}), Enum("allow-exposures", 1, NameTable{0: "No", 1: "Yes"}), Unused(18),
	}})
	add(Reply{Opcode: 110, Name: "ListHosts", Fixed: []Field{
		Enum("mode", 1, accessModeTable), Card16("n"), Unused(22),
	}, Variable: varOpaque("hosts")})
	add(Reply{Opcode: 116, Name: "SetPointerMapping", Fixed: []Field{
		Enum("status", 1, NameTable{0: "Success", 1: "Busy"}), Unused(24),
	}})
	add(Reply{Opcode: 117, Name: "GetPointerMapping", Fixed: []Field{
		Card8("n"),
	}, Variable: varOpaque("map")})
	add(Reply{Opcode: 118, Name: "SetModifierMapping", Fixed: []Field{
		Enum("status", 1, NameTable{0: "Success", 1: "Busy", 2: "Failed"}), Unused(24),
	}})
	add(Reply{Opcode: 119, Name: "GetModifierMapping", Fixed: []Field{
		Card8("keycodes-per-modifier"), Unused(24),
	}, Variable: varOpaque("keycodes")})

	return m
}

// varGetPropertyValue renders GetProperty's format-dependent value list,
// reusing the same per-format slicing ChangeProperty's data uses.
func varGetPropertyValue() VariableFunc {
	return func(o wire.Order, body []byte, fixed FixedValues, opts *RenderOpts) []FieldValue {
		format := fixed.U8("format")
		n := int(fixed.U32(o, "value-len"))
		switch format {
		case 8:
			if n > len(body) {
				n = len(body)
			}
			return []FieldValue{{Name: "value", Value: QuoteString8(body[:n])}}
		case 16:
			nb := n * 2
			if nb > len(body) {
				nb = len(body)
			}
			return []FieldValue{{Name: "value", Value: formatList(o, body[:nb], 2, n, opts, Card16("item").Render)}}
		case 0:
			return []FieldValue{{Name: "value", Value: "[]"}}
		default:
			nb := n * 4
			if nb > len(body) {
				nb = len(body)
			}
			return []FieldValue{{Name: "value", Value: formatList(o, body[:nb], 4, n, opts, Card32("item").Render)}}
		}
	}
}
