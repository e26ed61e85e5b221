package proto

// The six LISTofVALUE-bearing core requests (spec.md §4.E). Slot render
// funcs reuse the ordinary field constructors so enum/bitmask/atom/resource
// rendering is identical to a ordinary fixed field.

var createWindowValues = ValueListSpec{Slots: []ValueSlot{
	{Bit: 0, Name: "background-pixmap", Render: Resource("background-pixmap", NameTable{0: "None", 1: "ParentRelative"}).Render},
	{Bit: 1, Name: "background-pixel", Render: Card32("background-pixel").Render},
	{Bit: 2, Name: "border-pixmap", Render: Resource("border-pixmap", NameTable{0: "CopyFromParent"}).Render},
	{Bit: 3, Name: "border-pixel", Render: Card32("border-pixel").Render},
	{Bit: 4, Name: "bit-gravity", Render: Enum("bit-gravity", 4, bitGravityTable).Render},
	{Bit: 5, Name: "win-gravity", Render: Enum("win-gravity", 4, winGravityTable).Render},
	{Bit: 6, Name: "backing-store", Render: Enum("backing-store", 4, backingStoreTable).Render},
	{Bit: 7, Name: "backing-planes", Render: Card32("backing-planes").Render},
	{Bit: 8, Name: "backing-pixel", Render: Card32("backing-pixel").Render},
	{Bit: 9, Name: "override-redirect", Render: Bool("override-redirect").Render},
	{Bit: 10, Name: "save-under", Render: Bool("save-under").Render},
	{Bit: 11, Name: "event-mask", Render: Hex32("event-mask").Render},
	{Bit: 12, Name: "do-not-propagate-mask", Render: Hex32("do-not-propagate-mask").Render},
	{Bit: 13, Name: "colormap", Render: Resource("colormap", noneOrCopyFromParent).Render},
	{Bit: 14, Name: "cursor", Render: Resource("cursor", none0).Render},
}}

// ChangeWindowAttributes carries exactly the same slots as CreateWindow,
// bit-gravity and win-gravity included: the core protocol gives both
// requests the same value-mask and value list.
var changeWindowAttributesValues = createWindowValues

var configureWindowValues = ValueListSpec{Slots: []ValueSlot{
	{Bit: 0, Name: "x", Render: Int32("x").Render},
	{Bit: 1, Name: "y", Render: Int32("y").Render},
	{Bit: 2, Name: "width", Render: Card32("width").Render},
	{Bit: 3, Name: "height", Render: Card32("height").Render},
	{Bit: 4, Name: "border-width", Render: Card32("border-width").Render},
	{Bit: 5, Name: "sibling", Render: Resource("sibling", nil).Render},
	{Bit: 6, Name: "stack-mode", Render: Enum("stack-mode", 4, stackModeTable).Render},
}}

var createGCValues = ValueListSpec{Slots: []ValueSlot{
	{Bit: 0, Name: "function", Render: Enum("function", 4, functionTable).Render},
	{Bit: 1, Name: "plane-mask", Render: Card32("plane-mask").Render},
	{Bit: 2, Name: "foreground", Render: Card32("foreground").Render},
	{Bit: 3, Name: "background", Render: Card32("background").Render},
	{Bit: 4, Name: "line-width", Render: Card32("line-width").Render},
	{Bit: 5, Name: "line-style", Render: Enum("line-style", 4, lineStyleTable).Render},
	{Bit: 6, Name: "cap-style", Render: Enum("cap-style", 4, capStyleTable).Render},
	{Bit: 7, Name: "join-style", Render: Enum("join-style", 4, joinStyleTable).Render},
	{Bit: 8, Name: "fill-style", Render: Enum("fill-style", 4, fillStyleTable).Render},
	{Bit: 9, Name: "fill-rule", Render: Enum("fill-rule", 4, fillRuleTable).Render},
	{Bit: 10, Name: "tile", Render: Resource("tile", nil).Render},
	{Bit: 11, Name: "stipple", Render: Resource("stipple", nil).Render},
	{Bit: 12, Name: "tile-stipple-x-origin", Render: Int32("tile-stipple-x-origin").Render},
	{Bit: 13, Name: "tile-stipple-y-origin", Render: Int32("tile-stipple-y-origin").Render},
	{Bit: 14, Name: "font", Render: Resource("font", nil).Render},
	{Bit: 15, Name: "subwindow-mode", Render: Enum("subwindow-mode", 4, subwindowModeTable).Render},
	{Bit: 16, Name: "graphics-exposures", Render: Bool("graphics-exposures").Render},
	{Bit: 17, Name: "clip-x-origin", Render: Int32("clip-x-origin").Render},
	{Bit: 18, Name: "clip-y-origin", Render: Int32("clip-y-origin").Render},
	{Bit: 19, Name: "clip-mask", Render: Resource("clip-mask", none0).Render},
	{Bit: 20, Name: "dash-offset", Render: Card32("dash-offset").Render},
	{Bit: 21, Name: "dashes", Render: Card32("dashes").Render},
	{Bit: 22, Name: "arc-mode", Render: Enum("arc-mode", 4, arcModeTable).Render},
}}

var changeGCValues = createGCValues

var changeKeyboardControlValues = ValueListSpec{Slots: []ValueSlot{
	{Bit: 0, Name: "key-click-percent", Render: Int32("key-click-percent").Render},
	{Bit: 1, Name: "bell-percent", Render: Int32("bell-percent").Render},
	{Bit: 2, Name: "bell-pitch", Render: Int32("bell-pitch").Render},
	{Bit: 3, Name: "bell-duration", Render: Int32("bell-duration").Render},
	{Bit: 4, Name: "led", Render: Card32("led").Render},
	{Bit: 5, Name: "led-mode", Render: Enum("led-mode", 4, ledModeTable).Render},
	{Bit: 6, Name: "key", Render: Card32("key").Render},
	{Bit: 7, Name: "auto-repeat-mode", Render: Enum("auto-repeat-mode", 4, autoRepeatModeTable).Render},
}}
