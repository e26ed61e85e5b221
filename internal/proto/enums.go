package proto

// Shared enum/bitmask tables used across multiple requests, replies, and
// events. Kept as package-level static tables (spec.md §9 "No dynamic
// dispatch per field... static slices").

var none0 = NameTable{0: "None"}
var noneOrCopyFromParent = NameTable{0: "None", 1: "CopyFromParent"}

var windowClassTable = NameTable{0: "CopyFromParent", 1: "InputOutput", 2: "InputOnly"}

var backingStoreTable = NameTable{0: "NotUseful", 1: "WhenMapped", 2: "Always"}

var bitGravityTable = NameTable{
	0: "Forget", 1: "NorthWest", 2: "North", 3: "NorthEast", 4: "West",
	5: "Center", 6: "East", 7: "SouthWest", 8: "South", 9: "SouthEast",
	10: "Static",
}

var winGravityTable = NameTable{
	0: "Unmap", 1: "NorthWest", 2: "North", 3: "NorthEast", 4: "West",
	5: "Center", 6: "East", 7: "SouthWest", 8: "South", 9: "SouthEast",
	10: "Static",
}

var stackModeTable = NameTable{0: "Above", 1: "Below", 2: "TopIf", 3: "BottomIf", 4: "Opposite"}

var mapStateTable = NameTable{0: "Unmapped", 1: "Unviewable", 2: "Viewable"}

var propertyModeTable = NameTable{0: "Replace", 1: "Prepend", 2: "Append"}

var closeDownModeTable = NameTable{0: "Destroy", 1: "RetainPermanent", 2: "RetainTemporary"}

var circulateDirectionTable = NameTable{0: "RaiseLowest", 1: "LowerHighest"}

var allowEventsModeTable = NameTable{
	0: "AsyncPointer", 1: "SyncPointer", 2: "ReplayPointer", 3: "AsyncKeyboard",
	4: "SyncKeyboard", 5: "ReplayKeyboard", 6: "AsyncBoth", 7: "SyncBoth",
}

var inputFocusRevertTable = NameTable{0: "None", 1: "PointerRoot", 2: "Parent"}

var grabStatusTable = NameTable{
	0: "Success", 1: "AlreadyGrabbed", 2: "InvalidTime", 3: "NotViewable", 4: "Frozen",
}

var hostModeTable = NameTable{0: "Insert", 1: "Delete"}

var accessModeTable = NameTable{0: "Disable", 1: "Enable"}

var autoRepeatModeTable = NameTable{0: "Off", 1: "On", 2: "Default"}

var ledModeTable = NameTable{0: "Off", 1: "On"}

var orderingTable = NameTable{0: "UnSorted", 1: "YSorted", 2: "YXSorted", 3: "YXBanded"}

var coordinateModeTable = NameTable{0: "Origin", 1: "Previous"}

var arcModeTable = NameTable{0: "Chord", 1: "PieSlice"}

var clipRectOrderingTable = orderingTable

var fillRuleTable = NameTable{0: "EvenOdd", 1: "Winding"}

var fillStyleTable = NameTable{0: "Solid", 1: "Tiled", 2: "Stippled", 3: "OpaqueStippled"}

var functionTable = NameTable{
	0: "Clear", 1: "And", 2: "AndReverse", 3: "Copy", 4: "AndInverted", 5: "NoOp",
	6: "Xor", 7: "Or", 8: "Nor", 9: "Equiv", 10: "Invert", 11: "OrReverse",
	12: "CopyInverted", 13: "OrInverted", 14: "Nand", 15: "Set",
}

var lineStyleTable = NameTable{0: "Solid", 1: "OnOffDash", 2: "DoubleDash"}

var capStyleTable = NameTable{0: "NotLast", 1: "Butt", 2: "Round", 3: "Projecting"}

var joinStyleTable = NameTable{0: "Miter", 1: "Round", 2: "Bevel"}

var subwindowModeTable = NameTable{0: "ClipByChildren", 1: "IncludeInferiors"}

var imageFormatTable = NameTable{0: "XYBitmap", 1: "XYPixmap", 2: "ZPixmap"}

var visualClassTable = NameTable{
	0: "StaticGray", 1: "GrayScale", 2: "StaticColor", 3: "PseudoColor",
	4: "TrueColor", 5: "DirectColor",
}

var colorFlagsBits = []BitName{{0, "DoRed"}, {1, "DoGreen"}, {2, "DoBlue"}}

var keyButMaskBits = []BitName{
	{0, "Shift"}, {1, "Lock"}, {2, "Control"}, {3, "Mod1"}, {4, "Mod2"},
	{5, "Mod3"}, {6, "Mod4"}, {7, "Mod5"}, {8, "Button1"}, {9, "Button2"},
	{10, "Button3"}, {11, "Button4"}, {12, "Button5"},
}

var eventMaskBits = []BitName{
	{0, "KeyPress"}, {1, "KeyRelease"}, {2, "ButtonPress"}, {3, "ButtonRelease"},
	{4, "EnterWindow"}, {5, "LeaveWindow"}, {6, "PointerMotion"}, {7, "PointerMotionHint"},
	{8, "Button1Motion"}, {9, "Button2Motion"}, {10, "Button3Motion"}, {11, "Button4Motion"},
	{12, "Button5Motion"}, {13, "ButtonMotion"}, {14, "KeymapState"}, {15, "Exposure"},
	{16, "VisibilityChange"}, {17, "StructureNotify"}, {18, "ResizeRedirect"},
	{19, "SubstructureNotify"}, {20, "SubstructureRedirect"}, {21, "FocusChange"},
	{22, "PropertyChange"}, {23, "ColormapChange"}, {24, "OwnerGrabButton"},
}

var grabModeTable = NameTable{0: "Synchronous", 1: "Asynchronous"}

var notifyDetailTable = NameTable{
	0: "Ancestor", 1: "Virtual", 2: "Inferior", 3: "Nonlinear", 4: "NonlinearVirtual",
	5: "Pointer", 6: "PointerRoot", 7: "None",
}

var notifyModeTable = NameTable{0: "Normal", 1: "Grab", 2: "Ungrab"}

var visibilityStateTable = NameTable{0: "Unobscured", 1: "PartiallyObscured", 2: "FullyObscured"}

var placeTable = NameTable{0: "PlaceOnTop", 1: "PlaceOnBottom"}

var propertyNotifyStateTable = NameTable{0: "NewValue", 1: "Deleted"}

var colormapStateTable = NameTable{0: "Uninstalled", 1: "Installed"}

var mappingNotifyRequestTable = NameTable{0: "Modifier", 1: "Keyboard", 2: "Pointer"}

var configureRequestStackModeTable = stackModeTable

// errorNames maps the 17 core error codes (spec.md §4.E "Error") to their
// protocol names.
var errorNames = map[byte]string{
	1: "Request", 2: "Value", 3: "Window", 4: "Pixmap", 5: "Atom",
	6: "Cursor", 7: "Font", 8: "Match", 9: "Drawable", 10: "Access",
	11: "Alloc", 12: "Colormap", 13: "GContext", 14: "IDChoice",
	15: "Name", 16: "Length", 17: "Implementation",
}
