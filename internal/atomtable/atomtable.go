// Package atomtable implements the process-wide ATOM interning table
// (spec.md §3 "Atom table", §4.G). It is the only state shared across
// connections; in the single-threaded multiplexer design it needs no
// locking, but the table still guards itself with a mutex so that the
// bootstrap pre-fetch (internal/bootstrap) and the main loop can both hold
// a reference safely if a future caller parallelises connection handling.
package atomtable

import (
	"strconv"
	"sync"
)

// predefined holds the X11 core protocol's predefined atoms, interned
// 1..68 before any client connects (X11R7.7 predefined atom list).
var predefined = []string{
	"", // ATOM 0 is never valid.
	"PRIMARY", "SECONDARY", "ARC", "ATOM", "BITMAP", "CARDINAL", "COLORMAP",
	"CURSOR", "CUT_BUFFER0", "CUT_BUFFER1", "CUT_BUFFER2", "CUT_BUFFER3",
	"CUT_BUFFER4", "CUT_BUFFER5", "CUT_BUFFER6", "CUT_BUFFER7", "DRAWABLE",
	"FONT", "INTEGER", "PIXMAP", "POINT", "RECTANGLE", "RESOURCE_MANAGER",
	"RGB_COLOR_MAP", "RGB_BEST_MAP", "RGB_BLUE_MAP", "RGB_DEFAULT_MAP",
	"RGB_GRAY_MAP", "RGB_GREEN_MAP", "RGB_RED_MAP", "STRING", "VISUALID",
	"WINDOW", "WM_COMMAND", "WM_HINTS", "WM_CLIENT_MACHINE",
	"WM_ICON_NAME", "WM_ICON_SIZE", "WM_NAME", "WM_NORMAL_HINTS",
	"WM_SIZE_HINTS", "WM_ZOOM_HINTS", "MIN_SPACE", "NORM_SPACE",
	"MAX_SPACE", "END_SPACE", "SUPERSCRIPT_X", "SUPERSCRIPT_Y",
	"SUBSCRIPT_X", "SUBSCRIPT_Y", "UNDERLINE_POSITION",
	"UNDERLINE_THICKNESS", "STRIKEOUT_ASCENT", "STRIKEOUT_DESCENT",
	"ITALIC_ANGLE", "X_HEIGHT", "QUAD_WIDTH", "WEIGHT", "POINT_SIZE",
	"RESOLUTION", "COPYRIGHT", "NOTICE", "FONT_NAME", "FAMILY_NAME",
	"FULL_NAME", "CAP_HEIGHT", "WM_CLASS", "WM_TRANSIENT_FOR",
}

// Table is an ATOM id -> name interning table.
type Table struct {
	mu   sync.RWMutex
	byID map[uint32]string
}

// New returns a Table seeded with the X11 predefined atoms.
func New() *Table {
	t := &Table{byID: make(map[uint32]string, 128)}
	for id, name := range predefined {
		if id == 0 {
			continue
		}
		t.byID[uint32(id)] = name
	}
	return t
}

// Intern records that atom id names name, as observed from an InternAtom
// reply (spec.md §3 "Extended by ... observed InternAtom replies") or the
// atom-prefetch bootstrap.
func (t *Table) Intern(id uint32, name string) {
	if id == 0 {
		return
	}
	t.mu.Lock()
	t.byID[id] = name
	t.mu.Unlock()
}

// Lookup returns the interned name for id and whether it is known.
func (t *Table) Lookup(id uint32) (string, bool) {
	if id == 0 {
		return "None", true
	}
	t.mu.RLock()
	name, ok := t.byID[id]
	t.mu.RUnlock()
	return name, ok
}

// Format renders an ATOM value the way spec.md §4.E specifies:
// `"<interned-name>"(id)` if known, else `UnknownAtom(id)`.
func (t *Table) Format(id uint32) string {
	if name, ok := t.Lookup(id); ok {
		if id == 0 {
			return name
		}
		return quoteAtom(name) + "(" + strconv.FormatUint(uint64(id), 10) + ")"
	}
	return "UnknownAtom(" + strconv.FormatUint(uint64(id), 10) + ")"
}

func quoteAtom(s string) string {
	return "\"" + s + "\""
}
