package retained

// CursorKind is the pointer shape a widget asks for.
type CursorKind uint8

const (
	// CursorDefault means "no preference"; the router falls back to the
	// widget's static cursor and then to CursorArrow.
	CursorDefault CursorKind = iota
	CursorArrow
	CursorHand
	CursorIBeam
	CursorWait
	CursorCrosshair
	CursorResizeNS
	CursorResizeEW
	CursorResizeNWSE
	CursorResizeNESW
	CursorMove
	CursorNotAllowed
)

var cursorNames = [...]string{
	"default", "arrow", "hand", "ibeam", "wait", "crosshair",
	"resize-ns", "resize-ew", "resize-nwse", "resize-nesw", "move", "not-allowed",
}

func (c CursorKind) String() string {
	if int(c) < len(cursorNames) {
		return cursorNames[c]
	}
	return "unknown"
}
