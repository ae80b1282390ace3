package retained

// ============================================================================
// Message Types
// ============================================================================

// MessageKind identifies the kind of platform or synthesized message.
type MessageKind uint8

const (
	// Pointer messages
	MsgPointerMove MessageKind = iota + 1
	MsgPointerDown
	MsgPointerUp
	MsgWheel
	MsgDoubleClick
	MsgDropFiles

	// Keyboard messages
	MsgKeyDown
	MsgKeyUp
	MsgChar
	MsgComposition

	// Window lifecycle messages
	MsgSize
	MsgMove
	MsgClose
	MsgDPIChanged

	// Synthesized by the router
	MsgPointerEnter
	MsgPointerLeave
	MsgSelectionGained
	MsgSelectionLost
	MsgOverlayDismiss
)

var messageNames = map[MessageKind]string{
	MsgPointerMove:     "pointer-move",
	MsgPointerDown:     "pointer-down",
	MsgPointerUp:       "pointer-up",
	MsgWheel:           "wheel",
	MsgDoubleClick:     "double-click",
	MsgDropFiles:       "drop-files",
	MsgKeyDown:         "key-down",
	MsgKeyUp:           "key-up",
	MsgChar:            "char",
	MsgComposition:     "composition",
	MsgSize:            "size",
	MsgMove:            "move",
	MsgClose:           "close",
	MsgDPIChanged:      "dpi-changed",
	MsgPointerEnter:    "pointer-enter",
	MsgPointerLeave:    "pointer-leave",
	MsgSelectionGained: "selection-gained",
	MsgSelectionLost:   "selection-lost",
	MsgOverlayDismiss:  "overlay-dismiss",
}

func (k MessageKind) String() string {
	if s, ok := messageNames[k]; ok {
		return s
	}
	return "unknown"
}

// IsPointer reports whether the message carries a pointer position.
func (k MessageKind) IsPointer() bool {
	return k >= MsgPointerMove && k <= MsgDropFiles
}

// IsKeyboard reports whether the message is routed to the selected widget.
func (k MessageKind) IsKeyboard() bool {
	return k >= MsgKeyDown && k <= MsgComposition
}

// MouseButton identifies which mouse button was pressed.
type MouseButton uint8

const (
	MouseButtonNone MouseButton = iota
	MouseButtonLeft
	MouseButtonRight
	MouseButtonMiddle
)

// Modifiers is a bit set of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModSuper // Cmd on Mac, Win on Windows
)

func (m Modifiers) Shift() bool { return m&ModShift != 0 }
func (m Modifiers) Ctrl() bool  { return m&ModCtrl != 0 }
func (m Modifiers) Alt() bool   { return m&ModAlt != 0 }
func (m Modifiers) Super() bool { return m&ModSuper != 0 }

// WindowHandle identifies a window to the platform message stream.
type WindowHandle uint64

// Message is one input or lifecycle message. Pointer positions are in
// window-client coordinates (the title bar, if any, is part of the client area).
type Message struct {
	Kind   MessageKind
	Window WindowHandle

	// Pointer position (client coordinates) and button state
	Pos       Point
	Button    MouseButton
	Modifiers Modifiers

	// Wheel delta
	DeltaX, DeltaY int

	// Keyboard
	Key  string // Logical key name: "Enter", "Backspace", "a", ...
	Char rune

	// Composition text (IME pre-edit) or other textual payload
	Text string

	// Dropped file paths
	Paths []string

	// Size/move/DPI payloads
	Width, Height int
	DPI           int

	// Related is the other party of a selection transfer or hover transition.
	Related Control
}
