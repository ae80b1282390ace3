package ffi

import "strconv"

// ============================================================================
// Event Types and Constants
// ============================================================================

// EventType represents the type of event from the renderer
type EventType uint32

const (
	EventNone           EventType = 0
	EventResized        EventType = 1
	EventMoved          EventType = 2
	EventCloseRequested EventType = 3
	EventMouseMoved     EventType = 4
	EventMousePressed   EventType = 5
	EventMouseReleased  EventType = 6
	EventMouseWheel     EventType = 7
	EventDoubleClick    EventType = 8
	EventKeyPressed     EventType = 9
	EventKeyReleased    EventType = 10
	EventCharInput      EventType = 11
	EventImePreedit     EventType = 12
	EventScaleChanged   EventType = 13
)

// Modifier flags for keyboard and mouse events
type Modifiers uint32

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModSuper
)

// Mouse buttons as reported by the renderer
const (
	MouseLeft   uint32 = 0
	MouseRight  uint32 = 1
	MouseMiddle uint32 = 2
)

// Keycode is a stable cross-platform key value.
type Keycode uint32

const (
	// Letters A-Z = 0-25, digits 0-9 = 26-35
	KeyA Keycode = 0
	KeyZ Keycode = 25
	Key0 Keycode = 26
	Key9 Keycode = 35

	// Function keys F1-F12 = 36-47
	KeyF1  Keycode = 36
	KeyF12 Keycode = 47

	// Navigation = 48-55
	KeyUp       Keycode = 48
	KeyDown     Keycode = 49
	KeyLeft     Keycode = 50
	KeyRight    Keycode = 51
	KeyHome     Keycode = 52
	KeyEnd      Keycode = 53
	KeyPageUp   Keycode = 54
	KeyPageDown Keycode = 55

	// Editing = 56-62
	KeyBackspace Keycode = 56
	KeyDelete    Keycode = 57
	KeyInsert    Keycode = 58
	KeyEnter     Keycode = 59
	KeyTab       Keycode = 60
	KeyEscape    Keycode = 61
	KeySpace     Keycode = 62

	KeyUnknown Keycode = 999
)

var keyNames = map[Keycode]string{
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyLeft:      "Left",
	KeyRight:     "Right",
	KeyHome:      "Home",
	KeyEnd:       "End",
	KeyPageUp:    "PageUp",
	KeyPageDown:  "PageDown",
	KeyBackspace: "Backspace",
	KeyDelete:    "Delete",
	KeyInsert:    "Insert",
	KeyEnter:     "Enter",
	KeyTab:       "Tab",
	KeyEscape:    "Escape",
	KeySpace:     " ",
}

// Name returns the logical key name used by widgets: "Enter", "Left", "a",
// "7", "F5" and so on. Unknown keys return "".
func (k Keycode) Name() string {
	switch {
	case k <= KeyZ:
		return string(rune('a' + k))
	case k >= Key0 && k <= Key9:
		return string(rune('0' + k - Key0))
	case k >= KeyF1 && k <= KeyF12:
		return "F" + strconv.Itoa(int(k-KeyF1)+1)
	}
	return keyNames[k]
}

// ============================================================================
// Event Type
// ============================================================================

// EventC matches the C struct the renderer fills in formkit_surface_poll.
type EventC struct {
	Type      uint32
	Modifiers uint32
	X         float64
	Y         float64
	DeltaX    float64
	DeltaY    float64
	Button    uint32
	Keycode   uint32
	Char      uint32
	Width     uint32
	Height    uint32
	Scale     float32
	Text      [64]byte
}

// Event is a decoded renderer event.
type Event struct {
	Type      EventType
	Modifiers Modifiers
	X, Y      float64
	DeltaX    float64
	DeltaY    float64
	Button    uint32
	Keycode   Keycode
	Char      rune
	Width     int
	Height    int
	Scale     float32
	Text      string
}

func (c *EventC) toEvent() Event {
	n := 0
	for n < len(c.Text) && c.Text[n] != 0 {
		n++
	}
	return Event{
		Type:      EventType(c.Type),
		Modifiers: Modifiers(c.Modifiers),
		X:         c.X,
		Y:         c.Y,
		DeltaX:    c.DeltaX,
		DeltaY:    c.DeltaY,
		Button:    c.Button,
		Keycode:   Keycode(c.Keycode),
		Char:      rune(c.Char),
		Width:     int(c.Width),
		Height:    int(c.Height),
		Scale:     c.Scale,
		Text:      string(c.Text[:n]),
	}
}
