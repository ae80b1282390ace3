package native

import (
	"math"

	"github.com/agiangrant/formkit/internal/ffi"
	"github.com/agiangrant/formkit/retained"
)

// Source drains renderer events for one window and converts them to
// retained messages. It implements retained.MessageSource.
type Source struct {
	r      renderer
	id     ffi.SurfaceID
	window retained.WindowHandle
}

// Poll returns the next convertible event. Events the engine has no message
// for are skipped.
func (s *Source) Poll() (retained.Message, bool) {
	for {
		ev, ok := s.r.Poll(s.id)
		if !ok {
			return retained.Message{}, false
		}
		if msg, ok := convertEvent(ev); ok {
			msg.Window = s.window
			return msg, true
		}
	}
}

func convertEvent(ev ffi.Event) (retained.Message, bool) {
	msg := retained.Message{
		Modifiers: convertModifiers(ev.Modifiers),
		Pos:       retained.Point{X: int(math.Floor(ev.X)), Y: int(math.Floor(ev.Y))},
	}
	switch ev.Type {
	case ffi.EventResized:
		msg.Kind = retained.MsgSize
		msg.Width, msg.Height = ev.Width, ev.Height
	case ffi.EventMoved:
		msg.Kind = retained.MsgMove
	case ffi.EventCloseRequested:
		msg.Kind = retained.MsgClose
	case ffi.EventMouseMoved:
		msg.Kind = retained.MsgPointerMove
	case ffi.EventMousePressed:
		msg.Kind = retained.MsgPointerDown
		msg.Button = convertButton(ev.Button)
	case ffi.EventMouseReleased:
		msg.Kind = retained.MsgPointerUp
		msg.Button = convertButton(ev.Button)
	case ffi.EventDoubleClick:
		msg.Kind = retained.MsgDoubleClick
		msg.Button = convertButton(ev.Button)
	case ffi.EventMouseWheel:
		msg.Kind = retained.MsgWheel
		msg.DeltaX, msg.DeltaY = int(math.Round(ev.DeltaX)), int(math.Round(ev.DeltaY))
	case ffi.EventKeyPressed:
		msg.Kind = retained.MsgKeyDown
		msg.Key = ev.Keycode.Name()
	case ffi.EventKeyReleased:
		msg.Kind = retained.MsgKeyUp
		msg.Key = ev.Keycode.Name()
	case ffi.EventCharInput:
		msg.Kind = retained.MsgChar
		msg.Char = ev.Char
	case ffi.EventImePreedit:
		msg.Kind = retained.MsgComposition
		msg.Text = ev.Text
	case ffi.EventScaleChanged:
		msg.Kind = retained.MsgDPIChanged
		msg.DPI = int(math.Round(float64(ev.Scale) * retained.BaseDPI))
	default:
		return retained.Message{}, false
	}
	return msg, true
}

func convertButton(b uint32) retained.MouseButton {
	switch b {
	case ffi.MouseLeft:
		return retained.MouseButtonLeft
	case ffi.MouseRight:
		return retained.MouseButtonRight
	case ffi.MouseMiddle:
		return retained.MouseButtonMiddle
	}
	return retained.MouseButtonNone
}

func convertModifiers(m ffi.Modifiers) retained.Modifiers {
	var out retained.Modifiers
	if m&ffi.ModShift != 0 {
		out |= retained.ModShift
	}
	if m&ffi.ModCtrl != 0 {
		out |= retained.ModCtrl
	}
	if m&ffi.ModAlt != 0 {
		out |= retained.ModAlt
	}
	if m&ffi.ModSuper != 0 {
		out |= retained.ModSuper
	}
	return out
}
