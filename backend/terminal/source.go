package terminal

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/agiangrant/formkit/retained"
)

// Double-click synthesis thresholds
const (
	DoubleClickInterval = 500 * time.Millisecond
	DoubleClickDistance = 5
)

// ============================================================================
// Message Source
// ============================================================================

// Source converts tcell events into retained messages for one window. A
// goroutine blocks in PollEvent and feeds a channel; Poll never blocks.
type Source struct {
	screen tcell.Screen
	window retained.WindowHandle
	events chan tcell.Event
	now    func() time.Time

	pending []retained.Message
	buttons tcell.ButtonMask
	lastPos retained.Point

	lastPress    time.Time
	lastPressAt  retained.Point
	lastPressBtn retained.MouseButton

	closed    bool
	startOnce sync.Once
	stopOnce  sync.Once
	done      chan struct{}
}

// NewSource creates a source for window. Call Start to begin reading.
func NewSource(screen tcell.Screen, window retained.WindowHandle) *Source {
	return &Source{
		screen:  screen,
		window:  window,
		events:  make(chan tcell.Event, 64),
		done:    make(chan struct{}),
		now:     time.Now,
		lastPos: retained.Point{X: -1, Y: -1},
	}
}

// Start launches the event reader. It exits when the screen is finalized or
// Stop is called, whichever comes first.
func (s *Source) Start() {
	s.startOnce.Do(func() {
		go func() {
			defer close(s.events)
			for {
				ev := s.screen.PollEvent()
				select {
				case s.events <- ev:
				case <-s.done:
					return
				}
				if ev == nil {
					return
				}
			}
		}()
	})
}

// Stop releases the reader once nobody polls any more. Events still queued
// are dropped. The reader exits at its next event, so finalize the screen
// as well to unblock PollEvent.
func (s *Source) Stop() {
	s.stopOnce.Do(func() { close(s.done) })
}

// Poll returns the next pending message without blocking.
func (s *Source) Poll() (retained.Message, bool) {
	for len(s.pending) == 0 {
		select {
		case ev, ok := <-s.events:
			if !ok {
				return retained.Message{}, false
			}
			s.Translate(ev)
		default:
			return retained.Message{}, false
		}
	}
	msg := s.pending[0]
	s.pending = s.pending[1:]
	return msg, true
}

func (s *Source) emit(msg retained.Message) {
	msg.Window = s.window
	s.pending = append(s.pending, msg)
}

// Translate queues the messages for one tcell event. A nil event means the
// screen was finalized and is reported once as a close.
func (s *Source) Translate(ev tcell.Event) {
	switch ev := ev.(type) {
	case nil:
		if !s.closed {
			s.closed = true
			s.emit(retained.Message{Kind: retained.MsgClose})
		}
	case *tcell.EventResize:
		w, h := ev.Size()
		s.emit(retained.Message{Kind: retained.MsgSize, Width: w, Height: h})
	case *tcell.EventKey:
		s.translateKey(ev)
	case *tcell.EventMouse:
		s.translateMouse(ev)
	}
}

func (s *Source) translateKey(ev *tcell.EventKey) {
	mods := convertModifiers(ev.Modifiers())
	if isInterrupt(ev) {
		s.emit(retained.Message{Kind: retained.MsgClose})
		return
	}
	if ev.Key() == tcell.KeyRune {
		r := ev.Rune()
		s.emit(retained.Message{Kind: retained.MsgKeyDown, Key: string(r), Modifiers: mods})
		s.emit(retained.Message{Kind: retained.MsgChar, Char: r, Modifiers: mods})
		return
	}
	name, ok := keyNames[ev.Key()]
	if !ok {
		return
	}
	s.emit(retained.Message{Kind: retained.MsgKeyDown, Key: name, Modifiers: mods})
}

// isInterrupt matches Ctrl-C however the terminal reports it.
func isInterrupt(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		return true
	}
	return ev.Key() == tcell.KeyRune && ev.Modifiers()&tcell.ModCtrl != 0 && (ev.Rune() == 'c' || ev.Rune() == 'C')
}

var keyNames = map[tcell.Key]string{
	tcell.KeyEnter:      "Enter",
	tcell.KeyBackspace:  "Backspace",
	tcell.KeyBackspace2: "Backspace",
	tcell.KeyDelete:     "Delete",
	tcell.KeyInsert:     "Insert",
	tcell.KeyEscape:     "Escape",
	tcell.KeyTab:        "Tab",
	tcell.KeyUp:         "Up",
	tcell.KeyDown:       "Down",
	tcell.KeyLeft:       "Left",
	tcell.KeyRight:      "Right",
	tcell.KeyHome:       "Home",
	tcell.KeyEnd:        "End",
	tcell.KeyPgUp:       "PageUp",
	tcell.KeyPgDn:       "PageDown",
}

func (s *Source) translateMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	pos := retained.Point{X: x, Y: y}
	mods := convertModifiers(ev.Modifiers())
	buttons := ev.Buttons()

	if dx, dy := wheelDelta(buttons); dx != 0 || dy != 0 {
		s.emit(retained.Message{Kind: retained.MsgWheel, Pos: pos, DeltaX: dx, DeltaY: dy, Modifiers: mods})
		return
	}
	buttons &= tcell.Button1 | tcell.Button2 | tcell.Button3
	prev := s.buttons
	s.buttons = buttons

	if pos != s.lastPos {
		s.lastPos = pos
		s.emit(retained.Message{Kind: retained.MsgPointerMove, Pos: pos, Modifiers: mods})
	}
	for _, b := range []tcell.ButtonMask{tcell.Button1, tcell.Button2, tcell.Button3} {
		btn := convertButton(b)
		switch {
		case buttons&b != 0 && prev&b == 0:
			s.emit(retained.Message{Kind: retained.MsgPointerDown, Pos: pos, Button: btn, Modifiers: mods})
			s.detectDoubleClick(pos, btn, mods)
		case buttons&b == 0 && prev&b != 0:
			s.emit(retained.Message{Kind: retained.MsgPointerUp, Pos: pos, Button: btn, Modifiers: mods})
		}
	}
}

// detectDoubleClick emits a double-click after the second press of the same
// button close in time and space. A third press starts a new pair.
func (s *Source) detectDoubleClick(pos retained.Point, btn retained.MouseButton, mods retained.Modifiers) {
	now := s.now()
	if !s.lastPress.IsZero() && btn == s.lastPressBtn &&
		now.Sub(s.lastPress) <= DoubleClickInterval &&
		abs(pos.X-s.lastPressAt.X) <= DoubleClickDistance &&
		abs(pos.Y-s.lastPressAt.Y) <= DoubleClickDistance {
		s.emit(retained.Message{Kind: retained.MsgDoubleClick, Pos: pos, Button: btn, Modifiers: mods})
		s.lastPress = time.Time{}
		return
	}
	s.lastPress, s.lastPressAt, s.lastPressBtn = now, pos, btn
}

func wheelDelta(mask tcell.ButtonMask) (int, int) {
	dx, dy := 0, 0
	if mask&tcell.WheelUp != 0 {
		dy--
	}
	if mask&tcell.WheelDown != 0 {
		dy++
	}
	if mask&tcell.WheelLeft != 0 {
		dx--
	}
	if mask&tcell.WheelRight != 0 {
		dx++
	}
	return dx, dy
}

func convertButton(b tcell.ButtonMask) retained.MouseButton {
	switch b {
	case tcell.Button1:
		return retained.MouseButtonLeft
	case tcell.Button2:
		return retained.MouseButtonRight
	case tcell.Button3:
		return retained.MouseButtonMiddle
	}
	return retained.MouseButtonNone
}

func convertModifiers(m tcell.ModMask) retained.Modifiers {
	var out retained.Modifiers
	if m&tcell.ModShift != 0 {
		out |= retained.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		out |= retained.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		out |= retained.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		out |= retained.ModSuper
	}
	return out
}
