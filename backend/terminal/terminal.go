package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Open initializes the controlling terminal and returns a surface on it.
func Open() (*Surface, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("terminal: new screen: %w", err)
	}
	return OpenScreen(screen)
}

// OpenScreen initializes screen with mouse reporting enabled. Tests pass a
// tcell simulation screen.
func OpenScreen(screen tcell.Screen) (*Surface, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("terminal: screen init: %w", err)
	}
	screen.EnableMouse()
	screen.HideCursor()
	screen.Clear()
	return NewSurface(screen), nil
}

// Close restores the terminal. A running Source sees the screen finalize and
// reports a close message.
func (s *Surface) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.screen.DisableMouse()
	s.screen.Fini()
}
