package retained

import (
	"errors"
	"time"
)

// recordingSurface records frames and draw calls.
type recordingSurface struct {
	frames    int
	fills     []Rect
	texts     []string
	clips     []Rect
	clipDepth int
	resized   Size
	cursor    CursorKind

	failBegin error
	failEnd   error
}

func (s *recordingSurface) BeginFrame() error {
	if s.failBegin != nil {
		return s.failBegin
	}
	s.fills = s.fills[:0]
	s.texts = s.texts[:0]
	s.clips = s.clips[:0]
	return nil
}

func (s *recordingSurface) EndFrame() error {
	if s.failEnd != nil {
		return s.failEnd
	}
	s.frames++
	return nil
}

func (s *recordingSurface) Resize(width, height int) error {
	s.resized = Size{width, height}
	return nil
}

func (s *recordingSurface) FillRect(r Rect, c Color)                    { s.fills = append(s.fills, r) }
func (s *recordingSurface) StrokeRect(r Rect, c Color, width int)       {}
func (s *recordingSurface) FillRoundedRect(r Rect, radius int, c Color) { s.fills = append(s.fills, r) }
func (s *recordingSurface) DrawLine(from, to Point, c Color, width int) {}
func (s *recordingSurface) DrawText(text string, at Point, font *Font, c Color) {
	s.texts = append(s.texts, text)
}
func (s *recordingSurface) DrawImage(source string, r Rect) {}
func (s *recordingSurface) PushClip(r Rect) {
	s.clips = append(s.clips, r)
	s.clipDepth++
}
func (s *recordingSurface) PopClip()                  { s.clipDepth-- }
func (s *recordingSurface) SetCursor(kind CursorKind) { s.cursor = kind }

var errBackend = errors.New("backend failure")

// manualClock is advanced explicitly by tests.
type manualClock struct {
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time { return c.now }

func (c *manualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// probe is a widget that records what it receives and what it paints.
type probe struct {
	Widget
	received []MessageKind
	locals   []Point
	paints   int
	handle   map[MessageKind]bool
	extra    Size
	priority bool
	animated Rect
	keep     bool
}

func newProbe(name string, x, y, w, h int) *probe {
	p := &probe{handle: map[MessageKind]bool{}}
	p.Init(p)
	p.SetName(name)
	p.SetBounds(Rect{x, y, w, h})
	return p
}

func (p *probe) ProcessMessage(msg *Message, local Point) bool {
	p.received = append(p.received, msg.Kind)
	p.locals = append(p.locals, local)
	return p.handle[msg.Kind]
}

func (p *probe) Update(ctx *PaintContext) { p.paints++ }

func (p *probe) ActualSize() Size {
	s := p.Size()
	s.Width += p.extra.Width
	s.Height += p.extra.Height
	return s
}

func (p *probe) WantsFirstPassHitPriority() bool { return p.priority }

func (p *probe) KeepsSelection() bool { return p.keep }

func (p *probe) GetAnimatedInvalidRect() (Rect, bool) {
	return p.animated, !p.animated.Empty()
}

func (p *probe) count(kind MessageKind) int {
	n := 0
	for _, k := range p.received {
		if k == kind {
			n++
		}
	}
	return n
}

func (p *probe) reset() {
	p.received = nil
	p.locals = nil
}

// flushedWindow returns a window whose initial full paint already happened.
func flushedWindow(w, h int) (*Window, *recordingSurface) {
	s := &recordingSurface{}
	win := NewWindow(s, WindowOptions{Width: w, Height: h})
	_ = win.Paint(false)
	return win, s
}

func press(win *Window, x, y int) bool {
	return win.Dispatch(&Message{Kind: MsgPointerDown, Window: win.Handle(), Pos: Point{x, y}, Button: MouseButtonLeft})
}

func release(win *Window, x, y int) bool {
	return win.Dispatch(&Message{Kind: MsgPointerUp, Window: win.Handle(), Pos: Point{x, y}, Button: MouseButtonLeft})
}

func move(win *Window, x, y int) bool {
	return win.Dispatch(&Message{Kind: MsgPointerMove, Window: win.Handle(), Pos: Point{x, y}})
}
