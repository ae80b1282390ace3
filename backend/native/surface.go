// Package native drives the accelerated renderer library. Widget painting is
// recorded into a command batch and submitted once per frame.
package native

import (
	"errors"
	"fmt"
	"math"

	"github.com/agiangrant/formkit/internal/ffi"
	"github.com/agiangrant/formkit/retained"
)

// ErrClosed is returned by frame calls on a closed surface.
var ErrClosed = errors.New("native: surface closed")

// Options configures a native surface.
type Options struct {
	// Library overrides the renderer library path.
	Library string
	Width   int
	Height  int
	DPI     int
}

func (o Options) withDefaults() Options {
	def := retained.DefaultWindowOptions()
	if o.Width <= 0 {
		o.Width = def.Width
	}
	if o.Height <= 0 {
		o.Height = def.Height
	}
	if o.DPI <= 0 {
		o.DPI = retained.BaseDPI
	}
	return o
}

// ============================================================================
// Surface
// ============================================================================

// Surface implements retained.Surface over a renderer-side surface.
type Surface struct {
	r      renderer
	id     ffi.SurfaceID
	batch  *ffi.Batch
	clips  int
	closed bool
	cursor retained.CursorKind
}

var (
	_ retained.Surface      = (*Surface)(nil)
	_ retained.TextMeasurer = (*Surface)(nil)
	_ retained.CursorSetter = (*Surface)(nil)
)

func newSurface(r renderer, opts Options) (*Surface, error) {
	opts = opts.withDefaults()
	id, err := r.Create(opts.Width, opts.Height, float32(retained.ScaleFactor(opts.DPI)))
	if err != nil {
		return nil, fmt.Errorf("native: create surface: %w", err)
	}
	return &Surface{r: r, id: id, batch: ffi.NewBatch()}, nil
}

// ID returns the renderer-side surface id.
func (s *Surface) ID() ffi.SurfaceID { return s.id }

// Source returns a message source for this surface's platform window.
func (s *Surface) Source(window retained.WindowHandle) *Source {
	return &Source{r: s.r, id: s.id, window: window}
}

// Close destroys the renderer-side surface. Later frames fail with ErrClosed.
func (s *Surface) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.r.Destroy(s.id)
}

func (s *Surface) BeginFrame() error {
	if s.closed {
		return ErrClosed
	}
	s.batch.Reset()
	s.clips = 0
	return nil
}

func (s *Surface) EndFrame() error {
	if s.closed {
		return ErrClosed
	}
	for ; s.clips > 0; s.clips-- {
		s.batch.PopClip()
	}
	if err := s.r.Submit(s.id, s.batch.Bytes()); err != nil {
		return fmt.Errorf("native: submit frame: %w", err)
	}
	return nil
}

func (s *Surface) Resize(width, height int) error {
	if s.closed {
		return ErrClosed
	}
	if err := s.r.Resize(s.id, width, height); err != nil {
		return fmt.Errorf("native: resize: %w", err)
	}
	return nil
}

func (s *Surface) FillRect(r retained.Rect, c retained.Color) {
	if r.Empty() || c.Alpha() == 0 {
		return
	}
	s.batch.FillRect(r.X, r.Y, r.Width, r.Height, uint32(c))
}

func (s *Surface) StrokeRect(r retained.Rect, c retained.Color, width int) {
	if r.Empty() || width <= 0 || c.Alpha() == 0 {
		return
	}
	s.batch.StrokeRect(r.X, r.Y, r.Width, r.Height, uint32(c), width)
}

func (s *Surface) FillRoundedRect(r retained.Rect, radius int, c retained.Color) {
	if r.Empty() || c.Alpha() == 0 {
		return
	}
	if radius <= 0 {
		s.batch.FillRect(r.X, r.Y, r.Width, r.Height, uint32(c))
		return
	}
	s.batch.FillRoundedRect(r.X, r.Y, r.Width, r.Height, radius, uint32(c))
}

func (s *Surface) DrawLine(from, to retained.Point, c retained.Color, width int) {
	if width <= 0 || c.Alpha() == 0 {
		return
	}
	s.batch.DrawLine(from.X, from.Y, to.X, to.Y, uint32(c), width)
}

func (s *Surface) DrawText(text string, at retained.Point, font *retained.Font, c retained.Color) {
	if text == "" || c.Alpha() == 0 {
		return
	}
	if font == nil {
		font = retained.DefaultFont()
	}
	s.batch.DrawText(at.X, at.Y, text, font.Family, float32(font.Size), fontFlags(font), uint32(c))
}

func (s *Surface) DrawImage(source string, r retained.Rect) {
	if r.Empty() || source == "" {
		return
	}
	s.batch.DrawImage(r.X, r.Y, r.Width, r.Height, source)
}

func (s *Surface) PushClip(r retained.Rect) {
	s.clips++
	s.batch.PushClip(r.X, r.Y, r.Width, r.Height)
}

func (s *Surface) PopClip() {
	if s.clips == 0 {
		return
	}
	s.clips--
	s.batch.PopClip()
}

// MeasureText uses the renderer's shaper when it has one.
func (s *Surface) MeasureText(text string, font *retained.Font) retained.Size {
	if font == nil {
		font = retained.DefaultFont()
	}
	if m, ok := s.r.MeasureText(text, font.Family, float32(font.Size)); ok {
		return retained.Size{
			Width:  int(math.Ceil(float64(m.Width))),
			Height: int(math.Ceil(float64(m.Height))),
		}
	}
	return retained.EstimateText(text, font)
}

// SetCursor forwards the pointer shape; repeated kinds are not resent.
func (s *Surface) SetCursor(kind retained.CursorKind) {
	if kind == s.cursor || s.closed {
		return
	}
	if s.r.SetCursor(s.id, uint32(kind)) {
		s.cursor = kind
	}
}

// Pending returns the commands recorded so far in the current frame.
func (s *Surface) Pending() int { return s.batch.Len() }

func fontFlags(f *retained.Font) uint32 {
	var flags uint32
	if f.Bold {
		flags |= ffi.TextBold
	}
	if f.Italic {
		flags |= ffi.TextItalic
	}
	return flags
}
