// Package terminal runs windows inside a terminal through tcell. One cell is
// one unit of client space.
package terminal

import (
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/agiangrant/formkit/retained"
)

// Box drawing glyphs
const (
	glyphHorizontal  = '─'
	glyphVertical    = '│'
	glyphTopLeft     = '┌'
	glyphTopRight    = '┐'
	glyphBottomLeft  = '└'
	glyphBottomRight = '┘'
	glyphDot         = '•'
	glyphShade       = '░'
)

// ============================================================================
// Surface
// ============================================================================

// Surface implements retained.Surface on a tcell screen.
type Surface struct {
	screen tcell.Screen
	base   tcell.Style
	clips  []retained.Rect
	cursor retained.CursorKind
	closed bool
}

var (
	_ retained.Surface      = (*Surface)(nil)
	_ retained.TextMeasurer = (*Surface)(nil)
	_ retained.CursorSetter = (*Surface)(nil)
)

// NewSurface wraps an initialized screen.
func NewSurface(screen tcell.Screen) *Surface {
	return &Surface{screen: screen, base: tcell.StyleDefault}
}

// Screen exposes the wrapped screen.
func (s *Surface) Screen() tcell.Screen { return s.screen }

// Size returns the terminal size in cells.
func (s *Surface) Size() retained.Size {
	w, h := s.screen.Size()
	return retained.Size{Width: w, Height: h}
}

func (s *Surface) screenRect() retained.Rect {
	w, h := s.screen.Size()
	return retained.Rect{Width: w, Height: h}
}

func (s *Surface) clip() retained.Rect {
	if n := len(s.clips); n > 0 {
		return s.clips[n-1]
	}
	return s.screenRect()
}

func (s *Surface) BeginFrame() error {
	s.clips = s.clips[:0]
	return nil
}

func (s *Surface) EndFrame() error {
	s.clips = s.clips[:0]
	s.screen.Show()
	return nil
}

// Resize is a no-op: the terminal owns its size and reports changes as
// resize events.
func (s *Surface) Resize(width, height int) error { return nil }

func (s *Surface) PushClip(r retained.Rect) {
	s.clips = append(s.clips, r.Intersect(s.clip()))
}

func (s *Surface) PopClip() {
	if n := len(s.clips); n > 0 {
		s.clips = s.clips[:n-1]
	}
}

// cellStyle returns the style at (x, y) so foreground-only drawing keeps the
// background underneath.
func (s *Surface) cellStyle(x, y int) tcell.Style {
	_, _, style, _ := s.screen.GetContent(x, y)
	return style
}

func (s *Surface) put(x, y int, r rune, comb []rune, style tcell.Style) {
	if !s.clip().Contains(retained.Point{X: x, Y: y}) {
		return
	}
	s.screen.SetContent(x, y, r, comb, style)
}

func (s *Surface) FillRect(r retained.Rect, c retained.Color) {
	if c.Alpha() == 0 {
		return
	}
	area := r.Intersect(s.clip())
	for y := area.Y; y < area.Bottom(); y++ {
		for x := area.X; x < area.Right(); x++ {
			bg := blendOver(s.cellStyle(x, y), c)
			s.screen.SetContent(x, y, ' ', nil, s.base.Background(bg))
		}
	}
}

func (s *Surface) FillRoundedRect(r retained.Rect, radius int, c retained.Color) {
	s.FillRect(r, c)
}

func (s *Surface) StrokeRect(r retained.Rect, c retained.Color, width int) {
	if r.Empty() || width <= 0 || c.Alpha() == 0 {
		return
	}
	fg := toTcell(c)
	style := func(x, y int) tcell.Style { return s.cellStyle(x, y).Foreground(fg) }
	right, bottom := r.Right()-1, r.Bottom()-1
	for x := r.X + 1; x < right; x++ {
		s.put(x, r.Y, glyphHorizontal, nil, style(x, r.Y))
		s.put(x, bottom, glyphHorizontal, nil, style(x, bottom))
	}
	for y := r.Y + 1; y < bottom; y++ {
		s.put(r.X, y, glyphVertical, nil, style(r.X, y))
		s.put(right, y, glyphVertical, nil, style(right, y))
	}
	s.put(r.X, r.Y, glyphTopLeft, nil, style(r.X, r.Y))
	s.put(right, r.Y, glyphTopRight, nil, style(right, r.Y))
	s.put(r.X, bottom, glyphBottomLeft, nil, style(r.X, bottom))
	s.put(right, bottom, glyphBottomRight, nil, style(right, bottom))
}

func (s *Surface) DrawLine(from, to retained.Point, c retained.Color, width int) {
	if width <= 0 || c.Alpha() == 0 {
		return
	}
	fg := toTcell(c)
	glyph := glyphDot
	switch {
	case from.Y == to.Y:
		glyph = glyphHorizontal
	case from.X == to.X:
		glyph = glyphVertical
	}
	// Bresenham
	dx, dy := abs(to.X-from.X), -abs(to.Y-from.Y)
	sx, sy := sign(to.X-from.X), sign(to.Y-from.Y)
	e := dx + dy
	x, y := from.X, from.Y
	for {
		s.put(x, y, glyph, nil, s.cellStyle(x, y).Foreground(fg))
		if x == to.X && y == to.Y {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

// DrawText places grapheme clusters left to right; wide clusters take two
// cells and clusters that would straddle the clip edge are dropped.
func (s *Surface) DrawText(text string, at retained.Point, font *retained.Font, c retained.Color) {
	if c.Alpha() == 0 {
		return
	}
	clip := s.clip()
	fg := toTcell(c)
	x, y := at.X, at.Y
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		cluster := gr.Str()
		if cluster == "\n" || cluster == "\r\n" {
			x, y = at.X, y+1
			continue
		}
		w := runewidth.StringWidth(cluster)
		if w == 0 {
			continue
		}
		if y >= clip.Y && y < clip.Bottom() && x >= clip.X && x+w <= clip.Right() {
			runes := gr.Runes()
			style := applyFont(s.cellStyle(x, y).Foreground(fg), font)
			s.screen.SetContent(x, y, runes[0], runes[1:], style)
		}
		x += w
	}
}

// DrawImage shades the image area and labels it with the file name; cells
// cannot show pixels.
func (s *Surface) DrawImage(source string, r retained.Rect) {
	if r.Empty() {
		return
	}
	area := r.Intersect(s.clip())
	for y := area.Y; y < area.Bottom(); y++ {
		for x := area.X; x < area.Right(); x++ {
			s.screen.SetContent(x, y, glyphShade, nil, s.cellStyle(x, y))
		}
	}
	label := runewidth.Truncate(filepath.Base(source), r.Width, "…")
	s.DrawText(label, r.Origin(), nil, retained.Gray)
}

// MeasureText reports cells: the widest line by display width, and one row
// per line.
func (s *Surface) MeasureText(text string, _ *retained.Font) retained.Size {
	lines := strings.Split(text, "\n")
	width := 0
	for _, line := range lines {
		width = max(width, runewidth.StringWidth(line))
	}
	return retained.Size{Width: width, Height: len(lines)}
}

// SetCursor maps the i-beam to a bar text cursor. Terminals have no pointer
// shapes, so other kinds restore the default cursor style.
func (s *Surface) SetCursor(kind retained.CursorKind) {
	if kind == s.cursor {
		return
	}
	s.cursor = kind
	if kind == retained.CursorIBeam {
		s.screen.SetCursorStyle(tcell.CursorStyleSteadyBar)
		return
	}
	s.screen.SetCursorStyle(tcell.CursorStyleDefault)
}

// Cursor returns the last requested cursor kind.
func (s *Surface) Cursor() retained.CursorKind { return s.cursor }

// ============================================================================
// Colours
// ============================================================================

func toTcell(c retained.Color) tcell.Color {
	r, g, b, _ := c.Channels()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func fromTcell(c tcell.Color) (retained.Color, bool) {
	if !c.Valid() || c == tcell.ColorDefault {
		return 0, false
	}
	r, g, b := c.RGB()
	if r < 0 {
		return 0, false
	}
	return retained.RGBA(uint8(r), uint8(g), uint8(b), 0xFF), true
}

// blendOver composites c over the background already in a cell.
func blendOver(under tcell.Style, c retained.Color) tcell.Color {
	if c.Alpha() == 0xFF {
		return toTcell(c)
	}
	_, bg, _ := under.Decompose()
	base, ok := fromTcell(bg)
	if !ok {
		base = retained.Black
	}
	opaque := c | 0xFF
	return toTcell(base.Blend(opaque, float64(c.Alpha())/0xFF))
}

func applyFont(style tcell.Style, font *retained.Font) tcell.Style {
	if font == nil {
		return style
	}
	return style.Bold(font.Bold).Italic(font.Italic)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
