package retained

import "unicode/utf8"

// ============================================================================
// Surface Contract
// ============================================================================

// Surface is the 2D drawing backend a window paints into. Widget painting
// goes through the same primitives via PaintContext.
//
// Coordinates are window-client coordinates. Frame errors are reported by
// BeginFrame/EndFrame/Resize; primitive calls between them do not fail.
type Surface interface {
	BeginFrame() error
	EndFrame() error
	Resize(width, height int) error

	FillRect(r Rect, c Color)
	StrokeRect(r Rect, c Color, width int)
	FillRoundedRect(r Rect, radius int, c Color)
	DrawLine(from, to Point, c Color, width int)
	DrawText(text string, at Point, font *Font, c Color)
	DrawImage(source string, r Rect)

	PushClip(r Rect)
	PopClip()
}

// CursorSetter is implemented by surfaces that can change the pointer shape.
type CursorSetter interface {
	SetCursor(kind CursorKind)
}

// PaintContext is handed to Control.Update for one widget.
type PaintContext struct {
	Surface Surface
	Window  *Window

	// Bounds is the widget's occupied rectangle in client coordinates.
	Bounds Rect

	// Clip is the region being repainted. Full repaints clip to the client area.
	Clip Rect

	// Full is true during a forced or explicit full repaint.
	Full bool
}

// Origin returns the top-left corner of the widget in client coordinates.
func (ctx *PaintContext) Origin() Point { return ctx.Bounds.Origin() }

// TextMeasurer is implemented by surfaces that know their text metrics.
type TextMeasurer interface {
	MeasureText(text string, font *Font) Size
}

// MeasureText measures text with the surface when it can, and estimates
// otherwise.
func (ctx *PaintContext) MeasureText(text string, font *Font) Size {
	return measureText(ctx.Surface, text, font)
}

func measureText(s Surface, text string, font *Font) Size {
	if font == nil {
		font = DefaultFont()
	}
	if m, ok := s.(TextMeasurer); ok {
		return m.MeasureText(text, font)
	}
	return EstimateText(text, font)
}

// EstimateText approximates a proportional font: 0.6 em per rune and a line
// height of 1.25 em.
func EstimateText(text string, font *Font) Size {
	if font == nil {
		font = DefaultFont()
	}
	return Size{
		Width:  utf8.RuneCountInString(text) * font.Size * 6 / 10,
		Height: font.Size * 5 / 4,
	}
}
