// Package retained provides a retained-mode widget tree hosted in top-level
// windows: ownership and composition, absolute coordinates, hit testing and
// input routing, window-level selection, and damage-tracked repainting driven
// by a cooperative pump.
//
// Everything in this package runs on the pump thread. Other goroutines hand
// work to it with Loop.Post.
package retained

import (
	"sync/atomic"
)

// WidgetID uniquely identifies a widget for the life of the process.
type WidgetID uint64

var nextWidgetID atomic.Uint64

func newWidgetID() WidgetID {
	return WidgetID(nextWidgetID.Add(1))
}

// ============================================================================
// Control Contract
// ============================================================================

// Control is implemented by every widget kind. Concrete widgets embed Widget,
// call Init with themselves, and override the methods they need.
type Control interface {
	// AsWidget returns the embedded base widget.
	AsWidget() *Widget

	// Update paints the widget. The default paints background, image and border.
	Update(ctx *PaintContext)

	// ProcessMessage handles a routed message. local is the pointer position
	// relative to the widget's top-left corner (zero for keyboard messages).
	// Return true when handled; unhandled messages bubble to the parent.
	ProcessMessage(msg *Message, local Point) bool

	// ActualSize is the occupied footprint used by hit testing and damage.
	// It defaults to the declared size.
	ActualSize() Size

	// QueryCursor returns the preferred pointer shape at local, or
	// CursorDefault to fall back to the static cursor.
	QueryCursor(local Point) CursorKind

	// GetAnimatedInvalidRect returns a widget-local region that needs periodic
	// repainting without explicit requests (caret blink, spinners).
	GetAnimatedInvalidRect() (Rect, bool)
}

// FirstPassHitter widgets are considered before normal z-order when they ask
// for it (an expanded dropdown keeps receiving hover over its list).
type FirstPassHitter interface {
	WantsFirstPassHitPriority() bool
}

// HitTester narrows hit testing to a non-rectangular shape inside the
// occupied rectangle.
type HitTester interface {
	HitTest(local Point) bool
}

// SelectionKeeper composite widgets keep window-level selection for
// themselves when one of their descendants is clicked.
type SelectionKeeper interface {
	KeepsSelection() bool
}

// DestroyHandler is notified once when the widget is destroyed.
type DestroyHandler interface {
	OnDestroy()
}

// ============================================================================
// Layout Hints
// ============================================================================

// Dock places a widget against an edge of a docking container.
type Dock uint8

const (
	DockNone Dock = iota
	DockLeft
	DockTop
	DockRight
	DockBottom
	DockFill
)

// Alignment positions a widget inside the slot its container gives it.
type Alignment uint8

const (
	AlignStart Alignment = iota
	AlignCenter
	AlignEnd
	AlignStretch
)

// LayoutHints are read by container layout passes. The core never
// interprets them.
type LayoutHints struct {
	Margin     Insets
	Padding    Insets
	Align      Alignment
	Dock       Dock
	Row        int
	Column     int
	RowSpan    int
	ColumnSpan int
}

// ============================================================================
// Widget
// ============================================================================

// Widget is the base node of the tree. The zero value is not usable; create
// widgets with NewWidget or embed Widget and call Init.
type Widget struct {
	id   WidgetID
	self Control
	name string

	// Geometry, relative to the parent (or the window content area for roots)
	x, y          int
	width, height int

	visible bool
	enabled bool

	// Visual style
	background  Color
	foreground  Color
	borderColor Color
	borderWidth int
	font        *Font // nil falls back to the window font, then DefaultFont
	image       string
	cursor      CursorKind
	hints       LayoutHints

	// Back-references (non-owning)
	window *Window
	parent Control

	// Exclusively owned
	children []Control

	destroyed bool
	data      any
}

// NewWidget creates a plain detached widget.
func NewWidget() *Widget {
	w := &Widget{}
	w.Init(w)
	return w
}

// Init prepares an embedded Widget. self must be the outer control so that
// overridden methods are used by the core.
func (w *Widget) Init(self Control) {
	w.id = newWidgetID()
	w.self = self
	w.visible = true
	w.enabled = true
	w.background = Transparent
	w.foreground = Black
	w.borderColor = Gray
}

// ID returns the widget's unique identifier.
func (w *Widget) ID() WidgetID { return w.id }

// AsWidget implements Control.
func (w *Widget) AsWidget() *Widget { return w }

// Self returns the outermost control wrapping this widget.
func (w *Widget) Self() Control {
	if w.self == nil {
		return w
	}
	return w.self
}

// Name returns the debugging name.
func (w *Widget) Name() string { return w.name }

// SetName sets a debugging name.
func (w *Widget) SetName(name string) *Widget {
	w.name = name
	return w
}

// Data returns the user payload.
func (w *Widget) Data() any { return w.data }

// SetData attaches a user payload.
func (w *Widget) SetData(data any) *Widget {
	w.data = data
	return w
}

// Window returns the owning window, or nil while detached.
func (w *Widget) Window() *Window { return w.window }

// Parent returns the parent widget, or nil for detached and window-rooted widgets.
func (w *Widget) Parent() Control { return w.parent }

// IsDestroyed reports whether Destroy has run.
func (w *Widget) IsDestroyed() bool { return w.destroyed }

// ============================================================================
// Geometry
// ============================================================================

// Position returns the position relative to the parent.
func (w *Widget) Position() Point { return Point{w.x, w.y} }

// Size returns the declared size.
func (w *Widget) Size() Size { return Size{w.width, w.height} }

// Bounds returns the declared rectangle relative to the parent.
func (w *Widget) Bounds() Rect { return Rect{w.x, w.y, w.width, w.height} }

// SetPosition moves the widget. Both the old and new area are damaged.
func (w *Widget) SetPosition(x, y int) *Widget {
	if w.x == x && w.y == y {
		return w
	}
	w.RequestRepaint()
	w.x, w.y = x, y
	w.RequestRepaint()
	return w
}

// SetSize resizes the widget and relayouts it when it is a container.
func (w *Widget) SetSize(width, height int) *Widget {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if w.width == width && w.height == height {
		return w
	}
	w.RequestRepaint()
	w.width, w.height = width, height
	relayout(w.Self())
	w.RequestRepaint()
	return w
}

// SetBounds sets position and size together.
func (w *Widget) SetBounds(r Rect) *Widget {
	w.SetPosition(r.X, r.Y)
	return w.SetSize(r.Width, r.Height)
}

// ============================================================================
// State Flags
// ============================================================================

// Visible returns the widget's own visibility flag.
func (w *Widget) Visible() bool { return w.visible }

// SetVisible changes the own visibility flag. Hiding a widget releases any
// window slot that points into its subtree.
func (w *Widget) SetVisible(visible bool) *Widget {
	if w.visible == visible {
		return w
	}
	if !visible {
		w.RequestRepaint()
		w.visible = false
		if w.window != nil {
			w.window.releaseSlots(w.Self(), false)
		}
		return w
	}
	w.visible = true
	w.RequestRepaint()
	return w
}

// Enabled returns whether the widget accepts input.
func (w *Widget) Enabled() bool { return w.enabled }

// SetEnabled toggles input acceptance.
func (w *Widget) SetEnabled(enabled bool) *Widget {
	if w.enabled != enabled {
		w.enabled = enabled
		w.RequestRepaint()
	}
	return w
}

// Selected reports whether this widget holds the window's selected slot.
func (w *Widget) Selected() bool {
	return w.window != nil && w.window.selected == w.Self()
}

// PointerUnder reports whether the pointer currently rests on this widget.
func (w *Widget) PointerUnder() bool {
	return w.window != nil && w.window.pointerUnder == w.Self()
}

// ============================================================================
// Visual Style
// ============================================================================

// Background returns the fill colour.
func (w *Widget) Background() Color { return w.background }

// SetBackground sets the fill colour.
func (w *Widget) SetBackground(c Color) *Widget {
	if w.background != c {
		w.background = c
		w.RequestRepaint()
	}
	return w
}

// Foreground returns the text/glyph colour.
func (w *Widget) Foreground() Color { return w.foreground }

// SetForeground sets the text/glyph colour.
func (w *Widget) SetForeground(c Color) *Widget {
	if w.foreground != c {
		w.foreground = c
		w.RequestRepaint()
	}
	return w
}

// Border returns the border width and colour.
func (w *Widget) Border() (int, Color) { return w.borderWidth, w.borderColor }

// SetBorder sets the border width and colour. Width 0 disables the border.
func (w *Widget) SetBorder(width int, c Color) *Widget {
	if w.borderWidth != width || w.borderColor != c {
		w.borderWidth, w.borderColor = width, c
		w.RequestRepaint()
	}
	return w
}

// OwnFont returns the explicitly owned font, or nil.
func (w *Widget) OwnFont() *Font { return w.font }

// Font resolves the font: own, then window, then process default.
func (w *Widget) Font() *Font {
	if w.font != nil {
		return w.font
	}
	if w.window != nil && w.window.font != nil {
		return w.window.font
	}
	return DefaultFont()
}

// SetFont sets an owned font; nil reverts to the inherited one.
func (w *Widget) SetFont(f *Font) *Widget {
	w.font = f
	w.RequestRepaint()
	return w
}

// Image returns the image source.
func (w *Widget) Image() string { return w.image }

// SetImage sets the image source drawn by the default Update.
func (w *Widget) SetImage(source string) *Widget {
	if w.image != source {
		w.image = source
		w.RequestRepaint()
	}
	return w
}

// Cursor returns the static cursor.
func (w *Widget) Cursor() CursorKind { return w.cursor }

// SetCursor sets the static cursor used when QueryCursor has no preference.
func (w *Widget) SetCursor(kind CursorKind) *Widget {
	w.cursor = kind
	return w
}

// LayoutHints returns the hints read by container layouts.
func (w *Widget) LayoutHints() LayoutHints { return w.hints }

// SetLayoutHints replaces the layout hints and relayouts the parent.
func (w *Widget) SetLayoutHints(h LayoutHints) *Widget {
	w.hints = h
	if w.parent != nil {
		relayout(w.parent)
	}
	return w
}

// ============================================================================
// Default Control Implementation
// ============================================================================

// Update paints background, image and border.
func (w *Widget) Update(ctx *PaintContext) {
	if w.background.Alpha() != 0 {
		ctx.Surface.FillRect(ctx.Bounds, w.background)
	}
	if w.image != "" {
		ctx.Surface.DrawImage(w.image, ctx.Bounds)
	}
	if w.borderWidth > 0 {
		ctx.Surface.StrokeRect(ctx.Bounds, w.borderColor, w.borderWidth)
	}
}

// ProcessMessage does not handle anything by default.
func (w *Widget) ProcessMessage(msg *Message, local Point) bool { return false }

// ActualSize defaults to the declared size.
func (w *Widget) ActualSize() Size { return Size{w.width, w.height} }

// QueryCursor returns the static cursor.
func (w *Widget) QueryCursor(local Point) CursorKind { return w.cursor }

// GetAnimatedInvalidRect reports no animated region.
func (w *Widget) GetAnimatedInvalidRect() (Rect, bool) { return Rect{}, false }

// RequestRepaint asks the owning window to redraw this widget's occupied
// area. It is a no-op while detached or not effectively visible.
func (w *Widget) RequestRepaint() {
	if w.window != nil {
		w.window.RequestRepaint(w.Self())
	}
}
