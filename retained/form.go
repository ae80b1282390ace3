package retained

import (
	"fmt"
	"sync/atomic"
)

var nextWindowHandle atomic.Uint64

// ============================================================================
// Window
// ============================================================================

// WindowOptions configure a new window.
type WindowOptions struct {
	Title          string
	X, Y           int
	Width, Height  int
	DPI            int // 0 means BaseDPI
	TitleBarHeight int // 0 disables the painted title bar
	Background     Color
	Foreground     Color
	Font           *Font
}

// DefaultWindowOptions returns the options used by NewWindow for zero fields.
func DefaultWindowOptions() WindowOptions {
	return WindowOptions{
		Title:      "formkit",
		Width:      640,
		Height:     480,
		DPI:        BaseDPI,
		Background: White,
		Foreground: Black,
	}
}

// PaintReport describes the most recent completed paint.
type PaintReport struct {
	Frame   uint64
	Full    bool
	Regions []Rect
}

// Window is a top-level surface owning a list of root widgets and the
// window-local singleton slots (selected, pointer-under, overlay, capture,
// main menu, status bar).
type Window struct {
	handle WindowHandle
	title  string

	x, y          int
	width, height int
	visible       bool
	enabled       bool

	dpi            int
	titleBarHeight int
	background     Color
	foreground     Color
	font           *Font

	surface Surface
	roots   []Control

	// Singleton slots. Always hold the outermost Control of a widget that is
	// attached to this window; cleared structurally on removal and hiding.
	selected     Control
	pointerUnder Control
	overlay      Control
	capture      Control
	mainMenu     Control
	statusBar    Control

	contentChanged bool
	needsFull      bool
	damage         *DamageTracker

	cursor    CursorKind
	frames    uint64
	lastPaint PaintReport
	destroyed bool
}

// NewWindow creates a window painting into surface. Zero option fields fall
// back to DefaultWindowOptions. A nil surface is allowed for headless use;
// Paint then does nothing.
func NewWindow(surface Surface, opts WindowOptions) *Window {
	def := DefaultWindowOptions()
	if opts.Title == "" {
		opts.Title = def.Title
	}
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.Background == 0 {
		opts.Background = def.Background
	}
	if opts.Foreground == 0 {
		opts.Foreground = def.Foreground
	}

	win := &Window{
		handle:         WindowHandle(nextWindowHandle.Add(1)),
		title:          opts.Title,
		x:              opts.X,
		y:              opts.Y,
		width:          opts.Width,
		height:         opts.Height,
		visible:        true,
		enabled:        true,
		dpi:            normalizeDPI(opts.DPI),
		titleBarHeight: max(opts.TitleBarHeight, 0),
		background:     opts.Background,
		foreground:     opts.Foreground,
		font:           opts.Font,
		surface:        surface,
		damage:         NewDamageTracker(),
		cursor:         CursorArrow,
		needsFull:      true,
		contentChanged: true,
	}
	logger.Debug("window created", "handle", win.handle, "width", win.width, "height", win.height, "dpi", win.dpi)
	return win
}

// ============================================================================
// Accessors
// ============================================================================

// Handle identifies the window in the message stream.
func (win *Window) Handle() WindowHandle { return win.handle }

// Title returns the window title.
func (win *Window) Title() string { return win.title }

// SetTitle changes the title and repaints the title bar.
func (win *Window) SetTitle(title string) {
	win.title = title
	if win.titleBarHeight > 0 {
		win.InvalidateRect(Rect{0, 0, win.width, win.titleBarHeight})
	}
}

// Position returns the window position on screen.
func (win *Window) Position() Point { return Point{win.x, win.y} }

// Size returns the client size including the title bar.
func (win *Window) Size() Size { return Size{win.width, win.height} }

// ClientRect is the full client rectangle.
func (win *Window) ClientRect() Rect { return Rect{0, 0, win.width, win.height} }

// ContentRect is the client area below the title bar, where root widgets live.
func (win *Window) ContentRect() Rect {
	return Rect{0, win.titleBarHeight, win.width, max(win.height-win.titleBarHeight, 0)}
}

// TitleBarHeight returns the painted title bar height.
func (win *Window) TitleBarHeight() int { return win.titleBarHeight }

// DPI returns the window DPI.
func (win *Window) DPI() int { return win.dpi }

// Visible returns the window visibility flag.
func (win *Window) Visible() bool { return win.visible }

// SetVisible shows or hides the window. Showing forces a full repaint.
func (win *Window) SetVisible(visible bool) {
	win.visible = visible
	if visible {
		win.Invalidate()
	}
}

// Enabled reports whether the window accepts input.
func (win *Window) Enabled() bool { return win.enabled }

// SetEnabled toggles input acceptance for the whole window.
func (win *Window) SetEnabled(enabled bool) { win.enabled = enabled }

// Background returns the window background colour.
func (win *Window) Background() Color { return win.background }

// SetBackground sets the window background colour.
func (win *Window) SetBackground(c Color) {
	win.background = c
	win.Invalidate()
}

// Foreground returns the window text colour.
func (win *Window) Foreground() Color { return win.foreground }

// SetForeground sets the window text colour.
func (win *Window) SetForeground(c Color) {
	win.foreground = c
	win.Invalidate()
}

// Font returns the window font (nil means the process default).
func (win *Window) Font() *Font { return win.font }

// SetFont sets the font inherited by widgets without an owned font.
func (win *Window) SetFont(f *Font) {
	win.font = f
	win.Invalidate()
}

// Surface returns the drawing backend.
func (win *Window) Surface() Surface { return win.surface }

// ContentChanged reports whether a damage-only paint would do anything.
func (win *Window) ContentChanged() bool { return win.contentChanged }

// Damage exposes the pending damage.
func (win *Window) Damage() *DamageTracker { return win.damage }

// LastPaint describes the last completed paint.
func (win *Window) LastPaint() PaintReport { return win.lastPaint }

// IsDestroyed reports whether the window was closed.
func (win *Window) IsDestroyed() bool { return win.destroyed }

// Cursor returns the pointer shape last applied.
func (win *Window) Cursor() CursorKind { return win.cursor }

// ============================================================================
// Root Widgets
// ============================================================================

// Children returns a copy of the root widgets in paint order.
func (win *Window) Children() []Control {
	result := make([]Control, len(win.roots))
	copy(result, win.roots)
	return result
}

// AddChild adds a root widget. Same failure rules as Widget.AddChild.
func (win *Window) AddChild(c Control) error {
	if win.destroyed {
		return ErrDestroyed
	}
	if err := checkAttachable(c); err != nil {
		return err
	}
	c = c.AsWidget().Self()
	win.roots = append(win.roots, c)
	setWindow(c, win)
	win.fitRoot(c)
	c.AsWidget().RequestRepaint()
	return nil
}

// MustAddChild is AddChild that panics on misuse.
func (win *Window) MustAddChild(children ...Control) *Window {
	for _, c := range children {
		if err := win.AddChild(c); err != nil {
			panic(err)
		}
	}
	return win
}

// RemoveChild detaches a root widget and clears slots that reference its
// subtree. Returns false when c is not a root of this window.
func (win *Window) RemoveChild(c Control) bool {
	if c == nil {
		return false
	}
	cw := c.AsWidget()
	for i, r := range win.roots {
		if r.AsWidget() != cw {
			continue
		}
		detach(r)
		win.roots = append(win.roots[:i], win.roots[i+1:]...)
		return true
	}
	return false
}

// Walk visits every widget of every root depth-first in paint order.
func (win *Window) Walk(fn func(c Control) bool) {
	for _, r := range win.Children() {
		walkControl(r, fn)
	}
}

// FindByName returns the first widget with the given debugging name.
func (win *Window) FindByName(name string) Control {
	var found Control
	win.Walk(func(c Control) bool {
		if found != nil {
			return false
		}
		if c.AsWidget().name == name {
			found = c
			return false
		}
		return true
	})
	return found
}

// fitRoot stretches DockFill roots over the content area.
func (win *Window) fitRoot(c Control) {
	w := c.AsWidget()
	if w.hints.Dock != DockFill {
		return
	}
	content := win.ContentRect()
	w.x, w.y = 0, 0
	if w.width != content.Width || w.height != content.Height {
		w.width, w.height = content.Width, content.Height
		relayout(c)
	}
}

// ============================================================================
// Singleton Slots
// ============================================================================

// PointerUnder returns the widget the pointer currently rests on.
func (win *Window) PointerUnder() Control { return win.pointerUnder }

// Capture returns the widget holding pointer capture.
func (win *Window) Capture() Control { return win.capture }

// SetCapture routes subsequent pointer moves to c until ReleaseCapture or
// the next button-up. c must be attached to this window.
func (win *Window) SetCapture(c Control) bool {
	if !win.owns(c) {
		return false
	}
	win.capture = c.AsWidget().Self()
	logger.Debug("capture set", "window", win.handle, "widget", c.AsWidget().id)
	return true
}

// ReleaseCapture clears pointer capture.
func (win *Window) ReleaseCapture() {
	if win.capture != nil {
		logger.Debug("capture released", "window", win.handle, "widget", win.capture.AsWidget().id)
	}
	win.capture = nil
}

// Overlay returns the foreground overlay widget.
func (win *Window) Overlay() Control { return win.overlay }

// SetOverlay gives c the foreground overlay slot. A previous holder is
// dismissed first. c must be attached and effectively visible.
func (win *Window) SetOverlay(c Control) bool {
	if !win.owns(c) || !c.AsWidget().EffectiveVisibility() {
		return false
	}
	c = c.AsWidget().Self()
	if win.overlay == c {
		return true
	}
	win.DismissOverlay()
	win.overlay = c
	c.AsWidget().RequestRepaint()
	return true
}

// DismissOverlay clears the overlay slot and tells the holder.
func (win *Window) DismissOverlay() {
	ov := win.overlay
	if ov == nil {
		return
	}
	ov.AsWidget().RequestRepaint()
	win.overlay = nil
	ov.ProcessMessage(&Message{Kind: MsgOverlayDismiss, Window: win.handle}, Point{})
}

// MainMenu returns the main-menu widget.
func (win *Window) MainMenu() Control { return win.mainMenu }

// SetMainMenu assigns the main-menu role. nil clears it.
func (win *Window) SetMainMenu(c Control) bool {
	if c == nil {
		win.mainMenu = nil
		return true
	}
	if !win.owns(c) {
		return false
	}
	win.mainMenu = c.AsWidget().Self()
	return true
}

// StatusBar returns the status-bar widget.
func (win *Window) StatusBar() Control { return win.statusBar }

// SetStatusBar assigns the status-bar role. nil clears it.
func (win *Window) SetStatusBar(c Control) bool {
	if c == nil {
		win.statusBar = nil
		return true
	}
	if !win.owns(c) {
		return false
	}
	win.statusBar = c.AsWidget().Self()
	return true
}

func (win *Window) owns(c Control) bool {
	return c != nil && !win.destroyed && c.AsWidget().window == win
}

// releaseSlots clears every slot that points into c's subtree. When removing,
// pending damage owned by the subtree is detached from its widgets as well.
func (win *Window) releaseSlots(c Control, removing bool) {
	w := c.AsWidget()
	if win.selected != nil && w.Contains(win.selected) {
		win.SetSelected(nil)
	}
	if win.pointerUnder != nil && w.Contains(win.pointerUnder) {
		win.pointerUnder = nil
	}
	if win.capture != nil && w.Contains(win.capture) {
		win.capture = nil
	}
	if win.overlay != nil && w.Contains(win.overlay) {
		win.overlay = nil
	}
	if !removing {
		return
	}
	if win.mainMenu != nil && w.Contains(win.mainMenu) {
		win.mainMenu = nil
	}
	if win.statusBar != nil && w.Contains(win.statusBar) {
		win.statusBar = nil
	}
	walkControl(c, func(d Control) bool {
		win.damage.Forget(d.AsWidget())
		return true
	})
}

// ============================================================================
// Damage
// ============================================================================

// RequestRepaint records c's occupied rectangle as damage. It is a no-op for
// widgets that are not attached to this window or not effectively visible.
func (win *Window) RequestRepaint(c Control) {
	if c == nil || win.destroyed {
		return
	}
	w := c.AsWidget()
	if w.window != win || !w.EffectiveVisibility() {
		return
	}
	win.damage.Add(w, win.toClient(w.OccupiedRect()))
	win.contentChanged = true
}

// InvalidateRect records damage for an area in client coordinates.
func (win *Window) InvalidateRect(r Rect) {
	if win.destroyed || r.Empty() {
		return
	}
	win.damage.AddRect(r)
	win.contentChanged = true
}

// Invalidate schedules a full repaint on the next paint.
func (win *Window) Invalidate() {
	win.needsFull = true
	win.contentChanged = true
}

// invalidateAnimated adds every visible widget's animated region to damage.
func (win *Window) invalidateAnimated() {
	win.Walk(func(c Control) bool {
		w := c.AsWidget()
		if !w.visible {
			return false
		}
		if r, ok := c.GetAnimatedInvalidRect(); ok && !r.Empty() {
			win.damage.Add(w, win.toClient(r.Offset(w.AbsoluteLocation())))
			win.contentChanged = true
		}
		return true
	})
}

// toClient converts a content-area rectangle to client coordinates.
func (win *Window) toClient(r Rect) Rect {
	return r.Offset(Point{0, win.titleBarHeight})
}

// toContent converts a client point to content-area coordinates.
func (win *Window) toContent(p Point) Point {
	return Point{p.X, p.Y - win.titleBarHeight}
}

// ============================================================================
// Painting
// ============================================================================

// Paint repaints the window. A non-full paint is a no-op when nothing changed
// and otherwise redraws only the merged damage regions. A full paint redraws
// the whole client area. Damage survives a backend failure so the next frame
// retries it.
func (win *Window) Paint(full bool) error {
	if win.destroyed || win.surface == nil || !win.visible {
		return nil
	}
	full = full || win.needsFull
	if !full && !win.contentChanged {
		return nil
	}

	client := win.ClientRect()
	var regions []Rect
	if full {
		regions = []Rect{client}
	} else {
		for _, r := range win.damage.Regions() {
			if clipped := r.Intersect(client); !clipped.Empty() {
				regions = append(regions, clipped)
			}
		}
		if len(regions) == 0 {
			win.damage.Reset()
			win.contentChanged = false
			return nil
		}
	}

	if err := win.surface.BeginFrame(); err != nil {
		return fmt.Errorf("window %d: begin frame: %w", win.handle, err)
	}
	for _, region := range regions {
		win.paintRegion(region, full)
	}
	if err := win.surface.EndFrame(); err != nil {
		return fmt.Errorf("window %d: end frame: %w", win.handle, err)
	}

	win.damage.Reset()
	win.contentChanged = false
	win.needsFull = false
	win.frames++
	win.lastPaint = PaintReport{Frame: win.frames, Full: full, Regions: regions}
	if debugEnabled() {
		logger.Debug("paint", "window", win.handle, "frame", win.frames, "full", full, "regions", len(regions))
	}
	return nil
}

func (win *Window) paintRegion(region Rect, full bool) {
	s := win.surface
	s.PushClip(region)
	defer s.PopClip()

	s.FillRect(region, win.background)
	if win.titleBarHeight > 0 {
		bar := Rect{0, 0, win.width, win.titleBarHeight}
		if bar.Intersects(region) {
			s.FillRect(bar, win.background.Darken(0.15))
			font := win.font
			if font == nil {
				font = DefaultFont()
			}
			s.DrawText(win.title, Point{ScaleInt(4, BaseDPI, win.dpi), 0}, font, win.foreground)
		}
	}

	for _, r := range win.roots {
		win.paintTree(r, region, full)
	}
	if ov := win.overlay; ov != nil && ov.AsWidget().EffectiveVisibility() {
		win.paintSubtree(ov, region, full)
	}
}

// paintTree paints c and its descendants in list order, skipping the overlay
// subtree which is painted last.
func (win *Window) paintTree(c Control, clip Rect, full bool) {
	if c == win.overlay {
		return
	}
	w := c.AsWidget()
	if !w.visible {
		return
	}
	win.paintWidget(c, clip, full)
	for _, child := range w.children {
		win.paintTree(child, clip, full)
	}
}

func (win *Window) paintSubtree(c Control, clip Rect, full bool) {
	w := c.AsWidget()
	if !w.visible {
		return
	}
	win.paintWidget(c, clip, full)
	for _, child := range w.children {
		win.paintSubtree(child, clip, full)
	}
}

func (win *Window) paintWidget(c Control, clip Rect, full bool) {
	bounds := win.toClient(c.AsWidget().OccupiedRect())
	if !bounds.Intersects(clip) {
		return
	}
	c.Update(&PaintContext{
		Surface: win.surface,
		Window:  win,
		Bounds:  bounds,
		Clip:    clip,
		Full:    full,
	})
}

// ============================================================================
// Window Lifecycle
// ============================================================================

// Resize changes the client size, resizes the surface, refits DockFill roots
// and schedules a full repaint.
func (win *Window) Resize(width, height int) error {
	width, height = max(width, 0), max(height, 0)
	if win.surface != nil {
		if err := win.surface.Resize(width, height); err != nil {
			return fmt.Errorf("window %d: resize surface: %w", win.handle, err)
		}
	}
	win.width, win.height = width, height
	for _, r := range win.roots {
		win.fitRoot(r)
	}
	win.Invalidate()
	return nil
}

// Move records a new screen position.
func (win *Window) Move(x, y int) {
	win.x, win.y = x, y
}

// Rescale converts the window and its whole tree to a new DPI. Geometry,
// margins, padding and the title bar scale with ScaleInt; owned font sizes
// are rounded.
func (win *Window) Rescale(dpi int) error {
	dpi = normalizeDPI(dpi)
	from := win.dpi
	if dpi == from {
		return nil
	}
	win.Walk(func(c Control) bool {
		w := c.AsWidget()
		w.x, w.y = ScaleInt(w.x, from, dpi), ScaleInt(w.y, from, dpi)
		w.width, w.height = ScaleInt(w.width, from, dpi), ScaleInt(w.height, from, dpi)
		w.borderWidth = ScaleInt(w.borderWidth, from, dpi)
		w.hints.Margin = w.hints.Margin.scaled(from, dpi)
		w.hints.Padding = w.hints.Padding.scaled(from, dpi)
		if w.font != nil {
			w.font = w.font.scaled(from, dpi)
		}
		return true
	})
	if win.font != nil {
		win.font = win.font.scaled(from, dpi)
	}
	win.titleBarHeight = ScaleInt(win.titleBarHeight, from, dpi)
	win.dpi = dpi
	logger.Debug("window rescaled", "window", win.handle, "from", from, "to", dpi)

	err := win.Resize(ScaleInt(win.width, from, dpi), ScaleInt(win.height, from, dpi))
	win.Walk(func(c Control) bool {
		relayout(c)
		return true
	})
	return err
}

// Destroy destroys every root widget and marks the window closed.
func (win *Window) Destroy() {
	if win.destroyed {
		return
	}
	for _, r := range win.Children() {
		r.AsWidget().Destroy()
	}
	win.selected, win.pointerUnder, win.overlay = nil, nil, nil
	win.capture, win.mainMenu, win.statusBar = nil, nil, nil
	win.damage.Reset()
	win.destroyed = true
	logger.Debug("window destroyed", "handle", win.handle)
}

// handleLifecycle applies size, move, close and DPI messages.
func (win *Window) handleLifecycle(msg *Message) bool {
	switch msg.Kind {
	case MsgSize:
		if err := win.Resize(msg.Width, msg.Height); err != nil {
			logger.Warn("resize failed", "window", win.handle, "err", err)
		}
	case MsgMove:
		win.Move(msg.Pos.X, msg.Pos.Y)
	case MsgClose:
		win.Destroy()
	case MsgDPIChanged:
		if err := win.Rescale(msg.DPI); err != nil {
			logger.Warn("rescale failed", "window", win.handle, "err", err)
		}
	default:
		return false
	}
	return true
}
