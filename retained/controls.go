package retained

// Reference controls built on the Control contract: Label, Button, Panel,
// Dropdown and TextField.

// ============================================================================
// Label
// ============================================================================

// Label draws a single line of text.
type Label struct {
	Widget
	text  string
	align Alignment
}

// NewLabel creates a label.
func NewLabel(text string) *Label {
	l := &Label{text: text}
	l.Init(l)
	return l
}

// Text returns the label text.
func (l *Label) Text() string { return l.text }

// SetText changes the label text.
func (l *Label) SetText(text string) *Label {
	if l.text != text {
		l.text = text
		l.RequestRepaint()
	}
	return l
}

// SetTextAlign sets horizontal text alignment inside the label.
func (l *Label) SetTextAlign(a Alignment) *Label {
	l.align = a
	l.RequestRepaint()
	return l
}

// Update paints the background and the text.
func (l *Label) Update(ctx *PaintContext) {
	l.Widget.Update(ctx)
	drawText(ctx, l.text, l.Font(), l.foreground, l.align, l.hints.Padding)
}

// ============================================================================
// Button
// ============================================================================

// Button is a clickable text button. Clicks fire on button-up inside the
// button after a button-down on it, or on Enter/Space while selected.
type Button struct {
	Widget
	text    string
	pressed bool
	onClick func()
}

// NewButton creates a button.
func NewButton(text string) *Button {
	b := &Button{text: text}
	b.Init(b)
	b.background = LightGray
	b.borderWidth = 1
	b.cursor = CursorHand
	return b
}

// Text returns the caption.
func (b *Button) Text() string { return b.text }

// SetText changes the caption.
func (b *Button) SetText(text string) *Button {
	if b.text != text {
		b.text = text
		b.RequestRepaint()
	}
	return b
}

// OnClick sets the click handler.
func (b *Button) OnClick(fn func()) *Button {
	b.onClick = fn
	return b
}

// Pressed reports whether the pointer is held down on the button.
func (b *Button) Pressed() bool { return b.pressed }

// Click fires the click handler.
func (b *Button) Click() {
	if b.enabled && b.onClick != nil {
		b.onClick()
	}
}

// ProcessMessage handles press, release and activation keys.
func (b *Button) ProcessMessage(msg *Message, local Point) bool {
	switch msg.Kind {
	case MsgPointerDown:
		if msg.Button != MouseButtonLeft {
			return false
		}
		b.pressed = true
		b.RequestRepaint()
		return true
	case MsgPointerUp:
		if !b.pressed {
			return false
		}
		b.pressed = false
		b.RequestRepaint()
		if RectAt(Point{}, b.ActualSize()).Contains(local) {
			b.Click()
		}
		return true
	case MsgPointerEnter, MsgPointerLeave:
		return true
	case MsgKeyDown:
		if msg.Key == "Enter" || msg.Key == " " {
			b.Click()
			return true
		}
	}
	return false
}

// Update paints hover, pressed and selection states.
func (b *Button) Update(ctx *PaintContext) {
	bg := b.background
	switch {
	case !b.enabled:
		bg = bg.Blend(Gray, 0.5)
	case b.pressed:
		bg = bg.Darken(0.2)
	case b.PointerUnder():
		bg = bg.Lighten(0.25)
	}
	ctx.Surface.FillRoundedRect(ctx.Bounds, 2, bg)
	border := b.borderColor
	if b.Selected() {
		border = Blue
	}
	if b.borderWidth > 0 {
		ctx.Surface.StrokeRect(ctx.Bounds, border, b.borderWidth)
	}
	drawText(ctx, b.text, b.Font(), b.foreground, AlignCenter, b.hints.Padding)
}

// ============================================================================
// Panel
// ============================================================================

// Panel is a container that arranges its children with a LayoutFunc. With
// selection keeping on, clicks on its children select the panel itself.
type Panel struct {
	Widget
	layout        LayoutFunc
	layoutDirty   bool
	keepSelection bool
	layoutPasses  int
}

// NewPanel creates a panel. A nil layout leaves children where they are.
func NewPanel(layout LayoutFunc) *Panel {
	p := &Panel{layout: layout}
	p.Init(p)
	return p
}

// SetLayout replaces the layout function and relayouts.
func (p *Panel) SetLayout(layout LayoutFunc) *Panel {
	p.layout = layout
	relayout(p)
	return p
}

// SetKeepSelection makes the panel keep window-level selection for its parts.
func (p *Panel) SetKeepSelection(keep bool) *Panel {
	p.keepSelection = keep
	return p
}

// KeepsSelection implements SelectionKeeper.
func (p *Panel) KeepsSelection() bool { return p.keepSelection }

// InvalidateLayout implements Layouter.
func (p *Panel) InvalidateLayout() { p.layoutDirty = true }

// PerformLayout implements Layouter; it runs only after InvalidateLayout.
func (p *Panel) PerformLayout() {
	if !p.layoutDirty {
		return
	}
	p.layoutDirty = false
	if p.layout == nil {
		return
	}
	p.layoutPasses++
	p.layout(&p.Widget, p.children)
}

// LayoutPasses counts how many times the layout function ran.
func (p *Panel) LayoutPasses() int { return p.layoutPasses }

// ============================================================================
// Dropdown
// ============================================================================

// Dropdown shows the selected option and, while open, a list of options
// below itself. While open it reports the list as part of its occupied size,
// asks for first-pass hit priority and holds the window overlay slot.
type Dropdown struct {
	Widget
	options    []string
	index      int
	open       bool
	hover      int
	itemHeight int
	onChange   func(index int, value string)
}

// NewDropdown creates a closed dropdown with no selection.
func NewDropdown(options ...string) *Dropdown {
	d := &Dropdown{options: options, index: -1, hover: -1, itemHeight: 20}
	d.Init(d)
	d.background = White
	d.borderWidth = 1
	d.cursor = CursorHand
	return d
}

// Options returns the option labels.
func (d *Dropdown) Options() []string { return d.options }

// SetOptions replaces the options and clears the selection.
func (d *Dropdown) SetOptions(options ...string) *Dropdown {
	d.RequestRepaint()
	d.options = options
	d.index, d.hover = -1, -1
	d.RequestRepaint()
	return d
}

// SetItemHeight sets the height of one list row.
func (d *Dropdown) SetItemHeight(h int) *Dropdown {
	d.RequestRepaint()
	d.itemHeight = max(h, 1)
	d.RequestRepaint()
	return d
}

// OnChange sets the handler fired when the selected option changes.
func (d *Dropdown) OnChange(fn func(index int, value string)) *Dropdown {
	d.onChange = fn
	return d
}

// SelectedIndex returns the selected option index, or -1.
func (d *Dropdown) SelectedIndex() int { return d.index }

// Value returns the selected option label, or "".
func (d *Dropdown) Value() string {
	if d.index < 0 || d.index >= len(d.options) {
		return ""
	}
	return d.options[d.index]
}

// SetSelectedIndex selects an option; out-of-range values clear it.
func (d *Dropdown) SetSelectedIndex(i int) *Dropdown {
	if i < 0 || i >= len(d.options) {
		i = -1
	}
	if i == d.index {
		return d
	}
	d.index = i
	d.RequestRepaint()
	if d.onChange != nil {
		d.onChange(i, d.Value())
	}
	return d
}

// IsOpen reports whether the list is expanded.
func (d *Dropdown) IsOpen() bool { return d.open }

// Open expands the list and claims the overlay slot.
func (d *Dropdown) Open() {
	if d.open || len(d.options) == 0 {
		return
	}
	d.open = true
	d.hover = d.index
	if d.window != nil {
		d.window.SetOverlay(d)
	}
	d.RequestRepaint()
}

// Close collapses the list and releases the overlay slot.
func (d *Dropdown) Close() {
	if !d.open {
		return
	}
	d.RequestRepaint()
	d.open = false
	d.hover = -1
	if d.window != nil && d.window.Overlay() == Control(d) {
		d.window.DismissOverlay()
	}
}

// ActualSize includes the expanded list.
func (d *Dropdown) ActualSize() Size {
	s := d.Size()
	if d.open {
		s.Height += len(d.options) * d.itemHeight
	}
	return s
}

// WantsFirstPassHitPriority implements FirstPassHitter.
func (d *Dropdown) WantsFirstPassHitPriority() bool { return d.open }

func (d *Dropdown) itemAt(local Point) int {
	if local.Y < d.height {
		return -1
	}
	i := (local.Y - d.height) / d.itemHeight
	if i < 0 || i >= len(d.options) {
		return -1
	}
	return i
}

// ProcessMessage toggles the list, picks items and follows keyboard moves.
func (d *Dropdown) ProcessMessage(msg *Message, local Point) bool {
	switch msg.Kind {
	case MsgPointerDown:
		if !d.open {
			d.Open()
			return true
		}
		if i := d.itemAt(local); i >= 0 {
			d.SetSelectedIndex(i)
		}
		d.Close()
		return true
	case MsgPointerMove:
		if d.open {
			if i := d.itemAt(local); i != d.hover {
				d.hover = i
				d.RequestRepaint()
			}
		}
		return true
	case MsgWheel:
		if msg.DeltaY != 0 {
			d.step(-sign(msg.DeltaY))
		}
		return true
	case MsgOverlayDismiss, MsgSelectionLost:
		d.Close()
		return true
	case MsgKeyDown:
		switch msg.Key {
		case "Down":
			d.step(1)
		case "Up":
			d.step(-1)
		case "Enter", " ":
			if d.open {
				if d.hover >= 0 {
					d.SetSelectedIndex(d.hover)
				}
				d.Close()
			} else {
				d.Open()
			}
		case "Escape":
			d.Close()
		default:
			return false
		}
		return true
	}
	return false
}

func (d *Dropdown) step(delta int) {
	if len(d.options) == 0 {
		return
	}
	if d.open {
		d.hover = min(max(d.hover+delta, 0), len(d.options)-1)
		d.RequestRepaint()
		return
	}
	d.SetSelectedIndex(min(max(d.index+delta, 0), len(d.options)-1))
}

// Update paints the header and, while open, the list.
func (d *Dropdown) Update(ctx *PaintContext) {
	header := RectAt(ctx.Origin(), d.Size())
	ctx.Surface.FillRect(header, d.background)
	border := d.borderColor
	if d.Selected() {
		border = Blue
	}
	ctx.Surface.StrokeRect(header, border, max(d.borderWidth, 1))
	font := d.Font()
	inner := Insets{Left: 4, Right: 4}
	drawTextIn(ctx, header, d.Value(), font, d.foreground, AlignStart, inner)
	arrow := "v"
	if d.open {
		arrow = "^"
	}
	drawTextIn(ctx, header, arrow, font, d.foreground, AlignEnd, inner)

	if !d.open {
		return
	}
	for i, opt := range d.options {
		row := Rect{header.X, header.Bottom() + i*d.itemHeight, header.Width, d.itemHeight}
		bg := d.background
		if i == d.hover {
			bg = Blue.Lighten(0.6)
		}
		ctx.Surface.FillRect(row, bg)
		drawTextIn(ctx, row, opt, font, d.foreground, AlignStart, inner)
	}
	list := Rect{header.X, header.Bottom(), header.Width, len(d.options) * d.itemHeight}
	ctx.Surface.StrokeRect(list, d.borderColor, 1)
}

// ============================================================================
// TextField
// ============================================================================

// TextField is a single-line editor. While selected its caret blinks, which
// it reports through GetAnimatedInvalidRect.
type TextField struct {
	Widget
	buf         *TextBuffer
	placeholder string
	composing   string
	onChange    func(text string)
	onSubmit    func(text string)

	// measured from the last paint, used to map clicks to caret positions
	measure func(text string) int
}

// NewTextField creates an empty text field. clock drives caret blink; nil
// uses the system clock.
func NewTextField(clock Clock) *TextField {
	tf := &TextField{buf: NewTextBuffer(clock)}
	tf.Init(tf)
	tf.background = White
	tf.borderWidth = 1
	tf.cursor = CursorIBeam
	tf.hints.Padding = Insets{Left: 4, Right: 4}
	return tf
}

// Buffer exposes the edit buffer.
func (tf *TextField) Buffer() *TextBuffer { return tf.buf }

// Text returns the content.
func (tf *TextField) Text() string { return tf.buf.Text() }

// SetText replaces the content and moves the caret to the end.
func (tf *TextField) SetText(text string) *TextField {
	tf.buf.SetText(text)
	tf.buf.MoveToEnd(false)
	tf.RequestRepaint()
	return tf
}

// SetPlaceholder sets the text shown while empty.
func (tf *TextField) SetPlaceholder(text string) *TextField {
	tf.placeholder = text
	tf.RequestRepaint()
	return tf
}

// OnChange sets the handler fired after each edit.
func (tf *TextField) OnChange(fn func(text string)) *TextField {
	tf.onChange = fn
	return tf
}

// OnSubmit sets the handler fired on Enter.
func (tf *TextField) OnSubmit(fn func(text string)) *TextField {
	tf.onSubmit = fn
	return tf
}

// Composing returns the pending IME composition text.
func (tf *TextField) Composing() string { return tf.composing }

func (tf *TextField) changed() {
	tf.RequestRepaint()
	if tf.onChange != nil {
		tf.onChange(tf.buf.Text())
	}
}

// ProcessMessage edits the buffer from keyboard input and places the caret
// on click.
func (tf *TextField) ProcessMessage(msg *Message, local Point) bool {
	switch msg.Kind {
	case MsgChar:
		if msg.Char < 0x20 || msg.Char == 0x7f {
			return false
		}
		tf.composing = ""
		if tf.buf.Insert(string(msg.Char)) {
			tf.changed()
		}
		return true
	case MsgComposition:
		tf.composing = msg.Text
		tf.RequestRepaint()
		return true
	case MsgKeyDown:
		return tf.handleKey(msg)
	case MsgPointerDown:
		tf.buf.SetCursor(tf.caretIndexAt(local.X - tf.hints.Padding.Left))
		tf.RequestRepaint()
		return true
	case MsgDoubleClick:
		tf.buf.SelectAll()
		tf.RequestRepaint()
		return true
	case MsgSelectionGained, MsgSelectionLost:
		tf.buf.ResetBlink()
		tf.composing = ""
		return true
	}
	return false
}

func (tf *TextField) handleKey(msg *Message) bool {
	extend := msg.Modifiers.Shift()
	switch msg.Key {
	case "Backspace":
		if tf.buf.Delete(-1) {
			tf.changed()
		}
	case "Delete":
		if tf.buf.Delete(1) {
			tf.changed()
		}
	case "Left":
		if msg.Modifiers.Ctrl() {
			tf.buf.MoveWord(false, extend)
		} else {
			tf.buf.MoveCursor(-1, extend)
		}
		tf.RequestRepaint()
	case "Right":
		if msg.Modifiers.Ctrl() {
			tf.buf.MoveWord(true, extend)
		} else {
			tf.buf.MoveCursor(1, extend)
		}
		tf.RequestRepaint()
	case "Home":
		tf.buf.MoveToStart(extend)
		tf.RequestRepaint()
	case "End":
		tf.buf.MoveToEnd(extend)
		tf.RequestRepaint()
	case "Enter":
		if tf.onSubmit != nil {
			tf.onSubmit(tf.buf.Text())
		}
	default:
		return false
	}
	return true
}

// caretIndexAt maps a text-relative x offset to the nearest caret position.
func (tf *TextField) caretIndexAt(x int) int {
	runes := []rune(tf.buf.Text())
	measure := tf.measure
	if measure == nil {
		font := tf.Font()
		measure = func(s string) int { return EstimateText(s, font).Width }
	}
	prev := 0
	for i := 1; i <= len(runes); i++ {
		w := measure(string(runes[:i]))
		if x < (prev+w)/2 {
			return i - 1
		}
		prev = w
	}
	return len(runes)
}

// caretRect is the caret in widget-local coordinates.
func (tf *TextField) caretRect() Rect {
	runes := []rune(tf.buf.Text())
	x := tf.hints.Padding.Left
	if tf.measure != nil {
		x += tf.measure(string(runes[:tf.buf.Cursor()]))
	} else {
		x += EstimateText(string(runes[:tf.buf.Cursor()]), tf.Font()).Width
	}
	return Rect{x, 1, 1, max(tf.height-2, 1)}
}

// GetAnimatedInvalidRect reports the caret while the field is selected.
func (tf *TextField) GetAnimatedInvalidRect() (Rect, bool) {
	if !tf.Selected() {
		return Rect{}, false
	}
	return tf.caretRect(), true
}

// Update paints the text, selection highlight and, in its visible blink
// phase, the caret.
func (tf *TextField) Update(ctx *PaintContext) {
	font := tf.Font()
	tf.measure = func(s string) int { return ctx.MeasureText(s, font).Width }

	ctx.Surface.FillRect(ctx.Bounds, tf.background)
	border := tf.borderColor
	selected := tf.Selected()
	if selected {
		border = Blue
	}
	ctx.Surface.StrokeRect(ctx.Bounds, border, max(tf.borderWidth, 1))

	text := tf.buf.Text()
	if text == "" && tf.composing == "" {
		drawText(ctx, tf.placeholder, font, Gray, AlignStart, tf.hints.Padding)
	} else {
		if tf.buf.HasSelection() && selected {
			runes := []rune(text)
			start, end := tf.buf.Selection()
			x0 := tf.measure(string(runes[:start]))
			x1 := tf.measure(string(runes[:end]))
			hl := Rect{ctx.Bounds.X + tf.hints.Padding.Left + x0, ctx.Bounds.Y + 1, x1 - x0, max(ctx.Bounds.Height-2, 1)}
			ctx.Surface.FillRect(hl, Blue.Lighten(0.6))
		}
		drawText(ctx, text+tf.composing, font, tf.foreground, AlignStart, tf.hints.Padding)
	}

	if selected {
		tf.buf.UpdateBlink()
		if tf.buf.CaretVisible() {
			ctx.Surface.FillRect(tf.caretRect().Offset(ctx.Origin()), tf.foreground)
		}
	}
}

// ============================================================================
// Helpers
// ============================================================================

// drawText draws one line inside the paint bounds, vertically centred.
func drawText(ctx *PaintContext, text string, font *Font, c Color, a Alignment, pad Insets) {
	drawTextIn(ctx, ctx.Bounds, text, font, c, a, pad)
}

func drawTextIn(ctx *PaintContext, box Rect, text string, font *Font, c Color, a Alignment, pad Insets) {
	if text == "" {
		return
	}
	size := ctx.MeasureText(text, font)
	inner := Rect{box.X + pad.Left, box.Y + pad.Top, max(box.Width-pad.Horizontal(), 0), max(box.Height-pad.Vertical(), 0)}
	if a == AlignStretch {
		a = AlignStart
	}
	x, _ := align(a, inner.X, inner.Width, size.Width)
	y := inner.Y + (inner.Height-size.Height)/2
	ctx.Surface.DrawText(text, Point{x, y}, font, c)
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
