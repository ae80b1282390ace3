package retained

// ============================================================================
// Message Dispatch
// ============================================================================

// Dispatch routes one message to the widget tree. Pointer messages go to the
// capturing widget or the hit target; keyboard messages go to the selected
// widget; lifecycle messages are applied to the window. Unhandled widget
// messages bubble up the parent chain. Returns true when something handled it.
func (win *Window) Dispatch(msg *Message) bool {
	if win.destroyed || msg == nil {
		return false
	}
	if !win.enabled && (msg.Kind.IsPointer() || msg.Kind.IsKeyboard()) {
		return false
	}

	switch msg.Kind {
	case MsgPointerMove:
		return win.dispatchPointerMove(msg)
	case MsgPointerDown:
		return win.dispatchPointerDown(msg)
	case MsgPointerUp:
		return win.dispatchPointerUp(msg)
	case MsgWheel, MsgDoubleClick, MsgDropFiles:
		target := win.HitTest(msg.Pos)
		if target == nil {
			return false
		}
		return win.bubble(target, msg, true)
	case MsgKeyDown, MsgKeyUp, MsgChar, MsgComposition:
		if win.selected == nil {
			return false
		}
		return win.bubble(win.selected, msg, false)
	case MsgSize, MsgMove, MsgClose, MsgDPIChanged:
		return win.handleLifecycle(msg)
	}
	return false
}

// ============================================================================
// Hit Testing
// ============================================================================

// HitTest resolves the widget under a client point. The overlay and widgets
// asking for first-pass priority win first; otherwise roots and children are
// scanned back to front so the last added widget wins.
func (win *Window) HitTest(p Point) Control {
	cp := win.toContent(p)
	if hit := win.hitTestFirstPass(cp); hit != nil {
		return hit
	}
	for i := len(win.roots) - 1; i >= 0; i-- {
		if hit := hitTestRecursive(win.roots[i], cp, Point{}); hit != nil {
			return hit
		}
	}
	return nil
}

// hitTestFirstPass checks the foreground overlay, then any visible widget
// that wants first-pass priority, deepest and last-added first.
func (win *Window) hitTestFirstPass(p Point) Control {
	if ov := win.overlay; ov != nil && ov.AsWidget().EffectiveVisibility() {
		ow := ov.AsWidget()
		origin := ow.AbsoluteLocation().Sub(Point{ow.x, ow.y})
		if hit := hitTestRecursive(ov, p, origin); hit != nil {
			return hit
		}
	}
	for i := len(win.roots) - 1; i >= 0; i-- {
		if hit := hitTestPriority(win.roots[i], p, Point{}); hit != nil {
			return hit
		}
	}
	return nil
}

func hitTestPriority(c Control, p Point, origin Point) Control {
	w := c.AsWidget()
	if !w.visible {
		return nil
	}
	abs := origin.Add(Point{w.x, w.y})
	for i := len(w.children) - 1; i >= 0; i-- {
		if hit := hitTestPriority(w.children[i], p, abs); hit != nil {
			return hit
		}
	}
	if fp, ok := c.(FirstPassHitter); ok && fp.WantsFirstPassHitPriority() {
		return hitTestRecursive(c, p, origin)
	}
	return nil
}

// hitTestRecursive returns the deepest visible, enabled widget under p.
// origin is the absolute position of c's parent. The occupied rectangle of c
// must contain p before its children are considered, and a child hit wins
// over c itself.
func hitTestRecursive(c Control, p Point, origin Point) Control {
	w := c.AsWidget()
	if !w.visible || !w.enabled {
		return nil
	}
	abs := origin.Add(Point{w.x, w.y})
	if !RectAt(abs, c.ActualSize()).Contains(p) {
		return nil
	}
	if ht, ok := c.(HitTester); ok && !ht.HitTest(p.Sub(abs)) {
		return nil
	}
	for i := len(w.children) - 1; i >= 0; i-- {
		if hit := hitTestRecursive(w.children[i], p, abs); hit != nil {
			return hit
		}
	}
	return c
}

// CursorAt resolves the pointer shape for a client point: the target's
// query first, then its static cursor, then the arrow.
func (win *Window) CursorAt(p Point) CursorKind {
	target := win.capture
	if target == nil {
		target = win.HitTest(p)
	}
	if target == nil {
		return CursorArrow
	}
	w := target.AsWidget()
	kind := target.QueryCursor(w.ToLocal(win.toContent(p)))
	if kind == CursorDefault {
		kind = w.cursor
	}
	if kind == CursorDefault {
		kind = CursorArrow
	}
	return kind
}

func (win *Window) updateCursor(p Point) {
	kind := win.CursorAt(p)
	if kind == win.cursor {
		return
	}
	win.cursor = kind
	if cs, ok := win.surface.(CursorSetter); ok {
		cs.SetCursor(kind)
	}
}

// ============================================================================
// Pointer Dispatch
// ============================================================================

func (win *Window) dispatchPointerMove(msg *Message) bool {
	if captured := win.capture; captured != nil {
		local := captured.AsWidget().ToLocal(win.toContent(msg.Pos))
		return captured.ProcessMessage(msg, local)
	}
	target := win.HitTest(msg.Pos)
	win.setPointerUnder(target, msg)
	win.updateCursor(msg.Pos)
	if target == nil {
		return false
	}
	return win.bubble(target, msg, true)
}

func (win *Window) dispatchPointerDown(msg *Message) bool {
	target := win.HitTest(msg.Pos)

	if ov := win.overlay; ov != nil && (target == nil || !ov.AsWidget().Contains(target)) {
		win.DismissOverlay()
	}

	win.setPointerUnder(target, msg)
	if target == nil {
		win.SetSelected(nil)
		return false
	}

	win.SetSelected(selectionFor(target))
	win.SetCapture(target)

	if target.AsWidget().window != win {
		// a selection handler removed the target
		return false
	}
	return win.bubble(target, msg, true)
}

func (win *Window) dispatchPointerUp(msg *Message) bool {
	captured := win.capture
	win.ReleaseCapture()

	handled := false
	target := win.HitTest(msg.Pos)
	if captured != nil && captured.AsWidget().window == win {
		handled = captured.ProcessMessage(msg, captured.AsWidget().ToLocal(win.toContent(msg.Pos)))
	}
	if target != nil && target != captured {
		handled = win.bubble(target, msg, true) || handled
	}

	// hover may have moved while capture suppressed it
	win.setPointerUnder(win.HitTest(msg.Pos), msg)
	win.updateCursor(msg.Pos)
	return handled
}

// setPointerUnder updates the hover slot. Both sides of a transition repaint
// once and receive enter/leave notifications.
func (win *Window) setPointerUnder(target Control, msg *Message) {
	old := win.pointerUnder
	if old == target {
		return
	}
	win.pointerUnder = target
	content := win.toContent(msg.Pos)

	if old != nil {
		ow := old.AsWidget()
		ow.RequestRepaint()
		if ow.window == win {
			old.ProcessMessage(&Message{
				Kind:      MsgPointerLeave,
				Window:    win.handle,
				Pos:       msg.Pos,
				Modifiers: msg.Modifiers,
				Related:   target,
			}, ow.ToLocal(content))
		}
	}
	if target != nil {
		tw := target.AsWidget()
		tw.RequestRepaint()
		target.ProcessMessage(&Message{
			Kind:      MsgPointerEnter,
			Window:    win.handle,
			Pos:       msg.Pos,
			Modifiers: msg.Modifiers,
			Related:   old,
		}, tw.ToLocal(content))
	}
}

// bubble offers msg to target and then to each ancestor until one handles it.
// Pointer messages carry the position re-expressed in each widget's local
// space; keyboard messages carry a zero point.
func (win *Window) bubble(target Control, msg *Message, pointer bool) bool {
	content := win.toContent(msg.Pos)
	for c := target; c != nil; c = c.AsWidget().parent {
		w := c.AsWidget()
		if w.window != win {
			return false
		}
		var local Point
		if pointer {
			local = w.ToLocal(content)
		}
		if c.ProcessMessage(msg, local) {
			return true
		}
	}
	return false
}
