package retained

// ============================================================================
// Coordinate Resolver
// ============================================================================

// AbsoluteLocation sums local positions up the parent chain, giving the
// widget's top-left corner relative to the window content area.
func (w *Widget) AbsoluteLocation() Point {
	p := Point{w.x, w.y}
	for a := w.parent; a != nil; a = a.AsWidget().parent {
		aw := a.AsWidget()
		p.X += aw.x
		p.Y += aw.y
	}
	return p
}

// EffectiveVisibility is true only when the widget and every ancestor are
// visible and the chain ends at a window.
func (w *Widget) EffectiveVisibility() bool {
	if w.window == nil {
		return false
	}
	var c Control = w.Self()
	for c != nil {
		cw := c.AsWidget()
		if !cw.visible {
			return false
		}
		c = cw.parent
	}
	return true
}

// OccupiedRect is the widget's occupied footprint (ActualSize, not the
// declared size) relative to the window content area.
func (w *Widget) OccupiedRect() Rect {
	return RectAt(w.AbsoluteLocation(), w.Self().ActualSize())
}

// ToLocal converts a content-area point into this widget's local space.
func (w *Widget) ToLocal(p Point) Point {
	return p.Sub(w.AbsoluteLocation())
}

// root returns the topmost ancestor (a window root for attached widgets).
func (w *Widget) root() Control {
	var c Control = w.Self()
	for c.AsWidget().parent != nil {
		c = c.AsWidget().parent
	}
	return c
}
