package retained

import "slices"

// ============================================================================
// Damage Tracker
// ============================================================================

// DamageTracker accumulates repaint requests for one window. Requests from the
// same widget are unioned until the next reset, so pending damage never
// shrinks between paints.
type DamageTracker struct {
	pending map[*Widget]Rect
	order   []*Widget // first-request order, for deterministic output
	extra   []Rect    // damage not attributed to a live widget
}

// NewDamageTracker creates an empty tracker.
func NewDamageTracker() *DamageTracker {
	return &DamageTracker{pending: make(map[*Widget]Rect)}
}

// Add records r as damage from w.
func (d *DamageTracker) Add(w *Widget, r Rect) {
	if r.Empty() {
		return
	}
	if old, ok := d.pending[w]; ok {
		d.pending[w] = old.Union(r)
		return
	}
	d.pending[w] = r
	d.order = append(d.order, w)
}

// AddRect records damage with no owning widget.
func (d *DamageTracker) AddRect(r Rect) {
	if !r.Empty() {
		d.extra = append(d.extra, r)
	}
}

// PendingFor returns the pending rectangle recorded for w.
func (d *DamageTracker) PendingFor(w *Widget) (Rect, bool) {
	r, ok := d.pending[w]
	return r, ok
}

// Forget moves w's pending damage into the unattributed list. The area still
// gets repainted but the widget is no longer referenced.
func (d *DamageTracker) Forget(w *Widget) {
	r, ok := d.pending[w]
	if !ok {
		return
	}
	delete(d.pending, w)
	d.order = slices.DeleteFunc(d.order, func(x *Widget) bool { return x == w })
	d.extra = append(d.extra, r)
}

// Len is the number of raw rectangles recorded.
func (d *DamageTracker) Len() int { return len(d.pending) + len(d.extra) }

// Empty reports whether nothing is pending.
func (d *DamageTracker) Empty() bool { return d.Len() == 0 }

// Rects returns the raw rectangles: per-widget first, then unattributed.
func (d *DamageTracker) Rects() []Rect {
	out := make([]Rect, 0, d.Len())
	for _, w := range d.order {
		out = append(out, d.pending[w])
	}
	return append(out, d.extra...)
}

// Regions merges overlapping or touching rectangles into the minimal set of
// disjoint regions to repaint.
func (d *DamageTracker) Regions() []Rect {
	return mergeRects(d.Rects())
}

// Bounds returns the bounding box of everything pending.
func (d *DamageTracker) Bounds() Rect {
	var b Rect
	for _, r := range d.Rects() {
		b = b.Union(r)
	}
	return b
}

// Reset clears all pending damage.
func (d *DamageTracker) Reset() {
	clear(d.pending)
	d.order = d.order[:0]
	d.extra = d.extra[:0]
}
