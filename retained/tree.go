package retained

import (
	"errors"
	"fmt"
)

// Composition errors. These indicate a tree-invariant violation by the caller.
var (
	ErrAlreadyParented = errors.New("retained: widget already has a parent")
	ErrCycle           = errors.New("retained: widget cannot contain itself")
	ErrDestroyed       = errors.New("retained: widget is destroyed")
	ErrNilWidget       = errors.New("retained: nil widget")
)

// ============================================================================
// Tree Structure
// ============================================================================

// Children returns a copy of the child list in paint order.
func (w *Widget) Children() []Control {
	result := make([]Control, len(w.children))
	copy(result, w.children)
	return result
}

// ChildCount returns the number of children.
func (w *Widget) ChildCount() int { return len(w.children) }

// AddChild appends child. It fails without mutating anything when child
// already belongs to a container or window, or when adding it would create a
// cycle. The child's subtree adopts this widget's window.
func (w *Widget) AddChild(child Control) error {
	return w.InsertChild(len(w.children), child)
}

// MustAddChild is AddChild for builder code; misuse panics.
func (w *Widget) MustAddChild(children ...Control) *Widget {
	for _, c := range children {
		if err := w.AddChild(c); err != nil {
			panic(err)
		}
	}
	return w
}

// InsertChild inserts child at index (clamped to the child count).
func (w *Widget) InsertChild(index int, child Control) error {
	if err := checkAttachable(child); err != nil {
		return err
	}
	if w.destroyed {
		return ErrDestroyed
	}
	child = child.AsWidget().Self()
	cw := child.AsWidget()
	for a := w.Self(); a != nil; a = a.AsWidget().parent {
		if a.AsWidget() == cw {
			return fmt.Errorf("add %s to %s: %w", describe(child), describe(w.Self()), ErrCycle)
		}
	}

	if index < 0 {
		index = 0
	}
	if index >= len(w.children) {
		w.children = append(w.children, child)
	} else {
		w.children = append(w.children[:index+1], w.children[index:]...)
		w.children[index] = child
	}
	cw.parent = w.Self()
	setWindow(child, w.window)

	relayout(w.Self())
	child.AsWidget().RequestRepaint()
	return nil
}

// RemoveChild detaches child. Window slots pointing into the removed subtree
// are cleared. Returns false when child is not a direct child.
func (w *Widget) RemoveChild(child Control) bool {
	if child == nil {
		return false
	}
	cw := child.AsWidget()
	for i, c := range w.children {
		if c.AsWidget() != cw {
			continue
		}
		detach(child)
		w.children = append(w.children[:i], w.children[i+1:]...)
		cw.parent = nil
		relayout(w.Self())
		return true
	}
	return false
}

// RemoveFromParent detaches the widget from its parent or window.
func (w *Widget) RemoveFromParent() {
	switch {
	case w.parent != nil:
		w.parent.AsWidget().RemoveChild(w.Self())
	case w.window != nil:
		w.window.RemoveChild(w.Self())
	}
}

// Destroy detaches the widget and destroys its subtree, children first.
func (w *Widget) Destroy() {
	if w.destroyed {
		return
	}
	w.RemoveFromParent()
	destroyTree(w.Self())
}

func destroyTree(c Control) {
	w := c.AsWidget()
	children := w.children
	w.children = nil
	for _, child := range children {
		child.AsWidget().parent = nil
		destroyTree(child)
	}
	w.destroyed = true
	w.window = nil
	if h, ok := c.(DestroyHandler); ok {
		h.OnDestroy()
	}
}

// Contains reports whether c is this widget or one of its descendants.
func (w *Widget) Contains(c Control) bool {
	if c == nil {
		return false
	}
	target := c.AsWidget()
	for cur := target; cur != nil; {
		if cur == w {
			return true
		}
		if cur.parent == nil {
			return false
		}
		cur = cur.parent.AsWidget()
	}
	return false
}

// Walk visits the subtree depth-first in paint order. Returning false from
// fn skips the visited widget's children.
func (w *Widget) Walk(fn func(c Control) bool) {
	walkControl(w.Self(), fn)
}

func walkControl(c Control, fn func(c Control) bool) {
	if !fn(c) {
		return
	}
	for _, child := range c.AsWidget().children {
		walkControl(child, fn)
	}
}

// ============================================================================
// Helpers
// ============================================================================

func checkAttachable(child Control) error {
	if child == nil || child.AsWidget() == nil {
		return ErrNilWidget
	}
	cw := child.AsWidget()
	if cw.destroyed {
		return ErrDestroyed
	}
	if cw.parent != nil || cw.window != nil {
		return fmt.Errorf("add %s: %w", describe(child), ErrAlreadyParented)
	}
	return nil
}

// setWindow stamps the owning window onto a subtree.
func setWindow(c Control, win *Window) {
	walkControl(c, func(d Control) bool {
		d.AsWidget().window = win
		return true
	})
}

// detach damages the subtree's area, releases window slots that reference it
// and clears the window back-references.
func detach(c Control) {
	w := c.AsWidget()
	if win := w.window; win != nil {
		w.RequestRepaint()
		win.releaseSlots(c, true)
	}
	setWindow(c, nil)
}

// relayout runs the layout contract on containers.
func relayout(c Control) {
	if l, ok := c.(Layouter); ok {
		l.InvalidateLayout()
		l.PerformLayout()
	}
}

func describe(c Control) string {
	if c == nil {
		return "<nil>"
	}
	w := c.AsWidget()
	if w.name != "" {
		return fmt.Sprintf("%q(#%d)", w.name, w.id)
	}
	return fmt.Sprintf("#%d", w.id)
}
