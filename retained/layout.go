package retained

// ============================================================================
// Layout Contract
// ============================================================================

// Layouter is implemented by container widgets. The core calls
// InvalidateLayout followed by PerformLayout when the container is resized
// and when children are added or removed. How children are arranged is up to
// the container.
type Layouter interface {
	InvalidateLayout()
	PerformLayout()
}

// LayoutFunc arranges children inside container. Implementations position
// children with SetBounds so moves are damaged like any other change.
type LayoutFunc func(container *Widget, children []Control)

// contentBox is the container's local area inside its padding.
func contentBox(container *Widget) Rect {
	pad := container.hints.Padding
	return Rect{
		X:      pad.Left,
		Y:      pad.Top,
		Width:  max(container.width-pad.Horizontal(), 0),
		Height: max(container.height-pad.Vertical(), 0),
	}
}

// align places a length inside a slot according to a.
func align(a Alignment, slotStart, slotLen, length int) (start, size int) {
	switch a {
	case AlignCenter:
		return slotStart + (slotLen-length)/2, length
	case AlignEnd:
		return slotStart + slotLen - length, length
	case AlignStretch:
		return slotStart, slotLen
	}
	return slotStart, length
}

// ============================================================================
// Stack Layouts
// ============================================================================

// VStack stacks visible children top to bottom, spacing apart. Each child's
// margin is respected and its Align hint places it horizontally.
func VStack(spacing int) LayoutFunc {
	return func(container *Widget, children []Control) {
		box := contentBox(container)
		y := box.Y
		for _, c := range children {
			w := c.AsWidget()
			if !w.visible {
				continue
			}
			m := w.hints.Margin
			x, width := align(w.hints.Align, box.X+m.Left, max(box.Width-m.Horizontal(), 0), w.width)
			y += m.Top
			w.SetBounds(Rect{x, y, width, w.height})
			y += w.height + m.Bottom + spacing
		}
	}
}

// HStack stacks visible children left to right, spacing apart. The Align
// hint places each child vertically.
func HStack(spacing int) LayoutFunc {
	return func(container *Widget, children []Control) {
		box := contentBox(container)
		x := box.X
		for _, c := range children {
			w := c.AsWidget()
			if !w.visible {
				continue
			}
			m := w.hints.Margin
			y, height := align(w.hints.Align, box.Y+m.Top, max(box.Height-m.Vertical(), 0), w.height)
			x += m.Left
			w.SetBounds(Rect{x, y, w.width, height})
			x += w.width + m.Right + spacing
		}
	}
}

// ============================================================================
// Dock Layout
// ============================================================================

// DockLayout attaches children to the edges of the remaining area in list
// order; DockFill children take whatever is left. Children without a dock
// hint keep their own geometry.
func DockLayout() LayoutFunc {
	return func(container *Widget, children []Control) {
		free := contentBox(container)
		var fill []*Widget
		for _, c := range children {
			w := c.AsWidget()
			if !w.visible {
				continue
			}
			m := w.hints.Margin
			switch w.hints.Dock {
			case DockTop:
				w.SetBounds(Rect{free.X + m.Left, free.Y + m.Top, max(free.Width-m.Horizontal(), 0), w.height})
				used := min(w.height+m.Vertical(), free.Height)
				free.Y += used
				free.Height -= used
			case DockBottom:
				w.SetBounds(Rect{free.X + m.Left, free.Bottom() - m.Bottom - w.height, max(free.Width-m.Horizontal(), 0), w.height})
				free.Height -= min(w.height+m.Vertical(), free.Height)
			case DockLeft:
				w.SetBounds(Rect{free.X + m.Left, free.Y + m.Top, w.width, max(free.Height-m.Vertical(), 0)})
				used := min(w.width+m.Horizontal(), free.Width)
				free.X += used
				free.Width -= used
			case DockRight:
				w.SetBounds(Rect{free.Right() - m.Right - w.width, free.Y + m.Top, w.width, max(free.Height-m.Vertical(), 0)})
				free.Width -= min(w.width+m.Horizontal(), free.Width)
			case DockFill:
				fill = append(fill, w)
			}
		}
		for _, w := range fill {
			m := w.hints.Margin
			w.SetBounds(Rect{
				X:      free.X + m.Left,
				Y:      free.Y + m.Top,
				Width:  max(free.Width-m.Horizontal(), 0),
				Height: max(free.Height-m.Vertical(), 0),
			})
		}
	}
}

// ============================================================================
// Grid Layout
// ============================================================================

// GridLayout divides the content box into equal cells and places each child
// at its Row/Column hint, spanning RowSpan/ColumnSpan cells (minimum 1).
func GridLayout(rows, columns, gap int) LayoutFunc {
	rows, columns = max(rows, 1), max(columns, 1)
	return func(container *Widget, children []Control) {
		box := contentBox(container)
		cellW := max((box.Width-gap*(columns-1))/columns, 0)
		cellH := max((box.Height-gap*(rows-1))/rows, 0)
		for _, c := range children {
			w := c.AsWidget()
			if !w.visible {
				continue
			}
			h := w.hints
			row := min(max(h.Row, 0), rows-1)
			col := min(max(h.Column, 0), columns-1)
			rowSpan := min(max(h.RowSpan, 1), rows-row)
			colSpan := min(max(h.ColumnSpan, 1), columns-col)

			slot := Rect{
				X:      box.X + col*(cellW+gap),
				Y:      box.Y + row*(cellH+gap),
				Width:  colSpan*cellW + (colSpan-1)*gap,
				Height: rowSpan*cellH + (rowSpan-1)*gap,
			}
			m := h.Margin
			w.SetBounds(Rect{
				X:      slot.X + m.Left,
				Y:      slot.Y + m.Top,
				Width:  max(slot.Width-m.Horizontal(), 0),
				Height: max(slot.Height-m.Vertical(), 0),
			})
		}
	}
}
