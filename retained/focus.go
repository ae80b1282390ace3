package retained

// ============================================================================
// Selection
// ============================================================================

// Selected returns the window's selected widget, or nil.
func (win *Window) Selected() Control { return win.selected }

// SetSelected is the only way the selected slot changes. The previous holder
// and the new one are each asked to repaint and are told about the transfer.
// c must be nil or an effectively visible widget attached to this window;
// otherwise nothing changes and false is returned.
func (win *Window) SetSelected(c Control) bool {
	if c != nil {
		if !win.owns(c) || !c.AsWidget().EffectiveVisibility() {
			return false
		}
		c = c.AsWidget().Self()
	}
	old := win.selected
	if old == c {
		return true
	}
	win.selected = c

	if debugEnabled() {
		logger.Debug("selection changed", "window", win.handle, "from", widgetIDOf(old), "to", widgetIDOf(c))
	}
	if old != nil {
		old.AsWidget().RequestRepaint()
		old.ProcessMessage(&Message{Kind: MsgSelectionLost, Window: win.handle, Related: c}, Point{})
	}
	if c != nil && win.selected == c {
		c.AsWidget().RequestRepaint()
		c.ProcessMessage(&Message{Kind: MsgSelectionGained, Window: win.handle, Related: old}, Point{})
	}
	return true
}

// ClearSelection transitions to the unselected state.
func (win *Window) ClearSelection() { win.SetSelected(nil) }

// selectionFor returns the widget that should take window-level selection
// when target is clicked: the nearest ancestor that keeps selection for its
// parts, or target itself.
func selectionFor(target Control) Control {
	for a := target.AsWidget().parent; a != nil; a = a.AsWidget().parent {
		if k, ok := a.(SelectionKeeper); ok && k.KeepsSelection() {
			return a
		}
	}
	return target
}

func widgetIDOf(c Control) WidgetID {
	if c == nil {
		return 0
	}
	return c.AsWidget().id
}
