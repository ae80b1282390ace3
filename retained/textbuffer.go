package retained

import (
	"strings"
	"time"
	"unicode"
)

// DefaultBlinkInterval is the caret blink half-period.
const DefaultBlinkInterval = 530 * time.Millisecond

// TextBuffer is a single-line edit buffer with a caret, a selection anchor
// and blink state. It holds runes so the caret moves by character.
type TextBuffer struct {
	content []rune

	// Caret position (0 = before the first rune). anchor == cursor means
	// no selection.
	cursor int
	anchor int

	maxLength int // 0 = no limit

	clock         Clock
	caretVisible  bool
	lastToggle    time.Time
	blinkInterval time.Duration
}

// NewTextBuffer creates an empty buffer whose blink timing uses clock.
func NewTextBuffer(clock Clock) *TextBuffer {
	if clock == nil {
		clock = SystemClock()
	}
	return &TextBuffer{
		content:       make([]rune, 0, 32),
		clock:         clock,
		caretVisible:  true,
		lastToggle:    clock.Now(),
		blinkInterval: DefaultBlinkInterval,
	}
}

// Text returns the buffer content.
func (b *TextBuffer) Text() string { return string(b.content) }

// SetText replaces the content and clamps the caret.
func (b *TextBuffer) SetText(text string) {
	b.content = []rune(stripNewlines(text))
	if b.maxLength > 0 && len(b.content) > b.maxLength {
		b.content = b.content[:b.maxLength]
	}
	b.cursor = b.clamp(b.cursor)
	b.anchor = b.clamp(b.anchor)
}

// Len returns the number of runes.
func (b *TextBuffer) Len() int { return len(b.content) }

// Cursor returns the caret position.
func (b *TextBuffer) Cursor() int { return b.cursor }

// SetCursor moves the caret and clears the selection.
func (b *TextBuffer) SetCursor(pos int) {
	b.cursor = b.clamp(pos)
	b.anchor = b.cursor
	b.ResetBlink()
}

// SetMaxLength limits the content length; 0 removes the limit.
func (b *TextBuffer) SetMaxLength(n int) { b.maxLength = max(n, 0) }

// Selection returns the ordered selection range.
func (b *TextBuffer) Selection() (start, end int) {
	if b.anchor < b.cursor {
		return b.anchor, b.cursor
	}
	return b.cursor, b.anchor
}

// HasSelection reports whether any text is selected.
func (b *TextBuffer) HasSelection() bool { return b.anchor != b.cursor }

// SelectAll selects the whole content.
func (b *TextBuffer) SelectAll() {
	b.anchor = 0
	b.cursor = len(b.content)
}

// Insert replaces the selection (if any) with text at the caret. Returns
// whether the content changed.
func (b *TextBuffer) Insert(text string) bool {
	runes := []rune(stripNewlines(text))
	start, end := b.Selection()
	if b.maxLength > 0 {
		available := max(b.maxLength-(len(b.content)-(end-start)), 0)
		if len(runes) > available {
			runes = runes[:available]
		}
	}
	if len(runes) == 0 && start == end {
		return false
	}

	next := make([]rune, 0, len(b.content)-(end-start)+len(runes))
	next = append(next, b.content[:start]...)
	next = append(next, runes...)
	next = append(next, b.content[end:]...)
	b.content = next
	b.cursor = start + len(runes)
	b.anchor = b.cursor
	b.ResetBlink()
	return true
}

// Delete removes the selection, or count runes forward (count > 0) or
// backward (count < 0) from the caret. Returns whether the content changed.
func (b *TextBuffer) Delete(count int) bool {
	start, end := b.Selection()
	if start == end {
		switch {
		case count > 0:
			end = min(b.cursor+count, len(b.content))
		case count < 0:
			start = max(b.cursor+count, 0)
		}
	}
	if start == end {
		return false
	}
	b.content = append(b.content[:start], b.content[end:]...)
	b.cursor = start
	b.anchor = start
	b.ResetBlink()
	return true
}

// MoveCursor moves the caret by delta runes. Without extend a selection
// collapses to the side of travel.
func (b *TextBuffer) MoveCursor(delta int, extend bool) {
	if !extend && b.HasSelection() {
		start, end := b.Selection()
		if delta < 0 {
			b.cursor = start
		} else {
			b.cursor = end
		}
		b.anchor = b.cursor
		b.ResetBlink()
		return
	}
	b.cursor = b.clamp(b.cursor + delta)
	if !extend {
		b.anchor = b.cursor
	}
	b.ResetBlink()
}

// MoveWord moves the caret to the next or previous word boundary.
func (b *TextBuffer) MoveWord(forward, extend bool) {
	if forward {
		b.cursor = b.wordEnd(b.cursor)
	} else {
		b.cursor = b.wordStart(b.cursor)
	}
	if !extend {
		b.anchor = b.cursor
	}
	b.ResetBlink()
}

// MoveToStart moves the caret to the beginning.
func (b *TextBuffer) MoveToStart(extend bool) {
	b.cursor = 0
	if !extend {
		b.anchor = 0
	}
	b.ResetBlink()
}

// MoveToEnd moves the caret to the end.
func (b *TextBuffer) MoveToEnd(extend bool) {
	b.cursor = len(b.content)
	if !extend {
		b.anchor = b.cursor
	}
	b.ResetBlink()
}

// ============================================================================
// Caret Blink
// ============================================================================

// CaretVisible reports the current blink phase.
func (b *TextBuffer) CaretVisible() bool { return b.caretVisible }

// UpdateBlink toggles the caret when the interval elapsed. Returns true when
// the phase changed.
func (b *TextBuffer) UpdateBlink() bool {
	now := b.clock.Now()
	if now.Sub(b.lastToggle) < b.blinkInterval {
		return false
	}
	b.caretVisible = !b.caretVisible
	b.lastToggle = now
	return true
}

// ResetBlink shows the caret and restarts the blink timer.
func (b *TextBuffer) ResetBlink() {
	b.caretVisible = true
	b.lastToggle = b.clock.Now()
}

// ============================================================================
// Helpers
// ============================================================================

func (b *TextBuffer) clamp(pos int) int {
	return min(max(pos, 0), len(b.content))
}

func (b *TextBuffer) wordStart(pos int) int {
	for pos > 0 && !isWordRune(b.content[pos-1]) {
		pos--
	}
	for pos > 0 && isWordRune(b.content[pos-1]) {
		pos--
	}
	return pos
}

func (b *TextBuffer) wordEnd(pos int) int {
	for pos < len(b.content) && !isWordRune(b.content[pos]) {
		pos++
	}
	for pos < len(b.content) && isWordRune(b.content[pos]) {
		pos++
	}
	return pos
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func stripNewlines(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	return strings.NewReplacer("\r", "", "\n", "").Replace(s)
}
