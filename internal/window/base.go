package window

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/kmacinski/tinydiff/internal/ui"
)

// Base provides common functionality for windows
type Base struct {
	name    string
	focused bool
	styles  ui.Styles
}

// NewBase creates a new base window
func NewBase(name string, styles ui.Styles) Base {
	return Base{
		name:   name,
		styles: styles,
	}
}

// Name returns the window name
func (b *Base) Name() string {
	return b.name
}

// Focused returns whether the window is focused
func (b *Base) Focused() bool {
	return b.focused
}

// SetFocus sets the focus state
func (b *Base) SetFocus(focused bool) {
	b.focused = focused
}

// Styles returns the window styles
func (b *Base) Styles() ui.Styles {
	return b.styles
}

func (b *Base) frame() lipgloss.Style {
	if b.focused {
		return b.styles.WindowFocused
	}
	return b.styles.WindowUnfocused
}

// list is the cursor and scroll state shared by the list windows
type list struct {
	cursor int
	offset int
	height int
}

func (l *list) clamp(n int) {
	if l.cursor >= n {
		l.cursor = max(0, n-1)
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
	l.ensureVisible()
}

func (l *list) ensureVisible() {
	visibleHeight := l.height - 3 // border and title
	if visibleHeight < 1 {
		visibleHeight = 1
	}

	if l.cursor < l.offset {
		l.offset = l.cursor
	} else if l.cursor >= l.offset+visibleHeight {
		l.offset = l.cursor - visibleHeight + 1
	}
}

// box renders title and body lines inside the window frame, padding to the
// full height
func (b *Base) box(title string, body []string, width, height int) string {
	contentWidth := width - 2
	contentHeight := height - 2
	if contentWidth < 1 || contentHeight < 1 {
		return ""
	}

	lines := append([]string{title}, body...)
	if len(lines) > contentHeight {
		lines = lines[:contentHeight]
	}
	for len(lines) < contentHeight {
		lines = append(lines, "")
	}

	return b.frame().
		Width(contentWidth).
		Height(contentHeight).
		Render(strings.Join(lines, "\n"))
}

// fit shortens s to width cells, marking the cut with an ellipsis
func fit(s string, width int) string {
	if width < 1 {
		width = 1
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	return truncate.StringWithTail(s, uint(width), "…")
}
