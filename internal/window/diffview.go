package window

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kmacinski/tinydiff/internal/diff"
	"github.com/kmacinski/tinydiff/internal/keys"
	"github.com/kmacinski/tinydiff/internal/ui"
)

const (
	numWidth      = 4
	minSplitWidth = 60
	tabWidth      = 4
)

// DiffView displays one diff document
type DiffView struct {
	Base
	viewport   viewport.Model
	doc        diff.Document
	label      string
	loading    bool
	sideBySide bool
	ready      bool

	// lineMap maps a rendered line to the new-file line number used when
	// opening the editor; 0 when the line has none
	lineMap []int
	cursor  int // cursor position within viewport (0 = first visible line)
}

// NewDiffView creates a new diff view window showing the placeholder
func NewDiffView(styles ui.Styles) *DiffView {
	return &DiffView{
		Base: NewBase(NameDiffView, styles),
		doc:  diff.Placeholder(""),
	}
}

// SetDocument replaces the displayed document. label names the selection in
// the title.
func (d *DiffView) SetDocument(doc diff.Document, label string) {
	d.doc = doc
	d.label = label
	d.loading = false
	d.cursor = 0
	if d.ready {
		d.viewport.SetContent(d.renderContent())
		d.viewport.GotoTop()
	}
}

// Document returns the displayed document
func (d *DiffView) Document() diff.Document {
	return d.doc
}

// SetLoading marks the view as waiting for a fetch
func (d *DiffView) SetLoading(loading bool) {
	d.loading = loading
}

// Loading reports whether the view is waiting for a fetch
func (d *DiffView) Loading() bool {
	return d.loading
}

// ToggleSideBySide switches between unified and split rendering
func (d *DiffView) ToggleSideBySide() {
	d.sideBySide = !d.sideBySide
	if d.ready {
		d.viewport.SetContent(d.renderContent())
	}
}

// SideBySide reports whether split rendering is active
func (d *DiffView) SideBySide() bool {
	return d.sideBySide
}

// SelectedLine returns the new-file line number at the cursor. Rows that
// only exist in the old file resolve to the nearest new line above them,
// falling back to 1.
func (d *DiffView) SelectedLine() int {
	if len(d.lineMap) == 0 {
		return 1
	}
	idx := min(max(d.viewport.YOffset+d.cursor, 0), len(d.lineMap)-1)
	for i := idx; i >= 0; i-- {
		if d.lineMap[i] > 0 {
			return d.lineMap[i]
		}
	}
	return 1
}

// Update handles input
func (d *DiffView) Update(msg tea.Msg) (Window, tea.Cmd) {
	if !d.focused {
		return d, nil
	}

	var cmd tea.Cmd
	totalLines := max(len(d.lineMap), 1)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.DefaultKeyMap.Down):
			d.moveCursor(1, totalLines)
		case key.Matches(msg, keys.DefaultKeyMap.Up):
			d.moveCursor(-1, totalLines)
		case key.Matches(msg, keys.DefaultKeyMap.FastDown):
			d.moveCursor(5, totalLines)
		case key.Matches(msg, keys.DefaultKeyMap.FastUp):
			d.moveCursor(-5, totalLines)
		case key.Matches(msg, keys.DefaultKeyMap.HalfPgDn):
			d.moveCursor(d.viewport.Height/2, totalLines)
		case key.Matches(msg, keys.DefaultKeyMap.HalfPgUp):
			d.moveCursor(-d.viewport.Height/2, totalLines)
		case key.Matches(msg, keys.DefaultKeyMap.GotoTop):
			d.viewport.GotoTop()
			d.cursor = 0
		case key.Matches(msg, keys.DefaultKeyMap.GotoBot):
			d.viewport.GotoBottom()
			d.cursor = max(min(d.viewport.Height-1, totalLines-1-d.viewport.YOffset), 0)
		default:
			d.viewport, cmd = d.viewport.Update(msg)
		}
	default:
		d.viewport, cmd = d.viewport.Update(msg)
	}

	return d, cmd
}

func (d *DiffView) moveCursor(delta int, totalLines int) {
	absLine := min(max(d.viewport.YOffset+d.cursor+delta, 0), totalLines-1)

	switch {
	case absLine < d.viewport.YOffset:
		d.viewport.SetYOffset(absLine)
		d.cursor = 0
	case absLine >= d.viewport.YOffset+d.viewport.Height:
		d.viewport.SetYOffset(absLine - d.viewport.Height + 1)
		d.cursor = d.viewport.Height - 1
	default:
		d.cursor = absLine - d.viewport.YOffset
	}
}

// View renders the diff view
func (d *DiffView) View(width, height int) string {
	contentWidth := width - 2
	contentHeight := height - 2

	if contentWidth < 1 || contentHeight < 1 {
		return ""
	}

	if !d.ready {
		d.viewport = viewport.New(contentWidth, contentHeight-1) // -1 for title
		d.viewport.SetContent(d.renderContent())
		d.ready = true
	} else if d.viewport.Width != contentWidth || d.viewport.Height != contentHeight-1 {
		d.viewport.Width = contentWidth
		d.viewport.Height = contentHeight - 1
		d.viewport.SetContent(d.renderContent())
	}

	viewportContent := d.viewport.View()
	if d.focused && len(d.lineMap) > 0 {
		viewportLines := strings.Split(viewportContent, "\n")
		if d.cursor >= 0 && d.cursor < len(viewportLines) {
			viewportLines[d.cursor] = d.styles.Cursor.Render(viewportLines[d.cursor])
		}
		viewportContent = strings.Join(viewportLines, "\n")
	}

	return d.frame().
		Width(contentWidth).
		Height(contentHeight).
		Render(d.titleLine(contentWidth) + "\n" + viewportContent)
}

func (d *DiffView) titleLine(contentWidth int) string {
	title := "Diff"
	if d.label != "" {
		title = d.label
	}

	var notes []string
	if d.loading {
		notes = append(notes, "loading…")
	}
	if d.doc.Malformed > 0 {
		notes = append(notes, fmt.Sprintf("%d malformed hunk(s)", d.doc.Malformed))
	}
	if !d.doc.Empty {
		s := d.doc.Stats()
		notes = append(notes, fmt.Sprintf("+%d -%d", s.Added, s.Removed))
	}
	notes = append(notes, d.formatScrollPos())
	right := strings.Join(notes, " ")

	title = fit(title, contentWidth-lipgloss.Width(right)-6)
	padding := max(0, contentWidth-lipgloss.Width(title)-lipgloss.Width(right)-4)
	return fmt.Sprintf("%s %s %s",
		d.styles.WindowTitle.Render(title),
		d.styles.Muted.Render(strings.Repeat("─", padding)),
		d.styles.Muted.Render(right),
	)
}

func (d *DiffView) formatScrollPos() string {
	p := d.viewport.ScrollPercent() * 100
	if p <= 0 {
		return "top"
	}
	if p >= 100 {
		return "bot"
	}
	return fmt.Sprintf("%d%%", int(p))
}

func (d *DiffView) renderContent() string {
	var lines []string
	if d.sideBySide && d.viewport.Width >= minSplitWidth && !d.doc.Empty {
		lines = d.renderSideBySide()
	} else {
		lines = d.renderUnified()
	}
	if d.doc.ImagePath != "" {
		lines = append(lines, "", d.styles.Muted.Render("Image preview: "+d.doc.ImagePath))
		d.lineMap = append(d.lineMap, 0, 0)
	}
	return strings.Join(lines, "\n")
}

// renderUnified draws one line per row: old and new line numbers, then the
// marked content
func (d *DiffView) renderUnified() []string {
	lines := make([]string, 0, len(d.doc.Rows))
	d.lineMap = make([]int, 0, len(d.doc.Rows))
	textWidth := d.viewport.Width - 2*numWidth - 3 // two gutters and " │"

	for _, row := range d.doc.Rows {
		gutter := fmt.Sprintf("%s %s │", formatNum(row.OldLine), formatNum(row.NewLine))
		text := truncateOrPad(markedText(row), textWidth)
		lines = append(lines, d.styles.DiffGutter.Render(gutter)+d.styles.Row(row.Kind).Render(text))
		d.lineMap = append(d.lineMap, lineNum(row))
	}
	return lines
}

// sidePair is one line of the split view
type sidePair struct {
	left, right *diff.DisplayRow
	full        *diff.DisplayRow // header and end-of-file rows span both panes
}

// pairRows lines up removal runs with the addition runs that follow them
func pairRows(rows []diff.DisplayRow) []sidePair {
	var pairs []sidePair
	for i := 0; i < len(rows); {
		row := &rows[i]
		switch row.Kind {
		case diff.RowHeader, diff.RowEndOfFile:
			pairs = append(pairs, sidePair{full: row})
			i++
			continue
		case diff.RowContext:
			pairs = append(pairs, sidePair{left: row, right: row})
			i++
			continue
		}

		var removals, additions []*diff.DisplayRow
		for i < len(rows) && rows[i].Kind == diff.RowRemoved {
			removals = append(removals, &rows[i])
			i++
		}
		for i < len(rows) && rows[i].Kind == diff.RowAdded {
			additions = append(additions, &rows[i])
			i++
		}
		for j := 0; j < max(len(removals), len(additions)); j++ {
			var p sidePair
			if j < len(removals) {
				p.left = removals[j]
			}
			if j < len(additions) {
				p.right = additions[j]
			}
			pairs = append(pairs, p)
		}
	}
	return pairs
}

func (d *DiffView) renderSideBySide() []string {
	paneWidth := (d.viewport.Width - 3) / 2 // " │ " separator
	pairs := pairRows(d.doc.Rows)

	lines := make([]string, 0, len(pairs))
	d.lineMap = make([]int, 0, len(pairs))
	for _, p := range pairs {
		if p.full != nil {
			lines = append(lines, d.styles.Row(p.full.Kind).Render(truncateOrPad(p.full.Content, d.viewport.Width)))
			d.lineMap = append(d.lineMap, 0)
			continue
		}

		left := d.formatSideLine(p.left, false, paneWidth)
		right := d.formatSideLine(p.right, true, paneWidth)
		lines = append(lines, left+d.styles.Muted.Render(" │ ")+right)

		n := 0
		if p.right != nil && p.right.NewLine.Valid {
			n = p.right.NewLine.N
		}
		d.lineMap = append(d.lineMap, n)
	}
	return lines
}

func (d *DiffView) formatSideLine(row *diff.DisplayRow, newSide bool, paneWidth int) string {
	textWidth := paneWidth - numWidth - 1
	if row == nil {
		return d.styles.Muted.Render(strings.Repeat(" ", paneWidth))
	}

	num := row.OldLine
	if newSide {
		num = row.NewLine
	}
	text := row.Content
	if row.Kind == diff.RowContext {
		text = strings.TrimPrefix(text, " ")
	}
	return d.styles.DiffGutter.Render(formatNum(num)+" ") + d.styles.Row(row.Kind).Render(truncateOrPad(text, textWidth))
}

func formatNum(n diff.LineNumber) string {
	if !n.Valid {
		return strings.Repeat(" ", numWidth)
	}
	return fmt.Sprintf("%*d", numWidth, n.N)
}

// markedText restores the +/- marker. Context content keeps its leading
// space.
func markedText(row diff.DisplayRow) string {
	switch row.Kind {
	case diff.RowAdded:
		return "+" + row.Content
	case diff.RowRemoved:
		return "-" + row.Content
	default:
		return row.Content
	}
}

// lineNum is 0 for rows absent from the new file so SelectedLine walks back
// to the row above
func lineNum(row diff.DisplayRow) int {
	if row.NewLine.Valid {
		return row.NewLine.N
	}
	return 0
}

// truncateOrPad fits s into width cells, expanding tabs
func truncateOrPad(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
	s = fit(s, width)
	if w := lipgloss.Width(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}
