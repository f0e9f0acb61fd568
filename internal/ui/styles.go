package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/kmacinski/tinydiff/internal/diff"
	"github.com/kmacinski/tinydiff/internal/git"
)

// Styles holds all the lipgloss styles for the application
type Styles struct {
	// Window styles
	WindowFocused   lipgloss.Style
	WindowUnfocused lipgloss.Style
	WindowTitle     lipgloss.Style

	// Diff styles
	DiffAdded   lipgloss.Style
	DiffRemoved lipgloss.Style
	DiffContext lipgloss.Style
	DiffHeader  lipgloss.Style
	DiffEOF     lipgloss.Style
	DiffGutter  lipgloss.Style
	Cursor      lipgloss.Style

	// List styles
	ListItem         lipgloss.Style
	ListItemSelected lipgloss.Style
	ListItemMuted    lipgloss.Style

	// Status indicators
	StatusConflict  lipgloss.Style
	StatusModified  lipgloss.Style
	StatusChanged   lipgloss.Style
	StatusAdded     lipgloss.Style
	StatusRemoved   lipgloss.Style
	StatusMissing   lipgloss.Style
	StatusUntracked lipgloss.Style

	// Status bar
	StatusBar      lipgloss.Style
	StatusBarItem  lipgloss.Style
	StatusBarError lipgloss.Style

	// Modal
	Modal      lipgloss.Style
	ModalTitle lipgloss.Style

	// General
	Muted lipgloss.Style
	Bold  lipgloss.Style
	Error lipgloss.Style
}

// NewStyles creates a new Styles instance with the given colors
func NewStyles(c Colors) Styles {
	return NewStylesWithRenderer(lipgloss.DefaultRenderer(), c)
}

// NewStylesWithRenderer builds styles bound to r, so output can be rendered
// with a color profile other than the terminal's.
func NewStylesWithRenderer(r *lipgloss.Renderer, c Colors) Styles {
	return Styles{
		// Window styles
		WindowFocused: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c.BorderFocused),
		WindowUnfocused: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c.BorderUnfocused),
		WindowTitle: r.NewStyle().
			Bold(true).
			Foreground(c.Header).
			Padding(0, 1),

		// Diff styles
		DiffAdded: r.NewStyle().
			Foreground(c.Added),
		DiffRemoved: r.NewStyle().
			Foreground(c.Removed),
		DiffContext: r.NewStyle().
			Foreground(c.Context),
		DiffHeader: r.NewStyle().
			Foreground(c.Header).
			Bold(true),
		DiffEOF: r.NewStyle().
			Foreground(c.Muted).
			Italic(true),
		DiffGutter: r.NewStyle().
			Foreground(c.Muted),
		Cursor: r.NewStyle().
			Reverse(true),

		// List styles
		ListItem: r.NewStyle().
			Foreground(c.Text),
		ListItemSelected: r.NewStyle().
			Foreground(c.Header).
			Bold(true),
		ListItemMuted: r.NewStyle().
			Foreground(c.Muted),

		// Status indicators
		StatusConflict: r.NewStyle().
			Foreground(c.Conflict).
			Bold(true),
		StatusModified: r.NewStyle().
			Foreground(c.Modified),
		StatusChanged: r.NewStyle().
			Foreground(c.Changed),
		StatusAdded: r.NewStyle().
			Foreground(c.Added),
		StatusRemoved: r.NewStyle().
			Foreground(c.Removed),
		StatusMissing: r.NewStyle().
			Foreground(c.Removed).
			Italic(true),
		StatusUntracked: r.NewStyle().
			Foreground(c.Muted),

		// Status bar
		StatusBar: r.NewStyle().
			Background(c.StatusBar).
			Foreground(c.StatusBarText).
			Padding(0, 1),
		StatusBarItem: r.NewStyle().
			Foreground(c.StatusBarText).
			Padding(0, 1),
		StatusBarError: r.NewStyle().
			Background(c.StatusBar).
			Foreground(c.Error).
			Bold(true),

		// Modal
		Modal: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c.BorderFocused).
			Padding(1, 2),
		ModalTitle: r.NewStyle().
			Bold(true).
			Foreground(c.Header).
			MarginBottom(1),

		// General
		Muted: r.NewStyle().
			Foreground(c.Muted),
		Bold: r.NewStyle().
			Bold(true),
		Error: r.NewStyle().
			Foreground(c.Error).
			Bold(true),
	}
}

// DefaultStyles returns styles with the default color palette
var DefaultStyles = NewStyles(DefaultColors)

// Status returns the indicator style for a file status
func (s Styles) Status(kind git.StatusKind) lipgloss.Style {
	switch kind {
	case git.StatusConflict:
		return s.StatusConflict
	case git.StatusAdded:
		return s.StatusAdded
	case git.StatusChanged:
		return s.StatusChanged
	case git.StatusRemoved:
		return s.StatusRemoved
	case git.StatusMissing:
		return s.StatusMissing
	case git.StatusUntracked:
		return s.StatusUntracked
	default:
		return s.StatusModified
	}
}

// Row returns the style for a diff display row
func (s Styles) Row(kind diff.RowKind) lipgloss.Style {
	switch kind {
	case diff.RowHeader:
		return s.DiffHeader
	case diff.RowAdded:
		return s.DiffAdded
	case diff.RowRemoved:
		return s.DiffRemoved
	case diff.RowEndOfFile:
		return s.DiffEOF
	default:
		return s.DiffContext
	}
}
