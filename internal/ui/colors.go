package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/kmacinski/tinydiff/internal/config"
)

// Colors defines the color palette for the application
type Colors struct {
	Added           lipgloss.Color
	Removed         lipgloss.Color
	Context         lipgloss.Color
	Header          lipgloss.Color
	BorderFocused   lipgloss.Color
	BorderUnfocused lipgloss.Color
	StatusBar       lipgloss.Color
	StatusBarText   lipgloss.Color
	Muted           lipgloss.Color
	Text            lipgloss.Color
	Modified        lipgloss.Color
	Changed         lipgloss.Color
	Conflict        lipgloss.Color
	Error           lipgloss.Color
}

// DefaultColors returns the default color palette
var DefaultColors = Colors{
	Added:           lipgloss.Color("#a6e3a1"),
	Removed:         lipgloss.Color("#f38ba8"),
	Context:         lipgloss.Color("#cdd6f4"),
	Header:          lipgloss.Color("#89b4fa"),
	BorderFocused:   lipgloss.Color("#89b4fa"),
	BorderUnfocused: lipgloss.Color("#45475a"),
	StatusBar:       lipgloss.Color("#313244"),
	StatusBarText:   lipgloss.Color("#cdd6f4"),
	Muted:           lipgloss.Color("#6c7086"),
	Text:            lipgloss.Color("#cdd6f4"),
	Modified:        lipgloss.Color("#fab387"),
	Changed:         lipgloss.Color("#cba6f7"),
	Conflict:        lipgloss.Color("#f9e2af"),
	Error:           lipgloss.Color("#f38ba8"),
}

// ColorsFromConfig overlays the configured colors on the default palette.
// Empty entries keep the default.
func ColorsFromConfig(c config.ColorConfig) Colors {
	colors := DefaultColors
	set := func(dst *lipgloss.Color, v string) {
		if v != "" {
			*dst = lipgloss.Color(v)
		}
	}
	set(&colors.Added, c.Added)
	set(&colors.Removed, c.Removed)
	set(&colors.Context, c.Context)
	set(&colors.Header, c.Header)
	set(&colors.BorderFocused, c.BorderFocused)
	set(&colors.BorderUnfocused, c.BorderUnfocused)
	set(&colors.StatusBar, c.StatusBar)
	return colors
}
