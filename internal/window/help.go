package window

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kmacinski/tinydiff/internal/keys"
	"github.com/kmacinski/tinydiff/internal/ui"
)

// Help displays keybinding help
type Help struct {
	Base
}

// NewHelp creates a new help window
func NewHelp(styles ui.Styles) *Help {
	return &Help{
		Base: NewBase(NameHelp, styles),
	}
}

// Update does nothing; the app closes the modal
func (h *Help) Update(tea.Msg) (Window, tea.Cmd) {
	return h, nil
}

// View renders the help content
func (h *Help) View(width, height int) string {
	contentWidth, contentHeight := width-4, height-4

	if contentWidth < 1 || contentHeight < 1 {
		return ""
	}

	lines := []string{h.styles.ModalTitle.Render("Keybindings")}

	keyStyle := h.styles.Bold.Width(10)
	for _, g := range keys.HelpGroups() {
		lines = append(lines, "", h.styles.Muted.Render(g.Title))
		for _, b := range g.Bindings {
			help := b.Help()
			lines = append(lines, "  "+keyStyle.Render(help.Key)+" "+h.styles.ListItem.Render(help.Desc))
		}
	}

	lines = append(lines, "", h.styles.Muted.Render("Press ? or Esc to close"))

	return h.styles.Modal.
		Width(contentWidth).
		MaxHeight(contentHeight).
		Render(strings.Join(lines, "\n"))
}
