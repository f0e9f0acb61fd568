package window

import tea "github.com/charmbracelet/bubbletea"

// Window names, used for focus and layout slot assignment
const (
	NameRepoList   = "repolist"
	NameFileList   = "filelist"
	NameCommitList = "commitlist"
	NameDiffView   = "diffview"
	NameHelp       = "help"
)

// Window is a pane placed by the layout manager
type Window interface {
	// Update handles input when focused
	Update(msg tea.Msg) (Window, tea.Cmd)

	// View renders the window into width x height cells
	View(width, height int) string

	Focused() bool
	SetFocus(bool)
	Name() string
}
