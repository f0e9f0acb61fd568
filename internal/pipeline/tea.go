package pipeline

import tea "github.com/charmbracelet/bubbletea"

// ResultMsg carries a finished fetch back into the bubbletea update loop,
// where it is handed to Publish.
type ResultMsg struct {
	Result
}

// Command waits for h off the UI goroutine. A nil handle yields a nil
// command.
func Command(h *Handle) tea.Cmd {
	if h == nil {
		return nil
	}
	return func() tea.Msg {
		return ResultMsg{Result: h.Wait()}
	}
}
