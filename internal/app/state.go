package app

import (
	"github.com/kmacinski/tinydiff/internal/git"
	"github.com/kmacinski/tinydiff/internal/pipeline"
	"github.com/kmacinski/tinydiff/internal/window"
)

// State holds the application state. It is owned by the App and only touched
// from Update.
type State struct {
	// Selection
	Repos          []string
	SelectedRepo   string
	SelectedCommit string // empty for the working copy
	SelectedFile   string

	// Data
	Files   []git.FileStatus
	Counts  git.Counts
	Commits []git.Commit
	Branch  string

	// UI
	FocusedWindow string
	ActiveModal   string // empty if no modal

	// Errors
	Error string
}

// NewState creates a new state with the first repository selected
func NewState(repos []string) *State {
	s := &State{
		Repos:         repos,
		FocusedWindow: window.NameFileList,
	}
	if len(repos) > 0 {
		s.SelectedRepo = repos[0]
	}
	return s
}

// SelectRepo switches repositories and resets everything loaded for the
// previous one
func (s *State) SelectRepo(repo string) {
	s.SelectedRepo = repo
	s.SelectedCommit = ""
	s.SelectedFile = ""
	s.Files = nil
	s.Counts = git.Counts{}
	s.Commits = nil
	s.Branch = ""
}

// SelectCommit switches between the working copy and a commit
func (s *State) SelectCommit(commit string) {
	s.SelectedCommit = commit
	s.SelectedFile = ""
	s.Files = nil
	s.Counts = git.Counts{}
}

// SetFiles updates the file list
func (s *State) SetFiles(files []git.FileStatus) {
	s.Files = files
	s.Counts = git.CountByKind(files)
}

// Selection returns the pipeline selection for the selected file, and false
// when no file is selected
func (s *State) Selection() (pipeline.Selection, bool) {
	if s.SelectedRepo == "" || s.SelectedFile == "" {
		return pipeline.Selection{}, false
	}
	return pipeline.Selection{
		Repository: s.SelectedRepo,
		Path:       s.SelectedFile,
		Commit:     s.SelectedCommit,
	}, true
}

// ToggleModal toggles a modal on/off
func (s *State) ToggleModal(name string) {
	if s.ActiveModal == name {
		s.ActiveModal = ""
	} else {
		s.ActiveModal = name
	}
}

// CloseModal closes any open modal
func (s *State) CloseModal() {
	s.ActiveModal = ""
}

// CycleWindow cycles focus through windows
func (s *State) CycleWindow(windows []string, reverse bool) {
	if len(windows) == 0 {
		return
	}
	currentIdx := 0
	for i, w := range windows {
		if w == s.FocusedWindow {
			currentIdx = i
			break
		}
	}
	if reverse {
		currentIdx = (currentIdx - 1 + len(windows)) % len(windows)
	} else {
		currentIdx = (currentIdx + 1) % len(windows)
	}
	s.FocusedWindow = windows[currentIdx]
}
