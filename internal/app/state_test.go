package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kmacinski/tinydiff/internal/git"
	"github.com/kmacinski/tinydiff/internal/pipeline"
	"github.com/kmacinski/tinydiff/internal/window"
)

func TestState_Selection(t *testing.T) {
	t.Parallel()

	s := NewState([]string{"/r"})
	_, ok := s.Selection()
	assert.False(t, ok)

	s.SelectedFile = "a.go"
	sel, ok := s.Selection()
	assert.True(t, ok)
	assert.Equal(t, pipeline.Selection{Repository: "/r", Path: "a.go"}, sel)

	s.SetFiles([]git.FileStatus{{Path: "a.go", Status: git.StatusModified}})
	assert.Equal(t, 1, s.Counts.Changed)

	s.SelectCommit("abc")
	assert.Empty(t, s.SelectedFile)
	assert.Zero(t, s.Counts.Total())
}

func TestState_CycleWindow(t *testing.T) {
	t.Parallel()

	s := NewState(nil)
	order := []string{window.NameFileList, window.NameCommitList, window.NameDiffView}

	s.CycleWindow(order, false)
	assert.Equal(t, window.NameCommitList, s.FocusedWindow)
	s.CycleWindow(order, true)
	s.CycleWindow(order, true)
	assert.Equal(t, window.NameDiffView, s.FocusedWindow)

	s.CycleWindow(nil, false)
	assert.Equal(t, window.NameDiffView, s.FocusedWindow)
}

func TestState_Modal(t *testing.T) {
	t.Parallel()

	s := NewState(nil)
	s.ToggleModal(window.NameHelp)
	assert.Equal(t, window.NameHelp, s.ActiveModal)
	s.ToggleModal(window.NameHelp)
	assert.Empty(t, s.ActiveModal)
	s.ToggleModal(window.NameHelp)
	s.CloseModal()
	assert.Empty(t, s.ActiveModal)
}
