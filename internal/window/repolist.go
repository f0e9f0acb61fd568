package window

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kmacinski/tinydiff/internal/keys"
	"github.com/kmacinski/tinydiff/internal/ui"
)

// Repo is one entry of the repository list
type Repo struct {
	Root    string
	Branch  string
	Changes int
	Invalid bool // not a git working copy
}

// RepoList displays the repositories given on the command line
type RepoList struct {
	Base
	list
	repos    []Repo
	onSelect func(root string) tea.Cmd
}

// NewRepoList creates a new repository list window
func NewRepoList(styles ui.Styles) *RepoList {
	return &RepoList{
		Base: NewBase(NameRepoList, styles),
	}
}

// SetRepos replaces the list
func (r *RepoList) SetRepos(repos []Repo) {
	r.repos = repos
	r.clamp(len(repos))
}

// UpdateRepo replaces the entry with the same root
func (r *RepoList) UpdateRepo(repo Repo) {
	for i := range r.repos {
		if r.repos[i].Root == repo.Root {
			r.repos[i] = repo
			return
		}
	}
}

// SetOnSelect sets the callback for when a repository is selected
func (r *RepoList) SetOnSelect(fn func(root string) tea.Cmd) {
	r.onSelect = fn
}

// SelectedRoot returns the root of the repository under the cursor
func (r *RepoList) SelectedRoot() string {
	if r.cursor < 0 || r.cursor >= len(r.repos) {
		return ""
	}
	return r.repos[r.cursor].Root
}

// Update handles input
func (r *RepoList) Update(msg tea.Msg) (Window, tea.Cmd) {
	if !r.focused {
		return r, nil
	}

	msgKey, ok := msg.(tea.KeyMsg)
	if !ok {
		return r, nil
	}

	prev := r.cursor
	switch {
	case key.Matches(msgKey, keys.DefaultKeyMap.Down):
		r.cursor++
	case key.Matches(msgKey, keys.DefaultKeyMap.Up):
		r.cursor--
	case key.Matches(msgKey, keys.DefaultKeyMap.GotoTop):
		r.cursor = 0
	case key.Matches(msgKey, keys.DefaultKeyMap.GotoBot):
		r.cursor = len(r.repos) - 1
	default:
		return r, nil
	}

	r.clamp(len(r.repos))
	if r.cursor == prev || r.onSelect == nil {
		return r, nil
	}
	return r, r.onSelect(r.SelectedRoot())
}

// View renders the repository list
func (r *RepoList) View(width, height int) string {
	r.height = height
	contentWidth := width - 2

	var lines []string
	for i := r.offset; i < len(r.repos) && i < r.offset+height-3; i++ {
		lines = append(lines, r.renderRepoLine(r.repos[i], i == r.cursor, contentWidth))
	}

	title := fmt.Sprintf("Repositories (%d)", len(r.repos))
	return r.box(r.styles.WindowTitle.Render(title), lines, width, height)
}

func (r *RepoList) renderRepoLine(repo Repo, selected bool, maxWidth int) string {
	cursor := " "
	nameStyle := r.styles.ListItem
	if selected {
		cursor = ">"
		nameStyle = r.styles.ListItemSelected
	}

	var suffix string
	switch {
	case repo.Invalid:
		suffix = r.styles.Error.Render("not a repository")
	case repo.Changes > 0:
		suffix = r.styles.Muted.Render(fmt.Sprintf("%s +%d", repo.Branch, repo.Changes))
	default:
		suffix = r.styles.Muted.Render(repo.Branch)
	}

	name := filepath.Base(repo.Root)
	name = fit(name, maxWidth-2)
	return fmt.Sprintf("%s %s %s", cursor, nameStyle.Render(name), suffix)
}
