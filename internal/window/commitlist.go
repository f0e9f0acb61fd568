package window

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kmacinski/tinydiff/internal/git"
	"github.com/kmacinski/tinydiff/internal/keys"
	"github.com/kmacinski/tinydiff/internal/ui"
)

// CommitList shows the working copy followed by the recent history. The
// first entry stands for the working copy.
type CommitList struct {
	Base
	list
	commits  []git.Commit
	onSelect func(commit string) tea.Cmd
}

// NewCommitList creates a new commit list window
func NewCommitList(styles ui.Styles) *CommitList {
	return &CommitList{
		Base: NewBase(NameCommitList, styles),
	}
}

// SetCommits updates the commit list, keeping the cursor on the same commit
// when it is still listed
func (c *CommitList) SetCommits(commits []git.Commit) {
	selected := c.SelectedCommit()
	c.commits = commits
	c.cursor = 0
	if selected != "" {
		for i, cm := range commits {
			if cm.Hash == selected {
				c.cursor = i + 1
				break
			}
		}
	}
	c.clamp(c.entries())
}

// SetOnSelect sets the callback for when the selection changes. The commit
// is empty for the working copy.
func (c *CommitList) SetOnSelect(fn func(commit string) tea.Cmd) {
	c.onSelect = fn
}

// SelectedCommit returns the hash under the cursor, or "" for the working
// copy
func (c *CommitList) SelectedCommit() string {
	if c.cursor <= 0 || c.cursor > len(c.commits) {
		return ""
	}
	return c.commits[c.cursor-1].Hash
}

// SelectWorkingCopy moves the cursor to the working copy entry
func (c *CommitList) SelectWorkingCopy() tea.Cmd {
	if c.cursor == 0 {
		return nil
	}
	c.cursor = 0
	c.offset = 0
	return c.selectCurrent()
}

// Select moves the cursor to commit without notifying. Unknown commits select
// the working copy.
func (c *CommitList) Select(commit string) {
	c.cursor = 0
	for i, cm := range c.commits {
		if commit != "" && cm.Hash == commit {
			c.cursor = i + 1
			break
		}
	}
	c.clamp(c.entries())
}

func (c *CommitList) entries() int {
	return len(c.commits) + 1
}

// Update handles input
func (c *CommitList) Update(msg tea.Msg) (Window, tea.Cmd) {
	if !c.focused {
		return c, nil
	}

	msgKey, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	prev := c.cursor
	switch {
	case key.Matches(msgKey, keys.DefaultKeyMap.Down):
		c.cursor++
	case key.Matches(msgKey, keys.DefaultKeyMap.Up):
		c.cursor--
	case key.Matches(msgKey, keys.DefaultKeyMap.FastDown):
		c.cursor += 5
	case key.Matches(msgKey, keys.DefaultKeyMap.FastUp):
		c.cursor -= 5
	case key.Matches(msgKey, keys.DefaultKeyMap.GotoTop):
		c.cursor = 0
	case key.Matches(msgKey, keys.DefaultKeyMap.GotoBot):
		c.cursor = c.entries() - 1
	default:
		return c, nil
	}

	c.clamp(c.entries())
	if c.cursor == prev {
		return c, nil
	}
	return c, c.selectCurrent()
}

func (c *CommitList) selectCurrent() tea.Cmd {
	if c.onSelect == nil {
		return nil
	}
	return c.onSelect(c.SelectedCommit())
}

// View renders the commit list
func (c *CommitList) View(width, height int) string {
	c.height = height
	contentWidth := width - 2

	title := "Commits"
	if len(c.commits) > 0 {
		title = fmt.Sprintf("Commits (%d)", len(c.commits))
	}

	var lines []string
	for i := c.offset; i < c.entries() && i < c.offset+height-3; i++ {
		if i == 0 {
			lines = append(lines, c.renderWorkingCopyLine(c.cursor == 0))
			continue
		}
		lines = append(lines, c.renderCommitLine(c.commits[i-1], i == c.cursor, contentWidth))
	}
	if len(c.commits) == 0 && height-3 > 1 {
		lines = append(lines, c.styles.Muted.Render("  No commits"))
	}

	return c.box(c.styles.WindowTitle.Render(title), lines, width, height)
}

func (c *CommitList) renderWorkingCopyLine(selected bool) string {
	style := c.styles.ListItemMuted
	cursor := " "
	if selected {
		style = c.styles.ListItemSelected
		cursor = ">"
	}
	return fmt.Sprintf("%s %s", cursor, style.Render("Working copy"))
}

func (c *CommitList) renderCommitLine(commit git.Commit, selected bool, maxWidth int) string {
	hash := c.styles.Muted.Render(commit.Hash)

	availableWidth := maxWidth - lipgloss.Width(commit.Hash) - 3 // cursor and spaces
	subject := fit(commit.Subject, availableWidth)

	var subjectStyle lipgloss.Style
	if selected {
		subjectStyle = c.styles.ListItemSelected
	} else {
		subjectStyle = c.styles.ListItem
	}

	cursor := " "
	if selected {
		cursor = ">"
	}

	return fmt.Sprintf("%s %s %s", cursor, hash, subjectStyle.Render(subject))
}
