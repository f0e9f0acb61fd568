package window

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kmacinski/tinydiff/internal/git"
	"github.com/kmacinski/tinydiff/internal/keys"
	"github.com/kmacinski/tinydiff/internal/ui"
)

// dirNode is a directory of the file tree
type dirNode struct {
	dirs  map[string]*dirNode
	files []git.FileStatus
}

func newDirNode() *dirNode {
	return &dirNode{dirs: make(map[string]*dirNode)}
}

// flatEntry is one line of the tree; directories have no path
type flatEntry struct {
	display string
	path    string
	isDir   bool
	depth   int
	status  git.StatusKind
}

// FileList displays the changed files of the selected working copy or commit
type FileList struct {
	Base
	list
	files       []git.FileStatus
	counts      git.Counts
	flatEntries []flatEntry
	onSelect    func(path string) tea.Cmd
}

// NewFileList creates a new file list window
func NewFileList(styles ui.Styles) *FileList {
	return &FileList{
		Base: NewBase(NameFileList, styles),
	}
}

// SetFiles replaces the file list. The cursor stays on the previously
// selected path when it is still listed.
func (f *FileList) SetFiles(files []git.FileStatus) {
	selected := f.SelectedPath()

	f.files = files
	f.counts = git.CountByKind(files)
	f.flatEntries = buildTree(files)

	f.cursor = 0
	for i, e := range f.flatEntries {
		if !e.isDir && e.path == selected && selected != "" {
			f.cursor = i
			break
		}
	}
	f.skipToFile(1)
	f.clamp(len(f.flatEntries))
}

// Files returns the listed files
func (f *FileList) Files() []git.FileStatus {
	return f.files
}

// Counts returns the number of listed files per status
func (f *FileList) Counts() git.Counts {
	return f.counts
}

func buildTree(files []git.FileStatus) []flatEntry {
	if len(files) == 0 {
		return nil
	}

	root := newDirNode()
	for _, file := range files {
		root.insert(file)
	}
	return root.flatten(0, nil)
}

func (d *dirNode) insert(file git.FileStatus) {
	parts := strings.Split(file.Path, "/")
	dir := d
	for _, part := range parts[:len(parts)-1] {
		sub, ok := dir.dirs[part]
		if !ok {
			sub = newDirNode()
			dir.dirs[part] = sub
		}
		dir = sub
	}
	dir.files = append(dir.files, file)
}

// flatten lists subdirectories before files, each sorted by name. A directory
// that only holds one other directory is shown joined with it, as in
// "internal/app".
func (d *dirNode) flatten(depth int, entries []flatEntry) []flatEntry {
	names := make([]string, 0, len(d.dirs))
	for name := range d.dirs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		sub, display := d.dirs[name], name
		for len(sub.files) == 0 && len(sub.dirs) == 1 {
			for child, next := range sub.dirs {
				display += "/" + child
				sub = next
			}
		}
		entries = append(entries, flatEntry{display: display, isDir: true, depth: depth})
		entries = sub.flatten(depth+1, entries)
	}

	files := append([]git.FileStatus(nil), d.files...)
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	for _, file := range files {
		entries = append(entries, flatEntry{
			display: path.Base(file.Path),
			path:    file.Path,
			depth:   depth,
			status:  file.Status,
		})
	}
	return entries
}

// skipToFile moves the cursor off directory entries in the given direction,
// turning around at either end
func (f *FileList) skipToFile(direction int) {
	for f.cursor >= 0 && f.cursor < len(f.flatEntries) && f.flatEntries[f.cursor].isDir {
		f.cursor += direction
	}
	if f.cursor < 0 {
		f.cursor = 0
		for f.cursor < len(f.flatEntries) && f.flatEntries[f.cursor].isDir {
			f.cursor++
		}
	}
	if f.cursor >= len(f.flatEntries) {
		f.cursor = len(f.flatEntries) - 1
		for f.cursor >= 0 && f.flatEntries[f.cursor].isDir {
			f.cursor--
		}
	}
}

// SetOnSelect sets the callback for when a file is selected
func (f *FileList) SetOnSelect(fn func(path string) tea.Cmd) {
	f.onSelect = fn
}

// SelectedPath returns the path of the currently selected file, or "" when
// the list is empty
func (f *FileList) SelectedPath() string {
	if f.cursor < 0 || f.cursor >= len(f.flatEntries) {
		return ""
	}
	return f.flatEntries[f.cursor].path
}

// Update handles input
func (f *FileList) Update(msg tea.Msg) (Window, tea.Cmd) {
	if !f.focused {
		return f, nil
	}

	msgKey, ok := msg.(tea.KeyMsg)
	if !ok {
		return f, nil
	}

	prev := f.cursor
	switch {
	case key.Matches(msgKey, keys.DefaultKeyMap.Down):
		f.move(1)
	case key.Matches(msgKey, keys.DefaultKeyMap.Up):
		f.move(-1)
	case key.Matches(msgKey, keys.DefaultKeyMap.FastDown):
		f.move(5)
	case key.Matches(msgKey, keys.DefaultKeyMap.FastUp):
		f.move(-5)
	case key.Matches(msgKey, keys.DefaultKeyMap.GotoTop):
		f.cursor = 0
		f.skipToFile(1)
		f.offset = 0
	case key.Matches(msgKey, keys.DefaultKeyMap.GotoBot):
		f.cursor = max(0, len(f.flatEntries)-1)
		f.skipToFile(-1)
	case key.Matches(msgKey, keys.DefaultKeyMap.Enter):
		return f, f.selectCurrent()
	default:
		return f, nil
	}

	f.ensureVisible()
	if f.cursor == prev {
		return f, nil
	}
	return f, f.selectCurrent()
}

func (f *FileList) move(delta int) {
	if len(f.flatEntries) == 0 {
		return
	}
	direction := 1
	if delta < 0 {
		direction = -1
	}
	target := min(max(f.cursor+delta, 0), len(f.flatEntries)-1)
	f.cursor = target
	f.skipToFile(direction)
}

func (f *FileList) selectCurrent() tea.Cmd {
	path := f.SelectedPath()
	if f.onSelect == nil || path == "" {
		return nil
	}
	return f.onSelect(path)
}

// View renders the file list
func (f *FileList) View(width, height int) string {
	f.height = height
	contentWidth := width - 2

	var lines []string
	if len(f.flatEntries) == 0 {
		lines = append(lines, f.styles.Muted.Render("No changes"))
	} else {
		for i := f.offset; i < len(f.flatEntries) && i < f.offset+height-3; i++ {
			lines = append(lines, f.renderTreeLine(f.flatEntries[i], i == f.cursor, contentWidth))
		}
	}

	return f.box(f.title(), lines, width, height)
}

// title shows the file count followed by a count per non-empty status
func (f *FileList) title() string {
	if len(f.files) == 0 {
		return f.styles.WindowTitle.Render("Files")
	}

	parts := []string{f.styles.WindowTitle.Render(fmt.Sprintf("Files (%d)", len(f.files)))}
	for _, c := range []struct {
		kind git.StatusKind
		n    int
	}{
		{git.StatusConflict, f.counts.Conflict},
		{git.StatusAdded, f.counts.Added},
		{git.StatusModified, f.counts.Changed},
		{git.StatusRemoved, f.counts.Removed},
		{git.StatusMissing, f.counts.Missing},
		{git.StatusUntracked, f.counts.Untracked},
	} {
		if c.n == 0 {
			continue
		}
		parts = append(parts, f.styles.Status(c.kind).Render(fmt.Sprintf("%s%d", c.kind, c.n)))
	}
	return strings.Join(parts, " ")
}

func (f *FileList) renderTreeLine(entry flatEntry, selected bool, maxWidth int) string {
	indent := strings.Repeat("  ", entry.depth)

	prefix := "  "
	if entry.isDir {
		prefix = "▼ "
	}

	var statusStr string
	statusLen := 0
	if !entry.isDir {
		statusStr = " " + f.styles.Status(entry.status).Render(entry.status.String())
		statusLen = 2
	}

	cursorLen := 1
	availableWidth := maxWidth - lipgloss.Width(indent+prefix) - statusLen - cursorLen
	name := fit(entry.display, availableWidth)

	var nameStyle lipgloss.Style
	switch {
	case entry.isDir:
		nameStyle = f.styles.Muted
	case selected:
		nameStyle = f.styles.ListItemSelected
	default:
		nameStyle = f.styles.ListItem
	}

	cursor := " "
	if selected && !entry.isDir {
		cursor = ">"
	}

	return cursor + indent + prefix + nameStyle.Render(name) + statusStr
}
