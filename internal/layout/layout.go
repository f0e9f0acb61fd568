package layout

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/kmacinski/tinydiff/internal/window"
)

// Direction is the axis a slot splits its children along
type Direction int

const (
	Horizontal Direction = iota // children side by side
	Vertical                    // children on top of each other
)

// Slot names
const (
	SlotRepos   = "repos"
	SlotFiles   = "files"
	SlotCommits = "commits"
	SlotDiff    = "diff"
)

// Slot is a node of the layout tree. A leaf names the slot a window is
// assigned to; any other slot splits its area between Children by Ratios.
type Slot struct {
	Name     string
	Split    Direction
	Children []Slot
	Ratios   []int
}

func leaf(name string) Slot {
	return Slot{Name: name}
}

func row(ratios []int, children ...Slot) Slot {
	return Slot{Split: Horizontal, Ratios: ratios, Children: children}
}

func column(ratios []int, children ...Slot) Slot {
	return Slot{Split: Vertical, Ratios: ratios, Children: children}
}

// Layout is a named slot tree
type Layout struct {
	Name string
	Root Slot
}

// Predefined layouts
var (
	// ThreeSlot stacks repositories, files and commits left of the diff
	ThreeSlot = Layout{
		Name: "three-slot",
		Root: row([]int{30, 70},
			column([]int{20, 50, 30}, leaf(SlotRepos), leaf(SlotFiles), leaf(SlotCommits)),
			leaf(SlotDiff),
		),
	}

	TwoColumn = Layout{
		Name: "two-column",
		Root: row([]int{30, 70},
			column([]int{60, 40}, leaf(SlotFiles), leaf(SlotCommits)),
			leaf(SlotDiff),
		),
	}

	// Stacked is used on narrow terminals
	Stacked = Layout{
		Name: "stacked",
		Root: column([]int{30, 70}, leaf(SlotFiles), leaf(SlotDiff)),
	}
)

// Breakpoint selects Layout from MinWidth columns up
type Breakpoint struct {
	MinWidth int
	Layout   Layout
}

// ResponsiveConfig holds breakpoints ordered from widest to narrowest
type ResponsiveConfig struct {
	Breakpoints []Breakpoint
}

// DefaultResponsive is the default responsive configuration
var DefaultResponsive = Responsive([2]int{30, 70})

// Responsive returns the default breakpoints with the left:right ratio of the
// column layouts replaced
func Responsive(ratio [2]int) ResponsiveConfig {
	withRatio := func(l Layout) Layout {
		l.Root.Ratios = []int{ratio[0], ratio[1]}
		return l
	}
	return ResponsiveConfig{
		Breakpoints: []Breakpoint{
			{MinWidth: 120, Layout: withRatio(ThreeSlot)},
			{MinWidth: 80, Layout: withRatio(TwoColumn)},
			{MinWidth: 0, Layout: Stacked},
		},
	}
}

// GetLayout returns the first layout whose breakpoint fits width
func (r *ResponsiveConfig) GetLayout(width int) Layout {
	for _, bp := range r.Breakpoints {
		if width >= bp.MinWidth {
			return bp.Layout
		}
	}
	if n := len(r.Breakpoints); n > 0 {
		return r.Breakpoints[n-1].Layout
	}
	return Stacked
}

// Manager picks a layout for the terminal size and renders windows into it
type Manager struct {
	responsive ResponsiveConfig
	current    Layout
	width      int
	height     int
}

// NewManager creates a new layout manager
func NewManager(responsive ResponsiveConfig) *Manager {
	return &Manager{
		responsive: responsive,
		current:    TwoColumn,
	}
}

// Resize updates the dimensions and switches layout when a breakpoint is
// crossed
func (m *Manager) Resize(width, height int) {
	m.width = width
	m.height = height
	m.current = m.responsive.GetLayout(width)
}

// CurrentLayout returns the current layout
func (m *Manager) CurrentLayout() Layout {
	return m.current
}

// Render draws the windows assigned to the slots of the current layout, with
// statusBar on the last line. assignments maps slot names to window names.
func (m *Manager) Render(windows map[string]window.Window, assignments map[string]string, statusBar string) string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	view := func(slot string, width, height int) string {
		if w, ok := windows[assignments[slot]]; ok {
			return w.View(width, height)
		}
		return lipgloss.NewStyle().Width(width).Height(height).Render("")
	}

	content := m.current.Root.render(m.width, m.height-1, view)
	return lipgloss.JoinVertical(lipgloss.Left, content, statusBar)
}

func (s Slot) render(width, height int, view func(slot string, width, height int) string) string {
	if len(s.Children) == 0 {
		return view(s.Name, width, height)
	}

	along := height
	if s.Split == Horizontal {
		along = width
	}
	sizes := split(along, s.Ratios)

	parts := make([]string, len(s.Children))
	for i, child := range s.Children {
		if s.Split == Horizontal {
			parts[i] = child.render(sizes[i], height, view)
		} else {
			parts[i] = child.render(width, sizes[i], view)
		}
	}

	if s.Split == Horizontal {
		return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// split divides total by ratios. The last part takes the rounding remainder.
func split(total int, ratios []int) []int {
	sizes := make([]int, len(ratios))
	sum := 0
	for _, r := range ratios {
		sum += r
	}
	if sum == 0 {
		return sizes
	}

	used := 0
	last := len(ratios) - 1
	for i, r := range ratios[:last] {
		sizes[i] = total * r / sum
		used += sizes[i]
	}
	sizes[last] = total - used
	return sizes
}

// GetSlotNames returns the leaf slots of the current layout in order
func (m *Manager) GetSlotNames() []string {
	return m.current.Root.leaves(nil)
}

func (s Slot) leaves(names []string) []string {
	if len(s.Children) == 0 {
		return append(names, s.Name)
	}
	for _, child := range s.Children {
		names = child.leaves(names)
	}
	return names
}
