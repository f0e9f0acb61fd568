package app

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"golang.org/x/sync/errgroup"

	"github.com/kmacinski/tinydiff/internal/config"
	"github.com/kmacinski/tinydiff/internal/diff"
	"github.com/kmacinski/tinydiff/internal/git"
	"github.com/kmacinski/tinydiff/internal/keys"
	"github.com/kmacinski/tinydiff/internal/layout"
	"github.com/kmacinski/tinydiff/internal/logging"
	"github.com/kmacinski/tinydiff/internal/pipeline"
	"github.com/kmacinski/tinydiff/internal/ui"
	"github.com/kmacinski/tinydiff/internal/watcher"
	"github.com/kmacinski/tinydiff/internal/window"
)

const statusTimeout = 4 * time.Second

// Option configures an App
type Option func(*options)

type options struct {
	log      logging.Logger
	styles   *ui.Styles
	renderer pipeline.Renderer
}

// WithLogger sets the logger
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithStyles overrides the styles built from the configured colors
func WithStyles(s ui.Styles) Option {
	return func(o *options) { o.styles = &s }
}

// WithRenderer overrides the diff renderer built from the configuration
func WithRenderer(r pipeline.Renderer) Option {
	return func(o *options) { o.renderer = r }
}

// App is the main application model
type App struct {
	cfg    config.Config
	state  *State
	git    git.Client
	pipe   *pipeline.Pipeline
	log    logging.Logger
	layout *layout.Manager
	styles ui.Styles

	// Windows
	repoList   *window.RepoList
	fileList   *window.FileList
	commitList *window.CommitList
	diffView   *window.DiffView
	help       *window.Help

	// Window registry
	windows     map[string]window.Window
	assignments map[string]string

	// Repositories that are not git working copies
	invalid map[string]bool

	// Commit whose files the file list shows
	listedCommit string

	// Dimensions
	width  int
	height int

	// Status message, cleared after statusTimeout
	statusMessage string
	statusSeq     int

	ctx         context.Context
	stop        context.CancelFunc
	unsubscribe func()

	// File watcher
	watcher *watcher.GitWatcher
	program *tea.Program
}

// New creates the application for the given repository roots
func New(cfg config.Config, gitClient git.Client, repos []string, opts ...Option) *App {
	o := options{log: logging.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logging.Nop()
	}
	styles := ui.NewStyles(ui.ColorsFromConfig(cfg.Colors))
	if o.styles != nil {
		styles = *o.styles
	}
	if o.renderer == nil {
		o.renderer = diff.NewRenderer(diff.NewDetector(
			diff.WithTrailers(cfg.BinaryTrailers...),
			diff.WithImageExtensions(cfg.ImageExtensions...),
		))
	}

	repoList := window.NewRepoList(styles)
	fileList := window.NewFileList(styles)
	commitList := window.NewCommitList(styles)
	diffView := window.NewDiffView(styles)
	help := window.NewHelp(styles)

	fileList.SetFocus(true)

	ctx, stop := context.WithCancel(context.Background())
	a := &App{
		cfg:        cfg,
		state:      NewState(repos),
		git:        gitClient,
		pipe:       pipeline.New(gitClient, o.renderer, pipeline.WithLogger(o.log)),
		log:        o.log,
		layout:     layout.NewManager(layout.Responsive(cfg.Layout.DefaultRatio)),
		styles:     styles,
		repoList:   repoList,
		fileList:   fileList,
		commitList: commitList,
		diffView:   diffView,
		help:       help,
		windows: map[string]window.Window{
			window.NameRepoList:   repoList,
			window.NameFileList:   fileList,
			window.NameCommitList: commitList,
			window.NameDiffView:   diffView,
			window.NameHelp:       help,
		},
		assignments: map[string]string{
			layout.SlotRepos:   window.NameRepoList,
			layout.SlotFiles:   window.NameFileList,
			layout.SlotCommits: window.NameCommitList,
			layout.SlotDiff:    window.NameDiffView,
		},
		invalid: make(map[string]bool),
		ctx:     ctx,
		stop:    stop,
	}

	entries := make([]window.Repo, 0, len(repos))
	for _, repo := range repos {
		if !gitClient.IsRepo(repo) {
			a.invalid[repo] = true
		}
		entries = append(entries, window.Repo{Root: repo, Invalid: a.invalid[repo]})
	}
	repoList.SetRepos(entries)

	fileList.SetOnSelect(func(path string) tea.Cmd {
		return func() tea.Msg { return FileSelectedMsg{Path: path} }
	})
	commitList.SetOnSelect(func(commit string) tea.Cmd {
		return func() tea.Msg { return CommitSelectedMsg{Commit: commit} }
	})
	repoList.SetOnSelect(func(root string) tea.Cmd {
		return func() tea.Msg { return RepoSelectedMsg{Root: root} }
	})

	a.unsubscribe = a.pipe.Subscribe(func(doc diff.Document) {
		a.diffView.SetDocument(doc, a.diffLabel())
	})

	return a
}

// SetProgram sets the tea.Program reference and starts watching the
// repositories for changes
func (a *App) SetProgram(p *tea.Program) {
	a.program = p

	w, err := watcher.New(a.cfg.WatchDebounce, func(repo string) {
		p.Send(GitChangedMsg{Repo: repo})
	}, a.log)
	if err != nil {
		a.log.Warn("file watcher unavailable", "error", err)
		return
	}
	for _, repo := range a.state.Repos {
		if a.invalid[repo] {
			continue
		}
		if err := w.Add(repo); err != nil {
			a.log.Warn("watch repository failed", "repo", repo, "error", err)
		}
	}
	a.watcher = w
	a.watcher.Start()
}

// Cleanup stops the watcher and cancels outstanding work
func (a *App) Cleanup() {
	if a.watcher != nil {
		if err := a.watcher.Stop(); err != nil {
			a.log.Debug("stop watcher", "error", err)
		}
	}
	a.unsubscribe()
	a.pipe.Close()
	a.stop()
}

// Init loads the selected repository and the list details of the others
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.loadRepo(a.state.SelectedRepo, "", false)}
	for _, repo := range a.state.Repos {
		if repo != a.state.SelectedRepo {
			cmds = append(cmds, a.loadRepoInfo(repo))
		}
	}
	return tea.Batch(cmds...)
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layout.Resize(msg.Width, msg.Height)
		a.ensureFocusVisible()
		return a, nil

	case tea.KeyMsg:
		if a.state.ActiveModal != "" {
			return a.handleModalKey(msg)
		}
		return a.handleKey(msg)

	case FileSelectedMsg:
		if a.state.SelectedCommit != a.listedCommit {
			// the listed files belong to the previous commit
			return a, nil
		}
		return a, a.syncSelection(false)

	case CommitSelectedMsg:
		if msg.Commit == a.state.SelectedCommit {
			return a, nil
		}
		a.state.SelectCommit(msg.Commit)
		a.diffView.SetLoading(true)
		return a, a.loadRepo(a.state.SelectedRepo, msg.Commit, false)

	case RepoSelectedMsg:
		if msg.Root == a.state.SelectedRepo {
			return a, nil
		}
		a.state.SelectRepo(msg.Root)
		a.listedCommit = ""
		a.fileList.SetFiles(nil)
		a.commitList.SetCommits(nil)
		a.pipe.Clear()
		return a, a.loadRepo(msg.Root, "", false)

	case RepoLoadedMsg:
		return a, a.applyRepo(msg)

	case RepoLoadFailedMsg:
		return a, a.repoLoadFailed(msg)

	case RepoInfoMsg:
		a.repoList.UpdateRepo(window.Repo{Root: msg.Repo, Branch: msg.Branch, Changes: msg.Changes})
		return a, nil

	case GitChangedMsg:
		if msg.Repo == a.state.SelectedRepo {
			return a, a.loadRepo(msg.Repo, a.state.SelectedCommit, true)
		}
		return a, a.loadRepoInfo(msg.Repo)

	case RefreshMsg:
		return a, a.loadRepo(a.state.SelectedRepo, a.state.SelectedCommit, true)

	case pipeline.ResultMsg:
		_, err := a.pipe.Publish(msg.Result)
		a.diffView.SetLoading(a.pipe.State() == pipeline.StateFetching)
		if err != nil {
			return a, a.setError(err)
		}
		return a, nil

	case ErrorMsg:
		return a, a.setError(msg.Err)

	case clearStatusMsg:
		if msg.seq == a.statusSeq {
			a.statusMessage = ""
			a.state.Error = ""
		}
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	km := keys.DefaultKeyMap
	switch {
	case key.Matches(msg, km.Quit):
		return a, tea.Quit

	case key.Matches(msg, km.Help):
		a.state.ToggleModal(window.NameHelp)
		return a, nil

	case key.Matches(msg, km.Refresh):
		return a, a.loadRepo(a.state.SelectedRepo, a.state.SelectedCommit, true)

	case key.Matches(msg, km.WorkingCopy):
		return a, a.commitList.SelectWorkingCopy()

	case key.Matches(msg, km.ToggleDiffStyle):
		a.diffView.ToggleSideBySide()
		return a, nil

	case key.Matches(msg, km.Tab), key.Matches(msg, km.Right):
		a.cycleFocus(false)
		return a, nil

	case key.Matches(msg, km.ShiftTab), key.Matches(msg, km.Left):
		a.cycleFocus(true)
		return a, nil

	case key.Matches(msg, km.Yank):
		return a, a.yank()

	case key.Matches(msg, km.OpenEditor):
		return a, a.openInEditor()
	}

	return a.delegateToFocused(msg)
}

func (a *App) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.DefaultKeyMap.Quit) {
		return a, tea.Quit
	}
	if key.Matches(msg, keys.DefaultKeyMap.Help) || key.Matches(msg, keys.DefaultKeyMap.Escape) {
		a.state.CloseModal()
	}
	return a, nil
}

func (a *App) delegateToFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	w, ok := a.windows[a.state.FocusedWindow]
	if !ok {
		return a, nil
	}
	_, cmd := w.Update(msg)
	return a, cmd
}

// applyRepo shows a finished load unless the selection moved on meanwhile
func (a *App) applyRepo(msg RepoLoadedMsg) tea.Cmd {
	if msg.Repo != a.state.SelectedRepo || msg.Commit != a.state.SelectedCommit {
		a.log.Debug("stale repository load dropped", "repo", msg.Repo, "commit", msg.Commit)
		return nil
	}

	a.state.SetFiles(msg.Files)
	a.listedCommit = msg.Commit
	a.state.Commits = msg.Commits
	a.state.Branch = msg.Branch
	a.fileList.SetFiles(msg.Files)
	a.commitList.SetCommits(msg.Commits)
	if msg.Commit == "" {
		a.repoList.UpdateRepo(window.Repo{Root: msg.Repo, Branch: msg.Branch, Changes: len(msg.Files)})
	}

	// the selected commit disappeared from the log, e.g. after an amend
	if c := a.commitList.SelectedCommit(); c != a.state.SelectedCommit {
		return func() tea.Msg { return CommitSelectedMsg{Commit: c} }
	}

	return a.syncSelection(msg.Refresh && msg.Commit == "")
}

// repoLoadFailed reports a failed load. When it was loading a newly selected
// commit, the commit whose files are still listed becomes selected again.
func (a *App) repoLoadFailed(msg RepoLoadFailedMsg) tea.Cmd {
	if msg.Repo == a.state.SelectedRepo && msg.Commit == a.state.SelectedCommit && msg.Commit != a.listedCommit {
		a.log.Debug("commit load failed, restoring selection", "commit", msg.Commit, "restored", a.listedCommit)
		a.state.SelectedCommit = a.listedCommit
		a.state.SetFiles(a.fileList.Files())
		a.state.SelectedFile = a.fileList.SelectedPath()
		a.commitList.Select(a.listedCommit)
		a.diffView.SetLoading(a.pipe.State() == pipeline.StateFetching)
	}
	return a.setError(fmt.Errorf("load %s: %w", msg.Repo, msg.Err))
}

// syncSelection hands the file list selection to the pipeline. refresh
// re-fetches an unchanged selection.
func (a *App) syncSelection(refresh bool) tea.Cmd {
	a.state.SelectedFile = a.fileList.SelectedPath()
	sel, ok := a.state.Selection()
	if !ok {
		a.pipe.Clear()
		a.diffView.SetLoading(false)
		return nil
	}

	h := a.pipe.SetSelection(sel)
	if h == nil && refresh {
		h = a.pipe.Refresh()
	}
	a.diffView.SetLoading(a.pipe.State() == pipeline.StateFetching)
	return pipeline.Command(h)
}

func (a *App) diffLabel() string {
	sel, ok := a.pipe.Desired()
	if !ok {
		return ""
	}
	if sel.IsWorkingCopy() {
		return sel.Path
	}
	return fmt.Sprintf("%s @ %s", sel.Path, sel.Commit)
}

// focusOrder lists the windows visible in the current layout. The repository
// list is skipped when there is only one repository.
func (a *App) focusOrder() []string {
	var names []string
	for _, slot := range a.layout.GetSlotNames() {
		name := a.assignments[slot]
		if name == window.NameRepoList && len(a.state.Repos) < 2 {
			continue
		}
		names = append(names, name)
	}
	return names
}

func (a *App) cycleFocus(reverse bool) {
	a.state.CycleWindow(a.focusOrder(), reverse)
	a.updateFocus()
}

func (a *App) ensureFocusVisible() {
	for _, name := range a.focusOrder() {
		if name == a.state.FocusedWindow {
			return
		}
	}
	a.state.FocusedWindow = window.NameFileList
	a.updateFocus()
}

func (a *App) updateFocus() {
	for name, w := range a.windows {
		w.SetFocus(name == a.state.FocusedWindow)
	}
}

func (a *App) setStatus(msg string) tea.Cmd {
	a.statusMessage = msg
	return a.expireStatus()
}

func (a *App) setError(err error) tea.Cmd {
	a.log.Warn("operation failed", "error", err)
	a.state.Error = err.Error()
	return a.expireStatus()
}

func (a *App) expireStatus() tea.Cmd {
	a.statusSeq++
	seq := a.statusSeq
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// View renders the application
func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}

	if len(a.state.Repos) == 1 && a.invalid[a.state.SelectedRepo] {
		return a.renderError("Not a git repository", "Run tinydiff from within a git repository or pass repository paths")
	}

	mainView := a.layout.Render(a.windows, a.assignments, a.renderStatusBar())

	if a.state.ActiveModal == window.NameHelp {
		mainView = a.renderWithModal(a.help)
	}

	return mainView
}

func (a *App) renderStatusBar() string {
	branch := a.state.Branch
	if branch == "" {
		branch = "unknown"
	}

	mode := "[working copy]"
	if a.state.SelectedCommit != "" {
		mode = fmt.Sprintf("[%s]", a.state.SelectedCommit)
	}
	if a.diffView.SideBySide() {
		mode += " [split]"
	}

	left := fmt.Sprintf("%s  %s  %d files", branch, mode, a.state.Counts.Total())
	if n := a.state.Counts.Conflict; n > 0 {
		left += a.styles.StatusConflict.Render(fmt.Sprintf(" (%d unmerged)", n))
	}

	if s := a.pipe.Current().Stats(); s.Added > 0 || s.Removed > 0 {
		left += fmt.Sprintf("  %s %s",
			a.styles.DiffAdded.Render(fmt.Sprintf("+%d", s.Added)),
			a.styles.DiffRemoved.Render(fmt.Sprintf("-%d", s.Removed)),
		)
	}
	if a.pipe.State() == pipeline.StateFetching {
		left += a.styles.Muted.Render("  fetching…")
	}

	switch {
	case a.state.Error != "":
		left += a.styles.StatusBarError.Render(" │ " + a.state.Error)
	case a.statusMessage != "":
		left += a.styles.Muted.Render(" │ " + a.statusMessage)
	}

	return a.styles.StatusBar.
		Width(a.width).
		Render(truncate.String(left, uint(max(a.width-2, 0))))
}

func (a *App) renderWithModal(modal window.Window) string {
	modalWidth := min(50, a.width-4)
	modalHeight := min(28, a.height-4)

	return lipgloss.Place(
		a.width,
		a.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.View(modalWidth, modalHeight),
	)
}

func (a *App) renderError(title, hint string) string {
	content := fmt.Sprintf("%s\n\n%s", title, a.styles.Muted.Render(hint))
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, a.styles.Error.Padding(2).Render(content))
}

// Commands

// loadRepo fetches the file list, history and branch of repo concurrently
func (a *App) loadRepo(repo, commit string, refresh bool) tea.Cmd {
	if repo == "" {
		return nil
	}
	if a.invalid[repo] {
		return func() tea.Msg {
			return ErrorMsg{Err: fmt.Errorf("%w: %s", git.ErrNotRepository, repo)}
		}
	}

	ctx, client, limit := a.ctx, a.git, a.cfg.LogLimit
	return func() tea.Msg {
		msg := RepoLoadedMsg{Repo: repo, Commit: commit, Refresh: refresh}

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			files, err := client.FetchFileStatusList(ctx, repo, commit)
			msg.Files = files
			return err
		})
		g.Go(func() error {
			commits, err := client.Log(ctx, repo, limit)
			msg.Commits = commits
			return err
		})
		g.Go(func() error {
			branch, err := client.CurrentBranch(ctx, repo)
			msg.Branch = branch
			return err
		})
		if err := g.Wait(); err != nil {
			return RepoLoadFailedMsg{Repo: repo, Commit: commit, Err: err}
		}
		return msg
	}
}

// loadRepoInfo fetches the repository list details of repo
func (a *App) loadRepoInfo(repo string) tea.Cmd {
	if a.invalid[repo] {
		return nil
	}

	ctx, client := a.ctx, a.git
	return func() tea.Msg {
		msg := RepoInfoMsg{Repo: repo}

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			files, err := client.FetchFileStatusList(ctx, repo, "")
			msg.Changes = len(files)
			return err
		})
		g.Go(func() error {
			branch, err := client.CurrentBranch(ctx, repo)
			msg.Branch = branch
			return err
		})
		if err := g.Wait(); err != nil {
			return ErrorMsg{Err: fmt.Errorf("load %s: %w", repo, err)}
		}
		return msg
	}
}

func (a *App) yank() tea.Cmd {
	sel, ok := a.state.Selection()
	if !ok {
		return nil
	}
	path, err := a.git.ResolveWorkingCopyPath(sel.Repository, sel.Path)
	if err != nil {
		return a.setError(err)
	}
	if err := clipboard.WriteAll(path); err != nil {
		return a.setError(fmt.Errorf("copy to clipboard: %w", err))
	}
	return a.setStatus("Copied: " + path)
}

func (a *App) openInEditor() tea.Cmd {
	sel, ok := a.state.Selection()
	if !ok {
		return nil
	}
	if !sel.IsWorkingCopy() {
		return a.setStatus("Switch to the working copy (c) to edit files")
	}
	path, err := a.git.ResolveWorkingCopyPath(sel.Repository, sel.Path)
	if err != nil {
		return a.setError(err)
	}

	editor := strings.Fields(os.Getenv("EDITOR"))
	if len(editor) == 0 {
		editor = []string{"vim"}
	}
	args := editor[1:]
	if a.state.FocusedWindow == window.NameDiffView {
		args = append(args, fmt.Sprintf("+%d", a.diffView.SelectedLine()))
	}
	args = append(args, path)

	c := exec.Command(editor[0], args...)
	return tea.ExecProcess(c, func(err error) tea.Msg {
		if err != nil {
			return ErrorMsg{Err: fmt.Errorf("editor: %w", err)}
		}
		return RefreshMsg{}
	})
}
