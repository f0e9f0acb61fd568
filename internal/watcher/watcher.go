// Package watcher reports debounced filesystem changes in git working copies.
package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kmacinski/tinydiff/internal/logging"
)

const defaultDebounce = 300 * time.Millisecond

// Directories that change often and never affect git status
var ignoredDirs = map[string]bool{
	"node_modules": true,
	".cache":       true,
	"dist":         true,
	"build":        true,
}

// GitWatcher watches the working trees of one or more repositories and calls
// onChange with the repository root once the tree has been quiet for the
// debounce interval.
type GitWatcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	onChange func(repo string)
	log      logging.Logger

	mu     sync.Mutex
	repos  []string
	timers map[string]*time.Timer
	done   chan struct{}
	closed bool
}

// New creates a watcher. A non-positive debounce uses the default.
func New(debounce time.Duration, onChange func(repo string), log logging.Logger) (*GitWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	if log == nil {
		log = logging.Nop()
	}
	return &GitWatcher{
		fs:       fsw,
		debounce: debounce,
		onChange: onChange,
		log:      log,
		timers:   make(map[string]*time.Timer),
		done:     make(chan struct{}),
	}, nil
}

// Add starts watching the working tree of repo and the parts of its .git
// directory that change on commit, checkout and staging.
func (w *GitWatcher) Add(repo string) error {
	root, err := filepath.Abs(repo)
	if err != nil {
		return err
	}
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return errors.New("not a directory: " + repo)
	}

	w.mu.Lock()
	w.repos = append(w.repos, root)
	w.mu.Unlock()

	w.addRecursive(root)

	gitDir := filepath.Join(root, ".git")
	for _, dir := range []string{
		gitDir,
		filepath.Join(gitDir, "refs", "heads"),
	} {
		if _, err := os.Stat(dir); err == nil {
			if err := w.fs.Add(dir); err != nil {
				w.log.Debug("watch git dir failed", "path", dir, "error", err)
			}
		}
	}
	return nil
}

// addRecursive watches root and every directory below it except .git and
// the ignored ones. root itself is always watched; callers decide whether it
// is ignored.
func (w *GitWatcher) addRecursive(root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != root && (d.Name() == ".git" || ignoredDirs[d.Name()]) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			w.log.Debug("watch dir failed", "path", path, "error", err)
		}
		return nil
	})
}

// Start processes events on a background goroutine until Stop
func (w *GitWatcher) Start() {
	go w.observe()
}

func (w *GitWatcher) observe() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			repo := w.repoFor(ev.Name)
			if repo == "" {
				continue
			}
			rel, err := filepath.Rel(repo, ev.Name)
			if err != nil || !relevant(rel) {
				continue
			}
			if ev.Op&fsnotify.Create != 0 && !isInsideGitDir(rel) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					w.addRecursive(ev.Name)
				}
			}
			w.schedule(repo)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error", "error", err)
		}
	}
}

// relevant reports whether a change at rel, relative to the repository root,
// can affect git status. Inside .git only HEAD, the index and branch tips
// count. Directories above the root never match the ignored names.
func relevant(rel string) bool {
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if parts[0] != ".git" {
		for _, part := range parts {
			if ignoredDirs[part] {
				return false
			}
		}
		return true
	}
	base := parts[len(parts)-1]
	if strings.HasSuffix(base, ".lock") {
		return false
	}
	if base == "HEAD" || base == "index" {
		return true
	}
	return len(parts) > 3 && parts[1] == "refs" && parts[2] == "heads"
}

func isInsideGitDir(rel string) bool {
	return strings.SplitN(filepath.ToSlash(rel), "/", 2)[0] == ".git"
}

func (w *GitWatcher) repoFor(path string) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	best := ""
	for _, repo := range w.repos {
		if (path == repo || strings.HasPrefix(path, repo+string(filepath.Separator))) && len(repo) > len(best) {
			best = repo
		}
	}
	return best
}

func (w *GitWatcher) schedule(repo string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if t, ok := w.timers[repo]; ok {
		t.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		if cur, ok := w.timers[repo]; !ok || cur != t || w.closed {
			w.mu.Unlock()
			return
		}
		delete(w.timers, repo)
		w.mu.Unlock()

		w.log.Debug("working copy changed", "repo", repo)
		if w.onChange != nil {
			w.onChange(repo)
		}
	})
	w.timers[repo] = t
}

// Stop stops watching and drops pending notifications
func (w *GitWatcher) Stop() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for repo, t := range w.timers {
		t.Stop()
		delete(w.timers, repo)
	}
	close(w.done)
	w.mu.Unlock()
	return w.fs.Close()
}
