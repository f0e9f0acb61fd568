package git

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
)

// PatchClient serves the files of a unified diff or git patch as if they
// were the working copy changes of a repository. It has no history.
type PatchClient struct {
	name string
	path string // Re-read on every status fetch when set

	mu    sync.Mutex
	files map[string]*gitdiff.File
	order []string
}

// NewPatchClient creates a client reading the patch at path
func NewPatchClient(path string) (*PatchClient, error) {
	c := &PatchClient{name: filepath.Base(path), path: path}
	if err := c.reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// NewPatchClientFromReader parses a patch once from r, e.g. stdin
func NewPatchClientFromReader(name string, r io.Reader) (*PatchClient, error) {
	c := &PatchClient{name: name}
	if err := c.parse(r); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *PatchClient) reload() error {
	f, err := os.Open(c.path)
	if err != nil {
		return fmt.Errorf("open patch: %w", err)
	}
	defer f.Close()
	return c.parse(f)
}

func (c *PatchClient) parse(r io.Reader) error {
	parsed, _, err := gitdiff.Parse(r)
	if err != nil {
		return fmt.Errorf("parse patch %s: %w", c.name, err)
	}

	files := make(map[string]*gitdiff.File, len(parsed))
	order := make([]string, 0, len(parsed))
	for _, f := range parsed {
		name := patchFileName(f)
		if _, dup := files[name]; !dup {
			order = append(order, name)
		}
		files[name] = f
	}

	c.mu.Lock()
	c.files, c.order = files, order
	c.mu.Unlock()
	return nil
}

func patchFileName(f *gitdiff.File) string {
	if f.IsDelete || f.NewName == "" {
		return f.OldName
	}
	return f.NewName
}

// IsRepo always returns true, a patch stands in for a repository
func (c *PatchClient) IsRepo(string) bool { return true }

// CurrentBranch returns the patch name
func (c *PatchClient) CurrentBranch(context.Context, string) (string, error) {
	return c.name, nil
}

// Log returns no commits
func (c *PatchClient) Log(context.Context, string, int) ([]Commit, error) {
	return nil, nil
}

// FetchFileStatusList returns the files touched by the patch. Commits are
// unknown to a patch, so asking for one yields no files.
func (c *PatchClient) FetchFileStatusList(ctx context.Context, _, commit string) ([]FileStatus, error) {
	if commit != "" {
		return nil, nil
	}
	if c.path != "" {
		if err := c.reload(); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	files := make([]FileStatus, 0, len(c.order))
	for _, name := range c.order {
		f := c.files[name]
		status := StatusModified
		switch {
		case f.IsNew:
			status = StatusAdded
		case f.IsDelete:
			status = StatusRemoved
		case f.IsRename || f.IsCopy:
			status = StatusChanged
		}
		files = append(files, FileStatus{Path: name, Status: status})
	}
	return files, nil
}

// FetchDiff rebuilds the unified diff text of one file of the patch
func (c *PatchClient) FetchDiff(ctx context.Context, _, path, commit string) (string, error) {
	if commit != "" {
		return "", nil
	}
	c.mu.Lock()
	f, ok := c.files[path]
	c.mu.Unlock()
	if !ok {
		return "", nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return formatPatchFile(f), nil
}

func formatPatchFile(f *gitdiff.File) string {
	oldName, newName := "a/"+f.OldName, "b/"+f.NewName
	if f.IsNew {
		oldName = "/dev/null"
	}
	if f.IsDelete {
		newName = "/dev/null"
	}

	var b strings.Builder
	if f.IsBinary {
		fmt.Fprintf(&b, "Binary files %s and %s differ\n", oldName, newName)
		return b.String()
	}

	fmt.Fprintf(&b, "--- %s\n+++ %s\n", oldName, newName)
	for _, frag := range f.TextFragments {
		fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@", frag.OldPosition, frag.OldLines, frag.NewPosition, frag.NewLines)
		if frag.Comment != "" {
			b.WriteString(" " + frag.Comment)
		}
		b.WriteString("\n")

		for _, line := range frag.Lines {
			b.WriteString(line.Op.String())
			b.WriteString(line.Line)
			if line.NoEOL() {
				b.WriteString("\n\\ No newline at end of file\n")
			}
		}
	}
	return b.String()
}

// ResolveWorkingCopyPath returns path relative to the directory the patch
// applies to
func (c *PatchClient) ResolveWorkingCopyPath(repo, path string) (string, error) {
	return resolvePath(repo, path)
}
