package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/go-git/go-git/v5/utils/binary"
	"github.com/go-git/go-git/v5/utils/merkletrie"
	"github.com/pmezard/go-difflib/difflib"
)

// DiffContext is the number of unchanged lines around each hunk
const DiffContext = 3

// GoGitClient implements Client in-process with go-git. Diffs are computed
// with difflib, so no git binary is needed.
type GoGitClient struct {
	mu    sync.Mutex
	repos map[string]*gogit.Repository
}

// NewGoGitClient creates a new go-git backed client
func NewGoGitClient() *GoGitClient {
	return &GoGitClient{repos: make(map[string]*gogit.Repository)}
}

func (g *GoGitClient) open(repo string) (*gogit.Repository, error) {
	root, err := filepath.Abs(repo)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if r, ok := g.repos[root]; ok {
		return r, nil
	}
	r, err := gogit.PlainOpenWithOptions(root, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotRepository, repo)
		}
		return nil, fmt.Errorf("open repository %s: %w", repo, err)
	}
	g.repos[root] = r
	return r, nil
}

// Root returns the top level directory of the working copy containing dir
func (g *GoGitClient) Root(_ context.Context, dir string) (string, error) {
	r, err := g.open(dir)
	if err != nil {
		return "", err
	}
	wt, err := r.Worktree()
	if err != nil {
		return "", fmt.Errorf("worktree %s: %w", dir, err)
	}
	return wt.Filesystem.Root(), nil
}

// IsRepo returns true if repo is inside a git working copy
func (g *GoGitClient) IsRepo(repo string) bool {
	_, err := g.open(repo)
	return err == nil
}

// CurrentBranch returns the current branch name, or the short hash when
// HEAD is detached
func (g *GoGitClient) CurrentBranch(ctx context.Context, repo string) (string, error) {
	r, err := g.open(repo)
	if err != nil {
		return "", err
	}
	ref, err := r.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("get HEAD: %w", err)
	}
	if ref.Name().IsBranch() {
		return ref.Name().Short(), nil
	}
	return shortHash(ref.Hash()), nil
}

func (g *GoGitClient) headCommit(r *gogit.Repository) (*object.Commit, error) {
	ref, err := r.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get HEAD: %w", err)
	}
	return r.CommitObject(ref.Hash())
}

func (g *GoGitClient) resolveCommit(r *gogit.Repository, commit string) (*object.Commit, error) {
	hash, err := r.ResolveRevision(plumbing.Revision(commit))
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", commit, err)
	}
	return r.CommitObject(*hash)
}

// firstParentTree returns the tree of the first parent, nil for a root commit
func firstParentTree(c *object.Commit) (*object.Tree, *object.Commit, error) {
	if c.NumParents() == 0 {
		return nil, nil, nil
	}
	parent, err := c.Parent(0)
	if err != nil {
		return nil, nil, fmt.Errorf("get parent of %s: %w", shortHash(c.Hash), err)
	}
	tree, err := parent.Tree()
	if err != nil {
		return nil, nil, err
	}
	return tree, parent, nil
}

// FetchFileStatusList returns the changed files of the working copy, or of
// commit when it is not empty
func (g *GoGitClient) FetchFileStatusList(ctx context.Context, repo, commit string) ([]FileStatus, error) {
	r, err := g.open(repo)
	if err != nil {
		return nil, err
	}
	if commit != "" {
		return g.commitStatus(ctx, r, commit)
	}

	wt, err := r.Worktree()
	if err != nil {
		return nil, fmt.Errorf("get worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("get status: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(status))
	for path := range status {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var files []FileStatus
	for _, path := range paths {
		fs := status[path]
		kind, ok := statusFromPorcelain(string([]byte{byte(fs.Staging), byte(fs.Worktree)}))
		if !ok {
			continue
		}
		files = append(files, FileStatus{Path: path, Status: kind})
	}
	return files, nil
}

func (g *GoGitClient) commitStatus(ctx context.Context, r *gogit.Repository, commit string) ([]FileStatus, error) {
	c, err := g.resolveCommit(r, commit)
	if err != nil {
		return nil, err
	}
	tree, err := c.Tree()
	if err != nil {
		return nil, err
	}
	parentTree, _, err := firstParentTree(c)
	if err != nil {
		return nil, err
	}

	changes, err := object.DiffTreeWithOptions(ctx, parentTree, tree, nil)
	if err != nil {
		return nil, fmt.Errorf("diff tree: %w", err)
	}

	var files []FileStatus
	for _, ch := range changes {
		action, err := ch.Action()
		if err != nil {
			return nil, err
		}
		switch action {
		case merkletrie.Insert:
			files = append(files, FileStatus{Path: ch.To.Name, Status: StatusAdded})
		case merkletrie.Delete:
			files = append(files, FileStatus{Path: ch.From.Name, Status: StatusRemoved})
		default:
			files = append(files, FileStatus{Path: ch.To.Name, Status: StatusModified})
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// FetchDiff returns the unified diff of path between HEAD and the working
// tree, or between commit and its first parent
func (g *GoGitClient) FetchDiff(ctx context.Context, repo, path, commit string) (string, error) {
	r, err := g.open(repo)
	if err != nil {
		return "", err
	}

	var before, after []byte
	var hasBefore, hasAfter bool

	if commit != "" {
		c, err := g.resolveCommit(r, commit)
		if err != nil {
			return "", err
		}
		if after, hasAfter, err = commitFile(c, path); err != nil {
			return "", err
		}
		_, parent, err := firstParentTree(c)
		if err != nil {
			return "", err
		}
		if before, hasBefore, err = commitFile(parent, path); err != nil {
			return "", err
		}
	} else {
		head, err := g.headCommit(r)
		if err != nil {
			return "", err
		}
		if before, hasBefore, err = commitFile(head, path); err != nil {
			return "", err
		}
		wt, err := r.Worktree()
		if err != nil {
			return "", fmt.Errorf("get worktree: %w", err)
		}
		if after, hasAfter, err = worktreeFile(wt, path); err != nil {
			return "", err
		}
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	return unifiedDiff(path, before, after, hasBefore, hasAfter)
}

func commitFile(c *object.Commit, path string) ([]byte, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	f, err := c.File(path)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read %s at %s: %w", path, shortHash(c.Hash), err)
	}
	rd, err := f.Reader()
	if err != nil {
		return nil, false, err
	}
	defer rd.Close()
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", path, err)
	}
	return data, true, nil
}

func worktreeFile(wt *gogit.Worktree, path string) ([]byte, bool, error) {
	f, err := wt.Filesystem.Open(path)
	if err != nil {
		return nil, false, nil
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", path, err)
	}
	return data, true, nil
}

func unifiedDiff(path string, before, after []byte, hasBefore, hasAfter bool) (string, error) {
	if hasBefore == hasAfter && string(before) == string(after) {
		return "", nil
	}

	from, to := "a/"+path, "b/"+path
	if !hasBefore {
		from = "/dev/null"
	}
	if !hasAfter {
		to = "/dev/null"
	}

	for _, data := range [][]byte{before, after} {
		isBin, err := binary.IsBinary(strings.NewReader(string(data)))
		if err != nil {
			return "", err
		}
		if isBin {
			return fmt.Sprintf("Binary files %s and %s differ\n", from, to), nil
		}
	}

	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitContent(string(before)),
		B:        splitContent(string(after)),
		FromFile: from,
		ToFile:   to,
		Context:  DiffContext,
	})
}

// splitContent splits text into newline terminated lines as difflib expects.
// A missing final newline is added so the last line is not glued to the
// next one in the output.
func splitContent(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if last := lines[len(lines)-1]; !strings.HasSuffix(last, "\n") {
		lines[len(lines)-1] = last + "\n"
	}
	return lines
}

// ResolveWorkingCopyPath returns the absolute location of path inside repo
func (g *GoGitClient) ResolveWorkingCopyPath(repo, path string) (string, error) {
	return resolvePath(repo, path)
}

// Log returns up to limit commits reachable from HEAD
func (g *GoGitClient) Log(ctx context.Context, repo string, limit int) ([]Commit, error) {
	r, err := g.open(repo)
	if err != nil {
		return nil, err
	}
	ref, err := r.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get HEAD: %w", err)
	}

	iter, err := r.Log(&gogit.LogOptions{From: ref.Hash()})
	if err != nil {
		return nil, fmt.Errorf("log: %w", err)
	}
	defer iter.Close()

	var commits []Commit
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if limit > 0 && len(commits) >= limit {
			return storer.ErrStop
		}
		subject, _, _ := strings.Cut(strings.TrimSpace(c.Message), "\n")
		commits = append(commits, Commit{
			Hash:    shortHash(c.Hash),
			Subject: subject,
			Author:  c.Author.Name,
			Date:    relativeTime(c.Committer.When),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return commits, nil
}

func shortHash(h plumbing.Hash) string {
	s := h.String()
	if len(s) > 7 {
		return s[:7]
	}
	return s
}
