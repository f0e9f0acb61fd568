package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

// emptyTree is the id of the empty tree object, used to diff a repository
// that has no commits yet.
const emptyTree = "4b825dc642cb6eb9a060e54bf8d69288fbee4904"

var (
	safeArg     = regexp.MustCompile(`^[a-z][a-z-]*$`)
	urlCreds    = regexp.MustCompile(`https?://[^\s@]+@`)
	tokenAssign = regexp.MustCompile(`(?i)(token|secret|password|passwd|bearer)=[^\s]+`)
)

// ExecClient implements the Client interface using the git CLI
type ExecClient struct {
	gitBin string
}

// NewExecClient creates a new git client. An empty gitBin means "git" on PATH.
func NewExecClient(gitBin string) *ExecClient {
	if strings.TrimSpace(gitBin) == "" {
		gitBin = "git"
	}
	return &ExecClient{gitBin: gitBin}
}

// run executes git in repo and returns stdout. okCodes lists non-zero exit
// codes that still count as success.
func (c *ExecClient) run(ctx context.Context, repo string, okCodes []int, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, c.gitBin, args...)
	if strings.TrimSpace(repo) != "" {
		cmd.Dir = repo
	}
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			for _, code := range okCodes {
				if exitErr.ExitCode() == code {
					return out.String(), nil
				}
			}
		}
		msg := strings.TrimSpace(errb.String())
		if msg == "" {
			msg = strings.TrimSpace(out.String())
		}
		if msg == "" {
			msg = err.Error()
		}
		if strings.Contains(msg, "not a git repository") {
			return "", fmt.Errorf("%w: %s", ErrNotRepository, repo)
		}
		return "", fmt.Errorf("git %s: %s", sanitizeArgs(args), redactTokens(msg))
	}
	return out.String(), nil
}

// sanitizeArgs keeps at most the first two subcommand words so paths and
// urls never end up in error messages.
func sanitizeArgs(args []string) string {
	safe := make([]string, 0, 2)
	for _, a := range args {
		if !safeArg.MatchString(a) {
			break
		}
		safe = append(safe, a)
		if len(safe) == 2 {
			break
		}
	}
	if len(safe) == 0 {
		return "<redacted>"
	}
	return strings.Join(safe, " ")
}

// redactTokens removes obvious credential substrings from messages.
func redactTokens(s string) string {
	s = urlCreds.ReplaceAllString(s, "https://<redacted>@")
	return tokenAssign.ReplaceAllString(s, "$1=<redacted>")
}

// IsRepo returns true if repo is inside a git working copy
func (c *ExecClient) IsRepo(repo string) bool {
	_, err := c.run(context.Background(), repo, nil, "rev-parse", "--git-dir")
	return err == nil
}

// Root returns the top level directory of the working copy containing dir
func (c *ExecClient) Root(ctx context.Context, dir string) (string, error) {
	out, err := c.run(ctx, dir, nil, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// CurrentBranch returns the current branch name
func (c *ExecClient) CurrentBranch(ctx context.Context, repo string) (string, error) {
	out, err := c.run(ctx, repo, nil, "branch", "--show-current")
	if err != nil {
		return "", err
	}
	branch := strings.TrimSpace(out)
	if branch == "" {
		// Detached HEAD
		out, err = c.run(ctx, repo, nil, "rev-parse", "--short", "HEAD")
		if err != nil {
			return "", nil
		}
		branch = strings.TrimSpace(out)
	}
	return branch, nil
}

func (c *ExecClient) hasHead(ctx context.Context, repo string) bool {
	_, err := c.run(ctx, repo, nil, "rev-parse", "--verify", "--quiet", "HEAD")
	return err == nil
}

// FetchFileStatusList returns the changed files of the working copy, or of
// commit when it is not empty
func (c *ExecClient) FetchFileStatusList(ctx context.Context, repo, commit string) ([]FileStatus, error) {
	if commit != "" {
		out, err := c.run(ctx, repo, nil,
			"diff-tree", "--no-commit-id", "--name-status", "-r", "--root", "-m", "--first-parent", commit)
		if err != nil {
			return nil, err
		}
		return parseNameStatus(out), nil
	}

	out, err := c.run(ctx, repo, nil, "status", "--porcelain", "--untracked-files=all")
	if err != nil {
		return nil, err
	}
	return parseStatus(out), nil
}

// FetchDiff returns the raw unified diff of path in the working copy, or in
// commit when it is not empty
func (c *ExecClient) FetchDiff(ctx context.Context, repo, path, commit string) (string, error) {
	if commit != "" {
		return c.run(ctx, repo, nil,
			"diff-tree", "-p", "--no-color", "--root", "-m", "--first-parent", commit, "--", path)
	}

	base := "HEAD"
	if !c.hasHead(ctx, repo) {
		base = emptyTree
	}
	out, err := c.run(ctx, repo, nil, "diff", "--no-color", base, "--", path)
	if err != nil || out != "" {
		return out, err
	}

	// Untracked files have no diff against HEAD
	status, err := c.run(ctx, repo, nil, "status", "--porcelain", "--untracked-files=all", "--", path)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(status, "??") {
		return "", nil
	}
	return c.run(ctx, repo, []int{1}, "diff", "--no-color", "--no-index", "--", "/dev/null", path)
}

// ResolveWorkingCopyPath returns the absolute location of path inside repo
func (c *ExecClient) ResolveWorkingCopyPath(repo, path string) (string, error) {
	return resolvePath(repo, path)
}

// Log returns up to limit commits reachable from HEAD
func (c *ExecClient) Log(ctx context.Context, repo string, limit int) ([]Commit, error) {
	if !c.hasHead(ctx, repo) {
		return nil, nil
	}
	args := []string{"log", "--format=%h|%s|%an|%cr"}
	if limit > 0 {
		args = append(args, fmt.Sprintf("-n%d", limit))
	}
	out, err := c.run(ctx, repo, nil, args...)
	if err != nil {
		return nil, err
	}
	return parseLog(out), nil
}

func resolvePath(repo, path string) (string, error) {
	if path == "" {
		return "", errors.New("empty path")
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	root, err := filepath.Abs(repo)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", repo, err)
	}
	return filepath.Join(root, filepath.FromSlash(path)), nil
}
