package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// fixture is a repository with two commits and a dirty working tree:
//
//	root:   a.txt, img.png
//	second: a.txt edited, b.txt added
//	dirty:  a.txt edited again, b.txt deleted, c.txt untracked
type fixture struct {
	dir    string
	root   string
	second string
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	when := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	commit := func(msg string, files ...string) string {
		for _, f := range files {
			_, err := wt.Add(f)
			require.NoError(t, err)
		}
		sig := &object.Signature{Name: "Tess Ter", Email: "tess@example.com", When: when}
		hash, err := wt.Commit(msg, &gogit.CommitOptions{Author: sig, Committer: sig})
		require.NoError(t, err)
		when = when.Add(time.Hour)
		return hash.String()
	}

	write(t, dir, "a.txt", "one\ntwo\nthree\n")
	write(t, dir, "img.png", "\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR")
	root := commit("root", "a.txt", "img.png")

	write(t, dir, "a.txt", "one\n2\nthree\n")
	write(t, dir, "b.txt", "bee\n")
	second := commit("second\n\nwith a body", "a.txt", "b.txt")

	write(t, dir, "a.txt", "one\n2\nthree\nfour\n")
	require.NoError(t, os.Remove(filepath.Join(dir, "b.txt")))
	write(t, dir, "c.txt", "hello\n")

	return fixture{dir: dir, root: root, second: second}
}

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
