package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelevant(t *testing.T) {
	t.Parallel()

	for path, expected := range map[string]bool{
		".":                          true,
		"main.go":                    true,
		"pkg/a.go":                   true,
		"pkg/build.go":               true,
		".git":                       false,
		".git/index":                 true,
		".git/HEAD":                  true,
		".git/refs/heads/main":       true,
		".git/refs/heads/feature/x":  true,
		".git/refs/tags/v1":          false,
		".git/index.lock":            false,
		".git/objects/ab/cdef":       false,
		".git/logs/HEAD.lock":        false,
		"node_modules/x/index.js":    false,
		"build/out.o":                false,
		"web/.cache/build-state.bin": false,
	} {
		assert.Equal(t, expected, relevant(path), path)
	}
}

func TestGitWatcher_DebouncesPerRepo(t *testing.T) {
	t.Parallel()

	repoA := t.TempDir()
	repoB := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(repoA, "sub"), 0o755))

	var mu sync.Mutex
	changed := map[string]int{}
	notified := make(chan struct{}, 8)

	w, err := New(50*time.Millisecond, func(repo string) {
		mu.Lock()
		changed[repo]++
		mu.Unlock()
		notified <- struct{}{}
	}, nil)
	require.NoError(t, err)
	require.NoError(t, w.Add(repoA))
	require.NoError(t, w.Add(repoB))
	w.Start()
	defer w.Stop()

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(repoA, "sub", "f.txt"), []byte{byte(i)}, 0o644))
	}

	select {
	case <-notified:
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}
	time.Sleep(200 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	absA, _ := filepath.Abs(repoA)
	absB, _ := filepath.Abs(repoB)
	assert.Equal(t, 1, changed[absA])
	assert.Zero(t, changed[absB])
}

func TestGitWatcher_RepoBelowIgnoredName(t *testing.T) {
	t.Parallel()

	parent := t.TempDir()
	nested := filepath.Join(parent, "build", "proj")
	named := filepath.Join(parent, "dist")
	require.NoError(t, os.MkdirAll(filepath.Join(nested, "node_modules"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(named, "src"), 0o755))

	notified := make(chan string, 8)
	w, err := New(30*time.Millisecond, func(repo string) { notified <- repo }, nil)
	require.NoError(t, err)
	require.NoError(t, w.Add(nested))
	require.NoError(t, w.Add(named))
	w.Start()
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(nested, "node_modules", "x.js"), []byte("x"), 0o644))
	select {
	case repo := <-notified:
		t.Fatalf("ignored directory notified %s", repo)
	case <-time.After(200 * time.Millisecond):
	}

	for _, repo := range []string{nested, named} {
		target := filepath.Join(repo, "main.go")
		if repo == named {
			target = filepath.Join(repo, "src", "main.go")
		}
		require.NoError(t, os.WriteFile(target, []byte("package main\n"), 0o644))

		select {
		case got := <-notified:
			assert.Equal(t, repo, got)
		case <-time.After(5 * time.Second):
			t.Fatalf("no notification for %s", repo)
		}
	}
}

func TestGitWatcher_StopDropsPending(t *testing.T) {
	t.Parallel()

	repo := t.TempDir()
	called := make(chan string, 1)
	w, err := New(time.Hour, func(r string) { called <- r }, nil)
	require.NoError(t, err)
	require.NoError(t, w.Add(repo))

	w.schedule(repo)
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())

	select {
	case r := <-called:
		t.Fatalf("unexpected notification for %s", r)
	default:
	}
}

func TestGitWatcher_AddRejectsFiles(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	w, err := New(0, nil, nil)
	require.NoError(t, err)
	defer w.Stop()

	assert.Error(t, w.Add(file))
	assert.Error(t, w.Add(filepath.Join(t.TempDir(), "missing")))
}
