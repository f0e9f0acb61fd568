package git

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePatch = `diff --git a/main.go b/main.go
index 1111111..2222222 100644
--- a/main.go
+++ b/main.go
@@ -1,3 +1,3 @@ package main
 package main
-var x = 1
+var x = 2
 func main() {}
diff --git a/new.txt b/new.txt
new file mode 100644
index 0000000..3333333
--- /dev/null
+++ b/new.txt
@@ -0,0 +1 @@
+no newline
\ No newline at end of file
diff --git a/old.txt b/old.txt
deleted file mode 100644
index 4444444..0000000
--- a/old.txt
+++ /dev/null
@@ -1 +0,0 @@
-bye
diff --git a/logo.png b/logo.png
index 5555555..6666666 100644
Binary files a/logo.png and b/logo.png differ
`

func TestPatchClient_FileStatusList(t *testing.T) {
	t.Parallel()

	c, err := NewPatchClientFromReader("sample.patch", strings.NewReader(samplePatch))
	require.NoError(t, err)

	files, err := c.FetchFileStatusList(context.Background(), "/repo", "")
	require.NoError(t, err)
	assert.Equal(t, []FileStatus{
		{Path: "main.go", Status: StatusModified},
		{Path: "new.txt", Status: StatusAdded},
		{Path: "old.txt", Status: StatusRemoved},
		{Path: "logo.png", Status: StatusModified},
	}, files)

	files, err = c.FetchFileStatusList(context.Background(), "/repo", "abc1234")
	require.NoError(t, err)
	assert.Empty(t, files)

	branch, err := c.CurrentBranch(context.Background(), "/repo")
	require.NoError(t, err)
	assert.Equal(t, "sample.patch", branch)
}

func TestPatchClient_FetchDiff(t *testing.T) {
	t.Parallel()

	c, err := NewPatchClientFromReader("sample.patch", strings.NewReader(samplePatch))
	require.NoError(t, err)
	ctx := context.Background()

	raw, err := c.FetchDiff(ctx, "/repo", "main.go", "")
	require.NoError(t, err)
	assert.Equal(t, "--- a/main.go\n+++ b/main.go\n"+
		"@@ -1,3 +1,3 @@ package main\n"+
		" package main\n-var x = 1\n+var x = 2\n func main() {}\n", raw)

	raw, err = c.FetchDiff(ctx, "/repo", "new.txt", "")
	require.NoError(t, err)
	assert.Equal(t, "--- /dev/null\n+++ b/new.txt\n"+
		"@@ -0,0 +1,1 @@\n+no newline\n\\ No newline at end of file\n", raw)

	raw, err = c.FetchDiff(ctx, "/repo", "logo.png", "")
	require.NoError(t, err)
	assert.Equal(t, "Binary files a/logo.png and b/logo.png differ\n", raw)

	raw, err = c.FetchDiff(ctx, "/repo", "unknown.go", "")
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestPatchClient_ReloadsFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "work.diff")
	require.NoError(t, os.WriteFile(path, []byte(samplePatch), 0o644))

	c, err := NewPatchClient(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))
	files, err := c.FetchFileStatusList(context.Background(), filepath.Dir(path), "")
	require.NoError(t, err)
	assert.Empty(t, files)
}
