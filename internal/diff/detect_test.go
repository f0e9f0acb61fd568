package diff_test

import (
	"testing"

	"github.com/kmacinski/tinydiff/internal/diff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetector_Detect(t *testing.T) {
	t.Parallel()

	d := diff.NewDetector()

	tests := []struct {
		name     string
		raw      string
		expected bool
	}{
		{"empty", "", true},
		{"whitespace", " \n\t\n", true},
		{"git binary", "Binary files a/x.png and b/x.png differ\n", true},
		{"git binary with preamble", "diff --git a/x.bin b/x.bin\nindex 1..2 100644\nBinary files a/x.bin and b/x.bin differ\n", true},
		{"jgit binary crlf", "diff --git a/x b/x\r\nBinary files differ\r\n", true},
		{"no trailing newline", "Binary files /dev/null and b/x differ", true},
		{"textual", "@@ -1 +1 @@\n-a\n+b\n", false},
		{"trailer not last", "Binary files a/x and b/x differ\n@@ -1 +1 @@\n+a\n", false},
		{"trailer as content", "@@ -1 +1 @@\n+Binary files a/x and b/x differ!\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, d.Detect(tt.raw))
		})
	}
}

func TestDetector_CustomTrailer(t *testing.T) {
	t.Parallel()

	d := diff.NewDetector(diff.WithTrailers("Binärdateien * und * sind verschieden."))

	assert.True(t, d.Detect("Binärdateien a/x und b/x sind verschieden.\n"))
	assert.False(t, d.Detect("Binary files a/x and b/x differ\n"))
}

func TestDetector_IsImage(t *testing.T) {
	t.Parallel()

	d := diff.NewDetector()

	for path, expected := range map[string]bool{
		"logo.png":          true,
		"photos/IMG.JPG":    true,
		"a.jpeg":            true,
		"anim.Gif":          true,
		"icon.svg":          false,
		"archive.tar.gz":    false,
		"no-extension":      false,
		"dir.png/README.md": false,
	} {
		assert.Equal(t, expected, d.IsImage(path), path)
	}

	custom := diff.NewDetector(diff.WithImageExtensions("webp", ".BMP"))
	assert.True(t, custom.IsImage("x.webp"))
	assert.True(t, custom.IsImage("x.bmp"))
	assert.False(t, custom.IsImage("x.png"))
}

func TestRenderer_Render(t *testing.T) {
	t.Parallel()

	r := diff.NewRenderer(nil)

	t.Run("blank text", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, diff.Placeholder(""), r.Render("", "/repo/x.go"))
	})

	t.Run("binary image", func(t *testing.T) {
		t.Parallel()
		doc := r.Render("Binary files a/x.PNG and b/x.PNG differ\n", "/repo/x.PNG")
		require.True(t, doc.Empty)
		require.Len(t, doc.Rows, 1)
		assert.Equal(t, "/repo/x.PNG", doc.ImagePath)
	})

	t.Run("binary non image", func(t *testing.T) {
		t.Parallel()
		doc := r.Render("Binary files a/x.pdf and b/x.pdf differ\n", "/repo/x.pdf")
		assert.True(t, doc.Empty)
		assert.Empty(t, doc.ImagePath)
	})

	t.Run("binary image without preview path", func(t *testing.T) {
		t.Parallel()
		doc := r.Render("Binary files a/x.gif and b/x.gif differ\n", "")
		assert.True(t, doc.Empty)
		assert.Empty(t, doc.ImagePath)
	})

	t.Run("textual", func(t *testing.T) {
		t.Parallel()
		doc := r.Render("@@ -1 +1 @@\n-a\n+b\n", "/repo/x.png")
		assert.False(t, doc.Empty)
		assert.Empty(t, doc.ImagePath)
		assert.Len(t, doc.Rows, 3)
	})
}
