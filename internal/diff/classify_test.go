package diff_test

import (
	"testing"

	"github.com/kmacinski/tinydiff/internal/diff"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected diff.Line
	}{
		{"@@ -1 +1 @@", diff.Line{Kind: diff.KindHunkHeader, Text: "@@ -1 +1 @@"}},
		{"+added", diff.Line{Kind: diff.KindAddition, Text: "added"}},
		{"+", diff.Line{Kind: diff.KindAddition, Text: ""}},
		{"-removed", diff.Line{Kind: diff.KindDeletion, Text: "removed"}},
		{"--x", diff.Line{Kind: diff.KindDeletion, Text: "-x"}},
		{`\ No newline at end of file`, diff.Line{Kind: diff.KindNoNewline, Text: `\ No newline at end of file`}},
		{" context", diff.Line{Kind: diff.KindContext, Text: " context"}},
		{"", diff.Line{Kind: diff.KindContext, Text: ""}},
		{"@ single at", diff.Line{Kind: diff.KindContext, Text: "@ single at"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, diff.Classify(tt.input))
		})
	}
}

func TestSplitLines(t *testing.T) {
	t.Parallel()

	assert.Nil(t, diff.SplitLines(""))
	assert.Equal(t, []string{"a", "b"}, diff.SplitLines("a\nb\n"))
	assert.Equal(t, []string{"a", "b"}, diff.SplitLines("a\r\nb"))
	assert.Equal(t, []string{"a", ""}, diff.SplitLines("a\n\n"))
}

func TestDropPreamble(t *testing.T) {
	t.Parallel()

	lines := []string{
		"diff --git a/f b/f",
		"--- a/f",
		"+++ b/f",
		"@@ -1 +1 @@",
		"-x",
		"+++ not a header inside a hunk",
	}

	assert.Equal(t, lines[3:], diff.DropPreamble(lines))
	assert.Nil(t, diff.DropPreamble(lines[:3]))
}

func TestClassifyAll(t *testing.T) {
	t.Parallel()

	got := diff.ClassifyAll([]string{"--- a/f", "+++ b/f", "@@ -1 +1 @@", "-x", "+y"})

	assert.Equal(t, []diff.Line{
		{Kind: diff.KindHunkHeader, Text: "@@ -1 +1 @@"},
		{Kind: diff.KindDeletion, Text: "x"},
		{Kind: diff.KindAddition, Text: "y"},
	}, got)
}
