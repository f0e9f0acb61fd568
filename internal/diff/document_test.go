package diff_test

import (
	"testing"

	"github.com/kmacinski/tinydiff/internal/diff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(raw string) diff.Document {
	return diff.Build(diff.ClassifyAll(diff.SplitLines(raw)))
}

func TestBuild_SingleHunk(t *testing.T) {
	t.Parallel()

	doc := build("@@ -1,2 +1,3 @@\n context\n-old\n+new1\n+new2\n")

	require.False(t, doc.Empty)
	require.Len(t, doc.Rows, 5)
	assert.Equal(t, diff.DisplayRow{Kind: diff.RowHeader, Content: "@@ -1,2 +1,3 @@"}, doc.Rows[0])
	assert.Equal(t, diff.DisplayRow{OldLine: diff.At(1), NewLine: diff.At(1), Kind: diff.RowContext, Content: " context"}, doc.Rows[1])
	assert.Equal(t, diff.DisplayRow{OldLine: diff.At(2), Kind: diff.RowRemoved, Content: "old"}, doc.Rows[2])
	assert.Equal(t, diff.DisplayRow{NewLine: diff.At(2), Kind: diff.RowAdded, Content: "new1"}, doc.Rows[3])
	assert.Equal(t, diff.DisplayRow{NewLine: diff.At(3), Kind: diff.RowAdded, Content: "new2"}, doc.Rows[4])

	assert.Equal(t, diff.Stats{Added: 2, Removed: 1, Hunks: 1}, doc.Stats())
}

func TestBuild_DropsFileHeaders(t *testing.T) {
	t.Parallel()

	raw := "diff --git a/main.go b/main.go\n" +
		"index 83db48f..bf269f4 100644\n" +
		"--- a/main.go\n" +
		"+++ b/main.go\n" +
		"@@ -3 +3 @@\n" +
		"-a\n" +
		"+b\n"
	doc := build(raw)

	require.Len(t, doc.Rows, 3)
	assert.Equal(t, diff.RowHeader, doc.Rows[0].Kind)
	assert.Equal(t, "@@ -3,1 +3,1 @@", doc.Rows[0].Content)
	assert.Equal(t, diff.At(3), doc.Rows[1].OldLine)
	assert.Equal(t, diff.At(3), doc.Rows[2].NewLine)
}

func TestBuild_CountersResetPerHunk(t *testing.T) {
	t.Parallel()

	raw := "@@ -1,3 +1,3 @@\n" +
		" a\n" +
		"-b\n" +
		"+B\n" +
		" c\n" +
		"@@ -20,2 +20,3 @@\n" +
		" x\n" +
		"+y\n" +
		" z\n"
	doc := build(raw)

	require.Len(t, doc.Rows, 9)
	assert.Equal(t, "@@ -20,2 +20,3 @@", doc.Rows[5].Content)
	assert.Equal(t, diff.At(20), doc.Rows[6].OldLine)
	assert.Equal(t, diff.At(20), doc.Rows[6].NewLine)
	assert.Equal(t, diff.At(21), doc.Rows[7].NewLine)
	assert.False(t, doc.Rows[7].OldLine.Valid)
	assert.Equal(t, diff.At(21), doc.Rows[8].OldLine)
	assert.Equal(t, diff.At(22), doc.Rows[8].NewLine)
}

func TestBuild_RowCountsMatchHeader(t *testing.T) {
	t.Parallel()

	raw := "@@ -10,4 +10,5 @@\n" +
		" one\n" +
		"-two\n" +
		"-three\n" +
		"+TWO\n" +
		"+THREE\n" +
		"+FOUR\n" +
		" five\n" +
		"@@ -40,2 +41 @@\n" +
		"-gone\n" +
		" kept\n"
	doc := build(raw)

	type counts struct{ old, new int }
	var perHunk []counts
	for _, r := range doc.Rows {
		if r.Kind == diff.RowHeader {
			perHunk = append(perHunk, counts{})
			continue
		}
		c := &perHunk[len(perHunk)-1]
		if r.OldLine.Valid {
			c.old++
		}
		if r.NewLine.Valid {
			c.new++
		}
	}

	assert.Equal(t, []counts{{old: 4, new: 5}, {old: 2, new: 1}}, perHunk)
}

func TestBuild_LineNumbersIncreaseByOne(t *testing.T) {
	t.Parallel()

	raw := "@@ -5,6 +5,6 @@\n" +
		" a\n" +
		"-b\n" +
		"-c\n" +
		"+C\n" +
		" d\n" +
		"+e\n" +
		" f\n" +
		" g\n"
	doc := build(raw)

	var olds, news []int
	for _, r := range doc.Rows {
		if r.OldLine.Valid {
			olds = append(olds, r.OldLine.N)
		}
		if r.NewLine.Valid {
			news = append(news, r.NewLine.N)
		}
	}
	assert.Equal(t, []int{5, 6, 7, 8, 9, 10}, olds)
	assert.Equal(t, []int{5, 6, 7, 8, 9, 10}, news)
}

func TestBuild_NoNewlineMarker(t *testing.T) {
	t.Parallel()

	raw := "@@ -1 +1 @@\n" +
		"-old\n" +
		"\\ No newline at end of file\n" +
		"+new\n" +
		"\\ No newline at end of file\n"
	doc := build(raw)

	require.Len(t, doc.Rows, 5)
	assert.Equal(t, diff.DisplayRow{Kind: diff.RowEndOfFile, Content: `\ No newline at end of file`}, doc.Rows[2])
	assert.Equal(t, diff.At(1), doc.Rows[3].NewLine)
	assert.Equal(t, diff.RowEndOfFile, doc.Rows[4].Kind)
}

func TestBuild_CRLF(t *testing.T) {
	t.Parallel()

	doc := build("@@ -1 +1 @@\r\n-a\r\n+b\r\n")

	require.Len(t, doc.Rows, 3)
	assert.Equal(t, "a", doc.Rows[1].Content)
	assert.Equal(t, "b", doc.Rows[2].Content)
}

func TestBuild_MalformedHunkDegrades(t *testing.T) {
	t.Parallel()

	raw := "@@ -1,2 +1,2 @@\n" +
		" a\n" +
		"-b\n" +
		"+c\n" +
		"@@ broken @@\n" +
		" d\n" +
		"+e\n" +
		"@@ -30 +30 @@\n" +
		"-f\n" +
		"+g\n"
	doc := build(raw)

	require.Len(t, doc.Rows, 10)
	assert.Equal(t, 1, doc.Malformed)
	assert.Equal(t, diff.DisplayRow{Kind: diff.RowHeader, Content: "@@ broken @@"}, doc.Rows[4])
	assert.Equal(t, diff.DisplayRow{Kind: diff.RowContext, Content: " d"}, doc.Rows[5])
	assert.Equal(t, diff.DisplayRow{Kind: diff.RowContext, Content: "+e"}, doc.Rows[6])

	assert.Equal(t, "@@ -30,1 +30,1 @@", doc.Rows[7].Content)
	assert.Equal(t, diff.DisplayRow{OldLine: diff.At(30), Kind: diff.RowRemoved, Content: "f"}, doc.Rows[8])
	assert.Equal(t, diff.DisplayRow{NewLine: diff.At(30), Kind: diff.RowAdded, Content: "g"}, doc.Rows[9])
}

func TestBuild_EmptyInputYieldsPlaceholder(t *testing.T) {
	t.Parallel()

	for name, lines := range map[string][]diff.Line{
		"nil":         nil,
		"no hunks":    diff.ClassifyAll([]string{"diff --git a/x b/x", "index 1..2"}),
		"empty slice": {},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			doc := diff.Build(lines)
			assert.Equal(t, diff.Placeholder(""), doc)
			assert.True(t, doc.Empty)
		})
	}
}

func TestBuild_Idempotent(t *testing.T) {
	t.Parallel()

	lines := diff.ClassifyAll(diff.SplitLines("@@ -1,3 +1,3 @@\n a\n-b\n+c\n d\n\\ No newline at end of file\n"))

	assert.Equal(t, diff.Build(lines), diff.Build(lines))
}

func TestPlaceholder(t *testing.T) {
	t.Parallel()

	doc := diff.Placeholder("/repo/logo.png")

	require.Len(t, doc.Rows, 1)
	assert.True(t, doc.Empty)
	assert.Equal(t, diff.RowHeader, doc.Rows[0].Kind)
	assert.Equal(t, diff.PlaceholderText, doc.Rows[0].Content)
	assert.Equal(t, "/repo/logo.png", doc.ImagePath)
	assert.Equal(t, diff.Stats{}, doc.Stats())
}
