package diff

import (
	"regexp"
	"strings"
)

// LineKind classifies one raw line of diff text.
type LineKind int

const (
	KindContext LineKind = iota
	KindHunkHeader
	KindAddition
	KindDeletion
	KindNoNewline // "\ No newline at end of file"
)

func (k LineKind) String() string {
	switch k {
	case KindHunkHeader:
		return "hunk-header"
	case KindAddition:
		return "addition"
	case KindDeletion:
		return "deletion"
	case KindNoNewline:
		return "no-newline"
	default:
		return "context"
	}
}

// Line is a classified raw line. Text has the marker stripped for additions
// and deletions only.
type Line struct {
	Kind LineKind
	Text string
}

// Classify looks at the first characters of raw and nothing else. File header
// lines ("---", "+++") must be dropped before calling it.
func Classify(raw string) Line {
	switch {
	case strings.HasPrefix(raw, "@@"):
		return Line{Kind: KindHunkHeader, Text: raw}
	case strings.HasPrefix(raw, "+"):
		return Line{Kind: KindAddition, Text: raw[1:]}
	case strings.HasPrefix(raw, "-"):
		return Line{Kind: KindDeletion, Text: raw[1:]}
	case strings.HasPrefix(raw, `\`):
		return Line{Kind: KindNoNewline, Text: raw}
	default:
		return Line{Kind: KindContext, Text: raw}
	}
}

var lineBreak = regexp.MustCompile(`\r?\n`)

// SplitLines splits raw diff text on line terminators. The empty segment left
// by a final terminator is not a line and is dropped.
func SplitLines(raw string) []string {
	if raw == "" {
		return nil
	}
	lines := lineBreak.Split(raw, -1)
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// DropPreamble removes everything before the first hunk header: the
// "diff --git", "index", "---" and "+++" lines.
func DropPreamble(lines []string) []string {
	for i, l := range lines {
		if strings.HasPrefix(l, "@@") {
			return lines[i:]
		}
	}
	return nil
}

// ClassifyAll drops the preamble and classifies the remaining lines in order.
func ClassifyAll(lines []string) []Line {
	body := DropPreamble(lines)
	if len(body) == 0 {
		return nil
	}
	out := make([]Line, 0, len(body))
	for _, l := range body {
		out = append(out, Classify(l))
	}
	return out
}
