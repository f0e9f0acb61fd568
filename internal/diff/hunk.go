// Package diff turns raw unified diff text into line-numbered display rows.
package diff

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrMalformedHunkHeader is returned when a hunk header lacks the old and new
// start offsets.
var ErrMalformedHunkHeader = errors.New("malformed hunk header")

// HunkHeader holds the ranges of a "@@ -a,b +c,d @@" line.
type HunkHeader struct {
	OldStart  int
	OldLength int
	NewStart  int
	NewLength int
}

// hunkRange matches the text between the "@@" markers: two start[,length]
// pairs separated by anything but digits and commas.
var hunkRange = regexp.MustCompile(`^[^\d,]*?(\d+)(?:,(\d+))?[^\d,]+?(\d+)(?:,(\d+))?[^\d,]*$`)

// ParseHunkHeader parses a line starting with "@@". Missing lengths default
// to 1. Anything after the closing "@@" (the section heading) is ignored.
func ParseHunkHeader(line string) (HunkHeader, error) {
	if !strings.HasPrefix(line, "@@") {
		return HunkHeader{}, fmt.Errorf("%w: %q", ErrMalformedHunkHeader, line)
	}
	inner := strings.TrimLeft(line, "@")
	if end := strings.Index(inner, "@@"); end >= 0 {
		inner = inner[:end]
	}

	m := hunkRange.FindStringSubmatch(inner)
	if m == nil {
		return HunkHeader{}, fmt.Errorf("%w: %q", ErrMalformedHunkHeader, line)
	}

	var h HunkHeader
	var err error
	if h.OldStart, err = atoiDefault(m[1], 0); err != nil {
		return HunkHeader{}, fmt.Errorf("%w: %q: %v", ErrMalformedHunkHeader, line, err)
	}
	if h.OldLength, err = atoiDefault(m[2], 1); err != nil {
		return HunkHeader{}, fmt.Errorf("%w: %q: %v", ErrMalformedHunkHeader, line, err)
	}
	if h.NewStart, err = atoiDefault(m[3], 0); err != nil {
		return HunkHeader{}, fmt.Errorf("%w: %q: %v", ErrMalformedHunkHeader, line, err)
	}
	if h.NewLength, err = atoiDefault(m[4], 1); err != nil {
		return HunkHeader{}, fmt.Errorf("%w: %q: %v", ErrMalformedHunkHeader, line, err)
	}
	return h, nil
}

// String formats the header with both counts spelled out.
func (h HunkHeader) String() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldLength, h.NewStart, h.NewLength)
}

func atoiDefault(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}
