// Package pipeline fetches and renders the diff of the selected file off the
// UI thread, keeping at most one fetch eligible to publish at a time.
package pipeline

import "fmt"

// Selection identifies the diff to show. An empty Commit means the working
// copy. Selections are compared by value.
type Selection struct {
	Repository string
	Path       string
	Commit     string
}

// IsWorkingCopy reports whether the selection refers to uncommitted changes
func (s Selection) IsWorkingCopy() bool {
	return s.Commit == ""
}

func (s Selection) String() string {
	if s.IsWorkingCopy() {
		return fmt.Sprintf("%s:%s", s.Repository, s.Path)
	}
	return fmt.Sprintf("%s:%s@%s", s.Repository, s.Path, s.Commit)
}
