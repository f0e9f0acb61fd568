package git

import (
	"context"
	"errors"
)

// ErrNotRepository is returned when a path is not inside a git working copy.
var ErrNotRepository = errors.New("not a git repository")

// StatusKind is the state of a file in the working copy or in a commit
type StatusKind int

const (
	StatusModified  StatusKind = iota // Changed in the working tree
	StatusConflict                    // Unmerged
	StatusAdded                       // New in the index
	StatusChanged                     // Modified in the index
	StatusRemoved                     // Deleted from the index
	StatusMissing                     // Deleted from the working tree only
	StatusUntracked                   // Not known to git
)

// String returns the single-letter marker shown in the file list
func (s StatusKind) String() string {
	switch s {
	case StatusModified:
		return "M"
	case StatusConflict:
		return "!"
	case StatusAdded:
		return "A"
	case StatusChanged:
		return "C"
	case StatusRemoved:
		return "D"
	case StatusMissing:
		return "-"
	case StatusUntracked:
		return "?"
	default:
		return " "
	}
}

// Name returns the lowercase name of the status
func (s StatusKind) Name() string {
	switch s {
	case StatusModified:
		return "modified"
	case StatusConflict:
		return "conflict"
	case StatusAdded:
		return "added"
	case StatusChanged:
		return "changed"
	case StatusRemoved:
		return "removed"
	case StatusMissing:
		return "missing"
	case StatusUntracked:
		return "untracked"
	default:
		return "unknown"
	}
}

// FileStatus represents a changed file and its status
type FileStatus struct {
	Path   string
	Status StatusKind
}

// Commit represents a git commit
type Commit struct {
	Hash    string
	Subject string
	Author  string
	Date    string
}

// Counts is the number of files per status, as shown next to the file list.
// Changed covers both index and working tree modifications.
type Counts struct {
	Conflict  int
	Added     int
	Changed   int
	Removed   int
	Missing   int
	Untracked int
}

// Total returns the number of files counted
func (c Counts) Total() int {
	return c.Conflict + c.Added + c.Changed + c.Removed + c.Missing + c.Untracked
}

// CountByKind tallies files by status
func CountByKind(files []FileStatus) Counts {
	var c Counts
	for _, f := range files {
		switch f.Status {
		case StatusConflict:
			c.Conflict++
		case StatusAdded:
			c.Added++
		case StatusChanged, StatusModified:
			c.Changed++
		case StatusRemoved:
			c.Removed++
		case StatusMissing:
			c.Missing++
		case StatusUntracked:
			c.Untracked++
		}
	}
	return c
}

// Client defines the interface for git operations. repo is the working copy
// root; an empty commit means the working copy.
type Client interface {
	// FetchDiff returns the raw unified diff of one file
	FetchDiff(ctx context.Context, repo, path, commit string) (string, error)

	// FetchFileStatusList returns the changed files of the working copy or a commit
	FetchFileStatusList(ctx context.Context, repo, commit string) ([]FileStatus, error)

	// ResolveWorkingCopyPath returns the absolute location of path
	ResolveWorkingCopyPath(repo, path string) (string, error)

	// Log returns up to limit commits reachable from HEAD
	Log(ctx context.Context, repo string, limit int) ([]Commit, error)

	// CurrentBranch returns the current branch name
	CurrentBranch(ctx context.Context, repo string) (string, error)

	// IsRepo returns true if repo is a git repository
	IsRepo(repo string) bool
}

// Rooter is implemented by clients that can find the top level directory of
// the working copy containing a path
type Rooter interface {
	Root(ctx context.Context, dir string) (string, error)
}
