package app

import "github.com/kmacinski/tinydiff/internal/git"

// FileSelectedMsg is sent when a file is selected in the file list
type FileSelectedMsg struct {
	Path string
}

// CommitSelectedMsg is sent when the commit list selection changes. An empty
// commit is the working copy.
type CommitSelectedMsg struct {
	Commit string
}

// RepoSelectedMsg is sent when another repository is selected
type RepoSelectedMsg struct {
	Root string
}

// RepoLoadedMsg carries everything loaded for one repository and commit.
// Refresh asks for the shown diff to be fetched again.
type RepoLoadedMsg struct {
	Repo    string
	Commit  string
	Files   []git.FileStatus
	Commits []git.Commit
	Branch  string
	Refresh bool
}

// RepoLoadFailedMsg is sent when loading a repository and commit fails
type RepoLoadFailedMsg struct {
	Repo   string
	Commit string
	Err    error
}

// RepoInfoMsg carries the list entry details of a repository that is not
// selected
type RepoInfoMsg struct {
	Repo    string
	Branch  string
	Changes int
}

// ErrorMsg is sent when an error occurs
type ErrorMsg struct {
	Err error
}

// GitChangedMsg is sent by the watcher when a working copy changed on disk
type GitChangedMsg struct {
	Repo string
}

// RefreshMsg triggers a refresh of all data
type RefreshMsg struct{}

// clearStatusMsg expires a status bar message
type clearStatusMsg struct {
	seq int
}
