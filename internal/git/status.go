package git

import (
	"strconv"
	"strings"
)

// unmerged porcelain codes
var conflictCodes = map[string]bool{
	"DD": true, "AU": true, "UD": true, "UA": true,
	"DU": true, "AA": true, "UU": true,
}

// statusFromPorcelain maps a two letter porcelain code to a StatusKind.
// Conflicts win over everything, index state wins over worktree state.
func statusFromPorcelain(code string) (StatusKind, bool) {
	if len(code) != 2 {
		return 0, false
	}
	x, y := code[0], code[1]
	switch {
	case conflictCodes[code]:
		return StatusConflict, true
	case code == "??":
		return StatusUntracked, true
	case x == 'A':
		return StatusAdded, true
	case x == 'D':
		return StatusRemoved, true
	case y == 'D':
		return StatusMissing, true
	case y == 'M' || y == 'T':
		return StatusModified, true
	case x == 'M' || x == 'R' || x == 'C' || x == 'T':
		return StatusChanged, true
	}
	return 0, false
}

func parseStatus(output string) []FileStatus {
	var files []FileStatus
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if len(line) < 4 {
			continue
		}
		status, ok := statusFromPorcelain(line[0:2])
		if !ok {
			continue
		}
		path := line[3:]
		// Renames are reported as "orig -> path"
		if i := strings.Index(path, " -> "); i >= 0 && (line[0] == 'R' || line[0] == 'C') {
			path = path[i+4:]
		}
		files = append(files, FileStatus{Path: unquotePath(path), Status: status})
	}
	return files
}

func parseNameStatus(output string) []FileStatus {
	var files []FileStatus
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) < 2 || parts[0] == "" {
			continue
		}
		path := parts[len(parts)-1] // Renames and copies list the new name last

		var status StatusKind
		switch parts[0][0] {
		case 'A':
			status = StatusAdded
		case 'D':
			status = StatusRemoved
		case 'U':
			status = StatusConflict
		case 'R', 'C', 'T':
			status = StatusChanged
		default:
			status = StatusModified
		}

		files = append(files, FileStatus{Path: unquotePath(path), Status: status})
	}
	return files
}

func parseLog(output string) []Commit {
	var commits []Commit
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "|", 4)
		if len(parts) < 4 {
			continue
		}
		commits = append(commits, Commit{
			Hash:    parts[0],
			Subject: parts[1],
			Author:  parts[2],
			Date:    parts[3],
		})
	}
	return commits
}

// unquotePath undoes git's C-style quoting of unusual file names
func unquotePath(p string) string {
	if len(p) < 2 || p[0] != '"' || p[len(p)-1] != '"' {
		return p
	}
	if s, err := strconv.Unquote(p); err == nil {
		return s
	}
	return p
}
