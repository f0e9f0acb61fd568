package git

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	t.Parallel()

	out := "UU both.go\n" +
		"?? new dir/untracked.txt\n" +
		"A  added.go\n" +
		"AM added-then-edited.go\n" +
		"D  removed.go\n" +
		" D missing.go\n" +
		" M edited.go\n" +
		"MM staged-and-edited.go\n" +
		"M  staged.go\n" +
		"R  old.go -> renamed.go\n" +
		"?? \"caf\\303\\251.txt\"\n" +
		"!! ignored.log\n"

	assert.Equal(t, []FileStatus{
		{Path: "both.go", Status: StatusConflict},
		{Path: "new dir/untracked.txt", Status: StatusUntracked},
		{Path: "added.go", Status: StatusAdded},
		{Path: "added-then-edited.go", Status: StatusAdded},
		{Path: "removed.go", Status: StatusRemoved},
		{Path: "missing.go", Status: StatusMissing},
		{Path: "edited.go", Status: StatusModified},
		{Path: "staged-and-edited.go", Status: StatusModified},
		{Path: "staged.go", Status: StatusChanged},
		{Path: "renamed.go", Status: StatusChanged},
		{Path: "café.txt", Status: StatusUntracked},
	}, parseStatus(out))
}

func TestParseStatus_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, parseStatus(""))
	assert.Empty(t, parseStatus("\n"))
}

func TestParseNameStatus(t *testing.T) {
	t.Parallel()

	out := "A\tnew.go\nD\tgone.go\nM\tedited.go\nR087\told.go\tnew-name.go\nT\tlink\n"

	assert.Equal(t, []FileStatus{
		{Path: "new.go", Status: StatusAdded},
		{Path: "gone.go", Status: StatusRemoved},
		{Path: "edited.go", Status: StatusModified},
		{Path: "new-name.go", Status: StatusChanged},
		{Path: "link", Status: StatusChanged},
	}, parseNameStatus(out))
}

func TestParseLog(t *testing.T) {
	t.Parallel()

	out := "abc1234|Fix | in subject|Jane|2 hours ago\nbroken line\ndef5678|Init|Joe|3 days ago\n"

	assert.Equal(t, []Commit{
		{Hash: "abc1234", Subject: "Fix ", Author: " in subject", Date: "Jane|2 hours ago"},
		{Hash: "def5678", Subject: "Init", Author: "Joe", Date: "3 days ago"},
	}, parseLog(out))
}

func TestCountByKind(t *testing.T) {
	t.Parallel()

	c := CountByKind([]FileStatus{
		{Status: StatusConflict},
		{Status: StatusAdded},
		{Status: StatusAdded},
		{Status: StatusModified},
		{Status: StatusChanged},
		{Status: StatusRemoved},
		{Status: StatusMissing},
		{Status: StatusUntracked},
	})

	assert.Equal(t, Counts{Conflict: 1, Added: 2, Changed: 2, Removed: 1, Missing: 1, Untracked: 1}, c)
	assert.Equal(t, 8, c.Total())
}

func TestStatusKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "!", StatusConflict.String())
	assert.Equal(t, "?", StatusUntracked.String())
	assert.Equal(t, "-", StatusMissing.String())
	assert.Equal(t, "missing", StatusMissing.Name())
}

func TestRedaction(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "diff", sanitizeArgs([]string{"diff", "--no-color", "HEAD"}))
	assert.Equal(t, "rev-parse", sanitizeArgs([]string{"rev-parse", "--show-toplevel"}))
	assert.Equal(t, "status", sanitizeArgs([]string{"status", "HEAD", "secret.txt"}))
	assert.Equal(t, "<redacted>", sanitizeArgs([]string{"/tmp/x"}))

	msg := redactTokens("fatal: https://user:pw@example.com/repo token=abc123")
	assert.NotContains(t, msg, "pw@")
	assert.NotContains(t, msg, "abc123")
}

func TestRelativeTime(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	now = func() time.Time { return base }
	t.Cleanup(func() { now = time.Now })

	assert.Equal(t, "5 seconds ago", relativeTime(base.Add(-5*time.Second)))
	assert.Equal(t, "3 minutes ago", relativeTime(base.Add(-3*time.Minute)))
	assert.Equal(t, "2 hours ago", relativeTime(base.Add(-2*time.Hour)))
	assert.Equal(t, "3 days ago", relativeTime(base.Add(-72*time.Hour)))
	assert.Equal(t, "3 weeks ago", relativeTime(base.Add(-21*24*time.Hour)))
	assert.Equal(t, "in the future", relativeTime(base.Add(time.Hour)))
}
