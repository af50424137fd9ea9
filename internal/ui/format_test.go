package ui_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"sortd/internal/stats"
	"sortd/internal/ui"
)

func TestFormatCount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0", ui.FormatCount(0))
	assert.Equal(t, "999", ui.FormatCount(999))
	assert.Equal(t, "1,234,567", ui.FormatCount(1234567))
}

func TestCompletionSummary(t *testing.T) {
	t.Parallel()

	s := stats.Snapshot{
		FilesQueued: 3,
		FilesMoved:  2,
		Duplicates:  1,
		BytesHashed: 3 * 1024 * 1024,
		Elapsed:     1502 * time.Millisecond,
	}
	got := ui.CompletionSummary(s)
	assert.Equal(t, "sorted 3 files (3.0 MiB hashed) in 1.5s: 2 moved, 1 duplicates", got)
}

func TestCompletionSummary_OptionalSegments(t *testing.T) {
	t.Parallel()

	s := stats.Snapshot{
		FilesMoved: 1,
		Skipped:    2,
		Failed:     3,
		DirsPruned: 4,
		Elapsed:    time.Second,
	}
	got := ui.CompletionSummary(s)
	assert.Contains(t, got, "2 skipped")
	assert.Contains(t, got, "3 FAILED")
	assert.Contains(t, got, "4 empty dirs pruned")
}
