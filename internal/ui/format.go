package ui

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"sortd/internal/stats"
)

// FormatCount formats an integer with comma separators.
func FormatCount(n int64) string {
	return humanize.Comma(n)
}

// CompletionSummary renders the end-of-run summary line.
func CompletionSummary(s stats.Snapshot) string {
	line := fmt.Sprintf("sorted %s files (%s hashed) in %s: %s moved, %s duplicates",
		FormatCount(s.Done()),
		humanize.IBytes(uint64(s.BytesHashed)),
		s.Elapsed.Round(10*time.Millisecond),
		FormatCount(s.FilesMoved),
		FormatCount(s.Duplicates),
	)
	if s.Skipped > 0 {
		line += fmt.Sprintf(", %s skipped", FormatCount(s.Skipped))
	}
	if s.Failed > 0 {
		line += fmt.Sprintf(", %s FAILED", FormatCount(s.Failed))
	}
	if s.DirsPruned > 0 {
		line += fmt.Sprintf(", %s empty dirs pruned", FormatCount(s.DirsPruned))
	}
	return line
}
