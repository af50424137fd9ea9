package ui_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sortd/internal/event"
	"sortd/internal/stats"
	"sortd/internal/ui"
)

func runPresenter(t *testing.T, cfg ui.Config, events ...event.Event) (*bytes.Buffer, *bytes.Buffer, ui.Presenter) {
	t.Helper()

	var out, errOut bytes.Buffer
	cfg.Writer = &out
	cfg.ErrWriter = &errOut
	if cfg.Stats == nil {
		cfg.Stats = stats.NewCollector()
	}
	p := ui.NewPresenter(cfg)

	ch := make(chan event.Event, len(events))
	for _, ev := range events {
		ch <- ev
	}
	close(ch)
	require.NoError(t, p.Run(ch))
	return &out, &errOut, p
}

func TestPlainPresenter_PerFileLines(t *testing.T) {
	t.Parallel()

	out, errOut, _ := runPresenter(t, ui.Config{Root: "/data"},
		event.Event{Type: event.ScanComplete, Total: 3},
		event.Event{Type: event.FileMoved, Path: "/data/a.txt", Dest: "/data/txt/a.txt"},
		event.Event{Type: event.FileDuplicate, Path: "/data/b.txt", Dest: "/data/txt/b_duplicate.txt"},
		event.Event{Type: event.FileFailed, Path: "/data/c.txt", Error: errors.New("permission denied")},
	)

	// Placements go to stdout; diagnostics (scan count, failures) to stderr.
	assert.Contains(t, out.String(), "a.txt -> txt/a.txt\n")
	assert.Contains(t, out.String(), "b.txt -> txt/b_duplicate.txt (duplicate)\n")
	assert.NotContains(t, out.String(), "FAILED")
	assert.Contains(t, errOut.String(), "queued 3 files\n")
	assert.Contains(t, errOut.String(), "c.txt FAILED: permission denied\n")
}

func TestPlainPresenter_SkippedOnlyWhenVerbose(t *testing.T) {
	t.Parallel()

	skip := event.Event{Type: event.FileSkipped, Path: "/data/old.txt"}

	out, _, _ := runPresenter(t, ui.Config{Root: "/data"}, skip)
	assert.NotContains(t, out.String(), "skipped")

	out, _, _ = runPresenter(t, ui.Config{Root: "/data", Verbose: true}, skip)
	assert.Contains(t, out.String(), "old.txt skipped\n")
}

func TestQuietPresenter_DrainsSilently(t *testing.T) {
	t.Parallel()

	out, errOut, p := runPresenter(t, ui.Config{Quiet: true},
		event.Event{Type: event.FileMoved, Path: "/data/a.txt", Dest: "/data/txt/a.txt"},
	)

	assert.Empty(t, out.String())
	assert.Empty(t, errOut.String())
	assert.Empty(t, p.Summary())
}

func TestPlainPresenter_SummaryUsesStats(t *testing.T) {
	t.Parallel()

	c := stats.NewCollector()
	c.AddMoved(2)
	_, _, p := runPresenter(t, ui.Config{Stats: c})

	assert.Contains(t, p.Summary(), "2 moved")
}
