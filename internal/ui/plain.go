package ui

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"sortd/internal/event"
	"sortd/internal/stats"
)

// plainPresenter outputs one line per placed file to stdout, and a periodic
// percent-complete line to stderr.
type plainPresenter struct {
	w          io.Writer
	errW       io.Writer
	stats      *stats.Collector
	root       string
	verbose    bool
	noProgress bool
}

func (p *plainPresenter) Run(events <-chan event.Event) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			p.handleEvent(ev)
		case <-ticker.C:
			p.stats.Tick()
			if !p.noProgress {
				p.printProgress()
			}
		}
	}
}

func (p *plainPresenter) handleEvent(ev event.Event) {
	switch ev.Type {
	case event.ScanComplete:
		fmt.Fprintf(p.errW, "queued %s files\n", FormatCount(ev.Total))
	case event.FileMoved:
		fmt.Fprintf(p.w, "%s -> %s\n", p.rel(ev.Path), p.rel(ev.Dest))
	case event.FileDuplicate:
		fmt.Fprintf(p.w, "%s -> %s (duplicate)\n", p.rel(ev.Path), p.rel(ev.Dest))
	case event.FileSkipped:
		if p.verbose {
			fmt.Fprintf(p.w, "%s skipped\n", p.rel(ev.Path))
		}
	case event.FileFailed:
		errMsg := "error"
		if ev.Error != nil {
			errMsg = ev.Error.Error()
		}
		fmt.Fprintf(p.errW, "%s FAILED: %s\n", p.rel(ev.Path), errMsg)
	case event.DirPruned:
		fmt.Fprintf(p.w, "pruned %d empty directories\n", ev.Total)
	}
}

func (p *plainPresenter) printProgress() {
	snap := p.stats.Snapshot()
	if snap.FilesQueued == 0 {
		return
	}
	fmt.Fprintf(p.errW, "progress: %.0f%% (%s/%s files, %.0f/s)\n",
		snap.Percent(),
		FormatCount(snap.Done()), FormatCount(snap.FilesQueued),
		p.stats.RollingFilesPerSec(10),
	)
}

func (p *plainPresenter) Summary() string {
	return CompletionSummary(p.stats.Snapshot())
}

// rel shortens paths under the run root for display.
func (p *plainPresenter) rel(path string) string {
	if p.root == "" {
		return path
	}
	if r, err := filepath.Rel(p.root, path); err == nil && !filepath.IsAbs(r) {
		return r
	}
	return path
}
