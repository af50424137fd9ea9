package engine

import (
	"context"
	"io/fs"
	"strings"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"

	"sortd/internal/filter"
)

// ScanConfig controls the enumeration pass that seeds the work queue.
type ScanConfig struct {
	Root     string
	StateDir string             // never descended into
	Filter   *filter.Extensions // optional allow-list
	Ledger   *Ledger            // already-processed paths are not enqueued
}

// Scan walks the tree under Root in parallel and enqueues one FileTask per
// regular file that is not yet recorded in the ledger and passes the
// allow-list. It returns the number of tasks enqueued. Unreadable entries
// are skipped, not fatal.
func Scan(ctx context.Context, cfg ScanConfig, q *Queue) (int, error) {
	conf := fastwalk.Config{
		Follow: false,
	}

	var queued atomic.Int64
	err := fastwalk.Walk(&conf, cfg.Root, func(path string, d fs.DirEntry, walkErr error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if walkErr != nil {
			return nil // skip unreadable entries
		}
		if d.IsDir() {
			if cfg.StateDir != "" && path == cfg.StateDir {
				return fastwalk.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if cfg.StateDir != "" && strings.HasPrefix(path, cfg.StateDir+"/") {
			return nil
		}
		if cfg.Ledger.Contains(path) {
			return nil
		}
		if !cfg.Filter.Allows(path) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		q.Enqueue(FileTask{Path: path, Size: info.Size()})
		queued.Add(1)
		return nil
	})

	return int(queued.Load()), err
}
