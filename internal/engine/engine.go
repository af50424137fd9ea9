// Package engine implements the concurrent sort-and-deduplicate pipeline: a
// scan seeds a shared work queue, a fixed pool of workers hashes, classifies,
// deduplicates, and relocates each file exactly once, and an append-only
// ledger makes interrupted runs resumable.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"sortd/internal/event"
	"sortd/internal/filter"
	"sortd/internal/stats"
)

// DefaultStateDirName is the per-root directory holding the recovery ledger
// and operation log.
const DefaultStateDirName = ".sortd"

// Config describes a sort run.
type Config struct {
	Root       string
	Workers    int
	Extensions *filter.Extensions // optional allow-list
	Duplicates DuplicatePolicy
	StateDir   string // defaults to <root>/.sortd
	LedgerPath string // defaults to <state dir>/recovery.log
	DryRun     bool
	Cleanup    bool // prune empty directories after sorting
	Events     chan<- event.Event
	Stats      *stats.Collector
	Log        *slog.Logger
}

// Result is the outcome of a sort run.
type Result struct {
	Stats       stats.Snapshot
	NothingToDo bool
	Err         error
}

// Run executes a sort run, blocking until complete. Only setup errors are
// fatal; per-file failures are counted, logged, and retried on the next run.
func Run(ctx context.Context, cfg Config) Result {
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return Result{Err: fmt.Errorf("resolve root: %w", err)}
	}
	info, err := os.Stat(root)
	if err != nil {
		return Result{Err: fmt.Errorf("root directory: %w", err)}
	}
	if !info.IsDir() {
		return Result{Err: fmt.Errorf("root %s is not a directory", root)}
	}

	if cfg.StateDir == "" {
		cfg.StateDir = filepath.Join(root, DefaultStateDirName)
	}
	if cfg.LedgerPath == "" {
		cfg.LedgerPath = filepath.Join(cfg.StateDir, "recovery.log")
	}
	if cfg.Stats == nil {
		cfg.Stats = stats.NewCollector()
	}
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}

	ledger, err := OpenLedger(cfg.LedgerPath)
	if err != nil {
		return Result{Err: fmt.Errorf("recovery ledger: %w", err)}
	}
	defer ledger.Close()

	log.Info("starting sort", "root", root, "workers", cfg.Workers,
		"duplicates", cfg.Duplicates.String(), "recorded", ledger.Len())
	emit(cfg.Events, event.Event{Type: event.ScanStarted, Path: root})

	queue := NewQueue(64)
	total, err := Scan(ctx, ScanConfig{
		Root:     root,
		StateDir: cfg.StateDir,
		Filter:   cfg.Extensions,
		Ledger:   ledger,
	}, queue)
	if err != nil {
		return Result{Err: fmt.Errorf("scan %s: %w", root, err)}
	}

	cfg.Stats.SetTotal(int64(total))
	emit(cfg.Events, event.Event{Type: event.ScanComplete, Total: int64(total)})

	if total == 0 {
		log.Info("no files to process")
		return Result{Stats: cfg.Stats.Snapshot(), NothingToDo: true}
	}
	log.Info("scan complete", "files", total)

	pool := NewPool(PoolConfig{
		Workers:  cfg.Workers,
		Queue:    queue,
		Index:    &Index{},
		Ledger:   ledger,
		Resolver: NewResolver(root, cfg.Duplicates),
		Stats:    cfg.Stats,
		Events:   cfg.Events,
		Log:      log,
		DryRun:   cfg.DryRun,
	})
	pool.Run(ctx)

	if cfg.Cleanup && !cfg.DryRun && ctx.Err() == nil {
		pruned, err := RemoveEmptyDirs(root, cfg.StateDir)
		if err != nil {
			log.Warn("empty directory cleanup failed", "error", err)
		} else if pruned > 0 {
			cfg.Stats.AddDirsPruned(int64(pruned))
			emit(cfg.Events, event.Event{Type: event.DirPruned, Total: int64(pruned)})
			log.Info("pruned empty directories", "count", pruned)
		}
	}

	snap := cfg.Stats.Snapshot()
	emit(cfg.Events, event.Event{Type: event.RunComplete, Total: snap.Done()})
	log.Info("sort complete", "moved", snap.FilesMoved, "duplicates", snap.Duplicates,
		"skipped", snap.Skipped, "failed", snap.Failed)

	return Result{Stats: snap, Err: ctx.Err()}
}

func emit(events chan<- event.Event, ev event.Event) {
	if events == nil {
		return
	}
	ev.Timestamp = time.Now()
	select {
	case events <- ev:
	default:
	}
}
