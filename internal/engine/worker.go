package engine

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"sortd/internal/event"
	"sortd/internal/stats"
)

// PoolConfig controls worker behavior.
type PoolConfig struct {
	Workers  int
	Queue    *Queue
	Index    *Index
	Ledger   *Ledger
	Resolver *Resolver
	Stats    *stats.Collector
	Events   chan<- event.Event
	Log      *slog.Logger
	DryRun   bool
}

// Pool is a fixed set of workers draining the shared queue. Each worker runs
// a tight claim/hash/resolve/move/record loop until the queue is empty. No
// per-file failure ever stops a worker.
type Pool struct {
	cfg PoolConfig
}

// NewPool creates a worker pool. Workers defaults to the CPU count.
func NewPool(cfg PoolConfig) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	return &Pool{cfg: cfg}
}

// Run starts the workers and blocks until the queue is drained (or the
// context is cancelled).
func (p *Pool) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < p.cfg.Workers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				default:
				}
				task, ok := p.cfg.Queue.TryDequeue()
				if !ok {
					return
				}
				p.process(task, i)
			}
		}()
	}
	wg.Wait()
}

// process runs one task through the per-task state machine:
// claimed -> skipped, or claimed -> hashed -> placed -> recorded.
func (p *Pool) process(task FileTask, workerID int) {
	log := p.cfg.Log

	// Resumption: paths recorded by a prior partial run are skipped.
	if p.cfg.Ledger.Contains(task.Path) {
		p.cfg.Stats.AddSkipped(1)
		p.emit(event.Event{Type: event.FileSkipped, Path: task.Path, WorkerID: workerID})
		log.Debug("skip recorded path", "path", task.Path)
		return
	}

	fp, n, err := HashFile(task.Path)
	if err != nil {
		p.fail(task, workerID, err)
		return
	}
	p.cfg.Stats.AddBytesHashed(n)

	place, err := p.cfg.Resolver.Resolve(task.Path, fp, p.cfg.Index)
	if err != nil {
		p.fail(task, workerID, err)
		return
	}

	if p.cfg.DryRun {
		p.finish(task, place, workerID)
		log.Info("would move", "path", task.Path, "dest", place.Target, "duplicate", place.Duplicate)
		return
	}

	if !place.InPlace {
		if err := os.MkdirAll(filepath.Dir(place.Target), 0755); err != nil {
			p.unplace(place, fp)
			p.fail(task, workerID, err)
			return
		}
		if err := os.Rename(task.Path, place.Target); err != nil {
			p.unplace(place, fp)
			p.fail(task, workerID, err)
			return
		}
	}

	// Record the destination first so a fully sorted tree is never
	// re-enqueued, then the source path for mid-run resumption.
	if err := p.cfg.Ledger.Record(place.Target); err != nil {
		p.fail(task, workerID, err)
		return
	}
	if task.Path != place.Target {
		if err := p.cfg.Ledger.Record(task.Path); err != nil {
			p.fail(task, workerID, err)
			return
		}
	}

	p.finish(task, place, workerID)

	switch {
	case place.InPlace:
		log.Info("already in place", "path", task.Path)
	case place.Duplicate:
		log.Info("duplicate", "path", task.Path, "dest", place.Target, "original", place.Canonical)
	default:
		log.Info("moved", "path", task.Path, "dest", place.Target)
	}
}

func (p *Pool) finish(task FileTask, place Placement, workerID int) {
	ev := event.Event{Path: task.Path, Dest: place.Target, Size: task.Size, WorkerID: workerID}
	if place.Duplicate {
		p.cfg.Stats.AddDuplicate(1)
		ev.Type = event.FileDuplicate
	} else {
		p.cfg.Stats.AddMoved(1)
		ev.Type = event.FileMoved
	}
	p.emit(ev)
}

// unplace rolls back a placement whose move failed: the destination name
// returns to the pool, and when this file was the canonical entry for its
// content the fingerprint is forgotten so a later identical file can still
// become the original.
func (p *Pool) unplace(place Placement, fp Fingerprint) {
	p.cfg.Resolver.Release(place.Target)
	if !place.Duplicate || place.Canonical == place.Target {
		p.cfg.Index.Forget(fp, place.Target)
	}
}

func (p *Pool) fail(task FileTask, workerID int, err error) {
	p.cfg.Stats.AddFailed(1)
	p.emit(event.Event{Type: event.FileFailed, Path: task.Path, Size: task.Size, WorkerID: workerID, Error: err})
	p.cfg.Log.Warn("task failed", "path", task.Path, "error", err)
}

func (p *Pool) emit(ev event.Event) {
	if p.cfg.Events == nil {
		return
	}
	ev.Timestamp = time.Now()
	select {
	case p.cfg.Events <- ev:
	default:
	}
}
