package stats

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

const ringSize = 60

// Collector tracks run statistics using lock-free atomic counters. It is a
// pure observer: workers only ever add to it, and nothing in the engine
// reads it back for control flow.
type Collector struct {
	filesQueued atomic.Int64
	filesMoved  atomic.Int64
	duplicates  atomic.Int64
	skipped     atomic.Int64
	failed      atomic.Int64
	bytesHashed atomic.Int64
	dirsPruned  atomic.Int64
	startTime   time.Time

	// Ring buffer, written only by the presenter's Tick(), not workers.
	mu          sync.Mutex
	filesPerSec [ringSize]int64
	ringIdx     int
	ringCount   int
	lastDone    int64
}

// NewCollector creates a Collector with startTime set to now.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

// SetTotal records the number of queued tasks (set once after the scan).
func (c *Collector) SetTotal(n int64) { c.filesQueued.Store(n) }

func (c *Collector) AddMoved(n int64)      { c.filesMoved.Add(n) }
func (c *Collector) AddDuplicate(n int64)  { c.duplicates.Add(n) }
func (c *Collector) AddSkipped(n int64)    { c.skipped.Add(n) }
func (c *Collector) AddFailed(n int64)     { c.failed.Add(n) }
func (c *Collector) AddBytesHashed(n int64) { c.bytesHashed.Add(n) }
func (c *Collector) AddDirsPruned(n int64)  { c.dirsPruned.Add(n) }

// Snapshot is a point-in-time read of all counters.
type Snapshot struct {
	FilesQueued int64
	FilesMoved  int64
	Duplicates  int64
	Skipped     int64
	Failed      int64
	BytesHashed int64
	DirsPruned  int64
	Elapsed     time.Duration
}

// Done returns the number of tasks that reached a terminal state.
func (s Snapshot) Done() int64 {
	return s.FilesMoved + s.Duplicates + s.Skipped + s.Failed
}

// Percent returns completion as a percentage of queued tasks.
func (s Snapshot) Percent() float64 {
	if s.FilesQueued == 0 {
		return 0
	}
	return float64(s.Done()) / float64(s.FilesQueued) * 100
}

// Snapshot returns a consistent point-in-time read of all counters.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		FilesQueued: c.filesQueued.Load(),
		FilesMoved:  c.filesMoved.Load(),
		Duplicates:  c.duplicates.Load(),
		Skipped:     c.skipped.Load(),
		Failed:      c.failed.Load(),
		BytesHashed: c.bytesHashed.Load(),
		DirsPruned:  c.dirsPruned.Load(),
		Elapsed:     c.Elapsed(),
	}
}

// Tick snapshots the completed-task delta into the ring buffer. Called once
// per second by the presenter.
func (c *Collector) Tick() {
	done := c.Snapshot().Done()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.filesPerSec[c.ringIdx] = done - c.lastDone
	c.lastDone = done
	c.ringIdx = (c.ringIdx + 1) % ringSize
	if c.ringCount < ringSize {
		c.ringCount++
	}
}

// RollingFilesPerSec returns average completed tasks/sec over the last n
// seconds of samples.
func (c *Collector) RollingFilesPerSec(seconds int) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := seconds
	if count > c.ringCount {
		count = c.ringCount
	}
	if count == 0 {
		return 0
	}
	var sum int64
	for i := 0; i < count; i++ {
		idx := (c.ringIdx - 1 - i + ringSize) % ringSize
		sum += c.filesPerSec[idx]
	}
	return float64(sum) / float64(count)
}

// Elapsed returns time since collector creation.
func (c *Collector) Elapsed() time.Duration {
	return time.Since(c.startTime)
}

func (s Snapshot) String() string {
	return fmt.Sprintf(
		"queued=%d moved=%d duplicates=%d skipped=%d failed=%d",
		s.FilesQueued, s.FilesMoved, s.Duplicates, s.Skipped, s.Failed,
	)
}
