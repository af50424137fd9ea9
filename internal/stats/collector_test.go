package stats

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_SnapshotReflectsCounters(t *testing.T) {
	c := NewCollector()
	c.SetTotal(10)
	c.AddMoved(4)
	c.AddDuplicate(2)
	c.AddSkipped(1)
	c.AddFailed(1)
	c.AddBytesHashed(4096)
	c.AddDirsPruned(3)

	s := c.Snapshot()
	assert.Equal(t, int64(10), s.FilesQueued)
	assert.Equal(t, int64(4), s.FilesMoved)
	assert.Equal(t, int64(2), s.Duplicates)
	assert.Equal(t, int64(1), s.Skipped)
	assert.Equal(t, int64(1), s.Failed)
	assert.Equal(t, int64(4096), s.BytesHashed)
	assert.Equal(t, int64(3), s.DirsPruned)
	assert.Equal(t, int64(8), s.Done())
	assert.InDelta(t, 80.0, s.Percent(), 0.001)
}

func TestCollector_PercentWithNothingQueued(t *testing.T) {
	s := NewCollector().Snapshot()
	assert.Zero(t, s.Percent())
}

func TestCollector_ConcurrentAdds(t *testing.T) {
	c := NewCollector()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				c.AddMoved(1)
				c.AddBytesHashed(10)
			}
		}()
	}
	wg.Wait()

	s := c.Snapshot()
	assert.Equal(t, int64(16000), s.FilesMoved)
	assert.Equal(t, int64(160000), s.BytesHashed)
}

func TestCollector_RollingFilesPerSec(t *testing.T) {
	c := NewCollector()
	require.Zero(t, c.RollingFilesPerSec(5))

	c.AddMoved(10)
	c.Tick()
	c.AddMoved(20)
	c.Tick()

	// Two samples: 10 then 20 completions.
	assert.InDelta(t, 15.0, c.RollingFilesPerSec(5), 0.001)
	assert.InDelta(t, 20.0, c.RollingFilesPerSec(1), 0.001)
}

func TestSnapshot_String(t *testing.T) {
	s := Snapshot{FilesQueued: 5, FilesMoved: 3, Duplicates: 1, Skipped: 1}
	assert.Equal(t, "queued=5 moved=3 duplicates=1 skipped=1 failed=0", s.String())
}
