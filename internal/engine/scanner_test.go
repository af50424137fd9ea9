package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sortd/internal/filter"
)

func scanPaths(t *testing.T, cfg ScanConfig) map[string]struct{} {
	t.Helper()
	q := NewQueue(16)
	n, err := Scan(context.Background(), cfg, q)
	require.NoError(t, err)
	assert.Equal(t, n, q.Len())

	paths := make(map[string]struct{}, n)
	for {
		task, ok := q.TryDequeue()
		if !ok {
			break
		}
		paths[task.Path] = struct{}{}
	}
	return paths
}

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := OpenLedger(filepath.Join(t.TempDir(), "recovery.log"))
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestScan_EnumeratesRegularFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub", "deep"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("a"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "b.jpg"), []byte("b"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "deep", "c"), []byte("c"), 0644))
	require.NoError(t, os.Symlink("a.txt", filepath.Join(root, "link.txt")))

	paths := scanPaths(t, ScanConfig{Root: root, Ledger: newTestLedger(t)})

	assert.Len(t, paths, 3)
	assert.Contains(t, paths, filepath.Join(root, "a.txt"))
	assert.Contains(t, paths, filepath.Join(root, "sub", "b.jpg"))
	assert.Contains(t, paths, filepath.Join(root, "sub", "deep", "c"))
	assert.NotContains(t, paths, filepath.Join(root, "link.txt"))
}

func TestScan_ExcludesRecordedPaths(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "done.txt"), []byte("d"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "todo.txt"), []byte("t"), 0644))

	ledger := newTestLedger(t)
	require.NoError(t, ledger.Record(filepath.Join(root, "done.txt")))

	paths := scanPaths(t, ScanConfig{Root: root, Ledger: ledger})

	assert.Len(t, paths, 1)
	assert.Contains(t, paths, filepath.Join(root, "todo.txt"))
}

func TestScan_SkipsStateDir(t *testing.T) {
	root := t.TempDir()
	stateDir := filepath.Join(root, DefaultStateDirName)
	require.NoError(t, os.MkdirAll(stateDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(stateDir, "recovery.log"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("a"), 0644))

	paths := scanPaths(t, ScanConfig{Root: root, StateDir: stateDir, Ledger: newTestLedger(t)})

	assert.Len(t, paths, 1)
	assert.Contains(t, paths, filepath.Join(root, "a.txt"))
}

func TestScan_AppliesAllowList(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "keep.jpg"), []byte("k"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "skip.log"), []byte("s"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "noext"), []byte("n"), 0644))

	paths := scanPaths(t, ScanConfig{
		Root:   root,
		Ledger: newTestLedger(t),
		Filter: filter.NewExtensions("jpg"),
	})

	assert.Len(t, paths, 1)
	assert.Contains(t, paths, filepath.Join(root, "keep.jpg"))
}
