package engine

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Ledger is the append-only recovery log: one absolute file path per line,
// read fully at startup and appended once per successful relocation. Each
// append is synced to disk before Record returns, so a crash loses at most
// the in-flight task of each worker.
type Ledger struct {
	mu   sync.Mutex
	f    *os.File
	seen map[string]struct{}
	path string
}

// OpenLedger opens (or creates) the ledger at path and loads all previously
// recorded entries. A missing file is treated as an empty ledger.
func OpenLedger(path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create ledger dir: %w", err)
	}

	seen := make(map[string]struct{})
	rf, err := os.Open(path)
	switch {
	case err == nil:
		sc := bufio.NewScanner(rf)
		for sc.Scan() {
			if line := sc.Text(); line != "" {
				seen[line] = struct{}{}
			}
		}
		scanErr := sc.Err()
		rf.Close()
		if scanErr != nil {
			return nil, fmt.Errorf("read ledger %s: %w", path, scanErr)
		}
	case errors.Is(err, fs.ErrNotExist):
		// first run
	default:
		return nil, fmt.Errorf("open ledger %s: %w", path, err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open ledger %s for append: %w", path, err)
	}

	return &Ledger{f: f, seen: seen, path: path}, nil
}

// Contains reports whether path has already been recorded, either in a prior
// run or during this one.
func (l *Ledger) Contains(path string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.seen[path]
	return ok
}

// Record durably appends path to the ledger. Appends from concurrent workers
// are serialized so lines never interleave, and the write is flushed before
// Record returns. Recording an already-present path is a no-op.
func (l *Ledger) Record(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.seen[path]; ok {
		return nil
	}
	if _, err := l.f.WriteString(path + "\n"); err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	if err := l.f.Sync(); err != nil {
		return fmt.Errorf("sync ledger: %w", err)
	}
	l.seen[path] = struct{}{}
	return nil
}

// Len returns the number of recorded entries.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.seen)
}

// Path returns the ledger file path.
func (l *Ledger) Path() string {
	return l.path
}

// Close closes the underlying file.
func (l *Ledger) Close() error {
	return l.f.Close()
}
