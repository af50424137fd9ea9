package engine

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// RemoveEmptyDirs deletes directories left empty under root after sorting,
// deepest first so emptied parents are caught in the same pass. The root
// itself and anything under skip paths are preserved. Returns the number of
// directories removed.
func RemoveEmptyDirs(root string, skip ...string) (int, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if !d.IsDir() || path == root {
			return nil
		}
		for _, s := range skip {
			if path == s || strings.HasPrefix(path, s+"/") {
				return filepath.SkipDir
			}
		}
		dirs = append(dirs, path)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("walk %s: %w", root, err)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(dirs)))

	removed := 0
	for _, dir := range dirs {
		// Remove fails on non-empty directories; that is the filter.
		if err := os.Remove(dir); err == nil {
			removed++
		}
	}
	return removed, nil
}
