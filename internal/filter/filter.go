// Package filter implements the optional extension allow-list applied before
// files are enqueued.
package filter

import (
	"path/filepath"
	"strings"
)

// Extensions is an allow-list of lowercased file extensions. A nil or empty
// list allows everything. Extensionless files are allowed only when
// "no_extension" is listed.
type Extensions struct {
	set map[string]struct{}
}

// NoExtension is the allow-list entry matching extensionless files.
const NoExtension = "no_extension"

// NewExtensions builds an allow-list. Entries are normalized: leading dots
// stripped, lowercased ("JPG", ".jpg", and "jpg" are the same entry).
func NewExtensions(exts ...string) *Extensions {
	e := &Extensions{set: make(map[string]struct{}, len(exts))}
	for _, x := range exts {
		x = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(x), "."))
		if x != "" {
			e.set[x] = struct{}{}
		}
	}
	return e
}

// Empty reports whether the list has no entries.
func (e *Extensions) Empty() bool {
	return e == nil || len(e.set) == 0
}

// Allows reports whether the file at path passes the allow-list. An empty
// list allows every file.
func (e *Extensions) Allows(path string) bool {
	if e.Empty() {
		return true
	}
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	key := NoExtension
	if ext != "" && ext != base {
		key = strings.ToLower(strings.TrimPrefix(ext, "."))
	}
	_, ok := e.set[key]
	return ok
}
