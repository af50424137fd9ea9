package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// NoExtensionDir is the destination folder for files without an extension.
const NoExtensionDir = "no_extension"

// DuplicateDirName is the dedicated duplicates folder used by PolicyDir.
const DuplicateDirName = "duplicate_files"

// DuplicatePolicy selects where files with already-seen content (or a taken
// destination name) are routed.
type DuplicatePolicy int

const (
	// PolicyRename keeps duplicates in the extension folder under a
	// "_duplicate" suffixed name.
	PolicyRename DuplicatePolicy = iota
	// PolicyDir routes duplicates into a dedicated duplicate_files
	// directory under the root.
	PolicyDir
)

// ParseDuplicatePolicy parses "rename" or "dir".
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch s {
	case "rename", "":
		return PolicyRename, nil
	case "dir":
		return PolicyDir, nil
	default:
		return PolicyRename, fmt.Errorf("unknown duplicate policy %q (want rename or dir)", s)
	}
}

func (p DuplicatePolicy) String() string {
	if p == PolicyDir {
		return "dir"
	}
	return "rename"
}

// Placement is the outcome of resolving a task's destination.
type Placement struct {
	Target    string // final absolute path for the file
	Duplicate bool   // routed via the duplicate policy
	InPlace   bool   // already at Target, no rename needed
	Canonical string // destination of the first file with this content, when known
}

// Resolver maps files to extension-named destination directories and
// arbitrates destination names between workers. A destination path handed
// out to one worker is never handed out again, even before the file lands
// on disk.
type Resolver struct {
	root   string
	policy DuplicatePolicy
	claims sync.Map // destination path -> struct{}
}

// NewResolver creates a resolver rooted at root.
func NewResolver(root string, policy DuplicatePolicy) *Resolver {
	return &Resolver{root: root, policy: policy}
}

// DirFor returns the destination directory for path, derived from its
// lowercased extension.
func (r *Resolver) DirFor(path string) string {
	return filepath.Join(r.root, extKey(filepath.Base(path)))
}

// Resolve decides where the file at path belongs, consulting and updating
// the fingerprint index atomically so that exactly one of any set of
// identical files becomes the original. Resolve never touches the
// filesystem beyond existence checks; creating the destination directory is
// the mover's job.
func (r *Resolver) Resolve(path string, fp Fingerprint, ix *Index) (Placement, error) {
	dir := r.DirFor(path)
	base := filepath.Base(path)
	candidate := filepath.Join(dir, base)

	// Already at its resolved destination: a prior run moved it but crashed
	// before recording. Re-register and treat as a no-op.
	if candidate == path {
		ix.Place(fp, candidate)
		r.claims.LoadOrStore(candidate, struct{}{})
		return Placement{Target: candidate, InPlace: true}, nil
	}

	if canonical, dup := ix.Lookup(fp); dup {
		return r.resolveDuplicate(dir, base, fp, ix, canonical)
	}

	// Contend for the non-duplicate destination name.
	if !exists(candidate) && r.claim(candidate) {
		canonical, dup := ix.Place(fp, candidate)
		if dup {
			// Lost the fingerprint race after winning the name.
			r.Release(candidate)
			return r.resolveDuplicate(dir, base, fp, ix, canonical)
		}
		return Placement{Target: candidate}, nil
	}

	// Name already taken by a distinct file.
	return r.resolveDuplicate(dir, base, fp, ix, "")
}

func (r *Resolver) resolveDuplicate(extDir, base string, fp Fingerprint, ix *Index, canonical string) (Placement, error) {
	dir := extDir
	if r.policy == PolicyDir {
		dir = filepath.Join(r.root, DuplicateDirName)
	}

	for attempt := 0; attempt < 8; attempt++ {
		target := filepath.Join(dir, r.duplicateName(base, attempt))
		if exists(target) || !r.claim(target) {
			continue
		}
		if canonical == "" {
			// Routed here by a name collision, not by content: this file is
			// still the first of its content, so register it.
			canonical, _ = ix.Place(fp, target)
		}
		return Placement{Target: target, Duplicate: true, Canonical: canonical}, nil
	}

	return Placement{}, fmt.Errorf("no free duplicate name for %s under %s", base, dir)
}

// duplicateName derives the duplicate file name for base. Attempt 0 is the
// plain policy name; later attempts add a short random ID.
func (r *Resolver) duplicateName(base string, attempt int) string {
	stem, ext := splitExt(base)
	switch {
	case r.policy == PolicyDir && attempt == 0:
		return base
	case r.policy == PolicyDir:
		return fmt.Sprintf("%s_%s%s", stem, shortID(), ext)
	case attempt == 0:
		return stem + "_duplicate" + ext
	default:
		return fmt.Sprintf("%s_duplicate_%s%s", stem, shortID(), ext)
	}
}

func shortID() string {
	return uuid.New().String()[:8]
}

// extKey returns the lowercased extension of base without the dot, or
// NoExtensionDir. Dotfiles like ".bashrc" count as extensionless.
func extKey(base string) string {
	ext := filepath.Ext(base)
	if ext == "" || ext == base {
		return NoExtensionDir
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// splitExt splits base into stem and extension (with dot). Dotfiles keep
// their full name as the stem.
func splitExt(base string) (string, string) {
	ext := filepath.Ext(base)
	if ext == base {
		return base, ""
	}
	return strings.TrimSuffix(base, ext), ext
}

func (r *Resolver) claim(target string) bool {
	_, loaded := r.claims.LoadOrStore(target, struct{}{})
	return !loaded
}

// Release returns a claimed destination name to the pool after the move
// backing it failed.
func (r *Resolver) Release(target string) {
	r.claims.Delete(target)
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
