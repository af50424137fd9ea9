package engine

import "sync"

// Index is the shared fingerprint index: it maps each content fingerprint to
// the destination path of the first file placed with that content. Entries
// are only removed when the placement they describe fails.
type Index struct {
	m sync.Map // Fingerprint -> string
}

// Place records dst as the canonical destination for fp unless one already
// exists. It returns the canonical destination and whether fp was already
// present. The check-then-insert is atomic: exactly one caller per
// fingerprint observes dup == false.
func (ix *Index) Place(fp Fingerprint, dst string) (string, bool) {
	canonical, dup := ix.m.LoadOrStore(fp, dst)
	return canonical.(string), dup
}

// Forget removes the entry for fp if dst is still its canonical destination.
// Called when the move backing a placement fails, so a later file with the
// same content can still become the original.
func (ix *Index) Forget(fp Fingerprint, dst string) {
	ix.m.CompareAndDelete(fp, dst)
}

// Lookup returns the canonical destination for fp, if one has been placed.
func (ix *Index) Lookup(fp Fingerprint) (string, bool) {
	v, ok := ix.m.Load(fp)
	if !ok {
		return "", false
	}
	return v.(string), true
}
