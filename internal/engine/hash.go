package engine

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// Fingerprint is the hex-encoded BLAKE3 digest of a file's content, used as
// the deduplication key.
type Fingerprint string

// HashFile computes the content fingerprint of the file at path, streaming
// it in fixed-size chunks. It returns the fingerprint and the number of
// bytes read.
func HashFile(path string) (Fingerprint, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := blake3.New()
	buf := make([]byte, 32*1024)
	n, err := io.CopyBuffer(h, f, buf)
	if err != nil {
		return "", n, fmt.Errorf("hash %s: %w", path, err)
	}

	digest := h.Sum(nil)
	return Fingerprint(hex.EncodeToString(digest)), n, nil
}
