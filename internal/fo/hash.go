package fo

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

// hashBlockSize bounds memory use while hashing regardless of file size.
const hashBlockSize = 1 << 20 // 1 MiB

// HashFile computes the SHA-256 digest of the file at path, reading it in
// fixed-size blocks. Digests are recomputed on every call; they are a safety
// gate against content drift, never a cache.
func HashFile(fsmgr FilesystemManager, path string) (string, error) {
	f, err := fsmgr.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening file for hashing: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, hashBlockSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
