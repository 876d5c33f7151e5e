// Package fingerprint computes content fingerprints for source files.
// A fingerprint is the SHA-256 hex digest of a file's raw bytes and is
// the stable identity key for cached documents: the same path with
// changed content gets a new fingerprint and is reprocessed in full.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// readSize is the streaming read block size.
const readSize = 64 * 1024

// File returns the fingerprint of the file at path.
// The file is streamed in 64 KiB reads so large documents are not
// loaded into memory.
func File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, readSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Bytes returns the fingerprint of in-memory content.
// Equivalent to File over a file containing exactly data.
func Bytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
