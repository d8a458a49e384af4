// Package hash provides shared hashing utilities for content digests.
package hash

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"os"
)

// IDLength is the number of hex characters used for truncated digests.
// 16 hex chars = 8 bytes = 64 bits, enough to tell artifact revisions apart.
const IDLength = 16

// TruncatedSHA256Bytes returns a truncated SHA256 hash of the input bytes.
// The result is a 16-character hex string.
func TruncatedSHA256Bytes(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])[:IDLength]
}

// SameContent reports whether the file at path already holds exactly data.
// A missing or unreadable file never matches.
func SameContent(path string, data []byte) bool {
	existing, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return bytes.Equal(existing, data)
}
