package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns a short, stable hash of text for log correlation
// without writing the text itself.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])[:16] // first 16 chars of the hash
}
