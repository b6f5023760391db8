package common

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// MakeRandHexString returns size random bytes encoded as hex (2*size chars).
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GenerateRandByteArray returns size random bytes, or nil if the system
// random source fails.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return nil
	}
	return b
}

// WipeByteArray zeroes b in place. Nil is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// HashToken returns the hex sha256 of an opaque token. Only hashes of
// one-time tokens are persisted.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
