// Package hash provides content hashing for change detection.
//
// viashmerge digests the encoded output of every resolution so that watch
// mode can tell a real change from a no-op save. The package provides both
// a real implementation using crypto/sha256 and a fake implementation for
// testing.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// Hasher provides an abstraction for content hashing operations.
type Hasher interface {
	// HashBytes computes the hash of data.
	HashBytes(data []byte) string
}

// SHA256Hasher implements Hasher using SHA-256.
type SHA256Hasher struct{}

// NewSHA256Hasher creates a new SHA256Hasher.
func NewSHA256Hasher() *SHA256Hasher {
	return &SHA256Hasher{}
}

// HashBytes computes the hex encoded SHA-256 of data.
func (h *SHA256Hasher) HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// FakeHasher implements Hasher with deterministic hashes for testing.
type FakeHasher struct {
	mu     sync.Mutex
	hashes map[string]string
}

// NewFakeHasher creates a new FakeHasher.
func NewFakeHasher() *FakeHasher {
	return &FakeHasher{
		hashes: make(map[string]string),
	}
}

// SetHash sets the hash returned for specific content (for testing).
func (h *FakeHasher) SetHash(content, hash string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hashes[content] = hash
}

// HashBytes returns the predetermined hash for data.
func (h *FakeHasher) HashBytes(data []byte) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if hash, ok := h.hashes[string(data)]; ok {
		return hash
	}
	// Default hash if not set
	return "fakehash"
}
