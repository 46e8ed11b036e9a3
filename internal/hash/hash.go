// Package hash fingerprints file content.
//
// The settings watcher compares fingerprints on every filesystem notification
// and reloads only when the content differs from what it last read or wrote.
// Editors that touch a file without modifying it, and our own atomic writes,
// therefore never trigger a reload.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
)

// Hasher fingerprints content.
type Hasher interface {
	// HashFile fingerprints the file at path. A missing file yields an error
	// wrapping os.ErrNotExist.
	HashFile(path string) (string, error)

	// HashBytes fingerprints data.
	HashBytes(data []byte) string
}

// SHA256Hasher fingerprints with hex-encoded SHA-256.
type SHA256Hasher struct{}

// NewSHA256Hasher creates a new SHA256Hasher.
func NewSHA256Hasher() *SHA256Hasher {
	return &SHA256Hasher{}
}

// HashFile reads the whole file; settings files are small.
func (h *SHA256Hasher) HashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return h.HashBytes(data), nil
}

func (h *SHA256Hasher) HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// FakeHasher uses content as its own fingerprint, so tests can read it back.
// File fingerprints are registered with SetHash.
type FakeHasher struct {
	files map[string]string
}

// NewFakeHasher creates a FakeHasher with no registered files.
func NewFakeHasher() *FakeHasher {
	return &FakeHasher{files: make(map[string]string)}
}

// SetHash registers the fingerprint HashFile returns for path.
func (h *FakeHasher) SetHash(path, fingerprint string) {
	h.files[path] = fingerprint
}

func (h *FakeHasher) HashFile(path string) (string, error) {
	fingerprint, ok := h.files[path]
	if !ok {
		return "", fmt.Errorf("failed to read %s: %w", path, os.ErrNotExist)
	}
	return fingerprint, nil
}

func (h *FakeHasher) HashBytes(data []byte) string {
	return string(data)
}
