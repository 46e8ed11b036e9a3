package hash

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSHA256Hasher_HashFile(t *testing.T) {
	tmpDir := t.TempDir()
	hasher := NewSHA256Hasher()

	t.Run("hash of existing file", func(t *testing.T) {
		testFile := filepath.Join(tmpDir, "settings.yaml")
		content := []byte("onlyActive: true\n")
		if err := os.WriteFile(testFile, content, 0644); err != nil {
			t.Fatalf("failed to write test file: %v", err)
		}

		hash1, err := hasher.HashFile(testFile)
		if err != nil {
			t.Fatalf("HashFile failed: %v", err)
		}
		if hash1 == "" {
			t.Error("HashFile returned empty hash")
		}

		hash2, err := hasher.HashFile(testFile)
		if err != nil {
			t.Fatalf("HashFile failed on second call: %v", err)
		}
		if hash1 != hash2 {
			t.Errorf("HashFile inconsistent: got %s and %s", hash1, hash2)
		}

		if got := hasher.HashBytes(content); got != hash1 {
			t.Errorf("HashBytes = %s, want %s", got, hash1)
		}
	})

	t.Run("rewriting identical content keeps the hash", func(t *testing.T) {
		testFile := filepath.Join(tmpDir, "rewrite.yaml")
		if err := os.WriteFile(testFile, []byte("a"), 0644); err != nil {
			t.Fatal(err)
		}
		before, err := hasher.HashFile(testFile)
		if err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(testFile, []byte("a"), 0600); err != nil {
			t.Fatal(err)
		}
		after, err := hasher.HashFile(testFile)
		if err != nil {
			t.Fatal(err)
		}
		if before != after {
			t.Error("hash changed although content did not")
		}
	})

	t.Run("different content has different hashes", func(t *testing.T) {
		if hasher.HashBytes([]byte("content A")) == hasher.HashBytes([]byte("content B")) {
			t.Error("different content produced identical hashes")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := hasher.HashFile(filepath.Join(tmpDir, "missing"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("HashFile error = %v, want not-exist", err)
		}
	})
}

func TestFakeHasher(t *testing.T) {
	hasher := NewFakeHasher()
	hasher.SetHash("/settings.yaml", "abc")

	got, err := hasher.HashFile("/settings.yaml")
	if err != nil || got != "abc" {
		t.Errorf("HashFile = %q, %v; want abc, nil", got, err)
	}
	if _, err := hasher.HashFile("/other"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("HashFile(unknown) error = %v, want not-exist", err)
	}
}
