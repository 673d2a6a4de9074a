package store

import (
	"path/filepath"
	"testing"
	"time"
)

// createTestStore creates a new ledger in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestEntry creates an entry with minimal required fields.
func createTestEntry(path, fingerprint string, at time.Time) Entry {
	return Entry{
		Path:        path,
		Fingerprint: fingerprint,
		Category:    "cmakelists",
		ToolVersion: "0.1.0",
		IRVersion:   "1",
		GeneratedAt: at,
	}
}
