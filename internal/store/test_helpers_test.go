package store

import (
	"context"
	"path/filepath"
	"testing"
)

// createTestStore opens a store in a fresh temp directory.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// insertAll inserts values in order and returns their ids.
func insertAll(t *testing.T, s *Store, values ...string) []int64 {
	t.Helper()
	ids := make([]int64, 0, len(values))
	for _, v := range values {
		id, err := s.Insert(context.Background(), v)
		if err != nil {
			t.Fatalf("Insert(%q) failed: %v", v, err)
		}
		ids = append(ids, id)
	}
	return ids
}
