// Package table implements id-ordered queue primitives on top of a row store.
//
// Records live in a store keyed by an auto-incrementing id. The table manager
// turns that into queue operations: append, head, remove-head, remove by
// value, membership and the id walk used by iterators. Min and max ids are
// re-read from the store on every call, so changes made by another handle on
// the same file are always visible.
package table

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrStorageWrite is returned when the store fails to persist a record.
var ErrStorageWrite = errors.New("storage write failed")

// maxRemoveHeadAttempts bounds the retry loop in RemoveHead when the head
// keeps disappearing underneath it.
const maxRemoveHeadAttempts = 8

// Store is the row store the manager is built on.
// *store.Store implements it.
type Store interface {
	Insert(ctx context.Context, value string) (int64, error)
	Get(ctx context.Context, id int64) (string, bool, error)
	DeleteByID(ctx context.Context, id int64) (int64, error)
	DeleteByValue(ctx context.Context, value string) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
	ContainsValue(ctx context.Context, value string) (bool, error)
	Count(ctx context.Context) (int64, error)
	MinID(ctx context.Context) (int64, bool, error)
	MaxID(ctx context.Context) (int64, bool, error)
	NextIDAfter(ctx context.Context, id int64) (int64, bool, error)
	Close() error
}

// Manager provides queue primitives over a Store. It owns the store and
// closes it in Close.
type Manager struct {
	store Store

	// mu serialises RemoveHead so concurrent callers never take the same row.
	mu sync.Mutex
}

// NewManager wraps store.
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Insert appends encoded and returns its id. The id is greater than every id
// issued before it.
func (m *Manager) Insert(ctx context.Context, encoded string) (int64, error) {
	id, err := m.store.Insert(ctx, encoded)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStorageWrite, err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("%w: store returned id %d", ErrStorageWrite, id)
	}
	return id, nil
}

// Get returns the record stored under id.
func (m *Manager) Get(ctx context.Context, id int64) (string, bool, error) {
	return m.store.Get(ctx, id)
}

// Head returns the value of the record with the smallest live id.
func (m *Manager) Head(ctx context.Context) (string, bool, error) {
	id, ok, err := m.store.MinID(ctx)
	if err != nil || !ok {
		return "", false, err
	}
	return m.store.Get(ctx, id)
}

// RemoveHead deletes the record with the smallest live id and returns its
// value. At most one record is removed per call.
func (m *Manager) RemoveHead(ctx context.Context) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for attempt := 0; attempt < maxRemoveHeadAttempts; attempt++ {
		id, ok, err := m.store.MinID(ctx)
		if err != nil || !ok {
			return "", false, err
		}
		value, ok, err := m.store.Get(ctx, id)
		if err != nil {
			return "", false, err
		}
		if !ok {
			continue
		}
		n, err := m.store.DeleteByID(ctx, id)
		if err != nil {
			return "", false, fmt.Errorf("remove head: %w", err)
		}
		if n == 1 {
			return value, true, nil
		}
		// Someone else removed it between the read and the delete.
	}
	return "", false, fmt.Errorf("remove head: head kept changing after %d attempts", maxRemoveHeadAttempts)
}

// Remove deletes one record holding encoded and returns the removed value.
// When duplicates exist the oldest one goes.
func (m *Manager) Remove(ctx context.Context, encoded string) (string, bool, error) {
	n, err := m.store.DeleteByValue(ctx, encoded)
	if err != nil {
		return "", false, fmt.Errorf("remove: %w", err)
	}
	if n == 0 {
		return "", false, nil
	}
	return encoded, true, nil
}

// Contains reports whether any record holds encoded.
func (m *Manager) Contains(ctx context.Context, encoded string) (bool, error) {
	return m.store.ContainsValue(ctx, encoded)
}

// Count returns the number of live records.
func (m *Manager) Count(ctx context.Context) (int64, error) {
	return m.store.Count(ctx)
}

// Clear deletes every record and returns how many were removed.
func (m *Manager) Clear(ctx context.Context) (int64, error) {
	n, err := m.store.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("clear: %w", err)
	}
	return n, nil
}

// MaxID returns the largest live id.
func (m *Manager) MaxID(ctx context.Context) (int64, bool, error) {
	return m.store.MaxID(ctx)
}

// NextIDAfter returns the smallest live id greater than id. The bool is false
// when id is at or past the end.
func (m *Manager) NextIDAfter(ctx context.Context, id int64) (int64, bool, error) {
	return m.store.NextIDAfter(ctx, id)
}

// Close closes the underlying store.
func (m *Manager) Close() error {
	return m.store.Close()
}
