package table

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// memStore is an in-memory Store for exercising the manager without SQLite.
type memStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]string
	closed bool

	// insertErr, when set, fails every Insert.
	insertErr error
	// insertID, when non-zero, is returned by Insert instead of a real id.
	insertID int64
	// beforeDelete runs inside DeleteByID before the row is removed.
	beforeDelete func(id int64)
}

func newMemStore() *memStore {
	return &memStore{rows: make(map[int64]string)}
}

func (s *memStore) ids() []int64 {
	ids := make([]int64, 0, len(s.rows))
	for id := range s.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *memStore) Insert(_ context.Context, value string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return 0, s.insertErr
	}
	if s.insertID != 0 {
		return s.insertID, nil
	}
	s.nextID++
	s.rows[s.nextID] = value
	return s.nextID, nil
}

func (s *memStore) Get(_ context.Context, id int64) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.rows[id]
	return v, ok, nil
}

func (s *memStore) DeleteByID(_ context.Context, id int64) (int64, error) {
	if s.beforeDelete != nil {
		s.beforeDelete(id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return 0, nil
	}
	delete(s.rows, id)
	return 1, nil
}

func (s *memStore) DeleteByValue(_ context.Context, value string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.ids() {
		if s.rows[id] == value {
			delete(s.rows, id)
			return 1, nil
		}
	}
	return 0, nil
}

func (s *memStore) DeleteAll(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := int64(len(s.rows))
	s.rows = make(map[int64]string)
	return n, nil
}

func (s *memStore) ContainsValue(_ context.Context, value string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.rows {
		if v == value {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.rows)), nil
}

func (s *memStore) MinID(_ context.Context) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := s.ids()
	if len(ids) == 0 {
		return 0, false, nil
	}
	return ids[0], true, nil
}

func (s *memStore) MaxID(_ context.Context) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := s.ids()
	if len(ids) == 0 {
		return 0, false, nil
	}
	return ids[len(ids)-1], true, nil
}

func (s *memStore) NextIDAfter(_ context.Context, after int64) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.ids() {
		if id > after {
			return id, true, nil
		}
	}
	return 0, false, nil
}

func (s *memStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("already closed")
	}
	s.closed = true
	return nil
}
