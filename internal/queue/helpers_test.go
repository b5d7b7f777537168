package queue

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/pqueue/internal/bus"
	"github.com/roach88/pqueue/internal/codec"
	"github.com/roach88/pqueue/internal/store"
)

// openTestQueue opens a string queue backed by a temp SQLite file.
func openTestQueue(t *testing.T) *Queue[string] {
	t.Helper()
	q, err := Open[string](filepath.Join(t.TempDir(), "queue.db"), codec.Text{})
	require.NoError(t, err)
	t.Cleanup(func() { q.Close() })
	return q
}

// wrapTestStore opens a SQLite store and wraps it in a hookStore.
func wrapTestStore(t *testing.T) *hookStore {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "queue.db"))
	require.NoError(t, err)
	return &hookStore{Store: s}
}

// hookStore lets tests interfere with individual store calls.
type hookStore struct {
	*store.Store

	insertErr  error
	countCalls int
	// firstCount, when non-nil, is returned by the first Count call.
	firstCount *int64
	// beforeGet runs at the start of Get.
	beforeGet func(id int64)
}

func (h *hookStore) Insert(ctx context.Context, value string) (int64, error) {
	if h.insertErr != nil {
		return 0, h.insertErr
	}
	return h.Store.Insert(ctx, value)
}

func (h *hookStore) Count(ctx context.Context) (int64, error) {
	h.countCalls++
	if h.countCalls == 1 && h.firstCount != nil {
		return *h.firstCount, nil
	}
	return h.Store.Count(ctx)
}

func (h *hookStore) Get(ctx context.Context, id int64) (string, bool, error) {
	if h.beforeGet != nil {
		h.beforeGet(id)
	}
	return h.Store.Get(ctx, id)
}

// recorder captures bus events.
type recorder struct {
	events []bus.Event[string]
}

func (r *recorder) OnAdded(v string)   { r.events = append(r.events, bus.AddedEvent(v)) }
func (r *recorder) OnRemoved(v string) { r.events = append(r.events, bus.RemovedEvent(v)) }
func (r *recorder) OnCleared()         { r.events = append(r.events, bus.ClearedEvent[string]()) }

func subscribe(t *testing.T, q *Queue[string]) *recorder {
	t.Helper()
	r := &recorder{}
	require.NoError(t, q.EventBus().Subscribe(r))
	return r
}

func addAll(t *testing.T, q *Queue[string], values ...string) {
	t.Helper()
	require.NoError(t, q.AddAll(context.Background(), values))
}

func contents(t *testing.T, q *Queue[string]) []string {
	t.Helper()
	out, err := q.ToSlice(context.Background())
	require.NoError(t, err)
	return out
}
