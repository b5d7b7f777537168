package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/roach88/pqueue/internal/bus"
	"github.com/roach88/pqueue/internal/codec"
	"github.com/roach88/pqueue/internal/store"
	"github.com/roach88/pqueue/internal/table"
)

// Queue is a durable FIFO queue of elements of type E.
//
// Thread-safety: methods may be called from several goroutines; see the
// package documentation for the single-writer assumption.
type Queue[E any] struct {
	id    string
	table *table.Manager
	codec codec.Codec[E]
	bus   *bus.Bus[E]
	log   *slog.Logger

	mu     sync.RWMutex
	closed bool
}

type options struct {
	logger    *slog.Logger
	id        string
	storeOpts []store.Option
	bus       any // *bus.Bus[E], checked in New
}

// Option configures New and Open.
type Option func(*options)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithID overrides the generated instance id used in log lines.
func WithID(id string) Option {
	return func(o *options) { o.id = id }
}

// WithBus makes the queue publish to b instead of a bus of its own.
// Several queues may share one bus.
func WithBus[E any](b *bus.Bus[E]) Option {
	return func(o *options) { o.bus = b }
}

// WithStoreOptions passes options through to store.Open. Only used by Open.
func WithStoreOptions(opts ...store.Option) Option {
	return func(o *options) { o.storeOpts = append(o.storeOpts, opts...) }
}

// New builds a queue over s. The queue takes ownership of s and closes it in
// Close.
func New[E any](s table.Store, c codec.Codec[E], opts ...Option) *Queue[E] {
	o := buildOptions(opts)
	logger := o.logger.With("queue", o.id)
	b, ok := o.bus.(*bus.Bus[E])
	if o.bus != nil && !ok {
		logger.Warn("ignoring bus of a different element type", "bus", fmt.Sprintf("%T", o.bus))
	}
	if b == nil {
		b = bus.New[E](logger)
	}
	return &Queue[E]{
		id:    o.id,
		table: table.NewManager(s),
		codec: c,
		bus:   b,
		log:   logger,
	}
}

// Open opens (or creates) the SQLite file at path and builds a queue on it.
func Open[E any](path string, c codec.Codec[E], opts ...Option) (*Queue[E], error) {
	o := buildOptions(opts)
	storeOpts := append([]store.Option{store.WithLogger(o.logger)}, o.storeOpts...)
	s, err := store.Open(path, storeOpts...)
	if err != nil {
		return nil, fmt.Errorf("open queue: %w", err)
	}
	q := New(s, c, opts...)
	q.log.Debug("queue opened", "path", path, "table", s.Table())
	return q, nil
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.id == "" {
		o.id = uuid.Must(uuid.NewV7()).String()
	}
	return o
}

// ID returns the instance id attached to this queue's log lines.
func (q *Queue[E]) ID() string {
	return q.id
}

// EventBus returns the bus that receives this queue's change events.
func (q *Queue[E]) EventBus() *bus.Bus[E] {
	return q.bus
}

// Close releases the store. A second call returns ErrClosed.
func (q *Queue[E]) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	q.closed = true
	if err := q.table.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	q.log.Debug("queue closed")
	return nil
}

func (q *Queue[E]) checkOpen() error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrClosed
	}
	return nil
}

func (q *Queue[E]) encode(e E) (string, error) {
	s, err := q.codec.Encode(e)
	if err != nil {
		return "", &EncodingError{Op: "encode", Err: err}
	}
	return s, nil
}

func (q *Queue[E]) decode(s string) (E, error) {
	e, err := q.codec.Decode(s)
	if err != nil {
		return e, &EncodingError{Op: "decode", Value: s, Err: err}
	}
	return e, nil
}

// Size returns the number of elements in the queue.
func (q *Queue[E]) Size(ctx context.Context) (int, error) {
	if err := q.checkOpen(); err != nil {
		return 0, err
	}
	n, err := q.table.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("size: %w", err)
	}
	return int(n), nil
}

// IsEmpty reports whether the queue holds no elements.
func (q *Queue[E]) IsEmpty(ctx context.Context) (bool, error) {
	n, err := q.Size(ctx)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// Add appends e to the tail of the queue and publishes Added.
// A rejected write returns an error wrapping ErrStorageWrite.
func (q *Queue[E]) Add(ctx context.Context, e E) error {
	if err := q.checkOpen(); err != nil {
		return err
	}
	s, err := q.encode(e)
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	id, err := q.table.Insert(ctx, s)
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	q.log.Debug("element added", "id", id)
	q.bus.PublishAdded(e)
	return nil
}

// Offer is Add that reports failure as false instead of an error.
func (q *Queue[E]) Offer(ctx context.Context, e E) bool {
	if err := q.Add(ctx, e); err != nil {
		q.log.Debug("offer rejected", "error", err)
		return false
	}
	return true
}

// Remove deletes one element equal to e and publishes Removed. It returns
// false when no element matched. If duplicates exist the oldest is removed.
func (q *Queue[E]) Remove(ctx context.Context, e E) (bool, error) {
	if err := q.checkOpen(); err != nil {
		return false, err
	}
	s, err := q.encode(e)
	if err != nil {
		return false, fmt.Errorf("remove: %w", err)
	}
	_, ok, err := q.table.Remove(ctx, s)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	q.bus.PublishRemoved(e)
	return true, nil
}

// Dequeue removes and returns the head, publishing Removed.
// Returns ErrEmptyQueue when there is nothing to remove.
func (q *Queue[E]) Dequeue(ctx context.Context) (E, error) {
	e, ok, err := q.Poll(ctx)
	if err != nil {
		return e, err
	}
	if !ok {
		return e, fmt.Errorf("dequeue: %w", ErrEmptyQueue)
	}
	return e, nil
}

// Poll removes and returns the head, publishing Removed. The bool is false
// when the queue is empty.
func (q *Queue[E]) Poll(ctx context.Context) (E, bool, error) {
	var zero E
	if err := q.checkOpen(); err != nil {
		return zero, false, err
	}
	s, ok, err := q.table.RemoveHead(ctx)
	if err != nil || !ok {
		return zero, false, err
	}
	e, err := q.decode(s)
	if err != nil {
		q.log.Warn("removed head could not be decoded", "error", err)
		return zero, false, fmt.Errorf("poll: %w", err)
	}
	q.bus.PublishRemoved(e)
	return e, true, nil
}

// Element returns the head without removing it.
// Returns ErrEmptyQueue when the queue is empty.
func (q *Queue[E]) Element(ctx context.Context) (E, error) {
	e, ok, err := q.Peek(ctx)
	if err != nil {
		return e, err
	}
	if !ok {
		return e, fmt.Errorf("element: %w", ErrEmptyQueue)
	}
	return e, nil
}

// Peek returns the head without removing it. The bool is false when the
// queue is empty.
func (q *Queue[E]) Peek(ctx context.Context) (E, bool, error) {
	var zero E
	if err := q.checkOpen(); err != nil {
		return zero, false, err
	}
	s, ok, err := q.table.Head(ctx)
	if err != nil || !ok {
		return zero, false, err
	}
	e, err := q.decode(s)
	if err != nil {
		return zero, false, fmt.Errorf("peek: %w", err)
	}
	return e, true, nil
}

// Contains reports whether the queue holds an element equal to v.
// A v that is not an E, or that fails to encode, is simply not contained.
// Storage errors also report false; they are logged at debug level.
func (q *Queue[E]) Contains(ctx context.Context, v any) bool {
	e, ok := v.(E)
	if !ok {
		return false
	}
	if q.checkOpen() != nil {
		return false
	}
	s, err := q.encode(e)
	if err != nil {
		return false
	}
	found, err := q.table.Contains(ctx, s)
	if err != nil {
		q.log.Debug("contains failed", "error", err)
		return false
	}
	return found
}

// ContainsAll reports whether every value in vs is contained.
// Stops at the first value that is not.
func (q *Queue[E]) ContainsAll(ctx context.Context, vs []any) bool {
	for _, v := range vs {
		if !q.Contains(ctx, v) {
			return false
		}
	}
	return true
}

// AddAll adds es in order, stopping at the first failure. Elements added
// before the failure stay in the queue.
func (q *Queue[E]) AddAll(ctx context.Context, es []E) error {
	for i, e := range es {
		if err := q.Add(ctx, e); err != nil {
			return fmt.Errorf("add all: element %d: %w", i, err)
		}
	}
	return nil
}

// RemoveAll removes one match for each of es in order. It returns false as
// soon as an element has no match; earlier removals are kept.
func (q *Queue[E]) RemoveAll(ctx context.Context, es []E) (bool, error) {
	for i, e := range es {
		removed, err := q.Remove(ctx, e)
		if err != nil {
			return false, fmt.Errorf("remove all: element %d: %w", i, err)
		}
		if !removed {
			return false, nil
		}
	}
	return true, nil
}

// RetainAll makes the queue hold exactly the elements of es.
//
// It runs in two phases: first every element of es that is missing is added,
// then every element not in es is removed. Unlike a plain retain it can grow
// the queue: [A B] retaining [B C] leaves [B C]. The phases are not atomic.
func (q *Queue[E]) RetainAll(ctx context.Context, es []E) error {
	keep := make(map[string]struct{}, len(es))
	for _, e := range es {
		s, err := q.encode(e)
		if err != nil {
			return fmt.Errorf("retain all: %w", err)
		}
		keep[s] = struct{}{}
		if !q.Contains(ctx, e) {
			if err := q.Add(ctx, e); err != nil {
				return fmt.Errorf("retain all: %w", err)
			}
		}
	}

	for e, err := range q.All(ctx) {
		if err != nil {
			return fmt.Errorf("retain all: %w", err)
		}
		s, err := q.encode(e)
		if err != nil {
			return fmt.Errorf("retain all: %w", err)
		}
		if _, ok := keep[s]; ok {
			continue
		}
		if _, err := q.Remove(ctx, e); err != nil {
			return fmt.Errorf("retain all: %w", err)
		}
	}
	return nil
}

// Clear deletes every element and publishes a single Cleared event.
func (q *Queue[E]) Clear(ctx context.Context) error {
	if err := q.checkOpen(); err != nil {
		return err
	}
	n, err := q.table.Clear(ctx)
	if err != nil {
		return err
	}
	q.log.Debug("queue cleared", "removed", n)
	q.bus.PublishCleared()
	return nil
}
