// Package pqueue provides a durable FIFO queue stored in SQLite.
//
// Elements are encoded to text by a Codec and kept in a single table with
// strictly increasing ids, so head-to-tail order survives restarts:
//
//	q, err := pqueue.Open[string]("jobs.db", pqueue.Text{})
//	if err != nil {
//		return err
//	}
//	defer q.Close()
//
//	_ = q.Add(ctx, "first")
//	v, ok, err := q.Poll(ctx)
//
// Changes are published to the queue's EventBus. Subscribers run
// synchronously on the caller's goroutine, after the write has committed.
package pqueue

import (
	"github.com/roach88/pqueue/internal/bus"
	"github.com/roach88/pqueue/internal/codec"
	"github.com/roach88/pqueue/internal/metrics"
	"github.com/roach88/pqueue/internal/queue"
	"github.com/roach88/pqueue/internal/store"
)

// Queue is a durable FIFO queue of elements of type E.
type Queue[E any] = queue.Queue[E]

// Iterator walks a queue from head to tail, re-reading storage at each step.
type Iterator[E any] = queue.Iterator[E]

// Option configures Open.
type Option = queue.Option

// StoreOption configures the underlying SQLite store.
type StoreOption = store.Option

// Codec converts elements to and from stored text.
type Codec[E any] = codec.Codec[E]

// CodecFuncs adapts an encode/decode function pair to Codec.
type CodecFuncs[E any] = codec.Funcs[E]

// JSON stores elements as compact JSON.
type JSON[E any] = codec.JSON[E]

// Text stores strings NFC-normalized.
type Text = codec.Text

// Bus delivers change events to subscribers.
type Bus[E any] = bus.Bus[E]

// Subscriber receives change events.
type Subscriber[E any] = bus.Subscriber[E]

// SubscriberFuncs adapts plain functions to Subscriber.
type SubscriberFuncs[E any] = bus.Funcs[E]

// Event is a single change notification.
type Event[E any] = bus.Event[E]

// EventKind identifies the change an Event describes.
type EventKind = bus.Kind

// Event kinds.
const (
	Added   = bus.Added
	Removed = bus.Removed
	Cleared = bus.Cleared
)

// Collector exports queue events as Prometheus metrics.
type Collector[E any] = metrics.Collector[E]

// EncodingError reports a codec failure.
type EncodingError = queue.EncodingError

// Errors returned by queue operations.
var (
	ErrEmptyQueue   = queue.ErrEmptyQueue
	ErrClosed       = queue.ErrClosed
	ErrTooLarge     = queue.ErrTooLarge
	ErrStorageWrite = queue.ErrStorageWrite
)

// Open opens (or creates) the queue stored at path.
func Open[E any](path string, c Codec[E], opts ...Option) (*Queue[E], error) {
	return queue.Open(path, c, opts...)
}

// NewCollector returns a metrics collector labelled with name. Subscribe it
// to a queue's EventBus and register it with a Prometheus registry.
func NewCollector[E any](name string) *Collector[E] {
	return metrics.NewCollector[E](name)
}

// Option constructors.
var (
	WithLogger       = queue.WithLogger
	WithID           = queue.WithID
	WithStoreOptions = queue.WithStoreOptions

	WithTable       = store.WithTable
	WithBusyTimeout = store.WithBusyTimeout
	WithSynchronous = store.WithSynchronous
)

// WithBus makes the queue publish to b instead of a bus of its own.
func WithBus[E any](b *Bus[E]) Option {
	return queue.WithBus(b)
}

// IsEncodingError reports whether err wraps an *EncodingError.
func IsEncodingError(err error) bool {
	return queue.IsEncodingError(err)
}

// IsEmptyQueue reports whether err wraps ErrEmptyQueue.
func IsEmptyQueue(err error) bool {
	return queue.IsEmptyQueue(err)
}
