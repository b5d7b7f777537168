package bus

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"sync"
)

var (
	// ErrInvalidEventKind is returned by Publish for an unknown Kind.
	ErrInvalidEventKind = errors.New("invalid event kind")

	// ErrUncomparableSubscriber is returned by Subscribe for values that
	// cannot be compared with ==, such as structs holding funcs.
	ErrUncomparableSubscriber = errors.New("subscriber is not comparable")
)

// Subscriber receives queue change events.
type Subscriber[T any] interface {
	OnAdded(v T)
	OnRemoved(v T)
	OnCleared()
}

// Funcs adapts plain functions to Subscriber. Nil fields are skipped.
// Subscribe a *Funcs; the struct value itself is not comparable.
type Funcs[T any] struct {
	Added   func(v T)
	Removed func(v T)
	Cleared func()
}

// OnAdded implements Subscriber.
func (f *Funcs[T]) OnAdded(v T) {
	if f.Added != nil {
		f.Added(v)
	}
}

// OnRemoved implements Subscriber.
func (f *Funcs[T]) OnRemoved(v T) {
	if f.Removed != nil {
		f.Removed(v)
	}
}

// OnCleared implements Subscriber.
func (f *Funcs[T]) OnCleared() {
	if f.Cleared != nil {
		f.Cleared()
	}
}

// Bus is a registry of subscribers for one queue.
//
// Thread-safety: all methods are safe for concurrent use. Publish works on a
// snapshot of the subscriber list, so a subscriber may subscribe or
// unsubscribe while handling an event.
type Bus[T any] struct {
	mu          sync.RWMutex
	subscribers []Subscriber[T]
	log         *slog.Logger
}

// New creates an empty bus. A nil logger falls back to slog.Default().
func New[T any](logger *slog.Logger) *Bus[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus[T]{log: logger}
}

// Subscribe registers s. Subscribing the same subscriber again is a no-op.
func (b *Bus[T]) Subscribe(s Subscriber[T]) error {
	if s == nil {
		return errors.New("subscribe: nil subscriber")
	}
	if !reflect.ValueOf(s).Comparable() {
		return fmt.Errorf("subscribe %T: %w", s, ErrUncomparableSubscriber)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.indexLocked(s) >= 0 {
		return nil
	}
	b.subscribers = append(b.subscribers, s)
	return nil
}

// Unsubscribe removes s if present.
func (b *Bus[T]) Unsubscribe(s Subscriber[T]) {
	if s == nil || !reflect.ValueOf(s).Comparable() {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if i := b.indexLocked(s); i >= 0 {
		b.subscribers = slices.Delete(b.subscribers, i, i+1)
	}
}

// HasSubscribers reports whether at least one subscriber is registered.
func (b *Bus[T]) HasSubscribers() bool {
	return b.Len() > 0
}

// Len returns the number of registered subscribers.
func (b *Bus[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Publish delivers e to every subscriber in registration order.
func (b *Bus[T]) Publish(e Event[T]) error {
	if !e.Kind.Valid() {
		return fmt.Errorf("publish: %w: %d", ErrInvalidEventKind, int(e.Kind))
	}

	b.mu.RLock()
	subs := slices.Clone(b.subscribers)
	b.mu.RUnlock()

	for _, s := range subs {
		b.deliver(s, e)
	}
	return nil
}

// PublishAdded delivers an Added event for v.
func (b *Bus[T]) PublishAdded(v T) {
	_ = b.Publish(AddedEvent(v))
}

// PublishRemoved delivers a Removed event for v.
func (b *Bus[T]) PublishRemoved(v T) {
	_ = b.Publish(RemovedEvent(v))
}

// PublishCleared delivers a Cleared event.
func (b *Bus[T]) PublishCleared() {
	_ = b.Publish(ClearedEvent[T]())
}

// deliver calls the handler for e.Kind, recovering from a panicking subscriber.
func (b *Bus[T]) deliver(s Subscriber[T], e Event[T]) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("subscriber panicked",
				"kind", e.Kind.String(),
				"subscriber", fmt.Sprintf("%T", s),
				"panic", r,
			)
		}
	}()

	switch e.Kind {
	case Added:
		s.OnAdded(e.Value)
	case Removed:
		s.OnRemoved(e.Value)
	case Cleared:
		s.OnCleared()
	}
}

func (b *Bus[T]) indexLocked(s Subscriber[T]) int {
	for i, existing := range b.subscribers {
		if existing == s {
			return i
		}
	}
	return -1
}
