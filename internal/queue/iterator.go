package queue

import (
	"context"
	"iter"
)

// Iterator walks the queue in ascending id order, re-querying the store at
// every step. It has no remove and cannot go backwards; build a new one to
// start over from the current head.
type Iterator[E any] struct {
	q       *Queue[E]
	current int64 // ids start at 1, so 0 sits before the first record
}

// Iterator returns a live iterator positioned before the head.
func (q *Queue[E]) Iterator() *Iterator[E] {
	return &Iterator[E]{q: q}
}

// HasNext reports whether a record with an id past the cursor exists.
// Evaluated against the store on every call.
func (it *Iterator[E]) HasNext(ctx context.Context) (bool, error) {
	if err := it.q.checkOpen(); err != nil {
		return false, err
	}
	count, err := it.q.table.Count(ctx)
	if err != nil || count == 0 {
		return false, err
	}
	maxID, ok, err := it.q.table.MaxID(ctx)
	if err != nil || !ok {
		return false, err
	}
	return it.current < maxID, nil
}

// Next advances to the next record and decodes it.
//
// ok is false when there was nothing to yield: either the record was deleted
// after HasNext returned true, or nothing lies past the cursor. Neither case
// moves the cursor backwards, so HasNext stays accurate afterwards.
func (it *Iterator[E]) Next(ctx context.Context) (e E, ok bool, err error) {
	if err := it.q.checkOpen(); err != nil {
		return e, false, err
	}
	id, found, err := it.q.table.NextIDAfter(ctx, it.current)
	if err != nil || !found {
		return e, false, err
	}
	it.current = id

	s, found, err := it.q.table.Get(ctx, id)
	if err != nil || !found {
		return e, false, err
	}
	e, err = it.q.decode(s)
	if err != nil {
		return e, false, err
	}
	return e, true, nil
}

// All ranges over the queue with a fresh live iterator. Absent yields are
// skipped. On error the sequence yields the error once and stops.
func (q *Queue[E]) All(ctx context.Context) iter.Seq2[E, error] {
	return func(yield func(E, error) bool) {
		it := q.Iterator()
		for {
			more, err := it.HasNext(ctx)
			if err != nil {
				var zero E
				yield(zero, err)
				return
			}
			if !more {
				return
			}
			e, ok, err := it.Next(ctx)
			if err != nil {
				yield(e, err)
				return
			}
			if !ok {
				continue
			}
			if !yield(e, nil) {
				return
			}
		}
	}
}
