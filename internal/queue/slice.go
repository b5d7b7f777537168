package queue

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// maxSliceLen caps slices built by ToSlice and ToSliceInto.
var maxSliceLen = math.MaxInt32 - 8

// ToSlice returns the queue's elements in order.
//
// The result is sized from Size at call time. If the queue shrinks while
// iterating the result is shorter; if it grows the result grows with it.
// Records deleted mid-walk or that fail to decode are skipped.
func (q *Queue[E]) ToSlice(ctx context.Context) ([]E, error) {
	n, err := q.Size(ctx)
	if err != nil {
		return nil, err
	}
	buf := make([]E, n)
	it := q.Iterator()

	i, more, err := q.fill(ctx, it, buf)
	if err != nil {
		return nil, err
	}
	if !more {
		return buf[:i], nil
	}
	return q.finish(ctx, it, buf)
}

// ToSliceInto is ToSlice that writes into dst when dst is long enough.
//
// When dst is reused and the queue yields fewer than len(dst) elements, the
// slot after the last element is set to the zero value and dst is returned
// at full length. A freshly allocated result is truncated instead.
func (q *Queue[E]) ToSliceInto(ctx context.Context, dst []E) ([]E, error) {
	n, err := q.Size(ctx)
	if err != nil {
		return nil, err
	}
	buf, reused := dst, true
	if len(dst) < n {
		buf, reused = make([]E, n), false
	}
	it := q.Iterator()

	i, more, err := q.fill(ctx, it, buf)
	if err != nil {
		return nil, err
	}
	if more {
		return q.finish(ctx, it, buf)
	}
	if i == len(buf) {
		return buf, nil
	}
	if !reused {
		return buf[:i], nil
	}
	var zero E
	buf[i] = zero
	return buf, nil
}

// fill writes elements into buf from the start until it is full or the
// iterator is exhausted. more reports whether elements are left over.
func (q *Queue[E]) fill(ctx context.Context, it *Iterator[E], buf []E) (n int, more bool, err error) {
	for n < len(buf) {
		e, ok, more, err := q.step(ctx, it)
		if err != nil {
			return n, false, err
		}
		if !more {
			return n, false, nil
		}
		if ok {
			buf[n] = e
			n++
		}
	}
	more, err = it.HasNext(ctx)
	return n, more, err
}

// finish appends the remaining elements to a full buf, growing it by half
// plus one each time it runs out.
func (q *Queue[E]) finish(ctx context.Context, it *Iterator[E], buf []E) ([]E, error) {
	i := len(buf)
	for {
		e, ok, more, err := q.step(ctx, it)
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
		if !ok {
			continue
		}
		if i == len(buf) {
			newLen, err := grownLen(len(buf))
			if err != nil {
				return nil, err
			}
			grown := make([]E, newLen)
			copy(grown, buf)
			buf = grown
		}
		buf[i] = e
		i++
	}
	return buf[:i], nil
}

// step advances it once. more is false at the end of the sequence; ok is
// false for a skipped record.
func (q *Queue[E]) step(ctx context.Context, it *Iterator[E]) (e E, ok, more bool, err error) {
	more, err = it.HasNext(ctx)
	if err != nil || !more {
		return e, false, false, err
	}
	e, ok, err = it.Next(ctx)
	var encErr *EncodingError
	if errors.As(err, &encErr) {
		q.log.Warn("skipping undecodable record", "error", err)
		return e, false, true, nil
	}
	return e, ok, true, err
}

func grownLen(cur int) (int, error) {
	next := cur + cur>>1 + 1
	if next <= maxSliceLen && next > cur {
		return next, nil
	}
	if cur+1 > maxSliceLen || cur+1 < 0 {
		return 0, fmt.Errorf("%w: need more than %d elements", ErrTooLarge, maxSliceLen)
	}
	return maxSliceLen, nil
}
