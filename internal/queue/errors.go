package queue

import (
	"errors"
	"fmt"

	"github.com/roach88/pqueue/internal/table"
)

var (
	// ErrEmptyQueue is returned by Dequeue and Element on an empty queue.
	ErrEmptyQueue = errors.New("queue is empty")

	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("queue is closed")

	// ErrTooLarge is returned when a slice export would exceed maxSliceLen.
	ErrTooLarge = errors.New("required slice size too large")

	// ErrStorageWrite is returned by Add when the store rejects the write.
	ErrStorageWrite = table.ErrStorageWrite
)

// EncodingError reports a codec failure.
//
// Value holds the stored text for decode failures. For Dequeue and Poll the
// record has already been deleted when this error is returned, so Value is
// the only remaining copy.
type EncodingError struct {
	// Op is "encode" or "decode".
	Op string

	// Value is the raw stored text (decode only).
	Value string

	Err error
}

// Error implements the error interface.
func (e *EncodingError) Error() string {
	if e.Op == "decode" {
		return fmt.Sprintf("%s %q: %v", e.Op, e.Value, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the codec error.
func (e *EncodingError) Unwrap() error {
	return e.Err
}

// IsEncodingError returns true if err wraps an EncodingError.
func IsEncodingError(err error) bool {
	var ee *EncodingError
	return errors.As(err, &ee)
}

// IsEmptyQueue returns true if err is ErrEmptyQueue.
func IsEmptyQueue(err error) bool {
	return errors.Is(err, ErrEmptyQueue)
}
