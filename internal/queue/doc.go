// Package queue implements a durable FIFO queue on top of package table.
//
// A Queue[E] combines three parts:
//   - a table.Manager holding encoded records in ascending id order
//   - a codec.Codec[E] converting elements to and from stored text
//   - a bus.Bus[E] notifying subscribers of changes
//
// Every mutating call that succeeds publishes exactly one event; a call that
// fails publishes nothing. Element equality is encoded-text equality: Contains
// and Remove match records whose stored text equals the encoding of the
// argument.
//
// # Live Iteration
//
// Iterator re-reads the store at every step instead of working on a snapshot.
// Records added after the iterator was created are visited if their id is
// past the cursor. A record deleted between HasNext and Next shows up as an
// absent yield (ok == false), which callers should skip rather than treat as
// the end. ToSlice, ToSliceInto and All skip absent yields for you.
//
// # Concurrency
//
// The queue assumes a single logical writer. Individual operations are safe
// to call from several goroutines, but multi-step operations such as
// RetainAll are not atomic.
package queue
