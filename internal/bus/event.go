package bus

import "fmt"

// Kind distinguishes between event kinds.
type Kind int

const (
	// Added reports an element appended to the queue.
	Added Kind = iota + 1
	// Removed reports an element taken out of the queue.
	Removed
	// Cleared reports that every element was deleted at once.
	Cleared
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Cleared:
		return "cleared"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= Added && k <= Cleared
}

// Event is a single change notification. Value holds the element for Added
// and Removed and is the zero value for Cleared.
type Event[T any] struct {
	Kind  Kind
	Value T
}

// AddedEvent builds an Added event for v.
func AddedEvent[T any](v T) Event[T] {
	return Event[T]{Kind: Added, Value: v}
}

// RemovedEvent builds a Removed event for v.
func RemovedEvent[T any](v T) Event[T] {
	return Event[T]{Kind: Removed, Value: v}
}

// ClearedEvent builds a Cleared event.
func ClearedEvent[T any]() Event[T] {
	return Event[T]{Kind: Cleared}
}
