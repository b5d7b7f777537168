// Package bus broadcasts queue change events to subscribers.
//
// A Bus holds an ordered, duplicate-free list of subscribers. Publish
// delivers an Event synchronously to each of them in registration order on
// the caller's goroutine. Subscribers are compared with ==, so the same
// pointer subscribed twice is delivered to once.
//
// # Isolation
//
// A subscriber that panics is recovered and logged; the remaining subscribers
// still receive the event. Publish itself only fails for an Event whose Kind
// is not one of Added, Removed or Cleared, and it fails before anyone is
// notified.
package bus
