// Package metrics exports queue change events as Prometheus metrics.
//
// A Collector is a bus subscriber: subscribe it to a queue's event bus and
// it counts every Added, Removed and Cleared event and tracks an approximate
// depth gauge. The gauge is seeded from the queue size and then adjusted by
// events, so changes made by other handles to the same file are not seen.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector counts queue events. It implements bus.Subscriber for any
// element type and prometheus.Collector.
type Collector[E any] struct {
	added   prometheus.Counter
	removed prometheus.Counter
	cleared prometheus.Counter
	depth   prometheus.Gauge
}

// NewCollector creates a collector whose metrics carry a constant "queue"
// label.
func NewCollector[E any](queue string) *Collector[E] {
	labels := prometheus.Labels{"queue": queue}
	return &Collector[E]{
		added: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "pqueue",
			Name:        "added_total",
			Help:        "Elements appended to the queue.",
			ConstLabels: labels,
		}),
		removed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "pqueue",
			Name:        "removed_total",
			Help:        "Elements removed from the queue.",
			ConstLabels: labels,
		}),
		cleared: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "pqueue",
			Name:        "cleared_total",
			Help:        "Times the queue was cleared.",
			ConstLabels: labels,
		}),
		depth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "pqueue",
			Name:        "depth",
			Help:        "Approximate number of elements in the queue.",
			ConstLabels: labels,
		}),
	}
}

// SetDepth seeds the depth gauge, typically from Queue.Size.
func (c *Collector[E]) SetDepth(n int) {
	c.depth.Set(float64(n))
}

// OnAdded implements bus.Subscriber.
func (c *Collector[E]) OnAdded(E) {
	c.added.Inc()
	c.depth.Inc()
}

// OnRemoved implements bus.Subscriber.
func (c *Collector[E]) OnRemoved(E) {
	c.removed.Inc()
	c.depth.Dec()
}

// OnCleared implements bus.Subscriber.
func (c *Collector[E]) OnCleared() {
	c.cleared.Inc()
	c.depth.Set(0)
}

// Describe implements prometheus.Collector.
func (c *Collector[E]) Describe(ch chan<- *prometheus.Desc) {
	c.added.Describe(ch)
	c.removed.Describe(ch)
	c.cleared.Describe(ch)
	c.depth.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector[E]) Collect(ch chan<- prometheus.Metric) {
	c.added.Collect(ch)
	c.removed.Collect(ch)
	c.cleared.Collect(ch)
	c.depth.Collect(ch)
}
