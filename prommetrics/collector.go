// Package prommetrics exports typeddict storage events as Prometheus metrics.
package prommetrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/homier/typeddict"
)

// Collector implements typeddict.MetricsCollector.
type Collector struct {
	grows         prometheus.Counter
	reservedCells prometheus.Histogram
	rebuilds      prometheus.Counter
	tombstones    prometheus.Counter
	releases      prometheus.Counter
	releasedPairs prometheus.Counter
}

var _ typeddict.MetricsCollector = (*Collector)(nil)

// New creates a Collector and registers its metrics with reg. If reg is nil
// the metrics are created but not registered.
func New(reg prometheus.Registerer, namespace string) *Collector {
	c := &Collector{
		grows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "typeddict_slot_grows_total",
			Help:      "Total slot storage growths",
		}),
		reservedCells: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "typeddict_reserved_cells",
			Help:      "Reserved cell count after each slot storage growth",
			Buckets:   prometheus.ExponentialBuckets(4, 4, 10),
		}),
		rebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "typeddict_index_rebuilds_total",
			Help:      "Total hash index rebuilds",
		}),
		tombstones: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "typeddict_tombstones_dropped_total",
			Help:      "Tombstones dropped by hash index rebuilds",
		}),
		releases: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "typeddict_layouts_released_total",
			Help:      "Layouts torn down after their last reference was dropped",
		}),
		releasedPairs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "typeddict_pairs_released_total",
			Help:      "Live pairs destroyed by layout teardown",
		}),
	}

	if reg != nil {
		reg.MustRegister(c.grows, c.reservedCells, c.rebuilds, c.tombstones, c.releases, c.releasedPairs)
	}

	return c
}

func (c *Collector) RecordGrow(reserved int) {
	c.grows.Inc()
	c.reservedCells.Observe(float64(reserved))
}

func (c *Collector) RecordRebuild(_, tombstones int) {
	c.rebuilds.Inc()
	c.tombstones.Add(float64(tombstones))
}

func (c *Collector) RecordRelease(live int) {
	c.releases.Inc()
	c.releasedPairs.Add(float64(live))
}
