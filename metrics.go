package typeddict

import "sync/atomic"

// MetricsCollector receives storage events from every Layout of a Dict type.
// Calls happen on the goroutine performing the operation.
type MetricsCollector interface {
	// RecordGrow is called after slot storage grew to reserved cells.
	RecordGrow(reserved int)

	// RecordRebuild is called after the hash index was rebuilt with the given
	// capacity, dropping the given number of tombstones.
	RecordRebuild(capacity, tombstones int)

	// RecordRelease is called when a Layout is torn down, with the number of
	// live pairs it still held.
	RecordRelease(live int)
}

// NoopMetricsCollector discards all events.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordGrow(int)         {}
func (NoopMetricsCollector) RecordRebuild(int, int) {}
func (NoopMetricsCollector) RecordRelease(int)      {}

// BasicMetricsCollector keeps in-memory counters.
type BasicMetricsCollector struct {
	Grows             atomic.Int64
	Rebuilds          atomic.Int64
	TombstonesDropped atomic.Int64
	Releases          atomic.Int64
	ReleasedPairs     atomic.Int64
	MaxReservedCells  atomic.Int64
	MaxIndexCapacity  atomic.Int64
}

// RecordGrow implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGrow(reserved int) {
	b.Grows.Add(1)
	storeMax(&b.MaxReservedCells, int64(reserved))
}

// RecordRebuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRebuild(capacity, tombstones int) {
	b.Rebuilds.Add(1)
	b.TombstonesDropped.Add(int64(tombstones))
	storeMax(&b.MaxIndexCapacity, int64(capacity))
}

// RecordRelease implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRelease(live int) {
	b.Releases.Add(1)
	b.ReleasedPairs.Add(int64(live))
}

func storeMax(v *atomic.Int64, n int64) {
	for {
		cur := v.Load()
		if n <= cur || v.CompareAndSwap(cur, n) {
			return
		}
	}
}
