package lsmgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus.
type MetricsCollector interface {
	// RecordInsert is called after each insert operation.
	// duration is the total time taken including any forced flush.
	RecordInsert(duration time.Duration, err error)

	// RecordDelete is called after each delete operation.
	RecordDelete(duration time.Duration, err error)

	// RecordGet is called after each point read. hit reports whether a
	// live value was found.
	RecordGet(duration time.Duration, hit bool, err error)

	// RecordRange is called after each range scan. count is the number of
	// entries returned.
	RecordRange(duration time.Duration, count int, err error)

	// RecordFlush is called after each memtable flush. entries is the
	// number of entries written to level 0.
	RecordFlush(duration time.Duration, entries int, err error)

	// RecordCompaction is called after each compaction run. dropped is the
	// number of entries discarded by tombstone collection.
	RecordCompaction(level int, duration time.Duration, dropped int, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordInsert(time.Duration, error)          {}
func (NoopMetricsCollector) RecordDelete(time.Duration, error)          {}
func (NoopMetricsCollector) RecordGet(time.Duration, bool, error)       {}
func (NoopMetricsCollector) RecordRange(time.Duration, int, error)      {}
func (NoopMetricsCollector) RecordFlush(time.Duration, int, error)      {}
func (NoopMetricsCollector) RecordCompaction(int, time.Duration, int, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	InsertCount      atomic.Int64
	InsertErrors     atomic.Int64
	InsertTotalNanos atomic.Int64
	DeleteCount      atomic.Int64
	DeleteErrors     atomic.Int64
	GetCount         atomic.Int64
	GetHits          atomic.Int64
	GetErrors        atomic.Int64
	GetTotalNanos    atomic.Int64
	RangeCount       atomic.Int64
	RangeEntries     atomic.Int64
	RangeErrors      atomic.Int64
	FlushCount       atomic.Int64
	FlushEntries     atomic.Int64
	FlushErrors      atomic.Int64
	CompactionCount  atomic.Int64
	CompactionErrors atomic.Int64
	DroppedEntries   atomic.Int64
}

// RecordInsert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInsert(duration time.Duration, err error) {
	b.InsertCount.Add(1)
	b.InsertTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.InsertErrors.Add(1)
	}
}

// RecordDelete implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDelete(duration time.Duration, err error) {
	b.DeleteCount.Add(1)
	if err != nil {
		b.DeleteErrors.Add(1)
	}
}

// RecordGet implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGet(duration time.Duration, hit bool, err error) {
	b.GetCount.Add(1)
	b.GetTotalNanos.Add(duration.Nanoseconds())
	if hit {
		b.GetHits.Add(1)
	}
	if err != nil {
		b.GetErrors.Add(1)
	}
}

// RecordRange implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRange(duration time.Duration, count int, err error) {
	b.RangeCount.Add(1)
	b.RangeEntries.Add(int64(count))
	if err != nil {
		b.RangeErrors.Add(1)
	}
}

// RecordFlush implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFlush(duration time.Duration, entries int, err error) {
	b.FlushCount.Add(1)
	b.FlushEntries.Add(int64(entries))
	if err != nil {
		b.FlushErrors.Add(1)
	}
}

// RecordCompaction implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCompaction(level int, duration time.Duration, dropped int, err error) {
	b.CompactionCount.Add(1)
	b.DroppedEntries.Add(int64(dropped))
	if err != nil {
		b.CompactionErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		InsertCount:      b.InsertCount.Load(),
		InsertErrors:     b.InsertErrors.Load(),
		InsertAvgNanos:   avg(b.InsertTotalNanos.Load(), b.InsertCount.Load()),
		DeleteCount:      b.DeleteCount.Load(),
		DeleteErrors:     b.DeleteErrors.Load(),
		GetCount:         b.GetCount.Load(),
		GetHits:          b.GetHits.Load(),
		GetErrors:        b.GetErrors.Load(),
		GetAvgNanos:      avg(b.GetTotalNanos.Load(), b.GetCount.Load()),
		RangeCount:       b.RangeCount.Load(),
		RangeEntries:     b.RangeEntries.Load(),
		RangeErrors:      b.RangeErrors.Load(),
		FlushCount:       b.FlushCount.Load(),
		FlushEntries:     b.FlushEntries.Load(),
		FlushErrors:      b.FlushErrors.Load(),
		CompactionCount:  b.CompactionCount.Load(),
		CompactionErrors: b.CompactionErrors.Load(),
		DroppedEntries:   b.DroppedEntries.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	InsertCount      int64
	InsertErrors     int64
	InsertAvgNanos   int64
	DeleteCount      int64
	DeleteErrors     int64
	GetCount         int64
	GetHits          int64
	GetErrors        int64
	GetAvgNanos      int64
	RangeCount       int64
	RangeEntries     int64
	RangeErrors      int64
	FlushCount       int64
	FlushEntries     int64
	FlushErrors      int64
	CompactionCount  int64
	CompactionErrors int64
	DroppedEntries   int64
}
