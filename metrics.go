package animalcache

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus;
// see examples/observability.
type MetricsCollector interface {
	// RecordBuild is called after each build attempt.
	// records is the number of indexed records, err is nil if successful.
	RecordBuild(records int, duration time.Duration, err error)

	// RecordLookup is called after each read. kind names the read
	// ("id", "category", "name_substring", ...), results is the number of
	// records returned.
	RecordLookup(kind string, results int, duration time.Duration)

	// RecordMutation is called after each lifecycle hook.
	RecordMutation(kind MutationKind, applied bool)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(int, time.Duration, error)   {}
func (NoopMetricsCollector) RecordLookup(string, int, time.Duration) {}
func (NoopMetricsCollector) RecordMutation(MutationKind, bool)       {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	BuildCount       atomic.Int64
	BuildErrors      atomic.Int64
	BuildTotalNanos  atomic.Int64
	LastBuildRecords atomic.Int64
	LookupCount      atomic.Int64
	LookupTotalNanos atomic.Int64
	LookupMisses     atomic.Int64
	MutationCount    atomic.Int64
	MutationsApplied atomic.Int64
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(records int, duration time.Duration, err error) {
	b.BuildCount.Add(1)
	b.BuildTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.BuildErrors.Add(1)
		return
	}
	b.LastBuildRecords.Store(int64(records))
}

// RecordLookup implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLookup(_ string, results int, duration time.Duration) {
	b.LookupCount.Add(1)
	b.LookupTotalNanos.Add(duration.Nanoseconds())
	if results == 0 {
		b.LookupMisses.Add(1)
	}
}

// RecordMutation implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMutation(_ MutationKind, applied bool) {
	b.MutationCount.Add(1)
	if applied {
		b.MutationsApplied.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	s := BasicMetricsStats{
		BuildCount:       b.BuildCount.Load(),
		BuildErrors:      b.BuildErrors.Load(),
		LastBuildRecords: b.LastBuildRecords.Load(),
		LookupCount:      b.LookupCount.Load(),
		LookupMisses:     b.LookupMisses.Load(),
		MutationCount:    b.MutationCount.Load(),
		MutationsApplied: b.MutationsApplied.Load(),
	}
	if s.BuildCount > 0 {
		s.AvgBuildNanos = b.BuildTotalNanos.Load() / s.BuildCount
	}
	if s.LookupCount > 0 {
		s.AvgLookupNanos = b.LookupTotalNanos.Load() / s.LookupCount
	}
	return s
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	BuildCount       int64
	BuildErrors      int64
	AvgBuildNanos    int64
	LastBuildRecords int64
	LookupCount      int64
	LookupMisses     int64
	AvgLookupNanos   int64
	MutationCount    int64
	MutationsApplied int64
}
