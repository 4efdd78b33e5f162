package arena

import (
	"sync/atomic"
)

// MetricsObserver receives arena growth and teardown events.
// Implement this interface to integrate with monitoring systems; the
// metrics/prom package provides a Prometheus implementation.
//
// Observers are called synchronously on the allocating goroutine.
type MetricsObserver interface {
	// OnGrow is called after a new region has been created.
	OnGrow(strategy Strategy, index, capacity, blockSize int)

	// OnFit is called after each fit allocation. scanned is the number of
	// regions tried, grew reports whether a new region had to be created.
	OnFit(scanned int, grew bool)

	// OnAcquireError is called when backing memory cannot be acquired.
	OnAcquireError(size int, err error)

	// OnDelete is called after teardown with the number of regions and
	// backing bytes released.
	OnDelete(regions, bytes int, err error)
}

// NoopMetricsObserver is a no-op implementation of MetricsObserver.
type NoopMetricsObserver struct{}

func (NoopMetricsObserver) OnGrow(Strategy, int, int, int) {}
func (NoopMetricsObserver) OnFit(int, bool)                {}
func (NoopMetricsObserver) OnAcquireError(int, error)      {}
func (NoopMetricsObserver) OnDelete(int, int, error)       {}

// BasicMetricsObserver provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
// It is safe to share between arenas.
type BasicMetricsObserver struct {
	RegionsCreated atomic.Int64
	AppendGrowths  atomic.Int64
	FitGrowths     atomic.Int64
	BytesAcquired  atomic.Int64
	FitCount       atomic.Int64
	FitHits        atomic.Int64
	FitScanned     atomic.Int64
	AcquireErrors  atomic.Int64
	Deletes        atomic.Int64
	DeleteErrors   atomic.Int64
	BytesReleased  atomic.Int64
}

// OnGrow implements MetricsObserver.
func (b *BasicMetricsObserver) OnGrow(strategy Strategy, _, _, blockSize int) {
	b.RegionsCreated.Add(1)
	b.BytesAcquired.Add(int64(blockSize))
	switch strategy {
	case StrategyFit:
		b.FitGrowths.Add(1)
	default:
		b.AppendGrowths.Add(1)
	}
}

// OnFit implements MetricsObserver.
func (b *BasicMetricsObserver) OnFit(scanned int, grew bool) {
	b.FitCount.Add(1)
	b.FitScanned.Add(int64(scanned))
	if !grew {
		b.FitHits.Add(1)
	}
}

// OnAcquireError implements MetricsObserver.
func (b *BasicMetricsObserver) OnAcquireError(int, error) {
	b.AcquireErrors.Add(1)
}

// OnDelete implements MetricsObserver.
func (b *BasicMetricsObserver) OnDelete(_, bytes int, err error) {
	b.Deletes.Add(1)
	b.BytesReleased.Add(int64(bytes))
	if err != nil {
		b.DeleteErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsObserver) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		RegionsCreated: b.RegionsCreated.Load(),
		AppendGrowths:  b.AppendGrowths.Load(),
		FitGrowths:     b.FitGrowths.Load(),
		BytesAcquired:  b.BytesAcquired.Load(),
		FitCount:       b.FitCount.Load(),
		FitHits:        b.FitHits.Load(),
		FitAvgScanned:  b.getAvgFitScanned(),
		AcquireErrors:  b.AcquireErrors.Load(),
		Deletes:        b.Deletes.Load(),
		DeleteErrors:   b.DeleteErrors.Load(),
		BytesReleased:  b.BytesReleased.Load(),
	}
}

func (b *BasicMetricsObserver) getAvgFitScanned() float64 {
	count := b.FitCount.Load()
	if count == 0 {
		return 0
	}
	return float64(b.FitScanned.Load()) / float64(count)
}

// BasicMetricsStats is a snapshot of BasicMetricsObserver state.
type BasicMetricsStats struct {
	RegionsCreated int64
	AppendGrowths  int64
	FitGrowths     int64
	BytesAcquired  int64
	FitCount       int64
	FitHits        int64
	FitAvgScanned  float64
	AcquireErrors  int64
	Deletes        int64
	DeleteErrors   int64
	BytesReleased  int64
}
