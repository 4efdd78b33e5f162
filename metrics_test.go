package arena

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/arena/internal/mem"
)

func TestBasicMetricsObserver(t *testing.T) {
	ps := mem.PageSize()
	metrics := &BasicMetricsObserver{}
	a, _ := newTestArena(t, 0, WithMetricsObserver(metrics))

	_, err := a.Alloc(ps, 0) // append growth
	require.NoError(t, err)
	_, err = a.Fit(64, 8) // hit in region 0
	require.NoError(t, err)
	_, err = a.Fit(4*ps, 0) // scans both, grows
	require.NoError(t, err)
	require.NoError(t, a.Delete())

	stats := metrics.GetStats()
	assert.Equal(t, int64(2), stats.RegionsCreated)
	assert.Equal(t, int64(1), stats.AppendGrowths)
	assert.Equal(t, int64(1), stats.FitGrowths)
	assert.Equal(t, int64(2*ps+5*ps), stats.BytesAcquired)
	assert.Equal(t, int64(2), stats.FitCount)
	assert.Equal(t, int64(1), stats.FitHits)
	assert.InDelta(t, 1.5, stats.FitAvgScanned, 1e-9)
	assert.Equal(t, int64(1), stats.Deletes)
	assert.Equal(t, int64(ps+2*ps+5*ps), stats.BytesReleased)
	assert.Equal(t, int64(0), stats.DeleteErrors)
}

func TestBasicMetricsObserver_Concurrent(t *testing.T) {
	metrics := &BasicMetricsObserver{}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				metrics.OnGrow(StrategyAppend, j, 10, 4096)
				metrics.OnFit(2, false)
				metrics.OnAcquireError(4096, errors.New("boom"))
			}
		}()
	}
	wg.Wait()

	stats := metrics.GetStats()
	assert.Equal(t, int64(800), stats.RegionsCreated)
	assert.Equal(t, int64(800*4096), stats.BytesAcquired)
	assert.Equal(t, int64(800), stats.FitHits)
	assert.Equal(t, int64(800), stats.AcquireErrors)
	assert.InDelta(t, 2.0, stats.FitAvgScanned, 1e-9)
}

func TestNoopMetricsObserver(t *testing.T) {
	var obs MetricsObserver = NoopMetricsObserver{}
	obs.OnGrow(StrategyFit, 1, 2, 3)
	obs.OnFit(1, true)
	obs.OnAcquireError(1, nil)
	obs.OnDelete(1, 2, nil)
	assert.Zero(t, (&BasicMetricsObserver{}).GetStats().FitAvgScanned)
}
