package prom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/arena"
)

// Observer implements arena.MetricsObserver with Prometheus collectors.
type Observer struct {
	regions       *prometheus.CounterVec
	acquiredBytes prometheus.Counter
	releasedBytes prometheus.Counter
	fits          *prometheus.CounterVec
	fitScanned    prometheus.Histogram
	acquireErrors prometheus.Counter
	deletes       *prometheus.CounterVec
}

var _ arena.MetricsObserver = (*Observer)(nil)

// NewObserver creates the collectors under namespace and registers them.
func NewObserver(reg prometheus.Registerer, namespace string) (*Observer, error) {
	o := &Observer{
		regions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "arena",
			Name:      "regions_created_total",
			Help:      "Regions created by growth",
		}, []string{"strategy"}),
		acquiredBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "arena",
			Name:      "region_bytes_acquired_total",
			Help:      "Backing bytes acquired for grown regions",
		}),
		releasedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "arena",
			Name:      "bytes_released_total",
			Help:      "Backing bytes released by arena teardown",
		}),
		fits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "arena",
			Name:      "fit_allocations_total",
			Help:      "Fit allocations by outcome",
		}, []string{"outcome"}),
		fitScanned: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "arena",
			Name:      "fit_regions_scanned",
			Help:      "Regions tried per fit allocation",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		acquireErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "arena",
			Name:      "acquire_errors_total",
			Help:      "Failed backing memory acquisitions",
		}),
		deletes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "arena",
			Name:      "deletes_total",
			Help:      "Arena teardowns by status",
		}, []string{"status"}),
	}

	for _, c := range []prometheus.Collector{
		o.regions,
		o.acquiredBytes,
		o.releasedBytes,
		o.fits,
		o.fitScanned,
		o.acquireErrors,
		o.deletes,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// OnGrow implements arena.MetricsObserver.
func (o *Observer) OnGrow(strategy arena.Strategy, _, _, blockSize int) {
	o.regions.WithLabelValues(strategy.String()).Inc()
	o.acquiredBytes.Add(float64(blockSize))
}

// OnFit implements arena.MetricsObserver.
func (o *Observer) OnFit(scanned int, grew bool) {
	outcome := "hit"
	if grew {
		outcome = "grew"
	}
	o.fits.WithLabelValues(outcome).Inc()
	o.fitScanned.Observe(float64(scanned))
}

// OnAcquireError implements arena.MetricsObserver.
func (o *Observer) OnAcquireError(int, error) {
	o.acquireErrors.Inc()
}

// OnDelete implements arena.MetricsObserver.
func (o *Observer) OnDelete(_, bytes int, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	o.deletes.WithLabelValues(status).Inc()
	o.releasedBytes.Add(float64(bytes))
}
