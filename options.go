package arena

import (
	"log/slog"

	"github.com/hupe1980/arena/backing"
)

type options struct {
	provider        backing.Provider
	budget          *backing.Budget
	metricsObserver MetricsObserver
	logger          *Logger
	regionCapacity  int
	hasRegionCap    bool
}

// Option configures arena construction.
type Option func(*options)

// WithProvider configures where backing memory comes from.
//
// If nil is passed, backing.OS() is used.
func WithProvider(p backing.Provider) Option {
	return func(o *options) {
		o.provider = p
	}
}

// WithMemoryLimit caps the backing memory the arena may hold at once.
// Growth that would exceed the limit fails with ErrOutOfMemory; the cause
// matches backing.ErrBudgetExceeded.
//
// A limit <= 0 only tracks usage.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		if bytes < 0 {
			bytes = 0
		}
		o.budget = backing.NewBudget(bytes)
	}
}

// WithBudget charges the arena's backing memory to a shared budget.
//
// Example sharing one limit between per-goroutine arenas:
//
//	budget := backing.NewBudget(256 << 20)
//	a1, _ := arena.New(0, arena.WithBudget(budget))
//	a2, _ := arena.New(0, arena.WithBudget(budget))
func WithBudget(b *backing.Budget) Option {
	return func(o *options) {
		o.budget = b
	}
}

// WithRegionCapacity sets the initial growth target for new regions.
// By default new regions are sized like the initial capacity passed to New.
func WithRegionCapacity(capacity int) Option {
	return func(o *options) {
		o.regionCapacity = capacity
		o.hasRegionCap = true
	}
}

// WithMetricsObserver configures an observer for growth and teardown events.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsObserver:
//
//	metrics := &arena.BasicMetricsObserver{}
//	a, _ := arena.New(4096, arena.WithMetricsObserver(metrics))
//	// ... use a ...
//	stats := metrics.GetStats()
//	fmt.Printf("Regions: %d, Fit hits: %d\n", stats.RegionsCreated, stats.FitHits)
func WithMetricsObserver(mo MetricsObserver) Option {
	return func(o *options) {
		o.metricsObserver = mo
	}
}

// WithLogger configures structured logging for arena events.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := arena.NewJSONLogger(slog.LevelDebug)
//	a, _ := arena.New(4096, arena.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsObserver: NoopMetricsObserver{},
		logger:          NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.provider == nil {
		o.provider = backing.OS()
	}
	if o.budget != nil {
		o.provider = backing.Limit(o.provider, o.budget)
	}
	if o.metricsObserver == nil {
		o.metricsObserver = NoopMetricsObserver{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}
