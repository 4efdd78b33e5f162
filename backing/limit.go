package backing

import (
	"fmt"

	"github.com/hupe1980/arena/internal/mem"
	"github.com/hupe1980/arena/internal/resource"
)

// ErrBudgetExceeded is returned when an acquisition would exceed a Budget.
var ErrBudgetExceeded = resource.ErrMemoryLimitExceeded

// Budget caps the backing memory outstanding across one or more providers.
// A Budget may be shared by arenas on different goroutines.
type Budget struct {
	ctrl *resource.Controller
}

// NewBudget creates a budget of limitBytes. A limit of 0 only tracks usage.
func NewBudget(limitBytes int64) *Budget {
	return &Budget{
		ctrl: resource.NewController(resource.Config{MemoryLimitBytes: limitBytes}),
	}
}

// Used returns the bytes currently charged to the budget.
func (b *Budget) Used() int64 { return b.ctrl.MemoryUsage() }

// Peak returns the highest usage the budget has seen.
func (b *Budget) Peak() int64 { return b.ctrl.PeakMemoryUsage() }

// Limit returns the configured limit (0 if unlimited).
func (b *Budget) Limit() int64 { return b.ctrl.MemoryLimit() }

// LimitedProvider charges every block of an underlying provider to a Budget.
type LimitedProvider struct {
	p      Provider
	budget *Budget
}

// Limit wraps p so that its outstanding blocks never exceed budget.
func Limit(p Provider, budget *Budget) *LimitedProvider {
	return &LimitedProvider{p: p, budget: budget}
}

// Budget returns the budget the provider charges.
func (l *LimitedProvider) Budget() *Budget {
	return l.budget
}

// Acquire reserves the page-rounded size from the budget before delegating.
func (l *LimitedProvider) Acquire(size int) ([]byte, error) {
	if size < 0 {
		return nil, ErrInvalidSize
	}
	n, ok := mem.PageBytes(size)
	if !ok {
		return nil, ErrInvalidSize
	}

	if err := l.budget.ctrl.AcquireMemory(int64(n)); err != nil {
		return nil, fmt.Errorf("backing: reserve %d bytes (used %d of %d): %w",
			n, l.budget.Used(), l.budget.Limit(), err)
	}

	block, err := l.p.Acquire(n)
	if err != nil {
		l.budget.ctrl.ReleaseMemory(int64(n))
		return nil, err
	}

	if extra := len(block) - n; extra > 0 {
		if err := l.budget.ctrl.AcquireMemory(int64(extra)); err != nil {
			l.budget.ctrl.ReleaseMemory(int64(n))
			_ = l.p.Release(block)
			return nil, fmt.Errorf("backing: reserve %d bytes: %w", len(block), err)
		}
	}

	return block, nil
}

// Release returns the block to the underlying provider and refunds the budget.
func (l *LimitedProvider) Release(block []byte) error {
	if err := l.p.Release(block); err != nil {
		return err
	}
	l.budget.ctrl.ReleaseMemory(int64(len(block)))
	return nil
}
