package backing

import (
	"fmt"
	"sync"

	"github.com/hupe1980/arena/internal/mem"
	"github.com/hupe1980/arena/internal/mmap"
)

// OSProvider maps anonymous memory straight from the operating system.
// It is safe for concurrent use.
type OSProvider struct {
	mu     sync.Mutex
	live   map[uintptr]*mmap.Mapping
	advice AccessPattern
}

// OSOption configures an OSProvider.
type OSOption func(*OSProvider)

// WithAdvice applies an access pattern hint to every block after mapping.
func WithAdvice(pattern AccessPattern) OSOption {
	return func(p *OSProvider) {
		p.advice = pattern
	}
}

// OS returns a provider backed by anonymous memory mappings.
func OS(opts ...OSOption) *OSProvider {
	p := &OSProvider{
		live: make(map[uintptr]*mmap.Mapping),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Acquire maps size bytes rounded up to a page multiple.
func (p *OSProvider) Acquire(size int) ([]byte, error) {
	if size < 0 {
		return nil, ErrInvalidSize
	}
	n, ok := mem.PageBytes(size)
	if !ok {
		return nil, ErrInvalidSize
	}

	m, err := mmap.MapAnon(n)
	if err != nil {
		return nil, fmt.Errorf("backing: map %d bytes: %w", n, err)
	}
	if p.advice != AccessDefault {
		// Advisory only.
		_ = m.Advise(p.advice)
	}

	p.mu.Lock()
	p.live[m.Addr()] = m
	p.mu.Unlock()

	return m.Bytes(), nil
}

// Release unmaps a block returned by Acquire.
func (p *OSProvider) Release(block []byte) error {
	addr := blockAddr(block)

	p.mu.Lock()
	m, ok := p.live[addr]
	if ok && m.Size() == len(block) {
		delete(p.live, addr)
	} else {
		ok = false
	}
	p.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %#x (%d bytes)", ErrUnknownBlock, addr, len(block))
	}
	return m.Close()
}

// Outstanding returns the number of blocks acquired but not yet released.
func (p *OSProvider) Outstanding() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.live)
}
