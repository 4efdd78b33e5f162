package backing

import (
	"fmt"
	"sync"

	"github.com/hupe1980/arena/internal/mem"
)

// HeapProvider hands out page-aligned blocks from the Go heap.
// It is safe for concurrent use.
type HeapProvider struct {
	mu   sync.Mutex
	live map[uintptr]int
}

// Heap returns a provider backed by Go-heap allocations.
func Heap() *HeapProvider {
	return &HeapProvider{
		live: make(map[uintptr]int),
	}
}

// Acquire allocates size bytes rounded up to a page multiple.
func (p *HeapProvider) Acquire(size int) ([]byte, error) {
	if size < 0 {
		return nil, ErrInvalidSize
	}
	n, ok := mem.PageBytes(size)
	if !ok {
		return nil, ErrInvalidSize
	}

	block := mem.AllocAligned(n, mem.PageSize())

	p.mu.Lock()
	p.live[blockAddr(block)] = n
	p.mu.Unlock()

	return block, nil
}

// Release forgets a block; the garbage collector reclaims it.
func (p *HeapProvider) Release(block []byte) error {
	addr := blockAddr(block)

	p.mu.Lock()
	defer p.mu.Unlock()

	n, ok := p.live[addr]
	if !ok || n != len(block) {
		return fmt.Errorf("%w: %#x (%d bytes)", ErrUnknownBlock, addr, len(block))
	}
	delete(p.live, addr)
	return nil
}

// Outstanding returns the number of blocks acquired but not yet released.
func (p *HeapProvider) Outstanding() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.live)
}
