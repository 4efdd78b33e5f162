package testutil

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/hupe1980/arena/backing"
	"github.com/hupe1980/arena/internal/mem"
)

// ErrInjected is returned by Recorder.Acquire once FailAfter triggers.
var ErrInjected = errors.New("testutil: injected acquire failure")

// Op is the kind of a recorded provider call.
type Op int

const (
	// OpAcquire records a successful Acquire.
	OpAcquire Op = iota
	// OpRelease records a successful Release.
	OpRelease
	// OpAcquireFailed records an Acquire that returned an error.
	OpAcquireFailed
	// OpReleaseFailed records a Release of an unknown or mismatched block.
	OpReleaseFailed
)

func (o Op) String() string {
	switch o {
	case OpAcquire:
		return "acquire"
	case OpRelease:
		return "release"
	case OpAcquireFailed:
		return "acquire-failed"
	case OpReleaseFailed:
		return "release-failed"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// Event is one recorded provider call.
type Event struct {
	Op   Op
	Addr uintptr
	Size int
}

// Recorder is a backing.Provider that records every call. Blocks come from
// the Go heap, page aligned and page rounded like the real providers.
type Recorder struct {
	mu        sync.Mutex
	events    []Event
	live      map[uintptr]int
	released  map[uintptr]int
	acquires  int
	failAfter int
	failErr   error
}

var _ backing.Provider = (*Recorder)(nil)

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		live:      make(map[uintptr]int),
		released:  make(map[uintptr]int),
		failAfter: -1,
	}
}

// FailAfter lets n more acquisitions succeed and fails every later one with
// err (ErrInjected if nil). A negative n disables injection.
func (r *Recorder) FailAfter(n int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		err = ErrInjected
	}
	if n < 0 {
		r.failAfter = -1
		return
	}
	r.failAfter = r.acquires + n
	r.failErr = err
}

// Acquire implements backing.Provider.
func (r *Recorder) Acquire(size int) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := mem.PageBytes(size)
	if size < 0 || !ok {
		r.events = append(r.events, Event{Op: OpAcquireFailed, Size: size})
		return nil, backing.ErrInvalidSize
	}
	if r.failAfter >= 0 && r.acquires >= r.failAfter {
		r.events = append(r.events, Event{Op: OpAcquireFailed, Size: n})
		return nil, r.failErr
	}

	block := mem.AllocAligned(n, mem.PageSize())
	addr := addrOf(block)

	r.acquires++
	r.live[addr] = n
	r.events = append(r.events, Event{Op: OpAcquire, Addr: addr, Size: n})
	return block, nil
}

// Release implements backing.Provider.
func (r *Recorder) Release(block []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	addr := addrOf(block)
	n, ok := r.live[addr]
	if !ok || n != len(block) {
		r.events = append(r.events, Event{Op: OpReleaseFailed, Addr: addr, Size: len(block)})
		return fmt.Errorf("%w: %#x (%d bytes)", backing.ErrUnknownBlock, addr, len(block))
	}

	// Poison the block so stale reads stand out.
	for i := range block {
		block[i] = 0xDD
	}

	delete(r.live, addr)
	r.released[addr]++
	r.events = append(r.events, Event{Op: OpRelease, Addr: addr, Size: n})
	return nil
}

// Events returns a copy of the call log.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Count returns how many events of op were recorded.
func (r *Recorder) Count(op Op) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Op == op {
			n++
		}
	}
	return n
}

// Live returns the number of blocks acquired and not yet released.
func (r *Recorder) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}

// LiveBytes returns the total size of blocks not yet released.
func (r *Recorder) LiveBytes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, n := range r.live {
		total += n
	}
	return total
}

// Balanced verifies that every acquired block was released exactly once
// with its acquired size and that no release failed.
func (r *Recorder) Balanced() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	acquired := make(map[uintptr]int)
	for _, e := range r.events {
		switch e.Op {
		case OpAcquire:
			acquired[e.Addr] = e.Size
		case OpRelease:
			if size, ok := acquired[e.Addr]; !ok || size != e.Size {
				errs = append(errs, fmt.Errorf("release of %#x (%d bytes) does not match an acquire", e.Addr, e.Size))
			}
			delete(acquired, e.Addr)
		case OpReleaseFailed:
			errs = append(errs, fmt.Errorf("failed release of %#x (%d bytes)", e.Addr, e.Size))
		}
	}
	for addr, size := range acquired {
		errs = append(errs, fmt.Errorf("leaked block %#x (%d bytes)", addr, size))
	}
	return errors.Join(errs...)
}

func addrOf(block []byte) uintptr {
	if cap(block) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(block))) //nolint:gosec // address identity only
}
