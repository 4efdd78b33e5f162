package region

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/hupe1980/arena/backing"
	"github.com/hupe1980/arena/internal/mem"
)

// header is stored inside the backing block. It must not hold Go pointers.
type header struct {
	tail     uintptr
	capacity uintptr
	index    uintptr
}

// HeaderSize is the per-region overhead taken from the backing block.
// It keeps the data base aligned to mem.MaxAlignment.
const HeaderSize = (int(unsafe.Sizeof(header{})) + mem.MaxAlignment - 1) &^ (mem.MaxAlignment - 1)

// ErrTooLarge is returned when a capacity cannot be expressed as a block size.
var ErrTooLarge = errors.New("region: capacity too large")

// Region is a bump allocator over a single backing block.
type Region struct {
	hdr   *header
	block []byte
	data  []byte
	owned bool
}

// BlockSize returns the page-rounded block size needed for capacity usable bytes.
func BlockSize(capacity int) (int, error) {
	total, ok := mem.CheckedAdd(capacity, HeaderSize)
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrTooLarge, capacity)
	}
	n, ok := mem.PageBytes(total)
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrTooLarge, capacity)
	}
	return n, nil
}

// Init lays out a region inside block starting at offset. The region does
// not own block; whoever acquired it releases it.
//
// offset must be a multiple of mem.MaxAlignment and leave room for the header.
func Init(block []byte, offset, index int) *Region {
	if offset < 0 || offset%mem.MaxAlignment != 0 || len(block)-offset < HeaderSize {
		panic(fmt.Sprintf("region: invalid layout (block %d bytes, offset %d)", len(block), offset))
	}

	r := &Region{
		hdr:   (*header)(unsafe.Pointer(&block[offset])), //nolint:gosec // header lives in the block
		block: block,
		data:  block[offset+HeaderSize:],
	}
	r.hdr.tail = 0
	r.hdr.capacity = uintptr(len(r.data))
	r.hdr.index = uintptr(index) //nolint:gosec // index is non-negative
	return r
}

// Create acquires a block large enough for capacity usable bytes and lays
// out an owned region in it. The realized capacity can exceed the request
// because of page rounding.
func Create(p backing.Provider, capacity, index int) (*Region, error) {
	n, err := BlockSize(capacity)
	if err != nil {
		return nil, err
	}

	block, err := p.Acquire(n)
	if err != nil {
		return nil, err
	}
	if len(block) < n {
		_ = p.Release(block)
		return nil, fmt.Errorf("region: provider returned %d bytes, need %d", len(block), n)
	}

	r := Init(block, 0, index)
	r.owned = true
	return r, nil
}

// Alloc reserves size bytes aligned to alignment (zero means unaligned).
// It returns false without touching the region when there is no room.
//
// size must be positive and alignment valid per mem.ValidAlignment.
func (r *Region) Alloc(size, alignment int) ([]byte, bool) {
	capacity := int(r.hdr.capacity) //nolint:gosec // bounded by block length
	start := mem.Align(int(r.hdr.tail), alignment) //nolint:gosec // bounded by capacity

	if start >= capacity {
		return nil, false
	}
	if size > capacity-start {
		return nil, false
	}

	end := start + size
	r.hdr.tail = uintptr(end) //nolint:gosec // end <= capacity
	return r.data[start:end:end], true
}

// Tail returns the offset of the first free byte.
func (r *Region) Tail() int { return int(r.hdr.tail) } //nolint:gosec // bounded by capacity

// Capacity returns the number of usable bytes.
func (r *Region) Capacity() int { return int(r.hdr.capacity) } //nolint:gosec // bounded by block length

// Free returns the bytes left after the tail.
func (r *Region) Free() int { return r.Capacity() - r.Tail() }

// Full reports whether no further allocation can succeed.
func (r *Region) Full() bool { return r.hdr.tail >= r.hdr.capacity }

// Index returns the creation index within the owning arena.
func (r *Region) Index() int { return int(r.hdr.index) } //nolint:gosec // set from an int

// Owned reports whether the region acquired its block itself.
func (r *Region) Owned() bool { return r.owned }

// Block returns the backing block the region lives in.
func (r *Region) Block() []byte { return r.block }

// Base returns the address of the first usable byte.
func (r *Region) Base() uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(r.data))) //nolint:gosec // address arithmetic only
}

// Contains reports whether addr falls inside the usable bytes.
func (r *Region) Contains(addr uintptr) bool {
	base := r.Base()
	return addr >= base && addr < base+r.hdr.capacity
}

// Check verifies tail <= capacity.
func (r *Region) Check() error {
	if r.hdr.tail > r.hdr.capacity {
		return fmt.Errorf("region %d: tail %d exceeds capacity %d", r.hdr.index, r.hdr.tail, r.hdr.capacity)
	}
	return nil
}

// Release returns an owned region's block to p. It is a no-op for regions
// embedded in someone else's block.
func (r *Region) Release(p backing.Provider) error {
	if !r.owned {
		return nil
	}
	return p.Release(r.block)
}
