package arena

import (
	"context"
	"errors"
	"fmt"
	"unsafe"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/google/uuid"

	"github.com/hupe1980/arena/backing"
	"github.com/hupe1980/arena/internal/mem"
	"github.com/hupe1980/arena/internal/region"
)

// arenaHeader sits at the start of the arena's own block, ahead of the
// embedded first region. It must not hold Go pointers.
type arenaHeader struct {
	regionCapacity uintptr
	regions        uintptr
}

const arenaHeaderSize = (int(unsafe.Sizeof(arenaHeader{})) + mem.MaxAlignment - 1) &^ (mem.MaxAlignment - 1)

// HeaderSize is the overhead taken from the arena's own block: the arena
// header followed by the header of the embedded first region.
const HeaderSize = arenaHeaderSize + region.HeaderSize

// RegionHeaderSize is the overhead taken from every additional region block.
const RegionHeaderSize = region.HeaderSize

// Strategy selects where an allocation is placed.
type Strategy int

const (
	// StrategyAppend allocates from the last region only and grows on exhaustion.
	StrategyAppend Strategy = iota
	// StrategyFit scans all regions in creation order before growing.
	StrategyFit
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategyAppend:
		return "append"
	case StrategyFit:
		return "fit"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// Arena is a region-based bump allocator.
//
// Memory is handed out in aligned, non-overlapping blocks and only ever
// returned in bulk by Delete. The first region shares the arena's own
// backing block; later regions are acquired on demand and chained in
// creation order.
//
// An Arena is not safe for concurrent use. Use one arena per goroutine or
// guard every call with a mutex.
type Arena struct {
	id       string
	hdr      *arenaHeader
	block    []byte
	regions  []*region.Region
	last     int
	full     *roaring.Bitmap
	provider backing.Provider
	logger   *Logger
	metrics  MetricsObserver
	deleted  bool
}

// New creates an arena whose first region holds at least capacity bytes.
// The arena's block is rounded up to whole pages, so the realized capacity
// is never less than one page minus HeaderSize.
//
// capacity also becomes the default size of regions created by growth;
// see SetRegionCapacity and WithRegionCapacity.
func New(capacity int, opts ...Option) (*Arena, error) {
	if capacity < 0 {
		return nil, invalidSize("capacity %d", capacity)
	}

	o := applyOptions(opts)

	regionCapacity := capacity
	if o.hasRegionCap {
		if o.regionCapacity < 0 {
			return nil, invalidSize("region capacity %d", o.regionCapacity)
		}
		regionCapacity = o.regionCapacity
	}

	total, ok := mem.CheckedAdd(capacity, HeaderSize)
	if !ok {
		return nil, invalidSize("capacity %d", capacity)
	}
	size, ok := mem.PageBytes(total)
	if !ok {
		return nil, invalidSize("capacity %d", capacity)
	}

	ctx := context.Background()
	id := uuid.NewString()
	logger := o.logger.WithArena(id)

	block, err := o.provider.Acquire(size)
	if err != nil {
		err = &AcquireError{Size: size, cause: err}
		o.metricsObserver.OnAcquireError(size, err)
		logger.LogCreate(ctx, capacity, size, err)
		return nil, err
	}
	if len(block) < size {
		_ = o.provider.Release(block)
		err = &AcquireError{Size: size, cause: fmt.Errorf("provider returned %d bytes", len(block))}
		o.metricsObserver.OnAcquireError(size, err)
		logger.LogCreate(ctx, capacity, size, err)
		return nil, err
	}

	a := &Arena{
		id:       id,
		hdr:      (*arenaHeader)(unsafe.Pointer(&block[0])), //nolint:gosec // header lives in the block
		block:    block,
		full:     roaring.New(),
		provider: o.provider,
		logger:   logger,
		metrics:  o.metricsObserver,
	}
	a.hdr.regionCapacity = uintptr(regionCapacity) //nolint:gosec // validated non-negative
	a.hdr.regions = 1
	a.regions = append(a.regions, region.Init(block, arenaHeaderSize, 0))

	logger.LogCreate(ctx, capacity, len(block), nil)

	return a, nil
}

// ID returns the identifier the arena logs under.
func (a *Arena) ID() string {
	return a.id
}

// SetRegionCapacity sets the usable-byte target for regions created by
// future growth. Existing regions are untouched. Adaptive policies such as
// doubling call this before each growth-triggering allocation.
func (a *Arena) SetRegionCapacity(capacity int) error {
	if a.deleted {
		return ErrDeleted
	}
	if capacity < 0 {
		return invalidSize("region capacity %d", capacity)
	}
	a.hdr.regionCapacity = uintptr(capacity) //nolint:gosec // validated non-negative
	return nil
}

// RegionCapacity returns the current growth target for new regions.
func (a *Arena) RegionCapacity() int {
	if a.deleted {
		return 0
	}
	return int(a.hdr.regionCapacity) //nolint:gosec // set from a non-negative int
}

// Alloc reserves size bytes aligned to alignment from the last region,
// growing the chain when it is exhausted. Free space in earlier regions is
// never revisited.
//
// alignment is 0 (no constraint) or a power of two up to MaxAlignment.
// The returned memory is zeroed and valid until Delete.
func (a *Arena) Alloc(size, alignment int) (unsafe.Pointer, error) {
	b, err := a.AllocBytes(size, alignment)
	if err != nil {
		return nil, err
	}
	return unsafe.Pointer(unsafe.SliceData(b)), nil //nolint:gosec // arena memory
}

// AllocBytes is Alloc returning the block as a byte slice of length size.
func (a *Arena) AllocBytes(size, alignment int) ([]byte, error) {
	if err := a.validate(size, alignment); err != nil {
		return nil, err
	}

	if b, ok := a.regions[a.last].Alloc(size, alignment); ok {
		a.markIfFull(a.last)
		return b, nil
	}

	return a.grow(StrategyAppend, size, alignment)
}

// Fit reserves size bytes aligned to alignment from the first region, in
// creation order, with enough free space. Only when no region qualifies
// does the chain grow.
//
// Fit trades an O(regions) scan for better reuse of gaps left by earlier
// allocations.
func (a *Arena) Fit(size, alignment int) (unsafe.Pointer, error) {
	b, err := a.FitBytes(size, alignment)
	if err != nil {
		return nil, err
	}
	return unsafe.Pointer(unsafe.SliceData(b)), nil //nolint:gosec // arena memory
}

// FitBytes is Fit returning the block as a byte slice of length size.
func (a *Arena) FitBytes(size, alignment int) ([]byte, error) {
	if err := a.validate(size, alignment); err != nil {
		return nil, err
	}

	scanned := 0
	for i := 0; i <= a.last; i++ {
		// A full region cannot satisfy any request.
		if a.full.Contains(uint32(i)) { //nolint:gosec // region count fits uint32
			continue
		}
		scanned++
		if b, ok := a.regions[i].Alloc(size, alignment); ok {
			a.markIfFull(i)
			a.metrics.OnFit(scanned, false)
			return b, nil
		}
	}

	b, err := a.grow(StrategyFit, size, alignment)
	if err != nil {
		return nil, err
	}
	a.metrics.OnFit(scanned, true)
	return b, nil
}

func (a *Arena) allocate(strategy Strategy, size, alignment int) ([]byte, error) {
	if strategy == StrategyFit {
		return a.FitBytes(size, alignment)
	}
	return a.AllocBytes(size, alignment)
}

func (a *Arena) validate(size, alignment int) error {
	if a.deleted {
		return ErrDeleted
	}
	if size <= 0 {
		return invalidSize("allocation size %d", size)
	}
	if !mem.ValidAlignment(alignment) {
		return &AlignmentError{Alignment: alignment}
	}
	return nil
}

// grow creates a region of max(size, region capacity) usable bytes, links
// it as the last region and allocates from it.
func (a *Arena) grow(strategy Strategy, size, alignment int) ([]byte, error) {
	ctx := context.Background()
	capacity := max(size, a.RegionCapacity())
	index := len(a.regions)

	blockSize, err := region.BlockSize(capacity)
	if err != nil {
		return nil, invalidSize("allocation size %d", size)
	}

	r, err := region.Create(a.provider, capacity, index)
	if err != nil {
		err = &AcquireError{Size: blockSize, cause: err}
		a.metrics.OnAcquireError(blockSize, err)
		a.logger.LogGrow(ctx, strategy, index, capacity, blockSize, err)
		return nil, err
	}

	a.regions = append(a.regions, r)
	a.last = index
	a.hdr.regions = uintptr(len(a.regions)) //nolint:gosec // length is non-negative

	a.metrics.OnGrow(strategy, index, r.Capacity(), len(r.Block()))
	a.logger.LogGrow(ctx, strategy, index, r.Capacity(), len(r.Block()), nil)

	b, ok := r.Alloc(size, alignment)
	if !ok {
		panic(fmt.Sprintf("arena: new region %d with capacity %d cannot hold %d bytes aligned to %d",
			index, r.Capacity(), size, alignment))
	}
	a.markIfFull(index)
	return b, nil
}

func (a *Arena) markIfFull(i int) {
	if a.regions[i].Full() {
		a.full.Add(uint32(i)) //nolint:gosec // region count fits uint32
	}
}

// Delete releases every region's backing block and then the arena's own.
// Afterwards every pointer the arena returned is invalid and all arena
// methods return ErrDeleted.
//
// Every block is released even if some releases fail; the failures are
// logged and returned joined.
func (a *Arena) Delete() error {
	if a.deleted {
		return ErrDeleted
	}

	ctx := context.Background()

	for _, r := range a.regions {
		if err := r.Check(); err != nil {
			panic("arena: " + err.Error())
		}
	}

	var errs []error
	bytes := 0
	regions := len(a.regions)

	for _, r := range a.regions[1:] {
		blockSize := len(r.Block())
		if err := r.Release(a.provider); err != nil {
			a.logger.LogRelease(ctx, r.Index(), blockSize, err)
			errs = append(errs, fmt.Errorf("release region %d: %w", r.Index(), err))
			continue
		}
		bytes += blockSize
	}

	blockSize := len(a.block)
	if err := a.provider.Release(a.block); err != nil {
		a.logger.LogRelease(ctx, 0, blockSize, err)
		errs = append(errs, fmt.Errorf("release arena block: %w", err))
	} else {
		bytes += blockSize
	}

	a.deleted = true
	a.hdr = nil
	a.block = nil
	a.regions = nil
	a.last = 0
	a.full.Clear()

	err := errors.Join(errs...)
	a.metrics.OnDelete(regions, bytes, err)
	a.logger.LogDelete(ctx, regions, bytes, err)

	return err
}

// Deleted reports whether Delete has been called.
func (a *Arena) Deleted() bool {
	return a.deleted
}
