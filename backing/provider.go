package backing

import (
	"errors"
	"unsafe"

	"github.com/hupe1980/arena/internal/mmap"
)

// Provider acquires and releases backing memory blocks.
type Provider interface {
	// Acquire returns a zero-filled block of at least size bytes. The block
	// length is a multiple of the page size.
	Acquire(size int) ([]byte, error)
	// Release returns a block previously obtained from Acquire.
	Release(block []byte) error
}

var (
	// ErrInvalidSize is returned for negative or overflowing sizes.
	ErrInvalidSize = errors.New("backing: invalid size")
	// ErrUnknownBlock is returned when releasing a block this provider does
	// not own, or one that was already released.
	ErrUnknownBlock = errors.New("backing: unknown block")
)

// AccessPattern is a kernel hint applied to freshly mapped blocks.
type AccessPattern = mmap.AccessPattern

// Access pattern hints understood by the OS provider.
const (
	AccessDefault    = mmap.AccessDefault
	AccessSequential = mmap.AccessSequential
	AccessRandom     = mmap.AccessRandom
	AccessWillNeed   = mmap.AccessWillNeed
)

func blockAddr(block []byte) uintptr {
	if cap(block) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(block))) //nolint:gosec // address identity only
}
