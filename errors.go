package arena

import (
	"errors"
	"fmt"

	"github.com/hupe1980/arena/internal/mem"
)

var (
	// ErrOutOfMemory is returned when backing memory cannot be acquired.
	// The concrete error is an *AcquireError.
	ErrOutOfMemory = errors.New("arena: out of backing memory")
	// ErrInvalidSize is returned for non-positive allocation sizes, negative
	// capacities and sizes that overflow.
	ErrInvalidSize = errors.New("arena: invalid size")
	// ErrInvalidAlignment is returned for alignments that are neither zero nor
	// a power of two no larger than MaxAlignment.
	ErrInvalidAlignment = errors.New("arena: invalid alignment")
	// ErrDeleted is returned by every operation on a deleted arena.
	ErrDeleted = errors.New("arena: deleted")
)

// MaxAlignment is the largest alignment an allocation may request.
const MaxAlignment = mem.MaxAlignment

// AcquireError reports a failed backing memory acquisition.
//
// It matches ErrOutOfMemory with errors.Is; the provider's error can be
// reached via errors.Unwrap.
type AcquireError struct {
	Size  int
	cause error
}

func (e *AcquireError) Error() string {
	return fmt.Sprintf("arena: out of backing memory acquiring %d bytes: %v", e.Size, e.cause)
}

func (e *AcquireError) Unwrap() error { return e.cause }

// Is reports whether target is ErrOutOfMemory.
func (e *AcquireError) Is(target error) bool { return target == ErrOutOfMemory }

// AlignmentError reports an unsupported alignment.
type AlignmentError struct {
	Alignment int
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("arena: invalid alignment %d: must be 0 or a power of two <= %d", e.Alignment, MaxAlignment)
}

// Is reports whether target is ErrInvalidAlignment.
func (e *AlignmentError) Is(target error) bool { return target == ErrInvalidAlignment }

func invalidSize(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidSize, fmt.Sprintf(format, args...))
}
