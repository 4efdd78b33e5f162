package arena

import (
	"unsafe"

	"github.com/hupe1980/arena/internal/mem"
)

// Alloc allocates n elements of type T with the append strategy, deriving
// size and alignment from T.
//
// T must not contain Go pointers: arena memory is invisible to the garbage
// collector. The elements are zeroed.
func Alloc[T any](a *Arena, n int) ([]T, error) {
	return makeSlice[T](a, StrategyAppend, n)
}

// Fit allocates n elements of type T with the fit strategy.
// The same restrictions as Alloc apply.
func Fit[T any](a *Arena, n int) ([]T, error) {
	return makeSlice[T](a, StrategyFit, n)
}

// Value allocates a single zeroed T with the append strategy.
func Value[T any](a *Arena) (*T, error) {
	s, err := makeSlice[T](a, StrategyAppend, 1)
	if err != nil {
		return nil, err
	}
	return &s[0], nil
}

func makeSlice[T any](a *Arena, strategy Strategy, n int) ([]T, error) {
	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	alignment := int(unsafe.Alignof(zero))

	if n <= 0 {
		return nil, invalidSize("element count %d", n)
	}
	if elemSize == 0 {
		return nil, invalidSize("zero-sized element type")
	}
	size, ok := mem.CheckedMul(n, elemSize)
	if !ok {
		return nil, invalidSize("%d elements of %d bytes", n, elemSize)
	}

	b, err := a.allocate(strategy, size, alignment)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), n), nil //nolint:gosec // aligned arena memory
}
