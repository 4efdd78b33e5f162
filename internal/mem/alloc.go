package mem

import (
	"unsafe"
)

// AllocAligned allocates a zeroed byte slice of the given size whose first
// byte is aligned to alignment, which must be a power of two.
//
// Note: This function allocates alignment-1 extra bytes to find an aligned
// offset. The underlying array is kept alive by the returned slice.
func AllocAligned(size, alignment int) []byte {
	if size <= 0 {
		return nil
	}
	if !IsPowerOfTwo(alignment) {
		panic("mem: alignment is not a power of two")
	}

	buf := make([]byte, size+alignment-1)

	addr := uintptr(unsafe.Pointer(&buf[0])) //nolint:gosec // unsafe is required for memory alignment
	mask := uintptr(alignment - 1)
	offset := (uintptr(alignment) - (addr & mask)) & mask

	return buf[offset : offset+uintptr(size) : offset+uintptr(size)]
}
