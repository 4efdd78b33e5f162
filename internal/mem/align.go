package mem

import (
	"math"
	"math/bits"
)

// MaxAlignment is the largest alignment an allocation may request.
// It matches max_align_t on the common 64-bit ABIs.
const MaxAlignment = 16

// IsPowerOfTwo reports whether v has exactly one bit set.
func IsPowerOfTwo(v int) bool {
	return v > 0 && bits.OnesCount(uint(v)) == 1
}

// ValidAlignment reports whether alignment is zero or a power of two
// not exceeding MaxAlignment.
func ValidAlignment(alignment int) bool {
	return alignment == 0 || (IsPowerOfTwo(alignment) && alignment <= MaxAlignment)
}

// Align returns the smallest multiple of alignment that is >= n.
// An alignment of zero returns n unchanged.
//
// alignment must be zero or a power of two; anything else panics.
func Align(n, alignment int) int {
	if alignment == 0 {
		return n
	}
	if !IsPowerOfTwo(alignment) {
		panic("mem: alignment is not a power of two")
	}
	mask := alignment - 1
	return (n + mask) &^ mask
}

// AlignToPage rounds n up to a multiple of the page size.
func AlignToPage(n int) int {
	return Align(n, PageSize())
}

// CheckedAdd returns a+b and false if the sum overflows int or either
// operand is negative.
func CheckedAdd(a, b int) (int, bool) {
	if a < 0 || b < 0 || a > math.MaxInt-b {
		return 0, false
	}
	return a + b, true
}

// CheckedMul returns a*b and false if the product overflows int or either
// operand is negative.
func CheckedMul(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt/b {
		return 0, false
	}
	return a * b, true
}

// PageBytes returns n rounded up to a page multiple, guarding against
// overflow. The result is at least one page.
func PageBytes(n int) (int, bool) {
	ps := PageSize()
	if n <= 0 {
		return ps, n == 0
	}
	sum, ok := CheckedAdd(n, ps-1)
	if !ok {
		return 0, false
	}
	return sum &^ (ps - 1), true
}
