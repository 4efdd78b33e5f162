package region

import (
	"errors"
	"math"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/arena/backing"
	"github.com/hupe1980/arena/internal/mem"
)

func newRegion(t *testing.T, capacity int) (*Region, backing.Provider) {
	t.Helper()
	p := backing.Heap()
	r, err := Create(p, capacity, 0)
	require.NoError(t, err)
	return r, p
}

func TestHeaderSize(t *testing.T) {
	assert.Zero(t, HeaderSize%mem.MaxAlignment)
	assert.GreaterOrEqual(t, HeaderSize, int(unsafe.Sizeof(header{})))
}

func TestCreate(t *testing.T) {
	ps := mem.PageSize()

	t.Run("rounds to page", func(t *testing.T) {
		r, _ := newRegion(t, 1)
		assert.Equal(t, ps-HeaderSize, r.Capacity())
		assert.Len(t, r.Block(), ps)
		assert.Equal(t, 0, r.Tail())
		assert.True(t, r.Owned())
	})

	t.Run("oversized request spans pages", func(t *testing.T) {
		r, _ := newRegion(t, 5000)
		assert.GreaterOrEqual(t, r.Capacity(), 5000)
		assert.Zero(t, len(r.Block())%ps)
		assert.Equal(t, len(r.Block())-HeaderSize, r.Capacity())
	})

	t.Run("exact fit stays on one page", func(t *testing.T) {
		r, _ := newRegion(t, ps-HeaderSize)
		assert.Len(t, r.Block(), ps)
	})

	t.Run("too large", func(t *testing.T) {
		_, err := Create(backing.Heap(), math.MaxInt, 0)
		assert.ErrorIs(t, err, ErrTooLarge)
	})

	t.Run("provider failure", func(t *testing.T) {
		errBoom := errors.New("boom")
		_, err := Create(failingProvider{err: errBoom}, 10, 0)
		assert.ErrorIs(t, err, errBoom)
	})

	t.Run("short block", func(t *testing.T) {
		_, err := Create(shortProvider{}, ps, 0)
		assert.Error(t, err)
	})
}

func TestAlloc(t *testing.T) {
	t.Run("bump", func(t *testing.T) {
		r, _ := newRegion(t, 0)

		a, ok := r.Alloc(10, 0)
		require.True(t, ok)
		assert.Len(t, a, 10)
		assert.Equal(t, 10, cap(a))
		assert.Equal(t, 10, r.Tail())

		b, ok := r.Alloc(8, 8)
		require.True(t, ok)
		assert.Equal(t, 24, r.Tail(), "start rounds up to 16, end at 24")
		assert.Zero(t, uintptr(unsafe.Pointer(&b[0]))%8)
	})

	t.Run("alignment is absolute", func(t *testing.T) {
		r, _ := newRegion(t, 0)

		for _, alignment := range []int{1, 2, 4, 8, 16} {
			_, ok := r.Alloc(3, 1)
			require.True(t, ok)

			b, ok := r.Alloc(5, alignment)
			require.True(t, ok)
			assert.Zero(t, uintptr(unsafe.Pointer(&b[0]))%uintptr(alignment), "alignment %d", alignment)
		}
	})

	t.Run("exhaustion leaves region untouched", func(t *testing.T) {
		r, _ := newRegion(t, 0)
		capacity := r.Capacity()

		_, ok := r.Alloc(capacity-4, 1)
		require.True(t, ok)
		tail := r.Tail()

		_, ok = r.Alloc(5, 1)
		assert.False(t, ok)
		assert.Equal(t, tail, r.Tail())

		// Aligned start past capacity
		_, ok = r.Alloc(1, 16)
		assert.False(t, ok)
		assert.Equal(t, tail, r.Tail())

		// A smaller request still fits
		_, ok = r.Alloc(4, 1)
		assert.True(t, ok)
		assert.True(t, r.Full())
		assert.Equal(t, 0, r.Free())
	})

	t.Run("whole capacity", func(t *testing.T) {
		r, _ := newRegion(t, 0)

		b, ok := r.Alloc(r.Capacity(), 16)
		require.True(t, ok)
		assert.Len(t, b, r.Capacity())
		assert.NoError(t, r.Check())
	})

	t.Run("non-overlapping", func(t *testing.T) {
		r, _ := newRegion(t, 0)

		var prevEnd uintptr
		for {
			b, ok := r.Alloc(24, 8)
			if !ok {
				break
			}
			start := uintptr(unsafe.Pointer(&b[0]))
			assert.GreaterOrEqual(t, start, prevEnd)
			prevEnd = start + 24
		}
		assert.LessOrEqual(t, r.Tail(), r.Capacity())
	})
}

func TestInit_Embedded(t *testing.T) {
	p := backing.Heap()
	block, err := p.Acquire(1)
	require.NoError(t, err)

	r := Init(block, 32, 0)
	assert.False(t, r.Owned())
	assert.Equal(t, len(block)-32-HeaderSize, r.Capacity())
	assert.Zero(t, r.Base()%mem.MaxAlignment)

	// Embedded regions are released by their owner.
	require.NoError(t, r.Release(p))
	require.NoError(t, p.Release(block))

	assert.Panics(t, func() { Init(block, 3, 0) })
	assert.Panics(t, func() { Init(block, len(block), 0) })
}

func TestContains(t *testing.T) {
	r, _ := newRegion(t, 0)

	b, ok := r.Alloc(16, 0)
	require.True(t, ok)

	addr := uintptr(unsafe.Pointer(&b[0]))
	assert.True(t, r.Contains(addr))
	assert.True(t, r.Contains(r.Base()+uintptr(r.Capacity()-1)))
	assert.False(t, r.Contains(r.Base()+uintptr(r.Capacity())))
	assert.False(t, r.Contains(r.Base()-1))
}

func TestRelease(t *testing.T) {
	p := backing.Heap()
	r, err := Create(p, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, r.Index())

	require.NoError(t, r.Release(p))
	assert.Equal(t, 0, p.Outstanding())
	assert.ErrorIs(t, r.Release(p), backing.ErrUnknownBlock)
}

func TestCheck(t *testing.T) {
	r, _ := newRegion(t, 0)
	assert.NoError(t, r.Check())

	r.hdr.tail = r.hdr.capacity + 1
	assert.Error(t, r.Check())
}

type failingProvider struct{ err error }

func (f failingProvider) Acquire(int) ([]byte, error) { return nil, f.err }
func (f failingProvider) Release([]byte) error        { return nil }

type shortProvider struct{}

func (shortProvider) Acquire(int) ([]byte, error) { return make([]byte, 64), nil }
func (shortProvider) Release([]byte) error        { return nil }
