package backing

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/arena/internal/mem"
)

func providers() map[string]func() Provider {
	return map[string]func() Provider{
		"os":   func() Provider { return OS() },
		"heap": func() Provider { return Heap() },
		"limit": func() Provider {
			return Limit(Heap(), NewBudget(0))
		},
	}
}

func TestProvider_Acquire(t *testing.T) {
	ps := mem.PageSize()

	for name, newProvider := range providers() {
		t.Run(name, func(t *testing.T) {
			p := newProvider()

			tests := []struct {
				size int
				want int
			}{
				{0, ps},
				{1, ps},
				{ps, ps},
				{ps + 1, 2 * ps},
				{5000, mem.AlignToPage(5000)},
			}

			for _, tt := range tests {
				block, err := p.Acquire(tt.size)
				require.NoError(t, err)
				assert.Len(t, block, tt.want, "size=%d", tt.size)
				assert.Zero(t, len(block)%ps)

				addr := uintptr(unsafe.Pointer(&block[0]))
				assert.Zero(t, addr%uintptr(ps), "block must be page aligned")

				for i, b := range block {
					if b != 0 {
						t.Fatalf("byte %d not zero", i)
					}
				}
				block[0], block[len(block)-1] = 1, 2

				require.NoError(t, p.Release(block))
			}
		})
	}
}

func TestProvider_InvalidSize(t *testing.T) {
	for name, newProvider := range providers() {
		t.Run(name, func(t *testing.T) {
			_, err := newProvider().Acquire(-1)
			assert.ErrorIs(t, err, ErrInvalidSize)
		})
	}
}

func TestProvider_ReleaseUnknown(t *testing.T) {
	for name, newProvider := range providers() {
		t.Run(name, func(t *testing.T) {
			p := newProvider()

			block, err := p.Acquire(1)
			require.NoError(t, err)
			require.NoError(t, p.Release(block))

			// Double release
			assert.ErrorIs(t, p.Release(block), ErrUnknownBlock)

			// Foreign block
			assert.ErrorIs(t, p.Release(make([]byte, 16)), ErrUnknownBlock)
		})
	}
}

func TestProvider_ReleaseWrongLength(t *testing.T) {
	p := OS()

	block, err := p.Acquire(2 * mem.PageSize())
	require.NoError(t, err)

	assert.ErrorIs(t, p.Release(block[:mem.PageSize()]), ErrUnknownBlock)
	assert.Equal(t, 1, p.Outstanding())

	require.NoError(t, p.Release(block))
	assert.Equal(t, 0, p.Outstanding())
}

func TestOSProvider_Advice(t *testing.T) {
	p := OS(WithAdvice(AccessWillNeed))

	block, err := p.Acquire(4 * mem.PageSize())
	require.NoError(t, err)
	block[0] = 42

	require.NoError(t, p.Release(block))
}

func TestHeapProvider_Outstanding(t *testing.T) {
	p := Heap()

	a, err := p.Acquire(1)
	require.NoError(t, err)
	b, err := p.Acquire(1)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Outstanding())

	require.NoError(t, p.Release(a))
	require.NoError(t, p.Release(b))
	assert.Equal(t, 0, p.Outstanding())
}
