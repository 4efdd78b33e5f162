package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRNG_Deterministic(t *testing.T) {
	a := NewRNG(4711)
	b := NewRNG(4711)

	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Intn(1000), b.Intn(1000))
	}
	assert.Equal(t, int64(4711), a.Seed())

	first := a.Intn(1 << 30)
	a.Reset()
	for i := 0; i < 100; i++ {
		a.Intn(1000)
	}
	assert.Equal(t, first, a.Intn(1<<30))
}

func TestRNG_Ranges(t *testing.T) {
	rng := NewRNG(42)

	for i := 0; i < 1000; i++ {
		v := rng.IntRange(3, 7)
		assert.GreaterOrEqual(t, v, 3)
		assert.LessOrEqual(t, v, 7)

		a := rng.Alignment(16)
		assert.Contains(t, []int{0, 1, 2, 4, 8, 16}, a)
	}
}
