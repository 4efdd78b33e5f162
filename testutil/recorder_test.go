package testutil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/arena/backing"
	"github.com/hupe1980/arena/internal/mem"
)

func TestRecorder_Balanced(t *testing.T) {
	r := NewRecorder()
	ps := mem.PageSize()

	a, err := r.Acquire(1)
	require.NoError(t, err)
	assert.Len(t, a, ps)

	b, err := r.Acquire(ps + 1)
	require.NoError(t, err)
	assert.Len(t, b, 2*ps)

	assert.Equal(t, 2, r.Live())
	assert.Equal(t, 3*ps, r.LiveBytes())
	assert.Error(t, r.Balanced(), "outstanding blocks are leaks")

	require.NoError(t, r.Release(b))
	require.NoError(t, r.Release(a))

	assert.Equal(t, 0, r.Live())
	assert.NoError(t, r.Balanced())
	assert.Equal(t, 2, r.Count(OpAcquire))
	assert.Equal(t, 2, r.Count(OpRelease))

	events := r.Events()
	require.Len(t, events, 4)
	assert.Equal(t, OpAcquire, events[0].Op)
	assert.Equal(t, events[1].Addr, events[2].Addr)
	assert.Equal(t, 2*ps, events[2].Size)
}

func TestRecorder_DoubleRelease(t *testing.T) {
	r := NewRecorder()

	a, err := r.Acquire(1)
	require.NoError(t, err)
	require.NoError(t, r.Release(a))

	assert.ErrorIs(t, r.Release(a), backing.ErrUnknownBlock)
	assert.Equal(t, 1, r.Count(OpReleaseFailed))
	assert.Error(t, r.Balanced())
}

func TestRecorder_Poison(t *testing.T) {
	r := NewRecorder()

	a, err := r.Acquire(1)
	require.NoError(t, err)
	require.NoError(t, r.Release(a))

	assert.Equal(t, byte(0xDD), a[0])
}

func TestRecorder_FailAfter(t *testing.T) {
	r := NewRecorder()
	r.FailAfter(1, nil)

	_, err := r.Acquire(1)
	require.NoError(t, err)

	_, err = r.Acquire(1)
	assert.ErrorIs(t, err, ErrInjected)
	assert.Equal(t, 1, r.Count(OpAcquireFailed))

	errCustom := errors.New("custom")
	r.FailAfter(0, errCustom)
	_, err = r.Acquire(1)
	assert.ErrorIs(t, err, errCustom)

	r.FailAfter(-1, nil)
	_, err = r.Acquire(1)
	assert.NoError(t, err)
}

func TestRecorder_InvalidSize(t *testing.T) {
	r := NewRecorder()
	_, err := r.Acquire(-1)
	assert.ErrorIs(t, err, backing.ErrInvalidSize)
}

func TestOp_String(t *testing.T) {
	assert.Equal(t, "acquire", OpAcquire.String())
	assert.Equal(t, "release", OpRelease.String())
	assert.Equal(t, "acquire-failed", OpAcquireFailed.String())
	assert.Equal(t, "release-failed", OpReleaseFailed.String())
}
