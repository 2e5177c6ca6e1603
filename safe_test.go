package bpool_test

import (
	"fmt"
	"testing"

	"github.com/peczenyj/bpool"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSafeValidatesParameters(t *testing.T) {
	t.Parallel()

	pool, err := bpool.NewSafe(func() *entity { return new(entity) }, bpool.NewParameters(2, 1))
	require.ErrorIs(t, err, bpool.ErrArgument)
	assert.Nil(t, pool)
}

func TestSafePoolRejectsForeignRelease(t *testing.T) {
	t.Parallel()

	ctor, _ := newEntityFactory()

	a, err := bpool.NewSafe(ctor, bpool.NewParameters(1, 4), bpool.WithName[*entity]("a"))
	require.NoError(t, err)

	b, err := bpool.NewSafe(ctor, bpool.NewParameters(1, 4), bpool.WithName[*entity]("b"))
	require.NoError(t, err)

	item, err := a.Receive()
	require.NoError(t, err)

	countBefore := b.Count()

	err = b.Release(item)
	require.ErrorIs(t, err, bpool.ErrIllegalItem)
	assert.Contains(t, err.Error(), "b: release")

	assert.Equal(t, countBefore, b.Count())
	assert.True(t, a.Owns(item))
	assert.False(t, b.Owns(item))

	require.NoError(t, a.Release(item))
}

func TestSafePoolRejectsDoubleRelease(t *testing.T) {
	t.Parallel()

	var released int

	pool, err := bpool.NewSafe(func() *entity { return new(entity) }, bpool.NewParameters(0, 2),
		bpool.WithOnRelease(func(*entity) { released++ }),
	)
	require.NoError(t, err)

	item, err := pool.Receive()
	require.NoError(t, err)
	assert.Equal(t, 1, pool.Outstanding())

	require.NoError(t, pool.Release(item))

	countAfterFirst := pool.Count()

	err = pool.Release(item)
	require.ErrorIs(t, err, bpool.ErrIllegalItem)

	assert.Equal(t, countAfterFirst, pool.Count())
	assert.Equal(t, 1, released, "hooks are not called on rejected release")
	assert.Zero(t, pool.Outstanding())
}

func TestSafePoolTracksByValue(t *testing.T) {
	t.Parallel()

	pool, err := bpool.NewSafe(func() int { return 7 }, bpool.NewParameters(0, 2))
	require.NoError(t, err)

	x, err := pool.Receive()
	require.NoError(t, err)

	y, err := pool.Receive()
	require.NoError(t, err)

	require.Equal(t, x, y)
	assert.Equal(t, 1, pool.Outstanding(), "equal values share one entry")

	require.NoError(t, pool.Release(x))

	err = pool.Release(y)
	require.ErrorIs(t, err, bpool.ErrIllegalItem)
}

func TestSafePoolTryReceive(t *testing.T) {
	t.Parallel()

	pool, err := bpool.NewSafe(func() *entity { return new(entity) }, bpool.NewParameters(0, 1))
	require.NoError(t, err)

	item, ok := pool.TryReceive()
	require.True(t, ok)
	assert.True(t, pool.Owns(item))

	other, ok := pool.TryReceive()
	require.False(t, ok)
	assert.Nil(t, other)
	assert.Equal(t, 1, pool.Outstanding())

	_, err = pool.Receive()
	require.ErrorIs(t, err, bpool.ErrOverflow)
	assert.Equal(t, 1, pool.Outstanding())

	require.NoError(t, pool.Release(item))
	assert.False(t, pool.Owns(item))
}

func TestSafePoolClearForgetsCheckedOut(t *testing.T) {
	t.Parallel()

	var cleared int

	pool, err := bpool.NewSafe(func() *entity { return new(entity) }, bpool.NewParameters(1, 3),
		bpool.WithOnClear(func(*entity) { cleared++ }),
	)
	require.NoError(t, err)

	a, err := pool.Receive()
	require.NoError(t, err)

	b, err := pool.Receive()
	require.NoError(t, err)

	require.NoError(t, pool.Release(b))

	pool.Clear()

	assert.Equal(t, 1, cleared)
	assert.Zero(t, pool.Outstanding())
	assert.Equal(t, 1, pool.Count())
	assert.Equal(t, 1, pool.Capacity())

	err = pool.Release(a)
	require.ErrorIs(t, err, bpool.ErrIllegalItem)
}

func TestSafePoolDelegates(t *testing.T) {
	t.Parallel()

	pool, err := bpool.NewSafe(func() *entity { return new(entity) }, bpool.NewParameters(1, 2),
		bpool.WithName[*entity]("delegate"),
	)
	require.NoError(t, err)

	pool.SetMaximumCapacity(5)
	pool.SetMinimumCapacity(3)

	assert.Equal(t, "delegate", pool.Name())
	assert.Equal(t, 5, pool.MaxCapacity())
	assert.Equal(t, 3, pool.MinCapacity())
	assert.Equal(t, bpool.NewParameters(3, 5), pool.Parameters())
	assert.Equal(t, bpool.Stats{Free: 1, Capacity: 1, MinCapacity: 3, MaxCapacity: 5}, pool.Stats())

	pool.SetOnReceive(func(e *entity) { e.active = true })
	pool.SetOnRelease(func(e *entity) { e.active = false })

	var cleared int

	pool.SetOnClear(func(*entity) { cleared++ })

	item, err := pool.Receive()
	require.NoError(t, err)
	assert.True(t, item.active)

	require.NoError(t, pool.Release(item))
	assert.False(t, item.active)

	pool.Clear()

	assert.Equal(t, 1, cleared)
	assert.Equal(t, 3, pool.Capacity())
}

func ExampleSafePool_Release() {
	pool, _ := bpool.NewSafe(func() *entity { return new(entity) }, bpool.NewParameters(0, 1))

	item, _ := pool.Receive()

	fmt.Println(pool.Release(item))
	fmt.Println(pool.Release(item))
	// Output:
	// <nil>
	// pool: release (Minimum: 0 - Maximum: 1): object does not belong to pool
}
