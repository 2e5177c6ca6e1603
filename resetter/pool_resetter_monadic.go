package resetter

import (
	"github.com/peczenyj/bpool"
	"github.com/peczenyj/bpool/stateful"
)

// ResetterMonadic interface.
type ResetterMonadic[T any] interface {
	Reset(t T)
}

type PoolResetterMonadic[T any, R ResetterMonadic[T]] struct {
	pool stateful.Pool[T, R]
}

// NewPoolMonadic is the constructor of an *resetter.PoolResetterMonadic.
// Receives the constructor of the type R that implements ResetterMonadic[T] interface.
func NewPoolMonadic[T any, R ResetterMonadic[T]](
	ctor func() R,
	params bpool.Parameters,
	opts ...bpool.Option[R],
) (*PoolResetterMonadic[T, R], error) {
	pool, err := stateful.New[T](ctor, params, opts...)
	if err != nil {
		return nil, err
	}

	return &PoolResetterMonadic[T, R]{pool: pool}, nil
}

// Receive fetch one object from the pool.
// Will call Reset(T) with the given argument of type T.
func (p *PoolResetterMonadic[T, R]) Receive(t T) (R, error) {
	return p.pool.Receive(t)
}

// Release return the object to the pool.
// Will call Reset(T) with a zero value of T on the object before store it back.
func (p *PoolResetterMonadic[T, R]) Release(resetter R) error {
	return p.pool.Release(resetter)
}

// Clear see bpool.ObjectPool.Clear.
func (p *PoolResetterMonadic[T, R]) Clear() {
	p.pool.Clear()
}
