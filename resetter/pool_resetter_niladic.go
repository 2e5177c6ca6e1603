package resetter

import "github.com/peczenyj/bpool"

var _ bpool.Pool[bpool.Resetter] = (*PoolResetter[bpool.Resetter])(nil)

// Resetter interface.
type Resetter = bpool.Resetter

// PoolResetter pool specialized type.
// Will call Reset on each object before store it back in the pool.
type PoolResetter[R Resetter] struct {
	pool *bpool.ObjectPool[R]
}

// NewPool is the constructor of a *resetter.PoolResetter.
// Receives the constructor of the type R that implements Resetter interface
// and the capacity bounds. Options are passed to bpool.New.
func NewPool[R Resetter](
	ctor func() R,
	params bpool.Parameters,
	opts ...bpool.Option[R],
) (*PoolResetter[R], error) {
	pool, err := bpool.New(ctor, params, opts...)
	if err != nil {
		return nil, err
	}

	return &PoolResetter[R]{pool: pool}, nil
}

// Receive fetch one object from the pool.
// If needed, will create another object, or fail with bpool.ErrOverflow.
func (p *PoolResetter[R]) Receive() (R, error) {
	return p.pool.Receive()
}

// TryReceive fetch one object from the pool, if any.
func (p *PoolResetter[R]) TryReceive() (R, bool) {
	return p.pool.TryReceive()
}

// Release return the object to the pool.
// Will call Reset on the object before store it back.
func (p *PoolResetter[R]) Release(resetter R) error {
	resetter.Reset()

	return p.pool.Release(resetter)
}

// Clear see bpool.ObjectPool.Clear.
func (p *PoolResetter[R]) Clear() {
	p.pool.Clear()
}

// Stats see bpool.ObjectPool.Stats.
func (p *PoolResetter[R]) Stats() bpool.Stats {
	return p.pool.Stats()
}
