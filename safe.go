package bpool

// SafePool is an ObjectPool that remembers which objects are checked out.
// Release fails with ErrIllegalItem for objects it did not hand out, or that
// were already released, instead of corrupting the free list.
//
// Objects are tracked by value, so T should be a pointer or another handle
// with identity. Equal values issued by different receives share one entry,
// and the second release of such a value fails with ErrIllegalItem.
type SafePool[T comparable] struct {
	pool       *ObjectPool[T]
	checkedOut map[T]struct{}
}

// NewSafe is the constructor of a *SafePool.
// Arguments and errors are the same of New.
func NewSafe[T comparable](
	onCreate func() T,
	params Parameters,
	opts ...Option[T],
) (*SafePool[T], error) {
	pool, err := New(onCreate, params, opts...)
	if err != nil {
		return nil, err
	}

	return &SafePool[T]{
		pool:       pool,
		checkedOut: make(map[T]struct{}),
	}, nil
}

// Receive fetch one object from the pool and mark it as checked out.
func (p *SafePool[T]) Receive() (T, error) {
	object, err := p.pool.Receive()
	if err != nil {
		return object, err
	}

	p.checkedOut[object] = struct{}{}

	return object, nil
}

// TryReceive fetch one object from the pool and mark it as checked out.
// If the pool is exhausted, ok will be false.
func (p *SafePool[T]) TryReceive() (object T, ok bool) {
	object, ok = p.pool.TryReceive()
	if ok {
		p.checkedOut[object] = struct{}{}
	}

	return object, ok
}

// Release return a checked out object to the pool.
// Returns an error wrapping ErrIllegalItem, without touching the pool, if
// the object is not checked out from this pool.
func (p *SafePool[T]) Release(object T) error {
	if _, ok := p.checkedOut[object]; !ok {
		return p.pool.fail("release", ErrIllegalItem)
	}

	delete(p.checkedOut, object)

	return p.pool.Release(object)
}

// Clear clears the underlying pool and forgets every checked out object.
func (p *SafePool[T]) Clear() {
	p.pool.Clear()

	clear(p.checkedOut)
}

// Owns reports if the object is currently checked out from this pool.
func (p *SafePool[T]) Owns(object T) bool {
	_, ok := p.checkedOut[object]

	return ok
}

// Outstanding returns the number of checked out objects.
func (p *SafePool[T]) Outstanding() int {
	return len(p.checkedOut)
}

func (p *SafePool[T]) Name() string { return p.pool.Name() }
func (p *SafePool[T]) Count() int { return p.pool.Count() }
func (p *SafePool[T]) Capacity() int { return p.pool.Capacity() }
func (p *SafePool[T]) MinCapacity() int { return p.pool.MinCapacity() }
func (p *SafePool[T]) MaxCapacity() int { return p.pool.MaxCapacity() }
func (p *SafePool[T]) Parameters() Parameters { return p.pool.Parameters() }
func (p *SafePool[T]) Stats() Stats { return p.pool.Stats() }
func (p *SafePool[T]) SetMinimumCapacity(n int) { p.pool.SetMinimumCapacity(n) }
func (p *SafePool[T]) SetMaximumCapacity(n int) { p.pool.SetMaximumCapacity(n) }
func (p *SafePool[T]) SetOnReceive(fn func(T)) { p.pool.SetOnReceive(fn) }
func (p *SafePool[T]) SetOnRelease(fn func(T)) { p.pool.SetOnRelease(fn) }
func (p *SafePool[T]) SetOnClear(fn func(T)) { p.pool.SetOnClear(fn) }
