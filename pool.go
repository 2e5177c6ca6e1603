// Package bpool provides capacity-bounded, type-safe object pools.
//
// Unlike sync.Pool, a bpool pool never drops objects behind the caller's
// back: it eagerly creates a minimum number of objects, grows lazily one
// object at a time up to a maximum, and reports exhaustion instead of
// allocating beyond it. Lifecycle hooks let the caller activate an object on
// receive, deactivate it on release and finalize it on clear.
//
// Pools are not safe for concurrent use. Wrap them with [NewLocked] when
// more than one goroutine needs the same pool.
package bpool

var (
	_ Bounded[any]  = (*ObjectPool[any])(nil)
	_ Bounded[int]  = (*SafePool[int])(nil)
	_ Pool[any]     = (*Locked[any])(nil)
	_ StatsReporter = (*ObjectPool[any])(nil)
	_ StatsReporter = (*SafePool[int])(nil)
	_ StatsReporter = (*Locked[any])(nil)
)

// Pool is a type-safe object pool interface.
type Pool[T any] interface {
	// Receive fetch one object from the pool.
	// If needed, will create another object, or fail with ErrOverflow.
	Receive() (T, error)

	// TryReceive works like Receive, but reports exhaustion with false
	// instead of an error.
	TryReceive() (T, bool)

	// Release return the object to the pool.
	Release(object T) error

	// Clear finalize all free objects and reset the pool to its minimum capacity.
	Clear()
}

// Bounded is a Pool with capacity accessors and bound setters.
type Bounded[T any] interface {
	Pool[T]

	Count() int
	Capacity() int
	MinCapacity() int
	MaxCapacity() int
	SetMinimumCapacity(n int)
	SetMaximumCapacity(n int)
}

// Stats is a point-in-time snapshot of a pool.
type Stats struct {
	Free        int
	Capacity    int
	MinCapacity int
	MaxCapacity int
}

// StatsReporter is implemented by pools that can describe themselves.
type StatsReporter interface {
	Stats() Stats
}

// ObjectPool is the bounded object pool.
// Free objects are kept in a stack, so the most recently released object is
// the next one to be received.
type ObjectPool[T any] struct {
	name     string
	onCreate func() T
	hooks    hooks[T]
	params   Parameters
	items    []T
	capacity int
}

// New is the constructor of an *ObjectPool.
// Receives the constructor of the type T and the capacity bounds.
// Creates params.MinCapacity objects right away, calling the on-release hooks
// on each of them.
func New[T any](
	onCreate func() T,
	params Parameters,
	opts ...Option[T],
) (*ObjectPool[T], error) {
	var c poolConfig[T]

	for _, opt := range opts {
		opt(&c)
	}

	if !params.IsValid() {
		return nil, &PoolError{Op: "new", Pool: c.name, Parameters: params, Err: ErrArgument}
	}

	if onCreate == nil {
		return nil, &PoolError{Op: "new", Pool: c.name, Parameters: params, Err: ErrArgument}
	}

	p := &ObjectPool[T]{
		name:     c.name,
		onCreate: onCreate,
		hooks:    c.hooks,
		params:   params,
		items:    make([]T, 0, params.MinCapacity),
	}

	p.populate()

	return p, nil
}

func (p *ObjectPool[T]) populate() {
	for n := p.params.baseline(); n > 0; n-- {
		object := p.onCreate()

		p.hooks.release(object)

		p.items = append(p.items, object)
		p.capacity++
	}
}

// Name returns the pool name, if any.
func (p *ObjectPool[T]) Name() string {
	return p.name
}

// Count returns the number of free objects.
func (p *ObjectPool[T]) Count() int {
	return len(p.items)
}

// Capacity returns the number of live objects created by this pool, free or
// checked out.
func (p *ObjectPool[T]) Capacity() int {
	return p.capacity
}

// MinCapacity returns the current minimum capacity.
func (p *ObjectPool[T]) MinCapacity() int {
	return p.params.MinCapacity
}

// MaxCapacity returns the current maximum capacity.
func (p *ObjectPool[T]) MaxCapacity() int {
	return p.params.MaxCapacity
}

// Parameters returns the current capacity bounds.
func (p *ObjectPool[T]) Parameters() Parameters {
	return p.params
}

// Stats returns a snapshot of the pool.
func (p *ObjectPool[T]) Stats() Stats {
	return Stats{
		Free:        len(p.items),
		Capacity:    p.capacity,
		MinCapacity: p.params.MinCapacity,
		MaxCapacity: p.params.MaxCapacity,
	}
}

// Receive fetch one object from the pool, calling the on-receive hooks.
// When there is no free object, creates a new one if the maximum capacity
// allows it, otherwise returns an error wrapping ErrOverflow.
func (p *ObjectPool[T]) Receive() (T, error) {
	object, ok := p.TryReceive()
	if !ok {
		return object, p.fail("receive", ErrOverflow)
	}

	return object, nil
}

// TryReceive fetch one object from the pool.
// If the pool is exhausted, returns the zero value of T and ok will be false.
func (p *ObjectPool[T]) TryReceive() (object T, ok bool) {
	if n := len(p.items); n > 0 {
		object = p.items[n-1]

		var zero T

		p.items[n-1] = zero
		p.items = p.items[:n-1]

		p.hooks.receive(object)

		return object, true
	}

	if p.capacity+1 > p.params.MaxCapacity {
		return object, false
	}

	object = p.onCreate()
	p.capacity++

	p.hooks.receive(object)

	return object, true
}

// Release calls the on-release hooks and stores the object back.
// It does not check where the object comes from. Use SafePool for that.
//
// The free list never holds more objects than the capacity: an object
// released while every counted object is already free (a duplicate, or one
// issued before the last Clear) is dropped without calling the on-clear
// hooks, since it may still be in the free list.
//
// While the pool holds more objects than its maximum capacity allows (see
// SetMaximumCapacity), the released object is finalized with the on-clear
// hooks and dropped instead. The returned error is always nil.
func (p *ObjectPool[T]) Release(object T) error {
	p.hooks.release(object)

	if len(p.items) >= p.capacity {
		return nil
	}

	if p.capacity > p.params.MaxCapacity {
		p.hooks.clear(object)
		p.capacity--

		return nil
	}

	p.items = append(p.items, object)

	return nil
}

// Clear calls the on-clear hooks on every free object, forgets them, and
// creates the minimum capacity again. Checked out objects are not visited.
func (p *ObjectPool[T]) Clear() {
	for i := len(p.items) - 1; i >= 0; i-- {
		p.hooks.clear(p.items[i])
	}

	clear(p.items)

	p.items = p.items[:0]
	p.capacity = 0

	p.populate()
}

// SetMinimumCapacity updates the minimum capacity.
// It has no effect until the next Clear. Negative values are treated as zero.
func (p *ObjectPool[T]) SetMinimumCapacity(n int) {
	p.params.MinCapacity = max(n, 0)
}

// SetMaximumCapacity updates the maximum capacity. Negative values are
// treated as zero.
//
// If the pool already holds more objects than n, free objects are finalized
// with the on-clear hooks until the capacity fits or no free object is left.
// The remaining excess is finalized as it is released.
func (p *ObjectPool[T]) SetMaximumCapacity(n int) {
	p.params.MaxCapacity = max(n, 0)

	for p.capacity > p.params.MaxCapacity && len(p.items) > 0 {
		last := len(p.items) - 1
		object := p.items[last]

		var zero T

		p.items[last] = zero
		p.items = p.items[:last]
		p.capacity--

		p.hooks.clear(object)
	}
}

// SetOnReceive replaces the on-receive hooks.
func (p *ObjectPool[T]) SetOnReceive(onReceive func(T)) {
	p.hooks.onReceive = single(onReceive)
}

// SetOnRelease replaces the on-release hooks.
func (p *ObjectPool[T]) SetOnRelease(onRelease func(T)) {
	p.hooks.onRelease = single(onRelease)
}

// SetOnClear replaces the on-clear hooks.
func (p *ObjectPool[T]) SetOnClear(onClear func(T)) {
	p.hooks.onClear = single(onClear)
}

func (p *ObjectPool[T]) fail(op string, err error) error {
	return &PoolError{Op: op, Pool: p.name, Parameters: p.params, Err: err}
}
