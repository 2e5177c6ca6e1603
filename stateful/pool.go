// The intent of stateful is to support stateful objects.
//
// Different than [bpool.Pool], the stateful [Pool] handle two different generic types: S and T
//   - T is the type of the object returned from the pool
//   - S is the state, where we set before return an object, and reset it back to zero value of S when released.
//
// In other words, instead having to do:
//
//	pool, _ := bpool.New(func() *bytes.Reader {
//	  return bytes.NewReader(nil)
//	}, bpool.NewParameters(0, 8))
//
//	br, err := pool.Receive()
//	...
//	defer func() { br.Reset(nil) ; _ = pool.Release(br) }()
//
//	br.Reset(payload)
//	// use the byte reader here
//
// We can use [New] to create a stateful [Pool] that manage the state of [bytes.Reader] via Reset method implicity:
//
//	pool, _ := stateful.New[[]byte](func() *bytes.Reader {
//	  return bytes.NewReader(nil)
//	}, bpool.NewParameters(0, 8))
//
//	br, err := pool.Receive(payload) // implicit Reset(payload)
//	...
//	defer pool.Release(br)           // implicit Reset(nil) -- the zero value of state S, []byte on this case
//
//	// use byte reader here
//
// The capacity bounds, errors and lifecycle hooks are the ones of [bpool.ObjectPool].
package stateful

import (
	"github.com/peczenyj/bpool"
)

// Pool stateful is a bounded object pool interface.
// This interface is parameterized on two generic types:
//   - T is reserved for the type of the object that will be stored on the pool.
//   - S is reserved for the status of the object to be setted before return the object from the pool.
type Pool[S, T any] interface {
	// Receive fetch one object from the pool and apply the state S on it.
	// Fails like bpool.ObjectPool.Receive.
	Receive(state S) (T, error)

	// TryReceive works like Receive, but reports exhaustion with false.
	TryReceive(state S) (T, bool)

	// Release return the object to the pool.
	// A zero value of S will be used in the resetter.
	Release(object T) error

	// Clear see bpool.ObjectPool.Clear.
	Clear()
}

// Resetter stateful interface.
type Resetter[S any] interface {
	Reset(state S)
}

// New is the constructor of a [Pool] for a given set of generic types S and T.
// Receives the constructor of the type T, that must be a [Resetter].
// will call Reset(state S) before return the object on Receive(state S)
// will call Reset(zero value of S) before store it back in the pool.
func New[S any, T Resetter[S]](
	ctor func() T,
	params bpool.Parameters,
	opts ...bpool.Option[T],
) (Pool[S, T], error) {
	return NewWithCustomResetter(ctor, params, func(object T, state S) {
		object.Reset(state)
	}, opts...)
}

// NewWithCustomResetter is the constructor of a [Pool] for a given set of generic types S and T.
// Receives the constructor of the type T as a callback.
// We can specify a special resetter, called with the state on Receive and
// with a zero value of S on Release.
func NewWithCustomResetter[S, T any](
	ctor func() T,
	params bpool.Parameters,
	customResetter func(object T, state S),
	opts ...bpool.Option[T],
) (Pool[S, T], error) {
	zeroResetter := func(object T) {
		var zero S

		customResetter(object, zero)
	}

	opts = append([]bpool.Option[T]{bpool.WithOnRelease(zeroResetter)}, opts...)

	pool, err := bpool.New(ctor, params, opts...)
	if err != nil {
		return nil, err
	}

	return &resettableStatefulPool[S, T]{
		pool:     pool,
		resetter: customResetter,
	}, nil
}

type resettableStatefulPool[S, T any] struct {
	pool     bpool.Pool[T]
	resetter func(object T, state S)
}

func (p *resettableStatefulPool[S, T]) Receive(state S) (T, error) {
	object, err := p.pool.Receive()
	if err != nil {
		return object, err
	}

	p.resetter(object, state)

	return object, nil
}

func (p *resettableStatefulPool[S, T]) TryReceive(state S) (T, bool) {
	object, ok := p.pool.TryReceive()
	if ok {
		p.resetter(object, state)
	}

	return object, ok
}

func (p *resettableStatefulPool[_, T]) Release(object T) error {
	return p.pool.Release(object) // will call Reset with zero value
}

func (p *resettableStatefulPool[_, _]) Clear() {
	p.pool.Clear()
}
