// Package random provides a composite pool that hands out objects from a
// randomly chosen sub-pool, only some of the time.
//
// Every receive attempt rolls against a spawn chance. A successful roll resets
// the chance to its initial value and picks one sub-pool at random; a failed
// roll raises the chance by a bias, so misses become less likely the longer
// they last. Released objects go back to the sub-pool that issued them.
package random

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/peczenyj/bpool"
)

var _ bpool.Pool[any] = (*Pool[any])(nil)

// ErrMiss is returned by Receive when the roll fails.
var ErrMiss = errors.New("spawn roll missed")

const (
	// DefaultInitialChance is the spawn chance after a hit.
	DefaultInitialChance = 0.2
	// DefaultBias is added to the spawn chance after a miss.
	DefaultBias = 0.02
)

// Source is the randomness used by the pool. *rand.Rand satisfies it.
type Source interface {
	Float64() float64
	IntN(n int) int
}

type poolConfig struct {
	initial float64
	bias    float64
	source  Source
}

// Option type.
type Option func(*poolConfig)

// WithInitialChance is a functional option.
// Sets the spawn chance, between 0 and 1, used on start and after every hit.
func WithInitialChance(chance float64) Option {
	return func(c *poolConfig) {
		c.initial = chance
	}
}

// WithBias is a functional option.
// Sets the value, between -1 and 1, added to the spawn chance after every miss.
func WithBias(bias float64) Option {
	return func(c *poolConfig) {
		c.bias = bias
	}
}

// WithSource is a functional option.
// Replaces the default randomly seeded source.
func WithSource(source Source) Option {
	return func(c *poolConfig) {
		c.source = source
	}
}

// WithSeed is a functional option.
// Uses a PCG source seeded with seed, for reproducible runs.
func WithSeed(seed uint64) Option {
	return WithSource(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// Pool is the composite pool. T must be comparable so the pool can remember
// which sub-pool issued each object.
type Pool[T comparable] struct {
	subPools []bpool.Pool[T]
	owners   map[T]bpool.Pool[T]
	source   Source
	initial  float64
	bias     float64
	chance   float64
}

// New is the constructor of a *random.Pool over the given sub-pools.
// Returns an error wrapping bpool.ErrArgument if there is no sub-pool, or if
// the chance or bias are out of range.
func New[T comparable](subPools []bpool.Pool[T], opts ...Option) (*Pool[T], error) {
	c := poolConfig{
		initial: DefaultInitialChance,
		bias:    DefaultBias,
	}

	for _, opt := range opts {
		opt(&c)
	}

	switch {
	case len(subPools) == 0:
		return nil, fmt.Errorf("random: no sub-pool: %w", bpool.ErrArgument)
	case c.initial < 0 || c.initial > 1:
		return nil, fmt.Errorf("random: initial chance %v out of [0, 1]: %w", c.initial, bpool.ErrArgument)
	case c.bias < -1 || c.bias > 1:
		return nil, fmt.Errorf("random: bias %v out of [-1, 1]: %w", c.bias, bpool.ErrArgument)
	}

	if c.source == nil {
		c.source = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return &Pool[T]{
		subPools: append([]bpool.Pool[T](nil), subPools...),
		owners:   make(map[T]bpool.Pool[T]),
		source:   c.source,
		initial:  c.initial,
		bias:     c.bias,
		chance:   c.initial,
	}, nil
}

// Chance returns the current spawn chance.
func (p *Pool[T]) Chance() float64 {
	return p.chance
}

// ResetChance sets the spawn chance back to its initial value.
func (p *Pool[T]) ResetChance() {
	p.chance = p.initial
}

// Outstanding returns the number of objects handed out and not released yet.
func (p *Pool[T]) Outstanding() int {
	return len(p.owners)
}

func (p *Pool[T]) roll() (bpool.Pool[T], bool) {
	if p.source.Float64() >= p.chance {
		p.chance += p.bias

		return nil, false
	}

	p.chance = p.initial

	return p.subPools[p.source.IntN(len(p.subPools))], true
}

// Receive rolls the spawn chance and, on a hit, receives from a random
// sub-pool. Returns ErrMiss on a failed roll, or the sub-pool error.
func (p *Pool[T]) Receive() (T, error) {
	var zero T

	subPool, hit := p.roll()
	if !hit {
		return zero, ErrMiss
	}

	object, err := subPool.Receive()
	if err != nil {
		return zero, err
	}

	p.owners[object] = subPool

	return object, nil
}

// TryReceive works like Receive, reporting a miss or an exhausted sub-pool
// with false.
func (p *Pool[T]) TryReceive() (T, bool) {
	var zero T

	subPool, hit := p.roll()
	if !hit {
		return zero, false
	}

	object, ok := subPool.TryReceive()
	if !ok {
		return zero, false
	}

	p.owners[object] = subPool

	return object, true
}

// Release return the object to the sub-pool that issued it.
// Returns an error wrapping bpool.ErrIllegalItem for unknown objects.
func (p *Pool[T]) Release(object T) error {
	subPool, ok := p.owners[object]
	if !ok {
		return fmt.Errorf("random: release: %w", bpool.ErrIllegalItem)
	}

	delete(p.owners, object)

	return subPool.Release(object)
}

// Clear clears every sub-pool and forgets the objects handed out.
func (p *Pool[T]) Clear() {
	for _, subPool := range p.subPools {
		subPool.Clear()
	}

	clear(p.owners)
}
