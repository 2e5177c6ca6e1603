package bpool

import "sync"

// Locked guards a Pool with a single mutex.
// Every call, hooks included, runs while holding the lock.
type Locked[T any] struct {
	mu   sync.Mutex
	pool Pool[T]
}

// NewLocked wraps the pool. The pool must not be used directly afterwards.
func NewLocked[T any](pool Pool[T]) *Locked[T] {
	return &Locked[T]{pool: pool}
}

// Receive see Pool.Receive.
func (l *Locked[T]) Receive() (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.pool.Receive()
}

// TryReceive see Pool.TryReceive.
func (l *Locked[T]) TryReceive() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.pool.TryReceive()
}

// Release see Pool.Release.
func (l *Locked[T]) Release(object T) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.pool.Release(object)
}

// Clear see Pool.Clear.
func (l *Locked[T]) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pool.Clear()
}

// Do runs fn with exclusive access to the wrapped pool, to make a sequence of
// calls atomic.
func (l *Locked[T]) Do(fn func(pool Pool[T])) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fn(l.pool)
}

// Stats returns the wrapped pool stats, or the zero Stats if the wrapped pool
// does not report any.
func (l *Locked[T]) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	if reporter, ok := l.pool.(StatsReporter); ok {
		return reporter.Stats()
	}

	return Stats{}
}
