package bpool

import (
	"errors"
	"fmt"
)

var (
	// ErrArgument is returned when a pool is built with malformed arguments,
	// like a minimum capacity bigger than the maximum one.
	ErrArgument = errors.New("invalid pool argument")

	// ErrOverflow is returned by Receive when the pool has no free object
	// and no room left to create another one.
	ErrOverflow = errors.New("not enough space in pool")

	// ErrIllegalItem is returned by SafePool.Release when the object is not
	// checked out from that pool.
	ErrIllegalItem = errors.New("object does not belong to pool")
)

// PoolError describes a failed pool operation.
// Use errors.Is with one of the sentinel errors to inspect the cause.
type PoolError struct {
	Op         string
	Pool       string
	Parameters Parameters
	Err        error
}

func (e *PoolError) Error() string {
	name := e.Pool
	if name == "" {
		name = "pool"
	}

	return fmt.Sprintf("%s: %s (%s): %v", name, e.Op, e.Parameters, e.Err)
}

// Unwrap returns the underlying sentinel error.
func (e *PoolError) Unwrap() error {
	return e.Err
}
