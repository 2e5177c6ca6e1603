package instrument

import (
	"errors"

	"go.uber.org/zap"

	"github.com/peczenyj/bpool"
	"github.com/peczenyj/bpool/random"
)

var _ bpool.Pool[any] = (*Pool[any])(nil)

// Pool decorates a bpool.Pool with metrics and logs.
type Pool[T any] struct {
	name      string
	pool      bpool.Pool[T]
	reporter  bpool.StatsReporter
	collector *Collector
	logger    *zap.Logger
}

// Wrap instruments pool under the given name.
// A nil logger disables logging.
func Wrap[T any](name string, pool bpool.Pool[T], collector *Collector, logger *zap.Logger) *Pool[T] {
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Pool[T]{
		name:      name,
		pool:      pool,
		collector: collector,
		logger:    logger.With(zap.String("pool", name)),
	}

	p.reporter, _ = pool.(bpool.StatsReporter)
	p.observe()

	return p
}

// Name returns the pool label.
func (p *Pool[T]) Name() string {
	return p.name
}

// Unwrap returns the decorated pool.
func (p *Pool[T]) Unwrap() bpool.Pool[T] {
	return p.pool
}

// Receive see bpool.Pool.Receive.
func (p *Pool[T]) Receive() (T, error) {
	before := p.capacity()

	object, err := p.pool.Receive()
	if err != nil {
		p.receiveFailed(err)

		return object, err
	}

	p.countReceive(p.receiveResult(before))

	return object, nil
}

// TryReceive see bpool.Pool.TryReceive.
// It goes through Receive of the decorated pool to tell misses from
// exhaustion.
func (p *Pool[T]) TryReceive() (T, bool) {
	object, err := p.Receive()

	return object, err == nil
}

// Release see bpool.Pool.Release.
// Illegal releases are logged at warn level: they are bugs in the caller.
func (p *Pool[T]) Release(object T) error {
	err := p.pool.Release(object)

	switch {
	case err == nil:
		p.countRelease(ResultOK)
	case errors.Is(err, bpool.ErrIllegalItem):
		p.countRelease(ResultIllegal)
		p.logger.Warn("illegal release", zap.Error(err))
	default:
		p.countRelease(ResultError)
		p.logger.Error("release failed", zap.Error(err))
	}

	return err
}

// Clear see bpool.Pool.Clear.
func (p *Pool[T]) Clear() {
	p.pool.Clear()

	if p.collector != nil {
		p.collector.clears.WithLabelValues(p.name).Inc()
	}

	p.observe()

	p.logger.Debug("pool cleared", zap.Int("capacity", p.capacity()))
}

// Stats returns the decorated pool stats, or the zero Stats.
func (p *Pool[T]) Stats() bpool.Stats {
	if p.reporter == nil {
		return bpool.Stats{}
	}

	return p.reporter.Stats()
}

func (p *Pool[T]) capacity() int {
	return p.Stats().Capacity
}

func (p *Pool[T]) receiveResult(before int) string {
	if p.reporter != nil && p.capacity() > before {
		return ResultCreated
	}

	return ResultReused
}

func (p *Pool[T]) receiveFailed(err error) {
	switch {
	case errors.Is(err, bpool.ErrOverflow):
		p.countReceive(ResultExhausted)
		p.logger.Debug("pool exhausted", zap.Error(err))
	case errors.Is(err, random.ErrMiss):
		p.countReceive(ResultMissed)
		p.logger.Debug("spawn roll missed")
	default:
		p.countReceive(ResultFailed)
		p.logger.Warn("receive failed", zap.Error(err))
	}
}

func (p *Pool[T]) countReceive(result string) {
	if p.collector != nil {
		p.collector.receives.WithLabelValues(p.name, result).Inc()
	}

	p.observe()
}

func (p *Pool[T]) countRelease(result string) {
	if p.collector != nil {
		p.collector.releases.WithLabelValues(p.name, result).Inc()
	}

	p.observe()
}

func (p *Pool[T]) observe() {
	if p.collector == nil || p.reporter == nil {
		return
	}

	p.collector.observe(p.name, p.reporter.Stats())
}
