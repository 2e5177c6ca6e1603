// Package instrument exports pool activity as Prometheus metrics and logs
// misuse through zap.
//
// # Basic Usage
//
//	reg := prometheus.NewRegistry()
//	collector := instrument.NewCollector("game", reg)
//
//	bombs, _ := bpool.NewSafe(newBomb, bpool.NewParameters(4, 16))
//	pool := instrument.Wrap[*Bomb]("bombs", bombs, collector, logger)
//
//	bomb, err := pool.Receive() // counted as reused, created, exhausted, missed or failed
//
// # Metrics
//
//	<namespace>_pool_receives_total{pool,result}   result: reused, created, exhausted, missed, failed
//	<namespace>_pool_releases_total{pool,result}   result: ok, illegal, error
//	<namespace>_pool_clears_total{pool}
//	<namespace>_pool_free_objects{pool}
//	<namespace>_pool_capacity{pool}
//	<namespace>_pool_max_capacity{pool}
//
// A random.ErrMiss from a composite pool counts as missed: a failed spawn
// roll is a normal outcome, not an exhausted pool.
//
// Gauges are only updated for pools that implement bpool.StatsReporter.
package instrument

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/peczenyj/bpool"
)

// Receive results.
const (
	ResultReused    = "reused"
	ResultCreated   = "created"
	ResultExhausted = "exhausted"
	ResultMissed    = "missed"
	ResultFailed    = "failed"
)

// Release results.
const (
	ResultOK      = "ok"
	ResultIllegal = "illegal"
	ResultError   = "error"
)

// Collector holds the metric vectors shared by every instrumented pool.
// Each pool is identified by the "pool" label.
type Collector struct {
	receives    *prometheus.CounterVec
	releases    *prometheus.CounterVec
	clears      *prometheus.CounterVec
	free        *prometheus.GaugeVec
	capacity    *prometheus.GaugeVec
	maxCapacity *prometheus.GaugeVec
}

// NewCollector creates the metric vectors and registers them on reg.
// A nil reg leaves them unregistered. Registering twice on the same
// registry panics, like promauto does.
func NewCollector(namespace string, reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		receives: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "receives_total",
			Help:      "Receive attempts by result.",
		}, []string{"pool", "result"}),
		releases: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "releases_total",
			Help:      "Release attempts by result.",
		}, []string{"pool", "result"}),
		clears: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "clears_total",
			Help:      "Number of Clear calls.",
		}, []string{"pool"}),
		free: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "free_objects",
			Help:      "Objects currently available in the free list.",
		}, []string{"pool"}),
		capacity: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "capacity",
			Help:      "Live objects created by the pool.",
		}, []string{"pool"}),
		maxCapacity: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "max_capacity",
			Help:      "Current maximum capacity.",
		}, []string{"pool"}),
	}
}

func (c *Collector) observe(name string, stats bpool.Stats) {
	c.free.WithLabelValues(name).Set(float64(stats.Free))
	c.capacity.WithLabelValues(name).Set(float64(stats.Capacity))
	c.maxCapacity.WithLabelValues(name).Set(float64(stats.MaxCapacity))
}
