package sim

import (
	"go.uber.org/zap"

	"github.com/peczenyj/bpool"
	"github.com/peczenyj/bpool/instrument"
	"github.com/peczenyj/bpool/internal/config"
	"github.com/peczenyj/bpool/random"
)

// Pools groups the pools used by a Simulation.
type Pools struct {
	Bombs    *instrument.Pool[*Bomb]
	Blasts   *instrument.Pool[*Blast]
	Upgrades *instrument.Pool[*Upgrade]

	created   int
	finalized int
}

// NewPools builds the simulation pools from cfg. Bombs are tracked by a safe
// pool; releasing a bomb returns its blasts to the blast pool.
func NewPools(cfg *config.Config, collector *instrument.Collector, logger *zap.Logger) (*Pools, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Pools{}

	blastParams, err := cfg.Pool(config.PoolBlasts)
	if err != nil {
		return nil, err
	}

	blasts, err := bpool.New(func() *Blast {
		p.created++

		return &Blast{ID: p.created}
	}, blastParams,
		bpool.WithName[*Blast](config.PoolBlasts),
		bpool.WithOnReceive(func(b *Blast) { b.Active = true }),
		bpool.WithOnRelease(func(b *Blast) { b.Active = false }),
		bpool.WithOnClear(finalizer[*Blast](p)),
	)
	if err != nil {
		return nil, err
	}

	p.Blasts = instrument.Wrap[*Blast](config.PoolBlasts, blasts, collector, logger)

	bombParams, err := cfg.Pool(config.PoolBombs)
	if err != nil {
		return nil, err
	}

	bombs, err := bpool.NewSafe(func() *Bomb {
		p.created++

		return &Bomb{ID: p.created}
	}, bombParams,
		bpool.WithName[*Bomb](config.PoolBombs),
		bpool.WithOnReceive(func(b *Bomb) { b.Active = true }),
		bpool.WithOnRelease(func(b *Bomb) {
			b.Active = false

			for _, blast := range b.blasts {
				if err := p.Blasts.Release(blast); err != nil {
					logger.Error("blast release failed", zap.Int("bomb", b.ID), zap.Error(err))
				}
			}

			clear(b.blasts)
			b.blasts = b.blasts[:0]
		}),
		bpool.WithOnClear(finalizer[*Bomb](p)),
	)
	if err != nil {
		return nil, err
	}

	p.Bombs = instrument.Wrap[*Bomb](config.PoolBombs, bombs, collector, logger)

	upgrades := make([]bpool.Pool[*Upgrade], 0, 2)

	for _, kind := range []struct{ name, kind string }{
		{config.PoolRangeUpgrades, KindRange},
		{config.PoolCapacityUpgrades, KindCapacity},
	} {
		params, err := cfg.Pool(kind.name)
		if err != nil {
			return nil, err
		}

		kind := kind

		sub, err := bpool.NewSafe(func() *Upgrade {
			p.created++

			return &Upgrade{ID: p.created, Kind: kind.kind}
		}, params,
			bpool.WithName[*Upgrade](kind.name),
			bpool.WithOnReceive(func(u *Upgrade) { u.Active = true }),
			bpool.WithOnRelease(func(u *Upgrade) { u.Active = false }),
			bpool.WithOnClear(finalizer[*Upgrade](p)),
		)
		if err != nil {
			return nil, err
		}

		upgrades = append(upgrades, sub)
	}

	s := cfg.Simulation

	composite, err := random.New(upgrades,
		random.WithInitialChance(s.UpgradeChance),
		random.WithBias(s.UpgradeBias),
		random.WithSeed(s.Seed),
	)
	if err != nil {
		return nil, err
	}

	p.Upgrades = instrument.Wrap[*Upgrade]("upgrades", composite, collector, logger)

	return p, nil
}

func finalizer[T any](p *Pools) func(T) {
	return func(T) {
		p.finalized++
	}
}

// Created returns how many objects the pools created.
func (p *Pools) Created() int {
	return p.created
}

// Finalized returns how many objects the on-clear hooks finalized.
func (p *Pools) Finalized() int {
	return p.finalized
}

// Clear clears every pool.
func (p *Pools) Clear() {
	p.Bombs.Clear()
	p.Blasts.Clear()
	p.Upgrades.Clear()
}
