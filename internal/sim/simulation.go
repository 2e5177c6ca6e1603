// Package sim runs a deterministic bomb game loop on top of bpool pools.
//
// Each tick, bombers place bombs drawn from the bomb pool. Armed bombs wait
// in a fuse queue; when a fuse runs out the bomb explodes, drawing blasts from
// the blast pool and maybe dropping an upgrade. Exploded bombs burn for one
// tick and are then released, which returns their blasts. Upgrades expire
// after a fixed number of ticks.
package sim

import (
	"context"

	"github.com/eapache/queue"
	"go.uber.org/zap"

	"github.com/peczenyj/bpool"
	"github.com/peczenyj/bpool/internal/config"
)

// Report summarizes a run.
type Report struct {
	Ticks       int
	Placed      int
	BombMisses  int
	Exploded    int
	BlastsDrawn int
	BlastMisses int
	Upgrades    int
	Expired     int
	Created     int
	Finalized   int
	Bombs       bpool.Stats
	Blasts      bpool.Stats
}

// Simulation is the game loop. It is not safe for concurrent use.
type Simulation struct {
	cfg      config.Simulation
	pools    *Pools
	logger   *zap.Logger
	fuses    *queue.Queue // *Bomb ordered by ExplodesAt
	upgrades *queue.Queue // *Upgrade ordered by ExpiresAt
	burning  []*Bomb
	tick     int
	report   Report
}

// New creates a simulation over pools.
func New(cfg config.Simulation, pools *Pools, logger *zap.Logger) *Simulation {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Simulation{
		cfg:      cfg,
		pools:    pools,
		logger:   logger,
		fuses:    queue.New(),
		upgrades: queue.New(),
	}
}

// Tick returns the number of ticks played.
func (s *Simulation) Tick() int {
	return s.tick
}

// Armed returns the number of bombs waiting for their fuse.
func (s *Simulation) Armed() int {
	return s.fuses.Length()
}

// Run plays cfg.Ticks ticks, then releases everything still in play and
// clears the pools. It stops early, without clearing, if ctx is done.
func (s *Simulation) Run(ctx context.Context) (Report, error) {
	for s.tick < s.cfg.Ticks {
		if err := ctx.Err(); err != nil {
			return s.Report(), err
		}

		if err := s.Step(); err != nil {
			return s.Report(), err
		}
	}

	if err := s.Shutdown(); err != nil {
		return s.Report(), err
	}

	return s.Report(), nil
}

// Step plays one tick.
func (s *Simulation) Step() error {
	s.tick++

	if err := s.extinguish(); err != nil {
		return err
	}

	s.place()
	s.detonate()

	return s.expire(s.tick)
}

func (s *Simulation) place() {
	for bomber := 0; bomber < s.cfg.Bombers; bomber++ {
		if (s.tick+bomber)%s.cfg.Cooldown != 0 {
			continue
		}

		bomb, ok := s.pools.Bombs.TryReceive()
		if !ok {
			s.report.BombMisses++

			continue
		}

		bomb.Owner = bomber
		bomb.ExplodesAt = s.tick + s.cfg.Fuse

		s.fuses.Add(bomb)
		s.report.Placed++
	}
}

func (s *Simulation) detonate() {
	for s.fuses.Length() > 0 {
		bomb := s.fuses.Peek().(*Bomb)
		if bomb.ExplodesAt > s.tick {
			return
		}

		s.fuses.Remove()
		s.explode(bomb)
	}
}

func (s *Simulation) explode(bomb *Bomb) {
	cells := 1 + 4*s.cfg.Range

	for i := 0; i < cells; i++ {
		blast, ok := s.pools.Blasts.TryReceive()
		if !ok {
			s.report.BlastMisses++

			break
		}

		bomb.blasts = append(bomb.blasts, blast)
		s.report.BlastsDrawn++
	}

	s.report.Exploded++
	s.burning = append(s.burning, bomb)

	s.logger.Debug("bomb exploded",
		zap.Int("tick", s.tick),
		zap.Int("bomb", bomb.ID),
		zap.Int("owner", bomb.Owner),
		zap.Int("blasts", len(bomb.blasts)),
	)

	upgrade, ok := s.pools.Upgrades.TryReceive()
	if !ok {
		return
	}

	upgrade.ExpiresAt = s.tick + s.cfg.UpgradeLife

	s.upgrades.Add(upgrade)
	s.report.Upgrades++
}

// extinguish releases the bombs that exploded on the previous tick.
func (s *Simulation) extinguish() error {
	for i, bomb := range s.burning {
		if err := s.pools.Bombs.Release(bomb); err != nil {
			return err
		}

		s.burning[i] = nil
	}

	s.burning = s.burning[:0]

	return nil
}

func (s *Simulation) expire(now int) error {
	for s.upgrades.Length() > 0 {
		upgrade := s.upgrades.Peek().(*Upgrade)
		if upgrade.ExpiresAt > now {
			return nil
		}

		s.upgrades.Remove()

		if err := s.pools.Upgrades.Release(upgrade); err != nil {
			return err
		}

		s.report.Expired++
	}

	return nil
}

// Shutdown releases burning and armed bombs and live upgrades, then clears
// every pool.
func (s *Simulation) Shutdown() error {
	if err := s.extinguish(); err != nil {
		return err
	}

	for s.fuses.Length() > 0 {
		if err := s.pools.Bombs.Release(s.fuses.Remove().(*Bomb)); err != nil {
			return err
		}
	}

	for s.upgrades.Length() > 0 {
		if err := s.pools.Upgrades.Release(s.upgrades.Remove().(*Upgrade)); err != nil {
			return err
		}
	}

	s.pools.Clear()

	s.logger.Info("simulation finished",
		zap.Int("ticks", s.tick),
		zap.Int("created", s.pools.Created()),
		zap.Int("finalized", s.pools.Finalized()),
	)

	return nil
}

// Report returns the counters so far and the current pool stats.
func (s *Simulation) Report() Report {
	r := s.report

	r.Ticks = s.tick
	r.Created = s.pools.Created()
	r.Finalized = s.pools.Finalized()
	r.Bombs = s.pools.Bombs.Stats()
	r.Blasts = s.pools.Blasts.Stats()

	return r
}
