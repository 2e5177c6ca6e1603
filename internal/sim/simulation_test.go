package sim_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/peczenyj/bpool"
	"github.com/peczenyj/bpool/instrument"
	"github.com/peczenyj/bpool/internal/config"
	"github.com/peczenyj/bpool/internal/sim"
)

func newSimulation(t *testing.T, cfg *config.Config) (*sim.Simulation, *sim.Pools) {
	t.Helper()

	require.NoError(t, cfg.Validate())

	collector := instrument.NewCollector("sim_test", prometheus.NewRegistry())

	pools, err := sim.NewPools(cfg, collector, zap.NewNop())
	require.NoError(t, err)

	return sim.New(cfg.Simulation, pools, zap.NewNop()), pools
}

func TestRunDefault(t *testing.T) {
	t.Parallel()

	cfg := config.Default()

	simulation, _ := newSimulation(t, cfg)

	report, err := simulation.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, cfg.Simulation.Ticks, report.Ticks)
	assert.Positive(t, report.Placed)
	assert.Positive(t, report.Exploded)
	assert.LessOrEqual(t, report.Exploded, report.Placed)
	assert.Equal(t, 0, simulation.Armed())

	assert.LessOrEqual(t, report.Bombs.Capacity, cfg.Pools[config.PoolBombs].MaxCapacity)
	assert.LessOrEqual(t, report.Blasts.Capacity, cfg.Pools[config.PoolBlasts].MaxCapacity)

	// after the final Clear every pool is back to its minimum capacity
	assert.Equal(t, bpool.Stats{Free: 4, Capacity: 4, MinCapacity: 4, MaxCapacity: 8}, report.Bombs)
	assert.Equal(t, bpool.Stats{Free: 16, Capacity: 16, MinCapacity: 16, MaxCapacity: 64}, report.Blasts)
	assert.Equal(t, report.Created-20, report.Finalized, "every object alive before the clear is finalized")
}

func TestRunIsDeterministic(t *testing.T) {
	t.Parallel()

	first, _ := newSimulation(t, config.Default())
	second, _ := newSimulation(t, config.Default())

	a, err := first.Run(context.Background())
	require.NoError(t, err)

	b, err := second.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestStepRecyclesBombsAndBlasts(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Pools[config.PoolBombs] = bpool.NewParameters(0, 2)
	cfg.Pools[config.PoolBlasts] = bpool.NewParameters(0, 1)
	cfg.Simulation.Bombers = 1
	cfg.Simulation.Cooldown = 1
	cfg.Simulation.Fuse = 1
	cfg.Simulation.Range = 0
	cfg.Simulation.UpgradeChance = 0
	cfg.Simulation.UpgradeBias = 0

	simulation, pools := newSimulation(t, cfg)

	require.NoError(t, simulation.Step())

	assert.Equal(t, 1, simulation.Armed())
	assert.Equal(t, 1, pools.Bombs.Stats().Capacity)

	require.NoError(t, simulation.Step())

	report := simulation.Report()
	assert.Equal(t, 2, report.Placed)
	assert.Equal(t, 1, report.Exploded)
	assert.Equal(t, 1, report.BlastsDrawn)
	assert.Equal(t, bpool.Stats{Free: 0, Capacity: 1, MinCapacity: 0, MaxCapacity: 1}, report.Blasts)

	require.NoError(t, simulation.Step())

	report = simulation.Report()
	assert.Equal(t, 3, report.Placed)
	assert.Equal(t, 2, report.Exploded)
	assert.Equal(t, 2, report.BlastsDrawn)
	assert.Zero(t, report.BombMisses)
	assert.Zero(t, report.BlastMisses)
	assert.Zero(t, report.Upgrades)
	assert.Equal(t, 2, report.Bombs.Capacity, "the first bomb was reused")
	assert.Equal(t, 1, report.Blasts.Capacity, "the blast was returned with its bomb")
	assert.Equal(t, 3, report.Created)
}

func TestExhaustedPools(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Pools[config.PoolBombs] = bpool.NewParameters(0, 1)
	cfg.Pools[config.PoolBlasts] = bpool.NewParameters(0, 3)
	cfg.Simulation.Ticks = 20
	cfg.Simulation.Bombers = 4
	cfg.Simulation.Cooldown = 1
	cfg.Simulation.Range = 2

	simulation, _ := newSimulation(t, cfg)

	for i := 0; i < cfg.Simulation.Ticks; i++ {
		require.NoError(t, simulation.Step())
	}

	report := simulation.Report()
	assert.Positive(t, report.BombMisses)
	assert.Positive(t, report.BlastMisses)
	assert.Equal(t, 1, report.Bombs.Capacity)
	assert.Equal(t, 3, report.Blasts.Capacity)
}

func TestUpgradesExpire(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Simulation.UpgradeChance = 1
	cfg.Simulation.UpgradeLife = 2
	cfg.Simulation.Ticks = 40

	simulation, _ := newSimulation(t, cfg)

	report, err := simulation.Run(context.Background())
	require.NoError(t, err)

	assert.Positive(t, report.Upgrades)
	assert.Positive(t, report.Expired)
	assert.LessOrEqual(t, report.Expired, report.Upgrades)
}

func TestRunHonorsContext(t *testing.T) {
	t.Parallel()

	simulation, _ := newSimulation(t, config.Default())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := simulation.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, report.Ticks)
}

func TestNewPoolsMissingPool(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	delete(cfg.Pools, config.PoolBlasts)

	pools, err := sim.NewPools(cfg, nil, nil)
	require.Error(t, err)
	assert.Nil(t, pools)
}
