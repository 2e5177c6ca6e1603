// Command bpool-sim plays the bomb simulation on top of bounded pools and
// prints how the pools behaved.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/peczenyj/bpool"
	"github.com/peczenyj/bpool/instrument"
	"github.com/peczenyj/bpool/internal/config"
	"github.com/peczenyj/bpool/internal/logger"
	"github.com/peczenyj/bpool/internal/sim"
)

var version = "0.1.0"

type runFlags struct {
	configFile string
	ticks      int
	seed       uint64
	logLevel   string
	metrics    bool
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return newRootCommand(os.Stdout).ExecuteContext(ctx)
}

func newRootCommand(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "bpool-sim",
		Short:         "Bomb simulation backed by bounded object pools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetOut(out)

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("bpool-sim v%s\n", version)
			cmd.Printf("Go version: %s\n", runtime.Version())
		},
	})

	var flags runFlags

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the simulation",
		Long: `Run the simulation and print a report.

Pools and simulation settings are read from a YAML or TOML file.
Flags override the file.

Example:
  bpool-sim run --config sim.yaml --ticks 500 --seed 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}

			return run(cmd.Context(), cmd.OutOrStdout(), cfg, flags.metrics)
		},
	}

	runCmd.Flags().StringVarP(&flags.configFile, "config", "c", "", "Path to a YAML or TOML configuration file")
	runCmd.Flags().IntVar(&flags.ticks, "ticks", 0, "Number of ticks to play")
	runCmd.Flags().Uint64Var(&flags.seed, "seed", 0, "Seed of the upgrade spawner")
	runCmd.Flags().StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&flags.metrics, "metrics", false, "Print the pool metrics in Prometheus text format after the report")

	root.AddCommand(runCmd)

	return root
}

func loadConfig(cmd *cobra.Command, flags runFlags) (*config.Config, error) {
	cfg := config.Default()

	if flags.configFile != "" {
		loaded, err := config.Load(flags.configFile)
		if err != nil {
			return nil, err
		}

		cfg = loaded
	}

	if cmd.Flags().Changed("ticks") {
		cfg.Simulation.Ticks = flags.ticks
	}

	if cmd.Flags().Changed("seed") {
		cfg.Simulation.Seed = flags.seed
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func run(ctx context.Context, out io.Writer, cfg *config.Config, metrics bool) error {
	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}

	defer func() { _ = log.Sync() }()

	log = log.With(zap.String("component", "bpool-sim"))

	registry := prometheus.NewRegistry()
	collector := instrument.NewCollector("bpool", registry)

	pools, err := sim.NewPools(cfg, collector, log)
	if err != nil {
		return fmt.Errorf("failed to build pools: %w", err)
	}

	log.Info("starting simulation",
		zap.Int("ticks", cfg.Simulation.Ticks),
		zap.Uint64("seed", cfg.Simulation.Seed),
		zap.Int("bombers", cfg.Simulation.Bombers),
	)

	report, err := sim.New(cfg.Simulation, pools, log).Run(ctx)
	if err != nil {
		return fmt.Errorf("simulation stopped at tick %d: %w", report.Ticks, err)
	}

	printReport(out, report)

	if !metrics {
		return nil
	}

	return writeMetrics(out, registry)
}

func writeMetrics(out io.Writer, gatherer prometheus.Gatherer) error {
	families, err := gatherer.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	fmt.Fprintln(out)

	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(out, family); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	return nil
}

func printReport(out io.Writer, r sim.Report) {
	fmt.Fprintf(out, "ticks:        %d\n", r.Ticks)
	fmt.Fprintf(out, "bombs placed: %d (missed %d)\n", r.Placed, r.BombMisses)
	fmt.Fprintf(out, "explosions:   %d\n", r.Exploded)
	fmt.Fprintf(out, "blasts drawn: %d (missed %d)\n", r.BlastsDrawn, r.BlastMisses)
	fmt.Fprintf(out, "upgrades:     %d (expired %d)\n", r.Upgrades, r.Expired)
	fmt.Fprintf(out, "objects:      created %d, finalized %d\n", r.Created, r.Finalized)
	printStats(out, config.PoolBombs, r.Bombs)
	printStats(out, config.PoolBlasts, r.Blasts)
}

func printStats(out io.Writer, name string, s bpool.Stats) {
	fmt.Fprintf(out, "pool %-7s free %d, capacity %d (%s)\n", name+":", s.Free, s.Capacity,
		bpool.NewParameters(s.MinCapacity, s.MaxCapacity))
}
