// Package config loads pool parameters and simulation settings from YAML or
// TOML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/peczenyj/bpool"
	"github.com/peczenyj/bpool/internal/logger"
)

// Names of the pools used by the simulation.
const (
	PoolBombs            = "bombs"
	PoolBlasts           = "blasts"
	PoolRangeUpgrades    = "range_upgrades"
	PoolCapacityUpgrades = "capacity_upgrades"
)

// Config is the root configuration.
type Config struct {
	Log        logger.Config               `yaml:"log" toml:"log"`
	Pools      map[string]bpool.Parameters `yaml:"pools" toml:"pools"`
	Simulation Simulation                  `yaml:"simulation" toml:"simulation"`
}

// Simulation drives the bomb simulation.
type Simulation struct {
	Ticks         int     `yaml:"ticks" toml:"ticks"`
	Seed          uint64  `yaml:"seed" toml:"seed"`
	Bombers       int     `yaml:"bombers" toml:"bombers"`
	Cooldown      int     `yaml:"cooldown" toml:"cooldown"`
	Fuse          int     `yaml:"fuse" toml:"fuse"`
	Range         int     `yaml:"range" toml:"range"`
	UpgradeLife   int     `yaml:"upgrade_life" toml:"upgrade_life"`
	UpgradeChance float64 `yaml:"upgrade_chance" toml:"upgrade_chance"`
	UpgradeBias   float64 `yaml:"upgrade_bias" toml:"upgrade_bias"`
}

// Default returns a configuration that runs out of the box.
func Default() *Config {
	return &Config{
		Log: logger.DefaultConfig(),
		Pools: map[string]bpool.Parameters{
			PoolBombs:            bpool.NewParameters(4, 8),
			PoolBlasts:           bpool.NewParameters(16, 64),
			PoolRangeUpgrades:    bpool.NewParameters(0, 2),
			PoolCapacityUpgrades: bpool.NewParameters(0, 2),
		},
		Simulation: Simulation{
			Ticks:         120,
			Seed:          1,
			Bombers:       4,
			Cooldown:      3,
			Fuse:          5,
			Range:         2,
			UpgradeLife:   10,
			UpgradeChance: 0.2,
			UpgradeBias:   0.02,
		},
	}
}

// Load reads a configuration file on top of Default.
// The format is chosen by extension: .yaml, .yml or .toml.
// ${VAR_NAME} references are replaced by environment variable values.
func Load(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath) //nolint:gosec // G304: File path is controlled by caller
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	content := []byte(os.Expand(string(data), os.Getenv))

	cfg := Default()

	switch ext := strings.ToLower(filepath.Ext(filePath)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(content, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks every pool and the simulation settings.
func (c *Config) Validate() error {
	names := make([]string, 0, len(c.Pools))
	for name := range c.Pools {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		if params := c.Pools[name]; !params.IsValid() {
			return fmt.Errorf("pool %q (%s): %w", name, params, bpool.ErrArgument)
		}
	}

	s := c.Simulation

	switch {
	case s.Ticks < 0:
		return errors.New("simulation: negative ticks")
	case s.Bombers < 0:
		return errors.New("simulation: negative bombers")
	case s.Cooldown < 1:
		return errors.New("simulation: cooldown must be at least 1")
	case s.Fuse < 0, s.Range < 0, s.UpgradeLife < 0:
		return errors.New("simulation: fuse, range and upgrade life must not be negative")
	}

	return nil
}

// Pool returns the parameters of the named pool.
func (c *Config) Pool(name string) (bpool.Parameters, error) {
	params, ok := c.Pools[name]
	if !ok {
		return params, fmt.Errorf("pool %q is not configured", name)
	}

	return params, nil
}
