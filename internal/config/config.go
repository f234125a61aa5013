// Package config holds the run configuration of the randomizer CLI.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/logicrando/internal/database"
)

var validate = validator.New()

// RandoConfig holds everything needed to generate one seed.
type RandoConfig struct {
	// Seed is the master seed. Attempt n uses Seed+n.
	Seed int64 `yaml:"seed"`

	// MaxAttempts bounds the retry loop.
	MaxAttempts int `yaml:"max_attempts" validate:"gt=0"`

	// Workers is the number of attempts run concurrently. 1 runs them in order.
	Workers int `yaml:"workers" validate:"gt=0"`

	Worlds   []WorldConfig   `yaml:"worlds" validate:"required,min=1,dive"`
	Output   OutputConfig    `yaml:"output"`
	Database database.Config `yaml:"database"`
}

// WorldConfig describes one player's world in a multiworld game.
type WorldConfig struct {
	// Data is the path of the YAML logic data file.
	Data string `yaml:"data" validate:"required"`

	// Settings are read by setting(...) terms in the logic rules.
	Settings map[string]any `yaml:"settings"`

	// Plando is an optional path to a YAML file of placement entries.
	Plando string `yaml:"plando"`

	RandomizeEntrances bool `yaml:"randomize_entrances"`

	// CoupleEntrances keeps doorways two-way when entrances are randomized.
	CoupleEntrances bool `yaml:"couple_entrances"`

	// ExcludedLocations keep their vanilla item.
	ExcludedLocations []string `yaml:"excluded_locations"`

	// StartingItems are given to the player before play begins.
	StartingItems []string `yaml:"starting_items"`

	// Goal is the event that must be reachable for the seed to be beatable.
	Goal string `yaml:"goal" validate:"required"`

	RequiredDungeons RequiredDungeonsConfig `yaml:"required_dungeons"`
}

// RequiredDungeonsConfig picks Count random events out of Candidates and adds
// them to the goal.
type RequiredDungeonsConfig struct {
	Count      int      `yaml:"count" validate:"gte=0,ltefield=CandidateCount"`
	Candidates []string `yaml:"candidates"`

	CandidateCount int `yaml:"-"`
}

// OutputConfig controls where results are written.
type OutputConfig struct {
	// Spoiler is the spoiler log path. Empty disables the log.
	Spoiler string `yaml:"spoiler"`

	// Compress writes the spoiler log zstd-compressed.
	Compress bool `yaml:"compress"`
}

// DefaultConfig returns a RandoConfig with defaults and no worlds.
func DefaultConfig() *RandoConfig {
	return &RandoConfig{
		MaxAttempts: 50,
		Workers:     1,
		Output: OutputConfig{
			Spoiler: "spoiler.yaml",
		},
		Database: database.Config{
			Driver:     "sqlite",
			SQLitePath: "data/seeds.db",
			Postgres:   database.DefaultPostgresConfig(),
		},
	}
}

// LoadConfig loads the run configuration from a YAML file and applies the
// RANDO_SEED environment override.
// If the file doesn't exist, the defaults are used.
func LoadConfig(path string) (*RandoConfig, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return config, fmt.Errorf("failed to read config file: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, config); err != nil {
			return DefaultConfig(), fmt.Errorf("failed to parse config YAML: %w", err)
		}
	}

	if seed := os.Getenv("RANDO_SEED"); seed != "" {
		n, err := strconv.ParseInt(seed, 10, 64)
		if err != nil {
			return config, fmt.Errorf("invalid RANDO_SEED %q: %w", seed, err)
		}
		config.Seed = n
	}

	return config, nil
}

// Validate checks the configuration is complete enough to generate a seed.
func (c *RandoConfig) Validate() error {
	for i := range c.Worlds {
		rd := &c.Worlds[i].RequiredDungeons
		rd.CandidateCount = len(rd.Candidates)
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	switch c.Database.Driver {
	case "", "sqlite", "postgres":
	default:
		return fmt.Errorf("invalid configuration: unknown database driver %q", c.Database.Driver)
	}
	return nil
}
