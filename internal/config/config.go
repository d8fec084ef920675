// Package config resolves the scheduler's tunables: beam size, an
// optional wall-clock time budget, and the target machine parameters.
// Environment variables take precedence (matching the two knobs the
// reference scheduler reads directly from the environment); an
// optional TOML file supplies defaults for everything else.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/xdestiny110/topdown-autosched/internal/machine"
)

// Config is the fully resolved set of knobs GenerateSchedulesTopDown
// needs.
type Config struct {
	// BeamSize is the fixed beam width used when TimeLimit is zero.
	BeamSize int
	// TimeLimit, when non-zero, switches to the doubling-beam mode:
	// beam width doubles each round until half of TimeLimit has
	// elapsed.
	TimeLimit time.Duration
	Machine   machine.Params
}

// tomlConfig mirrors Config's on-disk TOML representation.
type tomlConfig struct {
	BeamSize            int     `toml:"beam-size"`
	TimeLimitSeconds    float64 `toml:"time-limit-seconds"`
	Parallelism         int     `toml:"parallelism"`
	LastLevelCacheBytes int64   `toml:"last-level-cache-bytes"`
	Balance             float64 `toml:"balance"`
}

// Default returns the self-test configuration: a fixed beam of 1 and
// the reference machine parameters (8 cores, 16 MiB cache, balance
// 100).
func Default() Config {
	return Config{BeamSize: 1, Machine: machine.Default()}
}

// Load resolves a Config starting from Default(), then overlaying a
// TOML file at path (if it exists; a missing file is not an error),
// then the HL_BEAM_SIZE and HL_AUTO_SCHEDULE_TIME_LIMIT environment
// variables, which always win.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("reading config file: %w", err)
			}
		} else {
			var tc tomlConfig
			if err := toml.Unmarshal(data, &tc); err != nil {
				return Config{}, fmt.Errorf("parsing config file: %w", err)
			}
			if tc.BeamSize > 0 {
				cfg.BeamSize = tc.BeamSize
			}
			if tc.TimeLimitSeconds > 0 {
				cfg.TimeLimit = time.Duration(tc.TimeLimitSeconds * float64(time.Second))
			}
			if tc.Parallelism > 0 {
				cfg.Machine.Parallelism = tc.Parallelism
			}
			if tc.LastLevelCacheBytes > 0 {
				cfg.Machine.LastLevelCacheBytes = tc.LastLevelCacheBytes
			}
			if tc.Balance > 0 {
				cfg.Machine.Balance = tc.Balance
			}
		}
	}

	if s := os.Getenv("HL_BEAM_SIZE"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return Config{}, fmt.Errorf("parsing HL_BEAM_SIZE: %w", err)
		}
		cfg.BeamSize = n
	}

	if s := os.Getenv("HL_AUTO_SCHEDULE_TIME_LIMIT"); s != "" {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Config{}, fmt.Errorf("parsing HL_AUTO_SCHEDULE_TIME_LIMIT: %w", err)
		}
		cfg.TimeLimit = time.Duration(f * float64(time.Second))
	}

	return cfg, nil
}
