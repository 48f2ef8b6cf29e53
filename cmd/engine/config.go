package main

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds the engine's tunable runtime parameters, loaded from an
// optional engine.toml alongside the binary (spec §10: thread count, TT
// size in MB, default move overhead).
type Config struct {
	Threads      int `toml:"threads"`
	HashMB       int `toml:"hash_mb"`
	MoveOverhead int `toml:"move_overhead_ms"`
}

// DefaultConfig returns the engine's built-in defaults.
func DefaultConfig() Config {
	return Config{
		Threads:      1,
		HashMB:       64,
		MoveOverhead: 50,
	}
}

// LoadConfig reads engine.toml at path. A missing or unparsable file is
// never an error — it silently falls back to defaults, matching
// Mgrdich/TermChess's config-loading contract: configuration is ambient,
// never load-bearing for correctness.
func LoadConfig(path string) Config {
	cfg := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return DefaultConfig()
	}
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	if cfg.HashMB < 1 {
		cfg.HashMB = 1
	}
	return cfg
}
