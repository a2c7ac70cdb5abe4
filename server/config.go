package main

import (
	"flag"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds process-level settings for the arena server
type Config struct {
	Addr      string  // HTTP listen address
	ClientDir string  // static client files
	DBPath    string  // sqlite file; empty disables persistence
	Region    string  // obstacle layout to load for new sessions
	WorldSize float64 // side length of the wrapped square world
	Seed      int64   // seed for generating a missing region
}

// DefaultConfig returns the settings used when nothing is overridden
func DefaultConfig() Config {
	return Config{
		Addr:      ":8080",
		DBPath:    "arena.db",
		Region:    "default",
		WorldSize: DefaultWorldSize,
		Seed:      1,
	}
}

// LoadConfig applies environment overrides, then command-line flags, on top
// of DefaultConfig. Flags win over the environment.
func LoadConfig(args []string) (Config, error) {
	cfg := DefaultConfig()
	if v, ok := os.LookupEnv("ARENA_ADDR"); ok {
		cfg.Addr = v
	}
	if v, ok := os.LookupEnv("ARENA_DB"); ok {
		cfg.DBPath = v
	}
	if v, ok := os.LookupEnv("ARENA_WORLD"); ok {
		if size, err := strconv.ParseFloat(v, 64); err == nil && size > 0 {
			cfg.WorldSize = size
		}
	}

	fs := flag.NewFlagSet("arena", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	fs.StringVar(&cfg.ClientDir, "client", cfg.ClientDir, "Path to client directory (default: ../client)")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path (empty to disable)")
	fs.StringVar(&cfg.Region, "region", cfg.Region, "Obstacle region to load")
	fs.Float64Var(&cfg.WorldSize, "world", cfg.WorldSize, "World side length")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Seed for generating a missing region")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if cfg.WorldSize <= 0 {
		cfg.WorldSize = DefaultWorldSize
	}

	if cfg.ClientDir == "" {
		exe, _ := os.Executable()
		cfg.ClientDir = filepath.Join(filepath.Dir(exe), "..", "client")
		// Fallback for development
		if _, err := os.Stat(cfg.ClientDir); os.IsNotExist(err) {
			cfg.ClientDir = "../client"
		}
	}
	return cfg, nil
}
