// Package config loads the arenad configuration: server settings, the
// unit roster with attack ranges, and optional extra map files.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// UnitSpec describes one unit available for placement.
type UnitSpec struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Range int    `yaml:"range"` // Attack range in hexes, minimum 1
}

// Config is the full arenad configuration.
type Config struct {
	Port         int        `yaml:"port"`
	Map          string     `yaml:"map"`      // Built-in preset name, or "random"
	Seed         int64      `yaml:"seed"`     // Seed for random maps
	DBPath       string     `yaml:"db_path"`  // Empty disables persistence
	MapsFile     string     `yaml:"maps_file"` // Optional extra YAML map presets
	CacheTTLSecs int        `yaml:"cache_ttl_seconds"`
	Roster       []UnitSpec `yaml:"roster"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Port:   8080,
		Map:    "open",
		DBPath: "data/arena.db",
		Roster: []UnitSpec{
			{ID: "warden", Name: "Warden", Range: 1},
			{ID: "lancer", Name: "Lancer", Range: 1},
			{ID: "archer", Name: "Archer", Range: 3},
			{ID: "mystic", Name: "Mystic", Range: 4},
			{ID: "herald", Name: "Herald", Range: 2},
			{ID: "brute", Name: "Brute", Range: 1},
			{ID: "sniper", Name: "Sniper", Range: 5},
			{ID: "adept", Name: "Adept", Range: 2},
			{ID: "reaver", Name: "Reaver", Range: 1},
			{ID: "oracle", Name: "Oracle", Range: 4},
		},
	}
}

func loadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, out)
}

// Load reads a config file, filling unset fields from Default. An empty
// path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if err := loadYAML(path, cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if cfg.Port <= 0 {
		cfg.Port = Default().Port
	}
	if cfg.Map == "" {
		cfg.Map = Default().Map
	}
	for i := range cfg.Roster {
		if cfg.Roster[i].Range < 1 {
			cfg.Roster[i].Range = 1
		}
	}
	return cfg, nil
}

// Ranges returns the unit ID → attack range table the selector consumes.
func (c *Config) Ranges() map[string]int {
	out := make(map[string]int, len(c.Roster))
	for _, u := range c.Roster {
		out[u.ID] = u.Range
	}
	return out
}
