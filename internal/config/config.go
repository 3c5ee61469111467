// Package config loads and saves the drawcalc configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/tcgtools/drawcalc/internal/sim"
)

// Config represents the application configuration.
type Config struct {
	Simulation SimulationConfig `toml:"simulation"`
	Cards      CardsConfig      `toml:"cards"`
	Cache      CacheConfig      `toml:"cache"`
	App        AppConfig        `toml:"app"`
}

// SimulationConfig contains simulation kernel settings.
type SimulationConfig struct {
	DefaultSims int `toml:"default_sims"` // Trials when the query leaves sim_count zero
	MaxSims     int `toml:"max_sims"`     // Hard cap on trials per query
}

// CardsConfig contains card metadata source settings.
type CardsConfig struct {
	PayloadPath  string   `toml:"payload_path"`   // Path to the JSON card payload
	DBPath       string   `toml:"db_path"`        // Path to the sqlite card database
	HandTraps    []string `toml:"hand_traps"`     // Overrides the bundled hand-trap list
	UseHandTraps bool     `toml:"use_hand_traps"` // Apply the override list
}

// CacheConfig contains result cache settings.
type CacheConfig struct {
	MaxEntries int `toml:"max_entries"` // Max cached reports (0 = default)
}

// AppConfig contains general application settings.
type AppConfig struct {
	DebugMode bool `toml:"debug_mode"` // Enable debug logging
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Simulation: SimulationConfig{
			DefaultSims: sim.DefaultSimCount,
			MaxSims:     sim.MaxSimCount,
		},
		Cards: CardsConfig{
			PayloadPath: "",
			DBPath:      "",
		},
		Cache: CacheConfig{
			MaxEntries: 256,
		},
		App: AppConfig{
			DebugMode: false,
		},
	}
}

// configPath returns the path to the configuration file.
func configPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".drawcalc")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.toml"), nil
}

// Load loads the configuration from the default location. Returns the
// default config if no file exists.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from an explicit path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return &config, nil
}

// Save saves the configuration to the default location.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Simulation.DefaultSims < 0 {
		return fmt.Errorf("default sims cannot be negative: %d", c.Simulation.DefaultSims)
	}
	if c.Simulation.MaxSims < 0 {
		return fmt.Errorf("max sims cannot be negative: %d", c.Simulation.MaxSims)
	}
	if c.Simulation.MaxSims > 0 && c.Simulation.DefaultSims > c.Simulation.MaxSims {
		return fmt.Errorf("default sims %d exceeds max sims %d",
			c.Simulation.DefaultSims, c.Simulation.MaxSims)
	}
	if c.Cache.MaxEntries < 0 {
		return fmt.Errorf("cache max entries cannot be negative: %d", c.Cache.MaxEntries)
	}
	return nil
}
