package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tcgtools/drawcalc/internal/sim"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Simulation.DefaultSims != sim.DefaultSimCount {
		t.Errorf("DefaultSims = %d, want %d", cfg.Simulation.DefaultSims, sim.DefaultSimCount)
	}
	if cfg.Simulation.MaxSims != sim.MaxSimCount {
		t.Errorf("MaxSims = %d, want %d", cfg.Simulation.MaxSims, sim.MaxSimCount)
	}
	if cfg.Cache.MaxEntries != 256 {
		t.Errorf("Cache.MaxEntries = %d, want 256", cfg.Cache.MaxEntries)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFrom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[simulation]
default_sims = 50000
max_sims = 200000

[cards]
payload_path = "/tmp/cards.json"
hand_traps = ["Ash Blossom & Joyous Spring"]
use_hand_traps = true

[cache]
max_entries = 64

[app]
debug_mode = true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Simulation.DefaultSims != 50000 {
		t.Errorf("DefaultSims = %d, want 50000", cfg.Simulation.DefaultSims)
	}
	if cfg.Cards.PayloadPath != "/tmp/cards.json" {
		t.Errorf("PayloadPath = %q", cfg.Cards.PayloadPath)
	}
	if !cfg.Cards.UseHandTraps || len(cfg.Cards.HandTraps) != 1 {
		t.Errorf("hand trap override not loaded: %+v", cfg.Cards)
	}
	if cfg.Cache.MaxEntries != 64 {
		t.Errorf("MaxEntries = %d, want 64", cfg.Cache.MaxEntries)
	}
	if !cfg.App.DebugMode {
		t.Error("DebugMode not loaded")
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	if _, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("LoadFrom() accepted a missing file")
	}
}

func TestLoadFromInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("simulation = [broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom() accepted invalid TOML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"negative default sims", func(c *Config) { c.Simulation.DefaultSims = -1 }, true},
		{"negative max sims", func(c *Config) { c.Simulation.MaxSims = -1 }, true},
		{"default above max", func(c *Config) {
			c.Simulation.DefaultSims = 100
			c.Simulation.MaxSims = 50
		}, true},
		{"zero max unbounded", func(c *Config) {
			c.Simulation.DefaultSims = 100
			c.Simulation.MaxSims = 0
		}, false},
		{"negative cache entries", func(c *Config) { c.Cache.MaxEntries = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
