// Package config provides configuration management for netsim.
//
// Config file locations (priority order):
//  1. $NETSIM_CONFIG
//  2. ./netsim.yaml
//  3. ~/.config/netsim/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"netsim/internal/engine"
	"netsim/internal/ipam"
)

// Config holds the simulator settings.
type Config struct {
	Version  int            `yaml:"version"`
	Pool     PoolConfig     `yaml:"pool"`
	Database DatabaseConfig `yaml:"database"`
	Ping     PingConfig     `yaml:"ping"`
	Draw     DrawConfig     `yaml:"draw"`
}

// PoolConfig configures the automatic address assignment pool.
type PoolConfig struct {
	CIDR string `yaml:"cidr"`
}

// DatabaseConfig configures the saved-topology store.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// PingConfig tunes the simulated echo statistics.
type PingConfig struct {
	Count        int     `yaml:"count"`
	LossRate     float64 `yaml:"loss_rate"`
	MinLatencyMs float64 `yaml:"min_latency_ms"`
	MaxLatencyMs float64 `yaml:"max_latency_ms"`
	TTL          int     `yaml:"ttl"`
	Seed         int64   `yaml:"seed,omitempty"`
}

// DrawConfig configures the SVG renderer output.
type DrawConfig struct {
	Output string `yaml:"output"`
}

// Load finds and loads the config file, or returns defaults if none found.
// The second return value is the path the config was loaded from, empty for
// defaults.
func Load() (*Config, string, error) {
	path := FindConfigPath()
	if path == "" {
		return DefaultConfig(), "", nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path.
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, path, nil
}

// FindConfigPath returns the first existing config file location, or "".
func FindConfigPath() string {
	if env := os.Getenv("NETSIM_CONFIG"); env != "" {
		return env
	}
	candidates := []string{"./netsim.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "netsim", "config.yaml"))
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Save writes the config to the specified path.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation.
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		Pool:     PoolConfig{CIDR: ipam.DefaultCIDR},
		Database: DatabaseConfig{Path: "./netsim.db"},
		Ping: PingConfig{
			Count:        4,
			LossRate:     0.01,
			MinLatencyMs: 1,
			MaxLatencyMs: 10,
			TTL:          64,
		},
		Draw: DrawConfig{Output: "./topology.svg"},
	}
}

// applyDefaults fills in missing values with defaults.
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Version == 0 {
		c.Version = def.Version
	}
	if c.Pool.CIDR == "" {
		c.Pool.CIDR = def.Pool.CIDR
	}
	if c.Database.Path == "" {
		c.Database.Path = def.Database.Path
	}
	if c.Ping.Count == 0 {
		c.Ping.Count = def.Ping.Count
	}
	if c.Ping.MaxLatencyMs == 0 {
		c.Ping.MinLatencyMs = def.Ping.MinLatencyMs
		c.Ping.MaxLatencyMs = def.Ping.MaxLatencyMs
	}
	if c.Ping.TTL == 0 {
		c.Ping.TTL = def.Ping.TTL
	}
	if c.Draw.Output == "" {
		c.Draw.Output = def.Draw.Output
	}
}

// NewPool builds the address pool described by the config.
func (c *Config) NewPool() (*ipam.Pool, error) {
	return ipam.Parse(c.Pool.CIDR)
}

// EngineOptions converts the ping settings into engine options.
func (c *Config) EngineOptions() engine.Options {
	return engine.Options{
		LossRate:   c.Ping.LossRate,
		MinLatency: c.Ping.MinLatencyMs,
		MaxLatency: c.Ping.MaxLatencyMs,
		TTL:        c.Ping.TTL,
		Seed:       c.Ping.Seed,
	}
}
