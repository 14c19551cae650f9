// Package config handles loading, saving and validating the appsweep
// configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for scans, cleaning and the API server.
type Config struct {
	Categories Categories          `yaml:"categories"`
	Thresholds Thresholds          `yaml:"thresholds"`
	ExtraSkip  map[string][]string `yaml:"extra_skip_prefixes,omitempty"`
	DryRun     bool                `yaml:"dry_run"`
	Verbose    bool                `yaml:"verbose"`
	Output     OutputConfig        `yaml:"output"`
	Server     ServerConfig        `yaml:"server"`
}

// Categories toggles individual leftover detectors. All are enabled by
// default; disabling one removes its results from scans entirely.
type Categories struct {
	Containers      bool `yaml:"containers"`
	GroupContainers bool `yaml:"group_containers"`
	Preferences     bool `yaml:"preferences"`
	LaunchAgents    bool `yaml:"launch_agents"`
	AppSupport      bool `yaml:"app_support"`
	Caches          bool `yaml:"caches"`
	Logs            bool `yaml:"logs"`
}

// Thresholds sets the minimum artifact size, in bytes, below which the noisy
// categories suppress results. An artifact is reported only when its size is
// strictly greater than the threshold.
type Thresholds struct {
	AppSupportMinBytes int64 `yaml:"app_support_min_bytes"`
	CachesMinBytes     int64 `yaml:"caches_min_bytes"`
	LogsMinBytes       int64 `yaml:"logs_min_bytes"`
}

// OutputConfig controls CLI report rendering.
type OutputConfig struct {
	Format string `yaml:"format"` // table, json, yaml or summary
	Color  bool   `yaml:"color"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Addr         string       `yaml:"addr"`
	ScanSchedule string       `yaml:"scan_schedule,omitempty"`
	Notify       NotifyConfig `yaml:"notify"`
}

// NotifyConfig selects the channels that announce completed background scans.
type NotifyConfig struct {
	Webhook string `yaml:"webhook,omitempty"`
	Desktop bool   `yaml:"desktop"`
}

// GetDefault returns the built-in configuration.
func GetDefault() *Config {
	return &Config{
		Categories: Categories{
			Containers:      true,
			GroupContainers: true,
			Preferences:     true,
			LaunchAgents:    true,
			AppSupport:      true,
			Caches:          true,
			Logs:            true,
		},
		Thresholds: Thresholds{
			AppSupportMinBytes: 1024,
			CachesMinBytes:     10240,
			LogsMinBytes:       1024,
		},
		Output: OutputConfig{
			Format: "table",
			Color:  true,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:5555",
		},
	}
}

// DefaultPath returns the standard location of the config file.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "appsweep", "config.yaml"), nil
}

// Load reads the configuration from path. A missing file yields the defaults;
// a present file is merged over them, so partial configs are valid.
func Load(path string) (*Config, error) {
	cfg := GetDefault()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to path, creating parent directories as
// needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks the configuration for values that would make a scan or the
// server misbehave.
func (c *Config) Validate() error {
	if c.Thresholds.AppSupportMinBytes < 0 {
		return fmt.Errorf("thresholds.app_support_min_bytes must not be negative")
	}
	if c.Thresholds.CachesMinBytes < 0 {
		return fmt.Errorf("thresholds.caches_min_bytes must not be negative")
	}
	if c.Thresholds.LogsMinBytes < 0 {
		return fmt.Errorf("thresholds.logs_min_bytes must not be negative")
	}

	switch c.Output.Format {
	case "table", "json", "yaml", "summary":
	default:
		return fmt.Errorf("output.format must be one of table, json, yaml, summary (got %q)", c.Output.Format)
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}

	return nil
}
