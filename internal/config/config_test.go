package config

import (
	"os"
	"path/filepath"
	"testing"
)

// =============================================================================
// GetDefault Tests
// =============================================================================

func TestGetDefault(t *testing.T) {
	cfg := GetDefault()

	if cfg == nil {
		t.Fatal("GetDefault returned nil")
	}

	if !cfg.Categories.Containers {
		t.Error("expected Containers to be enabled by default")
	}
	if !cfg.Categories.GroupContainers {
		t.Error("expected GroupContainers to be enabled by default")
	}
	if !cfg.Categories.Preferences {
		t.Error("expected Preferences to be enabled by default")
	}
	if !cfg.Categories.LaunchAgents {
		t.Error("expected LaunchAgents to be enabled by default")
	}
	if !cfg.Categories.AppSupport {
		t.Error("expected AppSupport to be enabled by default")
	}
	if !cfg.Categories.Caches {
		t.Error("expected Caches to be enabled by default")
	}
	if !cfg.Categories.Logs {
		t.Error("expected Logs to be enabled by default")
	}
	if cfg.DryRun {
		t.Error("expected DryRun to be disabled by default")
	}
}

func TestGetDefaultThresholds(t *testing.T) {
	cfg := GetDefault()

	if cfg.Thresholds.AppSupportMinBytes != 1024 {
		t.Errorf("expected AppSupport threshold 1024, got %d", cfg.Thresholds.AppSupportMinBytes)
	}
	if cfg.Thresholds.CachesMinBytes != 10240 {
		t.Errorf("expected Caches threshold 10240, got %d", cfg.Thresholds.CachesMinBytes)
	}
	if cfg.Thresholds.LogsMinBytes != 1024 {
		t.Errorf("expected Logs threshold 1024, got %d", cfg.Thresholds.LogsMinBytes)
	}
}

// =============================================================================
// Load / Save Tests
// =============================================================================

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.Categories.Containers || cfg.Thresholds.CachesMinBytes != 10240 {
		t.Error("defaults not applied for missing file")
	}
}

func TestLoadMergesPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	partial := `
categories:
  logs: false
thresholds:
  caches_min_bytes: 4096
`
	if err := os.WriteFile(path, []byte(partial), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Categories.Logs {
		t.Error("expected logs disabled by file")
	}
	if !cfg.Categories.Caches {
		t.Error("expected untouched category to keep default")
	}
	if cfg.Thresholds.CachesMinBytes != 4096 {
		t.Errorf("caches threshold = %d, want 4096", cfg.Thresholds.CachesMinBytes)
	}
	if cfg.Thresholds.AppSupportMinBytes != 1024 {
		t.Errorf("app support threshold = %d, want default 1024", cfg.Thresholds.AppSupportMinBytes)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("categories: ["), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid yaml")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := GetDefault()
	cfg.DryRun = true
	cfg.Server.Addr = "127.0.0.1:9999"
	cfg.ExtraSkip = map[string][]string{"caches": {"com.corp."}}

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !loaded.DryRun {
		t.Error("dry_run lost in round trip")
	}
	if loaded.Server.Addr != "127.0.0.1:9999" {
		t.Errorf("server addr = %q", loaded.Server.Addr)
	}
	if len(loaded.ExtraSkip["caches"]) != 1 || loaded.ExtraSkip["caches"][0] != "com.corp." {
		t.Errorf("extra skip lost: %v", loaded.ExtraSkip)
	}
}

// =============================================================================
// Validate Tests
// =============================================================================

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"negative threshold", func(c *Config) { c.Thresholds.CachesMinBytes = -1 }, true},
		{"bad format", func(c *Config) { c.Output.Format = "xml" }, true},
		{"yaml format ok", func(c *Config) { c.Output.Format = "yaml" }, false},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefault()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
