// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackchuka/sift/internal/model"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	if len(cfg.Sources) != 1 || cfg.Sources[0] != (model.GlobEntry{Base: ".", Pattern: "**/*"}) {
		t.Errorf("Sources = %v, want [.:**/*]", cfg.Sources)
	}

	if cfg.PollInterval != 5*time.Second {
		t.Errorf("PollInterval = %v, want 5s", cfg.PollInterval)
	}

	if cfg.PositionCacheSize != 256 {
		t.Errorf("PositionCacheSize = %d, want 256", cfg.PositionCacheSize)
	}

	if len(cfg.IgnoredDirs) == 0 {
		t.Error("IgnoredDirs should have defaults")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"negative workers", func(c *Config) { c.Workers = -2 }, true},
		{"negative cache", func(c *Config) { c.PositionCacheSize = -1 }, true},
		{"empty source", func(c *Config) { c.Sources = append(c.Sources, model.GlobEntry{}) }, true},
		{"base only source", func(c *Config) { c.Sources = []model.GlobEntry{{Base: "src"}} }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_CreatesDefaultIfMissing(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Sources) != 1 {
		t.Errorf("Sources length = %d, want 1", len(cfg.Sources))
	}
}

func TestLoad_ParsesYAML(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home dir")
	}

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := []byte(`
sources:
  - base: ~/code/site
    pattern: "src/**/*.{html,tsx}"
  - base: ""
    pattern: "*.md"
ignored_dirs:
  - node_modules
ignored_extensions: [".snap"]
workers: 4
poll_interval: 2s
auto_refresh: false
`)
	if err := os.WriteFile(configPath, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Sources) != 2 {
		t.Fatalf("Sources length = %d, want 2", len(cfg.Sources))
	}
	if want := filepath.Join(home, "code", "site"); cfg.Sources[0].Base != want {
		t.Errorf("Sources[0].Base = %q, want %q", cfg.Sources[0].Base, want)
	}
	if cfg.Sources[0].Pattern != "src/**/*.{html,tsx}" {
		t.Errorf("Sources[0].Pattern = %q", cfg.Sources[0].Pattern)
	}
	if cfg.Sources[1].Base != "." {
		t.Errorf("Sources[1].Base = %q, want .", cfg.Sources[1].Base)
	}
	if len(cfg.IgnoredDirs) != 1 {
		t.Errorf("IgnoredDirs = %v, want [node_modules]", cfg.IgnoredDirs)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Workers)
	}
	if cfg.PollInterval != 2*time.Second {
		t.Errorf("PollInterval = %v, want 2s", cfg.PollInterval)
	}
	if cfg.AutoRefresh {
		t.Error("AutoRefresh should be false")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("sources: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("Load() should fail on malformed YAML")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("workers: -1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("Load() should reject negative workers")
	}
}

func TestSave_and_Load_Roundtrip(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "sub", "dir", "config.yaml")

	cfg := NewConfig()
	cfg.Sources = []model.GlobEntry{
		{Base: "/home/user/site", Pattern: "**/*"},
		{Base: "/tmp/app", Pattern: "*.html"},
	}
	cfg.Workers = 7
	cfg.PollInterval = 10 * time.Second
	cfg.AutoRefresh = false

	if err := Save(cfg, configPath); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(loaded.Sources) != 2 || loaded.Sources[1] != cfg.Sources[1] {
		t.Errorf("Sources = %v, want %v", loaded.Sources, cfg.Sources)
	}
	if loaded.Workers != 7 {
		t.Errorf("Workers = %d, want 7", loaded.Workers)
	}
	if loaded.PollInterval != 10*time.Second {
		t.Errorf("PollInterval = %v, want 10s", loaded.PollInterval)
	}
	if loaded.AutoRefresh != false {
		t.Error("AutoRefresh should be false")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home dir")
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"tilde only", "~", home},
		{"tilde with path", "~/code", filepath.Join(home, "code")},
		{"absolute path unchanged", "/usr/local/bin", "/usr/local/bin"},
		{"empty string", "", ""},
		{"relative path unchanged", "some/path", "some/path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExpandHome(tt.input)
			if got != tt.expected {
				t.Errorf("ExpandHome(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDefaultConfigPath(t *testing.T) {
	t.Run("uses XDG_CONFIG_HOME when set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		got := DefaultConfigPath()
		expected := "/custom/config/sift/config.yaml"
		if got != expected {
			t.Errorf("DefaultConfigPath() = %q, want %q", got, expected)
		}
	})

	t.Run("falls back to ~/.config when XDG unset", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		home, _ := os.UserHomeDir()
		got := DefaultConfigPath()
		expected := filepath.Join(home, ".config", "sift", "config.yaml")
		if got != expected {
			t.Errorf("DefaultConfigPath() = %q, want %q", got, expected)
		}
	})
}

func TestResolvePath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")

	t.Run("explicit wins", func(t *testing.T) {
		if got := ResolvePath("/etc/sift.yaml"); got != "/etc/sift.yaml" {
			t.Errorf("ResolvePath() = %q", got)
		}
	})

	t.Run("falls back to user config", func(t *testing.T) {
		t.Chdir(t.TempDir())
		if got := ResolvePath(""); got != "/custom/config/sift/config.yaml" {
			t.Errorf("ResolvePath() = %q", got)
		}
	})

	t.Run("local sift.yaml", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, LocalConfigName), []byte("workers: 2\n"), 0644); err != nil {
			t.Fatal(err)
		}
		t.Chdir(dir)
		if got := ResolvePath(""); got != LocalConfigName {
			t.Errorf("ResolvePath() = %q, want %q", got, LocalConfigName)
		}
	})
}

func TestParseDebug(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{"", false},
		{"0", false},
		{"false", false},
		{"*", true},
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"sift", true},
		{"app,sift:scanner", true},
		{"other", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			if got := ParseDebug(tt.value); got != tt.expected {
				t.Errorf("ParseDebug(%q) = %v, want %v", tt.value, got, tt.expected)
			}
		})
	}
}
