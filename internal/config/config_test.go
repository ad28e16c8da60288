package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "simple-rss.yaml"))
	if err != nil {
		t.Fatalf("Expected no error for missing settings file, got: %v", err)
	}

	defaults := GetDefaultConfig()
	if cfg != defaults {
		t.Errorf("Expected defaults %+v, got %+v", defaults, cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simple-rss.yaml")
	content := `reload_concurrency: 8
theme: light
show_read_feeds: false
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write settings file: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("Failed to load settings: %v", err)
	}

	if cfg.ReloadConcurrency != 8 {
		t.Errorf("Expected reload_concurrency 8, got %d", cfg.ReloadConcurrency)
	}
	if cfg.ThemeName != "light" {
		t.Errorf("Expected theme light, got %s", cfg.ThemeName)
	}
	if cfg.ShowReadFeeds {
		t.Error("Expected show_read_feeds false")
	}
	// Unset keys keep their defaults
	if cfg.FetchTimeout != 30 {
		t.Errorf("Expected default fetch_timeout 30, got %d", cfg.FetchTimeout)
	}
}

func TestLoadFallsBackOnUnknownThemeAndSpinner(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simple-rss.yaml")
	content := `theme: solarized-sepia
spinner: windmill
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write settings file: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("Failed to load settings: %v", err)
	}

	if cfg.ThemeName != "dark" {
		t.Errorf("Expected unknown theme to fall back to dark, got %s", cfg.ThemeName)
	}
	if cfg.SpinnerType != "braille" {
		t.Errorf("Expected unknown spinner to fall back to braille, got %s", cfg.SpinnerType)
	}
}

func TestLoadClampsConcurrency(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected int
	}{
		{"too low", "0", 1},
		{"too high", "50", 10},
		{"in range", "6", 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "simple-rss.yaml")
			if err := os.WriteFile(path, []byte("reload_concurrency: "+tt.value+"\n"), 0644); err != nil {
				t.Fatalf("Failed to write settings file: %v", err)
			}

			cfg, err := LoadFromPath(path)
			if err != nil {
				t.Fatalf("Failed to load settings: %v", err)
			}
			if cfg.ReloadConcurrency != tt.expected {
				t.Errorf("Expected concurrency %d, got %d", tt.expected, cfg.ReloadConcurrency)
			}
		})
	}
}
