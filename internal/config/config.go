package config

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/viddrobnic/simple-rss/internal/themes"
	"gopkg.in/yaml.v3"
)

// Config holds the optional user settings, read from a YAML file next to
// the URLs file ($XDG_CONFIG_HOME/simple-rss.yaml).
type Config struct {
	ReloadConcurrency int
	FetchTimeout      int // seconds
	FetchRetries      int // retries on transient fetch errors
	ReloadOnStartup   bool
	ThemeName         string
	HighlightStyle    string
	SpinnerType       string
	ShowReadFeeds     bool
	UnreadOnTop       bool
}

// fileConfig mirrors Config with pointers so unset keys fall back to
// defaults instead of zero values.
type fileConfig struct {
	ReloadConcurrency *int    `yaml:"reload_concurrency"`
	FetchTimeout      *int    `yaml:"fetch_timeout"`
	FetchRetries      *int    `yaml:"fetch_retries"`
	ReloadOnStartup   *bool   `yaml:"reload_on_startup"`
	ThemeName         *string `yaml:"theme"`
	HighlightStyle    *string `yaml:"highlight_style"`
	SpinnerType       *string `yaml:"spinner"`
	ShowReadFeeds     *bool   `yaml:"show_read_feeds"`
	UnreadOnTop       *bool   `yaml:"unread_on_top"`
}

func GetDefaultConfig() Config {
	return Config{
		ReloadConcurrency: 4,
		FetchTimeout:      30,
		FetchRetries:      2,
		ReloadOnStartup:   true,
		ThemeName:         "dark",
		HighlightStyle:    "prefix-underline",
		SpinnerType:       "braille",
		ShowReadFeeds:     true,
		UnreadOnTop:       true,
	}
}

// GetConfigFilePath returns the settings file path. The URLs file occupies
// the bare simple-rss name, so settings live in simple-rss.yaml.
func GetConfigFilePath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "simple-rss.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "simple-rss.yaml"), nil
}

// Load reads the settings file, falling back to defaults for anything unset.
// A missing file is not an error.
func Load() (Config, error) {
	path, err := GetConfigFilePath()
	if err != nil {
		return GetDefaultConfig(), err
	}

	return LoadFromPath(path)
}

func LoadFromPath(path string) (Config, error) {
	cfg := GetDefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return cfg, err
	}

	if fc.ReloadConcurrency != nil {
		cfg.ReloadConcurrency = *fc.ReloadConcurrency
	}
	if fc.FetchTimeout != nil {
		cfg.FetchTimeout = *fc.FetchTimeout
	}
	if fc.FetchRetries != nil {
		cfg.FetchRetries = *fc.FetchRetries
	}
	if fc.ReloadOnStartup != nil {
		cfg.ReloadOnStartup = *fc.ReloadOnStartup
	}
	if fc.ThemeName != nil {
		cfg.ThemeName = *fc.ThemeName
	}
	if fc.HighlightStyle != nil {
		cfg.HighlightStyle = *fc.HighlightStyle
	}
	if fc.SpinnerType != nil {
		cfg.SpinnerType = *fc.SpinnerType
	}
	if fc.ShowReadFeeds != nil {
		cfg.ShowReadFeeds = *fc.ShowReadFeeds
	}
	if fc.UnreadOnTop != nil {
		cfg.UnreadOnTop = *fc.UnreadOnTop
	}

	cfg.validate()
	return cfg, nil
}

func (c *Config) validate() {
	if c.ReloadConcurrency < 1 {
		c.ReloadConcurrency = 1
	}
	if c.ReloadConcurrency > 10 {
		c.ReloadConcurrency = 10
	}
	if c.FetchTimeout < 1 {
		c.FetchTimeout = 30
	}
	if c.FetchRetries < 0 {
		c.FetchRetries = 0
	}
	if !slices.Contains(themes.GetThemeNames(), c.ThemeName) {
		c.ThemeName = "dark"
	}
	if !slices.Contains(themes.GetSpinnerTypes(), c.SpinnerType) {
		c.SpinnerType = "braille"
	}
}
