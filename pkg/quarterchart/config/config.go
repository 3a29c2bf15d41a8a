// Package config loads quarterchart settings from a YAML file with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/ukaji3/quarterchart-go/pkg/quarterchart"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/prefs"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/view"
)

// DefaultPath is the config file read when --config is not given.
const DefaultPath = "quarterchart.yaml"

// Config holds all settings.
type Config struct {
	ExcelPath string `yaml:"excel_path"`
	Sheet     string `yaml:"sheet"`
	Locale    string `yaml:"locale"`

	Server  ServerConfig  `yaml:"server"`
	Pages   PagesConfig   `yaml:"pages"`
	Prefs   PrefsConfig   `yaml:"preferences"`
	Play    PlayConfig    `yaml:"play"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the HTTP preview.
type ServerConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	MaxPortTries int    `yaml:"max_port_tries"`
	DistDir      string `yaml:"dist_dir"`
}

// PagesConfig configures static site output.
type PagesConfig struct {
	DocsDir           string `yaml:"docs_dir"`
	PublishedDefaults string `yaml:"published_defaults"`
}

// PrefsConfig selects the preference storage backend.
type PrefsConfig struct {
	Backend string `yaml:"backend"` // sqlite, file, memory
	Path    string `yaml:"path"`
}

// PlayConfig configures the terminal chart's data source.
type PlayConfig struct {
	Source     string `yaml:"source"` // file, api, static, mcp
	APIURL     string `yaml:"api_url"`
	StaticURL  string `yaml:"static_url"`
	MCPCommand string `yaml:"mcp_command"`
	Watch      bool   `yaml:"watch"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		ExcelPath: quarterchart.DefaultExcelPath,
		Locale:    view.DefaultLocale,
		Server: ServerConfig{
			Host:         "127.0.0.1",
			Port:         5179,
			MaxPortTries: 25,
			DistDir:      "dist",
		},
		Pages: PagesConfig{
			DocsDir:           "docs",
			PublishedDefaults: filepath.Join("data", prefs.PublishedFileName),
		},
		Prefs: PrefsConfig{
			Backend: "sqlite",
			Path:    DefaultPrefsPath(),
		},
		Play: PlayConfig{
			Source:     "file",
			APIURL:     "http://127.0.0.1:5179/",
			StaticURL:  filepath.Join("docs", "data.json"),
			MCPCommand: "quarterchart mcp",
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// DefaultPrefsPath is prefs.db under the user config directory.
func DefaultPrefsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".quarterchart", "prefs.db")
	}
	return filepath.Join(dir, "quarterchart", "prefs.db")
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as YAML.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	c.ExcelPath = getenv("EXCEL_PATH", c.ExcelPath)
	c.Server.Port = getenvInt("PORT", c.Server.Port)
	c.Server.Host = getenv("QUARTERCHART_HOST", c.Server.Host)
	c.Prefs.Path = getenv("QUARTERCHART_PREFS_PATH", c.Prefs.Path)
	c.Pages.PublishedDefaults = getenv("QUARTERCHART_PUBLISHED_DEFAULTS", c.Pages.PublishedDefaults)
	c.Logging.Level = getenv("QUARTERCHART_LOG_LEVEL", c.Logging.Level)
	c.Locale = getenv("QUARTERCHART_LOCALE", c.Locale)
}

// Validate checks enumerated and numeric settings.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Server.MaxPortTries < 0 {
		return fmt.Errorf("invalid max_port_tries: %d", c.Server.MaxPortTries)
	}
	switch c.Prefs.Backend {
	case "sqlite", "file", "memory":
	default:
		return fmt.Errorf("invalid preferences backend: %s (must be sqlite, file, or memory)", c.Prefs.Backend)
	}
	switch c.Play.Source {
	case "file", "api", "static", "mcp", "auto":
	default:
		return fmt.Errorf("invalid play source: %s (must be file, api, static, mcp, or auto)", c.Play.Source)
	}
	return nil
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
