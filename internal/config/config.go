// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/tablero/internal/grid"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
)

// Config holds the application configuration.
type Config struct {
	Grid    GridConfig    `toml:"grid"`
	Canvas  CanvasConfig  `toml:"canvas"`
	Storage StorageConfig `toml:"storage"`
	UI      UIConfig      `toml:"ui"`
	Log     LogConfig     `toml:"log"`
}

// GridConfig holds the grid geometry.
type GridConfig struct {
	Cols         int `toml:"cols"`          // columns in the grid
	RowHeight    int `toml:"row_height"`    // pixels per row
	HeaderHeight int `toml:"header_height"` // header image height in pixels
	HeaderMargin int `toml:"header_margin"` // gap below the header in pixels
}

// CanvasConfig holds canvas behaviour settings.
type CanvasConfig struct {
	AutosaveDebounce string `toml:"autosave_debounce"` // e.g., "1s", "0" disables autosave
}

// StorageConfig holds persistence settings.
type StorageConfig struct {
	Backend  string `toml:"backend"`   // "sqlite" or "json"
	DBPath   string `toml:"db_path"`   // sqlite database file
	JSONPath string `toml:"json_path"` // canvas_state.json file
	Backups  int    `toml:"backups"`   // json backups to keep, 0 disables backups
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // empty follows the canvas theme
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"` // "debug", "info", "warn", "error"
	File  string `toml:"file"`  // optional rotated log file
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Grid: GridConfig{
			Cols:         grid.Cols,
			RowHeight:    grid.RowHeight,
			HeaderHeight: grid.HeaderHeight,
			HeaderMargin: grid.HeaderMargin,
		},
		Canvas: CanvasConfig{
			AutosaveDebounce: "1s",
		},
		Storage: StorageConfig{
			Backend:  BackendSQLite,
			DBPath:   defaultDataPath("tablero.db"),
			JSONPath: defaultDataPath("canvas_state.json"),
			Backups:  5,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// defaultDataPath returns a path inside the data directory.
func defaultDataPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".local", "share", "tablero", name)
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "tablero", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Storage.JSONPath = expandPath(cfg.Storage.JSONPath)
	cfg.Log.File = expandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	ints := []struct {
		env string
		dst *int
	}{
		{"TABLERO_GRID_COLS", &cfg.Grid.Cols},
		{"TABLERO_GRID_ROW_HEIGHT", &cfg.Grid.RowHeight},
		{"TABLERO_GRID_HEADER_HEIGHT", &cfg.Grid.HeaderHeight},
		{"TABLERO_GRID_HEADER_MARGIN", &cfg.Grid.HeaderMargin},
		{"TABLERO_STORAGE_BACKUPS", &cfg.Storage.Backups},
	}
	for _, o := range ints {
		v := os.Getenv(o.env)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s must be an integer, got %q", o.env, v)
		}
		*o.dst = n
	}

	if v := os.Getenv("TABLERO_AUTOSAVE_DEBOUNCE"); v != "" {
		cfg.Canvas.AutosaveDebounce = v
	}

	// Storage overrides
	if v := os.Getenv("TABLERO_STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("TABLERO_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("TABLERO_JSON_PATH"); v != "" {
		cfg.Storage.JSONPath = v
	}

	if v := os.Getenv("TABLERO_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}

	if v := os.Getenv("TABLERO_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TABLERO_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Grid.Cols <= 0 {
		return fmt.Errorf("grid cols must be positive, got %d", c.Grid.Cols)
	}
	if c.Grid.RowHeight <= 0 {
		return fmt.Errorf("grid row_height must be positive, got %d", c.Grid.RowHeight)
	}
	if c.Grid.HeaderHeight < 0 || c.Grid.HeaderMargin < 0 {
		return errors.New("grid header_height and header_margin cannot be negative")
	}

	if _, err := c.Debounce(); err != nil {
		return err
	}

	switch c.Storage.Backend {
	case BackendSQLite:
		if c.Storage.DBPath == "" {
			return errors.New("db_path must be set")
		}
	case BackendJSON:
		if c.Storage.JSONPath == "" {
			return errors.New("json_path must be set")
		}
	default:
		return fmt.Errorf("storage backend must be %q or %q, got %q", BackendSQLite, BackendJSON, c.Storage.Backend)
	}
	if c.Storage.Backups < 0 {
		return fmt.Errorf("backups cannot be negative, got %d", c.Storage.Backups)
	}

	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	return nil
}

var validLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Geometry returns the configured grid geometry.
func (c *Config) Geometry() grid.Geometry {
	return grid.Geometry{
		Cols:         c.Grid.Cols,
		RowHeight:    c.Grid.RowHeight,
		HeaderHeight: c.Grid.HeaderHeight,
		HeaderMargin: c.Grid.HeaderMargin,
	}
}

// Debounce parses the autosave delay. "0" or "off" disables autosave.
func (c *Config) Debounce() (time.Duration, error) {
	v := strings.TrimSpace(c.Canvas.AutosaveDebounce)
	if v == "" || v == "0" || v == "off" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("autosave_debounce must be a duration like \"1s\", got %q", v)
	}
	if d < 0 {
		return 0, fmt.Errorf("autosave_debounce cannot be negative, got %q", v)
	}
	return d, nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
