package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
)

// Cache backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
)

// Config represents the constlist configuration.
type Config struct {
	Format string      `json:"format"`
	Debug  bool        `json:"debug"`
	Cache  CacheConfig `json:"cache"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Backend    string `json:"backend"`
	Dir        string `json:"dir,omitempty"`
	TTLSeconds int    `json:"ttlSeconds"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Format: "text",
		Cache: CacheConfig{
			Backend:    BackendFile,
			TTLSeconds: 3600,
		},
	}
}

// ConfigDir returns the platform-appropriate config directory for constlist.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "constlist"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "constlist"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "constlist"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "constlist"), nil
	default:
		return filepath.Join(home, ".config", "constlist"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadFile loads config from the config file. Returns zero Config and nil error if file doesn't exist.
func LoadFile() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only non-zero values should be set).
func Load(overrides map[string]string) (Config, error) {
	cfg := Default()

	fileCfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	if err := mergeEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := mergeOverrides(&cfg, overrides); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated fields.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case BackendMemory, BackendFile:
	default:
		return fmt.Errorf("unknown cache backend %q (want %s or %s)", c.Cache.Backend, BackendMemory, BackendFile)
	}
	if c.Cache.TTLSeconds < 0 {
		return fmt.Errorf("cache ttlSeconds must not be negative: %d", c.Cache.TTLSeconds)
	}
	return nil
}

// WithDefaults layers c over Default the way Load layers the config file.
func (c Config) WithDefaults() Config {
	cfg := Default()
	mergeFile(&cfg, c)
	return cfg
}

func mergeFile(dst *Config, src Config) {
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.Cache.Backend != "" {
		dst.Cache.Backend = src.Cache.Backend
	}
	if src.Cache.Dir != "" {
		dst.Cache.Dir = src.Cache.Dir
	}
	if src.Cache.TTLSeconds > 0 {
		dst.Cache.TTLSeconds = src.Cache.TTLSeconds
	}
	// JSON cannot tell an unset bool from false; debug is off by default so
	// the file can only turn it on.
	dst.Debug = src.Debug || dst.Debug
}

func mergeEnv(cfg *Config) error {
	if v := os.Getenv("CONSTLIST_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("CONSTLIST_DEBUG"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("CONSTLIST_DEBUG must be a boolean: %w", err)
		}
		cfg.Debug = b
	}
	if v := os.Getenv("CONSTLIST_CACHE_BACKEND"); v != "" {
		cfg.Cache.Backend = v
	}
	if v := os.Getenv("CONSTLIST_CACHE_DIR"); v != "" {
		cfg.Cache.Dir = v
	}
	if v := os.Getenv("CONSTLIST_CACHE_TTL"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CONSTLIST_CACHE_TTL must be an integer: %w", err)
		}
		cfg.Cache.TTLSeconds = n
	}
	return nil
}

func mergeOverrides(cfg *Config, overrides map[string]string) error {
	for key, value := range overrides {
		if value == "" {
			continue
		}
		if err := SetField(cfg, key, value); err != nil {
			return err
		}
	}
	return nil
}

// SetField sets a single config field by key name. Returns error if key is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "format":
		cfg.Format = value
	case "debug":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("debug must be a boolean: %w", err)
		}
		cfg.Debug = b
	case "cache.backend":
		cfg.Cache.Backend = value
	case "cache.dir":
		cfg.Cache.Dir = value
	case "cache.ttlSeconds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("cache.ttlSeconds must be an integer: %w", err)
		}
		cfg.Cache.TTLSeconds = n
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}
