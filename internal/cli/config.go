package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/mydressline-hue/stockpile/pkg/expand"
	"github.com/mydressline-hue/stockpile/pkg/reconcile"
)

// Cache backend names accepted in the config file.
const (
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
	CacheBackendNone  = "none"
)

// Config is the TOML application configuration.
//
// Example:
//
//	[classifier]
//	url = "http://localhost:8080/classify"
//	timeout = "30s"
//
//	[color_service]
//	url = "http://localhost:8081/colors"
//
//	[cache]
//	backend = "redis"
//	[cache.redis]
//	addr = "localhost:6379"
//
//	[registry]
//	uri = "mongodb://localhost:27017"
//	database = "stockpile"
//
//	[expansion]
//	down = 1
//	up = 1
//	[[expansion.tiers]]
//	minPrice = "200"
//	down = 3
//	up = 3
type Config struct {
	Classifier   ServiceConfig  `toml:"classifier"`
	ColorService ServiceConfig  `toml:"color_service"`
	Cache        CacheConfig    `toml:"cache"`
	Registry     RegistryConfig `toml:"registry"`

	Expansion expand.Config    `toml:"expansion"`
	Reconcile reconcile.Config `toml:"reconcile"`

	// LimitsFile points at a JSON size-limit config; empty disables limits.
	LimitsFile string `toml:"limits_file"`
}

// ServiceConfig locates a remote HTTP service.
type ServiceConfig struct {
	URL     string        `toml:"url"`
	Timeout time.Duration `toml:"timeout"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	// Backend is one of "file", "redis", or "none". Default is "file".
	Backend string `toml:"backend"`

	// Dir overrides the XDG cache directory for the file backend.
	Dir string `toml:"dir"`

	Redis RedisConfig `toml:"redis"`
}

// RedisConfig configures the Redis cache backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// RegistryConfig configures the MongoDB-backed style registry.
// An empty URI disables registry features.
type RegistryConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Classifier:   ServiceConfig{URL: "http://localhost:8080/classify", Timeout: 30 * time.Second},
		ColorService: ServiceConfig{Timeout: 30 * time.Second},
		Cache:        CacheConfig{Backend: CacheBackendFile},
		Registry:     RegistryConfig{Database: appName},
	}
}

// LoadConfig reads the TOML config at path. An empty path falls back to the
// XDG config location; a missing file there is not an error and yields the
// defaults. Unknown keys in the file are rejected to catch typos.
func LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		var err error
		if path, err = defaultConfigPath(); err != nil {
			return DefaultConfig(), nil
		}
	}

	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("load config %s: unknown key %q", path, undecoded[0].String())
	}

	if cfg.Classifier.Timeout <= 0 {
		cfg.Classifier.Timeout = 30 * time.Second
	}
	if cfg.ColorService.Timeout <= 0 {
		cfg.ColorService.Timeout = 30 * time.Second
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = CacheBackendFile
	}

	switch cfg.Cache.Backend {
	case CacheBackendFile, CacheBackendRedis, CacheBackendNone:
	default:
		return nil, fmt.Errorf("load config %s: unknown cache backend %q", path, cfg.Cache.Backend)
	}

	return cfg, nil
}

// defaultConfigPath returns the XDG config file path (~/.config/stockpile/config.toml).
func defaultConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
