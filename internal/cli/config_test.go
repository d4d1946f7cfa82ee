package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[classifier]
url = "http://classifier.internal/classify"
timeout = "10s"

[color_service]
url = "http://colors.internal/suggest"

[cache]
backend = "redis"
[cache.redis]
addr = "localhost:6379"
db = 2

[registry]
uri = "mongodb://localhost:27017"
database = "inventory"

[expansion]
triggerThreshold = 2
down = 1
up = 2

[[expansion.tiers]]
minPrice = "200"
down = 3
up = 3

[reconcile]
futureStockOffsetDays = -7
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Classifier.URL != "http://classifier.internal/classify" {
		t.Errorf("Classifier.URL = %q", cfg.Classifier.URL)
	}
	if cfg.Classifier.Timeout != 10*time.Second {
		t.Errorf("Classifier.Timeout = %v, want 10s", cfg.Classifier.Timeout)
	}
	if cfg.ColorService.URL != "http://colors.internal/suggest" {
		t.Errorf("ColorService.URL = %q", cfg.ColorService.URL)
	}
	// Unset timeout falls back to the default
	if cfg.ColorService.Timeout != 30*time.Second {
		t.Errorf("ColorService.Timeout = %v, want 30s", cfg.ColorService.Timeout)
	}
	if cfg.Cache.Backend != CacheBackendRedis {
		t.Errorf("Cache.Backend = %q", cfg.Cache.Backend)
	}
	if cfg.Cache.Redis.Addr != "localhost:6379" || cfg.Cache.Redis.DB != 2 {
		t.Errorf("Cache.Redis = %+v", cfg.Cache.Redis)
	}
	if cfg.Registry.URI != "mongodb://localhost:27017" || cfg.Registry.Database != "inventory" {
		t.Errorf("Registry = %+v", cfg.Registry)
	}
	if cfg.Expansion.TriggerThreshold != 2 || cfg.Expansion.Down != 1 || cfg.Expansion.Up != 2 {
		t.Errorf("Expansion = %+v", cfg.Expansion)
	}
	if len(cfg.Expansion.Tiers) != 1 {
		t.Fatalf("len(Tiers) = %d, want 1", len(cfg.Expansion.Tiers))
	}
	if !cfg.Expansion.Tiers[0].MinPrice.Equal(decimal.NewFromInt(200)) {
		t.Errorf("Tiers[0].MinPrice = %v, want 200", cfg.Expansion.Tiers[0].MinPrice)
	}
	if cfg.Reconcile.FutureStockOffsetDays != -7 {
		t.Errorf("FutureStockOffsetDays = %d, want -7", cfg.Reconcile.FutureStockOffsetDays)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Cache.Backend != CacheBackendFile {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, CacheBackendFile)
	}
	if cfg.Classifier.Timeout != 30*time.Second {
		t.Errorf("Classifier.Timeout = %v, want 30s", cfg.Classifier.Timeout)
	}
	if cfg.Registry.URI != "" {
		t.Errorf("Registry.URI = %q, want empty", cfg.Registry.URI)
	}
}

func TestLoadConfigUnknownKey(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "[classifier]\nurll = \"typo\"\n"))
	if err == nil {
		t.Fatal("LoadConfig() should reject unknown keys")
	}
	if !strings.Contains(err.Error(), "unknown key") {
		t.Errorf("error = %v, want mention of unknown key", err)
	}
}

func TestLoadConfigUnknownBackend(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "[cache]\nbackend = \"memcached\"\n"))
	if err == nil {
		t.Fatal("LoadConfig() should reject unknown cache backends")
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("LoadConfig() should fail for a missing explicit path")
	}
}
