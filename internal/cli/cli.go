package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mydressline-hue/stockpile/pkg/buildinfo"
	"github.com/mydressline-hue/stockpile/pkg/cache"
	"github.com/mydressline-hue/stockpile/pkg/classify"
	"github.com/mydressline-hue/stockpile/pkg/colors"
	"github.com/mydressline-hue/stockpile/pkg/pipeline"
	"github.com/mydressline-hue/stockpile/pkg/registry"
)

// appName is the application name used for directories and display.
const appName = "stockpile"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Stockpile normalizes vendor inventory files into canonical variants",
		Long:         `Stockpile is a CLI tool for importing vendor inventory files of any layout, classifying their structure, and normalizing them into one canonical variant list with corrected colors, expanded sizes, and reconciled stock.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to the config file (default: "+filepath.Join("~", ".config", appName, "config.toml")+")")

	root.AddCommand(c.importCommand())
	root.AddCommand(c.classifyCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.registryCommand())

	return root
}

// config loads the TOML config on first use and memoizes it.
func (c *CLI) config() (*Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := LoadConfig(c.configPath)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// newRunner builds a pipeline runner from the loaded config.
// The returned cleanup closes the cache and registry connections.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, func(), error) {
	cfg, err := c.config()
	if err != nil {
		return nil, nil, err
	}

	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, nil, err
	}

	classifier := classify.NewClient(cfg.Classifier.URL,
		classify.WithLogger(c.Logger),
		classify.WithTimeout(cfg.Classifier.Timeout),
	)

	runner := pipeline.NewRunner(classifier, store, c.Logger)
	cleanup := func() { store.Close() }

	if cfg.ColorService.URL != "" {
		runner.Suggester = colors.NewClient(cfg.ColorService.URL,
			colors.WithLogger(c.Logger),
			colors.WithTimeout(cfg.ColorService.Timeout),
		)
	}

	if cfg.Registry.URI != "" {
		mongoStore, err := registry.NewMongoStore(ctx, cfg.Registry.URI, cfg.Registry.Database)
		if err != nil {
			store.Close()
			return nil, nil, err
		}
		runner.Registry = registry.New(mongoStore, c.Logger)
		cleanup = func() {
			mongoStore.Close(context.Background())
			store.Close()
		}
	}

	return runner, cleanup, nil
}

// newCache builds the cache backend selected by the config.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	if noCache {
		return cache.NewNullCache(), nil
	}

	switch cfg.Cache.Backend {
	case CacheBackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	case CacheBackendNone:
		return cache.NewNullCache(), nil
	default:
		dir := cfg.Cache.Dir
		if dir == "" {
			dir, err = cacheDir()
			if err != nil {
				return cache.NewNullCache(), nil
			}
		}
		return cache.NewFileCache(dir)
	}
}

// cacheDir returns the cache directory using XDG standard (~/.cache/stockpile/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
