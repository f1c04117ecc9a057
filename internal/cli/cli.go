// Package cli implements the graphview command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphview/pkg/cache"
	"github.com/matzehuels/graphview/pkg/config"
	"github.com/matzehuels/graphview/pkg/explore"
	"github.com/matzehuels/graphview/pkg/normalize"
	"github.com/matzehuels/graphview/pkg/source/neo4j"
	"github.com/matzehuels/graphview/pkg/style"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "graphview"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	out io.Writer // command output; log lines go to Logger

	configPath string
	redisAddr  string
	noCache    bool
}

// New creates a CLI that logs to w at the given level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetOutput redirects command output, which is stdout by default.
func (c *CLI) SetOutput(w io.Writer) { c.out = w }

// loadConfig reads the config file and applies flag overrides.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.redisAddr != "" {
		cfg.Cache.Backend = config.BackendRedis
		cfg.Cache.Redis.Addr = c.redisAddr
	}
	if c.noCache {
		cfg.Cache.Backend = config.BackendNone
	}
	if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil && c.Logger.GetLevel() > lvl {
		c.Logger.SetLevel(lvl)
	}
	c.Config = cfg
	return nil
}

// =============================================================================
// Factories
// =============================================================================

// newNormalizer builds a normalizer from the style and parallel sections.
func (c *CLI) newNormalizer() *normalize.Normalizer {
	return normalize.New(style.NewResolver(c.Config.Style), c.Config.Parallel)
}

// newCache opens the configured cache backend.
func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	switch c.Config.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, c.Config.Cache.Redis)
		if err != nil {
			return nil, err
		}
		c.Logger.Debug("using redis cache", "addr", c.Config.Cache.Redis.Addr)
		return rc, nil
	default:
		dir, err := c.fileCacheDir()
		if err != nil {
			return nil, err
		}
		c.Logger.Debug("using file cache", "dir", dir)
		return cache.NewFileCache(dir)
	}
}

// newRunner creates a session runner over the configured cache. The
// returned close function releases the cache.
func (c *CLI) newRunner(ctx context.Context) (*explore.Runner, func() error, error) {
	store, err := c.newCache(ctx)
	if err != nil {
		return nil, nil, err
	}
	st := explore.NewCacheStore(store, nil, c.Config.Cache.SessionTTL)
	return explore.NewRunner(st, c.newNormalizer(), c.Logger), store.Close, nil
}

// openSource connects to the configured Neo4j database. Neighbor fetches
// are cached in the same backend as sessions.
func (c *CLI) openSource(ctx context.Context) (*neo4j.Source, error) {
	if c.Config.Neo4j.URI == "" {
		return nil, fmt.Errorf("no neo4j.uri configured")
	}
	src, err := neo4j.Open(ctx, c.Config.Neo4j)
	if err != nil {
		return nil, err
	}
	store, err := c.newCache(ctx)
	if err != nil {
		_ = src.Close(ctx)
		return nil, err
	}
	return src.WithCache(store, nil), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/graphview/).
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
