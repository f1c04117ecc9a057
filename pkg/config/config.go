// Package config loads graphview's TOML configuration file.
//
// Every section is optional; missing keys keep their defaults. Example:
//
//	log_level = "debug"
//
//	[style]
//	default_color = "#dddddd"
//	with_arrow = true
//
//	[style.schema.vertices.person]
//	color = "#5c73e6"
//	icon = "user"
//	display_fields = ["name"]
//
//	[parallel]
//	poly_spacing = 40
//
//	[cache]
//	backend = "redis"
//	session_ttl = "12h"
//
//	[cache.redis]
//	addr = "localhost:6379"
//	prefix = "gv:"
//
//	[server]
//	addr = ":8080"
//	timeout = "10s"
//
//	[neo4j]
//	uri = "neo4j://localhost:7687"
//	username = "neo4j"
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/graphview/pkg/cache"
	apperr "github.com/matzehuels/graphview/pkg/errors"
	"github.com/matzehuels/graphview/pkg/parallel"
	"github.com/matzehuels/graphview/pkg/server"
	"github.com/matzehuels/graphview/pkg/source/neo4j"
	"github.com/matzehuels/graphview/pkg/style"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the complete application configuration.
type Config struct {
	LogLevel string           `toml:"log_level"`
	Style    style.Config     `toml:"style"`
	Parallel parallel.Options `toml:"parallel"`
	Cache    Cache            `toml:"cache"`
	Server   server.Config    `toml:"server"`
	Neo4j    neo4j.Config     `toml:"neo4j"`
}

// Cache selects and configures the session store backend.
type Cache struct {
	Backend    string            `toml:"backend"`
	Dir        string            `toml:"dir"` // file backend; empty means the user cache dir
	SessionTTL time.Duration     `toml:"session_ttl"`
	Redis      cache.RedisConfig `toml:"redis"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		Parallel: parallel.DefaultOptions(),
		Cache: Cache{
			Backend:    BackendFile,
			SessionTTL: cache.SnapshotTTL,
			Redis:      cache.RedisConfig{Addr: "localhost:6379", Prefix: "graphview:"},
		},
		Server: server.Config{
			Addr:    server.DefaultAddr,
			Timeout: server.DefaultTimeout,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/graphview/config.toml (or the
// platform equivalent).
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "graphview", "config.toml")
}

// Load reads a configuration file over the defaults. An empty path or a
// missing file at DefaultPath yields the defaults; a missing file that was
// named explicitly is an error. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
		if path == "" {
			return cfg, nil
		}
	}

	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return Default(), nil
	}
	if err != nil {
		return Config{}, apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, apperr.New(apperr.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

// Validate checks values that TOML decoding cannot.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return apperr.New(apperr.ErrCodeInvalidConfig, "cache.backend must be file, redis or none, got %q", c.Cache.Backend)
	}
	if c.Cache.SessionTTL < 0 {
		return apperr.New(apperr.ErrCodeInvalidConfig, "cache.session_ttl must not be negative")
	}
	if c.Parallel.PolySpacing < 0 || c.Parallel.LoopSpacing < 0 {
		return apperr.New(apperr.ErrCodeInvalidConfig, "parallel spacings must not be negative")
	}
	if c.Cache.Backend == BackendRedis && c.Cache.Redis.Addr == "" {
		return apperr.New(apperr.ErrCodeInvalidConfig, "cache.redis.addr is required for the redis backend")
	}
	return nil
}
