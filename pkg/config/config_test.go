package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	apperr "github.com/matzehuels/graphview/pkg/errors"
	"github.com/matzehuels/graphview/pkg/server"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
log_level = "debug"

[style]
with_arrow = true

[style.schema.vertices.person]
color = "#5c73e6"
display_fields = ["name"]

[parallel]
poly_spacing = 40

[cache]
backend = "redis"
session_ttl = "12h"

[cache.redis]
addr = "redis:6379"

[server]
timeout = "10s"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "debug" || !cfg.Style.WithArrow {
		t.Errorf("top-level values = %q %v", cfg.LogLevel, cfg.Style.WithArrow)
	}
	if got := cfg.Style.Schema.Vertices["person"].Color; got != "#5c73e6" {
		t.Errorf("person color = %q", got)
	}
	if cfg.Parallel.PolySpacing != 40 || cfg.Parallel.LoopSpacing != 10 {
		t.Errorf("parallel = %+v, want loop spacing default kept", cfg.Parallel)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.SessionTTL != 12*time.Hour {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Cache.Redis.Addr != "redis:6379" || cfg.Cache.Redis.Prefix != "graphview:" {
		t.Errorf("redis = %+v", cfg.Cache.Redis)
	}
	if cfg.Server.Timeout != 10*time.Second || cfg.Server.Addr != server.DefaultAddr {
		t.Errorf("server = %+v", cfg.Server)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"UnknownKey", "colour = \"red\"\n"},
		{"BadBackend", "[cache]\nbackend = \"mongo\"\n"},
		{"Syntax", "[cache\n"},
		{"NegativeSpacing", "[parallel]\nloop_spacing = -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if !apperr.Is(err, apperr.ErrCodeInvalidConfig) {
				t.Errorf("err = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("explicit missing file should be an error")
	}

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") = %v", err)
	}
	if cfg.Cache.Backend != BackendFile || cfg.Parallel.PolySpacing != 50 {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}
