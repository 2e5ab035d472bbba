package config

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"

	"github.com/matzehuels/pycompat/pkg/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mode != "concurrent" {
		t.Errorf("expected default mode to be concurrent, got %s", cfg.Mode)
	}
	if cfg.Style != "table" {
		t.Errorf("expected default style to be table, got %s", cfg.Style)
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("expected default timeout to be 10s, got %s", cfg.Timeout)
	}
	if cfg.Registry.URL != "https://pypi.org/pypi" {
		t.Errorf("expected default registry to be pypi.org, got %s", cfg.Registry.URL)
	}
	if !cfg.Cache.Enabled || cfg.Cache.Backend != CacheBackendFile {
		t.Errorf("expected file cache enabled by default, got %+v", cfg.Cache)
	}
	if cfg.PyVersion != "" {
		t.Errorf("expected no default python version, got %q", cfg.PyVersion)
	}
}

// isolate points the default lookup at an empty directory and clears env
// overrides so the host environment cannot leak into a test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, k := range []string{"PYVERSION", "MODE", "CONCURRENCY", "STYLE", "TIMEOUT", "CACHE_BACKEND", "CACHE_ENABLED", "REGISTRY_URL"} {
		t.Setenv(EnvPrefix+"_"+k, "")
	}
	return dir
}

func TestLoad_ReturnsDefaultsWhenNoConfigFile(t *testing.T) {
	isolate(t)

	cfg, path, err := Load(context.Background(), LoadOptions{Fs: afero.NewMemMapFs()})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if path != "" {
		t.Errorf("resolved path = %q, want empty", path)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoad_ReadsConfigFile(t *testing.T) {
	isolate(t)
	fs := afero.NewMemMapFs()
	path := filepath.Join("/etc", "pycompat", "config.toml")
	afero.WriteFile(fs, path, []byte(`
pyversion = "3.8"
mode = "sequential"
timeout = "3s"

[cache]
backend = "redis"
redis_url = "redis://localhost:6379/0"
ttl = "1h"

[retry]
attempts = 5
`), 0o644)

	cfg, resolved, err := Load(context.Background(), LoadOptions{ConfigDirPath: "/etc/pycompat", Fs: fs})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if resolved != path {
		t.Errorf("resolved = %q, want %q", resolved, path)
	}
	if cfg.PyVersion != "3.8" || cfg.Mode != "sequential" || cfg.Timeout != 3*time.Second {
		t.Errorf("top-level values not loaded: %+v", cfg)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.RedisURL != "redis://localhost:6379/0" || cfg.Cache.TTL != time.Hour {
		t.Errorf("cache values not loaded: %+v", cfg.Cache)
	}
	if cfg.Retry.Attempts != 5 {
		t.Errorf("retry.attempts = %d, want 5", cfg.Retry.Attempts)
	}
	if cfg.Retry.Delay != time.Second {
		t.Errorf("retry.delay should keep its default, got %s", cfg.Retry.Delay)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	isolate(t)
	_, _, err := Load(context.Background(), LoadOptions{ConfigFilePath: "/nope.toml", Fs: afero.NewMemMapFs()})
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	isolate(t)
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "/c.toml", []byte("pyversion = "), 0o644)

	_, _, err := Load(context.Background(), LoadOptions{ConfigFilePath: "/c.toml", Fs: fs})
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}

func TestLoad_Precedence(t *testing.T) {
	isolate(t)
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "/c.toml", []byte("pyversion = \"2.7\"\nstyle = \"sentence\"\nconcurrency = 4\n"), 0o644)

	t.Setenv("PYCOMPAT_PYVERSION", "3.6")
	t.Setenv("PYCOMPAT_CONCURRENCY", "8")

	flags := pflag.NewFlagSet("check", pflag.ContinueOnError)
	flags.StringP("pyversion", "p", "", "")
	flags.Int("concurrency", 0, "")
	flags.String("style", "table", "")
	if err := flags.Parse([]string{"-p", "3.9"}); err != nil {
		t.Fatal(err)
	}

	cfg, _, err := Load(context.Background(), LoadOptions{ConfigFilePath: "/c.toml", Flags: flags, Fs: fs})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PyVersion != "3.9" {
		t.Errorf("pyversion = %q, want flag value 3.9", cfg.PyVersion)
	}
	if cfg.Concurrency != 8 {
		t.Errorf("concurrency = %d, want env value 8", cfg.Concurrency)
	}
	if cfg.Style != "sentence" {
		t.Errorf("style = %q, want file value over unchanged flag default", cfg.Style)
	}
}

func TestLoad_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := Load(ctx, LoadOptions{}); err == nil {
		t.Error("expected error for canceled context")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.PyVersion = "3.8"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"missing pyversion", func(c *Config) { c.PyVersion = "" }, true},
		{"bad mode", func(c *Config) { c.Mode = "parallel" }, true},
		{"negative concurrency", func(c *Config) { c.Concurrency = -1 }, true},
		{"bad style", func(c *Config) { c.Style = "json" }, true},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, true},
		{"bad registry", func(c *Config) { c.Registry.URL = "ftp://mirror" }, true},
		{"zero attempts", func(c *Config) { c.Retry.Attempts = 0 }, true},
		{"redis without url", func(c *Config) { c.Cache.Backend = CacheBackendRedis }, true},
		{"redis with url", func(c *Config) {
			c.Cache.Backend = CacheBackendRedis
			c.Cache.RedisURL = "redis://localhost:6379"
		}, false},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }, true},
		{"unknown backend ignored when disabled", func(c *Config) {
			c.Cache.Enabled = false
			c.Cache.Backend = "memcached"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("error code = %s, want INVALID_CONFIG", errors.GetCode(err))
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err := ConfigDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/xdg", "pycompat") {
		t.Errorf("ConfigDir = %q", dir)
	}
}

func TestResolveCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/cache")

	cfg := DefaultConfig()
	dir, err := cfg.ResolveCacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/cache", "pycompat") {
		t.Errorf("default cache dir = %q", dir)
	}

	cfg.Cache.Dir = "/var/cache/pc"
	if dir, _ := cfg.ResolveCacheDir(); dir != "/var/cache/pc" {
		t.Errorf("configured cache dir = %q", dir)
	}
}
