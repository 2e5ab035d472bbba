package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/matzehuels/pycompat/pkg/audit"
	"github.com/matzehuels/pycompat/pkg/errors"
	"github.com/matzehuels/pycompat/pkg/httputil"
	"github.com/matzehuels/pycompat/pkg/integrations/pypi"
	"github.com/matzehuels/pycompat/pkg/report"
)

const (
	// AppName is the application name used for config and cache directories.
	AppName = "pycompat"
	// ConfigFileName is the config file name without extension.
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "toml"
	// EnvPrefix prefixes environment overrides.
	EnvPrefix = "PYCOMPAT"
)

// Cache backends.
const (
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
)

// Config holds all pycompat settings.
type Config struct {
	PyVersion   string        `mapstructure:"pyversion"`
	Mode        string        `mapstructure:"mode"`
	Concurrency int           `mapstructure:"concurrency"`
	Style       string        `mapstructure:"style"`
	Timeout     time.Duration `mapstructure:"timeout"`

	Registry RegistryConfig `mapstructure:"registry"`
	Retry    RetryConfig    `mapstructure:"retry"`
	Cache    CacheConfig    `mapstructure:"cache"`
}

// RegistryConfig selects the PyPI JSON API root.
type RegistryConfig struct {
	URL string `mapstructure:"url"`
}

// RetryConfig controls retries of transient registry failures.
type RetryConfig struct {
	Attempts int           `mapstructure:"attempts"`
	Delay    time.Duration `mapstructure:"delay"`
}

// CacheConfig controls the registry response cache.
type CacheConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Backend  string        `mapstructure:"backend"`
	TTL      time.Duration `mapstructure:"ttl"`
	Dir      string        `mapstructure:"dir"`       // Empty means [CacheDir]
	RedisURL string        `mapstructure:"redis_url"` // Required for the redis backend
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Mode:    string(audit.DefaultMode),
		Style:   string(report.DefaultStyle),
		Timeout: 10 * time.Second,
		Registry: RegistryConfig{
			URL: pypi.DefaultBaseURL,
		},
		Retry: RetryConfig{
			Attempts: httputil.DefaultPolicy.Attempts,
			Delay:    httputil.DefaultPolicy.Delay,
		},
		Cache: CacheConfig{
			Enabled: true,
			Backend: CacheBackendFile,
			TTL:     24 * time.Hour,
		},
	}
}

// LoadOptions controls where configuration is read from.
type LoadOptions struct {
	// ConfigFilePath names an explicit config file. It must exist.
	ConfigFilePath string
	// ConfigDirPath overrides [ConfigDir] for the default file lookup.
	ConfigDirPath string
	// Flags, if set, are bound to their config keys (see [FlagKeys]).
	Flags *pflag.FlagSet
	// Fs is the filesystem config files are read from. Defaults to the OS.
	Fs afero.Fs
}

// FlagKeys maps command-line flag names to config keys.
var FlagKeys = map[string]string{
	"pyversion":   "pyversion",
	"concurrency": "concurrency",
	"style":       "style",
	"timeout":     "timeout",
	"registry":    "registry.url",
}

// Load resolves the configuration and returns it with the path of the config
// file that was read, or "" when none was.
func Load(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	fsys := opts.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("pyversion", defaults.PyVersion)
	v.SetDefault("mode", defaults.Mode)
	v.SetDefault("concurrency", defaults.Concurrency)
	v.SetDefault("style", defaults.Style)
	v.SetDefault("timeout", defaults.Timeout)
	v.SetDefault("registry.url", defaults.Registry.URL)
	v.SetDefault("retry.attempts", defaults.Retry.Attempts)
	v.SetDefault("retry.delay", defaults.Retry.Delay)
	v.SetDefault("cache.enabled", defaults.Cache.Enabled)
	v.SetDefault("cache.backend", defaults.Cache.Backend)
	v.SetDefault("cache.ttl", defaults.Cache.TTL)
	v.SetDefault("cache.dir", defaults.Cache.Dir)
	v.SetDefault("cache.redis_url", defaults.Cache.RedisURL)

	resolvedPath := ""
	if opts.ConfigFilePath != "" {
		exists, _ := afero.Exists(fsys, opts.ConfigFilePath)
		if !exists {
			return nil, "", errors.New(errors.ErrCodeInvalidConfig, "config file not found: %s", opts.ConfigFilePath)
		}
		resolvedPath = opts.ConfigFilePath
	} else {
		dir := opts.ConfigDirPath
		if dir == "" {
			var err error
			if dir, err = ConfigDir(); err != nil {
				return nil, "", err
			}
		}
		path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
		if exists, _ := afero.Exists(fsys, path); exists {
			resolvedPath = path
		}
	}
	if resolvedPath != "" {
		if err := loadTOMLIntoViper(fsys, v, resolvedPath); err != nil {
			return nil, "", err
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		for name, key := range FlagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, "", errors.Wrap(errors.ErrCodeInternal, err, "bind flag --%s", name)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	return &cfg, resolvedPath, nil
}

func loadTOMLIntoViper(fsys afero.Fs, v *viper.Viper, path string) error {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}

	var m map[string]any
	if err := toml.Unmarshal(data, &m); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if err := v.MergeConfigMap(m); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "merge %s", path)
	}
	return nil
}

// Validate checks that the configuration can drive a check run.
func (c *Config) Validate() error {
	if c.PyVersion == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "python version is required (--pyversion, %s_PYVERSION or pyversion in config)", EnvPrefix)
	}
	if err := audit.ValidateMode(audit.Mode(c.Mode)); err != nil {
		return errors.New(errors.ErrCodeInvalidConfig, "%s", errors.UserMessage(err))
	}
	if c.Concurrency < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "concurrency must be >= 0, got %d", c.Concurrency)
	}
	if err := report.ValidateStyle(report.Style(c.Style)); err != nil {
		return errors.New(errors.ErrCodeInvalidConfig, "%s", errors.UserMessage(err))
	}
	if c.Timeout <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "timeout must be positive, got %s", c.Timeout)
	}
	if err := errors.ValidateURL(c.Registry.URL); err != nil {
		return errors.New(errors.ErrCodeInvalidConfig, "registry.url: %s", errors.UserMessage(err))
	}
	if c.Retry.Attempts < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "retry.attempts must be >= 1, got %d", c.Retry.Attempts)
	}
	if c.Retry.Delay < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "retry.delay must not be negative, got %s", c.Retry.Delay)
	}
	if !c.Cache.Enabled {
		return nil
	}
	switch c.Cache.Backend {
	case CacheBackendFile:
	case CacheBackendRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_url is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "invalid cache.backend %q (must be file or redis)", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative, got %s", c.Cache.TTL)
	}
	return nil
}

// ConfigDir returns the configuration directory ($XDG_CONFIG_HOME/pycompat,
// falling back to ~/.config/pycompat).
func ConfigDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", AppName), nil
}

// CacheDir returns the cache directory using XDG standard (~/.cache/pycompat/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// ResolveCacheDir returns cache.dir, or [CacheDir] when it is empty.
func (c *Config) ResolveCacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	return CacheDir()
}
