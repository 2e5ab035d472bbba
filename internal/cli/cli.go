package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pycompat/internal/config"
	"github.com/matzehuels/pycompat/pkg/buildinfo"
	"github.com/matzehuels/pycompat/pkg/cache"
	"github.com/matzehuels/pycompat/pkg/httputil"
	"github.com/matzehuels/pycompat/pkg/integrations"
	"github.com/matzehuels/pycompat/pkg/integrations/pypi"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "pycompat"

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
	Fs     afero.Fs  // Filesystem manifests and config files are read from
	Stdout io.Writer // Report output
	Stderr io.Writer // Logs and the progress view

	configPath string
	verbose    bool

	isTerminal func(io.Writer) bool
	startView  func(w io.Writer, total int) progressReporter
}

// New creates a new CLI instance writing reports to stdout and logs to stderr.
func New(stdout, stderr io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(stderr, level),
		Fs:     afero.NewOsFs(),
		Stdout: stdout,
		Stderr: stderr,

		isTerminal: interactive,
		startView: func(w io.Writer, total int) progressReporter {
			return startProgressView(w, total)
		},
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "pycompat checks pinned requirements against a Python version",
		Long: `pycompat reads a requirements file, looks up every pinned release on PyPI and
reports whether its trove classifiers declare support for a target Python version.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
				registerLogHooks(c.Logger)
			}
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.Stdout)
	root.SetErr(c.Stderr)

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/pycompat/config.toml)")

	root.AddCommand(c.checkCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Factories
// =============================================================================

// loadConfig resolves configuration for the current invocation.
func (c *CLI) loadConfig(ctx context.Context, cmd *cobra.Command) (*config.Config, string, error) {
	return config.Load(ctx, config.LoadOptions{
		ConfigFilePath: c.configPath,
		Flags:          cmd.Flags(),
		Fs:             c.Fs,
	})
}

// newCache opens the configured cache backend. A disabled cache is a
// NullCache; an unusable file cache directory also degrades to one.
func (c *CLI) newCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	if !cfg.Cache.Enabled {
		return cache.NewNullCache(), nil
	}
	if cfg.Cache.Backend == config.CacheBackendRedis {
		return cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
	}
	dir, err := cfg.ResolveCacheDir()
	if err != nil {
		loggerFromContext(ctx).Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCacheFs(c.Fs, dir)
	if err != nil {
		loggerFromContext(ctx).Warn("cache disabled", "dir", dir, "err", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// newClient creates a PyPI client configured from cfg. The connection pool
// is bounded by the concurrency cap so in-flight requests never exceed it.
func newClient(cfg *config.Config, backend cache.Cache) *pypi.Client {
	client := pypi.NewClient(backend, cfg.Cache.TTL,
		integrations.WithHTTPClient(integrations.NewHTTPClient(cfg.Timeout, cfg.Concurrency)),
		integrations.WithRetryPolicy(httputil.Policy{Attempts: cfg.Retry.Attempts, Delay: cfg.Retry.Delay}),
	)
	client.SetBaseURL(cfg.Registry.URL)
	return client
}

// interactive reports whether w is a terminal.
func interactive(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
