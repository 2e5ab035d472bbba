package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pycompat/pkg/audit"
	apperrors "github.com/matzehuels/pycompat/pkg/errors"
	"github.com/matzehuels/pycompat/pkg/manifest"
	"github.com/matzehuels/pycompat/pkg/report"
)

// ExitCodeIncompatible is returned with --fail-on-incompatible when any
// requirement may not support the target version.
const ExitCodeIncompatible = 2

// ExitError carries a process exit code out of a command.
type ExitError struct {
	Code int
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error.
func (e *ExitError) Unwrap() error { return e.Err }

// checkOpts holds check flags that do not map onto config keys.
type checkOpts struct {
	sequential         bool
	noCache            bool
	refresh            bool
	failOnIncompatible bool
}

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	var opts checkOpts

	cmd := &cobra.Command{
		Use:   "check <path>",
		Short: "Check a manifest against a Python version",
		Long: `Check every pinned requirement in a manifest against a target Python version.

Each requirement is looked up on PyPI and reported as compatible when its
"Programming Language :: Python :: X.Y" classifiers list the target exactly.

Supported manifests: requirements*.txt (or any text file, one requirement
per line), poetry.lock and conda environment.yml pip sections.`,
		Example: `  # Check against Python 3.8
  pycompat check requirements.txt -p 3.8

  # One request at a time, sentence output
  pycompat check requirements.txt -p 3.8 --sequential --style sentence

  # Fail CI when anything may be incompatible
  pycompat check requirements.txt -p 3.12 --fail-on-incompatible`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringP("pyversion", "p", "", "Python version to check against, i.e. X or X.Y")
	cmd.Flags().BoolVar(&opts.sequential, "sequential", false, "check one requirement at a time, in manifest order")
	cmd.Flags().Int("concurrency", 0, "maximum concurrent registry requests (0 = unlimited)")
	cmd.Flags().String("style", string(report.DefaultStyle), "report style: table or sentence")
	cmd.Flags().Duration("timeout", 10*time.Second, "per-request timeout")
	cmd.Flags().String("registry", "", "PyPI JSON API root (default https://pypi.org/pypi)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the response cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached responses and refetch")
	cmd.Flags().BoolVar(&opts.failOnIncompatible, "fail-on-incompatible", false, fmt.Sprintf("exit with status %d if any requirement may be incompatible", ExitCodeIncompatible))

	return cmd
}

func (c *CLI) runCheck(cmd *cobra.Command, path string, opts checkOpts) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, cfgPath, err := c.loadConfig(ctx, cmd)
	if err != nil {
		return userError(err)
	}
	if opts.sequential {
		cfg.Mode = string(audit.ModeSequential)
	}
	if opts.noCache {
		cfg.Cache.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return userError(err)
	}

	logger := c.Logger.With("run", uuid.NewString()[:8])
	ctx = withLogger(ctx, logger)
	logger.Debug("loaded config", "file", cfgPath, "mode", cfg.Mode, "cache", cfg.Cache.Enabled, "registry", cfg.Registry.URL)

	m, err := manifest.Open(c.Fs, path)
	if err != nil {
		return userError(err)
	}
	logger.Debug("read manifest", "path", m.Path, "type", m.Type, "entries", len(m.Entries))
	if len(m.Entries) == 0 {
		printWarning(c.Stderr, "No requirements found in %s", path)
	}

	backend, err := c.newCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	runner := audit.NewRunner(newClient(cfg, backend), logger)
	rep := report.New(c.Stdout, report.Style(cfg.Style), cfg.PyVersion)

	runOpts := audit.Options{
		Target:      cfg.PyVersion,
		Mode:        audit.Mode(cfg.Mode),
		Concurrency: cfg.Concurrency,
		Refresh:     opts.refresh,
	}

	prog := newProgress(logger)
	start := time.Now()
	rep.Header()

	var view progressReporter
	if runOpts.Mode == audit.ModeConcurrent && !c.verbose && c.isTerminal(c.Stderr) && len(m.Entries) > 0 {
		view = c.startView(c.Stderr, len(m.Entries))
		runOpts.OnProgress = view.Update
	}
	stopView := func() {
		if view != nil {
			view.Stop()
		}
	}

	outcomes, err := runner.Run(ctx, m.Entries, runOpts, func(o audit.Outcome) {
		stopView()
		rep.Outcome(o)
	})
	stopView()
	if err != nil {
		return err
	}

	summary := audit.Summarize(outcomes)
	rep.Footer(summary, time.Since(start))
	prog.done(fmt.Sprintf("Checked %d requirements", summary.Total()))

	if opts.failOnIncompatible && audit.AnyIncompatible(outcomes) {
		return &ExitError{
			Code: ExitCodeIncompatible,
			Err:  fmt.Errorf("%d requirement(s) may not be compatible with Python %s", summary.Incompatible, cfg.PyVersion),
		}
	}
	return nil
}

// userError strips the code prefix from coded errors so the message reads
// as plain text on the terminal.
func userError(err error) error {
	var e *apperrors.Error
	if !errors.As(err, &e) {
		return err
	}
	msg := e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return &ExitError{Code: 1, Err: errors.New(msg)}
}
