package audit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/pycompat/pkg/compat"
	"github.com/matzehuels/pycompat/pkg/integrations"
	"github.com/matzehuels/pycompat/pkg/integrations/pypi"
	"github.com/matzehuels/pycompat/pkg/manifest"
	"github.com/matzehuels/pycompat/pkg/observability"
	"github.com/matzehuels/pycompat/pkg/requirement"
)

// Fetcher loads release metadata. [pypi.Client] implements it.
type Fetcher interface {
	FetchRelease(ctx context.Context, name, version string, refresh bool) (*pypi.Release, error)
}

// Runner checks manifest entries against a registry.
//
// The Runner holds no per-run state. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Fetcher Fetcher
	Logger  *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(f Fetcher, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Fetcher: f, Logger: logger}
}

// Run processes entries and calls emit once per entry.
//
// It returns every outcome in emit order. The returned error is non-nil only
// for invalid options or when ctx is cancelled; per-entry failures are
// reported as outcomes.
func (r *Runner) Run(ctx context.Context, entries []manifest.Entry, opts Options, emit func(Outcome)) ([]Outcome, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if emit == nil {
		emit = func(Outcome) {}
	}

	hooks := observability.Audit()
	hooks.OnRunStart(ctx, string(opts.Mode), len(entries))
	start := time.Now()
	defer func() {
		hooks.OnRunComplete(ctx, string(opts.Mode), len(entries), time.Since(start))
	}()

	if opts.Mode == ModeSequential {
		return r.runSequential(ctx, entries, opts, emit)
	}
	return r.runConcurrent(ctx, entries, opts, emit)
}

func (r *Runner) runSequential(ctx context.Context, entries []manifest.Entry, opts Options, emit func(Outcome)) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(entries))
	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		var o Outcome
		if req, err := requirement.Parse(entry.Text); err != nil {
			o = r.parseFailed(entry, err)
		} else {
			o = r.check(ctx, entry, req, opts)
		}
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		emit(o)
		outcomes = append(outcomes, o)
		if opts.OnProgress != nil {
			opts.OnProgress(i+1, len(entries))
		}
	}
	return outcomes, nil
}

func (r *Runner) runConcurrent(ctx context.Context, entries []manifest.Entry, opts Options, emit func(Outcome)) ([]Outcome, error) {
	var (
		mu       sync.Mutex
		outcomes = make([]Outcome, 0, len(entries))
	)
	// OnProgress runs under mu so counts arrive in increasing order.
	record := func(o Outcome) {
		mu.Lock()
		defer mu.Unlock()
		outcomes = append(outcomes, o)
		if opts.OnProgress != nil {
			opts.OnProgress(len(outcomes), len(entries))
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	if opts.Concurrency > 0 {
		g.SetLimit(opts.Concurrency)
	}

	for _, entry := range entries {
		req, err := requirement.Parse(entry.Text)
		if err != nil {
			record(r.parseFailed(entry, err))
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			o := r.check(gctx, entry, req, opts)
			if err := gctx.Err(); err != nil {
				return err
			}
			record(o)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	for _, o := range outcomes {
		emit(o)
	}
	return outcomes, nil
}

func (r *Runner) parseFailed(entry manifest.Entry, err error) Outcome {
	r.Logger.Warn("skipping unparseable requirement", "line", entry.Line, "text", entry.Text, "err", err)
	return Outcome{Entry: entry, Status: StatusParseFailed, Err: err}
}

func (r *Runner) check(ctx context.Context, entry manifest.Entry, req requirement.Requirement, opts Options) Outcome {
	hooks := observability.Audit()
	hooks.OnCheckStart(ctx, req.Name, req.Version)
	start := time.Now()

	o := Outcome{Entry: entry, Requirement: req}
	rel, err := r.Fetcher.FetchRelease(ctx, req.Name, req.Version, opts.Refresh)
	switch {
	case errors.Is(err, integrations.ErrNotFound):
		o.Status, o.Err = StatusNotFound, err
	case err != nil:
		o.Status, o.Err = StatusFailed, err
		if ctx.Err() == nil {
			r.Logger.Error("skipping requirement", "package", req.Name, "version", req.Version, "line", entry.Line, "err", err)
		}
	default:
		r.Logger.Debug("fetched release", "package", rel.Name, "version", rel.Version, "requires_python", rel.RequiresPython)
		o.Result = compat.Evaluate(req, rel.Classifiers, opts.Target)
		o.Status = StatusIncompatible
		if o.Result.Compatible {
			o.Status = StatusCompatible
		}
	}

	hooks.OnCheckComplete(ctx, req.Name, req.Version, o.Status.String(), time.Since(start), o.Err)
	return o
}
