// Package audit runs the per-requirement compatibility check over a manifest.
//
// Each manifest entry goes through the same stages:
//
//  1. Parse: extract name and version with the requirement package
//  2. Fetch: load the release metadata from the registry
//  3. Evaluate: test the release classifiers against the target version
//
// The outcome of every entry is reported through an emit callback, whether
// it was checked, missing from the registry, unparseable, or failed. A single
// bad entry never stops the run; only context cancellation does.
//
// # Modes
//
// [ModeSequential] handles one entry at a time and emits each outcome as soon
// as it is known, so output follows manifest order.
//
// [ModeConcurrent] parses every entry up front, then fetches all releases at
// once on an errgroup. Outcomes are collected in completion order and emitted
// after the last fetch returns.
//
// # Usage
//
//	runner := audit.NewRunner(pypiClient, logger)
//	outcomes, err := runner.Run(ctx, m.Entries, audit.Options{
//	    Target: "3.8",
//	    Mode:   audit.ModeConcurrent,
//	}, reporter.Outcome)
package audit

import (
	"github.com/matzehuels/pycompat/pkg/errors"
)

// Mode selects how entries are scheduled.
type Mode string

const (
	// ModeConcurrent fetches all releases at once.
	ModeConcurrent Mode = "concurrent"
	// ModeSequential checks one entry at a time in manifest order.
	ModeSequential Mode = "sequential"
)

// DefaultMode is used when Options.Mode is empty.
const DefaultMode = ModeConcurrent

// ValidModes is the set of supported modes.
var ValidModes = map[Mode]bool{
	ModeConcurrent: true,
	ModeSequential: true,
}

// ValidateMode returns an error if mode is not supported.
func ValidateMode(mode Mode) error {
	if !ValidModes[mode] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid mode %q (must be concurrent or sequential)", mode)
	}
	return nil
}

// Options configures a run.
type Options struct {
	// Target is the Python version to check against, e.g. "3.8". Required.
	Target string

	// Mode selects sequential or concurrent scheduling. Defaults to concurrent.
	Mode Mode

	// Concurrency caps in-flight fetches in concurrent mode. 0 means no cap.
	Concurrency int

	// Refresh bypasses cached registry responses.
	Refresh bool

	// OnProgress, if set, is called after each entry completes with the
	// number of completed entries and the total. In concurrent mode it is
	// called from worker goroutines, one at a time, with done increasing.
	OnProgress func(done, total int)
}

// ValidateAndSetDefaults checks required fields and fills in defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Target == "" {
		return errors.New(errors.ErrCodeInvalidInput, "target python version is required")
	}
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	if err := ValidateMode(o.Mode); err != nil {
		return err
	}
	if o.Concurrency < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "concurrency must be >= 0, got %d", o.Concurrency)
	}
	return nil
}
