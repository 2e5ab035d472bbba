package audit

import (
	"github.com/samber/lo"

	"github.com/matzehuels/pycompat/pkg/compat"
	"github.com/matzehuels/pycompat/pkg/manifest"
	"github.com/matzehuels/pycompat/pkg/requirement"
)

// Status is the final state of one manifest entry.
type Status int

const (
	StatusCompatible   Status = iota // Target is declared
	StatusIncompatible               // Target is not declared
	StatusNotFound                   // Registry has no such project or release
	StatusParseFailed                // Entry has no recognisable name or version
	StatusFailed                     // Fetch failed for another reason
)

func (s Status) String() string {
	switch s {
	case StatusCompatible:
		return "compatible"
	case StatusIncompatible:
		return "incompatible"
	case StatusNotFound:
		return "not_found"
	case StatusParseFailed:
		return "parse_failed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Checked reports whether the entry reached evaluation.
func (s Status) Checked() bool {
	return s == StatusCompatible || s == StatusIncompatible
}

// Outcome is the result of processing one manifest entry.
//
// Requirement is set unless Status is StatusParseFailed. Result is set only
// when Status.Checked() is true. Err is set for every other status.
type Outcome struct {
	Entry       manifest.Entry
	Requirement requirement.Requirement
	Result      compat.Result
	Status      Status
	Err         error
}

// Summary counts outcomes by status.
type Summary struct {
	Compatible   int
	Incompatible int
	NotFound     int
	Skipped      int // Parse failures and failed fetches
}

// Total returns the number of outcomes counted.
func (s Summary) Total() int {
	return s.Compatible + s.Incompatible + s.NotFound + s.Skipped
}

// Summarize counts outcomes by status.
func Summarize(outcomes []Outcome) Summary {
	counts := lo.CountValuesBy(outcomes, func(o Outcome) Status { return o.Status })
	return Summary{
		Compatible:   counts[StatusCompatible],
		Incompatible: counts[StatusIncompatible],
		NotFound:     counts[StatusNotFound],
		Skipped:      counts[StatusParseFailed] + counts[StatusFailed],
	}
}

// AnyIncompatible reports whether any outcome is StatusIncompatible.
func AnyIncompatible(outcomes []Outcome) bool {
	return lo.ContainsBy(outcomes, func(o Outcome) bool { return o.Status == StatusIncompatible })
}
