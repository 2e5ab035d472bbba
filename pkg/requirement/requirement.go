package requirement

import (
	"path"
	"regexp"
	"strings"

	"github.com/matzehuels/pycompat/pkg/errors"
)

var (
	versionRE = regexp.MustCompile(`(\d+(\.\d+)+)`)
	wheelRE   = regexp.MustCompile(`^\r?\w*(\W(.*)\-\d)`)
)

const pinSeparator = "=="

// Strategy identifies how a manifest line is parsed.
type Strategy int

const (
	// StrategyPin parses "name==version" lines.
	StrategyPin Strategy = iota
	// StrategyWheel parses lines naming a wheel or sdist artifact.
	StrategyWheel
)

func (s Strategy) String() string {
	switch s {
	case StrategyPin:
		return "pin"
	case StrategyWheel:
		return "wheel"
	default:
		return "unknown"
	}
}

// Requirement is a package name and pinned version extracted from one line.
type Requirement struct {
	Name     string   // Package name as written (pin) or derived from the artifact (wheel)
	Version  string   // Dotted numeric version, never empty in a parsed Requirement
	Strategy Strategy // Strategy that produced this requirement
}

// String formats the requirement as a pin.
func (r Requirement) String() string {
	return r.Name + pinSeparator + r.Version
}

// DetectStrategy returns StrategyPin when line contains "==", StrategyWheel otherwise.
func DetectStrategy(line string) Strategy {
	if strings.Contains(line, pinSeparator) {
		return StrategyPin
	}
	return StrategyWheel
}

// Parse extracts a Requirement from a single manifest line.
func Parse(line string) (Requirement, error) {
	strategy := DetectStrategy(line)

	version, ok := Version(line)
	if !ok {
		return Requirement{}, errors.New(errors.ErrCodeInvalidRequirement, "no version found in %q", line)
	}

	var name string
	switch strategy {
	case StrategyPin:
		name, _, _ = strings.Cut(line, pinSeparator)
	case StrategyWheel:
		m := wheelRE.FindStringSubmatch(line)
		if m == nil {
			return Requirement{}, errors.New(errors.ErrCodeInvalidRequirement, "no package name found in %q", line)
		}
		name = path.Base(m[2])
	}

	if name == "" || name == "." || name == "/" {
		return Requirement{}, errors.New(errors.ErrCodeInvalidRequirement, "no package name found in %q", line)
	}

	return Requirement{Name: name, Version: version, Strategy: strategy}, nil
}

// Version returns the first dotted numeric token in s.
func Version(s string) (string, bool) {
	m := versionRE.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return m[1], true
}
