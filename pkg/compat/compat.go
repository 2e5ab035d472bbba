// Package compat decides whether a release declares support for a Python
// version through its trove classifiers.
//
// Only classifiers containing [ClassifierPrefix] are considered, and each
// contributes its last whitespace-delimited token:
//
//	"Programming Language :: Python :: 3.8"          -> "3.8"
//	"Programming Language :: Python :: 3 :: Only"    -> "Only"
//
// Matching is exact string membership. A target of "3" only matches a
// release that lists the bare "Programming Language :: Python :: 3"
// classifier; it does not match "3.8".
package compat

import (
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/matzehuels/pycompat/pkg/requirement"
)

// ClassifierPrefix marks the classifiers that declare Python versions.
const ClassifierPrefix = "Programming Language :: Python :: "

// Set is a set of declared version tokens such as "3.8".
type Set map[string]struct{}

// Versions builds the set of version tokens declared by classifiers.
func Versions(classifiers []string) Set {
	tokens := lo.FilterMap(classifiers, func(c string, _ int) (string, bool) {
		if !strings.Contains(c, ClassifierPrefix) {
			return "", false
		}
		fields := strings.Fields(c)
		return fields[len(fields)-1], true
	})
	return lo.SliceToMap(tokens, func(t string) (string, struct{}) { return t, struct{}{} })
}

// Has reports whether v is in the set.
func (s Set) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Sorted returns the tokens in lexical order.
func (s Set) Sorted() []string {
	keys := lo.Keys(s)
	slices.Sort(keys)
	return keys
}

// Result is the verdict for one requirement.
type Result struct {
	Name       string   // Requirement name as parsed
	Version    string   // Requirement version
	Target     string   // Python version checked against
	Compatible bool     // Target is among the declared versions
	Versions   []string // Declared versions, sorted
}

// Evaluate checks req's classifiers against target.
func Evaluate(req requirement.Requirement, classifiers []string, target string) Result {
	set := Versions(classifiers)
	return Result{
		Name:       req.Name,
		Version:    req.Version,
		Target:     target,
		Compatible: set.Has(target),
		Versions:   set.Sorted(),
	}
}
