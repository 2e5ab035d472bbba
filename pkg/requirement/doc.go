// Package requirement parses single manifest lines into pinned requirements.
//
// # Strategies
//
// A line is parsed with one of two strategies, chosen by [DetectStrategy]:
//
//   - [StrategyPin]: the line contains "==". The name is everything left of
//     the first "==", kept exactly as written.
//   - [StrategyWheel]: anything else, typically a path or URL naming a built
//     distribution. The name is the text between the first non-word
//     character and the last "-<digit>", reduced to its final path element.
//
// In both cases the version is the first dotted numeric token found anywhere
// in the line (e.g. "2.25.1").
//
// # Failures
//
// Lines without a dotted numeric token, or wheel lines without a name, fail
// with an [errors.ErrCodeInvalidRequirement] error. Blank lines, comments and
// editable installs are not special-cased and fail the same way; callers are
// expected to report and skip them.
//
// [errors.ErrCodeInvalidRequirement]: github.com/matzehuels/pycompat/pkg/errors.ErrCodeInvalidRequirement
package requirement
