// Package report prints audit outcomes for humans.
//
// Two styles are supported. The table style prints a header, one padded row
// per checked requirement and a summary footer:
//
//	Project                                 | Compatibility | Compatible Versions
//	=======================================================================================
//	requests                                | Compatible    | [2.7, 3.6, 3.8]
//	flask                                   | Incompatible  | [3.6, 3.7]
//
// The sentence style prints one sentence per checked requirement:
//
//	requests 2.25.1 is compatible with Python 3.8 [2.7, 3.6, 3.8]
//	flask 1.1.2 may not be compatible with Python 3.8 [3.6, 3.7]
//
// Colors come from a lipgloss renderer bound to the output writer, so they are
// dropped automatically when the writer is not a terminal.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/pycompat/pkg/audit"
	"github.com/matzehuels/pycompat/pkg/errors"
)

// Style selects the report layout.
type Style string

const (
	StyleTable    Style = "table"
	StyleSentence Style = "sentence"
)

// DefaultStyle is the layout used when none is configured.
const DefaultStyle = StyleTable

// ValidStyles is the set of supported styles.
var ValidStyles = map[Style]bool{
	StyleTable:    true,
	StyleSentence: true,
}

// ValidateStyle returns an error if style is not supported.
func ValidateStyle(style Style) error {
	if !ValidStyles[style] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid style %q (must be table or sentence)", style)
	}
	return nil
}

const (
	nameWidth = 40
	ruleWidth = 87
)

var (
	colorGreen = lipgloss.Color("35")
	colorRed   = lipgloss.Color("167")
	colorDim   = lipgloss.Color("240")
)

// Reporter writes outcomes to w. It is not safe for concurrent use.
type Reporter struct {
	w      io.Writer
	style  Style
	target string

	ok  lipgloss.Style
	bad lipgloss.Style
	dim lipgloss.Style
}

// New creates a Reporter for the given style and target Python version.
// An empty style means [DefaultStyle].
func New(w io.Writer, style Style, target string) *Reporter {
	if style == "" {
		style = DefaultStyle
	}
	r := lipgloss.NewRenderer(w)
	return &Reporter{
		w:      w,
		style:  style,
		target: target,
		ok:     r.NewStyle().Foreground(colorGreen),
		bad:    r.NewStyle().Foreground(colorRed),
		dim:    r.NewStyle().Foreground(colorDim),
	}
}

// Header prints the column header. Only the table style has one.
func (r *Reporter) Header() {
	if r.style != StyleTable {
		return
	}
	fmt.Fprintln(r.w)
	fmt.Fprintf(r.w, "%-*s| Compatibility | Compatible Versions\n", nameWidth, "Project")
	fmt.Fprintln(r.w, strings.Repeat("=", ruleWidth))
}

// Outcome prints one outcome. Checked requirements get a verdict line and
// registry misses a not-found notice. Parse failures and failed fetches print
// nothing; they are reported through the logger.
func (r *Reporter) Outcome(o audit.Outcome) {
	switch {
	case o.Status == audit.StatusNotFound:
		fmt.Fprintf(r.w, "%s could not be found\n", o.Requirement.Name)
	case o.Status.Checked():
		if r.style == StyleSentence {
			r.sentence(o)
		} else {
			r.row(o)
		}
	}
}

func (r *Reporter) row(o audit.Outcome) {
	name := o.Result.Name
	pad := strings.Repeat(" ", max(nameWidth-len(name), 0))

	verdict := "| " + r.ok.Render("Compatible") + "    |"
	if !o.Result.Compatible {
		verdict = "| " + r.bad.Render("Incompatible") + "  |"
	}
	fmt.Fprintf(r.w, "%s%s%s %s\n", name, pad, verdict, FormatVersions(o.Result.Versions))
}

func (r *Reporter) sentence(o audit.Outcome) {
	res := o.Result
	var msg string
	if res.Compatible {
		msg = r.ok.Render(fmt.Sprintf("%s %s is compatible with Python %s", res.Name, res.Version, r.target))
	} else {
		msg = r.bad.Render(fmt.Sprintf("%s %s may not be compatible with Python %s", res.Name, res.Version, r.target))
	}
	fmt.Fprintf(r.w, "%s %s\n", msg, FormatVersions(res.Versions))
}

// Footer prints a blank line, the outcome counts and the elapsed time.
func (r *Reporter) Footer(s audit.Summary, elapsed time.Duration) {
	fmt.Fprintln(r.w)
	if r.style == StyleTable {
		fmt.Fprintln(r.w, r.dim.Render(FormatSummary(s)))
	}
	fmt.Fprintln(r.w, r.dim.Render(fmt.Sprintf("finished in %.2fs", elapsed.Seconds())))
}

// FormatVersions renders a sorted version list as "[2.7, 3.8]".
func FormatVersions(versions []string) string {
	return "[" + strings.Join(versions, ", ") + "]"
}

// FormatSummary renders counts as "2 compatible · 1 incompatible · 0 not found · 1 skipped".
func FormatSummary(s audit.Summary) string {
	return fmt.Sprintf("%d compatible · %d incompatible · %d not found · %d skipped",
		s.Compatible, s.Incompatible, s.NotFound, s.Skipped)
}
