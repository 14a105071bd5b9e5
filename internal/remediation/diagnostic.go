package remediation

import (
	"strings"

	"github.com/fyrsmithlabs/remedy/internal/extraction"
	"github.com/fyrsmithlabs/remedy/internal/faults"
	"github.com/fyrsmithlabs/remedy/internal/fix"
)

// DiagnosticSuggestionGenerator applies the first fix suggested by the tool
// that produced an embedded diagnostic. Confidence is 0.85 when the
// diagnostic carries a primary location and 0.6 without one, since the
// replacement then has no anchor.
type DiagnosticSuggestionGenerator struct{}

func (*DiagnosticSuggestionGenerator) Name() string { return "diagnostic_suggestion" }

func (g *DiagnosticSuggestionGenerator) Generate(err faults.Error, params extraction.Parameters, source string) *fix.Autocorrection {
	diag := faults.DiagnosticOf(err)
	if diag == nil || len(diag.SuggestedFixes) == 0 {
		return nil
	}
	suggestion := strings.TrimSpace(diag.SuggestedFixes[0])
	if suggestion == "" {
		return nil
	}

	const description = "Apply fix suggested by diagnostic tool"
	opts := []fix.Option{fix.WithTargetCode(diag.DiagnosticCode)}

	loc := diag.PrimaryLocation
	if loc == nil || loc.File == "" {
		opts = append(opts,
			fix.WithDetails(&fix.SuggestCodeChange{Snippet: suggestion, Explanation: diag.OriginalMessage}),
			fix.WithID(fix.DeriveID(g.Name(), diag.DiagnosticCode, suggestion)),
		)
		return fix.New(description, fix.TypeTextReplacement, 0.6, opts...)
	}

	d := &fix.TextReplace{
		File:        loc.File,
		LineStart:   loc.Line,
		ColumnStart: loc.Column,
		LineEnd:     loc.Line,
		Replacement: suggestion,
	}
	if line, ok := findLine(source, loc.Line, func(string) bool { return true }); ok && line.Number == loc.Line {
		d.Original = line.Text
		d.ColumnStart = 1
		d.ColumnEnd = len(line.Text) + 1
		replacement := indentOf(line.Text) + suggestion
		d.Replacement = replacement
		opts = append(opts, fix.WithDiff(fix.UnifiedDiff(loc.File, source, fix.ReplaceLine(source, loc.Line, replacement, false))))
	} else {
		opts = append(opts, fix.WithDiff(fix.LineDiff("", suggestion)))
	}
	opts = append(opts,
		fix.WithDetails(d),
		fix.WithID(fix.DeriveID(g.Name(), diag.DiagnosticCode, loc.File, suggestion)),
	)
	return fix.New(description, fix.TypeTextReplacement, 0.85, opts...)
}
