package extraction

import (
	"strconv"

	"github.com/fyrsmithlabs/remedy/internal/faults"
)

// DiagnosticConfidence is fixed: diagnostic fields are structured tool
// output, not a heuristic match.
const DiagnosticConfidence = 0.9

// DiagnosticExtractor reads the first DiagnosticResult on the error chain.
type DiagnosticExtractor struct{}

func NewDiagnosticExtractor() *DiagnosticExtractor { return &DiagnosticExtractor{} }

func (DiagnosticExtractor) Name() string { return "diagnostic_info" }

func (DiagnosticExtractor) Supports() []faults.Category { return nil }

func (DiagnosticExtractor) Extract(err faults.Error) Parameters {
	diag := faults.DiagnosticOf(err)
	if diag == nil {
		return Parameters{}
	}

	values := map[string]string{
		KeyDiagnosticCode:  diag.DiagnosticCode,
		"original_message": diag.OriginalMessage,
	}
	if loc := diag.PrimaryLocation; loc != nil {
		values[KeyFilePath] = loc.File
		values["scope"] = loc.Scope
		if loc.Line > 0 {
			values[KeyLine] = strconv.Itoa(loc.Line)
		}
		if loc.Column > 0 {
			values[KeyColumn] = strconv.Itoa(loc.Column)
		}
	}
	if len(diag.SuggestedFixes) > 0 {
		values["suggested_fix"] = diag.SuggestedFixes[0]
		values["suggested_fix_count"] = strconv.Itoa(len(diag.SuggestedFixes))
	}
	return NewParameters(SourceDiagnosticInfo, DiagnosticConfidence, values)
}
