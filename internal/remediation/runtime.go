package remediation

import (
	"regexp"
	"strings"

	"github.com/fyrsmithlabs/remedy/internal/extraction"
	"github.com/fyrsmithlabs/remedy/internal/faults"
	"github.com/fyrsmithlabs/remedy/internal/fix"
)

var (
	unwrapOnNoneRe = regexp.MustCompile("called `(?P<method>Option::unwrap|Result::unwrap|Option::expect|Result::expect)\\(\\)` on an? `(?P<value>None|Err)` value")
	divideByZeroRe = regexp.MustCompile(`(?i)(?:attempt to divide by zero|division by zero|divide by zero)`)
	panicRe        = regexp.MustCompile(`panicked at '?(?P<panic_message>[^']+)'?`)
	unwrapCallRe   = regexp.MustCompile(`\.(?:unwrap|expect)\([^)]*\)`)
)

// UnsafeUnwrapGenerator replaces an unwrap that failed at runtime with
// explicit handling. 0.6 when the call is located in source, 0.5 as a
// generic pattern.
type UnsafeUnwrapGenerator struct{}

func (*UnsafeUnwrapGenerator) Name() string { return "unsafe_unwrap" }

func (g *UnsafeUnwrapGenerator) Generate(err faults.Error, params extraction.Parameters, source string) *fix.Autocorrection {
	if !triggered(err, params, unwrapOnNoneRe, "unwrap_on_none") {
		return nil
	}
	value := capture(err, params, unwrapOnNoneRe, "value")
	if value == "" {
		value = "None"
	}
	description := "Handle `" + value + "` instead of unwrapping"
	file := fileOf(params)

	if line, ok := findLine(source, lineOf(params), unwrapCallRe.MatchString); ok {
		snippet := strings.TrimSpace(replaceFirst(unwrapCallRe, line.Text, "?"))
		return adviseCode(g.Name(), description, fix.TypeRefactor, 0.6, file, line.Number, snippet,
			"Propagate with `?` or match on the value", targetCode(params)...)
	}
	snippet := "match value {\n    Some(v) => v,\n    None => return Err(\"missing value\".into()),\n}"
	if value == "Err" {
		snippet = "match value {\n    Ok(v) => v,\n    Err(e) => return Err(e.into()),\n}"
	}
	return adviseCode(g.Name(), description, fix.TypeRefactor, 0.5, file, lineOf(params), snippet,
		"Use match, if let, unwrap_or, or `?`", targetCode(params)...)
}

// DivisionByZeroGenerator guards a divisor. 0.6.
type DivisionByZeroGenerator struct{}

func (*DivisionByZeroGenerator) Name() string { return "division_by_zero" }

func (g *DivisionByZeroGenerator) Generate(err faults.Error, params extraction.Parameters, source string) *fix.Autocorrection {
	if !triggered(err, params, divideByZeroRe, "division_by_zero") {
		return nil
	}
	return adviseCode(g.Name(), "Guard against division by zero", fix.TypeRefactor, 0.6, fileOf(params), lineOf(params),
		"let result = a.checked_div(b).ok_or(\"division by zero\")?;",
		"Check the divisor before dividing", targetCode(params)...)
}

// RuntimePanicGenerator handles panics and runtime failures nothing more
// specific claimed: rerun with a backtrace. 0.4 since it fixes nothing by
// itself.
type RuntimePanicGenerator struct{}

func (*RuntimePanicGenerator) Name() string { return "runtime_panic" }

func (g *RuntimePanicGenerator) Generate(err faults.Error, params extraction.Parameters, source string) *fix.Autocorrection {
	if !triggered(err, params, panicRe, "panic") && faults.Subject(err).Category() != faults.CategoryRuntime {
		return nil
	}
	description := "Investigate runtime panic"
	if msg := capture(err, params, panicRe, "panic_message"); msg != "" {
		description += ": " + msg
	}
	file := fileOf(params)
	if file != "" {
		if n := params.Value(extraction.KeyLine); n != "" {
			description += " at " + file + ":" + n
		}
	}
	return adviseCommand(g.Name(), description, fix.TypeManualIntervention, 0.4,
		"Rerun with a backtrace to find the failing call", "RUST_BACKTRACE=1 cargo run")
}
