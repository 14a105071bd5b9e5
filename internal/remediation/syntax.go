package remediation

import (
	"regexp"
	"strings"

	"github.com/fyrsmithlabs/remedy/internal/extraction"
	"github.com/fyrsmithlabs/remedy/internal/faults"
	"github.com/fyrsmithlabs/remedy/internal/fix"
)

var (
	missingSemicolonRe = regexp.MustCompile("expected `;`|missing semicolon")
	nonExhaustiveRe    = regexp.MustCompile(`non-exhaustive patterns: (?P<missing>.+?) not covered`)
	unreachablePattern = regexp.MustCompile(`unreachable pattern`)
	missingReturnRe    = regexp.MustCompile("mismatched types: expected `(?P<expected>[^`]+)`, found `\\(\\)`|missing return|implicitly returns `\\(\\)`")
	missingLifetimeRe  = regexp.MustCompile(`missing lifetime specifier`)
	questionMarkRe     = regexp.MustCompile("the `\\?` operator can only be used (?:in|on) (?P<context>[^\n]+)")

	fnSignatureRe = regexp.MustCompile(`\bfn\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(`)
	mainNoRetRe   = regexp.MustCompile(`\bfn\s+main\s*\(\s*\)\s*\{`)
	bareRefRe     = regexp.MustCompile(`&([A-Za-z\[(])`)
)

// MissingSemicolonGenerator appends a semicolon to the reported line. It
// needs a line number to rewrite source: 0.9 then, 0.6 as a generic diff.
type MissingSemicolonGenerator struct{}

func (*MissingSemicolonGenerator) Name() string { return "missing_semicolon" }

func (g *MissingSemicolonGenerator) Generate(err faults.Error, params extraction.Parameters, source string) *fix.Autocorrection {
	if !triggered(err, params, missingSemicolonRe, "missing_semicolon") {
		return nil
	}
	const description = "Add missing semicolon"

	if n := lineOf(params); n > 0 {
		if line, ok := findLine(source, n, needsSemicolon); ok && line.Number == n {
			edit := lineEdit{File: fileOf(params), Line: line, Replacement: strings.TrimRight(line.Text, " \t") + ";"}
			return textFix(g.Name(), description, confidenceWithSource, edit, source, targetCode(params)...)
		}
	}
	return fix.New(description, fix.TypeTextReplacement, confidenceWithoutSource,
		append(targetCode(params),
			fix.WithDiff(fix.LineDiff("(line without semicolon)", "(same line with semicolon added)")),
			fix.WithID(fix.DeriveID(g.Name(), fileOf(params))),
		)...)
}

func needsSemicolon(line string) bool {
	t := strings.TrimSpace(line)
	if t == "" || strings.HasPrefix(t, "//") {
		return false
	}
	switch t[len(t)-1] {
	case ';', '{', '}', ',', '(', '[':
		return false
	}
	return true
}

// MatchPatternGenerator covers both match diagnostics. Missing arms get a
// wildcard arm at 0.7. An unreachable arm is removed at 0.75 when the line
// is known, otherwise flagged at 0.5.
type MatchPatternGenerator struct{}

func (*MatchPatternGenerator) Name() string { return "match_pattern" }

func (g *MatchPatternGenerator) Generate(err faults.Error, params extraction.Parameters, source string) *fix.Autocorrection {
	file, n := fileOf(params), lineOf(params)

	if triggered(err, params, nonExhaustiveRe, "non_exhaustive_patterns") {
		missing := capture(err, params, nonExhaustiveRe, "missing")
		description := "Add missing patterns"
		snippet := "_ => todo!(),"
		if missing != "" {
			description += ": " + missing
			if !strings.ContainsAny(missing, "&|") {
				snippet = strings.Trim(missing, "`") + " => todo!(),\n" + snippet
			}
		}
		return adviseCode(g.Name(), description, fix.TypeAstModification, 0.7, file, n, snippet,
			"Handle every variant, or add a wildcard arm", targetCode(params)...)
	}

	if !triggered(err, params, unreachablePattern, "unreachable_pattern") {
		return nil
	}
	const description = "Remove unreachable pattern"
	if n > 0 {
		if line, ok := findLine(source, n, func(l string) bool { return strings.Contains(l, "=>") }); ok && line.Number == n {
			edit := lineEdit{File: file, Line: line, Remove: true}
			return textFix(g.Name(), description, 0.75, edit, source, targetCode(params)...)
		}
	}
	return adviseCode(g.Name(), description, fix.TypeTextReplacement, 0.5, file, n, "",
		"An earlier arm already matches every value this arm would", targetCode(params)...)
}

// MissingReturnGenerator handles a function body that evaluates to `()`
// where a value is expected. It also claims `found ()` type mismatches,
// which is why it runs ahead of MismatchedTypeGenerator. Confidence 0.5:
// the right value is unknowable here.
type MissingReturnGenerator struct{}

func (*MissingReturnGenerator) Name() string { return "missing_return" }

func (g *MissingReturnGenerator) Generate(err faults.Error, params extraction.Parameters, source string) *fix.Autocorrection {
	unitFound := params.Value(extraction.KeyPattern) == "mismatched_types" && params.Value("found") == "()"
	if !unitFound && !triggered(err, params, missingReturnRe, "missing_return") {
		return nil
	}
	expected := capture(err, params, missingReturnRe, "expected")

	description := "Add missing return value"
	snippet := "return value;"
	if expected != "" {
		description += " of type `" + expected + "`"
	}
	return adviseCode(g.Name(), description, fix.TypeAstModification, 0.5, fileOf(params), lineOf(params), snippet,
		"Remove the trailing semicolon from the final expression or return a value explicitly", targetCode(params)...)
}

// MissingLifetimeGenerator introduces a named lifetime on a function that
// returns a reference. 0.7 when a signature line can be rewritten, since
// elision rules make the choice ambiguous, and 0.5 as a snippet.
type MissingLifetimeGenerator struct{}

func (*MissingLifetimeGenerator) Name() string { return "missing_lifetime" }

func (g *MissingLifetimeGenerator) Generate(err faults.Error, params extraction.Parameters, source string) *fix.Autocorrection {
	if !triggered(err, params, missingLifetimeRe, "missing_lifetime") {
		return nil
	}
	const description = "Add missing lifetime parameter"

	if line, ok := findLine(source, lineOf(params), func(l string) bool {
		return fnSignatureRe.MatchString(l) && strings.Contains(l, "&") && !strings.Contains(l, "'")
	}); ok {
		repl := replaceFirst(fnSignatureRe, line.Text, "fn $1<'a>(")
		repl = strings.ReplaceAll(repl, "&mut ", "&'a mut ")
		repl = bareRefRe.ReplaceAllString(repl, "&'a $1")
		edit := lineEdit{File: fileOf(params), Line: line, Replacement: repl}
		return textFix(g.Name(), description, 0.7, edit, source, targetCode(params)...)
	}
	return adviseCode(g.Name(), description, fix.TypeAstModification, 0.5, fileOf(params), lineOf(params),
		"fn longest<'a>(x: &'a str, y: &'a str) -> &'a str",
		"Name a lifetime and tie the returned reference to an input", targetCode(params)...)
}

// QuestionMarkPropagationGenerator makes `main` return a Result so `?` can
// propagate. 0.75 when `fn main()` is found in source, 0.5 otherwise.
type QuestionMarkPropagationGenerator struct{}

func (*QuestionMarkPropagationGenerator) Name() string { return "question_mark_propagation" }

func (g *QuestionMarkPropagationGenerator) Generate(err faults.Error, params extraction.Parameters, source string) *fix.Autocorrection {
	if !triggered(err, params, questionMarkRe, "question_mark") {
		return nil
	}
	const (
		description = "Change the function to return `Result` so `?` can propagate errors"
		signature   = "fn main() -> Result<(), Box<dyn std::error::Error>> {"
	)

	if line, ok := findLine(source, 0, mainNoRetRe.MatchString); ok {
		edit := lineEdit{File: fileOf(params), Line: line, Replacement: replaceFirst(mainNoRetRe, line.Text, signature)}
		return textFix(g.Name(), description, 0.75, edit, source, targetCode(params)...)
	}
	return adviseCode(g.Name(), description, fix.TypeAstModification, 0.5, fileOf(params), lineOf(params),
		signature+"\n    // ...\n    Ok(())\n}",
		"The enclosing function must return Result or Option", targetCode(params)...)
}
