package remediation

import (
	"regexp"

	"github.com/fyrsmithlabs/remedy/internal/extraction"
	"github.com/fyrsmithlabs/remedy/internal/faults"
	"github.com/fyrsmithlabs/remedy/internal/fix"
)

var (
	immutableBorrowRe = regexp.MustCompile("cannot borrow `(?P<variable>[^`]+)` as mutable")
	borrowAfterMoveRe = regexp.MustCompile("(?:value used here after move|use of moved value|borrow of moved value): `(?P<variable>[^`]+)`")
	letBindingRe      = regexp.MustCompile(`\blet\s+(\w+)`)
	returnLocalRefRe  = regexp.MustCompile("cannot return (?:reference to|value referencing) (?:local variable|temporary value|local data) `?(?P<variable>[^`\\s]*)`?")
)

// ImmutableBorrowGenerator turns `let x` into `let mut x`. 0.9 when the
// binding is found, 0.6 otherwise.
type ImmutableBorrowGenerator struct{}

func (*ImmutableBorrowGenerator) Name() string { return "immutable_borrow" }

func (g *ImmutableBorrowGenerator) Generate(err faults.Error, params extraction.Parameters, source string) *fix.Autocorrection {
	if !triggered(err, params, immutableBorrowRe, "immutable_borrow") {
		return nil
	}
	name := capture(err, params, immutableBorrowRe, "variable")
	if name == "" {
		return nil
	}
	description := "Change variable `" + name + "` to be mutable"
	binding := func(l string) bool { return namedMatch(letBindingRe, l, name) != nil }

	if line, ok := findLine(source, 0, binding); ok {
		loc := namedMatch(letBindingRe, line.Text, name)
		edit := lineEdit{File: fileOf(params), Line: line, Replacement: line.Text[:loc[0]] + "let mut " + line.Text[loc[2]:]}
		return textFix(g.Name(), description, confidenceWithSource, edit, source, targetCode(params)...)
	}
	return fix.New(description, fix.TypeTextReplacement, confidenceWithoutSource,
		append(targetCode(params),
			fix.WithDiff(fix.LineDiff("let "+name, "let mut "+name)),
			fix.WithID(fix.DeriveID(g.Name(), description)),
		)...)
}

// BorrowAfterMoveGenerator explains the options after a value was moved.
// The right choice depends on intent, so it stays manual at 0.6.
type BorrowAfterMoveGenerator struct{}

func (*BorrowAfterMoveGenerator) Name() string { return "borrow_after_move" }

func (g *BorrowAfterMoveGenerator) Generate(err faults.Error, params extraction.Parameters, source string) *fix.Autocorrection {
	if !triggered(err, params, borrowAfterMoveRe, "borrow_after_move") {
		return nil
	}
	name := capture(err, params, borrowAfterMoveRe, "variable")
	if name == "" {
		return nil
	}
	snippet := "// borrow instead of moving\nuse_value(&" + name + ");\n" +
		"// or clone before the move\nuse_value(" + name + ".clone());\n" +
		"// or derive Copy for small value types\n#[derive(Clone, Copy)]"
	return adviseCode(g.Name(), "Fix use of moved value `"+name+"`", fix.TypeManualIntervention, 0.6,
		fileOf(params), lineOf(params), snippet,
		"Borrow, clone, or make the type Copy", targetCode(params)...)
}

// ReturnLocalReferenceGenerator suggests returning an owned value instead
// of a reference into the current frame. Manual, 0.55.
type ReturnLocalReferenceGenerator struct{}

func (*ReturnLocalReferenceGenerator) Name() string { return "return_local_reference" }

func (g *ReturnLocalReferenceGenerator) Generate(err faults.Error, params extraction.Parameters, source string) *fix.Autocorrection {
	if !triggered(err, params, returnLocalRefRe, "return_local_reference") {
		return nil
	}
	description := "Return an owned value instead of a reference to local data"
	if name := capture(err, params, returnLocalRefRe, "variable"); name != "" {
		description = "Return an owned value instead of a reference to `" + name + "`"
	}
	return adviseCode(g.Name(), description, fix.TypeManualIntervention, 0.55, fileOf(params), lineOf(params),
		"fn build() -> String {\n    let s = String::from(\"value\");\n    s\n}",
		"Values created inside the function are dropped when it returns", targetCode(params)...)
}
