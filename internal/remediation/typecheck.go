package remediation

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/fyrsmithlabs/remedy/internal/extraction"
	"github.com/fyrsmithlabs/remedy/internal/faults"
	"github.com/fyrsmithlabs/remedy/internal/fix"
)

var (
	mismatchedTypesRe = regexp.MustCompile("mismatched types: expected `(?P<expected>[^`]+)`, found `(?P<found>[^`]+)`")
	privateFieldRe    = regexp.MustCompile("field `(?P<field>[^`]+)` of struct `(?P<struct>[^`]+)` is private")
	missingTraitRe    = regexp.MustCompile("the trait `(?P<trait>[^`]+)` is not implemented for `(?P<type>[^`]+)`")
	unstableFeatureRe = regexp.MustCompile(`use of unstable library feature '(?P<feature>[^']+)'`)
	argumentCountRe   = regexp.MustCompile(`this function takes (?P<expected>\d+) arguments? but (?P<found>\d+) arguments? (?:was|were) supplied`)

	typeDefRe = regexp.MustCompile(`^\s*(?:pub(?:\([^)]*\))?\s+)?(?:struct|enum)\s+(\w+)`)
)

var numericTypes = []string{
	"i8", "i16", "i32", "i64", "i128", "isize",
	"u8", "u16", "u32", "u64", "u128", "usize",
	"f32", "f64",
}

var derivableTraits = []string{"Debug", "Clone", "Copy", "PartialEq", "Eq", "Hash", "Default", "PartialOrd", "Ord"}

// conversion is one row of the type-mismatch table.
type conversion struct {
	match      func(expected, found string) bool
	snippet    func(expected, found string) string
	confidence float64
}

var conversions = []conversion{
	{
		match:      func(e, f string) bool { return e == "String" && f == "&str" },
		snippet:    func(string, string) string { return "value.to_string()  // or String::from(value)" },
		confidence: 0.8,
	},
	{
		match:      func(e, f string) bool { return e == "&str" && f == "String" },
		snippet:    func(string, string) string { return "&value  // or value.as_str()" },
		confidence: 0.8,
	},
	{
		match: func(e, f string) bool {
			return slices.Contains(numericTypes, e) && slices.Contains(numericTypes, f)
		},
		snippet:    func(e, _ string) string { return "value as " + e },
		confidence: 0.7,
	},
	{
		match:      func(e, f string) bool { return strings.HasPrefix(e, "Option<") && !strings.HasPrefix(f, "Option<") },
		snippet:    func(string, string) string { return "Some(value)" },
		confidence: 0.75,
	},
	{
		match:      func(e, f string) bool { return strings.HasPrefix(e, "Result<") && !strings.HasPrefix(f, "Result<") },
		snippet:    func(string, string) string { return "Ok(value)" },
		confidence: 0.75,
	},
	{
		match:      func(e, f string) bool { return "&"+e == f },
		snippet:    func(string, string) string { return "*value  // or value.clone()" },
		confidence: 0.65,
	},
	{
		match:      func(e, f string) bool { return e == "&"+f },
		snippet:    func(string, string) string { return "&value" },
		confidence: 0.7,
	},
}

// MismatchedTypeGenerator proposes a conversion between the expected and
// found types. Known conversions score 0.65 to 0.8 from the table above and
// anything else 0.4. A found unit type is left to MissingReturnGenerator.
type MismatchedTypeGenerator struct{}

func (*MismatchedTypeGenerator) Name() string { return "mismatched_type" }

func (g *MismatchedTypeGenerator) Generate(err faults.Error, params extraction.Parameters, source string) *fix.Autocorrection {
	if !triggered(err, params, mismatchedTypesRe, "mismatched_types") {
		return nil
	}
	expected := capture(err, params, mismatchedTypesRe, "expected")
	found := capture(err, params, mismatchedTypesRe, "found")
	if expected == "" || found == "" || found == "()" {
		return nil
	}

	description := fmt.Sprintf("Fix type mismatch between `%s` and `%s`", expected, found)
	snippet, confidence := "// convert the value to "+expected, 0.4
	for _, c := range conversions {
		if c.match(expected, found) {
			snippet, confidence = c.snippet(expected, found), c.confidence
			break
		}
	}
	return adviseCode(g.Name(), description, fix.TypeManualIntervention, confidence, fileOf(params), lineOf(params),
		snippet, fmt.Sprintf("Expected `%s`, found `%s`", expected, found), targetCode(params)...)
}

// PrivateFieldAccessGenerator suggests an accessor or widening visibility.
// Manual at 0.6: the owner of the struct decides.
type PrivateFieldAccessGenerator struct{}

func (*PrivateFieldAccessGenerator) Name() string { return "private_field_access" }

func (g *PrivateFieldAccessGenerator) Generate(err faults.Error, params extraction.Parameters, source string) *fix.Autocorrection {
	if !triggered(err, params, privateFieldRe, "private_field") {
		return nil
	}
	field := capture(err, params, privateFieldRe, "field")
	owner := capture(err, params, privateFieldRe, "struct")
	if field == "" {
		return nil
	}
	snippet := fmt.Sprintf("impl %s {\n    pub fn %s(&self) -> &T {\n        &self.%s\n    }\n}", owner, field, field)
	return adviseCode(g.Name(), fmt.Sprintf("Use a public accessor for private field `%s` of `%s`", field, owner),
		fix.TypeManualIntervention, 0.6, fileOf(params), lineOf(params), snippet,
		"Add a getter, or mark the field `pub` or `pub(crate)`", targetCode(params)...)
}

// MissingTraitImplGenerator derives derivable traits and sketches an impl
// block for the rest. Deriving scores 0.85 with the type definition found in
// source and 0.8 without. A hand-written impl scores 0.6.
type MissingTraitImplGenerator struct{}

func (*MissingTraitImplGenerator) Name() string { return "missing_trait_impl" }

func (g *MissingTraitImplGenerator) Generate(err faults.Error, params extraction.Parameters, source string) *fix.Autocorrection {
	if !triggered(err, params, missingTraitRe, "missing_trait_impl") {
		return nil
	}
	trait := capture(err, params, missingTraitRe, "trait")
	typ := strings.TrimLeft(capture(err, params, missingTraitRe, "type"), "&")
	typ = strings.TrimPrefix(typ, "mut ")
	if trait == "" || typ == "" {
		return nil
	}
	leaf := trait
	if i := strings.LastIndex(trait, "::"); i >= 0 {
		leaf = trait[i+2:]
	}
	file := fileOf(params)

	if !slices.Contains(derivableTraits, leaf) {
		snippet := fmt.Sprintf("impl %s for %s {\n    // required items\n}", trait, typ)
		return adviseCode(g.Name(), fmt.Sprintf("Implement `%s` for `%s`", trait, typ), fix.TypeAstModification, 0.6,
			file, lineOf(params), snippet, "Write an impl block with the trait's required items", targetCode(params)...)
	}

	description := fmt.Sprintf("Derive `%s` for `%s`", leaf, typ)
	name := typ
	if i := strings.IndexAny(name, "<"); i >= 0 {
		name = name[:i]
	}
	def := func(l string) bool { return namedMatch(typeDefRe, l, name) != nil }
	if line, ok := findLine(source, 0, def); ok {
		edit := lineEdit{File: file, Line: line, Replacement: indentOf(line.Text) + "#[derive(" + leaf + ")]\n" + line.Text}
		return textFix(g.Name(), description, 0.85, edit, source, targetCode(params)...)
	}
	return adviseCode(g.Name(), description, fix.TypeAstModification, 0.8, file, lineOf(params),
		"#[derive("+leaf+")]", "Add the derive attribute above the type definition", targetCode(params)...)
}

// UnstableFeatureGenerator enables a nightly feature gate. 0.6: switching
// toolchains is a project decision.
type UnstableFeatureGenerator struct{}

func (*UnstableFeatureGenerator) Name() string { return "unstable_feature" }

func (g *UnstableFeatureGenerator) Generate(err faults.Error, params extraction.Parameters, source string) *fix.Autocorrection {
	if !triggered(err, params, unstableFeatureRe, "unstable_feature") {
		return nil
	}
	feature := capture(err, params, unstableFeatureRe, "feature")
	if feature == "" {
		return nil
	}
	return adviseCode(g.Name(), "Enable unstable feature `"+feature+"`", fix.TypeConfigurationChange, 0.6,
		fileOf(params), 1, "#![feature("+feature+")]",
		"Add the attribute at the crate root and build with a nightly toolchain",
		append(targetCode(params), fix.WithCommands("rustup override set nightly"))...)
}

// InvalidArgumentCountGenerator reports the expected arity. Manual, 0.6.
type InvalidArgumentCountGenerator struct{}

func (*InvalidArgumentCountGenerator) Name() string { return "invalid_argument_count" }

func (g *InvalidArgumentCountGenerator) Generate(err faults.Error, params extraction.Parameters, source string) *fix.Autocorrection {
	if !triggered(err, params, argumentCountRe, "argument_count") {
		return nil
	}
	expected := capture(err, params, argumentCountRe, "expected")
	found := capture(err, params, argumentCountRe, "found")
	if expected == "" {
		return nil
	}
	description := fmt.Sprintf("Call the function with %s arguments instead of %s", expected, found)
	return adviseCode(g.Name(), description, fix.TypeManualIntervention, 0.6, fileOf(params), lineOf(params), "",
		"Check the function signature and add or remove arguments", targetCode(params)...)
}
