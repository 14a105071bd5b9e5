package remediation

import (
	"regexp"
	"strings"

	"github.com/fyrsmithlabs/remedy/internal/extraction"
	"github.com/fyrsmithlabs/remedy/internal/faults"
	"github.com/fyrsmithlabs/remedy/internal/fix"
)

var (
	unusedImportRe    = regexp.MustCompile("unused import: `(?P<import>[^`]+)`")
	goUnusedImportRe  = regexp.MustCompile(`"(?P<import>[^"]+)" imported and not used`)
	unusedVariableRe  = regexp.MustCompile("unused variable: `(?P<variable>[^`]+)`")
	unusedMutRe       = regexp.MustCompile("variable does not need to be mutable(?:: `(?P<variable>[^`]+)`)?")
	unnecessaryBraces = regexp.MustCompile(`unnecessary braces around (?P<context>[^\n]+)`)
	unnecessaryParens = regexp.MustCompile(`unnecessary parentheses around (?P<context>[^\n]+)`)
	unnecessaryClone  = regexp.MustCompile("(?:redundant clone|unnecessary clone)(?: of `(?P<variable>[^`]+)`)?")

	singleBraceUseRe = regexp.MustCompile(`::\{\s*([A-Za-z0-9_]+|self)\s*\}`)
	mutKeywordRe     = regexp.MustCompile(`\bmut\s+`)
	mutBindingRe     = regexp.MustCompile(`\bmut\s+(\w+)`)
	wrappedCondRe    = regexp.MustCompile(`\b(if|while|match|return)\s+\((.+)\)(\s*[{;])`)
)

// UnusedImportGenerator removes an unused Rust `use` or Go import. With
// source it locates the exact line and rewrites it, confidence 0.9. Without
// source it proposes the toolchain fixer at 0.6.
type UnusedImportGenerator struct{}

func (*UnusedImportGenerator) Name() string { return "unused_import" }

func (g *UnusedImportGenerator) Generate(err faults.Error, params extraction.Parameters, source string) *fix.Autocorrection {
	lang, imp := "rust", ""
	switch {
	case triggered(err, params, unusedImportRe, "unused_import"):
		imp = capture(err, params, unusedImportRe, "import")
	case triggered(err, params, goUnusedImportRe, "go_unused_import"):
		lang, imp = "go", capture(err, params, goUnusedImportRe, "import")
	}
	if imp == "" {
		return nil
	}

	file := fileOf(params)
	if isGoFile(file) {
		lang = "go"
	}
	description := "Remove unused import `" + imp + "`"

	if line, ok := findLine(source, lineOf(params), func(l string) bool {
		_, ok := rewriteImport(lang, l, imp)
		return ok
	}); ok {
		repl, _ := rewriteImport(lang, line.Text, imp)
		edit := lineEdit{File: file, Line: line, Replacement: repl, Remove: repl == ""}
		var cmd string
		if edit.Remove && file != "" {
			cmd = sedDelete(file, line.Number)
		}
		return textFix(g.Name(), description, confidenceWithSource, edit, source,
			append(targetCode(params), fix.WithCommands(cmd))...)
	}

	before, cmd := "use "+imp+";", "cargo fix --allow-dirty"
	if lang == "go" {
		before, cmd = `"`+imp+`"`, "goimports -w "+quoteShell(file)
		if file == "" {
			cmd = "goimports -w ."
		}
	}
	return fix.New(description, fix.TypeTextReplacement, confidenceWithoutSource,
		append(targetCode(params),
			fix.WithDiff(fix.LineDiff(before, "")),
			fix.WithCommands(cmd),
			fix.WithID(fix.DeriveID(g.Name(), description, file)),
		)...)
}

// rewriteImport returns the replacement for an import line that mentions
// imp, or "" when the whole line should go. ok is false when the line does
// not import imp.
func rewriteImport(lang, line, imp string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if lang == "go" {
		trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, "import "))
		return "", strings.HasSuffix(trimmed, `"`+imp+`"`)
	}

	body, ok := strings.CutPrefix(trimmed, "pub use ")
	if !ok {
		if body, ok = strings.CutPrefix(trimmed, "use "); !ok {
			return "", false
		}
	}
	body = strings.TrimSuffix(body, ";")

	leaf := imp
	if i := strings.LastIndex(imp, "::"); i >= 0 {
		leaf = imp[i+2:]
	}

	prefix, group, grouped := strings.Cut(body, "{")
	if !grouped {
		if body == imp || strings.HasSuffix(body, "::"+imp) || strings.HasPrefix(body, imp+" as ") {
			return "", true
		}
		return "", false
	}

	group = strings.TrimSuffix(strings.TrimSpace(group), "}")
	var kept []string
	found := false
	for _, item := range strings.Split(group, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if item == leaf || item == imp || prefix+item == imp {
			found = true
			continue
		}
		kept = append(kept, item)
	}
	if !found {
		return "", false
	}
	if len(kept) == 0 {
		return "", true
	}
	head := line[:strings.Index(line, "{")]
	return head + "{" + strings.Join(kept, ", ") + "};", true
}

// UnusedVariableGenerator prefixes an unused binding with an underscore.
// Confidence 0.9 with a located binding, 0.6 otherwise.
type UnusedVariableGenerator struct{}

func (*UnusedVariableGenerator) Name() string { return "unused_variable" }

func (g *UnusedVariableGenerator) Generate(err faults.Error, params extraction.Parameters, source string) *fix.Autocorrection {
	if !triggered(err, params, unusedVariableRe, "unused_variable") {
		return nil
	}
	name := capture(err, params, unusedVariableRe, "variable")
	if name == "" || strings.HasPrefix(name, "_") {
		return nil
	}
	description := "Add underscore prefix to unused variable `" + name + "`"
	if line, ok := findLine(source, lineOf(params), func(l string) bool { return wordIndex(l, name) >= 0 }); ok {
		edit := lineEdit{File: fileOf(params), Line: line, Replacement: replaceWord(line.Text, name, "_"+name)}
		return textFix(g.Name(), description, confidenceWithSource, edit, source, targetCode(params)...)
	}
	return fix.New(description, fix.TypeTextReplacement, confidenceWithoutSource,
		append(targetCode(params),
			fix.WithDiff(fix.LineDiff("let "+name, "let _"+name)),
			fix.WithID(fix.DeriveID(g.Name(), description)),
		)...)
}

// UnusedMutGenerator drops a needless `mut`. Confidence 0.9 with source,
// 0.6 without.
type UnusedMutGenerator struct{}

func (*UnusedMutGenerator) Name() string { return "unused_mut" }

func (g *UnusedMutGenerator) Generate(err faults.Error, params extraction.Parameters, source string) *fix.Autocorrection {
	if !triggered(err, params, unusedMutRe, "unused_mut") {
		return nil
	}
	name := capture(err, params, unusedMutRe, "variable")

	description := "Remove unnecessary `mut`"
	match := mutKeywordRe.MatchString
	drop := func(l string) string { return replaceFirst(mutKeywordRe, l, "") }
	if name != "" {
		description = "Remove unnecessary `mut` from `" + name + "`"
		match = func(l string) bool { return namedMatch(mutBindingRe, l, name) != nil }
		drop = func(l string) string {
			loc := namedMatch(mutBindingRe, l, name)
			return l[:loc[0]] + l[loc[2]:]
		}
	}

	if line, ok := findLine(source, lineOf(params), match); ok {
		edit := lineEdit{File: fileOf(params), Line: line, Replacement: drop(line.Text)}
		return textFix(g.Name(), description, confidenceWithSource, edit, source, targetCode(params)...)
	}
	return fix.New(description, fix.TypeTextReplacement, confidenceWithoutSource,
		append(targetCode(params),
			fix.WithDiff(fix.LineDiff("let mut "+name, "let "+name)),
			fix.WithID(fix.DeriveID(g.Name(), description)),
		)...)
}

// UnnecessaryBracesGenerator collapses single-item brace groups such as
// `use a::{B};`. A rewritten line scores 0.9. Other brace warnings get a
// generic style hint at 0.5.
type UnnecessaryBracesGenerator struct{}

func (*UnnecessaryBracesGenerator) Name() string { return "unnecessary_braces" }

func (g *UnnecessaryBracesGenerator) Generate(err faults.Error, params extraction.Parameters, source string) *fix.Autocorrection {
	if !triggered(err, params, unnecessaryBraces, "unnecessary_braces") {
		return nil
	}
	const description = "Remove unnecessary braces"

	if line, ok := findLine(source, lineOf(params), singleBraceUseRe.MatchString); ok {
		edit := lineEdit{File: fileOf(params), Line: line, Replacement: replaceFirst(singleBraceUseRe, line.Text, "::$1")}
		return textFix(g.Name(), description, confidenceWithSource, edit, source, targetCode(params)...)
	}
	context := capture(err, params, unnecessaryBraces, "context")
	return adviseCode(g.Name(), description, fix.TypeTextReplacement, 0.5, fileOf(params), lineOf(params),
		"use a::b::{C};  ->  use a::b::C;", "Remove the braces around "+context, targetCode(params)...)
}

// UnnecessaryParenthesesGenerator unwraps a parenthesized condition or
// return value. 0.9 with a rewritten line, 0.5 as a generic hint.
type UnnecessaryParenthesesGenerator struct{}

func (*UnnecessaryParenthesesGenerator) Name() string { return "unnecessary_parentheses" }

func (g *UnnecessaryParenthesesGenerator) Generate(err faults.Error, params extraction.Parameters, source string) *fix.Autocorrection {
	if !triggered(err, params, unnecessaryParens, "unnecessary_parentheses") {
		return nil
	}
	const description = "Remove unnecessary parentheses"

	if line, ok := findLine(source, lineOf(params), wrappedCondRe.MatchString); ok {
		edit := lineEdit{File: fileOf(params), Line: line, Replacement: replaceFirst(wrappedCondRe, line.Text, "$1 $2$3")}
		return textFix(g.Name(), description, confidenceWithSource, edit, source, targetCode(params)...)
	}
	context := capture(err, params, unnecessaryParens, "context")
	return adviseCode(g.Name(), description, fix.TypeTextReplacement, 0.5, fileOf(params), lineOf(params),
		"if (x > 0) {  ->  if x > 0 {", "Remove the parentheses around "+context, targetCode(params)...)
}

// UnnecessaryCloneGenerator drops a redundant `.clone()`. 0.8 with a
// located call, 0.5 otherwise: removing a clone can change ownership.
type UnnecessaryCloneGenerator struct{}

func (*UnnecessaryCloneGenerator) Name() string { return "unnecessary_clone" }

func (g *UnnecessaryCloneGenerator) Generate(err faults.Error, params extraction.Parameters, source string) *fix.Autocorrection {
	if !triggered(err, params, unnecessaryClone, "unnecessary_clone") {
		return nil
	}
	name := capture(err, params, unnecessaryClone, "variable")
	description := "Remove unnecessary clone"
	needle := ".clone()"
	if name != "" {
		description += " of `" + name + "`"
		needle = name + ".clone()"
	}

	if line, ok := findLine(source, lineOf(params), func(l string) bool { return strings.Contains(l, needle) }); ok {
		repl := strings.Replace(line.Text, needle, strings.TrimSuffix(needle, ".clone()"), 1)
		edit := lineEdit{File: fileOf(params), Line: line, Replacement: repl}
		return textFix(g.Name(), description, 0.8, edit, source, targetCode(params)...)
	}
	return fix.New(description, fix.TypeTextReplacement, 0.5,
		append(targetCode(params),
			fix.WithDiff(fix.LineDiff(needle, strings.TrimSuffix(needle, ".clone()"))),
			fix.WithID(fix.DeriveID(g.Name(), description)),
		)...)
}
