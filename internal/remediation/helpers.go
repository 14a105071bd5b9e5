package remediation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/fyrsmithlabs/remedy/internal/extraction"
	"github.com/fyrsmithlabs/remedy/internal/faults"
	"github.com/fyrsmithlabs/remedy/internal/fix"
)

// Confidence tiers shared by the source generators.
const (
	confidenceWithSource    = 0.9
	confidenceWithoutSource = 0.6
)

// capture returns params[key] when present, otherwise the named group key of
// re matched against the rendered error.
func capture(err faults.Error, params extraction.Parameters, re *regexp.Regexp, key string) string {
	if v := params.Value(key); v != "" {
		return v
	}
	m := re.FindStringSubmatch(err.Error())
	if m == nil {
		return ""
	}
	if i := re.SubexpIndex(key); i > 0 && i < len(m) {
		return m[i]
	}
	return ""
}

// triggered reports whether the pattern recorded in params is one of names,
// or failing that, whether re matches the rendered error.
func triggered(err faults.Error, params extraction.Parameters, re *regexp.Regexp, names ...string) bool {
	if p := params.Value(extraction.KeyPattern); p != "" {
		for _, n := range names {
			if p == n {
				return true
			}
		}
	}
	return re.MatchString(err.Error())
}

func fileOf(params extraction.Parameters) string {
	return params.First(extraction.KeyFilePath, extraction.KeyPath)
}

func lineOf(params extraction.Parameters) int {
	n, _ := strconv.Atoi(params.Value(extraction.KeyLine))
	return n
}

func columnOf(params extraction.Parameters) int {
	n, _ := strconv.Atoi(params.Value(extraction.KeyColumn))
	return n
}

// sourceLine is one 1-based line of source text.
type sourceLine struct {
	Number int
	Text   string
}

// findLine returns the line at hint when it satisfies match, otherwise the
// first matching line. ok is false when nothing matches.
func findLine(source string, hint int, match func(string) bool) (sourceLine, bool) {
	if source == "" {
		return sourceLine{}, false
	}
	lines := strings.Split(source, "\n")
	if hint >= 1 && hint <= len(lines) && match(lines[hint-1]) {
		return sourceLine{Number: hint, Text: lines[hint-1]}, true
	}
	for i, l := range lines {
		if match(l) {
			return sourceLine{Number: i + 1, Text: l}, true
		}
	}
	return sourceLine{}, false
}

func indentOf(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t"))]
}

// lineEdit describes a single-line rewrite of source text.
type lineEdit struct {
	File        string
	Line        sourceLine
	Replacement string
	Remove      bool
}

// apply renders the edit as TextReplace details plus a unified diff of the
// whole source.
func (e lineEdit) apply(source string) (*fix.TextReplace, string) {
	after := fix.ReplaceLine(source, e.Line.Number, e.Replacement, e.Remove)
	d := &fix.TextReplace{
		File:        e.File,
		LineStart:   e.Line.Number,
		ColumnStart: 1,
		LineEnd:     e.Line.Number,
		ColumnEnd:   len(e.Line.Text) + 1,
		Original:    e.Line.Text,
		Replacement: e.Replacement,
	}
	if e.Remove {
		d.LineEnd = e.Line.Number + 1
		d.ColumnEnd = 1
		d.Replacement = ""
	}
	return d, fix.UnifiedDiff(e.File, source, after)
}

// textFix builds a TextReplacement proposal from a line edit.
func textFix(gen, description string, confidence float64, edit lineEdit, source string, opts ...fix.Option) *fix.Autocorrection {
	d, diff := edit.apply(source)
	opts = append([]fix.Option{
		fix.WithDetails(d),
		fix.WithDiff(diff),
		fix.WithID(fix.DeriveID(gen, description, edit.File, strconv.Itoa(edit.Line.Number))),
	}, opts...)
	return fix.New(description, fix.TypeTextReplacement, confidence, opts...)
}

// adviseCode builds a proposal that carries a snippet for a human to apply.
func adviseCode(gen, description string, t fix.Type, confidence float64, file string, line int, snippet, explanation string, opts ...fix.Option) *fix.Autocorrection {
	opts = append([]fix.Option{
		fix.WithDetails(&fix.SuggestCodeChange{
			File:        file,
			LineHint:    line,
			Snippet:     snippet,
			Explanation: explanation,
		}),
		fix.WithID(fix.DeriveID(gen, description, file)),
	}, opts...)
	return fix.New(description, t, confidence, opts...)
}

// adviseCommand builds a proposal around one suggested command line.
func adviseCommand(gen, description string, t fix.Type, confidence float64, explanation string, commands ...string) *fix.Autocorrection {
	var opts []fix.Option
	if len(commands) > 0 {
		opts = append(opts, fix.WithDetails(&fix.SuggestCommand{Command: commands[0], Explanation: explanation}))
	}
	opts = append(opts,
		fix.WithCommands(commands...),
		fix.WithID(fix.DeriveID(append([]string{gen, description}, commands...)...)),
	)
	return fix.New(description, t, confidence, opts...)
}

// targetCode returns the diagnostic code option when params carry one.
func targetCode(params extraction.Parameters) []fix.Option {
	if code := params.Value(extraction.KeyDiagnosticCode); code != "" {
		return []fix.Option{fix.WithTargetCode(code)}
	}
	return nil
}

func quoteShell(s string) string { return fix.QuoteShell(s) }

func sedDelete(file string, line int) string {
	return fmt.Sprintf("sed -i '%dd' %s", line, quoteShell(file))
}

func isGoFile(file string) bool { return strings.HasSuffix(file, ".go") }

// wordIndex returns the offset of the first occurrence of word in s that is
// not part of a longer identifier, or -1.
func wordIndex(s, word string) int {
	if word == "" {
		return -1
	}
	for from := 0; from+len(word) <= len(s); {
		i := strings.Index(s[from:], word)
		if i < 0 {
			return -1
		}
		i += from
		end := i + len(word)
		if (i == 0 || !isWordByte(s[i-1])) && (end == len(s) || !isWordByte(s[end])) {
			return i
		}
		from = i + 1
	}
	return -1
}

func isWordByte(b byte) bool {
	return b == '_' || '0' <= b && b <= '9' || 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z'
}

// replaceWord replaces the first whole-word occurrence of word in s.
func replaceWord(s, word, repl string) string {
	i := wordIndex(s, word)
	if i < 0 {
		return s
	}
	return s[:i] + repl + s[i+len(word):]
}

// namedMatch returns the submatch indices of the first match of re whose
// first group is exactly name, or nil.
func namedMatch(re *regexp.Regexp, s, name string) []int {
	for _, loc := range re.FindAllStringSubmatchIndex(s, -1) {
		if loc[2] >= 0 && s[loc[2]:loc[3]] == name {
			return loc
		}
	}
	return nil
}

// replaceFirst replaces the first match of re in s with repl, expanding
// $-references against that match.
func replaceFirst(re *regexp.Regexp, s, repl string) string {
	loc := re.FindStringSubmatchIndex(s)
	if loc == nil {
		return s
	}
	var out []byte
	out = append(out, s[:loc[0]]...)
	out = re.ExpandString(out, repl, s, loc)
	out = append(out, s[loc[1]:]...)
	return string(out)
}
