package fix

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// UnifiedDiff renders a unified diff of before and after for file with one
// line of context. It returns "" when the texts are equal.
func UnifiedDiff(file, before, after string) string {
	if before == after {
		return ""
	}
	if file == "" {
		file = "source"
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(ensureNewline(before)),
		B:        difflib.SplitLines(ensureNewline(after)),
		FromFile: "a/" + file,
		ToFile:   "b/" + file,
		Context:  1,
	})
	if err != nil {
		return LineDiff(before, after)
	}
	return strings.TrimRight(diff, "\n")
}

// LineDiff renders a minimal "-old" / "+new" preview. Either side may be
// empty, in which case its lines are omitted.
func LineDiff(before, after string) string {
	var lines []string
	if before != "" {
		for _, l := range strings.Split(before, "\n") {
			lines = append(lines, "-"+l)
		}
	}
	if after != "" {
		for _, l := range strings.Split(after, "\n") {
			lines = append(lines, "+"+l)
		}
	}
	return strings.Join(lines, "\n")
}

// ReplaceLine returns source with the 1-based line replaced by repl. An
// empty repl with remove set deletes the line. Out-of-range lines return
// source unchanged.
func ReplaceLine(source string, line int, repl string, remove bool) string {
	lines := strings.Split(source, "\n")
	if line < 1 || line > len(lines) {
		return source
	}
	if remove {
		lines = append(lines[:line-1], lines[line:]...)
	} else {
		lines[line-1] = repl
	}
	return strings.Join(lines, "\n")
}

func ensureNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
