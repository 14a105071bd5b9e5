package fix

import (
	"fmt"
	"strings"
)

// Details carries the structured payload of a fix. It is implemented only
// by the types in this file.
type Details interface {
	Kind() string
	Summary() string
	details()
}

// TextReplace replaces a line/column range in a file. Lines and columns are
// 1-based; a zero ColumnEnd means end of line.
type TextReplace struct {
	File        string `json:"file"`
	LineStart   int    `json:"line_start"`
	ColumnStart int    `json:"column_start"`
	LineEnd     int    `json:"line_end"`
	ColumnEnd   int    `json:"column_end"`
	Original    string `json:"original,omitempty"`
	Replacement string `json:"replacement"`
}

func (*TextReplace) details()     {}
func (*TextReplace) Kind() string { return "text_replace" }

func (d *TextReplace) Summary() string {
	return fmt.Sprintf("replace %s:%d:%d-%d:%d with %q", d.File, d.LineStart, d.ColumnStart, d.LineEnd, d.ColumnEnd, d.Replacement)
}

// AddImport inserts an import into a file.
type AddImport struct {
	File   string `json:"file"`
	Import string `json:"import"`
}

func (*AddImport) details()     {}
func (*AddImport) Kind() string { return "add_import" }

func (d *AddImport) Summary() string {
	return fmt.Sprintf("add import %s to %s", d.Import, d.File)
}

// ExecuteCommand proposes a command with explicit arguments. Args hold raw
// values suitable for an argv; only CommandLine quotes them.
type ExecuteCommand struct {
	Command    string   `json:"command"`
	Args       []string `json:"args,omitempty"`
	WorkingDir string   `json:"working_dir,omitempty"`
}

func (*ExecuteCommand) details()     {}
func (*ExecuteCommand) Kind() string { return "execute_command" }

// CommandLine joins Command and the shell-quoted Args with single spaces.
func (d *ExecuteCommand) CommandLine() string {
	parts := make([]string, 0, len(d.Args)+1)
	parts = append(parts, d.Command)
	for _, arg := range d.Args {
		parts = append(parts, QuoteShell(arg))
	}
	return strings.Join(parts, " ")
}

// QuoteShell single-quotes s for a POSIX shell when it contains anything
// outside a conservative safe set.
func QuoteShell(s string) string {
	if s != "" && strings.IndexFunc(s, func(r rune) bool {
		return !(r == '/' || r == '.' || r == '_' || r == '-' || r == '~' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'))
	}) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func (d *ExecuteCommand) Summary() string {
	if d.WorkingDir != "" {
		return fmt.Sprintf("run %q in %s", d.CommandLine(), d.WorkingDir)
	}
	return fmt.Sprintf("run %q", d.CommandLine())
}

// SuggestCommand proposes a shell command line with an explanation.
type SuggestCommand struct {
	Command     string `json:"command"`
	Explanation string `json:"explanation"`
}

func (*SuggestCommand) details()     {}
func (*SuggestCommand) Kind() string { return "suggest_command" }

func (d *SuggestCommand) Summary() string {
	return fmt.Sprintf("suggested command %q: %s", d.Command, d.Explanation)
}

// SuggestCodeChange proposes a snippet near a line for a human to apply.
type SuggestCodeChange struct {
	File        string `json:"file"`
	LineHint    int    `json:"line_hint"`
	Snippet     string `json:"snippet"`
	Explanation string `json:"explanation"`
}

func (*SuggestCodeChange) details()     {}
func (*SuggestCodeChange) Kind() string { return "suggest_code_change" }

func (d *SuggestCodeChange) Summary() string {
	loc := d.File
	if d.LineHint > 0 {
		loc = fmt.Sprintf("%s:%d", d.File, d.LineHint)
	}
	return fmt.Sprintf("change near %s: %s", loc, d.Explanation)
}
