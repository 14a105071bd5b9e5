package remediation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fyrsmithlabs/remedy/internal/extraction"
	"github.com/fyrsmithlabs/remedy/internal/faults"
	"github.com/fyrsmithlabs/remedy/internal/fix"
)

var missingKeyRe = regexp.MustCompile("(?:missing (?:key|field)|required key not found):?\\s*[\"`']?(?P<key>[A-Za-z0-9_.-]+)[\"`']?")

// keyDefaults seeds a value for common key names, matched on the last key
// segment by substring in table order.
var keyDefaults = []struct {
	fragment string
	value    string
	quoted   bool
}{
	{"timeout", "60", false},
	{"port", "8080", false},
	{"host", "localhost", true},
	{"url", "http://localhost:8080", true},
	{"retries", "3", false},
	{"enabled", "true", false},
	{"debug", "false", false},
	{"level", "info", true},
	{"path", "/path/to/file", true},
	{"dir", "/path/to/dir", true},
	{"name", "default", true},
}

// ConfigMissingKeyGenerator adds a missing configuration key with a
// plausible default. Inserting into provided source scores 0.75. A snippet
// scores 0.6. The default value is a guess, hence neither is higher.
type ConfigMissingKeyGenerator struct{}

func (*ConfigMissingKeyGenerator) Name() string { return "config_missing_key" }

func (g *ConfigMissingKeyGenerator) Generate(err faults.Error, params extraction.Parameters, source string) *fix.Autocorrection {
	subject := faults.Subject(err)
	_, missingValue := subject.(*faults.MissingValueError)
	if subject.Category() != faults.CategoryConfiguration && !missingValue {
		return nil
	}
	key := params.Value("key")
	if key == "" {
		key = capture(err, params, missingKeyRe, "key")
	}
	if key == "" {
		return nil
	}

	file := fileOf(params)
	format := params.Value("format")
	if format == "" {
		format = formatOfPath(file)
	}
	snippet := keySnippet(format, key)
	description := "Add missing configuration key `" + key + "`"
	if file != "" {
		description += " to " + file
	}

	if line, repl, ok := insertionPoint(format, key, source, snippet); ok {
		edit := lineEdit{File: file, Line: line, Replacement: repl}
		return textFix(g.Name(), description, 0.75, edit, source)
	}
	return adviseCode(g.Name(), description, fix.TypeConfigurationChange, 0.6, file, 0, snippet,
		"Set a value appropriate for your environment")
}

func defaultFor(key string) (string, bool) {
	leaf := strings.ToLower(key[strings.LastIndex(key, ".")+1:])
	for _, d := range keyDefaults {
		if strings.Contains(leaf, d.fragment) {
			return d.value, d.quoted
		}
	}
	return "", true
}

// keySnippet renders key with its default in the given format. Dotted keys
// become nested structures.
func keySnippet(format, key string) string {
	value, quoted := defaultFor(key)
	parts := strings.Split(key, ".")
	leaf := parts[len(parts)-1]

	switch format {
	case "json":
		v := value
		if quoted {
			v = fmt.Sprintf("%q", value)
		}
		out := fmt.Sprintf("%q: %s", leaf, v)
		for i := len(parts) - 2; i >= 0; i-- {
			out = fmt.Sprintf("%q: {%s}", parts[i], out)
		}
		return out
	case "toml":
		v := value
		if quoted {
			v = fmt.Sprintf("%q", value)
		}
		if len(parts) > 1 {
			return fmt.Sprintf("[%s]\n%s = %s", strings.Join(parts[:len(parts)-1], "."), leaf, v)
		}
		return fmt.Sprintf("%s = %s", leaf, v)
	default:
		v := value
		if quoted && value == "" {
			v = `""`
		}
		var b strings.Builder
		for i, p := range parts {
			b.WriteString(strings.Repeat("  ", i))
			b.WriteString(p)
			b.WriteString(":")
			if i == len(parts)-1 {
				b.WriteString(" " + v)
			} else {
				b.WriteString("\n")
			}
		}
		return b.String()
	}
}

// insertionPoint finds where a top-level key can be added to source and
// returns the line to rewrite with its replacement. Nested keys are left to
// the snippet.
func insertionPoint(format, key, source, snippet string) (sourceLine, string, bool) {
	if source == "" || strings.Contains(key, ".") {
		return sourceLine{}, "", false
	}
	lines := strings.Split(strings.TrimRight(source, "\n"), "\n")

	switch format {
	case "json":
		for i, l := range lines {
			if strings.TrimSpace(l) != "{" {
				continue
			}
			entry := "  " + snippet
			if i+1 < len(lines) && strings.TrimSpace(lines[i+1]) != "}" {
				entry += ","
			}
			return sourceLine{Number: i + 1, Text: l}, l + "\n" + entry, true
		}
	case "toml":
		for i, l := range lines {
			if strings.HasPrefix(strings.TrimSpace(l), "[") {
				return sourceLine{Number: i + 1, Text: l}, snippet + "\n" + l, true
			}
		}
		last := len(lines)
		return sourceLine{Number: last, Text: lines[last-1]}, lines[last-1] + "\n" + snippet, true
	case "yaml":
		last := len(lines)
		return sourceLine{Number: last, Text: lines[last-1]}, lines[last-1] + "\n" + snippet, true
	}
	return sourceLine{}, "", false
}

// ConfigSyntaxGenerator locates a syntax error in a configuration file and
// proposes the format's linter. 0.7 when the error is located in source,
// 0.55 otherwise.
type ConfigSyntaxGenerator struct{}

func (*ConfigSyntaxGenerator) Name() string { return "config_syntax" }

func (g *ConfigSyntaxGenerator) Generate(err faults.Error, params extraction.Parameters, source string) *fix.Autocorrection {
	ce, ok := faults.Subject(err).(*faults.ConfigError)
	if !ok || !(ce.Cause != nil || mentions(err, "syntax", "parse", "invalid", "unexpected")) {
		return nil
	}
	file := fileOf(params)
	format := params.Value("format")
	if format == "" {
		format = formatOfPath(file)
	}

	var lint string
	switch format {
	case "json":
		lint = "jsonlint --fix " + targetFile(file)
	case "yaml":
		lint = "yamllint -f parsable " + targetFile(file)
	case "toml":
		lint = "taplo lint " + targetFile(file)
	default:
		return nil
	}

	description := "Fix syntax error in configuration file " + file
	if file == "" {
		description = "Fix syntax error in " + format + " configuration"
	}
	loc, located := locateSyntaxError(format, source)
	if !located || loc.Line == 0 {
		return adviseCode(g.Name(), description, fix.TypeConfigurationChange, 0.55, file, lineOf(params), "",
			"Run the linter to find the offending line", fix.WithCommands(lint))
	}
	explanation := fmt.Sprintf("line %d: %s", loc.Line, loc.Message)
	return adviseCode(g.Name(), description, fix.TypeConfigurationChange, 0.7, file, loc.Line,
		strings.TrimSpace(lineAt(source, loc.Line)), explanation, fix.WithCommands(lint))
}
