package remediation

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fyrsmithlabs/remedy/internal/extraction"
	"github.com/fyrsmithlabs/remedy/internal/faults"
	"github.com/fyrsmithlabs/remedy/internal/fix"
)

// JSONParseGenerator points at the JSON syntax error. With source the
// location comes from decoding it, 0.7; otherwise 0.5.
type JSONParseGenerator struct{}

func (*JSONParseGenerator) Name() string { return "json_parse" }

func (g *JSONParseGenerator) Generate(err faults.Error, params extraction.Parameters, source string) *fix.Autocorrection {
	if !parseErrorOf(err, params, "json", "invalid character", "unexpected end of json input") {
		return nil
	}
	file := fileOf(params)
	lint := "jsonlint --fix " + targetFile(file)
	return parseFix(g.Name(), "Fix JSON parsing error", "json", file, source, params, lint,
		"Check for trailing commas, unquoted keys and unbalanced brackets")
}

// YAMLParseGenerator points at the YAML syntax error and hints at the usual
// cause. Confidence matches JSONParseGenerator.
type YAMLParseGenerator struct{}

func (*YAMLParseGenerator) Name() string { return "yaml_parse" }

func (g *YAMLParseGenerator) Generate(err faults.Error, params extraction.Parameters, source string) *fix.Autocorrection {
	if !parseErrorOf(err, params, "yaml", "yaml:") {
		return nil
	}
	hint := "Check your indentation"
	if mentions(err, "did not find expected", "unexpected end", "could not find expected") {
		hint = "Check for incomplete structures"
	}
	file := fileOf(params)
	lint := "yamllint -f parsable " + targetFile(file)
	return parseFix(g.Name(), "Fix YAML parsing error", "yaml", file, source, params, lint, hint)
}

// parseErrorOf reports whether err is a parse error in format, judged by the
// variant's kind, the file extension or phrases in the message.
func parseErrorOf(err faults.Error, params extraction.Parameters, format string, phrases ...string) bool {
	pe, ok := faults.Subject(err).(*faults.ParseError)
	if !ok {
		return false
	}
	if strings.EqualFold(pe.Kind, format) || params.Value("format") == format {
		return true
	}
	if f := fileOf(params); f != "" && formatOfPath(f) == format {
		return true
	}
	return mentions(err, phrases...)
}

func parseFix(gen, description, format, file, source string, params extraction.Parameters, lint, hint string) *fix.Autocorrection {
	line, col := lineOf(params), columnOf(params)
	confidence := 0.5
	if loc, ok := locateSyntaxError(format, source); ok && loc.Line > 0 {
		line, col, confidence = loc.Line, loc.Column, 0.7
		hint = loc.Message + ". " + hint
	}
	if line > 0 {
		description = fmt.Sprintf("%s at line %d", description, line)
		if col > 0 {
			description = fmt.Sprintf("%s, column %d", description, col)
		}
	}
	return adviseCode(gen, description, fix.TypeManualIntervention, confidence, file, line,
		strings.TrimSpace(lineAt(source, line)), hint, fix.WithCommands(lint))
}

func formatOfPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	default:
		return ""
	}
}

func targetFile(file string) string {
	if file == "" {
		return "<file>"
	}
	return quoteShell(file)
}
