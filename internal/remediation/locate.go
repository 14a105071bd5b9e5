package remediation

import (
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// syntaxLocation is where a decoder gave up on a document.
type syntaxLocation struct {
	Line    int
	Column  int
	Message string
}

var yamlLineRe = regexp.MustCompile(`line (\d+)(?:, column (\d+))?:\s*(.*)`)

// locateSyntaxError decodes source as format and reports the first syntax
// error. ok is false when the document decodes or the format is unknown.
func locateSyntaxError(format, source string) (syntaxLocation, bool) {
	if strings.TrimSpace(source) == "" {
		return syntaxLocation{}, false
	}
	switch format {
	case "json":
		var v any
		err := json.Unmarshal([]byte(source), &v)
		var serr *json.SyntaxError
		if errors.As(err, &serr) {
			line, col := offsetToLineColumn(source, int(serr.Offset))
			return syntaxLocation{Line: line, Column: col, Message: serr.Error()}, true
		}
		if err != nil {
			return syntaxLocation{Message: err.Error()}, true
		}
	case "yaml":
		var node yaml.Node
		if err := yaml.Unmarshal([]byte(source), &node); err != nil {
			loc := syntaxLocation{Message: strings.TrimPrefix(err.Error(), "yaml: ")}
			if m := yamlLineRe.FindStringSubmatch(err.Error()); m != nil {
				loc.Line, _ = strconv.Atoi(m[1])
				loc.Column, _ = strconv.Atoi(m[2])
				loc.Message = m[3]
			}
			return loc, true
		}
	case "toml":
		var v map[string]any
		_, err := toml.Decode(source, &v)
		var perr toml.ParseError
		if errors.As(err, &perr) {
			return syntaxLocation{Line: perr.Position.Line, Column: perr.Position.Col, Message: perr.Message}, true
		}
		if err != nil {
			return syntaxLocation{Message: err.Error()}, true
		}
	}
	return syntaxLocation{}, false
}

// offsetToLineColumn converts a byte offset into 1-based line and column.
// json.SyntaxError offsets point just past the offending byte.
func offsetToLineColumn(source string, offset int) (int, int) {
	if offset > len(source) {
		offset = len(source)
	}
	if offset > 0 {
		offset--
	}
	line := 1 + strings.Count(source[:offset], "\n")
	col := offset - strings.LastIndex(source[:offset], "\n")
	return line, col
}

// lineAt returns the 1-based line n of source, or "".
func lineAt(source string, n int) string {
	lines := strings.Split(source, "\n")
	if n < 1 || n > len(lines) {
		return ""
	}
	return lines[n-1]
}
