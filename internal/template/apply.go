package template

import (
	"strings"
)

// Apply replaces each {key} token in tmpl with values[key]. A token is a
// brace-delimited run of letters, digits, '_', '.' or '-'. Tokens with no
// value and braces that do not form a token are copied unchanged.
// Substituted text is not rescanned.
func Apply(tmpl string, values map[string]string) string {
	if !strings.Contains(tmpl, "{") {
		return tmpl
	}

	var b strings.Builder
	b.Grow(len(tmpl))
	for i := 0; i < len(tmpl); {
		key, end, ok := tokenAt(tmpl, i)
		if !ok {
			b.WriteByte(tmpl[i])
			i++
			continue
		}
		if v, found := values[key]; found {
			b.WriteString(v)
		} else {
			b.WriteString(tmpl[i:end])
		}
		i = end
	}
	return b.String()
}

// Placeholders returns the distinct token names in tmpl in order of first
// appearance.
func Placeholders(tmpl string) []string {
	var out []string
	seen := map[string]bool{}
	for i := 0; i < len(tmpl); {
		key, end, ok := tokenAt(tmpl, i)
		if !ok {
			i++
			continue
		}
		if !seen[key] {
			seen[key] = true
			out = append(out, key)
		}
		i = end
	}
	return out
}

// Missing returns the placeholders of tmpl with no entry in values.
func Missing(tmpl string, values map[string]string) []string {
	var out []string
	for _, key := range Placeholders(tmpl) {
		if _, ok := values[key]; !ok {
			out = append(out, key)
		}
	}
	return out
}

// tokenAt reports whether a token starts at s[i]. It returns the key and the
// index just past the closing brace.
func tokenAt(s string, i int) (string, int, bool) {
	if s[i] != '{' {
		return "", 0, false
	}
	j := i + 1
	for j < len(s) && isKeyByte(s[j]) {
		j++
	}
	if j == i+1 || j >= len(s) || s[j] != '}' {
		return "", 0, false
	}
	return s[i+1 : j], j + 1, true
}

func isKeyByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '.' || c == '-'
}
