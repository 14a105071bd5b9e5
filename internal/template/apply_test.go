package template

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name     string
		tmpl     string
		values   map[string]string
		expected string
	}{
		{
			name:     "single placeholder",
			tmpl:     "Missing file at path '{path}'",
			values:   map[string]string{"path": "/a/b"},
			expected: "Missing file at path '/a/b'",
		},
		{
			name:     "repeated placeholder",
			tmpl:     "{x}-{x}",
			values:   map[string]string{"x": "1"},
			expected: "1-1",
		},
		{
			name:     "unmatched left verbatim",
			tmpl:     "mkdir -p {dir} && touch {path}",
			values:   map[string]string{"path": "/tmp/a"},
			expected: "mkdir -p {dir} && touch /tmp/a",
		},
		{
			name:     "code braces untouched",
			tmpl:     "impl {trait} for {type} {\n}",
			values:   map[string]string{"trait": "Debug", "type": "Foo"},
			expected: "impl Debug for Foo {\n}",
		},
		{
			name:     "empty braces untouched",
			tmpl:     "println!(\"{}\", {name})",
			values:   map[string]string{"name": "x"},
			expected: "println!(\"{}\", x)",
		},
		{
			name:     "values are not rescanned",
			tmpl:     "{a} {b}",
			values:   map[string]string{"a": "{b}", "b": "B"},
			expected: "{b} B",
		},
		{
			name:     "dotted keys",
			tmpl:     "region {meta.region}",
			values:   map[string]string{"meta.region": "eu"},
			expected: "region eu",
		},
		{
			name:     "empty value substitutes",
			tmpl:     "[{x}]",
			values:   map[string]string{"x": ""},
			expected: "[]",
		},
		{
			name:     "unterminated brace",
			tmpl:     "tail {path",
			values:   map[string]string{"path": "p"},
			expected: "tail {path",
		},
		{
			name:     "utf8 preserved",
			tmpl:     "héllo {name} ✓",
			values:   map[string]string{"name": "wörld"},
			expected: "héllo wörld ✓",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Apply(tt.tmpl, tt.values))
		})
	}
}

func TestApply_IdempotentOnFullSubstitution(t *testing.T) {
	tmpl := "Resource '{resource}' at {path} needs {action}"
	values := map[string]string{"resource": "file", "path": "/tmp/x", "action": "create"}

	first := Apply(tmpl, values)
	second := Apply(tmpl, values)
	assert.Equal(t, first, second)
	assert.False(t, strings.ContainsAny(first, "{}"))
	assert.Empty(t, Missing(tmpl, values))
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Placeholders("{a} {b} {a} {} {c"))
	assert.Nil(t, Placeholders("no tokens"))
}

func TestMissing(t *testing.T) {
	assert.Equal(t, []string{"dir"}, Missing("{dir}/{file}", map[string]string{"file": "x"}))
}
