package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain text unchanged", input: "file not found", expected: "file not found"},
		{name: "newline kept", input: "line1\nline2", expected: "line1\nline2"},
		{name: "tab kept", input: "a\tb", expected: "a\tb"},
		{name: "escape sequence escaped", input: "a\x1b[31mb", expected: `a\x1b[31mb`},
		{name: "nul escaped", input: "a\x00b", expected: `a\x00b`},
		{name: "carriage return escaped", input: "a\rb", expected: `a\x0db`},
		{name: "c1 control escaped", input: "a\u0085b", expected: `a\u0085b`},
		{name: "invalid utf8 replaced", input: "a\xffb", expected: "a�b"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Text(tt.input)
			assert.Equal(t, tt.expected, got)
			assert.True(t, Clean(got))
		})
	}
}

func TestLine(t *testing.T) {
	assert.Equal(t, `mkdir -p /tmp\x0arm -rf /`, Line("mkdir -p /tmp\nrm -rf /"))
	assert.Equal(t, `a\x09b`, Line("a\tb"))
	assert.Equal(t, "touch /tmp/a", Line("touch /tmp/a"))
}

func TestClean(t *testing.T) {
	assert.True(t, Clean("ok\n\tok"))
	assert.False(t, Clean("bell\a"))
	assert.False(t, Clean("bad\xff"))
}
