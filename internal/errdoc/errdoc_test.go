package errdoc

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/remedy/internal/faults"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		want     faults.Category
		wantText string
	}{
		{
			name: "not found yaml",
			doc: `
kind: not_found
fields:
  resource_type: file
  identifier: /tmp/config.json
`,
			want:     faults.CategoryNotFound,
			wantText: "file not found: /tmp/config.json",
		},
		{
			name:     "json document",
			doc:      `{"kind": "validation", "message": "unused import: ` + "`std::io`" + `"}`,
			want:     faults.CategoryValidation,
			wantText: "Validation error: unused import: `std::io`",
		},
		{
			name:     "io with cause",
			doc:      "kind: io\nfields: {operation: open, path: /etc/app.conf}\ncause: permission denied\n",
			want:     faults.CategoryIO,
			wantText: "I/O error during operation 'open' on path '/etc/app.conf': permission denied",
		},
		{
			name:     "timeout seconds",
			doc:      "kind: timeout\nfields: {operation: fetch, duration: 30}\n",
			want:     faults.CategoryTimeout,
			wantText: "Operation 'fetch' timed out after 30s",
		},
		{
			name:     "circuit breaker duration syntax",
			doc:      "kind: circuit_breaker_open\nfields: {name: payments, retry_after: 1m}\n",
			want:     faults.CategoryCircuitBreaker,
			wantText: "Circuit breaker 'payments' is open. Retry after 1m0s",
		},
		{
			name:     "kind suffix and case",
			doc:      "kind: Internal_Error\nmessage: boom\n",
			want:     faults.CategoryInternal,
			wantText: "Internal error: boom",
		},
		{
			name:     "bare message",
			doc:      "something broke\n",
			want:     faults.CategoryUnspecified,
			wantText: "something broke",
		},
		{
			name: "multiple",
			doc: `
kind: multiple
errors:
  - kind: style
    message: trailing whitespace
  - kind: runtime
    message: attempt to divide by zero
`,
			want: faults.CategoryMultiple,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Category())
			if tt.wantText != "" {
				assert.Equal(t, tt.wantText, got.Error())
			}
		})
	}
}

func TestParseContext(t *testing.T) {
	doc := `
kind: style
message: "expected ` + "`;`" + `"
context:
  message: build failed
  severity: warning
  component: rustc
  tags: [lint, build]
  metadata:
    crate: demo
  diagnostic:
    code: E0308
    message: mismatched types
    file: src/main.rs
    line: 2
    column: 14
    suggested_fixes: ["let x = 5;"]
`
	got, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, faults.CategoryStyle, got.Category())

	ctx := faults.ContextOf(got)
	require.NotNil(t, ctx)
	assert.Equal(t, "build failed", ctx.Message())
	assert.Equal(t, faults.SeverityWarning, ctx.Severity())
	assert.Equal(t, "rustc", ctx.Component())
	assert.True(t, ctx.HasTag("lint"))
	assert.Equal(t, "demo", ctx.Metadata()["crate"])

	diag := faults.DiagnosticOf(got)
	require.NotNil(t, diag)
	assert.Equal(t, "E0308", diag.DiagnosticCode)
	require.NotNil(t, diag.PrimaryLocation)
	assert.Equal(t, 2, diag.PrimaryLocation.Line)
	assert.Equal(t, 14, diag.PrimaryLocation.Column)
	assert.Equal(t, []string{"let x = 5;"}, diag.SuggestedFixes)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{name: "empty", doc: "  \n", wantErr: ErrInvalidDocument},
		{name: "unknown kind", doc: "kind: meteor\n", wantErr: ErrUnknownKind},
		{name: "no kind no message", doc: "fields: {a: b}\n", wantErr: ErrInvalidDocument},
		{name: "bad duration", doc: "kind: timeout\nfields: {duration: soon}\n", wantErr: ErrInvalidDocument},
		{name: "nested unknown", doc: "kind: multiple\nerrors:\n  - kind: meteor\n", wantErr: ErrUnknownKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := Parse([]byte("kind: [unclosed"))
	assert.Error(t, err)
}

func TestDurationField(t *testing.T) {
	d, err := fields{"d": "1.5"}.duration("d")
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, d)
}
