package faults

import (
	"errors"
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/remedy/internal/sanitize"
)

// allVariants returns one instance of every variant, including zero values.
func allVariants() []Error {
	return []Error{
		IO("read", "/etc/app.yaml", fs.ErrNotExist),
		&IOError{},
		Parse("JSON", "config.json", errors.New("unexpected EOF")),
		&ParseError{},
		Network("Connection", "https://api.example.com", errors.New("connection refused")),
		&NetworkError{},
		Config("missing key: \"api_key\"", "config.yaml"),
		&ConfigError{},
		Validation("port", "must be positive"),
		&ValidationError{},
		Internal("invariant broken"),
		&InternalError{},
		CircuitOpen("payments", 30*time.Second),
		&CircuitBreakerOpenError{},
		Timeout("fetch", 5*time.Second),
		&TimeoutError{},
		Exhausted("memory", "512MB", "600MB"),
		&ResourceExhaustedError{},
		NotFound("file", "/tmp/config.json"),
		&NotFoundError{},
		StateConflict("already started"),
		&StateConflictError{},
		Concurrency("lock poisoned", nil),
		&ConcurrencyError{},
		ExternalService("billing", "502 bad gateway", nil),
		&ExternalServiceError{},
		MissingValue("api_key"),
		&MissingValueError{},
		Authentication("bad token"),
		&AuthenticationError{},
		Authorization("read denied"),
		&AuthorizationError{},
		Style("unnecessary braces around single import"),
		&StyleError{},
		Runtime("attempt to divide by zero"),
		&RuntimeError{},
		Multiple(NotFound("file", "a"), nil),
		&MultipleErrors{},
		Oops("boom", errors.New("cause")),
		&OopsError{},
		Wrap(NewContext("loading"), NotFound("file", "a")),
		&ContextError{},
	}
}

func TestCategory_Totality(t *testing.T) {
	for _, err := range allVariants() {
		assert.NotPanics(t, func() {
			c := err.Category()
			assert.True(t, c.Valid(), "%T has invalid category %v", err, c)
			assert.Equal(t, c, err.Category(), "category must be stable")
		})
		assert.NotPanics(t, func() { _ = err.Error() })
	}
}

func TestCategory_PerVariant(t *testing.T) {
	tests := []struct {
		name     string
		err      Error
		expected Category
	}{
		{"io", IO("read", "x", nil), CategoryIO},
		{"parse", Parse("YAML", "", nil), CategoryParsing},
		{"network", Network("TLS", "", nil), CategoryNetwork},
		{"config", Config("bad", ""), CategoryConfiguration},
		{"validation", Validation("f", "m"), CategoryValidation},
		{"missing value", MissingValue("x"), CategoryValidation},
		{"internal", Internal("m"), CategoryInternal},
		{"circuit breaker", CircuitOpen("b", 0), CategoryCircuitBreaker},
		{"timeout", Timeout("op", time.Second), CategoryTimeout},
		{"exhausted", Exhausted("r", "1", "2"), CategoryResourceExhaustion},
		{"not found", NotFound("file", "x"), CategoryNotFound},
		{"state conflict", StateConflict("m"), CategoryStateConflict},
		{"concurrency", Concurrency("m", nil), CategoryConcurrency},
		{"external", ExternalService("s", "m", nil), CategoryExternalService},
		{"authentication", Authentication("m"), CategoryAuthentication},
		{"authorization", Authorization("m"), CategoryAuthorization},
		{"style", Style("m"), CategoryStyle},
		{"runtime", Runtime("m"), CategoryRuntime},
		{"multiple", Multiple(IO("a", "b", nil)), CategoryMultiple},
		{"oops wrapping io cause", Oops("x", IO("read", "p", nil)), CategoryUnspecified},
		{"context delegates to inner", Wrap(NewContext("ctx"), Timeout("op", 0)), CategoryTimeout},
		{"nested context", Wrap(NewContext("a"), Wrap(NewContext("b"), Style("s"))), CategoryStyle},
		{"empty context", &ContextError{}, CategoryUnspecified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Category())
			assert.Equal(t, tt.expected, Classify(tt.err))
		})
	}
}

func TestCategory_CauseDoesNotChangeOuterCategory(t *testing.T) {
	err := IO("read", "/x", NotFound("file", "/x"))
	assert.Equal(t, CategoryIO, err.Category())
}

func TestError_Display(t *testing.T) {
	tests := []struct {
		name     string
		err      Error
		expected string
	}{
		{
			name:     "io with cause",
			err:      IO("read", "/etc/app.yaml", errors.New("permission denied")),
			expected: "I/O error during operation 'read' on path '/etc/app.yaml': permission denied",
		},
		{
			name:     "io without path",
			err:      IO("write", "", nil),
			expected: "I/O error during operation 'write' on path 'N/A'",
		},
		{
			name:     "parse",
			err:      Parse("JSON", "line 3", errors.New("unexpected token")),
			expected: "JSON parsing error: unexpected token (line 3)",
		},
		{
			name:     "network",
			err:      Network("Connection", "", errors.New("connection refused")),
			expected: "Connection network error: connection refused (URL: N/A)",
		},
		{
			name:     "config with path",
			err:      Config("missing key: host", "app.toml"),
			expected: "Configuration error in 'app.toml': missing key: host",
		},
		{
			name:     "config with cause",
			err:      &ConfigError{Message: "bad", Cause: errors.New("eof")},
			expected: "Configuration error: bad (eof)",
		},
		{
			name:     "validation with expectation",
			err:      &ValidationError{Field: "port", Message: "out of range", Expected: "1-65535", Actual: "0"},
			expected: "Validation error for 'port': out of range (expected 1-65535, got 0)",
		},
		{
			name:     "circuit breaker with retry",
			err:      CircuitOpen("db", 30*time.Second),
			expected: "Circuit breaker 'db' is open. Retry after 30s",
		},
		{
			name:     "circuit breaker without retry",
			err:      CircuitOpen("db", 0),
			expected: "Circuit breaker 'db' is open",
		},
		{
			name:     "timeout",
			err:      Timeout("fetch", 1500*time.Millisecond),
			expected: "Operation 'fetch' timed out after 1.5s",
		},
		{
			name:     "exhausted",
			err:      Exhausted("connections", "100", "101"),
			expected: "Resource 'connections' exhausted: 101 (limit: 100)",
		},
		{
			name:     "not found",
			err:      NotFound("file", "/tmp/config.json"),
			expected: "file not found: /tmp/config.json",
		},
		{
			name:     "missing value",
			err:      MissingValue("api_key"),
			expected: "Missing value: api_key",
		},
		{
			name:     "multiple",
			err:      Multiple(NotFound("file", "a"), Style("b")),
			expected: "Multiple errors (2 total):\n  1. file not found: a\n  2. Style issue: b",
		},
		{
			name:     "context",
			err:      Wrap(NewContext("loading settings"), NotFound("file", "a")),
			expected: "loading settings: file not found: a",
		},
		{
			name:     "oops",
			err:      Oops("startup failed", errors.New("boom")),
			expected: "startup failed: boom",
		},
		{
			name:     "oops from plain error",
			err:      From(errors.New("boom")),
			expected: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestError_DisplayEscapesControlCharacters(t *testing.T) {
	err := NotFound("file", "/tmp/\x1b[31mevil")
	assert.True(t, sanitize.Clean(err.Error()))
	assert.Contains(t, err.Error(), `\x1b`)
}

func TestError_StandardLibraryInterop(t *testing.T) {
	err := Wrap(NewContext("ctx"), IO("open", "/x", fs.ErrNotExist))
	assert.ErrorIs(t, err, fs.ErrNotExist)

	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "/x", ioErr.Path)

	multi := Multiple(Timeout("a", 0), NotFound("file", "b"))
	var nf *NotFoundError
	require.ErrorAs(t, multi, &nf)
	assert.Equal(t, "b", nf.Identifier)
}

func TestFrom(t *testing.T) {
	assert.Nil(t, From(nil))

	nf := NotFound("file", "x")
	assert.Same(t, nf, From(nf))

	plain := errors.New("plain")
	lifted := From(plain)
	assert.Equal(t, CategoryUnspecified, lifted.Category())
	assert.ErrorIs(t, lifted, plain)
}
