package faults

import (
	"maps"
	"slices"
	"time"

	"github.com/fyrsmithlabs/remedy/internal/sanitize"
)

// ErrorLocation is a position in a source file. Line and Column are 1-based;
// zero means unknown.
type ErrorLocation struct {
	File   string
	Line   int
	Column int
	Scope  string
}

// DiagnosticResult is structured output from a compiler, linter or other
// tool that produced the error.
type DiagnosticResult struct {
	PrimaryLocation *ErrorLocation
	SuggestedFixes  []string
	OriginalMessage string
	DiagnosticCode  string
}

// Clone returns a deep copy of d. Clone of nil is nil.
func (d *DiagnosticResult) Clone() *DiagnosticResult {
	if d == nil {
		return nil
	}
	out := *d
	if d.PrimaryLocation != nil {
		loc := *d.PrimaryLocation
		out.PrimaryLocation = &loc
	}
	out.SuggestedFixes = slices.Clone(d.SuggestedFixes)
	return &out
}

// ErrorContext is the rich context attached to an error at its wrap site.
// It is immutable once built; accessors return copies.
type ErrorContext struct {
	message            string
	severity           Severity
	recoverySuggestion string
	correlationID      string
	component          string
	tags               []string
	metadata           map[string]string
	diagnostic         *DiagnosticResult
	timestamp          time.Time
}

// ContextOption configures an ErrorContext.
type ContextOption func(*ErrorContext)

// NewContext builds an ErrorContext with severity SeverityError unless an
// option overrides it.
func NewContext(message string, opts ...ContextOption) *ErrorContext {
	c := &ErrorContext{
		message:  message,
		severity: SeverityError,
		metadata: map[string]string{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func WithSeverity(s Severity) ContextOption {
	return func(c *ErrorContext) { c.severity = s }
}

func WithRecoverySuggestion(s string) ContextOption {
	return func(c *ErrorContext) { c.recoverySuggestion = s }
}

func WithCorrelationID(id string) ContextOption {
	return func(c *ErrorContext) { c.correlationID = id }
}

func WithComponent(name string) ContextOption {
	return func(c *ErrorContext) { c.component = name }
}

// WithTags adds tags. Duplicates are dropped and first-seen order is kept.
func WithTags(tags ...string) ContextOption {
	return func(c *ErrorContext) {
		for _, t := range tags {
			if t != "" && !slices.Contains(c.tags, t) {
				c.tags = append(c.tags, t)
			}
		}
	}
}

func WithMetadata(key, value string) ContextOption {
	return func(c *ErrorContext) { c.metadata[key] = value }
}

// WithDiagnostic attaches a copy of d.
func WithDiagnostic(d *DiagnosticResult) ContextOption {
	return func(c *ErrorContext) { c.diagnostic = d.Clone() }
}

func WithTimestamp(t time.Time) ContextOption {
	return func(c *ErrorContext) { c.timestamp = t }
}

func (c *ErrorContext) Message() string            { return c.message }
func (c *ErrorContext) Severity() Severity         { return c.severity }
func (c *ErrorContext) RecoverySuggestion() string { return c.recoverySuggestion }
func (c *ErrorContext) CorrelationID() string      { return c.correlationID }
func (c *ErrorContext) Component() string          { return c.component }
func (c *ErrorContext) Timestamp() time.Time       { return c.timestamp }
func (c *ErrorContext) Tags() []string             { return slices.Clone(c.tags) }
func (c *ErrorContext) Metadata() map[string]string {
	return maps.Clone(c.metadata)
}

// HasTag reports whether tag was attached.
func (c *ErrorContext) HasTag(tag string) bool {
	return slices.Contains(c.tags, tag)
}

// Diagnostic returns a copy of the embedded diagnostic, or nil.
func (c *ErrorContext) Diagnostic() *DiagnosticResult {
	return c.diagnostic.Clone()
}

// ContextError wraps an Error with an ErrorContext.
type ContextError struct {
	sealed
	Context *ErrorContext
	Inner   Error
}

// Wrap attaches ctx to err.
func Wrap(ctx *ErrorContext, err Error) *ContextError {
	if ctx == nil {
		ctx = NewContext("")
	}
	return &ContextError{Context: ctx, Inner: err}
}

// Category reports the category of the wrapped error. The context record
// describes the error; it does not change what kind of error it is.
func (e *ContextError) Category() Category {
	if e == nil || e.Inner == nil {
		return CategoryUnspecified
	}
	return e.Inner.Category()
}

func (e *ContextError) Unwrap() error {
	if e.Inner == nil {
		return nil
	}
	return e.Inner
}

func (e *ContextError) Error() string {
	msg := ""
	if e.Context != nil {
		msg = e.Context.Message()
	}
	switch {
	case e.Inner == nil:
		return sanitize.Text(msg)
	case msg == "":
		return e.Inner.Error()
	default:
		return sanitize.Text(msg + ": " + e.Inner.Error())
	}
}
