package faults

import (
	"fmt"
	"strings"
	"time"

	"github.com/fyrsmithlabs/remedy/internal/sanitize"
)

// Error is implemented by every variant in this package. The set of
// implementations is closed.
type Error interface {
	error
	Category() Category
	fault()
}

// sealed is embedded by every variant to close the Error interface.
type sealed struct{}

func (sealed) fault() {}

// IOError reports a failed filesystem or stream operation.
type IOError struct {
	sealed
	Op    string
	Path  string
	Cause error
}

func (e *IOError) Category() Category { return CategoryIO }
func (e *IOError) Unwrap() error      { return e.Cause }

func (e *IOError) Error() string {
	path := e.Path
	if path == "" {
		path = "N/A"
	}
	msg := fmt.Sprintf("I/O error during operation '%s' on path '%s'", e.Op, path)
	return sanitize.Text(withCause(msg, ": ", e.Cause))
}

// ParseError reports malformed input. Kind names the format, such as JSON,
// YAML or TOML.
type ParseError struct {
	sealed
	Kind    string
	Context string
	Cause   error
}

func (e *ParseError) Category() Category { return CategoryParsing }
func (e *ParseError) Unwrap() error      { return e.Cause }

func (e *ParseError) Error() string {
	msg := withCause(fmt.Sprintf("%s parsing error", e.Kind), ": ", e.Cause)
	if e.Context != "" {
		msg += " (" + e.Context + ")"
	}
	return sanitize.Text(msg)
}

// NetworkError reports a failed remote call. Kind classifies the failure,
// for example Connection, DNS or TLS.
type NetworkError struct {
	sealed
	Kind  string
	URL   string
	Cause error
}

func (e *NetworkError) Category() Category { return CategoryNetwork }
func (e *NetworkError) Unwrap() error      { return e.Cause }

func (e *NetworkError) Error() string {
	url := e.URL
	if url == "" {
		url = "N/A"
	}
	msg := withCause(fmt.Sprintf("%s network error", e.Kind), ": ", e.Cause)
	return sanitize.Text(fmt.Sprintf("%s (URL: %s)", msg, url))
}

// ConfigError reports invalid or missing configuration.
type ConfigError struct {
	sealed
	Message string
	Path    string
	Cause   error
}

func (e *ConfigError) Category() Category { return CategoryConfiguration }
func (e *ConfigError) Unwrap() error      { return e.Cause }

func (e *ConfigError) Error() string {
	var msg string
	if e.Path != "" {
		msg = fmt.Sprintf("Configuration error in '%s': %s", e.Path, e.Message)
	} else {
		msg = "Configuration error: " + e.Message
	}
	if e.Cause != nil {
		msg += " (" + e.Cause.Error() + ")"
	}
	return sanitize.Text(msg)
}

// ValidationError reports a value that failed a rule.
type ValidationError struct {
	sealed
	Field    string
	Message  string
	Expected string
	Actual   string
	Rule     string
}

func (e *ValidationError) Category() Category { return CategoryValidation }

func (e *ValidationError) Error() string {
	var msg string
	if e.Field != "" {
		msg = fmt.Sprintf("Validation error for '%s': %s", e.Field, e.Message)
	} else {
		msg = "Validation error: " + e.Message
	}
	if e.Expected != "" || e.Actual != "" {
		msg += fmt.Sprintf(" (expected %s, got %s)", e.Expected, e.Actual)
	}
	return sanitize.Text(msg)
}

// InternalError reports a bug or broken invariant inside a component.
type InternalError struct {
	sealed
	Message   string
	Component string
	Cause     error
}

func (e *InternalError) Category() Category { return CategoryInternal }
func (e *InternalError) Unwrap() error      { return e.Cause }

func (e *InternalError) Error() string {
	msg := "Internal error: " + e.Message
	if e.Component != "" {
		msg = fmt.Sprintf("Internal error in '%s': %s", e.Component, e.Message)
	}
	if e.Cause != nil {
		msg += " (" + e.Cause.Error() + ")"
	}
	return sanitize.Text(msg)
}

// CircuitBreakerOpenError reports a call rejected by an open breaker.
// RetryAfter is zero when the breaker did not say.
type CircuitBreakerOpenError struct {
	sealed
	Name       string
	RetryAfter time.Duration
}

func (e *CircuitBreakerOpenError) Category() Category { return CategoryCircuitBreaker }

func (e *CircuitBreakerOpenError) Error() string {
	msg := fmt.Sprintf("Circuit breaker '%s' is open", e.Name)
	if e.RetryAfter > 0 {
		msg += fmt.Sprintf(". Retry after %v", e.RetryAfter)
	}
	return sanitize.Text(msg)
}

// TimeoutError reports an operation that exceeded its deadline.
type TimeoutError struct {
	sealed
	Operation string
	Duration  time.Duration
}

func (e *TimeoutError) Category() Category { return CategoryTimeout }

func (e *TimeoutError) Error() string {
	return sanitize.Text(fmt.Sprintf("Operation '%s' timed out after %v", e.Operation, e.Duration))
}

// ResourceExhaustedError reports a quota or capacity limit being hit.
type ResourceExhaustedError struct {
	sealed
	Resource string
	Limit    string
	Current  string
}

func (e *ResourceExhaustedError) Category() Category { return CategoryResourceExhaustion }

func (e *ResourceExhaustedError) Error() string {
	return sanitize.Text(fmt.Sprintf("Resource '%s' exhausted: %s (limit: %s)", e.Resource, e.Current, e.Limit))
}

// NotFoundError reports a missing resource. Identifier is usually a path,
// name or key.
type NotFoundError struct {
	sealed
	ResourceType string
	Identifier   string
}

func (e *NotFoundError) Category() Category { return CategoryNotFound }

func (e *NotFoundError) Error() string {
	return sanitize.Text(fmt.Sprintf("%s not found: %s", e.ResourceType, e.Identifier))
}

// StateConflictError reports an operation invalid for the current state.
type StateConflictError struct {
	sealed
	Message string
}

func (e *StateConflictError) Category() Category { return CategoryStateConflict }

func (e *StateConflictError) Error() string {
	return sanitize.Text("State conflict: " + e.Message)
}

// ConcurrencyError reports a lock, channel or synchronization failure.
type ConcurrencyError struct {
	sealed
	Message string
	Cause   error
}

func (e *ConcurrencyError) Category() Category { return CategoryConcurrency }
func (e *ConcurrencyError) Unwrap() error      { return e.Cause }

func (e *ConcurrencyError) Error() string {
	return sanitize.Text(withCause("Concurrency error: "+e.Message, ": ", e.Cause))
}

// ExternalServiceError reports a failure returned by a dependency.
type ExternalServiceError struct {
	sealed
	Service string
	Message string
	Cause   error
}

func (e *ExternalServiceError) Category() Category { return CategoryExternalService }
func (e *ExternalServiceError) Unwrap() error      { return e.Cause }

func (e *ExternalServiceError) Error() string {
	msg := fmt.Sprintf("External service '%s' error: %s", e.Service, e.Message)
	return sanitize.Text(withCause(msg, ": ", e.Cause))
}

// MissingValueError reports a required value that was never provided.
// It classifies as validation.
type MissingValueError struct {
	sealed
	Item string
}

func (e *MissingValueError) Category() Category { return CategoryValidation }

func (e *MissingValueError) Error() string {
	return sanitize.Text("Missing value: " + e.Item)
}

// AuthenticationError reports a caller whose identity could not be verified.
type AuthenticationError struct {
	sealed
	Message string
}

func (e *AuthenticationError) Category() Category { return CategoryAuthentication }

func (e *AuthenticationError) Error() string {
	return sanitize.Text("Authentication failed: " + e.Message)
}

// AuthorizationError reports a verified caller lacking permission.
type AuthorizationError struct {
	sealed
	Message string
}

func (e *AuthorizationError) Category() Category { return CategoryAuthorization }

func (e *AuthorizationError) Error() string {
	return sanitize.Text("Authorization denied: " + e.Message)
}

// StyleError reports a lint or formatting finding.
type StyleError struct {
	sealed
	Message string
}

func (e *StyleError) Category() Category { return CategoryStyle }

func (e *StyleError) Error() string {
	return sanitize.Text("Style issue: " + e.Message)
}

// RuntimeError reports a failure observed while a program was running,
// such as a panic or an arithmetic fault.
type RuntimeError struct {
	sealed
	Message string
}

func (e *RuntimeError) Category() Category { return CategoryRuntime }

func (e *RuntimeError) Error() string {
	return sanitize.Text("Runtime error: " + e.Message)
}

// MultipleErrors aggregates independent failures in the order they occurred.
type MultipleErrors struct {
	sealed
	Errors []Error
}

func (e *MultipleErrors) Category() Category { return CategoryMultiple }

func (e *MultipleErrors) Unwrap() []error {
	out := make([]error, 0, len(e.Errors))
	for _, err := range e.Errors {
		if err != nil {
			out = append(out, err)
		}
	}
	return out
}

func (e *MultipleErrors) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Multiple errors (%d total):", len(e.Errors))
	for i, err := range e.Errors {
		text := "<nil>"
		if err != nil {
			text = err.Error()
		}
		fmt.Fprintf(&b, "\n  %d. %s", i+1, text)
	}
	return sanitize.Text(b.String())
}

// OopsError lifts a plain Go error into the model without classifying it.
type OopsError struct {
	sealed
	Message string
	Cause   error
}

func (e *OopsError) Category() Category { return CategoryUnspecified }
func (e *OopsError) Unwrap() error      { return e.Cause }

func (e *OopsError) Error() string {
	if e.Message == "" && e.Cause != nil {
		return sanitize.Text(e.Cause.Error())
	}
	return sanitize.Text(withCause(e.Message, ": ", e.Cause))
}

func withCause(msg, sep string, cause error) string {
	if cause == nil {
		return msg
	}
	return msg + sep + cause.Error()
}

// Constructors

func IO(op, path string, cause error) *IOError {
	return &IOError{Op: op, Path: path, Cause: cause}
}

func Parse(kind, context string, cause error) *ParseError {
	return &ParseError{Kind: kind, Context: context, Cause: cause}
}

func Network(kind, url string, cause error) *NetworkError {
	return &NetworkError{Kind: kind, URL: url, Cause: cause}
}

func Config(message, path string) *ConfigError {
	return &ConfigError{Message: message, Path: path}
}

func Validation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func Internal(message string) *InternalError {
	return &InternalError{Message: message}
}

func CircuitOpen(name string, retryAfter time.Duration) *CircuitBreakerOpenError {
	return &CircuitBreakerOpenError{Name: name, RetryAfter: retryAfter}
}

func Timeout(operation string, d time.Duration) *TimeoutError {
	return &TimeoutError{Operation: operation, Duration: d}
}

func Exhausted(resource, limit, current string) *ResourceExhaustedError {
	return &ResourceExhaustedError{Resource: resource, Limit: limit, Current: current}
}

func NotFound(resourceType, identifier string) *NotFoundError {
	return &NotFoundError{ResourceType: resourceType, Identifier: identifier}
}

func StateConflict(message string) *StateConflictError {
	return &StateConflictError{Message: message}
}

func Concurrency(message string, cause error) *ConcurrencyError {
	return &ConcurrencyError{Message: message, Cause: cause}
}

func ExternalService(service, message string, cause error) *ExternalServiceError {
	return &ExternalServiceError{Service: service, Message: message, Cause: cause}
}

func MissingValue(item string) *MissingValueError {
	return &MissingValueError{Item: item}
}

func Authentication(message string) *AuthenticationError {
	return &AuthenticationError{Message: message}
}

func Authorization(message string) *AuthorizationError {
	return &AuthorizationError{Message: message}
}

func Style(message string) *StyleError {
	return &StyleError{Message: message}
}

func Runtime(message string) *RuntimeError {
	return &RuntimeError{Message: message}
}

func Multiple(errs ...Error) *MultipleErrors {
	return &MultipleErrors{Errors: errs}
}

func Oops(message string, cause error) *OopsError {
	return &OopsError{Message: message, Cause: cause}
}
