package faults

import (
	"errors"
)

// maxChainDepth bounds every chain walk.
const maxChainDepth = 64

// Classify returns the category of err. It is total over error: nil and
// errors outside this package classify as CategoryUnspecified.
func Classify(err error) Category {
	if e, ok := err.(Error); ok {
		return e.Category()
	}
	return CategoryUnspecified
}

// From lifts err into the model. Errors already in the model are returned
// unchanged; anything else becomes an OopsError. From(nil) is nil.
func From(err error) Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(Error); ok {
		return e
	}
	return &OopsError{Cause: err}
}

// Chain returns err followed by each error reached through single-error
// Unwrap, outermost first.
func Chain(err error) []error {
	var out []error
	for err != nil && len(out) < maxChainDepth {
		out = append(out, err)
		err = errors.Unwrap(err)
	}
	return out
}

// Subject returns the innermost non-context variant under any number of
// ContextError layers. A ContextError with no Inner is returned as is.
func Subject(err Error) Error {
	for i := 0; i < maxChainDepth; i++ {
		ce, ok := err.(*ContextError)
		if !ok || ce == nil || ce.Inner == nil {
			return err
		}
		err = ce.Inner
	}
	return err
}

// ContextOf returns the outermost ErrorContext on the chain of err, or nil.
func ContextOf(err error) *ErrorContext {
	for _, e := range Chain(err) {
		if ce, ok := e.(*ContextError); ok && ce.Context != nil {
			return ce.Context
		}
	}
	return nil
}

// DiagnosticOf returns a copy of the first DiagnosticResult found on the
// chain of err, outermost first, or nil.
func DiagnosticOf(err error) *DiagnosticResult {
	for _, e := range Chain(err) {
		if ce, ok := e.(*ContextError); ok && ce.Context != nil && ce.Context.diagnostic != nil {
			return ce.Context.Diagnostic()
		}
	}
	return nil
}
