// Package faults defines the error model consumed by the remediation engine.
//
// Every error is one of a closed set of variants. Each variant carries its own
// typed payload and maps to exactly one Category through its Category method.
// Categories are derived from the variant and never stored separately.
//
// Variants that wrap a cause expose it through Unwrap, so the standard errors
// package (errors.Is, errors.As) and Chain walk the cause chain front to back.
// MultipleErrors exposes its members through Unwrap() []error.
//
// A ContextError attaches an ErrorContext (severity, tags, metadata and an
// optional DiagnosticResult) to another Error:
//
//	err := faults.Wrap(
//		faults.NewContext("loading settings",
//			faults.WithSeverity(faults.SeverityError),
//			faults.WithDiagnostic(&faults.DiagnosticResult{DiagnosticCode: "E0433"}),
//		),
//		faults.IO("read", "/etc/app.yaml", os.ErrNotExist),
//	)
//
// Display text from every variant is passed through sanitize.Text.
package faults
