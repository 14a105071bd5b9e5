// Package remediation holds the fix generators and their ordered registry.
//
// A Generator inspects an error, the merged extraction parameters and
// optional source text, and either declines by returning nil or proposes one
// Autocorrection. Generators are pure: proposing a command is data, never
// execution.
//
// Generators come in three families:
//
//   - category generators read the typed fields of the error variant,
//     for example NotFoundGenerator;
//   - message generators trigger on a phrase in the rendered error and read
//     the captured parameters, for example MismatchedTypeGenerator;
//   - source generators additionally locate and rewrite a line of the
//     provided source text, for example UnusedImportGenerator. Without source
//     text they fall back to a generic proposal at lower confidence.
//
// Registry dispatch is first match wins in registration order. Default
// returns the built-in generators ordered most specific first.
package remediation
