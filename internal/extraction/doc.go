// Package extraction pulls named parameters out of errors.
//
// An Extractor reads one kind of evidence and returns Parameters: a string
// map, a confidence in [0,1] and the Source that produced it. Four
// strategies ship with the package:
//
//   - MessageExtractor matches an ordered Pattern table against the
//     rendered error text. The first matching pattern wins.
//   - DiagnosticExtractor reads a DiagnosticResult embedded in the error's
//     rich context.
//   - NativeExtractor reads the typed fields of the error variant.
//   - ContextExtractor reads the ErrorContext attached to the error.
//
// Results from several extractors are combined with MergeAll, which applies
// Merge in ascending confidence order. Higher confidence sources win and
// equal confidence collisions keep the value registered first.
package extraction
