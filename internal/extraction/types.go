package extraction

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/fyrsmithlabs/remedy/internal/faults"
)

// Source identifies the strategy that produced a parameter set.
type Source int

const (
	SourceUnknown Source = iota
	SourceErrorMessage
	SourceErrorContext
	SourceDiagnosticInfo
	SourceBacktrace
	SourceSourceCode
	SourceManual
)

// String returns the snake_case name of the source.
func (s Source) String() string {
	switch s {
	case SourceErrorMessage:
		return "error_message"
	case SourceErrorContext:
		return "error_context"
	case SourceDiagnosticInfo:
		return "diagnostic_info"
	case SourceBacktrace:
		return "backtrace"
	case SourceSourceCode:
		return "source_code"
	case SourceManual:
		return "manual"
	default:
		return "unknown"
	}
}

// Common parameter keys shared by extractors, generators and templates.
const (
	KeyPattern        = "pattern"
	KeyMessage        = "message"
	KeyFilePath       = "file_path"
	KeyPath           = "path"
	KeyLine           = "line"
	KeyColumn         = "column"
	KeyOperation      = "operation"
	KeyResourceType   = "resource_type"
	KeyIdentifier     = "identifier"
	KeyDiagnosticCode = "diagnostic_code"
)

// Parameters is an immutable bag of extracted values.
type Parameters struct {
	values     map[string]string
	confidence float64
	source     Source
}

// NewParameters copies values into a new set. Empty values are dropped and
// confidence is clamped to [0,1].
func NewParameters(source Source, confidence float64, values map[string]string) Parameters {
	p := Parameters{
		values:     make(map[string]string, len(values)),
		confidence: clamp(confidence),
		source:     source,
	}
	for k, v := range values {
		if k != "" && v != "" {
			p.values[k] = v
		}
	}
	return p
}

// Confidence returns a value in [0,1].
func (p Parameters) Confidence() float64 { return p.confidence }

// Source returns the strategy that produced the set. After a merge it is
// the source of the most confident contributor.
func (p Parameters) Source() Source { return p.source }

// Get returns the value for key and whether it was present.
func (p Parameters) Get(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Value returns the value for key, or "".
func (p Parameters) Value(key string) string {
	return p.values[key]
}

// First returns the value of the first present key.
func (p Parameters) First(keys ...string) string {
	for _, k := range keys {
		if v, ok := p.values[k]; ok {
			return v
		}
	}
	return ""
}

func (p Parameters) Has(key string) bool {
	_, ok := p.values[key]
	return ok
}

func (p Parameters) Len() int { return len(p.values) }

func (p Parameters) IsEmpty() bool { return len(p.values) == 0 }

// Values returns a copy of the underlying map.
func (p Parameters) Values() map[string]string {
	if p.values == nil {
		return map[string]string{}
	}
	return maps.Clone(p.values)
}

// Keys returns the keys in sorted order.
func (p Parameters) Keys() []string {
	return slices.Sorted(maps.Keys(p.values))
}

// With returns a copy of p with key set to value. The confidence and source
// are unchanged.
func (p Parameters) With(key, value string) Parameters {
	out := p.clone()
	if key != "" && value != "" {
		out.values[key] = value
	}
	return out
}

// String renders the set as "source@confidence{k=v, ...}" with sorted keys.
func (p Parameters) String() string {
	var b strings.Builder
	b.WriteString(p.source.String())
	b.WriteString("@")
	b.WriteString(strconv.FormatFloat(p.confidence, 'f', -1, 64))
	b.WriteString("{")
	for i, k := range p.Keys() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(p.values[k])
	}
	b.WriteString("}")
	return b.String()
}

func (p Parameters) clone() Parameters {
	out := Parameters{
		values:     make(map[string]string, len(p.values)+1),
		confidence: p.confidence,
		source:     p.source,
	}
	maps.Copy(out.values, p.values)
	return out
}

// Extractor produces parameters from one kind of evidence.
type Extractor interface {
	Name() string
	// Supports lists the categories the extractor understands. An empty
	// list means every category.
	Supports() []faults.Category
	// Extract must be pure. It returns an empty set when nothing applies.
	Extract(err faults.Error) Parameters
}

// Applies reports whether x should run for category c.
func Applies(x Extractor, c faults.Category) bool {
	supported := x.Supports()
	return len(supported) == 0 || slices.Contains(supported, c)
}

// Defaults returns the built-in extractors in registration order.
func Defaults() []Extractor {
	return []Extractor{
		NewNativeExtractor(),
		NewDiagnosticExtractor(),
		NewContextExtractor(),
		MustMessageExtractor(),
	}
}

// ExtractAll runs every extractor in xs that applies to err's category and
// merges the results.
func ExtractAll(err faults.Error, xs ...Extractor) Parameters {
	if err == nil {
		return Parameters{}
	}
	category := err.Category()
	candidates := make([]Parameters, 0, len(xs))
	for _, x := range xs {
		if Applies(x, category) {
			candidates = append(candidates, x.Extract(err))
		}
	}
	return MergeAll(candidates...)
}

func clamp(v float64) float64 {
	switch {
	case v != v, v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
