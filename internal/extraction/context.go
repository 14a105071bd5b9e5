package extraction

import (
	"strings"

	"github.com/fyrsmithlabs/remedy/internal/faults"
)

// ContextConfidence ranks context fields below diagnostics: they are
// structured but written by hand at the wrap site.
const ContextConfidence = 0.7

// MetadataPrefix namespaces ErrorContext metadata keys.
const MetadataPrefix = "meta."

// ContextExtractor reads the outermost ErrorContext on the error chain.
type ContextExtractor struct{}

func NewContextExtractor() *ContextExtractor { return &ContextExtractor{} }

func (ContextExtractor) Name() string { return "error_context" }

func (ContextExtractor) Supports() []faults.Category { return nil }

func (ContextExtractor) Extract(err faults.Error) Parameters {
	ctx := faults.ContextOf(err)
	if ctx == nil {
		return Parameters{}
	}

	values := map[string]string{
		"context_message":     ctx.Message(),
		"component":           ctx.Component(),
		"correlation_id":      ctx.CorrelationID(),
		"recovery_suggestion": ctx.RecoverySuggestion(),
		"severity":            ctx.Severity().String(),
	}
	if tags := ctx.Tags(); len(tags) > 0 {
		values["tags"] = strings.Join(tags, ",")
	}
	for k, v := range ctx.Metadata() {
		values[MetadataPrefix+k] = v
	}
	return NewParameters(SourceErrorContext, ContextConfidence, values)
}
