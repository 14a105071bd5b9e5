package logging

import (
	"slices"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/remedy/internal/faults"
	"github.com/fyrsmithlabs/remedy/internal/fix"
)

// metadataRedactor masks error metadata logged through Fault. Metadata is
// caller-supplied and may carry secrets the encoder never sees by key.
var metadataRedactor, _ = newRedactor(NewDefaultConfig().Redaction)

// Fault logs err's classification and context under the "fault" key.
func Fault(err faults.Error) zap.Field {
	if err == nil {
		return zap.Skip()
	}
	return zap.Object("fault", faultMarshaler{err})
}

type faultMarshaler struct{ err faults.Error }

func (m faultMarshaler) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("category", m.err.Category().String())
	enc.AddString("message", metadataRedactor.value("", m.err.Error()))

	ctx := faults.ContextOf(m.err)
	if ctx == nil {
		return nil
	}
	enc.AddString("severity", ctx.Severity().String())
	if c := ctx.Component(); c != "" {
		enc.AddString("component", c)
	}
	if id := ctx.CorrelationID(); id != "" {
		enc.AddString("correlation_id", id)
	}
	if d := ctx.Diagnostic(); d != nil && d.DiagnosticCode != "" {
		enc.AddString("diagnostic_code", d.DiagnosticCode)
	}
	if md := ctx.Metadata(); len(md) > 0 {
		return enc.AddObject("metadata", metadataMarshaler(md))
	}
	return nil
}

type metadataMarshaler map[string]string

func (m metadataMarshaler) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		enc.AddString(k, metadataRedactor.value(k, m[k]))
	}
	return nil
}

// Proposal logs the identifying fields of a proposed fix.
func Proposal(a *fix.Autocorrection) zap.Field {
	if a == nil {
		return zap.Skip()
	}
	return zap.Object("proposal", proposalMarshaler{a})
}

type proposalMarshaler struct{ a *fix.Autocorrection }

func (m proposalMarshaler) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("id", m.a.ID)
	enc.AddString("fix_type", m.a.Type.Key())
	enc.AddFloat64("confidence", m.a.Confidence)
	enc.AddString("description", m.a.Description)
	if m.a.Details != nil {
		enc.AddString("details_kind", m.a.Details.Kind())
	}
	return nil
}
