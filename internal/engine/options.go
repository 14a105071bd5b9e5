package engine

import (
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/remedy/internal/config"
	"github.com/fyrsmithlabs/remedy/internal/extraction"
	"github.com/fyrsmithlabs/remedy/internal/remediation"
	"github.com/fyrsmithlabs/remedy/internal/telemetry"
	"github.com/fyrsmithlabs/remedy/internal/template"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. nil keeps the no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTelemetry takes the tracer and meter from tel instead of the global
// providers.
func WithTelemetry(tel *telemetry.Telemetry) Option {
	return func(e *Engine) {
		if tel != nil {
			e.tracer = tel.Tracer(instrumentationName)
			e.meter = tel.Meter(instrumentationName)
		}
	}
}

// WithExtractors replaces the extractor list. nil entries are dropped.
func WithExtractors(xs ...extraction.Extractor) Option {
	return func(e *Engine) {
		e.extractors = e.extractors[:0:0]
		for _, x := range xs {
			if x != nil {
				e.extractors = append(e.extractors, x)
			}
		}
	}
}

// WithGenerators replaces the generator registry with one holding gens in
// order.
func WithGenerators(gens ...remediation.Generator) Option {
	return func(e *Engine) {
		e.generators = remediation.NewRegistry(gens...)
	}
}

// WithTemplates replaces the template registry. nil installs an empty one.
func WithTemplates(reg *template.Registry) Option {
	return func(e *Engine) {
		if reg == nil {
			reg = template.NewRegistry()
		}
		e.templates = reg
	}
}

// WithTemplateFallback turns the template fallback on or off. It
// overrides engine.template_fallback when given after WithConfig.
func WithTemplateFallback(on bool) Option {
	return func(e *Engine) { e.fallback = on }
}

// WithConfig applies the engine section of the configuration, including
// its template_fallback setting.
func WithConfig(cfg config.EngineConfig) Option {
	return func(e *Engine) {
		e.cfg = cfg
		e.fallback = cfg.TemplateFallback
	}
}
