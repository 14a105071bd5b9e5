package engine

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/remedy/internal/config"
	"github.com/fyrsmithlabs/remedy/internal/extraction"
	"github.com/fyrsmithlabs/remedy/internal/faults"
	"github.com/fyrsmithlabs/remedy/internal/fix"
	"github.com/fyrsmithlabs/remedy/internal/logging"
	"github.com/fyrsmithlabs/remedy/internal/remediation"
	"github.com/fyrsmithlabs/remedy/internal/resilience"
	"github.com/fyrsmithlabs/remedy/internal/template"
)

const instrumentationName = "github.com/fyrsmithlabs/remedy/internal/engine"

// Proposal origins reported on spans and counters.
const (
	OriginGenerator = "generator"
	OriginTemplate  = "template"
)

// Decline reasons.
const (
	reasonNoMatch    = "no_match"
	reasonBelowFloor = "below_floor"
)

// Engine classifies errors, extracts parameters and proposes fixes.
// It is safe for concurrent use, including registration while Suggest is
// running.
type Engine struct {
	mu         sync.RWMutex
	extractors []extraction.Extractor
	generators *remediation.Registry
	templates  *template.Registry
	fallback   bool
	cfg        config.EngineConfig

	logger *zap.Logger
	tracer trace.Tracer
	meter  metric.Meter

	suggestCounter metric.Int64Counter
	declineCounter metric.Int64Counter
	extractCounter metric.Int64Counter
}

// New returns an engine with empty registries. Suggest on such an engine
// always returns nil.
func New(opts ...Option) *Engine {
	e := &Engine{
		generators: remediation.NewRegistry(),
		templates:  template.NewRegistry(),
		fallback:   true,
		cfg:        config.NewDefaultConfig().Engine,
		logger:     zap.NewNop(),
		tracer:     otel.Tracer(instrumentationName),
		meter:      otel.Meter(instrumentationName),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.initMetrics()
	return e
}

// NewDefault returns an engine preloaded with the built-in extractors,
// generators and templates. opts apply after the defaults.
func NewDefault(opts ...Option) *Engine {
	defaults := []Option{
		WithExtractors(extraction.Defaults()...),
		WithGenerators(remediation.Default()...),
		WithTemplates(template.NewDefaultRegistry()),
	}
	return New(append(defaults, opts...)...)
}

func (e *Engine) initMetrics() {
	var err error

	e.suggestCounter, err = e.meter.Int64Counter(
		"remedy.engine.suggestions_total",
		metric.WithDescription("Total number of proposed fixes"),
		metric.WithUnit("{suggestion}"),
	)
	if err != nil {
		e.logger.Warn("failed to create suggestion counter", zap.Error(err))
	}

	e.declineCounter, err = e.meter.Int64Counter(
		"remedy.engine.declines_total",
		metric.WithDescription("Total number of errors or proposals without a usable fix"),
		metric.WithUnit("{decline}"),
	)
	if err != nil {
		e.logger.Warn("failed to create decline counter", zap.Error(err))
	}

	e.extractCounter, err = e.meter.Int64Counter(
		"remedy.engine.extractor_hits_total",
		metric.WithDescription("Total number of extractor runs that produced parameters"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		e.logger.Warn("failed to create extractor counter", zap.Error(err))
	}
}

// Classify returns the category of err. nil is CategoryUnspecified.
func (e *Engine) Classify(err faults.Error) faults.Category {
	if err == nil {
		return faults.CategoryUnspecified
	}
	return err.Category()
}

// ExtractParameters runs the extractors applicable to err's category and
// merges their output.
func (e *Engine) ExtractParameters(err faults.Error) extraction.Parameters {
	return e.extract(context.Background(), err)
}

func (e *Engine) extract(ctx context.Context, err faults.Error) extraction.Parameters {
	if err == nil {
		return extraction.Parameters{}
	}
	e.mu.RLock()
	xs := e.extractors
	e.mu.RUnlock()

	category := err.Category()
	candidates := make([]extraction.Parameters, 0, len(xs))
	for _, x := range xs {
		if !extraction.Applies(x, category) {
			continue
		}
		p := x.Extract(err)
		if p.IsEmpty() {
			continue
		}
		e.logger.Debug("extractor produced parameters",
			zap.String("extractor", x.Name()),
			zap.Int("count", p.Len()),
			zap.Float64("confidence", p.Confidence()))
		if e.extractCounter != nil {
			e.extractCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("extractor", x.Name())))
		}
		candidates = append(candidates, p)
	}
	return extraction.MergeAll(candidates...)
}

// Suggest proposes a fix for err, or returns nil.
//
// Generators run in registration order and the first proposal at or
// above engine.min_confidence wins. Generators named in
// engine.disabled_generators are skipped. When no generator answers and
// the template fallback is on, templates for the error's diagnostic code
// are tried before templates for its category; the first whose condition
// holds is rendered. source is optional file content used to locate and
// preview edits.
func (e *Engine) Suggest(ctx context.Context, err faults.Error, source string) *fix.Autocorrection {
	ctx, span := e.tracer.Start(ctx, "engine.suggest")
	defer span.End()

	if err == nil {
		span.SetAttributes(attribute.Bool("remedy.matched", false))
		return nil
	}

	category := e.Classify(err)
	if fc := faults.ContextOf(err); fc != nil {
		ctx = logging.WithCorrelationID(ctx, fc.CorrelationID())
	}
	span.SetAttributes(
		attribute.String("remedy.category", category.String()),
		attribute.Bool("remedy.has_source", source != ""),
	)

	params := e.extract(ctx, err)
	span.SetAttributes(
		attribute.Int("remedy.params.count", params.Len()),
		attribute.Float64("remedy.params.confidence", params.Confidence()),
	)

	e.mu.RLock()
	gens := e.generators.Generators()
	templates := e.templates
	fallback := e.fallback
	cfg := e.cfg
	e.mu.RUnlock()

	for _, g := range gens {
		if cfg.GeneratorDisabled(g.Name()) {
			continue
		}
		a := g.Generate(err, params, source)
		if a == nil {
			continue
		}
		if a.Confidence < cfg.MinConfidence {
			e.logger.Debug("proposal below confidence floor",
				append(logging.ContextFields(ctx),
					zap.String("generator", g.Name()),
					zap.Float64("confidence", a.Confidence),
					zap.Float64("min_confidence", cfg.MinConfidence))...)
			e.decline(ctx, category, reasonBelowFloor)
			continue
		}
		return e.accept(ctx, span, a, OriginGenerator, g.Name(), category)
	}

	if fallback {
		if a, name := e.fromTemplates(ctx, err, params, category, templates, cfg.MinConfidence); a != nil {
			return e.accept(ctx, span, a, OriginTemplate, name, category)
		}
	}

	span.SetAttributes(attribute.Bool("remedy.matched", false))
	e.decline(ctx, category, reasonNoMatch)
	e.logger.Debug("no remediation", append(logging.ContextFields(ctx), logging.Fault(err))...)
	return nil
}

// SuggestError lifts a plain error into the model first. Open breakers and
// deadline exceedances map to their variants; anything else becomes an
// unspecified error.
func (e *Engine) SuggestError(ctx context.Context, err error, source string) *fix.Autocorrection {
	if err == nil {
		return nil
	}
	return e.Suggest(ctx, resilience.AsFault(err), source)
}

func (e *Engine) fromTemplates(ctx context.Context, err faults.Error, params extraction.Parameters,
	category faults.Category, reg *template.Registry, floor float64) (*fix.Autocorrection, string) {
	if reg == nil || reg.Len() == 0 {
		return nil, ""
	}

	var code string
	if d := faults.DiagnosticOf(err); d != nil {
		code = d.DiagnosticCode
	}
	values := params.Values()

	candidates := reg.ForCode(code)
	for _, t := range reg.ForCategory(category) {
		if !t.AppliesToCode(code) {
			candidates = append(candidates, t)
		}
	}

	for _, t := range candidates {
		if !t.Matches(values, category, code) {
			continue
		}
		if missing := t.Missing(values); len(missing) > 0 {
			e.logger.Debug("template placeholders left unfilled",
				append(logging.ContextFields(ctx),
					zap.String("template", t.Name),
					zap.Strings("missing", missing))...)
		}
		a := t.Render(values, params.Confidence(), code)
		if a.Confidence < floor {
			e.decline(ctx, category, reasonBelowFloor)
			continue
		}
		return a, t.Name
	}
	return nil, ""
}

func (e *Engine) accept(ctx context.Context, span trace.Span, a *fix.Autocorrection,
	origin, name string, category faults.Category) *fix.Autocorrection {
	span.SetAttributes(
		attribute.Bool("remedy.matched", true),
		attribute.String("remedy.origin", origin),
		attribute.String("remedy.rule", name),
		attribute.String("remedy.fix_type", a.Type.Key()),
		attribute.Float64("remedy.confidence", a.Confidence),
	)
	if e.suggestCounter != nil {
		e.suggestCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("origin", origin),
			attribute.String("rule", name),
			attribute.String("category", category.String()),
		))
	}
	e.logger.Debug("remediation proposed",
		append(logging.ContextFields(ctx),
			zap.String("origin", origin),
			zap.String("rule", name),
			logging.Proposal(a))...)
	return a
}

func (e *Engine) decline(ctx context.Context, category faults.Category, reason string) {
	if e.declineCounter == nil {
		return
	}
	e.declineCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("category", category.String()),
		attribute.String("reason", reason),
	))
}

// RegisterExtractor appends x to the extractor list.
func (e *Engine) RegisterExtractor(x extraction.Extractor) {
	if x == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.extractors = append(e.extractors[:len(e.extractors):len(e.extractors)], x)
}

// RegisterGenerator appends g after every generator already registered.
func (e *Engine) RegisterGenerator(g remediation.Generator) {
	e.mu.RLock()
	reg := e.generators
	e.mu.RUnlock()
	reg.Register(g)
}

// RegisterTemplate validates and stores t. A template with the same name
// is replaced.
func (e *Engine) RegisterTemplate(t template.FixTemplate) error {
	e.mu.RLock()
	reg := e.templates
	e.mu.RUnlock()
	return reg.Register(t)
}

// GeneratorNames lists generators in dispatch order, including disabled
// ones.
func (e *Engine) GeneratorNames() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.generators.Names()
}

// Templates returns the registered templates in insertion order.
func (e *Engine) Templates() []*template.FixTemplate {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.templates.All()
}

// Config returns the engine settings in effect.
func (e *Engine) Config() config.EngineConfig {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cfg
}
