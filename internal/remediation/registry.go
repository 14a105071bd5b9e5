package remediation

import (
	"slices"
	"sync"

	"github.com/fyrsmithlabs/remedy/internal/extraction"
	"github.com/fyrsmithlabs/remedy/internal/faults"
	"github.com/fyrsmithlabs/remedy/internal/fix"
)

// Generator proposes a fix for an error or declines with nil.
type Generator interface {
	Name() string
	// Generate must be a pure function of its inputs. An empty source
	// means no source text is available.
	Generate(err faults.Error, params extraction.Parameters, source string) *fix.Autocorrection
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc struct {
	Label string
	Fn    func(err faults.Error, params extraction.Parameters, source string) *fix.Autocorrection
}

func (g GeneratorFunc) Name() string { return g.Label }

func (g GeneratorFunc) Generate(err faults.Error, params extraction.Parameters, source string) *fix.Autocorrection {
	return g.Fn(err, params, source)
}

// Registry is an ordered list of generators. It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	generators []Generator
}

// NewRegistry returns a registry holding gens in the given order.
func NewRegistry(gens ...Generator) *Registry {
	r := &Registry{}
	for _, g := range gens {
		r.Register(g)
	}
	return r
}

// NewDefaultRegistry returns a registry holding Default.
func NewDefaultRegistry() *Registry {
	return NewRegistry(Default()...)
}

// Register appends g. Nil generators are ignored.
func (r *Registry) Register(g Generator) {
	if g == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generators = append(r.generators, g)
}

// Generators returns a snapshot in dispatch order.
func (r *Registry) Generators() []Generator {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.generators)
}

// Names returns generator names in dispatch order.
func (r *Registry) Names() []string {
	gens := r.Generators()
	out := make([]string, 0, len(gens))
	for _, g := range gens {
		out = append(out, g.Name())
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.generators)
}

// Dispatch returns the first non-nil proposal and the name of the generator
// that produced it. It returns nil and "" when every generator declines.
func (r *Registry) Dispatch(err faults.Error, params extraction.Parameters, source string) (*fix.Autocorrection, string) {
	if err == nil {
		return nil, ""
	}
	for _, g := range r.Generators() {
		if a := g.Generate(err, params, source); a != nil {
			return a, g.Name()
		}
	}
	return nil, ""
}

// Default returns the built-in generators, most specific first. Generators
// that trust structured tool output precede those that parse messages, and
// broad category fallbacks come last.
func Default() []Generator {
	return []Generator{
		&DiagnosticSuggestionGenerator{},

		&UnusedImportGenerator{},
		&UnusedVariableGenerator{},
		&UnusedMutGenerator{},
		&UnnecessaryBracesGenerator{},
		&UnnecessaryParenthesesGenerator{},
		&UnnecessaryCloneGenerator{},
		&MissingSemicolonGenerator{},
		&ImmutableBorrowGenerator{},
		&BorrowAfterMoveGenerator{},
		&ReturnLocalReferenceGenerator{},
		&MissingLifetimeGenerator{},
		&MatchPatternGenerator{},
		&PrivateFieldAccessGenerator{},
		&MissingTraitImplGenerator{},
		&UnstableFeatureGenerator{},
		&InvalidArgumentCountGenerator{},
		&MissingReturnGenerator{},
		&MismatchedTypeGenerator{},
		&QuestionMarkPropagationGenerator{},
		&UnsafeUnwrapGenerator{},
		&DivisionByZeroGenerator{},

		&ConfigMissingKeyGenerator{},
		&ConfigSyntaxGenerator{},
		&JSONParseGenerator{},
		&YAMLParseGenerator{},
		&IOMissingDirectoryGenerator{},
		&IOPermissionGenerator{},
		&NetworkTLSGenerator{},
		&NetworkConnectionGenerator{},
		&TimeoutGenerator{},
		&CircuitBreakerGenerator{},
		&ResourceExhaustedGenerator{},
		&NotFoundGenerator{},
		&RuntimePanicGenerator{},
	}
}
