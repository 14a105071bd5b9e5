package extraction

import (
	"fmt"
	"regexp"

	"github.com/fyrsmithlabs/remedy/internal/faults"
)

// Pattern is one row of the message-pattern table. Named capture groups in
// Regex become parameters.
type Pattern struct {
	Name       string  `json:"name" yaml:"name"`
	Regex      string  `json:"regex" yaml:"regex"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// DefaultPatterns returns the built-in table, most specific first.
//
// Confidences follow specificity: patterns anchored on backtick-quoted
// identifiers from compiler output score highest, loose phrase and path
// matches lowest.
func DefaultPatterns() []Pattern {
	return []Pattern{
		{Name: "mismatched_types", Regex: "mismatched types: expected `(?P<expected>[^`]+)`, found `(?P<found>[^`]+)`", Confidence: 0.85},
		{Name: "private_field", Regex: "field `(?P<field>[^`]+)` of struct `(?P<struct>[^`]+)` is private", Confidence: 0.85},
		{Name: "missing_trait_impl", Regex: "the trait `(?P<trait>[^`]+)` is not implemented for `(?P<type>[^`]+)`", Confidence: 0.85},
		{Name: "argument_count", Regex: `this function takes (?P<expected>\d+) arguments? but (?P<found>\d+) arguments? (?:was|were) supplied`, Confidence: 0.85},
		{Name: "unused_import", Regex: "unused import: `(?P<import>[^`]+)`", Confidence: 0.8},
		{Name: "go_unused_import", Regex: `"(?P<import>[^"]+)" imported and not used`, Confidence: 0.8},
		{Name: "unused_variable", Regex: "unused variable: `(?P<variable>[^`]+)`", Confidence: 0.8},
		{Name: "borrow_after_move", Regex: "(?:value used here after move|use of moved value|borrow of moved value): `(?P<variable>[^`]+)`", Confidence: 0.8},
		{Name: "immutable_borrow", Regex: "cannot borrow `(?P<variable>[^`]+)` as mutable", Confidence: 0.8},
		{Name: "unstable_feature", Regex: `use of unstable library feature '(?P<feature>[^']+)'`, Confidence: 0.8},
		{Name: "non_exhaustive_patterns", Regex: `non-exhaustive patterns: (?P<missing>.+?) not covered`, Confidence: 0.75},
		{Name: "missing_key", Regex: "(?:missing (?:key|field)|required key not found):?\\s*[\"`']?(?P<key>[A-Za-z0-9_.-]+)[\"`']?", Confidence: 0.75},
		{Name: "unused_mut", Regex: "variable does not need to be mutable(?:: `(?P<variable>[^`]+)`)?", Confidence: 0.7},
		{Name: "return_local_reference", Regex: "cannot return (?:reference to|value referencing) (?:local variable|temporary value|local data) `?(?P<variable>[^`\\s]*)`?", Confidence: 0.7},
		{Name: "unnecessary_clone", Regex: "(?:redundant clone|unnecessary clone)(?: of `(?P<variable>[^`]+)`)?", Confidence: 0.65},
		{Name: "not_found", Regex: `(?P<resource_type>[A-Za-z_]+) not found: (?P<identifier>\S+)`, Confidence: 0.65},
		{Name: "yaml_line", Regex: `yaml: line (?P<line>\d+): (?P<detail>.+)`, Confidence: 0.65},
		{Name: "line_column", Regex: `line (?P<line>\d+),? column (?P<column>\d+)`, Confidence: 0.6},
		{Name: "missing_lifetime", Regex: `missing lifetime specifier`, Confidence: 0.6},
		{Name: "unreachable_pattern", Regex: `unreachable pattern`, Confidence: 0.6},
		{Name: "missing_semicolon", Regex: "expected `;`|missing semicolon", Confidence: 0.6},
		{Name: "unnecessary_braces", Regex: `unnecessary braces around (?P<context>[^\n]+)`, Confidence: 0.6},
		{Name: "unnecessary_parentheses", Regex: `unnecessary parentheses around (?P<context>[^\n]+)`, Confidence: 0.6},
		{Name: "division_by_zero", Regex: `(?i)(?:attempt to divide by zero|division by zero|divide by zero)`, Confidence: 0.6},
		{Name: "unwrap_on_none", Regex: "called `(?P<method>Option::unwrap|Result::unwrap|Option::expect|Result::expect)\\(\\)` on an? `(?P<value>None|Err)` value", Confidence: 0.75},
		{Name: "question_mark", Regex: "the `\\?` operator can only be used (?:in|on) (?P<context>[^\n]+)", Confidence: 0.7},
		{Name: "missing_return", Regex: "(?:mismatched types: expected `(?P<expected>[^`]+)`, found `\\(\\)`|missing return|implicitly returns `\\(\\)`)", Confidence: 0.55},
		{Name: "panic", Regex: `panicked at '?(?P<panic_message>[^']+)'?(?:,\s*(?P<file_path>[^:\s]+):(?P<line>\d+)(?::(?P<column>\d+))?)?`, Confidence: 0.55},
		{Name: "permission_denied", Regex: `(?i)permission denied`, Confidence: 0.5},
		{Name: "connection_refused", Regex: `(?i)connection refused`, Confidence: 0.5},
		{Name: "path", Regex: `(?P<file_path>(?:/|\./|\.\./)[^\s'":,()]+)`, Confidence: 0.3},
	}
}

type compiledPattern struct {
	Pattern
	regex *regexp.Regexp
}

// MessageExtractor matches a Pattern table against an error's display text.
// The first pattern that matches wins; its named groups become parameters
// and the pattern name is recorded under KeyPattern.
type MessageExtractor struct {
	patterns []*compiledPattern
}

// NewMessageExtractor compiles patterns, or DefaultPatterns when none are
// given. Any invalid regex fails construction.
func NewMessageExtractor(patterns ...Pattern) (*MessageExtractor, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns()
	}

	compiled := make([]*compiledPattern, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p.Regex)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", p.Name, err)
		}
		p.Confidence = clamp(p.Confidence)
		compiled = append(compiled, &compiledPattern{Pattern: p, regex: re})
	}
	return &MessageExtractor{patterns: compiled}, nil
}

// MustMessageExtractor is NewMessageExtractor for tables known to compile.
func MustMessageExtractor(patterns ...Pattern) *MessageExtractor {
	m, err := NewMessageExtractor(patterns...)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *MessageExtractor) Name() string { return "message_pattern" }

func (m *MessageExtractor) Supports() []faults.Category { return nil }

func (m *MessageExtractor) Extract(err faults.Error) Parameters {
	if err == nil {
		return Parameters{}
	}
	return m.Match(err.Error())
}

// Match runs the table against text.
func (m *MessageExtractor) Match(text string) Parameters {
	for _, p := range m.patterns {
		sub := p.regex.FindStringSubmatch(text)
		if sub == nil {
			continue
		}
		values := map[string]string{KeyPattern: p.Name}
		for i, name := range p.regex.SubexpNames() {
			if name != "" && i < len(sub) {
				values[name] = sub[i]
			}
		}
		return NewParameters(SourceErrorMessage, p.Confidence, values)
	}
	return Parameters{}
}

// Patterns returns the compiled table in match order.
func (m *MessageExtractor) Patterns() []Pattern {
	out := make([]Pattern, 0, len(m.patterns))
	for _, p := range m.patterns {
		out = append(out, p.Pattern)
	}
	return out
}
