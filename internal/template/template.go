package template

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/fyrsmithlabs/remedy/internal/faults"
	"github.com/fyrsmithlabs/remedy/internal/fix"
)

var (
	// ErrInvalidTemplate is returned for templates that fail validation.
	ErrInvalidTemplate = errors.New("invalid template")
)

// DefaultConfidence is used when a template leaves Confidence at zero.
const DefaultConfidence = 0.5

// FixTemplate renders a fix without generator logic.
type FixTemplate struct {
	Name        string            `yaml:"name" json:"name"`
	Description string            `yaml:"description" json:"description"`
	Template    string            `yaml:"template" json:"template"`
	Categories  []faults.Category `yaml:"categories" json:"categories,omitempty"`
	Codes       []string          `yaml:"codes" json:"codes,omitempty"`
	Type        fix.Type          `yaml:"fix_type" json:"fix_type"`
	Confidence  float64           `yaml:"confidence" json:"confidence"`
	Commands    []string          `yaml:"commands" json:"commands,omitempty"`
	When        string            `yaml:"when" json:"when,omitempty"`

	cond *condition
}

// Validate checks the static shape of t. It does not compile When.
func (t *FixTemplate) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidTemplate)
	}
	if t.Template == "" {
		return fmt.Errorf("%w: %s: template text is required", ErrInvalidTemplate, t.Name)
	}
	for _, c := range t.Categories {
		if !c.Valid() {
			return fmt.Errorf("%w: %s: unknown category %d", ErrInvalidTemplate, t.Name, int(c))
		}
	}
	if t.Confidence < 0 || t.Confidence > 1 {
		return fmt.Errorf("%w: %s: confidence %v outside [0,1]", ErrInvalidTemplate, t.Name, t.Confidence)
	}
	return nil
}

// Apply renders the template text.
func (t *FixTemplate) Apply(values map[string]string) string {
	return Apply(t.Template, values)
}

// Missing lists placeholders across the template and its commands that
// values does not provide.
func (t *FixTemplate) Missing(values map[string]string) []string {
	out := Missing(t.Template, values)
	for _, c := range t.Commands {
		for _, k := range Missing(c, values) {
			if !slices.Contains(out, k) {
				out = append(out, k)
			}
		}
	}
	return out
}

// AppliesToCategory reports whether c is in t.Categories.
func (t *FixTemplate) AppliesToCategory(c faults.Category) bool {
	return slices.Contains(t.Categories, c)
}

// AppliesToCode reports whether code is in t.Codes.
func (t *FixTemplate) AppliesToCode(code string) bool {
	return code != "" && slices.Contains(t.Codes, code)
}

// Matches evaluates When against the inputs. Templates without a condition
// always match. Evaluation failures count as no match.
func (t *FixTemplate) Matches(values map[string]string, category faults.Category, code string) bool {
	if t.cond == nil {
		return true
	}
	ok, err := t.cond.eval(values, category, code)
	return err == nil && ok
}

// Render builds an Autocorrection from the template. The description is
// the rendered template text and the confidence is the template's base
// confidence scaled by paramConfidence.
func (t *FixTemplate) Render(values map[string]string, paramConfidence float64, targetCode string) *fix.Autocorrection {
	base := t.Confidence
	if base == 0 {
		base = DefaultConfidence
	}

	commands := make([]string, 0, len(t.Commands))
	for _, c := range t.Commands {
		commands = append(commands, Apply(c, values))
	}

	text := t.Apply(values)
	opts := []fix.Option{
		fix.WithCommands(commands...),
		fix.WithID(fix.DeriveID("template", t.Name, text)),
	}
	if targetCode != "" {
		opts = append(opts, fix.WithTargetCode(targetCode))
	}
	if len(commands) > 0 {
		opts = append(opts, fix.WithDetails(&fix.SuggestCommand{
			Command:     commands[0],
			Explanation: t.Description,
		}))
	}
	return fix.New(text, t.Type, base*fix.Clamp(paramConfidence), opts...)
}

func (t *FixTemplate) clone() *FixTemplate {
	out := *t
	out.Categories = slices.Clone(t.Categories)
	out.Codes = slices.Clone(t.Codes)
	out.Commands = slices.Clone(t.Commands)
	return &out
}
