package fix

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/fyrsmithlabs/remedy/internal/sanitize"
)

// idNamespace scopes deterministic fix IDs.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/fyrsmithlabs/remedy/fix"))

// Autocorrection is a proposed fix for one error.
type Autocorrection struct {
	ID               string   `json:"id"`
	Description      string   `json:"description"`
	Type             Type     `json:"fix_type"`
	Confidence       float64  `json:"confidence"`
	Details          Details  `json:"-"`
	DiffPreview      string   `json:"diff_preview,omitempty"`
	Commands         []string `json:"commands_to_apply,omitempty"`
	TargetsErrorCode string   `json:"targets_error_code,omitempty"`
}

// Option configures an Autocorrection.
type Option func(*Autocorrection)

// New builds an Autocorrection. Confidence is clamped to [0,1] and control
// characters in the description are escaped. Unless WithID is given, the
// ID is derived from the description and type so identical proposals share
// an ID.
func New(description string, t Type, confidence float64, opts ...Option) *Autocorrection {
	description = sanitize.Line(description)
	a := &Autocorrection{
		Description: description,
		Type:        t,
		Confidence:  Clamp(confidence),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.ID == "" {
		a.ID = DeriveID(t.Key(), description)
	}
	return a
}

func WithDetails(d Details) Option {
	return func(a *Autocorrection) { a.Details = d }
}

func WithDiff(diff string) Option {
	return func(a *Autocorrection) { a.DiffPreview = diff }
}

// WithCommands appends commands, skipping empty strings. Control
// characters are escaped so each command stays on one line.
func WithCommands(cmds ...string) Option {
	return func(a *Autocorrection) {
		for _, c := range cmds {
			if strings.TrimSpace(c) != "" {
				a.Commands = append(a.Commands, sanitize.Line(c))
			}
		}
	}
}

func WithTargetCode(code string) Option {
	return func(a *Autocorrection) { a.TargetsErrorCode = code }
}

// WithID sets the ID, typically from DeriveID with a generator name.
func WithID(id string) Option {
	return func(a *Autocorrection) { a.ID = id }
}

// DeriveID returns a name-based UUID over parts.
func DeriveID(parts ...string) string {
	return uuid.NewSHA1(idNamespace, []byte(strings.Join(parts, "\x00"))).String()
}

// Clamp bounds v to [0,1]. NaN becomes 0.
func Clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Advisory reports whether the proposal carries no structured details.
func (a *Autocorrection) Advisory() bool {
	return a.Details == nil
}

// Clone returns a deep-enough copy for callers that adjust fields.
func (a *Autocorrection) Clone() *Autocorrection {
	if a == nil {
		return nil
	}
	out := *a
	out.Commands = slices.Clone(a.Commands)
	return &out
}

// String renders a stable multi-line text form with control characters
// escaped.
func (a *Autocorrection) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s, confidence %.2f]", a.Description, a.Type, a.Confidence)
	if a.TargetsErrorCode != "" {
		fmt.Fprintf(&b, " (%s)", a.TargetsErrorCode)
	}
	if a.Details != nil {
		b.WriteString("\n  ")
		b.WriteString(a.Details.Summary())
	}
	for _, c := range a.Commands {
		b.WriteString("\n  $ ")
		b.WriteString(sanitize.Line(c))
	}
	if a.DiffPreview != "" {
		b.WriteString("\n")
		b.WriteString(a.DiffPreview)
	}
	return sanitize.Text(b.String())
}

type autocorrectionJSON struct {
	*alias
	DetailsKind string  `json:"details_kind,omitempty"`
	Details     Details `json:"details,omitempty"`
}

type alias Autocorrection

// MarshalJSON adds a details_kind discriminator next to details.
func (a *Autocorrection) MarshalJSON() ([]byte, error) {
	out := autocorrectionJSON{alias: (*alias)(a), Details: a.Details}
	if a.Details != nil {
		out.DetailsKind = a.Details.Kind()
	}
	return json.Marshal(out)
}
