package fix

import (
	"fmt"
	"strings"
)

// Type classifies what applying a fix involves.
type Type int

const (
	TypeInformation Type = iota
	TypeTextReplacement
	TypeAstModification
	TypeAddImport
	TypeAddDependency
	TypeConfigurationChange
	TypeExecuteCommand
	TypeRefactor
	TypeManualIntervention
)

var typeNames = []struct {
	key     string
	display string
}{
	TypeInformation:         {"information", "Information"},
	TypeTextReplacement:     {"text_replacement", "Text Replacement"},
	TypeAstModification:     {"ast_modification", "AST Modification"},
	TypeAddImport:           {"add_import", "Add Import"},
	TypeAddDependency:       {"add_dependency", "Add Dependency"},
	TypeConfigurationChange: {"configuration_change", "Configuration Change"},
	TypeExecuteCommand:      {"execute_command", "Command Execution"},
	TypeRefactor:            {"refactor", "Refactor"},
	TypeManualIntervention:  {"manual_intervention", "Manual Intervention Required"},
}

// String returns the human display name, e.g. "Text Replacement".
func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t].display
}

// Key returns the snake_case name used in config and JSON.
func (t Type) Key() string {
	if t < 0 || int(t) >= len(typeNames) {
		return ""
	}
	return typeNames[t].key
}

// ParseType accepts either the snake_case key or the display name.
func ParseType(s string) (Type, error) {
	s = strings.TrimSpace(s)
	for i, n := range typeNames {
		if strings.EqualFold(s, n.key) || strings.EqualFold(s, n.display) {
			return Type(i), nil
		}
	}
	if strings.EqualFold(s, "manual_intervention_required") {
		return TypeManualIntervention, nil
	}
	return TypeInformation, fmt.Errorf("unknown fix type %q", s)
}

func (t Type) MarshalText() ([]byte, error) {
	if t.Key() == "" {
		return nil, fmt.Errorf("invalid fix type %d", int(t))
	}
	return []byte(t.Key()), nil
}

func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
