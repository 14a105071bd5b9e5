package template

import (
	"github.com/fyrsmithlabs/remedy/internal/faults"
	"github.com/fyrsmithlabs/remedy/internal/fix"
)

// Defaults returns the built-in catalog. These cover categories whose fixes
// are plain text with no generator logic.
func Defaults() []FixTemplate {
	return []FixTemplate{
		{
			Name:        "missing-file",
			Description: "Create the missing file",
			Template:    "Missing file at path '{path}'",
			Categories:  []faults.Category{faults.CategoryNotFound, faults.CategoryIO},
			Type:        fix.TypeExecuteCommand,
			Confidence:  0.6,
			Commands:    []string{"touch {path}"},
			When:        `"path" in params`,
		},
		{
			Name:        "authentication-failed",
			Description: "Refresh credentials",
			Template:    "Authentication failed: {message}. Refresh or rotate the credentials used by this call",
			Categories:  []faults.Category{faults.CategoryAuthentication},
			Type:        fix.TypeManualIntervention,
			Confidence:  0.4,
		},
		{
			Name:        "authorization-denied",
			Description: "Grant the missing permission",
			Template:    "Permission denied: {message}. Grant the caller the required role or scope",
			Categories:  []faults.Category{faults.CategoryAuthorization},
			Type:        fix.TypeManualIntervention,
			Confidence:  0.4,
		},
		{
			Name:        "state-conflict",
			Description: "Resolve the conflicting state",
			Template:    "State conflict: {message}. Reload the current state and retry the operation",
			Categories:  []faults.Category{faults.CategoryStateConflict},
			Type:        fix.TypeManualIntervention,
			Confidence:  0.3,
		},
		{
			Name:        "concurrency",
			Description: "Review synchronization",
			Template:    "Concurrency error: {message}. Check lock ordering and shared state access",
			Categories:  []faults.Category{faults.CategoryConcurrency},
			Type:        fix.TypeManualIntervention,
			Confidence:  0.3,
		},
		{
			Name:        "external-service",
			Description: "Check the upstream service",
			Template:    "Service '{service}' failed: {message}. Check its status page and retry with backoff",
			Categories:  []faults.Category{faults.CategoryExternalService},
			Type:        fix.TypeManualIntervention,
			Confidence:  0.3,
		},
		{
			Name:        "internal",
			Description: "Report an internal error",
			Template:    "Internal error: {message}. This is likely a bug; capture the logs and report it",
			Categories:  []faults.Category{faults.CategoryInternal},
			Type:        fix.TypeInformation,
			Confidence:  0.2,
		},
		{
			Name:        "validation-field",
			Description: "Correct the invalid field",
			Template:    "Field '{field}' is invalid: {message}",
			Categories:  []faults.Category{faults.CategoryValidation},
			Type:        fix.TypeManualIntervention,
			Confidence:  0.3,
			When:        `"field" in params && "message" in params`,
		},
		{
			Name:        "unresolved-import",
			Description: "Add the missing import",
			Template:    "Add the missing import for '{original_message}' in {file_path}",
			Codes:       []string{"E0432", "E0433"},
			Type:        fix.TypeAddImport,
			Confidence:  0.5,
		},
	}
}

// NewDefaultRegistry returns a registry holding Defaults.
func NewDefaultRegistry() *Registry {
	return NewRegistry().MustRegister(Defaults()...)
}
