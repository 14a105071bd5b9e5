package extraction

import (
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fyrsmithlabs/remedy/internal/faults"
)

// NativeConfidence is the highest built-in confidence: the values are the
// variant's own typed fields.
const NativeConfidence = 0.95

// NativeExtractor reads the typed fields of the error variant under any
// context wrappers.
type NativeExtractor struct{}

func NewNativeExtractor() *NativeExtractor { return &NativeExtractor{} }

func (NativeExtractor) Name() string { return "category_native" }

func (NativeExtractor) Supports() []faults.Category {
	return []faults.Category{
		faults.CategoryIO,
		faults.CategoryParsing,
		faults.CategoryNetwork,
		faults.CategoryConfiguration,
		faults.CategoryValidation,
		faults.CategoryInternal,
		faults.CategoryCircuitBreaker,
		faults.CategoryTimeout,
		faults.CategoryResourceExhaustion,
		faults.CategoryNotFound,
		faults.CategoryConcurrency,
		faults.CategoryExternalService,
		faults.CategoryAuthentication,
		faults.CategoryAuthorization,
		faults.CategoryStateConflict,
		faults.CategoryMultiple,
		faults.CategoryStyle,
		faults.CategoryRuntime,
		faults.CategoryUnspecified,
	}
}

func (NativeExtractor) Extract(err faults.Error) Parameters {
	if err == nil {
		return Parameters{}
	}
	values := nativeValues(faults.Subject(err))
	if len(values) == 0 {
		return Parameters{}
	}
	return NewParameters(SourceErrorContext, NativeConfidence, values)
}

func nativeValues(err faults.Error) map[string]string {
	switch e := err.(type) {
	case *faults.IOError:
		return map[string]string{
			KeyOperation: e.Op,
			KeyPath:      e.Path,
			KeyFilePath:  e.Path,
			"cause":      causeText(e.Cause),
		}
	case *faults.ParseError:
		v := map[string]string{
			"format":  strings.ToLower(e.Kind),
			"context": e.Context,
			"cause":   causeText(e.Cause),
		}
		if IsPathLike(e.Context) {
			v[KeyFilePath] = e.Context
		}
		return v
	case *faults.NetworkError:
		v := map[string]string{
			"network_kind": e.Kind,
			"url":          e.URL,
			"cause":        causeText(e.Cause),
		}
		if u, perr := url.Parse(e.URL); perr == nil {
			v["host"] = u.Hostname()
			v["port"] = u.Port()
			v["scheme"] = u.Scheme
		}
		return v
	case *faults.ConfigError:
		return map[string]string{
			KeyMessage:  e.Message,
			KeyPath:     e.Path,
			KeyFilePath: e.Path,
			"format":    formatOf(e.Path),
			"cause":     causeText(e.Cause),
		}
	case *faults.ValidationError:
		return map[string]string{
			"field":    e.Field,
			KeyMessage: e.Message,
			"expected": e.Expected,
			"actual":   e.Actual,
			"rule":     e.Rule,
		}
	case *faults.InternalError:
		return map[string]string{KeyMessage: e.Message, "component": e.Component}
	case *faults.CircuitBreakerOpenError:
		v := map[string]string{"breaker": e.Name}
		if e.RetryAfter > 0 {
			v["retry_after"] = e.RetryAfter.String()
			v["retry_after_seconds"] = strconv.FormatInt(int64(e.RetryAfter.Seconds()), 10)
		}
		return v
	case *faults.TimeoutError:
		return map[string]string{
			KeyOperation:  e.Operation,
			"duration":    e.Duration.String(),
			"duration_ms": strconv.FormatInt(e.Duration.Milliseconds(), 10),
		}
	case *faults.ResourceExhaustedError:
		return map[string]string{"resource": e.Resource, "limit": e.Limit, "current": e.Current}
	case *faults.NotFoundError:
		v := map[string]string{
			KeyResourceType: e.ResourceType,
			KeyIdentifier:   e.Identifier,
		}
		if IsPathLike(e.Identifier) {
			v[KeyPath] = e.Identifier
		}
		return v
	case *faults.StateConflictError:
		return map[string]string{KeyMessage: e.Message}
	case *faults.ConcurrencyError:
		return map[string]string{KeyMessage: e.Message, "cause": causeText(e.Cause)}
	case *faults.ExternalServiceError:
		return map[string]string{"service": e.Service, KeyMessage: e.Message, "cause": causeText(e.Cause)}
	case *faults.MissingValueError:
		return map[string]string{"item": e.Item, "key": e.Item}
	case *faults.AuthenticationError:
		return map[string]string{KeyMessage: e.Message}
	case *faults.AuthorizationError:
		return map[string]string{KeyMessage: e.Message}
	case *faults.StyleError:
		return map[string]string{KeyMessage: e.Message}
	case *faults.RuntimeError:
		return map[string]string{KeyMessage: e.Message}
	case *faults.MultipleErrors:
		v := map[string]string{"error_count": strconv.Itoa(len(e.Errors))}
		if len(e.Errors) > 0 && e.Errors[0] != nil {
			v["first_category"] = e.Errors[0].Category().String()
		}
		return v
	case *faults.OopsError:
		return map[string]string{KeyMessage: e.Message, "cause": causeText(e.Cause)}
	default:
		return nil
	}
}

// IsPathLike reports whether s looks like a filesystem path: it contains a
// separator or ends in an extension, and has no whitespace.
func IsPathLike(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\n") || strings.Contains(s, "://") {
		return false
	}
	return strings.ContainsAny(s, `/\`) || filepath.Ext(s) != ""
}

// formatOf maps a config path to its format name.
func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	default:
		return ""
	}
}

func causeText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
