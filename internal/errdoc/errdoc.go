// Package errdoc decodes error documents: YAML or JSON descriptions of a
// fault, with optional context and diagnostic, as fed to the CLI.
//
//	kind: not_found
//	fields:
//	  resource_type: file
//	  identifier: /tmp/config.json
//	context:
//	  message: loading settings
//	  component: loader
//	  diagnostic:
//	    code: E0432
//	    file: src/main.rs
//	    line: 3
package errdoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fyrsmithlabs/remedy/internal/faults"
)

var (
	// ErrUnknownKind is returned for a kind with no matching variant.
	ErrUnknownKind = errors.New("unknown error kind")
	// ErrInvalidDocument is returned for documents that cannot describe a
	// fault.
	ErrInvalidDocument = errors.New("invalid error document")
)

// maxNesting bounds nested documents under multiple.
const maxNesting = 16

// Document is the decoded form. JSON documents decode through the YAML
// parser, so both share these tags.
type Document struct {
	Kind    string            `yaml:"kind"`
	Message string            `yaml:"message"`
	Fields  map[string]string `yaml:"fields"`
	Cause   string            `yaml:"cause"`
	Context *Context          `yaml:"context"`
	Errors  []Document        `yaml:"errors"`
}

// Context mirrors faults.ErrorContext.
type Context struct {
	Message            string            `yaml:"message"`
	Severity           *faults.Severity  `yaml:"severity"`
	Component          string            `yaml:"component"`
	CorrelationID      string            `yaml:"correlation_id"`
	RecoverySuggestion string            `yaml:"recovery_suggestion"`
	Tags               []string          `yaml:"tags"`
	Metadata           map[string]string `yaml:"metadata"`
	Diagnostic         *Diagnostic       `yaml:"diagnostic"`
}

// Diagnostic mirrors faults.DiagnosticResult.
type Diagnostic struct {
	Code           string   `yaml:"code"`
	Message        string   `yaml:"message"`
	File           string   `yaml:"file"`
	Line           int      `yaml:"line"`
	Column         int      `yaml:"column"`
	Scope          string   `yaml:"scope"`
	SuggestedFixes []string `yaml:"suggested_fixes"`
}

// Decode reads one document from r.
func Decode(r io.Reader) (faults.Error, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading error document: %w", err)
	}
	return Parse(data)
}

// Parse decodes data as YAML or JSON. A document that is only a scalar
// string is treated as a bare error message.
func Parse(data []byte) (faults.Error, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidDocument)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("parsing error document: %w", err)
	}
	if len(node.Content) == 1 && node.Content[0].Kind == yaml.ScalarNode {
		return faults.Oops(strings.TrimSpace(node.Content[0].Value), nil), nil
	}

	var doc Document
	if err := node.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding error document: %w", err)
	}
	return doc.Fault()
}

// Fault builds the fault the document describes.
func (d *Document) Fault() (faults.Error, error) {
	return d.fault(0)
}

func (d *Document) fault(depth int) (faults.Error, error) {
	if depth > maxNesting {
		return nil, fmt.Errorf("%w: nesting deeper than %d", ErrInvalidDocument, maxNesting)
	}
	inner, err := d.variant(depth)
	if err != nil {
		return nil, err
	}
	if d.Context == nil {
		return inner, nil
	}
	return faults.Wrap(d.Context.build(), inner), nil
}

func (d *Document) variant(depth int) (faults.Error, error) {
	f := fields(d.Fields)
	var cause error
	if d.Cause != "" {
		cause = errors.New(d.Cause)
	}
	msg := f.first("message", d.Message)

	switch normalizeKind(d.Kind) {
	case "io":
		return faults.IO(f.get("operation"), f.get("path"), cause), nil
	case "parse", "parsing":
		return faults.Parse(f.get("format"), f.get("context"), cause), nil
	case "network":
		return faults.Network(f.get("kind"), f.get("url"), cause), nil
	case "config", "configuration":
		return &faults.ConfigError{Message: msg, Path: f.get("path"), Cause: cause}, nil
	case "validation":
		return &faults.ValidationError{
			Field:    f.get("field"),
			Message:  msg,
			Expected: f.get("expected"),
			Actual:   f.get("actual"),
			Rule:     f.get("rule"),
		}, nil
	case "internal":
		return &faults.InternalError{Message: msg, Component: f.get("component"), Cause: cause}, nil
	case "circuitbreakeropen", "circuitbreaker":
		after, err := f.duration("retry_after")
		if err != nil {
			return nil, err
		}
		return faults.CircuitOpen(f.get("name"), after), nil
	case "timeout":
		took, err := f.duration("duration")
		if err != nil {
			return nil, err
		}
		return faults.Timeout(f.get("operation"), took), nil
	case "resourceexhausted", "resourceexhaustion":
		return faults.Exhausted(f.get("resource"), f.get("limit"), f.get("current")), nil
	case "notfound":
		return faults.NotFound(f.get("resource_type"), f.get("identifier")), nil
	case "stateconflict":
		return faults.StateConflict(msg), nil
	case "concurrency":
		return faults.Concurrency(msg, cause), nil
	case "externalservice":
		return faults.ExternalService(f.get("service"), msg, cause), nil
	case "missingvalue":
		return faults.MissingValue(f.first("item", f.get("key"))), nil
	case "authentication":
		return faults.Authentication(msg), nil
	case "authorization":
		return faults.Authorization(msg), nil
	case "style":
		return faults.Style(msg), nil
	case "runtime":
		return faults.Runtime(msg), nil
	case "multiple":
		errs := make([]faults.Error, 0, len(d.Errors))
		for i := range d.Errors {
			e, err := d.Errors[i].fault(depth + 1)
			if err != nil {
				return nil, fmt.Errorf("errors[%d]: %w", i, err)
			}
			errs = append(errs, e)
		}
		return faults.Multiple(errs...), nil
	case "", "oops", "unspecified":
		if msg == "" && cause == nil {
			return nil, fmt.Errorf("%w: no kind and no message", ErrInvalidDocument)
		}
		return faults.Oops(msg, cause), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, d.Kind)
	}
}

func (c *Context) build() *faults.ErrorContext {
	opts := []faults.ContextOption{
		faults.WithComponent(c.Component),
		faults.WithCorrelationID(c.CorrelationID),
		faults.WithRecoverySuggestion(c.RecoverySuggestion),
		faults.WithTags(c.Tags...),
	}
	if c.Severity != nil {
		opts = append(opts, faults.WithSeverity(*c.Severity))
	}
	for k, v := range c.Metadata {
		opts = append(opts, faults.WithMetadata(k, v))
	}
	if dg := c.Diagnostic; dg != nil {
		result := &faults.DiagnosticResult{
			SuggestedFixes:  dg.SuggestedFixes,
			OriginalMessage: dg.Message,
			DiagnosticCode:  dg.Code,
		}
		if dg.File != "" {
			result.PrimaryLocation = &faults.ErrorLocation{File: dg.File, Line: dg.Line, Column: dg.Column, Scope: dg.Scope}
		}
		opts = append(opts, faults.WithDiagnostic(result))
	}
	return faults.NewContext(c.Message, opts...)
}

func normalizeKind(kind string) string {
	kind = strings.ToLower(strings.TrimSpace(kind))
	kind = strings.TrimSuffix(kind, "_error")
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(kind)
}

type fields map[string]string

func (f fields) get(key string) string { return f[key] }

func (f fields) first(key, fallback string) string {
	if v := f[key]; v != "" {
		return v
	}
	return fallback
}

// duration accepts Go duration syntax or a bare number of seconds.
func (f fields) duration(key string) (time.Duration, error) {
	raw := strings.TrimSpace(f[key])
	if raw == "" {
		return 0, nil
	}
	if secs, err := strconv.ParseFloat(raw, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: field %s: %w", ErrInvalidDocument, key, err)
	}
	return d, nil
}
