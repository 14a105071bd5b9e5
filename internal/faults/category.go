package faults

import (
	"fmt"
	"strings"
)

// Category is the taxonomy bucket an error belongs to.
type Category int

const (
	CategoryUnspecified Category = iota
	CategoryIO
	CategoryParsing
	CategoryNetwork
	CategoryConfiguration
	CategoryValidation
	CategoryInternal
	CategoryCircuitBreaker
	CategoryTimeout
	CategoryResourceExhaustion
	CategoryNotFound
	CategoryConcurrency
	CategoryExternalService
	CategoryAuthentication
	CategoryAuthorization
	CategoryStateConflict
	CategoryMultiple
	CategoryStyle
	CategoryRuntime
)

var categoryNames = map[Category]string{
	CategoryUnspecified:        "unspecified",
	CategoryIO:                 "io",
	CategoryParsing:            "parsing",
	CategoryNetwork:            "network",
	CategoryConfiguration:      "configuration",
	CategoryValidation:         "validation",
	CategoryInternal:           "internal",
	CategoryCircuitBreaker:     "circuit_breaker",
	CategoryTimeout:            "timeout",
	CategoryResourceExhaustion: "resource_exhaustion",
	CategoryNotFound:           "not_found",
	CategoryConcurrency:        "concurrency",
	CategoryExternalService:    "external_service",
	CategoryAuthentication:     "authentication",
	CategoryAuthorization:      "authorization",
	CategoryStateConflict:      "state_conflict",
	CategoryMultiple:           "multiple",
	CategoryStyle:              "style",
	CategoryRuntime:            "runtime",
}

// AllCategories returns every category in declaration order.
func AllCategories() []Category {
	out := make([]Category, 0, len(categoryNames))
	for c := CategoryUnspecified; c <= CategoryRuntime; c++ {
		out = append(out, c)
	}
	return out
}

// String returns the snake_case name of the category.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// Valid reports whether c is one of the declared categories.
func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

// ParseCategory parses a category name. Matching ignores case, and hyphens,
// spaces and underscores are interchangeable, so "Not Found", "not-found"
// and "NOT_FOUND" all parse. "notfound" and "ioerror"-style names without
// separators are accepted too.
func ParseCategory(s string) (Category, error) {
	key := normalizeName(s)
	for c, name := range categoryNames {
		if key == normalizeName(name) {
			return c, nil
		}
	}
	if key == "i/o" || key == "ioerror" {
		return CategoryIO, nil
	}
	return CategoryUnspecified, fmt.Errorf("unknown category %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid category %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(s)
}
