package template

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Catalog is the on-disk form of a template set.
type Catalog struct {
	Templates []FixTemplate `yaml:"templates"`
}

// ParseYAML decodes a catalog. Unknown fields are rejected.
func ParseYAML(data []byte) ([]FixTemplate, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cat Catalog
	if err := dec.Decode(&cat); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode template catalog: %w", err)
	}
	for i := range cat.Templates {
		if err := cat.Templates[i].Validate(); err != nil {
			return nil, fmt.Errorf("template %d: %w", i, err)
		}
	}
	return cat.Templates, nil
}

// LoadFile reads a YAML catalog from path and registers every template in
// file order.
func LoadFile(r *Registry, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read template catalog: %w", err)
	}
	templates, err := ParseYAML(data)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	for _, t := range templates {
		if err := r.Register(t); err != nil {
			return 0, fmt.Errorf("%s: %w", path, err)
		}
	}
	return len(templates), nil
}
