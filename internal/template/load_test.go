package template

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/remedy/internal/faults"
	"github.com/fyrsmithlabs/remedy/internal/fix"
)

const catalogYAML = `
templates:
  - name: disk-full
    description: Free disk space
    template: "Disk {resource} is full ({current} of {limit})"
    categories: [resource_exhaustion]
    fix_type: manual_intervention
    confidence: 0.5
    commands: ["df -h"]
  - name: grpc-unavailable
    template: "Service {service} unavailable"
    codes: ["UNAVAILABLE"]
    fix_type: "Command Execution"
    when: '"service" in params'
`

func TestParseYAML(t *testing.T) {
	templates, err := ParseYAML([]byte(catalogYAML))
	require.NoError(t, err)
	require.Len(t, templates, 2)

	assert.Equal(t, "disk-full", templates[0].Name)
	assert.Equal(t, []faults.Category{faults.CategoryResourceExhaustion}, templates[0].Categories)
	assert.Equal(t, fix.TypeManualIntervention, templates[0].Type)
	assert.Equal(t, []string{"df -h"}, templates[0].Commands)
	assert.Equal(t, fix.TypeExecuteCommand, templates[1].Type)
	assert.Equal(t, []string{"UNAVAILABLE"}, templates[1].Codes)
}

func TestParseYAML_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown field", "templates:\n  - name: x\n    template: y\n    colour: red\n"},
		{"unknown category", "templates:\n  - name: x\n    template: y\n    categories: [weather]\n"},
		{"missing template", "templates:\n  - name: x\n"},
		{"bad fix type", "templates:\n  - name: x\n    template: y\n    fix_type: teleport\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tt.data))
			assert.Error(t, err)
		})
	}

	empty, err := ParseYAML(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.yaml")
	require.NoError(t, os.WriteFile(path, []byte(catalogYAML), 0o600))

	r := NewRegistry()
	n, err := LoadFile(r, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"disk-full", "grpc-unavailable"}, r.Names())

	_, err = LoadFile(r, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
