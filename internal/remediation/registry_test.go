package remediation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/remedy/internal/extraction"
	"github.com/fyrsmithlabs/remedy/internal/faults"
	"github.com/fyrsmithlabs/remedy/internal/fix"
)

func always(name, description string) Generator {
	return GeneratorFunc{Label: name, Fn: func(faults.Error, extraction.Parameters, string) *fix.Autocorrection {
		return fix.New(description, fix.TypeInformation, 0.5)
	}}
}

func never(name string) Generator {
	return GeneratorFunc{Label: name, Fn: func(faults.Error, extraction.Parameters, string) *fix.Autocorrection {
		return nil
	}}
}

func TestRegistryDispatch(t *testing.T) {
	tests := []struct {
		name     string
		gens     []Generator
		wantGen  string
		wantDesc string
	}{
		{
			name:     "first registered wins",
			gens:     []Generator{always("a", "first"), always("b", "second")},
			wantGen:  "a",
			wantDesc: "first",
		},
		{
			name:     "declines are skipped",
			gens:     []Generator{never("a"), always("b", "second")},
			wantGen:  "b",
			wantDesc: "second",
		},
		{
			name: "all decline",
			gens: []Generator{never("a"), never("b")},
		},
		{
			name: "empty registry",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry(tt.gens...)
			got, gen := r.Dispatch(faults.Internal("boom"), extraction.Parameters{}, "")
			assert.Equal(t, tt.wantGen, gen)
			if tt.wantDesc == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantDesc, got.Description)
		})
	}
}

func TestRegistryNilInputs(t *testing.T) {
	r := NewRegistry(always("a", "x"), nil)
	assert.Equal(t, 1, r.Len())

	got, gen := r.Dispatch(nil, extraction.Parameters{}, "")
	assert.Nil(t, got)
	assert.Empty(t, gen)
}

func TestRegistrySnapshot(t *testing.T) {
	r := NewRegistry(always("a", "x"))
	snap := r.Generators()
	r.Register(always("b", "y"))

	assert.Len(t, snap, 1)
	assert.Equal(t, []string{"a", "b"}, r.Names())
}

func TestDefaultNamesUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, name := range NewDefaultRegistry().Names() {
		assert.False(t, seen[name], "duplicate generator %q", name)
		seen[name] = true
	}
	assert.Equal(t, "diagnostic_suggestion", Default()[0].Name())
}
