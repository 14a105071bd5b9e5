package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/remedy/internal/errdoc"
)

const notFoundDoc = `kind: not_found
fields:
  resource_type: file
  identifier: /tmp/config.json
`

// execute runs the CLI with an isolated HOME so no user config is read.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		names = append(names, c.Name())
		assert.NotEmpty(t, c.Short, c.Name())
	}
	assert.Subset(t, names, []string{"classify", "extract", "suggest", "generators", "templates"})

	for _, flag := range []string{"config", "log-level", "json"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{name: "not found", doc: notFoundDoc, want: "not_found"},
		{name: "json timeout", doc: `{"kind": "timeout", "fields": {"operation": "fetch", "duration": "2s"}}`, want: "timeout"},
		{name: "bare message", doc: "something broke\n", want: "unspecified"},
		{
			name: "context keeps inner category",
			doc:  "kind: validation\nfields: {field: port}\nmessage: must be positive\ncontext:\n  message: loading\n",
			want: "validation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.doc, "classify")
			require.NoError(t, err)
			assert.Equal(t, tt.want+"\n", out)
		})
	}
}

func TestClassify_FromFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "error.yaml", notFoundDoc)

	out, err := execute(t, "", "classify", "--json", path)
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "not_found", got["category"])
	assert.Contains(t, got["error"], "/tmp/config.json")
}

func TestClassify_InvalidDocument(t *testing.T) {
	_, err := execute(t, "kind: bogus\n", "classify")
	require.Error(t, err)
	assert.ErrorIs(t, err, errdoc.ErrUnknownKind)

	_, err = execute(t, "", "classify", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExtract(t *testing.T) {
	out, err := execute(t, notFoundDoc, "extract", "--json")
	require.NoError(t, err)

	var got extractOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "not_found", got.Category)
	assert.Equal(t, "/tmp/config.json", got.Parameters["path"])
	assert.Equal(t, "file", got.Parameters["resource_type"])
	assert.InDelta(t, 0.95, got.Confidence, 1e-9)

	out, err = execute(t, notFoundDoc, "extract")
	require.NoError(t, err)
	assert.Contains(t, out, "category:   not_found")
	assert.Contains(t, out, "/tmp/config.json")
}

func TestSuggest(t *testing.T) {
	out, err := execute(t, notFoundDoc, "suggest")
	require.NoError(t, err)
	assert.Contains(t, out, "/tmp/config.json")
	assert.Contains(t, out, "$ ")

	out, err = execute(t, notFoundDoc, "suggest", "--json")
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Contains(t, got["description"], "/tmp/config.json")
	assert.NotEmpty(t, got["id"])
	assert.NotEmpty(t, got["commands_to_apply"])
}

func TestSuggest_WithSource(t *testing.T) {
	dir := t.TempDir()
	source := writeFile(t, dir, "main.rs", "use std::fmt;\nuse std::io;\n\nfn main() {}\n")
	doc := writeFile(t, dir, "lint.yaml", "kind: validation\nmessage: \"unused import: `std::io`\"\n")

	out, err := execute(t, "", "suggest", "--source", source, doc)
	require.NoError(t, err)
	assert.Contains(t, out, "Remove unused import `std::io`")
	assert.Contains(t, out, "-use std::io;")
}

func TestSuggest_NoRemediation(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "config.yaml", "engine:\n  template_fallback: false\n")

	out, err := execute(t, "kind: authentication\nmessage: token expired\n", "--config", cfg, "suggest")
	require.NoError(t, err)
	assert.Equal(t, "no remediation available\n", out)

	out, err = execute(t, "kind: authentication\nmessage: token expired\n", "--config", cfg, "suggest", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"matched": false}`, out)
}

func TestGenerators_DisabledFromConfig(t *testing.T) {
	cfg := writeFile(t, t.TempDir(), "config.yaml", "engine:\n  disabled_generators: [not_found]\n")

	out, err := execute(t, "", "--config", cfg, "generators")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "diagnostic_suggestion", lines[0])
	assert.Contains(t, lines, "not_found (disabled)")
	assert.Contains(t, lines, "timeout")

	out, err = execute(t, notFoundDoc, "--config", cfg, "suggest")
	require.NoError(t, err)
	assert.NotContains(t, out, "Create missing file")
}

func TestTemplatesList(t *testing.T) {
	out, err := execute(t, "", "templates", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "missing-file")
	assert.Contains(t, out, "E0432")
}

func TestTemplatesList_FromFile(t *testing.T) {
	dir := t.TempDir()
	catalog := writeFile(t, dir, "templates.yaml", `templates:
  - name: restart-worker
    template: "Restart worker {component}"
    categories: [internal]
    fix_type: execute_command
`)
	cfg := writeFile(t, dir, "config.yaml", "engine:\n  templates_file: "+catalog+"\n")

	out, err := execute(t, "", "--config", cfg, "templates", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "restart-worker")
	assert.Contains(t, out, "missing-file")
}

func TestSetupErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "missing explicit config",
			args:    []string{"--config", filepath.Join(dir, "nope.yaml"), "generators"},
			wantErr: "loading config",
		},
		{
			name:    "invalid min confidence",
			args:    []string{"--config", writeFile(t, dir, "bad.yaml", "engine:\n  min_confidence: 2\n"), "generators"},
			wantErr: "min_confidence",
		},
		{
			name:    "bad log level",
			args:    []string{"--log-level", "loud", "generators"},
			wantErr: "loud",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("REMEDY_ENGINE_MIN_CONFIDENCE", "0.99")

	out, err := execute(t, notFoundDoc, "suggest")
	require.NoError(t, err)
	assert.Equal(t, "no remediation available\n", out)
}

func TestConfigPath(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "~/remedy.yaml", want: "~/remedy.yaml"},
		{in: "/etc/remedy.yaml", want: "/etc/remedy.yaml"},
		{in: "remedy.yaml", want: filepath.Join(wd, "remedy.yaml")},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := configPath(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
