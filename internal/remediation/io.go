package remediation

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/fyrsmithlabs/remedy/internal/extraction"
	"github.com/fyrsmithlabs/remedy/internal/faults"
	"github.com/fyrsmithlabs/remedy/internal/fix"
)

// IOMissingDirectoryGenerator creates the parent directory of a path that
// does not exist. 0.8: the path comes from the typed error.
type IOMissingDirectoryGenerator struct{}

func (*IOMissingDirectoryGenerator) Name() string { return "io_missing_directory" }

func (g *IOMissingDirectoryGenerator) Generate(err faults.Error, params extraction.Parameters, source string) *fix.Autocorrection {
	e, ok := faults.Subject(err).(*faults.IOError)
	if !ok || !(errors.Is(e.Cause, fs.ErrNotExist) || mentions(err, "no such file or directory", "directory not found", "cannot find the path")) {
		return nil
	}
	path := params.First(extraction.KeyPath, extraction.KeyFilePath)
	if path == "" {
		path = e.Path
	}
	if path == "" {
		return nil
	}
	dir := path
	if filepath.Ext(path) != "" {
		dir = filepath.Dir(path)
	}
	return adviseCommand(g.Name(), "Create missing directory "+dir, fix.TypeExecuteCommand, 0.8,
		"Create the directory and any missing parents", "mkdir -p "+quoteShell(dir))
}

// IOPermissionGenerator restores conventional permissions: 644 for files
// and 755 for directories, told apart by extension. 0.7 since the right mode
// is a guess.
type IOPermissionGenerator struct{}

func (*IOPermissionGenerator) Name() string { return "io_permission" }

func (g *IOPermissionGenerator) Generate(err faults.Error, params extraction.Parameters, source string) *fix.Autocorrection {
	var cause error
	if e, ok := faults.Subject(err).(*faults.IOError); ok {
		cause = e.Cause
	}
	if !errors.Is(cause, fs.ErrPermission) && !mentions(err, "permission denied", "access is denied", "operation not permitted") {
		return nil
	}
	path := params.First(extraction.KeyPath, extraction.KeyFilePath)
	if path == "" {
		return nil
	}
	mode := "755"
	if filepath.Ext(path) != "" {
		mode = "644"
	}
	cmd := &fix.ExecuteCommand{Command: "chmod", Args: []string{mode, path}}
	description := "Fix permissions for " + path
	return fix.New(description, fix.TypeExecuteCommand, 0.7,
		fix.WithDetails(cmd),
		fix.WithCommands(cmd.CommandLine()),
		fix.WithID(fix.DeriveID(g.Name(), description)),
	)
}

// mentions reports whether the rendered error contains any of the phrases,
// case-insensitively.
func mentions(err faults.Error, phrases ...string) bool {
	text := strings.ToLower(err.Error())
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
