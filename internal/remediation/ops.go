package remediation

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fyrsmithlabs/remedy/internal/extraction"
	"github.com/fyrsmithlabs/remedy/internal/faults"
	"github.com/fyrsmithlabs/remedy/internal/fix"
)

// TimeoutGenerator proposes doubling the operation's timeout. 0.6: a
// longer deadline may only hide a slow dependency.
type TimeoutGenerator struct{}

func (*TimeoutGenerator) Name() string { return "timeout" }

func (g *TimeoutGenerator) Generate(err faults.Error, params extraction.Parameters, source string) *fix.Autocorrection {
	if faults.Subject(err).Category() != faults.CategoryTimeout {
		return nil
	}
	op := params.Value(extraction.KeyOperation)
	if op == "" {
		op = "operation"
	}
	description := fmt.Sprintf("Increase the timeout for '%s'", op)
	snippet := "timeout: <larger value>"
	if ms, perr := strconv.ParseInt(params.Value("duration_ms"), 10, 64); perr == nil && ms > 0 {
		description = fmt.Sprintf("Increase the timeout for '%s' above %s", op, params.Value("duration"))
		snippet = fmt.Sprintf("timeout: %dms", ms*2)
	}
	return adviseCode(g.Name(), description, fix.TypeConfigurationChange, 0.6, "", 0, snippet,
		"Raise the deadline, or find out why the operation is slow")
}

// CircuitBreakerGenerator tells the caller to wait for the breaker to
// close. Informational at 0.7: waiting is always correct, never a fix.
type CircuitBreakerGenerator struct{}

func (*CircuitBreakerGenerator) Name() string { return "circuit_breaker_open" }

func (g *CircuitBreakerGenerator) Generate(err faults.Error, params extraction.Parameters, source string) *fix.Autocorrection {
	if faults.Subject(err).Category() != faults.CategoryCircuitBreaker {
		return nil
	}
	name := params.Value("breaker")
	description := fmt.Sprintf("Wait for circuit breaker '%s' to close before retrying", name)
	if s := params.Value("retry_after_seconds"); s != "" {
		description = fmt.Sprintf("Wait %s seconds for circuit breaker '%s' to close before retrying", s, name)
	}
	return fix.New(description, fix.TypeInformation, 0.7, fix.WithID(fix.DeriveID(g.Name(), description)))
}

// exhaustion maps a resource name fragment to a diagnostic command.
var exhaustion = []struct {
	fragments   []string
	command     string
	explanation string
}{
	{[]string{"disk", "space", "storage", "volume"}, "df -h", "Free disk space or grow the volume"},
	{[]string{"memory", "heap", "oom"}, "free -h", "Reduce memory use or raise the limit"},
	{[]string{"file descriptor", "open files", "fd"}, "ulimit -n", "Close leaked descriptors or raise the open-files limit"},
	{[]string{"connection", "pool"}, "", "Release connections promptly or raise the pool size"},
}

// ResourceExhaustedGenerator names the limit that was hit and how to
// inspect it. 0.6 for a recognized resource, 0.4 otherwise.
type ResourceExhaustedGenerator struct{}

func (*ResourceExhaustedGenerator) Name() string { return "resource_exhausted" }

func (g *ResourceExhaustedGenerator) Generate(err faults.Error, params extraction.Parameters, source string) *fix.Autocorrection {
	if faults.Subject(err).Category() != faults.CategoryResourceExhaustion {
		return nil
	}
	resource := params.Value("resource")
	description := fmt.Sprintf("Resolve exhaustion of '%s'", resource)
	if limit := params.Value("limit"); limit != "" {
		description += " (limit " + limit + ")"
	}

	lower := strings.ToLower(resource)
	for _, e := range exhaustion {
		for _, f := range e.fragments {
			if strings.Contains(lower, f) {
				if e.command == "" {
					return fix.New(description, fix.TypeConfigurationChange, 0.6,
						fix.WithDetails(&fix.SuggestCodeChange{Snippet: "max_connections: <larger value>", Explanation: e.explanation}),
						fix.WithID(fix.DeriveID(g.Name(), description)))
				}
				return adviseCommand(g.Name(), description, fix.TypeManualIntervention, 0.6, e.explanation, e.command)
			}
		}
	}
	return fix.New(description, fix.TypeManualIntervention, 0.4, fix.WithID(fix.DeriveID(g.Name(), description)))
}

// NotFoundGenerator proposes creating a missing file or directory at the
// reported path, 0.7. Other resources only get a note to create or correct
// the reference, 0.3.
type NotFoundGenerator struct{}

func (*NotFoundGenerator) Name() string { return "not_found" }

func (g *NotFoundGenerator) Generate(err faults.Error, params extraction.Parameters, source string) *fix.Autocorrection {
	if faults.Subject(err).Category() != faults.CategoryNotFound {
		return nil
	}
	kind := strings.ToLower(params.Value(extraction.KeyResourceType))
	id := params.Value(extraction.KeyIdentifier)
	path := params.Value(extraction.KeyPath)
	if path == "" && (kind == "file" || isDirectoryKind(kind)) {
		path = id
	}

	if path == "" {
		description := fmt.Sprintf("Resource type '%s' with identifier '%s' not found; create it or correct the reference", kind, id)
		return fix.New(description, fix.TypeManualIntervention, 0.3, fix.WithID(fix.DeriveID(g.Name(), description)))
	}

	if isDirectoryKind(kind) {
		cmd := &fix.ExecuteCommand{Command: "mkdir", Args: []string{"-p", path}}
		description := fmt.Sprintf("Create missing directory '%s'", path)
		return fix.New(description, fix.TypeExecuteCommand, 0.7,
			fix.WithDetails(cmd),
			fix.WithCommands(cmd.CommandLine()),
			fix.WithID(fix.DeriveID(g.Name(), description)))
	}

	cmd := &fix.ExecuteCommand{Command: "touch", Args: []string{path}}
	description := fmt.Sprintf("Create missing %s '%s'", nonEmpty(kind, "file"), path)
	commands := []string{cmd.CommandLine()}
	if dir := filepath.Dir(path); dir != "." && dir != "/" {
		commands = append([]string{"mkdir -p " + quoteShell(dir)}, commands...)
	}
	return fix.New(description, fix.TypeExecuteCommand, 0.7,
		fix.WithDetails(cmd),
		fix.WithCommands(commands...),
		fix.WithID(fix.DeriveID(g.Name(), description)))
}

func isDirectoryKind(kind string) bool {
	return kind == "directory" || kind == "dir" || kind == "folder"
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
