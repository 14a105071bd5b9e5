package template

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/fyrsmithlabs/remedy/internal/faults"
)

// conditionEnv declares the variables visible to When expressions:
// params (map of string to string), category and code.
var conditionEnv = sync.OnceValues(func() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("params", cel.MapType(cel.StringType, cel.StringType)),
		cel.Variable("category", cel.StringType),
		cel.Variable("code", cel.StringType),
	)
})

type condition struct {
	expr string
	prg  cel.Program
}

func compileCondition(expr string) (*condition, error) {
	env, err := conditionEnv()
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, issues.Err())
	}
	if out := ast.OutputType().String(); out != "bool" && out != "dyn" {
		return nil, fmt.Errorf("condition %q has type %s, want bool", expr, out)
	}

	prg, err := env.Program(ast, cel.CostLimit(10000))
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", expr, err)
	}
	return &condition{expr: expr, prg: prg}, nil
}

func (c *condition) eval(values map[string]string, category faults.Category, code string) (bool, error) {
	if values == nil {
		values = map[string]string{}
	}
	out, _, err := c.prg.Eval(map[string]any{
		"params":   values,
		"category": category.String(),
		"code":     code,
	})
	if err != nil {
		return false, err
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("condition %q returned %T", c.expr, out.Value())
	}
	return b, nil
}
