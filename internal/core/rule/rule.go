// Package rule provides CEL-based refinement rules for model types.
// A rule is a boolean expression over `value`, compiled once when the
// type definition is registered and evaluated after base validation.
package rule

import (
	"fmt"

	"github.com/google/cel-go/cel"
)

// Rule is a compiled refinement expression.
type Rule struct {
	expr    string
	program cel.Program
}

// Compile parses and type-checks a rule expression. The expression must
// produce a boolean; `value` is the only variable in scope.
func Compile(expr string) (*Rule, error) {
	env, err := cel.NewEnv(
		cel.Variable("value", cel.DynType),
	)
	if err != nil {
		return nil, fmt.Errorf("create rule environment: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile rule %q: %w", expr, issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("rule %q must evaluate to bool, got %s", expr, ast.OutputType())
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("build rule program: %w", err)
	}

	return &Rule{expr: expr, program: program}, nil
}

// Expr returns the original expression text.
func (r *Rule) Expr() string { return r.expr }

// Eval runs the rule against a value. A non-boolean result or an
// evaluation error fails the rule.
func (r *Rule) Eval(value any) (bool, error) {
	out, _, err := r.program.Eval(map[string]any{"value": value})
	if err != nil {
		return false, fmt.Errorf("evaluate rule %q: %w", r.expr, err)
	}
	ok, isBool := out.Value().(bool)
	if !isBool {
		return false, fmt.Errorf("rule %q produced non-boolean result", r.expr)
	}
	return ok, nil
}
