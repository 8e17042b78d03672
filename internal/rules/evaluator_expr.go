package rules

import (
	"github.com/expr-lang/expr/vm"

	"github.com/admitware/scholarship-advisor/internal/rules/exprguard"
)

// ExprGuard evaluates guard expressions with expr-lang.
type ExprGuard struct{}

func (ExprGuard) Eval(guard string, vars map[string]any) (bool, error) {
	return exprguard.Eval(guard, vars)
}

func (ExprGuard) EvalCompiled(program *vm.Program, vars map[string]any) (bool, error) {
	return exprguard.EvalCompiled(program, vars)
}
