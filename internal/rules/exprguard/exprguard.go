// Package exprguard validates, compiles and evaluates the optional free-form
// guard expressions rules may carry alongside their conditions.
package exprguard

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Compile validates the guard and compiles it to a reusable program.
// An empty guard compiles to nil.
func Compile(guard string) (*vm.Program, error) {
	guard = strings.TrimSpace(guard)
	if guard == "" {
		return nil, nil
	}

	if err := Validate(guard); err != nil {
		return nil, err
	}

	program, err := expr.Compile(guard, expr.AsBool(), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("compile guard: %w", err)
	}
	return program, nil
}

// Eval interprets the guard against the applicant fields. Empty guards are
// trivially true.
func Eval(guard string, vars map[string]any) (bool, error) {
	guard = strings.TrimSpace(guard)
	if guard == "" {
		return true, nil
	}

	if err := Validate(guard); err != nil {
		return false, err
	}

	out, err := expr.Eval(guard, vars)
	if err != nil {
		return false, err
	}

	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("guard must evaluate to bool (got %T)", out)
	}
	return b, nil
}

// EvalCompiled runs a program produced by Compile. A nil program is
// trivially true.
func EvalCompiled(program *vm.Program, vars map[string]any) (bool, error) {
	if program == nil {
		return true, nil
	}

	out, err := expr.Run(program, vars)
	if err != nil {
		return false, err
	}

	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("guard must evaluate to bool (got %T)", out)
	}
	return b, nil
}
