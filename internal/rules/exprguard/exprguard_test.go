package exprguard

import "testing"

func TestValidate(t *testing.T) {
	valid := []string{
		"",
		"cgpa >= 3",
		"cgpa >= 3 && family_income <= 4000",
		"(cgpa >= 3) || (co_curricular_score >= 80)",
		"disciplinary_actions == 0",
	}
	for _, guard := range valid {
		if err := Validate(guard); err != nil {
			t.Fatalf("expected %q to be valid, got %v", guard, err)
		}
	}

	invalid := []string{
		"lookup(cgpa)",
		"cgpa + 1 >= 2",
		"income * 2 <= 100",
		"applicant.cgpa >= 3",
		"x[0] == 1",
		"a ? b : c",
		`env("HOME") == ""`,
	}
	for _, guard := range invalid {
		if err := Validate(guard); err == nil {
			t.Fatalf("expected %q to be rejected", guard)
		}
	}
}

func TestEval(t *testing.T) {
	ok, err := Eval("cgpa >= 3 && family_income <= 4000", map[string]any{"cgpa": 3.5, "family_income": 3000.0})
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatalf("expected guard to hold")
	}

	ok, err = Eval("cgpa >= 3", map[string]any{"cgpa": 2.0})
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatalf("expected guard not to hold")
	}
}

func TestEval_EmptyGuardIsTrue(t *testing.T) {
	ok, err := Eval("   ", map[string]any{})
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatalf("expected empty guard to be trivially true")
	}
}

func TestEval_InvalidGuardErrors(t *testing.T) {
	if _, err := Eval("lookup(cgpa)", map[string]any{}); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestCompileAndEvalCompiled(t *testing.T) {
	program, err := Compile("cgpa >= 3")
	if err != nil {
		t.Fatal(err)
	}
	if program == nil {
		t.Fatalf("expected compiled program")
	}

	ok, err := EvalCompiled(program, map[string]any{"cgpa": 3.2})
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatalf("expected compiled guard to hold")
	}
}

func TestCompile_EmptyGuardIsNil(t *testing.T) {
	program, err := Compile("  ")
	if err != nil {
		t.Fatal(err)
	}
	if program != nil {
		t.Fatalf("expected nil program for empty guard")
	}

	ok, err := EvalCompiled(nil, map[string]any{})
	if err != nil || !ok {
		t.Fatalf("expected nil program to be trivially true, got %v %v", ok, err)
	}
}

func TestEvalCompiled_MissingVariableErrors(t *testing.T) {
	program, err := Compile("cgpa >= 3")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := EvalCompiled(program, map[string]any{}); err == nil {
		t.Fatalf("expected error for undefined variable comparison")
	}
}
