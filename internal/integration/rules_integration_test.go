package integration_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/admitware/scholarship-advisor/internal/rules"
)

func loadScholarshipRules(t *testing.T) *rules.RuleSet {
	t.Helper()

	path := filepath.Join("..", "rules", "testdata", "scholarship.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	rs, err := rules.ParseDocument(data, rules.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	return rs
}

func TestLoaderMatcher_Integration(t *testing.T) {
	rs := loadScholarshipRules(t)
	if len(rs.Rules) != 5 {
		t.Fatalf("expected 5 rules, got %d", len(rs.Rules))
	}

	m := rules.NewMatcher(rules.ExprGuard{})

	cases := []struct {
		name         string
		applicant    rules.Applicant
		wantDecision rules.Decision
	}{
		{"top merit", rules.Applicant{"cgpa": 3.8, "co_curricular_score": 85.0, "family_income": 5000.0, "disciplinary_actions": 0.0}, rules.DecisionAwardFull},
		{"low cgpa", rules.Applicant{"cgpa": 2.0, "co_curricular_score": 0.0, "family_income": 20000.0, "disciplinary_actions": 0.0}, rules.DecisionReject},
		{"disciplinary", rules.Applicant{"cgpa": 3.5, "co_curricular_score": 10.0, "family_income": 15000.0, "disciplinary_actions": 3.0}, rules.DecisionReject},
		{"need based", rules.Applicant{"cgpa": 2.7, "co_curricular_score": 40.0, "family_income": 3500.0, "disciplinary_actions": 0.0}, rules.DecisionReview},
		{"merit and need", rules.Applicant{"cgpa": 3.9, "co_curricular_score": 90.0, "family_income": 3000.0, "disciplinary_actions": 0.0}, rules.DecisionAwardFull},
		{"no match", rules.Applicant{"cgpa": 3.0, "co_curricular_score": 30.0, "family_income": 9000.0, "disciplinary_actions": 0.0}, rules.DecisionNoMatch},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := m.Evaluate(tc.applicant, rs)
			if res.Selected.Decision != tc.wantDecision {
				t.Fatalf("expected %q, got %q (%s)", tc.wantDecision, res.Selected.Decision, res.Selected.Reason)
			}
		})
	}
}

func TestLoaderMatcher_Integration_MatchedOrdering(t *testing.T) {
	rs := loadScholarshipRules(t)
	m := rules.NewMatcher(rules.ExprGuard{})

	res := m.Evaluate(
		rules.Applicant{"cgpa": 3.9, "co_curricular_score": 90.0, "family_income": 3000.0, "disciplinary_actions": 0.0},
		rs,
	)

	want := []int{100, 80, 70}
	if len(res.Matched) != len(want) {
		t.Fatalf("expected %d matched rules, got %d", len(want), len(res.Matched))
	}
	for i, p := range want {
		if res.Matched[i].Priority != p {
			t.Fatalf("expected priority %d at position %d, got %d", p, i, res.Matched[i].Priority)
		}
	}
}
