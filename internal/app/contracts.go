package app

import "github.com/admitware/scholarship-advisor/internal/rules"

type EvaluateService interface {
	Evaluate(applicant map[string]any, doc string) (rules.MatchResult, *RuleSetInfo, error)
	EvaluateWithTrace(applicant map[string]any, doc string) (rules.MatchResult, *rules.EvaluationTrace, *RuleSetInfo, error)
	RuleSet() (*rules.RuleSet, *RuleSetInfo, error)
}
