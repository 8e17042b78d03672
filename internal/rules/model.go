package rules

import "github.com/expr-lang/expr/vm"

// Operator is one of the comparison operators a condition may use.
type Operator string

const (
	OpGTE Operator = ">="
	OpLTE Operator = "<="
	OpGT  Operator = ">"
	OpLT  Operator = "<"
	OpEQ  Operator = "=="
)

// Known reports whether the operator is one of the supported five.
func (o Operator) Known() bool {
	switch o {
	case OpGTE, OpLTE, OpGT, OpLT, OpEQ:
		return true
	}
	return false
}

// Decision is the outcome carried by a rule's action. The set is open:
// rule documents may introduce new decisions without code changes.
type Decision string

const (
	DecisionAwardFull    Decision = "AWARD_FULL"
	DecisionAwardPartial Decision = "AWARD_PARTIAL"
	DecisionReview       Decision = "REVIEW"
	DecisionReject       Decision = "REJECT"

	// DecisionNoMatch is synthesized by the matcher when no rule matches.
	DecisionNoMatch Decision = "NO_MATCH"
)

// Condition is a single (field, operator, target) comparison inside a rule.
type Condition struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Target   any      `json:"target"`
}

// Action is the decision a rule produces plus its human-readable rationale.
type Action struct {
	Decision Decision `json:"decision"`
	Reason   string   `json:"reason"`
}

// Rule is a named, prioritized bundle of AND-combined conditions and an
// optional guard expression. Rules are immutable once loaded.
type Rule struct {
	Name       string      `json:"name"`
	Priority   int         `json:"priority"`
	Conditions []Condition `json:"conditions"`
	When       string      `json:"when,omitempty"`
	Action     Action      `json:"action"`

	// guard holds the compiled form of When, set by the loader.
	guard *vm.Program
}

// RuleSet is an immutable, configuration-ordered collection of rules.
type RuleSet struct {
	Rules []Rule `json:"rules"`
}

// Applicant maps field names to scalar values. It is built fresh per
// evaluation and never retained.
type Applicant map[string]any
