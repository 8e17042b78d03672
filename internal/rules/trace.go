package rules

// EvaluationTrace records how every rule fared against an applicant. It is
// produced only in debug mode and mirrors the order of the rule set.
type EvaluationTrace struct {
	Rules    []RuleTrace `json:"rules"`
	Winner   string      `json:"winner,omitempty"`
	Decision Decision    `json:"decision"`
}

type RuleTrace struct {
	Name       string           `json:"name"`
	Priority   int              `json:"priority"`
	Matched    bool             `json:"matched"`
	Guard      *GuardTrace      `json:"guard,omitempty"`
	Conditions []ConditionTrace `json:"conditions,omitempty"`
}

type ConditionTrace struct {
	Field     string   `json:"field"`
	Operator  Operator `json:"operator"`
	Target    any      `json:"target"`
	Value     any      `json:"value,omitempty"`
	Present   bool     `json:"present"`
	Satisfied bool     `json:"satisfied"`
}

type GuardTrace struct {
	Expr      string `json:"expr"`
	Satisfied bool   `json:"satisfied"`
	Error     string `json:"error,omitempty"`
}
