package evaldto

import (
	"encoding/json"

	"github.com/admitware/scholarship-advisor/internal/app"
	"github.com/admitware/scholarship-advisor/internal/rules"
)

type EvaluateRequest struct {
	Applicant map[string]any  `json:"applicant"`
	Rules     json.RawMessage `json:"rules,omitempty"`
	Debug     bool            `json:"debug,omitempty"`
}

// Document returns the inline rule document, empty when the request relies
// on the server's configured rule set.
func (r EvaluateRequest) Document() string {
	if len(r.Rules) == 0 {
		return ""
	}
	return string(r.Rules)
}

type EvaluateResponse struct {
	Action       rules.Action           `json:"action"`
	MatchedRules []rules.Rule           `json:"matched_rules"`
	Trace        *rules.EvaluationTrace `json:"trace,omitempty"`
	RuleSet      *app.RuleSetInfo       `json:"ruleset,omitempty"`
}

type RulesResponse struct {
	RuleSet *app.RuleSetInfo `json:"ruleset"`
	Rules   []rules.Rule     `json:"rules"`
}
