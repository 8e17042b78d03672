package rules

// NoMatchReason accompanies the synthetic decision returned when the matched
// set is empty.
const NoMatchReason = "No rule matched. Candidate requires manual review or different policy."

// MatchResult is the matcher's output: the winning action and the complete
// set of matched rules, ranked by priority descending.
type MatchResult struct {
	Selected Action `json:"action"`
	Matched  []Rule `json:"matched_rules"`
}

// NoMatchAction is the fallback action selected when no rule matches.
func NoMatchAction() Action {
	return Action{Decision: DecisionNoMatch, Reason: NoMatchReason}
}
