package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scholarshipDoc = `[
	{"name": "Top merit candidate", "priority": 100,
	 "conditions": [["cgpa", ">=", 3.7], ["co_curricular_score", ">=", 80],
	                ["family_income", "<=", 8000], ["disciplinary_actions", "==", 0]],
	 "action": {"decision": "AWARD_FULL", "reason": "Excellent academic & co-curricular performance, with acceptable need"}},
	{"name": "Need-based review", "priority": 70,
	 "conditions": [["cgpa", ">=", 2.5], ["family_income", "<=", 4000]],
	 "action": {"decision": "REVIEW", "reason": "High need but borderline academic score"}}
]`

func TestParseDocument_JSON(t *testing.T) {
	rs, err := ParseDocument([]byte(scholarshipDoc), FormatJSON)
	require.NoError(t, err)
	require.Len(t, rs.Rules, 2)

	top := rs.Rules[0]
	assert.Equal(t, "Top merit candidate", top.Name)
	assert.Equal(t, 100, top.Priority)
	require.Len(t, top.Conditions, 4)
	assert.Equal(t, Condition{Field: "cgpa", Operator: OpGTE, Target: 3.7}, top.Conditions[0])
	assert.Equal(t, DecisionAwardFull, top.Action.Decision)

	review := rs.Rules[1]
	assert.Equal(t, 70, review.Priority)
	assert.Equal(t, DecisionReview, review.Action.Decision)
}

func TestParseDocument_YAML(t *testing.T) {
	doc := `
- name: Low CGPA
  priority: 95
  conditions:
    - [cgpa, "<", 2.5]
  action:
    decision: REJECT
    reason: CGPA below minimum scholarship requirement
`
	rs, err := ParseDocument([]byte(doc), FormatYAML)
	require.NoError(t, err)
	require.Len(t, rs.Rules, 1)
	assert.Equal(t, 95, rs.Rules[0].Priority)
	assert.Equal(t, OpLT, rs.Rules[0].Conditions[0].Operator)
	assert.Equal(t, DecisionReject, rs.Rules[0].Action.Decision)
}

func TestParseDocument_Defaults(t *testing.T) {
	doc := `[{"name": "bare", "action": {"decision": "REVIEW", "reason": "r"}}]`
	rs, err := ParseDocument([]byte(doc), FormatJSON)
	require.NoError(t, err)

	rule := rs.Rules[0]
	assert.Equal(t, 0, rule.Priority, "missing priority defaults to 0")
	assert.Empty(t, rule.Conditions, "missing conditions default to an empty list")
}

func TestParseDocument_UnknownOperatorRejected(t *testing.T) {
	doc := `[{"name": "bad", "conditions": [["cgpa", "!=", 1]],
	          "action": {"decision": "REJECT", "reason": "r"}}]`
	_, err := ParseDocument([]byte(doc), FormatJSON)
	require.Error(t, err)
}

func TestParseDocument_SchemaViolations(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"not an array", `{"name": "x"}`},
		{"missing name", `[{"action": {"decision": "REJECT", "reason": "r"}}]`},
		{"missing action", `[{"name": "x"}]`},
		{"missing reason", `[{"name": "x", "action": {"decision": "REJECT"}}]`},
		{"condition wrong arity", `[{"name": "x", "conditions": [["cgpa", ">="]],
			"action": {"decision": "REJECT", "reason": "r"}}]`},
		{"non-integer priority", `[{"name": "x", "priority": 1.5,
			"action": {"decision": "REJECT", "reason": "r"}}]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseDocument([]byte(tc.doc), FormatJSON)
			require.Error(t, err)
		})
	}
}

func TestParseDocument_GuardCompiled(t *testing.T) {
	doc := `[{"name": "guarded", "priority": 10,
	          "when": "cgpa >= 3 && family_income <= 4000",
	          "action": {"decision": "REVIEW", "reason": "r"}}]`
	rs, err := ParseDocument([]byte(doc), FormatJSON)
	require.NoError(t, err)
	require.NotNil(t, rs.Rules[0].guard, "guard should be compiled at load time")
	assert.Equal(t, "cgpa >= 3 && family_income <= 4000", rs.Rules[0].When)

	m := NewMatcher(ExprGuard{})
	res := m.Evaluate(Applicant{"cgpa": 3.5, "family_income": 3000.0}, rs)
	assert.Equal(t, DecisionReview, res.Selected.Decision)
}

func TestParseDocument_BadGuardRejected(t *testing.T) {
	cases := []string{
		`[{"name": "x", "when": "lookup(cgpa)", "action": {"decision": "REJECT", "reason": "r"}}]`,
		`[{"name": "x", "when": "cgpa + 1 >= 2", "action": {"decision": "REJECT", "reason": "r"}}]`,
		`[{"name": "x", "when": "applicant.cgpa >= 2", "action": {"decision": "REJECT", "reason": "r"}}]`,
	}
	for _, doc := range cases {
		_, err := ParseDocument([]byte(doc), FormatJSON)
		require.Error(t, err, "doc: %s", doc)
	}
}

func TestParseDocument_InvalidPayloads(t *testing.T) {
	_, err := ParseDocument([]byte(`{`), FormatJSON)
	require.Error(t, err)

	_, err = ParseDocument([]byte("\t- bad\nyaml: ["), FormatYAML)
	require.Error(t, err)
}
