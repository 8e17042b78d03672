package rules

import (
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/admitware/scholarship-advisor/internal/rules/exprguard"
)

// Format identifies the serialization of a rule document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseDocument turns a rule document into an immutable RuleSet. The document
// is schema-validated first; loader-level defaults (priority 0, no
// conditions) are applied afterwards, operators are checked, and guard
// expressions are compiled. This is the only place configuration errors can
// surface: the matcher itself never fails.
func ParseDocument(data []byte, format Format) (*RuleSet, error) {
	raw := data
	if format == FormatYAML {
		converted, err := yaml.YAMLToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
		raw = converted
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse rule document: %w", err)
	}

	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	items, ok := doc.([]any)
	if !ok {
		return nil, fmt.Errorf("rule document must be an array")
	}

	rs := &RuleSet{Rules: make([]Rule, 0, len(items))}
	for i, item := range items {
		rule, err := buildRule(item)
		if err != nil {
			return nil, fmt.Errorf("invalid rule at index %d: %w", i, err)
		}
		rs.Rules = append(rs.Rules, rule)
	}

	return rs, nil
}

// DocumentParser adapts ParseDocument to the service's parser seam.
type DocumentParser struct{}

func (DocumentParser) Parse(data []byte, format Format) (*RuleSet, error) {
	return ParseDocument(data, format)
}

func buildRule(item any) (Rule, error) {
	obj, ok := item.(map[string]any)
	if !ok {
		return Rule{}, fmt.Errorf("rule must be an object")
	}

	rule := Rule{
		Name:       stringField(obj, "name"),
		Conditions: []Condition{},
	}

	if p, ok := obj["priority"].(float64); ok {
		rule.Priority = int(p)
	}

	conds, _ := obj["conditions"].([]any)
	for _, c := range conds {
		triple, ok := c.([]any)
		if !ok || len(triple) != 3 {
			return Rule{}, fmt.Errorf("condition must be a [field, operator, target] triple")
		}
		field, _ := triple[0].(string)
		opRaw, _ := triple[1].(string)
		op := Operator(opRaw)
		if !op.Known() {
			return Rule{}, fmt.Errorf("unsupported operator %q in condition on %q", opRaw, field)
		}
		rule.Conditions = append(rule.Conditions, Condition{
			Field:    field,
			Operator: op,
			Target:   triple[2],
		})
	}

	if when := stringField(obj, "when"); when != "" {
		program, err := exprguard.Compile(when)
		if err != nil {
			return Rule{}, fmt.Errorf("invalid guard %q: %w", when, err)
		}
		rule.When = when
		rule.guard = program
	}

	action, ok := obj["action"].(map[string]any)
	if !ok {
		return Rule{}, fmt.Errorf("action is required")
	}
	rule.Action = Action{
		Decision: Decision(stringField(action, "decision")),
		Reason:   stringField(action, "reason"),
	}

	return rule, nil
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}
