package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/awalterschulze/gographviz"
)

// DOT renders the rule set as a Graphviz digraph: one node per rule
// (annotated with its priority and conditions) with an edge to the decision
// it produces. Intended for documentation and the rules/graph endpoint.
func (rs *RuleSet) DOT() (string, error) {
	g := gographviz.NewGraph()
	if err := g.SetName("rules"); err != nil {
		return "", fmt.Errorf("init graph: %w", err)
	}
	if err := g.SetDir(true); err != nil {
		return "", fmt.Errorf("init graph: %w", err)
	}

	decisions := map[Decision]bool{}
	for _, rule := range rs.Rules {
		if !decisions[rule.Action.Decision] {
			decisions[rule.Action.Decision] = true
			attrs := map[string]string{"shape": "box"}
			if err := g.AddNode("rules", strconv.Quote(string(rule.Action.Decision)), attrs); err != nil {
				return "", fmt.Errorf("add decision node: %w", err)
			}
		}
	}

	for _, rule := range rs.Rules {
		label := ruleLabel(rule)
		if err := g.AddNode("rules", strconv.Quote(rule.Name), map[string]string{"label": strconv.Quote(label)}); err != nil {
			return "", fmt.Errorf("add rule node %q: %w", rule.Name, err)
		}
		edgeAttrs := map[string]string{"label": strconv.Quote(rule.Action.Reason)}
		if err := g.AddEdge(strconv.Quote(rule.Name), strconv.Quote(string(rule.Action.Decision)), true, edgeAttrs); err != nil {
			return "", fmt.Errorf("add edge for rule %q: %w", rule.Name, err)
		}
	}

	return g.String(), nil
}

func ruleLabel(rule Rule) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (priority %d)", rule.Name, rule.Priority)
	for _, cond := range rule.Conditions {
		fmt.Fprintf(&b, "\\n%s %s %v", cond.Field, cond.Operator, cond.Target)
	}
	if rule.When != "" {
		fmt.Fprintf(&b, "\\nwhen %s", rule.When)
	}
	return b.String()
}
