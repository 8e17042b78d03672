package rules

import (
	"sort"
	"time"

	"github.com/expr-lang/expr/vm"
)

// GuardEvaluator evaluates a rule's guard expression against the applicant
// fields. Implementations report errors; the matcher folds them into
// "rule does not match".
type GuardEvaluator interface {
	Eval(guard string, vars map[string]any) (bool, error)
}

// CompiledGuardEvaluator is the fast path for guards compiled at load time.
type CompiledGuardEvaluator interface {
	EvalCompiled(program *vm.Program, vars map[string]any) (bool, error)
}

// Matcher evaluates rule sets against applicants. It holds no per-evaluation
// state: concurrent evaluations against the same rule set are safe.
type Matcher struct {
	guards    GuardEvaluator
	observers []EvalObserver
}

type MatcherOption func(*Matcher)

// WithEvalObserver registers an observer notified after every evaluation.
func WithEvalObserver(observer EvalObserver) MatcherOption {
	return func(m *Matcher) {
		if observer != nil {
			m.observers = append(m.observers, observer)
		}
	}
}

func NewMatcher(guards GuardEvaluator, opts ...MatcherOption) *Matcher {
	m := &Matcher{guards: guards}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Evaluate applies every rule of the set to the applicant and returns the
// winning action plus the full matched set, ranked by priority descending
// with configuration order breaking ties. It never fails: missing fields,
// mixed types and broken guards all degrade to "rule does not match", and
// an empty matched set yields the NO_MATCH action. Neither argument is
// mutated.
func (m *Matcher) Evaluate(applicant Applicant, rs *RuleSet) MatchResult {
	start := time.Now()

	var matched []Rule
	if rs != nil {
		matched = make([]Rule, 0, len(rs.Rules))
		for _, rule := range rs.Rules {
			if m.ruleMatches(rule, applicant) {
				matched = append(matched, rule)
			}
		}
	}

	res := rank(matched)
	m.observeEvaluation(res.Selected.Decision, len(res.Matched), time.Since(start))
	return res
}

// EvaluateWithTrace behaves like Evaluate but additionally records the
// outcome of every condition of every rule. No short-circuiting happens in
// this mode; the observable result is identical.
func (m *Matcher) EvaluateWithTrace(applicant Applicant, rs *RuleSet) (MatchResult, *EvaluationTrace) {
	start := time.Now()

	trace := &EvaluationTrace{}
	var matched []Rule
	if rs != nil {
		matched = make([]Rule, 0, len(rs.Rules))
		trace.Rules = make([]RuleTrace, 0, len(rs.Rules))
		for _, rule := range rs.Rules {
			rt := m.traceRule(rule, applicant)
			trace.Rules = append(trace.Rules, rt)
			if rt.Matched {
				matched = append(matched, rule)
			}
		}
	}

	res := rank(matched)
	trace.Decision = res.Selected.Decision
	if len(res.Matched) > 0 {
		trace.Winner = res.Matched[0].Name
	}

	m.observeEvaluation(res.Selected.Decision, len(res.Matched), time.Since(start))
	return res, trace
}

func rank(matched []Rule) MatchResult {
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Priority > matched[j].Priority
	})

	res := MatchResult{Matched: matched}
	if len(matched) > 0 {
		res.Selected = matched[0].Action
	} else {
		res.Selected = NoMatchAction()
	}
	return res
}

func (m *Matcher) ruleMatches(rule Rule, applicant Applicant) bool {
	ok, _ := m.evalGuard(rule, applicant)
	if !ok {
		return false
	}
	for _, cond := range rule.Conditions {
		value, present := applicant[cond.Field]
		if !present {
			return false
		}
		if !EvalCondition(value, cond.Operator, cond.Target) {
			return false
		}
	}
	return true
}

func (m *Matcher) traceRule(rule Rule, applicant Applicant) RuleTrace {
	rt := RuleTrace{
		Name:     rule.Name,
		Priority: rule.Priority,
		Matched:  true,
	}

	if rule.When != "" || rule.guard != nil {
		ok, err := m.evalGuard(rule, applicant)
		gt := &GuardTrace{Expr: rule.When, Satisfied: ok}
		if err != nil {
			gt.Error = err.Error()
		}
		rt.Guard = gt
		if !ok {
			rt.Matched = false
		}
	}

	for _, cond := range rule.Conditions {
		value, present := applicant[cond.Field]
		satisfied := present && EvalCondition(value, cond.Operator, cond.Target)
		rt.Conditions = append(rt.Conditions, ConditionTrace{
			Field:     cond.Field,
			Operator:  cond.Operator,
			Target:    cond.Target,
			Value:     value,
			Present:   present,
			Satisfied: satisfied,
		})
		if !satisfied {
			rt.Matched = false
		}
	}

	return rt
}

// evalGuard runs the rule's guard, preferring the compiled program. Errors
// are reported for tracing but always count as "not satisfied".
func (m *Matcher) evalGuard(rule Rule, applicant Applicant) (bool, error) {
	if rule.guard == nil && rule.When == "" {
		return true, nil
	}
	if m.guards == nil {
		return false, nil
	}
	if rule.guard != nil {
		if ce, ok := m.guards.(CompiledGuardEvaluator); ok {
			return ce.EvalCompiled(rule.guard, applicant)
		}
	}
	return m.guards.Eval(rule.When, applicant)
}

func (m *Matcher) observeEvaluation(decision Decision, matched int, duration time.Duration) {
	for _, observer := range m.observers {
		observer.ObserveEvaluation(decision, matched, duration)
	}
}
