package app

import (
	"fmt"

	"github.com/admitware/scholarship-advisor/internal/rules"
	"github.com/admitware/scholarship-advisor/internal/rules/cache"
)

type Parser interface {
	Parse(data []byte, format rules.Format) (*rules.RuleSet, error)
}

type Matcher interface {
	Evaluate(applicant rules.Applicant, rs *rules.RuleSet) rules.MatchResult
}

type TraceMatcher interface {
	EvaluateWithTrace(applicant rules.Applicant, rs *rules.RuleSet) (rules.MatchResult, *rules.EvaluationTrace)
}

type Cache interface {
	GetOrCompute(doc string, fn func() (*rules.RuleSet, error)) (*rules.RuleSet, error)
}

// RuleSetInfo identifies which rule set answered a request.
type RuleSetInfo struct {
	Source string `json:"source"`
	Hash   string `json:"hash,omitempty"`
	Rules  int    `json:"rules"`
}

// Service evaluates applicants against the process-wide rule set loaded at
// startup, or against an inline document supplied with the request. Inline
// documents are parsed through the cache.
type Service struct {
	parser  Parser
	matcher Matcher
	cache   Cache

	defaultSet  *rules.RuleSet
	defaultInfo RuleSetInfo
}

func NewService(parser Parser, matcher Matcher, c Cache, defaultSet *rules.RuleSet, sourceName string) *Service {
	s := &Service{
		parser:     parser,
		matcher:    matcher,
		cache:      c,
		defaultSet: defaultSet,
	}
	if defaultSet != nil {
		s.defaultInfo = RuleSetInfo{
			Source: sourceName,
			Rules:  len(defaultSet.Rules),
		}
	}
	return s
}

// Evaluate resolves the rule set (inline document or the configured default)
// and runs the matcher. The applicant map is cloned first so callers never
// observe mutation.
func (s *Service) Evaluate(applicant map[string]any, doc string) (rules.MatchResult, *RuleSetInfo, error) {
	rs, info, err := s.resolveRuleSet(doc)
	if err != nil {
		return rules.MatchResult{}, nil, err
	}

	res := s.matcher.Evaluate(cloneApplicant(applicant), rs)
	return res, info, nil
}

// EvaluateWithTrace behaves like Evaluate and additionally returns the
// per-rule trace when the matcher supports tracing.
func (s *Service) EvaluateWithTrace(applicant map[string]any, doc string) (rules.MatchResult, *rules.EvaluationTrace, *RuleSetInfo, error) {
	rs, info, err := s.resolveRuleSet(doc)
	if err != nil {
		return rules.MatchResult{}, nil, nil, err
	}

	tm, ok := s.matcher.(TraceMatcher)
	if !ok {
		res := s.matcher.Evaluate(cloneApplicant(applicant), rs)
		return res, nil, info, nil
	}

	res, trace := tm.EvaluateWithTrace(cloneApplicant(applicant), rs)
	return res, trace, info, nil
}

// RuleSet exposes the configured default rule set for introspection.
func (s *Service) RuleSet() (*rules.RuleSet, *RuleSetInfo, error) {
	if s.defaultSet == nil {
		return nil, nil, fmt.Errorf("no rule set configured")
	}
	info := s.defaultInfo
	return s.defaultSet, &info, nil
}

func (s *Service) resolveRuleSet(doc string) (*rules.RuleSet, *RuleSetInfo, error) {
	if doc == "" {
		if s.defaultSet == nil {
			return nil, nil, fmt.Errorf("no rule set configured and no inline rules supplied")
		}
		info := s.defaultInfo
		return s.defaultSet, &info, nil
	}

	rs, err := s.cache.GetOrCompute(doc, func() (*rules.RuleSet, error) {
		return s.parser.Parse([]byte(doc), rules.FormatJSON)
	})
	if err != nil {
		return nil, nil, err
	}

	return rs, &RuleSetInfo{
		Source: "inline",
		Hash:   cache.Fingerprint(doc),
		Rules:  len(rs.Rules),
	}, nil
}

func cloneApplicant(m map[string]any) rules.Applicant {
	n := make(rules.Applicant, len(m))
	for k, v := range m {
		n[k] = v
	}
	return n
}
