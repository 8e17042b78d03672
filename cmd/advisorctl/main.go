package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/admitware/scholarship-advisor/internal/rules"
	"github.com/admitware/scholarship-advisor/internal/rules/source"
	"github.com/admitware/scholarship-advisor/internal/transport/evaldto"
)

func main() {
	logger := slog.New(charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: false,
	}))

	root := &cobra.Command{
		Use:           "advisorctl",
		Short:         "Evaluate scholarship applicants against a rule document",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var rulesPath string
	root.PersistentFlags().StringVarP(&rulesPath, "rules", "r", "", "path to the rule document (JSON or YAML)")
	_ = root.MarkPersistentFlagRequired("rules")

	root.AddCommand(
		newEvaluateCmd(&rulesPath),
		newLintCmd(&rulesPath),
		newGraphCmd(&rulesPath),
	)

	if err := root.Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func newEvaluateCmd(rulesPath *string) *cobra.Command {
	var (
		fields        []string
		applicantJSON string
		debug         bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate an applicant and print the decision",
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := loadRuleSet(cmd.Context(), *rulesPath)
			if err != nil {
				return err
			}

			applicant, err := buildApplicant(applicantJSON, fields)
			if err != nil {
				return err
			}

			matcher := rules.NewMatcher(rules.ExprGuard{})

			out := evaldto.EvaluateResponse{}
			if debug {
				res, trace := matcher.EvaluateWithTrace(applicant, rs)
				out.Action = res.Selected
				out.MatchedRules = res.Matched
				out.Trace = trace
			} else {
				res := matcher.Evaluate(applicant, rs)
				out.Action = res.Selected
				out.MatchedRules = res.Matched
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().StringArrayVarP(&fields, "set", "s", nil, "applicant field as name=value (repeatable)")
	cmd.Flags().StringVarP(&applicantJSON, "applicant", "a", "", "applicant as a JSON object")
	cmd.Flags().BoolVar(&debug, "debug", false, "include the per-rule evaluation trace")
	return cmd
}

func newLintCmd(rulesPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "lint",
		Short: "Validate a rule document",
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := loadRuleSet(cmd.Context(), *rulesPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d rules\n", len(rs.Rules))
			return nil
		},
	}
}

func newGraphCmd(rulesPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "graph",
		Short: "Render the rule set as a Graphviz digraph",
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := loadRuleSet(cmd.Context(), *rulesPath)
			if err != nil {
				return err
			}
			dot, err := rs.DOT()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), dot)
			return nil
		},
	}
}

func loadRuleSet(ctx context.Context, path string) (*rules.RuleSet, error) {
	src := source.File{Path: path}
	data, format, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	return rules.ParseDocument(data, format)
}

func buildApplicant(applicantJSON string, fields []string) (rules.Applicant, error) {
	applicant := rules.Applicant{}
	if applicantJSON != "" {
		if err := json.Unmarshal([]byte(applicantJSON), &applicant); err != nil {
			return nil, fmt.Errorf("invalid --applicant JSON: %w", err)
		}
	}

	for _, f := range fields {
		name, raw, ok := strings.Cut(f, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --set %q (expected name=value)", f)
		}
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			applicant[name] = v
		} else {
			applicant[name] = raw
		}
	}

	return applicant, nil
}
