package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/admitware/scholarship-advisor/internal/app"
	"github.com/admitware/scholarship-advisor/internal/config"
	"github.com/admitware/scholarship-advisor/internal/rules"
	"github.com/admitware/scholarship-advisor/internal/rules/cache"
	"github.com/admitware/scholarship-advisor/internal/rules/source"
	"github.com/admitware/scholarship-advisor/internal/transport/lambdatransport"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	cfg := config.Load()

	ctx := context.Background()
	var defaultSet *rules.RuleSet
	sourceName := ""
	if cfg.RulesPath != "" {
		src := source.File{Path: cfg.RulesPath}
		data, format, err := src.Load(ctx)
		if err != nil {
			logger.Error("rule set loading failed", "error", err)
			os.Exit(1)
		}
		rs, err := rules.ParseDocument(data, format)
		if err != nil {
			logger.Error("rule set parsing failed", "error", err)
			os.Exit(1)
		}
		defaultSet = rs
		sourceName = src.Describe()
	}

	evalObserver := rules.NewAsyncEvalObserver(rules.NewEvalLogger(logger), cfg.ObsBuffer)
	defer evalObserver.Close()

	matcher := rules.NewMatcher(rules.ExprGuard{}, rules.WithEvalObserver(evalObserver))
	svc := app.NewService(rules.DocumentParser{}, matcher, cache.NewInMemory(cfg.CacheMaxItems), defaultSet, sourceName)
	h := lambdatransport.NewHandler(svc)

	lambda.Start(h.Evaluate)
}
