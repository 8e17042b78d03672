package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/admitware/scholarship-advisor/internal/app"
	"github.com/admitware/scholarship-advisor/internal/config"
	"github.com/admitware/scholarship-advisor/internal/metrics"
	"github.com/admitware/scholarship-advisor/internal/rules"
	"github.com/admitware/scholarship-advisor/internal/rules/cache"
	"github.com/admitware/scholarship-advisor/internal/rules/source"
	"github.com/admitware/scholarship-advisor/internal/transport/httptransport"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	defaultSet, sourceName, err := loadDefaultRuleSet(ctx, cfg)
	if err != nil {
		logger.Error("rule set loading failed", "error", err)
		os.Exit(1)
	}
	if defaultSet == nil {
		logger.Warn("no rule source configured; only inline rule documents will be served")
	} else {
		logger.Info("rule set loaded", "source", sourceName, "rules", len(defaultSet.Rules))
	}

	collector := metrics.NewCollector()
	evalObserver := rules.NewAsyncEvalObserver(rules.NewEvalLogger(logger), cfg.ObsBuffer)
	defer evalObserver.Close()

	matcher := rules.NewMatcher(
		rules.ExprGuard{},
		rules.WithEvalObserver(collector),
		rules.WithEvalObserver(evalObserver),
	)

	svc := app.NewService(rules.DocumentParser{}, matcher, cache.NewInMemory(cfg.CacheMaxItems), defaultSet, sourceName)
	h := httptransport.NewHandler(svc, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	h.Register(r)
	r.Method(http.MethodGet, "/metrics", collector.Handler())

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("listening", "addr", cfg.HTTPAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func loadDefaultRuleSet(ctx context.Context, cfg config.Runtime) (*rules.RuleSet, string, error) {
	src, err := selectSource(ctx, cfg)
	if err != nil || src == nil {
		return nil, "", err
	}

	data, format, err := src.Load(ctx)
	if err != nil {
		return nil, "", err
	}

	rs, err := rules.ParseDocument(data, format)
	if err != nil {
		return nil, "", err
	}
	return rs, src.Describe(), nil
}

func selectSource(ctx context.Context, cfg config.Runtime) (source.Source, error) {
	switch {
	case cfg.RulesPath != "":
		return source.File{Path: cfg.RulesPath}, nil
	case cfg.RulesURL != "":
		return source.HTTP{URL: cfg.RulesURL}, nil
	case cfg.RedisAddr != "":
		client, err := source.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, err
		}
		return source.Redis{Client: client, Key: cfg.RedisKey}, nil
	}
	return nil, nil
}
