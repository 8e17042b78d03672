package httptransport

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/admitware/scholarship-advisor/internal/app"
	"github.com/admitware/scholarship-advisor/internal/rules"
	"github.com/admitware/scholarship-advisor/internal/transport/evaldto"
)

type Handler struct {
	svc    app.EvaluateService
	logger *slog.Logger
}

func NewHandler(svc app.EvaluateService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// Register mounts the evaluation endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/evaluate", h.Evaluate)
	r.Get("/rules", h.Rules)
	r.Get("/rules/graph", h.RulesGraph)
	r.Get("/healthz", h.Health)
}

func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var in evaldto.EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid json", "details": err.Error()})
		return
	}
	if in.Applicant == nil {
		in.Applicant = map[string]any{}
	}

	if in.Debug {
		res, trace, info, err := h.svc.EvaluateWithTrace(in.Applicant, in.Document())
		if err != nil {
			writeJSON(w, http.StatusBadRequest, evalErrorBody(err, trace, info))
			return
		}
		writeJSON(w, http.StatusOK, evaldto.EvaluateResponse{
			Action:       res.Selected,
			MatchedRules: res.Matched,
			Trace:        trace,
			RuleSet:      info,
		})
		return
	}

	res, info, err := h.svc.Evaluate(in.Applicant, in.Document())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, evalErrorBody(err, nil, info))
		return
	}
	writeJSON(w, http.StatusOK, evaldto.EvaluateResponse{
		Action:       res.Selected,
		MatchedRules: res.Matched,
		RuleSet:      info,
	})
}

func (h *Handler) Rules(w http.ResponseWriter, r *http.Request) {
	rs, info, err := h.svc.RuleSet()
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "no rule set configured", "details": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, evaldto.RulesResponse{RuleSet: info, Rules: rs.Rules})
}

func (h *Handler) RulesGraph(w http.ResponseWriter, r *http.Request) {
	rs, _, err := h.svc.RuleSet()
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "no rule set configured", "details": err.Error()})
		return
	}

	dot, err := rs.DOT()
	if err != nil {
		h.logger.Error("rule graph rendering failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "graph rendering failed"})
		return
	}

	w.Header().Set("Content-Type", "text/vnd.graphviz")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(dot))
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func evalErrorBody(err error, trace *rules.EvaluationTrace, info *app.RuleSetInfo) map[string]any {
	body := map[string]any{
		"error":   "evaluation failed",
		"details": err.Error(),
	}
	if trace != nil {
		body["trace"] = trace
	}
	if info != nil {
		body["ruleset"] = info
	}
	return body
}
