package lambdatransport

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/admitware/scholarship-advisor/internal/app"
	"github.com/admitware/scholarship-advisor/internal/rules"
	"github.com/admitware/scholarship-advisor/internal/transport/evaldto"
)

type Handler struct {
	svc app.EvaluateService
}

func NewHandler(svc app.EvaluateService) *Handler {
	return &Handler{svc: svc}
}

// Evaluate assumes API Gateway already routed POST /evaluate.
func (h *Handler) Evaluate(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	body, err := readBody(req)
	if err != nil {
		return jsonResp(http.StatusBadRequest, map[string]any{"error": "invalid body", "details": err.Error()}), nil
	}

	var in evaldto.EvaluateRequest
	if err := json.Unmarshal(body, &in); err != nil {
		return jsonResp(http.StatusBadRequest, map[string]any{"error": "invalid json", "details": err.Error()}), nil
	}
	if in.Applicant == nil {
		in.Applicant = map[string]any{}
	}

	if in.Debug {
		res, trace, info, err := h.svc.EvaluateWithTrace(in.Applicant, in.Document())
		if err != nil {
			return jsonResp(http.StatusBadRequest, evalErrorBody(err, trace, info)), nil
		}
		return jsonResp(http.StatusOK, evaldto.EvaluateResponse{
			Action:       res.Selected,
			MatchedRules: res.Matched,
			Trace:        trace,
			RuleSet:      info,
		}), nil
	}

	res, info, err := h.svc.Evaluate(in.Applicant, in.Document())
	if err != nil {
		return jsonResp(http.StatusBadRequest, evalErrorBody(err, nil, info)), nil
	}
	return jsonResp(http.StatusOK, evaldto.EvaluateResponse{
		Action:       res.Selected,
		MatchedRules: res.Matched,
		RuleSet:      info,
	}), nil
}

func readBody(req events.APIGatewayV2HTTPRequest) ([]byte, error) {
	if req.IsBase64Encoded {
		return base64.StdEncoding.DecodeString(req.Body)
	}
	return []byte(req.Body), nil
}

func jsonResp(status int, body any) events.APIGatewayV2HTTPResponse {
	b, _ := json.Marshal(body)
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    map[string]string{"content-type": "application/json"},
		Body:       string(b),
	}
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
