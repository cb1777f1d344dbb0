// Package handler wires case evaluation endpoints to the validation service.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"dossier/internal/casefile"
	"dossier/internal/validation"
	id "dossier/pkg/domain"
	"dossier/pkg/platform/httputil"
	"dossier/pkg/requestcontext"
)

// Service defines the validation operations the handler needs.
type Service interface {
	Evaluate(ctx context.Context, req validation.EvaluateRequest) (*validation.EvaluateResult, error)
	Case(ctx context.Context, caseID id.CaseID) (*casefile.Record, error)
	RecentCases(ctx context.Context, limit int) ([]*casefile.Record, error)
}

// Handler serves the case evaluation API.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the submitter-facing endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/cases/evaluate", h.HandleEvaluate)
	r.Get("/v1/cases/{caseID}", h.HandleGetCase)
}

// RegisterAdmin mounts the reviewer endpoints. The caller is expected to
// wrap the router in operator auth middleware.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/admin/cases/recent", h.HandleRecentCases)
}

// HandleEvaluate handles POST /v1/cases/evaluate.
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[EvaluateCaseRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	domainReq, err := req.ToDomain()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.Evaluate(ctx, domainReq)
	if err != nil {
		h.logger.ErrorContext(ctx, "case evaluation failed",
			"request_id", requestID,
			"documents", len(req.Documents),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "case decision returned",
		"request_id", requestID,
		"case_id", result.CaseID,
		"status", result.Decision.Status,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromResult(result))
}

// HandleGetCase handles GET /v1/cases/{caseID}.
func (h *Handler) HandleGetCase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caseID, err := id.ParseCaseID(chi.URLParam(r, "caseID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := h.service.Case(ctx, caseID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromRecord(record))
}

// HandleRecentCases handles GET /admin/cases/recent?limit=N.
func (h *Handler) HandleRecentCases(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	records, err := h.service.RecentCases(ctx, limit)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]CaseResponse, len(records))
	for i, record := range records {
		out[i] = FromRecord(record)
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}
