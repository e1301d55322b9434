package rest

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/meridiangrc/governance-backend/internal/domain/errors"
	"github.com/meridiangrc/governance-backend/internal/domain/governance"
	"github.com/meridiangrc/governance-backend/internal/service/trends"
)

// TrendService is the slice of the trends service the handlers consume.
type TrendService interface {
	GetTrend(ctx context.Context, rangeDays int) (*trends.TrendResponse, error)
	CurrentSummary(ctx context.Context) (governance.SummaryMetrics, error)
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type readinessCheck struct {
	name   string
	pinger Pinger
}

// Handler serves the dashboard endpoints.
type Handler struct {
	trends    TrendService
	logger    *slog.Logger
	validate  *validator.Validate
	readiness []readinessCheck
}

func NewHandler(trendService TrendService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		trends:   trendService,
		logger:   logger,
		validate: validator.New(),
	}
}

// WithReadinessCheck registers a dependency probe for /readyz.
func (h *Handler) WithReadinessCheck(name string, pinger Pinger) *Handler {
	h.readiness = append(h.readiness, readinessCheck{name: name, pinger: pinger})
	return h
}

// RegisterRoutes attaches the handlers to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/dashboard/trends", h.handleGetTrends)
	mux.HandleFunc("GET /api/v1/dashboard/summary", h.handleGetSummary)
	mux.HandleFunc("GET /healthz", h.handleHealthz)
	mux.HandleFunc("GET /readyz", h.handleReadyz)
}

type trendQuery struct {
	RangeDays int `validate:"min=1,max=10000"`
}

func (h *Handler) handleGetTrends(w http.ResponseWriter, r *http.Request) {
	query := trendQuery{RangeDays: 30}
	if raw := r.URL.Query().Get("range_days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, r, errors.NewValidationError("INVALID_RANGE_DAYS", "range_days must be an integer"))
			return
		}
		query.RangeDays = parsed
	}
	if err := h.validate.Struct(query); err != nil {
		h.writeError(w, r, errors.NewValidationError("INVALID_RANGE_DAYS", "range_days is out of bounds"))
		return
	}

	trend, err := h.trends.GetTrend(r.Context(), query.RangeDays)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toTrendAPIResponse(trend))
}

func (h *Handler) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.trends.CurrentSummary(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleReadyz(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{}
	healthy := true

	for _, check := range h.readiness {
		if err := check.pinger.Ping(r.Context()); err != nil {
			status[check.name] = "unavailable"
			healthy = false
			h.logger.WarnContext(r.Context(), "readiness check failed",
				"dependency", check.name,
				"error", err)
			continue
		}
		status[check.name] = "ok"
	}

	code := http.StatusOK
	if !healthy {
		code = http.StatusServiceUnavailable
	}
	h.writeJSON(w, code, status)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.GetStatusCode(err)
	code := "INTERNAL_ERROR"
	message := "An internal error occurred"

	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		code = appErr.Code
		// internal causes stay out of responses
		if appErr.StatusCode < 500 {
			message = appErr.Message
		}
	}

	if status >= 500 {
		h.logger.ErrorContext(r.Context(), "request failed",
			"path", r.URL.Path,
			"status", status,
			"error", err)
	}

	h.writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}
