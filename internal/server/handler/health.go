package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/stenkjan/nest-haus-sub005/internal/domain"
	"github.com/stenkjan/nest-haus-sub005/internal/service"
)

// HealthHandler serves the health-check endpoint.
type HealthHandler struct {
	quotes *service.QuoteService
	logger *slog.Logger
}

// NewHealthHandler creates a HealthHandler with the provided logger.
func NewHealthHandler(quotes *service.QuoteService, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{quotes: quotes, logger: logHandler(logger, "health")}
}

// HealthCheck reports liveness plus whether an active snapshot is available.
// The endpoint stays 200 even before the first sync so orchestrators do not
// restart a healthy instance that is merely waiting for data.
// GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	info, err := h.quotes.GetPricingDataInfo(r.Context())
	switch {
	case err == nil:
		body["snapshot"] = info
	case errors.Is(err, domain.ErrNoActiveSnapshot):
		body["snapshot"] = nil
	default:
		body["status"] = "degraded"
		h.logger.WarnContext(r.Context(), "health snapshot probe failed",
			slog.String("error", err.Error()),
		)
	}

	writeJSON(w, http.StatusOK, body)
}
