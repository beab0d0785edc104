package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/stenkjan/nest-haus-sub005/internal/domain"
	"github.com/stenkjan/nest-haus-sub005/internal/service"
)

// QuoteHandler prices configurations. Quotes are computed per request and
// never persisted.
type QuoteHandler struct {
	quotes *service.QuoteService
	logger *slog.Logger
}

// NewQuoteHandler creates a QuoteHandler.
func NewQuoteHandler(quotes *service.QuoteService, logger *slog.Logger) *QuoteHandler {
	return &QuoteHandler{quotes: quotes, logger: logHandler(logger, "quote")}
}

// CalculateQuote prices one configuration against the active snapshot.
// POST /api/quote
func (h *QuoteHandler) CalculateQuote(w http.ResponseWriter, r *http.Request) {
	var cfg domain.Configuration

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.quotes.CalculateTotalPrice(r.Context(), cfg)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.logger.DebugContext(r.Context(), "quote computed",
		slog.String("nest", string(cfg.Nest)),
		slog.Float64("total", result.Total),
		slog.Bool("on_request", result.OnRequest),
	)
	writeJSON(w, http.StatusOK, result)
}
