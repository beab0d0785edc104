// Package handler contains the HTTP handlers of the pricing API.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/stenkjan/nest-haus-sub005/internal/domain"
)

// writeJSON marshals v as JSON and writes it to the response with the given
// HTTP status code. If marshaling fails, it falls back to a plain-text 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(data)
}

// writeError sends a JSON-formatted error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps domain errors onto HTTP statuses:
//
//	no active snapshot  -> 503 (the service cannot answer yet)
//	unknown option      -> 422 (well-formed request, unpriceable selection)
//	sync in flight      -> 409
//	not found           -> 404
//	fetch/parse failure -> 502 (upstream spreadsheet trouble)
func writeDomainError(w http.ResponseWriter, err error) {
	var fetchErr *domain.FetchError
	var parseErr *domain.ParseError

	switch {
	case errors.Is(err, domain.ErrNoActiveSnapshot):
		writeError(w, http.StatusServiceUnavailable, "no active pricing snapshot; sync has not completed yet")
	case errors.Is(err, domain.ErrUnknownOption):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrSyncInFlight):
		writeError(w, http.StatusConflict, "a pricing sync is already running")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.As(err, &fetchErr), errors.As(err, &parseErr):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// parseLimit extracts the limit query parameter. Defaults to 50, capped at 500.
func parseLimit(r *http.Request) int {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > 500 {
		limit = 500
	}
	return limit
}

// logHandler is a convenience to attach slog fields in handler code.
func logHandler(logger *slog.Logger, handler string) *slog.Logger {
	return logger.With(slog.String("handler", handler))
}
