package handler

import (
	"log/slog"
	"net/http"

	"github.com/stenkjan/nest-haus-sub005/internal/domain"
	"github.com/stenkjan/nest-haus-sub005/internal/service"
)

// SyncHandler exposes manual sync control and the sync audit trail.
type SyncHandler struct {
	sync   *service.SyncService
	logger *slog.Logger
}

// NewSyncHandler creates a SyncHandler.
func NewSyncHandler(sync *service.SyncService, logger *slog.Logger) *SyncHandler {
	return &SyncHandler{sync: sync, logger: logHandler(logger, "sync")}
}

// TriggerSync runs a sync immediately and returns the committed snapshot
// metadata. Responds 409 when a run is already in flight.
// POST /api/sync/trigger
func (h *SyncHandler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	snap, err := h.sync.Sync(r.Context(), domain.SyncedByAPI)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "manual sync committed",
		slog.Int("version", snap.Version),
	)
	writeJSON(w, http.StatusOK, snap.Info())
}

// ListRuns returns the sync audit trail newest-first.
// GET /api/sync/runs
func (h *SyncHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.sync.ListRecentRuns(r.Context(), parseLimit(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}
