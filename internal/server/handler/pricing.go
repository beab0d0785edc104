package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/stenkjan/nest-haus-sub005/internal/domain"
	"github.com/stenkjan/nest-haus-sub005/internal/service"
)

// PricingHandler serves reads of the active pricing snapshot.
type PricingHandler struct {
	quotes *service.QuoteService
	logger *slog.Logger
}

// NewPricingHandler creates a PricingHandler.
func NewPricingHandler(quotes *service.QuoteService, logger *slog.Logger) *PricingHandler {
	return &PricingHandler{quotes: quotes, logger: logHandler(logger, "pricing")}
}

// GetPricing returns the full pricing payload of the active snapshot.
// GET /api/pricing
func (h *PricingHandler) GetPricing(w http.ResponseWriter, r *http.Request) {
	data, err := h.quotes.GetPricingData(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// GetPricingInfo returns the active snapshot's metadata without the payload.
// GET /api/pricing/info
func (h *PricingHandler) GetPricingInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.quotes.GetPricingDataInfo(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// ListVersions returns snapshot metadata newest-first.
// GET /api/pricing/versions
func (h *PricingHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	infos, err := h.quotes.ListVersions(r.Context(), parseLimit(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"versions": infos})
}

// GetFensterSqm returns the per-m² display price of one window combination.
// GET /api/pricing/fenster-sqm?material=pvc_fenster&nest=nest80&tier=light
func (h *PricingHandler) GetFensterSqm(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	material, err := domain.ParseFensterMaterial(q.Get("material"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid material "+strconv.Quote(q.Get("material")))
		return
	}
	size, err := domain.ParseNestSize(q.Get("nest"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid nest size "+strconv.Quote(q.Get("nest")))
		return
	}
	tier, err := domain.ParseLightingTier(q.Get("tier"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid lighting tier "+strconv.Quote(q.Get("tier")))
		return
	}

	price, err := h.quotes.GetFensterPricePerSqm(r.Context(), material, size, tier)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"material":    material,
		"nest":        size,
		"tier":        tier,
		"pricePerSqm": price,
	})
}

// GetOptionDelta returns the switching cost between two options of one
// category.
// GET /api/pricing/delta?category=innenverkleidung&nest=nest80&from=fichte&to=steirische_eiche
func (h *PricingHandler) GetOptionDelta(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	size, err := domain.ParseNestSize(q.Get("nest"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid nest size "+strconv.Quote(q.Get("nest")))
		return
	}
	category := domain.Category(q.Get("category"))
	from := domain.OptionKey(q.Get("from"))
	to := domain.OptionKey(q.Get("to"))
	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, "from and to options are required")
		return
	}

	delta, onRequest, err := h.quotes.OptionDelta(r.Context(), category, size, from, to)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"category":  category,
		"nest":      size,
		"from":      from,
		"to":        to,
		"delta":     delta,
		"onRequest": onRequest,
	})
}
