package pricing

import (
	"fmt"

	"github.com/stenkjan/nest-haus-sub005/internal/domain"
)

// Calculator prices configurations against one immutable pricing snapshot.
// It performs no I/O; construct a new one per snapshot.
type Calculator struct {
	data domain.PricingData
}

func NewCalculator(data domain.PricingData) *Calculator {
	return &Calculator{data: data}
}

// Quote computes the total price and per-category breakdown for one
// configuration. Categories left at their zero value are unselected and
// contribute nothing. On-request prices (-1) set the item's OnRequest flag
// and count as 0 in the total; the sentinel is normalized here and nowhere
// earlier.
func (c *Calculator) Quote(cfg domain.Configuration) (domain.PriceQuoteResult, error) {
	entry, ok := c.data.Nest[cfg.Nest]
	if !ok {
		return domain.PriceQuoteResult{}, fmt.Errorf("nest %q: %w", cfg.Nest, domain.ErrUnknownOption)
	}

	items := []domain.QuoteItem{item(domain.CategoryNest, string(cfg.Nest), entry.Price)}

	for _, sel := range []struct {
		category domain.Category
		key      domain.OptionKey
		prices   map[domain.OptionKey]domain.NestPrices
	}{
		{domain.CategoryGebaeudehuelle, cfg.Gebaeudehuelle, c.data.Gebaeudehuelle},
		{domain.CategoryInnenverkleidung, cfg.Innenverkleidung, c.data.Innenverkleidung},
		{domain.CategoryBodenbelag, cfg.Bodenbelag, c.data.Bodenbelag},
		{domain.CategoryBodenaufbau, cfg.Bodenaufbau, c.data.Bodenaufbau},
	} {
		if sel.key == "" {
			continue
		}
		prices, ok := sel.prices[sel.key]
		if !ok {
			return domain.PriceQuoteResult{}, fmt.Errorf("%s %q: %w", sel.category, sel.key, domain.ErrUnknownOption)
		}
		items = append(items, item(sel.category, string(sel.key), prices[cfg.Nest]))
	}

	if cfg.Geschossdecke > 0 {
		qty := clamp(cfg.Geschossdecke, 0, c.data.Geschossdecke.MaxAmounts[cfg.Nest])
		base := c.data.Geschossdecke.BasePrice
		it := item(domain.CategoryGeschossdecke, fmt.Sprintf("%dx", qty), base)
		if !it.OnRequest {
			it.Amount = base * float64(qty)
		}
		items = append(items, it)
	}

	if cfg.PVModules > 0 {
		qty := clamp(cfg.PVModules, 0, c.data.PVAnlage.MaxModules[cfg.Nest])
		// Bulk table lookup: the price for N modules is a total, not N
		// times the single-module price.
		items = append(items, item(domain.CategoryPVAnlage, fmt.Sprintf("%d_module", qty),
			c.data.PVAnlage.PricesByQuantity[cfg.Nest][qty]))
	}

	if cfg.Fenster != "" || cfg.Belichtung != "" {
		total, err := c.fensterTotal(cfg.Fenster, cfg.Nest, cfg.Belichtung)
		if err != nil {
			return domain.PriceQuoteResult{}, err
		}
		items = append(items, item(domain.CategoryFenster,
			string(cfg.Fenster)+"_"+string(cfg.Belichtung), total))
	}

	if cfg.Planungspaket != "" && cfg.Planungspaket != domain.PlanBasis {
		prices, ok := c.data.Planungspaket[cfg.Planungspaket]
		if !ok {
			return domain.PriceQuoteResult{}, fmt.Errorf("planungspaket %q: %w", cfg.Planungspaket, domain.ErrUnknownOption)
		}
		items = append(items, item(domain.CategoryPlanungspaket, string(cfg.Planungspaket), prices[cfg.Nest]))
	}

	if cfg.Kaminschacht {
		items = append(items, item(domain.CategoryKaminschacht, "kaminschacht", c.data.Optionen.Kaminschacht))
	}
	if cfg.Fundament {
		items = append(items, item(domain.CategoryFundament, "fundament", c.data.Optionen.Fundament[cfg.Nest]))
	}

	result := domain.PriceQuoteResult{Items: items}
	for _, it := range items {
		result.Total += it.Amount
		if it.OnRequest {
			result.OnRequest = true
		}
	}
	return result, nil
}

// fensterTotal looks up the single combined price for a (material, tier)
// window selection. Both halves must be set; pricing them independently would
// double-count the shared glazing.
func (c *Calculator) fensterTotal(material domain.FensterMaterial, size domain.NestSize, tier domain.LightingTier) (float64, error) {
	if !material.Valid() || !tier.Valid() {
		return 0, fmt.Errorf("fenster %q/%q: %w", material, tier, domain.ErrUnknownOption)
	}
	perNest, ok := c.data.Fenster.TotalPrices[material]
	if !ok {
		return 0, fmt.Errorf("fenster %q: %w", material, domain.ErrUnknownOption)
	}
	return perNest[size][tier], nil
}

// OptionDelta returns the price difference of switching from one option to
// another within the same category at a fixed nest size. onRequest is set and
// the delta is 0 when either endpoint is on request.
func (c *Calculator) OptionDelta(category domain.Category, size domain.NestSize, from, to domain.OptionKey) (delta float64, onRequest bool, err error) {
	var prices map[domain.OptionKey]domain.NestPrices
	switch category {
	case domain.CategoryGebaeudehuelle:
		prices = c.data.Gebaeudehuelle
	case domain.CategoryInnenverkleidung:
		prices = c.data.Innenverkleidung
	case domain.CategoryBodenbelag:
		prices = c.data.Bodenbelag
	case domain.CategoryBodenaufbau:
		prices = c.data.Bodenaufbau
	default:
		return 0, false, fmt.Errorf("category %q has no option deltas: %w", category, domain.ErrUnknownOption)
	}

	fromPrices, ok := prices[from]
	if !ok {
		return 0, false, fmt.Errorf("%s %q: %w", category, from, domain.ErrUnknownOption)
	}
	toPrices, ok := prices[to]
	if !ok {
		return 0, false, fmt.Errorf("%s %q: %w", category, to, domain.ErrUnknownOption)
	}
	a, b := fromPrices[size], toPrices[size]
	if domain.IsOnRequest(a) || domain.IsOnRequest(b) {
		return 0, true, nil
	}
	return b - a, false, nil
}

// FensterDelta returns the cost of switching between two window combinations
// at a fixed nest size. Combination totals subtract directly because each one
// already covers material and lighting together.
func (c *Calculator) FensterDelta(size domain.NestSize, fromMaterial domain.FensterMaterial, fromTier domain.LightingTier, toMaterial domain.FensterMaterial, toTier domain.LightingTier) (delta float64, onRequest bool, err error) {
	a, err := c.fensterTotal(fromMaterial, size, fromTier)
	if err != nil {
		return 0, false, err
	}
	b, err := c.fensterTotal(toMaterial, size, toTier)
	if err != nil {
		return 0, false, err
	}
	if domain.IsOnRequest(a) || domain.IsOnRequest(b) {
		return 0, true, nil
	}
	return b - a, false, nil
}

// FensterPricePerSqm returns the per-m² display price of a window
// combination, dividing the combination total by the tier's glazed share of
// the BASE nest area. Unknown combinations yield 0 rather than an error so a
// stale UI never breaks on a missing figure.
func (c *Calculator) FensterPricePerSqm(material domain.FensterMaterial, size domain.NestSize, tier domain.LightingTier) float64 {
	perNest, ok := c.data.Fenster.TotalPrices[material]
	if !ok {
		return 0
	}
	return FensterPricePerSqm(perNest[size][tier], size, tier)
}

// PricePerSqm returns the area-scaled per-m² display figure for a surface
// category option, using the geschossdecke-adjusted area.
func (c *Calculator) PricePerSqm(category domain.Category, size domain.NestSize, key domain.OptionKey, geschossdeckeQty int) (float64, error) {
	var prices map[domain.OptionKey]domain.NestPrices
	switch category {
	case domain.CategoryGebaeudehuelle:
		prices = c.data.Gebaeudehuelle
	case domain.CategoryInnenverkleidung:
		prices = c.data.Innenverkleidung
	case domain.CategoryBodenbelag:
		prices = c.data.Bodenbelag
	default:
		return 0, fmt.Errorf("category %q has no per-m² price: %w", category, domain.ErrUnknownOption)
	}
	nestPrices, ok := prices[key]
	if !ok {
		return 0, fmt.Errorf("%s %q: %w", category, key, domain.ErrUnknownOption)
	}
	return AreaScaledPricePerSqm(nestPrices[size], size, geschossdeckeQty), nil
}

// MaxPVModules returns the module cap for a nest size.
func (c *Calculator) MaxPVModules(size domain.NestSize) int {
	return c.data.PVAnlage.MaxModules[size]
}

// MaxGeschossdecken returns the slab cap for a nest size.
func (c *Calculator) MaxGeschossdecken(size domain.NestSize) int {
	return c.data.Geschossdecke.MaxAmounts[size]
}

// item builds one breakdown line, normalizing the on-request sentinel.
func item(category domain.Category, key string, price float64) domain.QuoteItem {
	it := domain.QuoteItem{Category: category, Key: key}
	if domain.IsOnRequest(price) {
		it.OnRequest = true
		return it
	}
	it.Amount = price
	return it
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if hi > 0 && v > hi {
		return hi
	}
	return v
}
