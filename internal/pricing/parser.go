package pricing

import (
	"fmt"

	"github.com/stenkjan/nest-haus-sub005/internal/domain"
)

// Parser converts a fetched grid into domain.PricingData. It is deterministic
// and pure: the same grid always yields the same model, byte for byte.
type Parser struct{}

func NewParser() *Parser { return &Parser{} }

// Parse reads every section out of the grid. Missing fixed anchors (nest base
// prices, geschossdecke) fail with ParseError; missing keyword sections parse
// to empty maps so a renamed heading degrades a category instead of killing
// the whole sync.
func (p *Parser) Parse(grid domain.Grid) (domain.PricingData, error) {
	if len(grid) <= nestSqmRow {
		return domain.PricingData{}, &domain.ParseError{
			Section: "nest",
			Msg:     fmt.Sprintf("grid has %d rows, need at least %d", len(grid), nestSqmRow+1),
		}
	}

	nest, err := p.parseNest(grid)
	if err != nil {
		return domain.PricingData{}, err
	}
	geschossdecke, err := p.parseGeschossdecke(grid)
	if err != nil {
		return domain.PricingData{}, err
	}

	data := domain.PricingData{
		Nest:             nest,
		Geschossdecke:    geschossdecke,
		Gebaeudehuelle:   p.parseOptionSection(grid, huelleSection),
		Innenverkleidung: p.parseOptionSection(grid, innenSection),
		PVAnlage:         p.parsePVAnlage(grid),
		Bodenbelag:       p.parseOptionSection(grid, belagSection),
		Bodenaufbau:      p.parseOptionSection(grid, aufbauSection),
		Belichtungspaket: p.parseOptionSection(grid, belichtungSection),
		Fenster:          p.parseFenster(grid),
		Optionen:         p.parseOptionen(grid),
		Planungspaket:    p.parsePlanungspakete(grid),
	}
	return data, nil
}

func (p *Parser) parseNest(grid domain.Grid) (map[domain.NestSize]domain.NestEntry, error) {
	out := make(map[domain.NestSize]domain.NestEntry, len(domain.AllNestSizes))
	for _, size := range domain.AllNestSizes {
		col := nestColumns[size]
		price := parseNumber(cell(grid, nestPriceRow, col), true)
		sqm := parseNumber(cell(grid, nestSqmRow, col), false)
		if price <= 0 {
			return nil, &domain.ParseError{
				Section: "nest",
				Msg:     fmt.Sprintf("no base price for %s at row %d col %d", size, nestPriceRow+1, col+1),
			}
		}
		entry := domain.NestEntry{Price: price, SquareMeters: sqm}
		if sqm > 0 {
			entry.PricePerSqm = price / sqm
		}
		out[size] = entry
	}
	return out, nil
}

func (p *Parser) parseGeschossdecke(grid domain.Grid) (domain.GeschossdeckeData, error) {
	base := parseNumber(cell(grid, geschossdeckeRow, geschossdeckeCol), true)
	if base == 0 {
		return domain.GeschossdeckeData{}, &domain.ParseError{
			Section: "geschossdecke",
			Msg:     fmt.Sprintf("no base price at row %d col %d", geschossdeckeRow+1, geschossdeckeCol+1),
		}
	}
	maxAmounts := make(map[domain.NestSize]int, len(domain.AllNestSizes))
	for _, size := range domain.AllNestSizes {
		maxAmounts[size] = int(parseNumber(cell(grid, geschossdeckeRow, nestColumns[size]), false))
	}
	return domain.GeschossdeckeData{BasePrice: base, MaxAmounts: maxAmounts}, nil
}

// parseOptionSection reads one label+prices block. Keyword sections that are
// not found return an empty map.
func (p *Parser) parseOptionSection(grid domain.Grid, sec optionSection) map[domain.OptionKey]domain.NestPrices {
	start := sec.row
	if sec.keyword != "" {
		anchor := findKeywordRow(grid, sec.keyword)
		if anchor < 0 {
			return map[domain.OptionKey]domain.NestPrices{}
		}
		start = anchor + 1
	}

	out := make(map[domain.OptionKey]domain.NestPrices, sec.span)
	for i := 0; i < sec.span; i++ {
		row := start + i
		label := normalizeLabel(cell(grid, row, labelCol))
		if label == "" {
			continue
		}
		prices := make(domain.NestPrices, len(domain.AllNestSizes))
		for _, size := range domain.AllNestSizes {
			prices[size] = parseNumber(cell(grid, row, nestColumns[size]), true)
		}
		out[canonicalKey(sec, label)] = prices
	}
	return out
}

func (p *Parser) parsePVAnlage(grid domain.Grid) domain.PVAnlageData {
	byQuantity := make(map[domain.NestSize]map[int]float64, len(domain.AllNestSizes))
	maxModules := make(map[domain.NestSize]int, len(domain.AllNestSizes))
	for _, size := range domain.AllNestSizes {
		table := make(map[int]float64, pvQuantities)
		for qty := 1; qty <= pvQuantities; qty++ {
			table[qty] = parseNumber(cell(grid, pvStartRow+qty-1, nestColumns[size]), true)
		}
		byQuantity[size] = table
		maxModules[size] = pvMaxModules[size]
	}
	return domain.PVAnlageData{PricesByQuantity: byQuantity, MaxModules: maxModules}
}

// parseFenster reads the 3x3 material/tier block. Each cell is the TOTAL price
// of the combined window-material-plus-lighting selection for that nest size.
func (p *Parser) parseFenster(grid domain.Grid) domain.FensterData {
	totals := make(map[domain.FensterMaterial]map[domain.NestSize]map[domain.LightingTier]float64, len(domain.AllFensterMaterials))
	for mi, material := range domain.AllFensterMaterials {
		perNest := make(map[domain.NestSize]map[domain.LightingTier]float64, len(domain.AllNestSizes))
		for _, size := range domain.AllNestSizes {
			perNest[size] = make(map[domain.LightingTier]float64, len(domain.AllLightingTiers))
		}
		for ti, tier := range domain.AllLightingTiers {
			row := fensterStartRow + mi*len(domain.AllLightingTiers) + ti
			for _, size := range domain.AllNestSizes {
				perNest[size][tier] = parseNumber(cell(grid, row, nestColumns[size]), true)
			}
		}
		totals[material] = perNest
	}
	return domain.FensterData{TotalPrices: totals}
}

func (p *Parser) parseOptionen(grid domain.Grid) domain.OptionenData {
	// Kaminschacht is a flat add-on already quoted in full euros, so the
	// thousands shorthand does not apply to its cell.
	kamin := parseNumber(cell(grid, kaminschachtRow, nestColumns[domain.Nest80]), false)
	if kamin == 0 {
		kamin = kaminschachtFallback
	}
	fundament := make(domain.NestPrices, len(domain.AllNestSizes))
	for _, size := range domain.AllNestSizes {
		fundament[size] = parseNumber(cell(grid, fundamentRow, nestColumns[size]), true)
	}
	return domain.OptionenData{Kaminschacht: kamin, Fundament: fundament}
}

// parsePlanungspakete reads the plus and pro package prices from a single
// column and fans them out uniformly across all nest sizes. Basis is free and
// carries no row.
func (p *Parser) parsePlanungspakete(grid domain.Grid) map[domain.PlanTier]domain.NestPrices {
	plus := parseNumber(cell(grid, planPlusRow, nestColumns[domain.Nest80]), true)
	if plus == 0 {
		plus = planPlusFallback
	}
	pro := parseNumber(cell(grid, planProRow, nestColumns[domain.Nest80]), true)
	if pro == 0 {
		pro = planProFallback
	}

	out := map[domain.PlanTier]domain.NestPrices{
		domain.PlanPlus: make(domain.NestPrices, len(domain.AllNestSizes)),
		domain.PlanPro:  make(domain.NestPrices, len(domain.AllNestSizes)),
	}
	for _, size := range domain.AllNestSizes {
		out[domain.PlanPlus][size] = plus
		out[domain.PlanPro][size] = pro
	}
	return out
}
