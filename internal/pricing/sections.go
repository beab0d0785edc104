// Package pricing turns the raw spreadsheet grid into a validated
// domain.PricingData model and computes configuration prices from it.
package pricing

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/stenkjan/nest-haus-sub005/internal/domain"
)

// Grid layout of the "Preistabelle_Verkauf" range. Column E (index 4) carries
// section titles and option labels; prices for the five nest sizes sit in
// columns F/H/J/L/N (G/I/K/M are hidden in the sheet). Row indexes are
// 0-based; the sheet rows they mirror are 1-based.
const (
	labelCol         = 4
	geschossdeckeCol = 3 // D: geschossdecke base price

	geschossdeckeRow = 6  // sheet row 7
	nestPriceRow     = 10 // sheet row 11
	nestSqmRow       = 11 // sheet row 12
	huelleStartRow   = 16 // sheet rows 17-20
	innenStartRow    = 22 // sheet rows 23-26
	pvStartRow       = 28 // sheet rows 29-44, quantities 1-16
	pvQuantities     = 16
	fensterStartRow  = 69 // sheet rows 70-78, 3 materials x 3 tiers
	kaminschachtRow  = 81 // sheet row 82
	fundamentRow     = 82 // sheet row 83
	planPlusRow      = 87 // sheet row 88
	planProRow       = 88 // sheet row 89
)

// nestColumns maps each nest size to its visible price column.
var nestColumns = map[domain.NestSize]int{
	domain.Nest80:  5,  // F
	domain.Nest100: 7,  // H
	domain.Nest120: 9,  // J
	domain.Nest140: 11, // L
	domain.Nest160: 13, // N
}

// pvMaxModules caps the module count per nest size. The sheet carries no
// max-modules row, so the caps are fixed here.
var pvMaxModules = map[domain.NestSize]int{
	domain.Nest80:  8,
	domain.Nest100: 10,
	domain.Nest120: 12,
	domain.Nest140: 14,
	domain.Nest160: 16,
}

// Fallback prices used when the corresponding cell is empty, preserved from
// the previous pricing table revision.
const (
	kaminschachtFallback = 2000
	planPlusFallback     = 9600
	planProFallback      = 12700
)

// optionSection declares how one option-map category is located and read.
// Fixed-anchor sections set row; keyword sections set keyword and are scanned
// down the label column. A keyword section whose anchor is absent parses to an
// empty map; a fixed section past the end of the grid is a ParseError.
type optionSection struct {
	name     string
	row      int    // 0-based first option row, -1 for keyword sections
	keyword  string // normalized anchor label, "" for fixed sections
	span     int
	synonyms map[string]domain.OptionKey
}

var huelleSection = optionSection{
	name: "gebaeudehuelle",
	row:  huelleStartRow,
	span: 4,
	synonyms: map[string]domain.OptionKey{
		"trapezblech":             domain.HuelleTrapezblech,
		"holzlattung lärche natur": domain.HuelleHolzlattung,
		"lärche":                  domain.HuelleHolzlattung,
		"platte black":            domain.HuellePlatteSchwarz,
		"platte white":            domain.HuellePlatteWeiss,
	},
}

var innenSection = optionSection{
	name: "innenverkleidung",
	row:  innenStartRow,
	span: 4,
	synonyms: map[string]domain.OptionKey{
		"ohne innenverkleidung": domain.InnenOhne,
		"fichte":                domain.InnenFichte,
		"lärche":                domain.InnenLaerche,
		"laerche":               domain.InnenLaerche,
		"eiche":                 domain.InnenEiche,
	},
}

var belagSection = optionSection{
	name:    "bodenbelag",
	row:     -1,
	keyword: "bodenbelag",
	span:    4,
	synonyms: map[string]domain.OptionKey{
		"bauherr":       domain.BelagOhne,
		"eiche":         domain.BelagParkett,
		"kalkstein":     domain.BelagKalkstein,
		"dunkler stein": domain.BelagSchiefer,
	},
}

var aufbauSection = optionSection{
	name:    "bodenaufbau",
	row:     -1,
	keyword: "bodenaufbau",
	span:    3,
	synonyms: map[string]domain.OptionKey{
		"ohne heizung":                    domain.AufbauOhneHeizung,
		"elektrische fußbodenheizung":     domain.AufbauElektrisch,
		"elektrische fbh":                 domain.AufbauElektrisch,
		"wassergeführte fußbodenheizung":  domain.AufbauWasser,
		"wassergeführte fbh":              domain.AufbauWasser,
		"wassergef. fbh":                  domain.AufbauWasser,
	},
}

var belichtungSection = optionSection{
	name:    "belichtungspaket",
	row:     -1,
	keyword: "belichtungspaket",
	span:    3,
	synonyms: map[string]domain.OptionKey{
		"light":  domain.OptionKey(domain.TierLight),
		"medium": domain.OptionKey(domain.TierMedium),
		"bright": domain.OptionKey(domain.TierBright),
	},
}

// normalizeLabel lowercases and trims an option label before synonym lookup.
func normalizeLabel(v any) string {
	s, _ := v.(string)
	return strings.ToLower(strings.TrimSpace(s))
}

// canonicalKey maps a normalized label through the section's synonym table.
// Labels without a synonym entry keep their normalized form so that drift in
// the sheet surfaces as ErrUnknownOption at quote time, not as a silent miss.
func canonicalKey(sec optionSection, label string) domain.OptionKey {
	if key, ok := sec.synonyms[label]; ok {
		return key
	}
	return domain.OptionKey(strings.ReplaceAll(label, " ", "_"))
}

var priceCleaner = regexp.MustCompile(`[€$,\s]`)

// parseNumber converts one cell to a number. A dash cell is the
// price-on-request sentinel and passes through as -1, never coerced. When
// isPrice is set, values strictly between 0 and 1000 are in thousands
// shorthand and are multiplied by 1000 exactly once; the rule never applies
// to already-expanded values or to non-price cells. Empty and non-numeric
// cells resolve to 0.
func parseNumber(v any, isPrice bool) float64 {
	var n float64
	switch val := v.(type) {
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "-" {
			return domain.PriceOnRequest
		}
		parsed, err := strconv.ParseFloat(priceCleaner.ReplaceAllString(trimmed, ""), 64)
		if err != nil {
			return 0
		}
		n = parsed
	case float64:
		n = val
	case int:
		n = float64(val)
	default:
		return 0
	}

	if isPrice && n > 0 && n < 1000 {
		return n * 1000
	}
	return n
}

// cell returns the raw value at (row, col), or nil when the grid is ragged or
// short there.
func cell(grid domain.Grid, row, col int) any {
	if row < 0 || row >= len(grid) {
		return nil
	}
	r := grid[row]
	if col < 0 || col >= len(r) {
		return nil
	}
	return r[col]
}

// findKeywordRow scans the label column for the section's anchor keyword and
// returns the 0-based row index, or -1 when the keyword is absent.
func findKeywordRow(grid domain.Grid, keyword string) int {
	for i := range grid {
		if normalizeLabel(cell(grid, i, labelCol)) == keyword {
			return i
		}
	}
	return -1
}
