// Package domain defines the pricing model, configuration input, snapshot
// lifecycle types, and the interfaces implemented by the storage, cache, and
// ingestion layers.
package domain

// PriceOnRequest is the sentinel for "Preis auf Anfrage" cells. It must pass
// through parsing unchanged and is normalized to 0 only at final summation.
const PriceOnRequest float64 = -1

// IsOnRequest reports whether a price carries the on-request sentinel.
func IsOnRequest(price float64) bool {
	return price == PriceOnRequest
}

// NestSize identifies one of the five standardized house module footprints.
type NestSize string

const (
	Nest80  NestSize = "nest80"
	Nest100 NestSize = "nest100"
	Nest120 NestSize = "nest120"
	Nest140 NestSize = "nest140"
	Nest160 NestSize = "nest160"
)

// AllNestSizes lists every nest size in ascending footprint order. Parsers and
// calculators iterate this slice so map iteration order never leaks out.
var AllNestSizes = []NestSize{Nest80, Nest100, Nest120, Nest140, Nest160}

// baseAreas holds the usable base area per nest size in m², before any
// geschossdecke adjustment.
var baseAreas = map[NestSize]float64{
	Nest80:  75,
	Nest100: 95,
	Nest120: 115,
	Nest140: 135,
	Nest160: 155,
}

// BaseArea returns the unadjusted usable area in m², or 0 for an unknown size.
func (n NestSize) BaseArea() float64 {
	return baseAreas[n]
}

// Valid reports whether n is one of the five known nest sizes.
func (n NestSize) Valid() bool {
	_, ok := baseAreas[n]
	return ok
}

// ParseNestSize validates a raw nest size string.
func ParseNestSize(s string) (NestSize, error) {
	n := NestSize(s)
	if !n.Valid() {
		return "", ErrUnknownOption
	}
	return n, nil
}

// LightingTier is a belichtungspaket level. Each tier devotes a fixed fraction
// of the nest's base area to glazing.
type LightingTier string

const (
	TierLight  LightingTier = "light"
	TierMedium LightingTier = "medium"
	TierBright LightingTier = "bright"
)

// AllLightingTiers lists tiers in ascending glazing order.
var AllLightingTiers = []LightingTier{TierLight, TierMedium, TierBright}

var tierFractions = map[LightingTier]float64{
	TierLight:  0.15,
	TierMedium: 0.22,
	TierBright: 0.28,
}

// AreaFraction returns the share of the nest base area devoted to glazing,
// or 0 for an unknown tier.
func (t LightingTier) AreaFraction() float64 {
	return tierFractions[t]
}

// Valid reports whether t is a known lighting tier.
func (t LightingTier) Valid() bool {
	_, ok := tierFractions[t]
	return ok
}

// ParseLightingTier validates a raw tier string.
func ParseLightingTier(s string) (LightingTier, error) {
	t := LightingTier(s)
	if !t.Valid() {
		return "", ErrUnknownOption
	}
	return t, nil
}

// FensterMaterial is a window/door material line.
type FensterMaterial string

const (
	FensterHolz FensterMaterial = "holz"
	FensterAlu  FensterMaterial = "aluminium_schwarz"
	FensterPVC  FensterMaterial = "pvc_fenster"
)

// AllFensterMaterials lists materials in spreadsheet row order.
var AllFensterMaterials = []FensterMaterial{FensterHolz, FensterAlu, FensterPVC}

// Valid reports whether m is a known window material.
func (m FensterMaterial) Valid() bool {
	switch m {
	case FensterHolz, FensterAlu, FensterPVC:
		return true
	}
	return false
}

// ParseFensterMaterial validates a raw material string.
func ParseFensterMaterial(s string) (FensterMaterial, error) {
	m := FensterMaterial(s)
	if !m.Valid() {
		return "", ErrUnknownOption
	}
	return m, nil
}

// PlanTier is a planning package level.
type PlanTier string

const (
	PlanBasis PlanTier = "basis"
	PlanPlus  PlanTier = "plus"
	PlanPro   PlanTier = "pro"
)

// Valid reports whether p is a known planning tier.
func (p PlanTier) Valid() bool {
	switch p {
	case PlanBasis, PlanPlus, PlanPro:
		return true
	}
	return false
}

// ParsePlanTier validates a raw planning tier string.
func ParsePlanTier(s string) (PlanTier, error) {
	p := PlanTier(s)
	if !p.Valid() {
		return "", ErrUnknownOption
	}
	return p, nil
}

// OptionKey is a canonical option identifier within a single category.
// Spreadsheet display labels are normalized to these keys at parse time; a
// label missing from the synonym tables keeps its normalized form, so drift
// surfaces as ErrUnknownOption at quote time instead of a silent zero.
type OptionKey string

// Canonical option keys per category, matching the synonym tables in the
// parser. Baseline options (zero delta) come first.
const (
	HuelleTrapezblech   OptionKey = "trapezblech"
	HuelleHolzlattung   OptionKey = "holzlattung"
	HuellePlatteSchwarz OptionKey = "fassadenplatten_schwarz"
	HuellePlatteWeiss   OptionKey = "fassadenplatten_weiss"

	InnenOhne    OptionKey = "ohne_innenverkleidung"
	InnenFichte  OptionKey = "fichte"
	InnenLaerche OptionKey = "laerche"
	InnenEiche   OptionKey = "steirische_eiche"

	BelagOhne      OptionKey = "ohne_belag"
	BelagParkett   OptionKey = "parkett"
	BelagKalkstein OptionKey = "kalkstein_kanafar"
	BelagSchiefer  OptionKey = "schiefer_massiv"

	AufbauOhneHeizung OptionKey = "ohne_heizung"
	AufbauElektrisch  OptionKey = "elektrische_fussbodenheizung"
	AufbauWasser      OptionKey = "wassergefuehrte_fussbodenheizung"
)

// NestPrices maps each nest size to a price (absolute or delta, depending on
// the category). A value of PriceOnRequest marks a dash cell.
type NestPrices map[NestSize]float64

// NestEntry is the base offer for one nest size.
type NestEntry struct {
	Price        float64 `json:"price"`
	PricePerSqm  float64 `json:"pricePerSqm"`
	SquareMeters float64 `json:"squareMeters"`
}

// GeschossdeckeData prices the intermediate floor slab add-on.
type GeschossdeckeData struct {
	BasePrice  float64          `json:"basePrice"`
	MaxAmounts map[NestSize]int `json:"maxAmounts"`
}

// PVAnlageData holds the bulk quantity price table for solar modules. Prices
// are totals per quantity, not unit prices.
type PVAnlageData struct {
	PricesByQuantity map[NestSize]map[int]float64 `json:"pricesByQuantity"`
	MaxModules       map[NestSize]int             `json:"maxModules"`
}

// FensterData stores one TOTAL price per (material, nest size, lighting tier)
// combination. These are not deltas; the combination price already covers both
// the window material and the lighting package.
type FensterData struct {
	TotalPrices map[FensterMaterial]map[NestSize]map[LightingTier]float64 `json:"totalPrices"`
}

// OptionenData holds the fixed add-ons.
type OptionenData struct {
	Kaminschacht float64    `json:"kaminschacht"`
	Fundament    NestPrices `json:"fundament"`
}

// PricingData is the fully parsed pricing table for one snapshot.
type PricingData struct {
	Nest             map[NestSize]NestEntry   `json:"nest"`
	Geschossdecke    GeschossdeckeData        `json:"geschossdecke"`
	Gebaeudehuelle   map[OptionKey]NestPrices `json:"gebaeudehuelle"`
	Innenverkleidung map[OptionKey]NestPrices `json:"innenverkleidung"`
	PVAnlage         PVAnlageData             `json:"pvanlage"`
	Bodenbelag       map[OptionKey]NestPrices `json:"bodenbelag"`
	Bodenaufbau      map[OptionKey]NestPrices `json:"bodenaufbau"`
	Belichtungspaket map[OptionKey]NestPrices `json:"belichtungspaket"`
	Fenster          FensterData              `json:"fenster"`
	Optionen         OptionenData             `json:"optionen"`
	Planungspaket    map[PlanTier]NestPrices  `json:"planungspaket"`
}
