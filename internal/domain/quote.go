package domain

// Category identifies a configurator category in quote breakdowns.
type Category string

const (
	CategoryNest             Category = "nest"
	CategoryGebaeudehuelle   Category = "gebaeudehuelle"
	CategoryInnenverkleidung Category = "innenverkleidung"
	CategoryBodenbelag       Category = "bodenbelag"
	CategoryBodenaufbau      Category = "bodenaufbau"
	CategoryGeschossdecke    Category = "geschossdecke"
	CategoryPVAnlage         Category = "pvanlage"
	CategoryFenster          Category = "fenster"
	CategoryPlanungspaket    Category = "planungspaket"
	CategoryKaminschacht     Category = "kaminschacht"
	CategoryFundament        Category = "fundament"
)

// Configuration is one user-selected house configuration. It is transient:
// quotes are computed per request and never persisted by this service.
//
// Fenster and Belichtung select one combined (material, tier) window line;
// their price is a single combination total, never two independent deltas.
type Configuration struct {
	Nest             NestSize        `json:"nest"`
	Gebaeudehuelle   OptionKey       `json:"gebaeudehuelle"`
	Innenverkleidung OptionKey       `json:"innenverkleidung"`
	Bodenbelag       OptionKey       `json:"bodenbelag"`
	Bodenaufbau      OptionKey       `json:"bodenaufbau"`
	Geschossdecke    int             `json:"geschossdecke"`
	PVModules        int             `json:"pvModules"`
	Fenster          FensterMaterial `json:"fenster"`
	Belichtung       LightingTier    `json:"belichtung"`
	Planungspaket    PlanTier        `json:"planungspaket"`
	Kaminschacht     bool            `json:"kaminschacht"`
	Fundament        bool            `json:"fundament"`
}

// QuoteItem is one per-category line of a price breakdown. Amount is 0 when
// OnRequest is set; the flag must survive to the caller so the UI can render
// "Preis auf Anfrage" instead of a free upgrade.
type QuoteItem struct {
	Category  Category `json:"category"`
	Key       string   `json:"key"`
	Amount    float64  `json:"amount"`
	OnRequest bool     `json:"onRequest"`
}

// PriceQuoteResult is the computed total with its itemized breakdown.
type PriceQuoteResult struct {
	Total     float64     `json:"total"`
	OnRequest bool        `json:"onRequest"` // true when any item is on request
	Items     []QuoteItem `json:"items"`
}
