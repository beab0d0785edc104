package pricing

import (
	"errors"
	"testing"

	"github.com/stenkjan/nest-haus-sub005/internal/domain"
)

// testGrid builds a grid mirroring the production range layout, including
// hidden spacer columns and European formatting quirks.
func testGrid() domain.Grid {
	grid := make(domain.Grid, 100)
	for i := range grid {
		grid[i] = make([]any, 14)
	}

	row := func(i int, label string, values ...any) {
		grid[i][labelCol] = label
		cols := []int{5, 7, 9, 11, 13}
		for j, v := range values {
			if j < len(cols) {
				grid[i][cols[j]] = v
			}
		}
	}

	// Geschossdecke: base price in thousands shorthand in column D, per-size
	// max amounts in the nest columns.
	grid[6][geschossdeckeCol] = 9.5
	row(6, "Geschossdecke", 3.0, 4.0, 5.0, 6.0, 7.0)

	row(10, "Nest Verkaufspreis", 213032.0, 249568.0, 286104.0, 322640.0, 359176.0)
	row(11, "Wohnfläche", 75.0, 95.0, 115.0, 135.0, 155.0)

	row(16, "Trapezblech", 0.0, 0.0, 0.0, 0.0, 0.0)
	row(17, "Holzlattung Lärche Natur", 9600.0, 12160.0, 14720.0, 17280.0, 19840.0)
	row(18, "Platte Black", 12000.0, 15200.0, 18400.0, 21600.0, 24800.0)
	row(19, "Platte White", 12000.0, 15200.0, 18400.0, 21600.0, "-")

	row(22, "ohne Innenverkleidung", 0.0, 0.0, 0.0, 0.0, 0.0)
	row(23, "Fichte", 4500.0, 5700.0, 6900.0, 8100.0, 9300.0)
	row(24, "Lärche", 6000.0, 7600.0, 9200.0, 10800.0, 12400.0)
	row(25, "Eiche", 9750.0, 12350.0, 14950.0, 17550.0, 20150.0)

	for qty := 1; qty <= pvQuantities; qty++ {
		row(pvStartRow+qty-1, "", float64(qty)*1990.0, float64(qty)*1990.0,
			float64(qty)*1990.0, float64(qty)*1990.0, float64(qty)*1990.0)
	}

	grid[48][labelCol] = "Bodenbelag"
	row(49, "Bauherr", 0.0, 0.0, 0.0, 0.0, 0.0)
	row(50, "Eiche", 6375.0, 8075.0, 9775.0, 11475.0, 13175.0)
	row(51, "Kalkstein", 8250.0, 10450.0, 12650.0, 14850.0, 17050.0)
	row(52, "dunkler Stein", 9000.0, 11400.0, 13800.0, 16200.0, 18600.0)

	grid[55][labelCol] = "Bodenaufbau"
	row(56, "ohne Heizung", 0.0, 0.0, 0.0, 0.0, 0.0)
	row(57, "elektrische FBH", 3750.0, 4750.0, 5750.0, 6750.0, 7750.0)
	row(58, "wassergeführte FBH", 5250.0, 6650.0, 8050.0, 9450.0, 10850.0)

	grid[62][labelCol] = "Belichtungspaket"
	row(63, "Light", 0.0, 0.0, 0.0, 0.0, 0.0)
	row(64, "Medium", 4200.0, 5320.0, 6440.0, 7560.0, 8680.0)
	row(65, "Bright", 7800.0, 9880.0, 11960.0, 14040.0, 16120.0)

	// Fenster block: holz rows 70-72, aluminium rows 73-75, pvc rows 76-78
	// in sheet numbering, each material light/medium/bright.
	row(69, "Holz Light", 18200.0, 23053.0, 27907.0, 32760.0, 37613.0)
	row(70, "Holz Medium", 26693.0, 33811.0, 40929.0, 48048.0, 55166.0)
	row(71, "Holz Bright", 33973.0, 43033.0, 52092.0, 61152.0, 70211.0)
	row(72, "Aluminium Light", 21000.0, 26600.0, 32200.0, 37800.0, 43400.0)
	row(73, "Aluminium Medium", 30800.0, 39013.0, 47227.0, 55440.0, 63653.0)
	row(74, "Aluminium Bright", 39200.0, 49653.0, 60107.0, 70560.0, 81013.0)
	row(75, "PVC Light", 15107.0, 19135.0, 23164.0, 27192.0, 31221.0)
	row(76, "PVC Medium", 22157.0, 28065.0, 33974.0, 39882.0, 45790.0)
	row(77, "PVC Bright", 28199.0, 35719.0, 43239.0, 50759.0, 58279.0)

	row(81, "Kaminschacht", 2500.0)
	row(82, "Fundament", 8.5, 10.5, 12.5, 14.5, 16.5)

	row(87, "Planungspaket Plus", 9600.0)
	row(88, "Planungspaket Pro", 12700.0)

	return grid
}

func mustParse(t *testing.T) domain.PricingData {
	t.Helper()
	data, err := NewParser().Parse(testGrid())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return data
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		isPrice bool
		want    float64
	}{
		{"thousands shorthand expands", 213.0, true, 213000},
		{"expanded price untouched", 213032.0, true, 213032},
		{"boundary 1000 untouched", 1000.0, true, 1000},
		{"boundary just below expands", 999.0, true, 999000},
		{"non-price never expands", 500.0, false, 500},
		{"dash is on-request", "-", true, domain.PriceOnRequest},
		{"dash never coerced", "-", false, domain.PriceOnRequest},
		{"currency and separators stripped", "€ 1,200", true, 1200},
		{"garbage is zero", "abc", true, 0},
		{"empty is zero", "", true, 0},
		{"nil is zero", nil, true, 0},
		{"negative untouched", -5.0, true, -5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseNumber(tt.in, tt.isPrice); got != tt.want {
				t.Errorf("parseNumber(%v, %v) = %v, want %v", tt.in, tt.isPrice, got, tt.want)
			}
		})
	}
}

func TestParseNest(t *testing.T) {
	data := mustParse(t)

	entry := data.Nest[domain.Nest80]
	if entry.Price != 213032 {
		t.Errorf("nest80 price = %v, want 213032", entry.Price)
	}
	if entry.SquareMeters != 75 {
		t.Errorf("nest80 sqm = %v, want 75", entry.SquareMeters)
	}
	if want := 213032.0 / 75; entry.PricePerSqm != want {
		t.Errorf("nest80 price/m² = %v, want %v", entry.PricePerSqm, want)
	}
	if len(data.Nest) != 5 {
		t.Errorf("parsed %d nest sizes, want 5", len(data.Nest))
	}
}

func TestParseGeschossdecke(t *testing.T) {
	data := mustParse(t)

	if data.Geschossdecke.BasePrice != 9500 {
		t.Errorf("base price = %v, want 9500", data.Geschossdecke.BasePrice)
	}
	wantMax := map[domain.NestSize]int{
		domain.Nest80: 3, domain.Nest100: 4, domain.Nest120: 5,
		domain.Nest140: 6, domain.Nest160: 7,
	}
	for size, want := range wantMax {
		if got := data.Geschossdecke.MaxAmounts[size]; got != want {
			t.Errorf("max amounts[%s] = %d, want %d", size, got, want)
		}
	}
}

func TestParseSynonyms(t *testing.T) {
	data := mustParse(t)

	for _, key := range []domain.OptionKey{
		domain.HuelleTrapezblech, domain.HuelleHolzlattung,
		domain.HuellePlatteSchwarz, domain.HuellePlatteWeiss,
	} {
		if _, ok := data.Gebaeudehuelle[key]; !ok {
			t.Errorf("gebaeudehuelle missing canonical key %q", key)
		}
	}
	if _, ok := data.Bodenbelag[domain.BelagSchiefer]; !ok {
		t.Errorf("bodenbelag missing %q for label 'dunkler Stein'", domain.BelagSchiefer)
	}
	if _, ok := data.Bodenaufbau[domain.AufbauWasser]; !ok {
		t.Errorf("bodenaufbau missing %q for label 'wassergeführte FBH'", domain.AufbauWasser)
	}
}

func TestParseSentinelPassthrough(t *testing.T) {
	data := mustParse(t)

	got := data.Gebaeudehuelle[domain.HuellePlatteWeiss][domain.Nest160]
	if !domain.IsOnRequest(got) {
		t.Errorf("platte white nest160 = %v, want on-request sentinel", got)
	}
}

func TestParseFensterCombination(t *testing.T) {
	data := mustParse(t)

	got := data.Fenster.TotalPrices[domain.FensterPVC][domain.Nest80][domain.TierLight]
	if got != 15107 {
		t.Errorf("pvc/nest80/light = %v, want 15107", got)
	}
	got = data.Fenster.TotalPrices[domain.FensterHolz][domain.Nest160][domain.TierBright]
	if got != 70211 {
		t.Errorf("holz/nest160/bright = %v, want 70211", got)
	}
}

func TestParsePVAnlage(t *testing.T) {
	data := mustParse(t)

	if got := data.PVAnlage.PricesByQuantity[domain.Nest80][4]; got != 4*1990 {
		t.Errorf("pv price for 4 modules = %v, want %v", got, 4*1990)
	}
	if got := data.PVAnlage.MaxModules[domain.Nest160]; got != 16 {
		t.Errorf("max modules nest160 = %d, want 16", got)
	}
}

func TestParseFundamentThousands(t *testing.T) {
	data := mustParse(t)

	if got := data.Optionen.Fundament[domain.Nest80]; got != 8500 {
		t.Errorf("fundament nest80 = %v, want 8500", got)
	}
}

func TestParseFallbacks(t *testing.T) {
	grid := testGrid()
	grid[kaminschachtRow][5] = nil
	grid[planPlusRow][5] = ""

	data, err := NewParser().Parse(grid)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if data.Optionen.Kaminschacht != kaminschachtFallback {
		t.Errorf("kaminschacht = %v, want fallback %v", data.Optionen.Kaminschacht, kaminschachtFallback)
	}
	if got := data.Planungspaket[domain.PlanPlus][domain.Nest80]; got != planPlusFallback {
		t.Errorf("plan plus = %v, want fallback %v", got, planPlusFallback)
	}
	if got := data.Planungspaket[domain.PlanPro][domain.Nest120]; got != 12700 {
		t.Errorf("plan pro = %v, want 12700 fanned out to every size", got)
	}
}

func TestParseMissingKeywordSectionDegrades(t *testing.T) {
	grid := testGrid()
	grid[48][labelCol] = "Fußboden (neu)" // renamed heading

	data, err := NewParser().Parse(grid)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(data.Bodenbelag) != 0 {
		t.Errorf("bodenbelag = %v, want empty map when heading is absent", data.Bodenbelag)
	}
	if len(data.Bodenaufbau) == 0 {
		t.Error("bodenaufbau should be unaffected by a bodenbelag rename")
	}
}

func TestParseMissingAnchorFails(t *testing.T) {
	var parseErr *domain.ParseError

	_, err := NewParser().Parse(testGrid()[:8])
	if !errors.As(err, &parseErr) {
		t.Fatalf("short grid: err = %v, want ParseError", err)
	}

	grid := testGrid()
	grid[nestPriceRow] = make([]any, 14)
	_, err = NewParser().Parse(grid)
	if !errors.As(err, &parseErr) {
		t.Fatalf("blank nest prices: err = %v, want ParseError", err)
	}

	grid = testGrid()
	grid[geschossdeckeRow][geschossdeckeCol] = nil
	_, err = NewParser().Parse(grid)
	if !errors.As(err, &parseErr) {
		t.Fatalf("blank geschossdecke price: err = %v, want ParseError", err)
	}
}

func TestParseDeterministic(t *testing.T) {
	a, err := NewParser().Parse(testGrid())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	b, err := NewParser().Parse(testGrid())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if a.Nest[domain.Nest100] != b.Nest[domain.Nest100] {
		t.Error("repeated parses disagree on nest100")
	}
	if a.Geschossdecke.BasePrice != b.Geschossdecke.BasePrice {
		t.Error("repeated parses disagree on geschossdecke")
	}
}
