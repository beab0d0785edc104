package pricing

import (
	"errors"
	"testing"

	"github.com/stenkjan/nest-haus-sub005/internal/domain"
)

func testCalculator(t *testing.T) *Calculator {
	t.Helper()
	return NewCalculator(mustParse(t))
}

func findItem(t *testing.T, res domain.PriceQuoteResult, category domain.Category) domain.QuoteItem {
	t.Helper()
	for _, it := range res.Items {
		if it.Category == category {
			return it
		}
	}
	t.Fatalf("no %s item in breakdown %+v", category, res.Items)
	return domain.QuoteItem{}
}

func TestQuoteBaseNestOnly(t *testing.T) {
	calc := testCalculator(t)

	res, err := calc.Quote(domain.Configuration{Nest: domain.Nest80})
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if res.Total != 213032 {
		t.Errorf("total = %v, want 213032", res.Total)
	}
	if res.OnRequest {
		t.Error("base configuration should not be on request")
	}
	if len(res.Items) != 1 {
		t.Errorf("items = %d, want 1", len(res.Items))
	}
}

func TestQuoteNestWithWindows(t *testing.T) {
	calc := testCalculator(t)

	res, err := calc.Quote(domain.Configuration{
		Nest:       domain.Nest80,
		Fenster:    domain.FensterPVC,
		Belichtung: domain.TierLight,
	})
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if res.Total != 228139 {
		t.Errorf("total = %v, want 228139 (213032 base + 15107 combination)", res.Total)
	}
	it := findItem(t, res, domain.CategoryFenster)
	if it.Amount != 15107 {
		t.Errorf("fenster amount = %v, want single combination total 15107", it.Amount)
	}
	if it.Key != "pvc_fenster_light" {
		t.Errorf("fenster key = %q", it.Key)
	}
}

func TestQuoteUnknownOption(t *testing.T) {
	calc := testCalculator(t)

	_, err := calc.Quote(domain.Configuration{Nest: "nest90"})
	if !errors.Is(err, domain.ErrUnknownOption) {
		t.Errorf("unknown nest: err = %v, want ErrUnknownOption", err)
	}

	_, err = calc.Quote(domain.Configuration{
		Nest:           domain.Nest80,
		Gebaeudehuelle: "ziegel",
	})
	if !errors.Is(err, domain.ErrUnknownOption) {
		t.Errorf("unknown hülle: err = %v, want ErrUnknownOption", err)
	}

	_, err = calc.Quote(domain.Configuration{
		Nest:       domain.Nest80,
		Fenster:    "stahl",
		Belichtung: domain.TierLight,
	})
	if !errors.Is(err, domain.ErrUnknownOption) {
		t.Errorf("unknown fenster material: err = %v, want ErrUnknownOption", err)
	}
}

func TestQuoteOnRequestPropagation(t *testing.T) {
	calc := testCalculator(t)

	res, err := calc.Quote(domain.Configuration{
		Nest:           domain.Nest160,
		Gebaeudehuelle: domain.HuellePlatteWeiss, // dash cell at nest160
	})
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if !res.OnRequest {
		t.Error("result should be flagged on request")
	}
	it := findItem(t, res, domain.CategoryGebaeudehuelle)
	if !it.OnRequest || it.Amount != 0 {
		t.Errorf("on-request item = %+v, want OnRequest with 0 amount", it)
	}
	if want := 359176.0; res.Total != want {
		t.Errorf("total = %v, want %v (sentinel contributes nothing)", res.Total, want)
	}
}

func TestQuoteGeschossdeckeClamped(t *testing.T) {
	calc := testCalculator(t)

	res, err := calc.Quote(domain.Configuration{
		Nest:          domain.Nest80,
		Geschossdecke: 10, // cap for nest80 is 3
	})
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	it := findItem(t, res, domain.CategoryGeschossdecke)
	if it.Amount != 3*9500 {
		t.Errorf("geschossdecke amount = %v, want %v", it.Amount, 3*9500)
	}
	if it.Key != "3x" {
		t.Errorf("geschossdecke key = %q, want clamped quantity", it.Key)
	}
}

func TestQuotePVBulkTable(t *testing.T) {
	calc := testCalculator(t)

	res, err := calc.Quote(domain.Configuration{
		Nest:      domain.Nest80,
		PVModules: 4,
	})
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	it := findItem(t, res, domain.CategoryPVAnlage)
	if it.Amount != 4*1990 {
		t.Errorf("pv amount = %v, want table price %v", it.Amount, 4*1990)
	}

	res, err = calc.Quote(domain.Configuration{
		Nest:      domain.Nest80,
		PVModules: 99, // cap for nest80 is 8
	})
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	it = findItem(t, res, domain.CategoryPVAnlage)
	if it.Amount != 8*1990 {
		t.Errorf("clamped pv amount = %v, want %v", it.Amount, 8*1990)
	}
}

func TestQuotePlanungspaket(t *testing.T) {
	calc := testCalculator(t)

	res, err := calc.Quote(domain.Configuration{
		Nest:          domain.Nest80,
		Planungspaket: domain.PlanBasis,
	})
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	for _, it := range res.Items {
		if it.Category == domain.CategoryPlanungspaket {
			t.Errorf("basis package added item %+v, want none", it)
		}
	}

	res, err = calc.Quote(domain.Configuration{
		Nest:          domain.Nest120,
		Planungspaket: domain.PlanPlus,
	})
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	it := findItem(t, res, domain.CategoryPlanungspaket)
	if it.Amount != 9600 {
		t.Errorf("plus package = %v, want 9600 regardless of size", it.Amount)
	}
}

func TestQuoteFixedAddons(t *testing.T) {
	calc := testCalculator(t)

	res, err := calc.Quote(domain.Configuration{
		Nest:         domain.Nest100,
		Kaminschacht: true,
		Fundament:    true,
	})
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if it := findItem(t, res, domain.CategoryKaminschacht); it.Amount != 2500 {
		t.Errorf("kaminschacht = %v, want 2500", it.Amount)
	}
	if it := findItem(t, res, domain.CategoryFundament); it.Amount != 10500 {
		t.Errorf("fundament nest100 = %v, want 10500", it.Amount)
	}
}

func TestOptionDelta(t *testing.T) {
	calc := testCalculator(t)

	delta, onRequest, err := calc.OptionDelta(domain.CategoryInnenverkleidung,
		domain.Nest80, domain.InnenFichte, domain.InnenEiche)
	if err != nil {
		t.Fatalf("OptionDelta: %v", err)
	}
	if onRequest {
		t.Error("delta should not be on request")
	}
	if want := 9750.0 - 4500.0; delta != want {
		t.Errorf("fichte->eiche delta = %v, want %v", delta, want)
	}

	// Reverse direction is a refund.
	delta, _, err = calc.OptionDelta(domain.CategoryInnenverkleidung,
		domain.Nest80, domain.InnenEiche, domain.InnenFichte)
	if err != nil {
		t.Fatalf("OptionDelta: %v", err)
	}
	if want := 4500.0 - 9750.0; delta != want {
		t.Errorf("eiche->fichte delta = %v, want %v", delta, want)
	}
}

func TestOptionDeltaOnRequest(t *testing.T) {
	calc := testCalculator(t)

	delta, onRequest, err := calc.OptionDelta(domain.CategoryGebaeudehuelle,
		domain.Nest160, domain.HuelleTrapezblech, domain.HuellePlatteWeiss)
	if err != nil {
		t.Fatalf("OptionDelta: %v", err)
	}
	if !onRequest || delta != 0 {
		t.Errorf("delta to dash cell = (%v, %v), want (0, true)", delta, onRequest)
	}
}

func TestOptionDeltaUnknown(t *testing.T) {
	calc := testCalculator(t)

	_, _, err := calc.OptionDelta(domain.CategoryBodenbelag,
		domain.Nest80, domain.BelagOhne, "teppich")
	if !errors.Is(err, domain.ErrUnknownOption) {
		t.Errorf("err = %v, want ErrUnknownOption", err)
	}
}

func TestFensterDelta(t *testing.T) {
	calc := testCalculator(t)

	delta, onRequest, err := calc.FensterDelta(domain.Nest80,
		domain.FensterPVC, domain.TierLight,
		domain.FensterHolz, domain.TierBright)
	if err != nil {
		t.Fatalf("FensterDelta: %v", err)
	}
	if onRequest {
		t.Error("delta should not be on request")
	}
	if want := 33973.0 - 15107.0; delta != want {
		t.Errorf("pvc/light -> holz/bright delta = %v, want %v", delta, want)
	}
}

func TestMaxCaps(t *testing.T) {
	calc := testCalculator(t)

	if got := calc.MaxPVModules(domain.Nest120); got != 12 {
		t.Errorf("MaxPVModules(nest120) = %d, want 12", got)
	}
	if got := calc.MaxGeschossdecken(domain.Nest140); got != 6 {
		t.Errorf("MaxGeschossdecken(nest140) = %d, want 6", got)
	}
}
