package pricing

import (
	"math"

	"github.com/stenkjan/nest-haus-sub005/internal/domain"
)

// GeschossdeckeAreaPerUnit is the usable area in m² each intermediate floor
// slab adds to a nest.
const GeschossdeckeAreaPerUnit = 6.5

// AdjustedArea returns the usable area of a nest after geschossdecke add-ons.
// Negative quantities count as zero.
func AdjustedArea(size domain.NestSize, geschossdeckeQty int) float64 {
	if geschossdeckeQty < 0 {
		geschossdeckeQty = 0
	}
	return size.BaseArea() + GeschossdeckeAreaPerUnit*float64(geschossdeckeQty)
}

// AreaScaledPricePerSqm divides an absolute price by the adjusted area and
// rounds to whole euros. Display-only: adding geschossdecken lowers the shown
// per-m² figure for surface categories without changing the absolute price.
// On-request and non-positive prices yield 0.
func AreaScaledPricePerSqm(price float64, size domain.NestSize, geschossdeckeQty int) float64 {
	if price <= 0 {
		return 0
	}
	area := AdjustedArea(size, geschossdeckeQty)
	if area <= 0 {
		return 0
	}
	return math.Round(price / area)
}

// FensterPricePerSqm divides a combination total by the glazed area of the
// tier, rounded to whole euros. The glazed area is a fraction of the BASE
// area only: lighting packages size glazing off the original footprint, so
// geschossdecke add-ons do not dilute this figure. Unknown combinations and
// on-request prices yield 0.
func FensterPricePerSqm(total float64, size domain.NestSize, tier domain.LightingTier) float64 {
	if total <= 0 {
		return 0
	}
	glazed := size.BaseArea() * tier.AreaFraction()
	if glazed <= 0 {
		return 0
	}
	return math.Round(total / glazed)
}
