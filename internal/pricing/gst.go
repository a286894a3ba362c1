// Package pricing derives missing base/MRP values from a GST slab and pricing mode.
package pricing

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/catalog-extractor/constants"
)

var reLeadingNumber = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)`)

// ClampGSTRate reads a leading numeric value from raw (0 when absent) and snaps it
// to the nearest allowed slab. Exact ties go to the lower slab.
func ClampGSTRate(raw string) int {
	v := 0.0
	if m := reLeadingNumber.FindString(strings.TrimSpace(raw)); m != "" {
		if f, err := strconv.ParseFloat(m, 64); err == nil {
			v = f
		}
	}
	return SnapGSTRate(v)
}

// SnapGSTRate returns the allowed slab closest to v.
func SnapGSTRate(v float64) int {
	best := constants.GSTRates[0]
	bestDist := math.Abs(v - float64(best))
	for _, r := range constants.GSTRates[1:] {
		if d := math.Abs(v - float64(r)); d < bestDist {
			best, bestDist = r, d
		}
	}
	return best
}

// ParseMode is BASE_PLUS_GST only for that exact token; anything else is MRP_INCLUSIVE.
func ParseMode(raw string) constants.PricingMode {
	if strings.TrimSpace(raw) == string(constants.PricingBasePlusGST) {
		return constants.PricingBasePlusGST
	}
	return constants.PricingMRPInclusive
}
