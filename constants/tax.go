package constants

// GSTRates are the only tax slabs a product may carry, in ascending order.
// Snapping ties resolve to the first match in this order.
var GSTRates = []int{0, 5, 12, 18, 28}

// PricingMode states whether the quoted price already includes GST.
type PricingMode string

const (
	PricingMRPInclusive PricingMode = "MRP_INCLUSIVE"
	PricingBasePlusGST  PricingMode = "BASE_PLUS_GST"
)

// IsAllowedGSTRate reports whether rate is one of GSTRates.
func IsAllowedGSTRate(rate int) bool {
	for _, r := range GSTRates {
		if r == rate {
			return true
		}
	}
	return false
}
