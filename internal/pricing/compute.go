package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/catalog-extractor/constants"
)

var hundred = decimal.NewFromInt(100)

// consistencyTolerance is the largest accepted gap between a stated MRP and
// base × (1 + gst/100) before a pair is reported as inconsistent.
var consistencyTolerance = decimal.RequireFromString("0.01")

// Input is the raw text of the pricing cells of one row.
type Input struct {
	GST         string
	PricingMode string
	BasePrice   string
	MRP         string
}

// Result holds normalized pricing. BasePrice, MRP and TaxAmount are null when
// they could not be derived.
type Result struct {
	GSTRate     int
	PricingMode constants.PricingMode
	BasePrice   decimal.NullDecimal
	MRP         decimal.NullDecimal
	TaxAmount   decimal.NullDecimal

	// Consistent is false when both prices were given and they disagree with
	// GSTRate. Both values are still kept as given.
	Consistent bool
}

// Compute parses the pricing cells and derives the missing price.
func Compute(in Input) Result {
	return Derive(ClampGSTRate(in.GST), ParseMode(in.PricingMode), ToNum(in.BasePrice), ToNum(in.MRP))
}

// Derive fills whichever of base/mrp is missing from the other, then computes the tax amount.
func Derive(rate int, mode constants.PricingMode, base, mrp decimal.NullDecimal) Result {
	res := Result{GSTRate: rate, PricingMode: mode, BasePrice: base, MRP: mrp, Consistent: true}
	factor := decimal.NewFromInt(1).Add(decimal.NewFromInt(int64(rate)).Div(hundred))

	switch {
	case base.Valid && mrp.Valid:
		expected := Round2(base.Decimal.Mul(factor))
		res.Consistent = expected.Sub(mrp.Decimal).Abs().LessThanOrEqual(consistencyTolerance)
	case mrp.Valid:
		// MRP_INCLUSIVE quotes the MRP; BASE_PLUS_GST falls back to it when base is missing.
		res.BasePrice = decimal.NewNullDecimal(Round2(mrp.Decimal.Div(factor)))
	case base.Valid:
		res.MRP = decimal.NewNullDecimal(Round2(base.Decimal.Mul(factor)))
	}

	if res.BasePrice.Valid && res.MRP.Valid {
		res.TaxAmount = decimal.NewNullDecimal(Round2(res.MRP.Decimal.Sub(res.BasePrice.Decimal)))
	}
	return res
}
