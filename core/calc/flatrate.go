// Package calc - Flat-rate pricing
package calc

import (
	"github.com/shopspring/decimal"

	"ratecard/core/types"
)

// FlatRate computes price * quantity. A zero quantity defaults to 1 so
// one-time fees can be shown without a quantity control; a negative
// quantity is rejected.
func FlatRate(params types.FlatRateParams, quantity decimal.Decimal) (*types.CalculationResult, error) {
	if quantity.IsZero() {
		quantity = decimal.NewFromInt(1)
	}
	if err := requirePositiveQuantity(quantity); err != nil {
		return nil, err
	}
	if err := requireNonNegative("price", params.Price); err != nil {
		return nil, err
	}

	period := params.BillingPeriod
	if period == "" {
		period = types.PeriodOneTime
	}

	lines := []types.LineItem{{
		Description: "Flat rate",
		Quantity:    quantity,
		UnitPrice:   params.Price,
		Subtotal:    quantity.Mul(params.Price),
	}}

	return &types.CalculationResult{
		TotalPrice:   types.RoundMoney(sumBreakdown(lines)),
		Breakdown:    lines,
		AppliedModel: types.ModelFlatRate,
		Metadata:     types.ResultMetadata{BillingPeriod: period},
	}, nil
}
