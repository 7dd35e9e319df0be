// Package calc - Subscription pricing
package calc

import (
	"fmt"

	"github.com/shopspring/decimal"

	"ratecard/core/types"
)

// Subscription computes unitPrice * quantity + setup fee. The unit price
// is the yearly price when the billing period is yearly and a yearly
// price is defined; otherwise the monthly price.
func Subscription(params types.SubscriptionParams, quantity decimal.Decimal, period types.BillingPeriod) (*types.CalculationResult, error) {
	if err := requirePositiveQuantity(quantity); err != nil {
		return nil, err
	}
	if err := requireNonNegative("monthly price", params.MonthlyPrice); err != nil {
		return nil, err
	}

	unitPrice := params.MonthlyPrice
	appliedPeriod := types.PeriodMonthly
	if period == types.PeriodYearly && params.YearlyPrice != nil {
		if err := requireNonNegative("yearly price", *params.YearlyPrice); err != nil {
			return nil, err
		}
		unitPrice = *params.YearlyPrice
		appliedPeriod = types.PeriodYearly
	}

	lines := []types.LineItem{{
		Description: fmt.Sprintf("Subscription (%s)", appliedPeriod),
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Subtotal:    unitPrice.Mul(quantity),
	}}

	if params.SetupFee != nil {
		if err := requireNonNegative("setup fee", *params.SetupFee); err != nil {
			return nil, err
		}
		if params.SetupFee.IsPositive() {
			lines = append(lines, types.LineItem{
				Description: "Setup fee",
				Quantity:    decimal.NewFromInt(1),
				UnitPrice:   *params.SetupFee,
				Subtotal:    *params.SetupFee,
			})
		}
	}

	return &types.CalculationResult{
		TotalPrice:   types.RoundMoney(sumBreakdown(lines)),
		Breakdown:    lines,
		AppliedModel: types.ModelSubscription,
		Metadata:     types.ResultMetadata{BillingPeriod: appliedPeriod},
	}, nil
}
