// Package calc - Cost-plus pricing
package calc

import (
	"github.com/shopspring/decimal"

	"ratecard/core/types"
)

// CostPlus computes baseCost * (1 + markup/100) * quantity. A non-nil
// baseCostOverride replaces the stored base cost for this calculation
// only, so an ad-hoc recalculation never mutates the rate card.
func CostPlus(params types.CostPlusParams, quantity decimal.Decimal, baseCostOverride *decimal.Decimal) (*types.CalculationResult, error) {
	if err := requirePositiveQuantity(quantity); err != nil {
		return nil, err
	}

	baseCost := params.BaseCost
	if baseCostOverride != nil {
		baseCost = *baseCostOverride
	}
	if err := requireNonNegative("base cost", baseCost); err != nil {
		return nil, err
	}
	if err := requireNonNegative("markup percent", params.MarkupPercent); err != nil {
		return nil, err
	}

	markupAmount := baseCost.Mul(params.MarkupPercent).Div(decimal.NewFromInt(100))
	unitPrice := baseCost.Add(markupAmount)

	lines := []types.LineItem{
		{
			Description: "Base cost",
			Quantity:    quantity,
			UnitPrice:   baseCost,
			Subtotal:    baseCost.Mul(quantity),
		},
		{
			Description: "Markup (" + params.MarkupPercent.String() + "%)",
			Quantity:    quantity,
			UnitPrice:   markupAmount,
			Subtotal:    markupAmount.Mul(quantity),
		},
	}

	effective := unitPrice

	return &types.CalculationResult{
		TotalPrice:   types.RoundMoney(sumBreakdown(lines)),
		Breakdown:    lines,
		AppliedModel: types.ModelCostPlus,
		Metadata:     types.ResultMetadata{EffectiveUnitPrice: &effective},
	}, nil
}
