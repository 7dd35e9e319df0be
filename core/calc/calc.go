// Package calc - Pricing calculators
// One pure calculator per pricing model. All money math is decimal;
// only the final total is rounded (2 decimal places, half-up).
package calc

import (
	"github.com/shopspring/decimal"

	"ratecard/core/types"
	"ratecard/internal/errors"
)

// Options carries caller-supplied overrides for a calculation
type Options struct {
	// BaseCostOverride replaces the cost-plus base cost for this
	// calculation only, without mutating the stored rate card
	BaseCostOverride *decimal.Decimal

	// BillingPeriod selects the unit price for subscription pricing
	BillingPeriod types.BillingPeriod
}

// Calculate dispatches to the calculator matching the card's pricing model
func Calculate(card *types.RateCard, quantity decimal.Decimal, opts Options) (*types.CalculationResult, error) {
	if card == nil {
		return nil, errors.Input("rate card is required")
	}

	var result *types.CalculationResult
	var err error

	switch card.Model {
	case types.ModelTiered:
		if card.Tiered == nil {
			return nil, errors.Inputf("rate card %q has no tiered parameters", card.Name)
		}
		result, err = Tiered(*card.Tiered, quantity)
	case types.ModelSeatBased:
		if card.SeatBased == nil {
			return nil, errors.Inputf("rate card %q has no seat-based parameters", card.Name)
		}
		result, err = SeatBased(*card.SeatBased, quantity)
	case types.ModelFlatRate:
		if card.FlatRate == nil {
			return nil, errors.Inputf("rate card %q has no flat-rate parameters", card.Name)
		}
		result, err = FlatRate(*card.FlatRate, quantity)
	case types.ModelCostPlus:
		if card.CostPlus == nil {
			return nil, errors.Inputf("rate card %q has no cost-plus parameters", card.Name)
		}
		result, err = CostPlus(*card.CostPlus, quantity, opts.BaseCostOverride)
	case types.ModelSubscription:
		if card.Subscription == nil {
			return nil, errors.Inputf("rate card %q has no subscription parameters", card.Name)
		}
		result, err = Subscription(*card.Subscription, quantity, opts.BillingPeriod)
	default:
		return nil, errors.Newf(errors.TypeInput, "unsupported pricing model: %s", card.Model)
	}

	if err != nil {
		return nil, err
	}

	result.Currency = card.Currency
	return result, nil
}

// sumBreakdown totals the breakdown lines without rounding
func sumBreakdown(lines []types.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal)
	}
	return total
}

func requirePositiveQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return errors.Inputf("quantity must be positive, got %s", quantity)
	}
	return nil
}

func requireNonNegative(name string, value decimal.Decimal) error {
	if value.IsNegative() {
		return errors.Inputf("%s must not be negative, got %s", name, value)
	}
	return nil
}

func requirePercent(name string, value decimal.Decimal) error {
	if value.IsNegative() || value.GreaterThan(decimal.NewFromInt(100)) {
		return errors.Inputf("%s must be between 0 and 100, got %s", name, value)
	}
	return nil
}
