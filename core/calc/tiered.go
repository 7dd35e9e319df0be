// Package calc - Tiered pricing
package calc

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"ratecard/core/types"
	"ratecard/internal/errors"
)

// Tiered computes a total by consuming quantity tier by tier, lowest
// tier first. Tier bounds are inclusive: a 1..10 tier holds 10 units.
// A nil Max marks the final, unbounded tier, which absorbs whatever
// quantity remains.
func Tiered(params types.TieredParams, quantity decimal.Decimal) (*types.CalculationResult, error) {
	if err := requirePositiveQuantity(quantity); err != nil {
		return nil, err
	}
	if len(params.Tiers) == 0 {
		return nil, errors.Input("tiered pricing requires at least one tier")
	}

	tiers := make([]types.Tier, len(params.Tiers))
	copy(tiers, params.Tiers)
	sort.Slice(tiers, func(i, j int) bool {
		return tiers[i].Min.LessThan(tiers[j].Min)
	})

	for i, tier := range tiers {
		if err := requireNonNegative(fmt.Sprintf("tier %d min", i+1), tier.Min); err != nil {
			return nil, err
		}
		if err := requireNonNegative(fmt.Sprintf("tier %d price per unit", i+1), tier.PricePerUnit); err != nil {
			return nil, err
		}
		if tier.Max != nil && tier.Max.LessThan(tier.Min) {
			return nil, errors.Inputf("tier %d max (%s) is below its min (%s)", i+1, tier.Max, tier.Min)
		}
	}
	if err := checkTierOverlap(tiers); err != nil {
		return nil, err
	}

	var lines []types.LineItem
	remaining := quantity

	for i, tier := range tiers {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}

		unitsInTier := remaining
		span, bounded := tier.Span()
		if bounded && span.LessThan(unitsInTier) {
			unitsInTier = span
		}

		lines = append(lines, types.LineItem{
			Description: tierLabel(i, tier),
			Quantity:    unitsInTier,
			UnitPrice:   tier.PricePerUnit,
			Subtotal:    unitsInTier.Mul(tier.PricePerUnit),
		})
		remaining = remaining.Sub(unitsInTier)
	}

	total := sumBreakdown(lines)
	effective := total.Div(quantity)

	return &types.CalculationResult{
		TotalPrice:   types.RoundMoney(total),
		Breakdown:    lines,
		AppliedModel: types.ModelTiered,
		Metadata: types.ResultMetadata{
			TiersUsed:          len(lines),
			EffectiveUnitPrice: &effective,
		},
	}, nil
}

func tierLabel(index int, tier types.Tier) string {
	if tier.Max == nil {
		return fmt.Sprintf("Tier %d (%s+)", index+1, tier.Min)
	}
	return fmt.Sprintf("Tier %d (%s-%s)", index+1, tier.Min, tier.Max)
}

// checkTierOverlap requires sorted tiers and rejects any pair where the
// next tier starts at or below the previous tier's max
func checkTierOverlap(sorted []types.Tier) error {
	for i := 1; i < len(sorted); i++ {
		prev := sorted[i-1]
		if prev.Max == nil {
			return errors.Inputf("tier %d is unbounded but not the last tier", i)
		}
		if sorted[i].Min.LessThanOrEqual(*prev.Max) {
			return errors.Inputf("tier %d (min %s) overlaps tier %d (max %s)",
				i+1, sorted[i].Min, i, prev.Max)
		}
	}
	return nil
}
