// Package calc - Seat-based pricing
package calc

import (
	"fmt"

	"github.com/shopspring/decimal"

	"ratecard/core/types"
)

// SeatBased computes a total from a per-seat price with an optional seat
// floor and optional volume discounts. Among discounts whose threshold is
// met, the one with the highest percentage wins, not the one with the
// highest threshold.
func SeatBased(params types.SeatBasedParams, seats decimal.Decimal) (*types.CalculationResult, error) {
	if err := requirePositiveQuantity(seats); err != nil {
		return nil, err
	}
	if err := requireNonNegative("price per seat", params.PricePerSeat); err != nil {
		return nil, err
	}

	floor := decimal.NewFromInt(1)
	if params.MinimumSeats != nil {
		if err := requireNonNegative("minimum seats", *params.MinimumSeats); err != nil {
			return nil, err
		}
		floor = *params.MinimumSeats
	}

	effectiveSeats := seats
	if effectiveSeats.LessThan(floor) {
		effectiveSeats = floor
	}

	basePrice := effectiveSeats.Mul(params.PricePerSeat)
	lines := []types.LineItem{{
		Description: fmt.Sprintf("%s seats", effectiveSeats),
		Quantity:    effectiveSeats,
		UnitPrice:   params.PricePerSeat,
		Subtotal:    basePrice,
	}}

	var applied *types.VolumeDiscount
	for i := range params.Discounts {
		d := params.Discounts[i]
		if err := requireNonNegative("discount min seats", d.MinSeats); err != nil {
			return nil, err
		}
		if err := requirePercent("discount percent", d.DiscountPercent); err != nil {
			return nil, err
		}
		if d.MinSeats.GreaterThan(effectiveSeats) {
			continue
		}
		if applied == nil || d.DiscountPercent.GreaterThan(applied.DiscountPercent) {
			applied = &params.Discounts[i]
		}
	}

	metadata := types.ResultMetadata{EffectiveSeats: &effectiveSeats}
	if applied != nil {
		discountAmount := basePrice.Mul(applied.DiscountPercent).Div(decimal.NewFromInt(100))
		lines = append(lines, types.LineItem{
			Description: fmt.Sprintf("Volume discount (%s%%)", applied.DiscountPercent),
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   discountAmount.Neg(),
			Subtotal:    discountAmount.Neg(),
		})
		metadata.AppliedDiscountPercent = &applied.DiscountPercent
	}

	return &types.CalculationResult{
		TotalPrice:   types.RoundMoney(sumBreakdown(lines)),
		Breakdown:    lines,
		AppliedModel: types.ModelSeatBased,
		Metadata:     metadata,
	}, nil
}
