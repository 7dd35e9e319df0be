// Package worksheet - Finalization
// When a rate card is saved, the worksheet's rows are transcribed into
// the flat parameter shape the pricing calculators consume, so the same
// total can be reproduced later from the stored card alone.
package worksheet

import (
	"strings"

	"github.com/shopspring/decimal"

	"ratecard/core/calc"
	"ratecard/core/types"
	"ratecard/internal/errors"
)

var hundred = decimal.NewFromInt(100)

// Finalize builds a rate card from the completed worksheet. The
// worksheet must report IsComplete; the resulting card passes CheckCard.
func (e *Engine) Finalize(id, name string, currency types.Currency) (*types.RateCard, error) {
	if !e.isComplete {
		return nil, errors.Validation("worksheet is not complete")
	}

	card := &types.RateCard{
		ID:       id,
		Name:     name,
		Model:    e.model,
		Currency: currency,
	}

	switch e.model {
	case types.ModelTiered:
		card.Tiered = e.tieredParams()
	case types.ModelSeatBased:
		card.SeatBased = e.seatBasedParams()
	case types.ModelFlatRate:
		card.FlatRate = e.flatRateParams()
	case types.ModelCostPlus:
		card.CostPlus = e.costPlusParams()
	case types.ModelSubscription:
		card.Subscription = e.subscriptionParams()
	}

	if err := calc.CheckCard(card); err != nil {
		return nil, err
	}
	return card, nil
}

func (e *Engine) tieredParams() *types.TieredParams {
	params := &types.TieredParams{}
	for _, row := range e.rows {
		tier := types.Tier{
			Min:          row.Cells["minQty"].Value.AsNumber(),
			PricePerUnit: row.Cells["pricePerUnit"].Value.AsNumber(),
		}
		// A zero max in the grid means unbounded
		if max := row.Cells["maxQty"].Value.AsNumber(); !max.IsZero() {
			tier.Max = &max
		}
		params.Tiers = append(params.Tiers, tier)
	}
	return params
}

// seatBasedParams takes the per-seat price from the first row; rows
// carrying a discount become volume discount thresholds at their seat
// count
func (e *Engine) seatBasedParams() *types.SeatBasedParams {
	params := &types.SeatBasedParams{
		PricePerSeat: e.rows[0].Cells["pricePerSeat"].Value.AsNumber(),
	}
	for _, row := range e.rows {
		discount := row.Cells["discountPercent"].Value.AsNumber()
		if discount.IsZero() {
			continue
		}
		params.Discounts = append(params.Discounts, types.VolumeDiscount{
			MinSeats:        row.Cells["seats"].Value.AsNumber(),
			DiscountPercent: discount,
		})
	}
	return params
}

// flatRateParams stores the worksheet's grand total as the flat price,
// which reproduces the total at quantity 1
func (e *Engine) flatRateParams() *types.FlatRateParams {
	params := &types.FlatRateParams{Price: e.totalPrice}
	period := types.BillingPeriod(strings.TrimSpace(e.rows[0].Cells["billingPeriod"].Value.AsText()))
	if period.IsValid() {
		params.BillingPeriod = period
	}
	return params
}

// costPlusParams sums the base costs and derives the markup percent
// that reproduces the worksheet total exactly
func (e *Engine) costPlusParams() *types.CostPlusParams {
	baseSum := decimal.Zero
	for _, row := range e.rows {
		baseSum = baseSum.Add(row.Cells["baseCost"].Value.AsNumber())
	}

	params := &types.CostPlusParams{BaseCost: baseSum}
	if baseSum.IsPositive() {
		params.MarkupPercent = e.totalPrice.Sub(baseSum).Div(baseSum).Mul(hundred)
		if params.MarkupPercent.IsNegative() {
			params.MarkupPercent = decimal.Zero
		}
	}
	return params
}

func (e *Engine) subscriptionParams() *types.SubscriptionParams {
	first := e.rows[0]
	params := &types.SubscriptionParams{
		MonthlyPrice: first.Cells["monthlyPrice"].Value.AsNumber(),
	}
	if yearly := first.Cells["yearlyPrice"].Value.AsNumber(); !yearly.IsZero() {
		params.YearlyPrice = &yearly
	}
	if features := strings.TrimSpace(first.Cells["features"].Value.AsText()); features != "" {
		for _, feature := range strings.Split(features, ",") {
			if f := strings.TrimSpace(feature); f != "" {
				params.Features = append(params.Features, f)
			}
		}
	}
	return params
}
