// Package calc - Structural parameter validation
// ValidateParams is the contract the import/export collaborator must
// satisfy before constructing a rate card from raw data.
package calc

import (
	"encoding/json"
	"sort"

	"github.com/shopspring/decimal"

	"ratecard/core/types"
	"ratecard/internal/errors"
)

// ValidateParams confirms that raw, untyped pricing data has the required
// fields for the given model, that numeric fields are numeric and within
// range, and that tiers do not overlap. Returns false on any violation.
func ValidateParams(model types.PricingModel, raw map[string]interface{}) bool {
	switch model {
	case types.ModelTiered:
		return validateRawTiered(raw)
	case types.ModelSeatBased:
		return validateRawSeatBased(raw)
	case types.ModelFlatRate:
		return hasNonNegative(raw, "price")
	case types.ModelCostPlus:
		return hasNonNegative(raw, "base_cost") && hasNonNegative(raw, "markup_percent")
	case types.ModelSubscription:
		if !hasNonNegative(raw, "monthly_price") {
			return false
		}
		for _, key := range []string{"yearly_price", "setup_fee"} {
			if _, present := raw[key]; present && !hasNonNegative(raw, key) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func validateRawTiered(raw map[string]interface{}) bool {
	rawTiers, ok := raw["tiers"].([]interface{})
	if !ok || len(rawTiers) == 0 {
		return false
	}

	type bound struct {
		min decimal.Decimal
		max *decimal.Decimal
	}
	bounds := make([]bound, 0, len(rawTiers))

	for _, entry := range rawTiers {
		tier, ok := entry.(map[string]interface{})
		if !ok {
			return false
		}
		min, ok := numField(tier, "min")
		if !ok || min.IsNegative() {
			return false
		}
		if !hasNonNegative(tier, "price_per_unit") {
			return false
		}
		b := bound{min: min}
		if rawMax, present := tier["max"]; present && rawMax != nil {
			max, ok := numField(tier, "max")
			if !ok || max.LessThan(min) {
				return false
			}
			b.max = &max
		}
		bounds = append(bounds, b)
	}

	sort.Slice(bounds, func(i, j int) bool { return bounds[i].min.LessThan(bounds[j].min) })
	for i := 1; i < len(bounds); i++ {
		prev := bounds[i-1]
		if prev.max == nil || bounds[i].min.LessThanOrEqual(*prev.max) {
			return false
		}
	}
	return true
}

func validateRawSeatBased(raw map[string]interface{}) bool {
	if !hasNonNegative(raw, "price_per_seat") {
		return false
	}
	if _, present := raw["minimum_seats"]; present && !hasNonNegative(raw, "minimum_seats") {
		return false
	}
	rawDiscounts, present := raw["discounts"]
	if !present {
		return true
	}
	discounts, ok := rawDiscounts.([]interface{})
	if !ok {
		return false
	}
	for _, entry := range discounts {
		discount, ok := entry.(map[string]interface{})
		if !ok {
			return false
		}
		if !hasNonNegative(discount, "min_seats") {
			return false
		}
		percent, ok := numField(discount, "discount_percent")
		if !ok || percent.IsNegative() || percent.GreaterThan(decimal.NewFromInt(100)) {
			return false
		}
	}
	return true
}

// numField extracts a numeric field from raw JSON-shaped data
func numField(raw map[string]interface{}, key string) (decimal.Decimal, bool) {
	value, present := raw[key]
	if !present {
		return decimal.Zero, false
	}
	switch v := value.(type) {
	case float64:
		return decimal.NewFromFloat(v), true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		return d, err == nil
	case decimal.Decimal:
		return v, true
	default:
		return decimal.Zero, false
	}
}

func hasNonNegative(raw map[string]interface{}, key string) bool {
	value, ok := numField(raw, key)
	return ok && !value.IsNegative()
}

// CheckCard validates a typed rate card before it is persisted or
// calculated against. It runs the same structural rules as ValidateParams
// but reports what failed.
func CheckCard(card *types.RateCard) error {
	if card == nil {
		return errors.Input("rate card is required")
	}
	if !card.Model.IsValid() {
		return errors.Newf(errors.TypeInput, "unsupported pricing model: %s", card.Model)
	}

	switch card.Model {
	case types.ModelTiered:
		if card.Tiered == nil || len(card.Tiered.Tiers) == 0 {
			return errors.Inputf("rate card %q needs at least one tier", card.Name)
		}
		tiers := make([]types.Tier, len(card.Tiered.Tiers))
		copy(tiers, card.Tiered.Tiers)
		sort.Slice(tiers, func(i, j int) bool { return tiers[i].Min.LessThan(tiers[j].Min) })
		for i, tier := range tiers {
			if tier.Min.IsNegative() || tier.PricePerUnit.IsNegative() {
				return errors.Inputf("tier %d has a negative value", i+1)
			}
			if tier.Max != nil && tier.Max.LessThan(tier.Min) {
				return errors.Inputf("tier %d max is below its min", i+1)
			}
		}
		return checkTierOverlap(tiers)
	case types.ModelSeatBased:
		if card.SeatBased == nil {
			return errors.Inputf("rate card %q has no seat-based parameters", card.Name)
		}
		p := card.SeatBased
		if p.PricePerSeat.IsNegative() {
			return errors.Input("price per seat must not be negative")
		}
		if p.MinimumSeats != nil && p.MinimumSeats.IsNegative() {
			return errors.Input("minimum seats must not be negative")
		}
		for _, d := range p.Discounts {
			if d.MinSeats.IsNegative() {
				return errors.Input("discount min seats must not be negative")
			}
			if err := requirePercent("discount percent", d.DiscountPercent); err != nil {
				return err
			}
		}
		return nil
	case types.ModelFlatRate:
		if card.FlatRate == nil {
			return errors.Inputf("rate card %q has no flat-rate parameters", card.Name)
		}
		if card.FlatRate.BillingPeriod != "" && !card.FlatRate.BillingPeriod.IsValid() {
			return errors.Inputf("unknown billing period: %s", card.FlatRate.BillingPeriod)
		}
		return requireNonNegative("price", card.FlatRate.Price)
	case types.ModelCostPlus:
		if card.CostPlus == nil {
			return errors.Inputf("rate card %q has no cost-plus parameters", card.Name)
		}
		if err := requireNonNegative("base cost", card.CostPlus.BaseCost); err != nil {
			return err
		}
		return requireNonNegative("markup percent", card.CostPlus.MarkupPercent)
	case types.ModelSubscription:
		if card.Subscription == nil {
			return errors.Inputf("rate card %q has no subscription parameters", card.Name)
		}
		p := card.Subscription
		if err := requireNonNegative("monthly price", p.MonthlyPrice); err != nil {
			return err
		}
		if p.YearlyPrice != nil && p.YearlyPrice.IsNegative() {
			return errors.Input("yearly price must not be negative")
		}
		if p.SetupFee != nil && p.SetupFee.IsNegative() {
			return errors.Input("setup fee must not be negative")
		}
		return nil
	}
	return nil
}
