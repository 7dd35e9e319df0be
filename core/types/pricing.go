// Package types - Shared rate card and pricing types
package types

import "github.com/shopspring/decimal"

// Currency represents a currency code
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
)

// String returns the string representation
func (c Currency) String() string {
	return string(c)
}

// PricingModel identifies which parameter shape and column schema apply
type PricingModel string

const (
	ModelTiered       PricingModel = "tiered"
	ModelSeatBased    PricingModel = "seat_based"
	ModelFlatRate     PricingModel = "flat_rate"
	ModelCostPlus     PricingModel = "cost_plus"
	ModelSubscription PricingModel = "subscription"
)

// IsValid checks if the model is one of the defined constants
func (m PricingModel) IsValid() bool {
	switch m {
	case ModelTiered, ModelSeatBased, ModelFlatRate, ModelCostPlus, ModelSubscription:
		return true
	}
	return false
}

// String returns the string representation
func (m PricingModel) String() string {
	return string(m)
}

// AllModels lists every supported pricing model
func AllModels() []PricingModel {
	return []PricingModel{ModelTiered, ModelSeatBased, ModelFlatRate, ModelCostPlus, ModelSubscription}
}

// BillingPeriod identifies how often a price recurs
type BillingPeriod string

const (
	PeriodOneTime BillingPeriod = "one_time"
	PeriodMonthly BillingPeriod = "monthly"
	PeriodYearly  BillingPeriod = "yearly"
)

// IsValid checks if the period is one of the defined constants
func (p BillingPeriod) IsValid() bool {
	switch p {
	case PeriodOneTime, PeriodMonthly, PeriodYearly:
		return true
	}
	return false
}

// Tier is a quantity sub-range with its own per-unit price.
// Max == nil means the tier is unbounded above.
type Tier struct {
	Min          decimal.Decimal  `json:"min"`
	Max          *decimal.Decimal `json:"max,omitempty"`
	PricePerUnit decimal.Decimal  `json:"price_per_unit"`
}

// Span returns the number of units the tier covers and whether it is bounded.
// Bounds are inclusive, so a 1..10 tier spans 10 units.
func (t Tier) Span() (decimal.Decimal, bool) {
	if t.Max == nil {
		return decimal.Zero, false
	}
	return t.Max.Sub(t.Min).Add(decimal.NewFromInt(1)), true
}

// TieredParams are the parameters for the tiered pricing model
type TieredParams struct {
	Tiers []Tier `json:"tiers"`
}

// VolumeDiscount grants a percentage discount once a seat threshold is met
type VolumeDiscount struct {
	MinSeats        decimal.Decimal `json:"min_seats"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

// SeatBasedParams are the parameters for the seat-based pricing model
type SeatBasedParams struct {
	PricePerSeat decimal.Decimal  `json:"price_per_seat"`
	MinimumSeats *decimal.Decimal `json:"minimum_seats,omitempty"`
	Discounts    []VolumeDiscount `json:"discounts,omitempty"`
}

// FlatRateParams are the parameters for the flat-rate pricing model
type FlatRateParams struct {
	Price         decimal.Decimal `json:"price"`
	BillingPeriod BillingPeriod   `json:"billing_period,omitempty"`
}

// CostPlusParams are the parameters for the cost-plus pricing model
type CostPlusParams struct {
	BaseCost      decimal.Decimal `json:"base_cost"`
	MarkupPercent decimal.Decimal `json:"markup_percent"`
}

// SubscriptionParams are the parameters for the subscription pricing model
type SubscriptionParams struct {
	MonthlyPrice decimal.Decimal  `json:"monthly_price"`
	YearlyPrice  *decimal.Decimal `json:"yearly_price,omitempty"`
	SetupFee     *decimal.Decimal `json:"setup_fee,omitempty"`
	Features     []string         `json:"features,omitempty"`
}

// RateCard is a named, persisted pricing definition: one pricing model
// plus its parameters. Exactly one parameter field, the one matching
// Model, is non-nil.
type RateCard struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Model    PricingModel `json:"model"`
	Currency Currency     `json:"currency"`

	Tiered       *TieredParams       `json:"tiered,omitempty"`
	SeatBased    *SeatBasedParams    `json:"seat_based,omitempty"`
	FlatRate     *FlatRateParams     `json:"flat_rate,omitempty"`
	CostPlus     *CostPlusParams     `json:"cost_plus,omitempty"`
	Subscription *SubscriptionParams `json:"subscription,omitempty"`
}
