// Package types - Calculation result types
package types

import "github.com/shopspring/decimal"

// LineItem is a single billable line in a calculation breakdown
type LineItem struct {
	// Description is a human-readable label for the line
	Description string `json:"description"`

	// Quantity is the number of units the line covers
	Quantity decimal.Decimal `json:"quantity"`

	// UnitPrice is the price per unit
	UnitPrice decimal.Decimal `json:"unit_price"`

	// Subtotal is Quantity * UnitPrice, unrounded
	Subtotal decimal.Decimal `json:"subtotal"`
}

// ResultMetadata carries model-specific context about a calculation
type ResultMetadata struct {
	// TiersUsed is how many tiers contributed (tiered model)
	TiersUsed int `json:"tiers_used,omitempty"`

	// EffectiveUnitPrice is the average price per unit across the breakdown
	EffectiveUnitPrice *decimal.Decimal `json:"effective_unit_price,omitempty"`

	// EffectiveSeats is the billed seat count after the minimum floor (seat-based)
	EffectiveSeats *decimal.Decimal `json:"effective_seats,omitempty"`

	// AppliedDiscountPercent is the volume discount that was applied (seat-based)
	AppliedDiscountPercent *decimal.Decimal `json:"applied_discount_percent,omitempty"`

	// BillingPeriod is the period the unit price was taken from (subscription, flat-rate)
	BillingPeriod BillingPeriod `json:"billing_period,omitempty"`
}

// CalculationResult is the output of a pricing calculator.
// TotalPrice is rounded half-up to 2 decimal places; breakdown
// subtotals are left unrounded so the total is reproducible.
type CalculationResult struct {
	TotalPrice   decimal.Decimal `json:"total_price"`
	Breakdown    []LineItem      `json:"breakdown"`
	AppliedModel PricingModel    `json:"applied_model"`
	Currency     Currency        `json:"currency,omitempty"`
	Metadata     ResultMetadata  `json:"metadata,omitempty"`
}

// RoundMoney rounds an amount to 2 decimal places, half-up on the cents boundary
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
