// Package api - API types
// These types define the contract for the /calculate and /validate
// endpoints. The API is stateless, idempotent, and deterministic.
package api

import (
	"github.com/shopspring/decimal"

	"ratecard/core/types"
)

// CalculateRequest is the input to POST /calculate
type CalculateRequest struct {
	// Card is the rate card to price against
	Card types.RateCard `json:"card"`

	// Quantity is the unit or seat count
	Quantity decimal.Decimal `json:"quantity"`

	// BaseCostOverride optionally replaces the cost-plus base cost
	BaseCostOverride *decimal.Decimal `json:"base_cost_override,omitempty"`

	// BillingPeriod optionally selects the subscription unit price
	BillingPeriod types.BillingPeriod `json:"billing_period,omitempty"`
}

// CalculateResponse is the output of POST /calculate
type CalculateResponse struct {
	Result *types.CalculationResult `json:"result"`

	// DurationMS is how long the calculation took
	DurationMS int64 `json:"duration_ms"`
}

// ValidateRequest is the input to POST /validate
type ValidateRequest struct {
	// Model is the pricing model tag
	Model types.PricingModel `json:"model"`

	// Parameters is the raw, untyped parameter data
	Parameters map[string]interface{} `json:"parameters"`
}

// ValidateResponse is the output of POST /validate
type ValidateResponse struct {
	Valid bool `json:"valid"`
}

// ErrorResponse is the error envelope for all endpoints
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse is the output of GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
