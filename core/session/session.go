// Package session - Calculator session
// A stateful façade for ad-hoc "pick a rate card, enter a quantity, see
// a price" flows, as opposed to building a full rate card worksheet.
// Inputs and the last result never silently disagree: changing any
// input clears the previous result and error.
package session

import (
	"github.com/shopspring/decimal"

	"ratecard/core/calc"
	"ratecard/core/types"
	"ratecard/internal/errors"
)

// DefaultHistoryLimit caps the session's calculation history
const DefaultHistoryLimit = 50

// CustomParameters are free-form overrides applied to a calculation
type CustomParameters struct {
	// BaseCostOverride replaces the cost-plus base cost
	BaseCostOverride *decimal.Decimal

	// BillingPeriod selects the subscription unit price
	BillingPeriod types.BillingPeriod
}

// Session orchestrates calculator selection and input for quick
// calculations, keeping a bounded most-recent-first history
type Session struct {
	cards    []*types.RateCard
	selected *types.RateCard
	quantity decimal.Decimal
	custom   CustomParameters

	lastResult *types.CalculationResult
	lastErr    error

	history      []*types.CalculationResult
	historyLimit int
}

// Option configures a new session
type Option func(*Session)

// WithHistoryLimit overrides the calculation history cap. Non-positive
// limits are ignored.
func WithHistoryLimit(limit int) Option {
	return func(s *Session) {
		if limit > 0 {
			s.historyLimit = limit
		}
	}
}

// New creates a session over the given active rate cards
func New(cards []*types.RateCard, opts ...Option) *Session {
	s := &Session{
		cards:        cards,
		quantity:     decimal.NewFromInt(1),
		historyLimit: DefaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cards returns the active rate cards
func (s *Session) Cards() []*types.RateCard {
	return s.cards
}

// Selected returns the currently selected rate card, or nil
func (s *Session) Selected() *types.RateCard {
	return s.selected
}

// SelectRateCard selects a card by id and clears the previous result
func (s *Session) SelectRateCard(cardID string) error {
	for _, card := range s.cards {
		if card.ID == cardID {
			s.selected = card
			s.clearResult()
			return nil
		}
	}
	return errors.NotFound("rate card", cardID)
}

// SetQuantity updates the quantity and clears the previous result
func (s *Session) SetQuantity(quantity decimal.Decimal) {
	s.quantity = quantity
	s.clearResult()
}

// SetCustomParameters updates the overrides and clears the previous result
func (s *Session) SetCustomParameters(custom CustomParameters) {
	s.custom = custom
	s.clearResult()
}

// Quantity returns the current quantity input
func (s *Session) Quantity() decimal.Decimal {
	return s.quantity
}

// Result returns the last calculation result, or nil
func (s *Session) Result() *types.CalculationResult {
	return s.lastResult
}

// Err returns the last calculation error, or nil
func (s *Session) Err() error {
	return s.lastErr
}

// History returns past results, most recent first
func (s *Session) History() []*types.CalculationResult {
	return s.history
}

// Calculate dispatches to the calculator matching the selected card's
// model. Calculator-level validation failures become the session error
// without touching history.
func (s *Session) Calculate() (*types.CalculationResult, error) {
	if s.selected == nil {
		s.lastResult = nil
		s.lastErr = errors.New(errors.TypeNotFound, "no rate card selected")
		return nil, s.lastErr
	}

	result, err := calc.Calculate(s.selected, s.quantity, calc.Options{
		BaseCostOverride: s.custom.BaseCostOverride,
		BillingPeriod:    s.custom.BillingPeriod,
	})
	if err != nil {
		s.lastResult = nil
		s.lastErr = err
		return nil, err
	}

	s.lastResult = result
	s.lastErr = nil
	s.pushHistory(result)
	return result, nil
}

// pushHistory prepends the result, dropping the oldest past the cap
func (s *Session) pushHistory(result *types.CalculationResult) {
	s.history = append([]*types.CalculationResult{result}, s.history...)
	if len(s.history) > s.historyLimit {
		s.history = s.history[:s.historyLimit]
	}
}

func (s *Session) clearResult() {
	s.lastResult = nil
	s.lastErr = nil
}
