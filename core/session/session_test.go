// Package session - Calculator session tests
package session

import (
	"testing"

	"github.com/shopspring/decimal"

	"ratecard/core/types"
	"ratecard/internal/errors"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func testCards() []*types.RateCard {
	yearly := d("290")
	return []*types.RateCard{
		{
			ID: "flat", Name: "Flat", Model: types.ModelFlatRate, Currency: types.CurrencyUSD,
			FlatRate: &types.FlatRateParams{Price: d("10")},
		},
		{
			ID: "cost", Name: "CostPlus", Model: types.ModelCostPlus, Currency: types.CurrencyUSD,
			CostPlus: &types.CostPlusParams{BaseCost: d("40"), MarkupPercent: d("25")},
		},
		{
			ID: "sub", Name: "Sub", Model: types.ModelSubscription, Currency: types.CurrencyUSD,
			Subscription: &types.SubscriptionParams{MonthlyPrice: d("29"), YearlyPrice: &yearly},
		},
	}
}

func TestCalculateWithoutSelection(t *testing.T) {
	s := New(testCards())
	_, err := s.Calculate()
	if !errors.IsType(err, errors.TypeNotFound) {
		t.Fatalf("Expected NOT_FOUND, got %v", err)
	}
	if len(s.History()) != 0 {
		t.Error("Failed calculation must not enter history")
	}
}

func TestCalculateAndHistory(t *testing.T) {
	s := New(testCards())
	if err := s.SelectRateCard("flat"); err != nil {
		t.Fatalf("SelectRateCard failed: %v", err)
	}
	s.SetQuantity(d("3"))

	result, err := s.Calculate()
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if !result.TotalPrice.Equal(d("30")) {
		t.Errorf("Expected 30.00, got %s", result.TotalPrice)
	}

	s.SetQuantity(d("5"))
	if s.Result() != nil {
		t.Error("Changing quantity must clear the result")
	}
	if _, err := s.Calculate(); err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	history := s.History()
	if len(history) != 2 {
		t.Fatalf("Expected 2 history entries, got %d", len(history))
	}
	// Most recent first
	if !history[0].TotalPrice.Equal(d("50")) {
		t.Errorf("Expected newest entry 50.00, got %s", history[0].TotalPrice)
	}
}

func TestCalculatorErrorSurfacedWithoutHistory(t *testing.T) {
	s := New(testCards())
	if err := s.SelectRateCard("cost"); err != nil {
		t.Fatalf("SelectRateCard failed: %v", err)
	}
	s.SetQuantity(d("-1"))

	_, err := s.Calculate()
	if !errors.IsType(err, errors.TypeInput) {
		t.Fatalf("Expected INPUT_ERROR, got %v", err)
	}
	if s.Err() == nil {
		t.Error("Session must surface the error")
	}
	if len(s.History()) != 0 {
		t.Error("Failed calculation must not enter history")
	}
}

func TestCustomParameters(t *testing.T) {
	s := New(testCards())
	if err := s.SelectRateCard("cost"); err != nil {
		t.Fatalf("SelectRateCard failed: %v", err)
	}
	s.SetQuantity(d("1"))
	override := d("100")
	s.SetCustomParameters(CustomParameters{BaseCostOverride: &override})

	result, err := s.Calculate()
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if !result.TotalPrice.Equal(d("125")) {
		t.Errorf("Expected 125.00 with override, got %s", result.TotalPrice)
	}

	// Billing period steers subscription pricing
	if err := s.SelectRateCard("sub"); err != nil {
		t.Fatalf("SelectRateCard failed: %v", err)
	}
	s.SetCustomParameters(CustomParameters{BillingPeriod: types.PeriodYearly})
	result, err = s.Calculate()
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if !result.TotalPrice.Equal(d("290")) {
		t.Errorf("Expected 290.00 yearly, got %s", result.TotalPrice)
	}
}

func TestSelectionClearsState(t *testing.T) {
	s := New(testCards())
	if err := s.SelectRateCard("flat"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Calculate(); err != nil {
		t.Fatal(err)
	}
	if s.Result() == nil {
		t.Fatal("Expected a result")
	}

	if err := s.SelectRateCard("cost"); err != nil {
		t.Fatal(err)
	}
	if s.Result() != nil || s.Err() != nil {
		t.Error("Selecting a card must clear result and error")
	}

	if err := s.SelectRateCard("missing"); !errors.IsType(err, errors.TypeNotFound) {
		t.Errorf("Expected NOT_FOUND, got %v", err)
	}
}

func TestHistoryCap(t *testing.T) {
	s := New(testCards(), WithHistoryLimit(5))
	if err := s.SelectRateCard("flat"); err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= 8; i++ {
		s.SetQuantity(decimal.NewFromInt(int64(i)))
		if _, err := s.Calculate(); err != nil {
			t.Fatal(err)
		}
	}
	if len(s.History()) != 5 {
		t.Fatalf("Expected history capped at 5, got %d", len(s.History()))
	}
	if !s.History()[0].TotalPrice.Equal(d("80")) {
		t.Errorf("Expected newest 80.00, got %s", s.History()[0].TotalPrice)
	}
}
