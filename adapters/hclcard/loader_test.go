// Package hclcard - Loader tests
package hclcard

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"ratecard/core/calc"
	"ratecard/core/types"
	"ratecard/internal/errors"
)

const sampleCards = `
rate_card "starter" {
  model    = "tiered"
  currency = "USD"

  tier {
    min            = 1
    max            = 10
    price_per_unit = 5
  }

  tier {
    min            = 11
    price_per_unit = 3
  }
}

rate_card "team" {
  model          = "seat_based"
  price_per_seat = 10

  discount {
    min_seats        = 10
    discount_percent = 5
  }

  discount {
    min_seats        = 20
    discount_percent = 15
  }
}

rate_card "pro" {
  model         = "subscription"
  monthly_price = 29
  yearly_price  = 290
  setup_fee     = 50
  features      = ["sso", "audit-log"]
}
`

func TestLoadBytes(t *testing.T) {
	loader := NewLoader(types.CurrencyEUR)
	cards, err := loader.LoadBytes([]byte(sampleCards), "cards.hcl")
	if err != nil {
		t.Fatalf("LoadBytes failed: %v", err)
	}
	if len(cards) != 3 {
		t.Fatalf("Expected 3 cards, got %d", len(cards))
	}

	starter := cards[0]
	if starter.Model != types.ModelTiered || len(starter.Tiered.Tiers) != 2 {
		t.Fatalf("Starter card wrong: %+v", starter)
	}
	if starter.Currency != types.CurrencyUSD {
		t.Errorf("Explicit currency ignored: %s", starter.Currency)
	}
	if starter.Tiered.Tiers[1].Max != nil {
		t.Error("Second tier must be unbounded")
	}

	team := cards[1]
	if team.Currency != types.CurrencyEUR {
		t.Errorf("Expected default currency EUR, got %s", team.Currency)
	}
	if len(team.SeatBased.Discounts) != 2 {
		t.Fatalf("Expected 2 discounts, got %d", len(team.SeatBased.Discounts))
	}

	pro := cards[2]
	if pro.Subscription.YearlyPrice == nil || len(pro.Subscription.Features) != 2 {
		t.Fatalf("Subscription card wrong: %+v", pro.Subscription)
	}

	// Loaded cards run straight through the calculators (worked example)
	qty, _ := decimal.NewFromString("15")
	result, err := calc.Calculate(starter, qty, calc.Options{})
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	want, _ := decimal.NewFromString("65")
	if !result.TotalPrice.Equal(want) {
		t.Errorf("Expected 65.00, got %s", result.TotalPrice)
	}
}

func TestLoadRejectsInvalidCards(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{
			name: "unknown model",
			src:  `rate_card "x" { model = "hourly" }`,
		},
		{
			name: "overlapping tiers",
			src: `rate_card "x" {
  model = "tiered"
  tier { min = 1  max = 10 price_per_unit = 5 }
  tier { min = 5  price_per_unit = 3 }
}`,
		},
		{
			name: "missing required attribute",
			src:  `rate_card "x" { model = "cost_plus" base_cost = 40 }`,
		},
		{
			name: "negative price",
			src:  `rate_card "x" { model = "flat_rate" price = -10 }`,
		},
		{
			name: "duplicate names",
			src: `rate_card "x" { model = "flat_rate" price = 1 }
rate_card "x" { model = "flat_rate" price = 2 }`,
		},
		{
			name: "hcl syntax error",
			src:  `rate_card "x" {`,
		},
	}

	loader := NewLoader(types.CurrencyUSD)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := loader.LoadBytes([]byte(tt.src), "bad.hcl"); err == nil {
				t.Errorf("Expected error for %s", tt.name)
			}
		})
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.hcl"), []byte(`rate_card "a" { model = "flat_rate" price = 10 }`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b.hcl"), []byte(`rate_card "b" { model = "flat_rate" price = 20 }`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("not hcl"), 0644); err != nil {
		t.Fatal(err)
	}

	loader := NewLoader(types.CurrencyUSD)
	cards, err := loader.LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}
	if len(cards) != 2 {
		t.Errorf("Expected 2 cards, got %d", len(cards))
	}
}

func TestLoadFileMissing(t *testing.T) {
	loader := NewLoader(types.CurrencyUSD)
	if _, err := loader.LoadFile("/does/not/exist.hcl"); !errors.IsType(err, errors.TypeParsing) {
		t.Errorf("Expected PARSING_ERROR, got %v", err)
	}
}
