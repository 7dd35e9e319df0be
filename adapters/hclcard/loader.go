// Package hclcard loads rate card definitions from HCL files.
// This is the import side of the persistence boundary: files are
// decoded into typed rate cards and must pass the structural validators
// before they are handed to the engine.
package hclcard

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ratecard/core/calc"
	"ratecard/core/types"
	"ratecard/internal/errors"
	"ratecard/internal/logging"
)

// Loader parses rate card files
type Loader struct {
	defaultCurrency types.Currency
}

// NewLoader creates a loader. Cards without a currency attribute get
// the default currency.
func NewLoader(defaultCurrency types.Currency) *Loader {
	if defaultCurrency == "" {
		defaultCurrency = types.CurrencyUSD
	}
	return &Loader{defaultCurrency: defaultCurrency}
}

type fileContent struct {
	Cards []cardBlock `hcl:"rate_card,block"`
}

type cardBlock struct {
	Name     string  `hcl:"name,label"`
	Model    string  `hcl:"model"`
	Currency *string `hcl:"currency"`

	Tiers []tierBlock `hcl:"tier,block"`

	PricePerSeat *float64        `hcl:"price_per_seat"`
	MinimumSeats *float64        `hcl:"minimum_seats"`
	Discounts    []discountBlock `hcl:"discount,block"`

	Price         *float64 `hcl:"price"`
	BillingPeriod *string  `hcl:"billing_period"`

	BaseCost      *float64 `hcl:"base_cost"`
	MarkupPercent *float64 `hcl:"markup_percent"`

	MonthlyPrice *float64  `hcl:"monthly_price"`
	YearlyPrice  *float64  `hcl:"yearly_price"`
	SetupFee     *float64  `hcl:"setup_fee"`
	Features     *[]string `hcl:"features"`
}

type tierBlock struct {
	Min          float64  `hcl:"min"`
	Max          *float64 `hcl:"max"`
	PricePerUnit float64  `hcl:"price_per_unit"`
}

type discountBlock struct {
	MinSeats        float64 `hcl:"min_seats"`
	DiscountPercent float64 `hcl:"discount_percent"`
}

// LoadFile parses one .hcl file into validated rate cards
func (l *Loader) LoadFile(path string) ([]*types.RateCard, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Parsing(fmt.Sprintf("failed to read %s", path), err)
	}
	return l.LoadBytes(src, path)
}

// LoadBytes parses rate card source. The filename is used in diagnostics.
func (l *Loader) LoadBytes(src []byte, filename string) ([]*types.RateCard, error) {
	// A fresh parser per call: hclparse caches files by name
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Parsing("failed to parse rate card file", diagError(diags))
	}

	var content fileContent
	if diags := gohcl.DecodeBody(file.Body, nil, &content); diags.HasErrors() {
		return nil, errors.Parsing("failed to decode rate card file", diagError(diags))
	}

	cards := make([]*types.RateCard, 0, len(content.Cards))
	seen := make(map[string]bool)
	for _, block := range content.Cards {
		if seen[block.Name] {
			return nil, errors.Newf(errors.TypeParsing, "duplicate rate card %q in %s", block.Name, filename)
		}
		seen[block.Name] = true

		card, err := l.buildCard(block)
		if err != nil {
			return nil, errors.Wrapf(errors.TypeParsing, err, "rate card %q", block.Name)
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// LoadDir loads every .hcl file under the directory
func (l *Loader) LoadDir(dir string) ([]*types.RateCard, error) {
	var cards []*types.RateCard
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".hcl") {
			return nil
		}
		fileCards, err := l.LoadFile(path)
		if err != nil {
			return err
		}
		cards = append(cards, fileCards...)
		return nil
	})
	if err != nil {
		if _, ok := err.(*errors.Error); ok {
			return nil, err
		}
		return nil, errors.Parsing(fmt.Sprintf("failed to walk %s", dir), err)
	}

	logging.Debug("loaded rate cards",
		zap.String("dir", dir),
		zap.Int("count", len(cards)))
	return cards, nil
}

func (l *Loader) buildCard(block cardBlock) (*types.RateCard, error) {
	model := types.PricingModel(block.Model)
	if !model.IsValid() {
		return nil, errors.Newf(errors.TypeInput, "unsupported pricing model: %s", block.Model)
	}

	card := &types.RateCard{
		ID:       block.Name,
		Name:     block.Name,
		Model:    model,
		Currency: l.defaultCurrency,
	}
	if block.Currency != nil {
		card.Currency = types.Currency(*block.Currency)
	}

	switch model {
	case types.ModelTiered:
		params := &types.TieredParams{}
		for _, tier := range block.Tiers {
			t := types.Tier{
				Min:          decimal.NewFromFloat(tier.Min),
				PricePerUnit: decimal.NewFromFloat(tier.PricePerUnit),
			}
			if tier.Max != nil {
				max := decimal.NewFromFloat(*tier.Max)
				t.Max = &max
			}
			params.Tiers = append(params.Tiers, t)
		}
		card.Tiered = params
	case types.ModelSeatBased:
		if block.PricePerSeat == nil {
			return nil, errors.Input("price_per_seat is required")
		}
		params := &types.SeatBasedParams{
			PricePerSeat: decimal.NewFromFloat(*block.PricePerSeat),
		}
		if block.MinimumSeats != nil {
			min := decimal.NewFromFloat(*block.MinimumSeats)
			params.MinimumSeats = &min
		}
		for _, discount := range block.Discounts {
			params.Discounts = append(params.Discounts, types.VolumeDiscount{
				MinSeats:        decimal.NewFromFloat(discount.MinSeats),
				DiscountPercent: decimal.NewFromFloat(discount.DiscountPercent),
			})
		}
		card.SeatBased = params
	case types.ModelFlatRate:
		if block.Price == nil {
			return nil, errors.Input("price is required")
		}
		params := &types.FlatRateParams{Price: decimal.NewFromFloat(*block.Price)}
		if block.BillingPeriod != nil {
			params.BillingPeriod = types.BillingPeriod(*block.BillingPeriod)
		}
		card.FlatRate = params
	case types.ModelCostPlus:
		if block.BaseCost == nil || block.MarkupPercent == nil {
			return nil, errors.Input("base_cost and markup_percent are required")
		}
		card.CostPlus = &types.CostPlusParams{
			BaseCost:      decimal.NewFromFloat(*block.BaseCost),
			MarkupPercent: decimal.NewFromFloat(*block.MarkupPercent),
		}
	case types.ModelSubscription:
		if block.MonthlyPrice == nil {
			return nil, errors.Input("monthly_price is required")
		}
		params := &types.SubscriptionParams{
			MonthlyPrice: decimal.NewFromFloat(*block.MonthlyPrice),
		}
		if block.YearlyPrice != nil {
			yearly := decimal.NewFromFloat(*block.YearlyPrice)
			params.YearlyPrice = &yearly
		}
		if block.SetupFee != nil {
			fee := decimal.NewFromFloat(*block.SetupFee)
			params.SetupFee = &fee
		}
		if block.Features != nil {
			params.Features = *block.Features
		}
		card.Subscription = params
	}

	if err := calc.CheckCard(card); err != nil {
		return nil, err
	}
	return card, nil
}

// diagError collapses HCL diagnostics into one error value
func diagError(diags hcl.Diagnostics) error {
	var parts []string
	for _, diag := range diags {
		if diag.Severity == hcl.DiagError {
			parts = append(parts, diag.Error())
		}
	}
	return fmt.Errorf("%s", strings.Join(parts, "; "))
}
