package cmd

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"ratecard/adapters/hclcard"
	"ratecard/core/output"
	"ratecard/core/session"
	"ratecard/core/types"
	"ratecard/internal/config"
)

var (
	calcCards    string
	calcQuantity string
	calcBaseCost string
	calcPeriod   string
	calcFormat   string
)

// calcCmd calculates a price from a rate card
var calcCmd = &cobra.Command{
	Use:   "calc <card-name>",
	Short: "Calculate a price against a rate card",
	Long: `Calculate a price for a quantity against a named rate card.

Rate cards are loaded from the directory given by --cards (or the
configured cards path). The card name must match a rate_card block
label in one of the .hcl files.`,
	Args: cobra.ExactArgs(1),
	RunE: runCalc,
}

func init() {
	calcCmd.Flags().StringVar(&calcCards, "cards", "", "directory of rate card .hcl files")
	calcCmd.Flags().StringVarP(&calcQuantity, "quantity", "q", "1", "quantity of units or seats")
	calcCmd.Flags().StringVar(&calcBaseCost, "base-cost", "", "override the cost-plus base cost")
	calcCmd.Flags().StringVar(&calcPeriod, "period", "", "billing period for subscription cards (monthly, yearly)")
	calcCmd.Flags().StringVarP(&calcFormat, "format", "f", "cli", "output format (cli, json)")
}

func runCalc(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	cardsDir := calcCards
	if cardsDir == "" {
		cardsDir = cfg.Pricing.CardsPath
	}

	loader := hclcard.NewLoader(cfg.Pricing.DefaultCurrency)
	cards, err := loader.LoadDir(cardsDir)
	if err != nil {
		return err
	}

	quantity, err := decimal.NewFromString(calcQuantity)
	if err != nil {
		return fmt.Errorf("invalid quantity %q: %w", calcQuantity, err)
	}

	sess := session.New(cards, session.WithHistoryLimit(cfg.Pricing.SessionHistoryLimit))
	sess.SetQuantity(quantity)
	if err := sess.SelectRateCard(args[0]); err != nil {
		return err
	}

	var custom session.CustomParameters
	if calcBaseCost != "" {
		base, err := decimal.NewFromString(calcBaseCost)
		if err != nil {
			return fmt.Errorf("invalid base cost %q: %w", calcBaseCost, err)
		}
		custom.BaseCostOverride = &base
	}
	if calcPeriod != "" {
		custom.BillingPeriod = types.BillingPeriod(calcPeriod)
	}
	sess.SetCustomParameters(custom)

	result, err := sess.Calculate()
	if err != nil {
		return err
	}

	formatter, err := output.NewFormatter(output.Format(calcFormat))
	if err != nil {
		return err
	}
	return formatter.Render(os.Stdout, result)
}
