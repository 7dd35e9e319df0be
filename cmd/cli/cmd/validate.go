package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ratecard/adapters/hclcard"
	"ratecard/internal/config"
)

// validateCmd checks rate card files without calculating anything
var validateCmd = &cobra.Command{
	Use:   "validate <path>",
	Short: "Validate rate card files",
	Long: `Validate the rate card definitions under a directory.

Every .hcl file is parsed and each rate card is checked against the
structural rules of its pricing model. The command exits non-zero on
the first invalid card.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	loader := hclcard.NewLoader(cfg.Pricing.DefaultCurrency)
	cards, err := loader.LoadDir(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "OK: %d rate card(s) valid\n", len(cards))
	for _, card := range cards {
		fmt.Fprintf(os.Stdout, "  %s (%s, %s)\n", card.Name, card.Model, card.Currency)
	}
	return nil
}
