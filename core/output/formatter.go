// Package output provides output formatting interfaces.
// This package produces human and machine-readable renderings of
// calculation results; it never performs pricing logic.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"ratecard/core/types"
	"ratecard/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable table
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render writes the calculation result
	Render(w io.Writer, result *types.CalculationResult) error
}

// NewFormatter returns the formatter for the requested format
func NewFormatter(format Format) (Formatter, error) {
	switch format {
	case FormatCLI, "":
		return &cliFormatter{}, nil
	case FormatJSON:
		return &jsonFormatter{}, nil
	}
	return nil, errors.Newf(errors.TypeNotSupported, "unknown output format: %s", format)
}

type cliFormatter struct{}

func (f *cliFormatter) Format() Format {
	return FormatCLI
}

func (f *cliFormatter) Render(w io.Writer, result *types.CalculationResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "DESCRIPTION\tQTY\tUNIT PRICE\tSUBTOTAL\n")
	for _, line := range result.Breakdown {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			line.Description, line.Quantity, line.UnitPrice, line.Subtotal)
	}
	fmt.Fprintf(tw, "\t\t\t\n")
	fmt.Fprintf(tw, "TOTAL (%s)\t\t\t%s %s\n", result.AppliedModel, result.TotalPrice.StringFixed(2), result.Currency)

	return tw.Flush()
}

type jsonFormatter struct{}

func (f *jsonFormatter) Format() Format {
	return FormatJSON
}

func (f *jsonFormatter) Render(w io.Writer, result *types.CalculationResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}
