package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"ratecard/core/types"
	"ratecard/internal/errors"
)

func sampleResult() *types.CalculationResult {
	return &types.CalculationResult{
		TotalPrice: decimal.NewFromInt(65),
		Breakdown: []types.LineItem{
			{Description: "Tier 1 (1-10)", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(5), Subtotal: decimal.NewFromInt(50)},
			{Description: "Tier 2 (11+)", Quantity: decimal.NewFromInt(5), UnitPrice: decimal.NewFromInt(3), Subtotal: decimal.NewFromInt(15)},
		},
		AppliedModel: types.ModelTiered,
		Currency:     types.CurrencyUSD,
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format  Format
		want    Format
		wantErr bool
	}{
		{format: FormatCLI, want: FormatCLI},
		{format: "", want: FormatCLI},
		{format: FormatJSON, want: FormatJSON},
		{format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		f, err := NewFormatter(tt.format)
		if tt.wantErr {
			if !errors.IsType(err, errors.TypeNotSupported) {
				t.Errorf("NewFormatter(%q): expected NOT_SUPPORTED, got %v", tt.format, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("NewFormatter(%q) failed: %v", tt.format, err)
		}
		if f.Format() != tt.want {
			t.Errorf("NewFormatter(%q): expected %q, got %q", tt.format, tt.want, f.Format())
		}
	}
}

func TestCLIRender(t *testing.T) {
	f, err := NewFormatter(FormatCLI)
	if err != nil {
		t.Fatalf("NewFormatter failed: %v", err)
	}

	var buf bytes.Buffer
	if err := f.Render(&buf, sampleResult()); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Tier 1 (1-10)", "Tier 2 (11+)", "65.00 USD", "TOTAL (tiered)"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
}

func TestJSONRender(t *testing.T) {
	f, err := NewFormatter(FormatJSON)
	if err != nil {
		t.Fatalf("NewFormatter failed: %v", err)
	}

	var buf bytes.Buffer
	if err := f.Render(&buf, sampleResult()); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	var decoded types.CalculationResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if !decoded.TotalPrice.Equal(decimal.NewFromInt(65)) {
		t.Errorf("Expected total 65, got %s", decoded.TotalPrice)
	}
	if len(decoded.Breakdown) != 2 {
		t.Errorf("Expected 2 breakdown lines, got %d", len(decoded.Breakdown))
	}
}
