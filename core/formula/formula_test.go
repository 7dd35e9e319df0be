// Package formula - Formula engine tests
package formula

import (
	"testing"

	"github.com/shopspring/decimal"

	"ratecard/core/types"
	"ratecard/internal/errors"
)

// Columns mirror the tiered schema's editable order:
// A=tierName, B=minQty, C=maxQty, D=pricePerUnit
var testColumns = []string{"tierName", "minQty", "maxQty", "pricePerUnit"}

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func testRows(minQtys ...string) []types.Row {
	rows := make([]types.Row, len(minQtys))
	for i, m := range minQtys {
		rows[i] = types.Row{
			ID: string(rune('a' + i)),
			Cells: map[string]types.Cell{
				"tierName": {Value: types.TextValue("Tier")},
				"minQty":   {Value: types.NumberValue(d(m))},
			},
		}
	}
	return rows
}

func evalOK(t *testing.T, src string, rows []types.Row) decimal.Decimal {
	t.Helper()
	parsed, err := Parse(src, testColumns)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", src, err)
	}
	value, err := parsed.Eval(rows)
	if err != nil {
		t.Fatalf("Eval(%q) failed: %v", src, err)
	}
	return value
}

func TestSumOverRange(t *testing.T) {
	rows := testRows("10", "20", "30")
	if got := evalOK(t, "=SUM(B1:B3)", rows); !got.Equal(d("60")) {
		t.Errorf("Expected 60, got %s", got)
	}
}

func TestArithmeticPrecedence(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"=1+2*3", "7"},
		{"=(1+2)*3", "9"},
		{"=10-4/2", "8"},
		{"=-3+5", "2"},
		{"=2*-3", "-6"},
		{"=1.5*4", "6"},
	}
	for _, tt := range tests {
		if got := evalOK(t, tt.src, nil); !got.Equal(d(tt.want)) {
			t.Errorf("%s: expected %s, got %s", tt.src, tt.want, got)
		}
	}
}

func TestReferencesBindToColumnKeys(t *testing.T) {
	rows := testRows("10", "20")
	rows[0].Cells["pricePerUnit"] = types.Cell{Value: types.NumberValue(d("2.5"))}

	// D1 is the 4th editable column, pricePerUnit
	if got := evalOK(t, "=D1*B2", rows); !got.Equal(d("50")) {
		t.Errorf("Expected 50, got %s", got)
	}

	parsed, err := Parse("=D1", testColumns)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	ref, ok := parsed.root.(refNode)
	if !ok {
		t.Fatalf("Expected refNode root, got %T", parsed.root)
	}
	if ref.columnKey != "pricePerUnit" {
		t.Errorf("Expected key binding to pricePerUnit, got %q", ref.columnKey)
	}
}

func TestAbsentAndTextReferencesResolveToZero(t *testing.T) {
	rows := testRows("10")

	// A1 is a text cell, B9 is out of range, C1 is absent
	if got := evalOK(t, "=A1+B9+C1+B1", rows); !got.Equal(d("10")) {
		t.Errorf("Expected 10, got %s", got)
	}
}

func TestAggregateFunctions(t *testing.T) {
	rows := testRows("10", "20", "30", "40")
	tests := []struct {
		src  string
		want string
	}{
		{"=AVG(B1:B4)", "25"},
		{"=MIN(B1:B4)", "10"},
		{"=MAX(B1:B4)", "40"},
		{"=COUNT(B1:B4)", "4"},
		{"=SUM(B1,B3,5)", "45"},
		{"=SUM(B1:B2,B4)", "70"},
		{"=SUM(B1*2,1)", "21"},
	}
	for _, tt := range tests {
		if got := evalOK(t, tt.src, rows); !got.Equal(d(tt.want)) {
			t.Errorf("%s: expected %s, got %s", tt.src, tt.want, got)
		}
	}
}

func TestDivisionByZero(t *testing.T) {
	parsed, err := Parse("=1/0", testColumns)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if _, err := parsed.Eval(nil); !errors.IsType(err, errors.TypeFormula) {
		t.Errorf("Expected FORMULA_ERROR, got %v", err)
	}

	// A reference to an empty cell is 0 too
	parsed, err = Parse("=B1/C1", testColumns)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if _, err := parsed.Eval(testRows("5")); err == nil {
		t.Error("Expected division-by-zero error")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"missing equals", "SUM(B1:B3)"},
		{"empty body", "=  "},
		{"unbalanced open", "=(1+2"},
		{"unbalanced close", "=1+2)"},
		{"unknown function", "=TOTAL(B1:B3)"},
		{"line comment", "=1+2 // note"},
		{"block comment", "=1/*2*/"},
		{"cross column range", "=SUM(A1:B3)"},
		{"row zero", "=B0"},
		{"trailing operator", "=1+"},
		{"double dot number", "=1.2.3"},
		{"empty call", "=SUM()"},
		{"bare range", "=B1:B3"},
		{"unknown column", "=Z1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.src, testColumns); err == nil {
				t.Errorf("Parse(%q) succeeded, expected error", tt.src)
			}
		})
	}
}

func TestValidatePrecheck(t *testing.T) {
	valid := []string{"=SUM(B1:B3)", "=1+2*3", "=Z9", "=MAX(A1,B2,3)"}
	for _, src := range valid {
		if err := Validate(src); err != nil {
			t.Errorf("Validate(%q) failed: %v", src, err)
		}
	}

	invalid := []string{"1+2", "=((1)", "=FOO(1)", "=1 // x", "="}
	for _, src := range invalid {
		if err := Validate(src); err == nil {
			t.Errorf("Validate(%q) succeeded, expected error", src)
		}
	}
}

func TestEvaluateFallsBackToZero(t *testing.T) {
	result := Evaluate("=1/0", testColumns, nil)
	if result.Err == "" {
		t.Fatal("Expected an error message")
	}
	if !result.Value.IsZero() {
		t.Errorf("Expected 0 fallback, got %s", result.Value)
	}

	result = Evaluate("=2+3", testColumns, nil)
	if result.Err != "" {
		t.Fatalf("Unexpected error: %s", result.Err)
	}
	if !result.Value.Equal(d("5")) {
		t.Errorf("Expected 5, got %s", result.Value)
	}
}
