// Package schema - Column schema registry
// Maps each pricing model to its fixed worksheet column list. Validation
// and computed-column behavior are closed rule sets interpreted by the
// engine, so a schema stays serializable: no function values in data.
package schema

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ratecard/core/types"
)

// ColumnType represents how a column's cells are typed and rendered
type ColumnType string

const (
	TypeText       ColumnType = "text"
	TypeNumber     ColumnType = "number"
	TypePercentage ColumnType = "percentage"
	TypeCurrency   ColumnType = "currency"
	TypeReadonly   ColumnType = "readonly"
)

// ValidatorKind identifies a per-cell validation rule
type ValidatorKind string

const (
	// RuleNonNegative rejects negative numeric values
	RuleNonNegative ValidatorKind = "non_negative"

	// RulePercentRange rejects values outside [0, 100]
	RulePercentRange ValidatorKind = "percent_range"

	// RuleTierRange checks a tier's max against its min and against the
	// neighboring rows' ranges (cross-row non-overlap)
	RuleTierRange ValidatorKind = "tier_range"
)

// ComputeKind identifies a built-in formula for a readonly column
type ComputeKind string

const (
	ComputeNone ComputeKind = ""

	// ComputeTierTotal is (max - min + 1) * pricePerUnit for bounded
	// tiers; an unbounded tier has no finite total and computes 0
	ComputeTierTotal ComputeKind = "tier_total"

	// ComputeSeatSubtotal is seats * pricePerSeat less the discount
	ComputeSeatSubtotal ComputeKind = "seat_subtotal"

	// ComputeCostPlusPrice is baseCost * (1 + markup/100)
	ComputeCostPlusPrice ComputeKind = "cost_plus_price"
)

// ColumnDefinition describes one worksheet column
type ColumnDefinition struct {
	Key        string          `json:"key"`
	Label      string          `json:"label"`
	Type       ColumnType      `json:"type"`
	Required   bool            `json:"required"`
	Validators []ValidatorKind `json:"validators,omitempty"`
	Compute    ComputeKind     `json:"compute,omitempty"`

	// Width is a presentation hint only
	Width int `json:"width,omitempty"`
}

// IsComputed returns true for readonly columns with a built-in formula
func (c ColumnDefinition) IsComputed() bool {
	return c.Compute != ComputeNone
}

// IsEditable returns true for columns a user can type into
func (c ColumnDefinition) IsEditable() bool {
	return c.Type != TypeReadonly
}

// IsNumeric returns true for columns whose literal input is coerced to a number
func (c ColumnDefinition) IsNumeric() bool {
	switch c.Type {
	case TypeNumber, TypePercentage, TypeCurrency:
		return true
	}
	return false
}

// Columns returns the fixed column list for a pricing model.
// An unknown model yields nil.
func Columns(model types.PricingModel) []ColumnDefinition {
	switch model {
	case types.ModelTiered:
		return []ColumnDefinition{
			{Key: "tierName", Label: "Tier", Type: TypeText, Required: true, Width: 140},
			{Key: "minQty", Label: "Min Qty", Type: TypeNumber, Required: true, Validators: []ValidatorKind{RuleNonNegative}, Width: 100},
			{Key: "maxQty", Label: "Max Qty", Type: TypeNumber, Validators: []ValidatorKind{RuleNonNegative, RuleTierRange}, Width: 100},
			{Key: "pricePerUnit", Label: "Price / Unit", Type: TypeCurrency, Required: true, Validators: []ValidatorKind{RuleNonNegative}, Width: 110},
			{Key: "total", Label: "Total", Type: TypeReadonly, Compute: ComputeTierTotal, Width: 110},
		}
	case types.ModelSeatBased:
		return []ColumnDefinition{
			{Key: "seats", Label: "Seats", Type: TypeNumber, Required: true, Validators: []ValidatorKind{RuleNonNegative}, Width: 100},
			{Key: "pricePerSeat", Label: "Price / Seat", Type: TypeCurrency, Required: true, Validators: []ValidatorKind{RuleNonNegative}, Width: 110},
			{Key: "discountPercent", Label: "Discount %", Type: TypePercentage, Validators: []ValidatorKind{RulePercentRange}, Width: 100},
			{Key: "subtotal", Label: "Subtotal", Type: TypeReadonly, Compute: ComputeSeatSubtotal, Width: 110},
		}
	case types.ModelSubscription:
		return []ColumnDefinition{
			{Key: "planName", Label: "Plan", Type: TypeText, Required: true, Width: 140},
			{Key: "monthlyPrice", Label: "Monthly", Type: TypeCurrency, Required: true, Validators: []ValidatorKind{RuleNonNegative}, Width: 100},
			{Key: "yearlyPrice", Label: "Annual", Type: TypeCurrency, Validators: []ValidatorKind{RuleNonNegative}, Width: 100},
			{Key: "discountPercent", Label: "Discount %", Type: TypePercentage, Validators: []ValidatorKind{RulePercentRange}, Width: 100},
			{Key: "features", Label: "Features", Type: TypeText, Width: 200},
		}
	case types.ModelCostPlus:
		return []ColumnDefinition{
			{Key: "item", Label: "Item", Type: TypeText, Required: true, Width: 160},
			{Key: "baseCost", Label: "Base Cost", Type: TypeCurrency, Required: true, Validators: []ValidatorKind{RuleNonNegative}, Width: 110},
			{Key: "markupPercent", Label: "Markup %", Type: TypePercentage, Required: true, Validators: []ValidatorKind{RulePercentRange}, Width: 100},
			{Key: "finalPrice", Label: "Final Price", Type: TypeReadonly, Compute: ComputeCostPlusPrice, Width: 110},
		}
	case types.ModelFlatRate:
		return []ColumnDefinition{
			{Key: "service", Label: "Service", Type: TypeText, Required: true, Width: 160},
			{Key: "oneTimePrice", Label: "One-Time", Type: TypeCurrency, Validators: []ValidatorKind{RuleNonNegative}, Width: 100},
			{Key: "recurringPrice", Label: "Recurring", Type: TypeCurrency, Validators: []ValidatorKind{RuleNonNegative}, Width: 100},
			{Key: "billingPeriod", Label: "Period", Type: TypeText, Width: 100},
		}
	}
	return nil
}

// EditableColumns returns the ordered editable columns for a model.
// Formula reference letters (A, B, ...) map over this order.
func EditableColumns(model types.PricingModel) []ColumnDefinition {
	var out []ColumnDefinition
	for _, col := range Columns(model) {
		if col.IsEditable() {
			out = append(out, col)
		}
	}
	return out
}

// EditableKeys returns the ordered editable column keys for a model
func EditableKeys(model types.PricingModel) []string {
	cols := EditableColumns(model)
	keys := make([]string, len(cols))
	for i, col := range cols {
		keys[i] = col.Key
	}
	return keys
}

// NewEmptyRow seeds a fresh row: 0 for numeric and computed columns,
// empty text otherwise, with a new unique row id
func NewEmptyRow(columns []ColumnDefinition) types.Row {
	cells := make(map[string]types.Cell, len(columns))
	for _, col := range columns {
		if col.IsNumeric() || col.Type == TypeReadonly {
			cells[col.Key] = types.Cell{Value: types.NumberValue(decimal.Zero)}
		} else {
			cells[col.Key] = types.Cell{Value: types.TextValue("")}
		}
	}
	return types.Row{ID: uuid.NewString(), Cells: cells}
}
