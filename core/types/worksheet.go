// Package types - Worksheet cell and row types
package types

import (
	"github.com/shopspring/decimal"
)

// ValueKind represents the type of a cell value
type ValueKind int

const (
	KindText ValueKind = iota
	KindNumber
)

// CellValue is a typed worksheet value: text or number
type CellValue struct {
	kind   ValueKind
	text   string
	number decimal.Decimal
}

// TextValue creates a text value
func TextValue(s string) CellValue {
	return CellValue{kind: KindText, text: s}
}

// NumberValue creates a numeric value
func NumberValue(d decimal.Decimal) CellValue {
	return CellValue{kind: KindNumber, number: d}
}

// Kind returns the value kind
func (v CellValue) Kind() ValueKind {
	return v.kind
}

// IsNumber returns true for numeric values
func (v CellValue) IsNumber() bool {
	return v.kind == KindNumber
}

// AsNumber returns the numeric value, or zero for text values.
// Formula references resolve through this, so a text cell reads as 0.
func (v CellValue) AsNumber() decimal.Decimal {
	if v.kind != KindNumber {
		return decimal.Zero
	}
	return v.number
}

// AsText returns the text value, or the number rendered as text
func (v CellValue) AsText() string {
	if v.kind == KindNumber {
		return v.number.String()
	}
	return v.text
}

// String returns the display representation
func (v CellValue) String() string {
	return v.AsText()
}

// Equal compares two cell values
func (v CellValue) Equal(other CellValue) bool {
	if v.kind != other.kind {
		return false
	}
	if v.kind == KindNumber {
		return v.number.Equal(other.number)
	}
	return v.text == other.text
}

// Cell is a single worksheet cell. When Formula is set, Value holds the
// last successfully evaluated result (or 0 with Err set on failure);
// both are retained so the formula text survives a refresh.
type Cell struct {
	Value   CellValue `json:"value"`
	Formula string    `json:"formula,omitempty"`
	Err     string    `json:"error,omitempty"`
}

// Row is one worksheet row. ID is opaque and stable across reorders.
type Row struct {
	ID    string          `json:"id"`
	Cells map[string]Cell `json:"cells"`
}

// Clone deep-copies the row
func (r Row) Clone() Row {
	cells := make(map[string]Cell, len(r.Cells))
	for key, cell := range r.Cells {
		cells[key] = cell
	}
	return Row{ID: r.ID, Cells: cells}
}

// CloneRows deep-copies a row slice, used for history snapshots
func CloneRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, row := range rows {
		out[i] = row.Clone()
	}
	return out
}
