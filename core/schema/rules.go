// Package schema - Rule interpretation
// The engine interprets the closed validator/compute kinds declared on
// column definitions. A worksheet cell that cannot hold a null uses 0 in
// maxQty to mean "unbounded", mirroring tiered pricing inputs.
package schema

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"ratecard/core/types"
)

var hundred = decimal.NewFromInt(100)

// ValidateCell runs the column's required flag and validator rules
// against the row's cell. Returns an empty string when the cell is
// valid, otherwise a display message.
func ValidateCell(col ColumnDefinition, row types.Row, allRows []types.Row) string {
	cell := row.Cells[col.Key]

	if col.Required {
		if col.IsNumeric() {
			if !cell.Value.AsNumber().IsPositive() {
				return fmt.Sprintf("%s is required", col.Label)
			}
		} else if col.Type == TypeText {
			if strings.TrimSpace(cell.Value.AsText()) == "" {
				return fmt.Sprintf("%s is required", col.Label)
			}
		}
	}

	for _, rule := range col.Validators {
		if msg := applyRule(rule, col, row, allRows); msg != "" {
			return msg
		}
	}
	return ""
}

func applyRule(rule ValidatorKind, col ColumnDefinition, row types.Row, allRows []types.Row) string {
	value := row.Cells[col.Key].Value.AsNumber()

	switch rule {
	case RuleNonNegative:
		if value.IsNegative() {
			return fmt.Sprintf("%s must not be negative", col.Label)
		}
	case RulePercentRange:
		if value.IsNegative() || value.GreaterThan(hundred) {
			return fmt.Sprintf("%s must be between 0 and 100", col.Label)
		}
	case RuleTierRange:
		return checkTierRange(row, allRows)
	}
	return ""
}

// checkTierRange validates the row's tier bounds against its own min and
// against every other row's range. A max of 0 means unbounded.
func checkTierRange(row types.Row, allRows []types.Row) string {
	min := row.Cells["minQty"].Value.AsNumber()
	max := row.Cells["maxQty"].Value.AsNumber()

	if !max.IsZero() && max.LessThan(min) {
		return "Max Qty must be at least Min Qty"
	}

	for _, other := range allRows {
		if other.ID == row.ID {
			continue
		}
		otherMin := other.Cells["minQty"].Value.AsNumber()
		otherMax := other.Cells["maxQty"].Value.AsNumber()
		if rangesOverlap(min, max, otherMin, otherMax) {
			return "Tier range overlaps another tier"
		}
	}
	return ""
}

// rangesOverlap reports whether [min1,max1] and [min2,max2] intersect,
// with a zero max meaning unbounded above. Fresh rows seeded 0..0 are
// not flagged against each other.
func rangesOverlap(min1, max1, min2, max2 decimal.Decimal) bool {
	if min1.IsZero() && max1.IsZero() || min2.IsZero() && max2.IsZero() {
		return false
	}
	startsBeforeOtherEnds := max2.IsZero() || min1.LessThanOrEqual(max2)
	otherStartsBeforeEnds := max1.IsZero() || min2.LessThanOrEqual(max1)
	return startsBeforeOtherEnds && otherStartsBeforeEnds
}

// ComputeValue evaluates a readonly column's built-in formula for a row
func ComputeValue(kind ComputeKind, row types.Row) decimal.Decimal {
	switch kind {
	case ComputeTierTotal:
		min := row.Cells["minQty"].Value.AsNumber()
		max := row.Cells["maxQty"].Value.AsNumber()
		price := row.Cells["pricePerUnit"].Value.AsNumber()
		if max.IsZero() {
			// Unbounded tier has no finite total
			return decimal.Zero
		}
		span := max.Sub(min).Add(decimal.NewFromInt(1))
		if span.IsNegative() {
			return decimal.Zero
		}
		return span.Mul(price)
	case ComputeSeatSubtotal:
		seats := row.Cells["seats"].Value.AsNumber()
		price := row.Cells["pricePerSeat"].Value.AsNumber()
		discount := row.Cells["discountPercent"].Value.AsNumber()
		base := seats.Mul(price)
		return base.Sub(base.Mul(discount).Div(hundred))
	case ComputeCostPlusPrice:
		base := row.Cells["baseCost"].Value.AsNumber()
		markup := row.Cells["markupPercent"].Value.AsNumber()
		return base.Add(base.Mul(markup).Div(hundred))
	}
	return decimal.Zero
}
