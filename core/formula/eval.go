// Package formula - Evaluation
package formula

import (
	"github.com/shopspring/decimal"

	"ratecard/core/types"
	"ratecard/internal/errors"
)

// Result is the outcome of evaluating a formula. On failure Value is 0
// and Err carries the display message.
type Result struct {
	Value decimal.Decimal `json:"value"`
	Err   string          `json:"error,omitempty"`
}

// Eval evaluates the formula against the current row set. A reference
// to an absent or non-numeric cell resolves to 0.
func (f *Formula) Eval(rows []types.Row) (decimal.Decimal, error) {
	return evalNode(f.root, rows)
}

// Evaluate parses and evaluates in one step, with the 0-fallback
// contract the worksheet engine stores on cells.
func Evaluate(src string, columns []string, rows []types.Row) Result {
	parsed, err := Parse(src, columns)
	if err != nil {
		return Result{Value: decimal.Zero, Err: errMessage(err)}
	}
	value, err := parsed.Eval(rows)
	if err != nil {
		return Result{Value: decimal.Zero, Err: errMessage(err)}
	}
	return Result{Value: value}
}

// errMessage unwraps the domain error message for cell display
func errMessage(err error) string {
	if e, ok := err.(*errors.Error); ok {
		return e.Message
	}
	return err.Error()
}

func evalNode(n node, rows []types.Row) (decimal.Decimal, error) {
	switch v := n.(type) {
	case numberNode:
		return v.value, nil
	case refNode:
		return resolveRef(v.columnKey, v.row, rows), nil
	case unaryNode:
		operand, err := evalNode(v.operand, rows)
		if err != nil {
			return decimal.Zero, err
		}
		return operand.Neg(), nil
	case binaryNode:
		left, err := evalNode(v.left, rows)
		if err != nil {
			return decimal.Zero, err
		}
		right, err := evalNode(v.right, rows)
		if err != nil {
			return decimal.Zero, err
		}
		switch v.op {
		case "+":
			return left.Add(right), nil
		case "-":
			return left.Sub(right), nil
		case "*":
			return left.Mul(right), nil
		case "/":
			if right.IsZero() {
				return decimal.Zero, errors.Formula("division by zero")
			}
			return left.Div(right), nil
		}
		return decimal.Zero, errors.Newf(errors.TypeFormula, "unknown operator %q", v.op)
	case callNode:
		return evalCall(v, rows)
	case rangeNode:
		return decimal.Zero, errors.Formula("a range is only valid inside a function")
	}
	return decimal.Zero, errors.Formula("malformed expression")
}

// resolveRef reads a cell by column key and 1-based row number.
// Out-of-range rows and text cells read as 0.
func resolveRef(columnKey string, rowNum int, rows []types.Row) decimal.Decimal {
	if rowNum < 1 || rowNum > len(rows) {
		return decimal.Zero
	}
	cell, ok := rows[rowNum-1].Cells[columnKey]
	if !ok {
		return decimal.Zero
	}
	return cell.Value.AsNumber()
}

// collectArg flattens a function argument into its numeric values
func collectArg(arg node, rows []types.Row) ([]decimal.Decimal, error) {
	if r, ok := arg.(rangeNode); ok {
		var values []decimal.Decimal
		for rowNum := r.startRow; rowNum <= r.endRow; rowNum++ {
			values = append(values, resolveRef(r.columnKey, rowNum, rows))
		}
		return values, nil
	}
	value, err := evalNode(arg, rows)
	if err != nil {
		return nil, err
	}
	return []decimal.Decimal{value}, nil
}

func evalCall(call callNode, rows []types.Row) (decimal.Decimal, error) {
	var values []decimal.Decimal
	for _, arg := range call.args {
		argValues, err := collectArg(arg, rows)
		if err != nil {
			return decimal.Zero, err
		}
		values = append(values, argValues...)
	}
	if len(values) == 0 {
		return decimal.Zero, errors.Newf(errors.TypeFormula, "%s requires at least one argument", call.fn)
	}

	switch call.fn {
	case "SUM":
		total := decimal.Zero
		for _, v := range values {
			total = total.Add(v)
		}
		return total, nil
	case "AVG":
		total := decimal.Zero
		for _, v := range values {
			total = total.Add(v)
		}
		return total.Div(decimal.NewFromInt(int64(len(values)))), nil
	case "MIN":
		min := values[0]
		for _, v := range values[1:] {
			if v.LessThan(min) {
				min = v
			}
		}
		return min, nil
	case "MAX":
		max := values[0]
		for _, v := range values[1:] {
			if v.GreaterThan(max) {
				max = v
			}
		}
		return max, nil
	case "COUNT":
		return decimal.NewFromInt(int64(len(values))), nil
	}
	return decimal.Zero, errors.Newf(errors.TypeFormula, "unknown function %q", call.fn)
}
