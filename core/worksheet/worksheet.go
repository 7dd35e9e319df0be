// Package worksheet - Interactive calculation worksheet
// A small spreadsheet engine over the column schema of one pricing
// model: typed cells, per-cell formulas, validation, a grand total, and
// linear undo/redo over full-state snapshots. All computation is
// synchronous and in-memory; persistence belongs to the caller.
package worksheet

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ratecard/core/formula"
	"ratecard/core/schema"
	"ratecard/core/types"
	"ratecard/internal/errors"
)

// DefaultHistoryLimit bounds the undo stack. Snapshots are full row
// copies, so an unbounded stack would grow with every keystroke commit.
const DefaultHistoryLimit = 100

// Engine owns the grid for one pricing model
type Engine struct {
	model        types.PricingModel
	columns      []schema.ColumnDefinition
	editableKeys []string

	rows       []types.Row
	totalPrice decimal.Decimal
	isComplete bool

	// cellErrors is keyed by row id, then column key
	cellErrors map[string]map[string]string

	validFrom  *time.Time
	validUntil *time.Time

	history      []HistoryEntry
	historyIndex int
	historyLimit int
}

// Option configures a new worksheet
type Option func(*Engine)

// WithHistoryLimit overrides the undo history cap. Non-positive limits
// are ignored.
func WithHistoryLimit(limit int) Option {
	return func(e *Engine) {
		if limit > 0 {
			e.historyLimit = limit
		}
	}
}

// New creates a worksheet for the model, seeded with one empty row.
// A worksheet always has at least one row.
func New(model types.PricingModel, opts ...Option) (*Engine, error) {
	columns := schema.Columns(model)
	if columns == nil {
		return nil, errors.Newf(errors.TypeInput, "unsupported pricing model: %s", model)
	}

	e := &Engine{
		model:        model,
		columns:      columns,
		editableKeys: schema.EditableKeys(model),
		rows:         []types.Row{schema.NewEmptyRow(columns)},
		cellErrors:   make(map[string]map[string]string),
		historyIndex: -1,
		historyLimit: DefaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.recalculate()
	return e, nil
}

// Model returns the worksheet's pricing model
func (e *Engine) Model() types.PricingModel {
	return e.model
}

// Columns returns the active column schema
func (e *Engine) Columns() []schema.ColumnDefinition {
	return e.columns
}

// Rows returns the current rows. Callers must not mutate them.
func (e *Engine) Rows() []types.Row {
	return e.rows
}

// TotalPrice returns the grand total, rounded to 2 decimals
func (e *Engine) TotalPrice() decimal.Decimal {
	return e.totalPrice
}

// IsComplete is true when every required cell is filled, no cell has an
// error, and at least one row exists
func (e *Engine) IsComplete() bool {
	return e.isComplete
}

// CellError returns the validation message for a cell, or ""
func (e *Engine) CellError(rowID, columnKey string) string {
	return e.cellErrors[rowID][columnKey]
}

// CellErrors returns all validation errors keyed by row id then column key
func (e *Engine) CellErrors() map[string]map[string]string {
	return e.cellErrors
}

// SetValidity records the optional validity window
func (e *Engine) SetValidity(from, until *time.Time) {
	e.validFrom = from
	e.validUntil = until
}

// Validity returns the optional validity window
func (e *Engine) Validity() (*time.Time, *time.Time) {
	return e.validFrom, e.validUntil
}

// AddRow appends an empty row. Always succeeds.
func (e *Engine) AddRow() types.Row {
	previous := types.CloneRows(e.rows)
	row := schema.NewEmptyRow(e.columns)
	e.rows = append(e.rows, row)
	e.commit(ActionAdd, "Added row", previous)
	return row
}

// DeleteRow removes a row. Deleting the sole remaining row is rejected:
// a worksheet never reaches zero rows.
func (e *Engine) DeleteRow(rowID string) error {
	if len(e.rows) == 1 {
		return errors.Input("cannot delete the last remaining row")
	}
	index := e.rowIndex(rowID)
	if index < 0 {
		return errors.NotFound("row", rowID)
	}

	previous := types.CloneRows(e.rows)
	e.rows = append(e.rows[:index], e.rows[index+1:]...)
	delete(e.cellErrors, rowID)
	e.commit(ActionDelete, fmt.Sprintf("Deleted row %d", index+1), previous)
	return nil
}

// DuplicateRow deep-copies a row's cells into a new row inserted
// immediately after the source
func (e *Engine) DuplicateRow(rowID string) (types.Row, error) {
	index := e.rowIndex(rowID)
	if index < 0 {
		return types.Row{}, errors.NotFound("row", rowID)
	}

	previous := types.CloneRows(e.rows)
	copied := e.rows[index].Clone()
	copied.ID = uuid.NewString()

	e.rows = append(e.rows, types.Row{})
	copy(e.rows[index+2:], e.rows[index+1:])
	e.rows[index+1] = copied

	e.commit(ActionAdd, fmt.Sprintf("Duplicated row %d", index+1), previous)
	return copied, nil
}

// MoveRow reorders rows by index
func (e *Engine) MoveRow(from, to int) error {
	if from < 0 || from >= len(e.rows) || to < 0 || to >= len(e.rows) {
		return errors.Inputf("move out of range: %d -> %d", from, to)
	}
	if from == to {
		return nil
	}

	previous := types.CloneRows(e.rows)
	row := e.rows[from]
	e.rows = append(e.rows[:from], e.rows[from+1:]...)
	e.rows = append(e.rows[:to], append([]types.Row{row}, e.rows[to:]...)...)
	e.commit(ActionReorder, fmt.Sprintf("Moved row %d to %d", from+1, to+1), previous)
	return nil
}

// EditCell commits raw user input into a cell. Input starting with "="
// is stored as the cell's formula and evaluated immediately; anything
// else is stored as a literal (numeric columns coerce, falling back to
// 0) and clears any prior formula.
func (e *Engine) EditCell(rowID, columnKey, rawInput string) error {
	index := e.rowIndex(rowID)
	if index < 0 {
		return errors.NotFound("row", rowID)
	}
	column, ok := e.column(columnKey)
	if !ok {
		return errors.NotFound("column", columnKey)
	}
	if !column.IsEditable() {
		return errors.Inputf("column %s is read-only", columnKey)
	}

	previous := types.CloneRows(e.rows)
	cell := e.rows[index].Cells[columnKey]

	if strings.HasPrefix(strings.TrimSpace(rawInput), "=") {
		cell.Formula = strings.TrimSpace(rawInput)
		result := formula.Evaluate(cell.Formula, e.editableKeys, e.rows)
		cell.Value = types.NumberValue(result.Value)
		cell.Err = result.Err
	} else {
		cell.Formula = ""
		cell.Err = ""
		cell.Value = coerceLiteral(column, rawInput)
	}

	e.rows[index].Cells[columnKey] = cell
	e.commit(ActionEdit, fmt.Sprintf("Edited %s", column.Label), previous)
	return nil
}

// coerceLiteral types raw input for the column: numeric columns parse
// as a number and default to 0 on failure, text columns keep the string
func coerceLiteral(column schema.ColumnDefinition, rawInput string) types.CellValue {
	if column.IsNumeric() {
		value, err := decimal.NewFromString(strings.TrimSpace(rawInput))
		if err != nil {
			return types.NumberValue(decimal.Zero)
		}
		return types.NumberValue(value)
	}
	return types.TextValue(rawInput)
}

// CanUndo reports whether an undo is available
func (e *Engine) CanUndo() bool {
	return e.historyIndex >= 0
}

// CanRedo reports whether a redo is available
func (e *Engine) CanRedo() bool {
	return e.historyIndex < len(e.history)-1
}

// Undo replaces the rows with the snapshot preceding the last mutation.
// No-op at the history boundary.
func (e *Engine) Undo() bool {
	if !e.CanUndo() {
		return false
	}
	entry := e.history[e.historyIndex]
	e.rows = types.CloneRows(entry.PreviousState)
	e.historyIndex--
	e.recalculate()
	return true
}

// Redo re-applies the next mutation after an undo. No-op at the boundary.
func (e *Engine) Redo() bool {
	if !e.CanRedo() {
		return false
	}
	e.historyIndex++
	entry := e.history[e.historyIndex]
	e.rows = types.CloneRows(entry.NewState)
	e.recalculate()
	return true
}

// History returns the committed history entries
func (e *Engine) History() []HistoryEntry {
	return e.history
}

// commit records a mutation and recomputes derived state. Any entries
// after the current index are discarded first: a new mutation after an
// undo abandons the redo branch.
func (e *Engine) commit(action Action, description string, previous []types.Row) {
	e.history = e.history[:e.historyIndex+1]
	e.history = append(e.history, newHistoryEntry(action, description, previous, e.rows))
	e.historyIndex++

	if len(e.history) > e.historyLimit {
		drop := len(e.history) - e.historyLimit
		e.history = e.history[drop:]
		e.historyIndex -= drop
	}

	e.recalculate()
}

// recalculate recomputes every readonly column, every formula cell, the
// grand total, validation state, and completeness. Recalculation is
// global rather than dependency-tracked; worksheets are small.
func (e *Engine) recalculate() {
	// Built-in computed columns first, from literal inputs
	for i := range e.rows {
		for _, column := range e.columns {
			if column.IsComputed() {
				value := schema.ComputeValue(column.Compute, e.rows[i])
				cell := e.rows[i].Cells[column.Key]
				cell.Value = types.NumberValue(value)
				e.rows[i].Cells[column.Key] = cell
			}
		}
	}

	// Then user formulas, which may reference any editable cell
	for i := range e.rows {
		for key, cell := range e.rows[i].Cells {
			if cell.Formula == "" {
				continue
			}
			result := formula.Evaluate(cell.Formula, e.editableKeys, e.rows)
			cell.Value = types.NumberValue(result.Value)
			cell.Err = result.Err
			e.rows[i].Cells[key] = cell
		}
	}

	e.totalPrice = types.RoundMoney(e.grandTotal())
	e.validate()
}

// grandTotal sums the computed column when the schema has one, otherwise
// the currency input columns (currency inputs that are not already
// folded into a computed total)
func (e *Engine) grandTotal() decimal.Decimal {
	total := decimal.Zero
	hasComputed := false
	for _, column := range e.columns {
		if column.IsComputed() {
			hasComputed = true
		}
	}

	for _, row := range e.rows {
		for _, column := range e.columns {
			if hasComputed {
				if column.IsComputed() {
					total = total.Add(row.Cells[column.Key].Value.AsNumber())
				}
			} else if column.Type == schema.TypeCurrency {
				total = total.Add(row.Cells[column.Key].Value.AsNumber())
			}
		}
	}
	return total
}

// validate rebuilds the per-cell error map and the completion flag
func (e *Engine) validate() {
	e.cellErrors = make(map[string]map[string]string)
	complete := len(e.rows) > 0

	for _, row := range e.rows {
		for _, column := range e.columns {
			msg := schema.ValidateCell(column, row, e.rows)
			if msg == "" {
				if formulaErr := row.Cells[column.Key].Err; formulaErr != "" {
					msg = formulaErr
				}
			}
			if msg != "" {
				if e.cellErrors[row.ID] == nil {
					e.cellErrors[row.ID] = make(map[string]string)
				}
				e.cellErrors[row.ID][column.Key] = msg
				complete = false
			}
		}
	}

	e.isComplete = complete
}

func (e *Engine) rowIndex(rowID string) int {
	for i, row := range e.rows {
		if row.ID == rowID {
			return i
		}
	}
	return -1
}

func (e *Engine) column(key string) (schema.ColumnDefinition, bool) {
	for _, column := range e.columns {
		if column.Key == key {
			return column, true
		}
	}
	return schema.ColumnDefinition{}, false
}
