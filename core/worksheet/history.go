// Package worksheet - Undo/redo history
package worksheet

import (
	"time"

	"github.com/google/uuid"

	"ratecard/core/types"
)

// Action identifies what kind of mutation a history entry records
type Action string

const (
	ActionEdit    Action = "edit"
	ActionAdd     Action = "add"
	ActionDelete  Action = "delete"
	ActionReorder Action = "reorder"
)

// HistoryEntry is one committed mutation: full row snapshots before and
// after, so undo/redo is a straight state swap
type HistoryEntry struct {
	ID            string      `json:"id"`
	Action        Action      `json:"action"`
	Timestamp     time.Time   `json:"timestamp"`
	PreviousState []types.Row `json:"previous_state"`
	NewState      []types.Row `json:"new_state"`
	Description   string      `json:"description"`
}

func newHistoryEntry(action Action, description string, previous, current []types.Row) HistoryEntry {
	return HistoryEntry{
		ID:            uuid.NewString(),
		Action:        action,
		Timestamp:     time.Now(),
		PreviousState: previous,
		NewState:      types.CloneRows(current),
		Description:   description,
	}
}
