package entity

import (
	"time"

	"github.com/google/uuid"
)

// SelectionStatus is the lifecycle of one participant's response in a
// proposal round.
type SelectionStatus string

const (
	SelectionPending  SelectionStatus = "pending"
	SelectionSelected SelectionStatus = "selected"
	SelectionDeclined SelectionStatus = "declined"
	SelectionExpired  SelectionStatus = "expired"
)

// Selection is one logical row per participant per proposal round. SlotID is
// set only when Status is selected.
type Selection struct {
	ThreadID       uuid.UUID       `db:"thread_id" json:"thread_id"`
	ParticipantKey string          `db:"participant_key" json:"participant_key"`
	SlotID         *string         `db:"slot_id" json:"slot_id,omitempty"`
	Status         SelectionStatus `db:"status" json:"status"`
	RespondedAt    time.Time       `db:"responded_at" json:"responded_at"`
}

// SlotRef is the minimal slot identity the rule engine needs: an ID to
// group selections by and a start time for the chronological tie-break.
type SlotRef struct {
	ID    string    `json:"id"`
	Start time.Time `json:"start"`
}
