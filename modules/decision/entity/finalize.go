package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// FinalizeRecord is the terminal, write-once outcome of a scheduling
// thread: at most one exists per thread.
type FinalizeRecord struct {
	ID           uuid.UUID      `db:"id" json:"id"`
	ThreadID     uuid.UUID      `db:"thread_id" json:"thread_id"`
	FinalSlotID  string         `db:"final_slot_id" json:"final_slot_id"`
	Participants pq.StringArray `db:"participants" json:"participants"`
	DecidedBy    string         `db:"decided_by" json:"decided_by"`
	Reason       string         `db:"reason" json:"reason"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
}
