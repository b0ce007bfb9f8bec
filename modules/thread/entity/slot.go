package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ThreadSlot is a persisted candidate slot snapshot for one proposal round.
// The short ID is what participants reference in selections; Reasons keeps
// the score breakdown so a ranking can be explained after the fact.
type ThreadSlot struct {
	ID        string          `db:"id" json:"id"`
	ThreadID  uuid.UUID       `db:"thread_id" json:"thread_id"`
	StartTime time.Time       `db:"start_time" json:"start_time"`
	EndTime   time.Time       `db:"end_time" json:"end_time"`
	Label     string          `db:"label" json:"label"`
	Score     float64         `db:"score" json:"score"`
	Reasons   json.RawMessage `db:"reasons" json:"reasons,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

func (ThreadSlot) TableName() string {
	return "thread_slots"
}
