package entity

import (
	"time"

	"github.com/google/uuid"

	"meetquorum/core/entity"
)

// ThreadStatus is the lifecycle of a scheduling thread.
type ThreadStatus string

const (
	ThreadOpen      ThreadStatus = "open"
	ThreadFinalized ThreadStatus = "finalized"
	ThreadCancelled ThreadStatus = "cancelled"
)

// Thread is one scheduling conversation: a proposal window, a duration, a
// roster of participants, and eventually a finalized slot.
type Thread struct {
	entity.BaseEntity
	Title           string       `db:"title" json:"title"`
	Label           string       `db:"label" json:"label"`
	CreatedBy       string       `db:"created_by" json:"created_by"`
	DurationMinutes int          `db:"duration_minutes" json:"duration_minutes"`
	Timezone        string       `db:"timezone" json:"timezone"`
	WindowStart     time.Time    `db:"window_start" json:"window_start"`
	WindowEnd       time.Time    `db:"window_end" json:"window_end"`
	Status          ThreadStatus `db:"status" json:"status"`
}

func (Thread) TableName() string {
	return "threads"
}

// ParticipantStatus is a roster member's confirmation state.
type ParticipantStatus string

const (
	ParticipantInvited   ParticipantStatus = "invited"
	ParticipantConfirmed ParticipantStatus = "confirmed"
	ParticipantDeclined  ParticipantStatus = "declined"
)

// ThreadParticipant is one roster row. ParticipantKey is opaque: an internal
// user ID or an external reference such as an email hash.
type ThreadParticipant struct {
	ThreadID       uuid.UUID         `db:"thread_id" json:"thread_id"`
	ParticipantKey string            `db:"participant_key" json:"participant_key"`
	Status         ParticipantStatus `db:"status" json:"status"`
	CreatedAt      time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time         `db:"updated_at" json:"updated_at"`
}

func (ThreadParticipant) TableName() string {
	return "thread_participants"
}
