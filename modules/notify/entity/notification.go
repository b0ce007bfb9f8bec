package entity

import (
	"github.com/google/uuid"

	"meetquorum/core/entity"
)

// Notification is one in-app message for a participant.
type Notification struct {
	entity.BaseEntity
	ThreadID       uuid.UUID `db:"thread_id" json:"thread_id"`
	ParticipantKey string    `db:"participant_key" json:"participant_key"`
	Type           string    `db:"type" json:"type"`
	Title          string    `db:"title" json:"title"`
	Message        string    `db:"message" json:"message"`
	IsRead         bool      `db:"is_read" json:"is_read"`
}

func (Notification) TableName() string {
	return "notifications"
}
