package entity

import (
	"time"

	"github.com/google/uuid"

	"meetquorum/core/entity"
)

// CalendarConnection stores a participant's calendar provider connection.
type CalendarConnection struct {
	entity.BaseEntity
	UserID         uuid.UUID `db:"user_id" json:"user_id"`
	Provider       string    `db:"provider" json:"provider"` // "google"
	AccessToken    string    `db:"access_token" json:"-"`
	RefreshToken   string    `db:"refresh_token" json:"-"`
	TokenExpiresAt time.Time `db:"token_expires_at" json:"token_expires_at"`
	CalendarEmail  string    `db:"calendar_email" json:"calendar_email"`
	IsActive       bool      `db:"is_active" json:"is_active"`
}

func (CalendarConnection) TableName() string {
	return "calendar_connections"
}
