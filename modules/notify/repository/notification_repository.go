package repository

import (
	"context"

	"github.com/google/uuid"

	"meetquorum/core/database"
	"meetquorum/core/logger"
	"meetquorum/modules/notify/entity"
)

type NotificationRepositoryInterface interface {
	Create(ctx context.Context, notification *entity.Notification) error
	GetByParticipant(ctx context.Context, participantKey string, limit, offset int) ([]entity.Notification, error)
	CountByParticipant(ctx context.Context, participantKey string) (int, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
}

type NotificationRepository struct {
	DB database.IDatabase
}

func NewNotificationRepository(db database.IDatabase) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	query := `
		INSERT INTO notifications (thread_id, participant_key, type, title, message, is_read)
		VALUES ($1, $2, $3, $4, $5, false)
	`
	err := r.DB.ExecContext(ctx, query,
		notification.ThreadID, notification.ParticipantKey,
		notification.Type, notification.Title, notification.Message)
	if err != nil {
		logger.Error("NotificationRepository:Create", err)
		return err
	}
	return nil
}

func (r *NotificationRepository) GetByParticipant(ctx context.Context, participantKey string, limit, offset int) ([]entity.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := `
		SELECT id, thread_id, participant_key, type, title, message, is_read, created_at, updated_at
		FROM notifications
		WHERE participant_key = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var notifications []entity.Notification
	err := r.DB.SelectContext(ctx, &notifications, query, participantKey, limit, offset)
	if err != nil {
		logger.Error("NotificationRepository:GetByParticipant", err)
		return nil, err
	}
	return notifications, nil
}

func (r *NotificationRepository) CountByParticipant(ctx context.Context, participantKey string) (int, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE participant_key = $1`

	var count int
	if err := r.DB.GetContext(ctx, &count, query, participantKey); err != nil {
		logger.Error("NotificationRepository:CountByParticipant", err)
		return 0, err
	}
	return count, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE notifications SET is_read = true, updated_at = NOW() WHERE id = $1`
	if err := r.DB.ExecContext(ctx, query, id); err != nil {
		logger.Error("NotificationRepository:MarkRead", err)
		return err
	}
	return nil
}
