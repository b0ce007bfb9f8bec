package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"meetquorum/core/database"
	"meetquorum/core/logger"
	"meetquorum/modules/calendar/entity"
)

type CalendarRepositoryInterface interface {
	CreateConnection(ctx context.Context, conn *entity.CalendarConnection) (*entity.CalendarConnection, error)
	GetConnectionByUserAndProvider(ctx context.Context, userID uuid.UUID, provider string) (*entity.CalendarConnection, error)
	GetConnectionsByUserID(ctx context.Context, userID uuid.UUID) ([]entity.CalendarConnection, error)
	UpdateConnection(ctx context.Context, conn *entity.CalendarConnection) error
	DeleteConnection(ctx context.Context, userID uuid.UUID, provider string) error
}

type CalendarRepository struct {
	DB database.IDatabase
}

func NewCalendarRepository(db database.IDatabase) *CalendarRepository {
	return &CalendarRepository{DB: db}
}

func (r *CalendarRepository) CreateConnection(ctx context.Context, conn *entity.CalendarConnection) (*entity.CalendarConnection, error) {
	query := `
		INSERT INTO calendar_connections (user_id, provider, access_token, refresh_token, token_expires_at, calendar_email, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, provider) DO UPDATE
		SET access_token = $3, refresh_token = $4, token_expires_at = $5, calendar_email = $6, is_active = $7, updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRowContext(ctx, query,
		conn.UserID, conn.Provider, conn.AccessToken, conn.RefreshToken,
		conn.TokenExpiresAt, conn.CalendarEmail, conn.IsActive,
	).Scan(&conn.ID, &conn.CreatedAt, &conn.UpdatedAt)
	if err != nil {
		logger.Error("CalendarRepository:CreateConnection", err)
		return nil, err
	}
	return conn, nil
}

func (r *CalendarRepository) GetConnectionByUserAndProvider(ctx context.Context, userID uuid.UUID, provider string) (*entity.CalendarConnection, error) {
	query := `
		SELECT id, user_id, provider, access_token, refresh_token, token_expires_at, calendar_email, is_active, created_at, updated_at
		FROM calendar_connections
		WHERE user_id = $1 AND provider = $2 AND is_active = true
	`

	var conn entity.CalendarConnection
	err := r.DB.GetContext(ctx, &conn, query, userID, provider)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("CalendarRepository:GetConnectionByUserAndProvider", err)
		return nil, err
	}
	return &conn, nil
}

func (r *CalendarRepository) GetConnectionsByUserID(ctx context.Context, userID uuid.UUID) ([]entity.CalendarConnection, error) {
	query := `
		SELECT id, user_id, provider, access_token, refresh_token, token_expires_at, calendar_email, is_active, created_at, updated_at
		FROM calendar_connections
		WHERE user_id = $1
		ORDER BY created_at
	`

	var conns []entity.CalendarConnection
	err := r.DB.SelectContext(ctx, &conns, query, userID)
	if err != nil {
		logger.Error("CalendarRepository:GetConnectionsByUserID", err)
		return nil, err
	}
	return conns, nil
}

func (r *CalendarRepository) UpdateConnection(ctx context.Context, conn *entity.CalendarConnection) error {
	query := `
		UPDATE calendar_connections
		SET access_token = $2, refresh_token = $3, token_expires_at = $4, calendar_email = $5, is_active = $6, updated_at = NOW()
		WHERE id = $1
	`
	err := r.DB.ExecContext(ctx, query,
		conn.ID, conn.AccessToken, conn.RefreshToken, conn.TokenExpiresAt,
		conn.CalendarEmail, conn.IsActive)
	if err != nil {
		logger.Error("CalendarRepository:UpdateConnection", err)
		return err
	}
	return nil
}

func (r *CalendarRepository) DeleteConnection(ctx context.Context, userID uuid.UUID, provider string) error {
	query := `DELETE FROM calendar_connections WHERE user_id = $1 AND provider = $2`
	if err := r.DB.ExecContext(ctx, query, userID, provider); err != nil {
		logger.Error("CalendarRepository:DeleteConnection", err)
		return err
	}
	return nil
}
