package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"meetquorum/core/database"
	"meetquorum/core/logger"
)

// PreferenceRepository stores raw preference documents keyed by participant.
type PreferenceRepository struct {
	DB database.IDatabase
}

func NewPreferenceRepository(db database.IDatabase) *PreferenceRepository {
	return &PreferenceRepository{DB: db}
}

type PreferenceRepositoryInterface interface {
	GetDocByParticipant(ctx context.Context, participantKey string) (json.RawMessage, error)
	SaveDoc(ctx context.Context, participantKey string, doc json.RawMessage) error
	DeleteDoc(ctx context.Context, participantKey string) error
}

func (r *PreferenceRepository) GetDocByParticipant(ctx context.Context, participantKey string) (json.RawMessage, error) {
	query := `SELECT doc FROM preference_documents WHERE participant_key = $1`

	var doc json.RawMessage
	err := r.DB.GetContext(ctx, &doc, query, participantKey)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("PreferenceRepository:GetDocByParticipant", err)
		return nil, err
	}
	return doc, nil
}

func (r *PreferenceRepository) SaveDoc(ctx context.Context, participantKey string, doc json.RawMessage) error {
	query := `
		INSERT INTO preference_documents (participant_key, doc, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (participant_key) DO UPDATE SET doc = $2, updated_at = NOW()
	`
	if err := r.DB.ExecContext(ctx, query, participantKey, doc); err != nil {
		logger.Error("PreferenceRepository:SaveDoc", err)
		return err
	}
	return nil
}

func (r *PreferenceRepository) DeleteDoc(ctx context.Context, participantKey string) error {
	query := `DELETE FROM preference_documents WHERE participant_key = $1`
	if err := r.DB.ExecContext(ctx, query, participantKey); err != nil {
		logger.Error("PreferenceRepository:DeleteDoc", err)
		return err
	}
	return nil
}
