package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"meetquorum/core/database"
	"meetquorum/core/logger"
	"meetquorum/modules/thread/entity"
)

// ThreadRepository handles thread, roster, and slot snapshot storage.
type ThreadRepository struct {
	DB database.IDatabase
}

func NewThreadRepository(db database.IDatabase) *ThreadRepository {
	return &ThreadRepository{DB: db}
}

type ThreadRepositoryInterface interface {
	// Threads
	CreateThread(ctx context.Context, thread *entity.Thread) (*entity.Thread, error)
	GetThreadByID(ctx context.Context, id uuid.UUID) (*entity.Thread, error)
	GetThreadsByCreator(ctx context.Context, createdBy string) ([]entity.Thread, error)
	UpdateThreadStatus(ctx context.Context, id uuid.UUID, status entity.ThreadStatus) error

	// Roster (thread_participants table)
	AddParticipant(ctx context.Context, participant *entity.ThreadParticipant) error
	GetParticipantsByThread(ctx context.Context, threadID uuid.UUID) ([]entity.ThreadParticipant, error)
	RemoveParticipant(ctx context.Context, threadID uuid.UUID, participantKey string) error

	// Slot snapshots (thread_slots table)
	ReplaceSlots(ctx context.Context, threadID uuid.UUID, slots []entity.ThreadSlot) error
	GetSlotsByThread(ctx context.Context, threadID uuid.UUID) ([]entity.ThreadSlot, error)
	GetSlotByID(ctx context.Context, threadID uuid.UUID, slotID string) (*entity.ThreadSlot, error)
}

// ===================== Threads =====================

func (r *ThreadRepository) CreateThread(ctx context.Context, thread *entity.Thread) (*entity.Thread, error) {
	query := `
		INSERT INTO threads (title, label, created_by, duration_minutes, timezone, window_start, window_end, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, title, label, created_by, duration_minutes, timezone, window_start, window_end, status, created_at, updated_at
	`

	var created entity.Thread
	err := r.DB.GetContext(ctx, &created, query,
		thread.Title, thread.Label, thread.CreatedBy, thread.DurationMinutes,
		thread.Timezone, thread.WindowStart, thread.WindowEnd, thread.Status)
	if err != nil {
		logger.Error("ThreadRepository:CreateThread", err)
		return nil, err
	}
	return &created, nil
}

func (r *ThreadRepository) GetThreadByID(ctx context.Context, id uuid.UUID) (*entity.Thread, error) {
	query := `
		SELECT id, title, label, created_by, duration_minutes, timezone, window_start, window_end, status, created_at, updated_at
		FROM threads WHERE id = $1
	`

	var thread entity.Thread
	err := r.DB.GetContext(ctx, &thread, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("ThreadRepository:GetThreadByID", err)
		return nil, err
	}
	return &thread, nil
}

func (r *ThreadRepository) GetThreadsByCreator(ctx context.Context, createdBy string) ([]entity.Thread, error) {
	query := `
		SELECT id, title, label, created_by, duration_minutes, timezone, window_start, window_end, status, created_at, updated_at
		FROM threads
		WHERE created_by = $1
		ORDER BY created_at DESC
	`

	var threads []entity.Thread
	err := r.DB.SelectContext(ctx, &threads, query, createdBy)
	if err != nil {
		logger.Error("ThreadRepository:GetThreadsByCreator", err)
		return nil, err
	}
	return threads, nil
}

func (r *ThreadRepository) UpdateThreadStatus(ctx context.Context, id uuid.UUID, status entity.ThreadStatus) error {
	query := `UPDATE threads SET status = $2, updated_at = NOW() WHERE id = $1`
	if err := r.DB.ExecContext(ctx, query, id, status); err != nil {
		logger.Error("ThreadRepository:UpdateThreadStatus", err)
		return err
	}
	return nil
}

// ===================== Roster =====================

func (r *ThreadRepository) AddParticipant(ctx context.Context, participant *entity.ThreadParticipant) error {
	query := `
		INSERT INTO thread_participants (thread_id, participant_key, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (thread_id, participant_key) DO UPDATE SET status = $3, updated_at = NOW()
	`
	err := r.DB.ExecContext(ctx, query,
		participant.ThreadID, participant.ParticipantKey, participant.Status)
	if err != nil {
		logger.Error("ThreadRepository:AddParticipant", err)
		return err
	}
	return nil
}

func (r *ThreadRepository) GetParticipantsByThread(ctx context.Context, threadID uuid.UUID) ([]entity.ThreadParticipant, error) {
	query := `
		SELECT thread_id, participant_key, status, created_at, updated_at
		FROM thread_participants
		WHERE thread_id = $1
		ORDER BY created_at
	`

	var participants []entity.ThreadParticipant
	err := r.DB.SelectContext(ctx, &participants, query, threadID)
	if err != nil {
		logger.Error("ThreadRepository:GetParticipantsByThread", err)
		return nil, err
	}
	return participants, nil
}

func (r *ThreadRepository) RemoveParticipant(ctx context.Context, threadID uuid.UUID, participantKey string) error {
	query := `DELETE FROM thread_participants WHERE thread_id = $1 AND participant_key = $2`
	if err := r.DB.ExecContext(ctx, query, threadID, participantKey); err != nil {
		logger.Error("ThreadRepository:RemoveParticipant", err)
		return err
	}
	return nil
}

// ===================== Slot snapshots =====================

// ReplaceSlots swaps the thread's candidate snapshot for a new round.
func (r *ThreadRepository) ReplaceSlots(ctx context.Context, threadID uuid.UUID, slots []entity.ThreadSlot) error {
	clearQuery := `DELETE FROM thread_slots WHERE thread_id = $1`
	if err := r.DB.ExecContext(ctx, clearQuery, threadID); err != nil {
		logger.Error("ThreadRepository:ReplaceSlots:Clear", err)
		return err
	}

	insertQuery := `
		INSERT INTO thread_slots (id, thread_id, start_time, end_time, label, score, reasons)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, slot := range slots {
		err := r.DB.ExecContext(ctx, insertQuery,
			slot.ID, threadID, slot.StartTime, slot.EndTime, slot.Label, slot.Score, slot.Reasons)
		if err != nil {
			logger.Error("ThreadRepository:ReplaceSlots:Insert", err)
			return err
		}
	}
	return nil
}

func (r *ThreadRepository) GetSlotsByThread(ctx context.Context, threadID uuid.UUID) ([]entity.ThreadSlot, error) {
	query := `
		SELECT id, thread_id, start_time, end_time, label, score, reasons, created_at
		FROM thread_slots
		WHERE thread_id = $1
		ORDER BY score DESC, start_time ASC
	`

	var slots []entity.ThreadSlot
	err := r.DB.SelectContext(ctx, &slots, query, threadID)
	if err != nil {
		logger.Error("ThreadRepository:GetSlotsByThread", err)
		return nil, err
	}
	return slots, nil
}

func (r *ThreadRepository) GetSlotByID(ctx context.Context, threadID uuid.UUID, slotID string) (*entity.ThreadSlot, error) {
	query := `
		SELECT id, thread_id, start_time, end_time, label, score, reasons, created_at
		FROM thread_slots
		WHERE thread_id = $1 AND id = $2
	`

	var slot entity.ThreadSlot
	err := r.DB.GetContext(ctx, &slot, query, threadID, slotID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("ThreadRepository:GetSlotByID", err)
		return nil, err
	}
	return &slot, nil
}
