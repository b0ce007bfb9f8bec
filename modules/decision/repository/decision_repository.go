package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"meetquorum/core/database"
	"meetquorum/core/logger"
	"meetquorum/modules/decision/entity"
)

// DecisionRepository handles attendance rule, selection, and finalize
// record storage.
type DecisionRepository struct {
	DB database.IDatabase
}

func NewDecisionRepository(db database.IDatabase) *DecisionRepository {
	return &DecisionRepository{DB: db}
}

type DecisionRepositoryInterface interface {
	// Attendance rules (attendance_rules table, one row per thread)
	SaveRule(ctx context.Context, threadID uuid.UUID, rule entity.AttendanceRule) error
	GetRuleByThread(ctx context.Context, threadID uuid.UUID) (entity.AttendanceRule, error)

	// Selections (selections table, one logical row per participant per thread)
	UpsertSelection(ctx context.Context, selection *entity.Selection) error
	GetSelectionsByThread(ctx context.Context, threadID uuid.UUID) ([]entity.Selection, error)

	// Finalize records (finalize_records table, at most one per thread)
	InsertFinalizeIfAbsent(ctx context.Context, record entity.FinalizeRecord) (*entity.FinalizeRecord, bool, error)
	GetFinalizeByThread(ctx context.Context, threadID uuid.UUID) (*entity.FinalizeRecord, error)
	ConfirmSelections(ctx context.Context, threadID uuid.UUID, slotID string, participants []string) error
}

// ===================== Attendance rules =====================

func (r *DecisionRepository) SaveRule(ctx context.Context, threadID uuid.UUID, rule entity.AttendanceRule) error {
	doc, err := entity.MarshalRule(rule)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO attendance_rules (thread_id, doc, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (thread_id) DO UPDATE SET doc = $2, updated_at = NOW()
	`
	if err := r.DB.ExecContext(ctx, query, threadID, doc); err != nil {
		logger.Error("DecisionRepository:SaveRule", err)
		return err
	}
	return nil
}

func (r *DecisionRepository) GetRuleByThread(ctx context.Context, threadID uuid.UUID) (entity.AttendanceRule, error) {
	query := `SELECT doc FROM attendance_rules WHERE thread_id = $1`

	var doc json.RawMessage
	err := r.DB.GetContext(ctx, &doc, query, threadID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("DecisionRepository:GetRuleByThread", err)
		return nil, err
	}

	return entity.UnmarshalRule(doc)
}

// ===================== Selections =====================

func (r *DecisionRepository) UpsertSelection(ctx context.Context, selection *entity.Selection) error {
	query := `
		INSERT INTO selections (thread_id, participant_key, slot_id, status, responded_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (thread_id, participant_key)
		DO UPDATE SET slot_id = $3, status = $4, responded_at = NOW()
	`
	err := r.DB.ExecContext(ctx, query,
		selection.ThreadID, selection.ParticipantKey, selection.SlotID, selection.Status)
	if err != nil {
		logger.Error("DecisionRepository:UpsertSelection", err)
		return err
	}
	return nil
}

func (r *DecisionRepository) GetSelectionsByThread(ctx context.Context, threadID uuid.UUID) ([]entity.Selection, error) {
	query := `
		SELECT thread_id, participant_key, slot_id, status, responded_at
		FROM selections
		WHERE thread_id = $1
		ORDER BY participant_key
	`

	var selections []entity.Selection
	err := r.DB.SelectContext(ctx, &selections, query, threadID)
	if err != nil {
		logger.Error("DecisionRepository:GetSelectionsByThread", err)
		return nil, err
	}
	return selections, nil
}

// ===================== Finalize records =====================

// InsertFinalizeIfAbsent inserts the record unless the thread already has
// one. ON CONFLICT DO NOTHING makes the first writer authoritative: when the
// insert is a no-op the existing record is read back, so the losing caller
// observes the winner's decision.
func (r *DecisionRepository) InsertFinalizeIfAbsent(ctx context.Context, record entity.FinalizeRecord) (*entity.FinalizeRecord, bool, error) {
	query := `
		INSERT INTO finalize_records (thread_id, final_slot_id, participants, decided_by, reason)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (thread_id) DO NOTHING
		RETURNING id, thread_id, final_slot_id, participants, decided_by, reason, created_at
	`

	var created entity.FinalizeRecord
	err := r.DB.GetContext(ctx, &created, query,
		record.ThreadID, record.FinalSlotID, record.Participants,
		record.DecidedBy, record.Reason)
	if err == nil {
		return &created, true, nil
	}
	if err != sql.ErrNoRows {
		logger.Error("DecisionRepository:InsertFinalizeIfAbsent", err)
		return nil, false, err
	}

	// Conflict path: someone else already finalized this thread.
	existing, err := r.GetFinalizeByThread(ctx, record.ThreadID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *DecisionRepository) GetFinalizeByThread(ctx context.Context, threadID uuid.UUID) (*entity.FinalizeRecord, error) {
	query := `
		SELECT id, thread_id, final_slot_id, participants, decided_by, reason, created_at
		FROM finalize_records
		WHERE thread_id = $1
	`

	var record entity.FinalizeRecord
	err := r.DB.GetContext(ctx, &record, query, threadID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("DecisionRepository:GetFinalizeByThread", err)
		return nil, err
	}
	return &record, nil
}

// ConfirmSelections marks the participants who selected the winning slot as
// confirmed on the thread roster. Best-effort repair after finalize. The
// slot filter keeps a stale participant list from confirming someone who
// never selected the winning slot.
func (r *DecisionRepository) ConfirmSelections(ctx context.Context, threadID uuid.UUID, slotID string, participants []string) error {
	query := `
		UPDATE thread_participants
		SET status = 'confirmed', updated_at = NOW()
		WHERE thread_id = $1 AND participant_key = ANY($3)
		AND participant_key IN (
			SELECT participant_key FROM selections
			WHERE thread_id = $1 AND slot_id = $2 AND status = 'selected'
		)
	`
	if err := r.DB.ExecContext(ctx, query, threadID, slotID, pq.Array(participants)); err != nil {
		logger.Error("DecisionRepository:ConfirmSelections", err)
		return err
	}
	return nil
}
