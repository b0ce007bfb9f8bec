package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"meetquorum/core/logger"
	"meetquorum/modules/decision/entity"
)

// FinalizeStore is the persistence port for finalize records. The insert is
// keyed by thread ID: InsertFinalizeIfAbsent reports whether this call
// created the record, and always returns the durable row (the winner's row
// when created=false).
type FinalizeStore interface {
	InsertFinalizeIfAbsent(ctx context.Context, record entity.FinalizeRecord) (*entity.FinalizeRecord, bool, error)
	GetFinalizeByThread(ctx context.Context, threadID uuid.UUID) (*entity.FinalizeRecord, error)
	ConfirmSelections(ctx context.Context, threadID uuid.UUID, slotID string, participants []string) error
}

// Notifier publishes a finalize event after a successful first commit.
type Notifier interface {
	NotifyDecisionFinalized(ctx context.Context, record entity.FinalizeRecord) error
}

// Finalizer commits finalize decisions exactly once per thread.
type Finalizer struct {
	store    FinalizeStore
	notifier Notifier
}

func NewFinalizer(store FinalizeStore, notifier Notifier) *Finalizer {
	return &Finalizer{store: store, notifier: notifier}
}

// Finalize records the decision for a thread. The write is idempotent: when
// the thread already has a finalize record, the existing record is returned
// unchanged and no second write happens. Two concurrent callers both get the
// same record back; exactly one of them performed the insert.
//
// Post-commit reconciliation (confirming the participants who selected the
// winning slot) and notification are best-effort: their failure is logged
// and never rolls back the commit.
func (f *Finalizer) Finalize(ctx context.Context, threadID uuid.UUID, result EvalResult, decidedBy string) (*entity.FinalizeRecord, error) {
	if !result.Finalized {
		return nil, nil
	}

	candidate := entity.FinalizeRecord{
		ThreadID:     threadID,
		FinalSlotID:  result.SlotID,
		Participants: pq.StringArray(result.Participants),
		DecidedBy:    decidedBy,
		Reason:       result.Reason,
	}

	record, created, err := f.store.InsertFinalizeIfAbsent(ctx, candidate)
	if err != nil {
		return nil, err
	}
	if !created {
		return record, nil
	}

	if err := f.store.ConfirmSelections(ctx, threadID, record.FinalSlotID, record.Participants); err != nil {
		logger.Warn("confirm selections after finalize failed", "thread_id", threadID, err)
	}
	if f.notifier != nil {
		if err := f.notifier.NotifyDecisionFinalized(ctx, *record); err != nil {
			logger.Warn("finalize notification failed", "thread_id", threadID, err)
		}
	}
	return record, nil
}
