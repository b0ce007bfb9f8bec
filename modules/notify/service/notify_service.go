package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	coreEntity "meetquorum/core/entity"
	coreErrors "meetquorum/core/errors"
	"meetquorum/core/logger"
	"meetquorum/core/params"
	"meetquorum/core/queue"
	decisionEntity "meetquorum/modules/decision/entity"
	"meetquorum/modules/notify/entity"
	"meetquorum/modules/notify/repository"
)

// NotifyService publishes finalize events to the background queue and, on
// the worker side, turns them into in-app notifications. It satisfies the
// decision module's Notifier.
type NotifyService struct {
	repo  repository.NotificationRepositoryInterface
	queue *queue.Client
}

func NewNotifyService(repo repository.NotificationRepositoryInterface, queueClient *queue.Client) *NotifyService {
	return &NotifyService{repo: repo, queue: queueClient}
}

// NotifyDecisionFinalized enqueues the finalize event. When no queue is
// configured the notifications are written inline instead.
func (s *NotifyService) NotifyDecisionFinalized(ctx context.Context, record decisionEntity.FinalizeRecord) error {
	payload := queue.DecisionFinalizedPayload{
		ThreadID:     record.ThreadID.String(),
		SlotID:       record.FinalSlotID,
		Participants: record.Participants,
		DecidedBy:    record.DecidedBy,
		Reason:       record.Reason,
	}
	if s.queue == nil {
		return s.writeNotifications(ctx, payload)
	}
	return s.queue.EnqueueDecisionFinalized(ctx, payload)
}

// HandleDecisionFinalized is the asynq task handler. Deliveries are
// at-least-once, so a replay writes duplicate rows at worst; the finalize
// commit itself stays exactly-once.
func (s *NotifyService) HandleDecisionFinalized(ctx context.Context, task *asynq.Task) error {
	var payload queue.DecisionFinalizedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Error("notify: malformed finalize payload", err)
		return fmt.Errorf("unmarshal finalize payload: %w", err)
	}
	return s.writeNotifications(ctx, payload)
}

func (s *NotifyService) writeNotifications(ctx context.Context, payload queue.DecisionFinalizedPayload) error {
	threadID, err := uuid.Parse(payload.ThreadID)
	if err != nil {
		return fmt.Errorf("invalid thread id %q: %w", payload.ThreadID, err)
	}

	for _, key := range payload.Participants {
		notification := &entity.Notification{
			ThreadID:       threadID,
			ParticipantKey: key,
			Type:           "decision_finalized",
			Title:          "Meeting scheduled",
			Message:        fmt.Sprintf("A meeting time was agreed (%s)", payload.Reason),
		}
		if err := s.repo.Create(ctx, notification); err != nil {
			return err
		}
	}
	logger.Info("notify: finalize notifications written",
		"thread_id", payload.ThreadID, "count", len(payload.Participants))
	return nil
}

// ListNotifications returns one page of a participant's notifications,
// newest first.
func (s *NotifyService) ListNotifications(ctx context.Context, participantKey string, p params.QueryParams) (*coreEntity.Pagination[entity.Notification], error) {
	p = p.Normalized()
	notifications, err := s.repo.GetByParticipant(ctx, participantKey, p.PageSize, p.Offset())
	if err != nil {
		return nil, coreErrors.NewAppError(coreErrors.ErrInternalServer, "failed to load notifications", err)
	}
	total, err := s.repo.CountByParticipant(ctx, participantKey)
	if err != nil {
		return nil, coreErrors.NewAppError(coreErrors.ErrInternalServer, "failed to count notifications", err)
	}
	return &coreEntity.Pagination[entity.Notification]{
		Items:      notifications,
		TotalItems: total,
		PageNumber: p.Page,
		PageSize:   p.PageSize,
	}, nil
}

func (s *NotifyService) MarkNotificationRead(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.MarkRead(ctx, id); err != nil {
		return coreErrors.NewAppError(coreErrors.ErrInternalServer, "failed to mark notification read", err)
	}
	return nil
}

// RegisterHandlers attaches the module's task handlers to the worker mux.
func (s *NotifyService) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(queue.TypeDecisionFinalized, s.HandleDecisionFinalized)
}
