package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	coreErrors "meetquorum/core/errors"
	"meetquorum/core/logger"
	"meetquorum/core/utils"
	availService "meetquorum/modules/availability/service"
	decisionEntity "meetquorum/modules/decision/entity"
	decisionRepo "meetquorum/modules/decision/repository"
	decisionService "meetquorum/modules/decision/service"
	"meetquorum/modules/thread/dto"
	"meetquorum/modules/thread/entity"
	"meetquorum/modules/thread/repository"
)

// AvailabilityComputer runs the slot pipeline for a participant set.
type AvailabilityComputer interface {
	ComputeAvailableSlots(ctx context.Context, req availService.ComputeRequest) (*availService.ComputeResult, *coreErrors.AppError)
}

// RuleHydrator expands rule documents that reference stored roster groups.
type RuleHydrator interface {
	HydrateRule(ctx context.Context, rule decisionEntity.AttendanceRule) (decisionEntity.AttendanceRule, error)
}

// FinalizePort commits a finalize decision exactly once per thread.
type FinalizePort interface {
	Finalize(ctx context.Context, threadID uuid.UUID, result decisionService.EvalResult, decidedBy string) (*decisionEntity.FinalizeRecord, error)
}

// ThreadService drives the scheduling thread lifecycle: availability
// computation, selection intake, rule evaluation, and finalize.
type ThreadService struct {
	repo         repository.ThreadRepositoryInterface
	decisions    decisionRepo.DecisionRepositoryInterface
	availability AvailabilityComputer
	hydrator     RuleHydrator
	finalizer    FinalizePort
	engine       decisionService.RuleEngine
}

func NewThreadService(
	repo repository.ThreadRepositoryInterface,
	decisions decisionRepo.DecisionRepositoryInterface,
	availability AvailabilityComputer,
	hydrator RuleHydrator,
	finalizer FinalizePort,
) *ThreadService {
	return &ThreadService{
		repo:         repo,
		decisions:    decisions,
		availability: availability,
		hydrator:     hydrator,
		finalizer:    finalizer,
	}
}

// CreateThread validates the request, stores the thread with a slugged
// label, registers the roster, and stores the rule document when one is
// provided.
func (s *ThreadService) CreateThread(ctx context.Context, createdBy string, req *dto.CreateThreadRequest) (*dto.ThreadResponse, *coreErrors.AppError) {
	if req.Title == "" {
		return nil, coreErrors.NewAppError(coreErrors.ErrInvalidRequestData, "title is required", nil)
	}
	if req.DurationMinutes <= 0 {
		return nil, coreErrors.NewAppError(coreErrors.ErrInvalidRequestData, "duration must be positive", nil)
	}
	if !req.WindowStart.Before(req.WindowEnd) {
		return nil, coreErrors.NewAppError(coreErrors.ErrInvalidRequestData, "window start must precede window end", nil)
	}
	if len(req.Participants) == 0 {
		return nil, coreErrors.NewAppError(coreErrors.ErrInvalidRequestData, "at least one participant is required", nil)
	}

	var rule decisionEntity.AttendanceRule
	if len(req.Rule) > 0 {
		parsed, err := decisionEntity.UnmarshalRule(req.Rule)
		if err != nil {
			return nil, coreErrors.NewAppError(coreErrors.ErrInvalidRequestData, "invalid attendance rule", err)
		}
		rule = parsed
	}

	thread := &entity.Thread{
		Title:           req.Title,
		Label:           slug.Make(req.Title),
		CreatedBy:       createdBy,
		DurationMinutes: req.DurationMinutes,
		Timezone:        req.Timezone,
		WindowStart:     req.WindowStart,
		WindowEnd:       req.WindowEnd,
		Status:          entity.ThreadOpen,
	}
	created, err := s.repo.CreateThread(ctx, thread)
	if err != nil {
		return nil, coreErrors.NewAppError(coreErrors.ErrInternalServer, "failed to create thread", err)
	}

	participants := make([]entity.ThreadParticipant, 0, len(req.Participants))
	for _, key := range req.Participants {
		p := entity.ThreadParticipant{
			ThreadID:       created.ID,
			ParticipantKey: key,
			Status:         entity.ParticipantInvited,
		}
		if err := s.repo.AddParticipant(ctx, &p); err != nil {
			return nil, coreErrors.NewAppError(coreErrors.ErrInternalServer, "failed to add participant", err)
		}
		participants = append(participants, p)
	}

	if rule != nil {
		if err := s.decisions.SaveRule(ctx, created.ID, rule); err != nil {
			return nil, coreErrors.NewAppError(coreErrors.ErrInternalServer, "failed to store attendance rule", err)
		}
	}

	return &dto.ThreadResponse{Thread: *created, Participants: participants}, nil
}

func (s *ThreadService) GetThread(ctx context.Context, threadID uuid.UUID) (*dto.ThreadResponse, *coreErrors.AppError) {
	thread, appErr := s.loadThread(ctx, threadID)
	if appErr != nil {
		return nil, appErr
	}

	participants, err := s.repo.GetParticipantsByThread(ctx, threadID)
	if err != nil {
		return nil, coreErrors.NewAppError(coreErrors.ErrInternalServer, "failed to load participants", err)
	}
	slots, err := s.repo.GetSlotsByThread(ctx, threadID)
	if err != nil {
		return nil, coreErrors.NewAppError(coreErrors.ErrInternalServer, "failed to load slots", err)
	}

	return &dto.ThreadResponse{Thread: *thread, Participants: participants, Slots: slots}, nil
}

func (s *ThreadService) GetMyThreads(ctx context.Context, createdBy string) ([]entity.Thread, *coreErrors.AppError) {
	threads, err := s.repo.GetThreadsByCreator(ctx, createdBy)
	if err != nil {
		return nil, coreErrors.NewAppError(coreErrors.ErrInternalServer, "failed to load threads", err)
	}
	return threads, nil
}

// ComputeSlots runs the availability pipeline for the thread's roster and
// replaces the persisted candidate snapshot. Slot IDs are short generated
// IDs so selections can reference them across rounds.
func (s *ThreadService) ComputeSlots(ctx context.Context, threadID uuid.UUID) (*dto.ComputeSlotsResponse, *coreErrors.AppError) {
	thread, appErr := s.loadThread(ctx, threadID)
	if appErr != nil {
		return nil, appErr
	}
	if thread.Status != entity.ThreadOpen {
		return nil, coreErrors.NewAppError(coreErrors.ErrInvalidInput, "thread is not open", nil)
	}

	participants, err := s.repo.GetParticipantsByThread(ctx, threadID)
	if err != nil {
		return nil, coreErrors.NewAppError(coreErrors.ErrInternalServer, "failed to load participants", err)
	}
	keys := make([]string, 0, len(participants))
	for _, p := range participants {
		if p.Status != entity.ParticipantDeclined {
			keys = append(keys, p.ParticipantKey)
		}
	}

	result, appErr := s.availability.ComputeAvailableSlots(ctx, availService.ComputeRequest{
		Participants:  keys,
		TimeMin:       thread.WindowStart,
		TimeMax:       thread.WindowEnd,
		MeetingLength: time.Duration(thread.DurationMinutes) * time.Minute,
		Timezone:      thread.Timezone,
	})
	if appErr != nil {
		return nil, appErr
	}

	slots := make([]entity.ThreadSlot, 0, len(result.Slots))
	for _, scored := range result.Slots {
		reasons, err := json.Marshal(scored.Reasons)
		if err != nil {
			reasons = nil
		}
		slots = append(slots, entity.ThreadSlot{
			ID:        utils.GenerateID(),
			ThreadID:  threadID,
			StartTime: scored.Slot.Start,
			EndTime:   scored.Slot.End,
			Label:     scored.Slot.Label,
			Score:     scored.Score,
			Reasons:   reasons,
		})
	}
	if err := s.repo.ReplaceSlots(ctx, threadID, slots); err != nil {
		return nil, coreErrors.NewAppError(coreErrors.ErrInternalServer, "failed to persist slots", err)
	}

	return &dto.ComputeSlotsResponse{
		Slots:        slots,
		Availability: result.Availability,
		Stats:        result.Stats,
	}, nil
}

// SubmitSelection records one participant's response, re-evaluates the
// attendance rule, and auto-finalizes when it is satisfied. Submitting to an
// already-finalized thread returns the existing decision unchanged.
func (s *ThreadService) SubmitSelection(ctx context.Context, threadID uuid.UUID, req *dto.SubmitSelectionRequest) (*dto.DecisionResponse, *coreErrors.AppError) {
	thread, appErr := s.loadThread(ctx, threadID)
	if appErr != nil {
		return nil, appErr
	}
	if thread.Status == entity.ThreadFinalized {
		return s.GetDecision(ctx, threadID)
	}
	if thread.Status == entity.ThreadCancelled {
		return nil, coreErrors.NewAppError(coreErrors.ErrInvalidInput, "thread is cancelled", nil)
	}
	if req.ParticipantKey == "" {
		return nil, coreErrors.NewAppError(coreErrors.ErrInvalidRequestData, "participant key is required", nil)
	}

	selection := &decisionEntity.Selection{
		ThreadID:       threadID,
		ParticipantKey: req.ParticipantKey,
	}
	switch decisionEntity.SelectionStatus(req.Status) {
	case decisionEntity.SelectionSelected:
		slot, err := s.repo.GetSlotByID(ctx, threadID, req.SlotID)
		if err != nil {
			return nil, coreErrors.NewAppError(coreErrors.ErrInternalServer, "failed to load slot", err)
		}
		if slot == nil {
			return nil, coreErrors.NewAppError(coreErrors.ErrNotFound, "slot not found", nil)
		}
		selection.Status = decisionEntity.SelectionSelected
		selection.SlotID = &slot.ID
	case decisionEntity.SelectionDeclined:
		selection.Status = decisionEntity.SelectionDeclined
	default:
		return nil, coreErrors.NewAppError(coreErrors.ErrInvalidRequestData, "status must be selected or declined", nil)
	}

	if err := s.decisions.UpsertSelection(ctx, selection); err != nil {
		return nil, coreErrors.NewAppError(coreErrors.ErrInternalServer, "failed to record selection", err)
	}

	return s.evaluateAndMaybeFinalize(ctx, thread)
}

// GetDecision reports the thread's decision state: the durable finalize
// record when one exists, otherwise the engine's current evaluation.
func (s *ThreadService) GetDecision(ctx context.Context, threadID uuid.UUID) (*dto.DecisionResponse, *coreErrors.AppError) {
	record, err := s.decisions.GetFinalizeByThread(ctx, threadID)
	if err != nil {
		return nil, coreErrors.NewAppError(coreErrors.ErrInternalServer, "failed to load decision", err)
	}
	if record != nil {
		return decisionFromRecord(record), nil
	}

	thread, appErr := s.loadThread(ctx, threadID)
	if appErr != nil {
		return nil, appErr
	}
	result, appErr := s.evaluate(ctx, thread)
	if appErr != nil {
		return nil, appErr
	}
	return &dto.DecisionResponse{
		Finalized:    result.Finalized,
		SlotID:       result.SlotID,
		Participants: result.Participants,
		Reason:       result.Reason,
	}, nil
}

// SetRule validates and stores a new attendance rule document. Rules on
// finalized threads are immutable.
func (s *ThreadService) SetRule(ctx context.Context, threadID uuid.UUID, raw json.RawMessage) *coreErrors.AppError {
	thread, appErr := s.loadThread(ctx, threadID)
	if appErr != nil {
		return appErr
	}
	if thread.Status != entity.ThreadOpen {
		return coreErrors.NewAppError(coreErrors.ErrInvalidInput, "thread is not open", nil)
	}

	rule, err := decisionEntity.UnmarshalRule(raw)
	if err != nil {
		return coreErrors.NewAppError(coreErrors.ErrInvalidRequestData, "invalid attendance rule", err)
	}
	if err := s.decisions.SaveRule(ctx, threadID, rule); err != nil {
		return coreErrors.NewAppError(coreErrors.ErrInternalServer, "failed to store attendance rule", err)
	}
	return nil
}

func (s *ThreadService) CancelThread(ctx context.Context, threadID uuid.UUID) *coreErrors.AppError {
	thread, appErr := s.loadThread(ctx, threadID)
	if appErr != nil {
		return appErr
	}
	if thread.Status == entity.ThreadFinalized {
		return coreErrors.NewAppError(coreErrors.ErrInvalidInput, "finalized thread cannot be cancelled", nil)
	}
	if err := s.repo.UpdateThreadStatus(ctx, threadID, entity.ThreadCancelled); err != nil {
		return coreErrors.NewAppError(coreErrors.ErrInternalServer, "failed to cancel thread", err)
	}
	return nil
}

func (s *ThreadService) loadThread(ctx context.Context, threadID uuid.UUID) (*entity.Thread, *coreErrors.AppError) {
	thread, err := s.repo.GetThreadByID(ctx, threadID)
	if err != nil {
		return nil, coreErrors.NewAppError(coreErrors.ErrInternalServer, "failed to load thread", err)
	}
	if thread == nil {
		return nil, coreErrors.NewAppError(coreErrors.ErrNotFound, "thread not found", nil)
	}
	return thread, nil
}

// evaluate runs the rule engine against the current selections and slot
// snapshot. A thread without a stored rule requires the full roster to
// agree (ALL over every non-declined participant).
func (s *ThreadService) evaluate(ctx context.Context, thread *entity.Thread) (*decisionService.EvalResult, *coreErrors.AppError) {
	rule, err := s.decisions.GetRuleByThread(ctx, thread.ID)
	if err != nil {
		return nil, coreErrors.NewAppError(coreErrors.ErrInternalServer, "failed to load attendance rule", err)
	}
	if rule == nil {
		participants, err := s.repo.GetParticipantsByThread(ctx, thread.ID)
		if err != nil {
			return nil, coreErrors.NewAppError(coreErrors.ErrInternalServer, "failed to load participants", err)
		}
		var keys []string
		for _, p := range participants {
			if p.Status != entity.ParticipantDeclined {
				keys = append(keys, p.ParticipantKey)
			}
		}
		rule = decisionEntity.AllRule{Participants: keys}
	}

	if s.hydrator != nil {
		hydrated, err := s.hydrator.HydrateRule(ctx, rule)
		if err != nil {
			if appErr, ok := err.(*coreErrors.AppError); ok {
				return nil, appErr
			}
			return nil, coreErrors.NewAppError(coreErrors.ErrInternalServer, "failed to expand rule groups", err)
		}
		rule = hydrated
	}

	selections, err := s.decisions.GetSelectionsByThread(ctx, thread.ID)
	if err != nil {
		return nil, coreErrors.NewAppError(coreErrors.ErrInternalServer, "failed to load selections", err)
	}
	slots, err := s.repo.GetSlotsByThread(ctx, thread.ID)
	if err != nil {
		return nil, coreErrors.NewAppError(coreErrors.ErrInternalServer, "failed to load slots", err)
	}
	refs := make([]decisionEntity.SlotRef, 0, len(slots))
	for _, slot := range slots {
		refs = append(refs, decisionEntity.SlotRef{ID: slot.ID, Start: slot.StartTime})
	}

	result := s.engine.Evaluate(rule, selections, refs)
	return &result, nil
}

func (s *ThreadService) evaluateAndMaybeFinalize(ctx context.Context, thread *entity.Thread) (*dto.DecisionResponse, *coreErrors.AppError) {
	result, appErr := s.evaluate(ctx, thread)
	if appErr != nil {
		return nil, appErr
	}
	if !result.Finalized {
		return &dto.DecisionResponse{Reason: result.Reason}, nil
	}

	record, err := s.finalizer.Finalize(ctx, thread.ID, *result, "rule_engine")
	if err != nil {
		return nil, coreErrors.NewAppError(coreErrors.ErrInternalServer, "failed to finalize thread", err)
	}
	if err := s.repo.UpdateThreadStatus(ctx, thread.ID, entity.ThreadFinalized); err != nil {
		logger.Warn("failed to mark thread finalized", "thread_id", thread.ID, err)
	}
	return decisionFromRecord(record), nil
}

func decisionFromRecord(record *decisionEntity.FinalizeRecord) *dto.DecisionResponse {
	return &dto.DecisionResponse{
		Finalized:    true,
		SlotID:       record.FinalSlotID,
		Participants: record.Participants,
		DecidedBy:    record.DecidedBy,
		Reason:       record.Reason,
	}
}
