package service

import (
	"context"
	"encoding/json"

	coreErrors "meetquorum/core/errors"
	"meetquorum/core/logger"
	availability "meetquorum/modules/availability/entity"
	"meetquorum/modules/preference/entity"
	"meetquorum/modules/preference/repository"
)

// PreferenceService backs scoring with stored per-participant preference
// documents. It satisfies the availability module's PreferencePort.
type PreferenceService struct {
	repo repository.PreferenceRepositoryInterface
}

func NewPreferenceService(repo repository.PreferenceRepositoryInterface) *PreferenceService {
	return &PreferenceService{repo: repo}
}

// GetPreferences loads and parses the participant's document. A missing or
// malformed document degrades to neutral scoring: parse failures are logged
// and return no rules rather than an error, so one bad document never sinks
// a whole availability computation.
func (s *PreferenceService) GetPreferences(ctx context.Context, participantKey string) ([]availability.PreferenceRule, error) {
	doc, err := s.repo.GetDocByParticipant(ctx, participantKey)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}

	rules, err := entity.ParseDoc(doc)
	if err != nil {
		logger.Warn("ignoring malformed preference document", "participant_key", participantKey, err)
		return nil, nil
	}
	return rules, nil
}

// SavePreferences validates and stores a document. Unlike reads, writes are
// strict: a document that would not parse is rejected up front.
func (s *PreferenceService) SavePreferences(ctx context.Context, participantKey string, doc json.RawMessage) error {
	if _, err := entity.ParseDoc(doc); err != nil {
		return coreErrors.NewAppError(coreErrors.ErrInvalidRequestData, "invalid preference document", err)
	}
	return s.repo.SaveDoc(ctx, participantKey, doc)
}

func (s *PreferenceService) DeletePreferences(ctx context.Context, participantKey string) error {
	return s.repo.DeleteDoc(ctx, participantKey)
}
