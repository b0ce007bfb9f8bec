package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/lib/pq"

	coreErrors "meetquorum/core/errors"
	decisionEntity "meetquorum/modules/decision/entity"
	"meetquorum/modules/roster/entity"
	"meetquorum/modules/roster/repository"
)

// RosterService manages named participant groups and hydrates GROUP_ANY
// rules from them.
type RosterService struct {
	repo repository.RosterRepositoryInterface
}

func NewRosterService(repo repository.RosterRepositoryInterface) *RosterService {
	return &RosterService{repo: repo}
}

func (s *RosterService) CreateGroup(ctx context.Context, name string, memberKeys []string) (*entity.Group, error) {
	if name == "" {
		return nil, coreErrors.NewAppError(coreErrors.ErrInvalidRequestData, "group name is required", nil)
	}
	if len(memberKeys) == 0 {
		return nil, coreErrors.NewAppError(coreErrors.ErrInvalidRequestData, "group needs at least one member", nil)
	}

	group := &entity.Group{
		Name:       name,
		Slug:       slug.Make(name),
		MemberKeys: pq.StringArray(memberKeys),
	}
	return s.repo.CreateGroup(ctx, group)
}

func (s *RosterService) GetGroup(ctx context.Context, id uuid.UUID) (*entity.Group, error) {
	group, err := s.repo.GetGroupByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, coreErrors.NewAppError(coreErrors.ErrNotFound, "group not found", nil)
	}
	return group, nil
}

func (s *RosterService) ListGroups(ctx context.Context) ([]entity.Group, error) {
	return s.repo.ListGroups(ctx)
}

func (s *RosterService) UpdateMembers(ctx context.Context, id uuid.UUID, memberKeys []string) error {
	if len(memberKeys) == 0 {
		return coreErrors.NewAppError(coreErrors.ErrInvalidRequestData, "group needs at least one member", nil)
	}
	return s.repo.UpdateGroupMembers(ctx, id, memberKeys)
}

func (s *RosterService) DeleteGroup(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteGroup(ctx, id)
}

// HydrateRule fills the member lists of a GROUP_ANY rule whose groups
// reference stored rosters by ID. Groups with inlined members pass through
// untouched; a reference to a missing roster is an error, since evaluating
// against an empty group would silently never finalize. Other rule variants
// pass through unchanged.
func (s *RosterService) HydrateRule(ctx context.Context, rule decisionEntity.AttendanceRule) (decisionEntity.AttendanceRule, error) {
	groupRule, ok := rule.(decisionEntity.GroupAnyRule)
	if !ok {
		return rule, nil
	}

	hydrated := make([]decisionEntity.RuleGroup, len(groupRule.Groups))
	for i, g := range groupRule.Groups {
		if len(g.Members) > 0 {
			hydrated[i] = g
			continue
		}

		groupID, err := uuid.Parse(g.ID)
		if err != nil {
			return nil, coreErrors.NewAppError(coreErrors.ErrInvalidRequestData,
				"group without members must reference a stored roster group", err)
		}
		stored, err := s.repo.GetGroupByID(ctx, groupID)
		if err != nil {
			return nil, err
		}
		if stored == nil {
			return nil, coreErrors.NewAppError(coreErrors.ErrNotFound, "roster group not found: "+g.ID, nil)
		}
		hydrated[i] = decisionEntity.RuleGroup{ID: g.ID, Members: stored.MemberKeys}
	}
	return decisionEntity.GroupAnyRule{Groups: hydrated}, nil
}
