package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	decisionEntity "meetquorum/modules/decision/entity"
	"meetquorum/modules/roster/entity"
)

type fakeRosterRepo struct {
	groups map[uuid.UUID]*entity.Group
}

func (f *fakeRosterRepo) CreateGroup(_ context.Context, group *entity.Group) (*entity.Group, error) {
	group.ID = uuid.New()
	f.groups[group.ID] = group
	return group, nil
}

func (f *fakeRosterRepo) GetGroupByID(_ context.Context, id uuid.UUID) (*entity.Group, error) {
	return f.groups[id], nil
}

func (f *fakeRosterRepo) GetGroupBySlug(context.Context, string) (*entity.Group, error) {
	return nil, nil
}

func (f *fakeRosterRepo) ListGroups(context.Context) ([]entity.Group, error) { return nil, nil }

func (f *fakeRosterRepo) UpdateGroupMembers(context.Context, uuid.UUID, []string) error { return nil }

func (f *fakeRosterRepo) DeleteGroup(context.Context, uuid.UUID) error { return nil }

func TestHydrateRuleFillsStoredGroups(t *testing.T) {
	t.Parallel()

	repo := &fakeRosterRepo{groups: map[uuid.UUID]*entity.Group{}}
	stored, err := NewRosterService(repo).CreateGroup(context.Background(), "oncall", []string{"a", "b"})
	require.NoError(t, err)
	require.Equal(t, "oncall", stored.Slug)

	rule := decisionEntity.GroupAnyRule{Groups: []decisionEntity.RuleGroup{
		{ID: stored.ID.String()},
		{ID: "inline", Members: []string{"c"}},
	}}

	hydrated, err := NewRosterService(repo).HydrateRule(context.Background(), rule)
	require.NoError(t, err)

	groupRule, ok := hydrated.(decisionEntity.GroupAnyRule)
	require.True(t, ok)
	require.Equal(t, []string(pq.StringArray{"a", "b"}), groupRule.Groups[0].Members)
	require.Equal(t, []string{"c"}, groupRule.Groups[1].Members)
}

func TestHydrateRuleMissingGroupFails(t *testing.T) {
	t.Parallel()

	repo := &fakeRosterRepo{groups: map[uuid.UUID]*entity.Group{}}
	rule := decisionEntity.GroupAnyRule{Groups: []decisionEntity.RuleGroup{{ID: uuid.NewString()}}}

	_, err := NewRosterService(repo).HydrateRule(context.Background(), rule)
	require.Error(t, err)
}

func TestHydrateRulePassesThroughOtherVariants(t *testing.T) {
	t.Parallel()

	repo := &fakeRosterRepo{groups: map[uuid.UUID]*entity.Group{}}
	rule := decisionEntity.KOfNRule{Participants: []string{"a", "b"}, K: 1}

	hydrated, err := NewRosterService(repo).HydrateRule(context.Background(), rule)
	require.NoError(t, err)
	require.Equal(t, rule, hydrated)
}
