package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"meetquorum/core/params"
	decisionEntity "meetquorum/modules/decision/entity"
	"meetquorum/modules/notify/entity"
)

type fakeNotificationRepo struct {
	created    []entity.Notification
	rows       []entity.Notification
	lastLimit  int
	lastOffset int
	markedRead []uuid.UUID
	markErr    error
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *entity.Notification) error {
	f.created = append(f.created, *n)
	return nil
}

func (f *fakeNotificationRepo) GetByParticipant(_ context.Context, _ string, limit, offset int) ([]entity.Notification, error) {
	f.lastLimit = limit
	f.lastOffset = offset
	return f.rows, nil
}

func (f *fakeNotificationRepo) CountByParticipant(_ context.Context, _ string) (int, error) {
	return len(f.rows), nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, id uuid.UUID) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.markedRead = append(f.markedRead, id)
	return nil
}

func TestNotifyDecisionFinalizedInlineWithoutQueue(t *testing.T) {
	t.Parallel()

	repo := &fakeNotificationRepo{}
	svc := NewNotifyService(repo, nil)

	record := decisionEntity.FinalizeRecord{
		ID:           uuid.New(),
		ThreadID:     uuid.New(),
		FinalSlotID:  "slot-1",
		Participants: pq.StringArray{"alice", "bob"},
		DecidedBy:    "rule_engine",
		Reason:       "first selection wins",
	}
	require.NoError(t, svc.NotifyDecisionFinalized(context.Background(), record))

	require.Len(t, repo.created, 2)
	for _, n := range repo.created {
		require.Equal(t, record.ThreadID, n.ThreadID)
		require.Equal(t, "decision_finalized", n.Type)
	}
}

func TestListNotificationsNormalizesPaging(t *testing.T) {
	t.Parallel()

	repo := &fakeNotificationRepo{rows: []entity.Notification{
		{ParticipantKey: "alice", Title: "Meeting scheduled"},
	}}
	svc := NewNotifyService(repo, nil)
	ctx := context.Background()

	page, err := svc.ListNotifications(ctx, "alice", params.QueryParams{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, 1, page.TotalItems)
	require.Equal(t, 1, page.PageNumber)
	require.Equal(t, 20, page.PageSize)
	require.Equal(t, 20, repo.lastLimit)
	require.Zero(t, repo.lastOffset)

	page, err = svc.ListNotifications(ctx, "alice", params.QueryParams{Page: 3, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, 3, page.PageNumber)
	require.Equal(t, 10, repo.lastLimit)
	require.Equal(t, 20, repo.lastOffset)
}

func TestMarkNotificationRead(t *testing.T) {
	t.Parallel()

	repo := &fakeNotificationRepo{}
	svc := NewNotifyService(repo, nil)
	ctx := context.Background()

	id := uuid.New()
	require.NoError(t, svc.MarkNotificationRead(ctx, id))
	require.Equal(t, []uuid.UUID{id}, repo.markedRead)

	repo.markErr = errors.New("connection reset")
	err := svc.MarkNotificationRead(ctx, uuid.New())
	require.Error(t, err)
}
