package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"meetquorum/core/database"
	"meetquorum/core/logger"
	"meetquorum/modules/roster/entity"
)

type RosterRepositoryInterface interface {
	CreateGroup(ctx context.Context, group *entity.Group) (*entity.Group, error)
	GetGroupByID(ctx context.Context, id uuid.UUID) (*entity.Group, error)
	GetGroupBySlug(ctx context.Context, slug string) (*entity.Group, error)
	ListGroups(ctx context.Context) ([]entity.Group, error)
	UpdateGroupMembers(ctx context.Context, id uuid.UUID, memberKeys []string) error
	DeleteGroup(ctx context.Context, id uuid.UUID) error
}

type RosterRepository struct {
	DB database.IDatabase
}

func NewRosterRepository(db database.IDatabase) *RosterRepository {
	return &RosterRepository{DB: db}
}

func (r *RosterRepository) CreateGroup(ctx context.Context, group *entity.Group) (*entity.Group, error) {
	query := `
		INSERT INTO roster_groups (name, slug, member_keys)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRowContext(ctx, query, group.Name, group.Slug, group.MemberKeys).
		Scan(&group.ID, &group.CreatedAt, &group.UpdatedAt)
	if err != nil {
		logger.Error("RosterRepository:CreateGroup", err)
		return nil, err
	}
	return group, nil
}

func (r *RosterRepository) GetGroupByID(ctx context.Context, id uuid.UUID) (*entity.Group, error) {
	query := `SELECT id, name, slug, member_keys, created_at, updated_at FROM roster_groups WHERE id = $1`

	var group entity.Group
	err := r.DB.GetContext(ctx, &group, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("RosterRepository:GetGroupByID", err)
		return nil, err
	}
	return &group, nil
}

func (r *RosterRepository) GetGroupBySlug(ctx context.Context, slug string) (*entity.Group, error) {
	query := `SELECT id, name, slug, member_keys, created_at, updated_at FROM roster_groups WHERE slug = $1`

	var group entity.Group
	err := r.DB.GetContext(ctx, &group, query, slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("RosterRepository:GetGroupBySlug", err)
		return nil, err
	}
	return &group, nil
}

func (r *RosterRepository) ListGroups(ctx context.Context) ([]entity.Group, error) {
	query := `SELECT id, name, slug, member_keys, created_at, updated_at FROM roster_groups ORDER BY name`

	var groups []entity.Group
	if err := r.DB.SelectContext(ctx, &groups, query); err != nil {
		logger.Error("RosterRepository:ListGroups", err)
		return nil, err
	}
	return groups, nil
}

func (r *RosterRepository) UpdateGroupMembers(ctx context.Context, id uuid.UUID, memberKeys []string) error {
	query := `UPDATE roster_groups SET member_keys = $2, updated_at = NOW() WHERE id = $1`
	if err := r.DB.ExecContext(ctx, query, id, pq.StringArray(memberKeys)); err != nil {
		logger.Error("RosterRepository:UpdateGroupMembers", err)
		return err
	}
	return nil
}

func (r *RosterRepository) DeleteGroup(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM roster_groups WHERE id = $1`
	if err := r.DB.ExecContext(ctx, query, id); err != nil {
		logger.Error("RosterRepository:DeleteGroup", err)
		return err
	}
	return nil
}
