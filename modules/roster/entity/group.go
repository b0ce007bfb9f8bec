package entity

import (
	"github.com/lib/pq"

	"meetquorum/core/entity"
)

// Group is a named roster of participant keys, referenced by ID from
// GROUP_ANY attendance rules.
type Group struct {
	entity.BaseEntity
	Name       string         `db:"name" json:"name"`
	Slug       string         `db:"slug" json:"slug"`
	MemberKeys pq.StringArray `db:"member_keys" json:"member_keys"`
}

func (Group) TableName() string {
	return "roster_groups"
}
