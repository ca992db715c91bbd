package entity

import (
	"wellness-planner/core/entity"

	"github.com/google/uuid"
)

// EventCategory groups events. Rows with a NULL user_id are system
// defaults visible to every user; owned rows belong to a single user.
type EventCategory struct {
	UserID    *uuid.UUID `db:"user_id" json:"user_id,omitempty"`
	Name      string     `db:"name" json:"name"`
	Slug      string     `db:"slug" json:"slug"`
	Color     string     `db:"color" json:"color"`
	Icon      string     `db:"icon" json:"icon"`
	SortOrder int        `db:"sort_order" json:"sort_order"`
	entity.BaseEntity
	entity.SoftDelete
}

// IsSystemDefault reports whether the category is part of the shared
// default taxonomy.
func (c *EventCategory) IsSystemDefault() bool {
	return c.UserID == nil
}

type PaginatedCategoryEntity = entity.Pagination[EventCategory]
