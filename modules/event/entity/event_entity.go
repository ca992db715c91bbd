package entity

import (
	"time"

	"wellness-planner/core/entity"

	"github.com/google/uuid"
)

type EventStatus string

const (
	StatusScheduled EventStatus = "scheduled"
	StatusCompleted EventStatus = "completed"
	StatusCancelled EventStatus = "cancelled"
)

func (s EventStatus) ValidStatus() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type EventPriority string

const (
	PriorityLow    EventPriority = "low"
	PriorityMedium EventPriority = "medium"
	PriorityNormal EventPriority = "normal"
	PriorityHigh   EventPriority = "high"
)

// Weight is used when scoring hours of the day by what got done in them.
// Medium and normal carry the same weight.
func (p EventPriority) Weight() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityHigh:
		return 3
	default:
		return 2
	}
}

func (p EventPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityNormal, PriorityHigh:
		return true
	}
	return false
}

type Event struct {
	UserID      uuid.UUID     `db:"user_id" json:"user_id"`
	CategoryID  *uuid.UUID    `db:"category_id" json:"category_id,omitempty"`
	Title       string        `db:"title" json:"title"`
	Description *string       `db:"description" json:"description,omitempty"`
	Location    *string       `db:"location" json:"location,omitempty"`
	StartTime   time.Time     `db:"start_time" json:"start_time"`
	EndTime     time.Time     `db:"end_time" json:"end_time"`
	AllDay      bool          `db:"all_day" json:"all_day"`
	Priority    EventPriority `db:"priority" json:"priority"`
	Status      EventStatus   `db:"status" json:"status"`
	entity.BaseEntity
	entity.SoftDelete
}

// Overlaps reports whether the event's interval intersects [start, end).
func (e *Event) Overlaps(start, end time.Time) bool {
	return e.StartTime.Before(end) && start.Before(e.EndTime)
}

type PaginatedEventEntity = entity.Pagination[Event]
