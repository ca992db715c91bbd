package dto

import (
	"time"

	"wellness-planner/modules/event/entity"

	"github.com/google/uuid"
)

type CreateEventRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Location    *string    `json:"location,omitempty"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     time.Time  `json:"end_time"`
	AllDay      bool       `json:"all_day"`
	Priority    string     `json:"priority"`
	// Force skips the conflict check when the user accepts an overlap
	Force bool `json:"force"`
}

type UpdateEventRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Location    *string    `json:"location,omitempty"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	AllDay      *bool      `json:"all_day,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	Force       bool       `json:"force"`
}

// ListEventsFilter narrows the range listing. Zero values mean no filter.
type ListEventsFilter struct {
	From       time.Time
	To         time.Time
	CategoryID *uuid.UUID
	Status     string
	Priority   string
}

type ConflictCheckResponse struct {
	HasConflict bool           `json:"has_conflict"`
	Conflicts   []entity.Event `json:"conflicts"`
}

type MonthViewDay struct {
	Date   string         `json:"date"`
	Events []entity.Event `json:"events"`
}

type MonthViewResponse struct {
	Year  int            `json:"year"`
	Month int            `json:"month"`
	Days  []MonthViewDay `json:"days"`
}
