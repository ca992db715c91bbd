package entity

import (
	"time"

	"wellness-planner/core/entity"

	"github.com/google/uuid"
)

type SuggestionType string

const (
	TypeOverloadedDay SuggestionType = "overloaded_day"
	TypeLowMoodBreak  SuggestionType = "low_mood_break"
	TypeLateHighStake SuggestionType = "late_high_stake"
	TypeNoRecovery    SuggestionType = "no_recovery"
)

type SuggestionStatus string

const (
	StatusPending   SuggestionStatus = "pending"
	StatusAccepted  SuggestionStatus = "accepted"
	StatusRejected  SuggestionStatus = "rejected"
	StatusPostponed SuggestionStatus = "postponed"
	StatusExpired   SuggestionStatus = "expired"
)

// ScheduleSuggestion is a generated recommendation for one calendar day.
// Only pending suggestions may change status. EventID is set when the
// suggestion targets a concrete event; a suggestion whose event is later
// deleted expires the next time it is read.
type ScheduleSuggestion struct {
	UserID         uuid.UUID        `db:"user_id" json:"user_id"`
	EventID        *uuid.UUID       `db:"event_id" json:"event_id,omitempty"`
	Type           SuggestionType   `db:"type" json:"type"`
	Message        string           `db:"message" json:"message"`
	TargetDate     time.Time        `db:"target_date" json:"target_date"`
	SuggestedStart *time.Time       `db:"suggested_start" json:"suggested_start,omitempty"`
	SuggestedEnd   *time.Time       `db:"suggested_end" json:"suggested_end,omitempty"`
	Score          int              `db:"score" json:"score"`
	Status         SuggestionStatus `db:"status" json:"status"`
	entity.BaseEntity
}

// SuggestionFeedback records what the user thought after acting on a
// suggestion. MoodAfter is an optional 1-5 rating.
type SuggestionFeedback struct {
	SuggestionID uuid.UUID `db:"suggestion_id" json:"suggestion_id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	Helpful      bool      `db:"helpful" json:"helpful"`
	MoodAfter    *int      `db:"mood_after" json:"mood_after,omitempty"`
	Comment      *string   `db:"comment" json:"comment,omitempty"`
	entity.BaseEntity
}

// FeedbackStat aggregates feedback per suggestion type.
type FeedbackStat struct {
	Type         SuggestionType `db:"type" json:"type"`
	Total        int            `db:"total" json:"total"`
	HelpfulCount int            `db:"helpful_count" json:"helpful_count"`
	AvgMoodAfter *float64       `db:"avg_mood_after" json:"avg_mood_after,omitempty"`
}
