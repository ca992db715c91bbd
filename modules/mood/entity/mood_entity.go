package entity

import (
	"time"

	"wellness-planner/core/entity"

	"github.com/google/uuid"
)

// DailyMoodEntry records one mood rating per user per calendar day.
// Rating runs from 1 (awful) to 5 (great).
type DailyMoodEntry struct {
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	EntryDate time.Time `db:"entry_date" json:"entry_date"`
	Rating    int       `db:"rating" json:"rating"`
	Note      *string   `db:"note" json:"note,omitempty"`
	entity.BaseEntity
}

// Day returns the entry's date formatted as YYYY-MM-DD.
func (m *DailyMoodEntry) Day() string {
	return m.EntryDate.Format("2006-01-02")
}
