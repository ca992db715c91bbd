package dto

// MonthlySummary aggregates a month of mood entries and events.
type MonthlySummary struct {
	Year            int         `json:"year"`
	Month           int         `json:"month"`
	EntryCount      int         `json:"entry_count"`
	AverageRating   float64     `json:"average_rating"`
	RatingCounts    [5]int      `json:"rating_counts"`
	BestDay         string      `json:"best_day,omitempty"`
	WorstDay        string      `json:"worst_day,omitempty"`
	EventsScheduled int         `json:"events_scheduled"`
	EventsCompleted int         `json:"events_completed"`
	CompletionRate  float64     `json:"completion_rate"`
	Streaks         Streaks     `json:"streaks"`
	BusiestDay      string      `json:"busiest_day,omitempty"`
	BusiestDayCount int         `json:"busiest_day_count"`
}

// Streaks are computed relative to a reference day, usually today.
type Streaks struct {
	CurrentLogging int `json:"current_logging"`
	LongestLogging int `json:"longest_logging"`
	CurrentGood    int `json:"current_good"`
	LongestGood    int `json:"longest_good"`
}

// CategoryImpact compares mood on days with events of a category against
// days without. Delta is WithMean minus WithoutMean.
type CategoryImpact struct {
	CategoryID   string  `json:"category_id"`
	CategoryName string  `json:"category_name,omitempty"`
	DaysWith     int     `json:"days_with"`
	DaysWithout  int     `json:"days_without"`
	WithMean     float64 `json:"with_mean"`
	WithoutMean  float64 `json:"without_mean"`
	Delta        float64 `json:"delta"`
}

// HourScore rates an hour of day by completed work weighted by priority
// and same-day mood.
type HourScore struct {
	Hour  int     `json:"hour"`
	Score float64 `json:"score"`
}

type ProductivityResponse struct {
	Hours     []HourScore `json:"hours"`
	BestHours []int       `json:"best_hours"`
}
