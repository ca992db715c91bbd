package dto

import "time"

type ParseEventRequest struct {
	Text string `json:"text"`
}

// ParsedEvent is the draft extracted from free text. Source reports
// whether the model or the heuristic fallback produced it.
type ParsedEvent struct {
	Title        string    `json:"title"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	CategoryHint string    `json:"category_hint,omitempty"`
	Priority     string    `json:"priority"`
	Location     string    `json:"location,omitempty"`
	Confidence   float64   `json:"confidence"`
	Source       string    `json:"source"`
}

type ValidateEventRequest struct {
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// ValidateEventResponse approves unless something is clearly wrong.
// Warnings carry any model concerns either way.
type ValidateEventResponse struct {
	Approved bool     `json:"approved"`
	Warnings []string `json:"warnings"`
	Source   string   `json:"source"`
}
