package dto

type FeedbackRequest struct {
	Helpful   bool    `json:"helpful"`
	MoodAfter *int    `json:"mood_after,omitempty"`
	Comment   *string `json:"comment,omitempty"`
}

type GenerateRequest struct {
	// Date defaults to today when empty
	Date string `json:"date"`
}
