package dto

type UpsertMoodRequest struct {
	Date   string  `json:"date"`
	Rating int     `json:"rating"`
	Note   *string `json:"note,omitempty"`
}
