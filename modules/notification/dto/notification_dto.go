package dto

import (
	"github.com/google/uuid"
)

type MarkAsReadRequest struct {
	IDs []string `json:"ids"`
}

// CreateNotificationRequest is used internally by services and jobs,
// not exposed over HTTP.
type CreateNotificationRequest struct {
	UserID  uuid.UUID              `json:"user_id"`
	Title   string                 `json:"title"`
	Message string                 `json:"message"`
	Type    string                 `json:"type"`
	Data    map[string]interface{} `json:"data"`
}
