package worker

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	TaskSuggestionGenerate = "suggestion:generate"
	TaskSuggestionExpire   = "suggestion:expire"
	TaskMoodReminder       = "mood:reminder"
	TaskNotificationPrune  = "notification:prune"
)

type suggestionGeneratePayload struct {
	UserID uuid.UUID `json:"user_id"`
	Date   string    `json:"date"`
}

func NewSuggestionGenerateTask(userID uuid.UUID, date string) (*asynq.Task, error) {
	payload, err := json.Marshal(suggestionGeneratePayload{UserID: userID, Date: date})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSuggestionGenerate, payload), nil
}
