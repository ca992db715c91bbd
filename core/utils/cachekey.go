package utils

import (
	"fmt"

	"wellness-planner/core/constants"

	"github.com/google/uuid"
)

// WellnessSummaryKey is the cache key for a user's monthly wellness summary.
// Writers of events and mood entries delete it to keep the summary fresh.
func WellnessSummaryKey(userID uuid.UUID, year int, month int) string {
	return fmt.Sprintf("%s%s:%04d-%02d", constants.RedisKeyWellnessSummary, userID, year, month)
}
