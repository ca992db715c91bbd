package repository

import (
	"context"
	"time"

	"wellness-planner/core/database"
	"wellness-planner/core/logger"
	"wellness-planner/modules/recommendation/entity"

	"github.com/google/uuid"
)

type RecommendationRepository interface {
	CreateSuggestion(ctx context.Context, suggestion *entity.ScheduleSuggestion) (*entity.ScheduleSuggestion, error)
	GetSuggestionByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*entity.ScheduleSuggestion, error)
	ListSuggestions(ctx context.Context, userID uuid.UUID, status entity.SuggestionStatus) ([]entity.ScheduleSuggestion, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, userID uuid.UUID, status entity.SuggestionStatus) error
	CountForDate(ctx context.Context, userID uuid.UUID, date time.Time) (int, error)
	ExpirePending(ctx context.Context, before time.Time) error

	UpsertFeedback(ctx context.Context, feedback *entity.SuggestionFeedback) (*entity.SuggestionFeedback, error)
	FeedbackStats(ctx context.Context, userID uuid.UUID) ([]entity.FeedbackStat, error)
}

type recommendationRepository struct {
	db database.Database
}

func NewRecommendationRepository(db database.Database) RecommendationRepository {
	return &recommendationRepository{db: db}
}

const suggestionColumns = `id, user_id, event_id, type, message, target_date, suggested_start, suggested_end, score, status, created_at, updated_at`

func (r *recommendationRepository) CreateSuggestion(ctx context.Context, suggestion *entity.ScheduleSuggestion) (*entity.ScheduleSuggestion, error) {
	query := `
		INSERT INTO schedule_suggestions (user_id, event_id, type, message, target_date, suggested_start, suggested_end, score, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(
		ctx, query,
		suggestion.UserID, suggestion.EventID, suggestion.Type, suggestion.Message, suggestion.TargetDate,
		suggestion.SuggestedStart, suggestion.SuggestedEnd, suggestion.Score, suggestion.Status,
	).Scan(&suggestion.ID, &suggestion.CreatedAt, &suggestion.UpdatedAt)

	if err != nil {
		logger.Error("RecommendationRepository:CreateSuggestion:Error:", err)
		return nil, err
	}
	return suggestion, nil
}

func (r *recommendationRepository) GetSuggestionByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*entity.ScheduleSuggestion, error) {
	query := `
		SELECT ` + suggestionColumns + `
		FROM schedule_suggestions
		WHERE id = $1 AND user_id = $2
	`
	var suggestion entity.ScheduleSuggestion
	if err := r.db.GetContext(ctx, &suggestion, query, id, userID); err != nil {
		return nil, err
	}
	return &suggestion, nil
}

// ListSuggestions filters by status when one is given
func (r *recommendationRepository) ListSuggestions(ctx context.Context, userID uuid.UUID, status entity.SuggestionStatus) ([]entity.ScheduleSuggestion, error) {
	query := `
		SELECT ` + suggestionColumns + `
		FROM schedule_suggestions
		WHERE user_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY target_date DESC, score DESC
	`
	var suggestions []entity.ScheduleSuggestion
	if err := r.db.SelectContext(ctx, &suggestions, query, userID, string(status)); err != nil {
		logger.Error("RecommendationRepository:ListSuggestions:Error:", err)
		return nil, err
	}
	return suggestions, nil
}

// UpdateStatus transitions a pending suggestion. The WHERE clause is the
// lifecycle guard: non-pending rows are left untouched.
func (r *recommendationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, userID uuid.UUID, status entity.SuggestionStatus) error {
	query := `
		UPDATE schedule_suggestions
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3 AND status = 'pending'
	`
	return r.db.ExecContext(ctx, query, status, id, userID)
}

func (r *recommendationRepository) CountForDate(ctx context.Context, userID uuid.UUID, date time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM schedule_suggestions WHERE user_id = $1 AND target_date = $2`
	if err := r.db.GetContext(ctx, &count, query, userID, date); err != nil {
		return 0, err
	}
	return count, nil
}

// ExpirePending sweeps pending suggestions whose target day has passed
func (r *recommendationRepository) ExpirePending(ctx context.Context, before time.Time) error {
	query := `
		UPDATE schedule_suggestions
		SET status = 'expired', updated_at = NOW()
		WHERE status = 'pending' AND target_date < $1
	`
	if err := r.db.ExecContext(ctx, query, before); err != nil {
		logger.Error("RecommendationRepository:ExpirePending:Error:", err)
		return err
	}
	return nil
}

// UpsertFeedback keeps one feedback row per suggestion. A submission
// overwrites the stub recorded on accept.
func (r *recommendationRepository) UpsertFeedback(ctx context.Context, feedback *entity.SuggestionFeedback) (*entity.SuggestionFeedback, error) {
	query := `
		INSERT INTO suggestion_feedback (suggestion_id, user_id, helpful, mood_after, comment)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (suggestion_id) DO UPDATE
		SET helpful = EXCLUDED.helpful, mood_after = EXCLUDED.mood_after, comment = EXCLUDED.comment, updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(
		ctx, query,
		feedback.SuggestionID, feedback.UserID, feedback.Helpful, feedback.MoodAfter, feedback.Comment,
	).Scan(&feedback.ID, &feedback.CreatedAt, &feedback.UpdatedAt)

	if err != nil {
		logger.Error("RecommendationRepository:UpsertFeedback:Error:", err)
		return nil, err
	}
	return feedback, nil
}

func (r *recommendationRepository) FeedbackStats(ctx context.Context, userID uuid.UUID) ([]entity.FeedbackStat, error) {
	query := `
		SELECT s.type,
		       COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE f.helpful) AS helpful_count,
		       AVG(f.mood_after) AS avg_mood_after
		FROM suggestion_feedback f
		JOIN schedule_suggestions s ON s.id = f.suggestion_id
		WHERE f.user_id = $1
		GROUP BY s.type
		ORDER BY s.type
	`
	var stats []entity.FeedbackStat
	if err := r.db.SelectContext(ctx, &stats, query, userID); err != nil {
		logger.Error("RecommendationRepository:FeedbackStats:Error:", err)
		return nil, err
	}
	return stats, nil
}
