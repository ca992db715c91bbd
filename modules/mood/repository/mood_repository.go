package repository

import (
	"context"
	"time"

	"wellness-planner/core/database"
	"wellness-planner/core/logger"
	"wellness-planner/modules/mood/entity"

	"github.com/google/uuid"
)

type MoodRepository interface {
	Upsert(ctx context.Context, entry *entity.DailyMoodEntry) (*entity.DailyMoodEntry, error)
	GetByDate(ctx context.Context, userID uuid.UUID, date time.Time) (*entity.DailyMoodEntry, error)
	ListRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]entity.DailyMoodEntry, error)
	Delete(ctx context.Context, userID uuid.UUID, date time.Time) error
	ListUsersWithoutEntry(ctx context.Context, date time.Time) ([]uuid.UUID, error)
}

type moodRepository struct {
	db database.Database
}

func NewMoodRepository(db database.Database) MoodRepository {
	return &moodRepository{db: db}
}

// Upsert inserts the day's entry or overwrites an existing one. The second
// write of a day wins, keyed on (user_id, entry_date).
func (r *moodRepository) Upsert(ctx context.Context, entry *entity.DailyMoodEntry) (*entity.DailyMoodEntry, error) {
	query := `
		INSERT INTO daily_mood_entries (user_id, entry_date, rating, note)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, entry_date)
		DO UPDATE SET rating = EXCLUDED.rating, note = EXCLUDED.note, updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(
		ctx, query,
		entry.UserID, entry.EntryDate, entry.Rating, entry.Note,
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)

	if err != nil {
		logger.Error("MoodRepository:Upsert:Error:", err)
		return nil, err
	}
	return entry, nil
}

func (r *moodRepository) GetByDate(ctx context.Context, userID uuid.UUID, date time.Time) (*entity.DailyMoodEntry, error) {
	query := `
		SELECT id, user_id, entry_date, rating, note, created_at, updated_at
		FROM daily_mood_entries
		WHERE user_id = $1 AND entry_date = $2
	`
	var entry entity.DailyMoodEntry
	err := r.db.GetContext(ctx, &entry, query, userID, date)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *moodRepository) ListRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]entity.DailyMoodEntry, error) {
	query := `
		SELECT id, user_id, entry_date, rating, note, created_at, updated_at
		FROM daily_mood_entries
		WHERE user_id = $1 AND entry_date >= $2 AND entry_date < $3
		ORDER BY entry_date ASC
	`
	var entries []entity.DailyMoodEntry
	if err := r.db.SelectContext(ctx, &entries, query, userID, from, to); err != nil {
		logger.Error("MoodRepository:ListRange:Error:", err)
		return nil, err
	}
	return entries, nil
}

func (r *moodRepository) Delete(ctx context.Context, userID uuid.UUID, date time.Time) error {
	query := `DELETE FROM daily_mood_entries WHERE user_id = $1 AND entry_date = $2`
	return r.db.ExecContext(ctx, query, userID, date)
}

// ListUsersWithoutEntry finds active users missing a mood entry for the
// given day. Used by the evening reminder job.
func (r *moodRepository) ListUsersWithoutEntry(ctx context.Context, date time.Time) ([]uuid.UUID, error) {
	query := `
		SELECT u.id
		FROM users u
		WHERE u.is_active = true
		AND NOT EXISTS (
			SELECT 1 FROM daily_mood_entries m
			WHERE m.user_id = u.id AND m.entry_date = $1
		)
	`
	var userIDs []uuid.UUID
	if err := r.db.SelectContext(ctx, &userIDs, query, date); err != nil {
		logger.Error("MoodRepository:ListUsersWithoutEntry:Error:", err)
		return nil, err
	}
	return userIDs, nil
}
