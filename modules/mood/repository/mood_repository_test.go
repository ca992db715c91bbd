package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"wellness-planner/core/database"
	"wellness-planner/modules/mood/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (MoodRepository, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := database.NewFromSQLx(sqlx.NewDb(mockDB, "sqlmock"))
	return NewMoodRepository(db), mock
}

func TestMoodUpsert(t *testing.T) {
	repo, mock := newMockRepo(t)

	userID := uuid.New()
	entryID := uuid.New()
	date := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO daily_mood_entries")).
		WithArgs(userID, date, 4, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(entryID.String(), now, now))

	entry, err := repo.Upsert(context.Background(), &entity.DailyMoodEntry{
		UserID:    userID,
		EntryDate: date,
		Rating:    4,
	})

	require.NoError(t, err)
	assert.Equal(t, entryID, entry.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMoodGetByDate(t *testing.T) {
	repo, mock := newMockRepo(t)

	userID := uuid.New()
	date := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FROM daily_mood_entries")).
			WithArgs(userID, date).
			WillReturnRows(sqlmock.NewRows(
				[]string{"id", "user_id", "entry_date", "rating", "note", "created_at", "updated_at"}).
				AddRow(uuid.New().String(), userID.String(), date, 3, nil, now, now))

		entry, err := repo.GetByDate(context.Background(), userID, date)
		require.NoError(t, err)
		assert.Equal(t, 3, entry.Rating)
		assert.Equal(t, "2026-03-20", entry.Day())
	})

	t.Run("Missing", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FROM daily_mood_entries")).
			WithArgs(userID, date).
			WillReturnRows(sqlmock.NewRows(
				[]string{"id", "user_id", "entry_date", "rating", "note", "created_at", "updated_at"}))

		_, err := repo.GetByDate(context.Background(), userID, date)
		assert.Error(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMoodListRange(t *testing.T) {
	repo, mock := newMockRepo(t)

	userID := uuid.New()
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM daily_mood_entries")).
		WithArgs(userID, from, to).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "user_id", "entry_date", "rating", "note", "created_at", "updated_at"}).
			AddRow(uuid.New().String(), userID.String(), from, 2, nil, now, now).
			AddRow(uuid.New().String(), userID.String(), from.AddDate(0, 0, 1), 5, nil, now, now))

	entries, err := repo.ListRange(context.Background(), userID, from, to)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 2, entries[0].Rating)
	assert.Equal(t, 5, entries[1].Rating)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMoodDelete(t *testing.T) {
	repo, mock := newMockRepo(t)

	userID := uuid.New()
	date := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM daily_mood_entries")).
		WithArgs(userID, date).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), userID, date)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListUsersWithoutEntry(t *testing.T) {
	repo, mock := newMockRepo(t)

	date := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	missing := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users u")).
		WithArgs(date).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(missing.String()))

	userIDs, err := repo.ListUsersWithoutEntry(context.Background(), date)
	require.NoError(t, err)
	require.Len(t, userIDs, 1)
	assert.Equal(t, missing, userIDs[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}
