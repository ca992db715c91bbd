package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"wellness-planner/core/errors"
	"wellness-planner/modules/mood/dto"
	"wellness-planner/modules/mood/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMoodRepo struct {
	entries map[string]*entity.DailyMoodEntry
	deleted []string
}

func newFakeMoodRepo() *fakeMoodRepo {
	return &fakeMoodRepo{entries: map[string]*entity.DailyMoodEntry{}}
}

func (f *fakeMoodRepo) Upsert(_ context.Context, entry *entity.DailyMoodEntry) (*entity.DailyMoodEntry, error) {
	entry.ID = uuid.New()
	f.entries[entry.Day()] = entry
	return entry, nil
}

func (f *fakeMoodRepo) GetByDate(_ context.Context, _ uuid.UUID, date time.Time) (*entity.DailyMoodEntry, error) {
	entry, ok := f.entries[date.Format("2006-01-02")]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return entry, nil
}

func (f *fakeMoodRepo) ListRange(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]entity.DailyMoodEntry, error) {
	return nil, nil
}

func (f *fakeMoodRepo) Delete(_ context.Context, _ uuid.UUID, date time.Time) error {
	day := date.Format("2006-01-02")
	delete(f.entries, day)
	f.deleted = append(f.deleted, day)
	return nil
}

func (f *fakeMoodRepo) ListUsersWithoutEntry(_ context.Context, _ time.Time) ([]uuid.UUID, error) {
	return nil, nil
}

type fakeCache struct {
	deletedKeys []string
}

func (f *fakeCache) Get(context.Context, string) (string, error)               { return "", nil }
func (f *fakeCache) Set(context.Context, string, string, time.Duration) error  { return nil }
func (f *fakeCache) Expire(context.Context, string, time.Duration) error       { return nil }
func (f *fakeCache) AddToTokenBlacklist(context.Context, string) error         { return nil }
func (f *fakeCache) IsTokenBlacklisted(context.Context, string) (bool, error)  { return false, nil }
func (f *fakeCache) IncrementLoginAttempt(context.Context, string) error       { return nil }
func (f *fakeCache) IsLoginBlocked(context.Context, string) (bool, error)      { return false, nil }

func (f *fakeCache) Del(_ context.Context, keys ...string) error {
	f.deletedKeys = append(f.deletedKeys, keys...)
	return nil
}

func TestMoodUpsertValidation(t *testing.T) {
	userID := uuid.New()
	ctx := context.Background()
	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")

	t.Run("Valid Entry", func(t *testing.T) {
		repo := newFakeMoodRepo()
		cache := &fakeCache{}
		svc := NewMoodService(repo, cache)

		entry, appErr := svc.Upsert(ctx, userID, &dto.UpsertMoodRequest{Date: yesterday, Rating: 4})
		require.Nil(t, appErr)
		assert.Equal(t, 4, entry.Rating)
		assert.Equal(t, yesterday, entry.Day())
		// the monthly summary cache is invalidated on write
		assert.NotEmpty(t, cache.deletedKeys)
	})

	t.Run("Second Write Wins", func(t *testing.T) {
		repo := newFakeMoodRepo()
		svc := NewMoodService(repo, &fakeCache{})

		_, appErr := svc.Upsert(ctx, userID, &dto.UpsertMoodRequest{Date: yesterday, Rating: 2})
		require.Nil(t, appErr)
		entry, appErr := svc.Upsert(ctx, userID, &dto.UpsertMoodRequest{Date: yesterday, Rating: 5})
		require.Nil(t, appErr)

		assert.Equal(t, 5, entry.Rating)
		assert.Equal(t, 5, repo.entries[yesterday].Rating)
	})

	t.Run("Future Date Rejected", func(t *testing.T) {
		svc := NewMoodService(newFakeMoodRepo(), &fakeCache{})
		future := time.Now().UTC().AddDate(0, 0, 2).Format("2006-01-02")

		_, appErr := svc.Upsert(ctx, userID, &dto.UpsertMoodRequest{Date: future, Rating: 3})
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
	})

	t.Run("Rating Bounds", func(t *testing.T) {
		svc := NewMoodService(newFakeMoodRepo(), &fakeCache{})

		for _, rating := range []int{0, 6, -1} {
			_, appErr := svc.Upsert(ctx, userID, &dto.UpsertMoodRequest{Date: yesterday, Rating: rating})
			require.NotNil(t, appErr)
			assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
		}
	})

	t.Run("Malformed Date Rejected", func(t *testing.T) {
		svc := NewMoodService(newFakeMoodRepo(), &fakeCache{})
		_, appErr := svc.Upsert(ctx, userID, &dto.UpsertMoodRequest{Date: "20-03-2026", Rating: 3})
		require.NotNil(t, appErr)
	})
}

func TestMoodGetAndDelete(t *testing.T) {
	userID := uuid.New()
	ctx := context.Background()
	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")

	t.Run("Get Missing Entry", func(t *testing.T) {
		svc := NewMoodService(newFakeMoodRepo(), &fakeCache{})
		_, appErr := svc.GetByDate(ctx, userID, yesterday)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrNotFound, appErr.Code)
	})

	t.Run("Delete Missing Entry", func(t *testing.T) {
		svc := NewMoodService(newFakeMoodRepo(), &fakeCache{})
		appErr := svc.Delete(ctx, userID, yesterday)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrNotFound, appErr.Code)
	})

	t.Run("Delete Existing Entry", func(t *testing.T) {
		repo := newFakeMoodRepo()
		svc := NewMoodService(repo, &fakeCache{})

		_, appErr := svc.Upsert(ctx, userID, &dto.UpsertMoodRequest{Date: yesterday, Rating: 3})
		require.Nil(t, appErr)
		require.Nil(t, svc.Delete(ctx, userID, yesterday))
		assert.Equal(t, []string{yesterday}, repo.deleted)
	})
}

func TestListMonthValidation(t *testing.T) {
	svc := NewMoodService(newFakeMoodRepo(), &fakeCache{})

	_, appErr := svc.ListMonth(context.Background(), uuid.New(), 2026, 13)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)

	entries, appErr := svc.ListMonth(context.Background(), uuid.New(), 2026, 3)
	require.Nil(t, appErr)
	assert.NotNil(t, entries)
}
