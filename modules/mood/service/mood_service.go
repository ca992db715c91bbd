package service

import (
	"context"
	"database/sql"
	"time"

	"wellness-planner/core/cache"
	"wellness-planner/core/constants"
	"wellness-planner/core/errors"
	"wellness-planner/core/logger"
	"wellness-planner/core/utils"
	"wellness-planner/modules/mood/dto"
	"wellness-planner/modules/mood/entity"
	"wellness-planner/modules/mood/repository"

	"github.com/google/uuid"
)

type MoodService interface {
	Upsert(ctx context.Context, userID uuid.UUID, req *dto.UpsertMoodRequest) (*entity.DailyMoodEntry, *errors.AppError)
	GetByDate(ctx context.Context, userID uuid.UUID, date string) (*entity.DailyMoodEntry, *errors.AppError)
	ListMonth(ctx context.Context, userID uuid.UUID, year int, month int) ([]entity.DailyMoodEntry, *errors.AppError)
	Delete(ctx context.Context, userID uuid.UUID, date string) *errors.AppError
}

type moodService struct {
	repo  repository.MoodRepository
	cache cache.Cache
}

func NewMoodService(repo repository.MoodRepository, cache cache.Cache) MoodService {
	return &moodService{repo: repo, cache: cache}
}

func (s *moodService) Upsert(ctx context.Context, userID uuid.UUID, req *dto.UpsertMoodRequest) (*entity.DailyMoodEntry, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	date, appErr := parseDay(req.Date)
	if appErr != nil {
		return nil, appErr
	}
	if date.After(today()) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Cannot log mood for a future date", nil)
	}
	if req.Rating < constants.MoodRatingMin || req.Rating > constants.MoodRatingMax {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Rating must be between 1 and 5", nil)
	}

	entry := &entity.DailyMoodEntry{
		UserID:    userID,
		EntryDate: date,
		Rating:    req.Rating,
		Note:      req.Note,
	}

	saved, err := s.repo.Upsert(ctx, entry)
	if err != nil {
		logger.Error("MoodService:Upsert:Error:", err)
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to save mood entry", err)
	}

	s.invalidateSummary(ctx, userID, date)
	return saved, nil
}

func (s *moodService) GetByDate(ctx context.Context, userID uuid.UUID, rawDate string) (*entity.DailyMoodEntry, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	date, appErr := parseDay(rawDate)
	if appErr != nil {
		return nil, appErr
	}

	entry, err := s.repo.GetByDate(ctx, userID, date)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewAppError(errors.ErrNotFound, "No mood entry for this date", nil)
		}
		logger.Error("MoodService:GetByDate:Error:", err)
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load mood entry", err)
	}
	return entry, nil
}

func (s *moodService) ListMonth(ctx context.Context, userID uuid.UUID, year int, month int) ([]entity.DailyMoodEntry, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if month < 1 || month > 12 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Month must be between 1 and 12", nil)
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	entries, err := s.repo.ListRange(ctx, userID, from, to)
	if err != nil {
		logger.Error("MoodService:ListMonth:Error:", err)
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list mood entries", err)
	}
	if entries == nil {
		entries = []entity.DailyMoodEntry{}
	}
	return entries, nil
}

func (s *moodService) Delete(ctx context.Context, userID uuid.UUID, rawDate string) *errors.AppError {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	date, appErr := parseDay(rawDate)
	if appErr != nil {
		return appErr
	}

	if _, err := s.repo.GetByDate(ctx, userID, date); err != nil {
		if err == sql.ErrNoRows {
			return errors.NewAppError(errors.ErrNotFound, "No mood entry for this date", nil)
		}
		logger.Error("MoodService:Delete:Get:Error:", err)
		return errors.NewAppError(errors.ErrGetFailed, "Failed to load mood entry", err)
	}

	if err := s.repo.Delete(ctx, userID, date); err != nil {
		logger.Error("MoodService:Delete:Error:", err)
		return errors.NewAppError(errors.ErrDeleteFailed, "Failed to delete mood entry", err)
	}

	s.invalidateSummary(ctx, userID, date)
	return nil
}

func (s *moodService) invalidateSummary(ctx context.Context, userID uuid.UUID, date time.Time) {
	key := utils.WellnessSummaryKey(userID, date.Year(), int(date.Month()))
	if err := s.cache.Del(ctx, key); err != nil {
		logger.Warn("MoodService:invalidateSummary:Error:", err)
	}
}

func parseDay(raw string) (time.Time, *errors.AppError) {
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, errors.NewAppError(errors.ErrInvalidInput, "Date must be formatted YYYY-MM-DD", nil)
	}
	return date, nil
}

func today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}
