package service

import (
	"context"
	"encoding/json"
	"time"

	"wellness-planner/core/cache"
	"wellness-planner/core/constants"
	"wellness-planner/core/errors"
	"wellness-planner/core/logger"
	"wellness-planner/core/utils"
	categoryrepository "wellness-planner/modules/category/repository"
	evententity "wellness-planner/modules/event/entity"
	eventrepository "wellness-planner/modules/event/repository"
	moodentity "wellness-planner/modules/mood/entity"
	moodrepository "wellness-planner/modules/mood/repository"
	"wellness-planner/modules/wellness/dto"

	"github.com/google/uuid"
)

type WellnessService interface {
	MonthlySummary(ctx context.Context, userID uuid.UUID, year int, month int) (*dto.MonthlySummary, *errors.AppError)
	CategoryImpact(ctx context.Context, userID uuid.UUID, days int) ([]dto.CategoryImpact, *errors.AppError)
	Productivity(ctx context.Context, userID uuid.UUID, days int) (*dto.ProductivityResponse, *errors.AppError)
}

type wellnessService struct {
	moodRepo     moodrepository.MoodRepository
	eventRepo    eventrepository.EventRepository
	categoryRepo categoryrepository.CategoryRepository
	cache        cache.Cache
	aggregator   *Aggregator
}

func NewWellnessService(
	moodRepo moodrepository.MoodRepository,
	eventRepo eventrepository.EventRepository,
	categoryRepo categoryrepository.CategoryRepository,
	cache cache.Cache,
) WellnessService {
	return &wellnessService{
		moodRepo:     moodRepo,
		eventRepo:    eventRepo,
		categoryRepo: categoryRepo,
		cache:        cache,
		aggregator:   NewAggregator(),
	}
}

// MonthlySummary serves from Redis when possible. Mood and event writers
// delete the key, so a hit is never stale.
func (s *wellnessService) MonthlySummary(ctx context.Context, userID uuid.UUID, year int, month int) (*dto.MonthlySummary, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if month < 1 || month > 12 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Month must be between 1 and 12", nil)
	}

	key := utils.WellnessSummaryKey(userID, year, month)
	if cached, err := s.cache.Get(ctx, key); err == nil && cached != "" {
		var summary dto.MonthlySummary
		if err := json.Unmarshal([]byte(cached), &summary); err == nil {
			return &summary, nil
		}
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	entries, events, appErr := s.load(ctx, userID, from, to)
	if appErr != nil {
		return nil, appErr
	}

	summary := s.aggregator.MonthlySummary(year, month, entries, events, time.Now().UTC())

	if raw, err := json.Marshal(summary); err == nil {
		if err := s.cache.Set(ctx, key, string(raw), constants.WellnessSummaryTTL); err != nil {
			logger.Warn("WellnessService:MonthlySummary:CacheSet:Error:", err)
		}
	}
	return &summary, nil
}

// CategoryImpact looks back over a trailing window, defaulting to 90 days
func (s *wellnessService) CategoryImpact(ctx context.Context, userID uuid.UUID, days int) ([]dto.CategoryImpact, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	from, to := trailingWindow(days, 90)
	entries, events, appErr := s.load(ctx, userID, from, to)
	if appErr != nil {
		return nil, appErr
	}

	impacts := s.aggregator.CategoryImpact(entries, events)
	s.fillCategoryNames(ctx, userID, impacts)
	return impacts, nil
}

func (s *wellnessService) Productivity(ctx context.Context, userID uuid.UUID, days int) (*dto.ProductivityResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	from, to := trailingWindow(days, 30)
	entries, events, appErr := s.load(ctx, userID, from, to)
	if appErr != nil {
		return nil, appErr
	}

	resp := s.aggregator.Productivity(entries, events)
	return &resp, nil
}

func (s *wellnessService) load(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]moodentity.DailyMoodEntry, []evententity.Event, *errors.AppError) {
	entries, err := s.moodRepo.ListRange(ctx, userID, from, to)
	if err != nil {
		logger.Error("WellnessService:load:Moods:Error:", err)
		return nil, nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load mood entries", err)
	}
	events, err := s.eventRepo.ListBetween(ctx, userID, from, to)
	if err != nil {
		logger.Error("WellnessService:load:Events:Error:", err)
		return nil, nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load events", err)
	}
	return entries, events, nil
}

func (s *wellnessService) fillCategoryNames(ctx context.Context, userID uuid.UUID, impacts []dto.CategoryImpact) {
	if len(impacts) == 0 {
		return
	}
	categories, err := s.categoryRepo.ListForUser(ctx, userID)
	if err != nil {
		logger.Warn("WellnessService:fillCategoryNames:Error:", err)
		return
	}
	names := make(map[string]string, len(categories))
	for i := range categories {
		names[categories[i].ID.String()] = categories[i].Name
	}
	for i := range impacts {
		impacts[i].CategoryName = names[impacts[i].CategoryID]
	}
}

func trailingWindow(days int, fallback int) (time.Time, time.Time) {
	if days <= 0 || days > 365 {
		days = fallback
	}
	to := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 1)
	return to.AddDate(0, 0, -days), to
}
