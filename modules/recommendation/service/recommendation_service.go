package service

import (
	"context"
	"database/sql"
	"time"

	"wellness-planner/core/constants"
	"wellness-planner/core/errors"
	"wellness-planner/core/logger"
	eventrepository "wellness-planner/modules/event/repository"
	moodrepository "wellness-planner/modules/mood/repository"
	notificationdto "wellness-planner/modules/notification/dto"
	notificationservice "wellness-planner/modules/notification/service"
	"wellness-planner/modules/recommendation/dto"
	"wellness-planner/modules/recommendation/entity"
	"wellness-planner/modules/recommendation/repository"

	"github.com/google/uuid"
)

// moodLookbackDays feeds the low mood streak heuristic
const moodLookbackDays = 14

type RecommendationService interface {
	Generate(ctx context.Context, userID uuid.UUID, rawDate string) ([]entity.ScheduleSuggestion, *errors.AppError)
	List(ctx context.Context, userID uuid.UUID, status string) ([]entity.ScheduleSuggestion, *errors.AppError)
	Accept(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*entity.ScheduleSuggestion, *errors.AppError)
	Reject(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*entity.ScheduleSuggestion, *errors.AppError)
	Postpone(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*entity.ScheduleSuggestion, *errors.AppError)
	SubmitFeedback(ctx context.Context, userID uuid.UUID, id uuid.UUID, req *dto.FeedbackRequest) (*entity.SuggestionFeedback, *errors.AppError)
	FeedbackStats(ctx context.Context, userID uuid.UUID) ([]entity.FeedbackStat, *errors.AppError)
	ExpireStale(ctx context.Context) error
}

type recommendationService struct {
	repo            repository.RecommendationRepository
	eventRepo       eventrepository.EventRepository
	moodRepo        moodrepository.MoodRepository
	notificationSvc notificationservice.NotificationService
	engine          *Engine
}

func NewRecommendationService(
	repo repository.RecommendationRepository,
	eventRepo eventrepository.EventRepository,
	moodRepo moodrepository.MoodRepository,
	notificationSvc notificationservice.NotificationService,
) RecommendationService {
	return &recommendationService{
		repo:            repo,
		eventRepo:       eventRepo,
		moodRepo:        moodRepo,
		notificationSvc: notificationSvc,
		engine:          NewEngine(),
	}
}

// Generate runs the heuristics for one day. It is idempotent per day:
// a day that already has suggestions returns the empty set.
func (s *recommendationService) Generate(ctx context.Context, userID uuid.UUID, rawDate string) ([]entity.ScheduleSuggestion, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	day := time.Now().UTC().Truncate(24 * time.Hour)
	if rawDate != "" {
		parsed, err := time.Parse("2006-01-02", rawDate)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Date must be formatted YYYY-MM-DD", nil)
		}
		day = parsed
	}

	existing, err := s.repo.CountForDate(ctx, userID, day)
	if err != nil {
		logger.Error("RecommendationService:Generate:CountForDate:Error:", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to check existing suggestions", err)
	}
	if existing > 0 {
		return []entity.ScheduleSuggestion{}, nil
	}

	events, err := s.eventRepo.ListBetween(ctx, userID, day, day.AddDate(0, 0, 1))
	if err != nil {
		logger.Error("RecommendationService:Generate:Events:Error:", err)
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load events", err)
	}
	// include the day itself so its own entry can gate the heuristics
	moods, err := s.moodRepo.ListRange(ctx, userID, day.AddDate(0, 0, -moodLookbackDays), day.AddDate(0, 0, 1))
	if err != nil {
		logger.Error("RecommendationService:Generate:Moods:Error:", err)
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load mood history", err)
	}

	drafts := s.engine.SuggestForDay(day, events, moods)

	saved := make([]entity.ScheduleSuggestion, 0, len(drafts))
	for i := range drafts {
		drafts[i].UserID = userID
		drafts[i].Status = entity.StatusPending
		created, err := s.repo.CreateSuggestion(ctx, &drafts[i])
		if err != nil {
			logger.Error("RecommendationService:Generate:Create:Error:", err)
			return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to save suggestions", err)
		}
		saved = append(saved, *created)
	}

	if len(saved) > 0 {
		s.notify(ctx, userID, len(saved), day)
	}
	return saved, nil
}

func (s *recommendationService) List(ctx context.Context, userID uuid.UUID, status string) ([]entity.ScheduleSuggestion, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if status != "" && !validStatus(entity.SuggestionStatus(status)) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid status filter", nil)
	}

	suggestions, err := s.repo.ListSuggestions(ctx, userID, entity.SuggestionStatus(status))
	if err != nil {
		logger.Error("RecommendationService:List:Error:", err)
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list suggestions", err)
	}

	// a pending suggestion whose event was deleted expires at read
	result := make([]entity.ScheduleSuggestion, 0, len(suggestions))
	for i := range suggestions {
		suggestion := suggestions[i]
		if suggestion.Status == entity.StatusPending && suggestion.EventID != nil {
			if _, err := s.eventRepo.GetByID(ctx, *suggestion.EventID, userID); err != nil {
				if err != sql.ErrNoRows {
					logger.Error("RecommendationService:List:Event:Error:", err)
					return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to check suggestion events", err)
				}
				if uerr := s.repo.UpdateStatus(ctx, suggestion.ID, userID, entity.StatusExpired); uerr != nil {
					logger.Warn("RecommendationService:List:Expire:Error:", uerr)
				}
				suggestion.Status = entity.StatusExpired
				if entity.SuggestionStatus(status) == entity.StatusPending {
					continue
				}
			}
		}
		result = append(result, suggestion)
	}
	return result, nil
}

// Accept transitions the suggestion and records a feedback stub. The
// stub marks it helpful until the user submits real feedback.
func (s *recommendationService) Accept(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*entity.ScheduleSuggestion, *errors.AppError) {
	suggestion, appErr := s.transition(ctx, userID, id, entity.StatusAccepted)
	if appErr != nil {
		return nil, appErr
	}

	stub := &entity.SuggestionFeedback{SuggestionID: id, UserID: userID, Helpful: true}
	if _, err := s.repo.UpsertFeedback(ctx, stub); err != nil {
		logger.Warn("RecommendationService:Accept:FeedbackStub:Error:", err)
	}
	return suggestion, nil
}

func (s *recommendationService) Reject(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*entity.ScheduleSuggestion, *errors.AppError) {
	return s.transition(ctx, userID, id, entity.StatusRejected)
}

// Postpone closes the suggestion and re-creates it as pending for the
// next day.
func (s *recommendationService) Postpone(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*entity.ScheduleSuggestion, *errors.AppError) {
	suggestion, appErr := s.transition(ctx, userID, id, entity.StatusPostponed)
	if appErr != nil {
		return nil, appErr
	}

	clone := &entity.ScheduleSuggestion{
		UserID:     userID,
		EventID:    suggestion.EventID,
		Type:       suggestion.Type,
		Message:    suggestion.Message,
		TargetDate: suggestion.TargetDate.AddDate(0, 0, 1),
		Score:      suggestion.Score,
		Status:     entity.StatusPending,
	}
	if _, err := s.repo.CreateSuggestion(ctx, clone); err != nil {
		logger.Error("RecommendationService:Postpone:Clone:Error:", err)
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to postpone suggestion", err)
	}
	return suggestion, nil
}

// SubmitFeedback records the user's verdict on an acted-on suggestion.
// It replaces the stub written on accept.
func (s *recommendationService) SubmitFeedback(ctx context.Context, userID uuid.UUID, id uuid.UUID, req *dto.FeedbackRequest) (*entity.SuggestionFeedback, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if req.MoodAfter != nil && (*req.MoodAfter < constants.MoodRatingMin || *req.MoodAfter > constants.MoodRatingMax) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Mood rating must be between 1 and 5", nil)
	}

	suggestion, appErr := s.getOwned(ctx, userID, id)
	if appErr != nil {
		return nil, appErr
	}
	if suggestion.Status == entity.StatusPending || suggestion.Status == entity.StatusExpired {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Feedback requires an accepted, rejected or postponed suggestion", nil)
	}

	feedback := &entity.SuggestionFeedback{
		SuggestionID: id,
		UserID:       userID,
		Helpful:      req.Helpful,
		MoodAfter:    req.MoodAfter,
		Comment:      req.Comment,
	}
	saved, err := s.repo.UpsertFeedback(ctx, feedback)
	if err != nil {
		logger.Error("RecommendationService:SubmitFeedback:Error:", err)
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to save feedback", err)
	}
	return saved, nil
}

func (s *recommendationService) FeedbackStats(ctx context.Context, userID uuid.UUID) ([]entity.FeedbackStat, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	stats, err := s.repo.FeedbackStats(ctx, userID)
	if err != nil {
		logger.Error("RecommendationService:FeedbackStats:Error:", err)
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load feedback stats", err)
	}
	if stats == nil {
		stats = []entity.FeedbackStat{}
	}
	return stats, nil
}

// ExpireStale sweeps pending suggestions whose day has passed. Called by
// the nightly job before generating fresh ones.
func (s *recommendationService) ExpireStale(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()
	return s.repo.ExpirePending(ctx, time.Now().UTC().Truncate(24*time.Hour))
}

func (s *recommendationService) transition(ctx context.Context, userID uuid.UUID, id uuid.UUID, status entity.SuggestionStatus) (*entity.ScheduleSuggestion, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	suggestion, appErr := s.getOwned(ctx, userID, id)
	if appErr != nil {
		return nil, appErr
	}
	if suggestion.Status != entity.StatusPending {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Only pending suggestions can change status", nil)
	}

	if err := s.repo.UpdateStatus(ctx, id, userID, status); err != nil {
		logger.Error("RecommendationService:transition:Error:", err)
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "Failed to update suggestion", err)
	}
	suggestion.Status = status
	return suggestion, nil
}

func (s *recommendationService) getOwned(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*entity.ScheduleSuggestion, *errors.AppError) {
	suggestion, err := s.repo.GetSuggestionByID(ctx, id, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewAppError(errors.ErrNotFound, "Suggestion not found", nil)
		}
		logger.Error("RecommendationService:getOwned:Error:", err)
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load suggestion", err)
	}
	return suggestion, nil
}

func (s *recommendationService) notify(ctx context.Context, userID uuid.UUID, count int, day time.Time) {
	if s.notificationSvc == nil {
		return
	}
	err := s.notificationSvc.Create(ctx, &notificationdto.CreateNotificationRequest{
		UserID:  userID,
		Title:   "New schedule suggestions",
		Message: "Your planner has fresh suggestions for " + day.Format("2006-01-02") + ".",
		Type:    "suggestion_ready",
		Data:    map[string]any{"count": count, "date": day.Format("2006-01-02")},
	})
	if err != nil {
		logger.Warn("RecommendationService:notify:Error:", err)
	}
}

func validStatus(status entity.SuggestionStatus) bool {
	switch status {
	case entity.StatusPending, entity.StatusAccepted, entity.StatusRejected, entity.StatusPostponed, entity.StatusExpired:
		return true
	}
	return false
}
