package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"wellness-planner/core/cache"
	"wellness-planner/core/constants"
	"wellness-planner/core/errors"
	"wellness-planner/core/logger"
	"wellness-planner/core/params"
	"wellness-planner/core/utils"
	categoryrepository "wellness-planner/modules/category/repository"
	"wellness-planner/modules/event/dto"
	"wellness-planner/modules/event/entity"
	"wellness-planner/modules/event/repository"

	"github.com/google/uuid"
)

type EventService interface {
	Create(ctx context.Context, userID uuid.UUID, req *dto.CreateEventRequest) (*entity.Event, *errors.AppError)
	Get(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*entity.Event, *errors.AppError)
	Update(ctx context.Context, userID uuid.UUID, id uuid.UUID, req *dto.UpdateEventRequest) (*entity.Event, *errors.AppError)
	Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) *errors.AppError
	Restore(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*entity.Event, *errors.AppError)
	Complete(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*entity.Event, *errors.AppError)
	Cancel(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*entity.Event, *errors.AppError)
	List(ctx context.Context, userID uuid.UUID, filter dto.ListEventsFilter, queryParams params.QueryParams) (*entity.PaginatedEventEntity, *errors.AppError)
	ListDeleted(ctx context.Context, userID uuid.UUID, queryParams params.QueryParams) (*entity.PaginatedEventEntity, *errors.AppError)
	MonthView(ctx context.Context, userID uuid.UUID, year int, month int) (*dto.MonthViewResponse, *errors.AppError)
	CheckConflicts(ctx context.Context, userID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (*dto.ConflictCheckResponse, *errors.AppError)
}

type eventService struct {
	repo         repository.EventRepository
	categoryRepo categoryrepository.CategoryRepository
	cache        cache.Cache
}

func NewEventService(repo repository.EventRepository, categoryRepo categoryrepository.CategoryRepository, cache cache.Cache) EventService {
	return &eventService{
		repo:         repo,
		categoryRepo: categoryRepo,
		cache:        cache,
	}
}

func (s *eventService) Create(ctx context.Context, userID uuid.UUID, req *dto.CreateEventRequest) (*entity.Event, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	event := &entity.Event{
		UserID:      userID,
		CategoryID:  req.CategoryID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Location:    req.Location,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		AllDay:      req.AllDay,
		Priority:    entity.EventPriority(req.Priority),
		Status:      entity.StatusScheduled,
	}
	if event.Priority == "" {
		event.Priority = entity.PriorityNormal
	}
	if event.AllDay {
		normalizeAllDay(event)
	}

	if appErr := s.validate(ctx, userID, event); appErr != nil {
		return nil, appErr
	}

	if !req.Force {
		if appErr := s.rejectOnConflict(ctx, userID, event.StartTime, event.EndTime, nil); appErr != nil {
			return nil, appErr
		}
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		logger.Error("EventService:Create:Error:", err)
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to create event", err)
	}

	s.invalidateSummaries(ctx, userID, created.StartTime, created.EndTime)
	return created, nil
}

func (s *eventService) Get(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*entity.Event, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()
	return s.getOwned(ctx, userID, id)
}

func (s *eventService) Update(ctx context.Context, userID uuid.UUID, id uuid.UUID, req *dto.UpdateEventRequest) (*entity.Event, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	event, appErr := s.getOwned(ctx, userID, id)
	if appErr != nil {
		return nil, appErr
	}
	if event.Status != entity.StatusScheduled {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Only scheduled events can be edited", nil)
	}

	oldStart, oldEnd := event.StartTime, event.EndTime

	if req.Title != nil {
		event.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		event.Description = req.Description
	}
	if req.Location != nil {
		event.Location = req.Location
	}
	if req.CategoryID != nil {
		event.CategoryID = req.CategoryID
	}
	if req.StartTime != nil {
		event.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		event.EndTime = *req.EndTime
	}
	if req.AllDay != nil {
		event.AllDay = *req.AllDay
	}
	if req.Priority != nil {
		event.Priority = entity.EventPriority(*req.Priority)
	}
	if event.AllDay {
		normalizeAllDay(event)
	}

	if appErr := s.validate(ctx, userID, event); appErr != nil {
		return nil, appErr
	}

	timeChanged := !event.StartTime.Equal(oldStart) || !event.EndTime.Equal(oldEnd)
	if timeChanged && !req.Force {
		if appErr := s.rejectOnConflict(ctx, userID, event.StartTime, event.EndTime, &id); appErr != nil {
			return nil, appErr
		}
	}

	if err := s.repo.Update(ctx, event); err != nil {
		logger.Error("EventService:Update:Error:", err)
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "Failed to update event", err)
	}

	s.invalidateSummaries(ctx, userID, oldStart, oldEnd)
	s.invalidateSummaries(ctx, userID, event.StartTime, event.EndTime)
	return event, nil
}

func (s *eventService) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) *errors.AppError {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	event, appErr := s.getOwned(ctx, userID, id)
	if appErr != nil {
		return appErr
	}

	if err := s.repo.SoftDelete(ctx, id, userID); err != nil {
		logger.Error("EventService:Delete:Error:", err)
		return errors.NewAppError(errors.ErrDeleteFailed, "Failed to delete event", err)
	}

	s.invalidateSummaries(ctx, userID, event.StartTime, event.EndTime)
	return nil
}

func (s *eventService) Restore(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*entity.Event, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	event, err := s.repo.Restore(ctx, id, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewAppError(errors.ErrNotFound, "Deleted event not found", nil)
		}
		logger.Error("EventService:Restore:Error:", err)
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "Failed to restore event", err)
	}

	s.invalidateSummaries(ctx, userID, event.StartTime, event.EndTime)
	return event, nil
}

func (s *eventService) Complete(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*entity.Event, *errors.AppError) {
	return s.transition(ctx, userID, id, entity.StatusCompleted)
}

func (s *eventService) Cancel(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*entity.Event, *errors.AppError) {
	return s.transition(ctx, userID, id, entity.StatusCancelled)
}

func (s *eventService) List(ctx context.Context, userID uuid.UUID, filter dto.ListEventsFilter, queryParams params.QueryParams) (*entity.PaginatedEventEntity, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if filter.Status != "" && !entity.EventStatus(filter.Status).ValidStatus() {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid status filter", nil)
	}
	if filter.Priority != "" && !entity.EventPriority(filter.Priority).Valid() {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid priority filter", nil)
	}

	result, err := s.repo.ListRange(ctx, userID, filter, queryParams)
	if err != nil {
		logger.Error("EventService:List:Error:", err)
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list events", err)
	}
	if result.Items == nil {
		result.Items = []entity.Event{}
	}
	return result, nil
}

func (s *eventService) ListDeleted(ctx context.Context, userID uuid.UUID, queryParams params.QueryParams) (*entity.PaginatedEventEntity, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	result, err := s.repo.ListDeleted(ctx, userID, queryParams)
	if err != nil {
		logger.Error("EventService:ListDeleted:Error:", err)
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list deleted events", err)
	}
	if result.Items == nil {
		result.Items = []entity.Event{}
	}
	return result, nil
}

// MonthView groups the month's events by calendar day. Multi-day events
// appear under every day they touch.
func (s *eventService) MonthView(ctx context.Context, userID uuid.UUID, year int, month int) (*dto.MonthViewResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if month < 1 || month > 12 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Month must be between 1 and 12", nil)
	}

	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	events, err := s.repo.ListBetween(ctx, userID, monthStart, monthEnd)
	if err != nil {
		logger.Error("EventService:MonthView:Error:", err)
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load month view", err)
	}

	resp := &dto.MonthViewResponse{Year: year, Month: month}
	for day := monthStart; day.Before(monthEnd); day = day.AddDate(0, 0, 1) {
		dayEnd := day.AddDate(0, 0, 1)
		entry := dto.MonthViewDay{Date: day.Format("2006-01-02"), Events: []entity.Event{}}
		for i := range events {
			if events[i].Overlaps(day, dayEnd) {
				entry.Events = append(entry.Events, events[i])
			}
		}
		resp.Days = append(resp.Days, entry)
	}
	return resp, nil
}

func (s *eventService) CheckConflicts(ctx context.Context, userID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (*dto.ConflictCheckResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if !end.After(start) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "End time must be after start time", nil)
	}

	conflicts, err := s.repo.ListOverlapping(ctx, userID, start, end, excludeID)
	if err != nil {
		logger.Error("EventService:CheckConflicts:Error:", err)
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to check conflicts", err)
	}
	if conflicts == nil {
		conflicts = []entity.Event{}
	}
	return &dto.ConflictCheckResponse{
		HasConflict: len(conflicts) > 0,
		Conflicts:   conflicts,
	}, nil
}

func (s *eventService) transition(ctx context.Context, userID uuid.UUID, id uuid.UUID, status entity.EventStatus) (*entity.Event, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	event, appErr := s.getOwned(ctx, userID, id)
	if appErr != nil {
		return nil, appErr
	}
	if event.Status != entity.StatusScheduled {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Only scheduled events can change status", nil)
	}

	if err := s.repo.SetStatus(ctx, id, userID, status); err != nil {
		logger.Error("EventService:transition:Error:", err)
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "Failed to update event status", err)
	}
	event.Status = status

	s.invalidateSummaries(ctx, userID, event.StartTime, event.EndTime)
	return event, nil
}

func (s *eventService) getOwned(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*entity.Event, *errors.AppError) {
	event, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
		}
		logger.Error("EventService:getOwned:Error:", err)
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load event", err)
	}
	return event, nil
}

func (s *eventService) validate(ctx context.Context, userID uuid.UUID, event *entity.Event) *errors.AppError {
	if event.Title == "" {
		return errors.NewAppError(errors.ErrInvalidInput, "Title is required", nil)
	}
	if event.StartTime.IsZero() || event.EndTime.IsZero() {
		return errors.NewAppError(errors.ErrInvalidInput, "Start and end time are required", nil)
	}
	if !event.EndTime.After(event.StartTime) {
		return errors.NewAppError(errors.ErrInvalidInput, "End time must be after start time", nil)
	}
	if !event.Priority.Valid() {
		return errors.NewAppError(errors.ErrInvalidInput, "Priority must be low, medium, normal or high", nil)
	}
	if event.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *event.CategoryID)
		if err != nil {
			if err == sql.ErrNoRows {
				return errors.NewAppError(errors.ErrInvalidInput, "Category does not exist", nil)
			}
			logger.Error("EventService:validate:Category:Error:", err)
			return errors.NewAppError(errors.ErrInternalServer, "Failed to check category", err)
		}
		if !category.IsSystemDefault() && *category.UserID != userID {
			return errors.NewAppError(errors.ErrInvalidInput, "Category does not exist", nil)
		}
	}
	return nil
}

func (s *eventService) rejectOnConflict(ctx context.Context, userID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) *errors.AppError {
	conflicts, err := s.repo.ListOverlapping(ctx, userID, start, end, excludeID)
	if err != nil {
		logger.Error("EventService:rejectOnConflict:Error:", err)
		return errors.NewAppError(errors.ErrInternalServer, "Failed to check conflicts", err)
	}
	if len(conflicts) > 0 {
		return errors.NewAppError(errors.ErrAlreadyExists, "Event overlaps an existing scheduled event", nil)
	}
	return nil
}

// invalidateSummaries drops cached wellness summaries for the months an
// event touches so the next read recomputes them.
func (s *eventService) invalidateSummaries(ctx context.Context, userID uuid.UUID, start, end time.Time) {
	keys := []string{utils.WellnessSummaryKey(userID, start.Year(), int(start.Month()))}
	if end.Year() != start.Year() || end.Month() != start.Month() {
		keys = append(keys, utils.WellnessSummaryKey(userID, end.Year(), int(end.Month())))
	}
	if err := s.cache.Del(ctx, keys...); err != nil {
		logger.Warn("EventService:invalidateSummaries:Error:", err)
	}
}

// normalizeAllDay snaps an all-day event to midnight boundaries
func normalizeAllDay(event *entity.Event) {
	start := event.StartTime.Truncate(24 * time.Hour)
	end := event.EndTime.Truncate(24 * time.Hour)
	if !end.After(start) {
		end = start.AddDate(0, 0, 1)
	}
	event.StartTime = start
	event.EndTime = end
}
