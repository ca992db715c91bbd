package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"wellness-planner/core/errors"
	"wellness-planner/core/params"
	categoryentity "wellness-planner/modules/category/entity"
	"wellness-planner/modules/event/dto"
	"wellness-planner/modules/event/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEventRepo struct {
	byID        map[uuid.UUID]*entity.Event
	overlapping []entity.Event
	between     []entity.Event
	statusSet   map[uuid.UUID]entity.EventStatus
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		byID:      map[uuid.UUID]*entity.Event{},
		statusSet: map[uuid.UUID]entity.EventStatus{},
	}
}

func (f *fakeEventRepo) Create(_ context.Context, event *entity.Event) (*entity.Event, error) {
	event.ID = uuid.New()
	f.byID[event.ID] = event
	return event, nil
}

func (f *fakeEventRepo) GetByID(_ context.Context, id uuid.UUID, _ uuid.UUID) (*entity.Event, error) {
	event, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *event
	return &copied, nil
}

func (f *fakeEventRepo) Update(_ context.Context, event *entity.Event) error {
	f.byID[event.ID] = event
	return nil
}

func (f *fakeEventRepo) SetStatus(_ context.Context, id uuid.UUID, _ uuid.UUID, status entity.EventStatus) error {
	f.statusSet[id] = status
	if event, ok := f.byID[id]; ok {
		event.Status = status
	}
	return nil
}

func (f *fakeEventRepo) SoftDelete(_ context.Context, id uuid.UUID, _ uuid.UUID) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeEventRepo) Restore(_ context.Context, id uuid.UUID, _ uuid.UUID) (*entity.Event, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeEventRepo) ListRange(_ context.Context, _ uuid.UUID, _ dto.ListEventsFilter, _ params.QueryParams) (*entity.PaginatedEventEntity, error) {
	return &entity.PaginatedEventEntity{}, nil
}

func (f *fakeEventRepo) ListBetween(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]entity.Event, error) {
	return f.between, nil
}

func (f *fakeEventRepo) ListOverlapping(_ context.Context, _ uuid.UUID, _, _ time.Time, _ *uuid.UUID) ([]entity.Event, error) {
	return f.overlapping, nil
}

func (f *fakeEventRepo) ListDeleted(_ context.Context, _ uuid.UUID, _ params.QueryParams) (*entity.PaginatedEventEntity, error) {
	return &entity.PaginatedEventEntity{}, nil
}

type stubCategoryRepo struct {
	byID map[uuid.UUID]*categoryentity.EventCategory
}

func (s *stubCategoryRepo) Create(_ context.Context, _ *categoryentity.EventCategory) (*categoryentity.EventCategory, error) {
	return nil, nil
}

func (s *stubCategoryRepo) GetByID(_ context.Context, id uuid.UUID) (*categoryentity.EventCategory, error) {
	category, ok := s.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return category, nil
}

func (s *stubCategoryRepo) ListForUser(_ context.Context, _ uuid.UUID) ([]categoryentity.EventCategory, error) {
	return nil, nil
}

func (s *stubCategoryRepo) ExistsByName(_ context.Context, _ uuid.UUID, _ string, _ *uuid.UUID) (bool, error) {
	return false, nil
}

func (s *stubCategoryRepo) Update(_ context.Context, _ *categoryentity.EventCategory) error { return nil }

func (s *stubCategoryRepo) SoftDelete(_ context.Context, _ uuid.UUID, _ uuid.UUID) error { return nil }

func (s *stubCategoryRepo) SeedDefaults(_ context.Context, _ []categoryentity.EventCategory) error {
	return nil
}

type noopCache struct{}

func (noopCache) Get(context.Context, string) (string, error)              { return "", nil }
func (noopCache) Set(context.Context, string, string, time.Duration) error { return nil }
func (noopCache) Del(context.Context, ...string) error                     { return nil }
func (noopCache) Expire(context.Context, string, time.Duration) error      { return nil }
func (noopCache) AddToTokenBlacklist(context.Context, string) error        { return nil }
func (noopCache) IsTokenBlacklisted(context.Context, string) (bool, error) { return false, nil }
func (noopCache) IncrementLoginAttempt(context.Context, string) error      { return nil }
func (noopCache) IsLoginBlocked(context.Context, string) (bool, error)     { return false, nil }

var eventDay = time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

func validCreate() *dto.CreateEventRequest {
	return &dto.CreateEventRequest{
		Title:     "Planning session",
		StartTime: eventDay.Add(9 * time.Hour),
		EndTime:   eventDay.Add(10 * time.Hour),
	}
}

func newEventTestService(repo *fakeEventRepo, categories *stubCategoryRepo) EventService {
	if categories == nil {
		categories = &stubCategoryRepo{byID: map[uuid.UUID]*categoryentity.EventCategory{}}
	}
	return NewEventService(repo, categories, noopCache{})
}

func TestEventCreate(t *testing.T) {
	userID := uuid.New()
	ctx := context.Background()

	t.Run("Defaults To Scheduled Normal", func(t *testing.T) {
		svc := newEventTestService(newFakeEventRepo(), nil)

		created, appErr := svc.Create(ctx, userID, validCreate())
		require.Nil(t, appErr)
		assert.Equal(t, entity.StatusScheduled, created.Status)
		assert.Equal(t, entity.PriorityNormal, created.Priority)
	})

	t.Run("Medium Priority Accepted", func(t *testing.T) {
		svc := newEventTestService(newFakeEventRepo(), nil)
		req := validCreate()
		req.Priority = string(entity.PriorityMedium)

		created, appErr := svc.Create(ctx, userID, req)
		require.Nil(t, appErr)
		assert.Equal(t, entity.PriorityMedium, created.Priority)
	})

	t.Run("Unknown Priority Rejected", func(t *testing.T) {
		svc := newEventTestService(newFakeEventRepo(), nil)
		req := validCreate()
		req.Priority = "critical"

		_, appErr := svc.Create(ctx, userID, req)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
	})

	t.Run("End Before Start Rejected", func(t *testing.T) {
		svc := newEventTestService(newFakeEventRepo(), nil)
		req := validCreate()
		req.StartTime, req.EndTime = req.EndTime, req.StartTime

		_, appErr := svc.Create(ctx, userID, req)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
	})

	t.Run("Overlap Rejected Without Force", func(t *testing.T) {
		repo := newFakeEventRepo()
		repo.overlapping = []entity.Event{{Title: "Existing"}}
		svc := newEventTestService(repo, nil)

		_, appErr := svc.Create(ctx, userID, validCreate())
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrAlreadyExists, appErr.Code)
	})

	t.Run("Force Skips Conflict Check", func(t *testing.T) {
		repo := newFakeEventRepo()
		repo.overlapping = []entity.Event{{Title: "Existing"}}
		svc := newEventTestService(repo, nil)

		req := validCreate()
		req.Force = true
		created, appErr := svc.Create(ctx, userID, req)
		require.Nil(t, appErr)
		assert.Equal(t, "Planning session", created.Title)
	})

	t.Run("Unknown Category Rejected", func(t *testing.T) {
		svc := newEventTestService(newFakeEventRepo(), nil)
		req := validCreate()
		missing := uuid.New()
		req.CategoryID = &missing

		_, appErr := svc.Create(ctx, userID, req)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
	})

	t.Run("System Category Accepted", func(t *testing.T) {
		categories := &stubCategoryRepo{byID: map[uuid.UUID]*categoryentity.EventCategory{}}
		systemID := uuid.New()
		categories.byID[systemID] = &categoryentity.EventCategory{Name: "Work", Slug: "work"}
		svc := newEventTestService(newFakeEventRepo(), categories)

		req := validCreate()
		req.CategoryID = &systemID
		_, appErr := svc.Create(ctx, userID, req)
		require.Nil(t, appErr)
	})

	t.Run("All Day Snaps To Midnight", func(t *testing.T) {
		svc := newEventTestService(newFakeEventRepo(), nil)
		req := validCreate()
		req.AllDay = true

		created, appErr := svc.Create(ctx, userID, req)
		require.Nil(t, appErr)
		assert.Equal(t, eventDay, created.StartTime)
		assert.Equal(t, eventDay.AddDate(0, 0, 1), created.EndTime)
	})
}

func TestEventTransitions(t *testing.T) {
	userID := uuid.New()
	ctx := context.Background()

	seed := func(repo *fakeEventRepo, status entity.EventStatus) uuid.UUID {
		event := &entity.Event{
			UserID:    userID,
			Title:     "Review",
			StartTime: eventDay.Add(9 * time.Hour),
			EndTime:   eventDay.Add(10 * time.Hour),
			Priority:  entity.PriorityNormal,
			Status:    status,
		}
		event.ID = uuid.New()
		repo.byID[event.ID] = event
		return event.ID
	}

	t.Run("Complete Scheduled", func(t *testing.T) {
		repo := newFakeEventRepo()
		id := seed(repo, entity.StatusScheduled)
		svc := newEventTestService(repo, nil)

		updated, appErr := svc.Complete(ctx, userID, id)
		require.Nil(t, appErr)
		assert.Equal(t, entity.StatusCompleted, updated.Status)
		assert.Equal(t, entity.StatusCompleted, repo.statusSet[id])
	})

	t.Run("Cancel Completed Rejected", func(t *testing.T) {
		repo := newFakeEventRepo()
		id := seed(repo, entity.StatusCompleted)
		svc := newEventTestService(repo, nil)

		_, appErr := svc.Cancel(ctx, userID, id)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
	})

	t.Run("Update Completed Rejected", func(t *testing.T) {
		repo := newFakeEventRepo()
		id := seed(repo, entity.StatusCompleted)
		svc := newEventTestService(repo, nil)

		title := "Renamed"
		_, appErr := svc.Update(ctx, userID, id, &dto.UpdateEventRequest{Title: &title})
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
	})

	t.Run("Missing Event", func(t *testing.T) {
		svc := newEventTestService(newFakeEventRepo(), nil)
		_, appErr := svc.Complete(ctx, userID, uuid.New())
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrNotFound, appErr.Code)
	})
}

func TestMonthView(t *testing.T) {
	userID := uuid.New()
	ctx := context.Background()

	t.Run("Invalid Month", func(t *testing.T) {
		svc := newEventTestService(newFakeEventRepo(), nil)
		_, appErr := svc.MonthView(ctx, userID, 2026, 0)
		require.NotNil(t, appErr)
	})

	t.Run("Multi Day Event Appears Every Day", func(t *testing.T) {
		repo := newFakeEventRepo()
		repo.between = []entity.Event{{
			Title:     "Conference",
			StartTime: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2026, 3, 12, 17, 0, 0, 0, time.UTC),
			Status:    entity.StatusScheduled,
		}}
		svc := newEventTestService(repo, nil)

		view, appErr := svc.MonthView(ctx, userID, 2026, 3)
		require.Nil(t, appErr)
		require.Len(t, view.Days, 31)

		withEvent := 0
		for _, day := range view.Days {
			withEvent += len(day.Events)
		}
		assert.Equal(t, 3, withEvent)
		assert.Len(t, view.Days[9].Events, 1)
		assert.Empty(t, view.Days[8].Events)
	})
}

func TestCheckConflicts(t *testing.T) {
	userID := uuid.New()
	ctx := context.Background()

	t.Run("Bad Interval", func(t *testing.T) {
		svc := newEventTestService(newFakeEventRepo(), nil)
		_, appErr := svc.CheckConflicts(ctx, userID, eventDay, eventDay, nil)
		require.NotNil(t, appErr)
	})

	t.Run("Reports Conflicts", func(t *testing.T) {
		repo := newFakeEventRepo()
		repo.overlapping = []entity.Event{{Title: "Existing"}}
		svc := newEventTestService(repo, nil)

		resp, appErr := svc.CheckConflicts(ctx, userID, eventDay, eventDay.Add(time.Hour), nil)
		require.Nil(t, appErr)
		assert.True(t, resp.HasConflict)
		require.Len(t, resp.Conflicts, 1)
	})
}
