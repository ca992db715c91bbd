package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"wellness-planner/core/errors"
	"wellness-planner/core/params"
	eventdto "wellness-planner/modules/event/dto"
	evententity "wellness-planner/modules/event/entity"
	moodentity "wellness-planner/modules/mood/entity"
	notificationdto "wellness-planner/modules/notification/dto"
	notificationentity "wellness-planner/modules/notification/entity"
	"wellness-planner/modules/recommendation/dto"
	"wellness-planner/modules/recommendation/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSuggestionRepo struct {
	byID        map[uuid.UUID]*entity.ScheduleSuggestion
	countByDate map[string]int
	feedback    map[uuid.UUID]*entity.SuggestionFeedback
	created     []*entity.ScheduleSuggestion
	expiredAt   *time.Time
}

func newFakeSuggestionRepo() *fakeSuggestionRepo {
	return &fakeSuggestionRepo{
		byID:        map[uuid.UUID]*entity.ScheduleSuggestion{},
		countByDate: map[string]int{},
		feedback:    map[uuid.UUID]*entity.SuggestionFeedback{},
	}
}

func (f *fakeSuggestionRepo) CreateSuggestion(_ context.Context, suggestion *entity.ScheduleSuggestion) (*entity.ScheduleSuggestion, error) {
	suggestion.ID = uuid.New()
	f.byID[suggestion.ID] = suggestion
	f.created = append(f.created, suggestion)
	f.countByDate[suggestion.TargetDate.Format("2006-01-02")]++
	return suggestion, nil
}

func (f *fakeSuggestionRepo) GetSuggestionByID(_ context.Context, id uuid.UUID, _ uuid.UUID) (*entity.ScheduleSuggestion, error) {
	suggestion, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *suggestion
	return &copied, nil
}

func (f *fakeSuggestionRepo) ListSuggestions(_ context.Context, userID uuid.UUID, status entity.SuggestionStatus) ([]entity.ScheduleSuggestion, error) {
	var out []entity.ScheduleSuggestion
	for _, suggestion := range f.byID {
		if suggestion.UserID != userID {
			continue
		}
		if status != "" && suggestion.Status != status {
			continue
		}
		out = append(out, *suggestion)
	}
	return out, nil
}

func (f *fakeSuggestionRepo) UpdateStatus(_ context.Context, id uuid.UUID, _ uuid.UUID, status entity.SuggestionStatus) error {
	f.byID[id].Status = status
	return nil
}

func (f *fakeSuggestionRepo) CountForDate(_ context.Context, _ uuid.UUID, date time.Time) (int, error) {
	return f.countByDate[date.Format("2006-01-02")], nil
}

func (f *fakeSuggestionRepo) ExpirePending(_ context.Context, before time.Time) error {
	f.expiredAt = &before
	return nil
}

func (f *fakeSuggestionRepo) UpsertFeedback(_ context.Context, feedback *entity.SuggestionFeedback) (*entity.SuggestionFeedback, error) {
	if existing, ok := f.feedback[feedback.SuggestionID]; ok {
		feedback.ID = existing.ID
	} else {
		feedback.ID = uuid.New()
	}
	f.feedback[feedback.SuggestionID] = feedback
	return feedback, nil
}

func (f *fakeSuggestionRepo) FeedbackStats(_ context.Context, _ uuid.UUID) ([]entity.FeedbackStat, error) {
	return nil, nil
}

type stubEventRepo struct {
	between []evententity.Event
	byID    map[uuid.UUID]*evententity.Event
}

func (s *stubEventRepo) Create(_ context.Context, _ *evententity.Event) (*evententity.Event, error) {
	return nil, nil
}
func (s *stubEventRepo) GetByID(_ context.Context, id uuid.UUID, _ uuid.UUID) (*evententity.Event, error) {
	if event, ok := s.byID[id]; ok {
		return event, nil
	}
	return nil, sql.ErrNoRows
}
func (s *stubEventRepo) Update(_ context.Context, _ *evententity.Event) error { return nil }
func (s *stubEventRepo) SetStatus(_ context.Context, _ uuid.UUID, _ uuid.UUID, _ evententity.EventStatus) error {
	return nil
}
func (s *stubEventRepo) SoftDelete(_ context.Context, _ uuid.UUID, _ uuid.UUID) error { return nil }
func (s *stubEventRepo) Restore(_ context.Context, _ uuid.UUID, _ uuid.UUID) (*evententity.Event, error) {
	return nil, sql.ErrNoRows
}
func (s *stubEventRepo) ListRange(_ context.Context, _ uuid.UUID, _ eventdto.ListEventsFilter, _ params.QueryParams) (*evententity.PaginatedEventEntity, error) {
	return nil, nil
}
func (s *stubEventRepo) ListBetween(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]evententity.Event, error) {
	return s.between, nil
}
func (s *stubEventRepo) ListOverlapping(_ context.Context, _ uuid.UUID, _, _ time.Time, _ *uuid.UUID) ([]evententity.Event, error) {
	return nil, nil
}
func (s *stubEventRepo) ListDeleted(_ context.Context, _ uuid.UUID, _ params.QueryParams) (*evententity.PaginatedEventEntity, error) {
	return nil, nil
}

type stubMoodRepo struct {
	history []moodentity.DailyMoodEntry
}

func (s *stubMoodRepo) Upsert(_ context.Context, _ *moodentity.DailyMoodEntry) (*moodentity.DailyMoodEntry, error) {
	return nil, nil
}
func (s *stubMoodRepo) GetByDate(_ context.Context, _ uuid.UUID, _ time.Time) (*moodentity.DailyMoodEntry, error) {
	return nil, sql.ErrNoRows
}
func (s *stubMoodRepo) ListRange(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]moodentity.DailyMoodEntry, error) {
	return s.history, nil
}
func (s *stubMoodRepo) Delete(_ context.Context, _ uuid.UUID, _ time.Time) error { return nil }
func (s *stubMoodRepo) ListUsersWithoutEntry(_ context.Context, _ time.Time) ([]uuid.UUID, error) {
	return nil, nil
}

type recordingNotificationService struct {
	created []*notificationdto.CreateNotificationRequest
}

func (r *recordingNotificationService) Create(_ context.Context, req *notificationdto.CreateNotificationRequest) error {
	r.created = append(r.created, req)
	return nil
}
func (r *recordingNotificationService) GetMyNotifications(_ context.Context, _ uuid.UUID, _ params.QueryParams) (*notificationentity.PaginatedNotificationEntity, *errors.AppError) {
	return nil, nil
}
func (r *recordingNotificationService) MarkAsRead(_ context.Context, _ uuid.UUID, _ []string) *errors.AppError {
	return nil
}
func (r *recordingNotificationService) MarkAllAsRead(_ context.Context, _ uuid.UUID) *errors.AppError {
	return nil
}
func (r *recordingNotificationService) CountUnread(_ context.Context, _ uuid.UUID) (int, *errors.AppError) {
	return 0, nil
}
func (r *recordingNotificationService) PruneOld(_ context.Context) error { return nil }

func newSuggestionTestService(repo *fakeSuggestionRepo, events *stubEventRepo, moods *stubMoodRepo, notify *recordingNotificationService) RecommendationService {
	if events == nil {
		events = &stubEventRepo{}
	}
	if moods == nil {
		moods = &stubMoodRepo{}
	}
	if notify == nil {
		notify = &recordingNotificationService{}
	}
	return NewRecommendationService(repo, events, moods, notify)
}

func TestGenerate(t *testing.T) {
	userID := uuid.New()
	ctx := context.Background()
	day := "2026-03-20"
	target := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	lowMoodHistory := []moodentity.DailyMoodEntry{
		{EntryDate: target.AddDate(0, 0, -1), Rating: 1},
		{EntryDate: target.AddDate(0, 0, -2), Rating: 1},
		{EntryDate: target.AddDate(0, 0, -3), Rating: 2},
	}

	t.Run("Persists Drafts And Notifies", func(t *testing.T) {
		repo := newFakeSuggestionRepo()
		notify := &recordingNotificationService{}
		svc := newSuggestionTestService(repo, nil, &stubMoodRepo{history: lowMoodHistory}, notify)

		saved, appErr := svc.Generate(ctx, userID, day)
		require.Nil(t, appErr)
		require.Len(t, saved, 1)
		assert.Equal(t, entity.TypeLowMoodBreak, saved[0].Type)
		assert.Equal(t, entity.StatusPending, saved[0].Status)
		assert.Equal(t, userID, saved[0].UserID)

		require.Len(t, notify.created, 1)
		assert.Equal(t, userID, notify.created[0].UserID)
	})

	t.Run("Idempotent Per Day", func(t *testing.T) {
		repo := newFakeSuggestionRepo()
		svc := newSuggestionTestService(repo, nil, &stubMoodRepo{history: lowMoodHistory}, &recordingNotificationService{})

		first, appErr := svc.Generate(ctx, userID, day)
		require.Nil(t, appErr)
		require.NotEmpty(t, first)

		second, appErr := svc.Generate(ctx, userID, day)
		require.Nil(t, appErr)
		assert.Empty(t, second)
	})

	t.Run("Quiet Day Produces Nothing", func(t *testing.T) {
		repo := newFakeSuggestionRepo()
		notify := &recordingNotificationService{}
		svc := newSuggestionTestService(repo, nil, nil, notify)

		saved, appErr := svc.Generate(ctx, userID, day)
		require.Nil(t, appErr)
		assert.Empty(t, saved)
		assert.Empty(t, notify.created)
	})

	t.Run("Bad Date Rejected", func(t *testing.T) {
		svc := newSuggestionTestService(newFakeSuggestionRepo(), nil, nil, nil)
		_, appErr := svc.Generate(ctx, userID, "03/20/2026")
		require.NotNil(t, appErr)
	})
}

func TestSuggestionLifecycle(t *testing.T) {
	userID := uuid.New()
	ctx := context.Background()
	target := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	seed := func(repo *fakeSuggestionRepo, status entity.SuggestionStatus) uuid.UUID {
		suggestion := &entity.ScheduleSuggestion{
			UserID:     userID,
			Type:       entity.TypeOverloadedDay,
			Message:    "Busy day",
			TargetDate: target,
			Score:      70,
			Status:     status,
		}
		suggestion.ID = uuid.New()
		repo.byID[suggestion.ID] = suggestion
		return suggestion.ID
	}

	t.Run("Accept Pending", func(t *testing.T) {
		repo := newFakeSuggestionRepo()
		id := seed(repo, entity.StatusPending)
		svc := newSuggestionTestService(repo, nil, nil, nil)

		updated, appErr := svc.Accept(ctx, userID, id)
		require.Nil(t, appErr)
		assert.Equal(t, entity.StatusAccepted, updated.Status)

		// accepting records a helpful stub
		stub := repo.feedback[id]
		require.NotNil(t, stub)
		assert.True(t, stub.Helpful)
		assert.Nil(t, stub.MoodAfter)
	})

	t.Run("Accept Twice Rejected", func(t *testing.T) {
		repo := newFakeSuggestionRepo()
		id := seed(repo, entity.StatusPending)
		svc := newSuggestionTestService(repo, nil, nil, nil)

		_, appErr := svc.Accept(ctx, userID, id)
		require.Nil(t, appErr)
		_, appErr = svc.Accept(ctx, userID, id)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
	})

	t.Run("Postpone Clones To Next Day", func(t *testing.T) {
		repo := newFakeSuggestionRepo()
		id := seed(repo, entity.StatusPending)
		eventID := uuid.New()
		repo.byID[id].EventID = &eventID
		svc := newSuggestionTestService(repo, nil, nil, nil)

		postponed, appErr := svc.Postpone(ctx, userID, id)
		require.Nil(t, appErr)
		assert.Equal(t, entity.StatusPostponed, postponed.Status)

		require.Len(t, repo.created, 1)
		clone := repo.created[0]
		assert.Equal(t, entity.StatusPending, clone.Status)
		assert.Equal(t, target.AddDate(0, 0, 1), clone.TargetDate)
		assert.Equal(t, postponed.Type, clone.Type)
		require.NotNil(t, clone.EventID)
		assert.Equal(t, eventID, *clone.EventID)
	})

	t.Run("Missing Suggestion", func(t *testing.T) {
		svc := newSuggestionTestService(newFakeSuggestionRepo(), nil, nil, nil)
		_, appErr := svc.Accept(ctx, userID, uuid.New())
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrNotFound, appErr.Code)
	})
}

func TestListExpiresOrphanedSuggestions(t *testing.T) {
	userID := uuid.New()
	ctx := context.Background()
	target := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	seed := func(repo *fakeSuggestionRepo, eventID *uuid.UUID) uuid.UUID {
		suggestion := &entity.ScheduleSuggestion{
			UserID:     userID,
			EventID:    eventID,
			Type:       entity.TypeOverloadedDay,
			TargetDate: target,
			Status:     entity.StatusPending,
		}
		suggestion.ID = uuid.New()
		repo.byID[suggestion.ID] = suggestion
		return suggestion.ID
	}

	t.Run("Deleted Event Expires At Read", func(t *testing.T) {
		repo := newFakeSuggestionRepo()
		goneEventID := uuid.New()
		id := seed(repo, &goneEventID)
		svc := newSuggestionTestService(repo, &stubEventRepo{}, nil, nil)

		listed, appErr := svc.List(ctx, userID, string(entity.StatusPending))
		require.Nil(t, appErr)
		assert.Empty(t, listed)
		assert.Equal(t, entity.StatusExpired, repo.byID[id].Status)
	})

	t.Run("Live Event Stays Pending", func(t *testing.T) {
		repo := newFakeSuggestionRepo()
		event := &evententity.Event{Title: "Standup"}
		event.ID = uuid.New()
		id := seed(repo, &event.ID)
		events := &stubEventRepo{byID: map[uuid.UUID]*evententity.Event{event.ID: event}}
		svc := newSuggestionTestService(repo, events, nil, nil)

		listed, appErr := svc.List(ctx, userID, string(entity.StatusPending))
		require.Nil(t, appErr)
		require.Len(t, listed, 1)
		assert.Equal(t, entity.StatusPending, listed[0].Status)
		assert.Equal(t, entity.StatusPending, repo.byID[id].Status)
	})

	t.Run("Unfiltered List Reports The Expiry", func(t *testing.T) {
		repo := newFakeSuggestionRepo()
		goneEventID := uuid.New()
		seed(repo, &goneEventID)
		svc := newSuggestionTestService(repo, &stubEventRepo{}, nil, nil)

		listed, appErr := svc.List(ctx, userID, "")
		require.Nil(t, appErr)
		require.Len(t, listed, 1)
		assert.Equal(t, entity.StatusExpired, listed[0].Status)
	})

	t.Run("Eventless Suggestions Are Untouched", func(t *testing.T) {
		repo := newFakeSuggestionRepo()
		id := seed(repo, nil)
		svc := newSuggestionTestService(repo, &stubEventRepo{}, nil, nil)

		listed, appErr := svc.List(ctx, userID, string(entity.StatusPending))
		require.Nil(t, appErr)
		require.Len(t, listed, 1)
		assert.Equal(t, entity.StatusPending, repo.byID[id].Status)
	})
}

func TestSubmitFeedback(t *testing.T) {
	userID := uuid.New()
	ctx := context.Background()
	target := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	seed := func(repo *fakeSuggestionRepo, status entity.SuggestionStatus) uuid.UUID {
		suggestion := &entity.ScheduleSuggestion{
			UserID: userID, Type: entity.TypeNoRecovery, TargetDate: target, Status: status,
		}
		suggestion.ID = uuid.New()
		repo.byID[suggestion.ID] = suggestion
		return suggestion.ID
	}

	t.Run("Pending Suggestion Rejected", func(t *testing.T) {
		repo := newFakeSuggestionRepo()
		id := seed(repo, entity.StatusPending)
		svc := newSuggestionTestService(repo, nil, nil, nil)

		_, appErr := svc.SubmitFeedback(ctx, userID, id, &dto.FeedbackRequest{Helpful: true})
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
	})

	t.Run("Feedback Replaces Accept Stub", func(t *testing.T) {
		repo := newFakeSuggestionRepo()
		id := seed(repo, entity.StatusPending)
		svc := newSuggestionTestService(repo, nil, nil, nil)

		_, appErr := svc.Accept(ctx, userID, id)
		require.Nil(t, appErr)
		require.True(t, repo.feedback[id].Helpful)

		mood := 4
		saved, appErr := svc.SubmitFeedback(ctx, userID, id, &dto.FeedbackRequest{Helpful: false, MoodAfter: &mood})
		require.Nil(t, appErr)
		assert.False(t, saved.Helpful)
		assert.False(t, repo.feedback[id].Helpful)
		require.NotNil(t, repo.feedback[id].MoodAfter)
		assert.Equal(t, 4, *repo.feedback[id].MoodAfter)
	})

	t.Run("Mood Bounds", func(t *testing.T) {
		repo := newFakeSuggestionRepo()
		id := seed(repo, entity.StatusAccepted)
		svc := newSuggestionTestService(repo, nil, nil, nil)

		bad := 6
		_, appErr := svc.SubmitFeedback(ctx, userID, id, &dto.FeedbackRequest{Helpful: true, MoodAfter: &bad})
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
	})
}

func TestExpireStale(t *testing.T) {
	repo := newFakeSuggestionRepo()
	svc := newSuggestionTestService(repo, nil, nil, nil)

	require.NoError(t, svc.ExpireStale(context.Background()))
	require.NotNil(t, repo.expiredAt)
	assert.True(t, repo.expiredAt.Before(time.Now().Add(time.Second)))
}
