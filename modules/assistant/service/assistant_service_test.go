package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"wellness-planner/modules/assistant/dto"
	categoryentity "wellness-planner/modules/category/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeLLM) GenerateJSON(_ context.Context, _ string, userPrompt string) (string, error) {
	f.prompts = append(f.prompts, userPrompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type fakeCategoryRepo struct {
	categories []categoryentity.EventCategory
}

func (f *fakeCategoryRepo) Create(context.Context, *categoryentity.EventCategory) (*categoryentity.EventCategory, error) {
	return nil, nil
}
func (f *fakeCategoryRepo) GetByID(context.Context, uuid.UUID) (*categoryentity.EventCategory, error) {
	return nil, nil
}
func (f *fakeCategoryRepo) ListForUser(context.Context, uuid.UUID) ([]categoryentity.EventCategory, error) {
	return f.categories, nil
}
func (f *fakeCategoryRepo) ExistsByName(context.Context, uuid.UUID, string, *uuid.UUID) (bool, error) {
	return false, nil
}
func (f *fakeCategoryRepo) Update(context.Context, *categoryentity.EventCategory) error { return nil }
func (f *fakeCategoryRepo) SoftDelete(context.Context, uuid.UUID, uuid.UUID) error      { return nil }
func (f *fakeCategoryRepo) SeedDefaults(context.Context, []categoryentity.EventCategory) error {
	return nil
}

var fixedNow = time.Date(2026, 3, 20, 10, 0, 0, 0, time.UTC)

func newTestService(llm LLMClient, repo *fakeCategoryRepo) *assistantService {
	if repo == nil {
		repo = &fakeCategoryRepo{}
	}
	return &assistantService{
		llm:          llm,
		categoryRepo: repo,
		fallback:     &fallbackParser{},
		now:          func() time.Time { return fixedNow },
	}
}

func TestParseEvent(t *testing.T) {
	userID := uuid.New()

	t.Run("Empty Text Rejected", func(t *testing.T) {
		svc := newTestService(&fakeLLM{}, nil)
		_, appErr := svc.ParseEvent(context.Background(), userID, &dto.ParseEventRequest{Text: "   "})
		require.NotNil(t, appErr)
	})

	t.Run("Model Draft Is Used", func(t *testing.T) {
		llm := &fakeLLM{response: `{
			"title": "Dentist",
			"start_time": "2026-03-21T14:00:00Z",
			"end_time": "2026-03-21T15:00:00Z",
			"category_hint": "health",
			"priority": "high",
			"confidence": 0.9
		}`}
		svc := newTestService(llm, nil)

		parsed, appErr := svc.ParseEvent(context.Background(), userID, &dto.ParseEventRequest{Text: "dentist tomorrow 2pm"})
		require.Nil(t, appErr)
		assert.Equal(t, "Dentist", parsed.Title)
		assert.Equal(t, "gemini", parsed.Source)
		assert.Equal(t, "high", parsed.Priority)
		assert.Equal(t, "health", parsed.CategoryHint)
	})

	t.Run("Fenced JSON Is Tolerated", func(t *testing.T) {
		llm := &fakeLLM{response: "```json\n{\"title\": \"Standup\", \"start_time\": \"2026-03-21T09:00:00Z\", \"end_time\": \"2026-03-21T09:15:00Z\"}\n```"}
		svc := newTestService(llm, nil)

		parsed, appErr := svc.ParseEvent(context.Background(), userID, &dto.ParseEventRequest{Text: "standup"})
		require.Nil(t, appErr)
		assert.Equal(t, "Standup", parsed.Title)
		assert.Equal(t, "gemini", parsed.Source)
		assert.Equal(t, "normal", parsed.Priority)
	})

	t.Run("Model Failure Falls Back", func(t *testing.T) {
		llm := &fakeLLM{err: errors.New("connection refused")}
		svc := newTestService(llm, nil)

		parsed, appErr := svc.ParseEvent(context.Background(), userID, &dto.ParseEventRequest{Text: "lunch tomorrow at 1pm"})
		require.Nil(t, appErr)
		assert.Equal(t, "heuristic", parsed.Source)
		assert.Equal(t, "lunch", parsed.Title)
	})

	t.Run("Garbage Response Falls Back", func(t *testing.T) {
		llm := &fakeLLM{response: "I cannot help with that"}
		svc := newTestService(llm, nil)

		parsed, appErr := svc.ParseEvent(context.Background(), userID, &dto.ParseEventRequest{Text: "gym session"})
		require.Nil(t, appErr)
		assert.Equal(t, "heuristic", parsed.Source)
	})

	t.Run("Implausible Draft Falls Back", func(t *testing.T) {
		// end before start
		llm := &fakeLLM{response: `{"title": "Meeting", "start_time": "2026-03-21T15:00:00Z", "end_time": "2026-03-21T14:00:00Z"}`}
		svc := newTestService(llm, nil)

		parsed, appErr := svc.ParseEvent(context.Background(), userID, &dto.ParseEventRequest{Text: "meeting"})
		require.Nil(t, appErr)
		assert.Equal(t, "heuristic", parsed.Source)
	})

	t.Run("Prompt Lists Category Slugs", func(t *testing.T) {
		llm := &fakeLLM{err: errors.New("unavailable")}
		repo := &fakeCategoryRepo{categories: []categoryentity.EventCategory{
			{Slug: "work"}, {Slug: "health"},
		}}
		svc := newTestService(llm, repo)

		_, appErr := svc.ParseEvent(context.Background(), userID, &dto.ParseEventRequest{Text: "call mom"})
		require.Nil(t, appErr)
		require.Len(t, llm.prompts, 1)
		assert.Contains(t, llm.prompts[0], "work, health")
		assert.Contains(t, llm.prompts[0], "call mom")
	})

	t.Run("Too Long Text Rejected", func(t *testing.T) {
		svc := newTestService(&fakeLLM{}, nil)
		long := make([]byte, 501)
		for i := range long {
			long[i] = 'a'
		}
		_, appErr := svc.ParseEvent(context.Background(), userID, &dto.ParseEventRequest{Text: string(long)})
		require.NotNil(t, appErr)
	})
}

func TestValidateEvent(t *testing.T) {
	base := dto.ValidateEventRequest{
		Title:     "Quarterly review",
		StartTime: fixedNow.Add(24 * time.Hour),
		EndTime:   fixedNow.Add(25 * time.Hour),
	}

	t.Run("Approved With Warnings", func(t *testing.T) {
		llm := &fakeLLM{response: `{"approved": true, "warnings": ["runs over lunch"]}`}
		svc := newTestService(llm, nil)

		resp, appErr := svc.ValidateEvent(context.Background(), &base)
		require.Nil(t, appErr)
		assert.True(t, resp.Approved)
		assert.Equal(t, []string{"runs over lunch"}, resp.Warnings)
		assert.Equal(t, "gemini", resp.Source)
	})

	t.Run("Model Failure Approves By Default", func(t *testing.T) {
		llm := &fakeLLM{err: fmt.Errorf("status 500")}
		svc := newTestService(llm, nil)

		resp, appErr := svc.ValidateEvent(context.Background(), &base)
		require.Nil(t, appErr)
		assert.True(t, resp.Approved)
		assert.Equal(t, "fallback", resp.Source)
	})

	t.Run("Garbage Response Approves By Default", func(t *testing.T) {
		llm := &fakeLLM{response: "not json"}
		svc := newTestService(llm, nil)

		resp, appErr := svc.ValidateEvent(context.Background(), &base)
		require.Nil(t, appErr)
		assert.True(t, resp.Approved)
		assert.Equal(t, "fallback", resp.Source)
	})

	t.Run("Invalid Interval Rejected Locally", func(t *testing.T) {
		svc := newTestService(&fakeLLM{}, nil)
		bad := base
		bad.EndTime = bad.StartTime
		_, appErr := svc.ValidateEvent(context.Background(), &bad)
		require.NotNil(t, appErr)
	})
}
