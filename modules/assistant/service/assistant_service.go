package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"wellness-planner/core/constants"
	"wellness-planner/core/errors"
	"wellness-planner/core/logger"
	"wellness-planner/modules/assistant/dto"
	categoryrepository "wellness-planner/modules/category/repository"

	"github.com/google/uuid"
)

const parseSystemPrompt = `You turn short natural language notes into calendar events.
Reply with a single JSON object and nothing else:
{"title": string, "start_time": RFC3339 string, "end_time": RFC3339 string,
 "category_hint": string, "priority": "low"|"medium"|"normal"|"high", "location": string,
 "confidence": number between 0 and 1}
Times without a date mean the next future occurrence. Default duration is one hour.`

const validateSystemPrompt = `You sanity check calendar events. Reply with a single JSON object:
{"approved": boolean, "warnings": [string]}
Only refuse events that are clearly impossible or nonsensical. When unsure, approve with warnings.`

type AssistantService interface {
	ParseEvent(ctx context.Context, userID uuid.UUID, req *dto.ParseEventRequest) (*dto.ParsedEvent, *errors.AppError)
	ValidateEvent(ctx context.Context, req *dto.ValidateEventRequest) (*dto.ValidateEventResponse, *errors.AppError)
}

type assistantService struct {
	llm          LLMClient
	categoryRepo categoryrepository.CategoryRepository
	fallback     *fallbackParser
	now          func() time.Time
}

func NewAssistantService(llm LLMClient, categoryRepo categoryrepository.CategoryRepository) AssistantService {
	return &assistantService{
		llm:          llm,
		categoryRepo: categoryRepo,
		fallback:     &fallbackParser{},
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// ParseEvent asks the model to extract an event draft from free text.
// When the model is unreachable or returns garbage, the deterministic
// fallback parser answers instead; the user still gets a draft.
func (s *assistantService) ParseEvent(ctx context.Context, userID uuid.UUID, req *dto.ParseEventRequest) (*dto.ParsedEvent, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Text is required", nil)
	}
	if len(text) > 500 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Text must be at most 500 characters", nil)
	}

	now := s.now()
	userPrompt := s.buildParsePrompt(ctx, userID, text, now)

	raw, err := s.llm.GenerateJSON(ctx, parseSystemPrompt, userPrompt)
	if err != nil {
		logger.Warn("AssistantService:ParseEvent:LLM:Error:", err)
		parsed := s.fallback.Parse(text, now)
		return &parsed, nil
	}

	var parsed dto.ParsedEvent
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &parsed); err != nil {
		logger.Warn("AssistantService:ParseEvent:Unmarshal:Error:", err)
		fallbackParsed := s.fallback.Parse(text, now)
		return &fallbackParsed, nil
	}

	if !s.plausible(&parsed, now) {
		logger.Warn("AssistantService:ParseEvent:ImplausibleDraft", "title", parsed.Title)
		fallbackParsed := s.fallback.Parse(text, now)
		return &fallbackParsed, nil
	}

	parsed.Source = "gemini"
	if parsed.Priority == "" {
		parsed.Priority = "normal"
	}
	return &parsed, nil
}

// ValidateEvent is approve-by-default: the model can add warnings or
// refuse, but any model failure approves the event untouched.
func (s *assistantService) ValidateEvent(ctx context.Context, req *dto.ValidateEventRequest) (*dto.ValidateEventResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if strings.TrimSpace(req.Title) == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Title is required", nil)
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "End time must be after start time", nil)
	}

	userPrompt := fmt.Sprintf(
		"Event: %q\nStarts: %s\nEnds: %s\nDuration: %s",
		req.Title,
		req.StartTime.Format(time.RFC3339),
		req.EndTime.Format(time.RFC3339),
		req.EndTime.Sub(req.StartTime),
	)

	raw, err := s.llm.GenerateJSON(ctx, validateSystemPrompt, userPrompt)
	if err != nil {
		logger.Warn("AssistantService:ValidateEvent:LLM:Error:", err)
		return &dto.ValidateEventResponse{Approved: true, Warnings: []string{}, Source: "fallback"}, nil
	}

	var resp dto.ValidateEventResponse
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &resp); err != nil {
		logger.Warn("AssistantService:ValidateEvent:Unmarshal:Error:", err)
		return &dto.ValidateEventResponse{Approved: true, Warnings: []string{}, Source: "fallback"}, nil
	}

	if resp.Warnings == nil {
		resp.Warnings = []string{}
	}
	resp.Source = "gemini"
	return &resp, nil
}

func (s *assistantService) buildParsePrompt(ctx context.Context, userID uuid.UUID, text string, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Current time: %s\n", now.Format(time.RFC3339))

	if categories, err := s.categoryRepo.ListForUser(ctx, userID); err == nil && len(categories) > 0 {
		slugs := make([]string, 0, len(categories))
		for i := range categories {
			slugs = append(slugs, categories[i].Slug)
		}
		fmt.Fprintf(&b, "Known categories for category_hint: %s\n", strings.Join(slugs, ", "))
	}

	fmt.Fprintf(&b, "Note: %s", text)
	return b.String()
}

// plausible rejects drafts the model got structurally wrong
func (s *assistantService) plausible(parsed *dto.ParsedEvent, now time.Time) bool {
	if strings.TrimSpace(parsed.Title) == "" {
		return false
	}
	if parsed.StartTime.IsZero() || parsed.EndTime.IsZero() {
		return false
	}
	if !parsed.EndTime.After(parsed.StartTime) {
		return false
	}
	if parsed.StartTime.Before(now.AddDate(-1, 0, 0)) || parsed.StartTime.After(now.AddDate(2, 0, 0)) {
		return false
	}
	return true
}

// stripCodeFence tolerates models that wrap JSON in markdown fences
func stripCodeFence(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSuffix(raw, "```")
	}
	return strings.TrimSpace(raw)
}
