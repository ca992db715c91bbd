package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"wellness-planner/core/config"
	"wellness-planner/core/logger"
	authservice "wellness-planner/modules/auth/service"
	"wellness-planner/modules/mood/repository"
	notificationdto "wellness-planner/modules/notification/dto"
	notificationentity "wellness-planner/modules/notification/entity"
	notificationservice "wellness-planner/modules/notification/service"
	recommendationservice "wellness-planner/modules/recommendation/service"

	"github.com/hibiken/asynq"
)

// Worker runs the background job server and its cron scheduler next to
// the HTTP server, sharing the same service layer.
type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	client    *asynq.Client

	authService           authservice.AuthServiceInterface
	moodRepo              repository.MoodRepository
	notificationService   notificationservice.NotificationService
	recommendationService recommendationservice.RecommendationService
}

func New(
	cfg config.RedisConfig,
	authService authservice.AuthServiceInterface,
	moodRepo repository.MoodRepository,
	notificationService notificationservice.NotificationService,
	recommendationService recommendationservice.RecommendationService,
) *Worker {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			"default": 1,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logger.Error("Worker:TaskError:", "type", task.Type(), "error", err)
		}),
	})

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Location: time.UTC,
	})

	return &Worker{
		server:                server,
		scheduler:             scheduler,
		client:                asynq.NewClient(redisOpt),
		authService:           authService,
		moodRepo:              moodRepo,
		notificationService:   notificationService,
		recommendationService: recommendationService,
	}
}

// Start registers handlers and cron entries, then starts the asynq
// server and scheduler in the background.
func (w *Worker) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskSuggestionGenerate, w.handleSuggestionGenerate)
	mux.HandleFunc(TaskSuggestionExpire, w.handleSuggestionExpire)
	mux.HandleFunc(TaskMoodReminder, w.handleMoodReminder)
	mux.HandleFunc(TaskNotificationPrune, w.handleNotificationPrune)

	entries := []struct {
		cronspec string
		task     *asynq.Task
	}{
		// fan out per-user suggestion generation early each morning
		{"0 5 * * *", asynq.NewTask(TaskSuggestionExpire, nil)},
		{"30 5 * * *", asynq.NewTask(taskSuggestionFanOut, nil)},
		// evening nudge for users who have not logged a mood today
		{"0 20 * * *", asynq.NewTask(TaskMoodReminder, nil)},
		{"0 3 * * 0", asynq.NewTask(TaskNotificationPrune, nil)},
	}
	mux.HandleFunc(taskSuggestionFanOut, w.handleSuggestionFanOut)

	for _, entry := range entries {
		if _, err := w.scheduler.Register(entry.cronspec, entry.task); err != nil {
			return fmt.Errorf("failed to register cron entry %q: %w", entry.task.Type(), err)
		}
	}

	if err := w.server.Start(mux); err != nil {
		return fmt.Errorf("failed to start worker server: %w", err)
	}
	if err := w.scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	logger.Info("Worker:Started")
	return nil
}

// Shutdown stops the scheduler, waits for in-flight tasks, and closes
// the enqueue client.
func (w *Worker) Shutdown() {
	w.scheduler.Shutdown()
	w.server.Shutdown()
	if err := w.client.Close(); err != nil {
		logger.Error("Worker:Shutdown:CloseClient:Error:", err)
	}
}

const taskSuggestionFanOut = "suggestion:fanout"

// handleSuggestionFanOut enqueues one generation task per active user so
// a slow user cannot stall the rest.
func (w *Worker) handleSuggestionFanOut(ctx context.Context, _ *asynq.Task) error {
	userIDs, err := w.authService.ListActiveUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active users: %w", err)
	}

	today := time.Now().UTC().Format("2006-01-02")
	for _, userID := range userIDs {
		task, err := NewSuggestionGenerateTask(userID, today)
		if err != nil {
			logger.Error("Worker:SuggestionFanOut:Marshal:Error:", err)
			continue
		}
		if _, err := w.client.EnqueueContext(ctx, task, asynq.MaxRetry(2)); err != nil {
			logger.Error("Worker:SuggestionFanOut:Enqueue:Error:", "user_id", userID, "error", err)
		}
	}

	logger.Info("Worker:SuggestionFanOut:Done", "users", len(userIDs))
	return nil
}

func (w *Worker) handleSuggestionGenerate(ctx context.Context, task *asynq.Task) error {
	var payload suggestionGeneratePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	// Generate notifies the user itself when it saves anything
	if _, appErr := w.recommendationService.Generate(ctx, payload.UserID, payload.Date); appErr != nil {
		return fmt.Errorf("failed to generate suggestions: %w", appErr)
	}
	return nil
}

func (w *Worker) handleSuggestionExpire(ctx context.Context, _ *asynq.Task) error {
	if err := w.recommendationService.ExpireStale(ctx); err != nil {
		return fmt.Errorf("failed to expire stale suggestions: %w", err)
	}
	return nil
}

// handleMoodReminder nudges every active user without a mood entry for
// the current day.
func (w *Worker) handleMoodReminder(ctx context.Context, _ *asynq.Task) error {
	today := time.Now().UTC().Truncate(24 * time.Hour)

	userIDs, err := w.moodRepo.ListUsersWithoutEntry(ctx, today)
	if err != nil {
		return fmt.Errorf("failed to list users without a mood entry: %w", err)
	}

	for _, userID := range userIDs {
		err := w.notificationService.Create(ctx, &notificationdto.CreateNotificationRequest{
			UserID:  userID,
			Title:   "How was your day?",
			Message: "You have not logged a mood entry today",
			Type:    notificationentity.TypeMoodReminder,
		})
		if err != nil {
			logger.Error("Worker:MoodReminder:Notify:Error:", "user_id", userID, "error", err)
		}
	}

	logger.Info("Worker:MoodReminder:Done", "users", len(userIDs))
	return nil
}

func (w *Worker) handleNotificationPrune(ctx context.Context, _ *asynq.Task) error {
	if err := w.notificationService.PruneOld(ctx); err != nil {
		return fmt.Errorf("failed to prune notifications: %w", err)
	}
	return nil
}
