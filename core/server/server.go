package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wellness-planner/core/cache"
	"wellness-planner/core/config"
	"wellness-planner/core/database"
	"wellness-planner/core/logger"
	coremiddleware "wellness-planner/core/middleware"
	"wellness-planner/core/worker"
	"wellness-planner/modules/assistant"
	"wellness-planner/modules/auth"
	"wellness-planner/modules/category"
	"wellness-planner/modules/event"
	"wellness-planner/modules/mood"
	moodrepository "wellness-planner/modules/mood/repository"
	"wellness-planner/modules/notification"
	"wellness-planner/modules/recommendation"
	"wellness-planner/modules/wellness"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

const shutdownTimeout = 15 * time.Second

// Run wires every layer together and serves until SIGINT/SIGTERM.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(cfg.Server.LogLevel, cfg.Server.LogFormat)

	db, err := database.InitDB(database.DatabaseConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.SQLx().Close()

	redisCache, err := cache.InitCache(cache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	mw := coremiddleware.NewMiddleware(redisCache)
	api := e.Group("/api/v1")

	authService := auth.Init(api, db, redisCache, mw)
	categoryService := category.Init(api, db, mw)
	event.Init(api, db, redisCache, mw)
	mood.Init(api, db, redisCache, mw)
	wellness.Init(api, db, redisCache, mw)
	notificationService := notification.Init(api, db, mw)
	recommendationService := recommendation.Init(api, db, notificationService, mw)
	assistant.Init(api, db, cfg.GeminiAPI, mw)

	seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := categoryService.SeedDefaults(seedCtx); err != nil {
		logger.Error("Server:SeedDefaultCategories:Error:", err)
	}
	cancel()

	jobWorker := worker.New(
		cfg.Redis,
		authService,
		moodrepository.NewMoodRepository(db),
		notificationService,
		recommendationService,
	)
	if err := jobWorker.Start(); err != nil {
		return fmt.Errorf("failed to start background worker: %w", err)
	}

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("Server:Start:Error:", err)
		}
	}()
	logger.Info("Server started", "host", cfg.Server.Host, "port", cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server shutting down")
	jobWorker.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down cleanly: %w", err)
	}
	return nil
}
