package auth

import (
	"wellness-planner/core/cache"
	"wellness-planner/core/config"
	"wellness-planner/core/database"
	"wellness-planner/core/logger"
	"wellness-planner/core/middleware"
	"wellness-planner/core/storage"
	"wellness-planner/modules/auth/controller"
	"wellness-planner/modules/auth/repository"
	"wellness-planner/modules/auth/router"
	"wellness-planner/modules/auth/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Group, db database.Database, cache cache.Cache, mw *middleware.Middleware) service.AuthServiceInterface {
	repo := repository.NewAuthRepository(db)
	authService := service.NewAuthService(repo, cache, newUploader())
	authController := controller.NewAuthController(authService)

	router.NewAuthRouter(authController).Register(e, mw)

	return authService
}

// newUploader builds the avatar uploader, nil when S3 is not configured
func newUploader() storage.Uploader {
	cfg, ok := config.GetSafe()
	if !ok || cfg.S3.Bucket == "" {
		logger.Info("Auth:Init:AvatarUploadsDisabled", "reason", "S3 not configured")
		return nil
	}

	uploader, err := storage.NewS3Uploader(cfg.S3)
	if err != nil {
		logger.Error("Auth:Init:S3UploaderError", "error", err)
		return nil
	}
	return uploader
}
