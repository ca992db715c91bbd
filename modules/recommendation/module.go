package recommendation

import (
	"wellness-planner/core/database"
	"wellness-planner/core/middleware"
	eventrepository "wellness-planner/modules/event/repository"
	moodrepository "wellness-planner/modules/mood/repository"
	notificationservice "wellness-planner/modules/notification/service"
	"wellness-planner/modules/recommendation/controller"
	"wellness-planner/modules/recommendation/repository"
	"wellness-planner/modules/recommendation/router"
	"wellness-planner/modules/recommendation/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Group, db database.Database, notificationSvc notificationservice.NotificationService, mw *middleware.Middleware) service.RecommendationService {
	repo := repository.NewRecommendationRepository(db)
	eventRepo := eventrepository.NewEventRepository(db)
	moodRepo := moodrepository.NewMoodRepository(db)
	svc := service.NewRecommendationService(repo, eventRepo, moodRepo, notificationSvc)
	ctrl := controller.NewRecommendationController(svc)

	router.NewRecommendationRouter(ctrl).Register(e, mw)

	return svc
}
