package wellness

import (
	"wellness-planner/core/cache"
	"wellness-planner/core/database"
	"wellness-planner/core/middleware"
	categoryrepository "wellness-planner/modules/category/repository"
	eventrepository "wellness-planner/modules/event/repository"
	moodrepository "wellness-planner/modules/mood/repository"
	"wellness-planner/modules/wellness/controller"
	"wellness-planner/modules/wellness/router"
	"wellness-planner/modules/wellness/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Group, db database.Database, cache cache.Cache, mw *middleware.Middleware) service.WellnessService {
	moodRepo := moodrepository.NewMoodRepository(db)
	eventRepo := eventrepository.NewEventRepository(db)
	categoryRepo := categoryrepository.NewCategoryRepository(db)
	svc := service.NewWellnessService(moodRepo, eventRepo, categoryRepo, cache)
	ctrl := controller.NewWellnessController(svc)

	router.NewWellnessRouter(ctrl).Register(e, mw)

	return svc
}
