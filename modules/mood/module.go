package mood

import (
	"wellness-planner/core/cache"
	"wellness-planner/core/database"
	"wellness-planner/core/middleware"
	"wellness-planner/modules/mood/controller"
	"wellness-planner/modules/mood/repository"
	"wellness-planner/modules/mood/router"
	"wellness-planner/modules/mood/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Group, db database.Database, cache cache.Cache, mw *middleware.Middleware) service.MoodService {
	repo := repository.NewMoodRepository(db)
	svc := service.NewMoodService(repo, cache)
	ctrl := controller.NewMoodController(svc)

	router.NewMoodRouter(ctrl).Register(e, mw)

	return svc
}
