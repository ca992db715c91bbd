package event

import (
	"wellness-planner/core/cache"
	"wellness-planner/core/database"
	"wellness-planner/core/middleware"
	categoryrepository "wellness-planner/modules/category/repository"
	"wellness-planner/modules/event/controller"
	"wellness-planner/modules/event/repository"
	"wellness-planner/modules/event/router"
	"wellness-planner/modules/event/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Group, db database.Database, cache cache.Cache, mw *middleware.Middleware) service.EventService {
	repo := repository.NewEventRepository(db)
	categoryRepo := categoryrepository.NewCategoryRepository(db)
	svc := service.NewEventService(repo, categoryRepo, cache)
	ctrl := controller.NewEventController(svc)

	router.NewEventRouter(ctrl).Register(e, mw)

	return svc
}
