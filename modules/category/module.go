package category

import (
	"wellness-planner/core/database"
	"wellness-planner/core/middleware"
	"wellness-planner/modules/category/controller"
	"wellness-planner/modules/category/repository"
	"wellness-planner/modules/category/router"
	"wellness-planner/modules/category/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Group, db database.Database, mw *middleware.Middleware) service.CategoryService {
	repo := repository.NewCategoryRepository(db)
	svc := service.NewCategoryService(repo)
	ctrl := controller.NewCategoryController(svc)

	router.NewCategoryRouter(ctrl).Register(e, mw)

	return svc
}
