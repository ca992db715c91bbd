package router

import (
	"wellness-planner/core/middleware"
	"wellness-planner/modules/category/controller"

	"github.com/labstack/echo/v4"
)

type CategoryRouter struct {
	controller *controller.CategoryController
}

func NewCategoryRouter(controller *controller.CategoryController) *CategoryRouter {
	return &CategoryRouter{controller: controller}
}

func (r *CategoryRouter) Register(e *echo.Group, mw *middleware.Middleware) {
	group := e.Group("/categories", mw.AuthMiddleware())
	group.GET("", r.controller.List)
	group.GET("/:id", r.controller.Get)
	group.POST("", r.controller.Create)
	group.PUT("/:id", r.controller.Update)
	group.DELETE("/:id", r.controller.Delete)
}
