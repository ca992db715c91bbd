package router

import (
	"wellness-planner/core/middleware"
	"wellness-planner/modules/wellness/controller"

	"github.com/labstack/echo/v4"
)

type WellnessRouter struct {
	controller *controller.WellnessController
}

func NewWellnessRouter(controller *controller.WellnessController) *WellnessRouter {
	return &WellnessRouter{controller: controller}
}

func (r *WellnessRouter) Register(e *echo.Group, mw *middleware.Middleware) {
	group := e.Group("/wellness", mw.AuthMiddleware())
	group.GET("/summary", r.controller.MonthlySummary)
	group.GET("/category-impact", r.controller.CategoryImpact)
	group.GET("/productivity", r.controller.Productivity)
}
