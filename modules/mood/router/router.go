package router

import (
	"wellness-planner/core/middleware"
	"wellness-planner/modules/mood/controller"

	"github.com/labstack/echo/v4"
)

type MoodRouter struct {
	controller *controller.MoodController
}

func NewMoodRouter(controller *controller.MoodController) *MoodRouter {
	return &MoodRouter{controller: controller}
}

func (r *MoodRouter) Register(e *echo.Group, mw *middleware.Middleware) {
	group := e.Group("/moods", mw.AuthMiddleware())
	group.GET("", r.controller.ListMonth)
	group.PUT("", r.controller.Upsert)
	group.GET("/:date", r.controller.GetByDate)
	group.DELETE("/:date", r.controller.Delete)
}
