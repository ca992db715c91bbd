package router

import (
	"wellness-planner/core/middleware"
	"wellness-planner/modules/event/controller"

	"github.com/labstack/echo/v4"
)

type EventRouter struct {
	controller *controller.EventController
}

func NewEventRouter(controller *controller.EventController) *EventRouter {
	return &EventRouter{controller: controller}
}

func (r *EventRouter) Register(e *echo.Group, mw *middleware.Middleware) {
	group := e.Group("/events", mw.AuthMiddleware())
	group.GET("", r.controller.List)
	group.POST("", r.controller.Create)
	group.GET("/month", r.controller.MonthView)
	group.GET("/conflicts", r.controller.CheckConflicts)
	group.GET("/trash", r.controller.ListDeleted)
	group.GET("/:id", r.controller.Get)
	group.PUT("/:id", r.controller.Update)
	group.DELETE("/:id", r.controller.Delete)
	group.PUT("/:id/complete", r.controller.Complete)
	group.PUT("/:id/cancel", r.controller.Cancel)
	group.PUT("/:id/restore", r.controller.Restore)
}
