package router

import (
	"wellness-planner/core/middleware"
	"wellness-planner/modules/assistant/controller"

	"github.com/labstack/echo/v4"
)

type AssistantRouter struct {
	controller *controller.AssistantController
}

func NewAssistantRouter(controller *controller.AssistantController) *AssistantRouter {
	return &AssistantRouter{controller: controller}
}

func (r *AssistantRouter) Register(e *echo.Group, mw *middleware.Middleware) {
	group := e.Group("/assistant", mw.AuthMiddleware())
	group.POST("/parse-event", r.controller.ParseEvent)
	group.POST("/validate-event", r.controller.ValidateEvent)
}
