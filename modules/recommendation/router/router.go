package router

import (
	"wellness-planner/core/middleware"
	"wellness-planner/modules/recommendation/controller"

	"github.com/labstack/echo/v4"
)

type RecommendationRouter struct {
	controller *controller.RecommendationController
}

func NewRecommendationRouter(controller *controller.RecommendationController) *RecommendationRouter {
	return &RecommendationRouter{controller: controller}
}

func (r *RecommendationRouter) Register(e *echo.Group, mw *middleware.Middleware) {
	group := e.Group("/suggestions", mw.AuthMiddleware())
	group.GET("", r.controller.List)
	group.POST("/generate", r.controller.Generate)
	group.GET("/feedback-stats", r.controller.FeedbackStats)
	group.PUT("/:id/accept", r.controller.Accept)
	group.PUT("/:id/reject", r.controller.Reject)
	group.PUT("/:id/postpone", r.controller.Postpone)
	group.POST("/:id/feedback", r.controller.SubmitFeedback)
}
