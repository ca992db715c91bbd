package assistant

import (
	"wellness-planner/core/config"
	"wellness-planner/core/database"
	"wellness-planner/core/middleware"
	"wellness-planner/modules/assistant/controller"
	"wellness-planner/modules/assistant/router"
	"wellness-planner/modules/assistant/service"
	categoryrepository "wellness-planner/modules/category/repository"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Group, db database.Database, cfg config.GeminiAPIConfig, mw *middleware.Middleware) service.AssistantService {
	llm := service.NewGeminiClient(cfg)
	categoryRepo := categoryrepository.NewCategoryRepository(db)
	svc := service.NewAssistantService(llm, categoryRepo)
	ctrl := controller.NewAssistantController(svc)

	router.NewAssistantRouter(ctrl).Register(e, mw)

	return svc
}
