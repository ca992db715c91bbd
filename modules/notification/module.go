package notification

import (
	"wellness-planner/core/database"
	"wellness-planner/core/middleware"
	"wellness-planner/modules/notification/controller"
	"wellness-planner/modules/notification/repository"
	"wellness-planner/modules/notification/router"
	"wellness-planner/modules/notification/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Group, db database.Database, mw *middleware.Middleware) service.NotificationService {
	repo := repository.NewNotificationRepository(db)
	svc := service.NewNotificationService(repo)
	ctrl := controller.NewNotificationController(svc)

	router.NewNotificationRouter(ctrl).Register(e, mw)

	return svc
}
