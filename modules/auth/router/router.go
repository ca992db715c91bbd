package router

import (
	"wellness-planner/core/middleware"
	"wellness-planner/modules/auth/controller"

	"github.com/labstack/echo/v4"
)

type AuthRouter struct {
	controller *controller.AuthController
}

func NewAuthRouter(controller *controller.AuthController) *AuthRouter {
	return &AuthRouter{controller: controller}
}

func (r *AuthRouter) Register(e *echo.Group, mw *middleware.Middleware) {
	public := e.Group("/auth")
	public.POST("/register", r.controller.Register)
	public.POST("/login", r.controller.Login)
	public.POST("/refresh", r.controller.RefreshToken)
	public.GET("/google", r.controller.GoogleLogin)
	public.GET("/google/callback", r.controller.GoogleCallback)

	private := e.Group("/auth", mw.AuthMiddleware())
	private.POST("/logout", r.controller.Logout)
	private.GET("/profile", r.controller.GetProfile)
	private.PUT("/profile", r.controller.UpdateProfile)
	private.POST("/avatar", r.controller.UploadAvatar)
}
