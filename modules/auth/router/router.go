package router

import (
	"forum-api/core/middleware"
	"forum-api/modules/auth/controller"

	"github.com/labstack/echo/v4"
)

type AuthRouter struct {
	controller *controller.AuthController
}

func NewAuthRouter(controller *controller.AuthController) *AuthRouter {
	return &AuthRouter{controller: controller}
}

func (r *AuthRouter) Register(e *echo.Group, mw *middleware.Middleware) {
	group := e.Group("/auth")
	group.POST("/register", r.controller.Register)
	group.POST("/login", r.controller.Login)
	group.POST("/refresh", r.controller.Refresh)

	private := e.Group("/auth", mw.AuthMiddleware())
	private.POST("/logout", r.controller.Logout)
	private.GET("/me", r.controller.Me)
}
