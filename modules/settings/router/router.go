package router

import (
	"forum-api/core/middleware"
	"forum-api/modules/settings/controller"
	userentity "forum-api/modules/user/entity"

	"github.com/labstack/echo/v4"
)

type SettingsRouter struct {
	controller *controller.SettingsController
}

func NewSettingsRouter(controller *controller.SettingsController) *SettingsRouter {
	return &SettingsRouter{controller: controller}
}

func (r *SettingsRouter) Register(e *echo.Group, mw *middleware.Middleware) {
	// The forum window is public so the landing page can show it.
	e.GET("/settings", r.controller.Get)

	admin := e.Group("/admin/settings", mw.AuthMiddleware(), mw.RequireRole(string(userentity.RoleAdmin)))
	admin.PUT("", r.controller.Update)
}
