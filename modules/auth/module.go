package auth

import (
	"forum-api/core/cache"
	"forum-api/core/middleware"
	"forum-api/modules/auth/controller"
	"forum-api/modules/auth/router"
	"forum-api/modules/auth/service"
	settingsService "forum-api/modules/settings/service"
	userRepository "forum-api/modules/user/repository"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Group, userRepo userRepository.UserRepositoryInterface, settings settingsService.SettingsServiceInterface, c *cache.Cache, mw *middleware.Middleware) service.AuthServiceInterface {
	svc := service.NewAuthService(userRepo, settings, c)
	ctrl := controller.NewAuthController(svc)

	router.NewAuthRouter(ctrl).Register(e, mw)

	return svc
}
