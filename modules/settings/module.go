package settings

import (
	"forum-api/core/database"
	"forum-api/core/middleware"
	"forum-api/modules/settings/controller"
	"forum-api/modules/settings/repository"
	"forum-api/modules/settings/router"
	"forum-api/modules/settings/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Group, db database.Database, mw *middleware.Middleware) service.SettingsServiceInterface {
	repo := repository.NewSettingsRepository(db)
	svc := service.NewSettingsService(repo)
	ctrl := controller.NewSettingsController(svc)

	router.NewSettingsRouter(ctrl).Register(e, mw)

	return svc
}
