package company

import (
	"forum-api/core/database"
	"forum-api/core/middleware"
	"forum-api/core/storage"
	"forum-api/modules/company/controller"
	"forum-api/modules/company/repository"
	"forum-api/modules/company/router"
	"forum-api/modules/company/service"

	"github.com/labstack/echo/v4"
)

type Module struct {
	Repository repository.CompanyRepositoryInterface
	Service    service.CompanyServiceInterface
}

func Init(e *echo.Group, db database.Database, st *storage.Storage, mw *middleware.Middleware) *Module {
	repo := repository.NewCompanyRepository(db)
	svc := service.NewCompanyService(repo, st)
	ctrl := controller.NewCompanyController(svc)

	router.NewCompanyRouter(ctrl).Register(e, mw)

	return &Module{
		Repository: repo,
		Service:    svc,
	}
}
