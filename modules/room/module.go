package room

import (
	"forum-api/core/database"
	"forum-api/core/middleware"
	companyRepository "forum-api/modules/company/repository"
	"forum-api/modules/room/controller"
	"forum-api/modules/room/repository"
	"forum-api/modules/room/router"
	"forum-api/modules/room/service"

	"github.com/labstack/echo/v4"
)

type Module struct {
	Repository repository.RoomRepositoryInterface
	Service    service.RoomServiceInterface
}

func Init(e *echo.Group, db database.Database, companyRepo companyRepository.CompanyRepositoryInterface, mw *middleware.Middleware) *Module {
	repo := repository.NewRoomRepository(db)
	svc := service.NewRoomService(repo, companyRepo)
	ctrl := controller.NewRoomController(svc)

	router.NewRoomRouter(ctrl).Register(e, mw)

	return &Module{
		Repository: repo,
		Service:    svc,
	}
}
