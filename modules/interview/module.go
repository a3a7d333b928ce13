package interview

import (
	"forum-api/core/cache"
	"forum-api/core/database"
	"forum-api/core/middleware"
	companyRepository "forum-api/modules/company/repository"
	"forum-api/modules/interview/controller"
	"forum-api/modules/interview/repository"
	"forum-api/modules/interview/router"
	"forum-api/modules/interview/service"
	roomService "forum-api/modules/room/service"
	userRepository "forum-api/modules/user/repository"

	"github.com/labstack/echo/v4"
)

// Module exposes the pieces other modules hook into: the repository for the
// notification worker and the queue service for the notifier wiring.
type Module struct {
	Repository repository.InterviewRepositoryInterface
	Queue      *service.QueueService
	Service    service.InterviewServiceInterface
}

func Init(
	e *echo.Group,
	db database.Database,
	c *cache.Cache,
	userRepo userRepository.UserRepositoryInterface,
	companyRepo companyRepository.CompanyRepositoryInterface,
	rooms roomService.RoomServiceInterface,
	mw *middleware.Middleware,
) *Module {
	repo := repository.NewInterviewRepository(db)
	queue := service.NewQueueService(repo, c)
	svc := service.NewInterviewService(repo, userRepo, companyRepo, rooms, queue, c)
	ctrl := controller.NewInterviewController(svc)

	router.NewInterviewRouter(ctrl).Register(e, mw)

	return &Module{
		Repository: repo,
		Queue:      queue,
		Service:    svc,
	}
}
