package notification

import (
	"forum-api/core/database"
	"forum-api/core/middleware"
	companyRepository "forum-api/modules/company/repository"
	interviewRepository "forum-api/modules/interview/repository"
	"forum-api/modules/notification/controller"
	"forum-api/modules/notification/repository"
	"forum-api/modules/notification/router"
	"forum-api/modules/notification/service"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
)

func Init(
	e *echo.Group,
	db database.Database,
	interviewRepo interviewRepository.InterviewRepositoryInterface,
	companyRepo companyRepository.CompanyRepositoryInterface,
	client *asynq.Client,
	mw *middleware.Middleware,
) *service.NotificationService {
	repo := repository.NewNotificationRepository(db)
	svc := service.NewNotificationService(repo, interviewRepo, companyRepo, client)
	ctrl := controller.NewNotificationController(svc)

	router.NewNotificationRouter(ctrl).Register(e, mw)

	return svc
}
