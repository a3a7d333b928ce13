package router

import (
	"forum-api/core/middleware"
	"forum-api/modules/interview/controller"
	userentity "forum-api/modules/user/entity"

	"github.com/labstack/echo/v4"
)

type InterviewRouter struct {
	controller *controller.InterviewController
}

func NewInterviewRouter(controller *controller.InterviewController) *InterviewRouter {
	return &InterviewRouter{controller: controller}
}

func (r *InterviewRouter) Register(e *echo.Group, mw *middleware.Middleware) {
	student := e.Group("/student", mw.AuthMiddleware(), mw.RequireRole(string(userentity.RoleStudent), string(userentity.RoleAdmin)))
	student.POST("/interviews/select", r.controller.SelectCompanies)
	student.GET("/interviews", r.controller.MyInterviews)
	student.GET("/interviews/queue-status", r.controller.QueueStatus)
	student.DELETE("/interviews/:id", r.controller.Cancel)

	committee := e.Group("/committee", mw.AuthMiddleware(), mw.RequireRole(string(userentity.RoleCommittee), string(userentity.RoleAdmin)))
	committee.GET("/room", r.controller.RoomView)
	committee.GET("/room/next", r.controller.NextStudent)
	committee.POST("/interviews/:id/start", r.controller.Start)
	committee.POST("/interviews/:id/complete", r.controller.Complete)
	committee.POST("/interviews/:id/absent", r.controller.MarkAbsent)
	committee.GET("/companies/:companyId/queue", r.controller.CompanyQueue)

	admin := e.Group("/admin", mw.AuthMiddleware(), mw.RequireRole(string(userentity.RoleAdmin)))
	admin.GET("/interviews", r.controller.ListForAdmin)
	admin.PUT("/interviews/:id/status", r.controller.OverrideStatus)
	admin.GET("/companies/:companyId/queue", r.controller.CompanyQueue)
}
