package router

import (
	"forum-api/core/middleware"
	"forum-api/modules/room/controller"
	userentity "forum-api/modules/user/entity"

	"github.com/labstack/echo/v4"
)

type RoomRouter struct {
	controller *controller.RoomController
}

func NewRoomRouter(controller *controller.RoomController) *RoomRouter {
	return &RoomRouter{controller: controller}
}

func (r *RoomRouter) Register(e *echo.Group, mw *middleware.Middleware) {
	admin := e.Group("/admin/rooms", mw.AuthMiddleware(), mw.RequireRole(string(userentity.RoleAdmin)))
	admin.GET("", r.controller.List)
	admin.POST("", r.controller.Create)
	admin.PUT("/:id", r.controller.Update)
	admin.PUT("/:id/company", r.controller.AssignCompany)
	admin.PUT("/:id/committee", r.controller.SetCommitteeMembers)
	admin.DELETE("/:id", r.controller.Delete)
}
