package router

import (
	"forum-api/core/middleware"
	"forum-api/modules/company/controller"
	userentity "forum-api/modules/user/entity"

	"github.com/labstack/echo/v4"
)

type CompanyRouter struct {
	controller *controller.CompanyController
}

func NewCompanyRouter(controller *controller.CompanyController) *CompanyRouter {
	return &CompanyRouter{controller: controller}
}

func (r *CompanyRouter) Register(e *echo.Group, mw *middleware.Middleware) {
	// Browsing is open to any authenticated user.
	companies := e.Group("/companies", mw.AuthMiddleware())
	companies.GET("", r.controller.ListActive)
	companies.GET("/:id", r.controller.GetByID)

	admin := e.Group("/admin/companies", mw.AuthMiddleware(), mw.RequireRole(string(userentity.RoleAdmin)))
	admin.GET("", r.controller.List)
	admin.POST("", r.controller.Create)
	admin.PUT("/:id", r.controller.Update)
	admin.POST("/:id/logo", r.controller.PresignLogoUpload)
	admin.DELETE("/:id", r.controller.Delete)
}
