package controller

import (
	"forum-api/core/controller"
	"forum-api/core/errors"
	"forum-api/core/params"
	"forum-api/modules/company/dto"
	"forum-api/modules/company/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type CompanyController struct {
	service service.CompanyServiceInterface
	controller.BaseController
}

func NewCompanyController(service service.CompanyServiceInterface) *CompanyController {
	return &CompanyController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// ListActive is the student-facing browsing endpoint: active companies with
// their waiting counts.
func (c *CompanyController) ListActive(ctx echo.Context) error {
	result, appErr := c.service.ListActive(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Companies retrieved successfully")
}

func (c *CompanyController) GetByID(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid company id", nil)
	}

	result, appErr := c.service.GetByID(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Company retrieved successfully")
}

func (c *CompanyController) List(ctx echo.Context) error {
	queryParams := params.NewQueryParams(
		ctx.QueryParam("page"), ctx.QueryParam("limit"), ctx.QueryParam("search"))

	result, appErr := c.service.List(ctx.Request().Context(), queryParams)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Companies retrieved successfully")
}

func (c *CompanyController) Create(ctx echo.Context) error {
	req := new(dto.CompanyRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	result, appErr := c.service.Create(ctx.Request().Context(), req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Company created successfully")
}

func (c *CompanyController) Update(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid company id", nil)
	}

	req := new(dto.CompanyRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	result, appErr := c.service.Update(ctx.Request().Context(), id, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Company updated successfully")
}

// PresignLogoUpload returns a presigned PUT URL for a company logo.
func (c *CompanyController) PresignLogoUpload(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid company id", nil)
	}

	req := new(dto.LogoUploadRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	result, appErr := c.service.PresignLogoUpload(ctx.Request().Context(), id, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Upload URL issued successfully")
}

func (c *CompanyController) Delete(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid company id", nil)
	}

	if appErr := c.service.Delete(ctx.Request().Context(), id); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Company deleted successfully")
}
