package controller

import (
	"forum-api/core/controller"
	"forum-api/core/errors"
	"forum-api/modules/settings/dto"
	"forum-api/modules/settings/service"

	"github.com/labstack/echo/v4"
)

type SettingsController struct {
	service service.SettingsServiceInterface
	controller.BaseController
}

func NewSettingsController(service service.SettingsServiceInterface) *SettingsController {
	return &SettingsController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

func (c *SettingsController) Get(ctx echo.Context) error {
	result, appErr := c.service.Get(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Settings retrieved successfully")
}

func (c *SettingsController) Update(ctx echo.Context) error {
	req := new(dto.UpdateSettingsRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	result, appErr := c.service.Update(ctx.Request().Context(), req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Settings updated successfully")
}
