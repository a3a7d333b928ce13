package controller

import (
	"strings"

	"forum-api/core/controller"
	"forum-api/core/errors"
	"forum-api/core/middleware"
	"forum-api/modules/auth/dto"
	"forum-api/modules/auth/service"

	"github.com/labstack/echo/v4"
)

type AuthController struct {
	service service.AuthServiceInterface
	controller.BaseController
}

func NewAuthController(service service.AuthServiceInterface) *AuthController {
	return &AuthController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

func (c *AuthController) Register(ctx echo.Context) error {
	req := new(dto.RegisterRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	result, appErr := c.service.Register(ctx.Request().Context(), req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Account created successfully")
}

func (c *AuthController) Login(ctx echo.Context) error {
	req := new(dto.LoginRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	result, appErr := c.service.Login(ctx.Request().Context(), req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Logged in successfully")
}

func (c *AuthController) Refresh(ctx echo.Context) error {
	req := new(dto.RefreshRequest)
	if err := ctx.Bind(req); err != nil || req.RefreshToken == "" {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	result, appErr := c.service.Refresh(ctx.Request().Context(), req.RefreshToken)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Token refreshed successfully")
}

func (c *AuthController) Logout(ctx echo.Context) error {
	tokenData, ok := middleware.TokenFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	raw := ctx.Request().Header.Get(echo.HeaderAuthorization)
	if parts := strings.SplitN(raw, " ", 2); len(parts) == 2 {
		raw = parts[1]
	}

	if appErr := c.service.Logout(ctx.Request().Context(), raw, tokenData); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Logged out successfully")
}

func (c *AuthController) Me(ctx echo.Context) error {
	tokenData, ok := middleware.TokenFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	user, appErr := c.service.Me(ctx.Request().Context(), tokenData.UserID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, user, "User retrieved successfully")
}
