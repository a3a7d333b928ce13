package controller

import (
	"forum-api/core/controller"
	"forum-api/core/errors"
	"forum-api/core/middleware"
	"forum-api/core/params"
	"forum-api/modules/interview/dto"
	"forum-api/modules/interview/entity"
	"forum-api/modules/interview/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type InterviewController struct {
	service service.InterviewServiceInterface
	controller.BaseController
}

func NewInterviewController(service service.InterviewServiceInterface) *InterviewController {
	return &InterviewController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// ===================== Student surface =====================

// SelectCompanies joins the authenticated student to the queues of the
// requested companies.
func (c *InterviewController) SelectCompanies(ctx echo.Context) error {
	tokenData, ok := middleware.TokenFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	req := new(dto.SelectCompaniesRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	result, appErr := c.service.SelectCompanies(ctx.Request().Context(), tokenData.UserID, req.CompanyIDs)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Joined queues successfully")
}

func (c *InterviewController) MyInterviews(ctx echo.Context) error {
	tokenData, ok := middleware.TokenFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	result, appErr := c.service.MyInterviews(ctx.Request().Context(), tokenData.UserID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Interviews retrieved successfully")
}

// QueueStatus is the student's polling endpoint for live positions.
func (c *InterviewController) QueueStatus(ctx echo.Context) error {
	tokenData, ok := middleware.TokenFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	result, appErr := c.service.QueueStatus(ctx.Request().Context(), tokenData.UserID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Queue status retrieved successfully")
}

func (c *InterviewController) Cancel(ctx echo.Context) error {
	tokenData, ok := middleware.TokenFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	interviewID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid interview id", nil)
	}

	if appErr := c.service.Cancel(ctx.Request().Context(), interviewID, tokenData.UserID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Interview cancelled successfully")
}

// ===================== Committee surface =====================

// RoomView returns the committee member's room with the running interview
// and upcoming queue.
func (c *InterviewController) RoomView(ctx echo.Context) error {
	tokenData, ok := middleware.TokenFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	result, appErr := c.service.GetRoomView(ctx.Request().Context(), tokenData.UserID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Room view retrieved successfully")
}

func (c *InterviewController) NextStudent(ctx echo.Context) error {
	tokenData, ok := middleware.TokenFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	result, appErr := c.service.NextStudent(ctx.Request().Context(), tokenData.UserID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Next student retrieved successfully")
}

func (c *InterviewController) Start(ctx echo.Context) error {
	tokenData, ok := middleware.TokenFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	interviewID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid interview id", nil)
	}

	if appErr := c.service.Start(ctx.Request().Context(), interviewID, tokenData.UserID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Interview started successfully")
}

func (c *InterviewController) Complete(ctx echo.Context) error {
	tokenData, ok := middleware.TokenFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	interviewID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid interview id", nil)
	}

	if appErr := c.service.Complete(ctx.Request().Context(), interviewID, tokenData.UserID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Interview completed successfully")
}

func (c *InterviewController) MarkAbsent(ctx echo.Context) error {
	interviewID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid interview id", nil)
	}

	if appErr := c.service.MarkAbsent(ctx.Request().Context(), interviewID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Student marked absent")
}

// CompanyQueue exposes one company's ordered queue.
func (c *InterviewController) CompanyQueue(ctx echo.Context) error {
	companyID, err := uuid.Parse(ctx.Param("companyId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid company id", nil)
	}

	result, appErr := c.service.GetQueueForCompany(ctx.Request().Context(), companyID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Queue retrieved successfully")
}

// ===================== Admin surface =====================

func (c *InterviewController) ListForAdmin(ctx echo.Context) error {
	queryParams := params.NewQueryParams(
		ctx.QueryParam("page"), ctx.QueryParam("limit"), ctx.QueryParam("search"))

	result, appErr := c.service.ListForAdmin(ctx.Request().Context(), queryParams)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Interviews retrieved successfully")
}

func (c *InterviewController) OverrideStatus(ctx echo.Context) error {
	interviewID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid interview id", nil)
	}

	req := new(dto.OverrideStatusRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	if appErr := c.service.AdminOverrideStatus(ctx.Request().Context(), interviewID, entity.InterviewStatus(req.Status)); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Interview status updated")
}
