package controller

import (
	"forum-api/core/controller"
	"forum-api/core/errors"
	"forum-api/modules/room/dto"
	"forum-api/modules/room/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type RoomController struct {
	service service.RoomServiceInterface
	controller.BaseController
}

func NewRoomController(service service.RoomServiceInterface) *RoomController {
	return &RoomController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

func (c *RoomController) List(ctx echo.Context) error {
	result, appErr := c.service.ListRooms(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Rooms retrieved successfully")
}

func (c *RoomController) Create(ctx echo.Context) error {
	req := new(dto.RoomRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	result, appErr := c.service.CreateRoom(ctx.Request().Context(), req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Room created successfully")
}

func (c *RoomController) Update(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid room id", nil)
	}

	req := new(dto.RoomRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	result, appErr := c.service.UpdateRoom(ctx.Request().Context(), id, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Room updated successfully")
}

// AssignCompany links a room to a company; a nil company id clears the link.
func (c *RoomController) AssignCompany(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid room id", nil)
	}

	req := new(dto.AssignCompanyRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	if appErr := c.service.AssignCompany(ctx.Request().Context(), id, req.CompanyID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Company assigned successfully")
}

func (c *RoomController) SetCommitteeMembers(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid room id", nil)
	}

	req := new(dto.SetCommitteeMembersRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	if appErr := c.service.SetCommitteeMembers(ctx.Request().Context(), id, req.CommitteeMemberIDs); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Committee members updated successfully")
}

func (c *RoomController) Delete(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid room id", nil)
	}

	if appErr := c.service.DeleteRoom(ctx.Request().Context(), id); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Room deleted successfully")
}
