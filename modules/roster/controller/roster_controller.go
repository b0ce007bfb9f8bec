package controller

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"meetquorum/core/controller"
	"meetquorum/core/errors"
	"meetquorum/modules/roster/dto"
	"meetquorum/modules/roster/service"
)

// RosterController handles participant group HTTP requests.
type RosterController struct {
	controller.BaseController
	RosterService *service.RosterService
}

func NewRosterController(svc *service.RosterService) *RosterController {
	return &RosterController{
		BaseController: controller.NewBaseController(),
		RosterService:  svc,
	}
}

// CreateGroup handles POST /groups
func (c *RosterController) CreateGroup(ctx echo.Context) error {
	var req dto.CreateGroupRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid request body")
	}

	group, err := c.RosterService.CreateGroup(ctx.Request().Context(), req.Name, req.MemberKeys)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, group, "group created")
}

// GetGroup handles GET /groups/:id
func (c *RosterController) GetGroup(ctx echo.Context) error {
	groupID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid group ID")
	}

	group, svcErr := c.RosterService.GetGroup(ctx.Request().Context(), groupID)
	if svcErr != nil {
		return c.ErrorResponse(ctx, svcErr)
	}
	return c.SuccessResponse(ctx, group, "success")
}

// ListGroups handles GET /groups
func (c *RosterController) ListGroups(ctx echo.Context) error {
	groups, err := c.RosterService.ListGroups(ctx.Request().Context())
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, groups, "success")
}

// UpdateMembers handles PUT /groups/:id/members
func (c *RosterController) UpdateMembers(ctx echo.Context) error {
	groupID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid group ID")
	}

	var req dto.UpdateMembersRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid request body")
	}

	if svcErr := c.RosterService.UpdateMembers(ctx.Request().Context(), groupID, req.MemberKeys); svcErr != nil {
		return c.ErrorResponse(ctx, svcErr)
	}
	return c.SuccessResponse(ctx, nil, "members updated")
}

// DeleteGroup handles DELETE /groups/:id
func (c *RosterController) DeleteGroup(ctx echo.Context) error {
	groupID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid group ID")
	}

	if svcErr := c.RosterService.DeleteGroup(ctx.Request().Context(), groupID); svcErr != nil {
		return c.ErrorResponse(ctx, svcErr)
	}
	return c.SuccessResponse(ctx, nil, "group deleted")
}
