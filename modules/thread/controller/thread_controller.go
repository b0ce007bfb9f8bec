package controller

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"meetquorum/core/constants"
	"meetquorum/core/controller"
	"meetquorum/core/errors"
	"meetquorum/core/utils"
	"meetquorum/modules/thread/dto"
	"meetquorum/modules/thread/service"
)

// ThreadController handles scheduling thread HTTP requests.
type ThreadController struct {
	controller.BaseController
	ThreadService *service.ThreadService
}

func NewThreadController(svc *service.ThreadService) *ThreadController {
	return &ThreadController{
		BaseController: controller.NewBaseController(),
		ThreadService:  svc,
	}
}

func (c *ThreadController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
	tokenData := ctx.Get(constants.ContextTokenData)
	if tokenData == nil {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "user not authenticated", nil)
	}
	claims, ok := tokenData.(*utils.TokenClaims)
	if !ok {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "invalid token data", nil)
	}
	return claims.UserID, nil
}

// CreateThread handles POST /threads
func (c *ThreadController) CreateThread(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	var req dto.CreateThreadRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid request body")
	}

	result, appErr := c.ThreadService.CreateThread(ctx.Request().Context(), userID.String(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "thread created")
}

// GetThread handles GET /threads/:id
func (c *ThreadController) GetThread(ctx echo.Context) error {
	threadID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid thread ID")
	}

	result, appErr := c.ThreadService.GetThread(ctx.Request().Context(), threadID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "success")
}

// GetMyThreads handles GET /threads
func (c *ThreadController) GetMyThreads(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	result, appErr := c.ThreadService.GetMyThreads(ctx.Request().Context(), userID.String())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "success")
}

// ComputeSlots handles POST /threads/:id/compute-slots
func (c *ThreadController) ComputeSlots(ctx echo.Context) error {
	threadID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid thread ID")
	}

	result, appErr := c.ThreadService.ComputeSlots(ctx.Request().Context(), threadID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "slots computed")
}

// SubmitSelection handles POST /threads/:id/selections
func (c *ThreadController) SubmitSelection(ctx echo.Context) error {
	threadID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid thread ID")
	}

	var req dto.SubmitSelectionRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid request body")
	}

	result, appErr := c.ThreadService.SubmitSelection(ctx.Request().Context(), threadID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "selection recorded")
}

// GetDecision handles GET /threads/:id/decision
func (c *ThreadController) GetDecision(ctx echo.Context) error {
	threadID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid thread ID")
	}

	result, appErr := c.ThreadService.GetDecision(ctx.Request().Context(), threadID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "success")
}

// SetRule handles PUT /threads/:id/rule
func (c *ThreadController) SetRule(ctx echo.Context) error {
	threadID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid thread ID")
	}

	var req dto.SetRuleRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid request body")
	}

	if appErr := c.ThreadService.SetRule(ctx.Request().Context(), threadID, req.Rule); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "rule updated")
}

// CancelThread handles DELETE /threads/:id
func (c *ThreadController) CancelThread(ctx echo.Context) error {
	threadID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid thread ID")
	}

	if appErr := c.ThreadService.CancelThread(ctx.Request().Context(), threadID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "thread cancelled")
}
