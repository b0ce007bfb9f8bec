package controller

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"meetquorum/core/constants"
	"meetquorum/core/controller"
	"meetquorum/core/errors"
	"meetquorum/core/params"
	"meetquorum/core/utils"
	"meetquorum/modules/notify/service"
)

// NotifyController exposes a participant's in-app notifications.
type NotifyController struct {
	controller.BaseController
	NotifyService *service.NotifyService
}

func NewNotifyController(svc *service.NotifyService) *NotifyController {
	return &NotifyController{
		BaseController: controller.NewBaseController(),
		NotifyService:  svc,
	}
}

func (c *NotifyController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
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

// ListNotifications handles GET /notifications
func (c *NotifyController) ListNotifications(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	var p params.QueryParams
	if err := ctx.Bind(&p); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid paging parameters")
	}

	notifications, svcErr := c.NotifyService.ListNotifications(ctx.Request().Context(), userID.String(), p)
	if svcErr != nil {
		return c.ErrorResponse(ctx, svcErr)
	}
	return c.SuccessResponse(ctx, notifications, "success")
}

// MarkRead handles PUT /notifications/:id/read
func (c *NotifyController) MarkRead(ctx echo.Context) error {
	if _, err := c.getUserIDFromContext(ctx); err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	notificationID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid notification ID")
	}

	if svcErr := c.NotifyService.MarkNotificationRead(ctx.Request().Context(), notificationID); svcErr != nil {
		return c.ErrorResponse(ctx, svcErr)
	}
	return c.SuccessResponse(ctx, nil, "notification marked read")
}
