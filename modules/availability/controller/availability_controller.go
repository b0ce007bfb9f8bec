package controller

import (
	"time"

	"github.com/labstack/echo/v4"

	"meetquorum/core/controller"
	"meetquorum/core/errors"
	"meetquorum/modules/availability/dto"
	"meetquorum/modules/availability/service"
)

// AvailabilityController exposes the ad-hoc slot computation endpoint.
type AvailabilityController struct {
	controller.BaseController
	AvailabilityService *service.AvailabilityService
}

func NewAvailabilityController(svc *service.AvailabilityService) *AvailabilityController {
	return &AvailabilityController{
		BaseController:      controller.NewBaseController(),
		AvailabilityService: svc,
	}
}

// ComputeSlots handles POST /availability/compute
func (c *AvailabilityController) ComputeSlots(ctx echo.Context) error {
	var req dto.ComputeSlotsRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid request body")
	}

	computeReq := service.ComputeRequest{
		Participants:  req.Participants,
		TimeMin:       req.TimeMin,
		TimeMax:       req.TimeMax,
		MeetingLength: time.Duration(req.DurationMinutes) * time.Minute,
		GridStep:      time.Duration(req.GridStepMinutes) * time.Minute,
		MaxResults:    req.MaxResults,
		Timezone:      req.Timezone,
	}
	if req.DayWindowStart != nil && req.DayWindowEnd != nil {
		computeReq.DayWindow = &service.DayTimeWindow{
			StartHour: *req.DayWindowStart,
			EndHour:   *req.DayWindowEnd,
		}
	}

	result, appErr := c.AvailabilityService.ComputeAvailableSlots(ctx.Request().Context(), computeReq)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "success")
}
