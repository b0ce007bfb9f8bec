package router

import (
	"github.com/labstack/echo/v4"

	"meetquorum/core/middleware"
	"meetquorum/modules/availability/controller"
)

type AvailabilityRouter struct {
	AvailabilityController *controller.AvailabilityController
}

func NewAvailabilityRouter(availabilityController *controller.AvailabilityController) *AvailabilityRouter {
	return &AvailabilityRouter{AvailabilityController: availabilityController}
}

func (r *AvailabilityRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	availabilityRoutes := privateRoutes.Group("/availability", mw.AuthMiddleware())
	availabilityRoutes.POST("/compute", r.AvailabilityController.ComputeSlots)
}
