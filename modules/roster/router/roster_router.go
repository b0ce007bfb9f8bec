package router

import (
	"github.com/labstack/echo/v4"

	"meetquorum/core/middleware"
	"meetquorum/modules/roster/controller"
)

type RosterRouter struct {
	RosterController *controller.RosterController
}

func NewRosterRouter(rosterController *controller.RosterController) *RosterRouter {
	return &RosterRouter{RosterController: rosterController}
}

func (r *RosterRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	groupRoutes := privateRoutes.Group("/groups", mw.AuthMiddleware())

	groupRoutes.POST("", r.RosterController.CreateGroup)
	groupRoutes.GET("", r.RosterController.ListGroups)
	groupRoutes.GET("/:id", r.RosterController.GetGroup)
	groupRoutes.PUT("/:id/members", r.RosterController.UpdateMembers)
	groupRoutes.DELETE("/:id", r.RosterController.DeleteGroup)
}
