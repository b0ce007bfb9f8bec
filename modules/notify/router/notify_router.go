package router

import (
	"github.com/labstack/echo/v4"

	"meetquorum/core/middleware"
	"meetquorum/modules/notify/controller"
)

type NotifyRouter struct {
	NotifyController *controller.NotifyController
}

func NewNotifyRouter(notifyController *controller.NotifyController) *NotifyRouter {
	return &NotifyRouter{NotifyController: notifyController}
}

func (r *NotifyRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	notificationRoutes := privateRoutes.Group("/notifications", mw.AuthMiddleware())

	notificationRoutes.GET("", r.NotifyController.ListNotifications)
	notificationRoutes.PUT("/:id/read", r.NotifyController.MarkRead)
}
