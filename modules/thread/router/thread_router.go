package router

import (
	"github.com/labstack/echo/v4"

	"meetquorum/core/middleware"
	"meetquorum/modules/thread/controller"
)

// ThreadRouter registers scheduling thread routes.
type ThreadRouter struct {
	ThreadController *controller.ThreadController
}

func NewThreadRouter(threadController *controller.ThreadController) *ThreadRouter {
	return &ThreadRouter{ThreadController: threadController}
}

func (r *ThreadRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	threadRoutes := privateRoutes.Group("/threads", mw.AuthMiddleware())

	threadRoutes.POST("", r.ThreadController.CreateThread)
	threadRoutes.GET("", r.ThreadController.GetMyThreads)
	threadRoutes.GET("/:id", r.ThreadController.GetThread)
	threadRoutes.DELETE("/:id", r.ThreadController.CancelThread)

	threadRoutes.POST("/:id/compute-slots", r.ThreadController.ComputeSlots)
	threadRoutes.POST("/:id/selections", r.ThreadController.SubmitSelection)
	threadRoutes.GET("/:id/decision", r.ThreadController.GetDecision)
	threadRoutes.PUT("/:id/rule", r.ThreadController.SetRule)
}
