package notify

import (
	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"

	"meetquorum/core/database"
	"meetquorum/core/middleware"
	"meetquorum/core/queue"
	"meetquorum/modules/notify/controller"
	"meetquorum/modules/notify/repository"
	"meetquorum/modules/notify/router"
	"meetquorum/modules/notify/service"
)

// Init wires the notification read endpoints.
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware, queueClient *queue.Client) {
	repo := repository.NewNotificationRepository(db)
	svc := service.NewNotifyService(repo, queueClient)
	ctrl := controller.NewNotifyController(svc)

	router.NewNotifyRouter(ctrl).Setup(e, mw)
}

// InitWorker registers the module's background task handlers on the worker
// mux. The HTTP process enqueues; the worker writes notification rows.
func InitWorker(mux *asynq.ServeMux, db database.IDatabase, queueClient *queue.Client) {
	repo := repository.NewNotificationRepository(db)
	svc := service.NewNotifyService(repo, queueClient)
	svc.RegisterHandlers(mux)
}
