package roster

import (
	"github.com/labstack/echo/v4"

	"meetquorum/core/database"
	"meetquorum/core/middleware"
	"meetquorum/modules/roster/controller"
	"meetquorum/modules/roster/repository"
	"meetquorum/modules/roster/router"
	"meetquorum/modules/roster/service"
)

// Init wires participant group management routes.
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware) {
	repo := repository.NewRosterRepository(db)
	svc := service.NewRosterService(repo)
	ctrl := controller.NewRosterController(svc)

	router.NewRosterRouter(ctrl).Setup(e, mw)
}
