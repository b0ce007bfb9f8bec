package availability

import (
	"github.com/labstack/echo/v4"

	"meetquorum/core/cache"
	"meetquorum/core/config"
	"meetquorum/core/database"
	"meetquorum/core/middleware"
	"meetquorum/modules/availability/controller"
	"meetquorum/modules/availability/router"
	"meetquorum/modules/availability/service"
	calendarRepository "meetquorum/modules/calendar/repository"
	calendarService "meetquorum/modules/calendar/service"
	preferenceRepository "meetquorum/modules/preference/repository"
	preferenceService "meetquorum/modules/preference/service"
)

// Init wires the ad-hoc availability endpoint.
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware, resultCache *cache.Cache, cfg *config.Config) {
	calendarSvc := calendarService.NewCalendarService(calendarRepository.NewCalendarRepository(db), cfg)
	preferenceSvc := preferenceService.NewPreferenceService(preferenceRepository.NewPreferenceRepository(db))
	svc := service.NewAvailabilityService(calendarSvc, preferenceSvc, resultCache, cfg)

	ctrl := controller.NewAvailabilityController(svc)
	router.NewAvailabilityRouter(ctrl).Setup(e, mw)
}
