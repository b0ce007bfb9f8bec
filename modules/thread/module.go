package thread

import (
	"github.com/labstack/echo/v4"

	"meetquorum/core/cache"
	"meetquorum/core/config"
	"meetquorum/core/database"
	"meetquorum/core/middleware"
	"meetquorum/core/queue"
	availabilityService "meetquorum/modules/availability/service"
	calendarRepository "meetquorum/modules/calendar/repository"
	calendarService "meetquorum/modules/calendar/service"
	decisionRepository "meetquorum/modules/decision/repository"
	decisionService "meetquorum/modules/decision/service"
	notifyRepository "meetquorum/modules/notify/repository"
	notifyService "meetquorum/modules/notify/service"
	preferenceRepository "meetquorum/modules/preference/repository"
	preferenceService "meetquorum/modules/preference/service"
	rosterRepository "meetquorum/modules/roster/repository"
	rosterService "meetquorum/modules/roster/service"
	"meetquorum/modules/thread/controller"
	"meetquorum/modules/thread/repository"
	"meetquorum/modules/thread/router"
	"meetquorum/modules/thread/service"
)

// Init wires the scheduling thread surface: availability pipeline, decision
// engine, finalize coordinator, and routes.
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware, resultCache *cache.Cache, queueClient *queue.Client, cfg *config.Config) {
	calendarSvc := calendarService.NewCalendarService(calendarRepository.NewCalendarRepository(db), cfg)
	preferenceSvc := preferenceService.NewPreferenceService(preferenceRepository.NewPreferenceRepository(db))
	availabilitySvc := availabilityService.NewAvailabilityService(calendarSvc, preferenceSvc, resultCache, cfg)

	decisionRepo := decisionRepository.NewDecisionRepository(db)
	notifier := notifyService.NewNotifyService(notifyRepository.NewNotificationRepository(db), queueClient)
	finalizer := decisionService.NewFinalizer(decisionRepo, notifier)
	rosterSvc := rosterService.NewRosterService(rosterRepository.NewRosterRepository(db))

	svc := service.NewThreadService(
		repository.NewThreadRepository(db),
		decisionRepo,
		availabilitySvc,
		rosterSvc,
		finalizer,
	)

	ctrl := controller.NewThreadController(svc)
	router.NewThreadRouter(ctrl).Setup(e, mw)
}
