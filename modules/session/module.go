package session

import (
	"time"

	"studio-api/core/config"
	"studio-api/core/constants"
	"studio-api/core/database"
	"studio-api/core/middleware"
	calService "studio-api/modules/calendar/service"
	clientRepository "studio-api/modules/client/repository"
	"studio-api/modules/session/controller"
	sessionRepository "studio-api/modules/session/repository"
	"studio-api/modules/session/router"
	"studio-api/modules/session/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, db database.IDatabase, cal calService.Client, loc *time.Location, cfg config.CalendarConfig) {
	sessionRepo := sessionRepository.NewSessionRepository(db)
	clientRepo := clientRepository.NewClientRepository(db)

	availability := calService.NewAvailabilityService(cal, loc)
	sync := calService.NewSyncService(cal, loc)

	minutes := cfg.DefaultSessionMinutes
	if minutes <= 0 {
		minutes = constants.DefaultSessionDurationMinutes
	}
	defaultDuration := time.Duration(minutes) * time.Minute
	svc := service.NewSessionService(
		sessionRepo,
		clientRepo,
		sync,
		availability,
		defaultDuration,
	)

	ctrl := controller.NewSessionController(svc, availability, defaultDuration)
	mw := middleware.NewMiddleware()
	router.NewSessionRouter(ctrl).Setup(e, mw)
}
