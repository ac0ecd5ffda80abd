package shoot

import (
	"time"

	"studio-api/core/config"
	"studio-api/core/constants"
	"studio-api/core/database"
	"studio-api/core/middleware"
	"studio-api/core/storage"
	calService "studio-api/modules/calendar/service"
	clientRepository "studio-api/modules/client/repository"
	"studio-api/modules/shoot/controller"
	shootRepository "studio-api/modules/shoot/repository"
	"studio-api/modules/shoot/router"
	"studio-api/modules/shoot/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, db database.IDatabase, store storage.ObjectStore, cal calService.Client, loc *time.Location, cfg config.CalendarConfig) {
	shootRepo := shootRepository.NewShootRepository(db)
	clientRepo := clientRepository.NewClientRepository(db)

	availability := calService.NewAvailabilityService(cal, loc)
	sync := calService.NewSyncService(cal, loc)

	minutes := cfg.DefaultShootMinutes
	if minutes <= 0 {
		minutes = constants.DefaultShootDurationMinutes
	}
	defaultDuration := time.Duration(minutes) * time.Minute
	svc := service.NewShootService(
		shootRepo,
		clientRepo,
		sync,
		availability,
		store,
		defaultDuration,
	)

	ctrl := controller.NewShootController(svc, availability, defaultDuration)
	mw := middleware.NewMiddleware()
	router.NewShootRouter(ctrl).Setup(e, mw)
}
