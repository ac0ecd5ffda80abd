package cleanup

import (
	"time"

	"studio-api/core/config"
	"studio-api/core/database"
	"studio-api/core/middleware"
	"studio-api/core/storage"
	calService "studio-api/modules/calendar/service"
	"studio-api/modules/cleanup/controller"
	"studio-api/modules/cleanup/router"
	"studio-api/modules/cleanup/service"
	shootRepository "studio-api/modules/shoot/repository"

	"github.com/labstack/echo/v4"
)

// Init wires the HTTP trigger and returns the service so the worker can
// schedule the same sweep.
func Init(e *echo.Echo, db database.IDatabase, store storage.ObjectStore, cal calService.Client, loc *time.Location, cfg config.CleanupConfig) service.CleanupService {
	shootRepo := shootRepository.NewShootRepository(db)
	sync := calService.NewSyncService(cal, loc)

	svc := service.NewCleanupService(shootRepo, store, sync, cfg.RetentionDays)

	ctrl := controller.NewCleanupController(svc)
	mw := middleware.NewMiddleware()
	router.NewCleanupRouter(ctrl).Setup(e, mw)
	return svc
}
