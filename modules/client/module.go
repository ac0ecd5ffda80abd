package client

import (
	"studio-api/core/database"
	"studio-api/core/middleware"
	"studio-api/modules/client/controller"
	"studio-api/modules/client/repository"
	"studio-api/modules/client/router"
	"studio-api/modules/client/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, db database.IDatabase) {
	repo := repository.NewClientRepository(db)
	svc := service.NewClientService(repo)

	ctrl := controller.NewClientController(svc)
	mw := middleware.NewMiddleware()
	router.NewClientRouter(ctrl).Setup(e, mw)
}
