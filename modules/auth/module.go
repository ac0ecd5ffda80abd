package auth

import (
	"studio-api/core/cache"
	"studio-api/core/database"
	"studio-api/core/middleware"
	"studio-api/modules/auth/controller"
	"studio-api/modules/auth/repository"
	"studio-api/modules/auth/router"
	"studio-api/modules/auth/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, db database.IDatabase, c cache.Cache) {
	repo := repository.NewUserRepository(db)
	svc := service.NewAuthService(repo, c)

	ctrl := controller.NewAuthController(svc)
	mw := middleware.NewMiddleware()
	router.NewAuthRouter(ctrl).Setup(e, mw)
}
