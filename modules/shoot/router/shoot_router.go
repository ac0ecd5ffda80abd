package router

import (
	"studio-api/core/middleware"
	"studio-api/modules/shoot/controller"

	"github.com/labstack/echo/v4"
)

type ShootRouter struct {
	Controller *controller.ShootController
}

func NewShootRouter(ctrl *controller.ShootController) *ShootRouter {
	return &ShootRouter{Controller: ctrl}
}

func (r *ShootRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	priv := v1.Group("/private", mw.AuthMiddleware())

	shoots := priv.Group("/shoots")
	shoots.POST("", r.Controller.Create)
	shoots.GET("/:id", r.Controller.Get)
	shoots.PATCH("/:id", r.Controller.Update)
	shoots.DELETE("/:id", r.Controller.Cancel)

	shoots.POST("/:id/files", r.Controller.RegisterFile)
	shoots.GET("/:id/files", r.Controller.ListFiles)
	shoots.DELETE("/:id/files/:fileId", r.Controller.RemoveFile)

	// Calendar integration actions share one endpoint, dispatched by action
	// name in the body.
	priv.POST("/shoots/calendar", r.Controller.HandleAction)
}
