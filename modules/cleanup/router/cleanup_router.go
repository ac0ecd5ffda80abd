package router

import (
	"studio-api/core/middleware"
	"studio-api/modules/cleanup/controller"

	"github.com/labstack/echo/v4"
)

type CleanupRouter struct {
	Controller *controller.CleanupController
}

func NewCleanupRouter(ctrl *controller.CleanupController) *CleanupRouter {
	return &CleanupRouter{Controller: ctrl}
}

func (r *CleanupRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	// The sweep is privileged: callers present the admin key, not a user
	// token.
	admin := v1.Group("/admin", mw.AdminKeyMiddleware())
	admin.POST("/cleanup", r.Controller.HandleAction)
}
