package router

import (
	"studio-api/core/middleware"
	"studio-api/modules/session/controller"

	"github.com/labstack/echo/v4"
)

type SessionRouter struct {
	Controller *controller.SessionController
}

func NewSessionRouter(ctrl *controller.SessionController) *SessionRouter {
	return &SessionRouter{Controller: ctrl}
}

func (r *SessionRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	priv := v1.Group("/private", mw.AuthMiddleware())

	sessions := priv.Group("/sessions")
	sessions.POST("", r.Controller.Create)
	sessions.GET("/:id", r.Controller.Get)
	sessions.PATCH("/:id", r.Controller.Update)
	sessions.DELETE("/:id", r.Controller.Cancel)

	priv.POST("/sessions/calendar", r.Controller.HandleAction)
}
