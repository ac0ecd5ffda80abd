package router

import (
	"studio-api/core/middleware"
	"studio-api/modules/client/controller"

	"github.com/labstack/echo/v4"
)

type ClientRouter struct {
	Controller *controller.ClientController
}

func NewClientRouter(ctrl *controller.ClientController) *ClientRouter {
	return &ClientRouter{Controller: ctrl}
}

func (r *ClientRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	priv := v1.Group("/private", mw.AuthMiddleware())

	clients := priv.Group("/clients")
	clients.GET("", r.Controller.List)
	clients.POST("", r.Controller.Create)
	clients.GET("/:id", r.Controller.Get)
	clients.PATCH("/:id", r.Controller.Update)
	clients.DELETE("/:id", r.Controller.Delete)
}
