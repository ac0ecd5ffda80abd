package controller

import (
	"studio-api/core/constants"
	basecontroller "studio-api/core/controller"
	"studio-api/core/errors"
	"studio-api/core/middleware"
	"studio-api/modules/auth/dto"
	authsvc "studio-api/modules/auth/service"

	"github.com/labstack/echo/v4"
)

type AuthController struct {
	basecontroller.BaseController
	service authsvc.AuthService
}

func NewAuthController(service authsvc.AuthService) *AuthController {
	return &AuthController{
		BaseController: basecontroller.NewBaseController(),
		service:        service,
	}
}

func (ctrl *AuthController) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return ctrl.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}
	resp, appErr := ctrl.service.Login(c.Request().Context(), &req)
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.SuccessResponse(c, resp, "login successful")
}

func (ctrl *AuthController) Me(c echo.Context) error {
	claims, ok := c.Get(constants.ContextTokenData).(*middleware.TokenClaims)
	if !ok {
		return ctrl.Unauthorized(errors.ErrUnauthorized, "missing token data")
	}
	resp, appErr := ctrl.service.Me(c.Request().Context(), claims.UserID)
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.SuccessResponse(c, resp, "current user")
}
