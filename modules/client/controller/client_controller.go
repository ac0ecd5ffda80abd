package controller

import (
	"strconv"

	basecontroller "studio-api/core/controller"
	"studio-api/core/errors"
	"studio-api/modules/client/dto"
	clientsvc "studio-api/modules/client/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ClientController struct {
	basecontroller.BaseController
	service clientsvc.ClientService
}

func NewClientController(service clientsvc.ClientService) *ClientController {
	return &ClientController{
		BaseController: basecontroller.NewBaseController(),
		service:        service,
	}
}

func (ctrl *ClientController) Create(c echo.Context) error {
	var req dto.UpsertClientRequest
	if err := c.Bind(&req); err != nil {
		return ctrl.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}
	resp, appErr := ctrl.service.Create(c.Request().Context(), &req)
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.SuccessResponse(c, resp, "client created")
}

func (ctrl *ClientController) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return ctrl.BadRequest(errors.ErrInvalidInput, "invalid client id")
	}
	resp, appErr := ctrl.service.Get(c.Request().Context(), id)
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.SuccessResponse(c, resp, "client")
}

func (ctrl *ClientController) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return ctrl.BadRequest(errors.ErrInvalidInput, "invalid client id")
	}
	var req dto.UpsertClientRequest
	if err := c.Bind(&req); err != nil {
		return ctrl.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}
	resp, appErr := ctrl.service.Update(c.Request().Context(), id, &req)
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.SuccessResponse(c, resp, "client updated")
}

func (ctrl *ClientController) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return ctrl.BadRequest(errors.ErrInvalidInput, "invalid client id")
	}
	if appErr := ctrl.service.Delete(c.Request().Context(), id); appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.SuccessResponse(c, nil, "client deleted")
}

func (ctrl *ClientController) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))
	search := c.QueryParam("search")

	resp, appErr := ctrl.service.List(c.Request().Context(), search, page, pageSize)
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.SuccessResponse(c, resp, "clients")
}
