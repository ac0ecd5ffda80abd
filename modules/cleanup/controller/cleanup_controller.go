package controller

import (
	basecontroller "studio-api/core/controller"
	"studio-api/core/errors"
	"studio-api/core/logger"
	"studio-api/modules/cleanup/dto"
	cleanupsvc "studio-api/modules/cleanup/service"

	"github.com/labstack/echo/v4"
)

type Action string

const ActionRunCleanup Action = "runCleanup"

type CleanupController struct {
	basecontroller.BaseController
	service cleanupsvc.CleanupService
}

func NewCleanupController(service cleanupsvc.CleanupService) *CleanupController {
	return &CleanupController{
		BaseController: basecontroller.NewBaseController(),
		service:        service,
	}
}

// HandleAction accepts the privileged cleanup trigger. The admin-key check
// happens in middleware; this handler only validates the action name.
func (ctrl *CleanupController) HandleAction(c echo.Context) error {
	var req dto.RunRequest
	if err := c.Bind(&req); err != nil {
		return ctrl.ActionFailure(c, errors.NewAppError(errors.ErrInvalidRequestData, "invalid request body", err))
	}
	if Action(req.Action) != ActionRunCleanup {
		logger.Warn("CleanupController:HandleAction:UnknownAction", "action", req.Action)
		return ctrl.ActionFailure(c, errors.NewAppError(errors.ErrInvalidInput, "unknown action: "+req.Action, nil))
	}

	report, appErr := ctrl.service.Run(c.Request().Context())
	if appErr != nil {
		return ctrl.ActionFailure(c, appErr)
	}
	return ctrl.ActionSuccess(c, map[string]any{"report": report})
}
