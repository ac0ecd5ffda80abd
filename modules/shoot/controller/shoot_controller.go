package controller

import (
	"time"

	basecontroller "studio-api/core/controller"
	"studio-api/core/errors"
	"studio-api/core/logger"
	caldto "studio-api/modules/calendar/dto"
	calsvc "studio-api/modules/calendar/service"
	"studio-api/modules/shoot/dto"
	shootsvc "studio-api/modules/shoot/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Action names accepted by the integration endpoint. Unknown actions are
// rejected up front, before any payload validation.
type Action string

const (
	ActionSyncEvent         Action = "syncEvent"
	ActionDeleteEvent       Action = "deleteEvent"
	ActionCheckAvailability Action = "checkAvailability"
)

type ShootController struct {
	basecontroller.BaseController
	service         shootsvc.ShootService
	availability    calsvc.AvailabilityService
	defaultDuration time.Duration

	actions map[Action]func(echo.Context, *dto.CalendarActionRequest) error
}

func NewShootController(service shootsvc.ShootService, availability calsvc.AvailabilityService, defaultDuration time.Duration) *ShootController {
	ctrl := &ShootController{
		BaseController:  basecontroller.NewBaseController(),
		service:         service,
		availability:    availability,
		defaultDuration: defaultDuration,
	}
	ctrl.actions = map[Action]func(echo.Context, *dto.CalendarActionRequest) error{
		ActionSyncEvent:         ctrl.syncEvent,
		ActionDeleteEvent:       ctrl.deleteEvent,
		ActionCheckAvailability: ctrl.checkAvailability,
	}
	return ctrl
}

func (ctrl *ShootController) Create(c echo.Context) error {
	var req dto.CreateShootRequest
	if err := c.Bind(&req); err != nil {
		return ctrl.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}
	resp, appErr := ctrl.service.Create(c.Request().Context(), &req)
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.SuccessResponse(c, resp, "shoot created")
}

func (ctrl *ShootController) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return ctrl.BadRequest(errors.ErrInvalidInput, "invalid shoot id")
	}
	resp, appErr := ctrl.service.Get(c.Request().Context(), id)
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.SuccessResponse(c, resp, "shoot")
}

func (ctrl *ShootController) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return ctrl.BadRequest(errors.ErrInvalidInput, "invalid shoot id")
	}
	var req dto.UpdateShootRequest
	if err := c.Bind(&req); err != nil {
		return ctrl.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}
	resp, appErr := ctrl.service.Update(c.Request().Context(), id, &req)
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.SuccessResponse(c, resp, "shoot updated")
}

func (ctrl *ShootController) Cancel(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return ctrl.BadRequest(errors.ErrInvalidInput, "invalid shoot id")
	}
	if appErr := ctrl.service.Cancel(c.Request().Context(), id); appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.SuccessResponse(c, nil, "shoot cancelled")
}

func (ctrl *ShootController) RegisterFile(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return ctrl.BadRequest(errors.ErrInvalidInput, "invalid shoot id")
	}
	var req dto.RegisterFileRequest
	if err := c.Bind(&req); err != nil {
		return ctrl.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}
	resp, appErr := ctrl.service.RegisterFile(c.Request().Context(), id, &req)
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.SuccessResponse(c, resp, "file registered")
}

func (ctrl *ShootController) ListFiles(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return ctrl.BadRequest(errors.ErrInvalidInput, "invalid shoot id")
	}
	resp, appErr := ctrl.service.ListFiles(c.Request().Context(), id)
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.SuccessResponse(c, resp, "files")
}

func (ctrl *ShootController) RemoveFile(c echo.Context) error {
	fileID, err := uuid.Parse(c.Param("fileId"))
	if err != nil {
		return ctrl.BadRequest(errors.ErrInvalidInput, "invalid file id")
	}
	if appErr := ctrl.service.RemoveFile(c.Request().Context(), fileID); appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.SuccessResponse(c, nil, "file removed")
}

// HandleAction is the single integration endpoint: the request names an
// action and the controller dispatches through the action table.
func (ctrl *ShootController) HandleAction(c echo.Context) error {
	var req dto.CalendarActionRequest
	if err := c.Bind(&req); err != nil {
		return ctrl.ActionFailure(c, errors.NewAppError(errors.ErrInvalidRequestData, "invalid request body", err))
	}
	handler, ok := ctrl.actions[Action(req.Action)]
	if !ok {
		logger.Warn("ShootController:HandleAction:UnknownAction", "action", req.Action)
		return ctrl.ActionFailure(c, errors.NewAppError(errors.ErrInvalidInput, "unknown action: "+req.Action, nil))
	}
	return handler(c, &req)
}

func (ctrl *ShootController) syncEvent(c echo.Context, req *dto.CalendarActionRequest) error {
	id, err := uuid.Parse(req.ShootID)
	if err != nil {
		return ctrl.ActionFailure(c, errors.NewAppError(errors.ErrInvalidInput, "invalid shoot_id", err))
	}
	eventID, appErr := ctrl.service.SyncEvent(c.Request().Context(), id)
	if appErr != nil {
		return ctrl.ActionFailure(c, appErr)
	}
	return ctrl.ActionSuccess(c, map[string]any{"event_id": eventID})
}

func (ctrl *ShootController) deleteEvent(c echo.Context, req *dto.CalendarActionRequest) error {
	id, err := uuid.Parse(req.ShootID)
	if err != nil {
		return ctrl.ActionFailure(c, errors.NewAppError(errors.ErrInvalidInput, "invalid shoot_id", err))
	}
	if appErr := ctrl.service.DeleteEvent(c.Request().Context(), id); appErr != nil {
		return ctrl.ActionFailure(c, appErr)
	}
	return ctrl.ActionSuccess(c, map[string]any{"deleted": true})
}

func (ctrl *ShootController) checkAvailability(c echo.Context, req *dto.CalendarActionRequest) error {
	ctx := c.Request().Context()

	// Day mode: a bare date browses the whole studio day.
	if req.Date != "" {
		day, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return ctrl.ActionFailure(c, errors.NewAppError(errors.ErrInvalidInput, "invalid date, expected YYYY-MM-DD", err))
		}
		result, appErr := ctrl.availability.CheckDay(ctx, day)
		if appErr != nil {
			return ctrl.ActionFailure(c, appErr)
		}
		return ctrl.ActionSuccess(c, availabilityPayload(result))
	}

	if req.StartTime == "" {
		return ctrl.ActionFailure(c, errors.NewAppError(errors.ErrInvalidInput, "start_time or date is required", nil))
	}
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return ctrl.ActionFailure(c, errors.NewAppError(errors.ErrInvalidInput, "invalid start_time", err))
	}
	// Absent duration means a standard new-booking window.
	duration := ctrl.defaultDuration
	if req.DurationMinutes != 0 {
		if req.DurationMinutes < 0 {
			return ctrl.ActionFailure(c, errors.NewAppError(errors.ErrInvalidInput, "duration_minutes must be positive", nil))
		}
		duration = time.Duration(req.DurationMinutes) * time.Minute
	}
	result, appErr := ctrl.availability.CheckWindow(ctx, start.UTC(), duration)
	if appErr != nil {
		return ctrl.ActionFailure(c, appErr)
	}
	return ctrl.ActionSuccess(c, availabilityPayload(result))
}

func availabilityPayload(result *caldto.AvailabilityResult) map[string]any {
	payload := map[string]any{"available": result.Available}
	if len(result.Conflicts) > 0 {
		payload["conflicts"] = result.Conflicts
	}
	return payload
}
