package controller

import (
	"time"

	basecontroller "studio-api/core/controller"
	"studio-api/core/errors"
	"studio-api/core/logger"
	caldto "studio-api/modules/calendar/dto"
	calsvc "studio-api/modules/calendar/service"
	"studio-api/modules/session/dto"
	sessionsvc "studio-api/modules/session/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type Action string

const (
	ActionSyncSessionEvent   Action = "syncSessionEvent"
	ActionDeleteSessionEvent Action = "deleteSessionEvent"
	ActionCheckAvailability  Action = "checkAvailability"
)

type SessionController struct {
	basecontroller.BaseController
	service         sessionsvc.SessionService
	availability    calsvc.AvailabilityService
	defaultDuration time.Duration

	actions map[Action]func(echo.Context, *dto.CalendarActionRequest) error
}

func NewSessionController(service sessionsvc.SessionService, availability calsvc.AvailabilityService, defaultDuration time.Duration) *SessionController {
	ctrl := &SessionController{
		BaseController:  basecontroller.NewBaseController(),
		service:         service,
		availability:    availability,
		defaultDuration: defaultDuration,
	}
	ctrl.actions = map[Action]func(echo.Context, *dto.CalendarActionRequest) error{
		ActionSyncSessionEvent:   ctrl.syncEvent,
		ActionDeleteSessionEvent: ctrl.deleteEvent,
		ActionCheckAvailability:  ctrl.checkAvailability,
	}
	return ctrl
}

func (ctrl *SessionController) Create(c echo.Context) error {
	var req dto.CreateSessionRequest
	if err := c.Bind(&req); err != nil {
		return ctrl.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}
	resp, appErr := ctrl.service.Create(c.Request().Context(), &req)
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.SuccessResponse(c, resp, "session created")
}

func (ctrl *SessionController) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return ctrl.BadRequest(errors.ErrInvalidInput, "invalid session id")
	}
	resp, appErr := ctrl.service.Get(c.Request().Context(), id)
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.SuccessResponse(c, resp, "session")
}

func (ctrl *SessionController) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return ctrl.BadRequest(errors.ErrInvalidInput, "invalid session id")
	}
	var req dto.UpdateSessionRequest
	if err := c.Bind(&req); err != nil {
		return ctrl.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}
	resp, appErr := ctrl.service.Update(c.Request().Context(), id, &req)
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.SuccessResponse(c, resp, "session updated")
}

func (ctrl *SessionController) Cancel(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return ctrl.BadRequest(errors.ErrInvalidInput, "invalid session id")
	}
	if appErr := ctrl.service.Cancel(c.Request().Context(), id); appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.SuccessResponse(c, nil, "session cancelled")
}

func (ctrl *SessionController) HandleAction(c echo.Context) error {
	var req dto.CalendarActionRequest
	if err := c.Bind(&req); err != nil {
		return ctrl.ActionFailure(c, errors.NewAppError(errors.ErrInvalidRequestData, "invalid request body", err))
	}
	handler, ok := ctrl.actions[Action(req.Action)]
	if !ok {
		logger.Warn("SessionController:HandleAction:UnknownAction", "action", req.Action)
		return ctrl.ActionFailure(c, errors.NewAppError(errors.ErrInvalidInput, "unknown action: "+req.Action, nil))
	}
	return handler(c, &req)
}

func (ctrl *SessionController) syncEvent(c echo.Context, req *dto.CalendarActionRequest) error {
	id, err := uuid.Parse(req.SessionID)
	if err != nil {
		return ctrl.ActionFailure(c, errors.NewAppError(errors.ErrInvalidInput, "invalid session_id", err))
	}
	eventID, appErr := ctrl.service.SyncEvent(c.Request().Context(), id)
	if appErr != nil {
		return ctrl.ActionFailure(c, appErr)
	}
	return ctrl.ActionSuccess(c, map[string]any{"event_id": eventID})
}

func (ctrl *SessionController) deleteEvent(c echo.Context, req *dto.CalendarActionRequest) error {
	id, err := uuid.Parse(req.SessionID)
	if err != nil {
		return ctrl.ActionFailure(c, errors.NewAppError(errors.ErrInvalidInput, "invalid session_id", err))
	}
	if appErr := ctrl.service.DeleteEvent(c.Request().Context(), id); appErr != nil {
		return ctrl.ActionFailure(c, appErr)
	}
	return ctrl.ActionSuccess(c, map[string]any{"deleted": true})
}

func (ctrl *SessionController) checkAvailability(c echo.Context, req *dto.CalendarActionRequest) error {
	ctx := c.Request().Context()

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
