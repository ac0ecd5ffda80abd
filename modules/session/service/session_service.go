package service

import (
	"context"
	"time"

	"studio-api/core/errors"
	"studio-api/core/logger"
	calsvc "studio-api/modules/calendar/service"
	cliententity "studio-api/modules/client/entity"
	clientrepo "studio-api/modules/client/repository"
	"studio-api/modules/session/dto"
	"studio-api/modules/session/entity"
	"studio-api/modules/session/repository"

	"github.com/google/uuid"
)

// SessionService mirrors the shoot lifecycle for short appointments. The
// sync rules are the same; the payload is leaner.
type SessionService interface {
	Create(ctx context.Context, req *dto.CreateSessionRequest) (*dto.SessionResponse, *errors.AppError)
	Get(ctx context.Context, id uuid.UUID) (*dto.SessionResponse, *errors.AppError)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateSessionRequest) (*dto.SessionResponse, *errors.AppError)
	Cancel(ctx context.Context, id uuid.UUID) *errors.AppError

	SyncEvent(ctx context.Context, id uuid.UUID) (string, *errors.AppError)
	DeleteEvent(ctx context.Context, id uuid.UUID) *errors.AppError
}

type sessionService struct {
	repo            repository.SessionRepository
	clients         clientrepo.ClientRepository
	sync            calsvc.SyncService
	availability    calsvc.AvailabilityService
	defaultDuration time.Duration
}

func NewSessionService(
	repo repository.SessionRepository,
	clients clientrepo.ClientRepository,
	sync calsvc.SyncService,
	availability calsvc.AvailabilityService,
	defaultDuration time.Duration,
) SessionService {
	return &sessionService{
		repo:            repo,
		clients:         clients,
		sync:            sync,
		availability:    availability,
		defaultDuration: defaultDuration,
	}
}

func (s *sessionService) Create(ctx context.Context, req *dto.CreateSessionRequest) (*dto.SessionResponse, *errors.AppError) {
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid client_id", err)
	}
	if req.StartTime == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "start_time is required", nil)
	}
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid start_time", err)
	}
	start = start.UTC()

	session := &entity.Session{
		ClientID:        clientID,
		StartAt:         start,
		DurationMinutes: req.DurationMinutes,
		Status:          entity.SessionStatusScheduled,
		Notes:           req.Notes,
	}

	result, appErr := s.availability.CheckWindow(ctx, start, s.durationFor(session))
	if appErr != nil {
		return nil, appErr
	}
	if !result.Available {
		logger.Info("SessionService:Create:Conflict", "client_id", clientID, "start", start, "conflicts", len(result.Conflicts))
		return nil, errors.NewAppError(errors.ErrConflict, "time window conflicts with existing calendar events", nil)
	}

	created, err := s.repo.Create(ctx, session)
	if err != nil {
		logger.Error("SessionService:Create:RepoError", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create session", err)
	}

	if _, appErr := s.syncSession(ctx, created); appErr != nil {
		return nil, appErr
	}

	return s.Get(ctx, created.ID)
}

func (s *sessionService) Get(ctx context.Context, id uuid.UUID) (*dto.SessionResponse, *errors.AppError) {
	session, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load session", err)
	}
	if session == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "session not found", nil)
	}
	return s.toResponse(session), nil
}

func (s *sessionService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateSessionRequest) (*dto.SessionResponse, *errors.AppError) {
	session, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load session", err)
	}
	if session == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "session not found", nil)
	}

	if req.StartTime != nil {
		start, err := time.Parse(time.RFC3339, *req.StartTime)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid start_time", err)
		}
		session.StartAt = start.UTC()
	}
	if req.DurationMinutes != nil {
		session.DurationMinutes = req.DurationMinutes
	}
	if req.Notes != nil {
		session.Notes = req.Notes
	}
	if req.Status != nil {
		switch status := entity.SessionStatus(*req.Status); status {
		case entity.SessionStatusScheduled, entity.SessionStatusCompleted:
			session.Status = status
		case entity.SessionStatusCancelled:
			// Cancellation goes through Cancel so the mirror is removed.
			return nil, errors.NewAppError(errors.ErrInvalidInput, "status cancelled cannot be set directly", nil)
		default:
			return nil, errors.NewAppError(errors.ErrInvalidInput, "unknown status: "+*req.Status, nil)
		}
	}

	if err := s.repo.Update(ctx, session); err != nil {
		logger.Error("SessionService:Update:RepoError", "session_id", id, "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to update session", err)
	}

	if session.CalendarEventID != nil && *session.CalendarEventID != "" {
		if _, appErr := s.syncSession(ctx, session); appErr != nil {
			return nil, appErr
		}
	}

	return s.Get(ctx, id)
}

func (s *sessionService) Cancel(ctx context.Context, id uuid.UUID) *errors.AppError {
	session, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to load session", err)
	}
	if session == nil {
		return errors.NewAppError(errors.ErrNotFound, "session not found", nil)
	}

	if session.CalendarEventID != nil && *session.CalendarEventID != "" {
		if appErr := s.sync.Delete(ctx, session.ID, *session.CalendarEventID, s.repo); appErr != nil {
			return appErr
		}
	}

	if err := s.repo.UpdateStatus(ctx, id, entity.SessionStatusCancelled); err != nil {
		logger.Error("SessionService:Cancel:RepoError", "session_id", id, "error", err)
		return errors.NewAppError(errors.ErrInternalServer, "failed to cancel session", err)
	}
	return nil
}

func (s *sessionService) SyncEvent(ctx context.Context, id uuid.UUID) (string, *errors.AppError) {
	session, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", errors.NewAppError(errors.ErrInternalServer, "failed to load session", err)
	}
	if session == nil {
		return "", errors.NewAppError(errors.ErrNotFound, "session not found", nil)
	}
	return s.syncSession(ctx, session)
}

func (s *sessionService) DeleteEvent(ctx context.Context, id uuid.UUID) *errors.AppError {
	session, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to load session", err)
	}
	if session == nil {
		return errors.NewAppError(errors.ErrNotFound, "session not found", nil)
	}
	if session.CalendarEventID == nil || *session.CalendarEventID == "" {
		return nil
	}
	return s.sync.Delete(ctx, session.ID, *session.CalendarEventID, s.repo)
}

func (s *sessionService) syncSession(ctx context.Context, session *entity.Session) (string, *errors.AppError) {
	clientName := cliententity.UnknownClientName
	client, err := s.clients.GetByID(ctx, session.ClientID)
	if err != nil {
		logger.Warn("SessionService:syncSession:ClientLookupFailed", "session_id", session.ID, "client_id", session.ClientID, "error", err)
	} else {
		clientName = client.DisplayName()
	}

	description := "Client: " + clientName
	if session.Notes != nil && *session.Notes != "" {
		description += "\nNotes: " + *session.Notes
	}

	target := &calsvc.SyncTarget{
		ID:          session.ID,
		EventID:     session.CalendarEventID,
		Start:       session.StartAt,
		Duration:    s.durationFor(session),
		Summary:     "Session – " + clientName,
		Description: description,
	}
	return s.sync.Upsert(ctx, target, s.repo)
}

func (s *sessionService) durationFor(session *entity.Session) time.Duration {
	if session.DurationMinutes != nil && *session.DurationMinutes > 0 {
		return time.Duration(*session.DurationMinutes) * time.Minute
	}
	return s.defaultDuration
}

func (s *sessionService) toResponse(session *entity.Session) *dto.SessionResponse {
	return &dto.SessionResponse{
		ID:              session.ID.String(),
		ClientID:        session.ClientID.String(),
		StartTime:       session.StartAt.UTC().Format(time.RFC3339),
		DurationMinutes: int(s.durationFor(session) / time.Minute),
		Status:          string(session.Status),
		CalendarEventID: session.CalendarEventID,
		Notes:           session.Notes,
	}
}
