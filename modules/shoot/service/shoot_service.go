package service

import (
	"context"
	"strings"
	"time"

	"studio-api/core/errors"
	"studio-api/core/logger"
	"studio-api/core/storage"
	"studio-api/core/utils"
	calsvc "studio-api/modules/calendar/service"
	cliententity "studio-api/modules/client/entity"
	clientrepo "studio-api/modules/client/repository"
	"studio-api/modules/shoot/dto"
	"studio-api/modules/shoot/entity"
	"studio-api/modules/shoot/repository"

	"github.com/google/uuid"
)

// ShootService owns the shoot lifecycle and drives the calendar sync on each
// transition: create syncs immediately, update only when a mirror already
// exists, cancel deletes with not-found tolerance. There is no transaction
// spanning the entity store and the calendar; the model is at-least-once
// sync with the event id as reconciliation key.
type ShootService interface {
	Create(ctx context.Context, req *dto.CreateShootRequest) (*dto.ShootResponse, *errors.AppError)
	Get(ctx context.Context, id uuid.UUID) (*dto.ShootResponse, *errors.AppError)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateShootRequest) (*dto.ShootResponse, *errors.AppError)
	Cancel(ctx context.Context, id uuid.UUID) *errors.AppError

	// Calendar integration actions
	SyncEvent(ctx context.Context, id uuid.UUID) (string, *errors.AppError)
	DeleteEvent(ctx context.Context, id uuid.UUID) *errors.AppError

	// File bookkeeping
	RegisterFile(ctx context.Context, shootID uuid.UUID, req *dto.RegisterFileRequest) (*dto.ShootFileResponse, *errors.AppError)
	ListFiles(ctx context.Context, shootID uuid.UUID) ([]dto.ShootFileResponse, *errors.AppError)
	RemoveFile(ctx context.Context, fileID uuid.UUID) *errors.AppError
}

type shootService struct {
	repo            repository.ShootRepository
	clients         clientrepo.ClientRepository
	sync            calsvc.SyncService
	availability    calsvc.AvailabilityService
	store           storage.ObjectStore
	defaultDuration time.Duration
	now             func() time.Time
}

func NewShootService(
	repo repository.ShootRepository,
	clients clientrepo.ClientRepository,
	sync calsvc.SyncService,
	availability calsvc.AvailabilityService,
	store storage.ObjectStore,
	defaultDuration time.Duration,
) ShootService {
	return &shootService{
		repo:            repo,
		clients:         clients,
		sync:            sync,
		availability:    availability,
		store:           store,
		defaultDuration: defaultDuration,
		now:             time.Now,
	}
}

// applyStatus validates a caller-requested status transition. Cancellation
// goes through Cancel so the calendar mirror is removed; archived is owned
// by the retention sweep. Marking a shoot sold stamps sold_at, which starts
// its retention clock.
func applyStatus(shoot *entity.Shoot, status entity.ShootStatus, now time.Time) *errors.AppError {
	switch status {
	case entity.ShootStatusPlanned, entity.ShootStatusConfirmed, entity.ShootStatusCompleted:
		shoot.Status = status
	case entity.ShootStatusSold:
		shoot.Status = status
		if shoot.SoldAt == nil {
			t := now.UTC()
			shoot.SoldAt = &t
		}
	case entity.ShootStatusCancelled, entity.ShootStatusArchived:
		return errors.NewAppError(errors.ErrInvalidInput, "status "+string(status)+" cannot be set directly", nil)
	default:
		return errors.NewAppError(errors.ErrInvalidInput, "unknown status: "+string(status), nil)
	}
	return nil
}

func (s *shootService) Create(ctx context.Context, req *dto.CreateShootRequest) (*dto.ShootResponse, *errors.AppError) {
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

	shoot := &entity.Shoot{
		ClientID:        clientID,
		StartAt:         start,
		DurationMinutes: req.DurationMinutes,
		Status:          entity.ShootStatusPlanned,
		Location:        req.Location,
		Notes:           req.Notes,
	}
	if req.ProjectID != nil {
		pid, err := uuid.Parse(*req.ProjectID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid project_id", err)
		}
		shoot.ProjectID = &pid
	}
	if req.ShootTypeID != nil {
		tid, err := uuid.Parse(*req.ShootTypeID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid shoot_type_id", err)
		}
		shoot.ShootTypeID = &tid
	}

	duration := s.effectiveDuration(ctx, shoot)
	result, appErr := s.availability.CheckWindow(ctx, start, duration)
	if appErr != nil {
		return nil, appErr
	}
	if !result.Available {
		logger.Info("ShootService:Create:Conflict", "client_id", clientID, "start", start, "conflicts", len(result.Conflicts))
		return nil, errors.NewAppError(errors.ErrConflict, "time window conflicts with existing calendar events", nil)
	}

	created, err := s.repo.Create(ctx, shoot)
	if err != nil {
		logger.Error("ShootService:Create:RepoError", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create shoot", err)
	}

	if _, appErr := s.syncShoot(ctx, created); appErr != nil {
		// The shoot exists; the mirror is behind. Surfaced for retry, the
		// upsert contract makes the retry safe.
		return nil, appErr
	}

	return s.Get(ctx, created.ID)
}

func (s *shootService) Get(ctx context.Context, id uuid.UUID) (*dto.ShootResponse, *errors.AppError) {
	shoot, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load shoot", err)
	}
	if shoot == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "shoot not found", nil)
	}
	return s.toResponse(ctx, shoot), nil
}

func (s *shootService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateShootRequest) (*dto.ShootResponse, *errors.AppError) {
	shoot, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load shoot", err)
	}
	if shoot == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "shoot not found", nil)
	}

	if req.StartTime != nil {
		start, err := time.Parse(time.RFC3339, *req.StartTime)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid start_time", err)
		}
		shoot.StartAt = start.UTC()
	}
	if req.DurationMinutes != nil {
		shoot.DurationMinutes = req.DurationMinutes
	}
	if req.Location != nil {
		shoot.Location = req.Location
	}
	if req.Notes != nil {
		shoot.Notes = req.Notes
	}
	if req.Status != nil {
		if appErr := applyStatus(shoot, entity.ShootStatus(*req.Status), s.now()); appErr != nil {
			return nil, appErr
		}
	}

	if err := s.repo.Update(ctx, shoot); err != nil {
		logger.Error("ShootService:Update:RepoError", "shoot_id", id, "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to update shoot", err)
	}

	// Only shoots that already carry a mirror are re-synced; records that
	// predate the calendar integration stay local.
	if shoot.CalendarEventID != nil && *shoot.CalendarEventID != "" {
		if _, appErr := s.syncShoot(ctx, shoot); appErr != nil {
			return nil, appErr
		}
	}

	return s.Get(ctx, id)
}

func (s *shootService) Cancel(ctx context.Context, id uuid.UUID) *errors.AppError {
	shoot, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to load shoot", err)
	}
	if shoot == nil {
		return errors.NewAppError(errors.ErrNotFound, "shoot not found", nil)
	}

	if shoot.CalendarEventID != nil && *shoot.CalendarEventID != "" {
		if appErr := s.sync.Delete(ctx, shoot.ID, *shoot.CalendarEventID, s.repo); appErr != nil {
			return appErr
		}
	}

	if err := s.repo.UpdateStatus(ctx, id, entity.ShootStatusCancelled); err != nil {
		logger.Error("ShootService:Cancel:RepoError", "shoot_id", id, "error", err)
		return errors.NewAppError(errors.ErrInternalServer, "failed to cancel shoot", err)
	}
	return nil
}

// SyncEvent is the syncEvent integration action: upsert the calendar mirror
// of the shoot.
func (s *shootService) SyncEvent(ctx context.Context, id uuid.UUID) (string, *errors.AppError) {
	shoot, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", errors.NewAppError(errors.ErrInternalServer, "failed to load shoot", err)
	}
	if shoot == nil {
		return "", errors.NewAppError(errors.ErrNotFound, "shoot not found", nil)
	}
	return s.syncShoot(ctx, shoot)
}

// DeleteEvent is the deleteEvent integration action. Absence of a mirror is
// a no-op, not an error.
func (s *shootService) DeleteEvent(ctx context.Context, id uuid.UUID) *errors.AppError {
	shoot, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to load shoot", err)
	}
	if shoot == nil {
		return errors.NewAppError(errors.ErrNotFound, "shoot not found", nil)
	}
	if shoot.CalendarEventID == nil || *shoot.CalendarEventID == "" {
		return nil
	}
	return s.sync.Delete(ctx, shoot.ID, *shoot.CalendarEventID, s.repo)
}

// RegisterFile records a stored artifact under its object-store key. The
// upload itself happens out of band; this is the bookkeeping the retention
// sweep later relies on.
func (s *shootService) RegisterFile(ctx context.Context, shootID uuid.UUID, req *dto.RegisterFileRequest) (*dto.ShootFileResponse, *errors.AppError) {
	if req.FileName == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "file_name is required", nil)
	}
	shoot, err := s.repo.GetByID(ctx, shootID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load shoot", err)
	}
	if shoot == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "shoot not found", nil)
	}

	file := &entity.ShootFile{
		ShootID:     shootID,
		StorageKey:  utils.StorageKey(shootID.String(), req.FileName),
		FileName:    req.FileName,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
	}
	created, err := s.repo.CreateFile(ctx, file)
	if err != nil {
		logger.Error("ShootService:RegisterFile:RepoError", "shoot_id", shootID, "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to register file", err)
	}
	return fileResponse(created), nil
}

func (s *shootService) ListFiles(ctx context.Context, shootID uuid.UUID) ([]dto.ShootFileResponse, *errors.AppError) {
	files, err := s.repo.GetFiles(ctx, shootID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list files", err)
	}
	out := make([]dto.ShootFileResponse, 0, len(files))
	for i := range files {
		out = append(out, *fileResponse(&files[i]))
	}
	return out, nil
}

// RemoveFile deletes the stored object first, then the row. The same order
// the retention sweep uses, so a crash between the two leaves a row that a
// later delete or sweep can finish.
func (s *shootService) RemoveFile(ctx context.Context, fileID uuid.UUID) *errors.AppError {
	file, err := s.repo.GetFile(ctx, fileID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to load file", err)
	}
	if file == nil {
		return errors.NewAppError(errors.ErrNotFound, "file not found", nil)
	}

	if err := s.store.DeleteObject(ctx, file.StorageKey); err != nil {
		logger.Error("ShootService:RemoveFile:ObjectDeleteFailed", "file_id", fileID, "key", file.StorageKey, "error", err)
		return errors.NewAppError(errors.ErrInternalServer, "failed to delete stored object", err)
	}
	if err := s.repo.DeleteFile(ctx, fileID); err != nil {
		logger.Error("ShootService:RemoveFile:RowDeleteFailed", "file_id", fileID, "error", err)
		return errors.NewAppError(errors.ErrInternalServer, "failed to delete file record", err)
	}
	return nil
}

func fileResponse(file *entity.ShootFile) *dto.ShootFileResponse {
	return &dto.ShootFileResponse{
		ID:          file.ID.String(),
		ShootID:     file.ShootID.String(),
		StorageKey:  file.StorageKey,
		FileName:    file.FileName,
		ContentType: file.ContentType,
		SizeBytes:   file.SizeBytes,
	}
}

func (s *shootService) syncShoot(ctx context.Context, shoot *entity.Shoot) (string, *errors.AppError) {
	target := s.buildTarget(ctx, shoot)
	eventID, appErr := s.sync.Upsert(ctx, target, s.repo)
	if appErr != nil {
		return "", appErr
	}
	return eventID, nil
}

// buildTarget composes the calendar payload from the shoot's related
// entities. Any failed sub-lookup degrades to its fallback instead of
// aborting the sync.
func (s *shootService) buildTarget(ctx context.Context, shoot *entity.Shoot) *calsvc.SyncTarget {
	clientName := cliententity.UnknownClientName
	client, err := s.clients.GetByID(ctx, shoot.ClientID)
	if err != nil {
		logger.Warn("ShootService:buildTarget:ClientLookupFailed", "shoot_id", shoot.ID, "client_id", shoot.ClientID, "error", err)
	} else {
		clientName = client.DisplayName()
	}

	typeName := "Shoot"
	colorID := ""
	var shootType *entity.ShootType
	if shoot.ShootTypeID != nil {
		shootType, err = s.repo.GetType(ctx, *shoot.ShootTypeID)
		if err != nil {
			logger.Warn("ShootService:buildTarget:TypeLookupFailed", "shoot_id", shoot.ID, "error", err)
		} else if shootType != nil {
			if shootType.Name != "" {
				typeName = shootType.Name
			}
			if shootType.CalendarColor != nil {
				colorID = *shootType.CalendarColor
			}
		}
	}

	var lines []string
	lines = append(lines, "Client: "+clientName)
	if shoot.ProjectID != nil {
		project, err := s.repo.GetProject(ctx, *shoot.ProjectID)
		if err != nil {
			logger.Warn("ShootService:buildTarget:ProjectLookupFailed", "shoot_id", shoot.ID, "error", err)
		} else if project != nil {
			lines = append(lines, "Project: "+project.Name)
		}
	}
	if shoot.Notes != nil && *shoot.Notes != "" {
		lines = append(lines, "Notes: "+*shoot.Notes)
	}

	location := ""
	if shoot.Location != nil {
		location = *shoot.Location
	}

	return &calsvc.SyncTarget{
		ID:          shoot.ID,
		EventID:     shoot.CalendarEventID,
		Start:       shoot.StartAt,
		Duration:    s.durationFor(shoot, shootType),
		Summary:     typeName + " – " + clientName,
		Description: strings.Join(lines, "\n"),
		Location:    location,
		ColorID:     colorID,
	}
}

// effectiveDuration resolves the duration without a pre-fetched type row.
func (s *shootService) effectiveDuration(ctx context.Context, shoot *entity.Shoot) time.Duration {
	var shootType *entity.ShootType
	if shoot.ShootTypeID != nil {
		shootType, _ = s.repo.GetType(ctx, *shoot.ShootTypeID)
	}
	return s.durationFor(shoot, shootType)
}

// durationFor applies the duration policy: explicit on the shoot, then the
// type default, then the configured studio default.
func (s *shootService) durationFor(shoot *entity.Shoot, shootType *entity.ShootType) time.Duration {
	if shoot.DurationMinutes != nil && *shoot.DurationMinutes > 0 {
		return time.Duration(*shoot.DurationMinutes) * time.Minute
	}
	if shootType != nil && shootType.DurationMinutes != nil && *shootType.DurationMinutes > 0 {
		return time.Duration(*shootType.DurationMinutes) * time.Minute
	}
	return s.defaultDuration
}

func (s *shootService) toResponse(ctx context.Context, shoot *entity.Shoot) *dto.ShootResponse {
	return &dto.ShootResponse{
		ID:              shoot.ID.String(),
		ClientID:        shoot.ClientID.String(),
		StartTime:       shoot.StartAt.UTC().Format(time.RFC3339),
		DurationMinutes: int(s.effectiveDuration(ctx, shoot) / time.Minute),
		Status:          string(shoot.Status),
		CalendarEventID: shoot.CalendarEventID,
		Location:        shoot.Location,
		Notes:           shoot.Notes,
	}
}
