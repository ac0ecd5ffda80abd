package service

import (
	"context"
	"time"

	"studio-api/core/errors"
	"studio-api/core/logger"
	"studio-api/modules/calendar/dto"

	"github.com/google/uuid"
)

// SyncTarget is the slice of a scheduling record the calendar mirror needs.
// Start is a UTC instant; the sync service renders it in the studio timezone.
type SyncTarget struct {
	ID          uuid.UUID
	EventID     *string
	Start       time.Time
	Duration    time.Duration
	Summary     string
	Description string
	Location    string
	ColorID     string
}

// EventIDStore reads and writes the external event id on the owning record.
// The external id is the reconciliation key between the entity store and the
// calendar; there is no cross-system transaction.
type EventIDStore interface {
	GetEventID(ctx context.Context, id uuid.UUID) (*string, error)
	SetEventID(ctx context.Context, id uuid.UUID, eventID *string) error
}

// SyncService maps one domain record to at most one calendar event.
// Upsert and Delete are idempotent and safe to retry.
type SyncService interface {
	Upsert(ctx context.Context, target *SyncTarget, store EventIDStore) (string, *errors.AppError)
	Delete(ctx context.Context, id uuid.UUID, eventID string, store EventIDStore) *errors.AppError
}

type syncService struct {
	client Client
	loc    *time.Location
}

func NewSyncService(client Client, loc *time.Location) SyncService {
	if loc == nil {
		loc = time.UTC
	}
	return &syncService{client: client, loc: loc}
}

func (s *syncService) payload(target *SyncTarget) *dto.EventPayload {
	start := target.Start.In(s.loc)
	end := start.Add(target.Duration)
	return &dto.EventPayload{
		Summary:     target.Summary,
		Description: target.Description,
		Start: dto.EventTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: s.loc.String(),
		},
		End: dto.EventTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: s.loc.String(),
		},
		Location: target.Location,
		ColorID:  target.ColorID,
	}
}

// Upsert creates or updates the calendar mirror of target. Presence of the
// external id selects update; otherwise the id column is re-read immediately
// before the create so a concurrent sync that already created the event turns
// this call into an update instead of a duplicate create.
func (s *syncService) Upsert(ctx context.Context, target *SyncTarget, store EventIDStore) (string, *errors.AppError) {
	if target.Start.IsZero() {
		return "", errors.NewAppError(errors.ErrInvalidInput, "start time is required", nil)
	}
	if target.Duration <= 0 {
		return "", errors.NewAppError(errors.ErrInvalidInput, "duration must be positive", nil)
	}

	eventID := ""
	if target.EventID != nil && *target.EventID != "" {
		eventID = *target.EventID
	} else {
		current, err := store.GetEventID(ctx, target.ID)
		if err != nil {
			return "", errors.NewAppError(errors.ErrInternalServer, "failed to re-read event id", err)
		}
		if current != nil && *current != "" {
			logger.Info("SyncService:Upsert:ConcurrentCreateDetected", "entity_id", target.ID, "event_id", *current)
			eventID = *current
		}
	}

	if eventID != "" {
		if appErr := s.client.UpdateEvent(ctx, eventID, s.payload(target)); appErr != nil {
			logger.Error("SyncService:Upsert:UpdateError",
				"entity_id", target.ID,
				"event_id", eventID,
				"action", "update",
				"upstream_status", appErr.UpstreamStatus,
				"error", appErr,
			)
			return "", appErr
		}
		return eventID, nil
	}

	created, appErr := s.client.CreateEvent(ctx, s.payload(target))
	if appErr != nil {
		logger.Error("SyncService:Upsert:CreateError",
			"entity_id", target.ID,
			"action", "create",
			"upstream_status", appErr.UpstreamStatus,
			"error", appErr,
		)
		return "", appErr
	}

	if err := store.SetEventID(ctx, target.ID, &created); err != nil {
		// The external event exists but the entity does not know about it.
		// Retrying the create would duplicate the event; reconciliation is
		// manual, driven by this log line.
		logger.Error("SyncService:Upsert:OrphanedEvent",
			"entity_id", target.ID,
			"event_id", created,
			"action", "create-writeback",
			"error", err,
		)
		return created, errors.NewAppError(errors.ErrInternalServer, "calendar event created but id write-back failed", err)
	}

	return created, nil
}

// Delete cancels the calendar mirror and clears the id on the record. An
// upstream not-found is success; an empty id is a no-op.
func (s *syncService) Delete(ctx context.Context, id uuid.UUID, eventID string, store EventIDStore) *errors.AppError {
	if eventID == "" {
		return nil
	}

	if appErr := s.client.DeleteEvent(ctx, eventID); appErr != nil {
		logger.Error("SyncService:Delete:Error",
			"entity_id", id,
			"event_id", eventID,
			"action", "delete",
			"upstream_status", appErr.UpstreamStatus,
			"error", appErr,
		)
		return appErr
	}

	if err := store.SetEventID(ctx, id, nil); err != nil {
		logger.Error("SyncService:Delete:ClearError", "entity_id", id, "event_id", eventID, "error", err)
		return errors.NewAppError(errors.ErrInternalServer, "failed to clear event id", err)
	}
	return nil
}
