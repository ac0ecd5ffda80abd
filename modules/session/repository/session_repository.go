package repository

import (
	"context"
	"database/sql"

	"studio-api/core/database"
	"studio-api/modules/session/entity"

	"github.com/google/uuid"
)

type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) (*entity.Session, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Session, error)
	Update(ctx context.Context, session *entity.Session) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.SessionStatus) error

	// EventIDStore for the calendar sync layer.
	GetEventID(ctx context.Context, id uuid.UUID) (*string, error)
	SetEventID(ctx context.Context, id uuid.UUID, eventID *string) error
}

type sessionRepository struct {
	db database.IDatabase
}

func NewSessionRepository(db database.IDatabase) SessionRepository {
	return &sessionRepository{db: db}
}

const sessionColumns = `id, client_id, start_at, duration_minutes, calendar_event_id, status, notes, created_at, updated_at`

func (r *sessionRepository) Create(ctx context.Context, session *entity.Session) (*entity.Session, error) {
	query := `
		INSERT INTO sessions (client_id, start_at, duration_minutes, status, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		session.ClientID, session.StartAt, session.DurationMinutes, session.Status, session.Notes,
	).Scan(&session.ID, &session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (r *sessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`
	var session entity.Session
	err := r.db.GetContext(ctx, &session, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) Update(ctx context.Context, session *entity.Session) error {
	query := `
		UPDATE sessions
		SET start_at = $1, duration_minutes = $2, status = $3, notes = $4, updated_at = NOW()
		WHERE id = $5
	`
	return r.db.ExecContext(ctx, query,
		session.StartAt, session.DurationMinutes, session.Status, session.Notes, session.ID,
	)
}

func (r *sessionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.SessionStatus) error {
	query := `UPDATE sessions SET status = $1, updated_at = NOW() WHERE id = $2`
	return r.db.ExecContext(ctx, query, status, id)
}

func (r *sessionRepository) GetEventID(ctx context.Context, id uuid.UUID) (*string, error) {
	query := `SELECT calendar_event_id FROM sessions WHERE id = $1`
	var eventID *string
	err := r.db.QueryRowContext(ctx, query, id).Scan(&eventID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return eventID, nil
}

func (r *sessionRepository) SetEventID(ctx context.Context, id uuid.UUID, eventID *string) error {
	query := `UPDATE sessions SET calendar_event_id = $1, updated_at = NOW() WHERE id = $2`
	return r.db.ExecContext(ctx, query, eventID, id)
}
