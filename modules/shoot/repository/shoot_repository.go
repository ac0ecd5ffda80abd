package repository

import (
	"context"
	"database/sql"
	"time"

	"studio-api/core/database"
	"studio-api/modules/shoot/entity"

	"github.com/google/uuid"
)

type ShootRepository interface {
	Create(ctx context.Context, shoot *entity.Shoot) (*entity.Shoot, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Shoot, error)
	Update(ctx context.Context, shoot *entity.Shoot) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ShootStatus) error

	// EventIDStore for the calendar sync layer.
	GetEventID(ctx context.Context, id uuid.UUID) (*string, error)
	SetEventID(ctx context.Context, id uuid.UUID, eventID *string) error

	// Retention
	ListRetentionCandidates(ctx context.Context, soldBefore time.Time) ([]entity.Shoot, error)

	// Related entities
	GetType(ctx context.Context, id uuid.UUID) (*entity.ShootType, error)
	GetProject(ctx context.Context, id uuid.UUID) (*entity.Project, error)
	GetFiles(ctx context.Context, shootID uuid.UUID) ([]entity.ShootFile, error)
	CreateFile(ctx context.Context, file *entity.ShootFile) (*entity.ShootFile, error)
	GetFile(ctx context.Context, fileID uuid.UUID) (*entity.ShootFile, error)
	DeleteFile(ctx context.Context, fileID uuid.UUID) error
}

type shootRepository struct {
	db database.IDatabase
}

func NewShootRepository(db database.IDatabase) ShootRepository {
	return &shootRepository{db: db}
}

const shootColumns = `id, client_id, project_id, shoot_type_id, start_at, duration_minutes,
		calendar_event_id, status, location, notes, sold_at, created_at, updated_at`

func (r *shootRepository) Create(ctx context.Context, shoot *entity.Shoot) (*entity.Shoot, error) {
	query := `
		INSERT INTO shoots (client_id, project_id, shoot_type_id, start_at, duration_minutes, status, location, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		shoot.ClientID, shoot.ProjectID, shoot.ShootTypeID, shoot.StartAt,
		shoot.DurationMinutes, shoot.Status, shoot.Location, shoot.Notes,
	).Scan(&shoot.ID, &shoot.CreatedAt, &shoot.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return shoot, nil
}

func (r *shootRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Shoot, error) {
	query := `SELECT ` + shootColumns + ` FROM shoots WHERE id = $1`
	var shoot entity.Shoot
	err := r.db.GetContext(ctx, &shoot, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &shoot, nil
}

func (r *shootRepository) Update(ctx context.Context, shoot *entity.Shoot) error {
	query := `
		UPDATE shoots
		SET start_at = $1, duration_minutes = $2, status = $3, location = $4,
		    notes = $5, sold_at = $6, project_id = $7, shoot_type_id = $8, updated_at = NOW()
		WHERE id = $9
	`
	return r.db.ExecContext(ctx, query,
		shoot.StartAt, shoot.DurationMinutes, shoot.Status, shoot.Location,
		shoot.Notes, shoot.SoldAt, shoot.ProjectID, shoot.ShootTypeID, shoot.ID,
	)
}

func (r *shootRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ShootStatus) error {
	query := `UPDATE shoots SET status = $1, updated_at = NOW() WHERE id = $2`
	return r.db.ExecContext(ctx, query, status, id)
}

func (r *shootRepository) GetEventID(ctx context.Context, id uuid.UUID) (*string, error) {
	query := `SELECT calendar_event_id FROM shoots WHERE id = $1`
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

func (r *shootRepository) SetEventID(ctx context.Context, id uuid.UUID, eventID *string) error {
	query := `UPDATE shoots SET calendar_event_id = $1, updated_at = NOW() WHERE id = $2`
	return r.db.ExecContext(ctx, query, eventID, id)
}

// ListRetentionCandidates returns sold shoots whose sale closed before the
// cutoff. Archived shoots are already processed and never reselected.
func (r *shootRepository) ListRetentionCandidates(ctx context.Context, soldBefore time.Time) ([]entity.Shoot, error) {
	query := `
		SELECT ` + shootColumns + `
		FROM shoots
		WHERE status = $1 AND sold_at IS NOT NULL AND sold_at < $2
		ORDER BY sold_at ASC
	`
	var shoots []entity.Shoot
	if err := r.db.SelectContext(ctx, &shoots, query, entity.ShootStatusSold, soldBefore); err != nil {
		return nil, err
	}
	return shoots, nil
}

func (r *shootRepository) GetType(ctx context.Context, id uuid.UUID) (*entity.ShootType, error) {
	query := `SELECT id, name, duration_minutes, calendar_color, created_at, updated_at FROM shoot_types WHERE id = $1`
	var shootType entity.ShootType
	err := r.db.GetContext(ctx, &shootType, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &shootType, nil
}

func (r *shootRepository) GetProject(ctx context.Context, id uuid.UUID) (*entity.Project, error) {
	query := `SELECT id, name, client_id, created_at, updated_at FROM projects WHERE id = $1`
	var project entity.Project
	err := r.db.GetContext(ctx, &project, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &project, nil
}

func (r *shootRepository) GetFiles(ctx context.Context, shootID uuid.UUID) ([]entity.ShootFile, error) {
	query := `
		SELECT id, shoot_id, storage_key, file_name, content_type, size_bytes, created_at, updated_at
		FROM shoot_files
		WHERE shoot_id = $1
		ORDER BY created_at ASC
	`
	var files []entity.ShootFile
	if err := r.db.SelectContext(ctx, &files, query, shootID); err != nil {
		return nil, err
	}
	return files, nil
}

func (r *shootRepository) CreateFile(ctx context.Context, file *entity.ShootFile) (*entity.ShootFile, error) {
	query := `
		INSERT INTO shoot_files (shoot_id, storage_key, file_name, content_type, size_bytes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		file.ShootID, file.StorageKey, file.FileName, file.ContentType, file.SizeBytes,
	).Scan(&file.ID, &file.CreatedAt, &file.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return file, nil
}

func (r *shootRepository) GetFile(ctx context.Context, fileID uuid.UUID) (*entity.ShootFile, error) {
	query := `
		SELECT id, shoot_id, storage_key, file_name, content_type, size_bytes, created_at, updated_at
		FROM shoot_files
		WHERE id = $1
	`
	var file entity.ShootFile
	err := r.db.GetContext(ctx, &file, query, fileID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &file, nil
}

func (r *shootRepository) DeleteFile(ctx context.Context, fileID uuid.UUID) error {
	query := `DELETE FROM shoot_files WHERE id = $1`
	return r.db.ExecContext(ctx, query, fileID)
}
