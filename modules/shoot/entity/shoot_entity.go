package entity

import (
	"time"

	"studio-api/core/entity"

	"github.com/google/uuid"
)

// ShootStatus is the lifecycle state of a shoot. Sold is the terminal state
// that makes a shoot eligible for retention cleanup; Archived marks a record
// the sweep has processed (retained as an invoice record, artifacts gone).
type ShootStatus string

const (
	ShootStatusPlanned   ShootStatus = "planned"
	ShootStatusConfirmed ShootStatus = "confirmed"
	ShootStatusCompleted ShootStatus = "completed"
	ShootStatusSold      ShootStatus = "sold"
	ShootStatusCancelled ShootStatus = "cancelled"
	ShootStatusArchived  ShootStatus = "archived"
)

type Shoot struct {
	entity.BaseEntity
	ClientID        uuid.UUID   `db:"client_id" json:"client_id"`
	ProjectID       *uuid.UUID  `db:"project_id" json:"project_id,omitempty"`
	ShootTypeID     *uuid.UUID  `db:"shoot_type_id" json:"shoot_type_id,omitempty"`
	StartAt         time.Time   `db:"start_at" json:"start_at"` // UTC
	DurationMinutes *int        `db:"duration_minutes" json:"duration_minutes,omitempty"`
	CalendarEventID *string     `db:"calendar_event_id" json:"calendar_event_id,omitempty"`
	Status          ShootStatus `db:"status" json:"status"`
	Location        *string     `db:"location" json:"location,omitempty"`
	Notes           *string     `db:"notes" json:"notes,omitempty"`
	SoldAt          *time.Time  `db:"sold_at" json:"sold_at,omitempty"`
}

func (Shoot) TableName() string {
	return "shoots"
}

// ShootType carries the per-type scheduling defaults.
type ShootType struct {
	entity.BaseEntity
	Name            string  `db:"name" json:"name"`
	DurationMinutes *int    `db:"duration_minutes" json:"duration_minutes,omitempty"`
	CalendarColor   *string `db:"calendar_color" json:"calendar_color,omitempty"`
}

func (ShootType) TableName() string {
	return "shoot_types"
}

// Project is the optional parent grouping of a shoot.
type Project struct {
	entity.BaseEntity
	Name     string    `db:"name" json:"name"`
	ClientID uuid.UUID `db:"client_id" json:"client_id"`
}

func (Project) TableName() string {
	return "projects"
}

// ShootFile is a stored artifact of a shoot, addressed by its object-store
// key.
type ShootFile struct {
	entity.BaseEntity
	ShootID     uuid.UUID `db:"shoot_id" json:"shoot_id"`
	StorageKey  string    `db:"storage_key" json:"storage_key"`
	FileName    string    `db:"file_name" json:"file_name"`
	ContentType *string   `db:"content_type" json:"content_type,omitempty"`
	SizeBytes   *int64    `db:"size_bytes" json:"size_bytes,omitempty"`
}

func (ShootFile) TableName() string {
	return "shoot_files"
}
