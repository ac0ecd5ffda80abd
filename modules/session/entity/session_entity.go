package entity

import (
	"time"

	coreentity "studio-api/core/entity"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionStatusScheduled SessionStatus = "scheduled"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusCancelled SessionStatus = "cancelled"
)

// Session is a short studio appointment: a viewing, a fitting, a client
// call. Unlike shoots, sessions carry no files and no project link.
type Session struct {
	coreentity.BaseEntity
	ClientID        uuid.UUID     `db:"client_id" json:"client_id"`
	StartAt         time.Time     `db:"start_at" json:"start_at"`
	DurationMinutes *int          `db:"duration_minutes" json:"duration_minutes,omitempty"`
	CalendarEventID *string       `db:"calendar_event_id" json:"calendar_event_id,omitempty"`
	Status          SessionStatus `db:"status" json:"status"`
	Notes           *string       `db:"notes" json:"notes,omitempty"`
}

func (Session) TableName() string { return "sessions" }
