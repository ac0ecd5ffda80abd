package dto

// ========== CRUD ==========

type CreateShootRequest struct {
	ClientID        string  `json:"client_id" validate:"required"`
	ProjectID       *string `json:"project_id,omitempty"`
	ShootTypeID     *string `json:"shoot_type_id,omitempty"`
	StartTime       string  `json:"start_time" validate:"required"` // RFC3339, UTC
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	Location        *string `json:"location,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

type UpdateShootRequest struct {
	StartTime       *string `json:"start_time,omitempty"` // RFC3339, UTC
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	Location        *string `json:"location,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	Status          *string `json:"status,omitempty"`
}

type ShootResponse struct {
	ID              string  `json:"id"`
	ClientID        string  `json:"client_id"`
	StartTime       string  `json:"start_time"`
	DurationMinutes int     `json:"duration_minutes"`
	Status          string  `json:"status"`
	CalendarEventID *string `json:"calendar_event_id,omitempty"`
	Location        *string `json:"location,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

// ========== Files ==========

type RegisterFileRequest struct {
	FileName    string  `json:"file_name" validate:"required"`
	ContentType *string `json:"content_type,omitempty"`
	SizeBytes   *int64  `json:"size_bytes,omitempty"`
}

type ShootFileResponse struct {
	ID          string  `json:"id"`
	ShootID     string  `json:"shoot_id"`
	StorageKey  string  `json:"storage_key"`
	FileName    string  `json:"file_name"`
	ContentType *string `json:"content_type,omitempty"`
	SizeBytes   *int64  `json:"size_bytes,omitempty"`
}

// ========== Calendar integration actions ==========

// CalendarActionRequest is the body of the action-dispatched calendar
// endpoint: {action, ...payload}.
type CalendarActionRequest struct {
	Action          string `json:"action"`
	ShootID         string `json:"shoot_id,omitempty"`
	StartTime       string `json:"start_time,omitempty"` // RFC3339, UTC
	DurationMinutes int    `json:"duration_minutes,omitempty"`
	Date            string `json:"date,omitempty"` // YYYY-MM-DD, for day browse
}
