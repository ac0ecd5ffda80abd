package dto

type CreateSessionRequest struct {
	ClientID        string  `json:"client_id"`
	StartTime       string  `json:"start_time"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

type UpdateSessionRequest struct {
	StartTime       *string `json:"start_time,omitempty"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	Status          *string `json:"status,omitempty"`
}

type SessionResponse struct {
	ID              string  `json:"id"`
	ClientID        string  `json:"client_id"`
	StartTime       string  `json:"start_time"`
	DurationMinutes int     `json:"duration_minutes"`
	Status          string  `json:"status"`
	CalendarEventID *string `json:"calendar_event_id,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

// CalendarActionRequest is the body of the session calendar endpoint. Which
// fields matter depends on the action.
type CalendarActionRequest struct {
	Action          string `json:"action"`
	SessionID       string `json:"session_id,omitempty"`
	StartTime       string `json:"start_time,omitempty"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
	Date            string `json:"date,omitempty"`
}
