package dto

import "time"

// ========== Event payload (wire format) ==========

// EventTime is the start/end element of a calendar event. DateTime is
// RFC3339; TimeZone is an IANA name and always set on outbound payloads.
type EventTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

// EventPayload is the transient representation sent to the calendar service.
// Not persisted locally.
type EventPayload struct {
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	Start       EventTime `json:"start"`
	End         EventTime `json:"end"`
	Location    string    `json:"location,omitempty"`
	ColorID     string    `json:"colorId,omitempty"`
}

// CalendarEvent is an event as returned by the events list endpoint.
type CalendarEvent struct {
	ID           string    `json:"id"`
	Summary      string    `json:"summary"`
	Status       string    `json:"status"`
	Transparency string    `json:"transparency"`
	Start        EventTime `json:"start"`
	End          EventTime `json:"end"`
}

// ========== Availability ==========

// BusyInterval is a half-open [Start, End) range reported as occupied.
type BusyInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether the half-open intervals [b.Start, b.End) and
// [start, end) intersect.
func (b BusyInterval) Overlaps(start, end time.Time) bool {
	return b.Start.Before(end) && start.Before(b.End)
}

type TimeSlot struct {
	Start string `json:"start"` // RFC3339
	End   string `json:"end"`   // RFC3339
}

type AvailabilityResult struct {
	Available bool       `json:"available"`
	Conflicts []TimeSlot `json:"conflicts"`
}
