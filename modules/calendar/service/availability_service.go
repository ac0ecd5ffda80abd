package service

import (
	"context"
	"net/http"
	"time"

	"studio-api/core/errors"
	"studio-api/core/logger"
	"studio-api/modules/calendar/dto"
)

// AvailabilityService answers whether a time window is free on the studio
// calendar. The merged freeBusy query is the primary strategy; when its
// scope is unavailable it falls back to the raw event list, filtered to
// blocking events only. Upstream failures are surfaced, never mapped to
// "no conflicts".
type AvailabilityService interface {
	CheckWindow(ctx context.Context, start time.Time, duration time.Duration) (*dto.AvailabilityResult, *errors.AppError)
	CheckDay(ctx context.Context, date time.Time) (*dto.AvailabilityResult, *errors.AppError)
}

type availabilityService struct {
	client Client
	loc    *time.Location
}

func NewAvailabilityService(client Client, loc *time.Location) AvailabilityService {
	if loc == nil {
		loc = time.UTC
	}
	return &availabilityService{client: client, loc: loc}
}

// CheckWindow checks the half-open window [start, start+duration).
func (s *availabilityService) CheckWindow(ctx context.Context, start time.Time, duration time.Duration) (*dto.AvailabilityResult, *errors.AppError) {
	if duration <= 0 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "duration must be positive", nil)
	}
	return s.check(ctx, start, start.Add(duration))
}

// CheckDay checks the full calendar day containing date, in the studio
// timezone.
func (s *availabilityService) CheckDay(ctx context.Context, date time.Time) (*dto.AvailabilityResult, *errors.AppError) {
	local := date.In(s.loc)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
	return s.check(ctx, dayStart, dayStart.AddDate(0, 0, 1))
}

func (s *availabilityService) check(ctx context.Context, start, end time.Time) (*dto.AvailabilityResult, *errors.AppError) {
	busy, appErr := s.client.FreeBusy(ctx, start, end)
	if appErr != nil {
		if appErr.UpstreamStatus != http.StatusForbidden {
			return nil, appErr
		}
		// freeBusy needs a broader scope than the events grant; fall back to
		// the raw event list over the same window.
		logger.Warn("AvailabilityService:FreeBusyScopeUnavailable", "upstream_status", appErr.UpstreamStatus)
		busy, appErr = s.busyFromEventList(ctx, start, end)
		if appErr != nil {
			return nil, appErr
		}
	}

	var conflicts []dto.TimeSlot
	for _, interval := range busy {
		if interval.Overlaps(start, end) {
			conflicts = append(conflicts, dto.TimeSlot{
				Start: interval.Start.Format(time.RFC3339),
				End:   interval.End.Format(time.RFC3339),
			})
		}
	}

	return &dto.AvailabilityResult{
		Available: len(conflicts) == 0,
		Conflicts: conflicts,
	}, nil
}

func (s *availabilityService) busyFromEventList(ctx context.Context, start, end time.Time) ([]dto.BusyInterval, *errors.AppError) {
	events, appErr := s.client.ListEvents(ctx, start, end)
	if appErr != nil {
		return nil, appErr
	}

	var busy []dto.BusyInterval
	for _, ev := range events {
		if ev.Status == "cancelled" || ev.Transparency == "transparent" {
			continue
		}
		evStart, err1 := time.Parse(time.RFC3339, ev.Start.DateTime)
		evEnd, err2 := time.Parse(time.RFC3339, ev.End.DateTime)
		if err1 != nil || err2 != nil {
			// All-day events carry a date instead of a dateTime; those do not
			// block a timed window here.
			continue
		}
		busy = append(busy, dto.BusyInterval{Start: evStart, End: evEnd})
	}
	return busy, nil
}
