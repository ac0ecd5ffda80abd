package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"studio-api/core/constants"
	"studio-api/core/errors"
	"studio-api/core/logger"
	"studio-api/modules/calendar/dto"
)

const googleCalendarAPIBase = "https://www.googleapis.com/calendar/v3"

// Client is the external calendar service. All methods surface non-2xx
// responses as explicit errors carrying the upstream status and body; a
// missing delete target is the one tolerated case.
type Client interface {
	CreateEvent(ctx context.Context, payload *dto.EventPayload) (string, *errors.AppError)
	UpdateEvent(ctx context.Context, eventID string, payload *dto.EventPayload) *errors.AppError
	DeleteEvent(ctx context.Context, eventID string) *errors.AppError
	FreeBusy(ctx context.Context, start, end time.Time) ([]dto.BusyInterval, *errors.AppError)
	ListEvents(ctx context.Context, start, end time.Time) ([]dto.CalendarEvent, *errors.AppError)
}

type googleClient struct {
	http       *http.Client
	baseURL    string
	calendarID string
	tokens     TokenProvider
}

// NewGoogleClient builds the calendar client once at process start; it is
// injected into every component that talks to the calendar.
func NewGoogleClient(calendarID string, tokens TokenProvider) Client {
	return NewGoogleClientWithBaseURL(calendarID, tokens, googleCalendarAPIBase)
}

func NewGoogleClientWithBaseURL(calendarID string, tokens TokenProvider, baseURL string) Client {
	if calendarID == "" {
		calendarID = "primary"
	}
	return &googleClient{
		http:       &http.Client{Timeout: constants.CalendarRequestTimeout},
		baseURL:    baseURL,
		calendarID: calendarID,
		tokens:     tokens,
	}
}

func (g *googleClient) eventsURL() string {
	return fmt.Sprintf("%s/calendars/%s/events", g.baseURL, url.PathEscape(g.calendarID))
}

func (g *googleClient) do(ctx context.Context, method, apiURL string, body any) (*http.Response, *errors.AppError) {
	token, appErr := g.tokens.AccessToken(ctx)
	if appErr != nil {
		return nil, appErr
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "failed to encode request body", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create request", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.http.Do(req)
	if err != nil {
		// Transport failures and timeouts are retryable service errors.
		return nil, errors.NewServiceError("calendar request failed", 0, err)
	}
	return resp, nil
}

func serviceErrorFromResponse(action string, resp *http.Response) *errors.AppError {
	body, _ := io.ReadAll(resp.Body)
	logger.Error("CalendarClient:UpstreamError",
		"action", action,
		"status", resp.StatusCode,
		"body", string(body),
	)
	if resp.StatusCode == http.StatusUnauthorized {
		return errors.NewAppError(errors.ErrUnauthorized, "calendar credentials rejected", nil)
	}
	return errors.NewServiceError(
		fmt.Sprintf("calendar API error on %s: %d", action, resp.StatusCode),
		resp.StatusCode, nil)
}

func (g *googleClient) CreateEvent(ctx context.Context, payload *dto.EventPayload) (string, *errors.AppError) {
	resp, appErr := g.do(ctx, http.MethodPost, g.eventsURL(), payload)
	if appErr != nil {
		return "", appErr
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", serviceErrorFromResponse("create", resp)
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", errors.NewAppError(errors.ErrInternalServer, "failed to parse create response", err)
	}
	if created.ID == "" {
		return "", errors.NewServiceError("calendar create returned no event id", resp.StatusCode, nil)
	}
	return created.ID, nil
}

func (g *googleClient) UpdateEvent(ctx context.Context, eventID string, payload *dto.EventPayload) *errors.AppError {
	apiURL := fmt.Sprintf("%s/%s", g.eventsURL(), url.PathEscape(eventID))
	resp, appErr := g.do(ctx, http.MethodPatch, apiURL, payload)
	if appErr != nil {
		return appErr
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return serviceErrorFromResponse("update", resp)
	}
	return nil
}

// DeleteEvent cancels an event. A missing target means it was already
// removed, e.g. by the retention sweep, and is treated as success.
func (g *googleClient) DeleteEvent(ctx context.Context, eventID string) *errors.AppError {
	apiURL := fmt.Sprintf("%s/%s", g.eventsURL(), url.PathEscape(eventID))
	resp, appErr := g.do(ctx, http.MethodDelete, apiURL, nil)
	if appErr != nil {
		return appErr
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound, http.StatusGone:
		logger.Info("CalendarClient:DeleteEvent:AlreadyGone", "event_id", eventID)
		return nil
	default:
		return serviceErrorFromResponse("delete", resp)
	}
}

func (g *googleClient) FreeBusy(ctx context.Context, start, end time.Time) ([]dto.BusyInterval, *errors.AppError) {
	payload := map[string]any{
		"timeMin": start.UTC().Format(time.RFC3339),
		"timeMax": end.UTC().Format(time.RFC3339),
		"items": []map[string]string{
			{"id": g.calendarID},
		},
	}

	resp, appErr := g.do(ctx, http.MethodPost, g.baseURL+"/freeBusy", payload)
	if appErr != nil {
		return nil, appErr
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, serviceErrorFromResponse("freeBusy", resp)
	}

	var result struct {
		Calendars map[string]struct {
			Busy []struct {
				Start string `json:"start"`
				End   string `json:"end"`
			} `json:"busy"`
		} `json:"calendars"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to parse freeBusy response", err)
	}

	var busy []dto.BusyInterval
	if cal, ok := result.Calendars[g.calendarID]; ok {
		for _, slot := range cal.Busy {
			s, err1 := time.Parse(time.RFC3339, slot.Start)
			e, err2 := time.Parse(time.RFC3339, slot.End)
			if err1 != nil || err2 != nil {
				logger.Warn("CalendarClient:FreeBusy:BadInterval", "start", slot.Start, "end", slot.End)
				continue
			}
			busy = append(busy, dto.BusyInterval{Start: s, End: e})
		}
	}
	return busy, nil
}

func (g *googleClient) ListEvents(ctx context.Context, start, end time.Time) ([]dto.CalendarEvent, *errors.AppError) {
	params := url.Values{}
	params.Add("timeMin", start.UTC().Format(time.RFC3339))
	params.Add("timeMax", end.UTC().Format(time.RFC3339))
	params.Add("singleEvents", "true")
	params.Add("orderBy", "startTime")

	resp, appErr := g.do(ctx, http.MethodGet, g.eventsURL()+"?"+params.Encode(), nil)
	if appErr != nil {
		return nil, appErr
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, serviceErrorFromResponse("listEvents", resp)
	}

	var result struct {
		Items []dto.CalendarEvent `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to parse events response", err)
	}
	return result.Items, nil
}
