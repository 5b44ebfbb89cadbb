// Package remote talks to the booking REST API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"seatbook/internal/availability"
	"seatbook/internal/domain"
	"seatbook/internal/store"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
	Code    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http %d", e.Status)
	}
	return fmt.Sprintf("http %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return store.ErrNotFound
	}
	if v := e.Validation(); v != nil {
		return v
	}
	return nil
}

// Validation returns the rule violation the server reported, or nil.
func (e *APIError) Validation() *availability.ValidationError {
	if e.Status != http.StatusBadRequest {
		return nil
	}
	kind, ok := availability.ParseKind(e.Code)
	if !ok {
		return nil
	}
	return availability.NewValidationError(kind)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type createRequest struct {
	Name     string `json:"name"`
	Weekday  string `json:"weekday"`
	TimeSlot string `json:"timeSlot"`
}

type availabilityResponse struct {
	Available      bool   `json:"available"`
	Reason         string `json:"reason"`
	Message        string `json:"message"`
	AvailableSpots int    `json:"availableSpots"`
	TotalSpots     int    `json:"totalSpots"`
}

func (c *Client) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	var out []domain.Booking
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/bookings", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateBooking(ctx context.Context, cand domain.Candidate) (domain.Booking, error) {
	body := createRequest{Name: cand.Name, Weekday: string(cand.Weekday), TimeSlot: string(cand.TimeSlot)}
	var out domain.Booking
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/bookings", body, &out); err != nil {
		return domain.Booking{}, err
	}
	return out, nil
}

func (c *Client) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	return c.doJSON(ctx, http.MethodDelete, c.baseURL+"/bookings/"+url.PathEscape(id.String()), nil, nil)
}

func (c *Client) Availability(ctx context.Context, wd domain.Weekday, ts domain.TimeSlot) (domain.Availability, error) {
	endpoint := fmt.Sprintf("%s/availability/%s/%s", c.baseURL, url.PathEscape(string(wd)), url.PathEscape(string(ts)))
	var resp availabilityResponse
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return domain.Availability{}, err
	}
	status := domain.Status(resp.Reason)
	if !status.Valid() {
		return domain.Availability{}, fmt.Errorf("availability %s/%s: unknown status %q", wd, ts, resp.Reason)
	}
	return domain.Availability{
		Status:    status,
		Remaining: resp.AvailableSpots,
		Capacity:  resp.TotalSpots,
	}, nil
}

func (c *Client) Reset(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, c.baseURL+"/bookings/reset", nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, endpoint string, body, out any) error {
	var rdr io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&payload); err == nil {
			apiErr.Message = payload.Error
			apiErr.Code = payload.Code
		}
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, endpoint, err)
	}
	return nil
}

// IsRejection reports whether the server refused the request on a booking
// rule. Throttling, timeouts and other 4xx answers are not rejections: the
// same request may be accepted later.
func IsRejection(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Validation() != nil
}
