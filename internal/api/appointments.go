package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ListAppointments returns admin appointments in [from, to).
func (c *Client) ListAppointments(ctx context.Context, from, to time.Time) ([]Appointment, error) {
	q := url.Values{}
	q.Set("from", from.Format(time.RFC3339))
	q.Set("to", to.Format(time.RFC3339))

	var out []Appointment
	if err := c.doJSON(ctx, http.MethodGet, "/api/admin/appointments", q, nil, &out); err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return out, nil
}

// GetAppointment fetches a single appointment.
func (c *Client) GetAppointment(ctx context.Context, id string) (*Appointment, error) {
	var out Appointment
	if err := c.doJSON(ctx, http.MethodGet, "/api/admin/appointments/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return &out, nil
}

// CreateAppointment creates an appointment through the admin surface.
func (c *Client) CreateAppointment(ctx context.Context, payload AppointmentPayload) (*Appointment, error) {
	var out Appointment
	if err := c.doJSON(ctx, http.MethodPost, "/api/admin/appointments", nil, payload, &out); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	return &out, nil
}

// CreatePublicAppointment creates a pending appointment from the public
// booking wizard.
func (c *Client) CreatePublicAppointment(ctx context.Context, payload AppointmentPayload) (*Appointment, error) {
	var out Appointment
	if err := c.doJSON(ctx, http.MethodPost, "/api/appointments", nil, payload, &out); err != nil {
		return nil, fmt.Errorf("create public appointment: %w", err)
	}
	return &out, nil
}

// UpdateAppointment updates an existing appointment.
func (c *Client) UpdateAppointment(ctx context.Context, id string, payload AppointmentPayload) (*Appointment, error) {
	var out Appointment
	if err := c.doJSON(ctx, http.MethodPut, "/api/admin/appointments/"+url.PathEscape(id), nil, payload, &out); err != nil {
		return nil, fmt.Errorf("update appointment: %w", err)
	}
	return &out, nil
}

// DeleteAppointment removes an appointment.
func (c *Client) DeleteAppointment(ctx context.Context, id string) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/api/admin/appointments/"+url.PathEscape(id), nil, nil, nil); err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	return nil
}

// CheckConflict asks the backend whether the candidate interval overlaps an
// existing booking. This is the authoritative check; the local estimator is
// only a degraded-mode substitute.
func (c *Client) CheckConflict(ctx context.Context, practitionerID string, start time.Time, durationMin int, excludeID string) (bool, error) {
	q := url.Values{}
	q.Set("practitionerId", practitionerID)
	q.Set("start", start.Format(time.RFC3339))
	q.Set("duration", strconv.Itoa(durationMin))
	if excludeID != "" {
		q.Set("exclude", excludeID)
	}

	var out struct {
		Conflict bool `json:"conflict"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/admin/appointments/conflicts", q, nil, &out); err != nil {
		return false, fmt.Errorf("check conflict: %w", err)
	}
	return out.Conflict, nil
}

// ListPendingAppointments returns appointments awaiting review.
func (c *Client) ListPendingAppointments(ctx context.Context) ([]Appointment, error) {
	var out []Appointment
	if err := c.doJSON(ctx, http.MethodGet, "/api/admin/appointments/pending", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("list pending appointments: %w", err)
	}
	return out, nil
}

// AcceptAppointment confirms a pending appointment.
func (c *Client) AcceptAppointment(ctx context.Context, id string) (*Appointment, error) {
	var out Appointment
	if err := c.doJSON(ctx, http.MethodPost, "/api/admin/appointments/"+url.PathEscape(id)+"/accept", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("accept appointment: %w", err)
	}
	return &out, nil
}

// RejectAppointment declines a pending appointment.
func (c *Client) RejectAppointment(ctx context.Context, id string) error {
	if err := c.doJSON(ctx, http.MethodPost, "/api/admin/appointments/"+url.PathEscape(id)+"/reject", nil, nil, nil); err != nil {
		return fmt.Errorf("reject appointment: %w", err)
	}
	return nil
}

// GetPlanning fetches appointments and time-off for the admin planning grid.
func (c *Client) GetPlanning(ctx context.Context, from, to time.Time) (*PlanningData, error) {
	q := url.Values{}
	q.Set("from", from.Format(time.RFC3339))
	q.Set("to", to.Format(time.RFC3339))

	var out PlanningData
	if err := c.doJSON(ctx, http.MethodGet, "/api/admin/planning", q, nil, &out); err != nil {
		return nil, fmt.Errorf("get planning: %w", err)
	}
	return &out, nil
}
