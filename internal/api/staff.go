package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListStaff returns the institute's practitioners.
func (c *Client) ListStaff(ctx context.Context) ([]Staff, error) {
	var out []Staff
	if err := c.doJSON(ctx, http.MethodGet, "/api/admin/staff", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	return out, nil
}

// CreateStaff adds a practitioner.
func (c *Client) CreateStaff(ctx context.Context, s Staff) (*Staff, error) {
	var out Staff
	if err := c.doJSON(ctx, http.MethodPost, "/api/admin/staff", nil, s, &out); err != nil {
		return nil, fmt.Errorf("create staff: %w", err)
	}
	return &out, nil
}

// UpdateStaff edits a practitioner.
func (c *Client) UpdateStaff(ctx context.Context, s Staff) (*Staff, error) {
	var out Staff
	if err := c.doJSON(ctx, http.MethodPut, "/api/admin/staff/"+url.PathEscape(s.ID), nil, s, &out); err != nil {
		return nil, fmt.Errorf("update staff: %w", err)
	}
	return &out, nil
}

// StaffAvailability returns the weekly working-hour rules for one
// practitioner. An empty staffID fetches the institute-wide rules.
func (c *Client) StaffAvailability(ctx context.Context, staffID string) ([]AvailabilityRule, error) {
	path := "/api/admin/staff/availability"
	if staffID != "" {
		path = "/api/admin/staff/" + url.PathEscape(staffID) + "/availability"
	}
	var out []AvailabilityRule
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, fmt.Errorf("staff availability: %w", err)
	}
	return out, nil
}

// CreateAvailabilityRule adds one weekly open window.
func (c *Client) CreateAvailabilityRule(ctx context.Context, rule AvailabilityRule) (*AvailabilityRule, error) {
	var out AvailabilityRule
	if err := c.doJSON(ctx, http.MethodPost, "/api/admin/staff/availability", nil, rule, &out); err != nil {
		return nil, fmt.Errorf("create availability rule: %w", err)
	}
	return &out, nil
}

// DeleteAvailabilityRule removes a weekly open window.
func (c *Client) DeleteAvailabilityRule(ctx context.Context, id string) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/api/admin/staff/availability/"+url.PathEscape(id), nil, nil, nil); err != nil {
		return fmt.Errorf("delete availability rule: %w", err)
	}
	return nil
}

// StaffTimeOff returns time-off blocks for one practitioner, or every block
// when staffID is empty.
func (c *Client) StaffTimeOff(ctx context.Context, staffID string) ([]TimeOff, error) {
	path := "/api/admin/staff/timeoff"
	if staffID != "" {
		path = "/api/admin/staff/" + url.PathEscape(staffID) + "/timeoff"
	}
	var out []TimeOff
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, fmt.Errorf("staff time off: %w", err)
	}
	return out, nil
}

// CreateTimeOff records a blocked interval.
func (c *Client) CreateTimeOff(ctx context.Context, block TimeOff) (*TimeOff, error) {
	var out TimeOff
	if err := c.doJSON(ctx, http.MethodPost, "/api/admin/staff/timeoff", nil, block, &out); err != nil {
		return nil, fmt.Errorf("create time off: %w", err)
	}
	return &out, nil
}

// DeleteTimeOff removes a blocked interval.
func (c *Client) DeleteTimeOff(ctx context.Context, id string) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/api/admin/staff/timeoff/"+url.PathEscape(id), nil, nil, nil); err != nil {
		return fmt.Errorf("delete time off: %w", err)
	}
	return nil
}

// StaffServices lists the service IDs a practitioner can perform.
func (c *Client) StaffServices(ctx context.Context, staffID string) ([]string, error) {
	var out []string
	if err := c.doJSON(ctx, http.MethodGet, "/api/admin/staff/"+url.PathEscape(staffID)+"/services", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("staff services: %w", err)
	}
	return out, nil
}

// SetStaffServices replaces the set of services a practitioner can perform.
func (c *Client) SetStaffServices(ctx context.Context, staffID string, serviceIDs []string) error {
	body := map[string][]string{"serviceIds": serviceIDs}
	if err := c.doJSON(ctx, http.MethodPut, "/api/admin/staff/"+url.PathEscape(staffID)+"/services", nil, body, nil); err != nil {
		return fmt.Errorf("set staff services: %w", err)
	}
	return nil
}
