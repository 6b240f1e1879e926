package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListServices returns all active services.
func (c *Client) ListServices(ctx context.Context) ([]ServiceItem, error) {
	var out []ServiceItem
	if err := c.doJSON(ctx, http.MethodGet, "/api/admin/services", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return out, nil
}

// ListServiceCategories returns categories with their services, ordered for
// display.
func (c *Client) ListServiceCategories(ctx context.Context) ([]ServiceCategory, error) {
	var out []ServiceCategory
	if err := c.doJSON(ctx, http.MethodGet, "/api/admin/services/categories", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("list service categories: %w", err)
	}
	return out, nil
}

// CreateService adds a service to the catalogue.
func (c *Client) CreateService(ctx context.Context, s ServiceItem) (*ServiceItem, error) {
	var out ServiceItem
	if err := c.doJSON(ctx, http.MethodPost, "/api/admin/services", nil, s, &out); err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}
	return &out, nil
}

// UpdateService edits an existing service.
func (c *Client) UpdateService(ctx context.Context, s ServiceItem) (*ServiceItem, error) {
	var out ServiceItem
	if err := c.doJSON(ctx, http.MethodPut, "/api/admin/services/"+url.PathEscape(s.ID), nil, s, &out); err != nil {
		return nil, fmt.Errorf("update service: %w", err)
	}
	return &out, nil
}

// DeleteService removes a service from the catalogue.
func (c *Client) DeleteService(ctx context.Context, id string) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/api/admin/services/"+url.PathEscape(id), nil, nil, nil); err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	return nil
}
