package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ListClients returns clients, optionally filtered by a search term matched
// server-side against name, phone and email.
func (c *Client) ListClients(ctx context.Context, search string) ([]ClientRecord, error) {
	var q url.Values
	if strings.TrimSpace(search) != "" {
		q = url.Values{}
		q.Set("q", strings.TrimSpace(search))
	}
	var out []ClientRecord
	if err := c.doJSON(ctx, http.MethodGet, "/api/admin/clients", q, nil, &out); err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return out, nil
}

// GetClientRecord fetches one client.
func (c *Client) GetClientRecord(ctx context.Context, id string) (*ClientRecord, error) {
	var out ClientRecord
	if err := c.doJSON(ctx, http.MethodGet, "/api/admin/clients/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}
	return &out, nil
}

// CreateClientRecord registers a new client.
func (c *Client) CreateClientRecord(ctx context.Context, rec ClientRecord) (*ClientRecord, error) {
	var out ClientRecord
	if err := c.doJSON(ctx, http.MethodPost, "/api/admin/clients", nil, rec, &out); err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return &out, nil
}

// UpdateClientRecord edits a client.
func (c *Client) UpdateClientRecord(ctx context.Context, rec ClientRecord) (*ClientRecord, error) {
	var out ClientRecord
	if err := c.doJSON(ctx, http.MethodPut, "/api/admin/clients/"+url.PathEscape(rec.ID), nil, rec, &out); err != nil {
		return nil, fmt.Errorf("update client: %w", err)
	}
	return &out, nil
}
