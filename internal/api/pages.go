package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// GetPublicPage fetches the published content blocks for a marketing page.
func (c *Client) GetPublicPage(ctx context.Context, slug string) (*PageContent, error) {
	var out PageContent
	if err := c.doJSON(ctx, http.MethodGet, "/api/public/page-content/"+url.PathEscape(slug), nil, nil, &out); err != nil {
		return nil, fmt.Errorf("get public page: %w", err)
	}
	return &out, nil
}

// GetAdminPage fetches the editable content blocks for a page, drafts
// included.
func (c *Client) GetAdminPage(ctx context.Context, slug string) (*PageContent, error) {
	var out PageContent
	if err := c.doJSON(ctx, http.MethodGet, "/api/admin/page-content/"+url.PathEscape(slug), nil, nil, &out); err != nil {
		return nil, fmt.Errorf("get admin page: %w", err)
	}
	return &out, nil
}

// UpdatePage replaces the content blocks of a page.
func (c *Client) UpdatePage(ctx context.Context, page PageContent) (*PageContent, error) {
	var out PageContent
	if err := c.doJSON(ctx, http.MethodPut, "/api/admin/page-content/"+url.PathEscape(page.Slug), nil, page, &out); err != nil {
		return nil, fmt.Errorf("update page: %w", err)
	}
	return &out, nil
}

// DashboardStats fetches the back-office landing page summary.
func (c *Client) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	var out DashboardStats
	if err := c.doJSON(ctx, http.MethodGet, "/api/admin/dashboard", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return &out, nil
}
