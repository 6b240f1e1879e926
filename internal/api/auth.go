package api

import (
	"context"
	"fmt"
	"net/http"
)

// Login exchanges credentials for a bearer token and the account profile.
// Goes out unauthenticated regardless of any configured token source.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var out LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", nil, body, &out); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &out, nil
}

// Me returns the account behind the current token.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var out User
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/me", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("me: %w", err)
	}
	return &out, nil
}

// ChangePassword rotates the current account's password.
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	body := map[string]string{"currentPassword": current, "newPassword": next}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/change-password", nil, body, nil); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}

// RegisterPush forwards a web-push subscription to the backend. Delivery is
// entirely server-side; this client only registers endpoints.
func (c *Client) RegisterPush(ctx context.Context, sub PushSubscription) error {
	if err := c.doJSON(ctx, http.MethodPost, "/api/admin/push/register", nil, sub, nil); err != nil {
		return fmt.Errorf("register push: %w", err)
	}
	return nil
}

// TestPush asks the backend to send a test notification to the current
// account's registered endpoints.
func (c *Client) TestPush(ctx context.Context) error {
	if err := c.doJSON(ctx, http.MethodPost, "/api/admin/push/test", nil, nil, nil); err != nil {
		return fmt.Errorf("test push: %w", err)
	}
	return nil
}
