package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// MonthAvailability returns, for each day of the month, whether bookable
// starts remain for the given services.
func (c *Client) MonthAvailability(ctx context.Context, year int, month time.Month, serviceIDs []string) ([]MonthDay, error) {
	q := url.Values{}
	q.Set("year", strconv.Itoa(year))
	q.Set("month", strconv.Itoa(int(month)))
	if len(serviceIDs) > 0 {
		q.Set("services", strings.Join(serviceIDs, ","))
	}

	var out []MonthDay
	if err := c.doJSON(ctx, http.MethodGet, "/api/public/availability/month", q, nil, &out); err != nil {
		return nil, fmt.Errorf("month availability: %w", err)
	}
	return out, nil
}

// FreeStarts returns bookable start timestamps for a day, each with the
// maximum contiguous free duration from that point.
func (c *Client) FreeStarts(ctx context.Context, day time.Time, serviceIDs []string, staffID string) ([]FreeStart, error) {
	q := url.Values{}
	q.Set("date", day.Format("2006-01-02"))
	if len(serviceIDs) > 0 {
		q.Set("services", strings.Join(serviceIDs, ","))
	}
	if staffID != "" {
		q.Set("staffId", staffID)
	}

	var out []FreeStart
	if err := c.doJSON(ctx, http.MethodGet, "/api/free-starts", q, nil, &out); err != nil {
		return nil, fmt.Errorf("free starts: %w", err)
	}
	return out, nil
}

// EligibleServices returns the services bookable at a start/staff
// combination, with effective prices.
func (c *Client) EligibleServices(ctx context.Context, start time.Time, staffID string) ([]EligibleService, error) {
	q := url.Values{}
	q.Set("start", start.Format(time.RFC3339))
	if staffID != "" {
		q.Set("staffId", staffID)
	}

	var out []EligibleService
	if err := c.doJSON(ctx, http.MethodGet, "/api/eligible-services", q, nil, &out); err != nil {
		return nil, fmt.Errorf("eligible services: %w", err)
	}
	return out, nil
}
