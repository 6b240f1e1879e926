package wizard

import (
	"context"
	"time"

	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/api"
)

// GatewaySchedule adapts the institute API client to the ScheduleSource the
// estimator feeds on.
type GatewaySchedule struct {
	Client *api.Client
}

func (g GatewaySchedule) StaffRules(ctx context.Context, staffID string) ([]api.AvailabilityRule, error) {
	return g.Client.StaffAvailability(ctx, staffID)
}

func (g GatewaySchedule) InstituteRules(ctx context.Context) ([]api.AvailabilityRule, error) {
	return g.Client.StaffAvailability(ctx, "")
}

func (g GatewaySchedule) DayAppointments(ctx context.Context, day time.Time) ([]api.Appointment, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return g.Client.ListAppointments(ctx, from, from.AddDate(0, 0, 1))
}

var _ ScheduleSource = GatewaySchedule{}
var _ AppointmentsAPI = (*api.Client)(nil)
