package api

import "time"

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusPending   AppointmentStatus = "pending"
	StatusBlocked   AppointmentStatus = "blocked"
)

// ServiceItem is immutable reference data describing one bookable service.
type ServiceItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	DurationMin int     `json:"duration"`
	Price       float64 `json:"price"`
	CategoryID  string  `json:"categoryId,omitempty"`
}

// ServiceCategory groups services on the public site and in the back-office.
type ServiceCategory struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Position int           `json:"position"`
	Services []ServiceItem `json:"services,omitempty"`
}

// Staff is a practitioner of the institute.
type Staff struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role,omitempty"`
	Color     string `json:"color,omitempty"`
	Active    bool   `json:"active"`
}

// AvailabilityRule is one open interval on one weekday. StaffID empty means
// the rule applies institute-wide.
type AvailabilityRule struct {
	ID      string `json:"id,omitempty"`
	StaffID string `json:"staffId,omitempty"`
	Weekday int    `json:"weekday"` // 0=Sunday .. 6=Saturday
	Start   string `json:"start"`   // wall-clock "HH:MM"
	End     string `json:"end"`
}

// Appointment is an existing booking fetched from the backend.
type Appointment struct {
	ID             string            `json:"id"`
	PractitionerID string            `json:"practitionerId"`
	Start          time.Time         `json:"start"`
	DurationMin    int               `json:"duration"`
	Services       []ServiceItem     `json:"services"`
	ClientID       string            `json:"clientId,omitempty"`
	ClientName     string            `json:"clientName,omitempty"`
	Status         AppointmentStatus `json:"status"`
	Notes          string            `json:"notes,omitempty"`
}

// End returns the exclusive end of the appointment interval.
func (a Appointment) End() time.Time {
	return a.Start.Add(time.Duration(a.DurationMin) * time.Minute)
}

// TimeOff is a blocked interval, staff-specific or institute-wide.
type TimeOff struct {
	ID      string    `json:"id"`
	StaffID string    `json:"staffId,omitempty"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	AllDay  bool      `json:"allDay"`
	Reason  string    `json:"reason,omitempty"`
}

// ClientRecord is a client of the institute.
type ClientRecord struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// AppointmentPayload is the create/update body for an appointment.
type AppointmentPayload struct {
	PractitionerID string            `json:"practitionerId"`
	Start          string            `json:"start"` // RFC 3339
	DurationMin    int               `json:"duration"`
	ServiceIDs     []string          `json:"serviceIds"`
	ClientID       string            `json:"clientId,omitempty"`
	FirstName      string            `json:"firstName,omitempty"`
	LastName       string            `json:"lastName,omitempty"`
	Phone          string            `json:"phone,omitempty"`
	Email          string            `json:"email,omitempty"`
	Notes          string            `json:"notes,omitempty"`
	Status         AppointmentStatus `json:"status,omitempty"`
}

// PlanningData is the admin planning range payload.
type PlanningData struct {
	Appointments []Appointment `json:"appointments"`
	TimeOff      []TimeOff     `json:"timeOff"`
}

// FreeStart is a bookable start time with the contiguous free run from it.
type FreeStart struct {
	Start      time.Time `json:"start"`
	MaxFreeMin int       `json:"maxFreeMinutes"`
}

// EligibleService is a service bookable at a given start/staff combination,
// with its effective (possibly discounted) price.
type EligibleService struct {
	ServiceItem
	EffectivePrice float64 `json:"effectivePrice"`
}

// MonthDay reports whether a calendar day still has bookable starts.
type MonthDay struct {
	Date     string `json:"date"` // "2006-01-02"
	HasSlots bool   `json:"hasSlots"`
}

// PageContent holds editable marketing-page blocks keyed by block name.
type PageContent struct {
	Slug      string            `json:"slug"`
	Blocks    map[string]string `json:"blocks"`
	UpdatedAt time.Time         `json:"updatedAt,omitempty"`
}

// DashboardStats is the back-office landing page summary.
type DashboardStats struct {
	TodayCount   int     `json:"todayCount"`
	WeekCount    int     `json:"weekCount"`
	PendingCount int     `json:"pendingCount"`
	WeekRevenue  float64 `json:"weekRevenue"`
}

// User is the authenticated back-office account.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

// LoginResponse carries the bearer token and the account it belongs to.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// PushSubscription is a web-push registration forwarded to the backend.
type PushSubscription struct {
	Endpoint string `json:"endpoint"`
	P256dh   string `json:"p256dh"`
	Auth     string `json:"auth"`
}
