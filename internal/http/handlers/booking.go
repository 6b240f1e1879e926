package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/api"
	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/availability"
	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/draft"
	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/live"
	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/observability/metrics"
	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/wizard"
	"github.com/AdrienBoutique/LeRegardDeManon-sub001/pkg/logging"
)

// BookingHandler drives the booking wizard over HTTP. Each submit builds a
// draft from the request body and runs it through the full wizard pipeline:
// validation, availability estimate, submit-time conflict re-check.
type BookingHandler struct {
	gateway  *api.Client
	snapshot *availability.SnapshotCache
	metrics  *metrics.ConflictMetrics
	hub      *live.Hub
	logger   *logging.Logger
}

// NewBookingHandler creates a booking handler.
func NewBookingHandler(gateway *api.Client, snapshot *availability.SnapshotCache, m *metrics.ConflictMetrics, hub *live.Hub, logger *logging.Logger) *BookingHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &BookingHandler{
		gateway:  gateway,
		snapshot: snapshot,
		metrics:  m,
		hub:      hub,
		logger:   logger.Component("booking"),
	}
}

type bookingRequest struct {
	PractitionerID  string                `json:"practitionerId"`
	AnyPractitioner bool                  `json:"anyPractitioner"`
	Start           string                `json:"start"` // RFC 3339
	ServiceIDs      []string              `json:"serviceIds"`
	ClientID        string                `json:"clientId,omitempty"`
	FirstName       string                `json:"firstName,omitempty"`
	LastName        string                `json:"lastName,omitempty"`
	Phone           string                `json:"phone,omitempty"`
	Email           string                `json:"email,omitempty"`
	Notes           string                `json:"notes,omitempty"`
	Status          api.AppointmentStatus `json:"status,omitempty"`
}

type estimateResponse struct {
	MaxFreeMinutes *int `json:"maxFreeMinutes"`
	Degraded       bool `json:"degraded,omitempty"`
}

// Estimate computes the contiguous free run from a candidate start.
// GET /api/booking/estimate?practitionerId=&start=&excludeId=
func (h *BookingHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := time.Parse(time.RFC3339, q.Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, api.MsgInvalidData)
		return
	}
	practitionerID := q.Get("practitionerId")

	ctx := r.Context()
	schedule := wizard.GatewaySchedule{Client: h.gateway}

	var staffRules []api.AvailabilityRule
	if practitionerID != "" {
		if staffRules, err = schedule.StaffRules(ctx, practitionerID); err != nil {
			writeGatewayError(w, err)
			return
		}
	}
	instituteRules, err := schedule.InstituteRules(ctx)
	if err != nil {
		writeGatewayError(w, err)
		return
	}

	resp := estimateResponse{}
	existing, err := schedule.DayAppointments(ctx, start)
	if err != nil {
		// Fall back on the cached planning snapshot so the wizard keeps a
		// usable bound while the gateway is unreachable.
		h.logger.Warn("day appointments unavailable, trying snapshot", "error", err)
		existing, err = h.snapshot.Load(ctx)
		if err != nil {
			writeGatewayError(w, err)
			return
		}
		resp.Degraded = true
	}

	resp.MaxFreeMinutes = availability.EstimateMaxFreeMinutes(
		practitionerID, start, staffRules, instituteRules, existing, q.Get("excludeId"))
	writeJSON(w, http.StatusOK, resp)
}

// Month reports which days of a month still have bookable starts.
// GET /api/booking/month?year=&month=&services=a,b
func (h *BookingHandler) Month(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, errY := strconv.Atoi(q.Get("year"))
	month, errM := strconv.Atoi(q.Get("month"))
	if errY != nil || errM != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, api.MsgInvalidData)
		return
	}
	days, err := h.gateway.MonthAvailability(r.Context(), year, time.Month(month), splitIDs(q.Get("services")))
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, days)
}

// FreeStarts lists the bookable start times of one day.
// GET /api/booking/free-starts?day=2006-01-02&services=&staffId=
func (h *BookingHandler) FreeStarts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	day, err := time.Parse("2006-01-02", q.Get("day"))
	if err != nil {
		writeError(w, http.StatusBadRequest, api.MsgInvalidData)
		return
	}
	starts, err := h.gateway.FreeStarts(r.Context(), day, splitIDs(q.Get("services")), q.Get("staffId"))
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, starts)
}

// EligibleServices lists the services still bookable at a chosen start.
// GET /api/booking/eligible-services?start=&staffId=
func (h *BookingHandler) EligibleServices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := time.Parse(time.RFC3339, q.Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, api.MsgInvalidData)
		return
	}
	services, err := h.gateway.EligibleServices(r.Context(), start, q.Get("staffId"))
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, services)
}

// Catalog returns the service categories shown by the wizard.
// GET /api/booking/services
func (h *BookingHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	categories, err := h.gateway.ListServiceCategories(r.Context())
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// Practitioners lists active staff for the practitioner step.
// GET /api/booking/practitioners
func (h *BookingHandler) Practitioners(w http.ResponseWriter, r *http.Request) {
	staff, err := h.gateway.ListStaff(r.Context())
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	active := make([]api.Staff, 0, len(staff))
	for _, s := range staff {
		if s.Active {
			active = append(active, s)
		}
	}
	writeJSON(w, http.StatusOK, active)
}

// SubmitPublic books an appointment from the public site. The booking lands
// pending until the institute accepts it.
// POST /api/booking
func (h *BookingHandler) SubmitPublic(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, "", true)
}

// Create books an appointment from the back-office.
// POST /api/admin/appointments
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, "", false)
}

// Update reschedules or edits an existing appointment.
// PUT /api/admin/appointments/{id}
func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, api.MsgInvalidData)
		return
	}
	h.submit(w, r, id, false)
}

func (h *BookingHandler) submit(w http.ResponseWriter, r *http.Request, editID string, public bool) {
	var req bookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, api.MsgInvalidData)
		return
	}
	ctx := r.Context()

	services, err := h.resolveServices(r, req.ServiceIDs)
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	if services == nil {
		writeError(w, http.StatusBadRequest, api.MsgInvalidData)
		return
	}

	drafts := draft.NewStore()
	if editID != "" {
		existing, err := h.gateway.GetAppointment(ctx, editID)
		if err != nil {
			writeGatewayError(w, err)
			return
		}
		drafts.OpenEdit(*existing)
		// Replace the service selection wholesale with the request's.
		for _, svc := range drafts.Current().Services {
			drafts.RemoveService(svc.ID)
		}
	} else {
		drafts.OpenCreate()
	}

	drafts.SetPractitioner(req.PractitionerID, req.AnyPractitioner)
	if start, err := time.Parse(time.RFC3339, req.Start); err == nil {
		drafts.SetStart(start)
	} else {
		drafts.ClearStart()
	}
	for _, svc := range services {
		drafts.AddService(svc)
	}
	drafts.SetClientFields(req.FirstName, req.LastName, req.Phone, req.Email)
	if req.ClientID != "" {
		drafts.SetClientRef(req.ClientID)
	}
	drafts.SetNotes(req.Notes)
	if public {
		drafts.SetStatus(api.StatusPending)
	} else if req.Status != "" {
		drafts.SetStatus(req.Status)
	}

	wz := wizard.New(wizard.Config{
		Draft:        drafts,
		Schedule:     wizard.GatewaySchedule{Client: h.gateway},
		Appointments: h.gateway,
		ConflictAPI:  h.gateway,
		Snapshot:     h.snapshot,
		Metrics:      h.metrics,
		Logger:       h.logger,
		Public:       public,
	})
	defer wz.Close()

	if err := wz.RefreshAvailability(ctx); err != nil {
		// Estimate stays nil; the duration cap is then enforced upstream.
		h.logger.Warn("availability refresh failed before submit", "error", err)
	}

	saved, err := wz.Submit(ctx)
	if err != nil {
		writeSubmitError(w, err)
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(live.Event{Kind: "planning.refresh", AppointmentID: saved.ID})
	}
	status := http.StatusCreated
	if editID != "" {
		status = http.StatusOK
	}
	writeJSON(w, status, saved)
}

// resolveServices maps requested IDs onto the catalog. A nil result with a
// nil error means at least one ID is unknown.
func (h *BookingHandler) resolveServices(r *http.Request, ids []string) ([]api.ServiceItem, error) {
	if len(ids) == 0 {
		return []api.ServiceItem{}, nil
	}
	catalog, err := h.gateway.ListServices(r.Context())
	if err != nil {
		return nil, err
	}
	byID := make(map[string]api.ServiceItem, len(catalog))
	for _, svc := range catalog {
		byID[svc.ID] = svc
	}
	resolved := make([]api.ServiceItem, 0, len(ids))
	for _, id := range ids {
		svc, ok := byID[id]
		if !ok {
			h.logger.Warn("unknown service in booking request", "service_id", id)
			return nil, nil
		}
		resolved = append(resolved, svc)
	}
	return resolved, nil
}

func splitIDs(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}

// Register mounts the public booking routes.
func (h *BookingHandler) Register(r chi.Router) {
	r.Route("/booking", func(r chi.Router) {
		r.Get("/estimate", h.Estimate)
		r.Get("/month", h.Month)
		r.Get("/free-starts", h.FreeStarts)
		r.Get("/eligible-services", h.EligibleServices)
		r.Get("/services", h.Catalog)
		r.Get("/practitioners", h.Practitioners)
		r.Post("/", h.SubmitPublic)
	})
}
