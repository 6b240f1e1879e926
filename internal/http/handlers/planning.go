package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/api"
	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/availability"
	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/live"
	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/planning"
	"github.com/AdrienBoutique/LeRegardDeManon-sub001/pkg/logging"
)

// PlanningHandler serves the back-office planning grid: appointments and
// time-off blocks of a date range, each positioned as a pixel band inside
// the visible day window.
type PlanningHandler struct {
	gateway  *api.Client
	snapshot *availability.SnapshotCache
	window   planning.Window
	layout   planning.Layout
	hub      *live.Hub
	logger   *logging.Logger
}

// NewPlanningHandler creates a planning handler.
func NewPlanningHandler(gateway *api.Client, snapshot *availability.SnapshotCache, window planning.Window, layout planning.Layout, hub *live.Hub, logger *logging.Logger) *PlanningHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &PlanningHandler{
		gateway:  gateway,
		snapshot: snapshot,
		window:   window,
		layout:   layout,
		hub:      hub,
		logger:   logger.Component("planning"),
	}
}

// PositionedAppointment is an appointment with its grid band.
type PositionedAppointment struct {
	api.Appointment
	Band planning.Band `json:"band"`
}

// PositionedTimeOff is a time-off block with its grid band.
type PositionedTimeOff struct {
	api.TimeOff
	Band planning.Band `json:"band"`
}

// PlanningResponse is the grid payload for one date range.
type PlanningResponse struct {
	From         string                  `json:"from"`
	To           string                  `json:"to"`
	SlotTicks    []int                   `json:"slotTicks"`
	Appointments []PositionedAppointment `json:"appointments"`
	TimeOff      []PositionedTimeOff     `json:"timeOff"`
}

// Grid returns the planning range with layout bands, and refreshes the
// conflict-check fallback snapshot as a side effect.
// GET /api/admin/planning?from=2006-01-02&to=2006-01-02
func (h *PlanningHandler) Grid(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, errFrom := time.Parse("2006-01-02", q.Get("from"))
	to, errTo := time.Parse("2006-01-02", q.Get("to"))
	if errFrom != nil || errTo != nil || to.Before(from) {
		writeError(w, http.StatusBadRequest, api.MsgInvalidData)
		return
	}

	data, err := h.gateway.GetPlanning(r.Context(), from, to.AddDate(0, 0, 1))
	if err != nil {
		writeGatewayError(w, err)
		return
	}

	if err := h.snapshot.Store(r.Context(), data.Appointments); err != nil {
		h.logger.Warn("planning snapshot store failed", "error", err)
	}

	resp := PlanningResponse{
		From:         from.Format("2006-01-02"),
		To:           to.Format("2006-01-02"),
		SlotTicks:    h.window.SlotTicks(h.layout.SlotMinutes),
		Appointments: make([]PositionedAppointment, 0, len(data.Appointments)),
		TimeOff:      make([]PositionedTimeOff, 0, len(data.TimeOff)),
	}
	for _, appt := range data.Appointments {
		resp.Appointments = append(resp.Appointments, PositionedAppointment{
			Appointment: appt,
			Band:        h.layout.AppointmentBand(h.window, appt),
		})
	}
	for _, block := range data.TimeOff {
		resp.TimeOff = append(resp.TimeOff, PositionedTimeOff{
			TimeOff: block,
			Band:    h.layout.TimeOffBand(h.window, block),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListAppointments returns raw appointments over a range.
// GET /api/admin/appointments?from=&to=
func (h *PlanningHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, errFrom := time.Parse("2006-01-02", q.Get("from"))
	to, errTo := time.Parse("2006-01-02", q.Get("to"))
	if errFrom != nil || errTo != nil {
		writeError(w, http.StatusBadRequest, api.MsgInvalidData)
		return
	}
	appts, err := h.gateway.ListAppointments(r.Context(), from, to.AddDate(0, 0, 1))
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appts)
}

// GetAppointment returns one appointment.
// GET /api/admin/appointments/{id}
func (h *PlanningHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	appt, err := h.gateway.GetAppointment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

// DeleteAppointment cancels an appointment and refreshes open planning
// views.
// DELETE /api/admin/appointments/{id}
func (h *PlanningHandler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.gateway.DeleteAppointment(r.Context(), id); err != nil {
		writeGatewayError(w, err)
		return
	}
	if h.hub != nil {
		h.hub.Broadcast(live.Event{Kind: "planning.refresh", AppointmentID: id})
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// ListPending returns public bookings awaiting a decision.
// GET /api/admin/appointments/pending
func (h *PlanningHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	pending, err := h.gateway.ListPendingAppointments(r.Context())
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pending)
}

// Accept confirms a pending booking.
// POST /api/admin/appointments/{id}/accept
func (h *PlanningHandler) Accept(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	appt, err := h.gateway.AcceptAppointment(r.Context(), id)
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	if h.hub != nil {
		h.hub.Broadcast(live.Event{Kind: "planning.refresh", AppointmentID: id})
	}
	writeJSON(w, http.StatusOK, appt)
}

// Reject declines a pending booking.
// POST /api/admin/appointments/{id}/reject
func (h *PlanningHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.gateway.RejectAppointment(r.Context(), id); err != nil {
		writeGatewayError(w, err)
		return
	}
	if h.hub != nil {
		h.hub.Broadcast(live.Event{Kind: "planning.refresh", AppointmentID: id})
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// RegisterAdmin mounts the planning routes.
func (h *PlanningHandler) RegisterAdmin(r chi.Router, booking *BookingHandler) {
	r.Get("/planning", h.Grid)
	r.Route("/appointments", func(r chi.Router) {
		r.Get("/", h.ListAppointments)
		r.Post("/", booking.Create)
		r.Get("/pending", h.ListPending)
		r.Get("/{id}", h.GetAppointment)
		r.Put("/{id}", booking.Update)
		r.Delete("/{id}", h.DeleteAppointment)
		r.Post("/{id}/accept", h.Accept)
		r.Post("/{id}/reject", h.Reject)
	})
}
