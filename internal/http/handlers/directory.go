package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/api"
	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/availability"
	"github.com/AdrienBoutique/LeRegardDeManon-sub001/pkg/logging"
)

// DirectoryHandler manages the back-office catalog: staff, their schedules
// and time off, the service list, and the client file.
type DirectoryHandler struct {
	gateway *api.Client
	logger  *logging.Logger
}

// NewDirectoryHandler creates a directory handler.
func NewDirectoryHandler(gateway *api.Client, logger *logging.Logger) *DirectoryHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &DirectoryHandler{gateway: gateway, logger: logger.Component("directory")}
}

// ListStaff returns all practitioners.
// GET /api/admin/staff
func (h *DirectoryHandler) ListStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := h.gateway.ListStaff(r.Context())
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, staff)
}

// CreateStaff adds a practitioner.
// POST /api/admin/staff
func (h *DirectoryHandler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var s api.Staff
	if err := decodeJSON(r, &s); err != nil || s.FirstName == "" {
		writeError(w, http.StatusBadRequest, api.MsgInvalidData)
		return
	}
	created, err := h.gateway.CreateStaff(r.Context(), s)
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateStaff edits a practitioner.
// PUT /api/admin/staff/{id}
func (h *DirectoryHandler) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	var s api.Staff
	if err := decodeJSON(r, &s); err != nil {
		writeError(w, http.StatusBadRequest, api.MsgInvalidData)
		return
	}
	s.ID = chi.URLParam(r, "id")
	updated, err := h.gateway.UpdateStaff(r.Context(), s)
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// StaffAvailability returns the weekly open hours of one practitioner, or
// the institute-wide hours for {id} "institute".
// GET /api/admin/staff/{id}/availability
func (h *DirectoryHandler) StaffAvailability(w http.ResponseWriter, r *http.Request) {
	staffID := chi.URLParam(r, "id")
	if staffID == "institute" {
		staffID = ""
	}
	rules, err := h.gateway.StaffAvailability(r.Context(), staffID)
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rules)
}

// CreateAvailabilityRule adds one weekly open interval.
// POST /api/admin/staff/{id}/availability
func (h *DirectoryHandler) CreateAvailabilityRule(w http.ResponseWriter, r *http.Request) {
	var rule api.AvailabilityRule
	if err := decodeJSON(r, &rule); err != nil {
		writeError(w, http.StatusBadRequest, api.MsgInvalidData)
		return
	}
	if rule.Weekday < 0 || rule.Weekday > 6 {
		writeError(w, http.StatusBadRequest, api.MsgInvalidData)
		return
	}
	if _, err := availability.ParseClock(rule.Start); err != nil {
		writeError(w, http.StatusBadRequest, api.MsgInvalidData)
		return
	}
	if _, err := availability.ParseClock(rule.End); err != nil {
		writeError(w, http.StatusBadRequest, api.MsgInvalidData)
		return
	}
	if staffID := chi.URLParam(r, "id"); staffID != "institute" {
		rule.StaffID = staffID
	} else {
		rule.StaffID = ""
	}
	created, err := h.gateway.CreateAvailabilityRule(r.Context(), rule)
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// DeleteAvailabilityRule removes one open interval.
// DELETE /api/admin/availability/{ruleID}
func (h *DirectoryHandler) DeleteAvailabilityRule(w http.ResponseWriter, r *http.Request) {
	if err := h.gateway.DeleteAvailabilityRule(r.Context(), chi.URLParam(r, "ruleID")); err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// StaffTimeOff returns the time-off blocks of one practitioner.
// GET /api/admin/staff/{id}/timeoff
func (h *DirectoryHandler) StaffTimeOff(w http.ResponseWriter, r *http.Request) {
	blocks, err := h.gateway.StaffTimeOff(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, blocks)
}

// CreateTimeOff adds a time-off block.
// POST /api/admin/staff/{id}/timeoff
func (h *DirectoryHandler) CreateTimeOff(w http.ResponseWriter, r *http.Request) {
	var block api.TimeOff
	if err := decodeJSON(r, &block); err != nil {
		writeError(w, http.StatusBadRequest, api.MsgInvalidData)
		return
	}
	if !block.AllDay && !block.End.After(block.Start) {
		writeError(w, http.StatusBadRequest, api.MsgInvalidData)
		return
	}
	block.StaffID = chi.URLParam(r, "id")
	created, err := h.gateway.CreateTimeOff(r.Context(), block)
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// DeleteTimeOff removes a time-off block.
// DELETE /api/admin/timeoff/{blockID}
func (h *DirectoryHandler) DeleteTimeOff(w http.ResponseWriter, r *http.Request) {
	if err := h.gateway.DeleteTimeOff(r.Context(), chi.URLParam(r, "blockID")); err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// StaffServices returns the service IDs a practitioner can perform.
// GET /api/admin/staff/{id}/services
func (h *DirectoryHandler) StaffServices(w http.ResponseWriter, r *http.Request) {
	ids, err := h.gateway.StaffServices(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ids)
}

type staffServicesRequest struct {
	ServiceIDs []string `json:"serviceIds"`
}

// SetStaffServices replaces the services a practitioner can perform.
// PUT /api/admin/staff/{id}/services
func (h *DirectoryHandler) SetStaffServices(w http.ResponseWriter, r *http.Request) {
	var req staffServicesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, api.MsgInvalidData)
		return
	}
	if err := h.gateway.SetStaffServices(r.Context(), chi.URLParam(r, "id"), req.ServiceIDs); err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// ListServices returns the full catalog.
// GET /api/admin/services
func (h *DirectoryHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.gateway.ListServices(r.Context())
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, services)
}

// CreateService adds a service.
// POST /api/admin/services
func (h *DirectoryHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	var svc api.ServiceItem
	if err := decodeJSON(r, &svc); err != nil || svc.Name == "" || svc.DurationMin <= 0 {
		writeError(w, http.StatusBadRequest, api.MsgInvalidData)
		return
	}
	created, err := h.gateway.CreateService(r.Context(), svc)
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateService edits a service.
// PUT /api/admin/services/{id}
func (h *DirectoryHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	var svc api.ServiceItem
	if err := decodeJSON(r, &svc); err != nil {
		writeError(w, http.StatusBadRequest, api.MsgInvalidData)
		return
	}
	svc.ID = chi.URLParam(r, "id")
	updated, err := h.gateway.UpdateService(r.Context(), svc)
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteService removes a service.
// DELETE /api/admin/services/{id}
func (h *DirectoryHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	if err := h.gateway.DeleteService(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// ListClients searches the client file.
// GET /api/admin/clients?search=
func (h *DirectoryHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.gateway.ListClients(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clients)
}

// GetClient returns one client record.
// GET /api/admin/clients/{id}
func (h *DirectoryHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	rec, err := h.gateway.GetClientRecord(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// CreateClient adds a client record.
// POST /api/admin/clients
func (h *DirectoryHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var rec api.ClientRecord
	if err := decodeJSON(r, &rec); err != nil || rec.FirstName == "" || rec.LastName == "" {
		writeError(w, http.StatusBadRequest, api.MsgInvalidData)
		return
	}
	created, err := h.gateway.CreateClientRecord(r.Context(), rec)
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateClient edits a client record.
// PUT /api/admin/clients/{id}
func (h *DirectoryHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	var rec api.ClientRecord
	if err := decodeJSON(r, &rec); err != nil {
		writeError(w, http.StatusBadRequest, api.MsgInvalidData)
		return
	}
	rec.ID = chi.URLParam(r, "id")
	updated, err := h.gateway.UpdateClientRecord(r.Context(), rec)
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// RegisterAdmin mounts the directory routes.
func (h *DirectoryHandler) RegisterAdmin(r chi.Router) {
	r.Route("/staff", func(r chi.Router) {
		r.Get("/", h.ListStaff)
		r.Post("/", h.CreateStaff)
		r.Route("/{id}", func(r chi.Router) {
			r.Put("/", h.UpdateStaff)
			r.Get("/availability", h.StaffAvailability)
			r.Post("/availability", h.CreateAvailabilityRule)
			r.Get("/timeoff", h.StaffTimeOff)
			r.Post("/timeoff", h.CreateTimeOff)
			r.Get("/services", h.StaffServices)
			r.Put("/services", h.SetStaffServices)
		})
	})
	r.Delete("/availability/{ruleID}", h.DeleteAvailabilityRule)
	r.Delete("/timeoff/{blockID}", h.DeleteTimeOff)

	r.Route("/services", func(r chi.Router) {
		r.Get("/", h.ListServices)
		r.Post("/", h.CreateService)
		r.Put("/{id}", h.UpdateService)
		r.Delete("/{id}", h.DeleteService)
	})

	r.Route("/clients", func(r chi.Router) {
		r.Get("/", h.ListClients)
		r.Post("/", h.CreateClient)
		r.Get("/{id}", h.GetClient)
		r.Put("/{id}", h.UpdateClient)
	})
}
