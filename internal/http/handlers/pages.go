package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/api"
	"github.com/AdrienBoutique/LeRegardDeManon-sub001/pkg/logging"
)

// PagesHandler serves editable site content and the back-office landing
// stats.
type PagesHandler struct {
	gateway *api.Client
	logger  *logging.Logger
}

// NewPagesHandler creates a pages handler.
func NewPagesHandler(gateway *api.Client, logger *logging.Logger) *PagesHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &PagesHandler{gateway: gateway, logger: logger.Component("pages")}
}

// GetPublic returns the published content of one page.
// GET /api/pages/{slug}
func (h *PagesHandler) GetPublic(w http.ResponseWriter, r *http.Request) {
	page, err := h.gateway.GetPublicPage(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// GetAdmin returns the editable content of one page.
// GET /api/admin/pages/{slug}
func (h *PagesHandler) GetAdmin(w http.ResponseWriter, r *http.Request) {
	page, err := h.gateway.GetAdminPage(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Update saves the content blocks of one page.
// PUT /api/admin/pages/{slug}
func (h *PagesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var page api.PageContent
	if err := decodeJSON(r, &page); err != nil {
		writeError(w, http.StatusBadRequest, api.MsgInvalidData)
		return
	}
	page.Slug = chi.URLParam(r, "slug")
	saved, err := h.gateway.UpdatePage(r.Context(), page)
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	h.logger.Info("page updated", "slug", page.Slug, "blocks", len(page.Blocks))
	writeJSON(w, http.StatusOK, saved)
}

// Dashboard returns the landing page summary counters.
// GET /api/admin/dashboard
func (h *PagesHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.gateway.DashboardStats(r.Context())
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Register mounts the public content routes.
func (h *PagesHandler) Register(r chi.Router) {
	r.Get("/pages/{slug}", h.GetPublic)
}

// RegisterAdmin mounts the back-office content routes.
func (h *PagesHandler) RegisterAdmin(r chi.Router) {
	r.Get("/pages/{slug}", h.GetAdmin)
	r.Put("/pages/{slug}", h.Update)
	r.Get("/dashboard", h.Dashboard)
}
