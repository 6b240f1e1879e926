package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/api"
	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/http/middleware"
	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/session"
	"github.com/AdrienBoutique/LeRegardDeManon-sub001/pkg/logging"
)

// SessionHandler authenticates against the gateway and keeps the bearer
// token in the session store.
type SessionHandler struct {
	gateway  *api.Client
	sessions *session.Store
	logger   *logging.Logger
}

// NewSessionHandler creates a session handler.
func NewSessionHandler(gateway *api.Client, sessions *session.Store, logger *logging.Logger) *SessionHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &SessionHandler{
		gateway:  gateway,
		sessions: sessions,
		logger:   logger.Component("session"),
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a bearer token and stores the session.
// POST /api/session/login
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, api.MsgInvalidData)
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, api.MsgInvalidData)
		return
	}

	resp, err := h.gateway.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Warn("login rejected", "email", req.Email, "error", err)
		writeGatewayError(w, err)
		return
	}
	if err := h.sessions.Save(r.Context(), resp.Token, resp.User); err != nil {
		h.logger.Error("session save failed", "error", err)
		writeError(w, http.StatusInternalServerError, api.MsgServerError)
		return
	}

	h.logger.Info("session opened", "user_id", resp.User.ID, "role", resp.User.Role)
	writeJSON(w, http.StatusOK, resp.User)
}

// Logout clears the stored session.
// POST /api/session/logout
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(r.Context()); err != nil {
		h.logger.Error("session clear failed", "error", err)
		writeError(w, http.StatusInternalServerError, api.MsgServerError)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// Me returns the authenticated account.
// GET /api/session/me
func (h *SessionHandler) Me(w http.ResponseWriter, r *http.Request) {
	if user, ok := middleware.UserFrom(r.Context()); ok {
		writeJSON(w, http.StatusOK, user)
		return
	}

	user, err := h.sessions.User(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, api.MsgPermissionDenied)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type changePasswordRequest struct {
	Current string `json:"current"`
	Next    string `json:"next"`
}

// ChangePassword forwards a password change for the authenticated account.
// POST /api/session/password
func (h *SessionHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil || req.Current == "" || req.Next == "" {
		writeError(w, http.StatusBadRequest, api.MsgInvalidData)
		return
	}
	if err := h.gateway.ChangePassword(r.Context(), req.Current, req.Next); err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// RegisterPush forwards a web-push subscription to the gateway.
// POST /api/admin/push/register
func (h *SessionHandler) RegisterPush(w http.ResponseWriter, r *http.Request) {
	var sub api.PushSubscription
	if err := decodeJSON(r, &sub); err != nil || sub.Endpoint == "" {
		writeError(w, http.StatusBadRequest, api.MsgInvalidData)
		return
	}
	if err := h.gateway.RegisterPush(r.Context(), sub); err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// TestPush asks the gateway to fire a test notification.
// POST /api/admin/push/test
func (h *SessionHandler) TestPush(w http.ResponseWriter, r *http.Request) {
	if err := h.gateway.TestPush(r.Context()); err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// Register mounts the public session routes.
func (h *SessionHandler) Register(r chi.Router) {
	r.Post("/session/login", h.Login)
}

// RegisterAdmin mounts the authenticated session routes.
func (h *SessionHandler) RegisterAdmin(r chi.Router) {
	r.Post("/session/logout", h.Logout)
	r.Get("/session/me", h.Me)
	r.Post("/session/password", h.ChangePassword)
	r.Post("/push/register", h.RegisterPush)
	r.Post("/push/test", h.TestPush)
}
