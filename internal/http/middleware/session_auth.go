package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/api"
	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/session"
	"github.com/AdrienBoutique/LeRegardDeManon-sub001/pkg/logging"
)

type contextKey string

const userKey contextKey = "leregard.user"

// SessionAuth guards back-office routes: a request passes only while a
// valid, unexpired session is cached. The authenticated user lands in the
// request context.
func SessionAuth(store *session.Store, logger *logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if store == nil {
				unauthorized(w)
				return
			}
			if _, err := store.Token(r.Context()); err != nil {
				if !errors.Is(err, session.ErrNoSession) && !errors.Is(err, session.ErrExpired) {
					logger.Warn("session lookup failed", "error", err)
				}
				unauthorized(w)
				return
			}
			user, err := store.User(r.Context())
			if err != nil {
				unauthorized(w)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, *user)))
		})
	}
}

// UserFrom extracts the authenticated user placed by SessionAuth.
func UserFrom(ctx context.Context) (api.User, bool) {
	u, ok := ctx.Value(userKey).(api.User)
	return u, ok
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "authentification requise"})
}
