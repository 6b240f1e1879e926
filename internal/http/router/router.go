// Package router assembles the chi router: public booking and content
// routes, the session-guarded back-office routes, and the operational
// endpoints.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/http/handlers"
	httpmiddleware "github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/http/middleware"
	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/live"
	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/session"
	"github.com/AdrienBoutique/LeRegardDeManon-sub001/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	Sessions           *session.Store
	SessionHandler     *handlers.SessionHandler
	BookingHandler     *handlers.BookingHandler
	PlanningHandler    *handlers.PlanningHandler
	PagesHandler       *handlers.PagesHandler
	DirectoryHandler   *handlers.DirectoryHandler
	Hub                *live.Hub
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Group(func(public chi.Router) {
		public.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}

		public.Route("/api", func(r chi.Router) {
			cfg.BookingHandler.Register(r)
			cfg.PagesHandler.Register(r)
			cfg.SessionHandler.Register(r)
		})
	})

	r.Route("/api/admin", func(admin chi.Router) {
		admin.Use(httpmiddleware.SessionAuth(cfg.Sessions, cfg.Logger))
		cfg.SessionHandler.RegisterAdmin(admin)
		cfg.PlanningHandler.RegisterAdmin(admin, cfg.BookingHandler)
		cfg.PagesHandler.RegisterAdmin(admin)
		cfg.DirectoryHandler.RegisterAdmin(admin)
		if cfg.Hub != nil {
			admin.Get("/ws", cfg.Hub.ServeHTTP)
		}
	})

	return r
}
