package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/api"
	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/availability"
	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/config"
	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/http/handlers"
	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/http/router"
	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/live"
	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/observability/metrics"
	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/planning"
	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/session"
	"github.com/AdrienBoutique/LeRegardDeManon-sub001/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting institute web client",
		"env", cfg.Env,
		"port", cfg.Port,
		"api_base_url", cfg.APIBaseURL,
	)

	redisOpts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logger.Error("redis unreachable", "addr", cfg.RedisAddr, "error", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	gatewayMetrics := metrics.NewGatewayMetrics(registry)
	conflictMetrics := metrics.NewConflictMetrics(registry)

	sessions := session.NewStore(rdb, cfg.SessionTTL, logger)
	gateway := api.NewClient(cfg.APIBaseURL, logger,
		api.WithHTTPClient(&http.Client{Timeout: cfg.APITimeout}),
		api.WithTokenSource(sessions),
		api.WithMetrics(gatewayMetrics),
	)
	snapshot := availability.NewSnapshotCache(rdb, cfg.SnapshotTTL, logger)
	hub := live.NewHub(logger)

	window, err := planning.NewWindow(cfg.PlanningDayStart, cfg.PlanningDayEnd)
	if err != nil {
		logger.Error("invalid planning window", "error", err)
		os.Exit(1)
	}
	layout := planning.Layout{
		SlotMinutes:  cfg.SlotMinutes,
		SlotHeightPx: cfg.SlotHeightPx,
		MinHeightPx:  cfg.MinBandHeightPx,
	}

	r := router.New(&router.Config{
		Logger:             logger,
		Sessions:           sessions,
		SessionHandler:     handlers.NewSessionHandler(gateway, sessions, logger),
		BookingHandler:     handlers.NewBookingHandler(gateway, snapshot, conflictMetrics, hub, logger),
		PlanningHandler:    handlers.NewPlanningHandler(gateway, snapshot, window, layout, hub, logger),
		PagesHandler:       handlers.NewPagesHandler(gateway, logger),
		DirectoryHandler:   handlers.NewDirectoryHandler(gateway, logger),
		Hub:                hub,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	if err := rdb.Close(); err != nil {
		logger.Warn("redis close failed", "error", err)
	}
	logger.Info("server stopped")
}
