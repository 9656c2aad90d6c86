package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	adapterHTTP "github.com/comitanigiacomo/salah-sync-engine/internal/adapters/handler/http"
	"github.com/comitanigiacomo/salah-sync-engine/internal/adapters/storage"
	"github.com/comitanigiacomo/salah-sync-engine/internal/config"
	"github.com/comitanigiacomo/salah-sync-engine/internal/core/beadpath"
	"github.com/comitanigiacomo/salah-sync-engine/internal/core/services"
	"github.com/comitanigiacomo/salah-sync-engine/internal/logger"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal("invalid configuration", "err", err)
	}

	appLogger, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		File:   cfg.Log.File,
		Prefix: "salah",
	})
	if err != nil {
		log.Fatal("failed to create logger", "err", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	backend, err := storage.Open(ctx, cfg, appLogger)
	cancel()
	if err != nil {
		appLogger.Fatal("critical: failed to open storage", "backend", cfg.Storage.Backend, "err", err)
	}
	defer backend.Close()

	srv := newServer(cfg, backend, appLogger, time.Now())

	go func() {
		appLogger.Info("salah sync engine running", "addr", "http://localhost:"+cfg.Server.Port, "backend", cfg.Storage.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("critical server error", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("stop signal received, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("forced shutdown", "err", err)
	}

	appLogger.Info("server stopped gracefully")
}

// newServer wires the tracker, the bead path and the router on top of an
// opened storage backend.
func newServer(cfg *config.Config, backend *storage.Backend, appLogger *log.Logger, startTime time.Time) *http.Server {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tracker := services.NewTrackerService(backend.Store, appLogger.WithPrefix("tracker"), time.Now)
	tracker.Initialize(ctx)

	var tokens *services.TokenService
	if cfg.Auth.Secret != "" {
		tokens = services.NewTokenService(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	} else {
		appLogger.Warn("AUTH_SECRET not set, write endpoints are unauthenticated")
	}

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		TrackerHandler:  adapterHTTP.NewTrackerHandler(tracker, appLogger.WithPrefix("http")),
		BeadPathHandler: adapterHTTP.NewBeadPathHandler(beadpath.ForScreen(cfg.Screen.Width, cfg.Screen.Height), appLogger.WithPrefix("http")),
		TokenService:    tokens,
		Store:           backend.Store,
		Redis:           backend.Redis,
		Logger:          appLogger,
		RateLimit:       cfg.Server.RateLimit,
		RateWindow:      cfg.Server.RateWindow,
		StartTime:       startTime,
	})

	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}
