// Package app wires configuration, logging, flavor generation, and the HTTP
// surface into a runnable server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"dungeon-delve/server/internal/config"
	"dungeon-delve/server/internal/flavor"
	servernet "dungeon-delve/server/internal/net"
	"dungeon-delve/server/logging"
	loggingSinks "dungeon-delve/server/logging/sinks"
)

// Options are the process-level knobs main parses from flags.
type Options struct {
	ConfigPath string
}

// Run starts the server and blocks until the listener fails or ctx is done.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	logger := log.Default()

	logCfg := logging.DefaultConfig()
	logCfg.EnabledSinks = cfg.LogSinks
	router := logging.NewRouter(logging.SystemClock{}, logCfg, []logging.NamedSink{
		{Name: "console", Sink: loggingSinks.NewConsole(os.Stdout)},
	})
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if cerr := router.Close(closeCtx); cerr != nil {
			logger.Printf("closing logging router: %v", cerr)
		}
	}()

	var source flavor.Source
	if cfg.GeminiAPIKey != "" {
		gemini, err := flavor.NewGemini(ctx, cfg.GeminiAPIKey)
		if err != nil {
			logger.Printf("gemini unavailable, using static flavor: %v", err)
		} else {
			defer gemini.Close()
			source = gemini
		}
	} else {
		logger.Printf("GEMINI_API_KEY not set, using static flavor")
	}

	hub := servernet.NewHub(servernet.HubConfig{
		Seed:      cfg.Seed,
		RoomCount: cfg.RoomCount,
		TickRate:  cfg.TickRate,
	}, router, source, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	servernet.NewHandler(hub).RegisterRoutes(r)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("listening on %s (seed=%s rooms=%d tick=%d)", cfg.Addr, cfg.Seed, cfg.RoomCount, cfg.TickRate)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		hub.Shutdown(shutdownCtx)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	}
}
