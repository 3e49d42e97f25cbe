package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"
	"maree/internal/server"
	"maree/internal/shared"
	"maree/internal/tasks"
)

const shutdownTimeout = 10 * time.Second

// Serve starts the HTTP API for the invitation site.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config := r.reloadConfig(cmd)

	if config.Site.Passphrase == "" {
		return fmt.Errorf("%w: site passphrase must be set", shared.ErrInvalidConfig)
	}

	db, guests, responses, requests, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	engine := tasks.NewRSVPEngine(guests, responses, r.logger)
	store := server.NewSessionStore(config.Site.SessionTTL())

	router := server.NewBasicRouter()
	router.Use(server.Logging(r.logger), server.CORS())

	// Ungated routes: liveness probe and the passphrase gate itself.
	router.Handler(&server.HealthHandler{})
	router.Handler(server.NewSessionHandler(config.Site.Passphrase, store, r.logger))

	router.Use(server.RequireSession(store))
	router.Handler(server.NewRSVPHandler(engine, r.logger))

	if r.spotify != nil {
		// One request per second with a small burst keeps the debounced
		// search box responsive without burning upstream quota.
		router.Use(server.RateLimit(rate.NewLimiter(rate.Limit(1), 5)))
		router.Handler(server.NewMusicHandler(r.spotify, r.spotify, requests, r.logger))
	} else {
		r.logger.Warn("spotify credentials missing, music endpoints disabled")
	}

	httpServer := &http.Server{
		Addr:    config.Server.Addr(),
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Info("starting server", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		r.logger.Info("shutting down", "signal", sig)
	case <-ctx.Done():
		r.logger.Info("shutting down", "reason", ctx.Err())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	return nil
}
