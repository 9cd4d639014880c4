package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crucial707/userposts/internal/config"
	"github.com/crucial707/userposts/internal/db"
	"github.com/crucial707/userposts/internal/logging"
)

func main() {

	// Load configuration
	cfg := config.Load()
	logging.Setup(cfg.LogFormat, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, cfg)
	stop()
	if err != nil {
		slog.Error("api stopped", "error", err)
		os.Exit(1)
	}
}

// run owns the database handle for the lifetime of the server, so it is
// closed on every return path.
func run(ctx context.Context, cfg config.Config) error {

	// Connect to database FIRST
	provider, err := openDatabase(cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer provider.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	err = provider.Ping(pingCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("reach database: %w", err)
	}
	slog.Info("successfully connected to the database")

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(provider, cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server LAST
	return serve(ctx, srv, srv.ListenAndServe)
}

// serve runs listen in the background until it fails or ctx is done, then
// shuts srv down gracefully.
func serve(ctx context.Context, srv *http.Server, listen func() error) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", srv.Addr)
		if err := listen(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}

// openDatabase picks the environment-only connection path when DB_URL is set
// or DB_STRICT_ENV is on, and the local default otherwise.
func openDatabase(cfg config.Config) (*db.Provider, error) {
	if cfg.UseEnvConnection() {
		return db.OpenFromEnv()
	}
	return db.OpenDefault()
}
