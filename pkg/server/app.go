package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	apphttp "AstroChart/pkg/http"
	"AstroChart/pkg/logger"
)

// App owns the HTTP server lifecycle and the shutdown hooks of its
// dependencies.
type App struct {
	server          *apphttp.Server
	log             *logger.Logger
	shutdownTimeout time.Duration
	closers         []func() error
}

// New creates an application. closers run in order during shutdown.
func New(server *apphttp.Server, log *logger.Logger, shutdownTimeout time.Duration, closers ...func() error) *App {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &App{
		server:          server,
		log:             log,
		shutdownTimeout: shutdownTimeout,
		closers:         closers,
	}
}

// Run starts the server and blocks until SIGINT or SIGTERM, then shuts
// everything down gracefully.
func (a *App) Run() error {
	if err := a.server.Start(); err != nil {
		return err
	}
	a.log.Info("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	a.log.Info("shutting down", logger.String("signal", sig.String()))

	return a.Stop()
}

// Stop shuts the server down and runs the registered closers.
func (a *App) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	var firstErr error
	if err := a.server.Stop(ctx); err != nil {
		a.log.Error("server shutdown failed", logger.Error(err))
		firstErr = err
	}

	for _, close := range a.closers {
		if err := close(); err != nil {
			a.log.Error("shutdown hook failed", logger.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	a.log.Info("shutdown complete")
	return firstErr
}
