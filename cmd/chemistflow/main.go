package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"chemistflow/internal/config"
	"chemistflow/internal/di"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code per spec.md §6: 0 on clean
// shutdown, non-zero on config-load failure, port-bind failure, or a
// distributed-tier connection failure at startup.
func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Printf("failed to load configuration: %v", err)
		return 1
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Printf("failed to initialize logger: %v", err)
		return 1
	}
	defer logger.Sync()

	container, err := di.Build(cfg, logger)
	if err != nil {
		logger.Error("failed to build dependency container", zap.Error(err))
		return 1
	}

	if cfg.Cluster.SeedNodes != nil {
		pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
		// Distributed-tier reachability is verified through the same
		// readiness path GET /readyz exercises, so a misconfigured cluster
		// fails bootstrap instead of serving traffic that can never
		// populate the shared tier.
		err := container.Ping(pingCtx)
		pingCancel()
		if err != nil {
			logger.Error("distributed cache tier unreachable at startup", zap.Error(err))
			return 1
		}
	}

	srv := &http.Server{
		Addr:         cfg.HTTP.Address(),
		Handler:      container.Router.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("address", cfg.HTTP.Address()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
			return
		}
		serveErr <- nil
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		logger.Error("server failed to start", zap.Error(err))
		return 1
	case <-sigChan:
		logger.Info("shutdown signal received")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	if err := container.Close(shutdownCtx); err != nil {
		logger.Error("dependency teardown error", zap.Error(err))
	}

	logger.Info("server stopped")
	return 0
}
