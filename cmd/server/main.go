// Command server runs the checklist generation API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dailydone/checklist-api/internal/api"
	"github.com/dailydone/checklist-api/internal/config"
	"github.com/dailydone/checklist-api/internal/platform/gemini"
	"github.com/dailydone/checklist-api/internal/platform/logger"
	"github.com/dailydone/checklist-api/internal/quota"
	"github.com/dailydone/checklist-api/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Missing required configuration (the Gemini API key in particular) is
	// fatal at startup, not a per-request error.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.Setup(cfg.Server)
	log.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"model", cfg.LLM.ModelName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	generator, err := gemini.NewGenerator(ctx, log, cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to initialize generator: %w", err)
	}

	tracker := quota.NewTracker(log, cfg.Quota.MaxAttemptsPerTask, cfg.Quota.MaxTasksPerUser)

	checklistService, err := service.NewChecklistService(log, tracker, generator, quota.SystemClock())
	if err != nil {
		return fmt.Errorf("failed to initialize checklist service: %w", err)
	}

	handler := api.NewChecklistHandler(checklistService, log)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           setupRouter(handler, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	log.Info("server stopped")
	return nil
}
