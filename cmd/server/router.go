package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dailydone/checklist-api/internal/api"
	apiMiddleware "github.com/dailydone/checklist-api/internal/api/middleware"
)

// setupRouter creates the application router with all routes and middleware.
func setupRouter(checklistHandler *api.ChecklistHandler, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.Trace)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		r.Post("/checklists/generate", checklistHandler.GenerateChecklist)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
