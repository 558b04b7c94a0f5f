package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		// Auth endpoints (no auth required)
		r.Post("/auth/login", s.handleLogin)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			// Device endpoints (read-only; writes go through actions and scenes)
			r.Route("/devices", func(r chi.Router) {
				r.Get("/", s.handleListDevices)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetDevice)
					r.Get("/attributes/{attribute}", s.handleGetDeviceAttribute)
				})
			})

			// Capability catalog
			r.Get("/capabilities", s.handleListCapabilities)
			r.Get("/capabilities/{name}", s.handleGetCapability)

			// Scene endpoints
			r.Route("/scenes", func(r chi.Router) {
				r.Get("/", s.handleListScenes)
				r.Post("/", s.handleCreateScene)
				r.Route("/{name}", func(r chi.Router) {
					r.Get("/", s.handleGetScene)
					r.Delete("/", s.handleDeleteScene)
					r.Post("/apply", s.handleApplyScene)
					r.Get("/check", s.handleCheckScene)
				})
			})

			// Rule endpoints
			r.Route("/rules", func(r chi.Router) {
				r.Get("/", s.handleListRules)
				r.Post("/", s.handleInstallRule)
				r.Route("/{name}", func(r chi.Router) {
					r.Get("/", s.handleDescribeRule)
					r.Delete("/", s.handleUninstallRule)
				})
			})

			// Ad hoc action execution
			r.Post("/actions/execute", s.handleExecuteActions)
			r.Get("/executions/{id}", s.handleGetExecution)
		})
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"devices": s.registry.Count(),
		"rules":   len(s.engine.ListRules(r.Context())),
		"scenes":  s.scenes.Count(),
	})
}
