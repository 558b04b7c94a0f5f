package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hearthd/hearth-core/internal/scene"
)

// createSceneRequest is the request body for POST /scenes.
type createSceneRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Settings    []scene.Setting `json:"settings"`
}

// handleListScenes returns scene summaries in creation order.
//
// GET /api/v1/scenes
func (s *Server) handleListScenes(w http.ResponseWriter, r *http.Request) {
	summaries := s.scenes.List(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"scenes": summaries,
		"count":  len(summaries),
	})
}

// handleCreateScene validates and persists a new scene.
// Every referenced device and attribute must exist and every value must
// fit its capability domain, or the whole scene is rejected.
//
// POST /api/v1/scenes
func (s *Server) handleCreateScene(w http.ResponseWriter, r *http.Request) {
	var req createSceneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	sc := &scene.Scene{
		Name:        req.Name,
		Description: req.Description,
		Settings:    req.Settings,
	}
	if err := s.scenes.Create(r.Context(), sc); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, sc)
}

// handleGetScene returns one scene's full definition.
//
// GET /api/v1/scenes/{name}
func (s *Server) handleGetScene(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	sc, err := s.scenes.Get(r.Context(), name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

// handleDeleteScene removes a scene.
//
// DELETE /api/v1/scenes/{name}
func (s *Server) handleDeleteScene(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := s.scenes.Delete(r.Context(), name); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": name})
}

// handleApplyScene issues every setting's command and reports
// per-setting outcomes. A failed setting never aborts the rest.
//
// POST /api/v1/scenes/{name}/apply
func (s *Server) handleApplyScene(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	result, err := s.scenes.Apply(r.Context(), name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleCheckScene reports whether the scene is currently in effect,
// judged against the registry's last observed values.
//
// GET /api/v1/scenes/{name}/check
func (s *Server) handleCheckScene(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	result, err := s.scenes.Check(r.Context(), name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
