package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleListDevices returns all known devices, optionally filtered by room.
//
// GET /api/v1/devices?room=kitchen
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	room := r.URL.Query().Get("room")

	devices := s.registry.List()
	if room != "" {
		devices = s.registry.ListByRoom(room)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"devices": devices,
		"count":   len(devices),
	})
}

// handleGetDevice returns one device with its full attribute state.
//
// GET /api/v1/devices/{id}
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	dev, err := s.registry.Get(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dev)
}

// handleGetDeviceAttribute returns the current value of one attribute.
// An attribute the hub has never reported comes back with observed=false.
//
// GET /api/v1/devices/{id}/attributes/{attribute}
func (s *Server) handleGetDeviceAttribute(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	attribute := chi.URLParam(r, "attribute")

	value, observed, err := s.registry.Attribute(id, attribute)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"device_id": id,
		"attribute": attribute,
		"value":     value,
		"observed":  observed,
	})
}

// handleListCapabilities returns the capability catalog names.
//
// GET /api/v1/capabilities
func (s *Server) handleListCapabilities(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"capabilities": s.catalog.Names(),
	})
}

// handleGetCapability returns one capability's attributes and commands.
//
// GET /api/v1/capabilities/{name}
func (s *Server) handleGetCapability(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	spec, err := s.catalog.Get(name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, spec)
}
