package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hearthd/hearth-core/internal/capability"
	"github.com/hearthd/hearth-core/internal/device"
	"github.com/hearthd/hearth-core/internal/hub"
	"github.com/hearthd/hearth-core/internal/rule"
	"github.com/hearthd/hearth-core/internal/scene"
)

// Error represents a structured error response.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Common error codes.
const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeNotFound     = "not_found"
	ErrCodeUnauthorized = "unauthorised"
	ErrCodeConflict     = "conflict"
	ErrCodeInternal     = "internal_error"
	ErrCodeValidation   = "validation_error"
	ErrCodeCommand      = "command_failure"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

// writeBadRequest writes a 400 error response.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// writeNotFound writes a 404 error response.
func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

// writeUnauthorized writes a 401 error response.
func writeUnauthorized(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

// writeInternalError writes a 500 error response.
func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// writeDomainError maps sentinel errors from the core packages onto
// HTTP status codes: not-found to 404, name conflicts to 409,
// validation failures to 400, command delivery failures to 502.
// Anything unrecognised is a 500.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, device.ErrDeviceNotFound),
		errors.Is(err, scene.ErrSceneNotFound),
		errors.Is(err, rule.ErrRuleNotFound),
		errors.Is(err, rule.ErrExecutionNotFound):
		writeError(w, http.StatusNotFound, ErrCodeNotFound, err.Error())

	case errors.Is(err, scene.ErrSceneExists),
		errors.Is(err, rule.ErrRuleExists):
		writeError(w, http.StatusConflict, ErrCodeConflict, err.Error())

	case errors.Is(err, scene.ErrInvalidScene),
		errors.Is(err, scene.ErrInvalidSetting),
		errors.Is(err, scene.ErrNoSettings),
		errors.Is(err, rule.ErrInvalidRule),
		errors.Is(err, rule.ErrInvalidTrigger),
		errors.Is(err, rule.ErrInvalidCondition),
		errors.Is(err, rule.ErrInvalidAction),
		errors.Is(err, rule.ErrNoActions),
		errors.Is(err, device.ErrInvalidSnapshot),
		errors.Is(err, capability.ErrUnknownCapability),
		errors.Is(err, capability.ErrUnknownAttribute),
		errors.Is(err, capability.ErrUnknownCommand),
		errors.Is(err, capability.ErrInvalidValue):
		writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())

	case errors.Is(err, hub.ErrCommandFailed):
		writeError(w, http.StatusBadGateway, ErrCodeCommand, err.Error())

	case errors.Is(err, rule.ErrEngineStopped):
		writeError(w, http.StatusServiceUnavailable, ErrCodeInternal, err.Error())

	default:
		writeInternalError(w, err.Error())
	}
}
