package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hearthd/hearth-core/internal/rule"
)

// installRuleRequest is the request body for POST /rules.
type installRuleRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Trigger     rule.Trigger     `json:"trigger"`
	Conditions  []rule.Condition `json:"conditions,omitempty"`
	Actions     []rule.Action    `json:"actions"`
}

// executeActionsRequest is the request body for POST /actions/execute.
type executeActionsRequest struct {
	Actions []rule.Action `json:"actions"`
}

// handleListRules returns rule summaries in install order.
//
// GET /api/v1/rules
func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	summaries := s.engine.ListRules(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"rules": summaries,
		"count": len(summaries),
	})
}

// handleInstallRule validates and installs a new rule. The rule starts
// matching state changes as soon as this returns.
//
// POST /api/v1/rules
func (s *Server) handleInstallRule(w http.ResponseWriter, r *http.Request) {
	var req installRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	rl := &rule.Rule{
		Name:        req.Name,
		Description: req.Description,
		Trigger:     req.Trigger,
		Conditions:  req.Conditions,
		Actions:     req.Actions,
	}
	if err := s.engine.InstallRule(r.Context(), rl); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, rl)
}

// handleDescribeRule returns a rule's full definition, exactly as it
// would need to be re-submitted to recreate it.
//
// GET /api/v1/rules/{name}
func (s *Server) handleDescribeRule(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	rl, err := s.engine.DescribeRule(r.Context(), name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rl)
}

// handleUninstallRule removes a rule. The rule stops firing immediately;
// executions already in flight run to completion.
//
// DELETE /api/v1/rules/{name}
func (s *Server) handleUninstallRule(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := s.engine.UninstallRule(r.Context(), name); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"uninstalled": name})
}

// handleExecuteActions runs an ad hoc action sequence without
// installing anything. The response carries the execution ID; progress
// is polled via GET /executions/{id}.
//
// POST /api/v1/actions/execute
func (s *Server) handleExecuteActions(w http.ResponseWriter, r *http.Request) {
	var req executeActionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	id, err := s.engine.ExecuteActions(r.Context(), req.Actions)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"execution_id": id,
		"status":       rule.StatusRunning,
	})
}

// handleGetExecution returns the recorded progress of one execution.
// Records are held in memory only; restarting the service clears them.
//
// GET /api/v1/executions/{id}
func (s *Server) handleGetExecution(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	exec, err := s.engine.GetExecution(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exec)
}
