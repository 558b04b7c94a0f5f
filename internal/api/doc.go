// Package api implements the HTTP dispatch surface of Hearth Core.
//
// This package provides:
//   - REST endpoints for rules, scenes, devices, capabilities, and executions
//   - JWT authentication for the conversational agent client
//   - Middleware stack (request ID, logging, recovery)
//   - Domain error to HTTP status mapping
//
// # Architecture
//
// The server sits between the conversational agent and the domain packages.
// Every endpoint is a thin adapter: decode the request, call the rule engine,
// scene store, or device registry, and map the result or its sentinel error
// to a JSON response. No domain logic lives here.
//
// # Security
//
// A single agent client authenticates with configured credentials and
// receives a short-lived HS256 bearer token. All routes except /health and
// /auth/login require the token.
//
// # Error Mapping
//
// Not-found sentinels become 404, name conflicts 409, validation failures
// 400, hub command delivery failures 502, and engine shutdown 503. The body
// is always {status, code, message}.
package api
