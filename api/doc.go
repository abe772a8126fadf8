// Package api defines the request and response types of the AgentGraph
// HTTP API.
//
// # API Overview
//
// AgentGraph exposes a RESTful API for:
//   - Workflow definition management (create, list, get, delete)
//   - Workflow execution over a graph or the fixed agent pipeline
//   - Execution history retrieval
//   - Model roster listing and health monitoring
//
// # Base URL
//
// The default base URL for the API is:
//
//	http://localhost:8000/api
//
// Handlers live in the api/handlers subpackage; this package only holds
// the wire-level DTOs shared between handlers and clients.
package api
