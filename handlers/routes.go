// ABOUTME: Declarative route table for API endpoints
// ABOUTME: Defines all routes with their HTTP methods and handlers

package handlers

import "net/http"

// Route defines an API endpoint with its HTTP method and handler.
type Route struct {
	Method  string           // HTTP method (GET, POST, etc.)
	Path    string           // URL path (e.g., "/api/health")
	Handler http.HandlerFunc // Handler function
}

// Routes returns all API routes for registration.
func (h *Handler) Routes() []Route {
	return []Route{
		// Health & Status
		{Method: http.MethodGet, Path: "/api/health", Handler: h.Health},

		// Planning
		{Method: http.MethodPost, Path: "/api/plan", Handler: h.HandlePlan},
		{Method: http.MethodPost, Path: "/api/plan/preview", Handler: h.HandlePlanPreview},

		// Scenario
		{Method: http.MethodPost, Path: "/api/scenario/compare", Handler: h.CompareScenario},

		// History
		{Method: http.MethodGet, Path: "/api/history", Handler: h.History},
	}
}
