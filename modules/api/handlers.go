package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// setupRoutes configures all HTTP routes.
func (m *APIModule) setupRoutes() {
	// Health check endpoint
	m.app.Get("/health", m.healthHandler)

	// API v1 routes
	api := m.app.Group("/api/v1")
	api.Get("/assets/search", m.searchAssets)

	// Media resources straight from the blob store
	m.app.Static("/media", m.blobPath)
}

// healthHandler handles GET /health.
func (m *APIModule) healthHandler(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status: "healthy",
		Details: map[string]any{
			"module": "api",
			"port":   m.port,
		},
	})
}

// searchAssets handles GET /api/v1/assets/search.
func (m *APIModule) searchAssets(c *fiber.Ctx) error {
	term := strings.TrimSpace(c.Query("q"))
	if term == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: "Query parameter q is required",
		})
	}

	limit := c.QueryInt("limit", defaultSearchLimit)
	if limit <= 0 || limit > maxSearchLimit {
		limit = defaultSearchLimit
	}

	matches, err := m.assetsAdapter.SearchAssets(c.UserContext(), term, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "search_failed",
			Message: "Failed to search assets",
		})
	}

	return c.JSON(SearchResponse{
		Matches: matches,
		Total:   len(matches),
	})
}
