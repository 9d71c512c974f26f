package api

import "github.com/example/wp-media-redirect/modules/assets"

// ErrorResponse is the JSON body of every error answer.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string         `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}

// SearchResponse is the body of GET /api/v1/assets/search.
type SearchResponse struct {
	Matches []assets.AssetMatch `json:"matches"`
	Total   int                 `json:"total"`
}
