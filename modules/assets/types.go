package assets

import "time"

// SearchRequest is the payload for the assets.search service.
type SearchRequest struct {
	Term  string `json:"term"`
	Limit int    `json:"limit,omitempty"`
}

// AssetMatch is one ranked search result.
type AssetMatch struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Caption        string    `json:"caption,omitempty"`
	ContentHash    string    `json:"content_hash"`
	PublicLocation string    `json:"public_location"`
	Score          float64   `json:"score"`
	Tags           []string  `json:"tags,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// SearchResponse lists matches for a search term, best first.
type SearchResponse struct {
	Matches []AssetMatch `json:"matches"`
	Total   int          `json:"total"`
}

// StatsRequest is the payload for the assets.stats service.
type StatsRequest struct{}

// StatsResponse reports library-wide counts.
type StatsResponse struct {
	Assets      int64 `json:"assets"`
	Tags        int64 `json:"tags"`
	Collections int64 `json:"collections"`
}
