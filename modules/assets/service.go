package assets

import (
	"context"
	"fmt"

	"github.com/go-monolith/mono"
)

// searchAssets handles the assets.search service request.
func (m *AssetsModule) searchAssets(_ context.Context, req SearchRequest, _ *mono.Msg) (SearchResponse, error) {
	matches, err := m.library.Search(req.Term, req.Limit)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("search failed: %w", err)
	}

	return SearchResponse{
		Matches: matches,
		Total:   len(matches),
	}, nil
}

// libraryStats handles the assets.stats service request.
func (m *AssetsModule) libraryStats(_ context.Context, _ StatsRequest, _ *mono.Msg) (StatsResponse, error) {
	stats, err := m.library.Stats()
	if err != nil {
		return StatsResponse{}, err
	}
	return stats, nil
}
