package assets

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-monolith/mono"
)

// AssetsPort defines the interface for talking to the assets module.
// Consumers should use this interface instead of referencing the module.
type AssetsPort interface {
	// SearchAssets returns assets ranked by relevance to term, best first.
	SearchAssets(ctx context.Context, term string, limit int) ([]AssetMatch, error)

	// LibraryStats returns library-wide counts.
	LibraryStats(ctx context.Context) (*StatsResponse, error)
}

// assetsAdapter implements AssetsPort over the service container.
type assetsAdapter struct {
	container mono.ServiceContainer
}

// NewAssetsAdapter creates a new adapter for the assets services.
func NewAssetsAdapter(container mono.ServiceContainer) AssetsPort {
	return &assetsAdapter{
		container: container,
	}
}

// SearchAssets queries the assets.search service.
func (a *assetsAdapter) SearchAssets(ctx context.Context, term string, limit int) ([]AssetMatch, error) {
	client, err := a.container.GetRequestReplyService("search")
	if err != nil {
		return nil, fmt.Errorf("failed to get search service: %w", err)
	}

	reqData, err := json.Marshal(&SearchRequest{Term: term, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Call(ctx, reqData)
	if err != nil {
		return nil, mapServiceError(err)
	}

	var errResp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(resp.Data, &errResp); err == nil && errResp.Error != "" {
		return nil, mapServiceError(fmt.Errorf("%s", errResp.Error))
	}

	var response SearchResponse
	if err := json.Unmarshal(resp.Data, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return response.Matches, nil
}

// LibraryStats queries the assets.stats service.
func (a *assetsAdapter) LibraryStats(ctx context.Context) (*StatsResponse, error) {
	client, err := a.container.GetRequestReplyService("stats")
	if err != nil {
		return nil, fmt.Errorf("failed to get stats service: %w", err)
	}

	resp, err := client.Call(ctx, []byte(`{}`))
	if err != nil {
		return nil, mapServiceError(err)
	}

	var errResp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(resp.Data, &errResp); err == nil && errResp.Error != "" {
		return nil, mapServiceError(fmt.Errorf("%s", errResp.Error))
	}

	var response StatsResponse
	if err := json.Unmarshal(resp.Data, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &response, nil
}

// mapServiceError converts transported errors back to sentinel errors by
// checking the message content. Error types do not survive the trip over
// NATS.
func mapServiceError(err error) error {
	if err == nil {
		return nil
	}

	errMsg := strings.ToLower(err.Error())

	if strings.Contains(errMsg, "asset not found") {
		return ErrAssetNotFound
	}
	if strings.Contains(errMsg, "collection not found") {
		return ErrCollectionNotFound
	}
	if strings.Contains(errMsg, "tag not found") {
		return ErrTagNotFound
	}

	return err
}
