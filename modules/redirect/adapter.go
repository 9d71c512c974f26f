package redirect

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
)

// RedirectPort defines the interface for talking to the redirect module.
type RedirectPort interface {
	// ResolvePath maps a request path to a redirect decision.
	ResolvePath(ctx context.Context, requestPath string) (Decision, error)
}

// redirectAdapter implements RedirectPort over the service container.
type redirectAdapter struct {
	container mono.ServiceContainer
}

// NewRedirectAdapter creates a new adapter for the redirect service.
func NewRedirectAdapter(container mono.ServiceContainer) RedirectPort {
	return &redirectAdapter{
		container: container,
	}
}

// ResolvePath queries the redirect.resolve service.
func (a *redirectAdapter) ResolvePath(ctx context.Context, requestPath string) (Decision, error) {
	client, err := a.container.GetRequestReplyService("resolve")
	if err != nil {
		return PassThrough(), fmt.Errorf("failed to get resolve service: %w", err)
	}

	reqData, err := json.Marshal(&ResolveRequest{Path: requestPath})
	if err != nil {
		return PassThrough(), fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Call(ctx, reqData)
	if err != nil {
		return PassThrough(), fmt.Errorf("resolve service call failed: %w", err)
	}

	var errResp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(resp.Data, &errResp); err == nil && errResp.Error != "" {
		return PassThrough(), fmt.Errorf("resolve service error: %s", errResp.Error)
	}

	var response ResolveResponse
	if err := json.Unmarshal(resp.Data, &response); err != nil {
		return PassThrough(), fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return response.ToDecision(), nil
}
