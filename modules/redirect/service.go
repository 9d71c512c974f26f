package redirect

import (
	"context"

	"github.com/go-monolith/mono"
)

// resolveLegacyPath handles the redirect.resolve service request.
func (m *RedirectModule) resolveLegacyPath(ctx context.Context, req ResolveRequest, _ *mono.Msg) (ResolveResponse, error) {
	return toResponse(m.resolver.Resolve(ctx, req.Path)), nil
}
