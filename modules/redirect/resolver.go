package redirect

import (
	"context"
	"log"
	"net/http"
	"path"
	"strings"

	"github.com/example/wp-media-redirect/modules/assets"
)

// UploadsMarker identifies legacy WordPress upload paths.
const UploadsMarker = "/wp-content/uploads/"

// Action says what the caller should do with a request.
type Action int

const (
	// ActionPassThrough leaves the request to the next handler.
	ActionPassThrough Action = iota
	// ActionRedirect sends the client to a known asset location.
	ActionRedirect
)

// String returns the wire name of the action.
func (a Action) String() string {
	if a == ActionRedirect {
		return "redirect"
	}
	return "pass_through"
}

// ParseAction maps a wire name back to an Action. Unknown names are a
// pass-through, the safe default.
func ParseAction(s string) Action {
	if s == "redirect" {
		return ActionRedirect
	}
	return ActionPassThrough
}

// Decision is the outcome of resolving one request path. Every branch of
// request handling switches on Action; there are no nil sentinels.
type Decision struct {
	Action   Action
	Location string
	Status   int
}

// PassThrough returns the decision to leave the request alone.
func PassThrough() Decision {
	return Decision{Action: ActionPassThrough}
}

// Redirect returns the decision to send the client to location permanently.
func Redirect(location string) Decision {
	return Decision{
		Action:   ActionRedirect,
		Location: location,
		Status:   http.StatusMovedPermanently,
	}
}

// Finder finds assets matching a search term, best match first.
type Finder interface {
	SearchAssets(ctx context.Context, term string, limit int) ([]assets.AssetMatch, error)
}

// Resolver maps legacy upload paths to current asset locations.
type Resolver struct {
	finder Finder
}

// NewResolver creates a Resolver over the given asset finder.
func NewResolver(finder Finder) *Resolver {
	return &Resolver{finder: finder}
}

// Resolve decides what to do with a request path. It never fails and never
// writes: any lookup problem degrades to a pass-through, so the handler
// chain answers as if this layer did not exist.
func (r *Resolver) Resolve(ctx context.Context, requestPath string) Decision {
	if !strings.Contains(requestPath, UploadsMarker) {
		return PassThrough()
	}

	// Directory URLs never name a file.
	if strings.HasSuffix(requestPath, "/") {
		return PassThrough()
	}

	key := SearchKey(path.Base(requestPath))
	if key == "" {
		return PassThrough()
	}

	matches, err := r.finder.SearchAssets(ctx, key, 1)
	if err != nil {
		log.Printf("[redirect] Asset lookup failed for %q: %v", key, err)
		return PassThrough()
	}
	if len(matches) == 0 {
		return PassThrough()
	}

	return Redirect(matches[0].PublicLocation)
}
