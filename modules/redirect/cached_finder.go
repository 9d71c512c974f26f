package redirect

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/singleflight"

	"github.com/example/wp-media-redirect/modules/assets"
	"github.com/example/wp-media-redirect/modules/cache"
)

// CachedFinder wraps a Finder with the cache-aside pattern so repeated
// lookups for the same search key skip the library. Concurrent misses for
// one key collapse into a single search via singleflight.
type CachedFinder struct {
	next    Finder
	cache   cache.Service
	sfGroup singleflight.Group // Prevents cache stampede
}

// NewCachedFinder creates a CachedFinder over next.
func NewCachedFinder(next Finder, c cache.Service) *CachedFinder {
	return &CachedFinder{
		next:  next,
		cache: c,
	}
}

// SearchAssets returns cached matches when available, consulting the
// underlying finder otherwise. Empty results are cached too: legacy URLs
// with no matching asset are requested just as often as ones with a match.
func (f *CachedFinder) SearchAssets(ctx context.Context, term string, limit int) ([]assets.AssetMatch, error) {
	key := fmt.Sprintf("%s:%d", term, limit)

	var cached []assets.AssetMatch
	found, err := f.cache.Get(ctx, key, &cached)
	if err != nil {
		log.Printf("[redirect] Cache error for %q: %v", term, err)
		// Continue to the finder on cache error
	}
	if found {
		return cached, nil
	}

	val, err, _ := f.sfGroup.Do(key, func() (any, error) {
		matches, err := f.next.SearchAssets(ctx, term, limit)
		if err != nil {
			return nil, err
		}
		if err := f.cache.Set(ctx, key, matches); err != nil {
			log.Printf("[redirect] Failed to cache matches for %q: %v", term, err)
		}
		return matches, nil
	})
	if err != nil {
		return nil, err
	}

	matches, _ := val.([]assets.AssetMatch)
	return matches, nil
}
