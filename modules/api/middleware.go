package api

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/wp-media-redirect/modules/redirect"
)

// Headers sent with every legacy redirect. The target can change whenever
// the library is re-imported, so clients must never cache the answer.
const (
	legacyCacheControl = "no-store, no-cache, must-revalidate"
	legacyExpires      = "Thu, 01 Jan 1970 00:00:00 GMT"
)

// LegacyUploadsMiddleware answers requests for legacy WordPress upload paths
// with a permanent redirect to the asset's current location. Anything that
// cannot be mapped, including resolution failures, falls through to the next
// handler untouched.
func LegacyUploadsMiddleware(resolver redirect.RedirectPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestPath := c.Path()
		if !strings.Contains(requestPath, redirect.UploadsMarker) {
			return c.Next()
		}

		decision, err := resolver.ResolvePath(c.UserContext(), requestPath)
		if err != nil {
			log.Printf("[api] Legacy path resolution failed for %s: %v", requestPath, err)
			return c.Next()
		}
		if decision.Action != redirect.ActionRedirect {
			return c.Next()
		}

		status := decision.Status
		if status == 0 {
			status = fiber.StatusMovedPermanently
		}

		c.Set(fiber.HeaderCacheControl, legacyCacheControl)
		c.Set(fiber.HeaderExpires, legacyExpires)
		return c.Redirect(decision.Location, status)
	}
}
