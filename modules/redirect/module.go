package redirect

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"

	"github.com/example/wp-media-redirect/modules/assets"
	"github.com/example/wp-media-redirect/modules/cache"
)

// RedirectModule resolves legacy upload paths against the media library,
// optionally memoizing lookups in Redis.
type RedirectModule struct {
	assetsPort assets.AssetsPort
	resolver   *Resolver
	cache      cache.Service
	redisAddr  string
	cacheTTL   time.Duration
}

// Compile-time interface checks.
var _ mono.Module = (*RedirectModule)(nil)
var _ mono.ServiceProviderModule = (*RedirectModule)(nil)
var _ mono.DependentModule = (*RedirectModule)(nil)
var _ mono.HealthCheckableModule = (*RedirectModule)(nil)

// NewModule creates a new RedirectModule. Lookup caching is enabled when
// REDIS_ADDR is set.
func NewModule() *RedirectModule {
	cacheTTL := 5 * time.Minute
	if v := os.Getenv("REDIRECT_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cacheTTL = d
		} else {
			log.Printf("[redirect] Ignoring invalid REDIRECT_CACHE_TTL %q: %v", v, err)
		}
	}
	return &RedirectModule{
		redisAddr: os.Getenv("REDIS_ADDR"),
		cacheTTL:  cacheTTL,
	}
}

// Name returns the module name.
func (m *RedirectModule) Name() string {
	return "redirect"
}

// Dependencies returns the list of module dependencies.
func (m *RedirectModule) Dependencies() []string {
	return []string{"assets"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *RedirectModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "assets" {
		m.assetsPort = assets.NewAssetsAdapter(container)
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *RedirectModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "resolve", json.Unmarshal, json.Marshal, m.resolveLegacyPath,
	); err != nil {
		return fmt.Errorf("failed to register resolve service: %w", err)
	}

	log.Printf("[redirect] Registered services: services.redirect.resolve")
	return nil
}

// Start wires the resolver, placing the cache in front of the asset lookup
// when Redis is configured.
func (m *RedirectModule) Start(_ context.Context) error {
	if m.assetsPort == nil {
		return fmt.Errorf("assetsPort dependency not set")
	}

	var finder Finder = m.assetsPort
	if m.redisAddr != "" {
		m.cache = cache.New(cache.Config{
			RedisAddr: m.redisAddr,
			Prefix:    "redirect:",
			TTL:       m.cacheTTL,
		})
		finder = NewCachedFinder(finder, m.cache)
		log.Printf("[redirect] Lookup cache enabled (redis at %s, ttl %s)", m.redisAddr, m.cacheTTL)
	}

	m.resolver = NewResolver(finder)
	log.Println("[redirect] Module started (depends on: assets)")
	return nil
}

// Stop closes the cache connection if one was opened.
func (m *RedirectModule) Stop(_ context.Context) error {
	if m.cache != nil {
		if err := m.cache.Close(); err != nil {
			return fmt.Errorf("failed to close cache: %w", err)
		}
	}
	log.Println("[redirect] Module stopped")
	return nil
}

// Health reports resolver readiness and cache statistics.
func (m *RedirectModule) Health(ctx context.Context) mono.HealthStatus {
	if m.resolver == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "resolver not initialized",
		}
	}

	details := map[string]any{
		"cache_enabled": m.cache != nil,
	}
	if m.cache != nil {
		if err := m.cache.Ping(ctx); err != nil {
			details["cache_reachable"] = false
		} else {
			details["cache_reachable"] = true
		}
		stats := m.cache.Stats()
		details["cache_hits"] = stats.Hits
		details["cache_misses"] = stats.Misses
		details["cache_hit_rate"] = stats.HitRate
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: details,
	}
}
