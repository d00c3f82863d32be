// Package catalog holds the process-wide product cache shared by the HTTP
// handlers, the MCP tools and the cart.
package catalog

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"axm-storefront/internal/model"
	"axm-storefront/internal/source"
)

// DefaultTTL is the freshness window of a resolved catalog.
const DefaultTTL = 5 * time.Minute

// Resolver produces a catalog. Implemented by *source.Resolver.
type Resolver interface {
	ResolveDetailed(ctx context.Context) source.Result
}

// Config contains configuration for the cache.
type Config struct {
	TTL    time.Duration
	Finder source.ProductFinder // optional remote single-product lookup
	Logger *slog.Logger
	Now    func() time.Time // defaults to time.Now
}

// Cache serves the resolved catalog for TTL before resolving again.
// Concurrent callers on a cold or stale cache share one resolution.
type Cache struct {
	resolver Resolver
	finder   source.ProductFinder
	ttl      time.Duration
	now      func() time.Time
	logger   *slog.Logger
	group    singleflight.Group

	mu        sync.RWMutex
	products  []model.Product
	fetchedAt time.Time
	startedAt time.Time // start of the resolution that produced products
	tier      string
	failures  int
	degraded  bool // holding a real catalog over a fallback resolution
}

// Info describes the cached catalog.
type Info struct {
	FetchedAt time.Time `json:"fetched_at"`
	Count     int       `json:"count"`
	Tier      string    `json:"tier"`
	Fresh     bool      `json:"fresh"`
	Failures  int       `json:"failed_tiers"`
	Degraded  bool      `json:"degraded,omitempty"`
}

// New creates a cache over resolver.
func New(resolver Resolver, cfg Config) *Cache {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Cache{
		resolver: resolver,
		finder:   cfg.Finder,
		ttl:      cfg.TTL,
		now:      cfg.Now,
		logger:   cfg.Logger,
	}
}

// Get returns the catalog, resolving it when the cache is cold or stale.
// The returned slice is shared and must not be modified.
func (c *Cache) Get(ctx context.Context) []model.Product {
	c.mu.RLock()
	if !c.fetchedAt.IsZero() && c.now().Sub(c.fetchedAt) < c.ttl {
		products := c.products
		c.mu.RUnlock()
		return products
	}
	c.mu.RUnlock()

	v, _, _ := c.group.Do("catalog", func() (any, error) {
		started := c.now()
		// Shared by every waiter, so one caller going away must not
		// cancel it for the rest.
		res := c.resolver.ResolveDetailed(context.WithoutCancel(ctx))
		return c.store(started, res), nil
	})
	return v.([]model.Product)
}

// store installs res unless it is empty while a catalog is already held,
// or was started before the resolution behind the current value. A
// fallback result does not displace a remote or primary catalog; that
// catalog is served for another TTL instead. It returns the catalog to
// serve.
func (c *Cache) store(started time.Time, res source.Result) []model.Product {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(res.Products) == 0 && len(c.products) > 0 {
		c.logger.Warn("catalog resolution empty, serving last known catalog",
			"cached", len(c.products), "age", c.now().Sub(c.fetchedAt).String())
		return c.products
	}
	if !c.startedAt.IsZero() && started.Before(c.startedAt) {
		c.logger.Debug("discarding out-of-date catalog resolution", "tier", res.Tier)
		return c.products
	}
	if res.Tier == source.TierFallback && len(c.products) > 0 && c.tier != source.TierFallback {
		c.logger.Warn("catalog downgraded to fallback, serving last known catalog",
			"tier", c.tier, "cached", len(c.products), "failed_tiers", len(res.Failures),
			"age", c.now().Sub(c.fetchedAt).String())
		c.fetchedAt = c.now()
		c.startedAt = started
		c.failures = len(res.Failures)
		c.degraded = true
		return c.products
	}

	c.products = res.Products
	c.fetchedAt = c.now()
	c.startedAt = started
	c.tier = res.Tier
	c.failures = len(res.Failures)
	c.degraded = false
	c.logger.Info("catalog resolved", "tier", res.Tier, "count", len(res.Products), "failed_tiers", len(res.Failures))
	return c.products
}

// Lookup finds a product by id, then by handle. On a miss it asks the
// remote finder, if any.
func (c *Cache) Lookup(ctx context.Context, key string) (*model.Product, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, model.NewValidationError("id", "product id is required")
	}

	products := c.Get(ctx)
	for i := range products {
		if string(products[i].ID) == key {
			p := products[i]
			return &p, nil
		}
	}
	for i := range products {
		if products[i].Handle != "" && strings.EqualFold(products[i].Handle, key) {
			p := products[i]
			return &p, nil
		}
	}

	if c.finder != nil {
		p, err := c.finder.FindProduct(ctx, key)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, model.ErrNotFound) && !errors.Is(err, model.ErrNotConfigured) {
			c.logger.Warn("remote product lookup failed", "key", key, "error", err)
		}
	}
	return nil, model.NewNotFoundError("product")
}

// Info reports the state of the cached catalog without resolving.
func (c *Cache) Info() Info {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Info{
		FetchedAt: c.fetchedAt,
		Count:     len(c.products),
		Tier:      c.tier,
		Fresh:     !c.fetchedAt.IsZero() && c.now().Sub(c.fetchedAt) < c.ttl,
		Failures:  c.failures,
		Degraded:  c.degraded,
	}
}
