package titlecache

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tiksanauto/cartitle/internal/config"
	"github.com/tiksanauto/cartitle/internal/database"
	"github.com/tiksanauto/cartitle/internal/metrics"
)

// StoreCache is a Cache over a Repository.
type StoreCache struct {
	repo         Repository
	queryTimeout time.Duration
	metrics      *metrics.Metrics

	mu      sync.Mutex
	ensured bool
}

func NewStoreCache(repo Repository, queryTimeout time.Duration, m *metrics.Metrics) *StoreCache {
	return &StoreCache{
		repo:         repo,
		queryTimeout: queryTimeout,
		metrics:      m,
	}
}

func (c *StoreCache) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.queryTimeout)
}

// ensureSchema runs EnsureSchema until it succeeds once.
func (c *StoreCache) ensureSchema(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ensured {
		return true
	}

	if err := c.repo.EnsureSchema(ctx); err != nil {
		slog.Default().Error("Failed to ensure translation cache table", "error", err)
		return false
	}
	c.ensured = true
	slog.Default().Debug("Translation cache table ensured")
	return true
}

func (c *StoreCache) Get(ctx context.Context, source string) (string, bool) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	if !c.ensureSchema(ctx) {
		c.metrics.CacheLookup("error")
		return "", false
	}

	entry, err := c.repo.FindBySource(ctx, source)
	if err != nil {
		slog.Default().Error("Cache lookup failed", "title", source, "error", err)
		c.metrics.CacheLookup("error")
		return "", false
	}
	if entry == nil || entry.TranslatedTitle == "" {
		c.metrics.CacheLookup("miss")
		return "", false
	}
	c.metrics.CacheLookup("hit")
	return entry.TranslatedTitle, true
}

func (c *StoreCache) Set(ctx context.Context, source, translated string) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	if !c.ensureSchema(ctx) {
		c.metrics.CacheWrite("error")
		return
	}

	if err := c.repo.Upsert(ctx, &Entry{SourceTitle: source, TranslatedTitle: translated}); err != nil {
		slog.Default().Error("Cache write failed", "title", source, "error", err)
		c.metrics.CacheWrite("error")
		return
	}
	c.metrics.CacheWrite("ok")
}

func (c *StoreCache) Close() error {
	return c.repo.Close()
}

// NopCache never hits and drops every write.
type NopCache struct{}

func (NopCache) Get(context.Context, string) (string, bool) { return "", false }
func (NopCache) Set(context.Context, string, string)        {}
func (NopCache) Close() error                               { return nil }

// Open builds the cache selected by the scheme of cfg.URL and makes a first
// attempt at the schema. An empty URL yields a NopCache.
func Open(ctx context.Context, cfg config.CacheConfig, m *metrics.Metrics) (Cache, error) {
	if cfg.URL == "" {
		slog.Default().Warn("No cache URL configured, translations will not be cached")
		return NopCache{}, nil
	}

	repo, err := openRepository(cfg)
	if err != nil {
		return nil, err
	}

	cache := NewStoreCache(repo, cfg.QueryTimeout, m)
	ensureCtx, cancel := cache.withTimeout(ctx)
	defer cancel()
	cache.ensureSchema(ensureCtx)
	return cache, nil
}

func openRepository(cfg config.CacheConfig) (Repository, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("url.Parse(cache url) > %w", err)
	}

	switch u.Scheme {
	case "redis", "rediss":
		options, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("redis.ParseURL > %w", err)
		}
		if cfg.MaxOpenConns > 0 {
			options.PoolSize = cfg.MaxOpenConns
		}
		if cfg.MaxIdleConns > 0 {
			options.MaxIdleConns = cfg.MaxIdleConns
		}
		return NewRedisRepository(redis.NewClient(options), cfg.KeyPrefix), nil
	default:
		if !database.IsSQL(cfg.URL) {
			return nil, fmt.Errorf("unsupported cache url scheme %q", u.Scheme)
		}
		db, err := database.Open(cfg)
		if err != nil {
			return nil, fmt.Errorf("database.Open > %w", err)
		}
		return NewDBRepository(db), nil
	}
}
