package catalog

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"medisupply/mobile/internal/domain"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// PageCache holds recently fetched catalog pages keyed by filter. Entries
// expire; the HTTP client decides the TTL per filter kind.
type PageCache interface {
	Get(ctx context.Context, key string) (*domain.CatalogPage, bool)
	Set(ctx context.Context, key string, page *domain.CatalogPage, ttl time.Duration)
}

type memoryEntry struct {
	page      *domain.CatalogPage
	expiresAt time.Time
}

type memoryCache struct {
	mu sync.Mutex
	m  map[string]memoryEntry
}

// NewMemoryCache returns an in-process PageCache for cacheless deployments
// and tests.
func NewMemoryCache() PageCache {
	return &memoryCache{m: make(map[string]memoryEntry)}
}

func (c *memoryCache) Get(_ context.Context, key string) (*domain.CatalogPage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.m[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(c.m, key)
		return nil, false
	}
	return entry.page, true
}

func (c *memoryCache) Set(_ context.Context, key string, page *domain.CatalogPage, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = memoryEntry{page: page, expiresAt: time.Now().Add(ttl)}
}

type redisCache struct {
	redisClient *redis.Client
}

// NewRedisCache returns a Redis-backed PageCache. Cache failures are treated
// as misses, never as fetch errors.
func NewRedisCache(redisClient *redis.Client) PageCache {
	return &redisCache{redisClient: redisClient}
}

func (c *redisCache) Get(ctx context.Context, key string) (*domain.CatalogPage, bool) {
	val, err := c.redisClient.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			log.Warnf("Failed to read cached page %s: %v", key, err)
		}
		return nil, false
	}

	var page domain.CatalogPage
	if err := json.Unmarshal([]byte(val), &page); err != nil {
		log.Warnf("Failed to decode cached page %s: %v", key, err)
		return nil, false
	}
	return &page, true
}

func (c *redisCache) Set(ctx context.Context, key string, page *domain.CatalogPage, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	data, err := json.Marshal(page)
	if err != nil {
		log.Warnf("Failed to encode page for cache %s: %v", key, err)
		return
	}
	if err := c.redisClient.Set(ctx, key, data, ttl).Err(); err != nil {
		log.Warnf("Failed to cache page %s: %v", key, err)
	}
}
