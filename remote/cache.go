package remote

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bytedance/sonic"
)

// Reader is the slice of Client the cache fronts. Item fetches are not
// cached; they feed one-shot imports.
type Reader interface {
	FetchProjects(ctx context.Context) ([]Project, error)
	FetchWorkbenchSummary(ctx context.Context, userID string) (WorkbenchSummary, error)
}

// Cache wraps a collaborator client with Redis-backed read-through caching.
// The collaborators are slow and may fail; serving a recent copy keeps the
// board usable while they misbehave. Works without Redis (nil client) by
// passing every call through.
type Cache struct {
	base  Reader
	redis *redis.Client
	ttl   time.Duration
}

// NewCache creates a caching wrapper using the provided Redis client and TTL.
func NewCache(base Reader, client *redis.Client, ttl time.Duration) *Cache {
	if base == nil {
		panic("remote.NewCache: base reader is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Cache{base: base, redis: client, ttl: ttl}
}

func (c *Cache) FetchProjects(ctx context.Context) ([]Project, error) {
	var cached []Project
	if c.load(ctx, projectsCacheKey, &cached) {
		return cached, nil
	}

	projects, err := c.base.FetchProjects(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, projectsCacheKey, projects)
	return projects, nil
}

func (c *Cache) FetchWorkbenchSummary(ctx context.Context, userID string) (WorkbenchSummary, error) {
	var cached WorkbenchSummary
	if c.load(ctx, workbenchCacheKey(userID), &cached) {
		return cached, nil
	}

	summary, err := c.base.FetchWorkbenchSummary(ctx, userID)
	if err != nil {
		return WorkbenchSummary{}, err
	}
	c.store(ctx, workbenchCacheKey(userID), summary)
	return summary, nil
}

func (c *Cache) load(ctx context.Context, key string, out any) bool {
	if c.redis == nil {
		return false
	}
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			// On redis errors fall through to the collaborator without failing.
			_ = c.redis.Del(ctx, key).Err()
		}
		return false
	}
	if err := sonic.Unmarshal(data, out); err != nil {
		_ = c.redis.Del(ctx, key).Err()
		return false
	}
	return true
}

func (c *Cache) store(ctx context.Context, key string, v any) {
	if c.redis == nil || c.ttl == 0 {
		return
	}
	data, err := sonic.Marshal(v)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, key, data, c.ttl).Err()
}

const projectsCacheKey = "collab:projects"

func workbenchCacheKey(userID string) string {
	return "collab:workbench:" + userID
}
