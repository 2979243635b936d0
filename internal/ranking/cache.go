package ranking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/redis"
)

// HomepageCache stores the viewer-independent homepage order.
type HomepageCache interface {
	Load(ctx context.Context) ([]Ranked, bool, error)
	Store(ctx context.Context, entries []Ranked, ttl time.Duration) error
}

type keyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CacheKey(parts ...string) string
}

type cachedEntry struct {
	ID     uuid.UUID `json:"id"`
	Score  float64   `json:"score"`
	Manual bool      `json:"manual,omitempty"`
}

type redisHomepageCache struct {
	store keyValueStore
	key   string
}

// NewRedisHomepageCache keeps the homepage order under rp:cache:ranking:homepage.
func NewRedisHomepageCache(store keyValueStore) (HomepageCache, error) {
	if store == nil {
		return nil, fmt.Errorf("cache store required")
	}
	return &redisHomepageCache{store: store, key: store.CacheKey("ranking", "homepage")}, nil
}

func (c *redisHomepageCache) Load(ctx context.Context) ([]Ranked, bool, error) {
	raw, err := c.store.Get(ctx, c.key)
	if err != nil {
		if redis.IsNil(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read homepage cache: %w", err)
	}
	var cached []cachedEntry
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		// corrupt entries are treated as a miss and overwritten on refresh
		return nil, false, nil
	}
	entries := make([]Ranked, 0, len(cached))
	for _, entry := range cached {
		entries = append(entries, Ranked(entry))
	}
	return entries, true, nil
}

func (c *redisHomepageCache) Store(ctx context.Context, entries []Ranked, ttl time.Duration) error {
	cached := make([]cachedEntry, 0, len(entries))
	for _, entry := range entries {
		cached = append(cached, cachedEntry(entry))
	}
	payload, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("encode homepage cache: %w", err)
	}
	if err := c.store.Set(ctx, c.key, string(payload), ttl); err != nil {
		return fmt.Errorf("write homepage cache: %w", err)
	}
	return nil
}
