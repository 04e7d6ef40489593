// Package voicecache caches the MiniMax voice catalogue, which is slow to
// fetch and changes rarely. A Redis backend is used when configured so several
// instances share one catalogue; otherwise an in-process cache is used.
package voicecache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"botworkshop/internal/providers/minimax"
)

const (
	redisKey   = "workshop:voices"
	defaultTTL = time.Hour
)

// Cache stores and retrieves the voice catalogue.
type Cache interface {
	Get(ctx context.Context) ([]minimax.Voice, bool)
	Set(ctx context.Context, voices []minimax.Voice)
}

// New returns a Redis-backed cache when redisURL is set, falling back to an
// in-process cache otherwise. An unparseable URL also falls back.
func New(redisURL string, ttl time.Duration) Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if redisURL != "" {
		if opts, err := redis.ParseURL(redisURL); err == nil {
			return &redisCache{client: redis.NewClient(opts), ttl: ttl}
		}
	}
	return &memoryCache{ttl: ttl}
}

type memoryCache struct {
	mu      sync.RWMutex
	voices  []minimax.Voice
	expires time.Time
	ttl     time.Duration
}

func (c *memoryCache) Get(ctx context.Context) ([]minimax.Voice, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.voices == nil || time.Now().After(c.expires) {
		return nil, false
	}
	return c.voices, true
}

func (c *memoryCache) Set(ctx context.Context, voices []minimax.Voice) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.voices = voices
	c.expires = time.Now().Add(c.ttl)
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func (c *redisCache) Get(ctx context.Context) ([]minimax.Voice, bool) {
	raw, err := c.client.Get(ctx, redisKey).Bytes()
	if err != nil {
		return nil, false
	}
	var voices []minimax.Voice
	if err := json.Unmarshal(raw, &voices); err != nil {
		return nil, false
	}
	return voices, true
}

func (c *redisCache) Set(ctx context.Context, voices []minimax.Voice) {
	raw, err := json.Marshal(voices)
	if err != nil {
		return
	}
	// Cache writes are best effort; a miss just refetches upstream.
	_ = c.client.Set(ctx, redisKey, raw, c.ttl).Err()
}
