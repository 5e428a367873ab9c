package httpapi

import (
	"context"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/railhop/railhop/pkg/redisclient"
	"github.com/rs/zerolog/log"
)

// ResponseCache holds rendered search responses for a short TTL keyed
// by the canonicalized query string. The timetable is immutable for the
// process lifetime so staleness is bounded by redeploys, not data
// changes. When Redis is unreachable the server logs once and serves
// uncached; the cache never blocks startup or a request.
type ResponseCache struct {
	cache *cache.Cache[string]
}

// SetupResponseCache connects the cache against the configured Redis
// address, or returns an inert cache when no address is configured or
// the connection fails.
func SetupResponseCache(address string) *ResponseCache {
	if address == "" {
		return &ResponseCache{}
	}

	if err := redisclient.Connect(address); err != nil {
		log.Warn().Err(err).Str("address", address).Msg("Redis unreachable, serving uncached")
		return &ResponseCache{}
	}

	redisStore := redisstore.NewRedis(redisclient.Client, store.WithExpiration(15*time.Minute))

	log.Info().Str("address", address).Msg("Response cache connected")

	return &ResponseCache{cache: cache.New[string](redisStore)}
}

func (c *ResponseCache) Get(key string) (string, bool) {
	if c == nil || c.cache == nil {
		return "", false
	}

	value, err := c.cache.Get(context.Background(), key)
	if err != nil {
		return "", false
	}

	return value, true
}

func (c *ResponseCache) Set(key string, value string) {
	if c == nil || c.cache == nil {
		return
	}

	if err := c.cache.Set(context.Background(), key, value); err != nil {
		log.Debug().Err(err).Msg("Failed to store cached response")
	}
}
