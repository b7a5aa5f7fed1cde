package notification

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"finzo/models"

	"github.com/go-redis/redis/v8"
)

// ListCache holds the full notification log between mutations.
//
// Every Invalidate bumps a generation counter. A reader takes the generation
// before loading the log and passes it to Set, which stores nothing if an
// invalidation happened in between, so a slow read cannot re-cache a log that
// predates a committed write.
type ListCache interface {
	// Get returns the cached log and whether it was present.
	Get(ctx context.Context) ([]models.Notification, bool, error)
	Generation(ctx context.Context) (int64, error)
	// Set stores list only while the generation is still gen.
	Set(ctx context.Context, gen int64, list []models.Notification) error
	Invalidate(ctx context.Context) error
}

// NoopListCache never caches.
type NoopListCache struct{}

func (NoopListCache) Get(context.Context) ([]models.Notification, bool, error) { return nil, false, nil }
func (NoopListCache) Generation(context.Context) (int64, error)                  { return 0, nil }
func (NoopListCache) Set(context.Context, int64, []models.Notification) error    { return nil }
func (NoopListCache) Invalidate(context.Context) error                           { return nil }

// setIfGeneration writes KEYS[1] only when KEYS[2] still holds ARGV[1].
// ARGV[3] is the TTL in milliseconds; zero means no expiry.
var setIfGeneration = redis.NewScript(`
local current = redis.call('GET', KEYS[2]) or '0'
if current ~= ARGV[1] then
	return 0
end
local ttl = tonumber(ARGV[3])
if ttl > 0 then
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ttl)
else
	redis.call('SET', KEYS[1], ARGV[2])
end
return 1
`)

// RedisListCache stores the serialized log under a single key, with its
// generation counter kept beside it.
type RedisListCache struct {
	client *redis.Client
	key    string
	genKey string
	ttl    time.Duration
}

func NewRedisListCache(client *redis.Client, key string, ttl time.Duration) *RedisListCache {
	return &RedisListCache{client: client, key: key, genKey: key + ":gen", ttl: ttl}
}

func (c *RedisListCache) Get(ctx context.Context) ([]models.Notification, bool, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var list []models.Notification
	if err := json.Unmarshal(data, &list); err != nil {
		// A payload we cannot read is treated as a miss.
		return nil, false, err
	}
	return list, true, nil
}

func (c *RedisListCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, c.genKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *RedisListCache) Set(ctx context.Context, gen int64, list []models.Notification) error {
	if list == nil {
		list = []models.Notification{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return setIfGeneration.Run(ctx, c.client,
		[]string{c.key, c.genKey},
		gen, b, c.ttl.Milliseconds(),
	).Err()
}

// Invalidate bumps the generation before dropping the cached log.
func (c *RedisListCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, c.genKey)
		pipe.Del(ctx, c.key)
		return nil
	})
	return err
}
