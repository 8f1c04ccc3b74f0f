package helpers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient initializes a redis client
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// RedisHSetJSON stores value as JSON under field of the hash at key and
// refreshes the key's ttl when ttl is positive.
func RedisHSetJSON(ctx context.Context, rdb *redis.Client, key, field string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	pipe := rdb.TxPipeline()
	pipe.HSet(ctx, key, field, b)
	if ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// RedisHGetAllJSON decodes every field of the hash at key. Fields that do
// not decode are skipped.
func RedisHGetAllJSON[T any](ctx context.Context, rdb *redis.Client, key string) (map[string]T, error) {
	raw, err := rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string]T, len(raw))
	for field, v := range raw {
		var dest T
		if err := json.Unmarshal([]byte(v), &dest); err != nil {
			continue
		}
		out[field] = dest
	}
	return out, nil
}
