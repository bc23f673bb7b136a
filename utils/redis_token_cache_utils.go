package utils

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

// AccessTokenSetKey is the redis set holding every currently valid
// access token. Membership is the whole authentication check.
const AccessTokenSetKey = "access_tokens"

// Every cache command runs under its own deadline so a stuck redis node
// turns into ErrCacheUnavailable instead of a hung request.
const cacheCallTimeout = 5 * time.Second

// RedisTokenCache answers "is this token currently valid" with a set
// membership test. It holds no per-request state, the inner client
// pools connections and is safe for concurrent use.
type RedisTokenCache struct {
	inner *redis.Client
}

func GetRedisTokenCache() (*RedisTokenCache, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT")),
		Password: os.Getenv("REDIS_PASSWD"),
		DB:       0, // use default DB
	})
	_, err := redisClient.Ping(context.Background()).Result()
	if err != nil {
		return nil, errors.Wrapf(ErrCacheUnavailable, "ping: %v", err)
	}
	return &RedisTokenCache{inner: redisClient}, nil
}

// Contains reports whether token is a member of the valid token set. A
// negative answer is not an error; only an unreachable or failing redis
// is.
func (c *RedisTokenCache) Contains(ctx context.Context, token string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, cacheCallTimeout)
	defer cancel()

	present, err := c.inner.SIsMember(ctx, AccessTokenSetKey, token).Result()
	if err != nil {
		return false, errors.Wrapf(ErrCacheUnavailable, "sismember: %v", err)
	}
	return present, nil
}

// Add registers tokens as valid. Only the seeder uses this; the write
// pipeline itself never mutates the token set.
func (c *RedisTokenCache) Add(ctx context.Context, tokens ...string) error {
	ctx, cancel := context.WithTimeout(ctx, cacheCallTimeout)
	defer cancel()

	members := make([]interface{}, 0, len(tokens))
	for _, t := range tokens {
		members = append(members, t)
	}
	if err := c.inner.SAdd(ctx, AccessTokenSetKey, members...).Err(); err != nil {
		return errors.Wrapf(ErrCacheUnavailable, "sadd: %v", err)
	}
	return nil
}

func (c *RedisTokenCache) Close() error {
	return c.inner.Close()
}
