package artifact

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/Skufu/heartguard/internal/profile"
)

// KeyPrefix namespaces artifact keys in Redis.
const KeyPrefix = "heartguard:artifact:"

var errMiss = errors.New("cache miss")

// KV is the subset of Redis used by RedisStore.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Ping(ctx context.Context) error
}

// RedisKV adapts a go-redis client to KV.
type RedisKV struct {
	c *redis.Client
}

func NewRedisKV(c *redis.Client) *RedisKV { return &RedisKV{c: c} }

func (r *RedisKV) Get(ctx context.Context, key string) (string, error) {
	val, err := r.c.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", errMiss
		}
		return "", err
	}
	return val, nil
}

func (r *RedisKV) Ping(ctx context.Context) error {
	return r.c.Ping(ctx).Err()
}

// NewRedisClient builds a client from connection settings.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// RedisStore reads artifacts stored under heartguard:artifact:<variant>.
type RedisStore struct {
	kv KV
}

func NewRedisStore(kv KV) *RedisStore {
	return &RedisStore{kv: kv}
}

func (s *RedisStore) Fetch(ctx context.Context, variant profile.Variant) ([]byte, error) {
	key := KeyPrefix + string(variant)
	val, err := s.kv.Get(ctx, key)
	if errors.Is(err, errMiss) {
		return nil, fmt.Errorf("%w: redis key %s", ErrArtifactNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return []byte(val), nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.kv.Ping(ctx)
}
