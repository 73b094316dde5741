package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// OccupancyRedisClient is the go-redis backed RedisClient
type OccupancyRedisClient struct {
	client *redis.Client
	ctx    context.Context
}

// NewOccupancyRedisClient wraps a go-redis client
func NewOccupancyRedisClient(ctx context.Context, client *redis.Client) *OccupancyRedisClient {
	return &OccupancyRedisClient{
		client: client,
		ctx:    ctx,
	}
}

// Set stores a value; ttl 0 keeps it until deleted
func (r *OccupancyRedisClient) Set(key, value string, ttl time.Duration) error {
	return r.client.Set(r.ctx, key, value, ttl).Err()
}

// Get retrieves the value for a given key from Redis
func (r *OccupancyRedisClient) Get(key string) (string, error) {
	value, err := r.client.Get(r.ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("%s: %w", key, ErrKeyNotFound)
	}
	return value, err
}

// ZAdd adds member to the sorted set at key
func (r *OccupancyRedisClient) ZAdd(key string, score float64, member string) error {
	return r.client.ZAdd(r.ctx, key, &redis.Z{Score: score, Member: member}).Err()
}

// ZRangeByScore returns members with min <= score <= max, ascending. Bounds
// accept "-inf" and "+inf".
func (r *OccupancyRedisClient) ZRangeByScore(key, min, max string) ([]string, error) {
	return r.client.ZRangeByScore(r.ctx, key, &redis.ZRangeBy{Min: min, Max: max}).Result()
}

// ZRemRangeByScore removes members with min <= score <= max
func (r *OccupancyRedisClient) ZRemRangeByScore(key, min, max string) error {
	return r.client.ZRemRangeByScore(r.ctx, key, min, max).Err()
}

func (r *OccupancyRedisClient) Ping() error {
	return r.client.Ping(r.ctx).Err()
}

func (r *OccupancyRedisClient) Keys(pattern string) ([]string, error) {
	return r.client.Keys(r.ctx, pattern).Result()
}

func (r *OccupancyRedisClient) Del(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(r.ctx, keys...).Err()
}
