package db

import (
	"errors"
	"time"
)

// ErrKeyNotFound is returned by Get for a missing or expired key.
var ErrKeyNotFound = errors.New("key not found")

// RedisClient defines the methods the DAOs need from Redis
type RedisClient interface {
	Set(key, value string, ttl time.Duration) error
	Get(key string) (string, error)
	ZAdd(key string, score float64, member string) error
	ZRangeByScore(key, min, max string) ([]string, error)
	ZRemRangeByScore(key, min, max string) error
	Ping() error
	Keys(pattern string) ([]string, error)
	Del(keys ...string) error
}
