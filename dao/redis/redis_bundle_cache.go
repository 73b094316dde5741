package redis

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang/snappy"

	"occupancy-server/dao"
	"occupancy-server/db"
	"occupancy-server/engine"
)

// BUNDLE_KEY_FORMAT_V2 holds one snappy-compressed JSON bundle per facility,
// chart and reference day.
const BUNDLE_KEY_FORMAT_V2 = "chart_bundle_v2:%s:%s:%s"

// RedisBundleCache caches chart bundles in Redis.
type RedisBundleCache struct {
	client db.RedisClient
}

// NewRedisBundleCache initializes a RedisBundleCache with the Redis client.
func NewRedisBundleCache(client db.RedisClient) *RedisBundleCache {
	return &RedisBundleCache{client: client}
}

func (c *RedisBundleCache) GetBundle(facilityID, chart, day string) (engine.Bundle, error) {
	key := fmt.Sprintf(BUNDLE_KEY_FORMAT_V2, facilityID, chart, day)
	raw, err := c.client.Get(key)
	if errors.Is(err, db.ErrKeyNotFound) {
		return engine.Bundle{}, dao.ErrCacheMiss
	}
	if err != nil {
		return engine.Bundle{}, fmt.Errorf("failed to get bundle from redis: %w", err)
	}

	data, err := snappy.Decode(nil, []byte(raw))
	if err != nil {
		return engine.Bundle{}, fmt.Errorf("failed to decompress bundle %s: %w", key, err)
	}
	var b engine.Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return engine.Bundle{}, fmt.Errorf("failed to unmarshal bundle JSON: %w", err)
	}
	return b, nil
}

func (c *RedisBundleCache) SetBundle(facilityID, day string, bundle engine.Bundle, ttl time.Duration) error {
	key := fmt.Sprintf(BUNDLE_KEY_FORMAT_V2, facilityID, bundle.Chart, day)
	data, err := json.Marshal(bundle)
	if err != nil {
		return fmt.Errorf("failed to marshal bundle %s: %w", key, err)
	}
	if err := c.client.Set(key, string(snappy.Encode(nil, data)), ttl); err != nil {
		return fmt.Errorf("failed to set bundle in redis: %w", err)
	}
	return nil
}

// InvalidateFacility drops every cached bundle of a facility.
func (c *RedisBundleCache) InvalidateFacility(facilityID string) error {
	pattern := fmt.Sprintf(BUNDLE_KEY_FORMAT_V2, facilityID, "*", "*")
	keys, err := c.client.Keys(pattern)
	if err != nil {
		return fmt.Errorf("failed to list bundle keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(keys...); err != nil {
		return fmt.Errorf("failed to delete bundle keys %s: %w", strings.Join(keys, ","), err)
	}
	log.Printf("[RedisBundleCache] Invalidated %d bundles for %s", len(keys), facilityID)
	return nil
}
