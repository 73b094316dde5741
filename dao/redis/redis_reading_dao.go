package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"occupancy-server/db"
	"occupancy-server/models/occupancy"
)

// READINGS_KEY_FORMAT_V1 is the sorted set of a facility's readings, scored by
// Unix time in milliseconds.
const READINGS_KEY_FORMAT_V1 = "occupancy_readings_v1:%s"

// RedisReadingDAO handles reading operations using Redis.
type RedisReadingDAO struct {
	client db.RedisClient
}

// NewRedisReadingDAO initializes a RedisReadingDAO with the Redis client.
func NewRedisReadingDAO(client db.RedisClient) *RedisReadingDAO {
	return &RedisReadingDAO{client: client}
}

// AppendReadings adds readings to the facility's sorted set. A reading
// replaces any stored reading with the same timestamp.
func (dao *RedisReadingDAO) AppendReadings(_ context.Context, facilityID string, readings ...occupancy.Reading) error {
	key := fmt.Sprintf(READINGS_KEY_FORMAT_V1, facilityID)
	for _, r := range readings {
		member, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to marshal reading for %s: %w", facilityID, err)
		}
		score := strconv.FormatInt(r.Timestamp.UnixMilli(), 10)
		if err := dao.client.ZRemRangeByScore(key, score, score); err != nil {
			return fmt.Errorf("failed to replace reading in redis: %w", err)
		}
		if err := dao.client.ZAdd(key, float64(r.Timestamp.UnixMilli()), string(member)); err != nil {
			return fmt.Errorf("failed to add reading to redis: %w", err)
		}
	}
	return nil
}

// GetReadings returns all readings of a facility, oldest first.
func (dao *RedisReadingDAO) GetReadings(_ context.Context, facilityID string) ([]occupancy.Reading, error) {
	key := fmt.Sprintf(READINGS_KEY_FORMAT_V1, facilityID)
	members, err := dao.client.ZRangeByScore(key, "-inf", "+inf")
	if err != nil {
		return nil, fmt.Errorf("[RedisReadingDAO] failed to get readings: %w", err)
	}

	readings := make([]occupancy.Reading, 0, len(members))
	for _, m := range members {
		var r occupancy.Reading
		if err := json.Unmarshal([]byte(m), &r); err != nil {
			log.Printf("[RedisReadingDAO] Skipping malformed reading in %s: %v", key, err)
			continue
		}
		readings = append(readings, r)
	}
	return readings, nil
}
