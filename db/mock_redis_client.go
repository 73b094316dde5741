package db

import (
	"context"
	"fmt"
	"log"
	"math"
	"path"
	"sort"
	"strconv"
	"sync"
	"time"
)

// MockRedisClient simulates a Redis client for testing purposes.
type MockRedisClient struct {
	data    map[string]mockEntry     // Key-value store
	zsets   map[string][]mockZMember // Sorted sets, ordered by score then member
	mu      sync.RWMutex             // Mutex for thread-safe operations
	context context.Context
	// Now drives key expiry; tests may replace it.
	Now func() time.Time
}

type mockEntry struct {
	value     string
	expiresAt time.Time
}

type mockZMember struct {
	score  float64
	member string
}

// NewMockRedisClient initializes a new MockRedisClient.
func NewMockRedisClient(ctx context.Context) *MockRedisClient {
	return &MockRedisClient{
		data:    make(map[string]mockEntry),
		zsets:   make(map[string][]mockZMember),
		context: ctx,
		Now:     time.Now,
	}
}

// Set stores a key-value pair in the mock Redis.
func (m *MockRedisClient) Set(key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := mockEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = m.Now().Add(ttl)
	}
	m.data[key] = entry
	return nil
}

// Get retrieves a value for a given key from the mock Redis.
func (m *MockRedisClient) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, exists := m.data[key]
	if !exists || m.expired(entry) {
		return "", fmt.Errorf("%s: %w", key, ErrKeyNotFound)
	}
	return entry.value, nil
}

func (m *MockRedisClient) expired(e mockEntry) bool {
	return !e.expiresAt.IsZero() && !m.Now().Before(e.expiresAt)
}

// ZAdd adds or rescores member in the sorted set at key.
func (m *MockRedisClient) ZAdd(key string, score float64, member string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	set := m.zsets[key]
	for i, z := range set {
		if z.member == member {
			set = append(set[:i], set[i+1:]...)
			break
		}
	}
	set = append(set, mockZMember{score: score, member: member})
	sort.SliceStable(set, func(i, j int) bool {
		if set[i].score != set[j].score {
			return set[i].score < set[j].score
		}
		return set[i].member < set[j].member
	})
	m.zsets[key] = set
	return nil
}

// ZRangeByScore returns members with min <= score <= max.
func (m *MockRedisClient) ZRangeByScore(key, min, max string) ([]string, error) {
	lo, err := parseScoreBound(min)
	if err != nil {
		return nil, err
	}
	hi, err := parseScoreBound(max)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	var members []string
	for _, z := range m.zsets[key] {
		if z.score >= lo && z.score <= hi {
			members = append(members, z.member)
		}
	}
	return members, nil
}

func parseScoreBound(s string) (float64, error) {
	switch s {
	case "-inf":
		return math.Inf(-1), nil
	case "+inf", "inf":
		return math.Inf(1), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid score bound %q: %w", s, err)
	}
	return v, nil
}

// ZRemRangeByScore removes members with min <= score <= max.
func (m *MockRedisClient) ZRemRangeByScore(key, min, max string) error {
	lo, err := parseScoreBound(min)
	if err != nil {
		return err
	}
	hi, err := parseScoreBound(max)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.zsets[key][:0]
	for _, z := range m.zsets[key] {
		if z.score < lo || z.score > hi {
			kept = append(kept, z)
		}
	}
	if len(kept) == 0 {
		delete(m.zsets, key)
		return nil
	}
	m.zsets[key] = kept
	return nil
}

// Ping fails once the client's context is done, like a real connection.
func (m *MockRedisClient) Ping() error {
	if err := m.context.Err(); err != nil {
		return err
	}
	log.Println("[MockRedisClient] Ping successful")
	return nil
}

// Keys matches live keys of both kinds against a glob pattern.
func (m *MockRedisClient) Keys(pattern string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var keys []string
	for k, e := range m.data {
		if m.expired(e) {
			continue
		}
		if ok, _ := path.Match(pattern, k); ok {
			keys = append(keys, k)
		}
	}
	for k := range m.zsets {
		if ok, _ := path.Match(pattern, k); ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *MockRedisClient) Del(keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
		delete(m.zsets, k)
	}
	return nil
}
