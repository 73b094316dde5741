package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"occupancy-server/dao"
	"occupancy-server/dao/redis"
	"occupancy-server/db"
	"occupancy-server/engine"
	"occupancy-server/models"
	"occupancy-server/models/occupancy"
)

// fakeCounterAPI answers per organization unit; missing units fail.
type fakeCounterAPI struct {
	counters map[int][]models.GateCounter
	calls    int
}

func (f *fakeCounterAPI) GetGateCounters(_ context.Context, organizationUnitID int) ([]models.GateCounter, error) {
	f.calls++
	c, ok := f.counters[organizationUnitID]
	if !ok {
		return nil, errors.New("unit unavailable")
	}
	return c, nil
}

var testFacilities = []models.Facility{
	{ID: "south", Label: "Südbad", OrganizationUnitID: 30187},
	{ID: "north", Label: "Nordbad", OrganizationUnitID: 30184},
	{ID: "dante", Label: "Dantebad", OrganizationUnitID: 129},
}

func TestCollector_CollectAll(t *testing.T) {
	client := db.NewMockRedisClient(context.Background())
	readingDao := redis.NewRedisReadingDAO(client)
	api := &fakeCounterAPI{counters: map[int][]models.GateCounter{
		30187: {{OrganizationUnitID: 30187, PersonCount: 1, MaxPersonCount: 3}},
		30184: {},
	}}
	collector := NewOccupancyCollectorService(readingDao, nil, api, testFacilities, nil)
	at := time.Date(2024, time.March, 4, 14, 0, 0, 500, time.UTC)
	collector.SetClock(func() time.Time { return at })

	stored := collector.CollectAll(context.Background())

	assert.Equal(t, 1, stored)
	assert.Equal(t, 3, api.calls, "a failing facility does not stop the others")
	readings, err := readingDao.GetReadings(context.Background(), "south")
	require.NoError(t, err)
	require.Len(t, readings, 1)
	assert.Equal(t, 33.3, readings[0].Occupancy)
	assert.True(t, readings[0].Timestamp.Equal(at.Truncate(time.Second)))
	north, err := readingDao.GetReadings(context.Background(), "north")
	require.NoError(t, err)
	assert.Empty(t, north)
}

func TestCollector_InvalidatesCachedBundles(t *testing.T) {
	client := db.NewMockRedisClient(context.Background())
	readingDao := redis.NewRedisReadingDAO(client)
	cache := redis.NewRedisBundleCache(client)
	api := &fakeCounterAPI{counters: map[int][]models.GateCounter{
		30187: {{OrganizationUnitID: 30187, PersonCount: 50, MaxPersonCount: 100}},
	}}
	require.NoError(t, cache.SetBundle("south", "2024-03-12", engine.NoData(engine.ChartInfo{Name: engine.ChartLine}, time.Now()), time.Hour))
	collector := NewOccupancyCollectorService(readingDao, cache, api, testFacilities[:1], nil)

	reading, err := collector.CollectFacility(context.Background(), testFacilities[0], time.Now())

	require.NoError(t, err)
	assert.Equal(t, 50.0, reading.Occupancy)
	_, err = cache.GetBundle("south", engine.ChartLine, "2024-03-12")
	assert.ErrorIs(t, err, dao.ErrCacheMiss)
}

func TestCollector_StoreFailure(t *testing.T) {
	api := &fakeCounterAPI{counters: map[int][]models.GateCounter{
		30187: {{OrganizationUnitID: 30187, PersonCount: 50, MaxPersonCount: 100}},
	}}
	collector := NewOccupancyCollectorService(failingReadingDAO{}, nil, api, testFacilities[:1], nil)

	_, err := collector.CollectFacility(context.Background(), testFacilities[0], time.Now())

	assert.ErrorContains(t, err, "failed to store reading for south")
	assert.Equal(t, 0, collector.CollectAll(context.Background()))
}

func TestCollector_ImportReadings(t *testing.T) {
	readingDao := redis.NewRedisReadingDAO(db.NewMockRedisClient(context.Background()))
	collector := NewOccupancyCollectorService(readingDao, nil, &fakeCounterAPI{}, testFacilities, nil)
	base := time.Date(2024, time.March, 4, 10, 0, 0, 0, time.UTC)

	err := collector.ImportReadings(context.Background(), map[string][]occupancy.Reading{
		"south": {{Timestamp: base, Occupancy: 1}, {Timestamp: base.Add(time.Hour), Occupancy: 2}},
	})

	require.NoError(t, err)
	readings, err := readingDao.GetReadings(context.Background(), "south")
	require.NoError(t, err)
	assert.Len(t, readings, 2)
}

func TestCollector_PeriodicJobRunsImmediately(t *testing.T) {
	readingDao := redis.NewRedisReadingDAO(db.NewMockRedisClient(context.Background()))
	api := &fakeCounterAPI{counters: map[int][]models.GateCounter{
		30187: {{OrganizationUnitID: 30187, PersonCount: 10, MaxPersonCount: 100}},
	}}
	collector := NewOccupancyCollectorService(readingDao, nil, api, testFacilities[:1], nil)

	require.NoError(t, collector.StartPeriodicJob(time.Hour))
	defer collector.Stop()

	assert.Eventually(t, func() bool {
		readings, err := readingDao.GetReadings(context.Background(), "south")
		return err == nil && len(readings) == 1
	}, 2*time.Second, 10*time.Millisecond)
}
