package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"occupancy-server/config"
	"occupancy-server/dao"
	"occupancy-server/engine"
	"occupancy-server/metrics"
	"occupancy-server/models"
	"occupancy-server/models/occupancy"
)

var ErrUnknownFacility = errors.New("unknown facility")

// CACHE_DAY_LAYOUT formats the local reference day that scopes cached bundles.
const CACHE_DAY_LAYOUT = "2006-01-02"

// ChartService builds chart bundles from stored readings, caching the result.
type ChartService struct {
	readingDao dao.ReadingDAO
	cache      dao.BundleCache
	metrics    *metrics.Metrics
	cacheTTL   time.Duration
	location   *time.Location
	now        func() time.Time
}

// NewChartService constructs a ChartService. cache and m may be nil.
func NewChartService(
	readingDao dao.ReadingDAO,
	cache dao.BundleCache,
	m *metrics.Metrics,
	cacheTTL time.Duration,
	location *time.Location) *ChartService {

	if location == nil {
		location = time.UTC
	}
	return &ChartService{
		readingDao: readingDao,
		cache:      cache,
		metrics:    m,
		cacheTTL:   cacheTTL,
		location:   location,
		now:        time.Now,
	}
}

// SetClock replaces the reference time used for trailing windows and default
// selection.
func (cs *ChartService) SetClock(now func() time.Time) {
	cs.now = now
}

func (cs *ChartService) ListFacilities() []models.Facility {
	return config.FACILITIES
}

func (cs *ChartService) ListCharts() []engine.ChartInfo {
	return engine.Charts()
}

// GetBundle returns the named chart for a facility, from cache when possible.
func (cs *ChartService) GetBundle(ctx context.Context, facilityID, chart string) (engine.Bundle, error) {
	if _, ok := config.FacilityByID(facilityID); !ok {
		return engine.Bundle{}, fmt.Errorf("%q: %w", facilityID, ErrUnknownFacility)
	}
	if _, err := engine.Lookup(chart); err != nil {
		return engine.Bundle{}, err
	}

	reference := cs.now().In(cs.location)
	day := reference.Format(CACHE_DAY_LAYOUT)

	if cs.cache != nil {
		cached, err := cs.cache.GetBundle(facilityID, chart, day)
		if err == nil {
			cs.metrics.CacheHit()
			return cached, nil
		}
		if !errors.Is(err, dao.ErrCacheMiss) {
			log.Printf("[ChartService] Cache lookup for %s/%s failed, rebuilding: %v", facilityID, chart, err)
		}
		cs.metrics.CacheMiss()
	}

	start := time.Now()
	readings, err := cs.readingDao.GetReadings(ctx, facilityID)
	if err != nil {
		return engine.Bundle{}, fmt.Errorf("failed to load readings for %s: %w", facilityID, err)
	}

	bundle, err := engine.Build(chart, cs.localize(readings), reference)
	if err != nil {
		return engine.Bundle{}, err
	}
	cs.metrics.BundleBuilt(chart, string(bundle.State), time.Since(start))
	log.Printf("[ChartService] Built %s for %s from %d readings (%s)", chart, facilityID, len(readings), bundle.State)

	if cs.cache != nil && cs.cacheTTL > 0 {
		if err := cs.cache.SetBundle(facilityID, day, bundle, cs.cacheTTL); err != nil {
			log.Printf("[ChartService] Failed to cache %s/%s: %v", facilityID, chart, err)
		}
	}
	return bundle, nil
}

// localize moves readings into the facilities' time zone so hours and dates
// are local.
func (cs *ChartService) localize(readings []occupancy.Reading) []occupancy.Reading {
	out := make([]occupancy.Reading, len(readings))
	for i, r := range readings {
		out[i] = occupancy.Reading{Timestamp: r.Timestamp.In(cs.location), Occupancy: r.Occupancy}
	}
	return out
}
