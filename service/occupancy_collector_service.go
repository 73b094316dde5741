package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"occupancy-server/api/ticos"
	"occupancy-server/dao"
	"occupancy-server/metrics"
	"occupancy-server/models"
	"occupancy-server/models/occupancy"
)

const collectTimeout = 30 * time.Second

// OccupancyCollectorService periodically fetches gate counters and appends
// one reading per facility.
type OccupancyCollectorService struct {
	readingDao dao.ReadingDAO
	cache      dao.BundleCache
	counterAPI ticos.CounterAPI
	facilities []models.Facility
	metrics    *metrics.Metrics
	now        func() time.Time
	scheduler  *gocron.Scheduler
}

// NewOccupancyCollectorService constructs a collector. cache and m may be nil.
func NewOccupancyCollectorService(
	readingDao dao.ReadingDAO,
	cache dao.BundleCache,
	counterAPI ticos.CounterAPI,
	facilities []models.Facility,
	m *metrics.Metrics,
) *OccupancyCollectorService {
	return &OccupancyCollectorService{
		readingDao: readingDao,
		cache:      cache,
		counterAPI: counterAPI,
		facilities: facilities,
		metrics:    m,
		now:        time.Now,
	}
}

func (oc *OccupancyCollectorService) SetClock(now func() time.Time) {
	oc.now = now
}

// StartPeriodicJob runs CollectAll every interval on a gocron scheduler,
// starting immediately.
func (oc *OccupancyCollectorService) StartPeriodicJob(interval time.Duration) error {
	oc.scheduler = gocron.NewScheduler(time.UTC)
	_, err := oc.scheduler.Every(interval).Do(func() {
		log.Println("[OccupancyCollectorService] Running periodic occupancy collection.")
		ctx, cancel := context.WithTimeout(context.Background(), collectTimeout)
		defer cancel()
		stored := oc.CollectAll(ctx)
		log.Printf("[OccupancyCollectorService] Stored %d/%d readings.", stored, len(oc.facilities))
	})
	if err != nil {
		return fmt.Errorf("failed to schedule collector: %w", err)
	}
	oc.scheduler.StartAsync()
	return nil
}

func (oc *OccupancyCollectorService) Stop() {
	if oc.scheduler != nil {
		oc.scheduler.Stop()
	}
}

// CollectAll collects every facility and returns how many readings were
// stored. A failing facility is logged and does not stop the others.
func (oc *OccupancyCollectorService) CollectAll(ctx context.Context) int {
	timestamp := oc.now().UTC().Truncate(time.Second)
	stored := 0
	for _, f := range oc.facilities {
		if _, err := oc.CollectFacility(ctx, f, timestamp); err != nil {
			log.Printf("[OccupancyCollectorService] Error collecting %s: %v", f.Label, err)
			continue
		}
		stored++
	}
	return stored
}

// CollectFacility fetches the facility's counter and stores the occupancy at
// timestamp.
func (oc *OccupancyCollectorService) CollectFacility(ctx context.Context, f models.Facility, timestamp time.Time) (occupancy.Reading, error) {
	counters, err := oc.counterAPI.GetGateCounters(ctx, f.OrganizationUnitID)
	if err != nil {
		oc.metrics.CollectorFetch(f.ID, "error")
		return occupancy.Reading{}, err
	}
	if len(counters) == 0 {
		oc.metrics.CollectorFetch(f.ID, "empty")
		return occupancy.Reading{}, fmt.Errorf("no counter data received for %s", f.Label)
	}

	entry := counters[0]
	reading := occupancy.Reading{
		Timestamp: timestamp,
		Occupancy: occupancy.FromCounter(entry.PersonCount, entry.MaxPersonCount),
	}
	if err := oc.readingDao.AppendReadings(ctx, f.ID, reading); err != nil {
		oc.metrics.CollectorFetch(f.ID, "error")
		return occupancy.Reading{}, fmt.Errorf("failed to store reading for %s: %w", f.ID, err)
	}
	oc.metrics.CollectorFetch(f.ID, "ok")
	oc.metrics.SetOccupancy(f.ID, reading.Occupancy)
	oc.invalidate(f.ID)

	log.Printf("[OccupancyCollectorService] %s: %s -> %.1f%%", timestamp.Format(time.RFC3339), f.Label, reading.Occupancy)
	return reading, nil
}

// ImportReadings appends externally supplied readings, keyed by facility ID.
func (oc *OccupancyCollectorService) ImportReadings(ctx context.Context, readings map[string][]occupancy.Reading) error {
	for facilityID, rs := range readings {
		if err := oc.readingDao.AppendReadings(ctx, facilityID, rs...); err != nil {
			return fmt.Errorf("failed to import readings for %s: %w", facilityID, err)
		}
		oc.invalidate(facilityID)
		log.Printf("[OccupancyCollectorService] Imported %d readings for %s", len(rs), facilityID)
	}
	return nil
}

func (oc *OccupancyCollectorService) invalidate(facilityID string) {
	if oc.cache == nil {
		return
	}
	if err := oc.cache.InvalidateFacility(facilityID); err != nil {
		log.Printf("[OccupancyCollectorService] Failed to invalidate bundles for %s: %v", facilityID, err)
	}
}
