package ticos

import (
	"context"
	"log"
	"math"
	"os"
	"time"

	"occupancy-server/models"
	"occupancy-server/util"
)

const mockMaxPersonCount = 500

// CounterApiClientMock serves gate counters from a JSON fixture when one is
// configured, and otherwise synthesizes a daily occupancy curve.
type CounterApiClientMock struct {
	FixturePath string
	Now         func() time.Time
}

// NewCounterApiClientMock creates a new instance of CounterApiClientMock
func NewCounterApiClientMock(fixturePath string) *CounterApiClientMock {
	return &CounterApiClientMock{
		FixturePath: fixturePath,
		Now:         time.Now,
	}
}

func (c *CounterApiClientMock) GetGateCounters(ctx context.Context, organizationUnitID int) ([]models.GateCounter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if c.FixturePath != "" {
		if _, err := os.Stat(c.FixturePath); err == nil {
			counters, err := util.ReadGateCountersFromJSON(c.FixturePath)
			if err != nil {
				log.Printf("[CounterApiClientMock] Could not read gate counters from %s: %v", c.FixturePath, err)
				return nil, err
			}
			var matching []models.GateCounter
			for _, gc := range counters {
				if gc.OrganizationUnitID == organizationUnitID {
					matching = append(matching, gc)
				}
			}
			return matching, nil
		}
	}

	return []models.GateCounter{{
		OrganizationUnitID: organizationUnitID,
		PersonCount:        syntheticPersonCount(c.Now(), organizationUnitID),
		MaxPersonCount:     mockMaxPersonCount,
	}}, nil
}

// syntheticPersonCount is zero outside 07:00-22:00 and peaks mid afternoon.
// The unit ID shifts the level so facilities differ.
func syntheticPersonCount(t time.Time, organizationUnitID int) int {
	hour := float64(t.Hour()) + float64(t.Minute())/60.0
	if hour < 7 || hour >= 22 {
		return 0
	}
	level := 0.5 + float64(organizationUnitID%5)/10.0
	curve := math.Sin((hour - 7) / 15 * math.Pi)
	return int(math.Round(curve * level * mockMaxPersonCount))
}
