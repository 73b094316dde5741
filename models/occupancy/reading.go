package occupancy

import (
	"math"
	"time"
)

// Reading is a single occupancy measurement for a facility.
type Reading struct {
	Timestamp time.Time `json:"timestamp"`
	Occupancy float64   `json:"occupancy"` // percent, 0..100
}

// FromCounter converts a gate counter into an occupancy percentage rounded to
// one decimal. A facility without a known capacity reports 0.
func FromCounter(personCount, maxPersonCount int) float64 {
	if maxPersonCount <= 0 {
		return 0
	}
	return math.Round(float64(personCount)/float64(maxPersonCount)*1000) / 10
}
