package engine

import (
	"time"

	"occupancy-server/models/occupancy"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// hourly returns one reading per hour for days consecutive days from start.
func hourly(start time.Time, days int, value float64) []occupancy.Reading {
	readings := make([]occupancy.Reading, 0, days*24)
	for i := 0; i < days*24; i++ {
		readings = append(readings, occupancy.Reading{
			Timestamp: start.Add(time.Duration(i) * time.Hour),
			Occupancy: value,
		})
	}
	return readings
}

func labels(series []Series) []string {
	out := make([]string, 0, len(series))
	for _, s := range series {
		out = append(out, s.Label)
	}
	return out
}
