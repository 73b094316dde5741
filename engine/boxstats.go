package engine

import (
	"math"
	"sort"
)

// HourBox is the five-number summary of the occupancy values seen in one hour.
type HourBox struct {
	Hour   int     `json:"hour"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
	Count  int     `json:"count"`
}

// BoxStats summarizes raw (hour, occupancy) points per hour, ordered by hour.
// Quartiles interpolate linearly between closest ranks.
func BoxStats(points []Point) []HourBox {
	byHour := make(map[int][]float64)
	for _, p := range points {
		if math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
			continue
		}
		h := int(p.X)
		byHour[h] = append(byHour[h], p.Y)
	}

	boxes := make([]HourBox, 0, len(byHour))
	for h, values := range byHour {
		sort.Float64s(values)
		boxes = append(boxes, HourBox{
			Hour:   h,
			Min:    values[0],
			Q1:     quantile(values, 0.25),
			Median: quantile(values, 0.5),
			Q3:     quantile(values, 0.75),
			Max:    values[len(values)-1],
			Count:  len(values),
		})
	}
	sort.Slice(boxes, func(i, j int) bool { return boxes[i].Hour < boxes[j].Hour })
	return boxes
}

// quantile expects sorted, non-empty values.
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}
