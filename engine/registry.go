package engine

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"occupancy-server/models/occupancy"
)

var ErrUnknownChart = errors.New("unknown chart")

var registry = map[string]Chart{
	ChartLine:           lineChart{},
	ChartHeatmap:        heatmapChart{},
	ChartWeekdayCompare: weekdayCompareChart{},
	ChartHeatmapByDay:   heatmapByDayChart{},
	ChartBoxplot:        boxplotChart{},
	ChartAverageWeekday: averageWeekdayChart{},
}

// Lookup returns the chart registered under name.
func Lookup(name string) (Chart, error) {
	c, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("chart %q: %w", name, ErrUnknownChart)
	}
	return c, nil
}

// Charts lists every chart by ascending priority, then name.
func Charts() []ChartInfo {
	infos := make([]ChartInfo, 0, len(registry))
	for _, c := range registry {
		infos = append(infos, c.Info())
	}
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Priority != infos[j].Priority {
			return infos[i].Priority < infos[j].Priority
		}
		return infos[i].Name < infos[j].Name
	})
	return infos
}

// Build runs the named chart over readings. now anchors trailing windows and
// default selection. Empty input yields a no_data bundle, not an error.
func Build(name string, readings []occupancy.Reading, now time.Time) (Bundle, error) {
	chart, err := Lookup(name)
	if err != nil {
		return Bundle{}, err
	}
	frame := NewFrame(readings)
	if frame.Empty() {
		return NoData(chart.Info(), now), nil
	}
	return chart.Build(frame, now), nil
}
