package engine

import "time"

const (
	ChartLine           = "line"
	ChartHeatmap        = "heatmap"
	ChartWeekdayCompare = "weekday_compare"
	ChartHeatmapByDay   = "heatmap_by_hour_and_day"
	ChartBoxplot        = "boxplot"
	ChartAverageWeekday = "avg_weekday"
)

// Family names, used by clients to pick a family in a bundle.
const (
	FamilyWeek    = "week"
	FamilyWeekday = "weekday"
	FamilyWindow  = "window"
)

// weekdayCompareDates is how many of the latest dates each weekday keeps.
const weekdayCompareDates = 6

// RecentWeekLabels name the options of the line chart's week family, newest
// first.
var RecentWeekLabels = []string{"Current week", "Last week", "2 weeks ago", "3 weeks ago"}

var AverageWeekdayWindows = []Window{
	{Days: 30, Label: "Last 1 month"},
	{Days: 90, Label: "Last 3 months"},
	{Days: 180, Label: "Last 6 months"},
	{Days: 0, Label: "All"},
}

var BoxplotWindows = []Window{
	{Days: 30, Label: "Last 30 days"},
	{Days: 60, Label: "Last 60 days"},
	{Days: 0, Label: "All"},
}

// Chart builds a bundle from a non-empty frame.
type Chart interface {
	Info() ChartInfo
	Build(frame *Frame, now time.Time) Bundle
}

// lineChart plots one line per day for the four most recent ISO weeks.
type lineChart struct{}

func (lineChart) Info() ChartInfo {
	return ChartInfo{Name: ChartLine, Title: "Line Chart", Priority: 1}
}

func (c lineChart) Build(frame *Frame, now time.Time) Bundle {
	b := newViewBuilder(frame)
	week := b.recentWeeks(FamilyWeek, RecentWeekLabels)
	return Assemble(c.Info(), b.series, []Family{week}, now)
}

// heatmapChart is mean occupancy by date and hour, one series per date.
type heatmapChart struct{}

func (heatmapChart) Info() ChartInfo {
	return ChartInfo{Name: ChartHeatmap, Title: "Heatmap", Priority: 2}
}

func (c heatmapChart) Build(frame *Frame, now time.Time) Bundle {
	series := seriesByLeadingKey(GroupMean(frame, FieldDate, FieldHour), func(key int) string {
		return DateFromKey(key).String()
	})
	return Assemble(c.Info(), series, nil, now)
}

// weekdayCompareChart overlays the latest dates of each weekday.
type weekdayCompareChart struct{}

func (weekdayCompareChart) Info() ChartInfo {
	return ChartInfo{Name: ChartWeekdayCompare, Title: "Weekday Comparison", Priority: 2}
}

func (c weekdayCompareChart) Build(frame *Frame, now time.Time) Bundle {
	b := newViewBuilder(frame)
	weekday := b.weekdayComparison(FamilyWeekday, weekdayCompareDates)
	return Assemble(c.Info(), b.series, []Family{weekday}, now)
}

// heatmapByDayChart is mean occupancy by weekday and hour, one series per
// weekday.
type heatmapByDayChart struct{}

func (heatmapByDayChart) Info() ChartInfo {
	return ChartInfo{Name: ChartHeatmapByDay, Title: "Heatmap per day", Priority: 2}
}

func (c heatmapByDayChart) Build(frame *Frame, now time.Time) Bundle {
	series := seriesByLeadingKey(GroupMean(frame, FieldWeekday, FieldHour), weekdayLabel)
	return Assemble(c.Info(), series, nil, now)
}

// boxplotChart holds the raw (hour, occupancy) points of each window, anchored
// at the newest reading rather than at now.
type boxplotChart struct{}

func (boxplotChart) Info() ChartInfo {
	return ChartInfo{Name: ChartBoxplot, Title: "Boxplot per Hour", Priority: 4}
}

func (c boxplotChart) Build(frame *Frame, now time.Time) Bundle {
	b := newViewBuilder(frame)
	window := b.trailingWindows(FamilyWindow, BoxplotWindows, frame.Latest(), func(w Window, rows []Row) []Series {
		s := Series{Label: w.Label, Points: make([]Point, 0, len(rows))}
		for _, r := range rows {
			s.Points = append(s.Points, Point{X: float64(r.Hour), Y: r.Occupancy})
		}
		return []Series{s}
	})
	return Assemble(c.Info(), b.series, []Family{window}, now)
}

// averageWeekdayChart is mean occupancy by weekday and hour over trailing
// windows ending at now.
type averageWeekdayChart struct{}

func (averageWeekdayChart) Info() ChartInfo {
	return ChartInfo{Name: ChartAverageWeekday, Title: "Average per Weekday", Priority: 5}
}

func (c averageWeekdayChart) Build(frame *Frame, now time.Time) Bundle {
	b := newViewBuilder(frame)
	window := b.trailingWindows(FamilyWindow, AverageWeekdayWindows, now, func(_ Window, rows []Row) []Series {
		return seriesByLeadingKey(GroupMeanRows(rows, FieldWeekday, FieldHour), weekdayLabel)
	})
	return Assemble(c.Info(), b.series, []Family{window}, now)
}

func weekdayLabel(key int) string {
	if key < 0 || key >= len(WeekdayLabels) {
		return "?"
	}
	return WeekdayLabels[key]
}
