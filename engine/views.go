package engine

import (
	"fmt"
	"time"
)

// FamilyKind selects the default-selection policy of a view family.
type FamilyKind string

const (
	KindTrailingWindow    FamilyKind = "trailing_window"
	KindWeekdayComparison FamilyKind = "weekday_comparison"
	KindRecentWeeks       FamilyKind = "recent_weeks"
)

// Span is the half-open range [Start, End) of an option's series in the
// bundle's flat series list.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (s Span) Len() int {
	return s.End - s.Start
}

func (s Span) Empty() bool {
	return s.End <= s.Start
}

// Option is one switchable member of a view family.
type Option struct {
	Label string `json:"label"`
	Title string `json:"title"`
	Span  Span   `json:"span"`
	// Key is the option's filter value: window days, weekday index or weeks back.
	Key  int    `json:"key"`
	Mask []bool `json:"mask,omitempty"`
}

// Family is a set of mutually exclusive options for one chart control.
type Family struct {
	Name        string     `json:"name"`
	Kind        FamilyKind `json:"kind"`
	Options     []Option   `json:"options"`
	Default     Selection  `json:"default"`
	Active      []bool     `json:"active,omitempty"`
	SeriesCount int        `json:"series_count"`
	NoData      bool       `json:"no_data,omitempty"`
}

// Window is a trailing time window. Days <= 0 means all time.
type Window struct {
	Days  int
	Label string
}

func (w Window) AllTime() bool {
	return w.Days <= 0
}

// viewBuilder appends series for every option of every family into one flat
// list. Spans are taken from a running cursor, so families must be built in
// the order they appear in the bundle.
type viewBuilder struct {
	frame  *Frame
	series []Series
}

func newViewBuilder(frame *Frame) *viewBuilder {
	return &viewBuilder{frame: frame}
}

func (b *viewBuilder) addOption(label string, key int, produced []Series) Option {
	start := len(b.series)
	b.series = append(b.series, produced...)
	return Option{Label: label, Key: key, Span: Span{Start: start, End: len(b.series)}}
}

// trailingWindows builds one option per window. A window without rows keeps
// its option with an empty span.
func (b *viewBuilder) trailingWindows(name string, windows []Window, anchor time.Time, build func(w Window, rows []Row) []Series) Family {
	fam := Family{Name: name, Kind: KindTrailingWindow}
	for _, w := range windows {
		rows := b.frame.rows
		if !w.AllTime() {
			rows = b.frame.since(anchor.Add(-time.Duration(w.Days) * 24 * time.Hour))
		}
		var produced []Series
		if len(rows) > 0 {
			produced = build(w, rows)
		}
		fam.Options = append(fam.Options, b.addOption(w.Label, w.Days, produced))
	}
	return fam
}

// weekdayComparison builds one option per weekday that has data, each holding
// one series for every one of the latest maxDates dates on that weekday.
func (b *viewBuilder) weekdayComparison(name string, maxDates int) Family {
	fam := Family{Name: name, Kind: KindWeekdayComparison}
	dates, byDate := indexDays(b.frame.rows)

	var perWeekday [7][]Date
	for _, d := range dates {
		wd := byDate[d][0].Weekday
		perWeekday[wd] = append(perWeekday[wd], d)
	}

	for wd, wdDates := range perWeekday {
		if len(wdDates) == 0 {
			continue
		}
		if len(wdDates) > maxDates {
			wdDates = wdDates[len(wdDates)-maxDates:]
		}
		produced := make([]Series, 0, len(wdDates))
		for _, d := range wdDates {
			produced = append(produced, daySeries(d, byDate[d]))
		}
		fam.Options = append(fam.Options, b.addOption(WeekdayLabels[wd], wd, produced))
	}
	return fam
}

// recentWeeks builds one option per ISO week, walking back from the newest
// week in the frame. Weeks without rows keep an option with an empty span.
func (b *viewBuilder) recentWeeks(name string, labels []string) Family {
	fam := Family{Name: name, Kind: KindRecentWeeks}
	dates, byDate := indexDays(b.frame.rows)

	perWeek := make(map[ISOWeek][]Date)
	for _, d := range dates {
		first := byDate[d][0]
		w := ISOWeek{Week: first.ISOWeek, Year: first.ISOYear}
		perWeek[w] = append(perWeek[w], d)
	}

	for i, w := range RecentISOWeeks(b.frame.MaxISOWeek(), len(labels)) {
		weekDates := perWeek[w]
		produced := make([]Series, 0, len(weekDates))
		for _, d := range weekDates {
			produced = append(produced, daySeries(d, byDate[d]))
		}
		fam.Options = append(fam.Options, b.addOption(labels[i], i, produced))
	}
	return fam
}

// daySeries plots one date's rows by hour of day. rows must share the date and
// be ordered by hour.
func daySeries(d Date, rows []Row) Series {
	s := Series{
		Label:  fmt.Sprintf("%s %s", WeekdayLabels[rows[0].Weekday], d),
		Points: make([]Point, 0, len(rows)),
	}
	for _, r := range rows {
		s.Points = append(s.Points, Point{X: r.HourOfDay, Y: r.Occupancy})
	}
	return s
}
