package engine

import (
	"log"
	"math"
	"sort"
	"time"

	"occupancy-server/models/occupancy"
)

// Row is a reading plus the temporal fields derived from its timestamp.
type Row struct {
	Timestamp time.Time
	Occupancy float64
	HourOfDay float64 // hour + minute/60, in [0, 24)
	Hour      int
	Date      Date
	Weekday   int // Monday=0
	ISOWeek   int
	ISOYear   int
}

func newRow(r occupancy.Reading) Row {
	isoYear, isoWeek := r.Timestamp.ISOWeek()
	return Row{
		Timestamp: r.Timestamp,
		Occupancy: r.Occupancy,
		HourOfDay: float64(r.Timestamp.Hour()) + float64(r.Timestamp.Minute())/60.0,
		Hour:      r.Timestamp.Hour(),
		Date:      DateOf(r.Timestamp),
		Weekday:   WeekdayIndex(r.Timestamp),
		ISOWeek:   isoWeek,
		ISOYear:   isoYear,
	}
}

// Frame is an immutable, timestamp-ordered table of rows. It is built once per
// chart request and never shared between requests.
type Frame struct {
	rows    []Row
	dropped int
}

// NewFrame normalizes readings into a frame. Readings with a non-finite
// occupancy are left out. Input is expected in ascending timestamp order and is
// only re-sorted when that does not hold. An empty frame is the "no data"
// result, not an error.
func NewFrame(readings []occupancy.Reading) *Frame {
	f := &Frame{rows: make([]Row, 0, len(readings))}
	for _, r := range readings {
		if math.IsNaN(r.Occupancy) || math.IsInf(r.Occupancy, 0) {
			f.dropped++
			continue
		}
		f.rows = append(f.rows, newRow(r))
	}
	if f.dropped > 0 {
		log.Printf("[Frame] Dropped %d readings with non-finite occupancy", f.dropped)
	}

	byTime := func(i, j int) bool { return f.rows[i].Timestamp.Before(f.rows[j].Timestamp) }
	if !sort.SliceIsSorted(f.rows, byTime) {
		log.Printf("[Frame] Readings out of order, sorting %d rows", len(f.rows))
		sort.SliceStable(f.rows, byTime)
	}
	return f
}

func (f *Frame) Empty() bool {
	return len(f.rows) == 0
}

func (f *Frame) Len() int {
	return len(f.rows)
}

// Latest returns the timestamp of the newest row, or the zero time for an
// empty frame.
func (f *Frame) Latest() time.Time {
	if f.Empty() {
		return time.Time{}
	}
	return f.rows[len(f.rows)-1].Timestamp
}

// MaxISOWeek returns the highest week of the highest ISO year in the frame.
func (f *Frame) MaxISOWeek() ISOWeek {
	var latest ISOWeek
	for _, r := range f.rows {
		w := ISOWeek{Week: r.ISOWeek, Year: r.ISOYear}
		if w.after(latest) {
			latest = w
		}
	}
	return latest
}

// since returns the rows at or after t; the result aliases the frame.
func (f *Frame) since(t time.Time) []Row {
	idx := sort.Search(len(f.rows), func(i int) bool {
		return !f.rows[i].Timestamp.Before(t)
	})
	return f.rows[idx:]
}

// indexDays groups rows by calendar date. Dates come back ascending and each
// date's rows are ordered by hour of day.
func indexDays(rows []Row) ([]Date, map[Date][]Row) {
	byDate := make(map[Date][]Row)
	var dates []Date
	for _, r := range rows {
		if _, seen := byDate[r.Date]; !seen {
			dates = append(dates, r.Date)
		}
		byDate[r.Date] = append(byDate[r.Date], r)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	for _, d := range dates {
		day := byDate[d]
		sort.SliceStable(day, func(i, j int) bool { return day[i].HourOfDay < day[j].HourOfDay })
	}
	return dates, byDate
}
