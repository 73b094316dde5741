package engine

import (
	"fmt"
	"math"
	"sort"
)

// Field names a derived frame column that can be used as a grouping key.
type Field int

const (
	FieldWeekday Field = iota
	FieldHour
	FieldDate // encoded with Date.Key
	FieldISOWeek
	FieldISOYear
)

// maxGroupFields bounds the key tuple. Grouping by more fields, or by a value
// outside the Field constants, is a programming error and panics.
const maxGroupFields = 5

func (f Field) value(r Row) int {
	switch f {
	case FieldWeekday:
		return r.Weekday
	case FieldHour:
		return r.Hour
	case FieldDate:
		return r.Date.Key()
	case FieldISOWeek:
		return r.ISOWeek
	case FieldISOYear:
		return r.ISOYear
	}
	panic(fmt.Sprintf("engine: unknown group field %d", int(f)))
}

// Group is the mean occupancy of all rows sharing one key tuple.
type Group struct {
	Key   []int
	Mean  float64
	Count int
}

// GroupMean averages occupancy over the frame grouped by fields.
func GroupMean(frame *Frame, fields ...Field) []Group {
	return GroupMeanRows(frame.rows, fields...)
}

// GroupMeanRows averages occupancy over rows grouped by fields. Key tuples
// without rows are absent (no zero fill) and groups are sorted by key tuple.
func GroupMeanRows(rows []Row, fields ...Field) []Group {
	if len(fields) > maxGroupFields {
		panic(fmt.Sprintf("engine: cannot group by %d fields, at most %d", len(fields), maxGroupFields))
	}

	type acc struct {
		sum float64
		n   int
	}
	sums := make(map[[maxGroupFields]int]*acc)
	for _, r := range rows {
		if math.IsNaN(r.Occupancy) || math.IsInf(r.Occupancy, 0) {
			continue
		}
		var key [maxGroupFields]int
		for i, f := range fields {
			key[i] = f.value(r)
		}
		a, ok := sums[key]
		if !ok {
			a = &acc{}
			sums[key] = a
		}
		a.sum += r.Occupancy
		a.n++
	}

	groups := make([]Group, 0, len(sums))
	for key, a := range sums {
		groups = append(groups, Group{
			Key:   append([]int(nil), key[:len(fields)]...),
			Mean:  a.sum / float64(a.n),
			Count: a.n,
		})
	}
	sort.Slice(groups, func(i, j int) bool {
		return compareKeys(groups[i].Key, groups[j].Key) < 0
	})
	return groups
}

func compareKeys(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return len(a) - len(b)
}

// seriesByLeadingKey turns two-field groups into one series per distinct first
// key, with the second key as x and the mean as y.
func seriesByLeadingKey(groups []Group, label func(key int) string) []Series {
	var out []Series
	lastKey := 0
	for _, g := range groups {
		if len(g.Key) < 2 {
			continue
		}
		if len(out) == 0 || lastKey != g.Key[0] {
			out = append(out, Series{Label: label(g.Key[0])})
			lastKey = g.Key[0]
		}
		last := &out[len(out)-1]
		last.Points = append(last.Points, Point{X: float64(g.Key[1]), Y: g.Mean})
	}
	return out
}
