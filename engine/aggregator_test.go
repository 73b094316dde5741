package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"occupancy-server/models/occupancy"
)

func TestGroupMean_ConstantOccupancy(t *testing.T) {
	// 8 days starting Monday: Monday appears twice.
	frame := NewFrame(hourly(day(2024, time.March, 4), 8, 42.0))

	groups := GroupMean(frame, FieldWeekday, FieldHour)

	require.Len(t, groups, 7*24)
	for _, g := range groups {
		assert.Equal(t, 42.0, g.Mean)
	}
	assert.Equal(t, []int{0, 0}, groups[0].Key)
	assert.Equal(t, 2, groups[0].Count)
	assert.Equal(t, []int{6, 23}, groups[len(groups)-1].Key)
	assert.Equal(t, 1, groups[len(groups)-1].Count)
}

func TestGroupMean_AbsentKeysNotFilled(t *testing.T) {
	base := day(2024, time.March, 4)
	frame := NewFrame([]occupancy.Reading{
		{Timestamp: base.Add(9 * time.Hour), Occupancy: 10},
		{Timestamp: base.Add(9*time.Hour + 30*time.Minute), Occupancy: 30},
		{Timestamp: base.Add(24*time.Hour + 17*time.Hour), Occupancy: 50},
	})

	groups := GroupMean(frame, FieldDate, FieldHour)

	assert.Equal(t, []Group{
		{Key: []int{20240304, 9}, Mean: 20, Count: 2},
		{Key: []int{20240305, 17}, Mean: 50, Count: 1},
	}, groups)
}

func TestGroupMean_StableOrder(t *testing.T) {
	frame := NewFrame(hourly(day(2024, time.January, 1), 21, 12.5))

	first := GroupMean(frame, FieldISOWeek, FieldWeekday)
	second := GroupMean(frame, FieldISOWeek, FieldWeekday)

	assert.Equal(t, first, second)
	for i := 1; i < len(first); i++ {
		assert.Negative(t, compareKeys(first[i-1].Key, first[i].Key))
	}
}

func TestSeriesByLeadingKey(t *testing.T) {
	groups := []Group{
		{Key: []int{0, 8}, Mean: 10},
		{Key: []int{0, 9}, Mean: 20},
		{Key: []int{2, 8}, Mean: 30},
	}

	series := seriesByLeadingKey(groups, weekdayLabel)

	assert.Equal(t, []Series{
		{Label: "Mon", Points: []Point{{X: 8, Y: 10}, {X: 9, Y: 20}}},
		{Label: "Wed", Points: []Point{{X: 8, Y: 30}}},
	}, series)
}

func TestGroupMean_MisuseFailsLoudly(t *testing.T) {
	rows := NewFrame(hourly(day(2024, time.March, 4), 1, 42)).rows

	assert.PanicsWithValue(t, "engine: unknown group field 99", func() {
		GroupMeanRows(rows, Field(99))
	})
	assert.PanicsWithValue(t, "engine: cannot group by 6 fields, at most 5", func() {
		GroupMeanRows(rows, FieldWeekday, FieldHour, FieldDate, FieldISOWeek, FieldISOYear, FieldHour)
	})
}
