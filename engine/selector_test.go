package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectDefault_WeekdayFallsBackToFirstAvailable(t *testing.T) {
	// Only Monday and Tuesday have data; the reference day is a Wednesday.
	readings := hourly(day(2024, time.March, 4), 2, 25)
	wednesday := time.Date(2024, time.March, 6, 10, 0, 0, 0, time.UTC)

	b, err := Build(ChartWeekdayCompare, readings, wednesday)

	require.NoError(t, err)
	fam := b.Families[0]
	require.Len(t, fam.Options, 2)
	assert.Equal(t, Selection{Index: 0}, fam.Default)
	assert.Equal(t, "Mon", fam.Options[fam.Default.Index].Label)
	assert.Equal(t, fam.Options[0].Mask, fam.Active)
}

func TestSelectDefault_WeekdayMatchesReference(t *testing.T) {
	readings := hourly(day(2024, time.March, 4), 7, 25)
	friday := day(2024, time.March, 15)

	b, err := Build(ChartWeekdayCompare, readings, friday)

	require.NoError(t, err)
	fam := b.Families[0]
	assert.Equal(t, 4, fam.Default.Index)
	assert.Equal(t, "Weekday Comparison — Fri", b.ActiveTitle(0))
}

func TestSelectDefault_WeekdayIsIdempotent(t *testing.T) {
	readings := hourly(day(2024, time.March, 4), 12, 25)
	ref := day(2024, time.March, 16)
	b, err := Build(ChartWeekdayCompare, readings, ref)
	require.NoError(t, err)

	first := SelectDefault(b.Families[0], len(b.Series), ref)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, SelectDefault(b.Families[0], len(b.Series), ref))
	}
	assert.Equal(t, b.Families[0].Default, first)
}

func TestSelectDefault_WeekdayEmptySpanFallback(t *testing.T) {
	tests := []struct {
		name        string
		options     []Option
		seriesCount int
		want        Selection
	}{
		{
			name: "matching option empty uses first non-empty",
			options: []Option{
				{Label: "Mon", Key: 0, Span: Span{0, 0}},
				{Label: "Wed", Key: 2, Span: Span{0, 0}},
				{Label: "Thu", Key: 3, Span: Span{0, 2}},
			},
			seriesCount: 2,
			want:        Selection{Index: 2},
		},
		{
			name: "no option has series forces first series",
			options: []Option{
				{Label: "Mon", Key: 0, Span: Span{0, 0}},
				{Label: "Wed", Key: 2, Span: Span{0, 0}},
			},
			seriesCount: 3,
			want:        Selection{Index: 1, ForceFirstSeries: true},
		},
		{
			name: "no series at all",
			options: []Option{
				{Label: "Wed", Key: 2, Span: Span{0, 0}},
			},
			seriesCount: 0,
			want:        Selection{Index: 0},
		},
	}
	wednesday := day(2024, time.March, 6)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fam := Family{Kind: KindWeekdayComparison, Options: tt.options}

			got := SelectDefault(fam, tt.seriesCount, wednesday)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectDefault_Policies(t *testing.T) {
	tests := []struct {
		name   string
		family Family
		want   Selection
	}{
		{
			name: "trailing picks shortest window regardless of order",
			family: Family{Kind: KindTrailingWindow, Options: []Option{
				{Label: "All", Key: 0}, {Label: "90", Key: 90}, {Label: "30", Key: 30},
			}},
			want: Selection{Index: 2},
		},
		{
			name:   "trailing with only all time",
			family: Family{Kind: KindTrailingWindow, Options: []Option{{Label: "All", Key: 0}}},
			want:   Selection{Index: 0},
		},
		{
			name: "recent weeks is always current week",
			family: Family{Kind: KindRecentWeeks, Options: []Option{
				{Label: "Current week", Span: Span{0, 0}}, {Label: "Last week", Span: Span{0, 3}},
			}},
			want: Selection{Index: 0},
		},
		{
			name:   "no options",
			family: Family{Kind: KindRecentWeeks},
			want:   Selection{Index: -1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectDefault(tt.family, 3, day(2024, time.March, 6)))
		})
	}
}
