package engine

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundle_MaskRoundTrip(t *testing.T) {
	readings := hourly(day(2024, time.January, 1), 60, 33)
	now := day(2024, time.March, 1)

	for _, info := range Charts() {
		t.Run(info.Name, func(t *testing.T) {
			b, err := Build(info.Name, readings, now)
			require.NoError(t, err)

			for fi, fam := range b.Families {
				for oi, o := range fam.Options {
					require.Len(t, o.Mask, len(b.Series))
					want := b.Series[o.Span.Start:o.Span.End]
					got := b.Visible(o.Mask)
					if len(want) == 0 {
						assert.Empty(t, got)
						continue
					}
					assert.Equal(t, want, got)
					assert.Equal(t, want, b.OptionSeries(fi, oi))
				}
			}
		})
	}
}

func TestBundle_OptionTitles(t *testing.T) {
	b, err := Build(ChartAverageWeekday, hourly(day(2024, time.March, 4), 8, 10), day(2024, time.March, 12))
	require.NoError(t, err)

	fam := b.Families[b.FamilyByName(FamilyWindow)]

	assert.Equal(t, "Average per Weekday — Last 1 month", fam.Options[0].Title)
	assert.Equal(t, "Average per Weekday — All", fam.Options[3].Title)
	assert.Equal(t, -1, b.FamilyByName("missing"))
	assert.Equal(t, b.Title, b.ActiveTitle(5))
}

func TestBundle_EmptyInputIsNoData(t *testing.T) {
	now := day(2024, time.March, 6)

	for _, info := range Charts() {
		t.Run(info.Name, func(t *testing.T) {
			b, err := Build(info.Name, nil, now)

			require.NoError(t, err)
			assert.Equal(t, StateNoData, b.State)
			assert.Equal(t, info.Title, b.Title)
			assert.Empty(t, b.Series)
			assert.Empty(t, b.Families)
		})
	}
}

func TestAssemble_FamilyWithoutSeriesIsNoData(t *testing.T) {
	info := ChartInfo{Name: "test", Title: "Test"}
	series := []Series{{Label: "a"}, {Label: "b"}}
	families := []Family{
		{Name: "full", Kind: KindRecentWeeks, Options: []Option{
			{Label: "x", Span: Span{0, 1}}, {Label: "y", Span: Span{1, 2}},
		}},
		{Name: "empty", Kind: KindRecentWeeks, Options: []Option{
			{Label: "z", Span: Span{2, 2}},
		}},
	}

	b := Assemble(info, series, families, day(2024, time.March, 6))

	require.Len(t, b.Families, 2)
	assert.False(t, b.Families[0].NoData)
	assert.Equal(t, 2, b.Families[0].SeriesCount)
	assert.Equal(t, []bool{false, true}, b.Families[0].Options[1].Mask)
	assert.True(t, b.Families[1].NoData)
	assert.Equal(t, Selection{Index: -1}, b.Families[1].Default)
	assert.Nil(t, b.Families[1].Options[0].Mask)
	assert.Nil(t, b.Families[1].Active)
	// Inputs are not modified.
	assert.Nil(t, families[0].Options[0].Mask)
}

func TestBundle_JSONShape(t *testing.T) {
	b, err := Build(ChartLine, hourly(day(2024, time.March, 4), 1, 10), day(2024, time.March, 5))
	require.NoError(t, err)

	raw, err := json.Marshal(b)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "line", decoded["chart"])
	assert.Equal(t, "ready", decoded["state"])
	families := decoded["families"].([]interface{})
	require.Len(t, families, 1)
	assert.Equal(t, "recent_weeks", families[0].(map[string]interface{})["kind"])
}
