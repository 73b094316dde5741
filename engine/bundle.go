package engine

import (
	"fmt"
	"time"
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Series struct {
	Label  string  `json:"label"`
	Points []Point `json:"points"`
}

// State tells the presentation layer whether a bundle has anything to draw.
type State string

const (
	StateReady  State = "ready"
	StateNoData State = "no_data"
)

// ChartInfo describes a chart kind in the registry.
type ChartInfo struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Priority int    `json:"priority"`
}

// Bundle is the complete output of one chart build. The presentation layer
// renders Series and toggles visibility with the option masks; it never
// recomputes indices. A bundle is not modified after Assemble returns.
type Bundle struct {
	Chart       string    `json:"chart"`
	Title       string    `json:"title"`
	State       State     `json:"state"`
	Series      []Series  `json:"series"`
	Families    []Family  `json:"families"`
	GeneratedAt time.Time `json:"generated_at"`
}

// NoData is the bundle for a chart without readings: no series, families or
// masks.
func NoData(info ChartInfo, reference time.Time) Bundle {
	return Bundle{
		Chart:       info.Name,
		Title:       info.Title,
		State:       StateNoData,
		Series:      []Series{},
		Families:    []Family{},
		GeneratedAt: reference,
	}
}

// Assemble packages a flat series list and its families into a bundle. Every
// option of a family that has series gets a mask of len(series) that is true
// exactly over its span, and the family records its default selection.
func Assemble(info ChartInfo, series []Series, families []Family, reference time.Time) Bundle {
	if len(series) == 0 {
		return NoData(info, reference)
	}

	b := Bundle{
		Chart:       info.Name,
		Title:       info.Title,
		State:       StateReady,
		Series:      series,
		Families:    make([]Family, 0, len(families)),
		GeneratedAt: reference,
	}
	for _, fam := range families {
		b.Families = append(b.Families, assembleFamily(info, fam, len(series), reference))
	}
	return b
}

func assembleFamily(info ChartInfo, fam Family, total int, reference time.Time) Family {
	options := make([]Option, len(fam.Options))
	copy(options, fam.Options)
	fam.Options = options

	fam.SeriesCount = 0
	for i := range fam.Options {
		fam.Options[i].Title = OptionTitle(info.Title, fam.Options[i].Label)
		fam.SeriesCount += fam.Options[i].Span.Len()
	}
	if fam.SeriesCount == 0 {
		fam.NoData = true
		fam.Default = Selection{Index: -1}
		return fam
	}

	for i := range fam.Options {
		fam.Options[i].Mask = spanMask(total, fam.Options[i].Span)
	}
	fam.Default = SelectDefault(fam, total, reference)
	switch {
	case fam.Default.ForceFirstSeries:
		fam.Active = make([]bool, total)
		fam.Active[0] = true
	case fam.Default.Index >= 0:
		fam.Active = append([]bool(nil), fam.Options[fam.Default.Index].Mask...)
	}
	return fam
}

// OptionTitle is the display title while an option is active.
func OptionTitle(chartTitle, label string) string {
	return fmt.Sprintf("%s — %s", chartTitle, label)
}

func spanMask(total int, span Span) []bool {
	mask := make([]bool, total)
	for i := span.Start; i < span.End && i < total; i++ {
		mask[i] = true
	}
	return mask
}

// Visible returns the series a mask shows, in flat-list order.
func (b Bundle) Visible(mask []bool) []Series {
	var out []Series
	for i, on := range mask {
		if on && i < len(b.Series) {
			out = append(out, b.Series[i])
		}
	}
	return out
}

// OptionSeries returns the series of one option of one family, or nil when
// either index is out of range.
func (b Bundle) OptionSeries(family, option int) []Series {
	if family < 0 || family >= len(b.Families) {
		return nil
	}
	opts := b.Families[family].Options
	if option < 0 || option >= len(opts) {
		return nil
	}
	span := opts[option].Span
	if span.Empty() || span.End > len(b.Series) {
		return nil
	}
	return b.Series[span.Start:span.End]
}

// FamilyByName returns the index of the named family, or -1.
func (b Bundle) FamilyByName(name string) int {
	for i, f := range b.Families {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// ActiveTitle is the title to show for a family's default selection.
func (b Bundle) ActiveTitle(family int) string {
	if family < 0 || family >= len(b.Families) {
		return b.Title
	}
	f := b.Families[family]
	if f.Default.Index < 0 || f.Default.Index >= len(f.Options) {
		return b.Title
	}
	return f.Options[f.Default.Index].Title
}
