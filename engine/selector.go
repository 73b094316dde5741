package engine

import "time"

// Selection is the option a family shows before the user switches.
type Selection struct {
	// Index is -1 when the family has no options.
	Index int `json:"index"`
	// ForceFirstSeries means no option has series; only the bundle's first
	// series is shown.
	ForceFirstSeries bool `json:"force_first_series,omitempty"`
}

// SelectDefault picks the default option of a built family. seriesCount is the
// length of the bundle's flat series list. The result never points outside
// family.Options.
func SelectDefault(family Family, seriesCount int, reference time.Time) Selection {
	if len(family.Options) == 0 {
		return Selection{Index: -1}
	}

	switch family.Kind {
	case KindTrailingWindow:
		return Selection{Index: shortestWindow(family.Options)}
	case KindWeekdayComparison:
		return weekdayDefault(family.Options, seriesCount, WeekdayIndex(reference))
	default:
		return Selection{Index: 0}
	}
}

// shortestWindow is chosen whether or not it has data.
func shortestWindow(options []Option) int {
	best := -1
	for i, o := range options {
		if o.Key <= 0 {
			continue
		}
		if best < 0 || o.Key < options[best].Key {
			best = i
		}
	}
	if best < 0 {
		return 0
	}
	return best
}

func weekdayDefault(options []Option, seriesCount int, weekday int) Selection {
	idx := 0
	for i, o := range options {
		if o.Key == weekday {
			idx = i
			break
		}
	}
	if !options[idx].Span.Empty() {
		return Selection{Index: idx}
	}

	for i, o := range options {
		if !o.Span.Empty() {
			return Selection{Index: i}
		}
	}
	return Selection{Index: idx, ForceFirstSeries: seriesCount > 0}
}
