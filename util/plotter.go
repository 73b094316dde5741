package util

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"occupancy-server/engine"
)

var ErrOptionOutOfRange = errors.New("option out of range")

// PlotSelection picks what part of a bundle to draw. Family -1 draws the
// family's default selection of the first family, or every series of a
// bundle without families. Option -1 draws the family default.
type PlotSelection struct {
	Family int
	Option int
}

// PlotBundle renders the selected view of a bundle as an HTML page.
func PlotBundle(w io.Writer, bundle engine.Bundle, sel PlotSelection) error {
	series, title, err := selectSeries(bundle, sel)
	if err != nil {
		return err
	}

	switch bundle.Chart {
	case engine.ChartHeatmap, engine.ChartHeatmapByDay:
		return plotHeatmap(w, title, series)
	case engine.ChartBoxplot:
		return plotBoxplot(w, title, series)
	default:
		return plotLines(w, title, series)
	}
}

func selectSeries(bundle engine.Bundle, sel PlotSelection) ([]engine.Series, string, error) {
	if bundle.State == engine.StateNoData {
		return nil, bundle.Title, nil
	}
	if len(bundle.Families) == 0 {
		return bundle.Series, bundle.Title, nil
	}

	family := sel.Family
	if family < 0 {
		family = 0
	}
	if family >= len(bundle.Families) {
		return nil, "", fmt.Errorf("family %d: %w", sel.Family, ErrOptionOutOfRange)
	}
	fam := bundle.Families[family]
	if fam.NoData {
		return nil, bundle.Title, nil
	}

	if sel.Option < 0 {
		return bundle.Visible(fam.Active), bundle.ActiveTitle(family), nil
	}
	if sel.Option >= len(fam.Options) {
		return nil, "", fmt.Errorf("option %d of family %s: %w", sel.Option, fam.Name, ErrOptionOutOfRange)
	}
	o := fam.Options[sel.Option]
	return bundle.Visible(o.Mask), o.Title, nil
}

func initOpts(title string) charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{
		PageTitle: title,
		Width:     "1000px",
		Height:    "560px",
	})
}

// plotLines draws every series as a line over the hour of day.
func plotLines(w io.Writer, title string, series []engine.Series) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		initOpts(title),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Hour of Day", Type: "value", Min: 0, Max: 24}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Occupancy (%)", Type: "value", Min: 0, Max: 100}),
	)
	for _, s := range series {
		data := make([]opts.LineData, 0, len(s.Points))
		for _, p := range s.Points {
			data = append(data, opts.LineData{Value: []float64{p.X, p.Y}})
		}
		line.AddSeries(s.Label, data)
	}
	return line.Render(w)
}

// plotHeatmap puts hours on x and one row per series on y.
func plotHeatmap(w io.Writer, title string, series []engine.Series) error {
	hours := make([]string, 24)
	for h := range hours {
		hours[h] = strconv.Itoa(h)
	}
	rows := make([]string, 0, len(series))
	var data []opts.HeatMapData
	for y, s := range series {
		rows = append(rows, s.Label)
		for _, p := range s.Points {
			data = append(data, opts.HeatMapData{Value: [3]interface{}{int(p.X), y, p.Y}})
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		initOpts(title),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Hour", Type: "category", Data: hours}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Day", Type: "category", Data: rows}),
		charts.WithVisualMapOpts(opts.VisualMap{Calculable: opts.Bool(true), Min: 0, Max: 100}),
	)
	hm.AddSeries("Occupancy (%)", data)
	return hm.Render(w)
}

// plotBoxplot summarizes each series' raw points per hour.
func plotBoxplot(w io.Writer, title string, series []engine.Series) error {
	hours := make([]string, 24)
	for h := range hours {
		hours[h] = strconv.Itoa(h)
	}

	box := charts.NewBoxPlot()
	box.SetGlobalOptions(
		initOpts(title),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Hour", Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Occupancy (%)", Min: 0, Max: 100}),
	)
	box.SetXAxis(hours)
	for _, s := range series {
		byHour := make([]opts.BoxPlotData, 24)
		for _, b := range engine.BoxStats(s.Points) {
			if b.Hour < 0 || b.Hour >= 24 {
				continue
			}
			byHour[b.Hour] = opts.BoxPlotData{Value: []float64{b.Min, b.Q1, b.Median, b.Q3, b.Max}}
		}
		box.AddSeries(s.Label, byHour)
	}
	return box.Render(w)
}
