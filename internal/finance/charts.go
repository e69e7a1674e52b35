package finance

import (
	"errors"
	"sort"

	"github.com/vicanso/go-charts/v2"
)

// ChartLine is one named line of a multi-instrument chart.
type ChartLine struct {
	Name   string
	Points []SeriesPoint
}

const dateKeyLayout = "2006-01-02"

// RenderLineChart draws all lines against their common dates and returns PNG bytes.
func RenderLineChart(title, subtitle string, lines []ChartLine) ([]byte, error) {
	labels, values, err := alignLines(lines)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(lines))
	var yMin, yMax float64
	for i, l := range lines {
		names[i] = l.Name
		for j, v := range values[i] {
			if (i == 0 && j == 0) || v < yMin {
				yMin = v
			}
			if (i == 0 && j == 0) || v > yMax {
				yMax = v
			}
		}
	}
	pad := (yMax - yMin) * 0.05
	if pad == 0 {
		pad = 1
	}
	yMin -= pad
	yMax += pad

	split := 6
	if len(labels) <= 30 {
		split = len(labels) / 3
		if split < 3 {
			split = 3
		}
	}

	seriesList := charts.NewSeriesListDataFromValues(values, charts.ChartTypeLine)
	for i := range seriesList {
		seriesList[i].Name = names[i]
	}
	painter, err := charts.Render(charts.ChartOption{SeriesList: seriesList},
		charts.TitleTextOptionFunc(title, subtitle),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: labels, BoundaryGap: charts.FalseFlag(), SplitNumber: split}),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: &yMin, Max: &yMax, DivideCount: 5}),
		charts.LegendOptionFunc(charts.LegendOption{Data: names, Top: charts.PositionBottom}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(1000),
		charts.HeightOptionFunc(600),
	)
	if err != nil {
		return nil, err
	}
	return painter.Bytes()
}

// alignLines intersects the dates of all lines and returns the shared date
// labels with each line's values on them.
func alignLines(lines []ChartLine) ([]string, [][]float64, error) {
	if len(lines) == 0 {
		return nil, nil, errors.New("no series provided")
	}
	count := map[string]int{}
	for _, l := range lines {
		seen := map[string]bool{}
		for _, p := range l.Points {
			k := p.Date.Format(dateKeyLayout)
			if !seen[k] {
				seen[k] = true
				count[k]++
			}
		}
	}
	common := make([]string, 0, len(count))
	for k, c := range count {
		if c == len(lines) {
			common = append(common, k)
		}
	}
	if len(common) < 2 {
		return nil, nil, errors.New("not enough overlapping time points")
	}
	sort.Strings(common)

	values := make([][]float64, len(lines))
	for i, l := range lines {
		byDate := make(map[string]float64, len(l.Points))
		for _, p := range l.Points {
			byDate[p.Date.Format(dateKeyLayout)] = p.Value
		}
		aligned := make([]float64, len(common))
		for j, k := range common {
			aligned[j] = byDate[k]
		}
		values[i] = aligned
	}
	return common, values, nil
}
