package render

import (
	"fmt"
	"io"

	"github.com/guptarohit/asciigraph"

	"github.com/couchcryptid/quake-impact/internal/analysis"
)

const chartHeight = 10

// EventsChart draws the yearly event counts as a terminal line chart.
func EventsChart(w io.Writer, title string, counts map[int]int) error {
	values := make(map[int]float64, len(counts))
	for y, n := range counts {
		values[y] = float64(n)
	}
	return lineChart(w, title, "Number of events", values, 0)
}

// MagnitudeChart draws the yearly average magnitude as a terminal line chart.
func MagnitudeChart(w io.Writer, title string, averages map[int]float64) error {
	return lineChart(w, title, "Average magnitude", averages, 2)
}

func lineChart(w io.Writer, title, label string, byYear map[int]float64, precision uint) error {
	ew := &errWriter{w: w}
	ew.printf("\n%s\n", title)

	years := analysis.Years(byYear)
	if len(years) == 0 {
		ew.printf("%s by year\n(no data)\n", label)
		return ew.err
	}

	// Years without events are absent rather than zero so the x axis stays
	// one point per observed year.
	series := make([]float64, len(years))
	for i, y := range years {
		series[i] = byYear[y]
	}
	caption := fmt.Sprintf("%s by year, %d through %d", label, years[0], years[len(years)-1])
	ew.printf("%s\n", asciigraph.Plot(series,
		asciigraph.Height(chartHeight),
		asciigraph.Precision(precision),
		asciigraph.Caption(caption),
	))
	return ew.err
}
