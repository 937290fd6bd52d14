package render

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/couchcryptid/quake-impact/internal/analysis"
	"github.com/couchcryptid/quake-impact/internal/domain"
)

const (
	imageWidth  = 8 * vg.Inch
	imageHeight = 5 * vg.Inch
)

// Chart file names written by WriteCharts.
const (
	ScatterFile   = "quakes_by_magnitude.png"
	EventsFile    = "events_by_year.png"
	MagnitudeFile = "magnitude_by_year.png"
)

// WriteCharts saves the magnitude-coloured location scatter, the yearly event
// bar chart and the yearly average magnitude scatter as PNGs under dir. It
// returns the written paths; an empty set writes nothing.
func WriteCharts(dir, title string, set []domain.Entry, r analysis.Report) ([]string, error) {
	if len(set) == 0 {
		return nil, nil
	}

	scatter, err := ScatterPlot(title, set)
	if err != nil {
		return nil, err
	}
	events, err := EventsPlot(title, r.CountsByYear)
	if err != nil {
		return nil, err
	}
	magnitude, err := MagnitudePlot(title, r.AverageMagnitudeByYear)
	if err != nil {
		return nil, err
	}

	charts := []struct {
		name string
		plot *plot.Plot
	}{
		{ScatterFile, scatter},
		{EventsFile, events},
		{MagnitudeFile, magnitude},
	}

	paths := make([]string, 0, len(charts))
	for _, c := range charts {
		path := filepath.Join(dir, c.name)
		if err := c.plot.Save(imageWidth, imageHeight, path); err != nil {
			return nil, fmt.Errorf("save %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// ScatterPlot places each event at (longitude, latitude), coloured from blue
// to red by magnitude.
func ScatterPlot(title string, set []domain.Entry) (*plot.Plot, error) {
	if len(set) == 0 {
		return nil, errors.New("scatter: no events")
	}
	xys := make(plotter.XYs, len(set))
	lo, hi := set[0].Event.Magnitude, set[0].Event.Magnitude
	for i, e := range set {
		xys[i] = plotter.XY{X: e.Point.Lon, Y: e.Point.Lat}
		lo = min(lo, e.Event.Magnitude)
		hi = max(hi, e.Event.Magnitude)
	}
	if hi == lo {
		hi = lo + 1
	}

	colors := moreland.SmoothBlueRed()
	colors.SetMin(lo)
	colors.SetMax(hi)

	s, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, fmt.Errorf("scatter: %w", err)
	}
	s.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		style := draw.GlyphStyle{Radius: vg.Points(3), Shape: draw.CircleGlyph{}}
		c, err := colors.At(set[i].Event.Magnitude)
		if err != nil {
			c = plotter.DefaultGlyphStyle.Color
		}
		style.Color = c
		return style
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"
	p.Add(plotter.NewGrid(), s)
	return p, nil
}

// EventsPlot draws one bar per year.
func EventsPlot(title string, counts map[int]int) (*plot.Plot, error) {
	years := analysis.Years(counts)
	values := make(plotter.Values, len(years))
	names := make([]string, len(years))
	for i, y := range years {
		values[i] = float64(counts[y])
		names[i] = strconv.Itoa(y)
	}

	bars, err := plotter.NewBarChart(values, vg.Points(12))
	if err != nil {
		return nil, fmt.Errorf("bar chart: %w", err)
	}

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "Number of events"
	p.Add(bars)
	p.NominalX(names...)
	return p, nil
}

// MagnitudePlot draws the average magnitude of each year as a point.
func MagnitudePlot(title string, averages map[int]float64) (*plot.Plot, error) {
	years := analysis.Years(averages)
	xys := make(plotter.XYs, len(years))
	for i, y := range years {
		xys[i] = plotter.XY{X: float64(y), Y: averages[y]}
	}

	s, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, fmt.Errorf("scatter: %w", err)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Average magnitude"
	p.Add(plotter.NewGrid(), s)
	return p, nil
}
