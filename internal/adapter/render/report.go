// Package render writes analysis output as plain text, terminal and PNG
// charts, and GeoJSON.
package render

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/couchcryptid/quake-impact/internal/analysis"
	"github.com/couchcryptid/quake-impact/internal/domain"
	"github.com/couchcryptid/quake-impact/internal/geo"
	"github.com/couchcryptid/quake-impact/internal/pipeline"
)

var printer = message.NewPrinter(language.English)

// Title describes a selection as a two-line chart title: the kept categories,
// then the date range.
func Title(sel pipeline.Selection) string {
	categories := "all categories"
	if len(sel.Categories) > 0 {
		categories = strings.Join(sel.Categories, ", ")
	}
	dates := "all dates"
	if !sel.DateFrom.IsZero() {
		dates = sel.DateFrom.Format(domain.QueryDateLayout) + " to " + sel.DateTo.Format(domain.QueryDateLayout)
	}
	return categories + "\n" + dates
}

// Report writes the largest event, its impact radius, the affected cities and
// the closest city.
func Report(w io.Writer, r analysis.Report) error {
	ew := &errWriter{w: w}

	ew.printf("\n*** Impact Report ***\n")
	ew.printf("Events analyzed: %d\n", r.Events)
	if r.Largest == nil {
		ew.printf("No events selected.\n")
		return ew.err
	}

	l := r.Largest
	ew.printf("Largest quake is at (%g, %g)\n", l.Point.Lat, l.Point.Lon)
	ew.printf("\t%s magnitude %.1f on %s\n", l.Event.Type, l.Event.Magnitude,
		l.Event.OccurredAt.Format("01/02/2006 15:04:05"))
	for _, k := range slices.Sorted(maps.Keys(l.Event.Extra)) {
		ew.printf("\t%s: %s\n", k, l.Event.Extra[k])
	}

	ew.printf("\nClosest cities in the radius are %.2f km\n", r.ImpactRadiusKm)
	for _, c := range r.AffectedCities {
		ew.printf("\t%s, %s (pop %s) %.2f km\n", c.City, c.Country, formatInt(c.Population), c.DistanceKm)
	}
	ew.printf("\tTotal population affected %s\n", formatInt(r.AffectedPopulation))
	ew.printf("%d affected cities within %.2f km..\n", len(r.AffectedCities), r.ImpactRadiusKm)

	if r.Closest == nil {
		ew.printf("No city within %s km.\n", formatFloat(r.ClosestRadiusKm))
		return ew.err
	}
	ew.printf("closest city is...\n\t%s, %s (pop %s) %.2f km\n",
		r.Closest.City, r.Closest.Country, formatInt(r.Closest.Population), r.Closest.DistanceKm)
	return ew.err
}

// NearbyTable writes search results with distances converted to unit. radius
// is already in unit.
func NearbyTable(w io.Writer, results []domain.NearbyCityResult, unit geo.Unit, radius float64) error {
	ew := &errWriter{w: w}
	ew.printf("%d cities within %s %s\n", len(results), formatFloat(radius), unit)
	for _, c := range results {
		ew.printf("\t%-30s %-20s %12s %10.2f %s\n",
			c.City, c.Country, formatInt(c.Population), unit.FromKm(c.DistanceKm), unit)
	}
	ew.printf("Total population %s\n", formatInt(geo.TotalPopulation(results)))
	return ew.err
}

func formatInt(n int64) string {
	return printer.Sprintf("%d", n)
}

func formatFloat(v float64) string {
	return printer.Sprintf("%v", v)
}

// errWriter keeps the first write error so callers check once.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
