package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/quake-impact/internal/adapter/prompt"
	"github.com/couchcryptid/quake-impact/internal/adapter/render"
	"github.com/couchcryptid/quake-impact/internal/analysis"
	"github.com/couchcryptid/quake-impact/internal/domain"
	"github.com/couchcryptid/quake-impact/internal/geo"
	"github.com/couchcryptid/quake-impact/internal/pipeline"
)

var (
	analyzeScripted bool
	analyzeQueries  pipeline.Queries
	analyzeGeoJSON  string
	analyzeCharts   string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Filter the quake catalog and report the largest event's impact",
	Long: "Prompts for a category, latitude, longitude, date and magnitude range in turn, " +
		"then prints yearly charts (optionally PNGs via --charts) and the cities within the largest event's impact radius. " +
		"With --scripted the stage queries come from flags instead of stdin.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cats, err := loadCatalogs(cmd.Context())
		if err != nil {
			return err
		}

		p := pipeline.New(domain.Entries(cats.Quakes), logger, metrics)
		out := cmd.OutOrStdout()

		var final []domain.Entry
		if analyzeScripted {
			final, _, err = p.Run(analyzeQueries)
		} else {
			session := prompt.NewSession(cmd.InOrStdin(), out, logger)
			final, err = session.Run(p, cats.Cities.Len(), cats.Quakes.Len())
		}
		if err != nil {
			return fmt.Errorf("filter quakes: %w", err)
		}

		report := newAnalyzer(geo.NewIndex(cats.Cities, metrics)).BuildReport(final)

		title := render.Title(p.Selection())
		if err := render.EventsChart(out, title, report.CountsByYear); err != nil {
			return err
		}
		if err := render.MagnitudeChart(out, title, report.AverageMagnitudeByYear); err != nil {
			return err
		}
		if err := render.Report(out, report); err != nil {
			return err
		}

		if analyzeCharts != "" {
			if err := writeCharts(analyzeCharts, title, final, report); err != nil {
				return err
			}
		}
		if analyzeGeoJSON != "" {
			return writeGeoJSON(analyzeGeoJSON, final)
		}
		return nil
	},
}

func init() {
	f := analyzeCmd.Flags()
	f.BoolVar(&analyzeScripted, "scripted", false, "read stage queries from flags instead of prompting")
	f.StringVar(&analyzeQueries.Category, "type", "", "category: full name or first 3 characters")
	f.StringVar(&analyzeQueries.Latitude, "lat", "", "latitude range min,max")
	f.StringVar(&analyzeQueries.Longitude, "lon", "", "longitude range min,max")
	f.StringVar(&analyzeQueries.Date, "date", "", "date range MM/DD/YYYY,MM/DD/YYYY")
	f.StringVar(&analyzeQueries.Magnitude, "mag", "", "magnitude range min,max")
	f.StringVar(&analyzeGeoJSON, "geojson", "", "write the filtered quakes as GeoJSON to this file")
	f.StringVar(&analyzeCharts, "charts", "", "write scatter and yearly PNG charts into this directory")
}

func writeCharts(dir, title string, set []domain.Entry, report analysis.Report) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	paths, err := render.WriteCharts(dir, title, set, report)
	if err != nil {
		return fmt.Errorf("write charts: %w", err)
	}
	logger.Info("charts written", "dir", dir, "files", len(paths))
	return nil
}

func writeGeoJSON(path string, set []domain.Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := render.GeoJSON(f, set); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	logger.Info("geojson written", "path", path, "features", len(set))
	return nil
}
