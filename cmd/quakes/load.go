package main

import (
	"context"
	"fmt"

	csvadapter "github.com/couchcryptid/quake-impact/internal/adapter/csv"
	"github.com/couchcryptid/quake-impact/internal/analysis"
	"github.com/couchcryptid/quake-impact/internal/geo"
)

// loadCatalogs reads both catalogs from the configured paths and records
// their sizes.
func loadCatalogs(ctx context.Context) (csvadapter.Catalogs, error) {
	logger.Info("loading catalogs", "cities", cfg.CityCSVPath, "quakes", cfg.QuakeCSVPath)

	cats, err := csvadapter.LoadFiles(ctx, cfg.CityCSVPath, cfg.QuakeCSVPath)
	if err != nil {
		return csvadapter.Catalogs{}, fmt.Errorf("load catalogs: %w", err)
	}

	metrics.CatalogRecords.WithLabelValues("cities").Set(float64(cats.Cities.Len()))
	metrics.CatalogRecords.WithLabelValues("quakes").Set(float64(cats.Quakes.Len()))
	logger.Info("catalogs loaded", "cities", cats.Cities.Len(), "quakes", cats.Quakes.Len())
	return cats, nil
}

func newAnalyzer(searcher geo.Searcher) *analysis.Analyzer {
	return analysis.NewAnalyzer(searcher, cfg.ClosestCityRadiusKm, logger, metrics)
}
