package http

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/couchcryptid/quake-impact/internal/adapter/render"
	"github.com/couchcryptid/quake-impact/internal/analysis"
	"github.com/couchcryptid/quake-impact/internal/domain"
	"github.com/couchcryptid/quake-impact/internal/geo"
	"github.com/couchcryptid/quake-impact/internal/pipeline"
)

type nearbyResponse struct {
	Center          domain.LocatedPoint       `json:"center"`
	RadiusKm        float64                   `json:"radius_km"`
	Cities          []domain.NearbyCityResult `json:"cities"`
	TotalPopulation int64                     `json:"total_population"`
}

type stageResponse struct {
	Stage  string `json:"stage"`
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
	Before int    `json:"before"`
	After  int    `json:"after"`
}

type summaryResponse struct {
	Stages []stageResponse `json:"stages"`
	Report analysis.Report `json:"report"`
}

type rejectedResponse struct {
	Error  string          `json:"error"`
	Stages []stageResponse `json:"stages"`
}

func (s *Server) handleNearby(w http.ResponseWriter, r *http.Request, ds *Dataset) {
	q := r.URL.Query()
	lat, err := floatParam(q.Get("lat"), "lat")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	lon, err := floatParam(q.Get("lon"), "lon")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	radius, err := floatParam(q.Get("radius_km"), "radius_km")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if radius < 0 {
		writeError(w, http.StatusBadRequest, errors.New("radius_km must not be negative"))
		return
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		writeError(w, http.StatusBadRequest, errors.New("lat must be within [-90,90] and lon within [-180,180]"))
		return
	}

	center := domain.LocatedPoint{Lat: lat, Lon: lon}
	cities := ds.Searcher.FindNearby(center, radius)
	geo.SortByDistance(cities)
	if cities == nil {
		cities = []domain.NearbyCityResult{}
	}

	writeJSON(w, http.StatusOK, nearbyResponse{
		Center:          center,
		RadiusKm:        radius,
		Cities:          cities,
		TotalPopulation: geo.TotalPopulation(cities),
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request, ds *Dataset) {
	final, results, ok := s.runQueries(w, r, ds)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{
		Stages: stageResponses(results),
		Report: ds.Analyzer.BuildReport(final),
	})
}

func (s *Server) handleGeoJSON(w http.ResponseWriter, r *http.Request, ds *Dataset) {
	final, _, ok := s.runQueries(w, r, ds)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	if err := render.GeoJSON(w, final); err != nil {
		s.logger.Error("write geojson failed", "error", err)
	}
}

// runQueries filters the quake catalog with the stage queries in the URL.
// It writes a 400 response and returns false when a stage rejects its query.
func (s *Server) runQueries(w http.ResponseWriter, r *http.Request, ds *Dataset) ([]domain.Entry, []pipeline.Result, bool) {
	q := r.URL.Query()
	queries := pipeline.Queries{
		Category:  q.Get("type"),
		Latitude:  q.Get("lat"),
		Longitude: q.Get("lon"),
		Date:      q.Get("date"),
		Magnitude: q.Get("mag"),
	}

	p := pipeline.New(ds.Quakes, s.logger, s.metrics)
	final, results, err := p.Run(queries)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, rejectedResponse{
			Error:  err.Error(),
			Stages: stageResponses(results),
		})
		return nil, nil, false
	}
	return final, results, true
}

func stageResponses(results []pipeline.Result) []stageResponse {
	out := make([]stageResponse, 0, len(results))
	for _, r := range results {
		out = append(out, stageResponse{
			Stage:  r.Stage.String(),
			Status: r.Status.String(),
			Reason: r.Reason,
			Before: r.Before,
			After:  r.After,
		})
	}
	return out
}

func floatParam(v, name string) (float64, error) {
	if v == "" {
		return 0, fmt.Errorf("missing %s", name)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid %s %q", name, v)
	}
	return f, nil
}
