package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	httpadapter "github.com/couchcryptid/quake-impact/internal/adapter/http"
	"github.com/couchcryptid/quake-impact/internal/analysis"
	"github.com/couchcryptid/quake-impact/internal/domain"
	"github.com/couchcryptid/quake-impact/internal/geo"
	"github.com/couchcryptid/quake-impact/internal/observability"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testDataset() *httpadapter.Dataset {
	metrics := observability.NewMetricsForTesting()

	cities := domain.NewCatalog[domain.CityRecord](3)
	cities.Put(domain.LocatedPoint{Lat: 10.0, Lon: 20.0}, domain.CityRecord{City: "CityA", Country: "X", Population: 500})
	cities.Put(domain.LocatedPoint{Lat: 10.0, Lon: 20.5}, domain.CityRecord{City: "CityB", Country: "X", Population: 100})
	cities.Put(domain.LocatedPoint{Lat: 10.0, Lon: 20.05}, domain.CityRecord{City: "CityC", Country: "X", Population: 50})

	at := func(y int) time.Time { return time.Date(y, 6, 1, 0, 0, 0, 0, time.UTC) }
	quakes := []domain.Entry{
		{Point: domain.LocatedPoint{Lat: 0, Lon: 0}, Event: domain.QuakeEvent{Type: domain.EventTypeEarthquake, Magnitude: 4.0, OccurredAt: at(2019)}},
		{Point: domain.LocatedPoint{Lat: 10, Lon: 20}, Event: domain.QuakeEvent{Type: domain.EventTypeEarthquake, Magnitude: 6.2, OccurredAt: at(2020)}},
		{Point: domain.LocatedPoint{Lat: 30, Lon: 40}, Event: domain.QuakeEvent{Type: domain.EventTypeExplosion, Magnitude: 5.0, OccurredAt: at(2021)}},
	}

	searcher := geo.NewCachedSearcher(geo.NewIndex(cities, metrics), 10, metrics)
	return &httpadapter.Dataset{
		Quakes:   quakes,
		Cities:   cities.Len(),
		Searcher: searcher,
		Analyzer: analysis.NewAnalyzer(searcher, 0, slog.Default(), metrics),
	}
}

func newTestServer(ds *httpadapter.Dataset) *httpadapter.Server {
	store := &httpadapter.Store{}
	if ds != nil {
		store.Set(ds)
	}
	return httpadapter.NewServer(":0", store, slog.Default(), observability.NewMetricsForTesting())
}

func get(t *testing.T, srv http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	rec := get(t, newTestServer(nil), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns200WhenLoaded(t *testing.T) {
	rec := get(t, newTestServer(testDataset()), "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns503BeforeLoad(t *testing.T) {
	rec := get(t, newTestServer(nil), "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := get(t, newTestServer(nil), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestAPIReturns503BeforeLoad(t *testing.T) {
	rec := get(t, newTestServer(nil), "/api/nearby?lat=10&lon=20&radius_km=50")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestNearby(t *testing.T) {
	rec := get(t, newTestServer(testDataset()), "/api/nearby?lat=10&lon=20&radius_km=60")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Cities []struct {
			City       string  `json:"city"`
			DistanceKm float64 `json:"distance_km"`
		} `json:"cities"`
		TotalPopulation int64 `json:"total_population"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Cities, 3)
	assert.Equal(t, "CityA", body.Cities[0].City)
	assert.Equal(t, "CityC", body.Cities[1].City)
	assert.Equal(t, "CityB", body.Cities[2].City)
	assert.InDelta(t, 54.75, body.Cities[2].DistanceKm, 0)
	assert.Equal(t, int64(650), body.TotalPopulation)
}

func TestNearby_EmptyResultIsArray(t *testing.T) {
	rec := get(t, newTestServer(testDataset()), "/api/nearby?lat=-40&lon=-100&radius_km=5")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"cities":[]`)
}

func TestNearby_BadParams(t *testing.T) {
	srv := newTestServer(testDataset())
	for _, target := range []string{
		"/api/nearby?lon=20&radius_km=5",
		"/api/nearby?lat=abc&lon=20&radius_km=5",
		"/api/nearby?lat=10&lon=20",
		"/api/nearby?lat=95&lon=20&radius_km=5",
		"/api/nearby?lat=10&lon=20&radius_km=NaN",
		"/api/nearby?lat=10&lon=20&radius_km=Inf",
		"/api/nearby?lat=10&lon=20&radius_km=-1",
		"/api/nearby?lat=NaN&lon=20&radius_km=5",
		"/api/nearby?lat=10&lon=-Inf&radius_km=5",
	} {
		rec := get(t, srv, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestNearby_NonFiniteRadiusNeverReachesCache(t *testing.T) {
	ds := testDataset()
	metrics := observability.NewMetricsForTesting()
	ds.Searcher = geo.NewCachedSearcher(geo.NewIndex(domain.NewCatalog[domain.CityRecord](0), metrics), 2, metrics)
	srv := newTestServer(ds)

	for range 100 {
		rec := get(t, srv, "/api/nearby?lat=10&lon=20&radius_km=NaN")
		require.Equal(t, http.StatusBadRequest, rec.Code)
	}

	assert.InDelta(t, 0, testutil.ToFloat64(metrics.NearbyCache.WithLabelValues("miss")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.ProximitySearches), 0)
}

func TestSummary(t *testing.T) {
	rec := get(t, newTestServer(testDataset()), "/api/summary?type=Ear")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Stages []struct {
			Stage  string `json:"stage"`
			Status string `json:"status"`
			After  int    `json:"after"`
		} `json:"stages"`
		Report struct {
			Events         int            `json:"events"`
			CountsByYear   map[string]int `json:"counts_by_year"`
			ImpactRadiusKm float64        `json:"impact_radius_km"`
			Largest        *domain.Entry  `json:"largest"`
			AffectedCities []struct {
				City string `json:"city"`
			} `json:"affected_cities"`
		} `json:"report"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	require.Len(t, body.Stages, 5)
	assert.Equal(t, "category", body.Stages[0].Stage)
	assert.Equal(t, "narrowed", body.Stages[0].Status)
	assert.Equal(t, 2, body.Stages[0].After)

	assert.Equal(t, 2, body.Report.Events)
	assert.Equal(t, map[string]int{"2019": 1, "2020": 1}, body.Report.CountsByYear)
	require.NotNil(t, body.Report.Largest)
	assert.InDelta(t, 6.2, body.Report.Largest.Event.Magnitude, 0)
	assert.InDelta(t, 12.589, body.Report.ImpactRadiusKm, 0.001)
	require.Len(t, body.Report.AffectedCities, 2)
	assert.Equal(t, "CityA", body.Report.AffectedCities[0].City)
}

func TestSummary_RejectedStage(t *testing.T) {
	rec := get(t, newTestServer(testDataset()), "/api/summary?lat=-10,40")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Error  string `json:"error"`
		Stages []struct {
			Stage  string `json:"stage"`
			Status string `json:"status"`
			Reason string `json:"reason"`
		} `json:"stages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Error, "latitude stage rejected query")
	require.Len(t, body.Stages, 2)
	assert.Equal(t, "rejected", body.Stages[1].Status)
	assert.Equal(t, "one or more values out of range <(-10,40)>", body.Stages[1].Reason)
}

func TestGeoJSON(t *testing.T) {
	rec := get(t, newTestServer(testDataset()), "/api/quakes.geojson?type=Exp")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/geo+json", rec.Header().Get("Content-Type"))

	var doc struct {
		Features []json.RawMessage `json:"features"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Len(t, doc.Features, 1)
}

func TestServer_StartAndShutdown(t *testing.T) {
	srv := httpadapter.NewServer("127.0.0.1:0", &httpadapter.Store{}, slog.Default(), observability.NewMetricsForTesting())

	errc := make(chan error, 1)
	go func() { errc <- srv.Start() }()

	time.Sleep(50 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	err := <-errc
	assert.True(t, errors.Is(err, http.ErrServerClosed), "unexpected error: %v", err)
}
