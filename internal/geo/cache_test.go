package geo

import (
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/quake-impact/internal/domain"
	"github.com/couchcryptid/quake-impact/internal/observability"
)

// --- mock for cache tests ---

type countingSearcher struct {
	calls   int
	results []domain.NearbyCityResult
}

func (m *countingSearcher) FindNearby(_ domain.LocatedPoint, _ float64) []domain.NearbyCityResult {
	m.calls++
	return append([]domain.NearbyCityResult(nil), m.results...)
}

// --- CachedSearcher tests ---

func TestCachedSearcher_CacheHit(t *testing.T) {
	inner := &countingSearcher{results: []domain.NearbyCityResult{{City: "Austin", DistanceKm: 1.5}}}
	m := observability.NewMetricsForTesting()
	cached := NewCachedSearcher(inner, 10, m)
	center := domain.LocatedPoint{Lat: 30.2672, Lon: -97.7431}

	r1 := cached.FindNearby(center, 25)
	r2 := cached.FindNearby(center, 25)

	require.Len(t, r2, 1)
	assert.Equal(t, r1, r2)
	assert.Equal(t, 1, inner.calls, "should only call inner once")
	assert.InDelta(t, 1, testutil.ToFloat64(m.NearbyCache.WithLabelValues("hit")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.NearbyCache.WithLabelValues("miss")), 0)
}

func TestCachedSearcher_DifferentKeysMiss(t *testing.T) {
	inner := &countingSearcher{}
	cached := NewCachedSearcher(inner, 10, observability.NewMetricsForTesting())
	center := domain.LocatedPoint{Lat: 30.2672, Lon: -97.7431}

	cached.FindNearby(center, 25)
	cached.FindNearby(center, 26)
	cached.FindNearby(domain.LocatedPoint{Lat: 32.7767, Lon: -96.7970}, 25)

	assert.Equal(t, 3, inner.calls)
}

func TestCachedSearcher_NaNBypassesCache(t *testing.T) {
	inner := &countingSearcher{results: []domain.NearbyCityResult{{City: "Austin", DistanceKm: 1.5}}}
	m := observability.NewMetricsForTesting()
	cached := NewCachedSearcher(inner, 2, m)
	center := domain.LocatedPoint{Lat: 30.2672, Lon: -97.7431}

	cached.FindNearby(center, 25)
	for range 1000 {
		cached.FindNearby(center, math.NaN())
	}
	cached.FindNearby(domain.LocatedPoint{Lat: math.NaN(), Lon: 0}, 25)

	assert.Equal(t, 1, cached.cache.len(), "NaN keys are never stored")
	assert.Equal(t, 1002, inner.calls)
	assert.InDelta(t, 1001, testutil.ToFloat64(m.NearbyCache.WithLabelValues("bypass")), 0)

	cached.FindNearby(center, 25)
	assert.Equal(t, 1002, inner.calls, "valid entry survives the NaN traffic")
}

func TestCachedSearcher_CallerCannotCorruptCache(t *testing.T) {
	inner := &countingSearcher{results: []domain.NearbyCityResult{
		{City: "far", DistanceKm: 9},
		{City: "near", DistanceKm: 1},
	}}
	cached := NewCachedSearcher(inner, 10, observability.NewMetricsForTesting())
	center := domain.LocatedPoint{Lat: 1, Lon: 1}

	first := cached.FindNearby(center, 10)
	SortByDistance(first)

	second := cached.FindNearby(center, 10)
	assert.Equal(t, "far", second[0].City)
}

// --- LRU cache unit tests ---

func key(lat float64) searchKey {
	return searchKey{center: domain.LocatedPoint{Lat: lat}, radiusKm: 1}
}

func result(city string) []domain.NearbyCityResult {
	return []domain.NearbyCityResult{{City: city}}
}

func TestLRUCache_BasicGetPut(t *testing.T) {
	c := newLRUCache(3)

	c.put(key(1), result("A"))
	c.put(key(2), result("B"))

	got, ok := c.get(key(1))
	assert.True(t, ok)
	assert.Equal(t, "A", got[0].City)

	_, ok = c.get(key(9))
	assert.False(t, ok)
}

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache(2)

	c.put(key(1), result("A"))
	c.put(key(2), result("B"))
	c.put(key(3), result("C")) // evicts 1

	_, ok := c.get(key(1))
	assert.False(t, ok, "1 should have been evicted")

	got, ok := c.get(key(2))
	assert.True(t, ok)
	assert.Equal(t, "B", got[0].City)
	assert.Equal(t, 2, c.len())
}

func TestLRUCache_AccessPromotesEntry(t *testing.T) {
	c := newLRUCache(2)

	c.put(key(1), result("A"))
	c.put(key(2), result("B"))
	c.get(key(1))
	c.put(key(3), result("C"))

	_, ok := c.get(key(1))
	assert.True(t, ok, "1 was accessed recently, should not be evicted")

	_, ok = c.get(key(2))
	assert.False(t, ok, "2 should have been evicted")
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := newLRUCache(2)

	c.put(key(1), result("A1"))
	c.put(key(1), result("A2"))

	got, ok := c.get(key(1))
	assert.True(t, ok)
	assert.Equal(t, "A2", got[0].City)
	assert.Equal(t, 1, c.len())
}
