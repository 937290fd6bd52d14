package analysis_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/quake-impact/internal/analysis"
	"github.com/couchcryptid/quake-impact/internal/domain"
)

func quake(lat, lon, mag float64, year int) domain.Entry {
	return domain.Entry{
		Point: domain.LocatedPoint{Lat: lat, Lon: lon},
		Event: domain.QuakeEvent{
			Type:       domain.EventTypeEarthquake,
			Magnitude:  mag,
			OccurredAt: time.Date(year, time.June, 1, 12, 0, 0, 0, time.UTC),
		},
	}
}

func TestEventCountsByYear(t *testing.T) {
	set := []domain.Entry{
		quake(1, 1, 4.0, 2019),
		quake(2, 2, 5.0, 2020),
		quake(3, 3, 6.0, 2020),
	}

	got := analysis.EventCountsByYear(set)
	assert.Equal(t, map[int]int{2019: 1, 2020: 2}, got)
	assert.Equal(t, got, analysis.EventCountsByYear(set), "repeated runs agree")
}

func TestAverageMagnitudeByYear(t *testing.T) {
	set := []domain.Entry{
		quake(1, 1, 4.0, 2019),
		quake(2, 2, 5.0, 2020),
		quake(3, 3, 6.0, 2020),
	}

	got := analysis.AverageMagnitudeByYear(set)
	require.Len(t, got, 2)
	assert.InDelta(t, 4.0, got[2019], 1e-9)
	assert.InDelta(t, 5.5, got[2020], 1e-9)
}

func TestSummaries_EmptySet(t *testing.T) {
	assert.Empty(t, analysis.EventCountsByYear(nil))
	assert.Empty(t, analysis.AverageMagnitudeByYear(nil))

	_, ok := analysis.LargestEvent(nil)
	assert.False(t, ok)
}

func TestLargestEvent(t *testing.T) {
	set := []domain.Entry{
		quake(1, 1, 4.0, 2020),
		quake(2, 2, 5.5, 2020),
		quake(3, 3, 6.2, 2021),
	}

	got, ok := analysis.LargestEvent(set)
	require.True(t, ok)
	assert.InDelta(t, 6.2, got.Event.Magnitude, 0)
	assert.Equal(t, domain.LocatedPoint{Lat: 3, Lon: 3}, got.Point)
}

func TestLargestEvent_TieGoesToLast(t *testing.T) {
	set := []domain.Entry{
		quake(1, 1, 6.0, 2020),
		quake(2, 2, 4.0, 2020),
		quake(3, 3, 6.0, 2020),
		quake(4, 4, 5.0, 2020),
	}

	got, ok := analysis.LargestEvent(set)
	require.True(t, ok)
	assert.Equal(t, domain.LocatedPoint{Lat: 3, Lon: 3}, got.Point)
}

func TestImpactRadiusKm(t *testing.T) {
	assert.InDelta(t, 12.589254, analysis.ImpactRadiusKm(6.2), 1e-6)
	assert.InDelta(t, 1.0, analysis.ImpactRadiusKm(4.0), 1e-12)
	assert.InDelta(t, 0.1, analysis.ImpactRadiusKm(2.0), 1e-12)
	assert.InDelta(t, 1000.0, analysis.ImpactRadiusKm(10.0), 1e-9)
}

func TestYears(t *testing.T) {
	assert.Equal(t, []int{1999, 2005, 2020}, analysis.Years(map[int]int{2020: 1, 1999: 4, 2005: 2}))
	assert.Empty(t, analysis.Years(map[int]float64{}))
}
