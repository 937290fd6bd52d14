package geo

import (
	"cmp"
	"slices"

	"github.com/couchcryptid/quake-impact/internal/domain"
)

// Searcher finds the cities strictly within radiusKm of center.
type Searcher interface {
	FindNearby(center domain.LocatedPoint, radiusKm float64) []domain.NearbyCityResult
}

// FindNearby scans the whole catalog and returns every city whose distance
// from center is strictly less than radiusKm, in catalog order. Distances are
// rounded to two decimals after the comparison.
func FindNearby(center domain.LocatedPoint, catalog *domain.CityCatalog, radiusKm float64) []domain.NearbyCityResult {
	var out []domain.NearbyCityResult
	for p, city := range catalog.All() {
		if r, ok := within(center, p, city, radiusKm); ok {
			out = append(out, r)
		}
	}
	return out
}

func within(center, p domain.LocatedPoint, city domain.CityRecord, radiusKm float64) (domain.NearbyCityResult, bool) {
	d := Distance(center, p, Kilometers)
	if d >= radiusKm {
		return domain.NearbyCityResult{}, false
	}
	return domain.NearbyCityResult{
		City:       city.City,
		Country:    city.Country,
		Population: city.Population,
		DistanceKm: round2(d),
	}, true
}

// SortByDistance orders results nearest first. Equal distances keep their
// relative order.
func SortByDistance(results []domain.NearbyCityResult) {
	slices.SortStableFunc(results, func(a, b domain.NearbyCityResult) int {
		return cmp.Compare(a.DistanceKm, b.DistanceKm)
	})
}

// Nearest returns the result with the smallest distance. The first of equal
// distances wins.
func Nearest(results []domain.NearbyCityResult) (domain.NearbyCityResult, bool) {
	if len(results) == 0 {
		return domain.NearbyCityResult{}, false
	}
	best := results[0]
	for _, r := range results[1:] {
		if r.DistanceKm < best.DistanceKm {
			best = r
		}
	}
	return best, true
}

// Closest returns the nearest city within radiusKm of center.
func Closest(center domain.LocatedPoint, catalog *domain.CityCatalog, radiusKm float64) (domain.NearbyCityResult, bool) {
	return Nearest(FindNearby(center, catalog, radiusKm))
}

// TotalPopulation sums the population of results.
func TotalPopulation(results []domain.NearbyCityResult) int64 {
	var total int64
	for _, r := range results {
		total += r.Population
	}
	return total
}
