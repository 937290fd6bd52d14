// Package analysis derives yearly statistics from a filtered quake set and
// reports the populated places inside the largest event's impact radius.
package analysis

import (
	"maps"
	"math"
	"slices"

	"github.com/couchcryptid/quake-impact/internal/domain"
)

// EventCountsByYear counts events per calendar year of OccurredAt.
func EventCountsByYear(set []domain.Entry) map[int]int {
	counts := make(map[int]int)
	for _, e := range set {
		counts[e.Event.OccurredAt.Year()]++
	}
	return counts
}

// AverageMagnitudeByYear returns the mean magnitude per calendar year. Only
// observed years appear, so no bucket is empty.
func AverageMagnitudeByYear(set []domain.Entry) map[int]float64 {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, e := range set {
		y := e.Event.OccurredAt.Year()
		sums[y] += e.Event.Magnitude
		counts[y]++
	}

	avg := make(map[int]float64, len(sums))
	for y, sum := range sums {
		avg[y] = sum / float64(counts[y])
	}
	return avg
}

// LargestEvent returns the entry with the highest magnitude. Ties go to the
// last such entry in set order. It reports false for an empty set.
func LargestEvent(set []domain.Entry) (domain.Entry, bool) {
	if len(set) == 0 {
		return domain.Entry{}, false
	}
	best := set[0]
	for _, e := range set[1:] {
		if e.Event.Magnitude >= best.Event.Magnitude {
			best = e
		}
	}
	return best, true
}

// ImpactRadiusKm estimates the felt radius of a quake as 10^(0.5m - 2) km.
// The estimate is not clamped.
func ImpactRadiusKm(magnitude float64) float64 {
	return math.Pow(10, 0.5*magnitude-2)
}

// Years returns the keys of a year-bucketed map in ascending order.
func Years[V any](byYear map[int]V) []int {
	return slices.Sorted(maps.Keys(byYear))
}
