// Package geo computes great-circle distances and finds the cities that lie
// within a radius of a point.
package geo

import (
	"fmt"
	"math"
	"strings"

	"github.com/couchcryptid/quake-impact/internal/domain"
)

// Unit selects the Earth radius used for distances.
type Unit string

const (
	Kilometers Unit = "km"
	Miles      Unit = "mi"
)

// Mean Earth radius per unit.
const (
	EarthRadiusKm = 6371.0
	EarthRadiusMi = 3956.0
)

// Radius returns the Earth radius in u. Unknown units use kilometers.
func (u Unit) Radius() float64 {
	if u == Miles {
		return EarthRadiusMi
	}
	return EarthRadiusKm
}

// FromKm converts a kilometer distance to u.
func (u Unit) FromKm(km float64) float64 {
	return km * u.Radius() / EarthRadiusKm
}

// ToKm converts a distance in u to kilometers.
func (u Unit) ToKm(d float64) float64 {
	return d * EarthRadiusKm / u.Radius()
}

// ParseUnit maps "km" or "mi" (case-insensitive) to a Unit.
func ParseUnit(s string) (Unit, error) {
	switch Unit(strings.ToLower(strings.TrimSpace(s))) {
	case Kilometers:
		return Kilometers, nil
	case Miles:
		return Miles, nil
	default:
		return "", fmt.Errorf("unknown distance unit %q", s)
	}
}

// Radians is a LocatedPoint converted to radians.
type Radians struct {
	Lat float64
	Lon float64
}

// ToRadians converts a degree coordinate pair to radians.
func ToRadians(p domain.LocatedPoint) Radians {
	return Radians{
		Lat: p.Lat * math.Pi / 180,
		Lon: p.Lon * math.Pi / 180,
	}
}

// Distance returns the Haversine great-circle distance between p1 and p2.
// Coordinates are not range checked.
func Distance(p1, p2 domain.LocatedPoint, unit Unit) float64 {
	r1, r2 := ToRadians(p1), ToRadians(p2)
	dlat := r2.Lat - r1.Lat
	dlon := r2.Lon - r1.Lon

	sinLat := math.Sin(dlat / 2)
	sinLon := math.Sin(dlon / 2)
	a := sinLat*sinLat + math.Cos(r1.Lat)*math.Cos(r2.Lat)*sinLon*sinLon
	// Rounding can push a just past 1 for antipodal points.
	a = math.Min(1, a)

	c := 2 * math.Asin(math.Sqrt(a))
	return c * unit.Radius()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
