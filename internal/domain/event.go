package domain

import "time"

// LocatedPoint is a WGS-84 coordinate pair in degrees. It is a comparable
// value type and keys both catalogs.
type LocatedPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// EventType is the tremor category of a QuakeEvent.
type EventType string

const (
	EventTypeEarthquake       EventType = "Earthquake"
	EventTypeExplosion        EventType = "Explosion"
	EventTypeNuclearExplosion EventType = "Nuclear Explosion"
	EventTypeRockBurst        EventType = "Rock Burst"
)

// Known reports whether t is one of the four recognised categories.
func (t EventType) Known() bool {
	switch t {
	case EventTypeEarthquake, EventTypeExplosion, EventTypeNuclearExplosion, EventTypeRockBurst:
		return true
	default:
		return false
	}
}

// CityRecord is a populated place from the city catalog.
type CityRecord struct {
	City       string `json:"city"`
	Country    string `json:"country"`
	Population int64  `json:"population"`
}

// QuakeEvent is a seismic record from the earthquake catalog.
type QuakeEvent struct {
	Type       EventType         `json:"type"`
	Magnitude  float64           `json:"magnitude"`
	OccurredAt time.Time         `json:"occurred_at"`
	Extra      map[string]string `json:"extra,omitempty"` // passthrough source columns
}

// Entry pairs a quake with its location. Working sets are ordered slices of entries.
type Entry struct {
	Point LocatedPoint `json:"point"`
	Event QuakeEvent   `json:"event"`
}

// NearbyCityResult is a city found within a search radius, annotated with its
// great-circle distance from the search center.
type NearbyCityResult struct {
	City       string  `json:"city"`
	Country    string  `json:"country"`
	Population int64   `json:"population"`
	DistanceKm float64 `json:"distance_km"` // rounded to 2 decimal places
}
