package analysis

import (
	"log/slog"
	"time"

	"github.com/couchcryptid/quake-impact/internal/domain"
	"github.com/couchcryptid/quake-impact/internal/geo"
	"github.com/couchcryptid/quake-impact/internal/observability"
)

// DefaultClosestRadiusKm is the search radius for the single closest city.
const DefaultClosestRadiusKm = 5000.0

// Report is everything derived from a final working set.
type Report struct {
	Events                 int                       `json:"events"`
	CountsByYear           map[int]int               `json:"counts_by_year"`
	AverageMagnitudeByYear map[int]float64           `json:"average_magnitude_by_year"`
	Largest                *domain.Entry             `json:"largest,omitempty"`
	ImpactRadiusKm         float64                   `json:"impact_radius_km"`
	AffectedCities         []domain.NearbyCityResult `json:"affected_cities"`
	AffectedPopulation     int64                     `json:"affected_population"`
	Closest                *domain.NearbyCityResult  `json:"closest,omitempty"`
	ClosestRadiusKm        float64                   `json:"closest_radius_km"`
	GeneratedAt            time.Time                 `json:"generated_at"`
}

// Analyzer builds reports against a city searcher.
type Analyzer struct {
	searcher        geo.Searcher
	closestRadiusKm float64
	logger          *slog.Logger
	metrics         *observability.Metrics
}

// NewAnalyzer creates an Analyzer. A non-positive closestRadiusKm uses
// DefaultClosestRadiusKm.
func NewAnalyzer(searcher geo.Searcher, closestRadiusKm float64, logger *slog.Logger, metrics *observability.Metrics) *Analyzer {
	if closestRadiusKm <= 0 {
		closestRadiusKm = DefaultClosestRadiusKm
	}
	return &Analyzer{
		searcher:        searcher,
		closestRadiusKm: closestRadiusKm,
		logger:          logger,
		metrics:         metrics,
	}
}

// BuildReport summarizes set. Affected cities are sorted nearest first. An
// empty set produces a report with no largest event and no cities.
func (a *Analyzer) BuildReport(set []domain.Entry) Report {
	start := domain.Now()
	defer func() {
		a.metrics.ReportDuration.Observe(domain.Now().Sub(start).Seconds())
	}()

	r := Report{
		Events:                 len(set),
		CountsByYear:           EventCountsByYear(set),
		AverageMagnitudeByYear: AverageMagnitudeByYear(set),
		ClosestRadiusKm:        a.closestRadiusKm,
		GeneratedAt:            start,
	}

	largest, ok := LargestEvent(set)
	if !ok {
		a.logger.Info("report built for empty working set")
		return r
	}
	r.Largest = &largest
	r.ImpactRadiusKm = ImpactRadiusKm(largest.Event.Magnitude)

	r.AffectedCities = a.searcher.FindNearby(largest.Point, r.ImpactRadiusKm)
	geo.SortByDistance(r.AffectedCities)
	r.AffectedPopulation = geo.TotalPopulation(r.AffectedCities)

	if closest, ok := geo.Nearest(a.searcher.FindNearby(largest.Point, a.closestRadiusKm)); ok {
		r.Closest = &closest
	}

	a.logger.Info("report built",
		"events", r.Events,
		"largest_magnitude", largest.Event.Magnitude,
		"impact_radius_km", r.ImpactRadiusKm,
		"affected_cities", len(r.AffectedCities),
	)
	return r
}
