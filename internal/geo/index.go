package geo

import (
	"cmp"
	"math"
	"slices"

	"github.com/dhconnelly/rtreego"

	"github.com/couchcryptid/quake-impact/internal/domain"
	"github.com/couchcryptid/quake-impact/internal/observability"
)

const (
	pointTolerance = 1e-9
	boxMargin      = 1e-6 // degrees added on every side of a search box
)

// cityItem is a catalog entry stored in the R-tree. ord is its catalog
// position so results can be returned in catalog order.
type cityItem struct {
	rect  rtreego.Rect
	ord   int
	point domain.LocatedPoint
	city  domain.CityRecord
}

func (c *cityItem) Bounds() rtreego.Rect {
	return c.rect
}

// Index answers radius queries against a city catalog using an R-tree over
// degree coordinates. Results match FindNearby exactly.
type Index struct {
	catalog *domain.CityCatalog
	tree    *rtreego.Rtree
	metrics *observability.Metrics
}

// NewIndex bulk-loads every city in catalog. The catalog must not change
// afterwards.
func NewIndex(catalog *domain.CityCatalog, metrics *observability.Metrics) *Index {
	items := make([]rtreego.Spatial, 0, catalog.Len())
	for p, city := range catalog.All() {
		items = append(items, &cityItem{
			rect:  rtreego.Point{p.Lat, p.Lon}.ToRect(pointTolerance),
			ord:   len(items),
			point: p,
			city:  city,
		})
	}
	return &Index{
		catalog: catalog,
		tree:    rtreego.NewTree(2, 25, 50, items...),
		metrics: metrics,
	}
}

// Len returns the number of indexed cities.
func (ix *Index) Len() int {
	return ix.tree.Size()
}

// FindNearby returns every city strictly within radiusKm of center, in
// catalog order.
func (ix *Index) FindNearby(center domain.LocatedPoint, radiusKm float64) []domain.NearbyCityResult {
	ix.metrics.ProximitySearches.Inc()

	var out []domain.NearbyCityResult
	box, ok := searchBox(center, radiusKm)
	if ok {
		out = ix.searchTree(center, box, radiusKm)
	} else {
		out = FindNearby(center, ix.catalog, radiusKm)
	}

	ix.metrics.CitiesMatched.Observe(float64(len(out)))
	return out
}

func (ix *Index) searchTree(center domain.LocatedPoint, box rtreego.Rect, radiusKm float64) []domain.NearbyCityResult {
	hits := ix.tree.SearchIntersect(box)
	items := make([]*cityItem, 0, len(hits))
	for _, h := range hits {
		items = append(items, h.(*cityItem))
	}
	slices.SortFunc(items, func(a, b *cityItem) int {
		return cmp.Compare(a.ord, b.ord)
	})

	var out []domain.NearbyCityResult
	for _, it := range items {
		if r, ok := within(center, it.point, it.city, radiusKm); ok {
			out = append(out, r)
		}
	}
	return out
}

// searchBox returns the degree bounding box that contains every point within
// radiusKm of center. It reports false when the circle reaches a pole or
// crosses the antimeridian; callers then scan the whole catalog.
func searchBox(center domain.LocatedPoint, radiusKm float64) (rtreego.Rect, bool) {
	if radiusKm <= 0 {
		return rtreego.Rect{}, false
	}
	delta := radiusKm / EarthRadiusKm
	lat := center.Lat * math.Pi / 180

	minLat, maxLat := lat-delta, lat+delta
	if minLat <= -math.Pi/2 || maxLat >= math.Pi/2 {
		return rtreego.Rect{}, false
	}

	s := math.Sin(delta) / math.Cos(lat)
	if s >= 1 {
		return rtreego.Rect{}, false
	}
	dLon := math.Asin(s) * 180 / math.Pi
	minLon, maxLon := center.Lon-dLon, center.Lon+dLon
	if minLon < -180 || maxLon > 180 {
		return rtreego.Rect{}, false
	}

	rect, err := rtreego.NewRectFromPoints(
		rtreego.Point{minLat*180/math.Pi - boxMargin, minLon - boxMargin},
		rtreego.Point{maxLat*180/math.Pi + boxMargin, maxLon + boxMargin},
	)
	if err != nil {
		return rtreego.Rect{}, false
	}
	return rect, true
}
