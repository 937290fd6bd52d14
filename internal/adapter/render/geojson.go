package render

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/couchcryptid/quake-impact/internal/domain"
)

// FeatureCollection converts a working set to GeoJSON points ordered by
// ascending magnitude, so the strongest events draw last on a scatter map.
func FeatureCollection(set []domain.Entry) *geojson.FeatureCollection {
	sorted := slices.Clone(set)
	slices.SortStableFunc(sorted, func(a, b domain.Entry) int {
		return cmp.Compare(a.Event.Magnitude, b.Event.Magnitude)
	})

	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(sorted))}
	for _, e := range sorted {
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: geom.NewPointFlat(geom.XY, []float64{e.Point.Lon, e.Point.Lat}).SetSRID(4326),
			Properties: map[string]any{
				"magnitude":   e.Event.Magnitude,
				"type":        string(e.Event.Type),
				"occurred_at": e.Event.OccurredAt.Format(time.RFC3339),
			},
		})
	}
	return fc
}

// GeoJSON writes set as a GeoJSON FeatureCollection.
func GeoJSON(w io.Writer, set []domain.Entry) error {
	data, err := json.Marshal(FeatureCollection(set))
	if err != nil {
		return fmt.Errorf("encode geojson: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write geojson: %w", err)
	}
	return nil
}
