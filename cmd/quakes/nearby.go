package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/quake-impact/internal/adapter/render"
	"github.com/couchcryptid/quake-impact/internal/domain"
	"github.com/couchcryptid/quake-impact/internal/geo"
)

var (
	nearbyLat    float64
	nearbyLon    float64
	nearbyRadius float64
)

var nearbyCmd = &cobra.Command{
	Use:   "nearby",
	Short: "List the cities within a radius of a point",
	Long:  "Searches the city catalog around --lat/--lon. The radius and printed distances use DISTANCE_UNIT.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if nearbyRadius <= 0 {
			return errors.New("--radius must be positive")
		}
		unit, err := geo.ParseUnit(cfg.DistanceUnit)
		if err != nil {
			return fmt.Errorf("distance unit: %w", err)
		}

		cats, err := loadCatalogs(cmd.Context())
		if err != nil {
			return err
		}

		center := domain.LocatedPoint{Lat: nearbyLat, Lon: nearbyLon}
		results := geo.NewIndex(cats.Cities, metrics).FindNearby(center, unit.ToKm(nearbyRadius))
		geo.SortByDistance(results)

		return render.NearbyTable(cmd.OutOrStdout(), results, unit, nearbyRadius)
	},
}

func init() {
	f := nearbyCmd.Flags()
	f.Float64Var(&nearbyLat, "lat", 0, "latitude of the search center in degrees")
	f.Float64Var(&nearbyLon, "lon", 0, "longitude of the search center in degrees")
	f.Float64Var(&nearbyRadius, "radius", 100, "search radius in DISTANCE_UNIT")
	_ = nearbyCmd.MarkFlagRequired("lat")
	_ = nearbyCmd.MarkFlagRequired("lon")
}
