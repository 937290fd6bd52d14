// Command genmock writes deterministic synthetic city and earthquake catalogs
// in the same CSV layout as the real exports, then loads them back through the
// ingestion package to prove they parse.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -out data/mock \
//	  -cities 500 -quakes 2000 -seed 42
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/jszwec/csvutil"

	csvadapter "github.com/couchcryptid/quake-impact/internal/adapter/csv"
	"github.com/couchcryptid/quake-impact/internal/analysis"
	"github.com/couchcryptid/quake-impact/internal/domain"
)

var baseDate = time.Date(1965, time.January, 1, 0, 0, 0, 0, time.UTC)

type cityRow struct {
	City    string  `csv:"city"`
	Lat     float64 `csv:"lat"`
	Lng     float64 `csv:"lng"`
	Country string  `csv:"country"`
	Pop     string  `csv:"pop"`
}

type quakeRow struct {
	Date      string  `csv:"Date"`
	Time      string  `csv:"Time"`
	Latitude  float64 `csv:"Latitude"`
	Longitude float64 `csv:"Longitude"`
	Type      string  `csv:"Type"`
	Depth     float64 `csv:"Depth"`
	Magnitude float64 `csv:"Magnitude"`
	ID        string  `csv:"ID"`
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out", "", "directory for worldcities and earthquakes CSV fixtures")
	nCities := flag.Int("cities", 500, "number of cities")
	nQuakes := flag.Int("quakes", 2000, "number of quakes")
	seed := flag.Uint64("seed", 42, "random seed")
	flag.Parse()

	if *outDir == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}

	rng := rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))
	cityPath := filepath.Join(*outDir, "worldcities.csv")
	quakePath := filepath.Join(*outDir, "earthquakes.csv")

	if err := writeCSV(cityPath, genCities(rng, *nCities)); err != nil {
		return fmt.Errorf("writing cities: %w", err)
	}
	if err := writeCSV(quakePath, genQuakes(rng, *nQuakes)); err != nil {
		return fmt.Errorf("writing quakes: %w", err)
	}
	log.Printf("wrote %s and %s", cityPath, quakePath)

	cats, err := csvadapter.LoadFiles(context.Background(), cityPath, quakePath)
	if err != nil {
		return fmt.Errorf("reloading fixtures: %w", err)
	}
	printStats(cats)
	return nil
}

func genCities(rng *rand.Rand, n int) []cityRow {
	rows := make([]cityRow, 0, n)
	for i := range n {
		pop := ""
		if rng.IntN(10) > 0 {
			pop = fmt.Sprint(rng.IntN(5_000_000))
		}
		rows = append(rows, cityRow{
			City:    fmt.Sprintf("City %04d", i),
			Lat:     round4(rng.Float64()*170 - 85),
			Lng:     round4(rng.Float64()*360 - 180),
			Country: fmt.Sprintf("Country %02d", rng.IntN(50)),
			Pop:     pop,
		})
	}
	return rows
}

var eventTypes = []domain.EventType{
	domain.EventTypeEarthquake,
	domain.EventTypeExplosion,
	domain.EventTypeNuclearExplosion,
	domain.EventTypeRockBurst,
}

func genQuakes(rng *rand.Rand, n int) []quakeRow {
	span := time.Date(2016, time.December, 31, 0, 0, 0, 0, time.UTC).Sub(baseDate)
	rows := make([]quakeRow, 0, n)
	for i := range n {
		at := baseDate.Add(time.Duration(rng.Int64N(int64(span)))).Truncate(time.Second)

		// Mostly earthquakes, like the real catalog.
		typ := domain.EventTypeEarthquake
		if rng.IntN(20) == 0 {
			typ = eventTypes[1+rng.IntN(len(eventTypes)-1)]
		}

		row := quakeRow{
			Date:      at.Format("01/02/2006"),
			Time:      at.Format("15:04:05"),
			Latitude:  round4(rng.Float64()*160 - 80),
			Longitude: round4(rng.Float64()*360 - 180),
			Type:      string(typ),
			Depth:     round4(rng.Float64() * 700),
			Magnitude: float64(55+rng.IntN(37)) / 10,
			ID:        fmt.Sprintf("MOCK%06d", i),
		}
		// Some rows carry the combined timestamp in both columns.
		if rng.IntN(50) == 0 {
			row.Date = at.Format(domain.CombinedLayout)
			row.Time = row.Date
		}
		rows = append(rows, row)
	}
	return rows
}

func writeCSV[T any](path string, rows []T) error {
	data, err := csvutil.Marshal(rows)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func round4(v float64) float64 {
	return float64(int64(v*10000)) / 10000
}

func printStats(cats csvadapter.Catalogs) {
	entries := domain.Entries(cats.Quakes)

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Cities: %d\n", cats.Cities.Len())
	fmt.Printf("Quakes: %d\n", len(entries))

	byType := map[domain.EventType]int{}
	for _, e := range entries {
		byType[e.Event.Type]++
	}
	for _, t := range eventTypes {
		fmt.Printf("  %-18s %d\n", t, byType[t])
	}

	if largest, ok := analysis.LargestEvent(entries); ok {
		fmt.Printf("Largest: %.1f at (%g, %g)\n", largest.Event.Magnitude, largest.Point.Lat, largest.Point.Lon)
	}

	counts := analysis.EventCountsByYear(entries)
	years := analysis.Years(counts)
	if len(years) == 0 {
		return
	}
	fmt.Printf("Years: %d through %d\n", years[0], years[len(years)-1])
	busiest := slices.MaxFunc(years, func(a, b int) int { return counts[a] - counts[b] })
	fmt.Printf("Busiest year: %d (%d events)\n", busiest, counts[busiest])
}
