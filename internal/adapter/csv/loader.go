// Package csv loads the city and quake catalogs from CSV files with named
// header columns.
package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jszwec/csvutil"
	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/quake-impact/internal/domain"
)

// cityRow maps the worldcities export. Population is parsed by hand because
// the source leaves it blank or writes it as a decimal.
type cityRow struct {
	City       string  `csv:"city"`
	Country    string  `csv:"country"`
	Lat        float64 `csv:"lat"`
	Lng        float64 `csv:"lng"`
	Population string  `csv:"pop"`
}

type quakeRow struct {
	Date      string  `csv:"Date"`
	Time      string  `csv:"Time"`
	Latitude  float64 `csv:"Latitude"`
	Longitude float64 `csv:"Longitude"`
	Type      string  `csv:"Type"`
	Magnitude float64 `csv:"Magnitude"`
}

// LoadCities reads a city catalog. Rows with duplicate coordinates overwrite
// earlier rows.
func LoadCities(r io.Reader) (*domain.CityCatalog, error) {
	dec, err := csvutil.NewDecoder(csv.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("read city header: %w", err)
	}

	catalog := domain.NewCatalog[domain.CityRecord](0)
	for line := 2; ; line++ {
		var row cityRow
		if err := dec.Decode(&row); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("decode city line %d: %w", line, err)
		}

		pop, err := domain.ParsePopulation(row.Population)
		if err != nil {
			return nil, fmt.Errorf("city line %d: %w", line, err)
		}
		catalog.Put(domain.LocatedPoint{Lat: row.Lat, Lon: row.Lng}, domain.CityRecord{
			City:       row.City,
			Country:    row.Country,
			Population: pop,
		})
	}
	return catalog, nil
}

// LoadQuakes reads a quake catalog. Columns other than the mapped ones are kept
// in QuakeEvent.Extra. A timestamp that matches neither accepted layout fails
// the whole load.
func LoadQuakes(r io.Reader) (*domain.QuakeCatalog, error) {
	dec, err := csvutil.NewDecoder(csv.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("read quake header: %w", err)
	}
	header := dec.Header()

	catalog := domain.NewCatalog[domain.QuakeEvent](0)
	for line := 2; ; line++ {
		var row quakeRow
		if err := dec.Decode(&row); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("decode quake line %d: %w", line, err)
		}

		occurredAt, err := domain.ParseOccurredAt(row.Date, row.Time)
		if err != nil {
			return nil, fmt.Errorf("quake line %d: %w", line, err)
		}

		var extra map[string]string
		if unused := dec.Unused(); len(unused) > 0 {
			record := dec.Record()
			extra = make(map[string]string, len(unused))
			for _, i := range unused {
				extra[header[i]] = record[i]
			}
		}

		catalog.Put(domain.LocatedPoint{Lat: row.Latitude, Lon: row.Longitude}, domain.QuakeEvent{
			Type:       domain.EventType(row.Type),
			Magnitude:  row.Magnitude,
			OccurredAt: occurredAt,
			Extra:      extra,
		})
	}
	return catalog, nil
}

// Catalogs holds both loaded catalogs.
type Catalogs struct {
	Cities *domain.CityCatalog
	Quakes *domain.QuakeCatalog
}

// LoadFiles opens and loads both catalogs concurrently. The first failure
// cancels the other load.
func LoadFiles(ctx context.Context, cityPath, quakePath string) (Catalogs, error) {
	if err := ctx.Err(); err != nil {
		return Catalogs{}, err
	}

	var out Catalogs
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		cities, err := loadFile(gctx, cityPath, LoadCities)
		if err != nil {
			return err
		}
		out.Cities = cities
		return nil
	})
	g.Go(func() error {
		quakes, err := loadFile(gctx, quakePath, LoadQuakes)
		if err != nil {
			return err
		}
		out.Quakes = quakes
		return nil
	})

	if err := g.Wait(); err != nil {
		return Catalogs{}, err
	}
	return out, nil
}

func loadFile[T any](ctx context.Context, path string, load func(io.Reader) (T, error)) (T, error) {
	f, err := os.Open(path)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	v, err := load(&contextReader{ctx: ctx, r: f})
	if err != nil {
		return v, fmt.Errorf("load %s: %w", path, err)
	}
	return v, nil
}

// contextReader stops a decode at the next read once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}
