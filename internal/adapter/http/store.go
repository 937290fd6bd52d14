package http

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/couchcryptid/quake-impact/internal/analysis"
	"github.com/couchcryptid/quake-impact/internal/domain"
	"github.com/couchcryptid/quake-impact/internal/geo"
)

var errNotLoaded = errors.New("catalogs have not been loaded yet")

// Dataset is the read-only state served by the API.
type Dataset struct {
	Quakes   []domain.Entry
	Cities   int
	Searcher geo.Searcher
	Analyzer *analysis.Analyzer
}

// Store publishes a Dataset once catalogs finish loading.
type Store struct {
	ds atomic.Pointer[Dataset]
}

// Set publishes ds.
func (s *Store) Set(ds *Dataset) {
	s.ds.Store(ds)
}

// Dataset returns the published dataset, or nil before loading completes.
func (s *Store) Dataset() *Dataset {
	return s.ds.Load()
}

// CheckReadiness returns nil once a dataset has been published.
func (s *Store) CheckReadiness(_ context.Context) error {
	if s.ds.Load() == nil {
		return errNotLoaded
	}
	return nil
}
