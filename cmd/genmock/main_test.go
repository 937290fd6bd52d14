package main

import (
	"bytes"
	"math/rand/v2"
	"testing"

	"github.com/jszwec/csvutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	csvadapter "github.com/couchcryptid/quake-impact/internal/adapter/csv"
)

func TestGenerators_Deterministic(t *testing.T) {
	a := genQuakes(rand.New(rand.NewPCG(7, 7)), 50)
	b := genQuakes(rand.New(rand.NewPCG(7, 7)), 50)
	assert.Equal(t, a, b)
}

func TestGeneratedRowsLoad(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	cityCSV, err := csvutil.Marshal(genCities(rng, 40))
	require.NoError(t, err)
	cities, err := csvadapter.LoadCities(bytes.NewReader(cityCSV))
	require.NoError(t, err)
	assert.Positive(t, cities.Len())

	quakeCSV, err := csvutil.Marshal(genQuakes(rng, 200))
	require.NoError(t, err)
	quakes, err := csvadapter.LoadQuakes(bytes.NewReader(quakeCSV))
	require.NoError(t, err)
	assert.Positive(t, quakes.Len())

	for _, q := range quakes.All() {
		assert.True(t, q.Type.Known(), q.Type)
		assert.GreaterOrEqual(t, q.Magnitude, 5.5)
		assert.Contains(t, q.Extra, "ID")
	}
}
