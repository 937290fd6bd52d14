package domain

import "iter"

// Catalog is an insertion-ordered mapping from LocatedPoint to a record.
// Put on an existing key replaces the value in place.
type Catalog[V any] struct {
	index  map[LocatedPoint]int
	points []LocatedPoint
	values []V
}

// CityCatalog maps city locations to city records.
type CityCatalog = Catalog[CityRecord]

// QuakeCatalog maps quake locations to quake events.
type QuakeCatalog = Catalog[QuakeEvent]

// NewCatalog creates an empty catalog with room for capacity records.
func NewCatalog[V any](capacity int) *Catalog[V] {
	return &Catalog[V]{
		index:  make(map[LocatedPoint]int, capacity),
		points: make([]LocatedPoint, 0, capacity),
		values: make([]V, 0, capacity),
	}
}

// Put stores v at p. Duplicate coordinates overwrite the earlier record.
func (c *Catalog[V]) Put(p LocatedPoint, v V) {
	if i, ok := c.index[p]; ok {
		c.values[i] = v
		return
	}
	c.index[p] = len(c.points)
	c.points = append(c.points, p)
	c.values = append(c.values, v)
}

// Get returns the record stored at p.
func (c *Catalog[V]) Get(p LocatedPoint) (V, bool) {
	i, ok := c.index[p]
	if !ok {
		var zero V
		return zero, false
	}
	return c.values[i], true
}

// Len returns the number of distinct locations.
func (c *Catalog[V]) Len() int {
	if c == nil {
		return 0
	}
	return len(c.points)
}

// All iterates the catalog in insertion order.
func (c *Catalog[V]) All() iter.Seq2[LocatedPoint, V] {
	return func(yield func(LocatedPoint, V) bool) {
		if c == nil {
			return
		}
		for i, p := range c.points {
			if !yield(p, c.values[i]) {
				return
			}
		}
	}
}

// Entries returns the quake catalog as a fresh working set in catalog order.
func Entries(c *QuakeCatalog) []Entry {
	out := make([]Entry, 0, c.Len())
	for p, ev := range c.All() {
		out = append(out, Entry{Point: p, Event: ev})
	}
	return out
}
