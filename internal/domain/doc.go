// Package domain models the earthquake and world-city catalogs analysed by
// the quakes command.
//
// # Data Sources
//
// Earthquake rows come from a significant-earthquakes CSV export with the
// columns Date, Time, Latitude, Longitude, Type, Magnitude and a set of
// passthrough columns (Depth, ID, Source, Status, ...). City rows come from a
// world-cities CSV with city, country, lat, lng and pop columns.
//
// # Timestamps
//
// Two layouts appear in the earthquake source:
//
//	Date "01/02/1965", Time "13:44:18"   →  date + time pair
//	Date "1975-02-23T02:58:41.000Z"      →  combined ISO-like value, Time ignored
//
// Both are interpreted as UTC. A row matching neither layout is a fatal
// ingestion error; see [ParseOccurredAt].
//
// # Catalog Keys
//
// Both catalogs are keyed by [LocatedPoint]. Coordinates are assumed unique;
// a later row at the same coordinate overwrites the earlier record but keeps
// its original iteration position. Catalogs are built once at startup and
// treated as read-only afterwards.
//
// # Event Types
//
// The tremor categories are Earthquake, Explosion, Nuclear Explosion and
// Rock Burst. Unrecognised values are kept verbatim so that downstream
// filtering can still offer them as categories.
package domain
